package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfarma/sales-force-api/infrastructure/repository/mocks"
	"github.com/vfarma/sales-force-api/internal/domain"
)

func floatPtr(f float64) *float64 {
	return &f
}

func TestPlanProgressService_SyncPlanProgress(t *testing.T) {
	t.Run("Ciclo completo busca pedidos e metas do mês corrente", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
		mockPlanRepo := mocks.NewMockPlanRepository(ctrl)

		service := &PlanProgressService{
			orderRepo: mockOrderRepo,
			planRepo:  mockPlanRepo,
		}

		now := time.Now()
		year, month := now.Year(), int(now.Month())

		orders := []*domain.Order{
			{ID: 1, CommercialID: 1, ClientID: 1, CreatedAt: now, Status: domain.OrderStatusApproved, TotalAmount: 500},
		}
		plans := []*domain.Plan{
			{ID: 1, Month: month, Year: year, TotalTarget: floatPtr(10000)},
		}

		mockOrderRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(orders, nil)
		mockPlanRepo.EXPECT().ListByMonth(month, year).Return(plans, nil)
		mockPlanRepo.EXPECT().ListAssignments(month, year).Return(nil, nil)

		err := service.SyncPlanProgress()

		assert.NoError(t, err)

		status := service.GetStatus()
		assert.NotEmpty(t, status["last_run_id"])
		assert.False(t, status["last_sync_started_at"].(time.Time).IsZero())
		assert.False(t, status["last_sync_completed_at"].(time.Time).IsZero())
	})

	t.Run("Erro na busca de pedidos interrompe o ciclo", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
		mockPlanRepo := mocks.NewMockPlanRepository(ctrl)

		service := &PlanProgressService{
			orderRepo: mockOrderRepo,
			planRepo:  mockPlanRepo,
		}

		mockOrderRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(nil, errors.New("conexão perdida"))

		err := service.SyncPlanProgress()

		assert.Error(t, err)
	})

	t.Run("Ciclo já em execução não dispara outro", func(t *testing.T) {
		service := &PlanProgressService{
			syncRunning: true,
		}

		// Nenhuma expectativa nos repositórios: o ciclo deve sair cedo
		err := service.SyncPlanProgress()

		assert.NoError(t, err)
	})
}

func TestPlanProgressService_Start(t *testing.T) {
	t.Run("Desabilitado por configuração não agenda nada", func(t *testing.T) {
		service := &PlanProgressService{
			config: PlanProgressConfig{Enabled: false},
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		err := service.Start(ctx)

		assert.NoError(t, err)
	})
}

func TestPlanProgressService_GetStatus(t *testing.T) {
	t.Run("Expõe a configuração e os carimbos do último ciclo", func(t *testing.T) {
		service := &PlanProgressService{
			config: PlanProgressConfig{
				CronSchedule: "0 6 * * *",
				Enabled:      true,
			},
			lastRunID: "abc123de",
		}

		status := service.GetStatus()

		assert.Equal(t, true, status["sync_enabled"])
		assert.Equal(t, "0 6 * * *", status["sync_cron"])
		assert.Equal(t, "abc123de", status["last_run_id"])
	})
}
