package reporting

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/vfarma/sales-force-api/infrastructure/repository/mocks"
	"github.com/vfarma/sales-force-api/internal/config"
	"github.com/vfarma/sales-force-api/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Reporting: config.Reporting{
			TopProducts: 10,
			TopClients:  10,
		},
	}
}

func newTestService(t *testing.T) (*Service, *mocks.MockOrderRepository, *mocks.MockVisitRepository, *mocks.MockPlanRepository, *mocks.MockClientRepository) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	orderRepo := mocks.NewMockOrderRepository(ctrl)
	visitRepo := mocks.NewMockVisitRepository(ctrl)
	planRepo := mocks.NewMockPlanRepository(ctrl)
	clientRepo := mocks.NewMockClientRepository(ctrl)

	service := &Service{
		cfg:              testConfig(),
		orderRepository:  orderRepo,
		visitRepository:  visitRepo,
		planRepository:   planRepo,
		clientRepository: clientRepo,
		reasonParser:     NewCancellationParser(),
		now:              func() time.Time { return time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC) },
	}

	return service, orderRepo, visitRepo, planRepo, clientRepo
}

func TestService_ManagerReport(t *testing.T) {
	t.Run("Monta o relatório com as janelas atual e anterior", func(t *testing.T) {
		service, orderRepo, visitRepo, planRepo, _ := newTestService(t)

		window := MonthWindow(2024, 3)
		previous := PreviousWindow(2024, 3)

		orders := []*domain.Order{
			{ID: 1, CommercialID: 1, ClientID: 10, CreatedAt: window.From.AddDate(0, 0, 4), Status: domain.OrderStatusApproved, TotalAmount: 300},
		}
		visits := []*domain.Visit{
			{ID: 1, CommercialID: 1, ClientID: 10, ScheduledAt: window.From.AddDate(0, 0, 2), Status: domain.VisitStatusDone},
		}
		prevOrders := []*domain.Order{
			{ID: 2, CommercialID: 1, ClientID: 10, CreatedAt: previous.From, Status: domain.OrderStatusCompleted, TotalAmount: 200},
		}

		orderRepo.EXPECT().ListByPeriod(window, nil).Return(orders, nil)
		orderRepo.EXPECT().ListByPeriod(previous, nil).Return(prevOrders, nil)
		visitRepo.EXPECT().ListByPeriod(window, nil).Return(visits, nil)
		planRepo.EXPECT().ListByMonth(3, 2024).Return(nil, nil)
		planRepo.EXPECT().ListAssignments(3, 2024).Return(nil, nil)

		report, err := service.ManagerReport(&domain.ReportFilters{Year: 2024, Month: 3})

		assert.NoError(t, err)
		assert.Equal(t, window, report.Period)
		assert.Equal(t, 300.0, report.Summary.TotalSales)
		assert.Equal(t, 200.0, report.Summary.PreviousSales)
		assert.Equal(t, 50.0, report.Summary.SalesChange)
		assert.Len(t, report.Ranking, 1)
		assert.Equal(t, 1, report.Ranking[0].Rank)
		assert.Len(t, report.SalesByWeekday, 7)
		assert.Len(t, report.SalesByHour, 24)
	})

	t.Run("Falha em qualquer busca derruba o relatório inteiro", func(t *testing.T) {
		service, orderRepo, visitRepo, planRepo, _ := newTestService(t)

		window := MonthWindow(2024, 3)
		previous := PreviousWindow(2024, 3)

		orderRepo.EXPECT().ListByPeriod(window, nil).Return(nil, nil)
		orderRepo.EXPECT().ListByPeriod(previous, nil).Return(nil, nil)
		visitRepo.EXPECT().ListByPeriod(window, nil).Return(nil, errors.New("conexão perdida"))
		planRepo.EXPECT().ListByMonth(3, 2024).Return(nil, nil)
		planRepo.EXPECT().ListAssignments(3, 2024).Return(nil, nil)

		report, err := service.ManagerReport(&domain.ReportFilters{Year: 2024, Month: 3})

		assert.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "falha ao buscar os dados do relatório")
	})
}

func TestService_DirectorReport(t *testing.T) {
	t.Run("Acrescenta coorte, churn, funil e tendência de seis meses", func(t *testing.T) {
		service, orderRepo, visitRepo, planRepo, clientRepo := newTestService(t)

		window := MonthWindow(2024, 3)

		orders := []*domain.Order{
			{ID: 1, CommercialID: 1, ClientID: 10, Client: &domain.Client{ID: 10, Name: "Drogaria A"}, CreatedAt: window.From.AddDate(0, 0, 4), Status: domain.OrderStatusApproved, TotalAmount: 300},
		}
		history := []*domain.Order{
			{ID: 9, CommercialID: 1, ClientID: 10, Client: &domain.Client{ID: 10, Name: "Drogaria A"}, CreatedAt: time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), Status: domain.OrderStatusCompleted, TotalAmount: 150},
			orders[0],
		}

		// Janela atual, mês anterior e os seis meses da tendência
		orderRepo.EXPECT().ListByPeriod(window, nil).Return(orders, nil)
		orderRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(nil, nil).AnyTimes()
		visitRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(nil, nil).AnyTimes()
		planRepo.EXPECT().ListByMonth(3, 2024).Return(nil, nil)
		planRepo.EXPECT().ListAssignments(3, 2024).Return(nil, nil)

		orderRepo.EXPECT().ListHistory(nil).Return(history, nil)
		clientRepo.EXPECT().ListBranches().Return(nil, nil)
		visitRepo.EXPECT().ListDone().Return(nil, nil)

		report, err := service.DirectorReport(&domain.ReportFilters{Year: 2024, Month: 3})

		assert.NoError(t, err)
		assert.NotNil(t, report.Cohort)
		assert.Equal(t, 1, report.Cohort.ExistingClientOrders)
		assert.NotNil(t, report.Funnel)
		assert.Len(t, report.Trend, 6)
		assert.Equal(t, 10, report.Trend[0].Month) // Outubro de 2023 abre a série
		assert.Equal(t, 3, report.Trend[5].Month)
		assert.Len(t, report.TopLifetimeClients, 1)
		assert.Equal(t, 450.0, report.TopLifetimeClients[0].TotalRevenue)
	})

	t.Run("Qualquer falha de busca derruba o relatório", func(t *testing.T) {
		service, orderRepo, visitRepo, planRepo, clientRepo := newTestService(t)

		orderRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(nil, errors.New("timeout")).AnyTimes()
		visitRepo.EXPECT().ListByPeriod(gomock.Any(), nil).Return(nil, nil).AnyTimes()
		planRepo.EXPECT().ListByMonth(3, 2024).Return(nil, nil).AnyTimes()
		planRepo.EXPECT().ListAssignments(3, 2024).Return(nil, nil).AnyTimes()
		orderRepo.EXPECT().ListHistory(nil).Return(nil, nil).AnyTimes()
		clientRepo.EXPECT().ListBranches().Return(nil, nil).AnyTimes()
		visitRepo.EXPECT().ListDone().Return(nil, nil).AnyTimes()

		report, err := service.DirectorReport(&domain.ReportFilters{Year: 2024, Month: 3})

		assert.Error(t, err)
		assert.Nil(t, report)
	})
}

func TestService_CommercialReport(t *testing.T) {
	t.Run("Exige o comercial no filtro", func(t *testing.T) {
		service, _, _, _, _ := newTestService(t)

		report, err := service.CommercialReport(&domain.ReportFilters{Year: 2024, Month: 3})

		assert.Error(t, err)
		assert.Nil(t, report)
	})

	t.Run("Monta o recorte individual com a posição do comercial", func(t *testing.T) {
		service, orderRepo, visitRepo, planRepo, _ := newTestService(t)

		commercialID := 7
		filters := &domain.ReportFilters{Year: 2024, Month: 3, CommercialID: &commercialID}

		window := MonthWindow(2024, 3)
		previous := PreviousWindow(2024, 3)

		orders := []*domain.Order{
			{ID: 1, CommercialID: 7, ClientID: 10, CreatedAt: window.From.AddDate(0, 0, 4), Status: domain.OrderStatusApproved, TotalAmount: 300},
		}

		orderRepo.EXPECT().ListByPeriod(window, &commercialID).Return(orders, nil)
		orderRepo.EXPECT().ListByPeriod(previous, &commercialID).Return(nil, nil)
		visitRepo.EXPECT().ListByPeriod(window, &commercialID).Return(nil, nil)
		planRepo.EXPECT().ListByMonth(3, 2024).Return(nil, nil)
		planRepo.EXPECT().ListAssignments(3, 2024).Return(nil, nil)

		report, err := service.CommercialReport(filters)

		assert.NoError(t, err)
		assert.NotNil(t, report.Performance)
		assert.Equal(t, 7, report.Performance.CommercialID)
		assert.Equal(t, 1, report.Performance.Rank)
		assert.Equal(t, 300.0, report.Summary.TotalSales)
	})
}
