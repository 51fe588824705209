// Package scheduler contém os serviços de agendamento da aplicação
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/sirupsen/logrus"

	"github.com/vfarma/sales-force-api/infrastructure/repository"
	"github.com/vfarma/sales-force-api/internal/config"
	"github.com/vfarma/sales-force-api/internal/usecases/reporting"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

type PlanProgressConfig struct {
	CronSchedule string
	Enabled      bool
}

// PlanProgressService acompanha diariamente a realização das metas do mês
// corrente e registra os comerciais abaixo do ritmo esperado
type PlanProgressService struct {
	scheduler           *gocron.Scheduler
	orderRepo           repository.OrderRepository
	planRepo            repository.PlanRepository
	config              PlanProgressConfig
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
}

func NewPlanProgressService(
	orderRepo repository.OrderRepository,
	planRepo repository.PlanRepository,
	cfg *config.Config,
) *PlanProgressService {
	progressConfig := PlanProgressConfig{
		CronSchedule: cfg.PlanProgressSync.CronSchedule, // Default: 6h da manhã todos os dias
		Enabled:      cfg.PlanProgressSync.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": progressConfig.CronSchedule,
	}).Info("Configuração do agendador de acompanhamento de metas carregada")

	return &PlanProgressService{
		scheduler: scheduler,
		orderRepo: orderRepo,
		planRepo:  planRepo,
		config:    progressConfig,
	}
}

func (s *PlanProgressService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron de acompanhamento de metas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron de acompanhamento de metas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.SyncPlanProgress(); err != nil {
			logrus.WithError(err).Error("Erro no acompanhamento de metas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar acompanhamento de metas: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron de acompanhamento de metas")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *PlanProgressService) SyncPlanProgress() error {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	if s.syncRunning {
		logrus.Warn("Acompanhamento de metas já está em execução")
		return nil
	}

	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.lastRunID, _ = gonanoid.Generate(runIDAlphabet, 8)
	defer func() {
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
	}()

	now := time.Now()
	year, month := now.Year(), int(now.Month())

	logger := logrus.WithFields(logrus.Fields{
		"run_id": s.lastRunID,
		"year":   year,
		"month":  month,
	})
	logger.Info("Iniciando acompanhamento de metas do mês")

	window := reporting.MonthWindow(year, month)

	orders, err := s.orderRepo.ListByPeriod(window, nil)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar pedidos do mês para o acompanhamento de metas")
		return err
	}

	plans, err := s.planRepo.ListByMonth(month, year)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar metas do mês")
		return err
	}

	assignments, err := s.planRepo.ListAssignments(month, year)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar atribuições de meta do mês")
		return err
	}

	achievements := reporting.Achievements(plans, assignments, orders, month, year)

	// Ritmo esperado: fração do mês já decorrida
	elapsed := float64(now.Day()) / float64(window.To.Day()) * 100

	behind := 0
	for _, achievement := range achievements {
		if achievement.Target <= 0 {
			continue
		}

		if achievement.Percentage < elapsed {
			behind++
			logger.WithFields(logrus.Fields{
				"plan_id":    achievement.PlanID,
				"source":     achievement.Source,
				"commercial": achievement.CommercialName,
				"target":     achievement.Target,
				"achieved":   achievement.Achieved,
				"percentage": achievement.Percentage,
				"expected":   elapsed,
			}).Warn("Meta abaixo do ritmo esperado")
		}
	}

	logger.WithFields(logrus.Fields{
		"plans":  len(achievements),
		"behind": behind,
	}).Info("Acompanhamento de metas concluído")

	return nil
}

// TriggerManualSync inicia manualmente um ciclo de acompanhamento de metas
func (s *PlanProgressService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Acompanhamento de metas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando acompanhamento manual de metas")
	go s.SyncPlanProgress()
}

// GetStatus retorna o status atual do agendador
func (s *PlanProgressService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.Enabled,
		"sync_cron":              s.config.CronSchedule,
		"last_run_id":            s.lastRunID,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
	}
}
