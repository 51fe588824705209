package reporting

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfarma/sales-force-api/infrastructure/repository"
	"github.com/vfarma/sales-force-api/internal/config"
	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

// Service monta os relatórios analíticos a partir dos repositórios de leitura.
// Todo o estado é escopado à requisição; não há cache entre chamadas.
type Service struct {
	cfg              *config.Config
	orderRepository  repository.OrderRepository
	visitRepository  repository.VisitRepository
	planRepository   repository.PlanRepository
	clientRepository repository.ClientRepository
	reasonParser     ReasonParser
	now              func() time.Time
}

// NewService cria uma nova instância do serviço de relatórios
func NewService(
	cfg *config.Config,
	orderRepo repository.OrderRepository,
	visitRepo repository.VisitRepository,
	planRepo repository.PlanRepository,
	clientRepo repository.ClientRepository,
) Reporter {
	return &Service{
		cfg:              cfg,
		orderRepository:  orderRepo,
		visitRepository:  visitRepo,
		planRepository:   planRepo,
		clientRepository: clientRepo,
		reasonParser:     NewCancellationParser(),
		now:              time.Now,
	}
}

// windowData é o snapshot de leitura de uma janela de relatório
type windowData struct {
	orders      []*domain.Order
	visits      []*domain.Visit
	prevOrders  []*domain.Order
	plans       []*domain.Plan
	assignments []*domain.PlanAssignment
}

// fetchWindow busca em paralelo os conjuntos independentes da janela: pedidos,
// visitas, pedidos do mês anterior e metas. Qualquer falha derruba o relatório
// inteiro; nenhum agregado parcial é retornado.
func (s *Service) fetchWindow(filters *domain.ReportFilters) (*windowData, error) {
	window := MonthWindow(filters.Year, filters.Month)
	previous := PreviousWindow(filters.Year, filters.Month)

	data := &windowData{}

	var (
		ordersErr      error
		visitsErr      error
		prevErr        error
		plansErr       error
		assignmentsErr error
	)

	wg := sync.WaitGroup{}
	wg.Add(5)

	go func() {
		defer wg.Done()
		data.orders, ordersErr = s.orderRepository.ListByPeriod(window, filters.CommercialID)
	}()

	go func() {
		defer wg.Done()
		data.visits, visitsErr = s.visitRepository.ListByPeriod(window, filters.CommercialID)
	}()

	go func() {
		defer wg.Done()
		data.prevOrders, prevErr = s.orderRepository.ListByPeriod(previous, filters.CommercialID)
	}()

	go func() {
		defer wg.Done()
		data.plans, plansErr = s.planRepository.ListByMonth(filters.Month, filters.Year)
	}()

	go func() {
		defer wg.Done()
		data.assignments, assignmentsErr = s.planRepository.ListAssignments(filters.Month, filters.Year)
	}()

	wg.Wait()

	for _, err := range []error{ordersErr, visitsErr, prevErr, plansErr, assignmentsErr} {
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"year":  filters.Year,
				"month": filters.Month,
			}).Error("Erro ao buscar os dados da janela do relatório")

			return nil, errors.Wrap(err, "falha ao buscar os dados do relatório")
		}
	}

	return data, nil
}

// ManagerReport monta o relatório gerencial do mês
func (s *Service) ManagerReport(filters *domain.ReportFilters) (*domain.ManagerReport, error) {
	data, err := s.fetchWindow(filters)
	if err != nil {
		return nil, err
	}

	report := s.assembleManager(filters, data, ManagerScorePolicy)

	return report, nil
}

// DirectorReport monta o relatório da diretoria: o gerencial acrescido de
// coorte, churn, motivos de cancelamento, filiais sem visita, funil, valor de
// vida e tendência de 6 meses
func (s *Service) DirectorReport(filters *domain.ReportFilters) (*domain.DirectorReport, error) {
	data, err := s.fetchWindow(filters)
	if err != nil {
		return nil, err
	}

	// O histórico completo, as filiais e as visitas concluídas alimentam as
	// análises de retenção; buscas independentes em paralelo
	var (
		history    []*domain.Order
		branches   []*domain.Branch
		doneVisits []*domain.Visit

		historyErr  error
		branchesErr error
		visitsErr   error
	)

	wg := sync.WaitGroup{}
	wg.Add(3)

	go func() {
		defer wg.Done()
		history, historyErr = s.orderRepository.ListHistory(filters.CommercialID)
	}()

	go func() {
		defer wg.Done()
		branches, branchesErr = s.clientRepository.ListBranches()
	}()

	go func() {
		defer wg.Done()
		doneVisits, visitsErr = s.visitRepository.ListDone()
	}()

	wg.Wait()

	for _, err := range []error{historyErr, branchesErr, visitsErr} {
		if err != nil {
			logrus.WithError(err).Error("Erro ao buscar os dados de retenção do relatório")
			return nil, errors.Wrap(err, "falha ao buscar os dados de retenção")
		}
	}

	trend, err := s.buildTrend(filters.Year, filters.Month, filters.CommercialID)
	if err != nil {
		return nil, err
	}

	manager := s.assembleManager(filters, data, DirectorScorePolicy)
	window := manager.Period
	now := s.now()

	report := &domain.DirectorReport{
		ManagerReport:       *manager,
		Cohort:              AnalyzeCohort(history, window),
		ChurnRisk:           ChurnRisk(history, window.From, now),
		CancellationReasons: CancellationReasons(data.visits, s.reasonParser),
		UnvisitedBranches:   UnvisitedBranches(branches, doneVisits, now),
		Funnel:              BuildFunnel(data.visits, data.orders),
		TopLifetimeClients:  LifetimeValue(history),
		Trend:               trend,
	}

	return report, nil
}

// CommercialReport monta o recorte individual de um comercial
func (s *Service) CommercialReport(filters *domain.ReportFilters) (*domain.CommercialReport, error) {
	if filters == nil || filters.CommercialID == nil {
		return nil, errors.New("o relatório individual exige o comercial no filtro")
	}

	data, err := s.fetchWindow(filters)
	if err != nil {
		return nil, err
	}

	agg := Aggregate(data.orders, data.visits)
	stats := agg.Commercials()
	EnrichWithMatches(stats, data.visits, data.orders)

	report := &domain.CommercialReport{
		Filters:         filters,
		Period:          MonthWindow(filters.Year, filters.Month),
		Summary:         buildSummary(agg, data.prevOrders),
		SalesByDay:      agg.DailySeries(),
		SalesByWeekday:  agg.WeekdaySeries(),
		Funnel:          BuildFunnel(data.visits, data.orders),
		PlanAchievement: Achievements(data.plans, data.assignments, data.orders, filters.Month, filters.Year),
	}

	for _, perf := range Rank(stats, ManagerScorePolicy) {
		if perf.CommercialID == *filters.CommercialID {
			report.Performance = perf
			break
		}
	}

	return report, nil
}

func (s *Service) assembleManager(filters *domain.ReportFilters, data *windowData, policy ScorePolicy) *domain.ManagerReport {
	agg := Aggregate(data.orders, data.visits)

	stats := agg.Commercials()
	EnrichWithMatches(stats, data.visits, data.orders)

	return &domain.ManagerReport{
		Filters:         filters,
		Period:          MonthWindow(filters.Year, filters.Month),
		Summary:         buildSummary(agg, data.prevOrders),
		SalesByDay:      agg.DailySeries(),
		SalesByWeekday:  agg.WeekdaySeries(),
		SalesByHour:     agg.HourSeries(),
		SalesByBrand:    agg.TopBrands(),
		TopProducts:     agg.TopProducts(s.cfg.Reporting.TopProducts),
		TopClients:      agg.TopClients(s.cfg.Reporting.TopClients),
		Ranking:         Rank(stats, policy),
		PlanAchievement: Achievements(data.plans, data.assignments, data.orders, filters.Month, filters.Year),
	}
}

// buildSummary compara os totais da janela com o mês anterior. Variação
// percentual é 0 quando o período anterior é 0.
func buildSummary(agg *Aggregation, prevOrders []*domain.Order) *domain.ReportSummary {
	var prevSales float64
	var prevCount int
	for _, order := range prevOrders {
		if order == nil || !order.Status.Realized() {
			continue
		}

		prevSales += order.TotalAmount
		prevCount++
	}

	return &domain.ReportSummary{
		TotalSales:     utils.RoundWithTwoDecimalPlace(agg.TotalSales),
		PreviousSales:  utils.RoundWithTwoDecimalPlace(prevSales),
		SalesChange:    utils.SafePercent(agg.TotalSales-prevSales, prevSales),
		TotalOrders:    agg.TotalOrders,
		PreviousOrders: prevCount,
		OrdersChange:   utils.SafePercent(float64(agg.TotalOrders-prevCount), float64(prevCount)),
		AvgOrderValue:  utils.SafeDiv(agg.TotalSales, float64(agg.TotalOrders)),
		TotalVisits:    agg.TotalVisits,
		VisitsDone:     agg.VisitsDone,
	}
}
