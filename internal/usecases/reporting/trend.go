package reporting

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

const trendMonths = 6

// buildTrend monta a série dos 6 meses que terminam no mês solicitado. As
// buscas mensais são independentes e rodam em paralelo; o slice indexado
// preserva a ordem do mais antigo para o mais recente independentemente da
// ordem de conclusão. Qualquer falha de busca derruba a série inteira.
func (s *Service) buildTrend(year, month int, commercialID *int) ([]*domain.TrendPoint, error) {
	refs := TrailingMonths(year, month, trendMonths)

	points := make([]*domain.TrendPoint, len(refs))
	errs := make([]error, len(refs))

	// Limita as consultas simultâneas ao banco
	const maxConcurrent = 3
	semaphore := make(chan struct{}, maxConcurrent)

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)

		go func(i int, ref MonthRef) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			points[i], errs[i] = s.trendPoint(ref, commercialID)
		}(i, ref)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"year":  refs[i].Year,
				"month": refs[i].Month,
			}).Error("Erro ao buscar dados do mês para a tendência")

			return nil, errors.Wrap(err, "falha ao montar a série de tendência")
		}
	}

	return points, nil
}

// trendPoint calcula o ponto mensal reduzido: total vendido, pedidos e visitas,
// sem as quebras dimensionais completas
func (s *Service) trendPoint(ref MonthRef, commercialID *int) (*domain.TrendPoint, error) {
	window := MonthWindow(ref.Year, ref.Month)

	orders, err := s.orderRepository.ListByPeriod(window, commercialID)
	if err != nil {
		return nil, err
	}

	visits, err := s.visitRepository.ListByPeriod(window, commercialID)
	if err != nil {
		return nil, err
	}

	point := &domain.TrendPoint{Year: ref.Year, Month: ref.Month}

	for _, order := range orders {
		if order == nil || !order.Status.Realized() {
			continue
		}

		point.Sales += order.TotalAmount
		point.Orders++
	}
	point.Sales = utils.RoundWithTwoDecimalPlace(point.Sales)

	for _, visit := range visits {
		if visit == nil || visit.ScheduledAt.IsZero() {
			continue
		}

		point.Visits++
	}

	return point, nil
}
