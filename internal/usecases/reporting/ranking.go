package reporting

import (
	"sort"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

// ScorePolicy define a fórmula do score composto de um comercial. As duas
// variantes históricas divergem apenas na normalização do faturamento; a
// escolha é explícita por tipo de relatório e não deve ser unificada sem
// alinhamento com o produto.
type ScorePolicy struct {
	Name             string
	NormalizeAmount  bool    // Divide o faturamento por 1000 antes do peso
	AmountWeight     float64
	OrdersWeight     float64 // Aplicado sobre orders × 10
	ConversionWeight float64
	CompletionWeight float64
}

var (
	// ManagerScorePolicy é a fórmula do relatório gerencial (faturamento normalizado)
	ManagerScorePolicy = ScorePolicy{
		Name:             "manager",
		NormalizeAmount:  true,
		AmountWeight:     0.4,
		OrdersWeight:     0.2,
		ConversionWeight: 0.2,
		CompletionWeight: 0.2,
	}

	// DirectorScorePolicy é a fórmula do relatório da diretoria (sem normalização)
	DirectorScorePolicy = ScorePolicy{
		Name:             "director",
		NormalizeAmount:  false,
		AmountWeight:     0.4,
		OrdersWeight:     0.2,
		ConversionWeight: 0.2,
		CompletionWeight: 0.2,
	}
)

// Score calcula o score composto a partir das métricas derivadas do comercial
func (p ScorePolicy) Score(amount float64, orders int, conversionRate, completionRate float64) float64 {
	amountTerm := amount
	if p.NormalizeAmount {
		amountTerm = amount / 1000
	}

	score := amountTerm*p.AmountWeight +
		float64(orders)*10*p.OrdersWeight +
		conversionRate*p.ConversionWeight +
		completionRate*p.CompletionWeight

	return utils.RoundWithTwoDecimalPlace(score)
}

// Rank deriva as taxas de cada comercial, aplica a política de score e ordena
// de forma decrescente e estável (empates preservam a ordem de entrada),
// atribuindo posições a partir de 1
func Rank(stats []*CommercialStats, policy ScorePolicy) []*domain.CommercialPerformance {
	ranking := make([]*domain.CommercialPerformance, 0, len(stats))

	for _, s := range stats {
		perf := buildPerformance(s)
		perf.Score = policy.Score(perf.Amount, perf.Orders, perf.ConversionRate, perf.VisitCompletionRate)
		ranking = append(ranking, perf)
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Score > ranking[j].Score
	})

	for i, perf := range ranking {
		perf.Rank = i + 1
	}

	return ranking
}

func buildPerformance(s *CommercialStats) *domain.CommercialPerformance {
	return &domain.CommercialPerformance{
		CommercialID:        s.CommercialID,
		Name:                s.Name,
		Amount:              utils.RoundWithTwoDecimalPlace(s.Amount),
		Orders:              s.Orders,
		AvgOrderValue:       utils.SafeDiv(s.Amount, float64(s.Orders)),
		Visits:              s.Visits,
		VisitsDone:          s.VisitsDone,
		VisitsWithOrder:     s.VisitsWithOrder,
		ConversionRate:      utils.SafePercent(float64(s.VisitsWithOrder), float64(s.VisitsDone)),
		VisitCompletionRate: utils.SafePercent(float64(s.VisitsDone), float64(s.Visits)),
		AvgDaysToOrder:      utils.RoundWithTwoDecimalPlace(s.AvgDaysToOrder),
	}
}
