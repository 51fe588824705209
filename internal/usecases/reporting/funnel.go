package reporting

import (
	"sort"
	"time"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

// Janela de atribuição visita → pedido
const visitMatchWindow = 7 * 24 * time.Hour

// GroupOrdersByClient indexa os pedidos concretizados por cliente, cada lista
// em ordem crescente de data, para o casamento temporal varrer uma vez só
func GroupOrdersByClient(orders []*domain.Order) map[int][]*domain.Order {
	byClient := make(map[int][]*domain.Order)

	for _, order := range orders {
		if order == nil || order.CreatedAt.IsZero() || !order.Status.Realized() {
			continue
		}

		byClient[order.ClientID] = append(byClient[order.ClientID], order)
	}

	for _, list := range byClient {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		})
	}

	return byClient
}

// MatchVisitToOrder procura o primeiro pedido do cliente da visita dentro da
// janela de sete dias a partir do agendamento. Pedidos anteriores à visita não
// contam; a existência basta, não há exigência de unicidade.
func MatchVisitToOrder(visit *domain.Visit, ordersByClient map[int][]*domain.Order) (*domain.Order, bool) {
	if visit == nil || visit.ScheduledAt.IsZero() {
		return nil, false
	}

	deadline := visit.ScheduledAt.Add(visitMatchWindow)
	for _, order := range ordersByClient[visit.ClientID] {
		if order.CreatedAt.Before(visit.ScheduledAt) {
			continue
		}
		if order.CreatedAt.After(deadline) {
			break
		}

		return order, true
	}

	return nil, false
}

// BuildFunnel monta os contadores de estágio do funil Visita Planejada →
// Realizada → Visita-com-Pedido → Aprovado → Concluído e as taxas entre
// estágios consecutivos
func BuildFunnel(visits []*domain.Visit, orders []*domain.Order) *domain.Funnel {
	funnel := &domain.Funnel{}

	for _, order := range orders {
		if order == nil {
			continue
		}

		switch order.Status {
		case domain.OrderStatusApproved:
			funnel.ApprovedOrders++
		case domain.OrderStatusCompleted:
			funnel.CompletedOrders++
		}
	}

	byClient := GroupOrdersByClient(orders)

	var totalDays float64
	var matched int

	for _, visit := range visits {
		if visit == nil || visit.ScheduledAt.IsZero() {
			continue
		}

		funnel.PlannedVisits++

		if visit.Status != domain.VisitStatusDone {
			continue
		}
		funnel.DoneVisits++

		order, found := MatchVisitToOrder(visit, byClient)
		if !found {
			continue
		}

		funnel.VisitsWithOrder++
		totalDays += order.CreatedAt.Sub(visit.ScheduledAt).Hours() / 24
		matched++
	}

	funnel.VisitsWithoutOrder = funnel.DoneVisits - funnel.VisitsWithOrder
	funnel.AvgDaysVisitToOrder = utils.SafeDiv(totalDays, float64(matched))

	funnel.VisitCompletionRate = utils.SafePercent(float64(funnel.DoneVisits), float64(funnel.PlannedVisits))
	funnel.VisitToOrderRate = utils.SafePercent(float64(funnel.VisitsWithOrder), float64(funnel.DoneVisits))
	funnel.OrderApprovalRate = utils.SafePercent(float64(funnel.ApprovedOrders), float64(funnel.VisitsWithOrder))
	funnel.OrderCompletionRate = utils.SafePercent(float64(funnel.CompletedOrders), float64(funnel.ApprovedOrders))

	return funnel
}

// EnrichWithMatches aplica o casamento visita → pedido por comercial sobre os
// acumuladores da agregação, preenchendo visitas-com-pedido e a média de dias
// entre visita e pedido
func EnrichWithMatches(stats []*CommercialStats, visits []*domain.Visit, orders []*domain.Order) {
	byClient := GroupOrdersByClient(orders)

	type matchTotals struct {
		count int
		days  float64
	}
	byCommercial := make(map[int]*matchTotals)

	for _, visit := range visits {
		if visit == nil || visit.Status != domain.VisitStatusDone {
			continue
		}

		order, found := MatchVisitToOrder(visit, byClient)
		if !found {
			continue
		}

		totals, exists := byCommercial[visit.CommercialID]
		if !exists {
			totals = &matchTotals{}
			byCommercial[visit.CommercialID] = totals
		}
		totals.count++
		totals.days += order.CreatedAt.Sub(visit.ScheduledAt).Hours() / 24
	}

	for _, s := range stats {
		totals, exists := byCommercial[s.CommercialID]
		if !exists {
			continue
		}

		s.VisitsWithOrder = totals.count
		s.AvgDaysToOrder = utils.SafeDiv(totals.days, float64(totals.count))
	}
}
