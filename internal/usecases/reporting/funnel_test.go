package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vfarma/sales-force-api/internal/domain"
)

func TestMatchVisitToOrder(t *testing.T) {
	visitDate := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	visit := &domain.Visit{ID: 1, ClientID: 1, ScheduledAt: visitDate, Status: domain.VisitStatusDone}

	t.Run("Pedido três dias depois da visita casa", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, 3), Status: domain.OrderStatusApproved, TotalAmount: 100},
		})

		order, found := MatchVisitToOrder(visit, orders)

		assert.True(t, found)
		assert.Equal(t, 1, order.ID)
	})

	t.Run("Pedido anterior à visita não casa", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, -1), Status: domain.OrderStatusApproved, TotalAmount: 100},
		})

		_, found := MatchVisitToOrder(visit, orders)

		assert.False(t, found)
	})

	t.Run("Pedido depois da janela de sete dias não casa", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, 8), Status: domain.OrderStatusApproved, TotalAmount: 100},
		})

		_, found := MatchVisitToOrder(visit, orders)

		assert.False(t, found)
	})

	t.Run("Pedido no instante do agendamento casa", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: visitDate, Status: domain.OrderStatusCompleted, TotalAmount: 100},
		})

		_, found := MatchVisitToOrder(visit, orders)

		assert.True(t, found)
	})

	t.Run("Escolhe o primeiro pedido dentro da janela", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 2, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, 5), Status: domain.OrderStatusApproved, TotalAmount: 100},
			{ID: 1, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, 2), Status: domain.OrderStatusApproved, TotalAmount: 100},
		})

		order, found := MatchVisitToOrder(visit, orders)

		assert.True(t, found)
		assert.Equal(t, 1, order.ID)
	})

	t.Run("Pedido de outro cliente não casa", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 99, CreatedAt: visitDate.AddDate(0, 0, 1), Status: domain.OrderStatusApproved, TotalAmount: 100},
		})

		_, found := MatchVisitToOrder(visit, orders)

		assert.False(t, found)
	})

	t.Run("Pedido não concretizado não participa do casamento", func(t *testing.T) {
		orders := GroupOrdersByClient([]*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: visitDate.AddDate(0, 0, 1), Status: domain.OrderStatusPending, TotalAmount: 100},
		})

		_, found := MatchVisitToOrder(visit, orders)

		assert.False(t, found)
	})
}

func TestBuildFunnel(t *testing.T) {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Contadores de estágio e taxas entre estágios consecutivos", func(t *testing.T) {
		visits := []*domain.Visit{
			{ID: 1, ClientID: 1, ScheduledAt: base, Status: domain.VisitStatusDone},
			{ID: 2, ClientID: 2, ScheduledAt: base, Status: domain.VisitStatusDone},
			{ID: 3, ClientID: 3, ScheduledAt: base, Status: domain.VisitStatusPlanned},
			{ID: 4, ClientID: 3, ScheduledAt: base, Status: domain.VisitStatusCanceled},
		}
		orders := []*domain.Order{
			// Casa com a visita 1, dois dias depois
			{ID: 1, ClientID: 1, CreatedAt: base.AddDate(0, 0, 2), Status: domain.OrderStatusApproved, TotalAmount: 100},
			// Concluído sem visita associada
			{ID: 2, ClientID: 9, CreatedAt: base, Status: domain.OrderStatusCompleted, TotalAmount: 100},
		}

		funnel := BuildFunnel(visits, orders)

		assert.Equal(t, 4, funnel.PlannedVisits)
		assert.Equal(t, 2, funnel.DoneVisits)
		assert.Equal(t, 1, funnel.VisitsWithOrder)
		assert.Equal(t, 1, funnel.VisitsWithoutOrder)
		assert.Equal(t, 1, funnel.ApprovedOrders)
		assert.Equal(t, 1, funnel.CompletedOrders)

		assert.Equal(t, 50.0, funnel.VisitCompletionRate) // 2 de 4
		assert.Equal(t, 50.0, funnel.VisitToOrderRate)    // 1 de 2
		assert.Equal(t, 100.0, funnel.OrderApprovalRate)  // 1 de 1
		assert.Equal(t, 100.0, funnel.OrderCompletionRate)

		assert.Equal(t, 2.0, funnel.AvgDaysVisitToOrder)
	})

	t.Run("Funil vazio não produz divisão por zero", func(t *testing.T) {
		funnel := BuildFunnel(nil, nil)

		assert.Equal(t, 0, funnel.PlannedVisits)
		assert.Equal(t, 0.0, funnel.VisitCompletionRate)
		assert.Equal(t, 0.0, funnel.VisitToOrderRate)
		assert.Equal(t, 0.0, funnel.OrderApprovalRate)
		assert.Equal(t, 0.0, funnel.OrderCompletionRate)
		assert.Equal(t, 0.0, funnel.AvgDaysVisitToOrder)
	})
}

func TestEnrichWithMatches(t *testing.T) {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("Preenche visitas-com-pedido e média de dias por comercial", func(t *testing.T) {
		visits := []*domain.Visit{
			{ID: 1, CommercialID: 1, ClientID: 1, ScheduledAt: base, Status: domain.VisitStatusDone},
			{ID: 2, CommercialID: 1, ClientID: 2, ScheduledAt: base, Status: domain.VisitStatusDone},
			{ID: 3, CommercialID: 2, ClientID: 3, ScheduledAt: base, Status: domain.VisitStatusDone},
		}
		orders := []*domain.Order{
			{ID: 1, ClientID: 1, CreatedAt: base.AddDate(0, 0, 1), Status: domain.OrderStatusApproved, TotalAmount: 100},
			{ID: 2, ClientID: 2, CreatedAt: base.AddDate(0, 0, 3), Status: domain.OrderStatusApproved, TotalAmount: 100},
		}

		stats := []*CommercialStats{
			{CommercialID: 1},
			{CommercialID: 2},
		}

		EnrichWithMatches(stats, visits, orders)

		assert.Equal(t, 2, stats[0].VisitsWithOrder)
		assert.Equal(t, 2.0, stats[0].AvgDaysToOrder) // Média de 1 e 3 dias

		assert.Equal(t, 0, stats[1].VisitsWithOrder)
		assert.Equal(t, 0.0, stats[1].AvgDaysToOrder)
	})
}
