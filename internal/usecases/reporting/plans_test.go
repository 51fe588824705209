package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vfarma/sales-force-api/internal/domain"
)

func TestAchievements(t *testing.T) {
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	brandA := 1
	brandB := 2

	itemOf := func(productID, brandID, quantity int, price string) *domain.OrderItem {
		return &domain.OrderItem{
			ProductID: productID,
			Product:   &domain.Product{ID: productID, BrandID: &brandID},
			Quantity:  quantity,
			UnitPrice: decimal.RequireFromString(price),
		}
	}

	orders := []*domain.Order{
		{
			ID: 1, CommercialID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 500,
			Items: []*domain.OrderItem{
				itemOf(100, brandA, 2, "100"), // 200 da marca A
				itemOf(200, brandB, 3, "100"), // 300 da marca B
			},
		},
		{
			ID: 2, CommercialID: 2, ClientID: 11, CreatedAt: base, Status: domain.OrderStatusCompleted, TotalAmount: 300,
			Items: []*domain.OrderItem{
				itemOf(100, brandA, 3, "100"), // 300 da marca A
			},
		},
		// Cancelado não conta para nenhuma meta
		{ID: 3, CommercialID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusCanceled, TotalAmount: 9999},
	}

	t.Run("Meta de equipe sem marca mede o valor cheio dos pedidos concretizados", func(t *testing.T) {
		target := 1000.0
		plans := []*domain.Plan{
			{ID: 1, Month: 1, Year: 2024, TotalTarget: &target},
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Len(t, results, 1)
		assert.Equal(t, "plan", results[0].Source)
		assert.Equal(t, 800.0, results[0].Achieved)
		assert.Equal(t, 80.0, results[0].Percentage)
	})

	t.Run("Meta com marca mede somente as linhas daquela marca", func(t *testing.T) {
		target := 400.0
		plans := []*domain.Plan{
			{ID: 2, BrandID: &brandA, Brand: &domain.Brand{ID: brandA, Name: "Genéricos Vitalle"}, Month: 1, Year: 2024, TotalTarget: &target},
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Len(t, results, 1)
		assert.Equal(t, "Genéricos Vitalle", results[0].Brand)
		assert.Equal(t, 500.0, results[0].Achieved) // 200 + 300 da marca A
		assert.Equal(t, 125.0, results[0].Percentage)
	})

	t.Run("Meta por comercial restringe os pedidos ao comercial", func(t *testing.T) {
		target := 1000.0
		plans := []*domain.Plan{
			{ID: 3, CommercialID: intPtr(1), Month: 1, Year: 2024, TotalTarget: &target},
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Equal(t, 500.0, results[0].Achieved)
		assert.Equal(t, 50.0, results[0].Percentage)
	})

	t.Run("Meta sem alvo positivo aparece com percentual zero", func(t *testing.T) {
		zero := 0.0
		plans := []*domain.Plan{
			{ID: 4, Month: 1, Year: 2024, TotalTarget: &zero},
			{ID: 5, Month: 1, Year: 2024}, // Alvo nulo
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Len(t, results, 2)
		for _, result := range results {
			assert.Equal(t, 0.0, result.Target)
			assert.Equal(t, 0.0, result.Percentage)
			assert.Equal(t, 800.0, result.Achieved)
		}
	})

	t.Run("Meta de outro mês é ignorada", func(t *testing.T) {
		target := 1000.0
		plans := []*domain.Plan{
			{ID: 6, Month: 2, Year: 2024, TotalTarget: &target},
			{ID: 7, Month: 1, Year: 2023, TotalTarget: &target},
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Empty(t, results)
	})

	t.Run("Realização por produto é limitada a 100 por cento", func(t *testing.T) {
		plans := []*domain.Plan{
			{
				ID: 8, Month: 1, Year: 2024,
				ProductTargets: []*domain.PlanProductTarget{
					{ProductID: 100, Product: &domain.Product{ID: 100, Name: "Dipirona 500mg"}, QuantityTarget: 2},
					{ProductID: 200, QuantityTarget: 10},
					{ProductID: 300, QuantityTarget: 5}, // Nunca pedido
				},
			},
		}

		results := Achievements(plans, nil, orders, 1, 2024)

		assert.Len(t, results[0].Products, 3)

		dipirona := results[0].Products[0]
		assert.Equal(t, "Dipirona 500mg", dipirona.Name)
		assert.Equal(t, 5, dipirona.QuantityOrdered) // 2 + 3, acima do alvo
		assert.Equal(t, 100.0, dipirona.Percentage)  // Capado

		assert.Equal(t, "Produto 200", results[0].Products[1].Name)
		assert.Equal(t, 30.0, results[0].Products[1].Percentage)

		assert.Equal(t, 0, results[0].Products[2].QuantityOrdered)
		assert.Equal(t, 0.0, results[0].Products[2].Percentage)
	})

	t.Run("Atribuições legadas entram depois dos planos diretos", func(t *testing.T) {
		target := 1000.0
		plans := []*domain.Plan{
			{ID: 1, Month: 1, Year: 2024, TotalTarget: &target},
		}
		assignments := []*domain.PlanAssignment{
			{PlanID: 9, CommercialID: 2, Commercial: &domain.Commercial{ID: 2, Name: "Bruno"}, Target: 200},
		}

		results := Achievements(plans, assignments, orders, 1, 2024)

		assert.Len(t, results, 2)
		assert.Equal(t, "plan", results[0].Source)
		assert.Equal(t, "assignment", results[1].Source)
		assert.Equal(t, "Bruno", results[1].CommercialName)
		assert.Equal(t, 300.0, results[1].Achieved)
		assert.Equal(t, 150.0, results[1].Percentage) // Meta total não é capada
	})
}
