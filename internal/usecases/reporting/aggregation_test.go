package reporting

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/vfarma/sales-force-api/internal/domain"
)

func intPtr(i int) *int {
	return &i
}

func TestAggregate(t *testing.T) {
	// Terça-feira, 10h
	base := time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)

	brandID := 7
	makeItem := func(productID, quantity int, price string) *domain.OrderItem {
		return &domain.OrderItem{
			ProductID: productID,
			Product: &domain.Product{
				ID:      productID,
				Name:    "Produto Teste",
				BrandID: &brandID,
				Brand:   &domain.Brand{ID: brandID, Name: "Genéricos Vitalle"},
			},
			Quantity:  quantity,
			UnitPrice: decimal.RequireFromString(price),
		}
	}

	t.Run("Totais e média sobre pedidos concretizados", func(t *testing.T) {
		orders := []*domain.Order{
			{ID: 1, CommercialID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 100},
			{ID: 2, CommercialID: 1, ClientID: 10, CreatedAt: base.Add(time.Hour), Status: domain.OrderStatusCompleted, TotalAmount: 150},
			{ID: 3, CommercialID: 2, ClientID: 11, CreatedAt: base.AddDate(0, 0, 1), Status: domain.OrderStatusApproved, TotalAmount: 100},
			// Pendentes e cancelados ficam de fora do faturamento
			{ID: 4, CommercialID: 2, ClientID: 11, CreatedAt: base, Status: domain.OrderStatusPending, TotalAmount: 999},
			{ID: 5, CommercialID: 2, ClientID: 11, CreatedAt: base, Status: domain.OrderStatusCanceled, TotalAmount: 999},
		}

		agg := Aggregate(orders, nil)

		assert.Equal(t, 350.0, agg.TotalSales)
		assert.Equal(t, 3, agg.TotalOrders)
	})

	t.Run("Registros malformados são excluídos sem abortar", func(t *testing.T) {
		orders := []*domain.Order{
			nil,
			{ID: 1, Status: domain.OrderStatusApproved, TotalAmount: 100}, // Sem data
			{ID: 2, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: -5},
			{ID: 3, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 80},
		}
		visits := []*domain.Visit{
			nil,
			{ID: 1, Status: domain.VisitStatusDone}, // Sem data
			{ID: 2, CommercialID: 1, ScheduledAt: base, Status: domain.VisitStatusDone},
		}

		agg := Aggregate(orders, visits)

		assert.Equal(t, 80.0, agg.TotalSales)
		assert.Equal(t, 1, agg.TotalOrders)
		assert.Equal(t, 1, agg.TotalVisits)
		assert.Equal(t, 1, agg.VisitsDone)
	})

	t.Run("Série diária em ordem crescente e soma igual ao total", func(t *testing.T) {
		orders := []*domain.Order{
			{ID: 1, ClientID: 10, CreatedAt: base.AddDate(0, 0, 2), Status: domain.OrderStatusApproved, TotalAmount: 50},
			{ID: 2, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 100},
			{ID: 3, ClientID: 10, CreatedAt: base.Add(2 * time.Hour), Status: domain.OrderStatusCompleted, TotalAmount: 30},
		}

		agg := Aggregate(orders, nil)
		series := agg.DailySeries()

		assert.Len(t, series, 2)
		assert.Equal(t, "2024-01-02", series[0].Date)
		assert.Equal(t, 130.0, series[0].Amount)
		assert.Equal(t, 2, series[0].Orders)
		assert.Equal(t, "2024-01-04", series[1].Date)

		var sum float64
		for _, day := range series {
			sum += day.Amount
		}
		assert.Equal(t, agg.TotalSales, sum)
	})

	t.Run("Baldes de dia da semana e hora sempre completos", func(t *testing.T) {
		orders := []*domain.Order{
			{ID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 100},
		}
		visits := []*domain.Visit{
			{ID: 1, CommercialID: 1, ScheduledAt: base, Status: domain.VisitStatusPlanned},
		}

		agg := Aggregate(orders, visits)

		weekdays := agg.WeekdaySeries()
		assert.Len(t, weekdays, 7)
		assert.Equal(t, 100.0, weekdays[2].Amount) // Terça
		assert.Equal(t, 1, weekdays[2].Visits)
		assert.Equal(t, 0.0, weekdays[0].Amount)

		hours := agg.HourSeries()
		assert.Len(t, hours, 24)
		assert.Equal(t, 100.0, hours[10].Amount)
		assert.Equal(t, 1, hours[10].Orders)
	})

	t.Run("Linha sem marca cai no rótulo de fallback", func(t *testing.T) {
		orders := []*domain.Order{
			{
				ID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 60,
				Items: []*domain.OrderItem{
					{ProductID: 99, Quantity: 2, UnitPrice: decimal.RequireFromString("30")},
				},
			},
		}

		agg := Aggregate(orders, nil)
		brands := agg.TopBrands()

		assert.Len(t, brands, 1)
		assert.Equal(t, "Sem marca", brands[0].Brand)
		assert.Equal(t, 60.0, brands[0].Amount)

		products := agg.TopProducts(0)
		assert.Len(t, products, 1)
		assert.Equal(t, "Produto 99", products[0].Name)
	})

	t.Run("Pedidos distintos por produto: duas linhas do mesmo produto contam uma vez", func(t *testing.T) {
		orders := []*domain.Order{
			{
				ID: 1, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 90,
				Items: []*domain.OrderItem{
					makeItem(5, 1, "30"),
					makeItem(5, 2, "30"),
				},
			},
			{
				ID: 2, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 30,
				Items: []*domain.OrderItem{
					makeItem(5, 1, "30"),
				},
			},
		}

		agg := Aggregate(orders, nil)
		products := agg.TopProducts(0)

		assert.Len(t, products, 1)
		assert.Equal(t, 4, products[0].Quantity)
		assert.Equal(t, 2, products[0].Orders)
	})

	t.Run("Top de clientes respeita o limite e a ordem decrescente", func(t *testing.T) {
		orders := []*domain.Order{
			{ID: 1, ClientID: 1, Client: &domain.Client{ID: 1, Name: "Drogaria A"}, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 100},
			{ID: 2, ClientID: 2, Client: &domain.Client{ID: 2, Name: "Drogaria B"}, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 300},
			{ID: 3, ClientID: 3, Client: &domain.Client{ID: 3, Name: "Drogaria C"}, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 200},
		}

		agg := Aggregate(orders, nil)
		clients := agg.TopClients(2)

		assert.Len(t, clients, 2)
		assert.Equal(t, "Drogaria B", clients[0].Name)
		assert.Equal(t, "Drogaria C", clients[1].Name)
	})

	t.Run("Acumulador por comercial recebe pedidos e visitas no mesmo balde", func(t *testing.T) {
		orders := []*domain.Order{
			{ID: 1, CommercialID: 1, Commercial: &domain.Commercial{ID: 1, Name: "Ana"}, ClientID: 10, CreatedAt: base, Status: domain.OrderStatusApproved, TotalAmount: 100},
		}
		visits := []*domain.Visit{
			{ID: 1, CommercialID: 1, ScheduledAt: base, Status: domain.VisitStatusDone},
			{ID: 2, CommercialID: 1, ScheduledAt: base, Status: domain.VisitStatusPlanned},
		}

		agg := Aggregate(orders, visits)

		stats, exists := agg.Commercial(1)
		assert.True(t, exists)
		assert.Equal(t, "Ana", stats.Name)
		assert.Equal(t, 100.0, stats.Amount)
		assert.Equal(t, 1, stats.Orders)
		assert.Equal(t, 2, stats.Visits)
		assert.Equal(t, 1, stats.VisitsDone)
	})
}
