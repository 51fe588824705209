package reporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/vfarma/sales-force-api/internal/domain"
	"github.com/vfarma/sales-force-api/pkg/utils"
)

// Rótulo usado quando o item não resolve para uma marca cadastrada
const brandFallbackLabel = "Sem marca"

// CommercialStats é o acumulador por comercial. Pedidos e visitas escrevem em
// campos disjuntos do mesmo balde; a criação é idempotente (identidade definida
// na primeira escrita, campos numéricos apenas acumulam).
type CommercialStats struct {
	CommercialID    int
	Name            string
	Amount          float64
	Orders          int
	Visits          int
	VisitsDone      int
	VisitsWithOrder int
	AvgDaysToOrder  float64
}

// Aggregation é o resultado da dobra de passada única sobre pedidos e visitas
// da janela, com os baldes por dia, dia da semana, hora, marca, produto,
// comercial e cliente
type Aggregation struct {
	TotalSales  float64
	TotalOrders int
	TotalVisits int
	VisitsDone  int

	byDay     map[string]*domain.DailySales
	byWeekday [7]*domain.WeekdaySales
	byHour    [24]*domain.HourlySales

	byBrand    map[string]*domain.BrandSales
	brandOrder []string

	byProduct    map[int]*domain.ProductSales
	productOrder []int

	byClient    map[int]*domain.ClientSales
	clientOrder []int

	byCommercial    map[int]*CommercialStats
	commercialOrder []int
}

func newAggregation() *Aggregation {
	agg := &Aggregation{
		byDay:        make(map[string]*domain.DailySales),
		byBrand:      make(map[string]*domain.BrandSales),
		byProduct:    make(map[int]*domain.ProductSales),
		byClient:     make(map[int]*domain.ClientSales),
		byCommercial: make(map[int]*CommercialStats),
	}

	for i := range agg.byWeekday {
		agg.byWeekday[i] = &domain.WeekdaySales{Weekday: i}
	}
	for i := range agg.byHour {
		agg.byHour[i] = &domain.HourlySales{Hour: i}
	}

	return agg
}

// Aggregate dobra os pedidos concretizados e as visitas da janela nos baldes
// dimensionais. Uma passada sobre os pedidos e uma sobre as visitas; registros
// malformados são excluídos do balde correspondente sem abortar a agregação.
func Aggregate(orders []*domain.Order, visits []*domain.Visit) *Aggregation {
	agg := newAggregation()

	for _, order := range orders {
		agg.foldOrder(order)
	}

	for _, visit := range visits {
		agg.foldVisit(visit)
	}

	return agg
}

func (a *Aggregation) foldOrder(order *domain.Order) {
	if order == nil || order.CreatedAt.IsZero() || order.TotalAmount < 0 {
		return
	}

	if !order.Status.Realized() {
		return
	}

	a.TotalSales += order.TotalAmount
	a.TotalOrders++

	day := order.CreatedAt.Format(time.DateOnly)
	daily, exists := a.byDay[day]
	if !exists {
		daily = &domain.DailySales{Date: day}
		a.byDay[day] = daily
	}
	daily.Amount += order.TotalAmount
	daily.Orders++

	weekday := a.byWeekday[int(order.CreatedAt.Weekday())]
	weekday.Amount += order.TotalAmount
	weekday.Orders++

	hour := a.byHour[order.CreatedAt.Hour()]
	hour.Amount += order.TotalAmount
	hour.Orders++

	// Pedidos distintos por produto: um pedido com duas linhas do mesmo
	// produto conta uma única vez
	seenProducts := make(map[int]bool)
	for _, item := range order.Items {
		a.foldOrderItem(item)

		if item != nil && item.Quantity > 0 && !seenProducts[item.ProductID] {
			seenProducts[item.ProductID] = true
			a.byProduct[item.ProductID].Orders++
		}
	}

	client := a.clientBucket(order)
	client.Amount += order.TotalAmount
	client.Orders++

	commercial := a.commercialBucket(order.CommercialID, commercialName(order.Commercial, order.CommercialID))
	commercial.Amount += order.TotalAmount
	commercial.Orders++
}

func (a *Aggregation) foldOrderItem(item *domain.OrderItem) {
	if item == nil || item.Quantity <= 0 {
		return
	}

	lineTotal := item.LineTotal().InexactFloat64()

	brand := brandFallbackLabel
	if item.Product != nil && item.Product.Brand != nil {
		brand = item.Product.Brand.Name
	}

	brandBucket, exists := a.byBrand[brand]
	if !exists {
		brandBucket = &domain.BrandSales{Brand: brand}
		a.byBrand[brand] = brandBucket
		a.brandOrder = append(a.brandOrder, brand)
	}
	brandBucket.Amount += lineTotal

	productBucket, exists := a.byProduct[item.ProductID]
	if !exists {
		name := fmt.Sprintf("Produto %d", item.ProductID)
		if item.Product != nil {
			name = item.Product.Name
		}

		productBucket = &domain.ProductSales{ProductID: item.ProductID, Name: name}
		a.byProduct[item.ProductID] = productBucket
		a.productOrder = append(a.productOrder, item.ProductID)
	}
	productBucket.Quantity += item.Quantity
	productBucket.Amount += lineTotal
}

func (a *Aggregation) foldVisit(visit *domain.Visit) {
	if visit == nil || visit.ScheduledAt.IsZero() {
		return
	}

	a.TotalVisits++

	weekday := a.byWeekday[int(visit.ScheduledAt.Weekday())]
	weekday.Visits++

	commercial := a.commercialBucket(visit.CommercialID, commercialName(visit.Commercial, visit.CommercialID))
	commercial.Visits++

	if visit.Status == domain.VisitStatusDone {
		a.VisitsDone++
		commercial.VisitsDone++
	}
}

func (a *Aggregation) clientBucket(order *domain.Order) *domain.ClientSales {
	bucket, exists := a.byClient[order.ClientID]
	if !exists {
		name := fmt.Sprintf("Cliente %d", order.ClientID)
		if order.Client != nil {
			name = order.Client.Name
		}

		bucket = &domain.ClientSales{ClientID: order.ClientID, Name: name}
		a.byClient[order.ClientID] = bucket
		a.clientOrder = append(a.clientOrder, order.ClientID)
	}

	return bucket
}

func (a *Aggregation) commercialBucket(id int, name string) *CommercialStats {
	bucket, exists := a.byCommercial[id]
	if !exists {
		bucket = &CommercialStats{CommercialID: id, Name: name}
		a.byCommercial[id] = bucket
		a.commercialOrder = append(a.commercialOrder, id)
	}

	return bucket
}

func commercialName(commercial *domain.Commercial, id int) string {
	if commercial != nil {
		return commercial.Name
	}
	return fmt.Sprintf("Comercial %d", id)
}

// DailySeries retorna a série diária em ordem crescente de data
func (a *Aggregation) DailySeries() []*domain.DailySales {
	days := make([]string, 0, len(a.byDay))
	for day := range a.byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]*domain.DailySales, 0, len(days))
	for _, day := range days {
		entry := a.byDay[day]
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		series = append(series, entry)
	}

	return series
}

// WeekdaySeries retorna os 7 baldes de dia da semana (0 = domingo)
func (a *Aggregation) WeekdaySeries() []*domain.WeekdaySales {
	series := make([]*domain.WeekdaySales, 0, len(a.byWeekday))
	for _, entry := range a.byWeekday {
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		series = append(series, entry)
	}

	return series
}

// HourSeries retorna os 24 baldes horários
func (a *Aggregation) HourSeries() []*domain.HourlySales {
	series := make([]*domain.HourlySales, 0, len(a.byHour))
	for _, entry := range a.byHour {
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		series = append(series, entry)
	}

	return series
}

// TopBrands retorna as marcas por valor decrescente; empates preservam a ordem
// de inserção (ordenação estável)
func (a *Aggregation) TopBrands() []*domain.BrandSales {
	brands := make([]*domain.BrandSales, 0, len(a.brandOrder))
	for _, name := range a.brandOrder {
		entry := a.byBrand[name]
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		brands = append(brands, entry)
	}

	sort.SliceStable(brands, func(i, j int) bool {
		return brands[i].Amount > brands[j].Amount
	})

	return brands
}

// TopProducts retorna até limit produtos por valor decrescente (estável)
func (a *Aggregation) TopProducts(limit int) []*domain.ProductSales {
	products := make([]*domain.ProductSales, 0, len(a.productOrder))
	for _, id := range a.productOrder {
		entry := a.byProduct[id]
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		products = append(products, entry)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Amount > products[j].Amount
	})

	if limit > 0 && len(products) > limit {
		products = products[:limit]
	}

	return products
}

// TopClients retorna até limit clientes por valor decrescente (estável)
func (a *Aggregation) TopClients(limit int) []*domain.ClientSales {
	clients := make([]*domain.ClientSales, 0, len(a.clientOrder))
	for _, id := range a.clientOrder {
		entry := a.byClient[id]
		entry.Amount = utils.RoundWithTwoDecimalPlace(entry.Amount)
		clients = append(clients, entry)
	}

	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].Amount > clients[j].Amount
	})

	if limit > 0 && len(clients) > limit {
		clients = clients[:limit]
	}

	return clients
}

// Commercials retorna os acumuladores por comercial na ordem de inserção
func (a *Aggregation) Commercials() []*CommercialStats {
	stats := make([]*CommercialStats, 0, len(a.commercialOrder))
	for _, id := range a.commercialOrder {
		stats = append(stats, a.byCommercial[id])
	}

	return stats
}

// Commercial retorna o acumulador de um comercial específico, se existir
func (a *Aggregation) Commercial(id int) (*CommercialStats, bool) {
	stats, exists := a.byCommercial[id]
	return stats, exists
}
