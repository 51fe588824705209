// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusApproved  OrderStatus = "APPROVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// Realized indica se o pedido conta como venda concretizada para fins de faturamento
func (s OrderStatus) Realized() bool {
	return s == OrderStatusApproved || s == OrderStatusCompleted
}

type Order struct {
	ID           int          `json:"id"`
	CommercialID int          `json:"commercial_id"`
	Commercial   *Commercial  `json:"commercial,omitempty"`
	ClientID     int          `json:"client_id"`
	Client       *Client      `json:"client,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	Status       OrderStatus  `json:"status"`
	TotalAmount  float64      `json:"total_amount"`
	Items        []*OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ProductID       int             `json:"product_id"`
	Product         *Product        `json:"product,omitempty"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

var oneHundred = decimal.NewFromInt(100)

// LineTotal calcula o valor da linha: quantidade × preço unitário × (1 − desconto/100).
// O cálculo é feito em decimal para evitar desvios de ponto flutuante em descontos.
func (i *OrderItem) LineTotal() decimal.Decimal {
	if i.Quantity <= 0 {
		return decimal.Zero
	}

	total := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))

	if i.DiscountPercent.IsPositive() {
		factor := oneHundred.Sub(i.DiscountPercent).Div(oneHundred)
		total = total.Mul(factor)
	}

	if total.IsNegative() {
		return decimal.Zero
	}

	return total
}

// Commercial representa um vendedor/representante comercial
type Commercial struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
