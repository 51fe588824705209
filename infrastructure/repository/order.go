package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vfarma/sales-force-api/infrastructure/database/postgres"
	"github.com/vfarma/sales-force-api/internal/domain"
)

const (
	ordersTable     = "orders o"
	orderItemsTable = "order_items oi"
)

type OrderRepository interface {
	// ListByPeriod retorna os pedidos da janela com itens, produto, marca,
	// cliente e comercial resolvidos
	ListByPeriod(period domain.Period, commercialID *int) ([]*domain.Order, error)

	// ListHistory retorna o histórico completo de pedidos (sem itens), para as
	// análises de coorte, churn e valor de vida
	ListHistory(commercialID *int) ([]*domain.Order, error)
}

type orderRepository struct {
	conn *postgres.Connection
}

func NewOrderRepository(conn *postgres.Connection) OrderRepository {
	return &orderRepository{
		conn: conn,
	}
}

func (r *orderRepository) ListByPeriod(period domain.Period, commercialID *int) ([]*domain.Order, error) {
	queryBuilder := squirrel.
		Select("o.id, o.commercial_id, cm.name, o.client_id, c.name, o.created_at, o.status, o.total_amount").
		From(ordersTable).
		Join("commercials cm ON o.commercial_id = cm.id").
		Join("clients c ON o.client_id = c.id").
		Where(squirrel.GtOrEq{"o.created_at": period.From}).
		Where(squirrel.LtOrEq{"o.created_at": period.To}).
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if commercialID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"o.commercial_id": *commercialID})
	}

	orders, err := r.listOrders(queryBuilder)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return orders, nil
	}

	if err := r.attachItems(orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepository) ListHistory(commercialID *int) ([]*domain.Order, error) {
	queryBuilder := squirrel.
		Select("o.id, o.commercial_id, cm.name, o.client_id, c.name, o.created_at, o.status, o.total_amount").
		From(ordersTable).
		Join("commercials cm ON o.commercial_id = cm.id").
		Join("clients c ON o.client_id = c.id").
		OrderBy("o.created_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if commercialID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"o.commercial_id": *commercialID})
	}

	return r.listOrders(queryBuilder)
}

func (r *orderRepository) listOrders(queryBuilder squirrel.SelectBuilder) ([]*domain.Order, error) {
	ordersSQL, ordersArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(ordersSQL, ordersArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	orders := make([]*domain.Order, 0)

	for rows.Next() {
		order, err := r.deserializeOrder(rows)
		if err != nil {
			return nil, err
		}

		orders = append(orders, order)
	}

	return orders, rows.Err()
}

func (r *orderRepository) deserializeOrder(rows *sql.Rows) (*domain.Order, error) {
	order := &domain.Order{
		Commercial: &domain.Commercial{},
		Client:     &domain.Client{},
	}

	if err := rows.Scan(
		&order.ID,
		&order.CommercialID,
		&order.Commercial.Name,
		&order.ClientID,
		&order.Client.Name,
		&order.CreatedAt,
		&order.Status,
		&order.TotalAmount,
	); err != nil {
		return nil, err
	}

	order.Commercial.ID = order.CommercialID
	order.Client.ID = order.ClientID

	return order, nil
}

// attachItems busca as linhas de todos os pedidos de uma vez e distribui em memória
func (r *orderRepository) attachItems(orders []*domain.Order) error {
	byID := make(map[int]*domain.Order, len(orders))
	ids := make([]int, 0, len(orders))
	for _, order := range orders {
		byID[order.ID] = order
		ids = append(ids, order.ID)
	}

	itemsSQL, itemsArgs, err := squirrel.
		Select("oi.order_id, oi.product_id, p.name, p.brand_id, br.name, oi.quantity, oi.unit_price, oi.discount_percent").
		From(orderItemsTable).
		Join("products p ON oi.product_id = p.id").
		LeftJoin("brands br ON p.brand_id = br.id").
		Where(squirrel.Eq{"oi.order_id": ids}).
		OrderBy("oi.order_id ASC, oi.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.conn.Query(itemsSQL, itemsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}

		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID         int
			productName     string
			brandID         sql.NullInt64
			brandName       sql.NullString
			unitPrice       string
			discountPercent sql.NullString
		)

		item := &domain.OrderItem{Product: &domain.Product{}}

		if err := rows.Scan(
			&orderID,
			&item.ProductID,
			&productName,
			&brandID,
			&brandName,
			&item.Quantity,
			&unitPrice,
			&discountPercent,
		); err != nil {
			return err
		}

		item.Product.ID = item.ProductID
		item.Product.Name = productName

		if brandID.Valid {
			id := int(brandID.Int64)
			item.Product.BrandID = &id
			item.Product.Brand = &domain.Brand{ID: id, Name: brandName.String}
		}

		item.UnitPrice, err = decimal.NewFromString(unitPrice)
		if err != nil {
			return err
		}

		if discountPercent.Valid {
			item.DiscountPercent, err = decimal.NewFromString(discountPercent.String)
			if err != nil {
				return err
			}
		}

		if order, exists := byID[orderID]; exists {
			order.Items = append(order.Items, item)
		}
	}

	return rows.Err()
}
