package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/vfarma/sales-force-api/infrastructure/database/postgres"
	"github.com/vfarma/sales-force-api/internal/domain"
)

const (
	plansTable           = "plans pl"
	planProductsTable    = "plan_products pp"
	planAssignmentsTable = "plan_assignments pa"
)

type PlanRepository interface {
	// ListByMonth retorna as metas do mês com as metas por produto resolvidas
	ListByMonth(month, year int) ([]*domain.Plan, error)

	// ListAssignments retorna as atribuições legadas de meta por comercial do mês
	ListAssignments(month, year int) ([]*domain.PlanAssignment, error)
}

type planRepository struct {
	conn *postgres.Connection
}

func NewPlanRepository(conn *postgres.Connection) PlanRepository {
	return &planRepository{
		conn: conn,
	}
}

func (r *planRepository) ListByMonth(month, year int) ([]*domain.Plan, error) {
	plansSQL, plansArgs, err := squirrel.
		Select("pl.id, pl.commercial_id, cm.name, pl.brand_id, br.name, pl.month, pl.year, pl.total_target").
		From(plansTable).
		LeftJoin("commercials cm ON pl.commercial_id = cm.id").
		LeftJoin("brands br ON pl.brand_id = br.id").
		Where(squirrel.Eq{"pl.month": month, "pl.year": year}).
		OrderBy("pl.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(plansSQL, plansArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.Plan, 0)

	for rows.Next() {
		plan, err := r.deserializePlan(rows)
		if err != nil {
			return nil, err
		}

		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(plans) == 0 {
		return plans, nil
	}

	if err := r.attachProductTargets(plans); err != nil {
		return nil, err
	}

	return plans, nil
}

func (r *planRepository) deserializePlan(rows *sql.Rows) (*domain.Plan, error) {
	plan := &domain.Plan{}

	var (
		commercialID   sql.NullInt64
		commercialName sql.NullString
		brandID        sql.NullInt64
		brandName      sql.NullString
		totalTarget    sql.NullFloat64
	)

	if err := rows.Scan(
		&plan.ID,
		&commercialID,
		&commercialName,
		&brandID,
		&brandName,
		&plan.Month,
		&plan.Year,
		&totalTarget,
	); err != nil {
		return nil, err
	}

	if commercialID.Valid {
		id := int(commercialID.Int64)
		plan.CommercialID = &id
		plan.Commercial = &domain.Commercial{ID: id, Name: commercialName.String}
	}

	if brandID.Valid {
		id := int(brandID.Int64)
		plan.BrandID = &id
		plan.Brand = &domain.Brand{ID: id, Name: brandName.String}
	}

	if totalTarget.Valid {
		target := totalTarget.Float64
		plan.TotalTarget = &target
	}

	return plan, nil
}

func (r *planRepository) attachProductTargets(plans []*domain.Plan) error {
	byID := make(map[int]*domain.Plan, len(plans))
	ids := make([]int, 0, len(plans))
	for _, plan := range plans {
		byID[plan.ID] = plan
		ids = append(ids, plan.ID)
	}

	targetsSQL, targetsArgs, err := squirrel.
		Select("pp.plan_id, pp.product_id, p.name, pp.quantity_target").
		From(planProductsTable).
		Join("products p ON pp.product_id = p.id").
		Where(squirrel.Eq{"pp.plan_id": ids}).
		OrderBy("pp.plan_id ASC, pp.product_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.conn.Query(targetsSQL, targetsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}

		return err
	}
	defer rows.Close()

	for rows.Next() {
		var planID int
		target := &domain.PlanProductTarget{Product: &domain.Product{}}

		if err := rows.Scan(
			&planID,
			&target.ProductID,
			&target.Product.Name,
			&target.QuantityTarget,
		); err != nil {
			return err
		}

		target.Product.ID = target.ProductID

		if plan, exists := byID[planID]; exists {
			plan.ProductTargets = append(plan.ProductTargets, target)
		}
	}

	return rows.Err()
}

func (r *planRepository) ListAssignments(month, year int) ([]*domain.PlanAssignment, error) {
	assignmentsSQL, assignmentsArgs, err := squirrel.
		Select("pa.plan_id, pa.commercial_id, cm.name, pa.target").
		From(planAssignmentsTable).
		Join("plans pl ON pa.plan_id = pl.id").
		Join("commercials cm ON pa.commercial_id = cm.id").
		Where(squirrel.Eq{"pl.month": month, "pl.year": year}).
		OrderBy("pa.plan_id ASC, pa.commercial_id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(assignmentsSQL, assignmentsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	assignments := make([]*domain.PlanAssignment, 0)

	for rows.Next() {
		assignment := &domain.PlanAssignment{Commercial: &domain.Commercial{}}

		if err := rows.Scan(
			&assignment.PlanID,
			&assignment.CommercialID,
			&assignment.Commercial.Name,
			&assignment.Target,
		); err != nil {
			return nil, err
		}

		assignment.Commercial.ID = assignment.CommercialID

		assignments = append(assignments, assignment)
	}

	return assignments, rows.Err()
}
