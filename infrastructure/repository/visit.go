package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/vfarma/sales-force-api/infrastructure/database/postgres"
	"github.com/vfarma/sales-force-api/internal/domain"
)

const visitsTable = "visits v"

type VisitRepository interface {
	// ListByPeriod retorna as visitas da janela, em qualquer status, com as
	// filiais vinculadas
	ListByPeriod(period domain.Period, commercialID *int) ([]*domain.Visit, error)

	// ListDone retorna todas as visitas concluídas do histórico, para a
	// detecção de filiais sem visita recente
	ListDone() ([]*domain.Visit, error)
}

type visitRepository struct {
	conn *postgres.Connection
}

func NewVisitRepository(conn *postgres.Connection) VisitRepository {
	return &visitRepository{
		conn: conn,
	}
}

func (r *visitRepository) ListByPeriod(period domain.Period, commercialID *int) ([]*domain.Visit, error) {
	queryBuilder := squirrel.
		Select("v.id, v.commercial_id, cm.name, v.client_id, c.name, v.scheduled_at, v.status, v.note").
		From(visitsTable).
		Join("commercials cm ON v.commercial_id = cm.id").
		Join("clients c ON v.client_id = c.id").
		Where(squirrel.GtOrEq{"v.scheduled_at": period.From}).
		Where(squirrel.LtOrEq{"v.scheduled_at": period.To}).
		OrderBy("v.scheduled_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	if commercialID != nil {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"v.commercial_id": *commercialID})
	}

	return r.listVisits(queryBuilder)
}

func (r *visitRepository) ListDone() ([]*domain.Visit, error) {
	queryBuilder := squirrel.
		Select("v.id, v.commercial_id, cm.name, v.client_id, c.name, v.scheduled_at, v.status, v.note").
		From(visitsTable).
		Join("commercials cm ON v.commercial_id = cm.id").
		Join("clients c ON v.client_id = c.id").
		Where(squirrel.Eq{"v.status": domain.VisitStatusDone}).
		OrderBy("v.scheduled_at ASC").
		PlaceholderFormat(squirrel.Dollar)

	return r.listVisits(queryBuilder)
}

func (r *visitRepository) listVisits(queryBuilder squirrel.SelectBuilder) ([]*domain.Visit, error) {
	visitsSQL, visitsArgs, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(visitsSQL, visitsArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	visits := make([]*domain.Visit, 0)

	for rows.Next() {
		visit, err := r.deserializeVisit(rows)
		if err != nil {
			return nil, err
		}

		visits = append(visits, visit)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(visits) == 0 {
		return visits, nil
	}

	if err := r.attachBranches(visits); err != nil {
		return nil, err
	}

	return visits, nil
}

func (r *visitRepository) deserializeVisit(rows *sql.Rows) (*domain.Visit, error) {
	visit := &domain.Visit{
		Commercial: &domain.Commercial{},
		Client:     &domain.Client{},
	}

	var note sql.NullString

	if err := rows.Scan(
		&visit.ID,
		&visit.CommercialID,
		&visit.Commercial.Name,
		&visit.ClientID,
		&visit.Client.Name,
		&visit.ScheduledAt,
		&visit.Status,
		&note,
	); err != nil {
		return nil, err
	}

	visit.Commercial.ID = visit.CommercialID
	visit.Client.ID = visit.ClientID
	visit.Note = note.String

	return visit, nil
}

func (r *visitRepository) attachBranches(visits []*domain.Visit) error {
	byID := make(map[int]*domain.Visit, len(visits))
	ids := make([]int, 0, len(visits))
	for _, visit := range visits {
		byID[visit.ID] = visit
		ids = append(ids, visit.ID)
	}

	branchesSQL, branchesArgs, err := squirrel.
		Select("vb.visit_id, vb.branch_id").
		From("visit_branches vb").
		Where(squirrel.Eq{"vb.visit_id": ids}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return err
	}

	rows, err := r.conn.Query(branchesSQL, branchesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}

		return err
	}
	defer rows.Close()

	for rows.Next() {
		var visitID, branchID int
		if err := rows.Scan(&visitID, &branchID); err != nil {
			return err
		}

		if visit, exists := byID[visitID]; exists {
			visit.BranchIDs = append(visit.BranchIDs, branchID)
		}
	}

	return rows.Err()
}
