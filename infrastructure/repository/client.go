package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/vfarma/sales-force-api/infrastructure/database/postgres"
	"github.com/vfarma/sales-force-api/internal/domain"
)

const branchesTable = "branches b"

type ClientRepository interface {
	// ListBranches retorna todas as filiais cadastradas com o cliente resolvido
	ListBranches() ([]*domain.Branch, error)
}

type clientRepository struct {
	conn *postgres.Connection
}

func NewClientRepository(conn *postgres.Connection) ClientRepository {
	return &clientRepository{
		conn: conn,
	}
}

func (r *clientRepository) ListBranches() ([]*domain.Branch, error) {
	branchesSQL, branchesArgs, err := squirrel.
		Select("b.id, b.client_id, c.name, b.name, b.created_at").
		From(branchesTable).
		Join("clients c ON b.client_id = c.id").
		OrderBy("b.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.Query(branchesSQL, branchesArgs...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}
	defer rows.Close()

	branches := make([]*domain.Branch, 0)

	for rows.Next() {
		branch := &domain.Branch{Client: &domain.Client{}}

		if err := rows.Scan(
			&branch.ID,
			&branch.ClientID,
			&branch.Client.Name,
			&branch.Name,
			&branch.CreatedAt,
		); err != nil {
			return nil, err
		}

		branch.Client.ID = branch.ClientID

		branches = append(branches, branch)
	}

	return branches, rows.Err()
}
