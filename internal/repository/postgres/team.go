package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type TeamStore struct {
	pool *pgxpool.Pool
}

func NewTeamStore(pool *pgxpool.Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

func (s *TeamStore) Create(ctx context.Context, companyID uuid.UUID, name string) (*models.Team, error) {
	query := `
		INSERT INTO teams (company_id, name)
		VALUES ($1, $2)
		RETURNING id, company_id, name, member_ids`

	var t models.Team
	err := s.pool.QueryRow(ctx, query, companyID, name).Scan(
		&t.ID,
		&t.CompanyID,
		&t.Name,
		&t.MemberIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	if t.MemberIDs == nil {
		t.MemberIDs = []uuid.UUID{}
	}
	return &t, nil
}

func (s *TeamStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Team, error) {
	query := `
		SELECT id, company_id, name, member_ids
		FROM teams
		WHERE company_id = $1
		ORDER BY name`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(
			&t.ID,
			&t.CompanyID,
			&t.Name,
			&t.MemberIDs,
		); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		if t.MemberIDs == nil {
			t.MemberIDs = []uuid.UUID{}
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return teams, nil
}
