package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type CompanyStore struct {
	pool *pgxpool.Pool
}

func NewCompanyStore(pool *pgxpool.Pool) *CompanyStore {
	return &CompanyStore{pool: pool}
}

func (s *CompanyStore) Create(ctx context.Context, name string, plan models.CompanyPlan, billingCycle string, departments []string) (*models.Company, error) {
	query := `
		INSERT INTO companies (name, plan, billing_cycle, departments)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, plan, billing_cycle, departments, created_at`

	var c models.Company
	err := s.pool.QueryRow(ctx, query, name, plan, billingCycle, departments).Scan(
		&c.ID,
		&c.Name,
		&c.Plan,
		&c.BillingCycle,
		&c.Departments,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert company: %w", err)
	}
	return &c, nil
}

func (s *CompanyStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `
		SELECT id, name, plan, billing_cycle, departments, created_at
		FROM companies
		WHERE id = $1`

	var c models.Company
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Plan,
		&c.BillingCycle,
		&c.Departments,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company: %w", err)
	}
	return &c, nil
}
