package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type EdgeStore struct {
	pool *pgxpool.Pool
}

func NewEdgeStore(pool *pgxpool.Pool) *EdgeStore {
	return &EdgeStore{pool: pool}
}

func (s *EdgeStore) Create(ctx context.Context, fromID, toID uuid.UUID, relType models.RelationType, strength float64) (*models.Edge, error) {
	query := `
		INSERT INTO edges (from_id, to_id, type, strength)
		VALUES ($1, $2, $3, $4)
		RETURNING id, from_id, to_id, type, strength, created_at`

	var e models.Edge
	err := s.pool.QueryRow(ctx, query, fromID, toID, relType, strength).Scan(
		&e.ID,
		&e.FromID,
		&e.ToID,
		&e.Type,
		&e.Strength,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert edge: %w", err)
	}
	return &e, nil
}

func (s *EdgeStore) ListByEndpoint(ctx context.Context, id uuid.UUID) ([]models.Edge, error) {
	// Edges are directed but the neighborhood lookup is not: a single
	// query over both endpoint columns replaces the original's two
	// separate fetches.
	query := `
		SELECT id, from_id, to_id, type, strength, created_at
		FROM edges
		WHERE from_id = $1 OR to_id = $1`

	rows, err := s.pool.Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("list edges: %w", err)
	}
	defer rows.Close()

	edges := make([]models.Edge, 0)
	for rows.Next() {
		var e models.Edge
		if err := rows.Scan(
			&e.ID,
			&e.FromID,
			&e.ToID,
			&e.Type,
			&e.Strength,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan edge: %w", err)
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate edges: %w", err)
	}

	return edges, nil
}
