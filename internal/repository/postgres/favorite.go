package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FavoriteStore struct {
	pool *pgxpool.Pool
}

func NewFavoriteStore(pool *pgxpool.Pool) *FavoriteStore {
	return &FavoriteStore{pool: pool}
}

func (s *FavoriteStore) Add(ctx context.Context, userID, ideaID uuid.UUID) error {
	// The composite key is the state; a repeated add is a no-op.
	query := `
		INSERT INTO favorites (user_id, idea_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, idea_id) DO NOTHING`

	if _, err := s.pool.Exec(ctx, query, userID, ideaID); err != nil {
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) Remove(ctx context.Context, userID, ideaID uuid.UUID) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND idea_id = $2`

	if _, err := s.pool.Exec(ctx, query, userID, ideaID); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) Exists(ctx context.Context, userID, ideaID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND idea_id = $2)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID, ideaID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return exists, nil
}

func (s *FavoriteStore) ListIdeaIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `SELECT idea_id FROM favorites WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}

	return ids, nil
}

func (s *FavoriteStore) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check favorites for user: %w", err)
	}
	return exists, nil
}
