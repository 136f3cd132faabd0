package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type ContributionStore struct {
	pool *pgxpool.Pool
}

func NewContributionStore(pool *pgxpool.Pool) *ContributionStore {
	return &ContributionStore{pool: pool}
}

func (s *ContributionStore) Create(ctx context.Context, ideaID uuid.UUID, author string, ctype models.ContributionType, title, content string) (*models.Contribution, error) {
	query := `
		INSERT INTO contributions (idea_id, author, type, title, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, idea_id, author, type, title, content, created_at`

	var c models.Contribution
	err := s.pool.QueryRow(ctx, query, ideaID, author, ctype, title, content).Scan(
		&c.ID,
		&c.IdeaID,
		&c.Author,
		&c.Type,
		&c.Title,
		&c.Content,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert contribution: %w", err)
	}
	return &c, nil
}

func (s *ContributionStore) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Contribution, error) {
	query := `
		SELECT id, idea_id, author, type, title, content, created_at
		FROM contributions
		WHERE idea_id = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list contributions: %w", err)
	}
	return collectContributions(rows)
}

func (s *ContributionStore) ListByAuthor(ctx context.Context, author string) ([]models.Contribution, error) {
	query := `
		SELECT id, idea_id, author, type, title, content, created_at
		FROM contributions
		WHERE author = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("list contributions by author: %w", err)
	}
	return collectContributions(rows)
}

func collectContributions(rows pgx.Rows) ([]models.Contribution, error) {
	defer rows.Close()

	contribs := make([]models.Contribution, 0)
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(
			&c.ID,
			&c.IdeaID,
			&c.Author,
			&c.Type,
			&c.Title,
			&c.Content,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contribution: %w", err)
		}
		contribs = append(contribs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contributions: %w", err)
	}

	return contribs, nil
}
