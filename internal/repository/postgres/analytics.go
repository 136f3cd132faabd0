package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type AnalyticsStore struct {
	pool *pgxpool.Pool
}

func NewAnalyticsStore(pool *pgxpool.Pool) *AnalyticsStore {
	return &AnalyticsStore{pool: pool}
}

func (s *AnalyticsStore) Log(ctx context.Context, e models.AnalyticsEvent) error {
	userID := e.UserID
	if userID == "" {
		userID = "anonymous"
	}

	query := `
		INSERT INTO analytics (type, idea_id, idea_author, user_id)
		VALUES ($1, $2, $3, $4)`

	if _, err := s.pool.Exec(ctx, query, e.Type, e.IdeaID, e.IdeaAuthor, userID); err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

func (s *AnalyticsStore) ListByIdeaAuthor(ctx context.Context, author string) ([]models.AnalyticsEvent, error) {
	query := `
		SELECT id, type, idea_id, idea_author, user_id, ts
		FROM analytics
		WHERE idea_author = $1
		ORDER BY ts DESC`

	rows, err := s.pool.Query(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("list analytics by author: %w", err)
	}
	return collectEvents(rows)
}

func (s *AnalyticsStore) ListByIdeaIDs(ctx context.Context, ideaIDs []uuid.UUID) ([]models.AnalyticsEvent, error) {
	if len(ideaIDs) == 0 {
		return []models.AnalyticsEvent{}, nil
	}

	query := `
		SELECT id, type, idea_id, idea_author, user_id, ts
		FROM analytics
		WHERE idea_id = ANY($1)
		ORDER BY ts DESC`

	rows, err := s.pool.Query(ctx, query, ideaIDs)
	if err != nil {
		return nil, fmt.Errorf("list analytics by ideas: %w", err)
	}
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]models.AnalyticsEvent, error) {
	defer rows.Close()

	events := make([]models.AnalyticsEvent, 0)
	for rows.Next() {
		var e models.AnalyticsEvent
		if err := rows.Scan(
			&e.ID,
			&e.Type,
			&e.IdeaID,
			&e.IdeaAuthor,
			&e.UserID,
			&e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analytics events: %w", err)
	}

	return events, nil
}
