package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
)

type NotificationStore struct {
	pool *pgxpool.Pool
}

func NewNotificationStore(pool *pgxpool.Pool) *NotificationStore {
	return &NotificationStore{pool: pool}
}

func (s *NotificationStore) Create(ctx context.Context, n models.Notification) (*models.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, type, idea_id, idea_title, from_user_name)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, type, idea_id, idea_title, from_user_name, read, created_at`

	var out models.Notification
	err := s.pool.QueryRow(ctx, query, n.UserID, n.Type, n.IdeaID, n.IdeaTitle, n.FromUserName).Scan(
		&out.ID,
		&out.UserID,
		&out.Type,
		&out.IdeaID,
		&out.IdeaTitle,
		&out.FromUserName,
		&out.Read,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &out, nil
}

func (s *NotificationStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, type, idea_id, idea_title, from_user_name, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	notifs := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.IdeaID,
			&n.IdeaTitle,
			&n.FromUserName,
			&n.Read,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifs = append(notifs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifs, nil
}

func (s *NotificationStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET read = true WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

func (s *NotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	// One multi-record write, replacing the original's client-side
	// batch of per-document updates.
	query := `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`

	tag, err := s.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}
