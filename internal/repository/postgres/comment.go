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

type CommentStore struct {
	pool *pgxpool.Pool
}

func NewCommentStore(pool *pgxpool.Pool) *CommentStore {
	return &CommentStore{pool: pool}
}

func (s *CommentStore) Create(ctx context.Context, ideaID uuid.UUID, author, text string) (*models.Comment, error) {
	query := `
		INSERT INTO comments (idea_id, author, body, reactions)
		VALUES ($1, $2, $3, '{}')
		RETURNING id, idea_id, author, body, reactions, created_at`

	var c models.Comment
	err := s.pool.QueryRow(ctx, query, ideaID, author, text).Scan(
		&c.ID,
		&c.IdeaID,
		&c.Author,
		&c.Text,
		&c.Reactions,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	query := `
		SELECT id, idea_id, author, body, reactions, created_at
		FROM comments
		WHERE id = $1`

	var c models.Comment
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.IdeaID,
		&c.Author,
		&c.Text,
		&c.Reactions,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return &c, nil
}

func (s *CommentStore) ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Comment, error) {
	// Oldest first: comments read top-down as a conversation.
	query := `
		SELECT id, idea_id, author, body, reactions, created_at
		FROM comments
		WHERE idea_id = $1
		ORDER BY created_at ASC`

	rows, err := s.pool.Query(ctx, query, ideaID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.IdeaID,
			&c.Author,
			&c.Text,
			&c.Reactions,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.Reactions == nil {
			c.Reactions = models.Reactions{}
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (s *CommentStore) ListByAuthor(ctx context.Context, author string) ([]models.Comment, error) {
	query := `
		SELECT id, idea_id, author, body, reactions, created_at
		FROM comments
		WHERE author = $1
		ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("list comments by author: %w", err)
	}
	defer rows.Close()

	comments := make([]models.Comment, 0)
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID,
			&c.IdeaID,
			&c.Author,
			&c.Text,
			&c.Reactions,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		if c.Reactions == nil {
			c.Reactions = models.Reactions{}
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}

func (s *CommentStore) SetReactions(ctx context.Context, id uuid.UUID, reactions models.Reactions) error {
	query := `UPDATE comments SET reactions = $2 WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id, reactions); err != nil {
		return fmt.Errorf("set reactions: %w", err)
	}
	return nil
}

func (s *CommentStore) ExistsByAuthor(ctx context.Context, author string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM comments WHERE author = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, author).Scan(&exists); err != nil {
		return false, fmt.Errorf("check comments by author: %w", err)
	}
	return exists, nil
}
