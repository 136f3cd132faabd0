package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/repository"
)

const ideaColumns = `id, type, title, description, author, author_id, votes, views,
	tags, status, created_at, analysis, contributor_ids, company_id, team_id,
	department, public_in_company, media`

type IdeaStore struct {
	pool *pgxpool.Pool
}

func NewIdeaStore(pool *pgxpool.Pool) *IdeaStore {
	return &IdeaStore{pool: pool}
}

func scanIdea(row pgx.Row) (*models.Idea, error) {
	var i models.Idea
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Title,
		&i.Description,
		&i.Author,
		&i.AuthorID,
		&i.Votes,
		&i.Views,
		&i.Tags,
		&i.Status,
		&i.CreatedAt,
		&i.Analysis,
		&i.ContributorIDs,
		&i.CompanyID,
		&i.TeamID,
		&i.Department,
		&i.PublicInCompany,
		&i.Media,
	)
	if err != nil {
		return nil, err
	}
	if i.Tags == nil {
		i.Tags = []string{}
	}
	if i.ContributorIDs == nil {
		i.ContributorIDs = []uuid.UUID{}
	}
	return &i, nil
}

func collectIdeas(rows pgx.Rows) ([]models.Idea, error) {
	defer rows.Close()

	ideas := make([]models.Idea, 0)
	for rows.Next() {
		i, err := scanIdea(rows)
		if err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}
		ideas = append(ideas, *i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ideas: %w", err)
	}
	return ideas, nil
}

func (s *IdeaStore) Create(ctx context.Context, in repository.NewIdea) (*models.Idea, error) {
	// New ideas always start as DRAFT with zeroed counters; the
	// client never controls those fields.
	query := `
		INSERT INTO ideas (type, title, description, author, author_id, tags,
			company_id, team_id, department, public_in_company, media)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + ideaColumns

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	media := in.Media
	if media == nil {
		media = []models.IdeaMedia{}
	}

	row := s.pool.QueryRow(ctx, query,
		in.Type, in.Title, in.Description, in.Author, in.AuthorID, tags,
		in.CompanyID, in.TeamID, in.Department, in.PublicInCompany, media,
	)
	idea, err := scanIdea(row)
	if err != nil {
		return nil, fmt.Errorf("insert idea: %w", err)
	}
	return idea, nil
}

func (s *IdeaStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE id = $1`

	idea, err := scanIdea(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get idea: %w", err)
	}
	return idea, nil
}

func (s *IdeaStore) ListAll(ctx context.Context, sortBy models.SortOption) ([]models.Idea, error) {
	// Sort key is mapped to a column name here, never interpolated
	// from user input.
	orderBy := "created_at"
	switch sortBy {
	case models.SortVotes:
		orderBy = "votes"
	case models.SortViews:
		orderBy = "views"
	}

	query := `SELECT ` + ideaColumns + ` FROM ideas ORDER BY ` + orderBy + ` DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return collectIdeas(rows)
}

func (s *IdeaStore) ListByAuthor(ctx context.Context, author string) ([]models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE author = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, author)
	if err != nil {
		return nil, fmt.Errorf("list ideas by author: %w", err)
	}
	return collectIdeas(rows)
}

func (s *IdeaStore) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Idea, error) {
	query := `SELECT ` + ideaColumns + ` FROM ideas WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("list ideas by company: %w", err)
	}
	return collectIdeas(rows)
}

func (s *IdeaStore) Publish(ctx context.Context, id uuid.UUID) error {
	// Status only ever moves forward, so the WHERE clause guards the
	// transition.
	query := `UPDATE ideas SET status = 'ACTIVE' WHERE id = $1 AND status = 'DRAFT'`

	if _, err := s.pool.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("publish idea: %w", err)
	}
	return nil
}

func (s *IdeaStore) AttachAnalysis(ctx context.Context, id uuid.UUID, analysis *models.BusinessAnalysis) error {
	query := `UPDATE ideas SET analysis = $2, status = 'IN_FORGE' WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id, analysis); err != nil {
		return fmt.Errorf("attach analysis: %w", err)
	}
	return nil
}

func (s *IdeaStore) AddContributor(ctx context.Context, ideaID, userID uuid.UUID) error {
	// array_append only if absent keeps the list a set.
	query := `
		UPDATE ideas
		SET contributor_ids = array_append(contributor_ids, $2)
		WHERE id = $1 AND NOT ($2 = ANY(contributor_ids))`

	if _, err := s.pool.Exec(ctx, query, ideaID, userID); err != nil {
		return fmt.Errorf("add contributor: %w", err)
	}
	return nil
}

func (s *IdeaStore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE ideas SET views = views + 1 WHERE id = $1 RETURNING views`

	var views int64
	if err := s.pool.QueryRow(ctx, query, id).Scan(&views); err != nil {
		return 0, fmt.Errorf("increment views: %w", err)
	}
	return views, nil
}

func (s *IdeaStore) IncrementVotes(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE ideas SET votes = votes + 1 WHERE id = $1 RETURNING votes`

	var votes int64
	if err := s.pool.QueryRow(ctx, query, id).Scan(&votes); err != nil {
		return 0, fmt.Errorf("increment votes: %w", err)
	}
	return votes, nil
}

func (s *IdeaStore) ExistsByAuthor(ctx context.Context, author string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM ideas WHERE author = $1)`

	var exists bool
	if err := s.pool.QueryRow(ctx, query, author).Scan(&exists); err != nil {
		return false, fmt.Errorf("check ideas by author: %w", err)
	}
	return exists, nil
}
