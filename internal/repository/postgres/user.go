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

const userColumns = `id, name, email, password_hash, avatar, cover_image, bio, website,
	role, company_id, team_id, permissions, preferred_language, created_at`

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&u.Avatar,
		&u.CoverImage,
		&u.Bio,
		&u.Website,
		&u.Role,
		&u.CompanyID,
		&u.TeamID,
		&u.Permissions,
		&u.PreferredLanguage,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, name, email, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByName looks up a user by public handle: profile pages are
// addressed by username, not id.
func (s *UserStore) GetByName(ctx context.Context, name string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE name = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by name: %w", err)
	}
	return u, nil
}

func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, p repository.ProfileUpdate) (*models.User, error) {
	// COALESCE keeps whatever the caller didn't send.
	query := `
		UPDATE users
		SET bio                = COALESCE($2, bio),
		    website            = COALESCE($3, website),
		    avatar             = COALESCE($4, avatar),
		    cover_image        = COALESCE($5, cover_image),
		    preferred_language = COALESCE($6, preferred_language)
		WHERE id = $1
		RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, id,
		p.Bio, p.Website, p.Avatar, p.CoverImage, p.PreferredLanguage))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return u, nil
}

func (s *UserStore) PromoteToCompanyAdmin(ctx context.Context, id, companyID uuid.UUID, departments []string) error {
	perms := models.UserPermissions{
		CanSeeAnalytics:  true,
		CanManageBilling: true,
		Departments:      departments,
	}

	query := `
		UPDATE users
		SET role = $2, company_id = $3, permissions = $4
		WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id, models.RoleCompanyAdmin, companyID, perms); err != nil {
		return fmt.Errorf("promote user: %w", err)
	}
	return nil
}

func (s *UserStore) GetSettings(ctx context.Context, id uuid.UUID) (*models.UserSettings, error) {
	query := `SELECT email_notifications_enabled FROM user_settings WHERE user_id = $1`

	var settings models.UserSettings
	err := s.pool.QueryRow(ctx, query, id).Scan(&settings.EmailNotificationsEnabled)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Absent record means the default: notifications on.
			return &models.UserSettings{EmailNotificationsEnabled: true}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return &settings, nil
}

func (s *UserStore) PutSettings(ctx context.Context, id uuid.UUID, settings models.UserSettings) error {
	query := `
		INSERT INTO user_settings (user_id, email_notifications_enabled)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET email_notifications_enabled = $2`

	if _, err := s.pool.Exec(ctx, query, id, settings.EmailNotificationsEnabled); err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
