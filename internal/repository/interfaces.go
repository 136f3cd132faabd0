package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
)

// Every method takes a context so request cancellation propagates
// into the database driver; single-record gets return (nil, nil) when
// the record is absent, and list methods return non-nil slices so
// JSON serializes to [] rather than null.

// NewIdea carries the caller-controlled fields of a new idea. The
// server owns id, counters, status, and timestamps.
type NewIdea struct {
	Type            models.IdeaType
	Title           string
	Description     string
	Author          string
	AuthorID        uuid.UUID
	Tags            []string
	CompanyID       *uuid.UUID
	TeamID          *uuid.UUID
	Department      string
	PublicInCompany bool
	Media           []models.IdeaMedia
}

// IdeaRepository is CRUD plus the counter and lifecycle mutations
// over idea records.
type IdeaRepository interface {
	Create(ctx context.Context, in NewIdea) (*models.Idea, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Idea, error)

	// ListAll returns every idea ordered by the sort key, descending.
	// Visibility filtering happens above this layer.
	ListAll(ctx context.Context, sortBy models.SortOption) ([]models.Idea, error)

	// ListByAuthor returns a user's ideas, newest first.
	ListByAuthor(ctx context.Context, author string) ([]models.Idea, error)

	// ListByCompany returns a company's ideas, newest first.
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Idea, error)

	// Publish flips DRAFT to ACTIVE. No-op for any other status.
	Publish(ctx context.Context, id uuid.UUID) error

	// AttachAnalysis stores the Forge payload and flips status to
	// IN_FORGE in the same statement.
	AttachAnalysis(ctx context.Context, id uuid.UUID, analysis *models.BusinessAnalysis) error

	// AddContributor appends a user id to the contributor list if not
	// already present.
	AddContributor(ctx context.Context, ideaID, userID uuid.UUID) error

	// IncrementViews / IncrementVotes bump the monotonic counters by
	// exactly one and return the fresh value.
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
	IncrementVotes(ctx context.Context, id uuid.UUID) (int64, error)

	// ExistsByAuthor is the progress-tracker existence check.
	ExistsByAuthor(ctx context.Context, author string) (bool, error)
}

// EdgeRepository stores directed typed relations between ideas.
type EdgeRepository interface {
	Create(ctx context.Context, fromID, toID uuid.UUID, relType models.RelationType, strength float64) (*models.Edge, error)

	// ListByEndpoint returns every edge touching id, as either
	// endpoint. This is the bidirectional neighborhood lookup behind
	// the connections view.
	ListByEndpoint(ctx context.Context, id uuid.UUID) ([]models.Edge, error)
}

// CommentRepository handles comments and their reaction sets.
type CommentRepository interface {
	Create(ctx context.Context, ideaID uuid.UUID, author, text string) (*models.Comment, error)

	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)

	// ListByIdea returns an idea's comments, oldest first.
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Comment, error)

	// ListByAuthor returns a user's comments, newest first.
	ListByAuthor(ctx context.Context, author string) ([]models.Comment, error)

	// SetReactions replaces the whole reactions map. The toggle is a
	// read-modify-write owned by the caller; concurrent toggles race
	// last-write-wins, same as the original system.
	SetReactions(ctx context.Context, id uuid.UUID, reactions models.Reactions) error

	ExistsByAuthor(ctx context.Context, author string) (bool, error)
}

// FavoriteRepository is presence-keyed by (userID, ideaID).
type FavoriteRepository interface {
	Add(ctx context.Context, userID, ideaID uuid.UUID) error
	Remove(ctx context.Context, userID, ideaID uuid.UUID) error
	Exists(ctx context.Context, userID, ideaID uuid.UUID) (bool, error)

	// ListIdeaIDs returns the idea ids a user has favorited.
	ListIdeaIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)

	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}

// ContributionRepository stores supporting artifacts on ideas.
type ContributionRepository interface {
	Create(ctx context.Context, ideaID uuid.UUID, author string, ctype models.ContributionType, title, content string) (*models.Contribution, error)
	ListByIdea(ctx context.Context, ideaID uuid.UUID) ([]models.Contribution, error)
	ListByAuthor(ctx context.Context, author string) ([]models.Contribution, error)
}

// NotificationRepository is the per-user inbox.
type NotificationRepository interface {
	Create(ctx context.Context, n models.Notification) (*models.Notification, error)

	// ListByUser returns the newest notifications first, capped at
	// limit.
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Notification, error)

	// MarkRead flips one notification's read flag.
	MarkRead(ctx context.Context, id uuid.UUID) error

	// MarkAllRead flips every unread notification for the user in one
	// statement and returns how many were flipped.
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// AnalyticsRepository is the append-only interaction log.
type AnalyticsRepository interface {
	Log(ctx context.Context, e models.AnalyticsEvent) error

	// ListByIdeaAuthor returns events on a handle's ideas, newest
	// first.
	ListByIdeaAuthor(ctx context.Context, author string) ([]models.AnalyticsEvent, error)

	// ListByIdeaIDs returns events touching any of the given ideas.
	ListByIdeaIDs(ctx context.Context, ideaIDs []uuid.UUID) ([]models.AnalyticsEvent, error)
}

// UserRepository handles accounts and profiles.
type UserRepository interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)

	// UpdateProfile applies the caller-editable profile fields.
	UpdateProfile(ctx context.Context, id uuid.UUID, u ProfileUpdate) (*models.User, error)

	// PromoteToCompanyAdmin sets role, company and the full-access
	// permission record in one statement (the pro upgrade flow).
	PromoteToCompanyAdmin(ctx context.Context, id, companyID uuid.UUID, departments []string) error

	GetSettings(ctx context.Context, id uuid.UUID) (*models.UserSettings, error)
	PutSettings(ctx context.Context, id uuid.UUID, s models.UserSettings) error
}

// ProfileUpdate holds optional profile mutations; nil fields are left
// untouched.
type ProfileUpdate struct {
	Bio               *string
	Website           *string
	Avatar            *string
	CoverImage        *string
	PreferredLanguage *string
}

// CompanyRepository handles org records.
type CompanyRepository interface {
	Create(ctx context.Context, name string, plan models.CompanyPlan, billingCycle string, departments []string) (*models.Company, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
}

// TeamRepository handles teams under a company.
type TeamRepository interface {
	Create(ctx context.Context, companyID uuid.UUID, name string) (*models.Team, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Team, error)
}
