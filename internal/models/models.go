package models

import (
	"time"

	"github.com/google/uuid"
)

// IdeaType distinguishes the two node kinds in the idea graph.
type IdeaType string

const (
	IdeaTypeProblem  IdeaType = "PROBLEM"
	IdeaTypeSolution IdeaType = "SOLUTION"
)

// IdeaStatus is a one-way lifecycle: DRAFT → ACTIVE → IN_FORGE.
// DRAFT ideas are visible only to the author and contributors.
// IN_FORGE is entered once an AI analysis has been attached; there is
// no reverse transition.
type IdeaStatus string

const (
	StatusDraft   IdeaStatus = "DRAFT"
	StatusActive  IdeaStatus = "ACTIVE"
	StatusInForge IdeaStatus = "IN_FORGE"
)

// RelationType labels a directed edge between two ideas.
type RelationType string

const (
	RelationResolves  RelationType = "RESOLVES"
	RelationRelatesTo RelationType = "RELATES_TO"
	RelationImproves  RelationType = "IMPROVES"
)

// SortOption selects the feed ordering.
type SortOption string

const (
	SortRecent SortOption = "RECENT"
	SortVotes  SortOption = "VOTES"
	SortViews  SortOption = "VIEWS"
)

// InteractionType tags an analytics event.
type InteractionType string

const (
	InteractionView             InteractionType = "VIEW"
	InteractionEcho             InteractionType = "ECHO"
	InteractionComment          InteractionType = "COMMENT"
	InteractionFavorite         InteractionType = "FAVORITE"
	InteractionContributorAdded InteractionType = "CONTRIBUTOR_ADDED"
)

// UserRole drives which org features a user can reach.
type UserRole string

const (
	RoleIndividual    UserRole = "INDIVIDUAL"
	RoleCompanyAdmin  UserRole = "COMPANY_ADMIN"
	RoleCompanyMember UserRole = "COMPANY_MEMBER"
)

// IdeaMedia is one attachment on an idea. Kind is IMAGE or VIDEO.
type IdeaMedia struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

// Idea is a node in the idea graph.
//
// Author is the public handle, denormalized from the user record so
// feed rendering never needs a join. AuthorID is the sole owner;
// ContributorIDs grants draft visibility without transferring
// ownership. Votes and Views are monotonic counters: they only
// increase.
type Idea struct {
	ID              uuid.UUID         `json:"id"`
	Type            IdeaType          `json:"type"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	Author          string            `json:"author"`
	AuthorID        uuid.UUID         `json:"author_id"`
	Votes           int64             `json:"votes"`
	Views           int64             `json:"views"`
	Tags            []string          `json:"tags"`
	Status          IdeaStatus        `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	Analysis        *BusinessAnalysis `json:"analysis,omitempty"`
	ContributorIDs  []uuid.UUID       `json:"contributor_ids"`
	CompanyID       *uuid.UUID        `json:"company_id,omitempty"`
	TeamID          *uuid.UUID        `json:"team_id,omitempty"`
	Department      string            `json:"department,omitempty"`
	PublicInCompany bool              `json:"public_in_company"`
	Media           []IdeaMedia       `json:"media,omitempty"`
}

// IsContributor reports whether userID is in the contributor list.
func (i *Idea) IsContributor(userID uuid.UUID) bool {
	for _, id := range i.ContributorIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// Edge is a directed, typed relation between two ideas. The
// connections view treats it as undirected: the neighbor of an idea
// is whichever endpoint is not the queried id. Strength is stored but
// unused beyond storage.
type Edge struct {
	ID        uuid.UUID    `json:"id"`
	FromID    uuid.UUID    `json:"from_id"`
	ToID      uuid.UUID    `json:"to_id"`
	Type      RelationType `json:"type"`
	Strength  float64      `json:"strength"`
	CreatedAt time.Time    `json:"created_at"`
}

// Other returns the endpoint that is not id.
func (e *Edge) Other(id uuid.UUID) uuid.UUID {
	if e.FromID == id {
		return e.ToID
	}
	return e.FromID
}

// Connection pairs a neighboring idea with the edge that links it.
type Connection struct {
	Idea Idea `json:"idea"`
	Edge Edge `json:"edge"`
}

// Reactions maps an emoji to the set of user ids that reacted with
// it. Membership is what matters; order is irrelevant.
type Reactions map[string][]string

// Comment is a flat comment on an idea.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	Reactions Reactions `json:"reactions"`
	CreatedAt time.Time `json:"created_at"`
}

// Favorite is a presence record: the composite (UserID, IdeaID)
// existing IS the favorited state.
type Favorite struct {
	UserID    uuid.UUID `json:"user_id"`
	IdeaID    uuid.UUID `json:"idea_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ContributionType classifies a supporting artifact on an idea.
type ContributionType string

const (
	ContributionInfo    ContributionType = "INFO"
	ContributionDoc     ContributionType = "DOC"
	ContributionImage   ContributionType = "IMAGE"
	ContributionVideo   ContributionType = "VIDEO"
	ContributionAudio   ContributionType = "AUDIO"
	ContributionLink    ContributionType = "LINK"
	ContributionProduct ContributionType = "PRODUCT"
)

// Contribution is a typed artifact attached to an idea.
type Contribution struct {
	ID        uuid.UUID        `json:"id"`
	IdeaID    uuid.UUID        `json:"idea_id"`
	Author    string           `json:"author"`
	Type      ContributionType `json:"type"`
	Title     string           `json:"title,omitempty"`
	Content   string           `json:"content"`
	CreatedAt time.Time        `json:"created_at"`
}

// NotificationType: CONTRIBUTOR_ADDED is the only kind today.
type NotificationType string

const NotificationContributorAdded NotificationType = "CONTRIBUTOR_ADDED"

// Notification is a per-user inbox record. Only the Read flag ever
// mutates after creation.
type Notification struct {
	ID           uuid.UUID        `json:"id"`
	UserID       uuid.UUID        `json:"user_id"`
	Type         NotificationType `json:"type"`
	IdeaID       uuid.UUID        `json:"idea_id"`
	IdeaTitle    string           `json:"idea_title"`
	FromUserName string           `json:"from_user_name"`
	Read         bool             `json:"read"`
	CreatedAt    time.Time        `json:"created_at"`
}

// AnalyticsEvent is one append-only interaction record. UserID is
// "anonymous" for unauthenticated interactions. Events are never
// mutated or deleted.
type AnalyticsEvent struct {
	ID         uuid.UUID       `json:"id"`
	Type       InteractionType `json:"type"`
	IdeaID     uuid.UUID       `json:"idea_id"`
	IdeaAuthor string          `json:"idea_author"`
	UserID     string          `json:"user_id"`
	Timestamp  time.Time       `json:"timestamp"`
}

// UserPermissions gates company features per member. An empty
// Departments list means "all departments of their own company".
type UserPermissions struct {
	CanSeeAnalytics  bool     `json:"can_see_analytics"`
	CanManageBilling bool     `json:"can_manage_billing"`
	Departments      []string `json:"departments"`
}

// User is an account. Name doubles as the public handle.
type User struct {
	ID                uuid.UUID        `json:"id"`
	Name              string           `json:"name"`
	Email             string           `json:"email"`
	PasswordHash      string           `json:"-"`
	Avatar            string           `json:"avatar,omitempty"`
	CoverImage        string           `json:"cover_image,omitempty"`
	Bio               string           `json:"bio,omitempty"`
	Website           string           `json:"website,omitempty"`
	Role              UserRole         `json:"role"`
	CompanyID         *uuid.UUID       `json:"company_id,omitempty"`
	TeamID            *uuid.UUID       `json:"team_id,omitempty"`
	Permissions       *UserPermissions `json:"permissions,omitempty"`
	PreferredLanguage string           `json:"preferred_language"`
	CreatedAt         time.Time        `json:"created_at"`
}

// UserSettings: an absent record defaults to notifications on.
type UserSettings struct {
	EmailNotificationsEnabled bool `json:"email_notifications_enabled"`
}

// CompanyPlan is FREE or PRO.
type CompanyPlan string

const (
	PlanFree CompanyPlan = "FREE"
	PlanPro  CompanyPlan = "PRO"
)

// Company is an org created by the pro upgrade flow.
type Company struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Plan         CompanyPlan `json:"plan"`
	BillingCycle string      `json:"billing_cycle,omitempty"`
	Departments  []string    `json:"departments"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Team is a weak grouping under a company. Referential integrity is
// not enforced; lookups may return absent.
type Team struct {
	ID        uuid.UUID   `json:"id"`
	CompanyID uuid.UUID   `json:"company_id"`
	Name      string      `json:"name"`
	MemberIDs []uuid.UUID `json:"member_ids"`
}

// UserProgress is the 4-task onboarding score, recomputed on demand.
type UserProgress struct {
	ProfileCompleted bool    `json:"profile_completed"`
	IdeaCreated      bool    `json:"idea_created"`
	FavoriteMarked   bool    `json:"favorite_marked"`
	CommentAdded     bool    `json:"comment_added"`
	Percentage       float64 `json:"percentage"`
}

// SWOT is the four-quadrant part of a business analysis.
type SWOT struct {
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Opportunities []string `json:"opportunities"`
	Threats       []string `json:"threats"`
}

// BusinessCanvas is the lean-canvas part of a business analysis.
type BusinessCanvas struct {
	ValueProposition string `json:"value_proposition"`
	CustomerSegments string `json:"customer_segments"`
	RevenueStreams   string `json:"revenue_streams"`
	CostStructure    string `json:"cost_structure"`
}

// BusinessAnalysis is the structured payload produced by the Forge.
// Scores are 0-100. MermaidDiagram holds flowchart source text.
type BusinessAnalysis struct {
	ViabilityScore  int            `json:"viability_score"`
	MarketSizeScore int            `json:"market_size_score"`
	ComplexityScore int            `json:"complexity_score"`
	VeracityScore   int            `json:"veracity_score,omitempty"`
	Summary         string         `json:"summary"`
	MermaidDiagram  string         `json:"mermaid_diagram,omitempty"`
	SWOT            SWOT           `json:"swot"`
	Canvas          BusinessCanvas `json:"canvas"`
	Competitors     []string       `json:"competitors"`
	SuggestedTeam   []string       `json:"suggested_team"`
}
