package api

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/realtime"
	"github.com/pandora-network/ideanet/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// identityFor stamps a fixed identity on every request, standing in
// for the JWT middleware.
func identityFor(userID uuid.UUID, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextKeyUserID, userID)
		c.Set(middleware.ContextKeyName, name)
		c.Next()
	}
}

func newTestHub(t *testing.T) *realtime.Hub {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return realtime.NewHubWithClient(client, zap.NewNop())
}

func serve(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// fakeIdeas is an in-memory IdeaRepository.
type fakeIdeas struct {
	byID map[uuid.UUID]*models.Idea
}

func newFakeIdeas(ideas ...*models.Idea) *fakeIdeas {
	f := &fakeIdeas{byID: make(map[uuid.UUID]*models.Idea)}
	for _, idea := range ideas {
		f.byID[idea.ID] = idea
	}
	return f
}

func (f *fakeIdeas) Create(_ context.Context, in repository.NewIdea) (*models.Idea, error) {
	idea := &models.Idea{
		ID:              uuid.New(),
		Type:            in.Type,
		Title:           in.Title,
		Description:     in.Description,
		Author:          in.Author,
		AuthorID:        in.AuthorID,
		Tags:            in.Tags,
		Status:          models.StatusDraft,
		CreatedAt:       time.Now(),
		ContributorIDs:  []uuid.UUID{},
		CompanyID:       in.CompanyID,
		TeamID:          in.TeamID,
		Department:      in.Department,
		PublicInCompany: in.PublicInCompany,
		Media:           in.Media,
	}
	f.byID[idea.ID] = idea
	return idea, nil
}

func (f *fakeIdeas) GetByID(_ context.Context, id uuid.UUID) (*models.Idea, error) {
	return f.byID[id], nil
}

func (f *fakeIdeas) ListAll(_ context.Context, _ models.SortOption) ([]models.Idea, error) {
	out := make([]models.Idea, 0, len(f.byID))
	for _, idea := range f.byID {
		out = append(out, *idea)
	}
	return out, nil
}

func (f *fakeIdeas) ListByAuthor(_ context.Context, author string) ([]models.Idea, error) {
	out := make([]models.Idea, 0)
	for _, idea := range f.byID {
		if idea.Author == author {
			out = append(out, *idea)
		}
	}
	return out, nil
}

func (f *fakeIdeas) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Idea, error) {
	out := make([]models.Idea, 0)
	for _, idea := range f.byID {
		if idea.CompanyID != nil && *idea.CompanyID == companyID {
			out = append(out, *idea)
		}
	}
	return out, nil
}

func (f *fakeIdeas) Publish(_ context.Context, id uuid.UUID) error {
	if idea, ok := f.byID[id]; ok && idea.Status == models.StatusDraft {
		idea.Status = models.StatusActive
	}
	return nil
}

func (f *fakeIdeas) AttachAnalysis(_ context.Context, id uuid.UUID, analysis *models.BusinessAnalysis) error {
	if idea, ok := f.byID[id]; ok {
		idea.Analysis = analysis
		idea.Status = models.StatusInForge
	}
	return nil
}

func (f *fakeIdeas) AddContributor(_ context.Context, ideaID, userID uuid.UUID) error {
	idea, ok := f.byID[ideaID]
	if !ok || idea.IsContributor(userID) {
		return nil
	}
	idea.ContributorIDs = append(idea.ContributorIDs, userID)
	return nil
}

func (f *fakeIdeas) IncrementViews(_ context.Context, id uuid.UUID) (int64, error) {
	f.byID[id].Views++
	return f.byID[id].Views, nil
}

func (f *fakeIdeas) IncrementVotes(_ context.Context, id uuid.UUID) (int64, error) {
	f.byID[id].Votes++
	return f.byID[id].Votes, nil
}

func (f *fakeIdeas) ExistsByAuthor(_ context.Context, author string) (bool, error) {
	for _, idea := range f.byID {
		if idea.Author == author {
			return true, nil
		}
	}
	return false, nil
}

// fakeEdges is an in-memory EdgeRepository.
type fakeEdges struct {
	edges []models.Edge
}

func (f *fakeEdges) Create(_ context.Context, fromID, toID uuid.UUID, relType models.RelationType, strength float64) (*models.Edge, error) {
	edge := models.Edge{
		ID:        uuid.New(),
		FromID:    fromID,
		ToID:      toID,
		Type:      relType,
		Strength:  strength,
		CreatedAt: time.Now(),
	}
	f.edges = append(f.edges, edge)
	return &edge, nil
}

func (f *fakeEdges) ListByEndpoint(_ context.Context, id uuid.UUID) ([]models.Edge, error) {
	out := make([]models.Edge, 0)
	for _, edge := range f.edges {
		if edge.FromID == id || edge.ToID == id {
			out = append(out, edge)
		}
	}
	return out, nil
}

// fakeFavorites is an in-memory FavoriteRepository.
type fakeFavorites struct {
	present map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeFavorites() *fakeFavorites {
	return &fakeFavorites{present: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (f *fakeFavorites) Add(_ context.Context, userID, ideaID uuid.UUID) error {
	if f.present[userID] == nil {
		f.present[userID] = make(map[uuid.UUID]bool)
	}
	f.present[userID][ideaID] = true
	return nil
}

func (f *fakeFavorites) Remove(_ context.Context, userID, ideaID uuid.UUID) error {
	delete(f.present[userID], ideaID)
	return nil
}

func (f *fakeFavorites) Exists(_ context.Context, userID, ideaID uuid.UUID) (bool, error) {
	return f.present[userID][ideaID], nil
}

func (f *fakeFavorites) ListIdeaIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0)
	for ideaID := range f.present[userID] {
		out = append(out, ideaID)
	}
	return out, nil
}

func (f *fakeFavorites) ExistsForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	return len(f.present[userID]) > 0, nil
}

// fakeNotifs is an in-memory NotificationRepository. lastLimit records
// the limit List was called with.
type fakeNotifs struct {
	notifs    []models.Notification
	lastLimit int
}

func (f *fakeNotifs) Create(_ context.Context, n models.Notification) (*models.Notification, error) {
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notifs = append(f.notifs, n)
	return &n, nil
}

func (f *fakeNotifs) ListByUser(_ context.Context, userID uuid.UUID, limit int) ([]models.Notification, error) {
	f.lastLimit = limit
	out := make([]models.Notification, 0)
	for _, n := range f.notifs {
		if n.UserID == userID && len(out) < limit {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotifs) MarkRead(_ context.Context, id uuid.UUID) error {
	for i := range f.notifs {
		if f.notifs[i].ID == id {
			f.notifs[i].Read = true
		}
	}
	return nil
}

func (f *fakeNotifs) MarkAllRead(_ context.Context, userID uuid.UUID) (int64, error) {
	var updated int64
	for i := range f.notifs {
		if f.notifs[i].UserID == userID && !f.notifs[i].Read {
			f.notifs[i].Read = true
			updated++
		}
	}
	return updated, nil
}

// fakeAnalytics is an in-memory AnalyticsRepository.
type fakeAnalytics struct {
	events []models.AnalyticsEvent
}

// Log mirrors the store contract: a blank user id is recorded as
// "anonymous".
func (f *fakeAnalytics) Log(_ context.Context, e models.AnalyticsEvent) error {
	e.ID = uuid.New()
	e.Timestamp = time.Now()
	if e.UserID == "" {
		e.UserID = "anonymous"
	}
	f.events = append(f.events, e)
	return nil
}

func (f *fakeAnalytics) ListByIdeaAuthor(_ context.Context, author string) ([]models.AnalyticsEvent, error) {
	out := make([]models.AnalyticsEvent, 0)
	for _, e := range f.events {
		if e.IdeaAuthor == author {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeAnalytics) ListByIdeaIDs(_ context.Context, ideaIDs []uuid.UUID) ([]models.AnalyticsEvent, error) {
	wanted := make(map[uuid.UUID]bool, len(ideaIDs))
	for _, id := range ideaIDs {
		wanted[id] = true
	}
	out := make([]models.AnalyticsEvent, 0)
	for _, e := range f.events {
		if wanted[e.IdeaID] {
			out = append(out, e)
		}
	}
	return out, nil
}

// fakeUsers is an in-memory UserRepository.
type fakeUsers struct {
	byID map[uuid.UUID]*models.User
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: make(map[uuid.UUID]*models.User)}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, name, email, passwordHash string) (*models.User, error) {
	u := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         models.RoleIndividual,
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return f.byID[id], nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) GetByName(_ context.Context, name string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id uuid.UUID, p repository.ProfileUpdate) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	if p.Bio != nil {
		u.Bio = *p.Bio
	}
	if p.Website != nil {
		u.Website = *p.Website
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.CoverImage != nil {
		u.CoverImage = *p.CoverImage
	}
	if p.PreferredLanguage != nil {
		u.PreferredLanguage = *p.PreferredLanguage
	}
	return u, nil
}

func (f *fakeUsers) PromoteToCompanyAdmin(_ context.Context, id, companyID uuid.UUID, departments []string) error {
	u, ok := f.byID[id]
	if !ok {
		return nil
	}
	u.Role = models.RoleCompanyAdmin
	u.CompanyID = &companyID
	u.Permissions = &models.UserPermissions{
		CanSeeAnalytics:  true,
		CanManageBilling: true,
		Departments:      departments,
	}
	return nil
}

func (f *fakeUsers) GetSettings(_ context.Context, _ uuid.UUID) (*models.UserSettings, error) {
	return &models.UserSettings{EmailNotificationsEnabled: true}, nil
}

func (f *fakeUsers) PutSettings(_ context.Context, _ uuid.UUID, _ models.UserSettings) error {
	return nil
}
