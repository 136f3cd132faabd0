package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func ideaRouter(t *testing.T, ideas *fakeIdeas, edges *fakeEdges, users *fakeUsers, notifs *fakeNotifs, analytics *fakeAnalytics, viewerID uuid.UUID, viewerName string) *gin.Engine {
	t.Helper()
	h := NewIdeaHandler(ideas, edges, users, notifs, analytics, newTestHub(t), zap.NewNop())

	r := gin.New()
	r.Use(identityFor(viewerID, viewerName))
	r.GET("/ideas/:id/connections", h.Connections)
	r.POST("/ideas/:id/echo", h.Echo)
	r.POST("/ideas/:id/view", h.View)
	r.POST("/ideas/:id/publish", h.Publish)
	r.POST("/ideas/:id/contributors", h.AddContributor)
	return r
}

func activeIdea(author string, authorID uuid.UUID) *models.Idea {
	return &models.Idea{
		ID:             uuid.New(),
		Type:           models.IdeaTypeProblem,
		Title:          "desalination at scale",
		Author:         author,
		AuthorID:       authorID,
		Status:         models.StatusActive,
		Tags:           []string{},
		ContributorIDs: []uuid.UUID{},
	}
}

func TestEchoIncrementsVotesEveryCall(t *testing.T) {
	userID := uuid.New()
	idea := activeIdea("mira", uuid.New())
	ideas := newFakeIdeas(idea)
	analytics := &fakeAnalytics{}
	r := ideaRouter(t, ideas, &fakeEdges{}, newFakeUsers(), &fakeNotifs{}, analytics, userID, "dev")

	for want := 1; want <= 3; want++ {
		w := serve(r, http.MethodPost, "/ideas/"+idea.ID.String()+"/echo", "")
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]int64
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, int64(want), body["votes"])
	}

	require.Len(t, analytics.events, 3)
	for _, e := range analytics.events {
		assert.Equal(t, models.InteractionEcho, e.Type)
		assert.Equal(t, idea.ID, e.IdeaID)
		assert.Equal(t, userID.String(), e.UserID)
	}
}

func TestEchoUnknownIdea(t *testing.T) {
	r := ideaRouter(t, newFakeIdeas(), &fakeEdges{}, newFakeUsers(), &fakeNotifs{}, &fakeAnalytics{}, uuid.New(), "dev")

	w := serve(r, http.MethodPost, "/ideas/"+uuid.NewString()+"/echo", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestViewCountsAnonymously(t *testing.T) {
	idea := activeIdea("mira", uuid.New())
	ideas := newFakeIdeas(idea)
	analytics := &fakeAnalytics{}
	h := NewIdeaHandler(ideas, &fakeEdges{}, newFakeUsers(), &fakeNotifs{}, analytics, newTestHub(t), zap.NewNop())

	r := gin.New()
	r.POST("/ideas/:id/view", h.View)

	w := serve(r, http.MethodPost, "/ideas/"+idea.ID.String()+"/view", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), idea.Views)

	require.Len(t, analytics.events, 1)
	assert.Equal(t, "anonymous", analytics.events[0].UserID)
}

func TestConnectionsSeesBothDirections(t *testing.T) {
	authorID := uuid.New()
	center := activeIdea("mira", authorID)
	in := activeIdea("jo", uuid.New())
	out := activeIdea("sam", uuid.New())
	ideas := newFakeIdeas(center, in, out)

	edges := &fakeEdges{}
	_, err := edges.Create(t.Context(), center.ID, out.ID, models.RelationRelatesTo, 1)
	require.NoError(t, err)
	_, err = edges.Create(t.Context(), in.ID, center.ID, models.RelationResolves, 1)
	require.NoError(t, err)

	r := ideaRouter(t, ideas, edges, newFakeUsers(), &fakeNotifs{}, &fakeAnalytics{}, authorID, "mira")

	w := serve(r, http.MethodGet, "/ideas/"+center.ID.String()+"/connections", "")
	require.Equal(t, http.StatusOK, w.Code)

	var conns []models.Connection
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conns))
	require.Len(t, conns, 2)

	neighbors := map[uuid.UUID]bool{}
	for _, conn := range conns {
		neighbors[conn.Idea.ID] = true
		assert.NotEqual(t, center.ID, conn.Idea.ID)
	}
	assert.True(t, neighbors[in.ID])
	assert.True(t, neighbors[out.ID])
}

func TestConnectionsDropsDanglingEdges(t *testing.T) {
	center := activeIdea("mira", uuid.New())
	ideas := newFakeIdeas(center)

	edges := &fakeEdges{}
	_, err := edges.Create(t.Context(), center.ID, uuid.New(), models.RelationRelatesTo, 1)
	require.NoError(t, err)

	r := ideaRouter(t, ideas, edges, newFakeUsers(), &fakeNotifs{}, &fakeAnalytics{}, uuid.New(), "dev")

	w := serve(r, http.MethodGet, "/ideas/"+center.ID.String()+"/connections", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestPublishOwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	idea := activeIdea("mira", ownerID)
	idea.Status = models.StatusDraft
	ideas := newFakeIdeas(idea)

	stranger := ideaRouter(t, ideas, &fakeEdges{}, newFakeUsers(), &fakeNotifs{}, &fakeAnalytics{}, uuid.New(), "jo")
	w := serve(stranger, http.MethodPost, "/ideas/"+idea.ID.String()+"/publish", "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, models.StatusDraft, idea.Status)

	owner := ideaRouter(t, ideas, &fakeEdges{}, newFakeUsers(), &fakeNotifs{}, &fakeAnalytics{}, ownerID, "mira")
	w = serve(owner, http.MethodPost, "/ideas/"+idea.ID.String()+"/publish", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, models.StatusActive, idea.Status)
}

func TestAddContributorNotifies(t *testing.T) {
	ownerID := uuid.New()
	contributorID := uuid.New()
	idea := activeIdea("mira", ownerID)
	ideas := newFakeIdeas(idea)
	notifs := &fakeNotifs{}
	analytics := &fakeAnalytics{}

	r := ideaRouter(t, ideas, &fakeEdges{}, newFakeUsers(), notifs, analytics, ownerID, "mira")

	body := fmt.Sprintf(`{"user_id": %q}`, contributorID)
	w := serve(r, http.MethodPost, "/ideas/"+idea.ID.String()+"/contributors", body)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.True(t, idea.IsContributor(contributorID))

	require.Len(t, notifs.notifs, 1)
	n := notifs.notifs[0]
	assert.Equal(t, contributorID, n.UserID)
	assert.Equal(t, models.NotificationContributorAdded, n.Type)
	assert.Equal(t, idea.Title, n.IdeaTitle)
	assert.Equal(t, "mira", n.FromUserName)

	require.Len(t, analytics.events, 1)
	assert.Equal(t, models.InteractionContributorAdded, analytics.events[0].Type)
}
