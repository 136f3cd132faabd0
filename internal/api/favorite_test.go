package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func favoriteRouter(ideas *fakeIdeas, favorites *fakeFavorites, analytics *fakeAnalytics, userID uuid.UUID) *gin.Engine {
	h := NewFavoriteHandler(favorites, ideas, analytics, zap.NewNop())

	r := gin.New()
	r.Use(identityFor(userID, "dev"))
	r.POST("/ideas/:id/favorite", h.Toggle)
	r.GET("/ideas/:id/favorite", h.Status)
	r.GET("/favorites", h.List)
	return r
}

func TestFavoriteToggleRoundTrip(t *testing.T) {
	userID := uuid.New()
	idea := activeIdea("mira", uuid.New())
	analytics := &fakeAnalytics{}
	r := favoriteRouter(newFakeIdeas(idea), newFakeFavorites(), analytics, userID)

	path := "/ideas/" + idea.ID.String() + "/favorite"

	w := serve(r, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"favorited": true}`, w.Body.String())

	w = serve(r, http.MethodGet, path, "")
	assert.JSONEq(t, `{"favorited": true}`, w.Body.String())

	w = serve(r, http.MethodPost, path, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"favorited": false}`, w.Body.String())

	w = serve(r, http.MethodGet, path, "")
	assert.JSONEq(t, `{"favorited": false}`, w.Body.String())

	// Only the add half of the toggle is an interaction.
	require.Len(t, analytics.events, 1)
	assert.Equal(t, models.InteractionFavorite, analytics.events[0].Type)
	assert.Equal(t, userID.String(), analytics.events[0].UserID)
}

func TestFavoriteToggleUnknownIdea(t *testing.T) {
	r := favoriteRouter(newFakeIdeas(), newFakeFavorites(), &fakeAnalytics{}, uuid.New())

	w := serve(r, http.MethodPost, "/ideas/"+uuid.NewString()+"/favorite", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFavoriteListSkipsVanishedIdeas(t *testing.T) {
	userID := uuid.New()
	idea := activeIdea("mira", uuid.New())
	favorites := newFakeFavorites()
	require.NoError(t, favorites.Add(t.Context(), userID, idea.ID))
	require.NoError(t, favorites.Add(t.Context(), userID, uuid.New()))

	r := favoriteRouter(newFakeIdeas(idea), favorites, &fakeAnalytics{}, userID)

	w := serve(r, http.MethodGet, "/favorites", "")
	require.Equal(t, http.StatusOK, w.Code)

	var ideas []models.Idea
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ideas))
	require.Len(t, ideas, 1)
	assert.Equal(t, idea.ID, ideas[0].ID)
}
