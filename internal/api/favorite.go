package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	favorites repository.FavoriteRepository
	ideas     repository.IdeaRepository
	analytics repository.AnalyticsRepository
	logger    *zap.Logger
}

func NewFavoriteHandler(
	favorites repository.FavoriteRepository,
	ideas repository.IdeaRepository,
	analytics repository.AnalyticsRepository,
	logger *zap.Logger,
) *FavoriteHandler {
	return &FavoriteHandler{
		favorites: favorites,
		ideas:     ideas,
		analytics: analytics,
		logger:    logger,
	}
}

// Toggle handles POST /v1/ideas/:id/favorite
//
// Two states keyed by (user, idea): PRESENT deletes and answers
// false, ABSENT creates and answers true. Concurrent toggles from two
// sessions race last-write-wins; there is no lock.
func (h *FavoriteHandler) Toggle(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}
	userID := middleware.GetUserID(c)

	idea, err := h.ideas.GetByID(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	exists, err := h.favorites.Exists(c.Request.Context(), userID, ideaID)
	if err != nil {
		h.logger.Error("failed to check favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
		return
	}

	if exists {
		if err := h.favorites.Remove(c.Request.Context(), userID, ideaID); err != nil {
			h.logger.Error("failed to remove favorite", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"favorited": false})
		return
	}

	if err := h.favorites.Add(c.Request.Context(), userID, ideaID); err != nil {
		h.logger.Error("failed to add favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to toggle favorite"})
		return
	}

	// Only the transition into PRESENT is an analytics event.
	if err := h.analytics.Log(c.Request.Context(), models.AnalyticsEvent{
		Type:       models.InteractionFavorite,
		IdeaID:     idea.ID,
		IdeaAuthor: idea.Author,
		UserID:     userID.String(),
	}); err != nil {
		h.logger.Warn("failed to log favorite interaction", zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"favorited": true})
}

// Status handles GET /v1/ideas/:id/favorite
func (h *FavoriteHandler) Status(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	exists, err := h.favorites.Exists(c.Request.Context(), middleware.GetUserID(c), ideaID)
	if err != nil {
		h.logger.Error("failed to check favorite", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check favorite"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": exists})
}

// List handles GET /v1/favorites: the user's favorited ideas,
// skipping ids whose idea has meanwhile disappeared.
func (h *FavoriteHandler) List(c *gin.Context) {
	ids, err := h.favorites.ListIdeaIDs(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to list favorites", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
		return
	}

	ideas := make([]models.Idea, 0, len(ids))
	for _, id := range ids {
		idea, err := h.ideas.GetByID(c.Request.Context(), id)
		if err != nil {
			h.logger.Error("failed to resolve favorite", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list favorites"})
			return
		}
		if idea == nil {
			continue
		}
		ideas = append(ideas, *idea)
	}

	c.JSON(http.StatusOK, ideas)
}
