package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

type AnalyticsHandler struct {
	analytics repository.AnalyticsRepository
	ideas     repository.IdeaRepository
	users     repository.UserRepository
	logger    *zap.Logger
}

func NewAnalyticsHandler(
	analytics repository.AnalyticsRepository,
	ideas repository.IdeaRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, ideas: ideas, users: users, logger: logger}
}

// ForUser handles GET /v1/analytics/me: every interaction recorded
// against the caller's own ideas.
func (h *AnalyticsHandler) ForUser(c *gin.Context) {
	events, err := h.analytics.ListByIdeaAuthor(c.Request.Context(), middleware.GetUserName(c))
	if err != nil {
		h.logger.Error("failed to list analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analytics"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// ForCompany handles GET /v1/analytics/company/:id. Only members whose
// permissions include analytics access may read the company feed.
func (h *AnalyticsHandler) ForCompany(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	ctx := c.Request.Context()
	viewer, err := h.users.GetByID(ctx, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analytics"})
		return
	}
	if viewer == nil || viewer.CompanyID == nil || *viewer.CompanyID != companyID ||
		viewer.Permissions == nil || !viewer.Permissions.CanSeeAnalytics {
		c.JSON(http.StatusForbidden, gin.H{"error": "analytics access denied"})
		return
	}

	ideas, err := h.ideas.ListByCompany(ctx, companyID)
	if err != nil {
		h.logger.Error("failed to list company ideas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analytics"})
		return
	}

	ids := make([]uuid.UUID, 0, len(ideas))
	for _, idea := range ideas {
		ids = append(ids, idea.ID)
	}

	events, err := h.analytics.ListByIdeaIDs(ctx, ids)
	if err != nil {
		h.logger.Error("failed to list analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analytics"})
		return
	}

	c.JSON(http.StatusOK, events)
}
