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

type ContributionHandler struct {
	contributions repository.ContributionRepository
	ideas         repository.IdeaRepository
	logger        *zap.Logger
}

func NewContributionHandler(
	contributions repository.ContributionRepository,
	ideas repository.IdeaRepository,
	logger *zap.Logger,
) *ContributionHandler {
	return &ContributionHandler{
		contributions: contributions,
		ideas:         ideas,
		logger:        logger,
	}
}

// ListByIdea handles GET /v1/ideas/:id/contributions
func (h *ContributionHandler) ListByIdea(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	contribs, err := h.contributions.ListByIdea(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to list contributions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contributions"})
		return
	}

	c.JSON(http.StatusOK, contribs)
}

// ListByAuthor handles GET /v1/users/:username/contributions
func (h *ContributionHandler) ListByAuthor(c *gin.Context) {
	contribs, err := h.contributions.ListByAuthor(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.logger.Error("failed to list contributions by author", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contributions"})
		return
	}

	c.JSON(http.StatusOK, contribs)
}

type createContributionRequest struct {
	Type    models.ContributionType `json:"type" binding:"required,oneof=INFO DOC IMAGE VIDEO AUDIO LINK PRODUCT"`
	Title   string                  `json:"title"`
	Content string                  `json:"content" binding:"required"`
}

// Create handles POST /v1/ideas/:id/contributions
func (h *ContributionHandler) Create(c *gin.Context) {
	var req createContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	idea, err := h.ideas.GetByID(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add contribution"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	contrib, err := h.contributions.Create(c.Request.Context(), ideaID,
		middleware.GetUserName(c), req.Type, req.Title, req.Content)
	if err != nil {
		h.logger.Error("failed to create contribution", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add contribution"})
		return
	}

	c.JSON(http.StatusCreated, contrib)
}
