package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/feed"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

type CommentHandler struct {
	comments  repository.CommentRepository
	ideas     repository.IdeaRepository
	analytics repository.AnalyticsRepository
	logger    *zap.Logger
}

func NewCommentHandler(
	comments repository.CommentRepository,
	ideas repository.IdeaRepository,
	analytics repository.AnalyticsRepository,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		comments:  comments,
		ideas:     ideas,
		analytics: analytics,
		logger:    logger,
	}
}

// List handles GET /v1/ideas/:id/comments
func (h *CommentHandler) List(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	comments, err := h.comments.ListByIdea(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to list comments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

// ListByAuthor handles GET /v1/users/:username/comments
func (h *CommentHandler) ListByAuthor(c *gin.Context) {
	comments, err := h.comments.ListByAuthor(c.Request.Context(), c.Param("username"))
	if err != nil {
		h.logger.Error("failed to list comments by author", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list comments"})
		return
	}

	c.JSON(http.StatusOK, comments)
}

type createCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Create handles POST /v1/ideas/:id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	var req createCommentRequest
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
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), ideaID, middleware.GetUserName(c), req.Text)
	if err != nil {
		h.logger.Error("failed to create comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add comment"})
		return
	}

	if err := h.analytics.Log(c.Request.Context(), models.AnalyticsEvent{
		Type:       models.InteractionComment,
		IdeaID:     idea.ID,
		IdeaAuthor: idea.Author,
		UserID:     middleware.GetUserID(c).String(),
	}); err != nil {
		h.logger.Warn("failed to log comment interaction", zap.Error(err))
	}

	c.JSON(http.StatusCreated, comment)
}

type reactionRequest struct {
	Emoji string `json:"emoji" binding:"required"`
}

// React handles POST /v1/comments/:id/reactions: a set-membership
// toggle per (comment, emoji, user). The read-modify-write races
// last-write-wins across sessions, like the system it replaces.
func (h *CommentHandler) React(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	comment, err := h.comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		h.logger.Error("failed to get comment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to react"})
		return
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}

	reactions, added := feed.ToggleReaction(comment.Reactions, req.Emoji, middleware.GetUserID(c).String())
	if err := h.comments.SetReactions(c.Request.Context(), commentID, reactions); err != nil {
		h.logger.Error("failed to save reactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to react"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"reacted": added, "reactions": reactions})
}
