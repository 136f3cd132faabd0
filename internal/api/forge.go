package api

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/forge"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

type ForgeHandler struct {
	forge  *forge.Service
	ideas  repository.IdeaRepository
	users  repository.UserRepository
	logger *zap.Logger
}

func NewForgeHandler(svc *forge.Service, ideas repository.IdeaRepository, users repository.UserRepository, logger *zap.Logger) *ForgeHandler {
	return &ForgeHandler{forge: svc, ideas: ideas, users: users, logger: logger}
}

// lang resolves the response language: explicit request value first,
// then the caller's profile preference, then English.
func (h *ForgeHandler) lang(c *gin.Context, requested string) string {
	if requested != "" {
		return requested
	}
	user, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil || user == nil || user.PreferredLanguage == "" {
		return "en"
	}
	return user.PreferredLanguage
}

type analyzeRequest struct {
	Language string `json:"language" binding:"omitempty,oneof=en pt es"`
}

// Analyze handles POST /v1/ideas/:id/analyze. Only the author may run
// it; the result is stored on the idea and moves it into the forge.
func (h *ForgeHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	ctx := c.Request.Context()
	idea, err := h.ideas.GetByID(ctx, ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to analyze idea"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}
	if idea.Author != middleware.GetUserName(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the author may analyze an idea"})
		return
	}

	analysis, err := h.forge.AnalyzeBusiness(ctx, idea, h.lang(c, req.Language))
	if err != nil {
		h.logger.Error("business analysis failed", zap.Error(err),
			zap.String("idea_id", ideaID.String()))
		c.JSON(http.StatusBadGateway, gin.H{"error": "analysis failed"})
		return
	}

	if err := h.ideas.AttachAnalysis(ctx, ideaID, analysis); err != nil {
		h.logger.Error("failed to save analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   models.StatusInForge,
		"analysis": analysis,
	})
}

type refineRequest struct {
	Input    string          `json:"input" binding:"required,min=3"`
	Type     models.IdeaType `json:"type" binding:"required,oneof=PROBLEM SOLUTION"`
	Language string          `json:"language" binding:"omitempty,oneof=en pt es"`
}

// Refine handles POST /v1/forge/refine: raw input to a publishable
// draft shape.
func (h *ForgeHandler) Refine(c *gin.Context) {
	var req refineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	refinement, err := h.forge.RefineDraft(c.Request.Context(), req.Input, req.Type, h.lang(c, req.Language))
	if err != nil {
		h.logger.Error("draft refinement failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "refinement failed"})
		return
	}

	c.JSON(http.StatusOK, refinement)
}

type imageAnalysisRequest struct {
	ImageBase64 string `json:"image_base64" binding:"required"`
	MIMEType    string `json:"mime_type" binding:"required,oneof=image/jpeg image/png image/webp image/gif"`
	Language    string `json:"language" binding:"omitempty,oneof=en pt es"`
}

// AnalyzeImage handles POST /v1/forge/image.
func (h *ForgeHandler) AnalyzeImage(c *gin.Context) {
	var req imageAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid base64 image data"})
		return
	}

	analysis, err := h.forge.AnalyzeImage(c.Request.Context(), data, req.MIMEType, h.lang(c, req.Language))
	if err != nil {
		h.logger.Error("image analysis failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "image analysis failed"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

type brainstormRequest struct {
	Language string `json:"language" binding:"omitempty,oneof=en pt es"`
}

// Brainstorm handles POST /v1/ideas/:id/brainstorm: three suggested
// directions for connecting the idea.
func (h *ForgeHandler) Brainstorm(c *gin.Context) {
	var req brainstormRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	ctx := c.Request.Context()
	idea, err := h.ideas.GetByID(ctx, ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to brainstorm"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	suggestions, err := h.forge.BrainstormConnections(ctx, idea, h.lang(c, req.Language))
	if err != nil {
		h.logger.Error("brainstorm failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "brainstorm failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}
