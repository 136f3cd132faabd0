package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/feed"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/pandora-network/ideanet/internal/realtime"
	"github.com/pandora-network/ideanet/internal/repository"
	"go.uber.org/zap"
)

// IdeaHandler covers the idea lifecycle, the feed, counters, the
// connections view, and the contributor flow.
type IdeaHandler struct {
	ideas     repository.IdeaRepository
	edges     repository.EdgeRepository
	users     repository.UserRepository
	notifs    repository.NotificationRepository
	analytics repository.AnalyticsRepository
	hub       *realtime.Hub
	logger    *zap.Logger
}

func NewIdeaHandler(
	ideas repository.IdeaRepository,
	edges repository.EdgeRepository,
	users repository.UserRepository,
	notifs repository.NotificationRepository,
	analytics repository.AnalyticsRepository,
	hub *realtime.Hub,
	logger *zap.Logger,
) *IdeaHandler {
	return &IdeaHandler{
		ideas:     ideas,
		edges:     edges,
		users:     users,
		notifs:    notifs,
		analytics: analytics,
		hub:       hub,
		logger:    logger,
	}
}

// viewer resolves the requesting user's full record, or nil for an
// anonymous request. Visibility needs company and permission fields
// that the JWT doesn't carry.
func (h *IdeaHandler) viewer(c *gin.Context) (*models.User, error) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return nil, nil
	}
	return h.users.GetByID(c.Request.Context(), userID)
}

// List handles GET /v1/ideas?sort=RECENT|VOTES|VIEWS
//
// Fetch-then-filter: the repository orders the full collection by the
// sort key and the visibility rules run in memory, same shape as the
// system this replaces.
func (h *IdeaHandler) List(c *gin.Context) {
	sortBy := models.SortOption(c.DefaultQuery("sort", string(models.SortRecent)))
	switch sortBy {
	case models.SortRecent, models.SortVotes, models.SortViews:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort option"})
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		h.logger.Error("failed to resolve viewer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ideas"})
		return
	}

	ideas, err := h.ideas.ListAll(c.Request.Context(), sortBy)
	if err != nil {
		h.logger.Error("failed to list ideas", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ideas"})
		return
	}

	c.JSON(http.StatusOK, feed.FilterVisible(ideas, viewer))
}

// GetByID handles GET /v1/ideas/:id
func (h *IdeaHandler) GetByID(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	idea, err := h.ideas.GetByID(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get idea"})
		return
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	viewer, err := h.viewer(c)
	if err != nil {
		h.logger.Error("failed to resolve viewer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get idea"})
		return
	}
	if !feed.Visible(idea, viewer) {
		// Hidden and missing are indistinguishable on purpose.
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return
	}

	c.JSON(http.StatusOK, idea)
}

// ListByAuthor handles GET /v1/users/:username/ideas
func (h *IdeaHandler) ListByAuthor(c *gin.Context) {
	author := c.Param("username")

	viewer, err := h.viewer(c)
	if err != nil {
		h.logger.Error("failed to resolve viewer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ideas"})
		return
	}

	ideas, err := h.ideas.ListByAuthor(c.Request.Context(), author)
	if err != nil {
		h.logger.Error("failed to list ideas by author", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list ideas"})
		return
	}

	c.JSON(http.StatusOK, feed.FilterVisible(ideas, viewer))
}

type createIdeaRequest struct {
	Type            models.IdeaType    `json:"type" binding:"required,oneof=PROBLEM SOLUTION"`
	Title           string             `json:"title" binding:"required"`
	Description     string             `json:"description" binding:"required"`
	Tags            []string           `json:"tags"`
	Department      string             `json:"department"`
	CompanyID       *uuid.UUID         `json:"company_id"`
	TeamID          *uuid.UUID         `json:"team_id"`
	PublicInCompany bool               `json:"public_in_company"`
	Media           []models.IdeaMedia `json:"media"`

	// InResponseTo links the new idea to an existing one with a typed
	// edge.
	InResponseTo *uuid.UUID `json:"in_response_to"`
}

// Create handles POST /v1/ideas
//
// When the idea answers an existing one, the edge is a second,
// independent write. A failure after the idea insert leaves a node
// with no edge; that is logged and accepted rather than rolled back.
func (h *IdeaHandler) Create(c *gin.Context) {
	var req createIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parent *models.Idea
	if req.InResponseTo != nil {
		var err error
		parent, err = h.ideas.GetByID(c.Request.Context(), *req.InResponseTo)
		if err != nil {
			h.logger.Error("failed to load parent idea", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create idea"})
			return
		}
		if parent == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parent idea not found"})
			return
		}
	}

	idea, err := h.ideas.Create(c.Request.Context(), repository.NewIdea{
		Type:            req.Type,
		Title:           req.Title,
		Description:     req.Description,
		Author:          middleware.GetUserName(c),
		AuthorID:        middleware.GetUserID(c),
		Tags:            req.Tags,
		CompanyID:       req.CompanyID,
		TeamID:          req.TeamID,
		Department:      req.Department,
		PublicInCompany: req.PublicInCompany,
		Media:           req.Media,
	})
	if err != nil {
		h.logger.Error("failed to create idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create idea"})
		return
	}

	if parent != nil {
		relType := feed.RelationForParent(parent.Type)
		if _, err := h.edges.Create(c.Request.Context(), idea.ID, parent.ID, relType, 1); err != nil {
			h.logger.Error("failed to create edge for new idea",
				zap.String("idea_id", idea.ID.String()),
				zap.String("parent_id", parent.ID.String()),
				zap.Error(err),
			)
		}
	}

	c.JSON(http.StatusCreated, idea)
}

// Publish handles POST /v1/ideas/:id/publish: owner-only
// DRAFT→ACTIVE.
func (h *IdeaHandler) Publish(c *gin.Context) {
	idea, ok := h.ownedIdea(c)
	if !ok {
		return
	}

	if err := h.ideas.Publish(c.Request.Context(), idea.ID); err != nil {
		h.logger.Error("failed to publish idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish idea"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Echo handles POST /v1/ideas/:id/echo: one vote per call, no
// dedup. Every click counts.
func (h *IdeaHandler) Echo(c *gin.Context) {
	idea := h.loadIdea(c)
	if idea == nil {
		return
	}

	votes, err := h.ideas.IncrementVotes(c.Request.Context(), idea.ID)
	if err != nil {
		h.logger.Error("failed to echo idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to echo idea"})
		return
	}

	h.logInteraction(c, models.InteractionEcho, idea)

	c.JSON(http.StatusOK, gin.H{"votes": votes})
}

// View handles POST /v1/ideas/:id/view.
func (h *IdeaHandler) View(c *gin.Context) {
	idea := h.loadIdea(c)
	if idea == nil {
		return
	}

	views, err := h.ideas.IncrementViews(c.Request.Context(), idea.ID)
	if err != nil {
		h.logger.Error("failed to count view", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count view"})
		return
	}

	h.logInteraction(c, models.InteractionView, idea)

	c.JSON(http.StatusOK, gin.H{"views": views})
}

// Connections handles GET /v1/ideas/:id/connections: the direct
// neighborhood of a node. Edges whose other endpoint no longer
// resolves are dropped silently.
func (h *IdeaHandler) Connections(c *gin.Context) {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return
	}

	edges, err := h.edges.ListByEndpoint(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to list edges", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load connections"})
		return
	}

	connections := make([]models.Connection, 0, len(edges))
	for _, edge := range edges {
		neighbor, err := h.ideas.GetByID(c.Request.Context(), edge.Other(ideaID))
		if err != nil {
			h.logger.Error("failed to resolve connection", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load connections"})
			return
		}
		if neighbor == nil {
			continue
		}
		connections = append(connections, models.Connection{Idea: *neighbor, Edge: edge})
	}

	c.JSON(http.StatusOK, connections)
}

type addContributorRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// AddContributor handles POST /v1/ideas/:id/contributors: owner-only.
//
// Contributor append and notification insert are two independent
// writes; the event log and the live push are best effort on top.
func (h *IdeaHandler) AddContributor(c *gin.Context) {
	var req addContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	idea, ok := h.ownedIdea(c)
	if !ok {
		return
	}

	if err := h.ideas.AddContributor(c.Request.Context(), idea.ID, req.UserID); err != nil {
		h.logger.Error("failed to add contributor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add contributor"})
		return
	}

	notif, err := h.notifs.Create(c.Request.Context(), models.Notification{
		UserID:       req.UserID,
		Type:         models.NotificationContributorAdded,
		IdeaID:       idea.ID,
		IdeaTitle:    idea.Title,
		FromUserName: middleware.GetUserName(c),
	})
	if err != nil {
		h.logger.Error("failed to create notification", zap.Error(err))
	} else {
		h.hub.PublishNotification(c.Request.Context(), notif)
	}

	h.logInteraction(c, models.InteractionContributorAdded, idea)

	c.Status(http.StatusNoContent)
}

// loadIdea parses :id and fetches the idea, writing the error
// response itself when something is off.
func (h *IdeaHandler) loadIdea(c *gin.Context) *models.Idea {
	ideaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid idea id"})
		return nil
	}

	idea, err := h.ideas.GetByID(c.Request.Context(), ideaID)
	if err != nil {
		h.logger.Error("failed to get idea", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get idea"})
		return nil
	}
	if idea == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "idea not found"})
		return nil
	}
	return idea
}

// ownedIdea is loadIdea plus an ownership check against the caller.
func (h *IdeaHandler) ownedIdea(c *gin.Context) (*models.Idea, bool) {
	idea := h.loadIdea(c)
	if idea == nil {
		return nil, false
	}
	if idea.AuthorID != middleware.GetUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not the idea owner"})
		return nil, false
	}
	return idea, true
}

// logInteraction appends to the analytics log; a failure there never
// fails the user-facing operation.
func (h *IdeaHandler) logInteraction(c *gin.Context, itype models.InteractionType, idea *models.Idea) {
	userID := ""
	if id := middleware.GetUserID(c); id != uuid.Nil {
		userID = id.String()
	}
	err := h.analytics.Log(c.Request.Context(), models.AnalyticsEvent{
		Type:       itype,
		IdeaID:     idea.ID,
		IdeaAuthor: idea.Author,
		UserID:     userID,
	})
	if err != nil {
		h.logger.Warn("failed to log interaction",
			zap.String("type", string(itype)),
			zap.Error(err),
		)
	}
}
