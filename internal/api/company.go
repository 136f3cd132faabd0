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

// defaultDepartments seeds every new pro company.
var defaultDepartments = []string{"General", "R&D", "Marketing", "HR"}

type CompanyHandler struct {
	companies repository.CompanyRepository
	teams     repository.TeamRepository
	users     repository.UserRepository
	logger    *zap.Logger
}

func NewCompanyHandler(
	companies repository.CompanyRepository,
	teams repository.TeamRepository,
	users repository.UserRepository,
	logger *zap.Logger,
) *CompanyHandler {
	return &CompanyHandler{companies: companies, teams: teams, users: users, logger: logger}
}

type upgradeRequest struct {
	CompanyName  string `json:"company_name" binding:"required,min=2,max=120"`
	BillingCycle string `json:"billing_cycle" binding:"required,oneof=monthly annual"`
}

// Upgrade handles POST /v1/billing/upgrade: creates the pro company
// and promotes the caller to its admin in one flow. Payment capture is
// assumed to have happened upstream.
func (h *CompanyHandler) Upgrade(c *gin.Context) {
	var req upgradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	userID := middleware.GetUserID(c)

	viewer, err := h.users.GetByID(ctx, userID)
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade"})
		return
	}
	if viewer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if viewer.CompanyID != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "user already belongs to a company"})
		return
	}

	company, err := h.companies.Create(ctx, req.CompanyName, models.PlanPro, req.BillingCycle, defaultDepartments)
	if err != nil {
		h.logger.Error("failed to create company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade"})
		return
	}

	if err := h.users.PromoteToCompanyAdmin(ctx, userID, company.ID, company.Departments); err != nil {
		h.logger.Error("failed to promote user", zap.Error(err),
			zap.String("company_id", company.ID.String()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade"})
		return
	}

	c.JSON(http.StatusCreated, company)
}

// GetByID handles GET /v1/companies/:id. Membership is required.
func (h *CompanyHandler) GetByID(c *gin.Context) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	ctx := c.Request.Context()
	viewer, err := h.users.GetByID(ctx, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get company"})
		return
	}
	if viewer == nil || viewer.CompanyID == nil || *viewer.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this company"})
		return
	}

	company, err := h.companies.GetByID(ctx, companyID)
	if err != nil {
		h.logger.Error("failed to get company", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get company"})
		return
	}
	if company == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "company not found"})
		return
	}

	c.JSON(http.StatusOK, company)
}

// ListTeams handles GET /v1/companies/:id/teams.
func (h *CompanyHandler) ListTeams(c *gin.Context) {
	companyID, ok := h.memberCompany(c)
	if !ok {
		return
	}

	teams, err := h.teams.ListByCompany(c.Request.Context(), companyID)
	if err != nil {
		h.logger.Error("failed to list teams", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list teams"})
		return
	}

	c.JSON(http.StatusOK, teams)
}

type createTeamRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
}

// CreateTeam handles POST /v1/companies/:id/teams. Restricted to
// company admins.
func (h *CompanyHandler) CreateTeam(c *gin.Context) {
	var req createTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return
	}

	ctx := c.Request.Context()
	viewer, err := h.users.GetByID(ctx, middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create team"})
		return
	}
	if viewer == nil || viewer.CompanyID == nil || *viewer.CompanyID != companyID ||
		viewer.Role != models.RoleCompanyAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "company admin required"})
		return
	}

	team, err := h.teams.Create(ctx, companyID, req.Name)
	if err != nil {
		h.logger.Error("failed to create team", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create team"})
		return
	}

	c.JSON(http.StatusCreated, team)
}

// memberCompany parses :id and verifies the caller belongs to it,
// writing the error response itself on failure.
func (h *CompanyHandler) memberCompany(c *gin.Context) (uuid.UUID, bool) {
	companyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid company id"})
		return uuid.Nil, false
	}

	viewer, err := h.users.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.logger.Error("failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve company"})
		return uuid.Nil, false
	}
	if viewer == nil || viewer.CompanyID == nil || *viewer.CompanyID != companyID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this company"})
		return uuid.Nil, false
	}

	return companyID, true
}
