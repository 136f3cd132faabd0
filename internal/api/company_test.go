package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeCompanies is an in-memory CompanyRepository.
type fakeCompanies struct {
	byID map[uuid.UUID]*models.Company
}

func newFakeCompanies() *fakeCompanies {
	return &fakeCompanies{byID: make(map[uuid.UUID]*models.Company)}
}

func (f *fakeCompanies) Create(_ context.Context, name string, plan models.CompanyPlan, billingCycle string, departments []string) (*models.Company, error) {
	company := &models.Company{
		ID:           uuid.New(),
		Name:         name,
		Plan:         plan,
		BillingCycle: billingCycle,
		Departments:  departments,
		CreatedAt:    time.Now(),
	}
	f.byID[company.ID] = company
	return company, nil
}

func (f *fakeCompanies) GetByID(_ context.Context, id uuid.UUID) (*models.Company, error) {
	return f.byID[id], nil
}

// fakeTeams is an in-memory TeamRepository.
type fakeTeams struct {
	teams []models.Team
}

func (f *fakeTeams) Create(_ context.Context, companyID uuid.UUID, name string) (*models.Team, error) {
	team := models.Team{ID: uuid.New(), CompanyID: companyID, Name: name, MemberIDs: []uuid.UUID{}}
	f.teams = append(f.teams, team)
	return &team, nil
}

func (f *fakeTeams) ListByCompany(_ context.Context, companyID uuid.UUID) ([]models.Team, error) {
	out := make([]models.Team, 0)
	for _, team := range f.teams {
		if team.CompanyID == companyID {
			out = append(out, team)
		}
	}
	return out, nil
}

func companyRouter(companies *fakeCompanies, teams *fakeTeams, users *fakeUsers, userID uuid.UUID) *gin.Engine {
	h := NewCompanyHandler(companies, teams, users, zap.NewNop())

	r := gin.New()
	r.Use(identityFor(userID, "dev"))
	r.POST("/billing/upgrade", h.Upgrade)
	r.GET("/companies/:id", h.GetByID)
	r.GET("/companies/:id/teams", h.ListTeams)
	r.POST("/companies/:id/teams", h.CreateTeam)
	return r
}

func TestUpgradePromotesCaller(t *testing.T) {
	user := &models.User{ID: uuid.New(), Name: "mira", Role: models.RoleIndividual}
	users := newFakeUsers(user)
	companies := newFakeCompanies()

	r := companyRouter(companies, &fakeTeams{}, users, user.ID)

	w := serve(r, http.MethodPost, "/billing/upgrade", `{"company_name": "Pandora Labs", "billing_cycle": "monthly"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var company models.Company
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &company))
	assert.Equal(t, models.PlanPro, company.Plan)
	assert.Equal(t, []string{"General", "R&D", "Marketing", "HR"}, company.Departments)

	assert.Equal(t, models.RoleCompanyAdmin, user.Role)
	require.NotNil(t, user.CompanyID)
	assert.Equal(t, company.ID, *user.CompanyID)
	require.NotNil(t, user.Permissions)
	assert.True(t, user.Permissions.CanSeeAnalytics)
}

func TestUpgradeRejectsExistingMember(t *testing.T) {
	companyID := uuid.New()
	user := &models.User{ID: uuid.New(), Name: "mira", CompanyID: &companyID}

	r := companyRouter(newFakeCompanies(), &fakeTeams{}, newFakeUsers(user), user.ID)

	w := serve(r, http.MethodPost, "/billing/upgrade", `{"company_name": "Pandora Labs", "billing_cycle": "monthly"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCompanyAccessRequiresMembership(t *testing.T) {
	companies := newFakeCompanies()
	company, err := companies.Create(t.Context(), "Pandora Labs", models.PlanPro, "monthly", []string{"General"})
	require.NoError(t, err)

	outsider := &models.User{ID: uuid.New(), Name: "jo"}
	r := companyRouter(companies, &fakeTeams{}, newFakeUsers(outsider), outsider.ID)

	w := serve(r, http.MethodGet, "/companies/"+company.ID.String(), "")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateTeamAdminOnly(t *testing.T) {
	companies := newFakeCompanies()
	company, err := companies.Create(t.Context(), "Pandora Labs", models.PlanPro, "monthly", []string{"General"})
	require.NoError(t, err)

	member := &models.User{ID: uuid.New(), Name: "jo", Role: models.RoleCompanyMember, CompanyID: &company.ID}
	teams := &fakeTeams{}

	r := companyRouter(companies, teams, newFakeUsers(member), member.ID)
	w := serve(r, http.MethodPost, "/companies/"+company.ID.String()+"/teams", `{"name": "Platform"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	member.Role = models.RoleCompanyAdmin
	w = serve(r, http.MethodPost, "/companies/"+company.ID.String()+"/teams", `{"name": "Platform"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, teams.teams, 1)
	assert.Equal(t, "Platform", teams.teams[0].Name)

	w = serve(r, http.MethodGet, "/companies/"+company.ID.String()+"/teams", "")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []models.Team
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}
