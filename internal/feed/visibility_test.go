package feed

import (
	"testing"

	"github.com/google/uuid"
	"github.com/pandora-network/ideanet/internal/models"
	"github.com/stretchr/testify/assert"
)

func user(id uuid.UUID, companyID *uuid.UUID, perms *models.UserPermissions) *models.User {
	return &models.User{ID: id, CompanyID: companyID, Permissions: perms}
}

func TestVisible_Draft(t *testing.T) {
	author := uuid.New()
	contributor := uuid.New()
	stranger := uuid.New()

	idea := &models.Idea{
		Status:         models.StatusDraft,
		AuthorID:       author,
		ContributorIDs: []uuid.UUID{contributor},
	}

	assert.False(t, Visible(idea, nil), "draft must never be visible anonymously")
	assert.True(t, Visible(idea, user(author, nil, nil)))
	assert.True(t, Visible(idea, user(contributor, nil, nil)))
	assert.False(t, Visible(idea, user(stranger, nil, nil)))
}

func TestVisible_PublicIdea(t *testing.T) {
	idea := &models.Idea{Status: models.StatusActive, AuthorID: uuid.New()}

	assert.True(t, Visible(idea, nil))
	assert.True(t, Visible(idea, user(uuid.New(), nil, nil)))
}

func TestVisible_CompanyScoped(t *testing.T) {
	companyID := uuid.New()
	otherCompany := uuid.New()

	idea := &models.Idea{
		Status:     models.StatusActive,
		AuthorID:   uuid.New(),
		CompanyID:  &companyID,
		Department: "R&D",
	}

	t.Run("anonymous excluded", func(t *testing.T) {
		assert.False(t, Visible(idea, nil))
	})

	t.Run("public in company bypasses membership", func(t *testing.T) {
		open := *idea
		open.PublicInCompany = true
		assert.True(t, Visible(&open, nil))
		assert.True(t, Visible(&open, user(uuid.New(), &otherCompany, nil)))
	})

	t.Run("other company excluded", func(t *testing.T) {
		assert.False(t, Visible(idea, user(uuid.New(), &otherCompany, nil)))
	})

	t.Run("same company, no permission record sees all", func(t *testing.T) {
		assert.True(t, Visible(idea, user(uuid.New(), &companyID, nil)))
	})

	t.Run("department allow-list enforced", func(t *testing.T) {
		allowed := &models.UserPermissions{Departments: []string{"R&D"}}
		denied := &models.UserPermissions{Departments: []string{"Marketing"}}
		assert.True(t, Visible(idea, user(uuid.New(), &companyID, allowed)))
		assert.False(t, Visible(idea, user(uuid.New(), &companyID, denied)))
	})

	t.Run("empty allow-list means all departments", func(t *testing.T) {
		perms := &models.UserPermissions{Departments: []string{}}
		assert.True(t, Visible(idea, user(uuid.New(), &companyID, perms)))
	})
}

func TestVisible_DraftToPublishScenario(t *testing.T) {
	author := uuid.New()
	idea := &models.Idea{Status: models.StatusDraft, AuthorID: author}

	assert.False(t, Visible(idea, nil))
	assert.True(t, Visible(idea, user(author, nil, nil)))

	idea.Status = models.StatusActive
	assert.True(t, Visible(idea, nil), "published idea is visible anonymously")
}

func TestFilterVisible_PreservesOrder(t *testing.T) {
	author := uuid.New()
	a := models.Idea{ID: uuid.New(), Status: models.StatusActive, AuthorID: author}
	b := models.Idea{ID: uuid.New(), Status: models.StatusDraft, AuthorID: author}
	c := models.Idea{ID: uuid.New(), Status: models.StatusActive, AuthorID: uuid.New()}

	got := FilterVisible([]models.Idea{a, b, c}, nil)

	assert.Equal(t, []models.Idea{a, c}, got)
}
