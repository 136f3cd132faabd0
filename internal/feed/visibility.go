// Package feed holds the pure domain rules that sit between the
// repositories and the HTTP handlers: who may see which idea, how
// reaction sets toggle, and the onboarding progress score.
package feed

import (
	"github.com/pandora-network/ideanet/internal/models"
)

// Visible reports whether viewer may see the idea. A nil viewer is an
// anonymous request.
//
// Drafts are private to the author and contributors. Company-scoped
// ideas are open if flagged public-in-company, otherwise require
// membership of the same company; a non-empty department allow-list
// on the viewer further restricts by the idea's department. Anything
// else is public.
func Visible(idea *models.Idea, viewer *models.User) bool {
	if idea.Status == models.StatusDraft {
		if viewer == nil {
			return false
		}
		return idea.AuthorID == viewer.ID || idea.IsContributor(viewer.ID)
	}

	if idea.CompanyID != nil {
		if idea.PublicInCompany {
			return true
		}
		if viewer == nil || viewer.CompanyID == nil || *viewer.CompanyID != *idea.CompanyID {
			return false
		}
		if viewer.Permissions != nil && len(viewer.Permissions.Departments) > 0 && idea.Department != "" {
			for _, d := range viewer.Permissions.Departments {
				if d == idea.Department {
					return true
				}
			}
			return false
		}
		return true
	}

	return true
}

// FilterVisible returns the subset of ideas the viewer may see,
// preserving order.
func FilterVisible(ideas []models.Idea, viewer *models.User) []models.Idea {
	out := make([]models.Idea, 0, len(ideas))
	for i := range ideas {
		if Visible(&ideas[i], viewer) {
			out = append(out, ideas[i])
		}
	}
	return out
}
