package feed

import "github.com/pandora-network/ideanet/internal/models"

// RelationForParent picks the edge type when a new idea is submitted
// in response to an existing one: answering a PROBLEM is a RESOLVES
// edge, anything else just relates.
func RelationForParent(parentType models.IdeaType) models.RelationType {
	if parentType == models.IdeaTypeProblem {
		return models.RelationResolves
	}
	return models.RelationRelatesTo
}
