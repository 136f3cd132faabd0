package feed

import "github.com/pandora-network/ideanet/internal/models"

// ComputeProgress folds the four onboarding checks into a score.
// Each task weighs the same; the percentage is 100 only when all four
// are done.
func ComputeProgress(profileCompleted, ideaCreated, favoriteMarked, commentAdded bool) models.UserProgress {
	tasks := []bool{profileCompleted, ideaCreated, favoriteMarked, commentAdded}
	done := 0
	for _, t := range tasks {
		if t {
			done++
		}
	}

	return models.UserProgress{
		ProfileCompleted: profileCompleted,
		IdeaCreated:      ideaCreated,
		FavoriteMarked:   favoriteMarked,
		CommentAdded:     commentAdded,
		Percentage:       float64(done) / float64(len(tasks)) * 100,
	}
}

// ProfileCompleted is the profile half of the progress tracker: a
// profile counts as complete once both bio and avatar are set.
func ProfileCompleted(u *models.User) bool {
	return u != nil && u.Bio != "" && u.Avatar != ""
}
