package feed

import "github.com/pandora-network/ideanet/internal/models"

// ToggleReaction flips userID's membership in the emoji's reaction
// set and returns the updated map plus whether the user is now
// present. Emojis whose set becomes empty are dropped entirely so
// they disappear from rendered tallies. The input map is not
// mutated.
func ToggleReaction(reactions models.Reactions, emoji, userID string) (models.Reactions, bool) {
	out := make(models.Reactions, len(reactions)+1)
	for k, v := range reactions {
		out[k] = append([]string(nil), v...)
	}

	set := out[emoji]
	for i, id := range set {
		if id == userID {
			set = append(set[:i], set[i+1:]...)
			if len(set) == 0 {
				delete(out, emoji)
			} else {
				out[emoji] = set
			}
			return out, false
		}
	}

	out[emoji] = append(set, userID)
	return out, true
}
