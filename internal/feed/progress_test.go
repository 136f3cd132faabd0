package feed

import (
	"testing"

	"github.com/pandora-network/ideanet/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestComputeProgress(t *testing.T) {
	tests := []struct {
		name    string
		profile bool
		idea    bool
		fav     bool
		comment bool
		want    float64
	}{
		{"nothing done", false, false, false, false, 0},
		{"one task", true, false, false, false, 25},
		{"two tasks", true, true, false, false, 50},
		{"three tasks", true, true, true, false, 75},
		{"all tasks", true, true, true, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeProgress(tt.profile, tt.idea, tt.fav, tt.comment)
			assert.Equal(t, tt.want, got.Percentage)
		})
	}
}

func TestComputeProgress_MonotonicNonDecreasing(t *testing.T) {
	prev := ComputeProgress(false, false, false, false).Percentage
	steps := []models.UserProgress{
		ComputeProgress(true, false, false, false),
		ComputeProgress(true, true, false, false),
		ComputeProgress(true, true, true, false),
		ComputeProgress(true, true, true, true),
	}
	for _, s := range steps {
		assert.GreaterOrEqual(t, s.Percentage, prev)
		prev = s.Percentage
	}
	assert.Equal(t, float64(100), prev)
}

func TestProfileCompleted(t *testing.T) {
	assert.False(t, ProfileCompleted(nil))
	assert.False(t, ProfileCompleted(&models.User{Bio: "hi"}))
	assert.False(t, ProfileCompleted(&models.User{Avatar: "a.png"}))
	assert.True(t, ProfileCompleted(&models.User{Bio: "hi", Avatar: "a.png"}))
}
