package awards

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "Personal Best: Push Up", Label("Push Up"))
}

func TestEvaluate(t *testing.T) {
	day1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	first, outcome := Evaluate(nil, 7, "Push Up", 20, day1)
	assert.Equal(t, Created, outcome)
	assert.Equal(t, Award{
		AccountID:    7,
		ExerciseName: "Push Up",
		Label:        "Personal Best: Push Up",
		BestReps:     20,
		AwardedOn:    day1,
	}, first)

	first.ID = 3
	testCases := []struct {
		name         string
		reps         int
		wantOutcome  Outcome
		wantBest     int
		wantAwardDay time.Time
	}{
		{name: "higher improves", reps: 25, wantOutcome: Improved, wantBest: 25, wantAwardDay: day2},
		{name: "equal keeps", reps: 20, wantOutcome: Unchanged, wantBest: 20, wantAwardDay: day1},
		{name: "lower keeps", reps: 15, wantOutcome: Unchanged, wantBest: 20, wantAwardDay: day1},
		{name: "zero keeps", reps: 0, wantOutcome: Unchanged, wantBest: 20, wantAwardDay: day1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			existing := first
			got, outcome := Evaluate(&existing, 7, "Push Up", tc.reps, day2)
			assert.Equal(t, tc.wantOutcome, outcome)
			assert.Equal(t, tc.wantBest, got.BestReps)
			assert.Equal(t, tc.wantAwardDay, got.AwardedOn)
			assert.Equal(t, 3, got.ID)
			assert.Equal(t, "Personal Best: Push Up", got.Label)
			// the existing award is never mutated
			assert.Equal(t, 20, existing.BestReps)
		})
	}

	assert.Equal(t, "improved", Improved.String())
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "unchanged", Unchanged.String())
}
