package workouts

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
)

var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrNoExercises     = errors.New("workout has no valid exercises")
	ErrInvalidReps     = errors.New("invalid reps")
)

type Workout struct {
	ID        int                    `json:"id"`
	AccountID int                    `json:"accountId"`
	Name      string                 `json:"name"`
	CreatedOn time.Time              `json:"createdOn"`
	CreatedAt time.Time              `json:"createdAt"`
	Exercises []exercises.Definition `json:"exercises"`
}

// RepsEntry is one submitted name=reps pair, reps still unparsed.
type RepsEntry struct {
	Name string
	Reps string
}

type LogResult struct {
	Processed       int            `json:"processed"`
	Skipped         int            `json:"skipped"`
	Points          int64          `json:"points"`
	StreakIncreased bool           `json:"streakIncreased"`
	NewAwards       []awards.Award `json:"newAwards"`
	ImprovedAwards  []awards.Award `json:"improvedAwards"`
}

// ParseReps accepts a non-negative integer, surrounding spaces allowed.
func ParseReps(raw string) (int, error) {
	reps, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidReps, raw)
	}
	if reps < 0 {
		return 0, fmt.Errorf("%w: negative %d", ErrInvalidReps, reps)
	}
	return reps, nil
}
