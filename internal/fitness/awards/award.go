package awards

import (
	"errors"
	"time"
)

const labelPrefix = "Personal Best: "

var ErrAwardNotFound = errors.New("award not found")

// Award records the best reps of one account for one exercise name.
type Award struct {
	ID           int       `json:"id"`
	AccountID    int       `json:"accountId"`
	ExerciseName string    `json:"exerciseName"`
	Label        string    `json:"label"`
	BestReps     int       `json:"bestReps"`
	AwardedOn    time.Time `json:"awardedOn"`
}

func Label(exerciseName string) string {
	return labelPrefix + exerciseName
}

type Outcome int

const (
	Unchanged Outcome = iota
	Created
	Improved
)

func (o Outcome) String() string {
	switch o {
	case Created:
		return "created"
	case Improved:
		return "improved"
	default:
		return "unchanged"
	}
}

// Evaluate applies the personal best rule to a submitted reps count. With no
// existing award a new one is created. An existing award improves only when
// reps are strictly greater than its best. The returned award is the one to
// persist, or the existing one when unchanged.
func Evaluate(existing *Award, accountID int, exerciseName string, reps int, today time.Time) (Award, Outcome) {
	if existing == nil {
		return Award{
			AccountID:    accountID,
			ExerciseName: exerciseName,
			Label:        Label(exerciseName),
			BestReps:     reps,
			AwardedOn:    today,
		}, Created
	}

	if reps > existing.BestReps {
		improved := *existing
		improved.BestReps = reps
		improved.AwardedOn = today
		return improved, Improved
	}

	return *existing, Unchanged
}
