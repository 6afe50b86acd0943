package exercises

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const MaxNameLength = 50

var (
	ErrInvalidName        = errors.New("invalid exercise name")
	ErrDefinitionNotFound = errors.New("exercise definition not found")
)

// Definition is an exercise type a user registered, e.g. "Push Up".
type Definition struct {
	ID        int       `json:"id"`
	AccountID int       `json:"accountId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// LogEntry is one dated reps record. Entries are only ever inserted.
type LogEntry struct {
	ID           int       `json:"id"`
	AccountID    int       `json:"accountId"`
	DefinitionID *int      `json:"definitionId,omitempty"`
	WorkoutID    *int      `json:"workoutId,omitempty"`
	Name         string    `json:"name"`
	Reps         int       `json:"reps"`
	LoggedOn     time.Time `json:"loggedOn"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ValidateName trims the name and checks its length, 1 to MaxNameLength
// characters.
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}
