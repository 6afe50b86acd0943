package profiles

import (
	"errors"
	"time"
)

var ErrProfileNotFound = errors.New("profile not found")

// Profile is the fitness state of one account.
type Profile struct {
	AccountID   int       `json:"accountId"`
	Username    string    `json:"username"`
	Streak      int       `json:"streak"`
	LastWorkout time.Time `json:"lastWorkout"`
	Points      int64     `json:"points"`
}

// IsStale reports whether the streak should be reset: the last workout is
// more than one day before today.
func (p *Profile) IsStale(today time.Time) bool {
	return p.LastWorkout.Before(today.AddDate(0, 0, -1))
}
