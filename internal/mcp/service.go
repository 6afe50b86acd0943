package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
)

// ProfilesRepo provides read access to profiles (for dependency injection and testing).
type ProfilesRepo interface {
	GetByUsername(ctx context.Context, username string) (*profiles.Profile, error)
	ListByPoints(ctx context.Context, limit int) ([]profiles.Profile, error)
}

type AwardsRepo interface {
	List(ctx context.Context, accountID int) ([]awards.Award, error)
}

type ExerciseLogRepo interface {
	ListLogEntries(ctx context.Context, params exercises.LogParams) ([]exercises.LogEntry, error)
}

// contextService provides hoosfit data to the MCP tools.
// Used by Handler for testability.
type contextService interface {
	Leaderboard(ctx context.Context, limit int) ([]profiles.Profile, error)
	UserProfile(ctx context.Context, username string) (*UserProfile, error)
	UserAwards(ctx context.Context, username string) ([]awards.Award, error)
	UserExerciseLog(ctx context.Context, username string, from, to time.Time) ([]exercises.LogEntry, error)
}

// UserProfile is a profile as the user would see it today.
type UserProfile struct {
	Username    string `json:"username"`
	Streak      int    `json:"streak"`
	Points      int64  `json:"points"`
	LastWorkout string `json:"lastWorkout"`
	StreakAlive bool   `json:"streakAlive"`
}

// ContextService is read only: unlike the profile page it never persists
// a streak reset, it only reports the streak as it would be shown.
type ContextService struct {
	profiles ProfilesRepo
	awards   AwardsRepo
	log      ExerciseLogRepo
	clock    fitness.Clock
}

func NewContextService(profilesRepo ProfilesRepo, awardsRepo AwardsRepo, logRepo ExerciseLogRepo, clock fitness.Clock) *ContextService {
	return &ContextService{
		profiles: profilesRepo,
		awards:   awardsRepo,
		log:      logRepo,
		clock:    clock,
	}
}

func (s *ContextService) Leaderboard(ctx context.Context, limit int) ([]profiles.Profile, error) {
	list, err := s.profiles.ListByPoints(ctx, limit)
	if err != nil {
		return nil, err
	}
	today := s.clock.Today()
	for i := range list {
		if list[i].IsStale(today) {
			list[i].Streak = 0
		}
	}
	return list, nil
}

func (s *ContextService) UserProfile(ctx context.Context, username string) (*UserProfile, error) {
	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	up := &UserProfile{
		Username:    p.Username,
		Streak:      p.Streak,
		Points:      p.Points,
		LastWorkout: p.LastWorkout.Format(time.DateOnly),
		StreakAlive: !p.IsStale(s.clock.Today()),
	}
	if !up.StreakAlive {
		up.Streak = 0
	}
	return up, nil
}

func (s *ContextService) UserAwards(ctx context.Context, username string) ([]awards.Award, error) {
	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.awards.List(ctx, p.AccountID)
}

// UserExerciseLog returns the log entries between from and to, both
// inclusive calendar days, oldest first.
func (s *ContextService) UserExerciseLog(ctx context.Context, username string, from, to time.Time) ([]exercises.LogEntry, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("to date %s before from date %s", to.Format(time.DateOnly), from.Format(time.DateOnly))
	}
	p, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.log.ListLogEntries(ctx, exercises.LogParams{
		AccountID: p.AccountID,
		From:      fitness.DateOf(from),
		To:        fitness.DateOf(to),
	})
}
