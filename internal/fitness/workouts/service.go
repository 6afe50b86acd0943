package workouts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Store interface {
	Add(ctx context.Context, workout Workout, definitionIDs []int) (*Workout, error)
	Get(ctx context.Context, accountID, id int) (*Workout, error)
	List(ctx context.Context, accountID int) ([]Workout, error)
}

type DefinitionStore interface {
	GetDefinitions(ctx context.Context, accountID int, ids []int) ([]exercises.Definition, error)
}

type LeaderboardInvalidator interface {
	InvalidateLeaderboard()
}

type Service struct {
	store       Store
	definitions DefinitionStore
	logStore    LogStore
	leaderboard LeaderboardInvalidator
	clock       fitness.Clock
}

func NewService(
	store Store,
	definitions DefinitionStore,
	logStore LogStore,
	leaderboard LeaderboardInvalidator,
	clock fitness.Clock,
) *Service {
	return &Service{
		store:       store,
		definitions: definitions,
		logStore:    logStore,
		leaderboard: leaderboard,
		clock:       clock,
	}
}

// Create adds a workout made of the given definitions. Ids that are unknown
// or owned by someone else are dropped. With no id left nothing is created
// and ErrNoExercises is returned.
func (s *Service) Create(ctx context.Context, accountID int, name string, definitionIDs []int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	name, err = exercises.ValidateName(name)
	if err != nil {
		return nil, err
	}

	owned, err := s.definitions.GetDefinitions(ctx, accountID, dedupe(definitionIDs))
	if err != nil {
		return nil, err
	}
	if dropped := len(dedupe(definitionIDs)) - len(owned); dropped > 0 {
		log.Warnf("workout [%s] of account %d: ignoring %d unknown exercise ids", name, accountID, dropped)
	}
	if len(owned) == 0 {
		return nil, ErrNoExercises
	}

	ids := make([]int, 0, len(owned))
	for _, d := range owned {
		ids = append(ids, d.ID)
	}

	now := s.clock()
	workout, err := s.store.Add(ctx, Workout{
		AccountID: accountID,
		Name:      name,
		CreatedOn: fitness.DateOf(now),
		CreatedAt: now,
	}, ids)
	if err != nil {
		return nil, err
	}
	workout.Exercises = owned

	span.SetAttributes(
		attribute.Int("workout.id", workout.ID),
		attribute.Int("exercises.count", len(owned)),
	)
	return workout, nil
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *Service) Get(ctx context.Context, accountID, id int) (*Workout, error) {
	return s.store.Get(ctx, accountID, id)
}

func (s *Service) List(ctx context.Context, accountID int) ([]Workout, error) {
	return s.store.List(ctx, accountID)
}

// LogReps records a reps submission for a workout in one transaction.
//
// Entries are handled in order, each in its own savepoint: a malformed
// entry or one whose writes fail is skipped without touching the others.
// Names are trimmed, so they match the stored definition names.
// For every recorded entry the award for that exercise name is created or
// improved and its reps are added to the profile points. If anything was
// recorded the streak grows by one, at most once per day, and the last
// workout date becomes today.
func (s *Service) LogReps(ctx context.Context, accountID, workoutID int, entries []RepsEntry) (_ *LogResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.logReps")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("workout.id", workoutID),
		attribute.Int("entries.count", len(entries)),
	)

	if _, err := s.store.Get(ctx, accountID, workoutID); err != nil {
		return nil, err
	}

	now := s.clock()
	today := fitness.DateOf(now)

	var result *LogResult
	err = s.logStore.InTx(ctx, func(tx LogTx) error {
		result = &LogResult{}

		profile, err := tx.ProfileForUpdate(ctx, accountID)
		if err != nil {
			return fmt.Errorf("lock profile: %w", err)
		}

		for _, entry := range entries {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				log.Debugf("log reps, account %d: skipping entry with empty name", accountID)
				result.Skipped++
				continue
			}

			reps, err := ParseReps(entry.Reps)
			if err != nil {
				log.Debugf("log reps, account %d: skipping [%s]: %s", accountID, name, err)
				result.Skipped++
				continue
			}

			var award awards.Award
			var outcome awards.Outcome
			if err := tx.Savepoint(ctx, func(sp LogTx) error {
				award, outcome, err = logEntry(ctx, sp, accountID, workoutID, name, reps, now)
				return err
			}); err != nil {
				log.Warnf("log reps, account %d: entry [%s] rolled back: %s", accountID, name, err)
				result.Skipped++
				continue
			}

			result.Processed++
			result.Points += int64(reps)
			switch outcome {
			case awards.Created:
				result.NewAwards = append(result.NewAwards, award)
			case awards.Improved:
				result.ImprovedAwards = append(result.ImprovedAwards, award)
			}
		}

		if result.Processed == 0 {
			return nil
		}

		if profile.LastWorkout.Before(today) {
			profile.Streak++
			result.StreakIncreased = true
		}
		profile.LastWorkout = today
		profile.Points += result.Points

		if err := tx.UpdateProfile(ctx, profile); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Processed > 0 {
		s.leaderboard.InvalidateLeaderboard()
	}

	span.SetAttributes(
		attribute.Int("processed", result.Processed),
		attribute.Int("skipped", result.Skipped),
		attribute.Int64("points", result.Points),
	)
	return result, nil
}

// logEntry writes one entry and applies the personal best rule to it.
func logEntry(
	ctx context.Context,
	tx LogTx,
	accountID, workoutID int,
	name string,
	reps int,
	now time.Time,
) (awards.Award, awards.Outcome, error) {
	today := fitness.DateOf(now)

	entry := exercises.LogEntry{
		AccountID: accountID,
		WorkoutID: &workoutID,
		Name:      name,
		Reps:      reps,
		LoggedOn:  today,
		CreatedAt: now,
	}

	def, err := tx.FindDefinitionByName(ctx, accountID, name)
	switch {
	case err == nil:
		entry.DefinitionID = &def.ID
	case !errors.Is(err, exercises.ErrDefinitionNotFound):
		return awards.Award{}, awards.Unchanged, err
	}

	if _, err := tx.AddLogEntry(ctx, entry); err != nil {
		return awards.Award{}, awards.Unchanged, err
	}

	existing, err := tx.GetAward(ctx, accountID, name)
	if err != nil && !errors.Is(err, awards.ErrAwardNotFound) {
		return awards.Award{}, awards.Unchanged, err
	}

	award, outcome := awards.Evaluate(existing, accountID, name, reps, today)
	switch outcome {
	case awards.Created:
		added, err := tx.AddAward(ctx, award)
		if err != nil {
			return awards.Award{}, awards.Unchanged, err
		}
		award = *added
	case awards.Improved:
		if err := tx.UpdateAward(ctx, &award); err != nil {
			return awards.Award{}, awards.Unchanged, err
		}
	}

	return award, outcome, nil
}
