package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/fitness"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/memstore"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
)

var today = time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)

func seedStore(t *testing.T) (*memstore.Store, int) {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()

	add := func(username string, streak int, lastWorkout time.Time, points int64) int {
		acc, err := store.Accounts().Add(ctx, accounts.Account{Username: username, PasswordHash: "x", CreatedAt: today})
		if err != nil {
			t.Fatalf("add account: %v", err)
		}
		if err := store.Profiles().Add(ctx, profiles.Profile{
			AccountID:   acc.ID,
			Username:    username,
			Streak:      streak,
			LastWorkout: lastWorkout,
			Points:      points,
		}); err != nil {
			t.Fatalf("add profile: %v", err)
		}
		return acc.ID
	}

	aliceID := add("alice", 4, today.AddDate(0, 0, -1), 50)
	add("bob", 7, today.AddDate(0, 0, -5), 80)

	for i, reps := range []int{10, 12, 15} {
		if _, err := store.Exercises().AddLogEntry(ctx, exercises.LogEntry{
			AccountID: aliceID,
			Name:      "Squat",
			Reps:      reps,
			LoggedOn:  today.AddDate(0, 0, i-2),
			CreatedAt: today,
		}); err != nil {
			t.Fatalf("add log entry: %v", err)
		}
	}
	if _, err := store.Awards().Add(ctx, awards.Award{
		AccountID:    aliceID,
		ExerciseName: "Squat",
		Label:        awards.Label("Squat"),
		BestReps:     15,
		AwardedOn:    today,
	}); err != nil {
		t.Fatalf("add award: %v", err)
	}

	return store, aliceID
}

func newTestService(store *memstore.Store) *ContextService {
	return NewContextService(store.Profiles(), store.Awards(), store.Exercises(), fitness.FixedClock(today.Add(9*time.Hour)))
}

func TestContextService_Leaderboard(t *testing.T) {
	store, _ := seedStore(t)
	svc := newTestService(store)

	list, err := svc.Leaderboard(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Username != "bob" || list[1].Username != "alice" {
		t.Fatalf("unexpected order: %+v", list)
	}
	// bob's streak is stale and shown as 0, without being persisted
	if list[0].Streak != 0 {
		t.Fatalf("bob streak = %d, want 0", list[0].Streak)
	}
	stored, _ := store.Profiles().GetByUsername(context.Background(), "bob")
	if stored.Streak != 7 {
		t.Fatalf("stored bob streak = %d, want 7", stored.Streak)
	}
}

func TestContextService_UserProfile(t *testing.T) {
	store, _ := seedStore(t)
	svc := newTestService(store)

	alice, err := svc.UserProfile(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !alice.StreakAlive || alice.Streak != 4 || alice.LastWorkout != "2024-04-14" {
		t.Fatalf("unexpected profile: %+v", alice)
	}

	bob, err := svc.UserProfile(context.Background(), "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bob.StreakAlive || bob.Streak != 0 {
		t.Fatalf("unexpected profile: %+v", bob)
	}

	if _, err := svc.UserProfile(context.Background(), "ghost"); !errors.Is(err, profiles.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestContextService_UserAwards(t *testing.T) {
	store, _ := seedStore(t)
	svc := newTestService(store)

	list, err := svc.UserAwards(context.Background(), "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].BestReps != 15 {
		t.Fatalf("unexpected awards: %+v", list)
	}

	list, err = svc.UserAwards(context.Background(), "bob")
	if err != nil || len(list) != 0 {
		t.Fatalf("expected no awards for bob, got %+v, %v", list, err)
	}
}

func TestContextService_UserExerciseLog(t *testing.T) {
	store, _ := seedStore(t)
	svc := newTestService(store)
	ctx := context.Background()

	list, err := svc.UserExerciseLog(ctx, "alice", today.AddDate(0, 0, -1), today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 || list[0].Reps != 12 || list[1].Reps != 15 {
		t.Fatalf("unexpected entries: %+v", list)
	}

	if _, err := svc.UserExerciseLog(ctx, "alice", today, today.AddDate(0, 0, -1)); err == nil {
		t.Fatalf("expected error for reversed range")
	}
}
