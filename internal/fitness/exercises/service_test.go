package exercises_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 4, 15, 9, 0, 0, 0, time.UTC)

func TestService_RegisterDefinition(t *testing.T) {
	store := memstore.New()
	svc := exercises.NewService(store.Exercises(), func() time.Time { return testNow })
	ctx := context.Background()

	def, created, err := svc.RegisterDefinition(ctx, 1, " Push Up ")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Push Up", def.Name)
	assert.Equal(t, testNow, def.CreatedAt)

	for _, dup := range []string{"Push Up", "push up", "PUSH UP", "  pUsH uP"} {
		again, created, err := svc.RegisterDefinition(ctx, 1, dup)
		require.NoError(t, err)
		assert.False(t, created, dup)
		assert.Equal(t, def.ID, again.ID)
	}

	// other accounts have their own namespace
	_, created, err = svc.RegisterDefinition(ctx, 2, "push up")
	require.NoError(t, err)
	assert.True(t, created)

	_, _, err = svc.RegisterDefinition(ctx, 1, "")
	assert.ErrorIs(t, err, exercises.ErrInvalidName)

	list, err := svc.ListDefinitions(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Push Up", list[0].Name)
}

// racingStore reports "not found" once, as if another request inserted the
// definition between the lookup and the insert.
type racingStore struct {
	*memstore.ExerciseRepo
	raced bool
}

func (s *racingStore) FindDefinitionByName(ctx context.Context, accountID int, name string) (*exercises.Definition, error) {
	if !s.raced {
		s.raced = true
		if _, err := s.ExerciseRepo.AddDefinition(ctx, exercises.Definition{AccountID: accountID, Name: name}); err != nil {
			return nil, err
		}
		return nil, exercises.ErrDefinitionNotFound
	}
	return s.ExerciseRepo.FindDefinitionByName(ctx, accountID, name)
}

func TestService_RegisterDefinition_ConcurrentDuplicate(t *testing.T) {
	store := memstore.New()
	svc := exercises.NewService(&racingStore{ExerciseRepo: store.Exercises()}, func() time.Time { return testNow })

	def, created, err := svc.RegisterDefinition(context.Background(), 1, "Squat")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Squat", def.Name)

	list, err := store.Exercises().ListDefinitions(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestService_RegisterDefinition_StoreError(t *testing.T) {
	store := memstore.New()
	store.FailOn = func(op, _ string) error {
		return errors.New("connection reset")
	}
	svc := exercises.NewService(store.Exercises(), func() time.Time { return testNow })

	_, _, err := svc.RegisterDefinition(context.Background(), 1, "Squat")
	assert.ErrorContains(t, err, "connection reset")
}

func TestService_RecentLog(t *testing.T) {
	store := memstore.New()
	svc := exercises.NewService(store.Exercises(), func() time.Time { return testNow })
	ctx := context.Background()

	today := time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC)
	workoutID := 3
	for _, offset := range []int{-8, -7, -3, 0} {
		_, err := store.Exercises().AddLogEntry(ctx, exercises.LogEntry{
			AccountID: 1,
			WorkoutID: &workoutID,
			Name:      "Squat",
			Reps:      10 - offset,
			LoggedOn:  today.AddDate(0, 0, offset),
		})
		require.NoError(t, err)
	}

	recent, err := svc.RecentLog(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, today, recent[0].LoggedOn)
	assert.Equal(t, today.AddDate(0, 0, -7), recent[2].LoggedOn)

	todays, err := svc.WorkoutLogToday(ctx, 1, workoutID)
	require.NoError(t, err)
	require.Len(t, todays, 1)
	assert.Equal(t, 10, todays[0].Reps)

	none, err := svc.WorkoutLogToday(ctx, 1, 99)
	require.NoError(t, err)
	assert.Empty(t, none)
}
