package memstore

import (
	"context"

	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
)

var _ workouts.LogTx = (*logTx)(nil)

type logTx struct {
	s *Store
}

func (t *logTx) ProfileForUpdate(ctx context.Context, accountID int) (*profiles.Profile, error) {
	return t.s.Profiles().Get(ctx, accountID)
}

func (t *logTx) UpdateProfile(ctx context.Context, profile *profiles.Profile) error {
	return t.s.Profiles().Update(ctx, profile)
}

func (t *logTx) FindDefinitionByName(ctx context.Context, accountID int, name string) (*exercises.Definition, error) {
	return t.s.Exercises().FindDefinitionByName(ctx, accountID, name)
}

func (t *logTx) AddLogEntry(ctx context.Context, entry exercises.LogEntry) (*exercises.LogEntry, error) {
	return t.s.Exercises().AddLogEntry(ctx, entry)
}

func (t *logTx) GetAward(ctx context.Context, accountID int, exerciseName string) (*awards.Award, error) {
	return t.s.Awards().Get(ctx, accountID, exerciseName)
}

func (t *logTx) AddAward(ctx context.Context, award awards.Award) (*awards.Award, error) {
	return t.s.Awards().Add(ctx, award)
}

func (t *logTx) UpdateAward(ctx context.Context, award *awards.Award) error {
	return t.s.Awards().Update(ctx, award)
}

func (t *logTx) Savepoint(_ context.Context, fn func(workouts.LogTx) error) error {
	before := t.s.snapshot()
	if err := fn(t); err != nil {
		t.s.restore(before)
		return err
	}
	return nil
}
