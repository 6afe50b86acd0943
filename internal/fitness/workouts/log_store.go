package workouts

import (
	"context"

	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"

	"github.com/jackc/pgx/v5"
)

// LogTx is everything a reps submission reads and writes, bound to one
// open transaction.
type LogTx interface {
	ProfileForUpdate(ctx context.Context, accountID int) (*profiles.Profile, error)
	UpdateProfile(ctx context.Context, profile *profiles.Profile) error
	FindDefinitionByName(ctx context.Context, accountID int, name string) (*exercises.Definition, error)
	AddLogEntry(ctx context.Context, entry exercises.LogEntry) (*exercises.LogEntry, error)
	GetAward(ctx context.Context, accountID int, exerciseName string) (*awards.Award, error)
	AddAward(ctx context.Context, award awards.Award) (*awards.Award, error)
	UpdateAward(ctx context.Context, award *awards.Award) error
	// Savepoint runs fn in a nested transaction. When fn fails only its
	// writes are rolled back and the outer transaction stays usable.
	Savepoint(ctx context.Context, fn func(LogTx) error) error
}

type LogStore interface {
	// InTx commits when fn returns nil and rolls back otherwise.
	InTx(ctx context.Context, fn func(LogTx) error) error
}

type PgLogStore struct {
	db db.Querier
}

func NewPgLogStore(db db.Querier) *PgLogStore {
	return &PgLogStore{
		db: db,
	}
}

func (s *PgLogStore) InTx(ctx context.Context, fn func(LogTx) error) error {
	return pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		return fn(newPgLogTx(tx))
	})
}

type pgLogTx struct {
	tx        pgx.Tx
	profiles  *profiles.Repo
	exercises *exercises.Repo
	awards    *awards.Repo
}

func newPgLogTx(tx pgx.Tx) *pgLogTx {
	return &pgLogTx{
		tx:        tx,
		profiles:  profiles.NewRepo(tx),
		exercises: exercises.NewRepo(tx),
		awards:    awards.NewRepo(tx),
	}
}

func (t *pgLogTx) ProfileForUpdate(ctx context.Context, accountID int) (*profiles.Profile, error) {
	return t.profiles.GetForUpdate(ctx, accountID)
}

func (t *pgLogTx) UpdateProfile(ctx context.Context, profile *profiles.Profile) error {
	return t.profiles.Update(ctx, profile)
}

func (t *pgLogTx) FindDefinitionByName(ctx context.Context, accountID int, name string) (*exercises.Definition, error) {
	return t.exercises.FindDefinitionByName(ctx, accountID, name)
}

func (t *pgLogTx) AddLogEntry(ctx context.Context, entry exercises.LogEntry) (*exercises.LogEntry, error) {
	return t.exercises.AddLogEntry(ctx, entry)
}

func (t *pgLogTx) GetAward(ctx context.Context, accountID int, exerciseName string) (*awards.Award, error) {
	return t.awards.Get(ctx, accountID, exerciseName)
}

func (t *pgLogTx) AddAward(ctx context.Context, award awards.Award) (*awards.Award, error) {
	return t.awards.Add(ctx, award)
}

func (t *pgLogTx) UpdateAward(ctx context.Context, award *awards.Award) error {
	return t.awards.Update(ctx, award)
}

// Savepoint relies on pgx turning Begin on a Tx into SAVEPOINT.
func (t *pgLogTx) Savepoint(ctx context.Context, fn func(LogTx) error) error {
	return pgx.BeginFunc(ctx, t.tx, func(sp pgx.Tx) error {
		return fn(newPgLogTx(sp))
	})
}
