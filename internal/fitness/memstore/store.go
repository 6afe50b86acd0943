// Package memstore keeps every fitness entity in memory. It implements the
// store interfaces of the fitness and accounts packages and backs the
// service, handler and server tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/2beens/hoosfit/internal/accounts"
	"github.com/2beens/hoosfit/internal/fitness/awards"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/profiles"
	"github.com/2beens/hoosfit/internal/fitness/workouts"

	"github.com/jackc/pgx/v5/pgconn"
)

type state struct {
	nextID      int
	accounts    []accounts.Account
	profiles    []profiles.Profile
	definitions []exercises.Definition
	logEntries  []exercises.LogEntry
	awards      []awards.Award
	workouts    []workouts.Workout
	links       map[int][]int // workout id -> definition ids
}

func (st *state) clone() *state {
	c := *st
	c.accounts = slices.Clone(st.accounts)
	c.profiles = slices.Clone(st.profiles)
	c.definitions = slices.Clone(st.definitions)
	c.logEntries = slices.Clone(st.logEntries)
	c.awards = slices.Clone(st.awards)
	c.workouts = slices.Clone(st.workouts)
	c.links = make(map[int][]int, len(st.links))
	for k, v := range st.links {
		c.links[k] = slices.Clone(v)
	}
	return &c
}

func (st *state) id() int {
	st.nextID++
	return st.nextID
}

// Store is the shared in-memory database. Each entity is reached through
// its own view, mirroring the postgres repos.
type Store struct {
	mu sync.Mutex
	// serializes transactions, like the profile row lock does in postgres
	txMu sync.Mutex
	st   *state

	// FailOn, when set, is asked before every write; a non nil error fails
	// that write. Used to test rollbacks.
	FailOn func(op, name string) error
}

func New() *Store {
	return &Store{
		st: &state{links: map[int][]int{}},
	}
}

func (s *Store) Accounts() *AccountRepo { return &AccountRepo{s} }
func (s *Store) Profiles() *ProfileRepo { return &ProfileRepo{s} }
func (s *Store) Exercises() *ExerciseRepo { return &ExerciseRepo{s} }
func (s *Store) Awards() *AwardRepo { return &AwardRepo{s} }
func (s *Store) Workouts() *WorkoutRepo { return &WorkoutRepo{s} }
func (s *Store) LogStore() workouts.LogStore { return &logStore{s} }

func (s *Store) checkFail(op, name string) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op, name)
}

func (s *Store) snapshot() *state {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

func (s *Store) restore(st *state) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st = st
}

func uniqueViolation(detail string) error {
	return fmt.Errorf("memstore: %w", &pgconn.PgError{Code: "23505", Detail: detail})
}

var _ accounts.Store = (*AccountRepo)(nil)
var _ profiles.Store = (*ProfileRepo)(nil)
var _ exercises.Store = (*ExerciseRepo)(nil)
var _ workouts.DefinitionStore = (*ExerciseRepo)(nil)
var _ workouts.Store = (*WorkoutRepo)(nil)

type logStore struct {
	s *Store
}

func (l *logStore) InTx(ctx context.Context, fn func(workouts.LogTx) error) error {
	l.s.txMu.Lock()
	defer l.s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	before := l.s.snapshot()
	if err := fn(&logTx{l.s}); err != nil {
		l.s.restore(before)
		return err
	}
	return nil
}

func filter[T any](list []T, keep func(T) bool) []T {
	out := list[:0]
	for _, item := range list {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
