package memstore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/2beens/hoosfit/internal/fitness/exercises"
)

type ExerciseRepo struct {
	s *Store
}

func (r *ExerciseRepo) AddDefinition(_ context.Context, def exercises.Definition) (*exercises.Definition, error) {
	if err := r.s.checkFail("definition.add", def.Name); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.st.definitions {
		if d.AccountID == def.AccountID && strings.EqualFold(d.Name, def.Name) {
			return nil, uniqueViolation("definition name exists")
		}
	}
	def.ID = r.s.st.id()
	r.s.st.definitions = append(r.s.st.definitions, def)
	return &def, nil
}

func (r *ExerciseRepo) FindDefinitionByName(_ context.Context, accountID int, name string) (*exercises.Definition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, d := range r.s.st.definitions {
		if d.AccountID == accountID && strings.EqualFold(d.Name, name) {
			return &d, nil
		}
	}
	return nil, exercises.ErrDefinitionNotFound
}

func (r *ExerciseRepo) ListDefinitions(_ context.Context, accountID int) ([]exercises.Definition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []exercises.Definition
	for _, d := range r.s.st.definitions {
		if d.AccountID == accountID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (r *ExerciseRepo) GetDefinitions(_ context.Context, accountID int, ids []int) ([]exercises.Definition, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []exercises.Definition
	for _, d := range r.s.st.definitions {
		if d.AccountID == accountID && slices.Contains(ids, d.ID) {
			list = append(list, d)
		}
	}
	return list, nil
}

// AddLogEntry enforces the same column limits as the postgres schema.
func (r *ExerciseRepo) AddLogEntry(_ context.Context, entry exercises.LogEntry) (*exercises.LogEntry, error) {
	if err := r.s.checkFail("log.add", entry.Name); err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(entry.Name) > exercises.MaxNameLength {
		return nil, fmt.Errorf("memstore: name too long for log entry: %q", entry.Name)
	}
	if entry.Reps < 0 {
		return nil, fmt.Errorf("memstore: negative reps %d", entry.Reps)
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	entry.ID = r.s.st.id()
	r.s.st.logEntries = append(r.s.st.logEntries, entry)
	return &entry, nil
}

func (r *ExerciseRepo) ListLogEntries(_ context.Context, params exercises.LogParams) ([]exercises.LogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []exercises.LogEntry
	for _, e := range r.s.st.logEntries {
		if e.AccountID != params.AccountID {
			continue
		}
		if e.LoggedOn.Before(params.From) || e.LoggedOn.After(params.To) {
			continue
		}
		if params.WorkoutID != nil && (e.WorkoutID == nil || *e.WorkoutID != *params.WorkoutID) {
			continue
		}
		list = append(list, e)
	}

	if params.NewestFirst {
		slices.SortStableFunc(list, func(a, b exercises.LogEntry) int {
			if c := b.LoggedOn.Compare(a.LoggedOn); c != 0 {
				return c
			}
			return b.ID - a.ID
		})
	}
	return list, nil
}
