package memstore

import (
	"context"
	"slices"

	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/fitness/workouts"
)

type WorkoutRepo struct {
	s *Store
}

func (r *WorkoutRepo) Add(_ context.Context, workout workouts.Workout, definitionIDs []int) (*workouts.Workout, error) {
	if err := r.s.checkFail("workout.add", workout.Name); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	workout.ID = r.s.st.id()
	workout.Exercises = nil
	r.s.st.workouts = append(r.s.st.workouts, workout)
	r.s.st.links[workout.ID] = slices.Clone(definitionIDs)

	workout.Exercises = r.exercisesOf(workout.ID)
	return &workout, nil
}

func (r *WorkoutRepo) Get(_ context.Context, accountID, id int) (*workouts.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, w := range r.s.st.workouts {
		if w.ID == id && w.AccountID == accountID {
			w.Exercises = r.exercisesOf(w.ID)
			return &w, nil
		}
	}
	return nil, workouts.ErrWorkoutNotFound
}

func (r *WorkoutRepo) List(_ context.Context, accountID int) ([]workouts.Workout, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var list []workouts.Workout
	for _, w := range r.s.st.workouts {
		if w.AccountID == accountID {
			w.Exercises = r.exercisesOf(w.ID)
			list = append(list, w)
		}
	}
	return list, nil
}

// exercisesOf expects the lock to be held.
func (r *WorkoutRepo) exercisesOf(workoutID int) []exercises.Definition {
	var defs []exercises.Definition
	for _, defID := range r.s.st.links[workoutID] {
		for _, d := range r.s.st.definitions {
			if d.ID == defID {
				defs = append(defs, d)
			}
		}
	}
	return defs
}
