package workouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/fitness/exercises"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"
)

type Repo struct {
	db db.Querier
}

func NewRepo(db db.Querier) *Repo {
	return &Repo{
		db: db,
	}
}

// Add inserts the workout and its exercise links in one transaction.
func (r *Repo) Add(ctx context.Context, workout Workout, definitionIDs []int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(
			ctx,
			`INSERT INTO workout (account_id, name, created_on, created_at)
				VALUES ($1, $2, $3, $4)
				RETURNING id;`,
			workout.AccountID, workout.Name, workout.CreatedOn, workout.CreatedAt,
		).Scan(&workout.ID); err != nil {
			return fmt.Errorf("insert workout: %w", err)
		}

		for i, defID := range definitionIDs {
			if _, err := tx.Exec(
				ctx,
				`INSERT INTO workout_exercise (workout_id, definition_id, position) VALUES ($1, $2, $3);`,
				workout.ID, defID, i,
			); err != nil {
				return fmt.Errorf("link exercise %d: %w", defID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("workout.id", workout.ID))
	return &workout, nil
}

func (r *Repo) Get(ctx context.Context, accountID, id int) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("workout.id", id))

	var w Workout
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, account_id, name, created_on, created_at FROM workout
			WHERE id = $1 AND account_id = $2;`,
		id, accountID,
	).Scan(&w.ID, &w.AccountID, &w.Name, &w.CreatedOn, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("get workout: %w", err)
	}

	byWorkout, err := r.exercisesOf(ctx, accountID, &id)
	if err != nil {
		return nil, err
	}
	w.Exercises = byWorkout[w.ID]

	return &w, nil
}

func (r *Repo) List(ctx context.Context, accountID int) (_ []Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, account_id, name, created_on, created_at FROM workout
			WHERE account_id = $1 ORDER BY id;`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query workouts: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Workout, error) {
		var w Workout
		err := row.Scan(&w.ID, &w.AccountID, &w.Name, &w.CreatedOn, &w.CreatedAt)
		return w, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect workouts: %w", err)
	}

	byWorkout, err := r.exercisesOf(ctx, accountID, nil)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Exercises = byWorkout[list[i].ID]
	}

	span.SetAttributes(attribute.Int("workouts.count", len(list)))
	return list, nil
}

// exercisesOf maps workout id to its definitions, for one workout or for all
// workouts of the account when workoutID is nil.
func (r *Repo) exercisesOf(ctx context.Context, accountID int, workoutID *int) (map[int][]exercises.Definition, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT we.workout_id, d.id, d.account_id, d.name, d.created_at
			FROM workout_exercise we
			JOIN workout w ON w.id = we.workout_id
			JOIN exercise_definition d ON d.id = we.definition_id
			WHERE w.account_id = $1 AND ($2::INTEGER IS NULL OR w.id = $2)
			ORDER BY we.workout_id, we.position;`,
		accountID, workoutID,
	)
	if err != nil {
		return nil, fmt.Errorf("query workout exercises: %w", err)
	}
	defer rows.Close()

	byWorkout := make(map[int][]exercises.Definition)
	for rows.Next() {
		var wID int
		var d exercises.Definition
		if err := rows.Scan(&wID, &d.ID, &d.AccountID, &d.Name, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		byWorkout[wID] = append(byWorkout[wID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return byWorkout, nil
}
