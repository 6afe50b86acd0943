package awards

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/hoosfit/internal/db"
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

// Get looks the award up by exact exercise name.
func (r *Repo) Get(ctx context.Context, accountID int, exerciseName string) (_ *Award, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.awards.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var a Award
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, account_id, exercise_name, label, best_reps, awarded_on
			FROM award WHERE account_id = $1 AND exercise_name = $2;`,
		accountID, exerciseName,
	).Scan(&a.ID, &a.AccountID, &a.ExerciseName, &a.Label, &a.BestReps, &a.AwardedOn); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAwardNotFound
		}
		return nil, fmt.Errorf("get award: %w", err)
	}
	return &a, nil
}

func (r *Repo) Add(ctx context.Context, award Award) (_ *Award, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.awards.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO award (account_id, exercise_name, label, best_reps, awarded_on)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id;`,
		award.AccountID, award.ExerciseName, award.Label, award.BestReps, award.AwardedOn,
	).Scan(&award.ID); err != nil {
		return nil, fmt.Errorf("insert award: %w", err)
	}

	span.SetAttributes(attribute.Int("award.id", award.ID))
	return &award, nil
}

func (r *Repo) Update(ctx context.Context, award *Award) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.awards.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("award.id", award.ID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE award SET best_reps = $1, awarded_on = $2 WHERE id = $3 AND account_id = $4;`,
		award.BestReps, award.AwardedOn, award.ID, award.AccountID,
	)
	if err != nil {
		return fmt.Errorf("update award: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAwardNotFound
	}
	return nil
}

func (r *Repo) List(ctx context.Context, accountID int) (_ []Award, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.awards.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, account_id, exercise_name, label, best_reps, awarded_on
			FROM award WHERE account_id = $1 ORDER BY id;`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query awards: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Award, error) {
		var a Award
		err := row.Scan(&a.ID, &a.AccountID, &a.ExerciseName, &a.Label, &a.BestReps, &a.AwardedOn)
		return a, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect awards: %w", err)
	}
	return list, nil
}
