package profiles

import (
	"context"
	"errors"
	"fmt"
	"time"

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

const selectProfile = `
	SELECT p.account_id, a.username, p.streak, p.last_workout, p.points
	FROM profile p
	JOIN account a ON a.id = p.account_id`

func (r *Repo) Add(ctx context.Context, profile Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("account.id", profile.AccountID))

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO profile (account_id, streak, last_workout, points) VALUES ($1, $2, $3, $4);`,
		profile.AccountID, profile.Streak, profile.LastWorkout, profile.Points,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, accountID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("account.id", accountID))

	return r.getOne(ctx, selectProfile+` WHERE p.account_id = $1;`, accountID)
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, selectProfile+` WHERE a.username = $1;`, username)
}

// GetForUpdate locks the profile row until the surrounding transaction ends.
func (r *Repo) GetForUpdate(ctx context.Context, accountID int) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.getForUpdate")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("account.id", accountID))

	return r.getOne(ctx, selectProfile+` WHERE p.account_id = $1 FOR UPDATE OF p;`, accountID)
}

func (r *Repo) getOne(ctx context.Context, sql string, arg any) (*Profile, error) {
	var p Profile
	if err := r.db.QueryRow(ctx, sql, arg).Scan(
		&p.AccountID, &p.Username, &p.Streak, &p.LastWorkout, &p.Points,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func (r *Repo) Update(ctx context.Context, profile *Profile) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("account.id", profile.AccountID),
		attribute.Int("streak", profile.Streak),
	)

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET streak = $1, last_workout = $2, points = $3 WHERE account_id = $4;`,
		profile.Streak, profile.LastWorkout, profile.Points, profile.AccountID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}

// ResetStaleStreak zeroes the streak of one account if its last workout is
// before the given day. Reports whether a reset happened.
func (r *Repo) ResetStaleStreak(ctx context.Context, accountID int, before time.Time) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.resetStaleStreak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("account.id", accountID))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET streak = 0 WHERE account_id = $1 AND last_workout < $2 AND streak > 0;`,
		accountID, before,
	)
	if err != nil {
		return false, fmt.Errorf("reset streak: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repo) ResetStaleStreaks(ctx context.Context, before time.Time) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.resetStaleStreaks")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE profile SET streak = 0 WHERE last_workout < $1 AND streak > 0;`,
		before,
	)
	if err != nil {
		return 0, fmt.Errorf("reset streaks: %w", err)
	}
	span.SetAttributes(attribute.Int64("reset", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// ListByPoints returns profiles ordered by points, highest first. A limit
// <= 0 returns all of them.
func (r *Repo) ListByPoints(ctx context.Context, limit int) (_ []Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.listByPoints")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sql := selectProfile + ` ORDER BY p.points DESC, a.username`
	args := []any{}
	if limit > 0 {
		sql += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, sql+`;`, args...)
	if err != nil {
		return nil, fmt.Errorf("query profiles: %w", err)
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Profile, error) {
		var p Profile
		err := row.Scan(&p.AccountID, &p.Username, &p.Streak, &p.LastWorkout, &p.Points)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect profiles: %w", err)
	}

	span.SetAttributes(attribute.Int("profiles.count", len(list)))
	return list, nil
}
