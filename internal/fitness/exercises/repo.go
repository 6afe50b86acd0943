package exercises

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

type LogParams struct {
	AccountID int
	// nil means entries of any (or no) workout
	WorkoutID *int
	From      time.Time
	To        time.Time
	// newest first when set, insertion order otherwise
	NewestFirst bool
}

type Repo struct {
	db db.Querier
}

func NewRepo(db db.Querier) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddDefinition(ctx context.Context, def Definition) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addDefinition")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_definition (account_id, name, created_at)
			VALUES ($1, $2, $3)
			RETURNING id;`,
		def.AccountID, def.Name, def.CreatedAt,
	).Scan(&def.ID); err != nil {
		return nil, fmt.Errorf("insert definition: %w", err)
	}

	span.SetAttributes(attribute.Int("definition.id", def.ID))
	return &def, nil
}

// FindDefinitionByName matches the name case-insensitively.
func (r *Repo) FindDefinitionByName(ctx context.Context, accountID int, name string) (_ *Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.findDefinitionByName")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var def Definition
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, account_id, name, created_at FROM exercise_definition
			WHERE account_id = $1 AND LOWER(name) = LOWER($2);`,
		accountID, name,
	).Scan(&def.ID, &def.AccountID, &def.Name, &def.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDefinitionNotFound
		}
		return nil, fmt.Errorf("find definition: %w", err)
	}
	return &def, nil
}

func (r *Repo) ListDefinitions(ctx context.Context, accountID int) (_ []Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listDefinitions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, account_id, name, created_at FROM exercise_definition
			WHERE account_id = $1 ORDER BY id;`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("query definitions: %w", err)
	}
	return collectDefinitions(rows)
}

// GetDefinitions returns the definitions with the given ids that belong to
// the account. Unknown and foreign ids are left out.
func (r *Repo) GetDefinitions(ctx context.Context, accountID int, ids []int) (_ []Definition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.getDefinitions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids.count", len(ids)))

	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT id, account_id, name, created_at FROM exercise_definition
			WHERE account_id = $1 AND id = ANY($2) ORDER BY id;`,
		accountID, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("query definitions: %w", err)
	}
	return collectDefinitions(rows)
}

func collectDefinitions(rows pgx.Rows) ([]Definition, error) {
	defs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Definition, error) {
		var d Definition
		err := row.Scan(&d.ID, &d.AccountID, &d.Name, &d.CreatedAt)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect definitions: %w", err)
	}
	return defs, nil
}

func (r *Repo) AddLogEntry(ctx context.Context, entry LogEntry) (_ *LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.addLogEntry")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("name", entry.Name),
		attribute.Int("reps", entry.Reps),
	)

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO exercise_log (account_id, definition_id, workout_id, name, reps, logged_on, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		entry.AccountID, entry.DefinitionID, entry.WorkoutID, entry.Name, entry.Reps, entry.LoggedOn, entry.CreatedAt,
	).Scan(&entry.ID); err != nil {
		return nil, fmt.Errorf("insert log entry: %w", err)
	}
	return &entry, nil
}

// ListLogEntries returns entries logged between From and To, both days
// inclusive.
func (r *Repo) ListLogEntries(ctx context.Context, params LogParams) (_ []LogEntry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.listLogEntries")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sql := `SELECT id, account_id, definition_id, workout_id, name, reps, logged_on, created_at
		FROM exercise_log
		WHERE account_id = $1 AND logged_on >= $2 AND logged_on <= $3`
	args := []any{params.AccountID, params.From, params.To}
	if params.WorkoutID != nil {
		sql += ` AND workout_id = $4`
		args = append(args, *params.WorkoutID)
	}
	if params.NewestFirst {
		sql += ` ORDER BY logged_on DESC, id DESC;`
	} else {
		sql += ` ORDER BY id;`
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query log entries: %w", err)
	}

	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (LogEntry, error) {
		var e LogEntry
		err := row.Scan(&e.ID, &e.AccountID, &e.DefinitionID, &e.WorkoutID, &e.Name, &e.Reps, &e.LoggedOn, &e.CreatedAt)
		return e, err
	})
	if err != nil {
		return nil, fmt.Errorf("collect log entries: %w", err)
	}

	span.SetAttributes(attribute.Int("entries.count", len(entries)))
	return entries, nil
}
