package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/hoosfit/internal/db"
	"github.com/2beens/hoosfit/internal/telemetry/tracing"
	"github.com/2beens/hoosfit/pkg"

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

func (r *Repo) Add(ctx context.Context, account Account) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO account (username, password_hash, created_at)
			VALUES ($1, $2, $3)
			RETURNING id;`,
		account.Username, account.PasswordHash, account.CreatedAt,
	).Scan(&account.ID); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}

	span.SetAttributes(attribute.Int("account.id", account.ID))
	return &account, nil
}

func (r *Repo) GetByUsername(ctx context.Context, username string) (_ *Account, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.getByUsername")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var a Account
	if err := r.db.QueryRow(
		ctx,
		`SELECT id, username, password_hash, created_at FROM account WHERE username = $1;`,
		username,
	).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.accounts.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("account.id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM account WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}
