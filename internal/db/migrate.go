package db

import (
	"context"
	_ "embed"
	"fmt"

	log "github.com/sirupsen/logrus"
)

//go:embed schema.sql
var schemaSQL string

func Schema() string {
	return schemaSQL
}

// Migrate applies the schema. Every statement is idempotent, so running it
// against an already migrated database is a no-op.
func Migrate(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	log.Debugln("db schema applied")
	return nil
}
