package persist

import (
	"context"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// The account, character and world schema ships inside the binary; goose
// tracks applied versions in its own bookkeeping table.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

// RunMigrations brings the database schema up to date before any repo is
// used. goose needs a database/sql handle, so the pgx pool is wrapped for
// the duration of the run.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	goose.SetLogger(goose.NopLogger())
	goose.SetBaseFS(schemaFS)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("apply schema migrations: %w", err)
	}

	return nil
}
