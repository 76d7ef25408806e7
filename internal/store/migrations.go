package store

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS vector`,
	`CREATE TABLE IF NOT EXISTS enrolled_faces (
		identity_id  TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		embedding    vector(512) NOT NULL,
		variant      TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id           UUID PRIMARY KEY,
		identity_id  TEXT NOT NULL,
		display_name TEXT NOT NULL,
		confidence   REAL NOT NULL,
		recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_identity_day
		ON attendance_records (identity_id, recorded_at)`,
}

// Migrate applies the schema statements in order. Statements are idempotent,
// so re-running on an up-to-date database is a no-op.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying migration %d: %w", i, err)
		}
	}
	return nil
}
