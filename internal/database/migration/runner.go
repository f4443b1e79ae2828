// Package migration applies the schema at startup. Statements are
// idempotent so the runner can execute on every boot.
package migration

import (
	"context"
	"errors"
	"fmt"

	"resume-coach/internal/database"
)

const advisoryLockKey = 824113907

var statements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	// One active resume per user: re-creating replaces the previous record.
	`CREATE TABLE IF NOT EXISTS resumes (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL UNIQUE REFERENCES users(id),
		raw_text TEXT NOT NULL,
		structured_data JSONB,
		creation_method TEXT NOT NULL CHECK (creation_method IN ('upload', 'builder')),
		conversation JSONB NOT NULL DEFAULT '[]'::jsonb,
		coaching_complete BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_resumes_user_id ON resumes (user_id)`,
}

func Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return errors.New("nil db")
	}

	if _, err := db.Exec(ctx, `SELECT pg_advisory_lock($1)`, advisoryLockKey); err != nil {
		return fmt.Errorf("migration lock: %w", err)
	}
	defer func() {
		_, _ = db.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, advisoryLockKey)
	}()

	for i, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}
	return nil
}
