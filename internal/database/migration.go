package database

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		username   TEXT NOT NULL UNIQUE,
		email      TEXT NOT NULL UNIQUE,
		avatar_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS groups (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		created_by BIGINT NOT NULL REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS group_members (
		group_id  BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		user_id   BIGINT NOT NULL REFERENCES users(id),
		balance   NUMERIC(12,2) NOT NULL DEFAULT 0,
		joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (group_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS expenses (
		id          BIGSERIAL PRIMARY KEY,
		group_id    BIGINT NOT NULL REFERENCES groups(id) ON DELETE CASCADE,
		payer_id    BIGINT NOT NULL REFERENCES users(id),
		kind        TEXT NOT NULL DEFAULT 'EXPENSE',
		description TEXT NOT NULL,
		amount      NUMERIC(12,2) NOT NULL,
		split_type  TEXT NOT NULL,
		spent_on    DATE NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_expenses_group_date ON expenses (group_id, spent_on DESC)`,
	`CREATE TABLE IF NOT EXISTS expense_shares (
		expense_id BIGINT NOT NULL REFERENCES expenses(id) ON DELETE CASCADE,
		user_id    BIGINT NOT NULL REFERENCES users(id),
		share      NUMERIC(12,2) NOT NULL,
		PRIMARY KEY (expense_id, user_id)
	)`,
	// expense_id is a back-reference, not a foreign key: mirror entries and
	// their source group entries have independent lifecycles.
	`CREATE TABLE IF NOT EXISTS mirror_entries (
		id                 UUID PRIMARY KEY,
		user_id            BIGINT NOT NULL REFERENCES users(id),
		group_id           BIGINT NOT NULL,
		expense_id         BIGINT NOT NULL,
		amount             NUMERIC(12,2) NOT NULL,
		category           TEXT NOT NULL,
		description        TEXT NOT NULL,
		entry_date         DATE NOT NULL,
		is_shared          BOOLEAN NOT NULL DEFAULT TRUE,
		recoverable_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, expense_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_mirror_entries_expense ON mirror_entries (expense_id)`,
}

// Migrate applies the schema. Statements are idempotent so this is safe to
// run on every startup.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply migration: %w", err)
		}
	}
	return nil
}
