package store

import (
	"context"
	"fmt"

	"noto/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		last_viewed_tasks BIGINT[] NOT NULL DEFAULT '{}',
		last_login TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notepads (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL DEFAULT 'Untitled Note',
		content TEXT NOT NULL DEFAULT '',
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		is_favorite BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notepads_user_id ON notepads(user_id)`,
	`CREATE TABLE IF NOT EXISTS tags (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		color TEXT NOT NULL,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		UNIQUE (user_id, title, color)
	)`,
	`CREATE TABLE IF NOT EXISTS notepad_tags (
		notepad_id BIGINT NOT NULL REFERENCES notepads(id) ON DELETE CASCADE,
		tag_id BIGINT NOT NULL REFERENCES tags(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notepad_tags_notepad_id ON notepad_tags(notepad_id)`,
	`CREATE INDEX IF NOT EXISTS idx_notepad_tags_tag_id ON notepad_tags(tag_id)`,
}

// Migrate creates the tables and indexes if they do not exist yet. It runs
// in a single transaction so a partial schema is never left behind.
func Migrate(ctx context.Context, db utils.DB) error {
	return utils.InTx(ctx, db, func(q utils.Querier) error {
		for i, stmt := range schema {
			if _, err := q.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("migration step %d: %w", i+1, err)
			}
		}
		return nil
	})
}
