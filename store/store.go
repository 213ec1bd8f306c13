// Package store persists users, notepads and tags in Postgres. Every
// notepad and tag query is scoped to the owning user.
package store

import (
	"context"

	"noto/utils"
)

type Store struct {
	db utils.DB
}

func New(db utils.DB) *Store {
	return &Store{db: db}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, utils.QueryTimeout)
	defer cancel()
	return s.db.Ping(ctx)
}
