// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

// Package pgstore implements the sync core's store interfaces on PostgreSQL
// using pgx. Every query is scoped to the owning user; ids belonging to
// other users behave as if they did not exist.
package pgstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles the per-entity stores sharing one connection pool.
type Store struct {
	Labels *Labels
	Notes  *Notes
	Users  *Users
}

// New creates a Store from an existing pool. The pool's lifecycle stays with
// the caller.
func New(pool *pgxpool.Pool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		Labels: &Labels{pool: pool, logger: logger},
		Notes:  &Notes{pool: pool, logger: logger},
		Users:  &Users{pool: pool, logger: logger},
	}
}

// InitSchema creates the application tables if they do not exist yet.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("initialize schema: %w", err)
		}
	}
	return nil
}
