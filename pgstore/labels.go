// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lucasmercado101/Brief/changes"
)

// Labels implements changes.LabelStore on PostgreSQL.
type Labels struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func (s *Labels) DeleteMany(ctx context.Context, ownerID int64, ids []int64) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM labels
		WHERE id = ANY(@ids) AND owner_id = @owner_id`,
		pgx.NamedArgs{"ids": ids, "owner_id": ownerID},
	)
	if err != nil {
		return fmt.Errorf("delete labels: %w", err)
	}
	return nil
}

func (s *Labels) CreateManySkipDuplicates(ctx context.Context, ownerID int64, names []string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO labels (name, owner_id)
		SELECT unnest(@names::text[]), @owner_id
		ON CONFLICT (name, owner_id) DO NOTHING`,
		pgx.NamedArgs{"names": names, "owner_id": ownerID},
	)
	if err != nil {
		return fmt.Errorf("create labels: %w", err)
	}
	return nil
}

func (s *Labels) FindByNames(ctx context.Context, ownerID int64, names []string) ([]changes.Label, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM labels
		WHERE name = ANY(@names) AND owner_id = @owner_id
		ORDER BY id`,
		pgx.NamedArgs{"names": names, "owner_id": ownerID},
	)
	if err != nil {
		return nil, fmt.Errorf("find labels by names: %w", err)
	}
	return scanLabels(rows)
}

func (s *Labels) Rename(ctx context.Context, ownerID, id int64, name string) (changes.Label, error) {
	var l changes.Label
	err := s.pool.QueryRow(ctx, `
		UPDATE labels
		SET name = @name, updated_at = now()
		WHERE id = @id AND owner_id = @owner_id
		RETURNING id, name, owner_id, created_at, updated_at`,
		pgx.NamedArgs{"name": name, "id": id, "owner_id": ownerID},
	).Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return changes.Label{}, changes.ErrNotFound
		}
		// A unique (name, owner_id) collision lands here too; the
		// pipeline reports it per item.
		return changes.Label{}, fmt.Errorf("rename label %d: %w", id, err)
	}
	return l, nil
}

func (s *Labels) FindUpdatedSince(ctx context.Context, ownerID int64, since time.Time) ([]changes.Label, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, owner_id, created_at, updated_at
		FROM labels
		WHERE owner_id = @owner_id AND updated_at > @since
		ORDER BY id`,
		pgx.NamedArgs{"owner_id": ownerID, "since": since},
	)
	if err != nil {
		return nil, fmt.Errorf("find updated labels: %w", err)
	}
	return scanLabels(rows)
}

func (s *Labels) FilterExisting(ctx context.Context, ownerID int64, ids []int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM labels
		WHERE owner_id = @owner_id AND id = ANY(@ids)`,
		pgx.NamedArgs{"owner_id": ownerID, "ids": ids},
	)
	if err != nil {
		return nil, fmt.Errorf("filter existing labels: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

func scanLabels(rows pgx.Rows) ([]changes.Label, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (changes.Label, error) {
		var l changes.Label
		err := row.Scan(&l.ID, &l.Name, &l.OwnerID, &l.CreatedAt, &l.UpdatedAt)
		return l, err
	})
}
