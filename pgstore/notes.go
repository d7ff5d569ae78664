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

// Notes implements changes.NoteStore on PostgreSQL. Creates and updates run
// in their own small transaction so the note row and its label links move
// together; there is deliberately no transaction around a whole batch.
type Notes struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func (s *Notes) DeleteMany(ctx context.Context, userID int64, ids []int64) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM notes
		WHERE id = ANY(@ids) AND user_id = @user_id`,
		pgx.NamedArgs{"ids": ids, "user_id": userID},
	)
	if err != nil {
		return fmt.Errorf("delete notes: %w", err)
	}
	return nil
}

func (s *Notes) MaxOrder(ctx context.Context, userID int64) (int, error) {
	var max int
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(MAX(note_order), 0) FROM notes WHERE user_id = @user_id`,
		pgx.NamedArgs{"user_id": userID},
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("max note order: %w", err)
	}
	return max, nil
}

func (s *Notes) Create(ctx context.Context, userID int64, row changes.NoteRow) (changes.Note, error) {
	note := changes.Note{
		Title:   row.Title,
		Content: row.Content,
		Pinned:  row.Pinned,
		Order:   row.Order,
		UserID:  userID,
		Labels:  []int64{},
	}
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO notes (title, content, pinned, note_order, user_id)
			VALUES (@title, @content, @pinned, @note_order, @user_id)
			RETURNING id, created_at, updated_at`,
			pgx.NamedArgs{
				"title":      row.Title,
				"content":    row.Content,
				"pinned":     row.Pinned,
				"note_order": row.Order,
				"user_id":    userID,
			},
		).Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert note: %w", err)
		}

		if len(row.LabelIDs) > 0 {
			connected, err := connectLabels(ctx, tx, userID, note.ID, row.LabelIDs)
			if err != nil {
				return err
			}
			note.Labels = connected
		}
		return nil
	})
	if err != nil {
		return changes.Note{}, err
	}
	return note, nil
}

func (s *Notes) Update(ctx context.Context, userID, id int64, patch changes.NotePatch) (changes.Note, error) {
	var note changes.Note
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		// COALESCE keeps a column unchanged when its patch field is
		// NULL; updated_at always advances, including on pure
		// label-set changes, because it is the down-sync signal.
		err := tx.QueryRow(ctx, `
			UPDATE notes
			SET title = COALESCE(@title, title),
			    content = COALESCE(@content, content),
			    pinned = COALESCE(@pinned, pinned),
			    note_order = COALESCE(@note_order, note_order),
			    updated_at = now()
			WHERE id = @id AND user_id = @user_id
			RETURNING id, title, content, pinned, note_order, user_id, created_at, updated_at`,
			pgx.NamedArgs{
				"title":      patch.Title,
				"content":    patch.Content,
				"pinned":     patch.Pinned,
				"note_order": patch.Order,
				"id":         id,
				"user_id":    userID,
			},
		).Scan(&note.ID, &note.Title, &note.Content, &note.Pinned, &note.Order,
			&note.UserID, &note.CreatedAt, &note.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return changes.ErrNotFound
			}
			return fmt.Errorf("update note %d: %w", id, err)
		}

		if patch.SetLabels != nil {
			if _, err := tx.Exec(ctx, `
				DELETE FROM note_labels WHERE note_id = @note_id`,
				pgx.NamedArgs{"note_id": note.ID},
			); err != nil {
				return fmt.Errorf("clear note labels: %w", err)
			}
			connected, err := connectLabels(ctx, tx, userID, note.ID, *patch.SetLabels)
			if err != nil {
				return err
			}
			note.Labels = connected
			return nil
		}

		rows, err := tx.Query(ctx, `
			SELECT label_id FROM note_labels WHERE note_id = @note_id ORDER BY label_id`,
			pgx.NamedArgs{"note_id": note.ID},
		)
		if err != nil {
			return fmt.Errorf("load note labels: %w", err)
		}
		note.Labels, err = pgx.CollectRows(rows, pgx.RowTo[int64])
		return err
	})
	if err != nil {
		return changes.Note{}, err
	}
	if note.Labels == nil {
		note.Labels = []int64{}
	}
	return note, nil
}

func (s *Notes) FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]changes.Note, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT n.id, n.title, n.content, n.pinned, n.note_order, n.user_id,
		       n.created_at, n.updated_at,
		       COALESCE(array_agg(nl.label_id) FILTER (WHERE nl.label_id IS NOT NULL), '{}')
		FROM notes n
		LEFT JOIN note_labels nl ON nl.note_id = n.id
		WHERE n.user_id = @user_id AND n.updated_at > @since
		GROUP BY n.id
		ORDER BY n.id`,
		pgx.NamedArgs{"user_id": userID, "since": since},
	)
	if err != nil {
		return nil, fmt.Errorf("find updated notes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (changes.Note, error) {
		var n changes.Note
		err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Pinned, &n.Order,
			&n.UserID, &n.CreatedAt, &n.UpdatedAt, &n.Labels)
		return n, err
	})
}

func (s *Notes) FilterExisting(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id FROM notes
		WHERE user_id = @user_id AND id = ANY(@ids)`,
		pgx.NamedArgs{"user_id": userID, "ids": ids},
	)
	if err != nil {
		return nil, fmt.Errorf("filter existing notes: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// connectLabels links a note to the given labels, keeping only labels that
// exist and belong to the same user. References to other users' labels are
// ignored, never fulfilled.
func connectLabels(ctx context.Context, tx pgx.Tx, userID, noteID int64, labelIDs []int64) ([]int64, error) {
	rows, err := tx.Query(ctx, `
		INSERT INTO note_labels (note_id, label_id)
		SELECT @note_id, id FROM labels
		WHERE id = ANY(@label_ids) AND owner_id = @owner_id
		RETURNING label_id`,
		pgx.NamedArgs{"note_id": noteID, "label_ids": labelIDs, "owner_id": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("connect note labels: %w", err)
	}
	connected, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("connect note labels: %w", err)
	}
	if connected == nil {
		connected = []int64{}
	}
	return connected, nil
}
