// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by stores when an update matched no row for the
// given id and owner. The pipeline folds it into the per-item failure lists
// instead of surfacing it.
var ErrNotFound = errors.New("not found")

// NoteRow is the input for creating a note. LabelIDs holds already-resolved
// database ids; the store only connects labels that exist and belong to the
// same user.
type NoteRow struct {
	Title    *string
	Content  string
	Pinned   bool
	Order    int
	LabelIDs []int64
}

// NotePatch is a partial note update. Nil fields are left unchanged.
// SetLabels, when non-nil, replaces the full label set.
type NotePatch struct {
	Title     *string
	Content   *string
	Pinned    *bool
	Order     *int
	SetLabels *[]int64
}

// LabelStore is the label persistence collaborator. Every call is scoped to
// one owner; ids belonging to other users behave as if they did not exist.
type LabelStore interface {
	// DeleteMany removes the given labels. Missing or foreign ids are
	// silently skipped.
	DeleteMany(ctx context.Context, ownerID int64, ids []int64) error

	// CreateManySkipDuplicates inserts labels by name, skipping any
	// (name, owner) collision so that retries are no-ops.
	CreateManySkipDuplicates(ctx context.Context, ownerID int64, names []string) error

	// FindByNames returns the owner's labels matching any of the names.
	FindByNames(ctx context.Context, ownerID int64, names []string) ([]Label, error)

	// Rename updates a label's name. Returns ErrNotFound when no row
	// matched (id, owner).
	Rename(ctx context.Context, ownerID, id int64, name string) (Label, error)

	// FindUpdatedSince returns labels with updatedAt strictly after since.
	FindUpdatedSince(ctx context.Context, ownerID int64, since time.Time) ([]Label, error)

	// FilterExisting returns the subset of ids that still exist for the
	// owner.
	FilterExisting(ctx context.Context, ownerID int64, ids []int64) ([]int64, error)
}

// NoteStore is the note persistence collaborator, owner-scoped like
// LabelStore.
type NoteStore interface {
	DeleteMany(ctx context.Context, userID int64, ids []int64) error

	// MaxOrder returns the user's highest note order, 0 when the user has
	// no notes.
	MaxOrder(ctx context.Context, userID int64) (int, error)

	Create(ctx context.Context, userID int64, row NoteRow) (Note, error)

	// Update applies a partial update scoped to (id, user). Returns
	// ErrNotFound when no row matched.
	Update(ctx context.Context, userID, id int64, patch NotePatch) (Note, error)

	FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]Note, error)

	FilterExisting(ctx context.Context, userID int64, ids []int64) ([]int64, error)
}

// Clock supplies the justSyncedAt watermark. Wall clock in production;
// assumed monotonic enough within a single node.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
