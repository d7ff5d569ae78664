// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import "time"

// Label is a user-owned tag for notes. (Name, OwnerID) is unique in the
// store; creating a duplicate is skipped, never an error.
type Label struct {
	ID        int64
	Name      string
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Note is a user-owned note. Labels holds the ids of the labels attached to
// it. Order is a display ordering hint assigned as max(order)+1 for new notes
// unless the client supplies one. UpdatedAt advances on every mutation,
// including label-set changes; it is the sole down-sync signal.
type Note struct {
	ID        int64
	Title     *string
	Content   string
	Pinned    bool
	Order     int
	UserID    int64
	Labels    []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
