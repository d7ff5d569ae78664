// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import "encoding/json"

// REST/JSON models for the /changes endpoint. Timestamps cross the wire as
// epoch milliseconds to keep the format simple for arbitrary clients.

// ChangeRequest is the body of POST /changes. Operations stay raw until the
// validator types them; LastSyncedAt and CurrentData are pointers so a
// missing field is distinguishable from a zero value.
type ChangeRequest struct {
	Operations   []json.RawMessage `json:"operations"`
	LastSyncedAt *int64            `json:"lastSyncedAt"`
	CurrentData  *CurrentData      `json:"currentData"`
}

// CurrentData is the client's full inventory of database ids it currently
// holds, used for tombstone detection.
type CurrentData struct {
	Labels []int64 `json:"labels"`
	Notes  []int64 `json:"notes"`
}

// ChangeResponse is everything the client must apply to converge.
type ChangeResponse struct {
	Data           SyncedData  `json:"data"`
	Deleted        DeletedData `json:"deleted"`
	FailedToCreate []string    `json:"failedToCreate"`
	FailedToEdit   FailedEdits `json:"failedToEdit"`
	JustSyncedAt   int64       `json:"justSyncedAt"`
}

// SyncedData carries entities changed since the client's watermark.
type SyncedData struct {
	Notes  []SyncedNote  `json:"notes"`
	Labels []SyncedLabel `json:"labels"`
}

// DeletedData carries ids the client holds but the store no longer does.
type DeletedData struct {
	Notes  []int64 `json:"notes"`
	Labels []int64 `json:"labels"`
}

// FailedEdits echoes back the operations that could not be applied so the
// client can retry, drop, or surface them.
type FailedEdits struct {
	Notes  []EditNoteOp        `json:"notes"`
	Labels []ChangeLabelNameOp `json:"labels"`
}

// SyncedNote is a down-synced note. OfflineID is set only when the note was
// created by this very request, letting the client reconcile its temporary
// record without another round trip.
type SyncedNote struct {
	ID        int64   `json:"id"`
	Title     *string `json:"title"`
	Content   string  `json:"content"`
	Pinned    bool    `json:"pinned"`
	Order     int     `json:"order"`
	UserID    int64   `json:"userId"`
	Labels    []int64 `json:"labels"`
	CreatedAt int64   `json:"createdAt"`
	UpdatedAt int64   `json:"updatedAt"`
	OfflineID string  `json:"offlineId,omitempty"`
}

// SyncedLabel is a down-synced label, annotated like SyncedNote.
type SyncedLabel struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	OwnerID   int64  `json:"ownerId"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	OfflineID string `json:"offlineId,omitempty"`
}

// ErrorResponse is the JSON error envelope for non-200 statuses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
