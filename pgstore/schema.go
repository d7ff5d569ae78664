// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package pgstore

// schemaStatements holds the application DDL. note_order carries the
// client-side display ordering; it is deliberately not unique per user, two
// notes ending up with the same order is accepted.
var schemaStatements = []string{
	/*language=postgresql*/ `
CREATE TABLE IF NOT EXISTS users (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	/*language=postgresql*/ `
CREATE TABLE IF NOT EXISTS labels (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (name, owner_id)
)`,
	/*language=postgresql*/ `
CREATE TABLE IF NOT EXISTS notes (
	id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
	title TEXT,
	content TEXT NOT NULL,
	pinned BOOLEAN NOT NULL DEFAULT false,
	note_order INTEGER NOT NULL,
	user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	/*language=postgresql*/ `
CREATE TABLE IF NOT EXISTS note_labels (
	note_id BIGINT NOT NULL REFERENCES notes(id) ON DELETE CASCADE,
	label_id BIGINT NOT NULL REFERENCES labels(id) ON DELETE CASCADE,
	PRIMARY KEY (note_id, label_id)
)`,
	/*language=postgresql*/ `
CREATE INDEX IF NOT EXISTS idx_notes_user_updated ON notes (user_id, updated_at)`,
	/*language=postgresql*/ `
CREATE INDEX IF NOT EXISTS idx_labels_owner_updated ON labels (owner_id, updated_at)`,
}
