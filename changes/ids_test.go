// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshalString(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"offline-7"`), &id); err != nil {
		t.Fatalf("unmarshal string id: %v", err)
	}
	off, ok := id.Offline()
	if !ok || off != "offline-7" {
		t.Errorf("expected offline id %q, got %v", "offline-7", id)
	}
	if _, ok := id.Database(); ok {
		t.Error("string id must not report a database id")
	}
}

func TestIDUnmarshalInteger(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`42`), &id); err != nil {
		t.Fatalf("unmarshal integer id: %v", err)
	}
	db, ok := id.Database()
	if !ok || db != 42 {
		t.Errorf("expected database id 42, got %v", id)
	}
}

func TestIDUnmarshalRejectsOtherTypes(t *testing.T) {
	for _, input := range []string{`true`, `1.5`, `{"id":1}`, `[1]`, `null`} {
		var id ID
		if err := json.Unmarshal([]byte(input), &id); err == nil {
			t.Errorf("expected error for %s", input)
		}
	}
}

func TestIDMarshalRoundTrip(t *testing.T) {
	cases := map[string]ID{
		`"off"`: OfflineID("off"),
		`13`:    DatabaseID(13),
	}
	for want, id := range cases {
		data, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("marshal %v: %v", id, err)
		}
		if string(data) != want {
			t.Errorf("expected %s, got %s", want, data)
		}
	}
}
