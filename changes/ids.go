// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ID identifies a note or a label inside an operation. It is either an
// offline id (an opaque string the client minted while disconnected) or a
// database id (the durable integer assigned by the store). On the wire an
// offline id is a JSON string and a database id is a JSON integer; no other
// representation is accepted.
type ID struct {
	db      int64
	offline string
	isDB    bool
}

// DatabaseID wraps a durable store-assigned id.
func DatabaseID(id int64) ID {
	return ID{db: id, isDB: true}
}

// OfflineID wraps a client-generated temporary id.
func OfflineID(id string) ID {
	return ID{offline: id}
}

// Database returns the database id and true when the ID is durable.
func (id ID) Database() (int64, bool) {
	return id.db, id.isDB
}

// Offline returns the offline id and true when the ID is still temporary.
func (id ID) Offline() (string, bool) {
	return id.offline, !id.isDB
}

func (id ID) String() string {
	if id.isDB {
		return strconv.FormatInt(id.db, 10)
	}
	return id.offline
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.isDB {
		return json.Marshal(id.db)
	}
	return json.Marshal(id.offline)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OfflineID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or an integer")
	}
	*id = DatabaseID(n)
	return nil
}
