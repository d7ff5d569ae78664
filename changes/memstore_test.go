// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// fakeClock is a controllable Clock for watermark tests.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// memDB is an in-memory store backing both fake store implementations.
// Failure hooks let tests make individual operations fail without touching
// their siblings.
type memDB struct {
	mu          sync.Mutex
	clock       *fakeClock
	nextLabelID int64
	nextNoteID  int64
	labels      map[int64]*Label
	notes       map[int64]*Note

	failDeleteLabels error
	failCreateNote   func(row NoteRow) error
	failUpdateNote   func(id int64) error
	failRenameLabel  func(id int64) error
	failFindUpdated  error
}

func newMemDB(clock *fakeClock) *memDB {
	return &memDB{
		clock:  clock,
		labels: make(map[int64]*Label),
		notes:  make(map[int64]*Note),
	}
}

func (db *memDB) labelStore() *memLabels { return &memLabels{db: db} }
func (db *memDB) noteStore() *memNotes   { return &memNotes{db: db} }

func (db *memDB) addLabel(ownerID int64, name string) Label {
	db.mu.Lock()
	defer db.mu.Unlock()
	return *db.insertLabel(ownerID, name)
}

func (db *memDB) insertLabel(ownerID int64, name string) *Label {
	db.nextLabelID++
	now := db.clock.Now()
	l := &Label{ID: db.nextLabelID, Name: name, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	db.labels[l.ID] = l
	return l
}

func (db *memDB) addNote(userID int64, content string, order int, labelIDs ...int64) Note {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.nextNoteID++
	now := db.clock.Now()
	n := &Note{
		ID:        db.nextNoteID,
		Content:   content,
		Order:     order,
		UserID:    userID,
		Labels:    append([]int64{}, labelIDs...),
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.notes[n.ID] = n
	return *n
}

func (db *memDB) labelByName(ownerID int64, name string) (Label, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, l := range db.labels {
		if l.OwnerID == ownerID && l.Name == name {
			return *l, true
		}
	}
	return Label{}, false
}

func (db *memDB) noteByID(id int64) (Note, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	n, ok := db.notes[id]
	if !ok {
		return Note{}, false
	}
	return *n, true
}

// ownedLabelIDs keeps ids that exist and belong to the owner, mirroring the
// SQL store's connection filter.
func (db *memDB) ownedLabelIDs(ownerID int64, ids []int64) []int64 {
	out := []int64{}
	for _, id := range ids {
		if l, ok := db.labels[id]; ok && l.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out
}

type memLabels struct {
	db *memDB
}

func (s *memLabels) DeleteMany(ctx context.Context, ownerID int64, ids []int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failDeleteLabels != nil {
		return db.failDeleteLabels
	}
	for _, id := range ids {
		if l, ok := db.labels[id]; ok && l.OwnerID == ownerID {
			delete(db.labels, id)
			for _, n := range db.notes {
				n.Labels = removeID(n.Labels, id)
			}
		}
	}
	return nil
}

func (s *memLabels) CreateManySkipDuplicates(ctx context.Context, ownerID int64, names []string) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, name := range names {
		exists := false
		for _, l := range db.labels {
			if l.OwnerID == ownerID && l.Name == name {
				exists = true
				break
			}
		}
		if !exists {
			db.insertLabel(ownerID, name)
		}
	}
	return nil
}

func (s *memLabels) FindByNames(ctx context.Context, ownerID int64, names []string) ([]Label, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	out := []Label{}
	for _, l := range db.labels {
		if l.OwnerID != ownerID {
			continue
		}
		if _, ok := wanted[l.Name]; ok {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memLabels) Rename(ctx context.Context, ownerID, id int64, name string) (Label, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failRenameLabel != nil {
		if err := db.failRenameLabel(id); err != nil {
			return Label{}, err
		}
	}
	l, ok := db.labels[id]
	if !ok || l.OwnerID != ownerID {
		return Label{}, ErrNotFound
	}
	for _, other := range db.labels {
		if other.ID != id && other.OwnerID == ownerID && other.Name == name {
			return Label{}, fmt.Errorf("duplicate label name %q", name)
		}
	}
	l.Name = name
	l.UpdatedAt = db.clock.Now()
	return *l, nil
}

func (s *memLabels) FindUpdatedSince(ctx context.Context, ownerID int64, since time.Time) ([]Label, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failFindUpdated != nil {
		return nil, db.failFindUpdated
	}
	out := []Label{}
	for _, l := range db.labels {
		if l.OwnerID == ownerID && l.UpdatedAt.After(since) {
			out = append(out, *l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memLabels) FilterExisting(ctx context.Context, ownerID int64, ids []int64) ([]int64, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	out := []int64{}
	for _, id := range ids {
		if l, ok := db.labels[id]; ok && l.OwnerID == ownerID {
			out = append(out, id)
		}
	}
	return out, nil
}

type memNotes struct {
	db *memDB
}

func (s *memNotes) DeleteMany(ctx context.Context, userID int64, ids []int64) error {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	for _, id := range ids {
		if n, ok := db.notes[id]; ok && n.UserID == userID {
			delete(db.notes, id)
		}
	}
	return nil
}

func (s *memNotes) MaxOrder(ctx context.Context, userID int64) (int, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	max := 0
	for _, n := range db.notes {
		if n.UserID == userID && n.Order > max {
			max = n.Order
		}
	}
	return max, nil
}

func (s *memNotes) Create(ctx context.Context, userID int64, row NoteRow) (Note, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failCreateNote != nil {
		if err := db.failCreateNote(row); err != nil {
			return Note{}, err
		}
	}
	db.nextNoteID++
	now := db.clock.Now()
	n := &Note{
		ID:        db.nextNoteID,
		Title:     row.Title,
		Content:   row.Content,
		Pinned:    row.Pinned,
		Order:     row.Order,
		UserID:    userID,
		Labels:    db.ownedLabelIDs(userID, row.LabelIDs),
		CreatedAt: now,
		UpdatedAt: now,
	}
	db.notes[n.ID] = n
	return *n, nil
}

func (s *memNotes) Update(ctx context.Context, userID, id int64, patch NotePatch) (Note, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failUpdateNote != nil {
		if err := db.failUpdateNote(id); err != nil {
			return Note{}, err
		}
	}
	n, ok := db.notes[id]
	if !ok || n.UserID != userID {
		return Note{}, ErrNotFound
	}
	if patch.Title != nil {
		n.Title = patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Pinned != nil {
		n.Pinned = *patch.Pinned
	}
	if patch.Order != nil {
		n.Order = *patch.Order
	}
	if patch.SetLabels != nil {
		n.Labels = db.ownedLabelIDs(userID, *patch.SetLabels)
	}
	n.UpdatedAt = db.clock.Now()
	return *n, nil
}

func (s *memNotes) FindUpdatedSince(ctx context.Context, userID int64, since time.Time) ([]Note, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.failFindUpdated != nil {
		return nil, db.failFindUpdated
	}
	out := []Note{}
	for _, n := range db.notes {
		if n.UserID == userID && n.UpdatedAt.After(since) {
			copied := *n
			copied.Labels = append([]int64{}, n.Labels...)
			out = append(out, copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memNotes) FilterExisting(ctx context.Context, userID int64, ids []int64) ([]int64, error) {
	db := s.db
	db.mu.Lock()
	defer db.mu.Unlock()
	out := []int64{}
	for _, id := range ids {
		if n, ok := db.notes[id]; ok && n.UserID == userID {
			out = append(out, id)
		}
	}
	return out, nil
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
