// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"sync"
)

// resolved maps offline ids to the database ids they turned out to be.
// Each phase that mints ids produces one of these; substitution returns a
// rewritten Batch rather than mutating shared state.
type resolved map[string]int64

// id substitutes a single ID. Unresolvable offline ids pass through
// unchanged; later phases treat them as referencing a non-existent entity.
func (r resolved) id(id ID) ID {
	if off, ok := id.Offline(); ok {
		if db, ok := r[off]; ok {
			return DatabaseID(db)
		}
	}
	return id
}

func (r resolved) ids(ids []ID) []ID {
	if ids == nil {
		return nil
	}
	out := make([]ID, len(ids))
	for i, id := range ids {
		out[i] = r.id(id)
	}
	return out
}

// withResolvedLabels rewrites every label reference in the pending note
// creates, note edits and label renames.
func (b Batch) withResolvedLabels(r resolved) Batch {
	if len(r) == 0 {
		return b
	}
	next := b

	next.CreateNotes = make([]NewNote, len(b.CreateNotes))
	for i, n := range b.CreateNotes {
		n.Labels = r.ids(n.Labels)
		next.CreateNotes[i] = n
	}

	next.EditNotes = make([]EditNoteOp, len(b.EditNotes))
	for i, e := range b.EditNotes {
		if e.Labels != nil {
			labels := r.ids(*e.Labels)
			e.Labels = &labels
		}
		next.EditNotes[i] = e
	}

	next.ChangeLabelsName = make([]ChangeLabelNameOp, len(b.ChangeLabelsName))
	for i, c := range b.ChangeLabelsName {
		c.ID = r.id(c.ID)
		next.ChangeLabelsName[i] = c
	}
	return next
}

// withResolvedNotes rewrites note ids in the pending edits.
func (b Batch) withResolvedNotes(r resolved) Batch {
	if len(r) == 0 {
		return b
	}
	next := b
	next.EditNotes = make([]EditNoteOp, len(b.EditNotes))
	for i, e := range b.EditNotes {
		e.ID = r.id(e.ID)
		next.EditNotes[i] = e
	}
	return next
}

// applyOutcome accumulates what the apply phases produced: the offline-id
// annotations for rows created by this request and the per-item failures.
type applyOutcome struct {
	labelOffline map[int64]string
	noteOffline  map[int64]string

	labelsNotCreated []NewLabel
	notesNotCreated  []NewNote
	notesNotEdited   []EditNoteOp
	labelsNotRenamed []ChangeLabelNameOp
}

// applyBatch runs the six apply phases in their fixed order. The order
// matters: note creates depend on label ids minted by the label create
// phase, and edits depend on note ids minted by the note create phase.
// A returned error means a phase-level store fault (category d); per-item
// failures never produce one.
func (s *SyncService) applyBatch(ctx context.Context, userID int64, batch Batch) (*applyOutcome, error) {
	out := &applyOutcome{
		labelOffline: make(map[int64]string),
		noteOffline:  make(map[int64]string),
	}

	if len(batch.DeleteLabelIDs) > 0 {
		if err := s.labels.DeleteMany(ctx, userID, batch.DeleteLabelIDs); err != nil {
			return nil, err
		}
	}
	if len(batch.DeleteNoteIDs) > 0 {
		if err := s.notes.DeleteMany(ctx, userID, batch.DeleteNoteIDs); err != nil {
			return nil, err
		}
	}

	batch, err := s.createLabels(ctx, userID, batch, out)
	if err != nil {
		return nil, err
	}
	batch, err = s.createNotes(ctx, userID, batch, out)
	if err != nil {
		return nil, err
	}
	s.editNotes(ctx, userID, batch, out)
	s.renameLabels(ctx, userID, batch, out)
	return out, nil
}

// createLabels bulk-inserts the offline labels, recovers the assigned ids by
// re-querying the submitted names, and rewrites every pending operation that
// referenced an offline label id. Name is the only correlation key available
// after a skip-duplicates insert, so two offline labels sharing a name both
// resolve to the same row.
func (s *SyncService) createLabels(ctx context.Context, userID int64, batch Batch, out *applyOutcome) (Batch, error) {
	if len(batch.CreateLabels) == 0 {
		return batch, nil
	}

	names := make([]string, len(batch.CreateLabels))
	for i, l := range batch.CreateLabels {
		names[i] = l.Name
	}
	if err := s.labels.CreateManySkipDuplicates(ctx, userID, names); err != nil {
		return batch, err
	}

	rows, err := s.labels.FindByNames(ctx, userID, names)
	if err != nil {
		return batch, err
	}

	byName := make(map[string]int64, len(rows))
	for _, row := range rows {
		byName[row.Name] = row.ID
	}

	res := resolved{}
	for _, l := range batch.CreateLabels {
		id, ok := byName[l.Name]
		if !ok {
			// Don't inquire further: if it couldn't create, report it
			// as not created instead of retrying or failing.
			out.labelsNotCreated = append(out.labelsNotCreated, l)
			continue
		}
		res[l.OfflineID] = id
		if _, taken := out.labelOffline[id]; !taken {
			out.labelOffline[id] = l.OfflineID
		}
	}

	return batch.withResolvedLabels(res), nil
}

// createNotes persists the offline notes. Orders missing from the request
// are assigned from a counter seeded at the user's current max order + 1 and
// bumped per note, so one batch never collides with itself. Creates are
// fired concurrently and settled individually; a failed sibling aborts
// nothing.
func (s *SyncService) createNotes(ctx context.Context, userID int64, batch Batch, out *applyOutcome) (Batch, error) {
	if len(batch.CreateNotes) == 0 {
		return batch, nil
	}

	maxOrder, err := s.notes.MaxOrder(ctx, userID)
	if err != nil {
		return batch, err
	}
	nextOrder := maxOrder + 1

	rows := make([]NoteRow, len(batch.CreateNotes))
	for i, n := range batch.CreateNotes {
		order := nextOrder
		if n.Order != nil {
			order = *n.Order
		} else {
			nextOrder++
		}
		rows[i] = NoteRow{
			Title:   n.Title,
			Content: n.Content,
			Pinned:  n.Pinned,
			Order:   order,
			// Stragglers that never resolved to a database id are
			// dropped from the connection set, not failed.
			LabelIDs: databaseIDs(n.Labels),
		}
	}

	created := make([]*Note, len(rows))
	var wg sync.WaitGroup
	for i := range rows {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			note, err := s.notes.Create(ctx, userID, rows[i])
			if err != nil {
				s.logger.Debug("note create failed",
					"user_id", userID, "offline_id", batch.CreateNotes[i].OfflineID, "error", err)
				return
			}
			created[i] = &note
		}(i)
	}
	wg.Wait()

	res := resolved{}
	for i, note := range created {
		src := batch.CreateNotes[i]
		if note == nil {
			out.notesNotCreated = append(out.notesNotCreated, src)
			continue
		}
		res[src.OfflineID] = note.ID
		out.noteOffline[note.ID] = src.OfflineID
	}

	return batch.withResolvedNotes(res), nil
}

// editNotes applies the pending partial updates. Entries still carrying an
// unresolvable offline id are skipped and reported as not edited. Updates
// are scoped to (id, user) so cross-user edits silently miss.
func (s *SyncService) editNotes(ctx context.Context, userID int64, batch Batch, out *applyOutcome) {
	if len(batch.EditNotes) == 0 {
		return
	}

	edited := make([]bool, len(batch.EditNotes))
	var wg sync.WaitGroup
	for i, op := range batch.EditNotes {
		id, ok := op.ID.Database()
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, id int64, op EditNoteOp) {
			defer wg.Done()
			patch := NotePatch{
				Title:   op.Title,
				Content: op.Content,
				Pinned:  op.Pinned,
				Order:   op.Order,
			}
			if op.Labels != nil {
				ids := databaseIDs(*op.Labels)
				patch.SetLabels = &ids
			}
			if _, err := s.notes.Update(ctx, userID, id, patch); err != nil {
				s.logger.Debug("note edit failed",
					"user_id", userID, "note_id", id, "error", err)
				return
			}
			edited[i] = true
		}(i, id, op)
	}
	wg.Wait()

	for i, op := range batch.EditNotes {
		if !edited[i] {
			out.notesNotEdited = append(out.notesNotEdited, op)
		}
	}
}

// renameLabels applies the pending renames, same tolerance as editNotes.
// A (name, owner) collision with an existing label surfaces here as a
// per-item failure, not an HTTP error.
func (s *SyncService) renameLabels(ctx context.Context, userID int64, batch Batch, out *applyOutcome) {
	if len(batch.ChangeLabelsName) == 0 {
		return
	}

	renamed := make([]bool, len(batch.ChangeLabelsName))
	var wg sync.WaitGroup
	for i, op := range batch.ChangeLabelsName {
		id, ok := op.ID.Database()
		if !ok {
			continue
		}
		wg.Add(1)
		go func(i int, id int64, name string) {
			defer wg.Done()
			if _, err := s.labels.Rename(ctx, userID, id, name); err != nil {
				s.logger.Debug("label rename failed",
					"user_id", userID, "label_id", id, "error", err)
				return
			}
			renamed[i] = true
		}(i, id, op.Name)
	}
	wg.Wait()

	for i, op := range batch.ChangeLabelsName {
		if !renamed[i] {
			out.labelsNotRenamed = append(out.labelsNotRenamed, op)
		}
	}
}

// databaseIDs keeps only the references that resolved to database ids.
func databaseIDs(ids []ID) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if db, ok := id.Database(); ok {
			out = append(out, db)
		}
	}
	return out
}
