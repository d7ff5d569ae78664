// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

// Batch is a validated request folded into per-kind buckets, ready for the
// apply pipeline.
type Batch struct {
	DeleteLabelIDs   []int64
	DeleteNoteIDs    []int64
	CreateLabels     []NewLabel
	CreateNotes      []NewNote
	EditNotes        []EditNoteOp
	ChangeLabelsName []ChangeLabelNameOp
}

// Classify groups a heterogeneous operation list into per-kind buckets.
// Clients are expected to send at most one operation of each bulk kind
// (deletes and creates); if one is repeated the last occurrence wins. The
// repeatable kinds (note edits and label renames) accumulate in encounter
// order.
func Classify(ops []Operation) Batch {
	var b Batch
	for _, op := range ops {
		switch op := op.(type) {
		case DeleteLabelsOp:
			b.DeleteLabelIDs = op.IDs
		case DeleteNotesOp:
			b.DeleteNoteIDs = op.IDs
		case CreateLabelsOp:
			b.CreateLabels = op.Labels
		case CreateNotesOp:
			b.CreateNotes = op.Notes
		case EditNoteOp:
			b.EditNotes = append(b.EditNotes, op)
		case ChangeLabelNameOp:
			b.ChangeLabelsName = append(b.ChangeLabelsName, op)
		}
	}
	return b
}
