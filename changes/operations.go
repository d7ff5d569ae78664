// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Operation tag constants. The set is closed: an unrecognized tag fails
// validation for the whole batch.
const (
	OpDeleteLabels    = "DELETE_LABELS"
	OpCreateLabels    = "CREATE_LABELS"
	OpDeleteNotes     = "DELETE_NOTES"
	OpCreateNotes     = "CREATE_NOTES"
	OpEditNote        = "EDIT_NOTE"
	OpChangeLabelName = "CHANGE_LABEL_NAME"
)

// ErrValidation marks client request errors: malformed operations, unknown
// tags, missing required fields. Handlers map it to HTTP 400; nothing is
// applied when it is returned.
var ErrValidation = errors.New("invalid request")

// Operation is one client mutation. It is a closed union over the six
// operation kinds; decodeOperations is the only constructor from wire data.
type Operation interface {
	operationTag() string
}

// DeleteLabelsOp deletes labels by database id. Bulk kind: at most one per
// batch is expected.
type DeleteLabelsOp struct {
	IDs []int64
}

// CreateLabelsOp creates labels from offline state. Bulk kind.
type CreateLabelsOp struct {
	Labels []NewLabel
}

// DeleteNotesOp deletes notes by database id. Bulk kind.
type DeleteNotesOp struct {
	IDs []int64
}

// CreateNotesOp creates notes from offline state. Bulk kind.
type CreateNotesOp struct {
	Notes []NewNote
}

// NewLabel is a label created while offline, identified by the client's
// temporary id until the store assigns a durable one.
type NewLabel struct {
	OfflineID string `json:"offlineId"`
	Name      string `json:"name"`
}

// NewNote is a note created while offline. Labels may reference offline label
// ids from the same batch; they are resolved before the note is persisted and
// unresolvable entries are dropped from the connection set.
type NewNote struct {
	OfflineID string  `json:"offlineId"`
	Title     *string `json:"title,omitempty"`
	Content   string  `json:"content"`
	Pinned    bool    `json:"pinned"`
	Order     *int    `json:"order,omitempty"`
	Labels    []ID    `json:"labels,omitempty"`
}

// EditNoteOp is a partial update: nil fields are left unchanged. A non-nil
// Labels replaces the full label set; nil leaves it untouched. Repeatable
// kind: a batch may carry any number of these.
type EditNoteOp struct {
	ID      ID      `json:"id"`
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Pinned  *bool   `json:"pinned,omitempty"`
	Order   *int    `json:"order,omitempty"`
	Labels  *[]ID   `json:"labels,omitempty"`
}

// ChangeLabelNameOp renames a label. Repeatable kind.
type ChangeLabelNameOp struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
}

func (DeleteLabelsOp) operationTag() string    { return OpDeleteLabels }
func (CreateLabelsOp) operationTag() string    { return OpCreateLabels }
func (DeleteNotesOp) operationTag() string     { return OpDeleteNotes }
func (CreateNotesOp) operationTag() string     { return OpCreateNotes }
func (EditNoteOp) operationTag() string        { return OpEditNote }
func (ChangeLabelNameOp) operationTag() string { return OpChangeLabelName }

// MarshalJSON restores the discriminator tag so failed edits echo back in the
// same shape the client submitted them.
func (op EditNoteOp) MarshalJSON() ([]byte, error) {
	type wire EditNoteOp
	return json.Marshal(struct {
		Operation string `json:"operation"`
		wire
	}{OpEditNote, wire(op)})
}

func (op ChangeLabelNameOp) MarshalJSON() ([]byte, error) {
	type wire ChangeLabelNameOp
	return json.Marshal(struct {
		Operation string `json:"operation"`
		wire
	}{OpChangeLabelName, wire(op)})
}

// decodeOperations validates and types an untrusted operation array. Any
// malformed element rejects the whole batch; per-item tolerance only applies
// later, during apply.
func decodeOperations(raw []json.RawMessage) ([]Operation, error) {
	ops := make([]Operation, 0, len(raw))
	for i, msg := range raw {
		op, err := decodeOperation(msg)
		if err != nil {
			return nil, fmt.Errorf("%w: operations[%d]: %v", ErrValidation, i, err)
		}
		ops = append(ops, op)
	}
	return ops, nil
}

func decodeOperation(raw json.RawMessage) (Operation, error) {
	var envelope struct {
		Operation *string `json:"operation"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.New("element must be a JSON object")
	}
	if envelope.Operation == nil {
		return nil, errors.New("missing operation tag")
	}

	switch tag := *envelope.Operation; tag {
	case OpDeleteLabels, OpDeleteNotes:
		var p struct {
			IDs *[]int64 `json:"ids"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %v", tag, err)
		}
		if p.IDs == nil {
			return nil, fmt.Errorf("%s: ids is required", tag)
		}
		if tag == OpDeleteLabels {
			return DeleteLabelsOp{IDs: *p.IDs}, nil
		}
		return DeleteNotesOp{IDs: *p.IDs}, nil

	case OpCreateLabels:
		var p struct {
			Labels *[]newLabelWire `json:"labels"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %v", tag, err)
		}
		if p.Labels == nil {
			return nil, fmt.Errorf("%s: labels is required", tag)
		}
		op := CreateLabelsOp{Labels: make([]NewLabel, 0, len(*p.Labels))}
		for j, l := range *p.Labels {
			label, err := l.validate()
			if err != nil {
				return nil, fmt.Errorf("%s: labels[%d]: %v", tag, j, err)
			}
			op.Labels = append(op.Labels, label)
		}
		return op, nil

	case OpCreateNotes:
		var p struct {
			Notes *[]newNoteWire `json:"notes"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %v", tag, err)
		}
		if p.Notes == nil {
			return nil, fmt.Errorf("%s: notes is required", tag)
		}
		op := CreateNotesOp{Notes: make([]NewNote, 0, len(*p.Notes))}
		for j, n := range *p.Notes {
			note, err := n.validate()
			if err != nil {
				return nil, fmt.Errorf("%s: notes[%d]: %v", tag, j, err)
			}
			op.Notes = append(op.Notes, note)
		}
		return op, nil

	case OpEditNote:
		var p struct {
			ID      *ID     `json:"id"`
			Title   *string `json:"title"`
			Content *string `json:"content"`
			Pinned  *bool   `json:"pinned"`
			Order   *int    `json:"order"`
			Labels  *[]ID   `json:"labels"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %v", tag, err)
		}
		if p.ID == nil {
			return nil, fmt.Errorf("%s: id is required", tag)
		}
		return EditNoteOp{
			ID:      *p.ID,
			Title:   p.Title,
			Content: p.Content,
			Pinned:  p.Pinned,
			Order:   p.Order,
			Labels:  p.Labels,
		}, nil

	case OpChangeLabelName:
		var p struct {
			ID   *ID     `json:"id"`
			Name *string `json:"name"`
		}
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%s: %v", tag, err)
		}
		if p.ID == nil {
			return nil, fmt.Errorf("%s: id is required", tag)
		}
		if p.Name == nil {
			return nil, fmt.Errorf("%s: name is required", tag)
		}
		return ChangeLabelNameOp{ID: *p.ID, Name: *p.Name}, nil

	default:
		return nil, fmt.Errorf("unknown operation tag %q", tag)
	}
}

type newLabelWire struct {
	OfflineID *string `json:"offlineId"`
	Name      *string `json:"name"`
}

func (w newLabelWire) validate() (NewLabel, error) {
	if w.OfflineID == nil {
		return NewLabel{}, errors.New("offlineId is required")
	}
	if w.Name == nil {
		return NewLabel{}, errors.New("name is required")
	}
	return NewLabel{OfflineID: *w.OfflineID, Name: *w.Name}, nil
}

type newNoteWire struct {
	OfflineID *string `json:"offlineId"`
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Pinned    *bool   `json:"pinned"`
	Order     *int    `json:"order"`
	Labels    []ID    `json:"labels"`
}

func (w newNoteWire) validate() (NewNote, error) {
	if w.OfflineID == nil {
		return NewNote{}, errors.New("offlineId is required")
	}
	if w.Content == nil {
		return NewNote{}, errors.New("content is required")
	}
	if w.Pinned == nil {
		return NewNote{}, errors.New("pinned is required")
	}
	return NewNote{
		OfflineID: *w.OfflineID,
		Title:     w.Title,
		Content:   *w.Content,
		Pinned:    *w.Pinned,
		Order:     w.Order,
		Labels:    w.Labels,
	}, nil
}
