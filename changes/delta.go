// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"time"
)

// buildResponse computes the down-sync delta after the mutations settled:
// everything that changed past the client's watermark, the tombstones
// inferred from the client's id inventory, and the per-item failures from
// the apply phases.
func (s *SyncService) buildResponse(ctx context.Context, userID int64, req *ChangeRequest, out *applyOutcome) (*ChangeResponse, error) {
	since := time.UnixMilli(*req.LastSyncedAt)

	notes, err := s.notes.FindUpdatedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}
	labels, err := s.labels.FindUpdatedSince(ctx, userID, since)
	if err != nil {
		return nil, err
	}

	deletedNotes, err := s.deletedIDs(ctx, userID, req.CurrentData.Notes, s.notes.FilterExisting)
	if err != nil {
		return nil, err
	}
	deletedLabels, err := s.deletedIDs(ctx, userID, req.CurrentData.Labels, s.labels.FilterExisting)
	if err != nil {
		return nil, err
	}

	resp := &ChangeResponse{
		Data: SyncedData{
			Notes:  make([]SyncedNote, 0, len(notes)),
			Labels: make([]SyncedLabel, 0, len(labels)),
		},
		Deleted: DeletedData{
			Notes:  deletedNotes,
			Labels: deletedLabels,
		},
		FailedToCreate: make([]string, 0, len(out.labelsNotCreated)+len(out.notesNotCreated)),
		FailedToEdit: FailedEdits{
			Notes:  make([]EditNoteOp, 0, len(out.notesNotEdited)),
			Labels: make([]ChangeLabelNameOp, 0, len(out.labelsNotRenamed)),
		},
		JustSyncedAt: s.clock.Now().UnixMilli(),
	}

	for _, n := range notes {
		labelIDs := n.Labels
		if labelIDs == nil {
			labelIDs = []int64{}
		}
		resp.Data.Notes = append(resp.Data.Notes, SyncedNote{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Pinned:    n.Pinned,
			Order:     n.Order,
			UserID:    n.UserID,
			Labels:    labelIDs,
			CreatedAt: n.CreatedAt.UnixMilli(),
			UpdatedAt: n.UpdatedAt.UnixMilli(),
			OfflineID: out.noteOffline[n.ID],
		})
	}
	for _, l := range labels {
		resp.Data.Labels = append(resp.Data.Labels, SyncedLabel{
			ID:        l.ID,
			Name:      l.Name,
			OwnerID:   l.OwnerID,
			CreatedAt: l.CreatedAt.UnixMilli(),
			UpdatedAt: l.UpdatedAt.UnixMilli(),
			OfflineID: out.labelOffline[l.ID],
		})
	}

	// Failed label creates come first, mirroring the apply order.
	for _, l := range out.labelsNotCreated {
		resp.FailedToCreate = append(resp.FailedToCreate, l.OfflineID)
	}
	for _, n := range out.notesNotCreated {
		resp.FailedToCreate = append(resp.FailedToCreate, n.OfflineID)
	}
	resp.FailedToEdit.Notes = append(resp.FailedToEdit.Notes, out.notesNotEdited...)
	resp.FailedToEdit.Labels = append(resp.FailedToEdit.Labels, out.labelsNotRenamed...)

	return resp, nil
}

// deletedIDs reports which of the client-held ids no longer exist, in the
// client's order. This is a presence check against the current store state,
// not a change log, so it detects deletions regardless of who performed
// them.
func (s *SyncService) deletedIDs(
	ctx context.Context,
	userID int64,
	claimed []int64,
	filterExisting func(ctx context.Context, userID int64, ids []int64) ([]int64, error),
) ([]int64, error) {
	deleted := make([]int64, 0)
	if len(claimed) == 0 {
		return deleted, nil
	}
	existing, err := filterExisting(ctx, userID, claimed)
	if err != nil {
		return nil, err
	}
	alive := make(map[int64]struct{}, len(existing))
	for _, id := range existing {
		alive[id] = struct{}{}
	}
	for _, id := range claimed {
		if _, ok := alive[id]; !ok {
			deleted = append(deleted, id)
		}
	}
	return deleted, nil
}
