// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTombstoneDetection(t *testing.T) {
	svc, db, _ := testHarness(t)
	n1 := db.addNote(1, "one", 1)
	n2 := db.addNote(1, "two", 2)

	resp, err := svc.ProcessChanges(context.Background(), 1, changeReq(0,
		CurrentData{Notes: []int64{n1.ID, n2.ID, 99}},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	require.Equal(t, []int64{99}, resp.Deleted.Notes)
	require.Empty(t, resp.Deleted.Labels)
}

func TestTombstoneDetectionAfterDelete(t *testing.T) {
	svc, db, _ := testHarness(t)
	n1 := db.addNote(1, "one", 1)
	n2 := db.addNote(1, "two", 2)

	resp, err := svc.ProcessChanges(context.Background(), 1, changeReq(0,
		CurrentData{Notes: []int64{n1.ID, n2.ID}},
		`{"operation":"DELETE_NOTES","ids":[`+int64String(n2.ID)+`]}`,
	))
	require.NoError(t, err)

	// The delete this very request performed shows up as a tombstone.
	require.Equal(t, []int64{n2.ID}, resp.Deleted.Notes)
}

func TestChangedSinceExcludesOlderEntities(t *testing.T) {
	svc, db, clock := testHarness(t)
	db.addNote(1, "old", 1)

	clock.Advance(time.Minute)
	watermark := testBase.Add(30 * time.Second).UnixMilli()
	fresh := db.addNote(1, "fresh", 2)

	resp, err := svc.ProcessChanges(context.Background(), 1, changeReq(watermark,
		CurrentData{},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	require.Len(t, resp.Data.Notes, 1)
	require.Equal(t, fresh.ID, resp.Data.Notes[0].ID)
	require.Empty(t, resp.Data.Notes[0].OfflineID)
}

func TestChangedSinceFlattensLabelRelation(t *testing.T) {
	svc, db, _ := testHarness(t)
	l1 := db.addLabel(1, "a")
	l2 := db.addLabel(1, "b")
	db.addNote(1, "n", 1, l1.ID, l2.ID)

	resp, err := svc.ProcessChanges(context.Background(), 1, changeReq(0,
		CurrentData{},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	require.Len(t, resp.Data.Notes, 1)
	require.ElementsMatch(t, []int64{l1.ID, l2.ID}, resp.Data.Notes[0].Labels)
}

func TestWatermarkMonotonicity(t *testing.T) {
	svc, _, clock := testHarness(t)
	ctx := context.Background()

	first, err := svc.ProcessChanges(ctx, 1, changeReq(0, CurrentData{},
		`{"operation":"CREATE_NOTES","notes":[{"offlineId":"N1","content":"n","pinned":false}]}`,
	))
	require.NoError(t, err)
	require.Len(t, first.Data.Notes, 1)
	require.Equal(t, clock.Now().UnixMilli(), first.JustSyncedAt)

	clock.Advance(time.Second)

	second, err := svc.ProcessChanges(ctx, 1, changeReq(first.JustSyncedAt, CurrentData{},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)
	// Nothing mutated between the calls, so nothing is re-returned.
	require.Empty(t, second.Data.Notes)
	require.Empty(t, second.Data.Labels)
	require.Greater(t, second.JustSyncedAt, first.JustSyncedAt)
}

func TestLabelSetChangeAdvancesNoteUpdatedAt(t *testing.T) {
	svc, db, clock := testHarness(t)
	label := db.addLabel(1, "l")
	note := db.addNote(1, "n", 1)

	first, err := svc.ProcessChanges(context.Background(), 1, changeReq(0, CurrentData{},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = svc.ProcessChanges(context.Background(), 1, changeReq(first.JustSyncedAt, CurrentData{},
		`{"operation":"EDIT_NOTE","id":`+int64String(note.ID)+`,"labels":[`+int64String(label.ID)+`]}`,
	))
	require.NoError(t, err)

	clock.Advance(time.Second)
	third, err := svc.ProcessChanges(context.Background(), 1, changeReq(first.JustSyncedAt, CurrentData{},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	// A pure label-set edit must still down-sync the note.
	require.Len(t, third.Data.Notes, 1)
	require.Equal(t, note.ID, third.Data.Notes[0].ID)
}

func TestDeletedListsPreserveClientOrder(t *testing.T) {
	svc, db, _ := testHarness(t)
	alive := db.addLabel(1, "alive")

	resp, err := svc.ProcessChanges(context.Background(), 1, changeReq(0,
		CurrentData{Labels: []int64{42, alive.ID, 7}},
		`{"operation":"DELETE_NOTES","ids":[]}`,
	))
	require.NoError(t, err)

	require.Equal(t, []int64{42, 7}, resp.Deleted.Labels)
}
