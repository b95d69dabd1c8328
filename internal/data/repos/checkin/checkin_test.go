package checkin

import (
	"context"
	"testing"
	"time"

	"github.com/ericman314/pinewood-server/internal/data/repos/testutil"
)

func TestCheckInRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCheckInRepo(db, testutil.Logger(t))

	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	eventID := int64(4)
	old := testutil.SeedCheckIn(t, ctx, tx, "Old", now.AddDate(0, 0, -10), nil)
	added := testutil.SeedCheckIn(t, ctx, tx, "Added", now.Add(-time.Hour), &eventID)
	fresh := testutil.SeedCheckIn(t, ctx, tx, "Fresh", now, nil)

	all, err := repo.List(ctx, tx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 || all[0].CheckInID != fresh.CheckInID || all[2].CheckInID != old.CheckInID {
		t.Fatalf("List: expected newest first, got %+v", all)
	}

	since := now.AddDate(0, 0, -3)
	recentNotAdded, err := repo.List(ctx, tx, ListFilter{NotAdded: true, Since: &since})
	if err != nil {
		t.Fatalf("List(filtered): %v", err)
	}
	if len(recentNotAdded) != 1 || recentNotAdded[0].CheckInID != fresh.CheckInID {
		t.Fatalf("List(filtered): unexpected %+v", recentNotAdded)
	}

	n, err := repo.MarkAdded(ctx, tx, fresh.CheckInID, &eventID)
	if err != nil || n != 1 {
		t.Fatalf("MarkAdded: n=%d err=%v", n, err)
	}
	got, err := repo.GetByIDs(ctx, tx, []string{fresh.CheckInID, added.CheckInID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	for _, ci := range got {
		if ci.AddedToEventID == nil || *ci.AddedToEventID != eventID {
			t.Fatalf("expected %s added to event %d, got %+v", ci.CheckInID, eventID, ci.AddedToEventID)
		}
	}

	if n, err := repo.MarkAdded(ctx, tx, "missing", &eventID); err != nil || n != 0 {
		t.Fatalf("MarkAdded(missing): n=%d err=%v", n, err)
	}

	if err := repo.Delete(ctx, tx, old.CheckInID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got, _ = repo.GetByIDs(ctx, tx, []string{old.CheckInID})
	if len(got) != 0 {
		t.Fatalf("expected check-in deleted")
	}
}
