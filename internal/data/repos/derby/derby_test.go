package derby

import (
	"context"
	"testing"
	"time"

	"github.com/ericman314/pinewood-server/internal/data/repos/testutil"
)

func TestEventRepoListFilters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewEventRepo(db, testutil.Logger(t))

	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := testutil.SeedEvent(t, ctx, tx, "Past", base.AddDate(0, 0, -5), false)
	soon := testutil.SeedEvent(t, ctx, tx, "Soon", base.AddDate(0, 0, 2), false)
	hidden := testutil.SeedEvent(t, ctx, tx, "Hidden", base.AddDate(0, 0, 1), true)

	visible, err := repo.List(ctx, tx, EventFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(visible) != 2 || visible[0].EventID != soon.EventID || visible[1].EventID != past.EventID {
		t.Fatalf("List: expected visible events newest first, got %+v", visible)
	}

	all, err := repo.List(ctx, tx, EventFilter{ShowHidden: true})
	if err != nil {
		t.Fatalf("List(showHidden): %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("List(showHidden): expected 3, got %d", len(all))
	}

	from := base
	until := base.AddDate(0, 0, 2)
	window, err := repo.List(ctx, tx, EventFilter{ShowHidden: true, From: &from, Until: &until})
	if err != nil {
		t.Fatalf("List(window): %v", err)
	}
	if len(window) != 1 || window[0].EventID != hidden.EventID {
		t.Fatalf("List(window): unexpected %+v", window)
	}
}

func TestEventRepoCRUD(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewEventRepo(db, testutil.Logger(t))

	e := testutil.SeedEvent(t, ctx, tx, "Derby1", time.Now(), false)

	n, err := repo.Update(ctx, tx, e.EventID, map[string]any{"multiplier": 2.5, "enableVoting": true})
	if err != nil || n != 1 {
		t.Fatalf("Update: n=%d err=%v", n, err)
	}
	got, err := repo.GetByIDs(ctx, tx, []int64{e.EventID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].Multiplier != 2.5 || !bool(got[0].EnableVoting) || bool(got[0].Hidden) {
		t.Fatalf("GetByIDs: unexpected %+v", got)
	}

	n, err = repo.Delete(ctx, tx, e.EventID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: n=%d err=%v", n, err)
	}
	got, _ = repo.GetByIDs(ctx, tx, []int64{e.EventID})
	if len(got) != 0 {
		t.Fatalf("expected event gone, got %+v", got)
	}
}

func TestCarRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewCarRepo(db, testutil.Logger(t))

	e := testutil.SeedEvent(t, ctx, tx, "Cars", time.Now(), false)
	other := testutil.SeedEvent(t, ctx, tx, "Other", time.Now(), false)
	a := testutil.SeedCar(t, ctx, tx, e.EventID, 1, "Alpha")
	b := testutil.SeedCar(t, ctx, tx, e.EventID, 2, "Bravo")
	testutil.SeedCar(t, ctx, tx, other.EventID, 1, "Elsewhere")

	cars, err := repo.ListByEventID(ctx, tx, e.EventID)
	if err != nil {
		t.Fatalf("ListByEventID: %v", err)
	}
	if len(cars) != 2 || cars[0].CarID != a.CarID || cars[1].CarID != b.CarID {
		t.Fatalf("ListByEventID: unexpected %+v", cars)
	}

	for i := 0; i < 2; i++ {
		if n, err := repo.BumpImageVersion(ctx, tx, a.CarID); err != nil || n != 1 {
			t.Fatalf("BumpImageVersion: n=%d err=%v", n, err)
		}
	}
	got, err := repo.GetByIDs(ctx, tx, []int64{a.CarID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if got[0].ImageVersion != 2 {
		t.Fatalf("imageVersion: want=2 got=%d", got[0].ImageVersion)
	}

	if n, err := repo.BumpImageVersion(ctx, tx, 999999); err != nil || n != 0 {
		t.Fatalf("BumpImageVersion(missing): n=%d err=%v", n, err)
	}
}

func TestResultAndAchievementRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	e := testutil.SeedEvent(t, ctx, tx, "Race", time.Now(), false)
	car := testutil.SeedCar(t, ctx, tx, e.EventID, 7, "Zoom")
	testutil.SeedResult(t, ctx, tx, e.EventID, car.CarID, 2, 1, 3.1)
	testutil.SeedResult(t, ctx, tx, e.EventID, car.CarID, 1, 3, 3.4)
	testutil.SeedAchievement(t, ctx, tx, car.CarID, "Fastest")
	testutil.SeedAchievement(t, ctx, tx, car.CarID, "Best Paint")

	results, err := NewResultRepo(db, log).ListByEventID(ctx, tx, e.EventID)
	if err != nil {
		t.Fatalf("ListByEventID: %v", err)
	}
	if len(results) != 2 || results[0].HeatNumber != 1 {
		t.Fatalf("results: unexpected order %+v", results)
	}

	achs, err := NewAchievementRepo(db, log).ListByCarIDs(ctx, tx, []int64{car.CarID})
	if err != nil {
		t.Fatalf("ListByCarIDs: %v", err)
	}
	if len(achs) != 2 || achs[0].Achievement != "Best Paint" {
		t.Fatalf("achievements: unexpected %+v", achs)
	}
}

func TestVoteRepoIncrement(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewVoteRepo(db, testutil.Logger(t))

	for i := 0; i < 3; i++ {
		if err := repo.Increment(ctx, nil, 17); err != nil {
			t.Fatalf("Increment: %v", err)
		}
	}
	if err := repo.Increment(ctx, nil, 3); err != nil {
		t.Fatalf("Increment: %v", err)
	}

	votes, err := repo.GetByCarIDs(ctx, nil, []int64{3, 17})
	if err != nil {
		t.Fatalf("GetByCarIDs: %v", err)
	}
	tally := map[int64]int{}
	for _, v := range votes {
		tally[v.CarID] = v.Votes
	}
	if tally[17] != 3 || tally[3] != 1 {
		t.Fatalf("tally: unexpected %v", tally)
	}
}
