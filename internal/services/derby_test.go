package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/data/repos/testutil"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

func ptr[T any](v T) *T { return &v }

func jpegDataURL(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestEventCreateScenario(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewEventService(db, log, repos.NewEventRepo(db, log), nil)
	ctx := context.Background()

	d, err := svc.Create(ctx, CreateEventInput{EventName: "Derby1", Multiplier: ptr(2.0)})
	require.NoError(t, err)
	require.Equal(t, realtime.TableEvent, d.Table)
	require.False(t, d.Deleted)

	rows, ok := d.Data.([]*domain.Event)
	require.True(t, ok, "descriptor data has type %T", d.Data)
	require.Len(t, rows, 1)
	assert.NotZero(t, rows[0].EventID)
	assert.Equal(t, "Derby1", rows[0].EventName)
	assert.Equal(t, 2.0, rows[0].Multiplier)
	assert.False(t, bool(rows[0].Hidden))
	assert.False(t, bool(rows[0].EnableVoting))
}

func TestEventValidationAndNotFound(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewEventService(db, log, repos.NewEventRepo(db, log), nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateEventInput{})
	require.EqualError(t, err, "eventName is required")

	_, err = svc.Update(ctx, UpdateEventInput{EventName: ptr("x")})
	require.EqualError(t, err, "eventId is required")

	_, err = svc.Update(ctx, UpdateEventInput{EventID: ptr(int64(404)), Hidden: ptr(domain.BitBool(true))})
	require.EqualError(t, err, "Event not found")

	_, err = svc.Delete(ctx, DeleteEventInput{EventID: ptr(int64(404))})
	require.True(t, apierr.Is(err, apierr.CodeNotFound))

	_, err = svc.Get(ctx, 404)
	require.EqualError(t, err, "Event not found")
}

func TestEventUpdateAndDelete(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewEventService(db, log, repos.NewEventRepo(db, log), nil)
	ctx := context.Background()

	e := testutil.SeedEvent(t, ctx, db, "Spring", time.Now(), false)

	d, err := svc.Update(ctx, UpdateEventInput{EventID: &e.EventID, EnableVoting: ptr(domain.BitBool(true))})
	require.NoError(t, err)
	rows := d.Data.([]*domain.Event)
	require.True(t, bool(rows[0].EnableVoting))
	require.Equal(t, "Spring", rows[0].EventName)

	d, err = svc.Delete(ctx, DeleteEventInput{EventID: &e.EventID})
	require.NoError(t, err)
	require.True(t, d.Deleted)
	require.Equal(t, realtime.DeletedIDs{IDs: []any{e.EventID}}, d.Data)
}

func TestEventListDayWindow(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 6, 1, 15, 30, 0, 0, time.UTC))
	svc := NewEventService(db, log, repos.NewEventRepo(db, log), mock)
	ctx := context.Background()

	testutil.SeedEvent(t, ctx, db, "Yesterday", time.Date(2026, 5, 31, 18, 0, 0, 0, time.UTC), false)
	today := testutil.SeedEvent(t, ctx, db, "Today", time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC), false)
	testutil.SeedEvent(t, ctx, db, "NextWeek", time.Date(2026, 6, 8, 9, 0, 0, 0, time.UTC), false)

	got, err := svc.List(ctx, EventQuery{DayStart: ptr(0), DayEnd: ptr(1)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, today.EventID, got[0].EventID)

	upcoming, err := svc.List(ctx, EventQuery{DayStart: ptr(0)})
	require.NoError(t, err)
	require.Len(t, upcoming, 2)
}

func TestCarDeleteRequiresID(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewCarService(db, log, repos.NewCarRepo(db, log))
	ctx := context.Background()

	e := testutil.SeedEvent(t, ctx, db, "E", time.Now(), false)
	testutil.SeedCar(t, ctx, db, e.EventID, 1, "Keep")

	_, err := svc.Delete(ctx, DeleteCarInput{})
	require.EqualError(t, err, "carId is required")

	cars, err := svc.ListByEventID(ctx, e.EventID)
	require.NoError(t, err)
	require.Len(t, cars, 1)
}

func TestCarCreateUpdate(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewCarService(db, log, repos.NewCarRepo(db, log))
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateCarInput{CarName: "Orphan"})
	require.EqualError(t, err, "eventId is required")

	e := testutil.SeedEvent(t, ctx, db, "E", time.Now(), false)
	d, err := svc.Create(ctx, CreateCarInput{EventID: &e.EventID, CarNumber: ptr(12), CarName: "Blue Streak", Den: "Wolf"})
	require.NoError(t, err)
	car := d.Data.([]*domain.Car)[0]
	require.Equal(t, 12, car.CarNumber)

	d, err = svc.Update(ctx, UpdateCarInput{CarID: &car.CarID, Owner: ptr("Sam")})
	require.NoError(t, err)
	updated := d.Data.([]*domain.Car)[0]
	require.Equal(t, "Sam", updated.Owner)
	require.Equal(t, "Blue Streak", updated.CarName)
}

func TestCarsAndResults(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewResultService(log, repos.NewCarRepo(db, log), repos.NewResultRepo(db, log), repos.NewAchievementRepo(db, log))
	ctx := context.Background()

	e := testutil.SeedEvent(t, ctx, db, "E", time.Now(), false)
	fast := testutil.SeedCar(t, ctx, db, e.EventID, 1, "Fast")
	plain := testutil.SeedCar(t, ctx, db, e.EventID, 2, "Plain")
	testutil.SeedAchievement(t, ctx, db, fast.CarID, "Fastest")
	testutil.SeedAchievement(t, ctx, db, fast.CarID, "Best Paint")
	testutil.SeedResult(t, ctx, db, e.EventID, fast.CarID, 1, 1, 2.9)

	out, err := svc.CarsAndResults(ctx, e.EventID)
	require.NoError(t, err)
	require.Len(t, out.Cars, 2)
	require.Equal(t, fast.CarID, out.Cars[0].CarID)
	require.NotNil(t, out.Cars[0].AllAchs)
	require.Equal(t, "Best Paint, Fastest", *out.Cars[0].AllAchs)
	require.Equal(t, plain.CarID, out.Cars[1].CarID)
	require.Nil(t, out.Cars[1].AllAchs)
	require.Len(t, out.Results, 1)
}

func TestVoteFiltersBallot(t *testing.T) {
	require.Equal(t, []int64{3, 17}, ParseBallot("3,17,900000000000"))
	require.Nil(t, ParseBallot("1,2,3,4"))
	require.Empty(t, ParseBallot("abc"))
	require.Nil(t, ParseBallot(""))

	db := testutil.DB(t)
	log := testutil.Logger(t)
	voteRepo := repos.NewVoteRepo(db, log)
	svc := NewVoteService(log, voteRepo)
	ctx := context.Background()

	require.Equal(t, 2, svc.Vote(ctx, "3,17,900000000000"))
	require.Equal(t, 1, svc.Vote(ctx, "17"))

	votes, err := voteRepo.GetByCarIDs(ctx, nil, []int64{3, 17, 900000000000})
	require.NoError(t, err)
	tally := map[int64]int{}
	for _, v := range votes {
		tally[v.CarID] = v.Votes
	}
	require.Equal(t, map[int64]int{3: 1, 17: 2}, tally)
}

func TestCheckInFlow(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC))
	media := localmedia.New(log, t.TempDir())
	repo := repos.NewCheckInRepo(db, log)
	svc := NewCheckInService(log, repo, media, NewSecretGuard("s3cret"), mock)
	ctx := context.Background()

	_, err := svc.CheckIn(ctx, CheckInInput{Photo: jpegDataURL(t, 10, 10)})
	require.EqualError(t, err, "name is required")
	_, err = svc.CheckIn(ctx, CheckInInput{Name: "Rocket", Photo: "data:image/png;base64,AAAA"})
	require.True(t, apierr.Is(err, apierr.CodeValidation))

	d, err := svc.CheckIn(ctx, CheckInInput{Name: "Rocket", Nickname: "Ro", Den: "Bear", Photo: jpegDataURL(t, 800, 800)})
	require.NoError(t, err)
	require.Equal(t, realtime.TableCheckIn, d.Table)
	ci := d.Data.([]*domain.CheckIn)[0]
	require.Equal(t, "Rocket", ci.CarName)

	exists, err := media.Exists(ctx, localmedia.KindCheckIn, ci.CheckInID)
	require.NoError(t, err)
	require.True(t, exists)

	testutil.SeedCheckIn(t, ctx, db, "Stale", mock.Now().AddDate(0, 0, -6), nil)

	_, err = svc.List(ctx, CheckInQuery{Secret: "wrong"})
	require.EqualError(t, err, "Incorrect secret")

	recent, err := svc.List(ctx, CheckInQuery{Secret: "s3cret", NotAdded: true, Recent: true})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, ci.CheckInID, recent[0].CheckInID)

	d, err = svc.MarkAdded(ctx, CheckInAddedInput{CheckInID: ci.CheckInID, EventID: ptr(int64(5))})
	require.NoError(t, err)
	require.Equal(t, int64(5), *d.Data.([]*domain.CheckIn)[0].AddedToEventID)

	recent, err = svc.List(ctx, CheckInQuery{Secret: "s3cret", NotAdded: true, Recent: true})
	require.NoError(t, err)
	require.Empty(t, recent)

	_, err = svc.MarkAdded(ctx, CheckInAddedInput{CheckInID: "nope", EventID: ptr(int64(5))})
	require.EqualError(t, err, "Check-in not found")
}

func TestCarImageUpload(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	media := localmedia.New(log, t.TempDir())
	svc := NewCarImageService(log, repos.NewCarRepo(db, log), media, NewSecretGuard("s3cret"))

	e := testutil.SeedEvent(t, ctx, db, "E", time.Now(), false)
	car := testutil.SeedCar(t, ctx, db, e.EventID, 1, "Shiny")
	id := func() string { return int64String(car.CarID) }

	_, err := svc.Upload(ctx, CarImageInput{Secret: "bad", ID: id()})
	require.True(t, apierr.Is(err, apierr.CodeSecretMismatch))

	_, err = svc.Upload(ctx, CarImageInput{Secret: "s3cret", ID: "x1"})
	require.EqualError(t, err, "Invalid Id")

	res, err := svc.Upload(ctx, CarImageInput{Secret: "s3cret", ID: id()})
	require.NoError(t, err)
	require.Equal(t, ImageDoesNotExist, res.Result)

	res, err = svc.Upload(ctx, CarImageInput{Secret: "s3cret", ID: id(), ImageData: jpegDataURL(t, 4, 4)})
	require.NoError(t, err)
	require.Equal(t, ImageReceived, res.Result)
	require.Len(t, res.Update, 1)
	require.Equal(t, 1, res.Update[0].Data.([]*domain.Car)[0].ImageVersion)

	res, err = svc.Upload(ctx, CarImageInput{Secret: "s3cret", ID: id()})
	require.NoError(t, err)
	require.Equal(t, ImageExists, res.Result)

	path, err := svc.Path(localmedia.KindCar, id())
	require.NoError(t, err)
	require.Contains(t, path, id()+".jpg")
}

func TestDataLoad(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewDataLoadService(db, log, NewSecretGuard("s3cret"))
	ctx := context.Background()

	require.EqualError(t, svc.Load(ctx, DataLoadInput{Secret: "nope", SQL: "SELECT 1"}), "Incorrect secret")
	require.EqualError(t, svc.Load(ctx, DataLoadInput{Secret: "s3cret"}), "sql is required")

	err := svc.Load(ctx, DataLoadInput{Secret: "s3cret", SQL: `INSERT INTO "Events" ("eventName", "multiplier", "hidden", "enableVoting") VALUES ('Loaded', 1, 0, 0); INSERT INTO "Events" ("eventName", "multiplier", "hidden", "enableVoting") VALUES ('Loaded2', 1, 0, 0);`})
	require.NoError(t, err)

	var n int64
	require.NoError(t, db.Model(&domain.Event{}).Count(&n).Error)
	require.Equal(t, int64(2), n)

	err = svc.Load(ctx, DataLoadInput{Secret: "s3cret", SQL: "NOT SQL"})
	require.True(t, apierr.Is(err, apierr.CodeStore))
}

func TestUpdateWithoutFieldsIsRejected(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	e := testutil.SeedEvent(t, ctx, db, "Fall", time.Now(), false)
	car := testutil.SeedCar(t, ctx, db, e.EventID, 3, "Zoom")
	u := testutil.SeedUser(t, ctx, db, "starter", false)

	events := NewEventService(db, log, repos.NewEventRepo(db, log), nil)
	cars := NewCarService(db, log, repos.NewCarRepo(db, log))
	users := NewUserService(db, log, repos.NewUserRepo(db, log))

	_, err := events.Update(ctx, UpdateEventInput{EventID: &e.EventID})
	require.EqualError(t, err, "Nothing to update")
	require.True(t, apierr.Is(err, apierr.CodeValidation))

	_, err = cars.Update(ctx, UpdateCarInput{CarID: &car.CarID})
	require.EqualError(t, err, "Nothing to update")

	_, err = users.Update(ctx, UpdateUserInput{UserID: &u.UserID})
	require.EqualError(t, err, "Nothing to update")
}

func TestEventDateAcceptsCalendarDates(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewEventService(db, log, repos.NewEventRepo(db, log), nil)
	ctx := context.Background()

	day, err := ParseDate("2026-05-01")
	require.NoError(t, err)
	d, err := svc.Create(ctx, CreateEventInput{EventName: "May", EventDate: &day})
	require.NoError(t, err)
	created := d.Data.([]*domain.Event)[0]
	require.NotNil(t, created.EventDate)
	require.Equal(t, "2026-05-01", created.EventDate.UTC().Format("2006-01-02"))

	moved, err := ParseDate("2026-06-13T18:30:00Z")
	require.NoError(t, err)
	d, err = svc.Update(ctx, UpdateEventInput{EventID: &created.EventID, EventDate: &moved})
	require.NoError(t, err)
	require.Equal(t, "2026-06-13", d.Data.([]*domain.Event)[0].EventDate.UTC().Format("2006-01-02"))
}
