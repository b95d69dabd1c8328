package services

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/ericman314/pinewood-server/internal/data/repos"
	"github.com/ericman314/pinewood-server/internal/data/repos/testutil"
	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

func TestJWTCodecRoundTripAndExpiry(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	codec, err := NewJWTCodec([]byte("k1"), time.Hour, mock)
	require.NoError(t, err)

	token, err := codec.Sign(domain.Claims{UserID: 9, Username: "judge", Admin: true, EventIDs: "1,2"})
	require.NoError(t, err)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	require.Equal(t, domain.Claims{UserID: 9, Username: "judge", Admin: true, EventIDs: "1,2"}, *claims)

	other, err := NewJWTCodec([]byte("k2"), time.Hour, mock)
	require.NoError(t, err)
	_, err = other.Decode(token)
	require.Error(t, err)

	mock.Add(2 * time.Hour)
	_, err = codec.Decode(token)
	require.Error(t, err)

	_, err = NewJWTCodec(nil, 0, nil)
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	userRepo := repos.NewUserRepo(db, log)
	codec, err := NewJWTCodec([]byte("k"), 0, nil)
	require.NoError(t, err)
	auth := NewAuthService(log, userRepo, codec)
	users := NewUserService(db, log, userRepo)

	admin := domain.BitBool(true)
	d, err := users.Create(ctx, CreateUserInput{Username: "starter", Password: "pa55", Admin: &admin})
	require.NoError(t, err)
	created := d.Data.([]*domain.User)[0]
	require.NotEqual(t, "pa55", created.Password)

	// Legacy rows may still hold a plaintext password.
	_, err = userRepo.Create(ctx, nil, &domain.User{Username: "legacy", Password: "old"})
	require.NoError(t, err)

	token, user, err := auth.Login(ctx, "starter", "pa55")
	require.NoError(t, err)
	require.Equal(t, created.UserID, user.UserID)

	authed, err := auth.SetContextFromToken(ctx, token)
	require.NoError(t, err)
	rd := ctxutil.GetRequestData(authed)
	require.NotNil(t, rd)
	require.True(t, rd.Claims.Admin)
	require.Equal(t, "starter", rd.Claims.Username)

	_, _, err = auth.Login(ctx, "legacy", "old")
	require.NoError(t, err)

	for _, tc := range []struct{ user, pass string }{
		{"starter", "wrong"},
		{"nobody", "pa55"},
		{"", ""},
	} {
		_, _, err = auth.Login(ctx, tc.user, tc.pass)
		require.EqualError(t, err, "Incorrect username or password.", "user=%q", tc.user)
	}

	_, err = auth.SetContextFromToken(ctx, "not-a-token")
	require.True(t, apierr.Is(err, apierr.CodeAccessDenied))
	_, err = auth.SetContextFromToken(ctx, "")
	require.EqualError(t, err, "Access denied")
}

func TestUserUpdateDelete(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	users := NewUserService(db, log, repos.NewUserRepo(db, log))

	u := testutil.SeedUser(t, ctx, db, "timer", false)

	_, err := users.Update(ctx, UpdateUserInput{})
	require.EqualError(t, err, "userId is required")

	events := "4"
	d, err := users.Update(ctx, UpdateUserInput{UserID: &u.UserID, EventIDs: &events})
	require.NoError(t, err)
	require.Equal(t, "4", d.Data.([]*domain.User)[0].EventIDs)

	missing := int64(999)
	_, err = users.Update(ctx, UpdateUserInput{UserID: &missing, EventIDs: &events})
	require.EqualError(t, err, "User not found")

	d, err = users.Delete(ctx, DeleteUserInput{UserID: &u.UserID})
	require.NoError(t, err)
	require.Equal(t, realtime.Deleted(realtime.TableUser, u.UserID), d)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestSecretGuard(t *testing.T) {
	require.NoError(t, NewSecretGuard("abc").Check("abc"))
	require.Error(t, NewSecretGuard("abc").Check("abd"))
	require.Error(t, NewSecretGuard("").Check(""))
	var nilGuard *SecretGuard
	require.Error(t, nilGuard.Check("x"))
}

func TestParseRequiredID(t *testing.T) {
	id, err := ParseRequiredID("eventId", " 42 ")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	_, err = ParseRequiredID("eventId", "")
	require.EqualError(t, err, "eventId is required")
	_, err = ParseRequiredID("eventId", "abc")
	require.EqualError(t, err, "eventId must be a number")
}

func TestHubEmitter(t *testing.T) {
	log := testutil.Logger(t)
	hub := realtime.NewHub(log)
	s := hub.Register("a")
	_, err := hub.Subscribe("a", []realtime.Table{realtime.TableCar})
	require.NoError(t, err)

	var em ChangeEmitter = &HubEmitter{Hub: hub}
	em.Notify(context.Background(), []realtime.ChangeDescriptor{
		realtime.Deleted(realtime.TableEvent, 1),
		realtime.Deleted(realtime.TableCar, 2),
	})
	select {
	case msg := <-s.Outbound:
		require.Equal(t, realtime.EventUpdate, msg.Event)
		require.Equal(t, []realtime.ChangeDescriptor{realtime.Deleted(realtime.TableCar, 2)}, msg.Data)
	case <-time.After(time.Second):
		t.Fatalf("no update delivered")
	}

	em.Broadcast(context.Background(), realtime.Message{Event: realtime.EventNewData})
	select {
	case msg := <-s.Outbound:
		require.Equal(t, realtime.EventNewData, msg.Event)
	case <-time.After(time.Second):
		t.Fatalf("no broadcast delivered")
	}
}
