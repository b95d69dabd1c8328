package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ericman314/pinewood-server/internal/domain"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/realtime/bus"
	"github.com/ericman314/pinewood-server/internal/services"
)

type stubAuth struct {
	claims map[string]domain.Claims
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	return "", nil, apierr.InvalidLogin()
}

func (s *stubAuth) SetContextFromToken(ctx context.Context, token string) (context.Context, error) {
	claims, ok := s.claims[token]
	if !ok {
		return ctx, apierr.AccessDenied()
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{TokenString: token, Claims: claims}), nil
}

type recordingEmitter struct {
	notified   [][]realtime.ChangeDescriptor
	broadcasts []realtime.Message
}

func (e *recordingEmitter) Notify(ctx context.Context, d []realtime.ChangeDescriptor) {
	e.notified = append(e.notified, d)
}

func (e *recordingEmitter) Broadcast(ctx context.Context, msg realtime.Message) {
	e.broadcasts = append(e.broadcasts, msg)
}

func newTestAuth(t *testing.T) *AuthMiddleware {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return NewAuthMiddleware(log, &stubAuth{claims: map[string]domain.Claims{
		"admin-token": {UserID: 1, Username: "boss", Admin: true},
		"user-token":  {UserID: 2, Username: "timer"},
	}})
}

func TestAuthGuards(t *testing.T) {
	gin.SetMode(gin.TestMode)
	am := newTestAuth(t)

	r := gin.New()
	r.GET("/user", am.RequireUser(), func(c *gin.Context) {
		rd := ctxutil.GetRequestData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user": rd.Claims.Username})
	})
	r.GET("/admin", am.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	cases := []struct {
		path   string
		header string
		want   string
	}{
		{"/user", "", `{"error":"Access denied"}`},
		{"/user", "Token user-token", `{"error":"Access denied"}`},
		{"/user", "Bearer nope", `{"error":"Access denied"}`},
		{"/user", "Bearer user-token", `{"user":"timer"}`},
		{"/admin", "Bearer user-token", `{"error":"Access denied"}`},
		{"/admin", "Bearer admin-token", `{"ok":true}`},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "%s %q", tc.path, tc.header)
		require.JSONEq(t, tc.want, rec.Body.String(), "%s %q", tc.path, tc.header)
	}
}

func TestNotifyChangesFlushesAfterHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	em := &recordingEmitter{}

	r := gin.New()
	r.Use(AttachRequestContext(), NotifyChanges(em))
	r.POST("/write", func(c *gin.Context) {
		ud := ctxutil.GetUpdateData(c.Request.Context())
		ud.Append(realtime.Deleted(realtime.TableCar, 3))
		ud.AppendBroadcast(realtime.Message{Event: realtime.EventNewData})
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.POST("/fail", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"error": "carId is required"})
	})

	for _, path := range []string{"/fail", "/write"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, em.notified, 1)
	require.Equal(t, []realtime.ChangeDescriptor{realtime.Deleted(realtime.TableCar, 3)}, em.notified[0])
	require.Len(t, em.broadcasts, 1)
	require.Equal(t, realtime.EventNewData, em.broadcasts[0].Event)
}

func TestAttachTraceContextEchoesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/", func(c *gin.Context) {
		td := ctxutil.GetTraceData(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"requestId": td.RequestID, "traceId": td.TraceID})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "req-1", body["requestId"])
	require.NotEmpty(t, body["traceId"])
	require.Equal(t, "req-1", rec.Header().Get(headerRequestID))
	require.Equal(t, body["traceId"], rec.Header().Get(headerTraceID))
}

// blockingBus holds every Publish until release is closed.
type blockingBus struct {
	release   chan struct{}
	started   chan struct{}
	published chan bus.Envelope
}

func (b *blockingBus) Publish(ctx context.Context, env bus.Envelope) error {
	b.started <- struct{}{}
	<-b.release
	b.published <- env
	return nil
}

func (b *blockingBus) StartForwarder(ctx context.Context, onMsg func(env bus.Envelope)) error {
	return nil
}

func (b *blockingBus) Close() error { return nil }

func TestNotifyChangesDoesNotWaitForBus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	require.NoError(t, err)

	bb := &blockingBus{
		release:   make(chan struct{}),
		started:   make(chan struct{}, 1),
		published: make(chan bus.Envelope, 1),
	}
	em := services.NewBusEmitter(log, bb, 4)

	r := gin.New()
	r.Use(AttachRequestContext(), NotifyChanges(em))
	r.POST("/write", func(c *gin.Context) {
		ctxutil.GetUpdateData(c.Request.Context()).Append(realtime.Deleted(realtime.TableCar, 3))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	served := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/write", nil))
		served <- rec
	}()

	select {
	case rec := <-served:
		require.Equal(t, http.StatusOK, rec.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("response waited on the bus publish")
	}

	select {
	case <-bb.started:
	case <-time.After(2 * time.Second):
		t.Fatal("publish never started")
	}
	close(bb.release)
	em.Close()

	env := <-bb.published
	require.Equal(t, []realtime.ChangeDescriptor{realtime.Deleted(realtime.TableCar, 3)}, env.Descriptors)
}
