package realtime

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

type sseFrame struct {
	event string
	data  string
	ping  bool
}

func readSSEFrame(t *testing.T, r *bufio.Reader) sseFrame {
	t.Helper()
	var f sseFrame
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("read sse: %v", err)
		}
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if f.event != "" || f.ping {
				return f
			}
		case strings.HasPrefix(line, ":"):
			f.ping = true
		case strings.HasPrefix(line, "event: "):
			f.event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			f.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestServeSSEStreamsGreetingUpdatesAndHeartbeat(t *testing.T) {
	mock := clock.NewMock()
	hub := NewHub(mustTestLogger(t), WithClock(mock), WithHeartbeat(5*time.Second))
	s := hub.Register("sse-1")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer hub.Close(s)
		hub.ServeSSE(w, r, s)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type %q", ct)
	}
	reader := bufio.NewReader(resp.Body)

	greeting := readSSEFrame(t, reader)
	if greeting.event != string(EventConnected) || greeting.data != `{"connectionId":"sse-1"}` {
		t.Fatalf("unexpected greeting %+v", greeting)
	}

	if _, err := hub.Subscribe(s.ID, []Table{TableEvent}); err != nil {
		t.Fatal(err)
	}
	hub.Notify([]ChangeDescriptor{Rows(TableEvent, []map[string]any{{"eventId": 1}})})
	update := readSSEFrame(t, reader)
	if update.event != string(EventUpdate) || update.data != `[{"table":"event","data":[{"eventId":1}]}]` {
		t.Fatalf("unexpected update %+v", update)
	}

	mock.Add(5 * time.Second)
	if ping := readSSEFrame(t, reader); !ping.ping {
		t.Fatalf("expected heartbeat comment, got %+v", ping)
	}
}

func TestServeSSEEndsWhenSessionUnregistered(t *testing.T) {
	hub := NewHub(mustTestLogger(t))
	s := hub.Register("")

	done := make(chan struct{})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/realtime/sse", nil)
	go func() {
		hub.ServeSSE(rec, req, s)
		close(done)
	}()

	hub.Unregister(s.ID)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("stream did not stop after unregister")
	}
	if !strings.Contains(rec.Body.String(), "event: connected") {
		t.Fatalf("greeting missing: %q", rec.Body.String())
	}
}
