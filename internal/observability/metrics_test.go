package observability

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveDelivery("update", true)
	m.AddVotes(3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/v4/event/create", "200", 30*time.Millisecond)
	m.ObserveDelivery("update", true)
	m.ObserveDelivery("update", true)
	m.ObserveDelivery("update", false)
	m.SetSessionSource(func() int { return 4 })

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`pinewood_api_requests_total{method="POST",route="/api/v4/event/create",status="200"} 1`,
		`pinewood_api_request_duration_seconds_bucket{method="POST",route="/api/v4/event/create",le="0.05"} 1`,
		`pinewood_api_request_duration_seconds_bucket{method="POST",route="/api/v4/event/create",le="0.025"} 0`,
		`pinewood_realtime_messages_total{event="update",outcome="delivered"} 2`,
		`pinewood_realtime_messages_total{event="update",outcome="dropped"} 1`,
		`pinewood_realtime_sessions 4`,
		"# TYPE pinewood_api_request_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	want := `{a="x\"y",b="unknown"}`
	if got != want {
		t.Fatalf("labelString: got=%s want=%s", got, want)
	}
}

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" api-key = abc ,broken, x=1,=y")
	if len(got) != 2 || got["api-key"] != "abc" || got["x"] != "1" {
		t.Fatalf("ParseHeaders: got=%v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("ParseHeaders(empty) should be nil")
	}
}

func TestInitOTelDisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), nil, OtelConfig{})
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
