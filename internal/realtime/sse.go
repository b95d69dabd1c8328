package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// ServeSSE streams the session's messages as Server-Sent Events until the
// request ends or the session is closed. The first frame announces the
// connection id the client needs for POST /subscribe.
func (h *Hub) ServeSSE(w http.ResponseWriter, r *http.Request, s *Session) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	heartbeat := h.clock.Ticker(h.heartbeat)
	defer heartbeat.Stop()

	if err := writeSSE(w, Message{Event: EventConnected, Data: map[string]string{"connectionId": s.ID}}); err != nil {
		s.Logger.Warn("Failed to write SSE greeting", "error", err)
		return
	}
	flusher.Flush()

	for {
		select {
		case <-ctx.Done():
			s.Logger.Debug("SSE client context done", "err", ctx.Err())
			return
		case <-s.done:
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case msg := <-s.Outbound:
			if err := writeSSE(w, msg); err != nil {
				s.Logger.Warn("Failed to write SSE message", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, msg Message) error {
	data := []byte("null")
	if msg.Data != nil {
		raw, err := json.Marshal(msg.Data)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", msg.Event, err)
		}
		data = raw
	}
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, data)
	return err
}
