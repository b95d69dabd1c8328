package realtime

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	wsWriteWait      = 10 * time.Second
	wsMaxInboundSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Upgrade switches an HTTP request to a WebSocket connection.
func Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

// inbound is a client frame; only subscribe is understood.
type inbound struct {
	Type   string   `json:"type"`
	Tables []string `json:"tables"`
}

// ServeWS pumps the session's messages to conn as JSON frames until either
// side goes away. Clients may subscribe in-band with
// {"type":"subscribe","tables":[...]}.
func (h *Hub) ServeWS(conn *websocket.Conn, s *Session) {
	defer conn.Close()

	go h.readWS(conn, s)

	heartbeat := h.clock.Ticker(h.heartbeat)
	defer heartbeat.Stop()

	if err := writeWS(conn, Message{Event: EventConnected, Data: map[string]string{"connectionId": s.ID}}); err != nil {
		s.Logger.Warn("Failed to write websocket greeting", "error", err)
		return
	}
	for {
		select {
		case <-s.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(wsWriteWait))
			return
		case <-heartbeat.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				s.Logger.Debug("Websocket ping failed", "error", err)
				h.Close(s)
				return
			}
		case msg := <-s.Outbound:
			if err := writeWS(conn, msg); err != nil {
				s.Logger.Warn("Failed to write websocket message", "error", err)
				h.Close(s)
				return
			}
		}
	}
}

func (h *Hub) readWS(conn *websocket.Conn, s *Session) {
	defer h.Close(s)
	conn.SetReadLimit(wsMaxInboundSize)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.Logger.Debug("Websocket closed unexpectedly", "error", err)
			}
			return
		}
		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			s.Logger.Debug("Ignoring malformed websocket frame", "error", err)
			continue
		}
		if in.Type != "subscribe" {
			continue
		}
		tables, unknown := ParseTables(in.Tables)
		if len(unknown) > 0 {
			s.Logger.Debug("Ignoring unknown tables", "tables", unknown)
		}
		set, err := h.Subscribe(s.ID, tables)
		if err != nil {
			return
		}
		_ = h.Send(s.ID, Message{Event: EventSubscribed, Data: map[string]any{"tables": set}})
	}
}

func writeWS(conn *websocket.Conn, msg Message) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(msg)
}
