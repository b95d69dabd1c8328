package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.Hub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.Hub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// SSEStream opens a Server-Sent Events session. An optional comma separated
// tables query subscribes the session before the first frame.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	s := h.open(c)
	defer h.hub.Close(s)
	h.log.Info("SSE session open", "connection_id", s.ID)
	h.hub.ServeSSE(c.Writer, c.Request, s)
	h.log.Info("SSE session closed", "connection_id", s.ID)
}

func (h *RealtimeHandler) WebSocket(c *gin.Context) {
	conn, err := realtime.Upgrade(c.Writer, c.Request)
	if err != nil {
		h.log.Warn("Websocket upgrade failed", "error", err)
		return
	}
	s := h.open(c)
	defer h.hub.Close(s)
	h.log.Info("Websocket session open", "connection_id", s.ID)
	h.hub.ServeWS(conn, s)
	h.log.Info("Websocket session closed", "connection_id", s.ID)
}

func (h *RealtimeHandler) open(c *gin.Context) *realtime.Session {
	s := h.hub.Register("")
	if raw := c.Query("tables"); raw != "" {
		tables, _ := realtime.ParseTables(strings.Split(raw, ","))
		if _, err := h.hub.Subscribe(s.ID, tables); err != nil {
			h.log.Warn("Initial subscribe failed", "connection_id", s.ID, "error", err)
		}
	}
	return s
}

// Subscribe adds tables to a live session's subscription set.
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	var req struct {
		ConnectionID string   `json:"connectionId"`
		Tables       []string `json:"tables"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, h.log, err)
		return
	}
	if strings.TrimSpace(req.ConnectionID) == "" {
		response.RespondError(c, h.log, apierr.Required("connectionId"))
		return
	}
	tables, unknown := realtime.ParseTables(req.Tables)
	if len(unknown) > 0 {
		response.RespondError(c, h.log, apierr.Invalid("Unknown table: "+strings.Join(unknown, ", ")))
		return
	}
	set, err := h.hub.Subscribe(req.ConnectionID, tables)
	if err != nil {
		response.RespondError(c, h.log, apierr.SessionNotFound())
		return
	}
	response.RespondOK(c, gin.H{"connectionId": req.ConnectionID, "tables": set})
}
