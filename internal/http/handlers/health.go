package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/realtime"
)

type HealthHandler struct {
	hub *realtime.Hub
}

func NewHealthHandler(hub *realtime.Hub) *HealthHandler { return &HealthHandler{hub: hub} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// Sessions lists the live realtime sessions and their subscriptions.
func (h *HealthHandler) Sessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Sessions())
}
