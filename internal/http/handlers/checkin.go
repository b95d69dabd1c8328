package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type CheckInHandler struct {
	log            *logger.Logger
	checkInService services.CheckInService
}

func NewCheckInHandler(log *logger.Logger, checkInService services.CheckInService) *CheckInHandler {
	return &CheckInHandler{log: log.With("handler", "CheckInHandler"), checkInService: checkInService}
}

func (ch *CheckInHandler) CheckIn(c *gin.Context) {
	var in services.CheckInInput
	if err := bindLegacy(c, &in); err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	d, err := ch.checkInService.CheckIn(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	respondUpdate(c, d)
}

func (ch *CheckInHandler) MarkAdded(c *gin.Context) {
	var in services.CheckInAddedInput
	if err := bindLegacy(c, &in); err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	d, err := ch.checkInService.MarkAdded(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	respondUpdate(c, d)
}

func (ch *CheckInHandler) List(c *gin.Context) {
	q := services.CheckInQuery{
		Secret:   c.Query("secret"),
		NotAdded: queryBool(c, "notAdded"),
		Recent:   queryBool(c, "recent"),
	}
	rows, err := ch.checkInService.List(c.Request.Context(), q)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	response.RespondOK(c, rows)
}
