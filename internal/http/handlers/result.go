package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type ResultHandler struct {
	log           *logger.Logger
	resultService services.ResultService
}

func NewResultHandler(log *logger.Logger, resultService services.ResultService) *ResultHandler {
	return &ResultHandler{log: log.With("handler", "ResultHandler"), resultService: resultService}
}

func (rh *ResultHandler) GetByEventID(c *gin.Context) {
	eventID, err := services.ParseRequiredID("eventId", c.Query("eventId"))
	if err != nil {
		response.RespondError(c, rh.log, err)
		return
	}
	results, err := rh.resultService.ListByEventID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, rh.log, err)
		return
	}
	response.RespondOK(c, results)
}

func (rh *ResultHandler) CarsAndResults(c *gin.Context) {
	eventID, err := services.ParseRequiredID("eventId", c.Query("eventId"))
	if err != nil {
		response.RespondError(c, rh.log, err)
		return
	}
	out, err := rh.resultService.CarsAndResults(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, rh.log, err)
		return
	}
	response.RespondOK(c, out)
}
