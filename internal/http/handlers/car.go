package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type CarHandler struct {
	log        *logger.Logger
	carService services.CarService
}

func NewCarHandler(log *logger.Logger, carService services.CarService) *CarHandler {
	return &CarHandler{log: log.With("handler", "CarHandler"), carService: carService}
}

func (ch *CarHandler) GetByEventID(c *gin.Context) {
	eventID, err := services.ParseRequiredID("eventId", c.Query("eventId"))
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	cars, err := ch.carService.ListByEventID(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	response.RespondOK(c, cars)
}

func (ch *CarHandler) Create(c *gin.Context) {
	var in services.CreateCarInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	d, err := ch.carService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	respondUpdate(c, d)
}

func (ch *CarHandler) Update(c *gin.Context) {
	var in services.UpdateCarInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	d, err := ch.carService.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	respondUpdate(c, d)
}

func (ch *CarHandler) Delete(c *gin.Context) {
	var in services.DeleteCarInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	d, err := ch.carService.Delete(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, ch.log, err)
		return
	}
	respondUpdate(c, d)
}
