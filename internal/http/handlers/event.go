package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type EventHandler struct {
	log          *logger.Logger
	eventService services.EventService
}

func NewEventHandler(log *logger.Logger, eventService services.EventService) *EventHandler {
	return &EventHandler{log: log.With("handler", "EventHandler"), eventService: eventService}
}

// List accepts showHidden plus dayStart/dayEnd, offsets in days from today.
func (eh *EventHandler) List(c *gin.Context) {
	q := services.EventQuery{ShowHidden: queryBool(c, "showHidden")}
	var err error
	if q.DayStart, err = queryInt(c, "dayStart"); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	if q.DayEnd, err = queryInt(c, "dayEnd"); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	events, err := eh.eventService.List(c.Request.Context(), q)
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, events)
}

func (eh *EventHandler) Get(c *gin.Context) {
	eventID, err := services.ParseRequiredID("eventId", c.Query("eventId"))
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	event, err := eh.eventService.Get(c.Request.Context(), eventID)
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	response.RespondOK(c, event)
}

func (eh *EventHandler) Create(c *gin.Context) {
	var in services.CreateEventInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	d, err := eh.eventService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	respondUpdate(c, d)
}

func (eh *EventHandler) Update(c *gin.Context) {
	var in services.UpdateEventInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	d, err := eh.eventService.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	respondUpdate(c, d)
}

func (eh *EventHandler) Delete(c *gin.Context) {
	var in services.DeleteEventInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	d, err := eh.eventService.Delete(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, eh.log, err)
		return
	}
	respondUpdate(c, d)
}
