package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
	"github.com/ericman314/pinewood-server/internal/services"
)

type DataLoadHandler struct {
	log             *logger.Logger
	dataLoadService services.DataLoadService
}

func NewDataLoadHandler(log *logger.Logger, dataLoadService services.DataLoadService) *DataLoadHandler {
	return &DataLoadHandler{log: log.With("handler", "DataLoadHandler"), dataLoadService: dataLoadService}
}

// Load replays a SQL dump and tells every connected client to refetch.
func (dh *DataLoadHandler) Load(c *gin.Context) {
	var in services.DataLoadInput
	if err := bindLegacy(c, &in); err != nil {
		response.RespondError(c, dh.log, err)
		return
	}
	if err := dh.dataLoadService.Load(c.Request.Context(), in); err != nil {
		response.RespondError(c, dh.log, err)
		return
	}
	if ud := ctxutil.GetUpdateData(c.Request.Context()); ud != nil {
		ud.AppendBroadcast(realtime.Message{Event: realtime.EventNewData})
	}
	response.RespondOK(c, gin.H{"ok": true})
}
