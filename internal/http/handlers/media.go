package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/localmedia"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type MediaHandler struct {
	log             *logger.Logger
	carImageService services.CarImageService
}

func NewMediaHandler(log *logger.Logger, carImageService services.CarImageService) *MediaHandler {
	return &MediaHandler{log: log.With("handler", "MediaHandler"), carImageService: carImageService}
}

// UploadCarImage stores a car photo, or with no imageData reports whether
// one exists. A wrong secret is refused with 403.
func (mh *MediaHandler) UploadCarImage(c *gin.Context) {
	var in services.CarImageInput
	if err := bindLegacy(c, &in); err != nil {
		response.RespondError(c, mh.log, err)
		return
	}
	out, err := mh.carImageService.Upload(c.Request.Context(), in)
	if apierr.Is(err, apierr.CodeSecretMismatch) {
		mh.log.Warn("Car image upload refused")
		response.RespondError(c, mh.log, apierr.New(http.StatusForbidden, apierr.CodeSecretMismatch, err))
		return
	}
	if err != nil {
		response.RespondError(c, mh.log, err)
		return
	}
	if len(out.Update) > 0 {
		respondUpdateWith(c, gin.H{"result": out.Result, "update": out.Update}, out.Update)
		return
	}
	response.RespondOK(c, gin.H{"result": out.Result})
}

func (mh *MediaHandler) CarImage(c *gin.Context) {
	mh.serve(c, localmedia.KindCar)
}

func (mh *MediaHandler) CheckInImage(c *gin.Context) {
	mh.serve(c, localmedia.KindCheckIn)
}

func (mh *MediaHandler) serve(c *gin.Context, kind localmedia.Kind) {
	id, ok := strings.CutSuffix(c.Param("file"), ".jpg")
	if !ok {
		response.RespondNotFound(c)
		return
	}
	path, err := mh.carImageService.Path(kind, id)
	if err != nil {
		response.RespondNotFound(c)
		return
	}
	c.Header("Cache-Control", "no-cache")
	c.File(path)
}
