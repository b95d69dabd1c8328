package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

type ErrorEnvelope struct {
	Error string `json:"error"`
}

// UpdateEnvelope is the reply to every successful write.
type UpdateEnvelope struct {
	Success bool                        `json:"success"`
	Update  []realtime.ChangeDescriptor `json:"update"`
}

// RespondError writes the {error} envelope for err. Domain errors carry their
// own status; anything else is reported as an unexpected failure.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
	status := http.StatusOK
	msg := "An unexpected error occurred."
	var ae *apierr.Error
	if errors.As(err, &ae) {
		if ae.Status != 0 {
			status = ae.Status
		}
		msg = ae.Error()
	}
	if log != nil {
		switch code := apierr.CodeOf(err); code {
		case apierr.CodeStore, apierr.CodeInternal:
			log.Error("Request failed", "path", c.Request.URL.Path, "code", code, "error", err)
		default:
			log.Debug("Request rejected", "path", c.Request.URL.Path, "code", code, "error", err)
		}
	}
	c.JSON(status, ErrorEnvelope{Error: msg})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondUpdate(c *gin.Context, descriptors ...realtime.ChangeDescriptor) {
	if descriptors == nil {
		descriptors = []realtime.ChangeDescriptor{}
	}
	c.JSON(http.StatusOK, UpdateEnvelope{Success: true, Update: descriptors})
}

func RespondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, ErrorEnvelope{Error: "Not found"})
}
