package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/realtime"
)

var errBadBody = apierr.Invalid("Invalid request body")

// bindError maps a binding failure to the caller-visible error. An empty
// body is not a failure; the service reports the missing field by name.
func bindError(err error) error {
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierr.TooLarge()
	}
	var invalid *apierr.Error
	if errors.As(err, &invalid) {
		return invalid
	}
	return errBadBody
}

// bindJSON decodes the request body into dst. An empty body leaves dst zero
// so the service reports the missing field by name.
func bindJSON(c *gin.Context, dst any) error {
	return bindError(c.ShouldBindJSON(dst))
}

// bindLegacy accepts JSON or form-encoded bodies, as the older kiosk and
// race-day clients send either.
func bindLegacy(c *gin.Context, dst any) error {
	return bindError(c.ShouldBind(dst))
}

// respondUpdate replies with the descriptors and queues them for push once
// the handler returns.
func respondUpdate(c *gin.Context, descriptors ...realtime.ChangeDescriptor) {
	if ud := ctxutil.GetUpdateData(c.Request.Context()); ud != nil {
		ud.Append(descriptors...)
	}
	response.RespondUpdate(c, descriptors...)
}

// respondUpdateWith is respondUpdate for routes whose reply has its own shape.
func respondUpdateWith(c *gin.Context, payload any, descriptors []realtime.ChangeDescriptor) {
	if ud := ctxutil.GetUpdateData(c.Request.Context()); ud != nil {
		ud.Append(descriptors...)
	}
	response.RespondOK(c, payload)
}

func queryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}

func queryInt(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierr.Invalid(name + " must be a number")
	}
	return &v, nil
}
