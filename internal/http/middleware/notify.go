package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/services"
)

// NotifyChanges pushes the descriptors a handler recorded once it has
// written its response. Requests that failed record nothing.
func NotifyChanges(emitter services.ChangeEmitter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if emitter == nil {
			return
		}
		ctx := c.Request.Context()
		ud := ctxutil.GetUpdateData(ctx)
		if ud == nil {
			return
		}
		if len(ud.Descriptors) > 0 {
			emitter.Notify(ctx, ud.Descriptors)
		}
		for _, msg := range ud.Broadcasts {
			emitter.Broadcast(ctx, msg)
		}
	}
}
