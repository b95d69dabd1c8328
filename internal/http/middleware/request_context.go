package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
)

func AttachRequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		ctx = ctxutil.WithUpdateData(ctx)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
