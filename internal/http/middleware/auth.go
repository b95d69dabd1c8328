package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

var bearerPattern = regexp.MustCompile(`^Bearer (.*)$`)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	middlewareLogger := log.With("middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireUser rejects requests without a valid bearer token.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
	return am.require(false)
}

// RequireAdmin additionally rejects tokens without the admin claim.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return am.require(true)
}

func (am *AuthMiddleware) require(admin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			denied(c)
			return
		}
		rd := ctxutil.GetRequestData(ctx)
		if rd == nil || (admin && !rd.Claims.Admin) {
			am.log.Debug("Admin route refused", "path", c.Request.URL.Path)
			denied(c)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func denied(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusOK, response.ErrorEnvelope{Error: "Access denied"})
}

func extractBearerToken(c *gin.Context) string {
	m := bearerPattern.FindStringSubmatch(c.GetHeader("Authorization"))
	if m == nil {
		return ""
	}
	return m[1]
}
