package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/apierr"
	"github.com/ericman314/pinewood-server/internal/platform/ctxutil"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type AuthHandler struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), authService: authService}
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := bindJSON(c, &req); err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	token, user, err := ah.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		response.RespondError(c, ah.log, err)
		return
	}
	response.RespondOK(c, gin.H{"token": token, "user": user})
}

// Verify echoes the claims of the bearer token.
func (ah *AuthHandler) Verify(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, ah.log, apierr.AccessDenied())
		return
	}
	response.RespondOK(c, gin.H{"user": rd.Claims})
}
