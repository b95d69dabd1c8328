package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ericman314/pinewood-server/internal/http/response"
	"github.com/ericman314/pinewood-server/internal/platform/logger"
	"github.com/ericman314/pinewood-server/internal/services"
)

type UserHandler struct {
	log         *logger.Logger
	userService services.UserService
}

func NewUserHandler(log *logger.Logger, userService services.UserService) *UserHandler {
	return &UserHandler{log: log.With("handler", "UserHandler"), userService: userService}
}

func (uh *UserHandler) List(c *gin.Context) {
	users, err := uh.userService.List(c.Request.Context())
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	response.RespondOK(c, users)
}

func (uh *UserHandler) Create(c *gin.Context) {
	var in services.CreateUserInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	d, err := uh.userService.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	respondUpdate(c, d)
}

func (uh *UserHandler) Update(c *gin.Context) {
	var in services.UpdateUserInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	d, err := uh.userService.Update(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	respondUpdate(c, d)
}

func (uh *UserHandler) Delete(c *gin.Context) {
	var in services.DeleteUserInput
	if err := bindJSON(c, &in); err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	d, err := uh.userService.Delete(c.Request.Context(), in)
	if err != nil {
		response.RespondError(c, uh.log, err)
		return
	}
	respondUpdate(c, d)
}
