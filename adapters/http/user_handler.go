package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/internal/application/usecase/auth"
)

type UserHandler struct {
	registerUseCase *auth.RegisterUseCase
}

func NewUserHandler(registerUC *auth.RegisterUseCase) *UserHandler {
	return &UserHandler{registerUseCase: registerUC}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.registerUseCase.Execute(c.Request.Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: output.AccessToken})
}
