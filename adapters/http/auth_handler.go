package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/devconnector/internal/application/usecase/auth"
	"github.com/khoahotran/devconnector/pkg/apperror"
)

type AuthHandler struct {
	loginUseCase       *auth.LoginUseCase
	currentUserUseCase *auth.CurrentUserUseCase
}

func NewAuthHandler(loginUC *auth.LoginUseCase, currentUserUC *auth.CurrentUserUseCase) *AuthHandler {
	return &AuthHandler{
		loginUseCase:       loginUC,
		currentUserUseCase: currentUserUC,
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}

	input := auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Token: output.AccessToken})
}

// CurrentUser returns the authenticated user without the password hash.
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	userID, ok := GetUserIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewUnauthorized("userID not found in context", nil))
		return
	}

	u, err := h.currentUserUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, u)
}
