package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/app"
)

// AuthHandler issues and revokes tokens.
type AuthHandler struct {
	auth *app.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *app.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login handles POST /api/auth/token/login
//
// @Summary Obtain a token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /api/auth/token/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{AuthToken: token})
}

// Logout handles POST /api/auth/token/logout
// The token the request was authenticated with stops working.
//
// @Summary Revoke the current token
// @Tags auth
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/token/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	err := h.auth.Logout(c.Request.Context(), middleware.GetRequestContext(c), middleware.GetToken(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
