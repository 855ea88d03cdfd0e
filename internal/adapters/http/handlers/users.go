package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/app"
)

// UserHandler serves registration, profiles and password changes.
type UserHandler struct {
	users *app.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(users *app.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// Register handles POST /api/users
//
// @Summary Register a user
// @Tags users
// @Accept json
// @Produce json
// @Param body body dto.RegisterRequest true "New user"
// @Success 201 {object} dto.CreatedUserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/users [post]
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	user, err := h.users.Register(c.Request.Context(), middleware.GetRequestContext(c), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewCreatedUserResponse(user))
}

// List handles GET /api/users
//
// @Summary List users
// @Tags users
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} dto.Paginated[dto.UserResponse]
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	rc := middleware.GetRequestContext(c)

	page, err := h.users.List(c.Request.Context(), rc)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginated(c, rc.Page(), page.Total, dto.NewProfileResponses(page.Items)))
}

// Get handles GET /api/users/:id
//
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, err := pathID(c, "user")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	profile, err := h.users.Get(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// Me handles GET /api/users/me
//
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.users.Me(c.Request.Context(), middleware.GetRequestContext(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewProfileResponse(profile))
}

// SetPassword handles POST /api/users/set_password
//
// @Summary Change the caller's password
// @Tags users
// @Accept json
// @Param body body dto.SetPasswordRequest true "Passwords"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/users/set_password [post]
func (h *UserHandler) SetPassword(c *gin.Context) {
	var req dto.SetPasswordRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	err := h.users.SetPassword(c.Request.Context(), middleware.GetRequestContext(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
