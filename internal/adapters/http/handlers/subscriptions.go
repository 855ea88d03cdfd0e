package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/app"
)

// SubscriptionHandler serves the follow graph between users.
type SubscriptionHandler struct {
	subscriptions *app.SubscriptionService
	imageURL      ImageURLFunc
}

// NewSubscriptionHandler creates a new subscription handler.
func NewSubscriptionHandler(subscriptions *app.SubscriptionService, imageURL ImageURLFunc) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions, imageURL: imageURL}
}

// Subscribe handles POST /api/users/:id/subscribe
//
// @Summary Subscribe to an author
// @Tags subscriptions
// @Produce json
// @Param id path int true "Author ID"
// @Param recipes_limit query int false "Recipes per author"
// @Success 201 {object} dto.SubscriptionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id}/subscribe [post]
func (h *SubscriptionHandler) Subscribe(c *gin.Context) {
	authorID, err := pathID(c, "user")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	limit, ok := h.recipesLimit(c)
	if !ok {
		return
	}

	summary, err := h.subscriptions.Subscribe(c.Request.Context(), middleware.GetRequestContext(c), authorID, limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSubscriptionResponse(summary, h.imageURL))
}

// Unsubscribe handles DELETE /api/users/:id/subscribe
//
// @Summary Unsubscribe from an author
// @Tags subscriptions
// @Param id path int true "Author ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/users/{id}/subscribe [delete]
func (h *SubscriptionHandler) Unsubscribe(c *gin.Context) {
	authorID, err := pathID(c, "user")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.subscriptions.Unsubscribe(c.Request.Context(), middleware.GetRequestContext(c), authorID); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// List handles GET /api/users/subscriptions
//
// @Summary List the authors the caller follows
// @Tags subscriptions
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param recipes_limit query int false "Recipes per author"
// @Success 200 {object} dto.Paginated[dto.SubscriptionResponse]
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/users/subscriptions [get]
func (h *SubscriptionHandler) List(c *gin.Context) {
	limit, ok := h.recipesLimit(c)
	if !ok {
		return
	}

	rc := middleware.GetRequestContext(c)

	page, err := h.subscriptions.List(c.Request.Context(), rc, limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginated(c, rc.Page(), page.Total, dto.NewSubscriptionResponses(page.Items, h.imageURL)))
}

func (h *SubscriptionHandler) recipesLimit(c *gin.Context) (int, bool) {
	var q dto.SubscriptionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		dto.RespondWithBindError(c, err)
		return 0, false
	}

	limit, err := q.Limit()
	if err != nil {
		dto.HandleError(c, err)
		return 0, false
	}

	return limit, true
}
