package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/app"
)

// CatalogHandler serves the read-mostly tag and ingredient dictionaries.
// Neither list is paginated.
type CatalogHandler struct {
	catalog *app.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalog *app.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListTags handles GET /api/tags
//
// @Summary List tags
// @Tags catalog
// @Produce json
// @Success 200 {array} dto.TagResponse
// @Router /api/tags [get]
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTagResponses(tags))
}

// GetTag handles GET /api/tags/:id
//
// @Summary Get a tag
// @Tags catalog
// @Produce json
// @Param id path int true "Tag ID"
// @Success 200 {object} dto.TagResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/tags/{id} [get]
func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := pathID(c, "tag")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewTagResponse(tag))
}

// CreateTag handles POST /api/tags
// Any signed-in user may add tags.
//
// @Summary Create a tag
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body dto.TagRequest true "Tag"
// @Success 201 {object} dto.TagResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /api/tags [post]
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req dto.TagRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	tag, err := h.catalog.CreateTag(c.Request.Context(), middleware.GetRequestContext(c), req.ToDomain())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewTagResponse(tag))
}

// ListIngredients handles GET /api/ingredients
// The optional name parameter filters by case-insensitive prefix.
//
// @Summary Search ingredients
// @Tags catalog
// @Produce json
// @Param name query string false "Name prefix"
// @Success 200 {array} dto.IngredientResponse
// @Router /api/ingredients [get]
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	var q dto.IngredientQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	items, err := h.catalog.SearchIngredients(c.Request.Context(), q.Name)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIngredientResponses(items))
}

// GetIngredient handles GET /api/ingredients/:id
//
// @Summary Get an ingredient
// @Tags catalog
// @Produce json
// @Param id path int true "Ingredient ID"
// @Success 200 {object} dto.IngredientResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/ingredients/{id} [get]
func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := pathID(c, "ingredient")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	item, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewIngredientResponse(item))
}
