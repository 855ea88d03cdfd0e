package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/app"
	"github.com/jsamuelsen/foodgram/internal/domain"
)

// RecipeHandler serves recipes and the per-user favorites and cart lists.
type RecipeHandler struct {
	recipes   *app.RecipeService
	relations *app.RelationService
}

// NewRecipeHandler creates a new recipe handler.
func NewRecipeHandler(recipes *app.RecipeService, relations *app.RelationService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, relations: relations}
}

// List handles GET /api/recipes
// Results are ordered by name, then id. The favorited and cart filters are
// ignored for anonymous callers.
//
// @Summary List recipes
// @Tags recipes
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param author query int false "Author ID"
// @Param tags query []string false "Tag slugs, any of" collectionFormat(multi)
// @Param is_favorited query int false "Only favorites (1)"
// @Param is_in_shopping_cart query int false "Only the cart (1)"
// @Success 200 {object} dto.Paginated[dto.RecipeResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/recipes [get]
func (h *RecipeHandler) List(c *gin.Context) {
	var q dto.RecipeQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	rc := middleware.GetRequestContext(c)

	page, err := h.recipes.List(c.Request.Context(), rc, app.RecipeQuery{
		AuthorID:      q.Author,
		TagSlugs:      q.Tags,
		FavoritedOnly: q.Favorited(),
		InCartOnly:    q.InShoppingCart(),
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginated(c, rc.Page(), page.Total, dto.NewRecipeResponses(page.Items, h.recipes.ImageURL)))
}

// Get handles GET /api/recipes/:id
//
// @Summary Get a recipe
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} dto.RecipeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/recipes/{id} [get]
func (h *RecipeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "recipe")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	view, err := h.recipes.Get(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecipeResponse(view, h.recipes.ImageURL))
}

// Create handles POST /api/recipes
//
// @Summary Publish a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param body body dto.RecipeRequest true "Recipe"
// @Success 201 {object} dto.RecipeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/recipes [post]
func (h *RecipeHandler) Create(c *gin.Context) {
	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	draft, err := req.Draft()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	view, err := h.recipes.Create(c.Request.Context(), middleware.GetRequestContext(c), draft)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRecipeResponse(view, h.recipes.ImageURL))
}

// Update handles PATCH /api/recipes/:id
// Omitted fields keep their value; tags and ingredients, when present,
// replace the whole set.
//
// @Summary Edit a recipe
// @Tags recipes
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param body body dto.RecipeRequest true "Changed fields"
// @Success 200 {object} dto.RecipeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/recipes/{id} [patch]
func (h *RecipeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "recipe")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var req dto.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.RespondWithBindError(c, err)
		return
	}

	patch, err := req.Patch()
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	view, err := h.recipes.Update(c.Request.Context(), middleware.GetRequestContext(c), id, patch)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewRecipeResponse(view, h.recipes.ImageURL))
}

// Delete handles DELETE /api/recipes/:id
//
// @Summary Delete a recipe
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/recipes/{id} [delete]
func (h *RecipeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "recipe")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), middleware.GetRequestContext(c), id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddFavorite handles POST /api/recipes/:id/favorite
//
// @Summary Add a recipe to favorites
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} dto.ShortRecipeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/recipes/{id}/favorite [post]
func (h *RecipeHandler) AddFavorite(c *gin.Context) {
	h.addRelation(c, domain.Favorites)
}

// RemoveFavorite handles DELETE /api/recipes/:id/favorite
//
// @Summary Remove a recipe from favorites
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/recipes/{id}/favorite [delete]
func (h *RecipeHandler) RemoveFavorite(c *gin.Context) {
	h.removeRelation(c, domain.Favorites)
}

// AddToCart handles POST /api/recipes/:id/shopping_cart
//
// @Summary Add a recipe to the shopping cart
// @Tags recipes
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 201 {object} dto.ShortRecipeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/recipes/{id}/shopping_cart [post]
func (h *RecipeHandler) AddToCart(c *gin.Context) {
	h.addRelation(c, domain.ShoppingCart)
}

// RemoveFromCart handles DELETE /api/recipes/:id/shopping_cart
//
// @Summary Remove a recipe from the shopping cart
// @Tags recipes
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/recipes/{id}/shopping_cart [delete]
func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	h.removeRelation(c, domain.ShoppingCart)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart
//
// @Summary Download the aggregated shopping list
// @Tags recipes
// @Produce plain
// @Success 200 {string} string "shopping_list.txt"
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/recipes/download_shopping_cart [get]
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	list, err := h.relations.ShoppingList(c.Request.Context(), middleware.GetRequestContext(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.RespondShoppingList(c, list)
}

func (h *RecipeHandler) addRelation(c *gin.Context, kind domain.RelationKind) {
	id, err := pathID(c, "recipe")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	recipe, err := h.relations.Add(c.Request.Context(), middleware.GetRequestContext(c), kind, id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewShortRecipeResponse(recipe, h.recipes.ImageURL))
}

func (h *RecipeHandler) removeRelation(c *gin.Context, kind domain.RelationKind) {
	id, err := pathID(c, "recipe")
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.relations.Remove(c.Request.Context(), middleware.GetRequestContext(c), kind, id); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
