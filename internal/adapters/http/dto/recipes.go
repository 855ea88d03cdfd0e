package dto

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// IngredientAmountRequest references a catalog ingredient in a recipe body.
type IngredientAmountRequest struct {
	ID     int64 `json:"id"`
	Amount int   `json:"amount"`
}

// RecipeRequest is the body of POST and PATCH /recipes. Fields are
// pointers so a missing key can be told apart from a zero value; all
// field rules are checked by the domain in a fixed order.
type RecipeRequest struct {
	Name        *string                    `json:"name"`
	Text        *string                    `json:"text"`
	CookingTime *int                       `json:"cooking_time"`
	Image       *string                    `json:"image"`
	Tags        *[]int64                   `json:"tags"`
	Ingredients *[]IngredientAmountRequest `json:"ingredients"`
}

// Draft converts the request to a create input.
func (r *RecipeRequest) Draft() (domain.RecipeDraft, error) {
	draft := domain.RecipeDraft{
		Name:        deref(r.Name),
		Text:        deref(r.Text),
		CookingTime: deref(r.CookingTime),
		Ingredients: r.amounts(),
	}

	if r.Tags != nil {
		draft.TagIDs = *r.Tags
	}

	img, err := r.image()
	if err != nil {
		return draft, err
	}

	draft.Image = img

	return draft, nil
}

// Patch converts the request to an update input.
func (r *RecipeRequest) Patch() (domain.RecipePatch, error) {
	patch := domain.RecipePatch{
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		TagIDs:      r.Tags,
	}

	if r.Ingredients != nil {
		items := r.amounts()
		patch.Ingredients = &items
	}

	img, err := r.image()
	if err != nil {
		return patch, err
	}

	patch.Image = img

	return patch, nil
}

func (r *RecipeRequest) amounts() []domain.IngredientAmount {
	if r.Ingredients == nil {
		return nil
	}

	out := make([]domain.IngredientAmount, len(*r.Ingredients))
	for i, item := range *r.Ingredients {
		out[i] = domain.IngredientAmount{IngredientID: item.ID, Amount: item.Amount}
	}

	return out
}

// image decodes the upload when one was sent. An empty string counts as
// no image.
func (r *RecipeRequest) image() (*domain.Image, error) {
	if r.Image == nil || *r.Image == "" {
		return nil, nil
	}

	return DecodeImage(*r.Image)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}

// RecipeQuery is the filter set of GET /recipes.
type RecipeQuery struct {
	Author           int64    `form:"author"              validate:"gte=0"`
	Tags             []string `form:"tags"`
	IsFavorited      string   `form:"is_favorited"`
	IsInShoppingCart string   `form:"is_in_shopping_cart"`
}

// Favorited reports whether the favorites filter is on.
func (q *RecipeQuery) Favorited() bool { return truthy(q.IsFavorited) }

// InShoppingCart reports whether the cart filter is on.
func (q *RecipeQuery) InShoppingCart() bool { return truthy(q.IsInShoppingCart) }

func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}

	return false
}

// SubscriptionQuery is the query of the subscription endpoints.
type SubscriptionQuery struct {
	RecipesLimit string `form:"recipes_limit"`
}

// Limit returns the requested preview size; -1 means all recipes.
func (q *SubscriptionQuery) Limit() (int, error) {
	if q.RecipesLimit == "" {
		return -1, nil
	}

	n, err := strconv.Atoi(q.RecipesLimit)
	if err != nil || n < 0 {
		return 0, domain.NewValidationErrorWithValue("recipes_limit", domain.MsgInvalidRecipesLimit, q.RecipesLimit)
	}

	return n, nil
}

// RecipeIngredientResponse is an ingredient line of a recipe.
type RecipeIngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is a full recipe as seen by the caller.
type RecipeResponse struct {
	ID               int64                      `json:"id"`
	Tags             []TagResponse              `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// NewRecipeResponse converts a recipe view. imageURL resolves stored keys.
func NewRecipeResponse(v *domain.RecipeView, imageURL func(string) string) RecipeResponse {
	ingredients := make([]RecipeIngredientResponse, len(v.Ingredients))
	for i, ri := range v.Ingredients {
		ingredients[i] = RecipeIngredientResponse{
			ID:              ri.ID,
			Name:            ri.Name,
			MeasurementUnit: ri.MeasurementUnit,
			Amount:          ri.Amount,
		}
	}

	return RecipeResponse{
		ID:               v.ID,
		Tags:             NewTagResponses(v.Tags),
		Author:           NewUserResponse(&v.Author, v.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      v.IsFavorited,
		IsInShoppingCart: v.IsInShoppingCart,
		Name:             v.Name,
		Image:            resolveImage(v.Image, imageURL),
		Text:             v.Text,
		CookingTime:      v.CookingTime,
	}
}

// NewRecipeResponses converts a page of recipe views.
func NewRecipeResponses(views []domain.RecipeView, imageURL func(string) string) []RecipeResponse {
	out := make([]RecipeResponse, len(views))
	for i := range views {
		out[i] = NewRecipeResponse(&views[i], imageURL)
	}

	return out
}

// ShortRecipeResponse is the compact recipe form used by favorites, the
// cart and subscriptions.
type ShortRecipeResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewShortRecipeResponse converts a recipe to its compact form.
func NewShortRecipeResponse(r *domain.Recipe, imageURL func(string) string) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       resolveImage(r.Image, imageURL),
		CookingTime: r.CookingTime,
	}
}

func resolveImage(key string, imageURL func(string) string) string {
	if key == "" || imageURL == nil {
		return ""
	}

	return imageURL(key)
}

// ShoppingListFilename is the attachment name of the downloaded cart.
const ShoppingListFilename = "shopping_list.txt"

// RespondShoppingList writes the rendered list as a text attachment.
func RespondShoppingList(c *gin.Context, list domain.ShoppingList) {
	c.Header("Content-Disposition", `attachment; filename="`+ShoppingListFilename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(list.Render()))
}
