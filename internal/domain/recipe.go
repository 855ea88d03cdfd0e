package domain

import "time"

// Bounds enforced on recipe fields.
const (
	MinCookingTime = 1
	MaxCookingTime = 1024
	MinAmount      = 1
	MaxAmount      = 100
)

// Recipe is the aggregate root: base fields plus tag and ingredient links.
type Recipe struct {
	ID          int64
	Author      User
	Name        string
	Text        string
	CookingTime int
	Image       string
	Tags        []Tag
	Ingredients []RecipeIngredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecipeIngredient is an ingredient line of a recipe.
type RecipeIngredient struct {
	Ingredient
	Amount int
}

// IngredientAmount references an ingredient by id in a write request.
type IngredientAmount struct {
	IngredientID int64
	Amount       int
}

// Image is a decoded upload waiting to be stored.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// RecipeDraft is the input of a recipe create.
type RecipeDraft struct {
	Name        string
	Text        string
	CookingTime int
	Image       *Image
	TagIDs      []int64
	Ingredients []IngredientAmount
}

// RecipePatch is the input of a recipe update. Nil fields are left untouched,
// except TagIDs and Ingredients which must both be present.
type RecipePatch struct {
	Name        *string
	Text        *string
	CookingTime *int
	Image       *Image
	TagIDs      *[]int64
	Ingredients *[]IngredientAmount
}

// RecipeView is a recipe as seen by a particular viewer.
type RecipeView struct {
	Recipe
	AuthorSubscribed bool
	IsFavorited      bool
	IsInShoppingCart bool
}

// RecipeFilter narrows a recipe listing. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID     int64
	TagSlugs     []string
	FavoritedBy  int64
	InCartOf     int64
	MatchNothing bool
}

// TagIDs returns the ids of the recipe's tags.
func (r *Recipe) TagIDs() []int64 {
	ids := make([]int64, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}

	return ids
}

// IngredientAmounts returns the recipe's ingredient lines as write references.
func (r *Recipe) IngredientAmounts() []IngredientAmount {
	out := make([]IngredientAmount, 0, len(r.Ingredients))
	for _, ri := range r.Ingredients {
		out = append(out, IngredientAmount{IngredientID: ri.ID, Amount: ri.Amount})
	}

	return out
}
