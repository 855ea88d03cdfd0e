package gormstore

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

type userRow struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"size:254;not null;uniqueIndex"`
	Username     string    `gorm:"size:150;not null;uniqueIndex"`
	FirstName    string    `gorm:"size:150;not null"`
	LastName     string    `gorm:"size:150;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

type tagRow struct {
	ID    int64  `gorm:"primaryKey"`
	Name  string `gorm:"size:200;not null;uniqueIndex"`
	Color string `gorm:"size:7;not null"`
	Slug  string `gorm:"size:200;not null;uniqueIndex"`
}

func (tagRow) TableName() string { return "tags" }

type ingredientRow struct {
	ID              int64  `gorm:"primaryKey"`
	Name            string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`
	MeasurementUnit string `gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit"`

	// NameLower is Name folded in Go. SQLite's LOWER only folds ASCII.
	NameLower string `gorm:"size:200;not null;default:'';index"`
}

func newIngredientRow(it domain.Ingredient) ingredientRow {
	return ingredientRow{Name: it.Name, MeasurementUnit: it.MeasurementUnit, NameLower: strings.ToLower(it.Name)}
}

func (ingredientRow) TableName() string { return "ingredients" }

type recipeRow struct {
	ID          int64                 `gorm:"primaryKey"`
	AuthorID    int64                 `gorm:"not null;index"`
	Author      userRow               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string                `gorm:"size:200;not null;index"`
	Text        string                `gorm:"size:1024;not null"`
	CookingTime int                   `gorm:"not null;check:chk_recipes_cooking_time,cooking_time BETWEEN 1 AND 1024"`
	Image       string                `gorm:"size:255;not null"`
	Tags        []recipeTagRow        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredients []recipeIngredientRow `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (recipeRow) TableName() string { return "recipes" }

type recipeTagRow struct {
	ID       int64  `gorm:"primaryKey"`
	RecipeID int64  `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	TagID    int64  `gorm:"not null;uniqueIndex:idx_recipe_tag"`
	Tag      tagRow `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}

func (recipeTagRow) TableName() string { return "recipe_tags" }

type recipeIngredientRow struct {
	ID           int64         `gorm:"primaryKey"`
	RecipeID     int64         `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID int64         `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   ingredientRow `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       int           `gorm:"not null;check:chk_recipe_ingredients_amount,amount BETWEEN 1 AND 100"`
}

func (recipeIngredientRow) TableName() string { return "recipe_ingredients" }

type favoriteRow struct {
	ID       int64     `gorm:"primaryKey"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User     userRow   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID int64     `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	Recipe   recipeRow `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (favoriteRow) TableName() string { return "favorites" }

type cartRow struct {
	ID       int64     `gorm:"primaryKey"`
	UserID   int64     `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User     userRow   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RecipeID int64     `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	Recipe   recipeRow `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (cartRow) TableName() string { return "shopping_carts" }

type subscriptionRow struct {
	ID       int64   `gorm:"primaryKey"`
	UserID   int64   `gorm:"not null;uniqueIndex:idx_subscription_pair;check:chk_subscription_not_self,user_id <> author_id"`
	User     userRow `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	AuthorID int64   `gorm:"not null;uniqueIndex:idx_subscription_pair;index"`
	Author   userRow `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (subscriptionRow) TableName() string { return "subscriptions" }

type revokedTokenRow struct {
	ID        int64     `gorm:"primaryKey"`
	TokenID   string    `gorm:"size:64;not null;uniqueIndex"`
	UserID    int64     `gorm:"not null;index"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

func (revokedTokenRow) TableName() string { return "revoked_tokens" }

func (r *userRow) toDomain() domain.User {
	return domain.User{
		ID:           r.ID,
		Email:        r.Email,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

func (r *tagRow) toDomain() domain.Tag {
	return domain.Tag{ID: r.ID, Name: r.Name, Color: r.Color, Slug: r.Slug}
}

func (r *ingredientRow) toDomain() domain.Ingredient {
	return domain.Ingredient{ID: r.ID, Name: r.Name, MeasurementUnit: r.MeasurementUnit}
}

// toDomain converts a recipe row with its preloaded associations.
// Tags and ingredients come out sorted by name.
func (r *recipeRow) toDomain() domain.Recipe {
	recipe := domain.Recipe{
		ID:          r.ID,
		Author:      r.Author.toDomain(),
		Name:        r.Name,
		Text:        r.Text,
		CookingTime: r.CookingTime,
		Image:       r.Image,
		Tags:        make([]domain.Tag, 0, len(r.Tags)),
		Ingredients: make([]domain.RecipeIngredient, 0, len(r.Ingredients)),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}

	for i := range r.Tags {
		recipe.Tags = append(recipe.Tags, r.Tags[i].Tag.toDomain())
	}

	for i := range r.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, domain.RecipeIngredient{
			Ingredient: r.Ingredients[i].Ingredient.toDomain(),
			Amount:     r.Ingredients[i].Amount,
		})
	}

	slices.SortFunc(recipe.Tags, func(a, b domain.Tag) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	slices.SortFunc(recipe.Ingredients, func(a, b domain.RecipeIngredient) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return recipe
}
