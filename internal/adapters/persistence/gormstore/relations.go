package gormstore

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// RelationRepository implements ports.RecipeRelationRepository over the
// favorites and shopping_carts tables.
type RelationRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRelationRepository creates a RelationRepository.
func NewRelationRepository(db *gorm.DB, logger *slog.Logger) *RelationRepository {
	return &RelationRepository{db: db, logger: logger.With(slog.String("repo", "recipe_relations"))}
}

func relationTable(kind domain.RelationKind) (string, error) {
	switch kind {
	case domain.Favorites:
		return "favorites", nil
	case domain.ShoppingCart:
		return "shopping_carts", nil
	default:
		return "", fmt.Errorf("unknown relation kind %q", kind)
	}
}

// Add stores the (user, recipe) pair for kind.
func (r *RelationRepository) Add(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	var row any

	switch kind {
	case domain.Favorites:
		row = &favoriteRow{UserID: userID, RecipeID: recipeID}
	case domain.ShoppingCart:
		row = &cartRow{UserID: userID, RecipeID: recipeID}
	default:
		return fmt.Errorf("unknown relation kind %q", kind)
	}

	if err := conn(ctx, r.db).Omit(clause.Associations).Create(row).Error; err != nil {
		return translate(err, string(kind), "")
	}

	return nil
}

// Remove deletes the (user, recipe) pair for kind.
func (r *RelationRepository) Remove(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error {
	table, err := relationTable(kind)
	if err != nil {
		return err
	}

	res := conn(ctx, r.db).Exec("DELETE FROM "+table+" WHERE user_id = ? AND recipe_id = ?", userID, recipeID)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError(string(kind), "")
	}

	return nil
}

// Exists reports whether the pair is stored for kind.
func (r *RelationRepository) Exists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error) {
	table, err := relationTable(kind)
	if err != nil {
		return false, err
	}

	var n int64

	err = conn(ctx, r.db).Table(table).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error

	return n > 0, err
}

// RecipeIDs returns the subset of recipeIDs the user keeps in kind.
func (r *RelationRepository) RecipeIDs(
	ctx context.Context,
	kind domain.RelationKind,
	userID int64,
	recipeIDs []int64,
) (map[int64]bool, error) {
	out := make(map[int64]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return out, nil
	}

	table, err := relationTable(kind)
	if err != nil {
		return nil, err
	}

	var ids []int64

	err = conn(ctx, r.db).Table(table).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		out[id] = true
	}

	return out, nil
}

// CartLines returns one line per ingredient use across the user's cart.
func (r *RelationRepository) CartLines(ctx context.Context, userID int64) ([]domain.IngredientLine, error) {
	var lines []domain.IngredientLine

	err := conn(ctx, r.db).Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS unit, recipe_ingredients.amount AS amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}

	return lines, nil
}
