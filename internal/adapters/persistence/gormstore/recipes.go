package gormstore

import (
	"context"
	"log/slog"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// RecipeRepository implements ports.RecipeRepository.
type RecipeRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewRecipeRepository creates a RecipeRepository.
func NewRecipeRepository(db *gorm.DB, logger *slog.Logger) *RecipeRepository {
	return &RecipeRepository{db: db, logger: logger.With(slog.String("repo", "recipes"))}
}

// Insert stores the base recipe row. Tag and ingredient links are written separately.
func (r *RecipeRepository) Insert(ctx context.Context, recipe *domain.Recipe) error {
	row := recipeRow{
		AuthorID:    recipe.Author.ID,
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.Image,
	}

	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translate(err, "recipe", "")
	}

	recipe.ID = row.ID
	recipe.CreatedAt = row.CreatedAt
	recipe.UpdatedAt = row.UpdatedAt

	return nil
}

// UpdateFields writes name, text, cooking time and image.
func (r *RecipeRepository) UpdateFields(ctx context.Context, recipe *domain.Recipe) error {
	res := conn(ctx, r.db).Model(&recipeRow{ID: recipe.ID}).Updates(map[string]any{
		"name":         recipe.Name,
		"text":         recipe.Text,
		"cooking_time": recipe.CookingTime,
		"image":        recipe.Image,
	})
	if res.Error != nil {
		return translate(res.Error, "recipe", strconv.FormatInt(recipe.ID, 10))
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("recipe", strconv.FormatInt(recipe.ID, 10))
	}

	return nil
}

// ReplaceTags swaps the recipe's tag links for one per id.
func (r *RecipeRepository) ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error {
	db := conn(ctx, r.db)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&recipeTagRow{}).Error; err != nil {
		return err
	}

	if len(tagIDs) == 0 {
		return nil
	}

	rows := make([]recipeTagRow, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, recipeTagRow{RecipeID: recipeID, TagID: id})
	}

	return translate(db.Omit(clause.Associations).Create(&rows).Error, "recipe tag", "")
}

// ReplaceIngredients swaps the recipe's ingredient links for one per item.
func (r *RecipeRepository) ReplaceIngredients(ctx context.Context, recipeID int64, items []domain.IngredientAmount) error {
	db := conn(ctx, r.db)

	if err := db.Where("recipe_id = ?", recipeID).Delete(&recipeIngredientRow{}).Error; err != nil {
		return err
	}

	if len(items) == 0 {
		return nil
	}

	rows := make([]recipeIngredientRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, recipeIngredientRow{RecipeID: recipeID, IngredientID: it.IngredientID, Amount: it.Amount})
	}

	return translate(db.Omit(clause.Associations).Create(&rows).Error, "recipe ingredient", "")
}

// Delete removes the recipe with its links, favorites and cart entries.
// Call it inside a transaction.
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	db := conn(ctx, r.db)

	for _, dependent := range []any{&recipeTagRow{}, &recipeIngredientRow{}, &favoriteRow{}, &cartRow{}} {
		if err := db.Where("recipe_id = ?", id).Delete(dependent).Error; err != nil {
			return err
		}
	}

	res := db.Delete(&recipeRow{}, id)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("recipe", strconv.FormatInt(id, 10))
	}

	return nil
}

func (r *RecipeRepository) withAssociations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient")
}

// GetByID loads one recipe with its author, tags and ingredients.
func (r *RecipeRepository) GetByID(ctx context.Context, id int64) (*domain.Recipe, error) {
	var row recipeRow
	if err := r.withAssociations(conn(ctx, r.db)).First(&row, id).Error; err != nil {
		return nil, translate(err, "recipe", strconv.FormatInt(id, 10))
	}

	recipe := row.toDomain()

	return &recipe, nil
}

// Exists reports whether the recipe row exists.
func (r *RecipeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := conn(ctx, r.db).Model(&recipeRow{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *RecipeRepository) filtered(ctx context.Context, f domain.RecipeFilter) *gorm.DB {
	q := conn(ctx, r.db).Model(&recipeRow{})

	if f.MatchNothing {
		return q.Where("1 = 0")
	}

	if f.AuthorID != 0 {
		q = q.Where("recipes.author_id = ?", f.AuthorID)
	}

	if len(f.TagSlugs) > 0 {
		sub := conn(ctx, r.db).Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs)
		q = q.Where("recipes.id IN (?)", sub)
	}

	if f.FavoritedBy != 0 {
		sub := conn(ctx, r.db).Table("favorites").Select("recipe_id").Where("user_id = ?", f.FavoritedBy)
		q = q.Where("recipes.id IN (?)", sub)
	}

	if f.InCartOf != 0 {
		sub := conn(ctx, r.db).Table("shopping_carts").Select("recipe_id").Where("user_id = ?", f.InCartOf)
		q = q.Where("recipes.id IN (?)", sub)
	}

	return q
}

// List pages over recipes matching f, ordered by name then id.
func (r *RecipeRepository) List(
	ctx context.Context,
	f domain.RecipeFilter,
	page domain.PageRequest,
) (domain.Page[domain.Recipe], error) {
	var out domain.Page[domain.Recipe]

	if err := r.filtered(ctx, f).Count(&out.Total).Error; err != nil {
		return out, err
	}

	var rows []recipeRow

	err := r.withAssociations(r.filtered(ctx, f)).
		Order("recipes.name").
		Order("recipes.id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return out, err
	}

	out.Items = recipesToDomain(rows)

	return out, nil
}

// ListByAuthor returns up to limit recipes of the author; limit < 0 means all.
func (r *RecipeRepository) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error) {
	var rows []recipeRow

	err := conn(ctx, r.db).
		Where("author_id = ?", authorID).
		Order("name").
		Order("id").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return recipesToDomain(rows), nil
}

// CountByAuthor counts the author's recipes.
func (r *RecipeRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&recipeRow{}).Where("author_id = ?", authorID).Count(&n).Error

	return n, err
}

func recipesToDomain(rows []recipeRow) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}

	return out
}
