package gormstore

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// TagRepository implements ports.TagRepository.
type TagRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTagRepository creates a TagRepository.
func NewTagRepository(db *gorm.DB, logger *slog.Logger) *TagRepository {
	return &TagRepository{db: db, logger: logger.With(slog.String("repo", "tags"))}
}

// Create stores tag and fills its ID.
func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) error {
	row := tagRow{Name: tag.Name, Color: tag.Color, Slug: tag.Slug}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		return translate(err, "tag", "")
	}

	tag.ID = row.ID

	return nil
}

// GetByID loads one tag.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*domain.Tag, error) {
	var row tagRow
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, translate(err, "tag", strconv.FormatInt(id, 10))
	}

	tag := row.toDomain()

	return &tag, nil
}

// List returns every tag ordered by name.
func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	var rows []tagRow
	if err := conn(ctx, r.db).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}

	return tagsToDomain(rows), nil
}

// GetByIDs returns the tags that exist among ids.
func (r *TagRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return []domain.Tag{}, nil
	}

	var rows []tagRow
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	return tagsToDomain(rows), nil
}

// Upsert inserts tags whose name and slug are not taken.
func (r *TagRepository) Upsert(ctx context.Context, tags []domain.Tag) (int64, error) {
	if len(tags) == 0 {
		return 0, nil
	}

	rows := make([]tagRow, 0, len(tags))
	for _, t := range tags {
		rows = append(rows, tagRow{Name: t.Name, Color: t.Color, Slug: t.Slug})
	}

	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&rows)

	return res.RowsAffected, res.Error
}

func tagsToDomain(rows []tagRow) []domain.Tag {
	out := make([]domain.Tag, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}

	return out
}

// IngredientRepository implements ports.IngredientRepository.
type IngredientRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewIngredientRepository creates an IngredientRepository.
func NewIngredientRepository(db *gorm.DB, logger *slog.Logger) *IngredientRepository {
	return &IngredientRepository{db: db, logger: logger.With(slog.String("repo", "ingredients"))}
}

// GetByID loads one ingredient.
func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (*domain.Ingredient, error) {
	var row ingredientRow
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, translate(err, "ingredient", strconv.FormatInt(id, 10))
	}

	ing := row.toDomain()

	return &ing, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search lists ingredients whose name starts with prefix, ignoring case.
// An empty prefix lists the whole catalog.
func (r *IngredientRepository) Search(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	q := conn(ctx, r.db).Order("name").Order("measurement_unit")
	if prefix != "" {
		q = q.Where(`name_lower LIKE ? ESCAPE '\'`, likeEscaper.Replace(strings.ToLower(prefix))+"%")
	}

	var rows []ingredientRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	return ingredientsToDomain(rows), nil
}

// GetByIDs returns the ingredients that exist among ids.
func (r *IngredientRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error) {
	if len(ids) == 0 {
		return []domain.Ingredient{}, nil
	}

	var rows []ingredientRow
	if err := conn(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	return ingredientsToDomain(rows), nil
}

// Upsert inserts ingredients, skipping (name, unit) pairs already stored.
func (r *IngredientRepository) Upsert(ctx context.Context, items []domain.Ingredient) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]ingredientRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, newIngredientRow(it))
	}

	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&rows, 500)

	return res.RowsAffected, res.Error
}

func ingredientsToDomain(rows []ingredientRow) []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toDomain())
	}

	return out
}
