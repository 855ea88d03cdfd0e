package dto

import "github.com/jsamuelsen/foodgram/internal/domain"

// TagRequest is the body of POST /tags.
type TagRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Color string `json:"color" validate:"required,max=7,tagcolor"`
	Slug  string `json:"slug"  validate:"required,max=200,slug"`
}

// ToDomain converts the request to a tag.
func (r *TagRequest) ToDomain() domain.Tag {
	return domain.Tag{Name: r.Name, Color: r.Color, Slug: r.Slug}
}

// TagResponse is a tag.
type TagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

// NewTagResponse converts a tag.
func NewTagResponse(t *domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, Color: t.Color, Slug: t.Slug}
}

// NewTagResponses converts a list of tags.
func NewTagResponses(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i := range tags {
		out[i] = NewTagResponse(&tags[i])
	}

	return out
}

// IngredientQuery is the query of GET /ingredients.
type IngredientQuery struct {
	Name string `form:"name" validate:"max=200"`
}

// IngredientResponse is a catalog ingredient.
type IngredientResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

// NewIngredientResponse converts an ingredient.
func NewIngredientResponse(i *domain.Ingredient) IngredientResponse {
	return IngredientResponse{ID: i.ID, Name: i.Name, MeasurementUnit: i.MeasurementUnit}
}

// NewIngredientResponses converts a list of ingredients.
func NewIngredientResponses(items []domain.Ingredient) []IngredientResponse {
	out := make([]IngredientResponse, len(items))
	for i := range items {
		out[i] = NewIngredientResponse(&items[i])
	}

	return out
}
