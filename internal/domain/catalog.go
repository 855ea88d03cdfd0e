package domain

import "regexp"

// Field limits shared by catalog entities and recipes.
const (
	MaxCharFieldLength = 200
	MaxTextLength      = 1024
	MaxColorLength     = 7
)

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// Tag labels recipes, e.g. "breakfast".
type Tag struct {
	ID    int64
	Name  string
	Color string
	Slug  string
}

// Validate checks the tag fields before it is stored.
func (t Tag) Validate() error {
	switch {
	case t.Name == "":
		return NewValidationError("name", "name is required")
	case len(t.Name) > MaxCharFieldLength:
		return NewValidationError("name", "name is too long")
	case !ValidColor(t.Color):
		return NewValidationErrorWithValue("color", "color must be a hex value like #49B64E", t.Color)
	case !ValidSlug(t.Slug) || len(t.Slug) > MaxCharFieldLength:
		return NewValidationErrorWithValue("slug", "slug may contain only letters, digits, '-' and '_'", t.Slug)
	}

	return nil
}

// ValidColor reports whether color is a #RRGGBB hex value.
func ValidColor(color string) bool {
	return colorPattern.MatchString(color)
}

// ValidSlug reports whether slug uses only letters, digits, '-' and '_'.
func ValidSlug(slug string) bool {
	return slugPattern.MatchString(slug)
}

// Ingredient is a catalog entry. Name and unit are unique together.
type Ingredient struct {
	ID              int64
	Name            string
	MeasurementUnit string
}
