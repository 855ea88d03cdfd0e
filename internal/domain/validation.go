package domain

// Validation messages returned to API clients.
const (
	MsgTagsRequired        = "tags are required"
	MsgDuplicateTags       = "duplicate tags"
	MsgIngredientsRequired = "ingredients are required"
	MsgDuplicateIngredient = "duplicate ingredients"
	MsgAmountTooSmall      = "ingredient amount must be at least 1"
	MsgAmountTooLarge      = "ingredient amount must be at most 100"
	MsgTagNotFound         = "tag not found"
	MsgIngredientNotFound  = "ingredient not found"
)

// ValidateTagIDs rejects an empty tag list or one that repeats an id.
func ValidateTagIDs(ids []int64) error {
	if len(ids) == 0 {
		return NewValidationError("tags", MsgTagsRequired)
	}

	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return NewValidationErrorWithValue("tags", MsgDuplicateTags, id)
		}

		seen[id] = struct{}{}
	}

	return nil
}

// ValidateIngredientAmounts rejects an empty list, amounts outside
// [MinAmount, MaxAmount] and repeated ingredient ids.
func ValidateIngredientAmounts(items []IngredientAmount) error {
	if len(items) == 0 {
		return NewValidationError("ingredients", MsgIngredientsRequired)
	}

	seen := make(map[int64]struct{}, len(items))
	for _, item := range items {
		if item.Amount < MinAmount {
			return NewValidationErrorWithValue("ingredients", MsgAmountTooSmall, item.Amount)
		}

		if item.Amount > MaxAmount {
			return NewValidationErrorWithValue("ingredients", MsgAmountTooLarge, item.Amount)
		}

		if _, dup := seen[item.IngredientID]; dup {
			return NewValidationErrorWithValue("ingredients", MsgDuplicateIngredient, item.IngredientID)
		}

		seen[item.IngredientID] = struct{}{}
	}

	return nil
}

// ValidateCookingTime checks the cooking time bounds in minutes.
func ValidateCookingTime(minutes int) error {
	if minutes < MinCookingTime || minutes > MaxCookingTime {
		return NewValidationErrorWithValue("cooking_time", "cooking time must be between 1 and 1024", minutes)
	}

	return nil
}

func validateName(name string) error {
	if name == "" {
		return NewValidationError("name", "name is required")
	}

	if len([]rune(name)) > MaxCharFieldLength {
		return NewValidationError("name", "name is too long")
	}

	return nil
}

func validateText(text string) error {
	if text == "" {
		return NewValidationError("text", "text is required")
	}

	if len([]rune(text)) > MaxTextLength {
		return NewValidationError("text", "text is too long")
	}

	return nil
}

// Validate runs every create-time check on the draft. Collections are
// checked before scalar fields.
func (d *RecipeDraft) Validate() error {
	if err := ValidateTagIDs(d.TagIDs); err != nil {
		return err
	}

	if err := ValidateIngredientAmounts(d.Ingredients); err != nil {
		return err
	}

	if err := validateName(d.Name); err != nil {
		return err
	}

	if err := validateText(d.Text); err != nil {
		return err
	}

	if err := ValidateCookingTime(d.CookingTime); err != nil {
		return err
	}

	if d.Image == nil {
		return NewValidationError("image", "image is required")
	}

	return nil
}

// Validate runs every update-time check on the patch. Both collections
// must be present; an empty list fails the same way it does on create.
func (p *RecipePatch) Validate() error {
	if p.TagIDs == nil {
		return NewValidationError("tags", "tags field is required")
	}

	if p.Ingredients == nil {
		return NewValidationError("ingredients", "ingredients field is required")
	}

	if err := ValidateTagIDs(*p.TagIDs); err != nil {
		return err
	}

	if err := ValidateIngredientAmounts(*p.Ingredients); err != nil {
		return err
	}

	if p.Name != nil {
		if err := validateName(*p.Name); err != nil {
			return err
		}
	}

	if p.Text != nil {
		if err := validateText(*p.Text); err != nil {
			return err
		}
	}

	if p.CookingTime != nil {
		return ValidateCookingTime(*p.CookingTime)
	}

	return nil
}
