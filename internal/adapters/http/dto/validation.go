package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

var (
	// ErrValidation wraps struct tag failures on a request body or query.
	ErrValidation = errors.New("validation failed")

	// ErrBinding wraps malformed JSON or unparsable query values.
	ErrBinding = errors.New("binding failed")
)

// fieldRules are the custom tags usable in request structs. Empty values
// pass so that "required" stays the only presence check.
var fieldRules = map[string]func(string) bool{
	"username": domain.ValidUsername,
	"tagcolor": domain.ValidColor,
	"slug":     domain.ValidSlug,
}

// Validator returns the shared validator. Field errors are keyed by the
// JSON name, or the form name for query structs.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	for tag, ok := range fieldRules {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || ok(s)
		}); err != nil {
			panic(fmt.Sprintf("registering %q validation: %v", tag, err))
		}
	}

	return v
})

func wireName(f reflect.StructField) string {
	for _, key := range []string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		switch name {
		case "":
			continue
		case "-":
			return ""
		default:
			return name
		}
	}

	return f.Name
}

// Validate checks v's struct tags.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	return nil
}

// BindAndValidate decodes the JSON body into v and checks it.
func BindAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// BindQueryAndValidate decodes the query string into v and checks it.
func BindQueryAndValidate(c *gin.Context, v any) error {
	if err := c.ShouldBindQuery(v); err != nil {
		return fmt.Errorf("%w: %w", ErrBinding, err)
	}

	return Validate(v)
}

// ValidationErrors returns one message per failing field, or an empty map
// when err holds no field errors.
func ValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return out
	}

	for _, fe := range fieldErrs {
		out[fe.Field()] = describe(fe)
	}

	return out
}

var ruleText = map[string]string{
	"required": "this field is required",
	"email":    "must be a valid email address",
	"username": "may contain only letters, digits and @/./+/-/_",
	"tagcolor": "must be a hex color like #49B64E",
	"slug":     "may contain only letters, digits, '-' and '_'",
	"gte":      "must be greater than or equal to %s",
	"gt":       "must be greater than %s",
	"lte":      "must be less than or equal to %s",
	"oneof":    "must be one of: %s",
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min", "max":
		bound := "at least"
		if fe.Tag() == "max" {
			bound = "at most"
		}

		unit := ""
		if fe.Kind() == reflect.String {
			unit = " characters"
		}

		return fmt.Sprintf("must be %s %s%s", bound, fe.Param(), unit)
	}

	text, ok := ruleText[fe.Tag()]
	if !ok {
		return "failed validation: " + fe.Tag()
	}

	if strings.Contains(text, "%s") {
		return fmt.Sprintf(text, fe.Param())
	}

	return text
}
