package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// validate names field errors by koanf key so messages match the YAML files
// and the APP_ variables.
var validate = func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name, _, _ := strings.Cut(f.Tag.Get("koanf"), ","); name != "" && name != "-" {
			return name
		}

		return f.Name
	})

	return v
}()

var ruleText = map[string]string{
	"required":    "is required",
	"required_if": "is required when %s",
	"min":         "must be at least %s",
	"max":         "must be at most %s",
	"gt":          "must be greater than %s",
	"gtefield":    "must be at least %s",
	"oneof":       "must be one of: %s",
	"url":         "must be a valid URL",
}

// Validate reports every invalid setting, one per line. The service refuses
// to start on any of them.
func (c *Config) Validate() error {
	err := validate.Struct(c)

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	problems := make([]error, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = describe(fe)
	}

	return fmt.Errorf("config validation failed:\n%w", errors.Join(problems...))
}

func describe(fe validator.FieldError) error {
	key := keyPath(fe.Namespace())

	text, ok := ruleText[fe.Tag()]
	if !ok {
		return fmt.Errorf("%s failed validation: %s", key, fe.Tag())
	}

	if !strings.Contains(text, "%s") {
		return fmt.Errorf("%s %s", key, text)
	}

	param := fe.Param()
	if fe.Tag() == "gtefield" {
		// Param is the sibling's Go name; show its key instead.
		param = key[:strings.LastIndex(key, ".")+1] + snakeCase(param)
	}

	return fmt.Errorf("%s "+text, key, param)
}

// keyPath turns a validator namespace such as "Config.server.port" into the
// koanf key "server.port".
func keyPath(namespace string) string {
	_, rest, found := strings.Cut(namespace, ".")
	if !found {
		rest = namespace
	}

	return strings.ToLower(rest)
}

func snakeCase(name string) string {
	var b strings.Builder

	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}
