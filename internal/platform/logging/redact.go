package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// secretFields are attribute and struct field names whose values never
// reach the log output. Request DTOs, config structs and store rows all
// pass through here.
var secretFields = []string{
	"password", "current_password", "new_password",
	"password_hash", "PasswordHash",
	"token", "auth_token", "access_token", "refresh_token",
	"authorization", "cookie", "session",
	"jwt_secret", "JWTSecret",
	"secret_access_key", "SecretAccessKey", "AccessKeyID",
	"dsn", "DSN",
}

// secretValues match credentials logged under an innocent name.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`), // JWT
	regexp.MustCompile(`(?i)^(bearer|token|basic)\s+\S+$`),                      // Authorization header values
}

// NewReplaceAttr returns a slog ReplaceAttr hook that masks credentials.
// extra adds project-specific masq rules after the built-in ones.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(secretFields)+len(secretValues)+2+len(extra))

	for _, name := range secretFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts, masq.WithFieldPrefix("secret"), masq.WithFieldPrefix("private"))

	for _, re := range secretValues {
		opts = append(opts, masq.WithRegex(re))
	}

	return masq.New(append(opts, extra...)...)
}
