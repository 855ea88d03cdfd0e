package domain

import (
	"net/mail"
	"regexp"
	"time"
)

// Field limits for user accounts.
const (
	MaxEmailLength    = 254
	MaxNameLength     = 150
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Account messages returned to API clients.
const (
	MsgInvalidCredentials = "unable to log in with provided credentials"
	MsgWrongPassword      = "current password is incorrect"
	MsgReservedUsername   = "username \"me\" is reserved"
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// User is a registered account. Email is the login identifier.
type User struct {
	ID           int64
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
}

// Registration carries the fields needed to create a User.
type Registration struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Validate checks the registration fields. Uniqueness is left to storage.
func (r *Registration) Validate() error {
	if r.Email == "" {
		return NewValidationError("email", "email is required")
	}
	if len(r.Email) > MaxEmailLength {
		return NewValidationError("email", "email is too long")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return NewValidationErrorWithValue("email", "enter a valid email address", r.Email)
	}

	if r.Username == "" {
		return NewValidationError("username", "username is required")
	}
	if len([]rune(r.Username)) > MaxNameLength {
		return NewValidationError("username", "username is too long")
	}
	if !ValidUsername(r.Username) {
		return NewValidationErrorWithValue("username", "username may contain only letters, digits and @/./+/-/_", r.Username)
	}
	if r.Username == "me" {
		return NewValidationError("username", MsgReservedUsername)
	}

	names := []struct{ field, value string }{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
	}
	for _, n := range names {
		if n.value == "" {
			return NewValidationError(n.field, n.field+" is required")
		}
		if len([]rune(n.value)) > MaxNameLength {
			return NewValidationError(n.field, n.field+" is too long")
		}
	}

	return ValidatePassword("password", r.Password)
}

// ValidatePassword checks the length bounds of a new password held in field.
func ValidatePassword(field, password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return NewValidationError(field, "password must be at least 8 characters")
	case len(password) > MaxPasswordLength:
		return NewValidationError(field, "password must be at most 72 bytes")
	}

	return nil
}

// ValidUsername reports whether a username uses only letters, digits and @.+-_ characters.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// Profile is a user as seen by a particular viewer.
type Profile struct {
	User
	IsSubscribed bool
}

// Actor identifies who is performing a request. The zero value is anonymous.
type Actor struct {
	UserID  int64
	TokenID string
}

// Anonymous reports whether the actor carries no authenticated identity.
func (a Actor) Anonymous() bool {
	return a.UserID == 0
}
