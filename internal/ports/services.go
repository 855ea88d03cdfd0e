// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter for cancellation and deadlines
//   - Return domain types, never storage rows or SDK types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// Cache defines the contract for caching operations.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}

// ImageStore keeps uploaded recipe images.
type ImageStore interface {
	// Save writes data under key.
	Save(ctx context.Context, key string, data []byte, contentType string) error

	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public address of key.
	URL(key string) string
}

// PasswordHasher hashes and checks user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)

	// Compare returns an error if password does not match hash.
	Compare(hash, password string) error
}

// TokenClaims is the verified content of an auth token.
type TokenClaims struct {
	UserID    int64
	TokenID   string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies auth tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, error)

	// Verify returns domain.ErrUnauthenticated for malformed, forged or expired tokens.
	Verify(token string) (*TokenClaims, error)
}

// Role is the relation of an actor to a resource.
type Role string

// Roles understood by the Authorizer.
const (
	RoleAnonymous     Role = "anonymous"
	RoleAuthenticated Role = "authenticated"
	RoleOwner         Role = "owner"
)

// Objects and actions named in the access policy.
const (
	ObjectRecipe     = "recipe"
	ObjectTag        = "tag"
	ObjectIngredient = "ingredient"
	ObjectUser       = "user"

	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Authorizer decides whether a role may perform action on object.
type Authorizer interface {
	Allowed(role Role, object, action string) (bool, error)
}

// RoleFor derives the role of actor toward a resource owned by ownerID.
func RoleFor(actor domain.Actor, ownerID int64) Role {
	switch {
	case actor.Anonymous():
		return RoleAnonymous
	case actor.UserID == ownerID:
		return RoleOwner
	default:
		return RoleAuthenticated
	}
}
