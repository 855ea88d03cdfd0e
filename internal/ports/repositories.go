package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// Transactor runs fn inside one storage transaction. Repository calls made
// with the ctx handed to fn join that transaction. The transaction rolls
// back when fn returns an error.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// UserRepository persists accounts.
type UserRepository interface {
	// Create stores a new user and fills its ID.
	// Returns domain.ErrConflict if the email or username is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns domain.ErrNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail returns domain.ErrNotFound if no user has this email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.User], error)

	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// TagRepository persists the tag catalog.
type TagRepository interface {
	Create(ctx context.Context, tag *domain.Tag) error
	GetByID(ctx context.Context, id int64) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)

	// GetByIDs returns the tags that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []int64) ([]domain.Tag, error)

	// Upsert inserts tags, skipping names or slugs already present.
	Upsert(ctx context.Context, tags []domain.Tag) (int64, error)
}

// IngredientRepository persists the ingredient catalog.
type IngredientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Ingredient, error)

	// Search lists ingredients whose name starts with prefix, ignoring case.
	Search(ctx context.Context, prefix string) ([]domain.Ingredient, error)

	GetByIDs(ctx context.Context, ids []int64) ([]domain.Ingredient, error)

	// Upsert inserts ingredients, skipping (name, unit) pairs already present.
	// Returns the number of rows inserted.
	Upsert(ctx context.Context, items []domain.Ingredient) (int64, error)
}

// RecipeRepository persists recipes and their join rows. It does not
// enforce aggregate rules; the recipe service does.
type RecipeRepository interface {
	// Insert stores the base recipe row and fills its ID.
	Insert(ctx context.Context, recipe *domain.Recipe) error

	// UpdateFields writes the scalar columns of an existing recipe.
	UpdateFields(ctx context.Context, recipe *domain.Recipe) error

	// ReplaceTags deletes existing tag links and creates one per id.
	ReplaceTags(ctx context.Context, recipeID int64, tagIDs []int64) error

	// ReplaceIngredients deletes existing ingredient links and creates one per item.
	ReplaceIngredients(ctx context.Context, recipeID int64, items []domain.IngredientAmount) error

	// Delete removes the recipe and every row that references it.
	Delete(ctx context.Context, id int64) error

	// GetByID loads the recipe with author, tags and ingredients.
	// Returns domain.ErrNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Recipe, error)

	// Exists reports whether a recipe row exists.
	Exists(ctx context.Context, id int64) (bool, error)

	List(ctx context.Context, filter domain.RecipeFilter, page domain.PageRequest) (domain.Page[domain.Recipe], error)

	// ListByAuthor returns up to limit recipes of the author; limit < 0 means all.
	ListByAuthor(ctx context.Context, authorID int64, limit int) ([]domain.Recipe, error)

	CountByAuthor(ctx context.Context, authorID int64) (int64, error)
}

// RecipeRelationRepository persists favorites and shopping carts.
type RecipeRelationRepository interface {
	// Add returns domain.ErrConflict if the pair already exists for kind.
	Add(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error

	// Remove returns domain.ErrNotFound if the pair does not exist for kind.
	Remove(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) error

	Exists(ctx context.Context, kind domain.RelationKind, userID, recipeID int64) (bool, error)

	// RecipeIDs returns which of recipeIDs the user has in kind.
	RecipeIDs(ctx context.Context, kind domain.RelationKind, userID int64, recipeIDs []int64) (map[int64]bool, error)

	// CartLines returns every ingredient line across the user's cart recipes.
	CartLines(ctx context.Context, userID int64) ([]domain.IngredientLine, error)
}

// SubscriptionRepository persists who follows whom.
type SubscriptionRepository interface {
	// Create returns domain.ErrConflict if the pair exists.
	Create(ctx context.Context, sub *domain.Subscription) error

	// Delete returns domain.ErrNotFound if the pair does not exist.
	Delete(ctx context.Context, userID, authorID int64) error

	Exists(ctx context.Context, userID, authorID int64) (bool, error)

	// AuthorIDs returns which of authorIDs the user follows.
	AuthorIDs(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error)

	// ListAuthors pages over the authors a user follows, ordered by username.
	ListAuthors(ctx context.Context, userID int64, page domain.PageRequest) (domain.Page[domain.User], error)
}

// TokenRepository records revoked auth tokens.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// PurgeExpired drops revocations whose token has expired anyway.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
