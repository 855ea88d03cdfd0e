package domain

// RelationKind distinguishes the two (user, recipe) lists a user keeps.
// Each kind has its own uniqueness.
type RelationKind string

const (
	Favorites    RelationKind = "favorites"
	ShoppingCart RelationKind = "shopping_cart"
)

// Label is how the kind is named in user-facing messages.
func (k RelationKind) Label() string {
	if k == ShoppingCart {
		return "the shopping cart"
	}

	return "favorites"
}

// AlreadyMessage is the error text for adding a recipe twice.
func (k RelationKind) AlreadyMessage() string {
	return "recipe is already in " + k.Label()
}

// MissingMessage is the error text for removing a recipe that is not there.
func (k RelationKind) MissingMessage() string {
	return "recipe is not in " + k.Label()
}

// Subscription messages returned to API clients.
const (
	MsgSelfSubscription    = "cannot subscribe to yourself"
	MsgAlreadySubscribed   = "already subscribed to this author"
	MsgNotSubscribed       = "not subscribed to this author"
	MsgRecipeNotFound      = "recipe not found"
	MsgInvalidRecipesLimit = "recipes_limit must be a non-negative integer"
)

// Subscription records that User follows Author.
type Subscription struct {
	ID       int64
	UserID   int64
	AuthorID int64
}

// AuthorSummary is a subscribed author with a capped slice of their recipes.
type AuthorSummary struct {
	Profile
	Recipes      []Recipe
	RecipesCount int64
}
