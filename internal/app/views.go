package app

import (
	"context"
	"fmt"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// viewer computes the caller-relative flags shown with users and recipes.
// Anonymous callers see every flag as false.
type viewer struct {
	subscriptions ports.SubscriptionRepository
	relations     ports.RecipeRelationRepository
}

func (v viewer) profiles(ctx context.Context, rc *reqctx.RequestContext, users []domain.User) ([]domain.Profile, error) {
	out := make([]domain.Profile, len(users))
	for i := range users {
		out[i] = domain.Profile{User: users[i]}
	}

	actor := rc.Actor()
	if actor.Anonymous() || len(users) == 0 {
		return out, nil
	}

	ids := make([]int64, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}

	followed, err := v.subscriptions.AuthorIDs(ctx, actor.UserID, ids)
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions: %w", err)
	}

	for i := range out {
		out[i].IsSubscribed = followed[out[i].ID]
	}

	return out, nil
}

func (v viewer) profile(ctx context.Context, rc *reqctx.RequestContext, user domain.User) (*domain.Profile, error) {
	out, err := v.profiles(ctx, rc, []domain.User{user})
	if err != nil {
		return nil, err
	}

	return &out[0], nil
}

func (v viewer) recipes(ctx context.Context, rc *reqctx.RequestContext, recipes []domain.Recipe) ([]domain.RecipeView, error) {
	out := make([]domain.RecipeView, len(recipes))
	for i := range recipes {
		out[i] = domain.RecipeView{Recipe: recipes[i]}
	}

	actor := rc.Actor()
	if actor.Anonymous() || len(recipes) == 0 {
		return out, nil
	}

	recipeIDs := make([]int64, 0, len(recipes))
	authorIDs := make([]int64, 0, len(recipes))
	seenAuthor := make(map[int64]bool, len(recipes))

	for i := range recipes {
		recipeIDs = append(recipeIDs, recipes[i].ID)
		if a := recipes[i].Author.ID; !seenAuthor[a] {
			seenAuthor[a] = true
			authorIDs = append(authorIDs, a)
		}
	}

	favorites, cart, err := fetchBoth(ctx,
		func(ctx context.Context) (map[int64]bool, error) {
			return v.relations.RecipeIDs(ctx, domain.Favorites, actor.UserID, recipeIDs)
		},
		func(ctx context.Context) (map[int64]bool, error) {
			return v.relations.RecipeIDs(ctx, domain.ShoppingCart, actor.UserID, recipeIDs)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading recipe flags: %w", err)
	}

	followed, err := v.subscriptions.AuthorIDs(ctx, actor.UserID, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("loading subscriptions: %w", err)
	}

	for i := range out {
		out[i].IsFavorited = favorites[out[i].ID]
		out[i].IsInShoppingCart = cart[out[i].ID]
		out[i].AuthorSubscribed = followed[out[i].Author.ID]
	}

	return out, nil
}

func (v viewer) recipe(ctx context.Context, rc *reqctx.RequestContext, recipe domain.Recipe) (*domain.RecipeView, error) {
	out, err := v.recipes(ctx, rc, []domain.Recipe{recipe})
	if err != nil {
		return nil, err
	}

	return &out[0], nil
}
