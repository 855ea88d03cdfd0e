package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// RelationService toggles favorites and shopping-cart entries and builds
// the shopping list.
type RelationService struct {
	recipes   ports.RecipeRepository
	relations ports.RecipeRelationRepository
	logger    *slog.Logger
}

// NewRelationService creates a RelationService.
func NewRelationService(repos Repositories, cfg *ServiceConfig) *RelationService {
	return &RelationService{
		recipes:   repos.Recipes,
		relations: repos.Relations,
		logger:    cfg.logger("app.RelationService"),
	}
}

// Add puts a recipe into the caller's list of kind and returns the recipe.
// A missing recipe or a recipe already in the list is a validation error.
func (s *RelationService) Add(
	ctx context.Context,
	rc *reqctx.RequestContext,
	kind domain.RelationKind,
	recipeID int64,
) (*domain.Recipe, error) {
	actor, err := requireActor(rc)
	if err != nil {
		return nil, err
	}

	recipe, err := s.recipes.GetByID(ctx, recipeID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewValidationErrorWithValue("id", domain.MsgRecipeNotFound, recipeID)
		}
		return nil, err
	}

	exists, err := s.relations.Exists(ctx, kind, actor.UserID, recipeID)
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", kind, err)
	}
	if exists {
		return nil, domain.NewValidationError("id", kind.AlreadyMessage())
	}

	if err := s.relations.Add(ctx, kind, actor.UserID, recipeID); err != nil {
		if domain.IsConflict(err) {
			return nil, domain.NewValidationError("id", kind.AlreadyMessage())
		}
		return nil, fmt.Errorf("adding to %s: %w", kind, err)
	}

	telemetry.RelationTogglesTotal.WithLabelValues(string(kind), "add").Inc()
	loggerFor(ctx, s.logger).DebugContext(ctx, "recipe added",
		slog.String("kind", string(kind)),
		slog.Int64("recipe_id", recipeID),
	)

	return recipe, nil
}

// Remove takes a recipe out of the caller's list of kind. A missing recipe
// is not found; a recipe not in the list is a validation error.
func (s *RelationService) Remove(
	ctx context.Context,
	rc *reqctx.RequestContext,
	kind domain.RelationKind,
	recipeID int64,
) error {
	actor, err := requireActor(rc)
	if err != nil {
		return err
	}

	exists, err := s.recipes.Exists(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("checking recipe: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("recipe", idString(recipeID))
	}

	if err := s.relations.Remove(ctx, kind, actor.UserID, recipeID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidationError("id", kind.MissingMessage())
		}
		return fmt.Errorf("removing from %s: %w", kind, err)
	}

	telemetry.RelationTogglesTotal.WithLabelValues(string(kind), "remove").Inc()

	return nil
}

// ShoppingList sums the ingredients of every recipe in the caller's cart.
func (s *RelationService) ShoppingList(ctx context.Context, rc *reqctx.RequestContext) (domain.ShoppingList, error) {
	actor, err := requireActor(rc)
	if err != nil {
		return domain.ShoppingList{}, err
	}

	lines, err := s.relations.CartLines(ctx, actor.UserID)
	if err != nil {
		return domain.ShoppingList{}, fmt.Errorf("loading cart: %w", err)
	}

	telemetry.ShoppingListDownloadsTotal.Inc()

	return domain.BuildShoppingList(lines), nil
}
