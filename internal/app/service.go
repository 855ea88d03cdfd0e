// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (register, publish a recipe, build a cart)
//   - Coordinate between domain and infrastructure
//   - Decide access through the Authorizer port
//   - Enforce rules that span multiple entities
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Database queries (that's repository adapters)
//   - Field-level rules (that's the domain layer)
package app

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/logging"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// Repositories bundles the storage ports the services depend on.
//
// Example usage:
//
//	// In main.go
//	repos := app.Repositories{
//	    Users:   gormstore.NewUserRepository(db, logger),
//	    Recipes: gormstore.NewRecipeRepository(db, logger),
//	    ...
//	    Tx:      gormstore.NewTransactor(db),
//	}
//	recipes := app.NewRecipeService(repos, images, authz, &app.ServiceConfig{Logger: logger})
type Repositories struct {
	Users         ports.UserRepository
	Tags          ports.TagRepository
	Ingredients   ports.IngredientRepository
	Recipes       ports.RecipeRepository
	Relations     ports.RecipeRelationRepository
	Subscriptions ports.SubscriptionRepository
	Tokens        ports.TokenRepository
	Tx            ports.Transactor
}

// ServiceConfig holds optional configuration for the services.
type ServiceConfig struct {
	Logger *slog.Logger
}

func (c *ServiceConfig) logger(component string) *slog.Logger {
	logger := slog.Default()
	if c != nil && c.Logger != nil {
		logger = c.Logger
	}

	return logger.With(slog.String("component", component))
}

// loggerFor prefers the request logger placed in ctx by middleware.
func loggerFor(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	return logging.FromContextOr(ctx, fallback)
}

// requireActor fails with an authentication error for anonymous callers.
func requireActor(rc *reqctx.RequestContext) (domain.Actor, error) {
	actor := rc.Actor()
	if actor.Anonymous() {
		return actor, domain.NewUnauthenticatedError("")
	}

	return actor, nil
}

// authorize asks the policy whether the caller may act on a resource owned
// by ownerID. Anonymous callers get an authentication error, others a
// forbidden error.
func authorize(authz ports.Authorizer, rc *reqctx.RequestContext, ownerID int64, object, action string) error {
	actor := rc.Actor()
	role := ports.RoleFor(actor, ownerID)

	ok, err := authz.Allowed(role, object, action)
	if err != nil {
		return err
	}

	if ok {
		return nil
	}

	if actor.Anonymous() {
		return domain.NewUnauthenticatedError("")
	}

	return domain.NewForbiddenError(action+" "+object, "you do not have permission to perform this action")
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
