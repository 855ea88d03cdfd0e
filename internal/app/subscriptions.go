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

// enrichConcurrency bounds how many authors of one page load their recipes at once.
const enrichConcurrency = 4

// SubscriptionService follows and unfollows authors.
type SubscriptionService struct {
	users         ports.UserRepository
	recipes       ports.RecipeRepository
	subscriptions ports.SubscriptionRepository
	logger        *slog.Logger
}

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(repos Repositories, cfg *ServiceConfig) *SubscriptionService {
	return &SubscriptionService{
		users:         repos.Users,
		recipes:       repos.Recipes,
		subscriptions: repos.Subscriptions,
		logger:        cfg.logger("app.SubscriptionService"),
	}
}

// Subscribe makes the caller follow authorID and returns the author summary
// with at most recipesLimit recipes; a negative limit means all.
func (s *SubscriptionService) Subscribe(
	ctx context.Context,
	rc *reqctx.RequestContext,
	authorID int64,
	recipesLimit int,
) (*domain.AuthorSummary, error) {
	actor, err := requireActor(rc)
	if err != nil {
		return nil, err
	}

	author, err := s.loadUser(ctx, rc, authorID)
	if err != nil {
		return nil, err
	}

	if author.ID == actor.UserID {
		return nil, domain.NewValidationError("author", domain.MsgSelfSubscription)
	}

	err = s.subscriptions.Create(ctx, &domain.Subscription{UserID: actor.UserID, AuthorID: authorID})
	if err != nil {
		if domain.IsConflict(err) {
			return nil, domain.NewValidationError("author", domain.MsgAlreadySubscribed)
		}
		return nil, fmt.Errorf("subscribing: %w", err)
	}

	telemetry.SubscriptionTogglesTotal.WithLabelValues("subscribe").Inc()

	summary, err := s.summarize(ctx, *author, recipesLimit)
	if err != nil {
		return nil, err
	}
	summary.IsSubscribed = true

	return summary, nil
}

// Unsubscribe stops the caller following authorID.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, rc *reqctx.RequestContext, authorID int64) error {
	actor, err := requireActor(rc)
	if err != nil {
		return err
	}

	if _, err := s.loadUser(ctx, rc, authorID); err != nil {
		return err
	}

	if err := s.subscriptions.Delete(ctx, actor.UserID, authorID); err != nil {
		if domain.IsNotFound(err) {
			return domain.NewValidationError("author", domain.MsgNotSubscribed)
		}
		return fmt.Errorf("unsubscribing: %w", err)
	}

	telemetry.SubscriptionTogglesTotal.WithLabelValues("unsubscribe").Inc()

	return nil
}

// List pages over the authors the caller follows. Authors on the page are
// enriched with their recipes concurrently.
func (s *SubscriptionService) List(
	ctx context.Context,
	rc *reqctx.RequestContext,
	recipesLimit int,
) (domain.Page[domain.AuthorSummary], error) {
	var out domain.Page[domain.AuthorSummary]

	actor, err := requireActor(rc)
	if err != nil {
		return out, err
	}

	page, err := s.subscriptions.ListAuthors(ctx, actor.UserID, rc.Page())
	if err != nil {
		return out, fmt.Errorf("listing subscriptions: %w", err)
	}

	items, err := mapConcurrently(ctx, enrichConcurrency, page.Items,
		func(ctx context.Context, author domain.User) (domain.AuthorSummary, error) {
			summary, err := s.summarize(ctx, author, recipesLimit)
			if err != nil {
				return domain.AuthorSummary{}, err
			}
			summary.IsSubscribed = true

			return *summary, nil
		})
	if err != nil {
		return out, err
	}

	return domain.Page[domain.AuthorSummary]{Items: items, Total: page.Total}, nil
}

func (s *SubscriptionService) summarize(ctx context.Context, author domain.User, recipesLimit int) (*domain.AuthorSummary, error) {
	recipes, count, err := fetchBoth(ctx,
		func(ctx context.Context) ([]domain.Recipe, error) {
			return s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
		},
		func(ctx context.Context) (int64, error) {
			return s.recipes.CountByAuthor(ctx, author.ID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("loading recipes of author %d: %w", author.ID, err)
	}

	return &domain.AuthorSummary{
		Profile:      domain.Profile{User: author},
		Recipes:      recipes,
		RecipesCount: count,
	}, nil
}

func (s *SubscriptionService) loadUser(ctx context.Context, rc *reqctx.RequestContext, id int64) (*domain.User, error) {
	return reqctx.Fetch(ctx, rc, userKey(id), func(ctx context.Context) (*domain.User, error) {
		return s.users.GetByID(ctx, id)
	})
}
