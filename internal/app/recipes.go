package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/google/uuid"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// errAggregateMismatch is returned by verification when the stored links
// differ from what was written.
var errAggregateMismatch = errors.New("stored recipe does not match the request")

// RecipeQuery selects recipes for a listing.
type RecipeQuery struct {
	AuthorID      int64
	TagSlugs      []string
	FavoritedOnly bool
	InCartOnly    bool
}

// RecipeService is the recipe aggregate writer and reader. Every write
// touches the recipe row and its tag and ingredient links in one transaction.
type RecipeService struct {
	recipes     ports.RecipeRepository
	tags        ports.TagRepository
	ingredients ports.IngredientRepository
	tx          ports.Transactor
	images      ports.ImageStore
	authz       ports.Authorizer
	view        viewer
	exec        *Executor
	logger      *slog.Logger
}

// NewRecipeService creates a RecipeService.
func NewRecipeService(
	repos Repositories,
	images ports.ImageStore,
	authz ports.Authorizer,
	cfg *ServiceConfig,
) *RecipeService {
	logger := cfg.logger("app.RecipeService")

	return &RecipeService{
		recipes:     repos.Recipes,
		tags:        repos.Tags,
		ingredients: repos.Ingredients,
		tx:          repos.Tx,
		images:      images,
		authz:       authz,
		view:        viewer{subscriptions: repos.Subscriptions, relations: repos.Relations},
		exec:        NewExecutor(logger),
		logger:      logger,
	}
}

// Create publishes a recipe authored by the caller. Nothing is left behind
// when any step fails: the transaction rolls back and the uploaded image is
// removed.
func (s *RecipeService) Create(
	ctx context.Context,
	rc *reqctx.RequestContext,
	draft domain.RecipeDraft,
) (view *domain.RecipeView, err error) {
	defer func() { telemetry.RecipeWritesTotal.WithLabelValues("create", telemetry.Outcome(err)).Inc() }()

	if err := authorize(s.authz, rc, 0, ports.ObjectRecipe, ports.ActionCreate); err != nil {
		return nil, err
	}

	actor := rc.Actor()

	op := Operation[domain.RecipeDraft, int64, *domain.Recipe, *domain.RecipeView]{
		Name: "recipe.create",
		Validate: func(_ context.Context, d domain.RecipeDraft) error {
			return d.Validate()
		},
		Perform: func(ctx context.Context, d domain.RecipeDraft) (int64, error) {
			key := imageKey(d.Image)
			s.stageImage(rc, key, d.Image)

			var id int64
			rc.Stage("persist recipe", func(ctx context.Context) error {
				return s.tx.WithinTx(ctx, func(ctx context.Context) error {
					recipe := &domain.Recipe{
						Author:      domain.User{ID: actor.UserID},
						Name:        d.Name,
						Text:        d.Text,
						CookingTime: d.CookingTime,
						Image:       key,
					}

					if err := s.recipes.Insert(ctx, recipe); err != nil {
						return fmt.Errorf("inserting recipe: %w", err)
					}

					id = recipe.ID

					return s.writeLinks(ctx, recipe.ID, d.TagIDs, d.Ingredients)
				})
			}, nil)

			if err := rc.Commit(ctx); err != nil {
				return 0, err
			}

			return id, nil
		},
		Verify: func(ctx context.Context, d domain.RecipeDraft, id int64) (*domain.Recipe, error) {
			return s.reloadAndCompare(ctx, id, d.TagIDs, d.Ingredients)
		},
		Respond: func(ctx context.Context, _ domain.RecipeDraft, r *domain.Recipe) (*domain.RecipeView, error) {
			return s.view.recipe(ctx, rc, *r)
		},
	}

	return Execute(ctx, s.exec, op, draft)
}

// Update replaces the tag and ingredient links of a recipe and the scalar
// fields present in patch. Only the author may update.
func (s *RecipeService) Update(
	ctx context.Context,
	rc *reqctx.RequestContext,
	id int64,
	patch domain.RecipePatch,
) (view *domain.RecipeView, err error) {
	defer func() { telemetry.RecipeWritesTotal.WithLabelValues("update", telemetry.Outcome(err)).Inc() }()

	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := authorize(s.authz, rc, existing.Author.ID, ports.ObjectRecipe, ports.ActionUpdate); err != nil {
		return nil, err
	}

	op := Operation[domain.RecipePatch, int64, *domain.Recipe, *domain.RecipeView]{
		Name: "recipe.update",
		Validate: func(_ context.Context, p domain.RecipePatch) error {
			return p.Validate()
		},
		Perform: func(ctx context.Context, p domain.RecipePatch) (int64, error) {
			updated := *existing
			applyPatch(&updated, p)

			if p.Image != nil {
				updated.Image = imageKey(p.Image)
				s.stageImage(rc, updated.Image, p.Image)
			}

			rc.Stage("persist recipe", func(ctx context.Context) error {
				return s.tx.WithinTx(ctx, func(ctx context.Context) error {
					if err := s.recipes.UpdateFields(ctx, &updated); err != nil {
						return fmt.Errorf("updating recipe: %w", err)
					}

					return s.writeLinks(ctx, updated.ID, *p.TagIDs, *p.Ingredients)
				})
			}, nil)

			if err := rc.Commit(ctx); err != nil {
				return 0, err
			}

			if p.Image != nil && existing.Image != "" && existing.Image != updated.Image {
				s.discardImage(ctx, existing.Image)
			}

			return updated.ID, nil
		},
		Verify: func(ctx context.Context, p domain.RecipePatch, id int64) (*domain.Recipe, error) {
			return s.reloadAndCompare(ctx, id, *p.TagIDs, *p.Ingredients)
		},
		Respond: func(ctx context.Context, _ domain.RecipePatch, r *domain.Recipe) (*domain.RecipeView, error) {
			return s.view.recipe(ctx, rc, *r)
		},
	}

	return Execute(ctx, s.exec, op, patch)
}

// Delete removes a recipe with its links, favorites and cart entries.
// Only the author may delete.
func (s *RecipeService) Delete(ctx context.Context, rc *reqctx.RequestContext, id int64) (err error) {
	defer func() { telemetry.RecipeWritesTotal.WithLabelValues("delete", telemetry.Outcome(err)).Inc() }()

	existing, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := authorize(s.authz, rc, existing.Author.ID, ports.ObjectRecipe, ports.ActionDelete); err != nil {
		return err
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		return s.recipes.Delete(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting recipe: %w", err)
	}

	if existing.Image != "" {
		s.discardImage(ctx, existing.Image)
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "recipe deleted", slog.Int64("recipe_id", id))

	return nil
}

// Get returns one recipe as seen by the caller.
func (s *RecipeService) Get(ctx context.Context, rc *reqctx.RequestContext, id int64) (*domain.RecipeView, error) {
	recipe, err := s.load(ctx, rc, id)
	if err != nil {
		return nil, err
	}

	return s.view.recipe(ctx, rc, *recipe)
}

// List pages over recipes matching q. The favorite and cart filters match
// nothing for anonymous callers.
func (s *RecipeService) List(
	ctx context.Context,
	rc *reqctx.RequestContext,
	q RecipeQuery,
) (domain.Page[domain.RecipeView], error) {
	var out domain.Page[domain.RecipeView]

	actor := rc.Actor()
	filter := domain.RecipeFilter{AuthorID: q.AuthorID, TagSlugs: q.TagSlugs}

	if q.FavoritedOnly {
		filter.FavoritedBy = actor.UserID
		filter.MatchNothing = actor.Anonymous()
	}

	if q.InCartOnly {
		filter.InCartOf = actor.UserID
		filter.MatchNothing = filter.MatchNothing || actor.Anonymous()
	}

	page, err := s.recipes.List(ctx, filter, rc.Page())
	if err != nil {
		return out, fmt.Errorf("listing recipes: %w", err)
	}

	items, err := s.view.recipes(ctx, rc, page.Items)
	if err != nil {
		return out, err
	}

	return domain.Page[domain.RecipeView]{Items: items, Total: page.Total}, nil
}

// ImageURL resolves a stored image key to its public address.
func (s *RecipeService) ImageURL(key string) string {
	return s.images.URL(key)
}

func (s *RecipeService) load(ctx context.Context, rc *reqctx.RequestContext, id int64) (*domain.Recipe, error) {
	return reqctx.Fetch(ctx, rc, recipeKey(id), func(ctx context.Context) (*domain.Recipe, error) {
		return s.recipes.GetByID(ctx, id)
	})
}

// writeLinks resolves every referenced tag and ingredient and replaces the
// recipe's links. Call it inside a transaction.
func (s *RecipeService) writeLinks(
	ctx context.Context,
	recipeID int64,
	tagIDs []int64,
	items []domain.IngredientAmount,
) error {
	tags, err := s.tags.GetByIDs(ctx, tagIDs)
	if err != nil {
		return fmt.Errorf("resolving tags: %w", err)
	}
	if len(tags) != len(tagIDs) {
		return domain.NewValidationError("tags", domain.MsgTagNotFound)
	}

	if err := s.recipes.ReplaceTags(ctx, recipeID, tagIDs); err != nil {
		return fmt.Errorf("linking tags: %w", err)
	}

	ingredientIDs := make([]int64, len(items))
	for i, it := range items {
		ingredientIDs[i] = it.IngredientID
	}

	found, err := s.ingredients.GetByIDs(ctx, ingredientIDs)
	if err != nil {
		return fmt.Errorf("resolving ingredients: %w", err)
	}
	if len(found) != len(ingredientIDs) {
		return domain.NewValidationError("ingredients", domain.MsgIngredientNotFound)
	}

	if err := s.recipes.ReplaceIngredients(ctx, recipeID, items); err != nil {
		return fmt.Errorf("linking ingredients: %w", err)
	}

	return nil
}

func (s *RecipeService) reloadAndCompare(
	ctx context.Context,
	id int64,
	tagIDs []int64,
	items []domain.IngredientAmount,
) (*domain.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wantTags := slices.Sorted(slices.Values(tagIDs))
	gotTags := slices.Sorted(slices.Values(recipe.TagIDs()))
	if !slices.Equal(wantTags, gotTags) {
		return nil, fmt.Errorf("%w: tags %v, want %v", errAggregateMismatch, gotTags, wantTags)
	}

	if !maps.Equal(amountsByID(items), amountsByID(recipe.IngredientAmounts())) {
		return nil, fmt.Errorf("%w: ingredients differ", errAggregateMismatch)
	}

	return recipe, nil
}

// stageImage queues the upload of img under key; a failed commit deletes it.
func (s *RecipeService) stageImage(rc *reqctx.RequestContext, key string, img *domain.Image) {
	rc.Stage("store image",
		func(ctx context.Context) error {
			return s.images.Save(ctx, key, img.Data, img.ContentType)
		},
		func(ctx context.Context) error {
			return s.images.Delete(ctx, key)
		},
	)
}

// discardImage removes an image that is no longer referenced. Failures are
// logged only; the write has already committed.
func (s *RecipeService) discardImage(ctx context.Context, key string) {
	if err := s.images.Delete(ctx, key); err != nil {
		loggerFor(ctx, s.logger).WarnContext(ctx, "removing old image failed",
			slog.String("key", key),
			slog.Any("error", err),
		)
	}
}

func applyPatch(r *domain.Recipe, p domain.RecipePatch) {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Text != nil {
		r.Text = *p.Text
	}
	if p.CookingTime != nil {
		r.CookingTime = *p.CookingTime
	}
}

func amountsByID(items []domain.IngredientAmount) map[int64]int {
	out := make(map[int64]int, len(items))
	for _, it := range items {
		out[it.IngredientID] = it.Amount
	}

	return out
}

func imageKey(img *domain.Image) string {
	return "recipes/" + uuid.NewString() + img.Extension
}

func recipeKey(id int64) string {
	return "recipe:" + idString(id)
}
