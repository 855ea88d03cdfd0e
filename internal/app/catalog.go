package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

const tagListCacheKey = "catalog:tags"

// CatalogService serves tags and ingredients. The tag list is cached.
type CatalogService struct {
	tags        ports.TagRepository
	ingredients ports.IngredientRepository
	cache       ports.Cache
	cacheTTL    time.Duration
	authz       ports.Authorizer
	logger      *slog.Logger

	// tagGen is bumped on every invalidation. It is part of the cache key,
	// so a list loaded before a write is never served after it.
	tagGen atomic.Uint64
}

// CatalogConfig tunes the tag cache.
type CatalogConfig struct {
	ServiceConfig
	CacheTTL time.Duration
}

// NewCatalogService creates a CatalogService. cache may be nil.
func NewCatalogService(
	repos Repositories,
	cache ports.Cache,
	authz ports.Authorizer,
	cfg *CatalogConfig,
) *CatalogService {
	var (
		ttl  time.Duration
		base *ServiceConfig
	)
	if cfg != nil {
		ttl = cfg.CacheTTL
		base = &cfg.ServiceConfig
	}

	return &CatalogService{
		tags:        repos.Tags,
		ingredients: repos.Ingredients,
		cache:       cache,
		cacheTTL:    ttl,
		authz:       authz,
		logger:      base.logger("app.CatalogService"),
	}
}

// ListTags returns every tag ordered by name.
func (s *CatalogService) ListTags(ctx context.Context) ([]domain.Tag, error) {
	key := s.tagListKey()
	if tags, ok := s.cachedTags(ctx, key); ok {
		return tags, nil
	}

	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	s.storeTags(ctx, key, tags)

	return tags, nil
}

// GetTag returns one tag.
func (s *CatalogService) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	return s.tags.GetByID(ctx, id)
}

// CreateTag adds a tag and invalidates the cached list.
func (s *CatalogService) CreateTag(ctx context.Context, rc *reqctx.RequestContext, tag domain.Tag) (*domain.Tag, error) {
	if err := authorize(s.authz, rc, 0, ports.ObjectTag, ports.ActionCreate); err != nil {
		return nil, err
	}

	if err := tag.Validate(); err != nil {
		return nil, err
	}

	if err := s.tags.Create(ctx, &tag); err != nil {
		return nil, fmt.Errorf("creating tag: %w", err)
	}

	s.invalidateTags(ctx)

	return &tag, nil
}

// SearchIngredients lists ingredients whose name starts with prefix.
// An empty prefix lists everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, prefix string) ([]domain.Ingredient, error) {
	items, err := s.ingredients.Search(ctx, strings.TrimSpace(prefix))
	if err != nil {
		return nil, fmt.Errorf("searching ingredients: %w", err)
	}

	return items, nil
}

// GetIngredient returns one ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id int64) (*domain.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

// ImportIngredients inserts items that are not present yet.
func (s *CatalogService) ImportIngredients(ctx context.Context, items []domain.Ingredient) (int64, error) {
	for i, it := range items {
		if it.Name == "" || it.MeasurementUnit == "" {
			return 0, domain.NewValidationErrorWithValue("ingredients", "name and measurement_unit are required", i)
		}
	}

	return s.ingredients.Upsert(ctx, items)
}

// ImportTags inserts tags that are not present yet.
func (s *CatalogService) ImportTags(ctx context.Context, tags []domain.Tag) (int64, error) {
	for _, t := range tags {
		if err := t.Validate(); err != nil {
			return 0, err
		}
	}

	n, err := s.tags.Upsert(ctx, tags)
	if err != nil {
		return 0, err
	}

	s.invalidateTags(ctx)

	return n, nil
}

func (s *CatalogService) tagListKey() string {
	return tagListCacheKey + ":" + strconv.FormatUint(s.tagGen.Load(), 10)
}

func (s *CatalogService) cachedTags(ctx context.Context, key string) ([]domain.Tag, bool) {
	if s.cache == nil {
		return nil, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	var tags []domain.Tag
	if err := json.Unmarshal(raw, &tags); err != nil {
		loggerFor(ctx, s.logger).WarnContext(ctx, "dropping corrupt tag cache entry", slog.Any("error", err))
		_ = s.cache.Delete(ctx, key)

		return nil, false
	}

	return tags, true
}

func (s *CatalogService) storeTags(ctx context.Context, key string, tags []domain.Tag) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(tags)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, raw, ttlSeconds(s.cacheTTL)); err != nil {
		loggerFor(ctx, s.logger).WarnContext(ctx, "caching tags failed", slog.Any("error", err))
	}
}

func (s *CatalogService) invalidateTags(ctx context.Context) {
	if s.cache == nil {
		return
	}

	stale := s.tagListKey()
	s.tagGen.Add(1)

	if err := s.cache.Delete(ctx, stale); err != nil {
		loggerFor(ctx, s.logger).WarnContext(ctx, "invalidating tag cache failed", slog.Any("error", err))
	}
}

// ttlSeconds rounds up so a sub-second TTL still expires instead of
// becoming "never".
func ttlSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	return int(math.Ceil(ttl.Seconds()))
}
