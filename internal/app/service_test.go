package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/foodgram/internal/adapters/cache"
	"github.com/jsamuelsen/foodgram/internal/adapters/persistence/gormstore"
	"github.com/jsamuelsen/foodgram/internal/adapters/security"
	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
	"github.com/jsamuelsen/foodgram/internal/testutil"
)

// mockImageStore is a testify mock of ports.ImageStore.
type mockImageStore struct {
	mock.Mock
}

func (m *mockImageStore) Save(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *mockImageStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockImageStore) URL(key string) string {
	return "/media/" + key
}

type services struct {
	db            *gorm.DB
	seed          *testutil.Seed
	repos         Repositories
	images        *mockImageStore
	cache         *cache.LRU
	users         *UserService
	auth          *AuthService
	catalog       *CatalogService
	recipes       *RecipeService
	relations     *RelationService
	subscriptions *SubscriptionService
	hasher        *security.BcryptHasher
	tokens        *security.TokenManager
}

func newServices(t *testing.T) *services {
	t.Helper()

	db := testutil.DB(t)
	logger := testutil.DiscardLogger()

	repos := Repositories{
		Users:         gormstore.NewUserRepository(db, logger),
		Tags:          gormstore.NewTagRepository(db, logger),
		Ingredients:   gormstore.NewIngredientRepository(db, logger),
		Recipes:       gormstore.NewRecipeRepository(db, logger),
		Relations:     gormstore.NewRelationRepository(db, logger),
		Subscriptions: gormstore.NewSubscriptionRepository(db, logger),
		Tokens:        gormstore.NewTokenRepository(db, logger),
		Tx:            gormstore.NewTransactor(db),
	}

	authz, err := security.NewPolicyAuthorizer()
	require.NoError(t, err)

	tokens, err := security.NewTokenManager(&config.AuthConfig{
		JWTSecret: "0123456789abcdef0123456789abcdef",
		Issuer:    "foodgram-test",
		TokenTTL:  time.Hour,
	})
	require.NoError(t, err)

	lru, err := cache.NewLRU(16)
	require.NoError(t, err)

	hasher := security.NewBcryptHasher(4)
	images := &mockImageStore{}
	cfg := &ServiceConfig{Logger: logger}

	return &services{
		db:            db,
		seed:          testutil.NewSeed(db),
		repos:         repos,
		images:        images,
		cache:         lru,
		users:         NewUserService(repos, hasher, authz, cfg),
		auth:          NewAuthService(repos, hasher, tokens, cfg),
		catalog:       NewCatalogService(repos, lru, authz, &CatalogConfig{ServiceConfig: *cfg, CacheTTL: time.Minute}),
		recipes:       NewRecipeService(repos, images, authz, cfg),
		relations:     NewRelationService(repos, cfg),
		subscriptions: NewSubscriptionService(repos, cfg),
		hasher:        hasher,
		tokens:        tokens,
	}
}

var firstPage = domain.PageRequest{Number: 1, Size: 10}

func as(user domain.User) *reqctx.RequestContext {
	return reqctx.New(domain.Actor{UserID: user.ID}, firstPage)
}

func anonymous() *reqctx.RequestContext {
	return reqctx.New(domain.Actor{}, firstPage)
}

func pngImage() *domain.Image {
	return &domain.Image{Data: []byte("\x89PNG\r\n\x1a\n"), ContentType: "image/png", Extension: ".png"}
}

// publish creates a recipe through the service with the image store accepting writes.
func (s *services) publish(
	t *testing.T,
	author domain.User,
	name string,
	tags []domain.Tag,
	items ...domain.IngredientAmount,
) *domain.RecipeView {
	t.Helper()

	s.images.On("Save", mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil).Maybe()

	tagIDs := make([]int64, len(tags))
	for i, tag := range tags {
		tagIDs[i] = tag.ID
	}

	view, err := s.recipes.Create(context.Background(), as(author), domain.RecipeDraft{
		Name:        name,
		Text:        "mix and bake",
		CookingTime: 30,
		Image:       pngImage(),
		TagIDs:      tagIDs,
		Ingredients: items,
	})
	require.NoError(t, err)

	return view
}
