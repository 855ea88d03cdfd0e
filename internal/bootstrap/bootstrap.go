// Package bootstrap assembles the service from its configuration: storage,
// security, application services and the HTTP router.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jsamuelsen/foodgram/internal/adapters/cache"
	httpadapter "github.com/jsamuelsen/foodgram/internal/adapters/http"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/handlers"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/adapters/persistence/gormstore"
	"github.com/jsamuelsen/foodgram/internal/adapters/security"
	"github.com/jsamuelsen/foodgram/internal/adapters/storage"
	"github.com/jsamuelsen/foodgram/internal/app"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
	"github.com/jsamuelsen/foodgram/internal/platform/logging"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// ImageStore is a ports.ImageStore that can also report its health.
type ImageStore interface {
	ports.ImageStore
	ports.HealthChecker
}

// Services are the application services behind the API.
type Services struct {
	Users         *app.UserService
	Auth          *app.AuthService
	Catalog       *app.CatalogService
	Recipes       *app.RecipeService
	Relations     *app.RelationService
	Subscriptions *app.SubscriptionService
}

// LoadConfig reads and validates the configuration for profile.
func LoadConfig(profile string) (*config.Config, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// NewLogger builds the process logger. service names the binary in every
// line, so the API and the loaddata tool can share one log file.
func NewLogger(cfg *config.Config, service string) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: service,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// CloseDatabase releases the connection pool behind db.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// OpenDatabase connects to the configured database and, when enabled,
// applies the schema.
func OpenDatabase(cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gormstore.Open(cfg, logger)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := gormstore.Migrate(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// OpenImageStore returns the configured media backend.
func OpenImageStore(ctx context.Context, cfg *config.MediaConfig) (ImageStore, error) {
	var (
		store ImageStore
		err   error
	)

	switch cfg.Backend {
	case "s3":
		store, err = storage.NewS3Store(ctx, &cfg.S3, cfg.BaseURL)
	case "local":
		store, err = storage.NewLocalStore(cfg.Local.Dir, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	return store, nil
}

// Repositories returns the gorm-backed repositories over db.
func Repositories(db *gorm.DB, logger *slog.Logger) app.Repositories {
	return app.Repositories{
		Users:         gormstore.NewUserRepository(db, logger),
		Tags:          gormstore.NewTagRepository(db, logger),
		Ingredients:   gormstore.NewIngredientRepository(db, logger),
		Recipes:       gormstore.NewRecipeRepository(db, logger),
		Relations:     gormstore.NewRelationRepository(db, logger),
		Subscriptions: gormstore.NewSubscriptionRepository(db, logger),
		Tokens:        gormstore.NewTokenRepository(db, logger),
		Tx:            gormstore.NewTransactor(db),
	}
}

// NewServices builds the application services.
func NewServices(cfg *config.Config, db *gorm.DB, images ports.ImageStore, logger *slog.Logger) (*Services, error) {
	repos := Repositories(db, logger)

	authz, err := security.NewPolicyAuthorizer()
	if err != nil {
		return nil, err
	}

	tokens, err := security.NewTokenManager(&cfg.Auth)
	if err != nil {
		return nil, err
	}

	tagCache, err := cache.NewLRU(cfg.Cache.Size)
	if err != nil {
		return nil, err
	}

	hasher := security.NewBcryptHasher(cfg.Auth.PasswordCost)
	svcCfg := &app.ServiceConfig{Logger: logger}

	return &Services{
		Users:         app.NewUserService(repos, hasher, authz, svcCfg),
		Auth:          app.NewAuthService(repos, hasher, tokens, svcCfg),
		Catalog:       app.NewCatalogService(repos, tagCache, authz, &app.CatalogConfig{ServiceConfig: *svcCfg, CacheTTL: cfg.Cache.TTL}),
		Recipes:       app.NewRecipeService(repos, images, authz, svcCfg),
		Relations:     app.NewRelationService(repos, svcCfg),
		Subscriptions: app.NewSubscriptionService(repos, svcCfg),
	}, nil
}

// NewHealthRegistry registers the database and the media store.
func NewHealthRegistry(db *gorm.DB, images ImageStore) (*ports.DefaultHealthRegistry, error) {
	registry := ports.NewHealthRegistry()

	for _, checker := range []ports.HealthChecker{gormstore.NewHealthChecker(db), images} {
		if err := registry.Register(checker); err != nil {
			return nil, fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	return registry, nil
}

// SetupRouter mounts the whole API on engine.
func SetupRouter(
	engine *gin.Engine,
	cfg *config.Config,
	svcs *Services,
	health ports.HealthRegistry,
	buildInfo handlers.BuildInfo,
	logger *slog.Logger,
) error {
	limiter, err := middleware.NewRateLimiter(cfg.Auth.LoginRate.RPS, cfg.Auth.LoginRate.Burst, 0)
	if err != nil {
		return err
	}

	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		App:           cfg.App,
		Server:        cfg.Server,
		API:           cfg.API,
		Media:         cfg.Media,
		Authenticator: svcs.Auth,
		LoginLimiter:  limiter,
		Handlers: httpadapter.Handlers{
			Health:        handlers.NewHealthHandler(health, buildInfo),
			Auth:          handlers.NewAuthHandler(svcs.Auth),
			Users:         handlers.NewUserHandler(svcs.Users),
			Subscriptions: handlers.NewSubscriptionHandler(svcs.Subscriptions, svcs.Recipes.ImageURL),
			Catalog:       handlers.NewCatalogHandler(svcs.Catalog),
			Recipes:       handlers.NewRecipeHandler(svcs.Recipes, svcs.Relations),
		},
	})

	return nil
}
