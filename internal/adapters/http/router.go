package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/handlers"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/middleware"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
)

// MediaPrefix is where locally stored images are served.
const MediaPrefix = "/media"

// Handlers groups the endpoint handlers mounted by SetupRouter.
type Handlers struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Users         *handlers.UserHandler
	Subscriptions *handlers.SubscriptionHandler
	Catalog       *handlers.CatalogHandler
	Recipes       *handlers.RecipeHandler
}

// RouterConfig contains everything SetupRouter needs.
type RouterConfig struct {
	Logger *slog.Logger

	App    config.AppConfig
	Server config.ServerConfig
	API    config.APIConfig
	Media  config.MediaConfig

	// Authenticator resolves Authorization tokens to actors.
	Authenticator middleware.Authenticator

	// LoginLimiter throttles POST /api/auth/token/login. Nil disables it.
	LoginLimiter *middleware.RateLimiter

	Handlers Handlers
}

// SetupRouter installs middleware and routes on engine.
// Global middleware, first to last:
//  1. Recovery
//  2. Logging (stores the request logger; skips /-/ and media)
//  3. Request ID and correlation ID
//  4. Tracing and HTTP metrics
//  5. CORS
//
// The /api group adds the request deadline, token authentication and the
// per-request context. /-/ carries the ops endpoints.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(),
		middleware.Logging(cfg.Logger, MediaPrefix+"/"),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.Middleware(cfg.App.Name, middleware.OpsPathPrefix, MediaPrefix+"/"),
		telemetry.TraceHeader(),
		middleware.CORS(cfg.Server.CORS),
	)

	if cfg.Handlers.Health != nil {
		cfg.Handlers.Health.Register(engine.Group("/-"))
	}

	if cfg.Media.Backend == "local" && cfg.Media.Local.Dir != "" {
		engine.Static(MediaPrefix, cfg.Media.Local.Dir)
	}

	engine.NoRoute(func(c *gin.Context) {
		dto.AbortWithErrorCode(c, dto.ErrorCodeNotFound, "resource not found")
	})

	api := engine.Group("/api")
	api.Use(
		middleware.Timeout(cfg.Server.RequestTimeout),
		middleware.Authenticate(cfg.Authenticator),
		middleware.RequestContext(dto.Paging{DefaultSize: cfg.API.PageSize, MaxSize: cfg.API.MaxPageSize}),
	)

	setupAPIRoutes(api, cfg)
}

// setupAPIRoutes registers the resource endpoints. Static segments such as
// /users/me coexist with the :id parameter routes.
func setupAPIRoutes(api *gin.RouterGroup, cfg RouterConfig) {
	h := cfg.Handlers
	auth := middleware.RequireAuth()

	login := []gin.HandlerFunc{h.Auth.Login}
	if cfg.LoginLimiter != nil {
		login = append([]gin.HandlerFunc{middleware.RateLimit(cfg.LoginLimiter)}, login...)
	}

	tokens := api.Group("/auth/token")
	tokens.POST("/login", login...)
	tokens.POST("/logout", auth, h.Auth.Logout)

	users := api.Group("/users")
	users.GET("", h.Users.List)
	users.POST("", h.Users.Register)
	users.GET("/me", auth, h.Users.Me)
	users.POST("/set_password", auth, h.Users.SetPassword)
	users.GET("/subscriptions", auth, h.Subscriptions.List)
	users.GET("/:id", h.Users.Get)
	users.POST("/:id/subscribe", auth, h.Subscriptions.Subscribe)
	users.DELETE("/:id/subscribe", auth, h.Subscriptions.Unsubscribe)

	tags := api.Group("/tags")
	tags.GET("", h.Catalog.ListTags)
	tags.POST("", auth, h.Catalog.CreateTag)
	tags.GET("/:id", h.Catalog.GetTag)

	ingredients := api.Group("/ingredients")
	ingredients.GET("", h.Catalog.ListIngredients)
	ingredients.GET("/:id", h.Catalog.GetIngredient)

	recipes := api.Group("/recipes")
	recipes.GET("", h.Recipes.List)
	recipes.POST("", auth, h.Recipes.Create)
	recipes.GET("/download_shopping_cart", auth, h.Recipes.DownloadShoppingCart)
	recipes.GET("/:id", h.Recipes.Get)
	recipes.PATCH("/:id", auth, h.Recipes.Update)
	recipes.DELETE("/:id", auth, h.Recipes.Delete)
	recipes.POST("/:id/favorite", auth, h.Recipes.AddFavorite)
	recipes.DELETE("/:id/favorite", auth, h.Recipes.RemoveFavorite)
	recipes.POST("/:id/shopping_cart", auth, h.Recipes.AddToCart)
	recipes.DELETE("/:id/shopping_cart", auth, h.Recipes.RemoveFromCart)
}
