package benchmark

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/jsamuelsen/foodgram/internal/adapters/http"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/handlers"
	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/bootstrap"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
	"github.com/jsamuelsen/foodgram/internal/ports"
	"github.com/jsamuelsen/foodgram/internal/testutil"
)

func init() {
	// Set Gin to release mode for accurate benchmarks
	gin.SetMode(gin.ReleaseMode)
}

// createGinContext creates a Gin context for handler testing.
func createGinContext(w http.ResponseWriter, r *http.Request) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Request = r
	return c
}

// setupHealthHandler creates a HealthHandler with two passing checks.
func setupHealthHandler(b *testing.B) *handlers.HealthHandler {
	b.Helper()

	registry := ports.NewHealthRegistry()
	require.NoError(b, registry.Register(&simpleHealthChecker{name: "database"}))
	require.NoError(b, registry.Register(&simpleHealthChecker{name: "images"}))

	buildInfo := handlers.NewBuildInfo("foodgram", "1.0.0", "abc123", "2024-01-01T00:00:00Z")

	return handlers.NewHealthHandler(registry, buildInfo)
}

// BenchmarkLivenessHandler measures the liveness probe.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := setupHealthHandler(b)
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		handler.Liveness(createGinContext(w, req))
	}
}

// BenchmarkReadinessHandler measures readiness including the registered checks.
func BenchmarkReadinessHandler(b *testing.B) {
	handler := setupHealthHandler(b)
	req := httptest.NewRequest(http.MethodGet, "/-/ready", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		w := httptest.NewRecorder()
		handler.Readiness(createGinContext(w, req))
	}
}

// apiBench is the full router over an in-memory database holding one
// author with a page of recipes.
type apiBench struct {
	handler  http.Handler
	token    string
	recipeID int64
}

func setupAPI(b *testing.B, recipes int) *apiBench {
	b.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Name: "foodgram", Version: "bench", Environment: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 10 * time.Second,
			MaxRequestSize: config.DefaultMaxRequestSize,
		},
		Auth: config.AuthConfig{
			JWTSecret:    "benchmark-secret-0123456789abcdef",
			Issuer:       "foodgram",
			TokenTTL:     time.Hour,
			PasswordCost: 4,
			LoginRate:    config.RateLimitConfig{RPS: 1e6, Burst: 1e6},
		},
		Media: config.MediaConfig{Backend: "local", BaseURL: "/media", Local: config.LocalMediaDir{Dir: b.TempDir()}},
		API:   config.APIConfig{PageSize: config.DefaultPageSize, MaxPageSize: config.DefaultMaxPageSize},
		Cache: config.CacheConfig{Size: 64, TTL: time.Minute},
	}

	logger := testutil.DiscardLogger()
	db := testutil.DB(b)

	images, err := bootstrap.OpenImageStore(context.Background(), &cfg.Media)
	require.NoError(b, err)

	svcs, err := bootstrap.NewServices(cfg, db, images, logger)
	require.NoError(b, err)

	health, err := bootstrap.NewHealthRegistry(db, images)
	require.NoError(b, err)

	srv := httpadapter.New(&cfg.Server, logger)
	gin.SetMode(gin.ReleaseMode)
	buildInfo := handlers.NewBuildInfo(cfg.App.Name, cfg.App.Version, "none", "unknown")
	require.NoError(b, bootstrap.SetupRouter(srv.Engine(), cfg, svcs, health, buildInfo, logger))

	ctx := context.Background()
	_, err = svcs.Users.Register(ctx, reqctx.Anonymous(), domain.Registration{
		Email:     "bench@example.com",
		Username:  "bench",
		FirstName: "Bench",
		LastName:  "Mark",
		Password:  "benchmark-password",
	})
	require.NoError(b, err)

	token, err := svcs.Auth.Login(ctx, "bench@example.com", "benchmark-password")
	require.NoError(b, err)

	seed := testutil.NewSeed(db)
	tag := seed.Tag(b, "breakfast")
	flour := seed.Ingredient(b, "flour", "g")
	milk := seed.Ingredient(b, "milk", "ml")

	image := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("\x89PNG\r\n\x1a\nbench"))
	api := &apiBench{handler: srv.Handler(), token: token}

	for i := range recipes {
		body, err := json.Marshal(map[string]any{
			"name":         fmt.Sprintf("Pancakes %03d", i),
			"text":         "Mix and fry.",
			"cooking_time": 10 + i,
			"image":        image,
			"tags":         []int64{tag.ID},
			"ingredients": []map[string]any{
				{"id": flour.ID, "amount": 2},
				{"id": milk.ID, "amount": 3},
			},
		})
		require.NoError(b, err)

		w := api.serve(http.MethodPost, "/api/recipes", body)
		require.Equal(b, http.StatusCreated, w.Code, w.Body.String())

		var created struct {
			ID int64 `json:"id"`
		}
		require.NoError(b, json.Unmarshal(w.Body.Bytes(), &created))
		api.recipeID = created.ID

		w = api.serve(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart", created.ID), nil)
		require.Equal(b, http.StatusCreated, w.Code)
	}

	return api
}

func (a *apiBench) serve(method, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Token "+a.token)

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)

	return w
}

// BenchmarkRecipeList measures one authenticated page of the recipe feed.
func BenchmarkRecipeList(b *testing.B) {
	api := setupAPI(b, 30)

	b.ReportAllocs()

	for b.Loop() {
		if w := api.serve(http.MethodGet, "/api/recipes?limit=6&page=2", nil); w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// BenchmarkRecipeDetail measures loading a single recipe view.
func BenchmarkRecipeDetail(b *testing.B) {
	api := setupAPI(b, 1)
	path := fmt.Sprintf("/api/recipes/%d", api.recipeID)

	b.ReportAllocs()

	for b.Loop() {
		if w := api.serve(http.MethodGet, path, nil); w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// BenchmarkDownloadShoppingCart measures aggregating a cart of 30 recipes.
func BenchmarkDownloadShoppingCart(b *testing.B) {
	api := setupAPI(b, 30)

	b.ReportAllocs()

	for b.Loop() {
		if w := api.serve(http.MethodGet, "/api/recipes/download_shopping_cart", nil); w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// BenchmarkTagListCached measures the cached catalog path.
func BenchmarkTagListCached(b *testing.B) {
	api := setupAPI(b, 0)

	b.ReportAllocs()

	for b.Loop() {
		if w := api.serve(http.MethodGet, "/api/tags", nil); w.Code != http.StatusOK {
			b.Fatalf("status %d", w.Code)
		}
	}
}

// BenchmarkBuildShoppingList measures grouping and rendering without I/O.
func BenchmarkBuildShoppingList(b *testing.B) {
	lines := make([]domain.IngredientLine, 0, 1000)
	for i := range 1000 {
		lines = append(lines, domain.IngredientLine{
			Name:   fmt.Sprintf("ingredient %d", i%150),
			Unit:   []string{"g", "ml", "pcs"}[i%3],
			Amount: i%100 + 1,
		})
	}

	b.ReportAllocs()

	for b.Loop() {
		_ = domain.BuildShoppingList(lines).Render()
	}
}

// simpleHealthChecker is a minimal health checker for benchmarking.
type simpleHealthChecker struct {
	name string
}

func (s *simpleHealthChecker) Name() string {
	return s.name
}

func (s *simpleHealthChecker) Check(_ context.Context) error {
	return nil
}
