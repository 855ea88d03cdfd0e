//go:build integration

package integration

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	httpadapter "github.com/jsamuelsen/foodgram/internal/adapters/http"
	"github.com/jsamuelsen/foodgram/internal/adapters/http/handlers"
	"github.com/jsamuelsen/foodgram/internal/bootstrap"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
	"github.com/jsamuelsen/foodgram/internal/testutil"
)

const stackPassword = "integration-password"

// stack is a complete service listening on a loopback port, backed by a
// SQLite file and a local media directory.
type stack struct {
	t        *testing.T
	cfg      *config.Config
	db       *gorm.DB
	svcs     *bootstrap.Services
	server   *httptest.Server
	client   *http.Client
	mediaDir string
}

func stackConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()

	return &config.Config{
		App: config.AppConfig{Name: "foodgram", Version: "integration", Environment: "test"},
		Server: config.ServerConfig{
			Port:            8080,
			Host:            "127.0.0.1",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			IdleTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RequestTimeout:  10 * time.Second,
			MaxRequestSize:  config.DefaultMaxRequestSize,
		},
		Log: config.LogConfig{Level: "warn", Format: "text"},
		Database: config.DatabaseConfig{
			Driver:       "sqlite",
			DSN:          "file:" + filepath.Join(dir, "foodgram.db") + "?_foreign_keys=on&_busy_timeout=5000",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			AutoMigrate:  true,
			LogLevel:     "silent",
		},
		Auth: config.AuthConfig{
			JWTSecret:    "integration-secret-0123456789abcdef",
			Issuer:       "foodgram",
			TokenTTL:     time.Hour,
			PasswordCost: 4,
			LoginRate:    config.RateLimitConfig{RPS: 1000, Burst: 1000},
		},
		Media: config.MediaConfig{
			Backend: "local",
			BaseURL: httpadapter.MediaPrefix,
			Local:   config.LocalMediaDir{Dir: filepath.Join(dir, "media")},
		},
		API:   config.APIConfig{PageSize: config.DefaultPageSize, MaxPageSize: config.DefaultMaxPageSize},
		Cache: config.CacheConfig{Size: 64, TTL: time.Minute},
	}
}

func startStack(t *testing.T) *stack {
	t.Helper()

	return startStackWith(t, stackConfig(t))
}

func startStackWith(t *testing.T, cfg *config.Config) *stack {
	t.Helper()
	require.NoError(t, cfg.Validate())

	logger := testutil.DiscardLogger()

	db, err := bootstrap.OpenDatabase(&cfg.Database, logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	images, err := bootstrap.OpenImageStore(t.Context(), &cfg.Media)
	require.NoError(t, err)

	svcs, err := bootstrap.NewServices(cfg, db, images, logger)
	require.NoError(t, err)

	health, err := bootstrap.NewHealthRegistry(db, images)
	require.NoError(t, err)

	srv := httpadapter.New(&cfg.Server, logger)
	gin.SetMode(gin.TestMode)
	buildInfo := handlers.NewBuildInfo(cfg.App.Name, cfg.App.Version, "none", "unknown")
	require.NoError(t, bootstrap.SetupRouter(srv.Engine(), cfg, svcs, health, buildInfo, logger))

	server := httptest.NewServer(srv.Handler())
	t.Cleanup(server.Close)

	return &stack{
		t:        t,
		cfg:      cfg,
		db:       db,
		svcs:     svcs,
		server:   server,
		client:   server.Client(),
		mediaDir: cfg.Media.Local.Dir,
	}
}

// call sends body as JSON and returns the status and raw response body.
func (s *stack) call(method, path, token string, body any) (int, []byte) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(s.t.Context(), method, s.server.URL+path, reader)
	require.NoError(s.t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := s.client.Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)

	return resp.StatusCode, out
}

// callInto is call followed by decoding the body into out.
func (s *stack) callInto(method, path, token string, body, out any) int {
	s.t.Helper()

	status, raw := s.call(method, path, token, body)
	if out != nil && len(raw) > 0 && status < http.StatusBadRequest {
		require.NoError(s.t, json.Unmarshal(raw, out), string(raw))
	}

	return status
}

func (s *stack) signUp(username string) (int64, string) {
	s.t.Helper()

	var user struct {
		ID int64 `json:"id"`
	}
	status := s.callInto(http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Integration",
		"last_name":  "Cook",
		"password":   stackPassword,
	}, &user)
	require.Equal(s.t, http.StatusCreated, status)

	var token struct {
		AuthToken string `json:"auth_token"`
	}
	status = s.callInto(http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": stackPassword,
	}, &token)
	require.Equal(s.t, http.StatusOK, status)

	return user.ID, token.AuthToken
}

type createdRecipe struct {
	ID    int64  `json:"id"`
	Image string `json:"image"`
}

// publish creates a recipe using one tag and one ingredient.
func (s *stack) publish(token, name string, tagID, ingredientID int64) createdRecipe {
	s.t.Helper()

	var recipe createdRecipe
	status := s.callInto(http.MethodPost, "/api/recipes", token, recipePayload(name, tagID, ingredientID, 3), &recipe)
	require.Equal(s.t, http.StatusCreated, status)

	return recipe
}

func recipePayload(name string, tagID, ingredientID int64, amount int) map[string]any {
	return map[string]any{
		"name":         name,
		"text":         "Integration recipe.",
		"cooking_time": 15,
		"image":        pngDataURI(),
		"tags":         []int64{tagID},
		"ingredients":  []map[string]any{{"id": ingredientID, "amount": amount}},
	}
}

func pngDataURI() string {
	data := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{7}, 64)...)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

func recipePath(id int64, suffix string) string {
	return fmt.Sprintf("/api/recipes/%d%s", id, suffix)
}
