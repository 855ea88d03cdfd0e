package http

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/foodgram/internal/platform/config"
)

func testServerConfig(port int) *config.ServerConfig {
	return &config.ServerConfig{
		Host:           "127.0.0.1",
		Port:           port,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    30 * time.Second,
		MaxRequestSize: 1 << 20,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	srv := New(testServerConfig(8080), discardLogger())

	require.NotNil(t, srv.Engine())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())
	assert.False(t, srv.Engine().RedirectTrailingSlash)
}

func TestServer_Addr_IPv6(t *testing.T) {
	cfg := testServerConfig(9000)
	cfg.Host = "::1"

	assert.Equal(t, "[::1]:9000", New(cfg, discardLogger()).Addr())
}

func TestServer_TrailingSlash(t *testing.T) {
	srv := New(testServerConfig(0), discardLogger())
	srv.Engine().GET("/api/tags", func(c *gin.Context) { c.String(http.StatusOK, c.Request.URL.Path) })
	srv.Engine().GET("/", func(c *gin.Context) { c.String(http.StatusOK, "root") })

	tests := []struct {
		path string
		want string
	}{
		{path: "/api/tags", want: "/api/tags"},
		{path: "/api/tags/", want: "/api/tags"},
		{path: "/", want: "root"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestServer_MaxBodySize(t *testing.T) {
	cfg := testServerConfig(0)
	cfg.MaxRequestSize = 100

	srv := New(cfg, discardLogger())
	srv.Engine().POST("/echo", func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})

	t.Run("under limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hello")))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Body.String())
	})

	t.Run("over limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(make([]byte, 101))))

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})
}

func TestServer_StartShutdown(t *testing.T) {
	srv := New(testServerConfig(0), discardLogger())

	errCh := srv.Start()
	time.Sleep(50 * time.Millisecond)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open, "error channel closes after shutdown")
}
