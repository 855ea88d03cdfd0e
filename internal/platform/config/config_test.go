package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "foodgram", cfg.App.Name)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "local", cfg.Media.Backend)
	assert.Equal(t, DefaultPageSize, cfg.API.PageSize)
	assert.Equal(t, DefaultMaxPageSize, cfg.API.MaxPageSize)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "warn")
	t.Setenv("APP_AUTH_JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.Auth.JWTSecret)
}

func TestLoad_EnvVarWithUnderscoredKey(t *testing.T) {
	t.Setenv("APP_DATABASE_MAX_OPEN_CONNS", "12")
	t.Setenv("APP_API_PAGE_SIZE", "10")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.API.PageSize)
}

func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}

func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := Load("nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "foodgram", cfg.App.Name)
}

func TestLoad_BoolEnvVar(t *testing.T) {
	t.Setenv("APP_TELEMETRY_ENABLED", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Telemetry.Enabled)
}

func TestLoad_LogFileDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.False(t, cfg.Log.File.Enabled)
	assert.Equal(t, "./logs/app.log", cfg.Log.File.Path)
	assert.Equal(t, DefaultLogFileMaxSizeMB, cfg.Log.File.MaxSizeMB)
	assert.Equal(t, DefaultLogFileMaxBackups, cfg.Log.File.MaxBackups)
	assert.Equal(t, DefaultLogFileMaxAgeDays, cfg.Log.File.MaxAgeDays)
	assert.True(t, cfg.Log.File.Compress)
}

func TestLoad_AuthDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, cfg.Auth.JWTSecret)
	assert.Equal(t, "foodgram", cfg.Auth.Issuer)
	assert.InDelta(t, 1.0, cfg.Auth.LoginRate.RPS, 0.0001)
	assert.Equal(t, 5, cfg.Auth.LoginRate.Burst)
}

func TestEnvKeyMapper(t *testing.T) {
	mapKey := envKeyMapper([]string{"database.max_open_conns", "server.port"})

	assert.Equal(t, "database.max_open_conns", mapKey("APP_DATABASE_MAX_OPEN_CONNS"))
	assert.Equal(t, "server.port", mapKey("APP_SERVER_PORT"))
	assert.Equal(t, "media.s3.bucket", mapKey("APP_MEDIA_S3_BUCKET"))
}

func TestDefaults(t *testing.T) {
	d := defaults()

	assert.Equal(t, "foodgram", d["app.name"])
	assert.Equal(t, DefaultServerPort, d["server.port"])
	assert.Equal(t, "sqlite", d["database.driver"])
	assert.Equal(t, "/media", d["media.base_url"])
	assert.Equal(t, DefaultPageSize, d["api.page_size"])
}
