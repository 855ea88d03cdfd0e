// Package testutil provides fixtures shared by service and HTTP tests.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jsamuelsen/foodgram/internal/adapters/persistence/gormstore"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
)

// DiscardLogger returns a logger that writes nowhere.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// DB opens a private in-memory SQLite database with the schema applied.
func DB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gormstore.Open(&config.DatabaseConfig{
		Driver:       "sqlite",
		DSN:          "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		LogLevel:     "silent",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, gormstore.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

// Seed inserts catalog rows and users directly for tests.
type Seed struct {
	db *gorm.DB
}

// NewSeed wraps db.
func NewSeed(db *gorm.DB) *Seed {
	return &Seed{db: db}
}

// Tag creates a tag named name with slug name.
func (s *Seed) Tag(t testing.TB, name string) domain.Tag {
	t.Helper()

	tag := domain.Tag{Name: name, Color: "#49B64E", Slug: name}
	repo := gormstore.NewTagRepository(s.db, DiscardLogger())
	require.NoError(t, repo.Create(context.Background(), &tag))

	return tag
}

// Ingredient creates an ingredient.
func (s *Seed) Ingredient(t testing.TB, name, unit string) domain.Ingredient {
	t.Helper()

	repo := gormstore.NewIngredientRepository(s.db, DiscardLogger())
	_, err := repo.Upsert(context.Background(), []domain.Ingredient{{Name: name, MeasurementUnit: unit}})
	require.NoError(t, err)

	found, err := repo.Search(context.Background(), name)
	require.NoError(t, err)

	for _, it := range found {
		if it.Name == name && it.MeasurementUnit == unit {
			return it
		}
	}

	t.Fatalf("ingredient %s (%s) not stored", name, unit)

	return domain.Ingredient{}
}

// User creates a user with the given username and a placeholder hash.
func (s *Seed) User(t testing.TB, username string) domain.User {
	t.Helper()

	user := domain.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "-",
	}
	repo := gormstore.NewUserRepository(s.db, DiscardLogger())
	require.NoError(t, repo.Create(context.Background(), &user))

	return user
}
