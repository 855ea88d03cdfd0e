// Package gormstore implements the repository ports on top of gorm.
// Postgres is the production driver; SQLite backs tests and local runs.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/config"
)

// Open connects to the configured database and applies pool settings.
func Open(cfg *config.DatabaseConfig, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if logger != nil {
		logger.Info("database connected",
			slog.String("driver", cfg.Driver),
			slog.Int("max_open_conns", cfg.MaxOpenConns),
		)
	}

	return db, nil
}

// Migrate creates or alters every table the repositories use.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&userRow{},
		&tagRow{},
		&ingredientRow{},
		&recipeRow{},
		&recipeTagRow{},
		&recipeIngredientRow{},
		&favoriteRow{},
		&cartRow{},
		&subscriptionRow{},
		&revokedTokenRow{},
	)
	if err != nil {
		return fmt.Errorf("auto migrating: %w", err)
	}

	if err := backfillIngredientNames(db); err != nil {
		return fmt.Errorf("backfilling ingredient names: %w", err)
	}

	return nil
}

// backfillIngredientNames folds names of rows written before name_lower
// existed.
func backfillIngredientNames(db *gorm.DB) error {
	var rows []ingredientRow

	return db.Where("name_lower = ? AND name <> ?", "", "").
		FindInBatches(&rows, 500, func(tx *gorm.DB, _ int) error {
			for i := range rows {
				err := tx.Model(&rows[i]).Update("name_lower", strings.ToLower(rows[i].Name)).Error
				if err != nil {
					return err
				}
			}

			return nil
		}).Error
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "info":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Silent
	}
}

type txKey struct{}

// Transactor implements ports.Transactor with gorm transactions carried in the context.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor over db.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTx runs fn in a transaction. A ctx already inside a transaction joins it.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction bound to ctx, or db when there is none.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}

	return db.WithContext(ctx)
}

// translate maps gorm errors to domain errors.
func translate(err error, entity, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.NewNotFoundError(entity, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictError(entity, "already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return domain.NewValidationError(entity, "references a missing record")
	default:
		return err
	}
}

// HealthChecker reports database reachability to the health registry.
type HealthChecker struct {
	db *gorm.DB
}

// NewHealthChecker creates a checker that pings db.
func NewHealthChecker(db *gorm.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Name implements ports.HealthChecker.
func (h *HealthChecker) Name() string { return "database" }

// Check implements ports.HealthChecker.
func (h *HealthChecker) Check(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return domain.NewUnavailableError("database", err.Error())
	}

	return nil
}
