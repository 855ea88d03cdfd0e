package gormstore

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository implements ports.TokenRepository.
type TokenRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewTokenRepository creates a TokenRepository.
func NewTokenRepository(db *gorm.DB, logger *slog.Logger) *TokenRepository {
	return &TokenRepository{db: db, logger: logger.With(slog.String("repo", "revoked_tokens"))}
}

// Revoke records tokenID as logged out. Revoking twice is a no-op.
func (r *TokenRepository) Revoke(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	row := revokedTokenRow{TokenID: tokenID, UserID: userID, ExpiresAt: expiresAt}

	return conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
}

// IsRevoked reports whether tokenID was logged out.
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&revokedTokenRow{}).Where("token_id = ?", tokenID).Count(&n).Error

	return n > 0, err
}

// PurgeExpired deletes revocations of tokens that expired before now.
func (r *TokenRepository) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res := conn(ctx, r.db).Where("expires_at < ?", now).Delete(&revokedTokenRow{})
	if res.Error != nil {
		return 0, res.Error
	}

	if res.RowsAffected > 0 {
		r.logger.InfoContext(ctx, "purged expired token revocations", slog.Int64("count", res.RowsAffected))
	}

	return res.RowsAffected, nil
}
