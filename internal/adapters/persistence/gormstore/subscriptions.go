package gormstore

import (
	"context"
	"log/slog"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// SubscriptionRepository implements ports.SubscriptionRepository.
type SubscriptionRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewSubscriptionRepository creates a SubscriptionRepository.
func NewSubscriptionRepository(db *gorm.DB, logger *slog.Logger) *SubscriptionRepository {
	return &SubscriptionRepository{db: db, logger: logger.With(slog.String("repo", "subscriptions"))}
}

// Create stores the pair and fills its ID.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	row := subscriptionRow{UserID: sub.UserID, AuthorID: sub.AuthorID}
	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translate(err, "subscription", "")
	}

	sub.ID = row.ID

	return nil
}

// Delete removes the pair.
func (r *SubscriptionRepository) Delete(ctx context.Context, userID, authorID int64) error {
	res := conn(ctx, r.db).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&subscriptionRow{})
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("subscription", "")
	}

	return nil
}

// Exists reports whether userID follows authorID.
func (r *SubscriptionRepository) Exists(ctx context.Context, userID, authorID int64) (bool, error) {
	var n int64

	err := conn(ctx, r.db).Model(&subscriptionRow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error

	return n > 0, err
}

// AuthorIDs returns which of authorIDs the user follows.
func (r *SubscriptionRepository) AuthorIDs(ctx context.Context, userID int64, authorIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return out, nil
	}

	var ids []int64

	err := conn(ctx, r.db).Model(&subscriptionRow{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		out[id] = true
	}

	return out, nil
}

// ListAuthors pages over the authors userID follows, ordered by username.
func (r *SubscriptionRepository) ListAuthors(
	ctx context.Context,
	userID int64,
	page domain.PageRequest,
) (domain.Page[domain.User], error) {
	var out domain.Page[domain.User]

	followed := func() *gorm.DB {
		return conn(ctx, r.db).Model(&userRow{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	if err := followed().Count(&out.Total).Error; err != nil {
		return out, err
	}

	var rows []userRow

	err := followed().
		Order("users.username").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&rows).Error
	if err != nil {
		return out, err
	}

	out.Items = make([]domain.User, 0, len(rows))
	for i := range rows {
		out.Items = append(out.Items, rows[i].toDomain())
	}

	return out, nil
}
