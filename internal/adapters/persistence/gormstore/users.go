package gormstore

import (
	"context"
	"log/slog"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewUserRepository creates a UserRepository.
func NewUserRepository(db *gorm.DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger.With(slog.String("repo", "users"))}
}

// Create stores user and fills its ID.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	row := userRow{
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		PasswordHash: user.PasswordHash,
	}

	if err := conn(ctx, r.db).Omit(clause.Associations).Create(&row).Error; err != nil {
		return translate(err, "user", "")
	}

	*user = row.toDomain()

	return nil
}

// GetByID loads one user.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var row userRow
	if err := conn(ctx, r.db).First(&row, id).Error; err != nil {
		return nil, translate(err, "user", strconv.FormatInt(id, 10))
	}

	user := row.toDomain()

	return &user, nil
}

// GetByEmail loads the user registered with email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var row userRow
	if err := conn(ctx, r.db).Where("email = ?", email).First(&row).Error; err != nil {
		return nil, translate(err, "user", "")
	}

	user := row.toDomain()

	return &user, nil
}

// List pages over all users ordered by id.
func (r *UserRepository) List(ctx context.Context, page domain.PageRequest) (domain.Page[domain.User], error) {
	var (
		out  domain.Page[domain.User]
		rows []userRow
	)

	if err := conn(ctx, r.db).Model(&userRow{}).Count(&out.Total).Error; err != nil {
		return out, err
	}

	err := conn(ctx, r.db).
		Order("id").
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

// UpdatePassword replaces the stored hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := conn(ctx, r.db).Model(&userRow{}).Where("id = ?", id).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("user", strconv.FormatInt(id, 10))
	}

	return nil
}
