package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// UserService handles accounts and profiles.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	authz  ports.Authorizer
	view   viewer
	logger *slog.Logger
}

// NewUserService creates a UserService.
func NewUserService(
	repos Repositories,
	hasher ports.PasswordHasher,
	authz ports.Authorizer,
	cfg *ServiceConfig,
) *UserService {
	return &UserService{
		users:  repos.Users,
		hasher: hasher,
		authz:  authz,
		view:   viewer{subscriptions: repos.Subscriptions, relations: repos.Relations},
		logger: cfg.logger("app.UserService"),
	}
}

// Register creates an account.
func (s *UserService) Register(ctx context.Context, rc *reqctx.RequestContext, reg domain.Registration) (*domain.User, error) {
	if err := authorize(s.authz, rc, 0, ports.ObjectUser, ports.ActionCreate); err != nil {
		return nil, err
	}

	if err := reg.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        reg.Email,
		Username:     reg.Username,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "user registered", slog.Int64("user_id", user.ID))

	return user, nil
}

// List pages over all users.
func (s *UserService) List(ctx context.Context, rc *reqctx.RequestContext) (domain.Page[domain.Profile], error) {
	var out domain.Page[domain.Profile]

	page, err := s.users.List(ctx, rc.Page())
	if err != nil {
		return out, fmt.Errorf("listing users: %w", err)
	}

	items, err := s.view.profiles(ctx, rc, page.Items)
	if err != nil {
		return out, err
	}

	return domain.Page[domain.Profile]{Items: items, Total: page.Total}, nil
}

// Get returns a profile as seen by the caller.
func (s *UserService) Get(ctx context.Context, rc *reqctx.RequestContext, id int64) (*domain.Profile, error) {
	user, err := s.load(ctx, rc, id)
	if err != nil {
		return nil, err
	}

	return s.view.profile(ctx, rc, *user)
}

// Me returns the caller's own profile.
func (s *UserService) Me(ctx context.Context, rc *reqctx.RequestContext) (*domain.Profile, error) {
	actor, err := requireActor(rc)
	if err != nil {
		return nil, err
	}

	user, err := s.load(ctx, rc, actor.UserID)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{User: *user}, nil
}

// SetPassword replaces the caller's password after checking the current one.
func (s *UserService) SetPassword(ctx context.Context, rc *reqctx.RequestContext, current, next string) error {
	actor, err := requireActor(rc)
	if err != nil {
		return err
	}

	if err := authorize(s.authz, rc, actor.UserID, ports.ObjectUser, ports.ActionUpdate); err != nil {
		return err
	}

	user, err := s.load(ctx, rc, actor.UserID)
	if err != nil {
		return err
	}

	if err := s.hasher.Compare(user.PasswordHash, current); err != nil {
		return domain.NewValidationError("current_password", domain.MsgWrongPassword)
	}

	if err := domain.ValidatePassword("new_password", next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, actor.UserID, hash); err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	rc.Forget(userKey(actor.UserID))
	loggerFor(ctx, s.logger).InfoContext(ctx, "password changed", slog.Int64("user_id", actor.UserID))

	return nil
}

func (s *UserService) load(ctx context.Context, rc *reqctx.RequestContext, id int64) (*domain.User, error) {
	return reqctx.Fetch(ctx, rc, userKey(id), func(ctx context.Context) (*domain.User, error) {
		return s.users.GetByID(ctx, id)
	})
}

func userKey(id int64) string {
	return "user:" + idString(id)
}
