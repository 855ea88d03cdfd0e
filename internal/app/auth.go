package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/telemetry"
	"github.com/jsamuelsen/foodgram/internal/ports"
)

// AuthService issues, checks and revokes auth tokens.
type AuthService struct {
	users  ports.UserRepository
	tokens ports.TokenRepository
	hasher ports.PasswordHasher
	issuer ports.TokenIssuer
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(
	repos Repositories,
	hasher ports.PasswordHasher,
	issuer ports.TokenIssuer,
	cfg *ServiceConfig,
) *AuthService {
	return &AuthService{
		users:  repos.Users,
		tokens: repos.Tokens,
		hasher: hasher,
		issuer: issuer,
		logger: cfg.logger("app.AuthService"),
		now:    time.Now,
	}
}

// Login exchanges an email and password for a signed token.
// Unknown emails and wrong passwords fail the same way.
func (s *AuthService) Login(ctx context.Context, email, password string) (token string, err error) {
	defer func() { telemetry.LoginsTotal.WithLabelValues(telemetry.Outcome(err)).Inc() }()

	invalid := domain.NewValidationError("non_field_errors", domain.MsgInvalidCredentials)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsNotFound(err) {
			return "", invalid
		}
		return "", fmt.Errorf("loading user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", invalid
	}

	token, err = s.issuer.Issue(user.ID)
	if err != nil {
		return "", err
	}

	loggerFor(ctx, s.logger).InfoContext(ctx, "user logged in", slog.Int64("user_id", user.ID))

	return token, nil
}

// Logout revokes the token the caller authenticated with.
func (s *AuthService) Logout(ctx context.Context, rc *reqctx.RequestContext, token string) error {
	actor, err := requireActor(rc)
	if err != nil {
		return err
	}

	claims, err := s.issuer.Verify(token)
	if err != nil {
		return err
	}

	if err := s.tokens.Revoke(ctx, claims.TokenID, actor.UserID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}

	if purged, err := s.tokens.PurgeExpired(ctx, s.now()); err != nil {
		loggerFor(ctx, s.logger).WarnContext(ctx, "purging expired revocations failed", slog.Any("error", err))
	} else if purged > 0 {
		loggerFor(ctx, s.logger).DebugContext(ctx, "purged expired revocations", slog.Int64("count", purged))
	}

	return nil
}

// Authenticate resolves a raw token to the acting user. Revoked tokens and
// tokens of deleted users are rejected.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Actor, error) {
	claims, err := s.issuer.Verify(token)
	if err != nil {
		return domain.Actor{}, err
	}

	revoked, err := s.tokens.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return domain.Actor{}, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return domain.Actor{}, domain.NewUnauthenticatedError("token has been revoked")
	}

	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if domain.IsNotFound(err) {
			return domain.Actor{}, domain.NewUnauthenticatedError("user not found")
		}
		return domain.Actor{}, fmt.Errorf("loading user: %w", err)
	}

	return domain.Actor{UserID: claims.UserID, TokenID: claims.TokenID}, nil
}
