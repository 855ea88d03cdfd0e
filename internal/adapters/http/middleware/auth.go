package middleware

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
	"github.com/jsamuelsen/foodgram/internal/app/reqctx"
	"github.com/jsamuelsen/foodgram/internal/domain"
	"github.com/jsamuelsen/foodgram/internal/platform/logging"
)

const (
	// ContextKeyActor is the gin context key for the authenticated actor.
	ContextKeyActor = "actor"

	// ContextKeyToken is the gin context key for the raw auth token.
	ContextKeyToken = "auth_token"

	headerAuthorization = "Authorization"
)

// tokenSchemes are the accepted Authorization header prefixes.
var tokenSchemes = []string{"Token", "Bearer"}

// Authenticator resolves a raw token to the acting user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Actor, error)
}

// Authenticate returns middleware that reads "Authorization: Token <jwt>"
// (or Bearer). Requests without a token proceed anonymously; a token that
// fails verification, was revoked, or belongs to a deleted user is a 401.
// Headers with another scheme are ignored.
func Authenticate(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader(headerAuthorization))
		if !ok {
			c.Next()
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			dto.AbortWithError(c, err)
			return
		}

		c.Set(ContextKeyActor, actor)
		c.Set(ContextKeyToken, token)

		ctx := c.Request.Context()
		logger := logging.FromContext(ctx).With(slog.Int64("user_id", actor.UserID))
		c.Request = c.Request.WithContext(logging.WithContext(ctx, logger))

		c.Next()
	}
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found {
		return "", false
	}

	for _, s := range tokenSchemes {
		if strings.EqualFold(scheme, s) {
			token = strings.TrimSpace(token)
			return token, token != ""
		}
	}

	return "", false
}

// RequireAuth returns middleware that rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetActor(c).Anonymous() {
			dto.AbortWithError(c, domain.NewUnauthenticatedError(""))
			return
		}

		c.Next()
	}
}

// RequestContext returns middleware that builds the per-request
// reqctx.RequestContext from the actor and the page query parameters.
// It must run after Authenticate.
func RequestContext(paging dto.Paging) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc := reqctx.New(GetActor(c), paging.PageRequest(c))
		c.Request = c.Request.WithContext(reqctx.WithContext(c.Request.Context(), rc))

		c.Next()
	}
}

// GetRequestContext returns the request's RequestContext. Outside the
// middleware chain it returns an anonymous one.
func GetRequestContext(c *gin.Context) *reqctx.RequestContext {
	if rc := reqctx.FromContext(c.Request.Context()); rc != nil {
		return rc
	}

	return reqctx.Anonymous()
}

// GetActor returns the authenticated actor, or the anonymous actor.
func GetActor(c *gin.Context) domain.Actor {
	actor, _ := actorFrom(c)
	return actor
}

// GetToken returns the raw token the request authenticated with.
func GetToken(c *gin.Context) string {
	return c.GetString(ContextKeyToken)
}

func actorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(ContextKeyActor)
	if !ok {
		return domain.Actor{}, false
	}

	actor, ok := v.(domain.Actor)

	return actor, ok
}
