package reqctx

import (
	"context"
	"fmt"
	"sync"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

type ctxKey struct{}

// RequestContext provides the request actor, paging, memoization and
// action collection.
type RequestContext struct {
	actor   domain.Actor
	page    domain.PageRequest
	cache   sync.Map
	actions []Action
	mu      sync.Mutex
}

// New creates a RequestContext for actor.
func New(actor domain.Actor, page domain.PageRequest) *RequestContext {
	return &RequestContext{actor: actor, page: page}
}

// Anonymous returns a RequestContext with no actor and no paging.
func Anonymous() *RequestContext {
	return &RequestContext{}
}

// FromContext extracts RequestContext, returns nil if not present.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}
	if rc, ok := ctx.Value(ctxKey{}).(*RequestContext); ok {
		return rc
	}
	return nil
}

// WithContext stores RequestContext in the context.
func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// Actor returns the caller. A nil RequestContext is anonymous.
func (rc *RequestContext) Actor() domain.Actor {
	if rc == nil {
		return domain.Actor{}
	}
	return rc.actor
}

// Page returns the requested page.
func (rc *RequestContext) Page() domain.PageRequest {
	if rc == nil {
		return domain.PageRequest{}
	}
	return rc.page
}

// GetOrFetch retrieves cached value or executes fetchFn with ctx and caches
// the result. Errors are not cached. A nil RequestContext always fetches.
func (rc *RequestContext) GetOrFetch(
	ctx context.Context,
	key string,
	fetchFn func(ctx context.Context) (any, error),
) (any, error) {
	if rc == nil {
		return fetchFn(ctx)
	}

	if cached, ok := rc.cache.Load(key); ok {
		return cached, nil
	}

	value, err := fetchFn(ctx)
	if err != nil {
		return nil, err
	}

	actual, _ := rc.cache.LoadOrStore(key, value)
	return actual, nil
}

// Forget drops a memoized key, typically after a write changed it.
func (rc *RequestContext) Forget(key string) {
	if rc != nil {
		rc.cache.Delete(key)
	}
}

// Fetch is the typed form of GetOrFetch.
func Fetch[T any](ctx context.Context, rc *RequestContext, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	v, err := rc.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("memoized value for %q has type %T", key, v)
	}

	return typed, nil
}
