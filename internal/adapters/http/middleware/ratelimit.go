package middleware

import (
	"fmt"
	"math"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/foodgram/internal/adapters/http/dto"
)

// DefaultRateLimitClients bounds how many client IPs keep a limiter.
const DefaultRateLimitClients = 4096

// RateLimiter hands out one token bucket per client IP. The least recently
// seen clients are evicted once the table is full.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	clients *lru.Cache
	mu      sync.Mutex
}

// NewRateLimiter creates a limiter allowing rps requests per second with
// the given burst for each of at most maxClients IPs.
func NewRateLimiter(rps float64, burst, maxClients int) (*RateLimiter, error) {
	if maxClients <= 0 {
		maxClients = DefaultRateLimitClients
	}

	clients, err := lru.New(maxClients)
	if err != nil {
		return nil, fmt.Errorf("creating rate limiter table: %w", err)
	}

	return &RateLimiter{limit: rate.Limit(rps), burst: burst, clients: clients}, nil
}

// Allow reports whether a request from key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.limiter(key).Allow()
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.clients.Get(key); ok {
		if l, ok := v.(*rate.Limiter); ok {
			return l
		}
	}

	l := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients.Add(key, l)

	return l
}

// retryAfter is the whole number of seconds until one token refills.
func (rl *RateLimiter) retryAfter() int {
	if rl.limit <= 0 {
		return 1
	}

	return max(1, int(math.Ceil(1/float64(rl.limit))))
}

// RateLimit returns middleware that answers 429 with a Retry-After header
// once a client IP exhausts its bucket.
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.Allow(c.ClientIP()) {
			c.Next()
			return
		}

		c.Header("Retry-After", strconv.Itoa(rl.retryAfter()))
		dto.AbortWithErrorCode(c, dto.ErrorCodeRateLimited, "too many requests, try again later")
	}
}
