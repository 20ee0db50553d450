package middleware

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"scheduleflow/pkg/logger"
)

// KeyExtractor returns the rate-limit bucket for a request. An empty key
// bypasses limiting.
type KeyExtractor func(r *http.Request) string

type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// UserRateLimiter keeps one token bucket per caller identity.
type UserRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	rate      rate.Limit
	burst     int
	extractor KeyExtractor
	log       *logger.Logger
	stopCh    chan struct{}
}

func NewUserRateLimiter(requests int, window time.Duration, extractor KeyExtractor, log *logger.Logger) *UserRateLimiter {
	rl := &UserRateLimiter{
		limiters:  make(map[string]*userLimiter),
		rate:      rate.Limit(float64(requests) / window.Seconds()),
		burst:     requests,
		extractor: extractor,
		log:       log,
		stopCh:    make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

func (rl *UserRateLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	ul, ok := rl.limiters[key]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = ul
	}
	ul.lastAccess = time.Now()

	return ul.limiter.Allow()
}

func (rl *UserRateLimiter) cleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			for key, ul := range rl.limiters {
				if time.Since(ul.lastAccess) > 1*time.Hour {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stopCh:
			return
		}
	}
}

func (rl *UserRateLimiter) Stop() {
	close(rl.stopCh)
}

// DefaultUserExtractor buckets by authenticated subject, falling back to the
// remote address for unauthenticated routes.
func DefaultUserExtractor(r *http.Request) string {
	if id := IdentityFrom(r.Context()); id != nil {
		return id.Subject
	}
	return r.RemoteAddr
}

func UserRateLimit(limiter *UserRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limiter.extractor(r)
			if !limiter.Allow(key) {
				limiter.log.Warn("Rate limit exceeded",
					"request_id", requestIDFrom(r),
					"key", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
