package middleware

import (
	"sync"
	"time"

	"github.com/alchemorsel/mealplan/pkg/errors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP. Idle buckets are
// swept lazily.
type clientLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newClientLimiter(perSecond float64, burst int, idleAfter time.Duration) *clientLimiter {
	if idleAfter <= 0 {
		idleAfter = 5 * time.Minute
	}
	return &clientLimiter{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		idleAfter: idleAfter,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > l.idleAfter {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.idleAfter {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// RateLimit applies a token bucket per client IP
func (m *Middleware) RateLimit() gin.HandlerFunc {
	cfg := m.config.RateLimit
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newClientLimiter(cfg.RequestsPerSecond, cfg.Burst, cfg.CleanupInterval)
	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			_ = c.Error(errors.NewTooManyRequestsError())
			c.Abort()
			return
		}
		c.Next()
	}
}
