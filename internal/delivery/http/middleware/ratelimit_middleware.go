package middleware

import (
	"net"
	"net/http"
	"sync"

	"go-disaster-management/config"
	"go-disaster-management/pkg/response"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies a per-IP request budget backed by redis so the
// count is shared across instances. When redis is unavailable it falls back
// to an in-process limiter with the same budget.
type RateLimitMiddleware struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
	log     *logrus.Logger

	mu       sync.Mutex
	fallback map[string]*rate.Limiter
}

func NewRateLimitMiddleware(redisClient *redis.Client, cfg config.RateLimitConfig, log *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: redis_rate.NewLimiter(redisClient),
		limit: redis_rate.Limit{
			Rate:   cfg.Requests,
			Period: cfg.Window,
			Burst:  cfg.Requests,
		},
		log:      log,
		fallback: make(map[string]*rate.Limiter),
	}
}

func (m *RateLimitMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		res, err := m.limiter.Allow(r.Context(), "ratelimit:"+key, m.limit)
		if err != nil {
			m.log.Warnf("Rate limiter unavailable, using local fallback: %+v", err)
			if !m.allowLocal(key) {
				response.TooManyRequests(w, "Rate limit exceeded, try again later")
				return
			}
			next.ServeHTTP(w, r)
			return
		}

		if res.Allowed == 0 {
			response.TooManyRequests(w, "Rate limit exceeded, try again later")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (m *RateLimitMiddleware) allowLocal(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.fallback[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(float64(m.limit.Rate)/m.limit.Period.Seconds()), m.limit.Burst)
		m.fallback[key] = limiter
	}
	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
