package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"loan-eligibility/internal/config"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	defaultWindow     = time.Second
	limiterIdleExpiry = 10 * time.Minute
)

// Limiter decides whether one more request for key fits in the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter is a fixed-window counter shared by every instance pointing at
// the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	if window <= 0 {
		window = defaultWindow
	}
	return &RedisLimiter{client: client, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = "ratelimit:" + key

	pipe := l.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, fmt.Errorf("redis pipeline failed: %w", err)
	}

	count, err := incrCmd.Result()
	if err != nil {
		return true, fmt.Errorf("redis INCR failed: %w", err)
	}
	// -1 means the key has no expiry yet, -2 that it vanished between calls.
	if ttl, err := ttlCmd.Result(); err == nil && (ttl == -1 || ttl == -2) {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return count <= l.limit, fmt.Errorf("redis EXPIRE failed: %w", err)
		}
	}

	return count <= l.limit, nil
}

// LocalLimiter keeps one token bucket per key in process memory.
type LocalLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	mu       sync.Mutex
}

func NewLocalLimiter(rps float64, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{rps: rate.Limit(rps), burst: burst}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	v, _ := l.limiters.LoadOrStore(key, &localEntry{limiter: rate.NewLimiter(l.rps, l.burst)})
	entry := v.(*localEntry)
	entry.mu.Lock()
	entry.lastSeen = time.Now()
	entry.mu.Unlock()
	return entry.limiter.Allow(), nil
}

// Sweep drops buckets not used since before cutoff.
func (l *LocalLimiter) Sweep(cutoff time.Time) {
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*localEntry)
		entry.mu.Lock()
		idle := entry.lastSeen.Before(cutoff)
		entry.mu.Unlock()
		if idle {
			l.limiters.Delete(key)
		}
		return true
	})
}

func (l *LocalLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(limiterIdleExpiry)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Sweep(now.Add(-limiterIdleExpiry))
		}
	}
}

type RateLimiterMiddleware struct {
	limiter Limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger
}

// NewRateLimiterMiddleware uses Redis when a client is given and falls back to
// in-process buckets otherwise. The context bounds the local sweeper.
func NewRateLimiterMiddleware(ctx context.Context, cfg config.RateLimitConfig, redisClient *redis.Client, logger *slog.Logger) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")

	var limiter Limiter
	switch {
	case !cfg.Enabled:
		logger.Info("Rate limiting is disabled via configuration.")
	case redisClient != nil:
		window := cfg.Window
		if window <= 0 {
			window = defaultWindow
		}
		limit := int64(cfg.RPS * window.Seconds())
		if limit < 1 {
			limit = 1
		}
		limiter = NewRedisLimiter(redisClient, limit, window)
		logger.Info("Rate limiter backed by Redis", "rps", cfg.RPS, "window", window)
	default:
		local := NewLocalLimiter(cfg.RPS, cfg.Burst)
		go local.cleanup(ctx)
		limiter = local
		logger.Info("Rate limiter backed by in-process token buckets", "rps", cfg.RPS, "burst", cfg.Burst)
	}

	return &RateLimiterMiddleware{limiter: limiter, cfg: cfg, logger: logger}
}

func (rl *RateLimiterMiddleware) IsEnabled() bool {
	return rl.cfg.Enabled && rl.limiter != nil
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.IsEnabled() {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		allowed, err := rl.limiter.Allow(r.Context(), ip)
		if err != nil {
			rl.logger.ErrorContext(r.Context(), "Rate limit check failed, letting request through", "ip", ip, "error", err)
		}
		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", "ip", ip)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]string{
					"message": "Rate limit exceeded",
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
