package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/agenda-api/internal/httperr"
	"github.com/BruksfildServices01/agenda-api/internal/metrics"
)

// INCR and PEXPIRE in one round trip so a key never outlives its window.
var fixedWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

type RateLimiter struct {
	rdb     *redis.Client
	limit   int
	window  time.Duration
	prefix  string
	metrics *metrics.BookingMetrics
	logger  *zap.Logger
	now     func() time.Time
}

func NewRateLimiter(
	rdb *redis.Client,
	limit int,
	window time.Duration,
	m *metrics.BookingMetrics,
	logger *zap.Logger,
) *RateLimiter {
	return &RateLimiter{
		rdb:     rdb,
		limit:   limit,
		window:  window,
		prefix:  "ratelimit:public:",
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// Allow counts one hit for key in the current window. Redis failures
// allow the request.
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true
	}

	slot := l.now().UnixNano() / int64(l.window)
	redisKey := l.prefix + key + ":" + strconv.FormatInt(slot, 10)

	n, err := fixedWindow.Run(ctx, l.rdb, []string{redisKey}, l.window.Milliseconds()).Int64()
	if err != nil {
		l.logger.Warn("rate limiter unavailable", zap.Error(err))
		return true
	}
	return n <= int64(l.limit)
}

// Middleware limits by client IP.
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), c.ClientIP()) {
			l.metrics.ObserveRateLimited()
			c.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later")
			c.Abort()
			return
		}
		c.Next()
	}
}
