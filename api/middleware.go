package api

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Domenick1991/flightsearch/internal/domain"
	"github.com/Domenick1991/flightsearch/internal/metrics"
	"github.com/Domenick1991/flightsearch/internal/service/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	SessionHeader   = "X-Session-ID"
	RequestIDHeader = "X-Request-ID"

	ctxUserKey      = "currentUser"
	ctxSessionKey   = "sessionID"
	ctxRequestIDKey = "requestID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// AccessLog writes one line per request once the handler chain has finished.
func AccessLog(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"request_id", c.GetString(ctxRequestIDKey),
			"method", c.Request.Method,
			"route", routeOf(c),
			"status_code", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if user := CurrentUser(c); user != nil {
			fields = append(fields, "user_id", user.ID)
		}
		logger.Infow("HTTP request completed", fields...)
	}
}

func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if reg == nil {
			c.Next()
			return
		}
		reg.HTTPRequestsInFlight.Inc()
		defer reg.HTTPRequestsInFlight.Dec()

		start := time.Now()
		c.Next()

		route := routeOf(c)
		reg.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		reg.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// RequireSession resolves X-Session-ID to the current user or rejects the request with 401.
func RequireSession(authSvc auth.AuthUseCase, logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing " + SessionHeader + " header"})
			return
		}
		user, err := authSvc.Authenticate(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.Set(ctxUserKey, user)
		c.Set(ctxSessionKey, sessionID)
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *domain.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*domain.User)
	return user
}

// limiterIdleTTL is how long a client's limiter is kept without requests.
const limiterIdleTTL = 10 * time.Minute

// ipLimiter keeps one token bucket per client IP. Buckets of idle clients expire.
type ipLimiter struct {
	mu    sync.Mutex
	store *gocache.Cache
	limit rate.Limit
	burst int
}

func newIPLimiter(limit rate.Limit, burst int, idle time.Duration) *ipLimiter {
	return &ipLimiter{store: gocache.New(idle, idle), limit: limit, burst: burst}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.store.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	l.store.SetDefault(ip, limiter)
	return limiter.(*rate.Limiter)
}

// RateLimit throttles each client IP independently. A non-positive rps disables it.
func RateLimit(rps float64, burst int, reg *metrics.Registry) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := newIPLimiter(rate.Limit(rps), burst, limiterIdleTTL)

	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			if reg != nil {
				reg.RateLimitedTotal.Inc()
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}
