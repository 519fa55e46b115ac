package interfaces

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

func RequestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("http",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

func Recover(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, rec any) {
		log.Error("panic",
			zap.String("request_id", RequestIDFrom(c)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Any("err", rec),
		)
		writeError(c, http.StatusInternalServerError, "An unexpected error occurred on the server.", nil)
	})
}

// clientIdleTTL is how long a client's limiter is kept after its last request.
const clientIdleTTL = 10 * time.Minute

type clientEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ClientLimiter rate-limits per client IP. Idle clients are swept lazily so
// the map stays bounded by the set of recently active IPs.
type ClientLimiter struct {
	mu        sync.Mutex
	m         map[string]*clientEntry
	r         rate.Limit
	b         int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewClientLimiter(reqPerSec float64, burst int) *ClientLimiter {
	return &ClientLimiter{
		m:         make(map[string]*clientEntry),
		r:         rate.Limit(reqPerSec),
		b:         burst,
		ttl:       clientIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (cl *ClientLimiter) limiterFor(ip string) *rate.Limiter {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	now := cl.now()
	if now.Sub(cl.lastSweep) >= cl.ttl {
		cl.sweep(now)
	}

	if e, ok := cl.m[ip]; ok {
		e.lastSeen = now
		return e.lim
	}
	lim := rate.NewLimiter(cl.r, cl.b)
	cl.m[ip] = &clientEntry{lim: lim, lastSeen: now}
	return lim
}

// sweep drops clients idle for longer than ttl. Callers hold mu.
func (cl *ClientLimiter) sweep(now time.Time) {
	for ip, e := range cl.m {
		if now.Sub(e.lastSeen) > cl.ttl {
			delete(cl.m, ip)
		}
	}
	cl.lastSweep = now
}

// Allow reports whether ip may proceed now. It never blocks.
func (cl *ClientLimiter) Allow(ip string) bool {
	return cl.limiterFor(ip).Allow()
}

func (cl *ClientLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.Allow(c.ClientIP()) {
			writeError(c, http.StatusTooManyRequests, "Too many generation requests, slow down", nil)
			return
		}
		c.Next()
	}
}
