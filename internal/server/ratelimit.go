package server

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rogersnm/contractme/internal/api"
	"golang.org/x/time/rate"
)

// clientIdleTTL is how long a client's bucket survives without requests.
const clientIdleTTL = 10 * time.Minute

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// rateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are swept, at most once per idleTTL, on the request path.
type rateLimiter struct {
	rps     float64
	burst   int
	buckets sync.Map // map[string]*clientBucket
	metrics *Metrics

	idleTTL   time.Duration
	now       func() time.Time
	lastSweep atomic.Int64
}

func newRateLimiter(rps float64, burst int, m *Metrics) *rateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &rateLimiter{rps: rps, burst: burst, metrics: m, idleTTL: clientIdleTTL, now: time.Now}
	rl.lastSweep.Store(rl.now().UnixNano())
	return rl
}

func (rl *rateLimiter) limiter(key string) *rate.Limiter {
	now := rl.now()
	v, ok := rl.buckets.Load(key)
	if !ok {
		v, _ = rl.buckets.LoadOrStore(key, &clientBucket{lim: rate.NewLimiter(rate.Limit(rl.rps), rl.burst)})
	}
	b := v.(*clientBucket)
	b.lastSeen.Store(now.UnixNano())
	rl.sweep(now)
	return b.lim
}

func (rl *rateLimiter) sweep(now time.Time) {
	last := rl.lastSweep.Load()
	if now.UnixNano()-last < int64(rl.idleTTL) {
		return
	}
	if !rl.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	cutoff := now.Add(-rl.idleTTL).UnixNano()
	rl.buckets.Range(func(k, v any) bool {
		if v.(*clientBucket).lastSeen.Load() < cutoff {
			rl.buckets.Delete(k)
		}
		return true
	})
}

func (rl *rateLimiter) clients() int {
	n := 0
	rl.buckets.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

func (rl *rateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}
		if !rl.limiter("ip:" + ip).Allow() {
			c.Header("Retry-After", "1")
			rl.metrics.rateLimited.WithLabelValues("rejected").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.NewError(api.CodeRateLimited, "rate limit exceeded"))
			return
		}
		rl.metrics.rateLimited.WithLabelValues("allowed").Inc()
		c.Next()
	}
}
