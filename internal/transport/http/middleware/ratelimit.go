package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "enquiry-service/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeTooManyRequests, ""))
	}
}

// ipIdleTTL 超过该时长未访问且令牌已回满的 IP 桶会被清理
const ipIdleTTL = 10 * time.Minute

// RateLimitPerIP 每 IP 限速（登录接口用）
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	ips := newIPLimiter(rps, burst, ipIdleTTL, time.Now)
	return func(c *gin.Context) {
		if ips.allow(c.ClientIP()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusTooManyRequests, resp.Error(resp.CodeTooManyRequests, ""))
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

type ipLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	ttl       time.Duration
	now       func() time.Time
	buckets   map[string]*ipBucket
	lastSweep time.Time
}

func newIPLimiter(rps rate.Limit, burst int, ttl time.Duration, now func() time.Time) *ipLimiter {
	return &ipLimiter{
		rps:       rps,
		burst:     burst,
		ttl:       ttl,
		now:       now,
		buckets:   make(map[string]*ipBucket),
		lastSweep: now(),
	}
}

func (l *ipLimiter) allow(ip string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.ttl {
		l.sweep(now)
	}
	b, ok := l.buckets[ip]
	if !ok {
		b = &ipBucket{lim: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[ip] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

// sweep 只删空闲且已回满的桶，删掉后重建不会放宽限额
func (l *ipLimiter) sweep(now time.Time) {
	for ip, b := range l.buckets {
		if now.Sub(b.seen) >= l.ttl && b.lim.TokensAt(now) >= float64(l.burst) {
			delete(l.buckets, ip)
		}
	}
	l.lastSweep = now
}

func (l *ipLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}
