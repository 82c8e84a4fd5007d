package middleware

import (
	"net/http"
	"sync"
	"time"

	"stockpro/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const purgeInterval = 5 * time.Minute

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

type rateLimiter struct {
	limit     int
	window    time.Duration
	mu        sync.Mutex
	entries   map[string]*rateEntry
	nextPurge time.Time
	now       func() time.Time
}

// RateLimiter allows limit requests per window per client IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return newRateLimiter(limit, window, time.Now).handle
}

func newRateLimiter(limit int, window time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		limit:     limit,
		window:    window,
		entries:   make(map[string]*rateEntry),
		nextPurge: now().Add(purgeInterval),
		now:       now,
	}
}

// allow records one request for ip and reports whether it fits the window,
// together with the window end for the Retry-After header.
func (l *rateLimiter) allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.After(l.nextPurge) {
		l.purge(now)
	}

	entry, ok := l.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(l.window)}
		l.entries[ip] = entry
	}
	entry.count++
	return entry.count <= l.limit, entry.windowEnd
}

// purge drops expired windows so idle IPs do not accumulate. Caller holds mu.
func (l *rateLimiter) purge(now time.Time) {
	purged := 0
	for ip, e := range l.entries {
		if now.After(e.windowEnd) {
			delete(l.entries, ip)
			purged++
		}
	}
	l.nextPurge = now.Add(purgeInterval)
	if purged > 0 {
		log.Debug().Int("purged", purged).Int("remaining", len(l.entries)).Msg("rate limiter entries purged")
	}
}

func (l *rateLimiter) handle(c *gin.Context) {
	ok, windowEnd := l.allow(c.ClientIP())
	if !ok {
		c.Header("Retry-After", windowEnd.UTC().Format(http.TimeFormat))
		c.AbortWithStatusJSON(http.StatusTooManyRequests,
			apierror.New("Muitas requisições", "Tente novamente em instantes."))
		return
	}
	c.Next()
}
