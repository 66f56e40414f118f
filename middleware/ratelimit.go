// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/pollbox/metrics"
)

// limiterTTL is how long an idle client's limiter is kept
const limiterTTL = 10 * time.Minute

// RateLimit allows each client IP perMinute requests per minute with the
// given burst. Refused requests get 429 and are counted in m (m may be nil).
// Clients are keyed by peer address unless trustProxy is set; see GetClientIP.
func RateLimit(perMinute float64, burst int, trustProxy bool, m *metrics.Metrics) func(http.Handler) http.Handler {
	limiter := newIPRateLimiter(rate.Limit(perMinute/60), burst, limiterTTL)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetClientIP(r, trustProxy)
			if !limiter.allow(ip, time.Now()) {
				slog.Warn("rate limited", "request_id", RequestID(r.Context()), "client", ip)
				if m != nil {
					m.Reject(metrics.ReasonRateLimit)
				}
				ErrorResponse(w, http.StatusTooManyRequests, "Too many votes, slow down")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	lastGC   time.Time
	limit    rate.Limit
	burst    int
	entryTTL time.Duration
}

func newIPRateLimiter(limit rate.Limit, burst int, entryTTL time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    limit,
		burst:    burst,
		entryTTL: entryTTL,
	}
}

func (l *ipRateLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// sweep idle entries at most once per TTL
	if now.Sub(l.lastGC) > l.entryTTL {
		for key, ts := range l.lastSeen {
			if now.Sub(ts) > l.entryTTL {
				delete(l.limiters, key)
				delete(l.lastSeen, key)
			}
		}
		l.lastGC = now
	}

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	l.lastSeen[ip] = now
	return limiter.AllowN(now, 1)
}
