package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxVisitors = 10000
	visitorIdle = 10 * time.Minute
)

// RateLimiter keeps one token bucket per client IP. Buckets of quiet
// clients are forgotten after visitorIdle.
type RateLimiter struct {
	limit    rate.Limit
	burst    int
	visitors *expirable.LRU[string, *rate.Limiter]
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		visitors: expirable.NewLRU[string, *rate.Limiter](maxVisitors, nil, visitorIdle),
	}
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	if lim, ok := rl.visitors.Get(ip); ok {
		return lim
	}
	lim := rate.NewLimiter(rl.limit, rl.burst)
	// Racing first requests may each create a bucket; the later Add wins.
	rl.visitors.Add(ip, lim)
	return lim
}

func (rl *RateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.getLimiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
