package server

import (
	"net"
	nethttp "net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/transport/http"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL     = time.Hour
	limiterSweepPeriod = 10 * time.Minute
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits requests per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	now      func() time.Time

	lastSweep time.Time
}

// NewRateLimiter allows requestsPerMinute requests per client IP, with bursts of the same size.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    requestsPerMinute,
		now:      time.Now,
	}
}

func (rl *RateLimiter) allow(ip string) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterSweepPeriod {
		rl.sweepLocked(now)
	}

	e, ok := rl.limiters[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = e
	}
	e.lastSeen = now

	allowed := e.limiter.AllowN(now, 1)
	return allowed, int(e.limiter.TokensAt(now))
}

// sweepLocked drops limiters of clients idle for longer than limiterIdleTTL.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for ip, e := range rl.limiters {
		if now.Sub(e.lastSeen) > limiterIdleTTL {
			delete(rl.limiters, ip)
		}
	}
	rl.lastSweep = now
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Filter rejects requests over the limit with 429.
func (rl *RateLimiter) Filter(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		allowed, remaining := rl.allow(clientIP(r))

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(remaining, 0)))

		if !allowed {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(time.Minute).Unix(), 10))
			http.DefaultErrorEncoder(w, r, errors.New(nethttp.StatusTooManyRequests, "RATE_LIMITED", "too many requests"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *nethttp.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
