package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// perClient keeps one token bucket per client key. Buckets idle for longer
// than a full refill are swept at most once per refill period.
type perClient struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	idle      time.Duration
	clients   map[string]*clientLimiter
	nextSweep time.Time
}

func newPerClient(limit int, per time.Duration) *perClient {
	return &perClient{
		every:   rate.Every(per / time.Duration(limit)),
		burst:   limit,
		idle:    per,
		clients: make(map[string]*clientLimiter),
	}
}

// allow takes one token for key and, when none is available, reports how
// long the client has to wait.
func (p *perClient) allow(key string, now time.Time) (bool, time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.After(p.nextSweep) {
		for k, c := range p.clients {
			if now.Sub(c.lastSeen) > p.idle {
				delete(p.clients, k)
			}
		}
		p.nextSweep = now.Add(p.idle)
	}

	c, ok := p.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(p.every, p.burst)}
		p.clients[key] = c
	}
	c.lastSeen = now

	r := c.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, p.idle
	}
	if wait := r.DelayFrom(now); wait > 0 {
		r.CancelAt(now)
		return false, wait
	}
	return true, 0
}

// RateLimit allows bursts of limit requests per client IP, refilled evenly
// over per. A non-positive limit disables the check.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	clients := newPerClient(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := clients.allow(clientIPForRateLimit(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":{"code":"rate_limited","message":"too many requests"}}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIPForRateLimit prefers the first valid X-Forwarded-For hop, then the
// remote host.
func clientIPForRateLimit(r *http.Request) string {
	for _, hop := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := net.ParseIP(strings.TrimSpace(hop)); ip != nil {
			return ip.String()
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
