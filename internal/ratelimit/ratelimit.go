// Package ratelimit throttles requests per client address over a sliding
// window. State is held in process memory and is not shared between
// instances.
package ratelimit

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-healthcare-go/internal/apierror"
)

// DefaultCapacity bounds the number of tracked addresses. The least recently
// seen address is evicted first.
const DefaultCapacity = 10000

type Limiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	clock  clockwork.Clock
	hits   *lru.Cache[string, []time.Time]
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// Reset is the time until the oldest counted attempt leaves the window.
	Reset time.Duration
}

func New(limit int, window time.Duration, clock clockwork.Clock) (*Limiter, error) {
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("ratelimit: limit and window must be positive")
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cache, err := lru.New[string, []time.Time](DefaultCapacity)
	if err != nil {
		return nil, fmt.Errorf("ratelimit: create cache: %w", err)
	}
	return &Limiter{limit: limit, window: window, clock: clock, hits: cache}, nil
}

// Allow records an attempt for key if it fits in the window. Rejected
// attempts are not recorded.
func (l *Limiter) Allow(key string) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock.Now()
	cutoff := now.Add(-l.window)
	prev, _ := l.hits.Get(key)
	live := make([]time.Time, 0, len(prev)+1)
	for _, t := range prev {
		if t.After(cutoff) {
			live = append(live, t)
		}
	}

	d := Decision{Limit: l.limit}
	if len(live) < l.limit {
		live = append(live, now)
		d.Allowed = true
	}
	d.Remaining = l.limit - len(live)
	d.Reset = live[0].Add(l.window).Sub(now)
	l.hits.Add(key, live)
	return d
}

// ClientKey returns the remote IP of r without its port.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware rejects requests over the limit with 429 and a message.
// Every response carries the RateLimit-* headers.
func Middleware(l *Limiter, message string, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ClientKey(r)
			d := l.Allow(key)
			reset := strconv.Itoa(int(math.Ceil(d.Reset.Seconds())))
			h := w.Header()
			h.Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			h.Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("RateLimit-Reset", reset)
			if !d.Allowed {
				logger.Infow("rate limited", "client", key, "path", r.URL.Path)
				h.Set("Retry-After", reset)
				apierror.Write(w, logger, apierror.TooManyRequests(message))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
