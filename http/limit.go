package http

import (
	"sync"
	"time"

	"github.com/fwojciec/askweb"
	"golang.org/x/time/rate"
)

// Default search rate per user.
const (
	DefaultSearchRate  = 0.2
	DefaultSearchBurst = 3
)

// LimiterIdleTimeout is the minimum time a user's bucket is kept after their
// last search.
const LimiterIdleTimeout = 10 * time.Minute

// SearchLimiter throttles searches per user using token buckets. Buckets
// idle long enough to have refilled are dropped.
type SearchLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	rps       float64
	burst     int
	idle      time.Duration
	lastSweep time.Time

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

type userLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewSearchLimiter creates a SearchLimiter allowing rps searches per second
// per user with the given burst.
func NewSearchLimiter(rps float64, burst int) *SearchLimiter {
	if burst < 1 {
		burst = 1
	}
	idle := LimiterIdleTimeout
	if rps > 0 {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > idle {
			idle = refill
		}
	}
	return &SearchLimiter{
		limiters: make(map[string]*userLimiter),
		rps:      rps,
		burst:    burst,
		idle:     idle,
		Now:      time.Now,
	}
}

// Allow reports whether userID may search now, consuming a token if so.
func (l *SearchLimiter) Allow(userID string) bool {
	now := l.now()

	l.mu.Lock()
	l.sweep(now)
	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{limiter: rate.NewLimiter(rate.Limit(l.rps), l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	l.mu.Unlock()

	return ul.limiter.AllowN(now, 1)
}

// sweep drops buckets unused for longer than the idle timeout, at most once
// per timeout. A bucket that never refills is kept. Callers hold l.mu.
func (l *SearchLimiter) sweep(now time.Time) {
	if l.rps <= 0 || now.Sub(l.lastSweep) < l.idle {
		return
	}
	l.lastSweep = now
	for id, ul := range l.limiters {
		if now.Sub(ul.lastSeen) > l.idle {
			delete(l.limiters, id)
		}
	}
}

func (l *SearchLimiter) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

// InFlightGuard tracks which users have a search running.
type InFlightGuard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

// NewInFlightGuard creates an empty guard.
func NewInFlightGuard() *InFlightGuard {
	return &InFlightGuard{active: make(map[string]struct{})}
}

// Acquire marks a search as running for userID. It returns a release func,
// or ECONFLICT if a search is already running.
func (g *InFlightGuard) Acquire(userID string) (release func(), err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.active[userID]; ok {
		return nil, askweb.Errorf(askweb.ECONFLICT, "a search is already in progress")
	}
	g.active[userID] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, userID)
			g.mu.Unlock()
		})
	}, nil
}
