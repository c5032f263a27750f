package http

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apperrors "github.com/allisson/nexusdb/internal/errors"
	"github.com/allisson/nexusdb/internal/httputil"
)

const (
	defaultLimiterSweepInterval = 5 * time.Minute
	defaultLimiterStaleAfter    = time.Hour
)

// limiterEntry holds a client's bucket and the last time it was used.
type limiterEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
	mu         sync.Mutex
}

// IPRateLimiter keeps one token bucket per client IP. Buckets idle for longer than
// an hour are dropped by a sweeper goroutine started with Start.
type IPRateLimiter struct {
	limiters sync.Map // map[string]*limiterEntry
	rps      float64
	burst    int
	logger   *slog.Logger
	now      func() time.Time

	sweepInterval time.Duration
	staleAfter    time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewIPRateLimiter creates a limiter allowing rps requests per second per IP with the
// given burst. A nil now uses time.Now.
func NewIPRateLimiter(rps float64, burst int, logger *slog.Logger, now func() time.Time) *IPRateLimiter {
	if now == nil {
		now = time.Now
	}
	return &IPRateLimiter{
		rps:           rps,
		burst:         burst,
		logger:        logger,
		now:           now,
		sweepInterval: defaultLimiterSweepInterval,
		staleAfter:    defaultLimiterStaleAfter,
	}
}

// Middleware rejects requests over the client's rate with 429 and a Retry-After
// header in whole seconds.
func (l *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := l.now()
		limiter := l.getLimiter(ip, now)

		if limiter.AllowN(now, 1) {
			c.Next()
			return
		}

		reservation := limiter.ReserveN(now, 1)
		delay := reservation.DelayFrom(now)
		reservation.CancelAt(now)

		retryAfter := int(math.Ceil(delay.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}

		l.logger.Warn("rate limit exceeded",
			slog.String("ip", ip),
			slog.Int("retry_after", retryAfter))

		c.Header("Retry-After", strconv.Itoa(retryAfter))
		httputil.HandleErrorGin(c, apperrors.ErrTooManyRequests, nil)
	}
}

func (l *IPRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	if val, ok := l.limiters.Load(ip); ok {
		entry := val.(*limiterEntry)
		entry.mu.Lock()
		entry.lastAccess = now
		entry.mu.Unlock()
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:    rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastAccess: now,
	}
	actual, _ := l.limiters.LoadOrStore(ip, entry)
	return actual.(*limiterEntry).limiter
}

// Len returns the number of tracked client IPs.
func (l *IPRateLimiter) Len() int {
	n := 0
	l.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Sweep drops buckets idle for longer than the stale threshold and returns how many
// were removed.
func (l *IPRateLimiter) Sweep() int {
	threshold := l.now().Add(-l.staleAfter)
	removed := 0
	l.limiters.Range(func(key, value any) bool {
		entry := value.(*limiterEntry)
		entry.mu.Lock()
		stale := entry.lastAccess.Before(threshold)
		entry.mu.Unlock()

		if stale {
			l.limiters.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Start launches the sweeper. Calling Start twice is a no-op.
func (l *IPRateLimiter) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.sweepLoop(ctx, l.done)
}

// Stop halts the sweeper and waits for it to exit.
func (l *IPRateLimiter) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel, l.done = nil, nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (l *IPRateLimiter) sweepLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := l.Sweep(); removed > 0 {
				l.logger.Debug("rate limiter swept stale clients", slog.Int("removed", removed))
			}
		}
	}
}
