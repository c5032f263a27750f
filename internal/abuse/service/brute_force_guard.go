// Package service implements brute-force mitigation: per-key failure counting in a
// fixed window, escalating to a durable IP ban once the threshold is reached.
//
// Counters live in process memory, so each instance reaches the threshold on its own
// before a ban is recorded. Once recorded, the ban is shared through the ban store.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	banDomain "github.com/allisson/nexusdb/internal/ban/domain"
	apperrors "github.com/allisson/nexusdb/internal/errors"
)

const (
	// BanReason is stored on every ban written by the guard.
	BanReason = "Brute Force Protection: Too many failed login attempts"
	// BanActor is stored as created_by on every ban written by the guard.
	BanActor = "SYSTEM"
)

// BanRecorder persists a ban. It is satisfied by the ban use case.
type BanRecorder interface {
	Record(ctx context.Context, input *banDomain.RecordInput) (*banDomain.BannedEntity, error)
}

// Config holds the guard thresholds.
type Config struct {
	// MaxAttempts is the failure count within Window that triggers a ban.
	MaxAttempts int
	// Window is how long failures accumulate before the counter resets.
	Window time.Duration
	// BanDuration is the lifetime of the ban written on escalation.
	BanDuration time.Duration
	// SweepInterval is how often stale windows are dropped. Defaults to Window.
	SweepInterval time.Duration
}

type failureWindow struct {
	count int
	start time.Time
}

// BruteForceGuard counts failures per key and escalates to a ban.
// It is safe for concurrent use.
type BruteForceGuard struct {
	cfg      Config
	recorder BanRecorder
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	windows map[string]*failureWindow

	lifecycle sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewBruteForceGuard creates a guard. A nil now uses time.Now.
func NewBruteForceGuard(
	cfg Config,
	recorder BanRecorder,
	logger *slog.Logger,
	now func() time.Time,
) *BruteForceGuard {
	if now == nil {
		now = time.Now
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = cfg.Window
	}
	return &BruteForceGuard{
		cfg:      cfg,
		recorder: recorder,
		logger:   logger,
		now:      now,
		windows:  make(map[string]*failureWindow),
	}
}

// RecordFailure counts one failure for key. When the count reaches MaxAttempts inside
// the window the counter is cleared, an IP ban is written and an error wrapping
// banDomain.ErrBanned is returned. A failed ban write still returns ErrBanned, joined
// with the storage error.
func (g *BruteForceGuard) RecordFailure(ctx context.Context, key string) error {
	if !g.increment(key) {
		return nil
	}

	duration := g.cfg.BanDuration
	reason := BanReason
	actor := BanActor
	_, err := g.recorder.Record(ctx, &banDomain.RecordInput{
		Kind:      banDomain.KindIP,
		Value:     key,
		Reason:    &reason,
		Duration:  &duration,
		CreatedBy: &actor,
	})
	if err != nil {
		g.logger.Error("failed to record brute force ban",
			slog.String("key", key),
			slog.Any("error", err),
		)
		return apperrors.Join(banDomain.ErrBanned, err)
	}

	g.logger.Warn("brute force detected, key banned",
		slog.String("key", key),
		slog.Duration("duration", duration),
	)
	return banDomain.ErrBanned
}

// increment updates the window for key and reports whether the threshold was reached.
// The window is removed when it reports true.
func (g *BruteForceGuard) increment(key string) bool {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	w, ok := g.windows[key]
	if !ok || now.Sub(w.start) > g.cfg.Window {
		w = &failureWindow{start: now}
		g.windows[key] = w
	}
	w.count++

	if w.count >= g.cfg.MaxAttempts {
		delete(g.windows, key)
		return true
	}
	return false
}

// Clear drops the counter for key, typically after a successful login.
func (g *BruteForceGuard) Clear(key string) {
	g.mu.Lock()
	delete(g.windows, key)
	g.mu.Unlock()
}

// Failures returns the current count for key within its open window.
func (g *BruteForceGuard) Failures(key string) int {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	w, ok := g.windows[key]
	if !ok || now.Sub(w.start) > g.cfg.Window {
		return 0
	}
	return w.count
}

// Sweep drops every window older than the window duration and returns how many were removed.
func (g *BruteForceGuard) Sweep() int {
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	removed := 0
	for key, w := range g.windows {
		if now.Sub(w.start) > g.cfg.Window {
			delete(g.windows, key)
			removed++
		}
	}
	return removed
}

// Start runs the background sweeper until ctx is cancelled or Stop is called.
// Calling Start on a running guard is a no-op.
func (g *BruteForceGuard) Start(ctx context.Context) {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})

	go g.sweepLoop(ctx, g.done)
}

// Stop halts the sweeper and waits for it to exit.
func (g *BruteForceGuard) Stop() {
	g.lifecycle.Lock()
	defer g.lifecycle.Unlock()

	if g.cancel == nil {
		return
	}
	g.cancel()
	<-g.done
	g.cancel = nil
	g.done = nil
}

func (g *BruteForceGuard) sweepLoop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(g.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := g.Sweep(); removed > 0 {
				g.logger.Debug("swept stale failure windows", slog.Int("removed", removed))
			}
		}
	}
}
