// Package cycle drives one polling cycle end to end:
// fetch scoreboards → diff against the previous snapshot set → dispatch
// detected events → persist the new set.
//
// The diffing engine itself is pure; this package owns the two things the
// engine deliberately does not: serialization (at most one cycle in flight)
// and persistence ordering. The new set is persisted only after dispatch, so
// a persist failure leaves the previous set in place and the next cycle
// re-diffs from it — the same transitions may then be dispatched twice,
// which is acceptable under best-effort delivery and deduplicated client-side
// by the payload tag.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mhenley/scorepush/internal/engine"
	"github.com/mhenley/scorepush/internal/notifications"
	"github.com/mhenley/scorepush/internal/state"
)

// ErrInFlight reports that a cycle is already running. Overlapping cycles
// would double-detect transitions, so the second caller backs off.
var ErrInFlight = errors.New("cycle already in flight")

// ErrFeedUnavailable wraps upstream fetch failures so callers can map them to
// a gateway-style error.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Feed supplies the current cycle's normalized snapshots.
type Feed interface {
	FetchAll(ctx context.Context) ([]engine.MatchSnapshot, error)
}

// EventDispatcher fans one detected event out to subscribers.
type EventDispatcher interface {
	DispatchEvent(ctx context.Context, ev engine.MatchEvent) (notifications.DispatchResult, error)
}

// Runner executes polling cycles.
type Runner struct {
	feed       Feed
	store      state.Store
	dispatcher EventDispatcher
	logger     *slog.Logger

	mu sync.Mutex // held for the duration of one cycle
}

// NewRunner wires a runner from its collaborators.
func NewRunner(feed Feed, store state.Store, dispatcher EventDispatcher, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{feed: feed, store: store, dispatcher: dispatcher, logger: logger}
}

// Report summarizes one cycle.
type Report struct {
	Matches  int           `json:"matches"`
	Detected int           `json:"detected"`
	Sent     int           `json:"sent"`
	Failed   int           `json:"failed"`
	Removed  int           `json:"removed"`
	Duration time.Duration `json:"-"`
}

// Summary returns a human-readable summary.
func (r Report) Summary() string {
	return fmt.Sprintf("matches=%d detected=%d sent=%d failed=%d removed=%d dur=%s",
		r.Matches, r.Detected, r.Sent, r.Failed, r.Removed, r.Duration.Round(time.Millisecond))
}

// Run executes one cycle. Returns ErrInFlight when another cycle is still
// running. A fetch or state-load failure aborts before any dispatch; a
// persist failure is returned after dispatch so the caller never treats the
// cycle as complete.
func (r *Runner) Run(ctx context.Context) (Report, error) {
	if !r.mu.TryLock() {
		return Report{}, ErrInFlight
	}
	defer r.mu.Unlock()

	start := time.Now()
	var report Report

	current, err := r.feed.FetchAll(ctx)
	if err != nil {
		return report, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	report.Matches = len(current)

	previous, err := r.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("load previous state: %w", err)
	}

	events, next := engine.Diff(previous, current)
	report.Detected = len(events)

	var totals notifications.DispatchResult
	for _, ev := range events {
		res, err := r.dispatcher.DispatchEvent(ctx, ev)
		if err != nil {
			// Registry-level failure; per-subscriber failures are already
			// folded into the result counts.
			r.logger.Error("Event dispatch failed", "kind", ev.Kind, "match_id", ev.Match.ID, "error", err)
			continue
		}
		totals = totals.Add(res)
		r.logger.Info("Event dispatched",
			"kind", ev.Kind, "match_id", ev.Match.ID,
			"sent", res.Sent, "failed", res.Failed, "removed", res.Removed)
	}
	report.Sent = totals.Sent
	report.Failed = totals.Failed
	report.Removed = totals.Removed

	if err := r.store.Save(ctx, next); err != nil {
		report.Duration = time.Since(start)
		return report, fmt.Errorf("persist state: %w", err)
	}

	report.Duration = time.Since(start)
	return report, nil
}

// StartWorker runs cycles on a fixed interval until ctx is cancelled.
// Blocks; intended to be called with `go`.
func (r *Runner) StartWorker(ctx context.Context, interval time.Duration) {
	r.logger.Info("Cycle worker started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			report, err := r.Run(ctx)
			switch {
			case errors.Is(err, ErrInFlight):
				r.logger.Warn("Skipping tick, previous cycle still running")
			case err != nil:
				r.logger.Error("Cycle failed", "error", err)
			case report.Detected > 0:
				r.logger.Info("Cycle complete", "summary", report.Summary())
			}
		case <-ctx.Done():
			r.logger.Info("Cycle worker stopped")
			return
		}
	}
}
