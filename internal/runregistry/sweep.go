package runregistry

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the background sweep checks for
// expired runs when the caller doesn't override it.
const DefaultSweepInterval = 10 * time.Second

// Sweep runs a ticker-driven loop that evicts expired runs from reg every
// interval, blocking until ctx is cancelled. Unlike a retention reaper with
// a mutable policy object, this sweep has no per-tick config to re-read,
// since the run-timeout span lives on each run itself. Callers that want
// an errgroup-supervised background task (cmd/wdxgwd) call this directly
// from a g.Go closure; StartSweep is the fire-and-forget convenience form.
func Sweep(ctx context.Context, reg *Registry, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			if n := reg.SweepExpired(now); n > 0 {
				slog.InfoContext(ctx, "runregistry: swept expired runs", "count", n)
			}
		}
	}
}

// StartSweep launches Sweep in a background goroutine, returning
// immediately.
func StartSweep(ctx context.Context, reg *Registry, interval time.Duration) {
	go func() {
		_ = Sweep(ctx, reg, interval)
	}()
}
