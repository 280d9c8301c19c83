// Package runregistry tracks in-flight and completed method-run objects:
// the registry behind `POST/GET/DELETE /methods/.../runs/{id}`. It is the
// only shared mutable state the gateway core holds beyond the router's
// immutable route table.
package runregistry

import (
	"sync"
	"time"

	"github.com/wago/wdx-gateway/internal/wdadomain"
)

// Registry is a concurrency-safe id -> MethodRunObject map. Insertions,
// lookups, removals, and timeout-driven eviction are all atomic with
// respect to each other.
type Registry struct {
	mu      sync.RWMutex
	runs    map[string]*wdadomain.MethodRunObject
	softMax int
}

// New returns an empty Registry that soft-caps at softMax concurrent runs.
func New(softMax int) *Registry {
	return &Registry{runs: make(map[string]*wdadomain.MethodRunObject), softMax: softMax}
}

// MaxRunsReached is a soft pre-check before accepting a new run. It is
// intentionally not locked together with the subsequent Add: under
// contention the cap may be overshot by at most the degree of parallelism,
// which is an accepted soft-cap overshoot rather than a bug.
func (r *Registry) MaxRunsReached() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs) >= r.softMax
}

// Add inserts a new run. Callers are expected to have already checked
// MaxRunsReached, though Add itself never refuses an insert — the cap is
// advisory, not enforced here, matching the soft-cap semantics above.
func (r *Registry) Add(run *wdadomain.MethodRunObject) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs[run.ID] = run
}

// Get returns the run for id and whether it was found. A run past its
// deadline is still returned (with State left as the caller last set it);
// callers that care about expiry should call GetLive instead, which
// applies the timeout-to-410 projection.
func (r *Registry) Get(id string) (*wdadomain.MethodRunObject, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	run, ok := r.runs[id]
	return run, ok
}

// Lookup is the outcome of GetLive: the run was never known, is known but
// expired, or is known and live.
type Lookup int

const (
	LookupNotFound Lookup = iota
	LookupExpired
	LookupLive
)

// GetLive looks up id and reports whether it is live, expired (past its
// deadline; scheduled for removal), or unknown. A run past its deadline is
// reported as expired and left for the next sweep to remove.
func (r *Registry) GetLive(id string, now time.Time) (*wdadomain.MethodRunObject, Lookup) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, LookupNotFound
	}
	if run.State != wdadomain.RunRemoved && run.Expired(now) {
		run.State = wdadomain.RunRemoved
		return run, LookupExpired
	}
	if run.State == wdadomain.RunRemoved {
		return run, LookupExpired
	}
	return run, LookupLive
}

// Remove deletes a run unconditionally (used by DELETE /runs/{id}; the
// timeout sweep uses SweepExpired). Removing an unknown id is a no-op.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.runs, id)
}

// SweepExpired removes every run whose deadline has passed as of now,
// returning how many were evicted. Called by the background sweep in
// sweep.go; exported separately so tests can drive it without a ticker.
func (r *Registry) SweepExpired(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, run := range r.runs {
		if run.Expired(now) {
			delete(r.runs, id)
			removed++
		}
	}
	return removed
}

// Len reports the current number of tracked runs (used by tests and
// diagnostics; not in the hot path).
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.runs)
}

// List returns a snapshot of every tracked run, for `GET
// /methods/{id}/runs`-style listings. Callers filter the snapshot by
// MethodPath themselves; the registry has no secondary index by path since
// listing runs is not a hot-path operation.
func (r *Registry) List() []*wdadomain.MethodRunObject {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*wdadomain.MethodRunObject, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, run)
	}
	return out
}
