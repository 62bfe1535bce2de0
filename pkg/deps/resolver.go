// Package deps classifies tasks as blocked or unblocked from their dependency
// edges, fetching the status of dependencies that are not on screen.
package deps

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// DefaultConcurrency bounds in-flight status lookups.
const DefaultConcurrency = 16

// TaskGetter fetches a single task.
type TaskGetter interface {
	GetTask(ctx context.Context, id string) (model.Task, error)
}

// Resolver computes blocked flags. It is safe for concurrent use; concurrent
// lookups of the same id share one request.
type Resolver struct {
	lookup      TaskGetter
	cache       *StatusCache
	concurrency int
	flight      singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithConcurrency sets the maximum number of lookups in flight. Values below 1
// mean DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// NewResolver returns a resolver backed by lookup and cache. A nil cache gets
// a private one.
func NewResolver(lookup TaskGetter, cache *StatusCache, opts ...Option) *Resolver {
	if cache == nil {
		cache = NewStatusCache()
	}
	r := &Resolver{lookup: lookup, cache: cache, concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Cache returns the status cache the resolver reads and writes.
func (r *Resolver) Cache() *StatusCache {
	return r.cache
}

// ComputeBlocked returns a blocked flag for every task in tasks. A task is
// blocked when any of its outgoing edges points at a dependency that is not
// done, including one whose status could not be fetched. It never fails.
func (r *Resolver) ComputeBlocked(ctx context.Context, tasks []model.Task, edges []model.DependencyEdge) map[string]bool {
	r.cache.SetTasks(tasks)

	working := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		working[t.ID] = true
	}
	relevant := RestrictEdges(edges, working)

	r.Backfill(ctx, MissingDependencies(relevant, r.cache))

	if cycles := FindCycles(relevant); len(cycles) > 0 {
		debug.Log("deps: %d dependency cycle(s) among visible tasks: %v", len(cycles), cycles)
	}

	blocked := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		blocked[t.ID] = false
	}
	for _, e := range relevant {
		if !r.cache.IsDone(e.DependsOn) {
			blocked[e.TaskID] = true
		}
	}
	return blocked
}

// Backfill fetches the status of each id into the cache. Failures leave the id
// uncached and are only logged.
func (r *Resolver) Backfill(ctx context.Context, ids []string) {
	if len(ids) == 0 {
		return
	}
	defer metrics.Timer(metrics.DepBackfill)()
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for _, id := range ids {
		g.Go(func() error {
			r.fetch(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	debug.LogTiming(fmt.Sprintf("deps: backfill of %d ids", len(ids)), time.Since(start))
}

func (r *Resolver) fetch(ctx context.Context, id string) {
	_, err, _ := r.flight.Do(id, func() (any, error) {
		t, err := r.lookup.GetTask(ctx, id)
		if err != nil {
			return nil, err
		}
		r.cache.Set(id, t.Status)
		return nil, nil
	})
	if err != nil {
		debug.Log("deps: status lookup for %s failed: %v", id, err)
	}
}

// RestrictEdges keeps the edges whose TaskID is in working.
func RestrictEdges(edges []model.DependencyEdge, working map[string]bool) []model.DependencyEdge {
	out := make([]model.DependencyEdge, 0, len(edges))
	for _, e := range edges {
		if working[e.TaskID] {
			out = append(out, e)
		}
	}
	return out
}

// MissingDependencies returns the distinct DependsOn ids not in cache, sorted.
func MissingDependencies(edges []model.DependencyEdge, cache *StatusCache) []string {
	seen := make(map[string]bool)
	var missing []string
	for _, e := range edges {
		if seen[e.DependsOn] {
			continue
		}
		seen[e.DependsOn] = true
		if !cache.Has(e.DependsOn) {
			missing = append(missing, e.DependsOn)
		}
	}
	sort.Strings(missing)
	return missing
}
