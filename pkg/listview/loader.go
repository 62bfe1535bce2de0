// Package listview runs the list-load cycle: one page of tasks, their total
// count and the dependency edges fetched together, blocked flags resolved,
// and the result committed only if no newer load has been committed first.
package listview

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/deps"
	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// DefaultDepsLimit is how many edges are fetched for blocked resolution.
const DefaultDepsLimit = 500

// Source is the subset of the API the loader needs.
type Source interface {
	ListTasks(ctx context.Context, f route.Filters, limit, page int) ([]model.Task, error)
	CountTasks(ctx context.Context, f route.Filters) (int, error)
	ListDeps(ctx context.Context, limit int) ([]model.DependencyEdge, error)
}

// Generation orders loads. Later generations win.
type Generation uint64

// Result is the outcome of one load.
type Result struct {
	Generation Generation
	State      route.ListState

	Tasks   []model.Task
	Edges   []model.DependencyEdge
	Blocked map[string]bool
	Rows    []Row
	Groups  []Group

	TotalCount int
	CountKnown bool

	// Err is set when the page itself could not be fetched; Tasks is then empty.
	Err      error
	CountErr error
	EdgesErr error
}

// Loader is safe for concurrent use.
type Loader struct {
	src       Source
	resolver  *deps.Resolver
	depsLimit int

	next atomic.Uint64

	mu           sync.Mutex
	committed    Result
	committedGen Generation
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithDepsLimit sets the limit passed to ListDeps.
func WithDepsLimit(n int) LoaderOption {
	return func(l *Loader) {
		if n > 0 {
			l.depsLimit = n
		}
	}
}

// NewLoader returns a loader reading from src and classifying with resolver.
func NewLoader(src Source, resolver *deps.Resolver, opts ...LoaderOption) *Loader {
	l := &Loader{src: src, resolver: resolver, depsLimit: DefaultDepsLimit}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Next reserves the next generation. Callers that issue loads from a single
// goroutine reserve before starting the load so issue order decides the winner.
func (l *Loader) Next() Generation {
	return Generation(l.next.Add(1))
}

// Latest returns the most recently reserved generation.
func (l *Loader) Latest() Generation {
	return Generation(l.next.Load())
}

// Committed returns the last committed result, if any.
func (l *Loader) Committed() (Result, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.committed, l.committedGen > 0
}

// Load reserves a generation and runs it.
func (l *Loader) Load(ctx context.Context, s route.ListState) (Result, bool) {
	return l.Run(ctx, l.Next(), s)
}

// Run performs the load for gen and commits it if gen is newer than the last
// committed generation. The result is returned either way; the boolean
// reports whether it was committed.
func (l *Loader) Run(ctx context.Context, gen Generation, s route.ListState) (Result, bool) {
	defer metrics.Timer(metrics.ListLoad)()
	start := time.Now()

	res := Result{Generation: gen, State: s}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res.Tasks, res.Err = l.src.ListTasks(gctx, s.Filters, s.PageSize, s.Page)
		return nil
	})
	g.Go(func() error {
		res.TotalCount, res.CountErr = l.src.CountTasks(gctx, s.Filters)
		res.CountKnown = res.CountErr == nil
		return nil
	})
	g.Go(func() error {
		res.Edges, res.EdgesErr = l.src.ListDeps(gctx, l.depsLimit)
		return nil
	})
	_ = g.Wait()

	if res.Err != nil {
		debug.Log("listview: gen %d: list fetch failed: %v", gen, res.Err)
		res.Tasks = nil
	}
	debug.LogIf(res.CountErr != nil, "listview: gen %d: count fetch failed: %v", gen, res.CountErr)
	debug.LogIf(res.EdgesErr != nil, "listview: gen %d: deps fetch failed: %v", gen, res.EdgesErr)

	res.Blocked = l.resolver.ComputeBlocked(ctx, res.Tasks, res.Edges)
	res.Rows = Query(res.Tasks, res.Blocked, s)
	res.Groups = GroupRows(res.Rows, s.GroupBy)

	committed := l.commit(res)
	debug.Log("listview: gen %d loaded %d tasks in %v (committed=%v)", gen, len(res.Tasks), time.Since(start), committed)
	return res, committed
}

func (l *Loader) commit(res Result) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if res.Generation <= l.committedGen {
		return false
	}
	l.committed = res
	l.committedGen = res.Generation
	return true
}
