// Package peek manages the task detail overlay: which task it shows, whether
// its data has arrived, and how it relates to the shareable task address.
package peek

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/deps"
	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// State is the overlay lifecycle.
type State int

const (
	Closed State = iota
	Loading
	Open
	Error
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Loading:
		return "loading"
	case Open:
		return "open"
	case Error:
		return "error"
	}
	return "unknown"
}

// Reason explains an Error state.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotFound
	ReasonOther
)

// Ticket identifies one Open call. Loads for an older ticket are discarded.
type Ticket uint64

// Relation is a parent or child task. Found is false when the task could not
// be fetched; only ID is meaningful then.
type Relation struct {
	ID    string
	Task  model.Task
	Found bool
}

// Detail is everything the overlay shows for one task.
type Detail struct {
	Task     model.Task
	Parents  []Relation
	Children []Relation
	Notes    []model.Note
	// Blocked is true when any parent is not done or could not be fetched.
	Blocked bool
}

// Snapshot is the overlay state at one moment.
type Snapshot struct {
	State  State
	TaskID string
	Ticket Ticket
	Detail *Detail
	Reason Reason
	Err    error
}

// Source is the subset of the API the overlay needs.
type Source interface {
	GetTask(ctx context.Context, id string) (model.Task, error)
	TaskDeps(ctx context.Context, id string) ([]model.DependencyEdge, error)
	ListDeps(ctx context.Context, limit int) ([]model.DependencyEdge, error)
	TaskNotes(ctx context.Context, id string) ([]model.Note, error)
}

// Router is the address side of the overlay.
type Router interface {
	Current() route.Route
	ShowTask(id string)
	DismissTask()
}

// relationConcurrency bounds parent and child fetches.
const relationConcurrency = 8

// Controller is safe for concurrent use. Router calls happen on the caller's
// goroutine, so Close and Promote belong to whoever owns the router.
type Controller struct {
	src       Source
	cache     *deps.StatusCache
	depsLimit int

	mu        sync.Mutex
	router    Router
	snap      Snapshot
	next      Ticket
	listeners []*listener
}

type listener struct {
	fn func(Snapshot)
}

// Option configures a Controller.
type Option func(*Controller)

// WithDepsLimit sets the limit used when fetching all edges to find children.
func WithDepsLimit(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.depsLimit = n
		}
	}
}

// WithRouter sets the router at construction.
func WithRouter(r Router) Option {
	return func(c *Controller) { c.router = r }
}

// New returns a closed overlay. Fetched statuses are written to cache; a nil
// cache gets a private one.
func New(src Source, cache *deps.StatusCache, opts ...Option) *Controller {
	if cache == nil {
		cache = deps.NewStatusCache()
	}
	c := &Controller{src: src, cache: cache, depsLimit: api.MaxDepsLimit}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetRouter sets the router after construction.
func (c *Controller) SetRouter(r Router) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.router = r
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

// Showing reports whether the overlay is visible for id.
func (c *Controller) Showing(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap.State != Closed && c.snap.TaskID == id
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn runs on the goroutine that caused the change.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	l := &listener{fn: fn}
	c.mu.Lock()
	c.listeners = append(c.listeners, l)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, x := range c.listeners {
			if x == l {
				c.listeners = append(c.listeners[:i:i], c.listeners[i+1:]...)
				return
			}
		}
	}
}

// set stores snap and returns the listeners to notify. Callers hold mu.
func (c *Controller) set(snap Snapshot) []*listener {
	c.snap = snap
	return append([]*listener(nil), c.listeners...)
}

func notify(ls []*listener, snap Snapshot) {
	for _, l := range ls {
		l.fn(snap)
	}
}

// Open moves to Loading(id) from any state and returns the ticket to pass to
// Load.
func (c *Controller) Open(id string) Ticket {
	c.mu.Lock()
	c.next++
	snap := Snapshot{State: Loading, TaskID: id, Ticket: c.next}
	ls := c.set(snap)
	c.mu.Unlock()

	notify(ls, snap)
	return snap.Ticket
}

// Close hides the overlay. If the address is the task route it is replaced
// by the list so the detail address does not linger in history.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.snap.State == Closed {
		c.mu.Unlock()
		return
	}
	c.next++
	snap := Snapshot{State: Closed, Ticket: c.next}
	ls := c.set(snap)
	router := c.router
	c.mu.Unlock()

	notify(ls, snap)
	if router != nil && router.Current().Kind == route.KindTask {
		router.DismissTask()
	}
}

// Promote makes the shown task the addressable view without touching the
// overlay. It reports false when the overlay is closed.
func (c *Controller) Promote() bool {
	c.mu.Lock()
	id, open, router := c.snap.TaskID, c.snap.State != Closed, c.router
	c.mu.Unlock()

	if !open || router == nil {
		return false
	}
	router.ShowTask(id)
	return true
}

// Load fetches the detail for ticket and moves to Open or Error. If another
// Open or Close happened meanwhile the result is dropped and the current
// snapshot is returned unchanged.
func (c *Controller) Load(ctx context.Context, t Ticket) Snapshot {
	c.mu.Lock()
	if c.snap.Ticket != t || c.snap.State != Loading {
		snap := c.snap
		c.mu.Unlock()
		return snap
	}
	id := c.snap.TaskID
	c.mu.Unlock()

	defer metrics.Timer(metrics.PeekLoad)()
	defer debug.LogEnterExit("peek.Load " + id)()

	detail, err := c.fetch(ctx, id)

	c.mu.Lock()
	if c.snap.Ticket != t {
		snap := c.snap
		c.mu.Unlock()
		debug.Log("peek: dropping stale load of %s", id)
		return snap
	}
	snap := Snapshot{State: Open, TaskID: id, Ticket: t, Detail: detail}
	if err != nil {
		snap = Snapshot{State: Error, TaskID: id, Ticket: t, Reason: ReasonOther, Err: err}
		if api.IsNotFound(err) {
			snap.Reason = ReasonNotFound
		}
	}
	ls := c.set(snap)
	c.mu.Unlock()

	notify(ls, snap)
	return snap
}

// fetch loads the task, its edges and its notes together, then its parents
// and children together. Only a failure to fetch the task itself is an error.
func (c *Controller) fetch(ctx context.Context, id string) (*Detail, error) {
	var (
		task     model.Task
		taskErr  error
		own      []model.DependencyEdge
		ownErr   error
		all      []model.DependencyEdge
		allErr   error
		notes    []model.Note
		notesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		task, taskErr = c.src.GetTask(gctx, id)
		return nil
	})
	g.Go(func() error {
		own, ownErr = c.src.TaskDeps(gctx, id)
		return nil
	})
	g.Go(func() error {
		all, allErr = c.src.ListDeps(gctx, c.depsLimit)
		return nil
	})
	g.Go(func() error {
		notes, notesErr = c.src.TaskNotes(gctx, id)
		return nil
	})
	_ = g.Wait()

	if taskErr != nil {
		return nil, taskErr
	}
	debug.LogIf(ownErr != nil, "peek: deps of %s: %v", id, ownErr)
	debug.LogIf(allErr != nil, "peek: all deps: %v", allErr)
	debug.LogIf(notesErr != nil, "peek: notes of %s: %v", id, notesErr)
	c.cache.Set(task.ID, task.Status)

	var parentIDs, childIDs []string
	for _, e := range own {
		if e.TaskID == id {
			parentIDs = append(parentIDs, e.DependsOn)
		}
	}
	for _, e := range all {
		if e.DependsOn == id {
			childIDs = append(childIDs, e.TaskID)
		}
	}

	parents := make([]Relation, len(parentIDs))
	children := make([]Relation, len(childIDs))
	rg, rctx := errgroup.WithContext(ctx)
	rg.SetLimit(relationConcurrency)
	resolve := func(slot *Relation, rid string) {
		rg.Go(func() error {
			*slot = Relation{ID: rid}
			t, err := c.src.GetTask(rctx, rid)
			if err != nil {
				debug.Log("peek: relation %s of %s: %v", rid, id, err)
				return nil
			}
			slot.Task, slot.Found = t, true
			c.cache.Set(rid, t.Status)
			return nil
		})
	}
	for i, rid := range parentIDs {
		resolve(&parents[i], rid)
	}
	for i, rid := range childIDs {
		resolve(&children[i], rid)
	}
	_ = rg.Wait()

	d := &Detail{Task: task, Parents: parents, Children: children, Notes: notes}
	for _, p := range parents {
		if !p.Found || !p.Task.Status.IsDone() {
			d.Blocked = true
		}
	}
	return d, nil
}
