// Package nav keeps the address, the history and the list state in step.
//
// The controller owns three things: the history of addresses, the list state
// store, and the route currently shown. In-app actions push history entries;
// moving back or forward applies the popped address without pushing anything.
// A task route is an overlay: the view beneath it stays mounted.
package nav

import (
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/history"
	"github.com/vanderheijden86/taskpeek/pkg/liststate"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// DetailPresenter shows and hides the task detail overlay.
type DetailPresenter interface {
	ShowDetail(id string)
	HideDetail()
}

// RefreshFunc reloads the data behind a base view (list, overview or board).
type RefreshFunc func(route.Route)

// Controller is owned by the UI goroutine and is not safe for concurrent use.
type Controller struct {
	history *history.History
	store   *liststate.Store

	refresh   RefreshFunc
	presenter DetailPresenter

	current route.Route
	base    route.Route
	loaded  route.Route
	hasLoad bool
	detail  string

	replacing int
}

// Option configures a Controller.
type Option func(*Controller)

// WithRefresh sets the function that reloads base views.
func WithRefresh(fn RefreshFunc) Option {
	return func(c *Controller) { c.refresh = fn }
}

// WithPresenter sets the detail overlay.
func WithPresenter(p DetailPresenter) Option {
	return func(c *Controller) { c.presenter = p }
}

// New wires a controller to store and h. Call Start before use.
func New(store *liststate.Store, h *history.History, opts ...Option) *Controller {
	c := &Controller{
		history: h,
		store:   store,
		refresh: func(route.Route) {},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.base = route.ListRoute(store.State())
	c.current = c.base
	store.Subscribe(c.onStoreChange)
	h.OnPop(c.onPop)
	return c
}

// Start applies the address the session was opened with. Unknown or
// non-canonical addresses are replaced by their canonical form.
func (c *Controller) Start(fragment string) {
	r, ok := route.Decode(fragment)
	if !ok {
		debug.Log("nav: unknown address %q, showing the list", fragment)
	}
	c.history.Replace(route.Href(r))
	c.apply(r)
}

// Current returns the route shown, which is a task route while the detail
// overlay is addressed.
func (c *Controller) Current() route.Route {
	return c.current
}

// Base returns the view beneath any overlay.
func (c *Controller) Base() route.Route {
	return c.base
}

// Address returns the current history entry.
func (c *Controller) Address() string {
	return c.history.Current()
}

// Store returns the list state store.
func (c *Controller) Store() *liststate.Store {
	return c.store
}

// ShowList navigates to the list with its current state.
func (c *Controller) ShowList() {
	c.navigate(route.ListRoute(c.store.State()))
}

// ShowOverview navigates to the phase overview.
func (c *Controller) ShowOverview() {
	c.navigate(route.OverviewRoute())
}

// ShowBoard navigates to the board with swimlane s.
func (c *Controller) ShowBoard(s route.Swimlane) {
	c.navigate(route.BoardRoute(s))
}

// ShowTask makes task id the addressable view, leaving the base view mounted.
func (c *Controller) ShowTask(id string) {
	if id == "" {
		return
	}
	c.navigate(route.TaskRoute(id))
}

// DismissTask leaves a task address by replacing it with the view beneath
// (the list after a deep link), so no detail address is left behind in
// history. It does nothing on other routes.
func (c *Controller) DismissTask() {
	if c.current.Kind != route.KindTask {
		return
	}
	r := c.base
	if r.Kind == route.KindList {
		r = route.ListRoute(c.store.State())
	}
	c.history.ReplaceCollapsing(route.Href(r))
	c.show(r)
}

// ApplyTotalCount records the server's count. If that moves the page, the
// address is replaced rather than pushed.
func (c *Controller) ApplyTotalCount(n int) {
	c.replacing++
	defer func() { c.replacing-- }()
	c.store.SetTotalCount(n)
}

// Reload refreshes the base view regardless of whether it changed.
func (c *Controller) Reload() {
	c.loaded, c.hasLoad = c.base, true
	c.refresh(c.base)
}

// Back moves one entry back in history.
func (c *Controller) Back() bool {
	return c.history.Back()
}

// Forward moves one entry forward in history.
func (c *Controller) Forward() bool {
	return c.history.Forward()
}

// CanGoBack reports whether Back would do anything.
func (c *Controller) CanGoBack() bool {
	return c.history.CanGoBack()
}

// CanGoForward reports whether Forward would do anything.
func (c *Controller) CanGoForward() bool {
	return c.history.CanGoForward()
}

func (c *Controller) navigate(r route.Route) {
	if c.replacing > 0 {
		c.history.Replace(route.Href(r))
	} else {
		c.history.Push(route.Href(r))
	}
	c.show(r)
}

// onStoreChange handles in-app list state changes. Changes applied from
// history are suppressed and never reach here.
func (c *Controller) onStoreChange(s route.ListState) {
	c.navigate(route.ListRoute(s))
}

func (c *Controller) onPop(address string) {
	r, ok := route.Decode(address)
	if !ok {
		debug.Log("nav: popped unknown address %q, showing the list", address)
		c.history.Replace(route.Href(r))
	}
	c.apply(r)
}

// apply shows an externally supplied route without pushing history.
func (c *Controller) apply(r route.Route) {
	if r.Kind == route.KindList {
		c.store.SuppressNotifications(func() {
			c.store.Apply(r.List)
		})
		r = route.ListRoute(c.store.State())
	}
	c.show(r)
}

// show updates the overlay and base view for r and refreshes the base view if
// it differs from what was last loaded.
func (c *Controller) show(r route.Route) {
	c.current = r
	if r.Kind == route.KindTask {
		if c.detail != r.TaskID {
			c.detail = r.TaskID
			if c.presenter != nil {
				c.presenter.ShowDetail(r.TaskID)
			}
		}
	} else {
		c.base = r
		if c.detail != "" {
			c.detail = ""
			if c.presenter != nil {
				c.presenter.HideDetail()
			}
		}
	}

	if !c.hasLoad || c.loaded != c.base {
		c.loaded, c.hasLoad = c.base, true
		c.refresh(c.base)
	}
}
