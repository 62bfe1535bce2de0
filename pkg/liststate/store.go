// Package liststate holds the list view's filter, sort, grouping and
// pagination state and notifies subscribers when it changes.
//
// A Store is owned by the UI goroutine and is not safe for concurrent use.
package liststate

import (
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// Listener receives the full state after every effective change.
type Listener func(route.ListState)

// Store is the single source of truth for the list state.
type Store struct {
	state      route.ListState
	totalCount int

	listeners []*listenerEntry
	suppress  int
}

type listenerEntry struct {
	fn Listener
}

// New creates a store holding initial. A zero page or page size is replaced
// by its default.
func New(initial route.ListState) *Store {
	if initial.Page < 1 {
		initial.Page = route.DefaultPage
	}
	if initial.PageSize < 1 {
		initial.PageSize = route.DefaultPageSize
	}
	return &Store{state: initial}
}

// State returns a copy of the current state.
func (s *Store) State() route.ListState {
	return s.state
}

// TotalCount returns the last count passed to SetTotalCount.
func (s *Store) TotalCount() int {
	return s.totalCount
}

// TotalPages returns max(1, ceil(total/pageSize)).
func (s *Store) TotalPages() int {
	return totalPages(s.totalCount, s.state.PageSize)
}

func totalPages(total, size int) int {
	if size < 1 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	e := &listenerEntry{fn: fn}
	s.listeners = append(s.listeners, e)
	return func() {
		for i, l := range s.listeners {
			if l == e {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// SuppressNotifications runs fn with notifications disabled. Calls nest, and
// the previous level is restored even if fn panics.
func (s *Store) SuppressNotifications(fn func()) {
	s.suppress++
	defer func() { s.suppress-- }()
	fn()
}

// Suppressed reports whether notifications are currently disabled.
func (s *Store) Suppressed() bool {
	return s.suppress > 0
}

// commit stores next and notifies if it differs from the current state.
func (s *Store) commit(next route.ListState) bool {
	if next == s.state {
		return false
	}
	s.state = next
	s.notify()
	return true
}

func (s *Store) notify() {
	if s.suppress > 0 {
		return
	}
	state := s.state
	// Listeners may unsubscribe while being called.
	for _, l := range append([]*listenerEntry(nil), s.listeners...) {
		l.fn(state)
	}
}

// SetFilter sets one filter and returns to the first page. Unknown keys and
// disallowed values are ignored.
func (s *Store) SetFilter(key route.FilterKey, value string) bool {
	f, ok := s.state.Filters.With(key, value)
	if !ok || f == s.state.Filters {
		return false
	}
	next := s.state
	next.Filters = f
	next.Page = route.DefaultPage
	return s.commit(next)
}

// SetFilters replaces all filters at once and returns to the first page, so a
// multi-field edit notifies once. Disallowed values are dropped.
func (s *Store) SetFilters(f route.Filters) bool {
	var clean route.Filters
	for _, key := range route.FilterKeys {
		if next, ok := clean.With(key, f.Get(key)); ok {
			clean = next
		}
	}
	if clean == s.state.Filters {
		return false
	}
	next := s.state
	next.Filters = clean
	next.Page = route.DefaultPage
	return s.commit(next)
}

// ResetFilters clears every filter and returns to the first page.
func (s *Store) ResetFilters() bool {
	if !s.state.Filters.Active() {
		return false
	}
	next := s.state
	next.Filters = route.Filters{}
	next.Page = route.DefaultPage
	return s.commit(next)
}

// SetSearch sets the free-text search and returns to the first page.
func (s *Store) SetSearch(q string) bool {
	if q == s.state.Search {
		return false
	}
	next := s.state
	next.Search = q
	next.Page = route.DefaultPage
	return s.commit(next)
}

// SetSort sets the sort field and order. Unknown values are ignored.
func (s *Store) SetSort(by route.SortField, order route.SortOrder) bool {
	if !by.Valid() || !order.Valid() {
		return false
	}
	next := s.state
	next.Sort = by
	next.Order = order
	return s.commit(next)
}

// SetGroupBy sets the row grouping.
func (s *Store) SetGroupBy(g route.GroupBy) bool {
	if !g.Valid() {
		return false
	}
	next := s.state
	next.GroupBy = g
	return s.commit(next)
}

// GoToPage moves to page n clamped to [1, TotalPages()].
func (s *Store) GoToPage(n int) bool {
	next := s.state
	next.Page = clamp(n, 1, s.TotalPages())
	return s.commit(next)
}

// NextPage advances one page if there is one.
func (s *Store) NextPage() bool {
	return s.GoToPage(s.state.Page + 1)
}

// PrevPage goes back one page if there is one.
func (s *Store) PrevPage() bool {
	return s.GoToPage(s.state.Page - 1)
}

// SetPageSize changes the page size and returns to the first page.
// Sizes below 1 are ignored.
func (s *Store) SetPageSize(n int) bool {
	if n < 1 || n == s.state.PageSize {
		return false
	}
	next := s.state
	next.PageSize = n
	next.Page = route.DefaultPage
	return s.commit(next)
}

// SetTotalCount records the number of matching tasks. If the current page is
// now past the end it is lowered, which notifies like any other change.
func (s *Store) SetTotalCount(n int) bool {
	if n < 0 {
		n = 0
	}
	s.totalCount = n
	if s.state.Page <= s.TotalPages() {
		return false
	}
	next := s.state
	next.Page = s.TotalPages()
	return s.commit(next)
}

// Apply replaces the whole state without clamping, as when replaying a
// history entry. Listeners are notified once if anything changed.
func (s *Store) Apply(state route.ListState) bool {
	if state.Page < 1 {
		state.Page = route.DefaultPage
	}
	if state.PageSize < 1 {
		state.PageSize = route.DefaultPageSize
	}
	return s.commit(state)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
