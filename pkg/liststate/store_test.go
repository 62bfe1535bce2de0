package liststate_test

import (
	"testing"

	"github.com/vanderheijden86/taskpeek/pkg/liststate"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

func newStore(t *testing.T) (*liststate.Store, *[]route.ListState) {
	t.Helper()
	s := liststate.New(route.DefaultListState())
	var seen []route.ListState
	s.Subscribe(func(st route.ListState) { seen = append(seen, st) })
	return s, &seen
}

func TestSetFilterNotifiesOnce(t *testing.T) {
	s, seen := newStore(t)
	s.SetFilter(route.FilterStatus, "done")
	s.SetFilter(route.FilterStatus, "done")
	if len(*seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*seen))
	}
	if (*seen)[0].Filters.Status != "done" {
		t.Errorf("expected status done in notification, got %+v", (*seen)[0])
	}
}

func TestSetFilterResetsPage(t *testing.T) {
	s, _ := newStore(t)
	s.SetTotalCount(500)
	s.GoToPage(4)
	s.SetFilter(route.FilterRole, "developer")
	if got := s.State().Page; got != 1 {
		t.Errorf("expected page 1 after filter change, got %d", got)
	}
}

func TestSetFilterIgnoresInvalid(t *testing.T) {
	s, seen := newStore(t)
	if s.SetFilter(route.FilterStatus, "someday") {
		t.Error("expected invalid status to be ignored")
	}
	if s.SetFilter("colour", "red") {
		t.Error("expected unknown key to be ignored")
	}
	if len(*seen) != 0 {
		t.Errorf("expected no notifications, got %d", len(*seen))
	}
}

func TestPaginationClamping(t *testing.T) {
	s, _ := newStore(t)
	s.SetTotalCount(0)
	s.GoToPage(5)
	if got := s.State().Page; got != 1 {
		t.Errorf("expected page 1 with empty result set, got %d", got)
	}

	s.SetTotalCount(95)
	s.GoToPage(3)
	if got := s.State().Page; got != 2 {
		t.Errorf("expected page 2 (max) for 95 items at 50/page, got %d", got)
	}
	if got := s.TotalPages(); got != 2 {
		t.Errorf("expected 2 total pages, got %d", got)
	}
}

func TestSetTotalCountLowersPage(t *testing.T) {
	s, seen := newStore(t)
	s.SetTotalCount(1000)
	s.GoToPage(10)
	*seen = nil

	if !s.SetTotalCount(120) {
		t.Fatal("expected SetTotalCount to report a page change")
	}
	if got := s.State().Page; got != 3 {
		t.Errorf("expected page 3, got %d", got)
	}
	if len(*seen) != 1 {
		t.Errorf("expected 1 notification for clamp, got %d", len(*seen))
	}

	if s.SetTotalCount(130) {
		t.Error("expected no change when page still fits")
	}
}

func TestNextPrevPage(t *testing.T) {
	s, _ := newStore(t)
	s.SetTotalCount(120)
	s.NextPage()
	s.NextPage()
	s.NextPage()
	if got := s.State().Page; got != 3 {
		t.Errorf("expected to stop at last page 3, got %d", got)
	}
	s.PrevPage()
	if got := s.State().Page; got != 2 {
		t.Errorf("expected page 2, got %d", got)
	}
}

func TestSetPageSize(t *testing.T) {
	s, seen := newStore(t)
	s.SetTotalCount(500)
	s.GoToPage(3)
	*seen = nil

	s.SetPageSize(20)
	st := s.State()
	if st.PageSize != 20 || st.Page != 1 {
		t.Errorf("expected size 20 page 1, got size %d page %d", st.PageSize, st.Page)
	}
	if len(*seen) != 1 {
		t.Errorf("expected a single notification, got %d", len(*seen))
	}
	if s.SetPageSize(0) {
		t.Error("expected page size 0 to be ignored")
	}
}

func TestSortAndGroup(t *testing.T) {
	s, seen := newStore(t)
	s.SetSort(route.SortTitle, route.OrderAsc)
	s.SetSort(route.SortTitle, route.OrderAsc)
	s.SetSort("size", route.OrderAsc)
	s.SetGroupBy(route.GroupPhase)
	s.SetGroupBy("colour")
	if len(*seen) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(*seen))
	}
	st := s.State()
	if st.Sort != route.SortTitle || st.Order != route.OrderAsc || st.GroupBy != route.GroupPhase {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestResetFilters(t *testing.T) {
	s, _ := newStore(t)
	s.SetFilter(route.FilterPhase, "P1")
	s.SetFilter(route.FilterBlocked, "blocked")
	if !s.ResetFilters() {
		t.Fatal("expected reset to report a change")
	}
	if s.State().Filters.Active() {
		t.Errorf("expected no active filters, got %+v", s.State().Filters)
	}
	if s.ResetFilters() {
		t.Error("expected second reset to be a no-op")
	}
}

func TestStateIsSnapshot(t *testing.T) {
	s, _ := newStore(t)
	st := s.State()
	st.Search = "mutated"
	if s.State().Search != "" {
		t.Error("State() must return a copy")
	}
}

func TestSuppressNotificationsNests(t *testing.T) {
	s, seen := newStore(t)
	s.SuppressNotifications(func() {
		s.SuppressNotifications(func() {
			s.SetSearch("inner")
		})
		s.SetSearch("outer")
		if !s.Suppressed() {
			t.Error("expected outer scope to remain suppressed after inner scope returns")
		}
	})
	if len(*seen) != 0 {
		t.Errorf("expected no notifications while suppressed, got %d", len(*seen))
	}
	if s.State().Search != "outer" {
		t.Errorf("expected state to be updated while suppressed, got %q", s.State().Search)
	}
	s.SetSearch("after")
	if len(*seen) != 1 {
		t.Errorf("expected notifications to resume, got %d", len(*seen))
	}
}

func TestSuppressNotificationsRestoresAfterPanic(t *testing.T) {
	s, seen := newStore(t)
	func() {
		defer func() { _ = recover() }()
		s.SuppressNotifications(func() { panic("boom") })
	}()
	if s.Suppressed() {
		t.Fatal("expected suppression to be lifted after panic")
	}
	s.SetSearch("x")
	if len(*seen) != 1 {
		t.Errorf("expected 1 notification, got %d", len(*seen))
	}
}

func TestListenerMayMutate(t *testing.T) {
	s := liststate.New(route.DefaultListState())
	var calls int
	s.Subscribe(func(st route.ListState) {
		calls++
		if st.Search == "first" {
			s.SetSearch("second")
		}
	})
	s.SetSearch("first")
	if calls != 2 {
		t.Errorf("expected 2 listener calls, got %d", calls)
	}
	if s.State().Search != "second" {
		t.Errorf("expected nested mutation to stick, got %q", s.State().Search)
	}
}

func TestUnsubscribe(t *testing.T) {
	s := liststate.New(route.DefaultListState())
	var calls int
	unsub := s.Subscribe(func(route.ListState) { calls++ })
	s.SetSearch("a")
	unsub()
	s.SetSearch("b")
	if calls != 1 {
		t.Errorf("expected 1 call before unsubscribe, got %d", calls)
	}
}

func TestApplyDoesNotClamp(t *testing.T) {
	s, seen := newStore(t)
	st := route.DefaultListState()
	st.Page = 7
	if !s.Apply(st) {
		t.Fatal("expected Apply to report a change")
	}
	if s.State().Page != 7 {
		t.Errorf("expected page 7, got %d", s.State().Page)
	}
	if s.Apply(st) {
		t.Error("expected re-applying the same state to be a no-op")
	}
	if len(*seen) != 1 {
		t.Errorf("expected 1 notification, got %d", len(*seen))
	}
}

func TestSetFiltersNotifiesOnce(t *testing.T) {
	s, seen := newStore(t)
	s.SetTotalCount(500)
	s.GoToPage(3)
	*seen = nil

	s.SetFilters(route.Filters{Phase: "P2", Role: "developer", Status: "bogus", Blocked: route.BlockedOnly})
	if len(*seen) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(*seen))
	}
	got := s.State()
	want := route.Filters{Phase: "P2", Role: "developer", Blocked: route.BlockedOnly}
	if got.Filters != want {
		t.Errorf("expected %+v, got %+v", want, got.Filters)
	}
	if got.Page != 1 {
		t.Errorf("expected page 1, got %d", got.Page)
	}
	if s.SetFilters(want) {
		t.Error("expected no change for identical filters")
	}
}
