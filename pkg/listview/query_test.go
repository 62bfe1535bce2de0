package listview_test

import (
	"testing"
	"time"

	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
	"github.com/vanderheijden86/taskpeek/pkg/testutil"
)

func rowIDs(rows []listview.Row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.Task.ID
	}
	return ids
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestQuerySearch(t *testing.T) {
	tasks := testutil.Demo().Tasks
	s := route.DefaultListState()
	s.Search = "  AUTH "
	s.Sort = route.SortTitle
	s.Order = route.OrderAsc

	got := rowIDs(listview.Query(tasks, nil, s))
	want := []string{"T6", "T4", "T2"}
	if !equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	s.Search = "t9"
	if got := rowIDs(listview.Query(tasks, nil, s)); !equal(got, []string{"T9"}) {
		t.Errorf("expected id match T9, got %v", got)
	}

	s.Search = "refresh"
	if got := rowIDs(listview.Query(tasks, nil, s)); !equal(got, []string{"T4"}) {
		t.Errorf("expected description match T4, got %v", got)
	}
}

func TestQueryBlockedFilter(t *testing.T) {
	tasks := []model.Task{{ID: "A", Status: model.StatusToDo}, {ID: "B", Status: model.StatusToDo}}
	blocked := map[string]bool{"A": true, "B": false}
	s := route.DefaultListState()

	s.Filters.Blocked = route.BlockedOnly
	if got := rowIDs(listview.Query(tasks, blocked, s)); !equal(got, []string{"A"}) {
		t.Errorf("expected only A, got %v", got)
	}
	s.Filters.Blocked = route.BlockedExcluded
	if got := rowIDs(listview.Query(tasks, blocked, s)); !equal(got, []string{"B"}) {
		t.Errorf("expected only B, got %v", got)
	}
}

func TestSortRows(t *testing.T) {
	tasks := []model.Task{
		{ID: "A", Status: model.StatusDone, UpdatedAt: "2025-01-02 00:00:00"},
		{ID: "B", Status: model.StatusToDo, UpdatedAt: "2025-01-03T00:00:00Z"},
		{ID: "C", Status: model.StatusInProgress},
		{ID: "D", Status: model.StatusToDo, UpdatedAt: "2025-01-01 00:00:00"},
	}
	tests := []struct {
		field route.SortField
		order route.SortOrder
		want  []string
	}{
		{route.SortUpdatedAt, route.OrderDesc, []string{"B", "A", "D", "C"}},
		{route.SortUpdatedAt, route.OrderAsc, []string{"C", "D", "A", "B"}},
		{route.SortStatus, route.OrderAsc, []string{"B", "D", "C", "A"}},
		{route.SortStatus, route.OrderDesc, []string{"A", "C", "B", "D"}},
	}
	for _, tt := range tests {
		s := route.DefaultListState()
		s.Sort, s.Order = tt.field, tt.order
		if got := rowIDs(listview.Query(tasks, nil, s)); !equal(got, tt.want) {
			t.Errorf("%s/%s: expected %v, got %v", tt.field, tt.order, tt.want, got)
		}
	}
}

func TestGroupRows(t *testing.T) {
	tasks := testutil.Demo().Tasks
	s := route.DefaultListState()
	s.Sort, s.Order = route.SortTitle, route.OrderAsc
	rows := listview.Query(tasks, nil, s)

	groups := listview.GroupRows(rows, route.GroupPhase)
	if len(groups) != 4 {
		t.Fatalf("expected 4 phase groups, got %d", len(groups))
	}
	total := 0
	for _, g := range groups {
		for _, r := range g.Rows {
			if r.Task.PhaseID != g.Key {
				t.Errorf("row %s in group %s", r.Task.ID, g.Key)
			}
		}
		total += len(g.Rows)
	}
	if total != len(tasks) {
		t.Errorf("expected %d grouped rows, got %d", len(tasks), total)
	}

	flat := listview.GroupRows(rows, route.GroupNone)
	if len(flat) != 1 || len(flat[0].Rows) != len(rows) {
		t.Errorf("expected one flat group, got %+v", flat)
	}
}

func TestDisplayStatus(t *testing.T) {
	r := listview.Row{Task: model.Task{Status: model.StatusToDo}, Blocked: true}
	if r.DisplayStatus() != "blocked" {
		t.Errorf("expected blocked, got %s", r.DisplayStatus())
	}
	r.Task.Status = model.StatusInProgress
	if r.DisplayStatus() != "in_progress" {
		t.Errorf("expected in_progress, got %s", r.DisplayStatus())
	}
}

func TestAge(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	tests := map[string]string{
		"2025-03-10 11:59:30": "just now",
		"2025-03-10 11:15:00": "45 minutes ago",
		"2025-03-10 11:00:00": "1 hour ago",
		"2025-03-07 12:00:00": "3 days ago",
		"":                    "",
	}
	for in, want := range tests {
		if got := listview.Age(in, now); got != want {
			t.Errorf("Age(%q) = %q, want %q", in, got, want)
		}
	}
}
