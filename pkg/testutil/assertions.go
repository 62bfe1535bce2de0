package testutil

import (
	"sort"
	"testing"

	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// AssertTaskCount verifies the expected number of tasks.
func AssertTaskCount(t *testing.T, tasks []model.Task, expected int) {
	t.Helper()
	if len(tasks) != expected {
		t.Errorf("expected %d tasks, got %d", expected, len(tasks))
	}
}

// AssertTaskIDs verifies tasks has exactly the given ids in order.
func AssertTaskIDs(t *testing.T, tasks []model.Task, ids ...string) {
	t.Helper()
	got := TaskIDs(tasks)
	if len(got) != len(ids) {
		t.Errorf("expected ids %v, got %v", ids, got)
		return
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("expected ids %v, got %v", ids, got)
			return
		}
	}
}

// AssertNoDuplicateIDs verifies all task ids are unique.
func AssertNoDuplicateIDs(t *testing.T, tasks []model.Task) {
	t.Helper()
	seen := make(map[string]bool)
	for _, task := range tasks {
		if seen[task.ID] {
			t.Errorf("duplicate task ID: %s", task.ID)
		}
		seen[task.ID] = true
	}
}

// AssertAllValid verifies all tasks pass validation.
func AssertAllValid(t *testing.T, tasks []model.Task) {
	t.Helper()
	for i, task := range tasks {
		if err := task.Validate(); err != nil {
			t.Errorf("task %d (%s) invalid: %v", i, task.ID, err)
		}
	}
}

// AssertBlocked verifies the blocked classification exactly.
func AssertBlocked(t *testing.T, got map[string]bool, blocked []string, unblocked []string) {
	t.Helper()
	for _, id := range blocked {
		v, ok := got[id]
		if !ok {
			t.Errorf("task %s missing from classification", id)
		} else if !v {
			t.Errorf("expected %s to be blocked", id)
		}
	}
	for _, id := range unblocked {
		v, ok := got[id]
		if !ok {
			t.Errorf("task %s missing from classification", id)
		} else if v {
			t.Errorf("expected %s to be unblocked", id)
		}
	}
	if want := len(blocked) + len(unblocked); len(got) != want {
		t.Errorf("expected %d classified tasks, got %d: %v", want, len(got), got)
	}
}

// TaskIDs returns the ids of tasks in order.
func TaskIDs(tasks []model.Task) []string {
	ids := make([]string, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
	}
	return ids
}

// SortedIDs returns the ids of tasks sorted.
func SortedIDs(tasks []model.Task) []string {
	ids := TaskIDs(tasks)
	sort.Strings(ids)
	return ids
}
