package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
	"github.com/vanderheijden86/taskpeek/pkg/testutil"
)

func newClient(t *testing.T) (*api.Client, *testutil.Server) {
	t.Helper()
	srv := testutil.NewServer(t, testutil.Demo())
	return api.NewClient(srv.URL+"/", api.WithTimeout(5*time.Second)), srv
}

func TestListTasksAndCount(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	f := route.Filters{Role: "developer"}
	tasks, err := c.ListTasks(ctx, f, 2, 1)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	testutil.AssertTaskIDs(t, tasks, "T4", "T5")

	tasks, err = c.ListTasks(ctx, f, 2, 2)
	if err != nil {
		t.Fatalf("ListTasks page 2: %v", err)
	}
	testutil.AssertTaskIDs(t, tasks, "T7")

	n, err := c.CountTasks(ctx, f)
	if err != nil {
		t.Fatalf("CountTasks: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 developer tasks, got %d", n)
	}
}

func TestBlockedFilterNotSent(t *testing.T) {
	c, _ := newClient(t)
	n, err := c.CountTasks(context.Background(), route.Filters{Blocked: route.BlockedOnly})
	if err != nil {
		t.Fatalf("CountTasks: %v", err)
	}
	if n != 9 {
		t.Errorf("expected blocked filter to be ignored server-side, got count %d", n)
	}
}

func TestGetTask(t *testing.T) {
	c, _ := newClient(t)
	task, err := c.GetTask(context.Background(), "T4")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Title != "Implement auth module (API)" || task.Status != model.StatusInProgress {
		t.Errorf("unexpected task %+v", task)
	}
	if task.SortOrder == nil || *task.SortOrder != 4 {
		t.Errorf("expected sort order 4, got %v", task.SortOrder)
	}
}

func TestGetTaskRejectsUnknownStatus(t *testing.T) {
	c, srv := newClient(t)
	srv.PutTask(model.Task{ID: "X1", Title: "Imported", Status: "archived"})

	_, err := c.GetTask(context.Background(), "X1")
	if err == nil {
		t.Fatal("expected an error for a task with an unknown status")
	}
	if api.IsNotFound(err) {
		t.Errorf("an invalid task is not a missing one, got %v", err)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	c, _ := newClient(t)
	_, err := c.GetTask(context.Background(), "nope")
	if !errors.Is(err, api.ErrNotFound) || !api.IsNotFound(err) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestServerError(t *testing.T) {
	c, srv := newClient(t)
	srv.Fail("/tasks/count", http.StatusInternalServerError)

	_, err := c.CountTasks(context.Background(), route.Filters{})
	var se *api.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *StatusError, got %v", err)
	}
	if se.Code != http.StatusInternalServerError || se.Path != "/tasks/count" {
		t.Errorf("unexpected status error %+v", se)
	}
	if api.IsNotFound(err) {
		t.Error("a 500 must not look like not-found")
	}
}

func TestDepsAndNotes(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	edges, err := c.TaskDeps(ctx, "T9")
	if err != nil {
		t.Fatalf("TaskDeps: %v", err)
	}
	if len(edges) != 2 {
		t.Errorf("expected 2 deps for T9, got %v", edges)
	}

	all, err := c.ListDeps(ctx, api.MaxDepsLimit)
	if err != nil {
		t.Fatalf("ListDeps: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("expected 6 edges, got %d", len(all))
	}

	notes, err := c.TaskNotes(ctx, "T4")
	if err != nil {
		t.Fatalf("TaskNotes: %v", err)
	}
	if len(notes) != 1 || notes[0].Kind != "progress" {
		t.Errorf("unexpected notes %+v", notes)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	c, _ := newClient(t)
	ctx := context.Background()

	phases, err := c.ListPhases(ctx, api.MaxCatalogLimit)
	if err != nil || len(phases) != 4 {
		t.Fatalf("ListPhases: %v, %d phases", err, len(phases))
	}
	milestones, err := c.ListMilestones(ctx, api.MaxCatalogLimit)
	if err != nil || len(milestones) != 4 {
		t.Fatalf("ListMilestones: %v, %d milestones", err, len(milestones))
	}
	if !milestones[0].Reached || milestones[1].Reached {
		t.Errorf("unexpected reached flags %+v", milestones)
	}
}

func TestContextCancel(t *testing.T) {
	c, _ := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.GetTask(ctx, "T1"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestTaskIDIsEscaped(t *testing.T) {
	c, srv := newClient(t)
	srv.PutTask(model.Task{ID: "a b/c", Title: "odd", Status: model.StatusToDo})
	task, err := c.GetTask(context.Background(), "a b/c")
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.Title != "odd" {
		t.Errorf("unexpected task %+v", task)
	}
}
