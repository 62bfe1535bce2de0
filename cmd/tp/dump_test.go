package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/config"
	"github.com/vanderheijden86/taskpeek/pkg/testutil"
)

func runDump(t *testing.T, address string, prep func(*testutil.Server)) (string, error) {
	t.Helper()
	srv := testutil.NewServer(t, testutil.Demo())
	if prep != nil {
		prep(srv)
	}
	var buf bytes.Buffer
	err := dump(context.Background(), &buf, api.NewClient(srv.URL), config.DefaultConfig(), address)
	return buf.String(), err
}

func TestDumpList(t *testing.T) {
	out, err := runDump(t, "#/list?role=developer&order=asc", nil)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	var got listDump
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got.Address != "#/list?role=developer&order=asc" {
		t.Errorf("unexpected address %q", got.Address)
	}
	if got.TotalCount == nil || *got.TotalCount != 3 {
		t.Errorf("expected total 3, got %v", got.TotalCount)
	}
	ids := make([]string, len(got.Tasks))
	for i, task := range got.Tasks {
		ids[i] = task.ID
	}
	if strings.Join(ids, ",") != "T4,T5,T7" {
		t.Errorf("expected T4,T5,T7 ascending, got %v", ids)
	}
	if got.Tasks[1].DisplayStatus != "blocked" || got.Tasks[0].Blocked {
		t.Errorf("unexpected blocked flags %+v", got.Tasks)
	}
}

func TestDumpTask(t *testing.T) {
	out, err := runDump(t, "#/task/T9", nil)
	if err != nil {
		t.Fatalf("dump failed: %v", err)
	}
	var got taskDump
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.Task.ID != "T9" || !got.Blocked || len(got.DependsOn) != 2 || len(got.Blocks) != 0 {
		t.Errorf("unexpected task dump %+v", got)
	}
}

func TestDumpTaskNotFound(t *testing.T) {
	_, err := runDump(t, "#/task/NOPE", nil)
	if err == nil || !api.IsNotFound(err) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestDumpBoardAndOverview(t *testing.T) {
	out, err := runDump(t, "#/board?swimlane=role", nil)
	if err != nil {
		t.Fatalf("board dump failed: %v", err)
	}
	var b boardDump
	if err := json.Unmarshal([]byte(out), &b); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if b.Swimlane != "role" || len(b.Columns) != 5 {
		t.Errorf("unexpected board %+v", b)
	}

	out, err = runDump(t, "#/overview", nil)
	if err != nil {
		t.Fatalf("overview dump failed: %v", err)
	}
	var o overviewDump
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(o.Phases) != 4 || o.Phases[0].Percent != 66 {
		t.Errorf("unexpected overview %+v", o)
	}
}

func TestDumpListFailure(t *testing.T) {
	_, err := runDump(t, "#/list", func(s *testutil.Server) {
		s.Fail("/tasks", http.StatusInternalServerError)
	})
	if err == nil {
		t.Error("expected error when tasks cannot be loaded")
	}
}
