package catalog_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/testutil"
)

func TestLoad(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Demo())
	c := catalog.Load(context.Background(), api.NewClient(srv.URL))

	if c.PhaseErr != nil || c.MilestoneErr != nil {
		t.Fatalf("unexpected errors: %v, %v", c.PhaseErr, c.MilestoneErr)
	}
	if len(c.Phases) != 4 || len(c.Milestones) != 4 {
		t.Fatalf("expected 4 phases and 4 milestones, got %d and %d", len(c.Phases), len(c.Milestones))
	}
	if got := c.PhaseLabel("P2"); got != "P2 - Development" {
		t.Errorf("expected 'P2 - Development', got %q", got)
	}
	if got := c.MilestoneLabel("M1"); got != "M1 - Specs approved" {
		t.Errorf("expected 'M1 - Specs approved', got %q", got)
	}
	if got := c.PhaseLabel(""); got != catalog.Placeholder {
		t.Errorf("expected placeholder for empty id, got %q", got)
	}
	if got := c.MilestoneLabel("M99"); got != "M99" {
		t.Errorf("expected bare id for unknown milestone, got %q", got)
	}
}

func TestLoadPartialFailure(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Demo())
	srv.Fail("/milestones", http.StatusBadGateway)

	c := catalog.Load(context.Background(), api.NewClient(srv.URL))
	if c.MilestoneErr == nil {
		t.Error("expected milestone error to be recorded")
	}
	if len(c.Phases) != 4 {
		t.Errorf("expected phases despite milestone failure, got %d", len(c.Phases))
	}
	if len(c.Milestones) != 0 {
		t.Errorf("expected no milestones, got %d", len(c.Milestones))
	}
}

func TestNewOrdering(t *testing.T) {
	two, one := 2, 1
	c := catalog.New(
		[]model.Phase{{ID: "B", SortOrder: &two}, {ID: "A", SortOrder: &one}},
		[]model.Milestone{{ID: "M2", PhaseID: "B"}, {ID: "M1", PhaseID: "A"}, {ID: "M3", PhaseID: "B"}},
	)
	if c.Phases[0].ID != "A" {
		t.Errorf("expected phase A first, got %s", c.Phases[0].ID)
	}
	ms := c.MilestonesOf("B")
	if len(ms) != 2 || ms[0].ID != "M2" || ms[1].ID != "M3" {
		t.Errorf("unexpected milestones of B: %+v", ms)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *catalog.Catalog
	if got := c.PhaseLabel("P1"); got != "P1" {
		t.Errorf("expected bare id from nil catalog, got %q", got)
	}
	if c.MilestonesOf("P1") != nil {
		t.Error("expected nil milestones from nil catalog")
	}
}
