// Package catalog caches the phases and milestones used for filter options,
// labels and the overview.
package catalog

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// Limit is the number of phases and milestones requested.
const Limit = 100

// Source fetches phases and milestones.
type Source interface {
	ListPhases(ctx context.Context, limit int) ([]model.Phase, error)
	ListMilestones(ctx context.Context, limit int) ([]model.Milestone, error)
}

// Catalog is an immutable snapshot of phases and milestones.
type Catalog struct {
	Phases     []model.Phase
	Milestones []model.Milestone

	PhaseErr     error
	MilestoneErr error

	phases     map[string]model.Phase
	milestones map[string]model.Milestone
}

// Load fetches phases and milestones concurrently. A failed fetch leaves that
// half empty and records the error; Load itself never fails.
func Load(ctx context.Context, src Source) *Catalog {
	defer metrics.Timer(metrics.CatalogLoad)()

	var c Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.Phases, c.PhaseErr = src.ListPhases(gctx, Limit)
		return nil
	})
	g.Go(func() error {
		c.Milestones, c.MilestoneErr = src.ListMilestones(gctx, Limit)
		return nil
	})
	_ = g.Wait()

	debug.LogIf(c.PhaseErr != nil, "catalog: phases: %v", c.PhaseErr)
	debug.LogIf(c.MilestoneErr != nil, "catalog: milestones: %v", c.MilestoneErr)
	return New(c.Phases, c.Milestones).withErrors(c.PhaseErr, c.MilestoneErr)
}

// New builds a catalog from already-fetched data. Phases are ordered by sort
// order then id; milestones by phase then id.
func New(phases []model.Phase, milestones []model.Milestone) *Catalog {
	c := &Catalog{
		Phases:     append([]model.Phase(nil), phases...),
		Milestones: append([]model.Milestone(nil), milestones...),
		phases:     make(map[string]model.Phase, len(phases)),
		milestones: make(map[string]model.Milestone, len(milestones)),
	}
	sort.SliceStable(c.Phases, func(i, j int) bool {
		a, b := c.Phases[i], c.Phases[j]
		if ao, bo := order(a.SortOrder), order(b.SortOrder); ao != bo {
			return ao < bo
		}
		return a.ID < b.ID
	})
	sort.SliceStable(c.Milestones, func(i, j int) bool {
		a, b := c.Milestones[i], c.Milestones[j]
		if a.PhaseID != b.PhaseID {
			return a.PhaseID < b.PhaseID
		}
		return a.ID < b.ID
	})
	for _, p := range c.Phases {
		c.phases[p.ID] = p
	}
	for _, m := range c.Milestones {
		c.milestones[m.ID] = m
	}
	return c
}

func (c *Catalog) withErrors(phaseErr, milestoneErr error) *Catalog {
	c.PhaseErr = phaseErr
	c.MilestoneErr = milestoneErr
	return c
}

func order(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Phase returns the phase with id.
func (c *Catalog) Phase(id string) (model.Phase, bool) {
	if c == nil {
		return model.Phase{}, false
	}
	p, ok := c.phases[id]
	return p, ok
}

// Milestone returns the milestone with id.
func (c *Catalog) Milestone(id string) (model.Milestone, bool) {
	if c == nil {
		return model.Milestone{}, false
	}
	m, ok := c.milestones[id]
	return m, ok
}

// MilestonesOf returns the milestones of a phase in catalog order.
func (c *Catalog) MilestonesOf(phaseID string) []model.Milestone {
	if c == nil {
		return nil
	}
	var out []model.Milestone
	for _, m := range c.Milestones {
		if m.PhaseID == phaseID {
			out = append(out, m)
		}
	}
	return out
}

// Placeholder is shown for a missing phase or milestone.
const Placeholder = "—"

// PhaseLabel renders "id - name", the bare id when the phase is unknown, or
// Placeholder for an empty id.
func (c *Catalog) PhaseLabel(id string) string {
	if id == "" {
		return Placeholder
	}
	if p, ok := c.Phase(id); ok && p.Name != "" {
		return id + " - " + p.Name
	}
	return id
}

// MilestoneLabel is PhaseLabel for milestones.
func (c *Catalog) MilestoneLabel(id string) string {
	if id == "" {
		return Placeholder
	}
	if m, ok := c.Milestone(id); ok && m.Name != "" {
		return id + " - " + m.Name
	}
	return id
}
