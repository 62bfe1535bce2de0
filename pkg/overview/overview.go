// Package overview builds the per-phase progress cards.
package overview

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// Counter counts tasks matching a filter.
type Counter interface {
	CountTasks(ctx context.Context, f route.Filters) (int, error)
}

// Card summarizes one phase.
type Card struct {
	Phase      model.Phase
	Milestones []model.Milestone
	Done       int
	Total      int
	Err        error
}

// Percent returns the done share in whole percent, 0 for an empty phase.
func (c Card) Percent() int {
	if c.Total <= 0 {
		return 0
	}
	return c.Done * 100 / c.Total
}

// Reached counts reached milestones.
func (c Card) Reached() int {
	n := 0
	for _, m := range c.Milestones {
		if m.Reached {
			n++
		}
	}
	return n
}

// Load counts total and done tasks for every phase of cat, at most limit
// requests in flight. A failed count is recorded on its card.
func Load(ctx context.Context, src Counter, cat *catalog.Catalog, limit int) []Card {
	if cat == nil {
		return nil
	}
	cards := make([]Card, len(cat.Phases))
	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, p := range cat.Phases {
		cards[i] = Card{Phase: p, Milestones: cat.MilestonesOf(p.ID)}
		g.Go(func() error {
			total, err := src.CountTasks(gctx, route.Filters{Phase: p.ID})
			if err != nil {
				cards[i].Err = err
				return nil
			}
			cards[i].Total = total
			return nil
		})
		g.Go(func() error {
			done, err := src.CountTasks(gctx, route.Filters{Phase: p.ID, Status: model.StatusDone})
			if err != nil {
				debug.Log("overview: done count for %s: %v", p.ID, err)
				return nil
			}
			cards[i].Done = done
			return nil
		})
	}
	_ = g.Wait()
	return cards
}
