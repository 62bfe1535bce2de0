// Package board arranges tasks into swimlane columns.
package board

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/deps"
	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

// TaskLimit is the number of tasks the board loads.
const TaskLimit = 200

// Source is the subset of the API the board needs.
type Source interface {
	ListTasks(ctx context.Context, f route.Filters, limit, page int) ([]model.Task, error)
	ListDeps(ctx context.Context, limit int) ([]model.DependencyEdge, error)
}

// Column is one swimlane. Key is empty for tasks with no value for the lane.
type Column struct {
	Key   string
	Title string
	Rows  []listview.Row
}

// Board is a loaded board.
type Board struct {
	Swimlane route.Swimlane
	Columns  []Column
	Err      error
}

// Load fetches tasks and edges together, resolves blocked flags and builds
// the columns. A task fetch failure yields an empty board with Err set.
func Load(ctx context.Context, src Source, resolver *deps.Resolver, cat *catalog.Catalog, lane route.Swimlane, depsLimit int) Board {
	var (
		tasks    []model.Task
		tasksErr error
		edges    []model.DependencyEdge
		edgesErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		tasks, tasksErr = src.ListTasks(gctx, route.Filters{}, TaskLimit, 1)
		return nil
	})
	g.Go(func() error {
		edges, edgesErr = src.ListDeps(gctx, depsLimit)
		return nil
	})
	_ = g.Wait()

	if tasksErr != nil {
		debug.Log("board: tasks: %v", tasksErr)
		return Board{Swimlane: lane, Columns: Columns(nil, nil, lane, cat), Err: tasksErr}
	}
	debug.LogIf(edgesErr != nil, "board: deps: %v", edgesErr)

	blocked := resolver.ComputeBlocked(ctx, tasks, edges)
	return Board{Swimlane: lane, Columns: Columns(tasks, blocked, lane, cat)}
}

// Columns groups tasks by lane. Status lanes always show all three statuses;
// other lanes follow catalog or role order, then unknown keys sorted, then
// the empty key.
func Columns(tasks []model.Task, blocked map[string]bool, lane route.Swimlane, cat *catalog.Catalog) []Column {
	byKey := make(map[string][]listview.Row)
	for _, t := range tasks {
		k := laneKey(t, lane)
		byKey[k] = append(byKey[k], listview.Row{Task: t, Blocked: blocked[t.ID]})
	}

	var cols []Column
	used := make(map[string]bool)
	add := func(key, title string, always bool) {
		if used[key] || (!always && len(byKey[key]) == 0) {
			return
		}
		used[key] = true
		rows := byKey[key]
		sortRows(rows)
		cols = append(cols, Column{Key: key, Title: title, Rows: rows})
	}

	switch lane {
	case route.SwimlanePhase:
		if cat != nil {
			for _, p := range cat.Phases {
				add(p.ID, cat.PhaseLabel(p.ID), false)
			}
		}
	case route.SwimlaneMilestone:
		if cat != nil {
			for _, m := range cat.Milestones {
				add(m.ID, cat.MilestoneLabel(m.ID), false)
			}
		}
	case route.SwimlaneRole:
		for _, r := range model.KnownRoles {
			add(r.Value, r.Label, false)
		}
	default:
		for _, s := range model.Statuses {
			add(string(s), s.Label(), true)
		}
	}

	var rest []string
	for k := range byKey {
		if !used[k] && k != "" {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(k, k, false)
	}
	add("", catalog.Placeholder, false)
	return cols
}

func laneKey(t model.Task, lane route.Swimlane) string {
	switch lane {
	case route.SwimlanePhase:
		return t.PhaseID
	case route.SwimlaneMilestone:
		return t.MilestoneID
	case route.SwimlaneRole:
		return t.Role
	default:
		return string(t.Status)
	}
}

func sortRows(rows []listview.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Task, rows[j].Task
		ao, bo := order(a.SortOrder), order(b.SortOrder)
		if ao != bo {
			return ao < bo
		}
		return a.ID < b.ID
	})
}

func order(p *int) int {
	if p == nil {
		return int(^uint(0) >> 1)
	}
	return *p
}
