package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/vanderheijden86/taskpeek/internal/api"
	"github.com/vanderheijden86/taskpeek/pkg/board"
	"github.com/vanderheijden86/taskpeek/pkg/catalog"
	"github.com/vanderheijden86/taskpeek/pkg/config"
	"github.com/vanderheijden86/taskpeek/pkg/debug"
	"github.com/vanderheijden86/taskpeek/pkg/deps"
	"github.com/vanderheijden86/taskpeek/pkg/listview"
	"github.com/vanderheijden86/taskpeek/pkg/model"
	"github.com/vanderheijden86/taskpeek/pkg/overview"
	"github.com/vanderheijden86/taskpeek/pkg/peek"
	"github.com/vanderheijden86/taskpeek/pkg/route"
)

type dumpTask struct {
	model.Task
	Blocked       bool   `json:"blocked"`
	DisplayStatus string `json:"display_status"`
}

type listDump struct {
	Address    string     `json:"address"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount *int       `json:"total_count,omitempty"`
	Tasks      []dumpTask `json:"tasks"`
}

type relationDump struct {
	ID     string       `json:"id"`
	Title  string       `json:"title,omitempty"`
	Status model.Status `json:"status,omitempty"`
	Found  bool         `json:"found"`
}

type taskDump struct {
	Address   string         `json:"address"`
	Task      model.Task     `json:"task"`
	Blocked   bool           `json:"blocked"`
	DependsOn []relationDump `json:"depends_on"`
	Blocks    []relationDump `json:"blocks"`
	Notes     []model.Note   `json:"notes"`
}

type columnDump struct {
	Key   string     `json:"key"`
	Title string     `json:"title"`
	Tasks []dumpTask `json:"tasks"`
}

type boardDump struct {
	Address  string         `json:"address"`
	Swimlane route.Swimlane `json:"swimlane"`
	Columns  []columnDump   `json:"columns"`
}

type phaseDump struct {
	Phase      model.Phase       `json:"phase"`
	Milestones []model.Milestone `json:"milestones"`
	Done       int               `json:"done"`
	Total      int               `json:"total"`
	Percent    int               `json:"percent"`
}

type overviewDump struct {
	Address string      `json:"address"`
	Phases  []phaseDump `json:"phases"`
}

// dump loads the view named by address once and writes it as indented JSON.
// Unknown addresses fall back to the list, as in the TUI.
func dump(ctx context.Context, w io.Writer, client *api.Client, cfg config.Config, address string) error {
	if address == "" {
		address = cfg.UI.StartRoute
	}
	r, ok := route.Decode(route.WithPageSize(address, cfg.List.PageSize))
	debug.LogIf(!ok, "dump: unknown address %q, using the list", address)

	resolver := deps.NewResolver(client, nil, deps.WithConcurrency(cfg.List.LookupConcurrency))

	var out any
	switch r.Kind {
	case route.KindTask:
		pk := peek.New(client, resolver.Cache(), peek.WithDepsLimit(cfg.List.DepsLimit))
		snap := pk.Load(ctx, pk.Open(r.TaskID))
		if snap.State == peek.Error {
			return fmt.Errorf("loading task %s: %w", r.TaskID, snap.Err)
		}
		d := snap.Detail
		out = taskDump{
			Address:   route.Href(r),
			Task:      d.Task,
			Blocked:   d.Blocked,
			DependsOn: relations(d.Parents),
			Blocks:    relations(d.Children),
			Notes:     d.Notes,
		}

	case route.KindBoard:
		cat := catalog.Load(ctx, client)
		b := board.Load(ctx, client, resolver, cat, r.Swimlane, cfg.List.DepsLimit)
		if b.Err != nil {
			return fmt.Errorf("loading board: %w", b.Err)
		}
		bd := boardDump{Address: route.Href(r), Swimlane: r.Swimlane, Columns: []columnDump{}}
		for _, c := range b.Columns {
			bd.Columns = append(bd.Columns, columnDump{Key: c.Key, Title: c.Title, Tasks: tasks(c.Rows)})
		}
		out = bd

	case route.KindOverview:
		cat := catalog.Load(ctx, client)
		if cat.PhaseErr != nil {
			return fmt.Errorf("loading phases: %w", cat.PhaseErr)
		}
		od := overviewDump{Address: route.Href(r), Phases: []phaseDump{}}
		for _, c := range overview.Load(ctx, client, cat, cfg.List.LookupConcurrency) {
			if c.Err != nil {
				return fmt.Errorf("counting tasks of %s: %w", c.Phase.ID, c.Err)
			}
			od.Phases = append(od.Phases, phaseDump{
				Phase:      c.Phase,
				Milestones: c.Milestones,
				Done:       c.Done,
				Total:      c.Total,
				Percent:    c.Percent(),
			})
		}
		out = od

	default:
		loader := listview.NewLoader(client, resolver, listview.WithDepsLimit(cfg.List.DepsLimit))
		res, _ := loader.Load(ctx, r.List)
		if res.Err != nil {
			return fmt.Errorf("loading tasks: %w", res.Err)
		}
		ld := listDump{Address: route.Href(r), Page: r.List.Page, PageSize: r.List.PageSize, Tasks: tasks(res.Rows)}
		if res.CountKnown {
			ld.TotalCount = &res.TotalCount
		}
		out = ld
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func tasks(rows []listview.Row) []dumpTask {
	out := make([]dumpTask, len(rows))
	for i, r := range rows {
		out[i] = dumpTask{Task: r.Task, Blocked: r.Blocked, DisplayStatus: r.DisplayStatus()}
	}
	return out
}

func relations(rels []peek.Relation) []relationDump {
	out := make([]relationDump, len(rels))
	for i, r := range rels {
		out[i] = relationDump{ID: r.ID, Found: r.Found}
		if r.Found {
			out[i].Title = r.Task.Title
			out[i].Status = r.Task.Status
		}
	}
	return out
}
