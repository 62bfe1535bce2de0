// Package testutil provides deterministic task fixtures and an in-process
// fake taskman server for tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// Fixture is a set of tasks with their dependency edges.
type Fixture struct {
	Description string
	Tasks       []model.Task
	Edges       []model.DependencyEdge
}

// GeneratorConfig controls task generation.
type GeneratorConfig struct {
	Seed      int64          // 0 means current time
	IDPrefix  string         // default "T"
	BaseTime  time.Time      // UpdatedAt of the first task
	StatusMix []model.Status // nil means all to_do
	Phases    []string       // phase ids assigned round-robin
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:      42,
		IDPrefix:  "T",
		BaseTime:  time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		StatusMix: []model.Status{model.StatusToDo},
		Phases:    []string{"P1", "P2"},
	}
}

// Generator creates fixtures with various dependency topologies.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = DefaultConfig().BaseTime
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "T"
	}
	if len(cfg.StatusMix) == 0 {
		cfg.StatusMix = []model.Status{model.StatusToDo}
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Tasks returns n tasks with ids <prefix>1..<prefix>n. Later tasks are
// updated later.
func (g *Generator) Tasks(n int) []model.Task {
	tasks := make([]model.Task, n)
	for i := range tasks {
		t := model.Task{
			ID:        fmt.Sprintf("%s%d", g.cfg.IDPrefix, i+1),
			Title:     fmt.Sprintf("Task %d", i+1),
			Status:    g.cfg.StatusMix[g.rng.Intn(len(g.cfg.StatusMix))],
			Role:      model.KnownRoles[i%len(model.KnownRoles)].Value,
			UpdatedAt: g.cfg.BaseTime.Add(time.Duration(i) * time.Hour).Format(time.RFC3339),
		}
		if len(g.cfg.Phases) > 0 {
			t.PhaseID = g.cfg.Phases[i%len(g.cfg.Phases)]
		}
		tasks[i] = t
	}
	return tasks
}

// Chain makes task i+1 depend on task i.
func (g *Generator) Chain(size int) Fixture {
	tasks := g.Tasks(size)
	edges := make([]model.DependencyEdge, 0, size)
	for i := 1; i < size; i++ {
		edges = append(edges, model.DependencyEdge{TaskID: tasks[i].ID, DependsOn: tasks[i-1].ID})
	}
	return Fixture{
		Description: fmt.Sprintf("chain of %d tasks", size),
		Tasks:       tasks,
		Edges:       edges,
	}
}

// Star makes every spoke depend on the first task.
func (g *Generator) Star(spokes int) Fixture {
	tasks := g.Tasks(spokes + 1)
	edges := make([]model.DependencyEdge, spokes)
	for i := 1; i <= spokes; i++ {
		edges[i-1] = model.DependencyEdge{TaskID: tasks[i].ID, DependsOn: tasks[0].ID}
	}
	return Fixture{
		Description: fmt.Sprintf("star of %d spokes on %s", spokes, tasks[0].ID),
		Tasks:       tasks,
		Edges:       edges,
	}
}

// Cycle is a chain whose first task also depends on its last.
func (g *Generator) Cycle(size int) Fixture {
	f := g.Chain(size)
	if size > 0 {
		f.Edges = append(f.Edges, model.DependencyEdge{TaskID: f.Tasks[0].ID, DependsOn: f.Tasks[size-1].ID})
	}
	f.Description = fmt.Sprintf("cycle of %d tasks", size)
	return f
}

func intPtr(n int) *int { return &n }

// Demo returns a small project: four phases, four milestones, nine tasks and
// six dependencies. T4 waits on T2 (done); T5 and T6 wait on T4; T7 on T5; T9
// on T7 and T8.
func Demo() Dataset {
	ts := func(day int) string {
		return time.Date(2025, 3, day, 9, 0, 0, 0, time.UTC).Format("2006-01-02 15:04:05")
	}
	task := func(id, phase, ms, title string, st model.Status, order int, role string) model.Task {
		return model.Task{
			ID: id, PhaseID: phase, MilestoneID: ms, Title: title, Status: st,
			SortOrder: intPtr(order), Role: role, CreatedAt: ts(1), UpdatedAt: ts(order),
			Creator: "demo",
		}
	}
	described := func(t model.Task, desc string) model.Task {
		t.Description = desc
		return t
	}
	return Dataset{
		Phases: []model.Phase{
			{ID: "P1", Name: "Design", Status: "in_progress", SortOrder: intPtr(1)},
			{ID: "P2", Name: "Development", Status: "to_do", SortOrder: intPtr(2)},
			{ID: "P3", Name: "Acceptance", Status: "to_do", SortOrder: intPtr(3)},
			{ID: "P4", Name: "Delivery", Status: "to_do", SortOrder: intPtr(4)},
		},
		Milestones: []model.Milestone{
			{ID: "M1", PhaseID: "P1", Name: "Specs approved", Criterion: "Document signed off by client", Reached: true},
			{ID: "M2", PhaseID: "P2", Name: "MVP delivered", Criterion: "Catalog, cart and test payment operational"},
			{ID: "M3", PhaseID: "P3", Name: "Acceptance OK", Criterion: "E2E tests passing, blocking bugs resolved"},
			{ID: "M4", PhaseID: "P4", Name: "Production deployment", Criterion: "App deployed and reachable"},
		},
		Tasks: []model.Task{
			task("T1", "P1", "M1", "Write requirements document", model.StatusDone, 1, "project-manager"),
			task("T2", "P1", "M1", "Specify auth API", model.StatusDone, 2, "software-architect"),
			task("T3", "P1", "M1", "Validate specs", model.StatusInProgress, 3, "project-designer"),
			described(task("T4", "P2", "M2", "Implement auth module (API)", model.StatusInProgress, 4, "developer"),
				"Issue session tokens and handle token refresh."),
			task("T5", "P2", "M2", "Implement login screen", model.StatusToDo, 5, "developer"),
			task("T6", "P2", "M2", "Document auth API", model.StatusToDo, 6, "documentation-writer"),
			task("T7", "P3", "M3", "Write E2E tests for login", model.StatusToDo, 7, "developer"),
			task("T8", "P4", "M4", "Write deployment runbook", model.StatusToDo, 8, "documentation-writer"),
			task("T9", "P4", "M4", "Deploy to production", model.StatusToDo, 9, "project-manager"),
		},
		Edges: []model.DependencyEdge{
			{TaskID: "T4", DependsOn: "T2"},
			{TaskID: "T5", DependsOn: "T4"},
			{TaskID: "T6", DependsOn: "T4"},
			{TaskID: "T7", DependsOn: "T5"},
			{TaskID: "T9", DependsOn: "T7"},
			{TaskID: "T9", DependsOn: "T8"},
		},
		Notes: map[string][]model.Note{
			"T4": {
				{Kind: "progress", Role: "developer", CreatedAt: ts(4), Content: "Login and logout done, refresh pending."},
			},
		},
	}
}

// Dataset is everything a fake server serves.
type Dataset struct {
	Phases     []model.Phase
	Milestones []model.Milestone
	Tasks      []model.Task
	Edges      []model.DependencyEdge
	Notes      map[string][]model.Note
}
