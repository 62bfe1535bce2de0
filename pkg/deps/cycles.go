package deps

import (
	"sort"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/vanderheijden86/taskpeek/pkg/metrics"
	"github.com/vanderheijden86/taskpeek/pkg/model"
)

// FindCycles returns the strongly connected components of the dependency
// graph that contain a cycle, each sorted by id, ordered by their first id.
// A task that depends on itself forms a cycle of one. Tasks in a cycle can
// never become unblocked; callers only report them.
func FindCycles(edges []model.DependencyEdge) [][]string {
	if len(edges) == 0 {
		return nil
	}
	defer metrics.Timer(metrics.CycleCheck)()

	g := simple.NewDirectedGraph()
	idToNode := make(map[string]int64)
	nodeToID := make(map[int64]string)
	node := func(id string) int64 {
		if n, ok := idToNode[id]; ok {
			return n
		}
		n := g.NewNode()
		g.AddNode(n)
		idToNode[id] = n.ID()
		nodeToID[n.ID()] = id
		return n.ID()
	}

	selfLoops := make(map[string]bool)
	for _, e := range edges {
		u, v := node(e.TaskID), node(e.DependsOn)
		if u == v {
			// simple.DirectedGraph panics on self edges.
			selfLoops[e.TaskID] = true
			continue
		}
		g.SetEdge(g.NewEdge(g.Node(u), g.Node(v)))
	}

	var cycles [][]string
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) == 1 {
			id := nodeToID[scc[0].ID()]
			if selfLoops[id] {
				cycles = append(cycles, []string{id})
			}
			continue
		}
		ids := make([]string, len(scc))
		for i, n := range scc {
			ids[i] = nodeToID[n.ID()]
		}
		sort.Strings(ids)
		cycles = append(cycles, ids)
	}
	sort.Slice(cycles, func(i, j int) bool { return cycles[i][0] < cycles[j][0] })
	return cycles
}
