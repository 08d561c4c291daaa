package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warriorguo/topoflow/types"
)

func diamondEdges() []*types.Edge {
	return []*types.Edge{
		types.NewEdge("e1", "A", "C"),
		types.NewEdge("e2", "B", "C"),
		types.NewEdge("e3", "C", "D"),
	}
}

func TestTopologicalSortLevels(t *testing.T) {
	nodeIDs := []string{"A", "B", "C", "D"}
	topo, err := TopologicalSort(nodeIDs, diamondEdges())
	assert.Nil(t, err)
	fmt.Printf("topo: %+v\n", topo)

	assert.Equal(t, []string{"A", "B", "C", "D"}, topo.Order)
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}, {"D"}}, topo.Levels)
	assert.Equal(t, 0, topo.LevelOf("B"))
	assert.Equal(t, 1, topo.LevelOf("C"))
	assert.Equal(t, -1, topo.LevelOf("unknown"))
}

func TestTopologicalSortDeterministicTieBreak(t *testing.T) {
	nodeIDs := []string{"zeta", "alpha", "mike", "delta"}
	topo, err := TopologicalSort(nodeIDs, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"alpha", "delta", "mike", "zeta"}, topo.Order)
	assert.Equal(t, 1, len(topo.Levels))
}

func TestTopologicalSortEveryNodeOnce(t *testing.T) {
	nodeIDs := []string{"A", "B", "C", "D", "E", "F"}
	edges := []*types.Edge{
		types.NewEdge("e1", "A", "B"),
		types.NewEdge("e2", "A", "C"),
		types.NewEdge("e3", "B", "D"),
		types.NewEdge("e4", "C", "D"),
		types.NewEdge("e5", "D", "E"),
		types.NewEdge("e6", "C", "F"),
	}
	topo, err := TopologicalSort(nodeIDs, edges)
	assert.Nil(t, err)
	assert.Equal(t, len(nodeIDs), len(topo.Order))

	position := make(map[string]int)
	for i, id := range topo.Order {
		position[id] = i
	}
	for _, e := range edges {
		assert.Less(t, position[e.From], position[e.To], "edge %s -> %s", e.From, e.To)
	}
}

func TestTopologicalSortCycleFails(t *testing.T) {
	nodeIDs := []string{"A", "B", "C"}
	edges := []*types.Edge{
		types.NewEdge("e1", "A", "B"),
		types.NewEdge("e2", "B", "C"),
		types.NewEdge("e3", "C", "A"),
	}
	_, err := TopologicalSort(nodeIDs, edges)
	assert.NotNil(t, err)
	assert.True(t, types.IsStructural(err))
}

func TestTopologicalSortIgnoresUndirected(t *testing.T) {
	nodeIDs := []string{"A", "B"}
	undirected := types.NewEdge("e1", "A", "B")
	undirected.Direction = types.Undirected

	topo, err := TopologicalSort(nodeIDs, []*types.Edge{undirected})
	assert.Nil(t, err)
	assert.Equal(t, [][]string{{"A", "B"}}, topo.Levels)
}

// bruteReachable answers "is target reachable from start" without any of
// the DFS machinery, as an independent oracle for cycle detection.
func bruteReachable(start, target string, edges []*types.Edge) bool {
	changed := true
	reach := map[string]bool{start: true}
	for changed {
		changed = false
		for _, e := range edges {
			if !e.IsDirected() {
				continue
			}
			if reach[e.From] && !reach[e.To] {
				reach[e.To] = true
				changed = true
			}
		}
	}
	return reach[target]
}

func bruteHasCycle(nodeIDs []string, edges []*types.Edge) bool {
	for _, e := range edges {
		if e.IsDirected() && bruteReachable(e.To, e.From, edges) {
			return true
		}
	}
	return false
}

func TestDetectCyclesAgainstBruteForce(t *testing.T) {
	cases := []struct {
		name    string
		nodeIDs []string
		edges   []*types.Edge
	}{
		{"acyclic diamond", []string{"A", "B", "C", "D"}, diamondEdges()},
		{"self loop", []string{"A"}, []*types.Edge{types.NewEdge("e1", "A", "A")}},
		{"two cycle", []string{"A", "B"}, []*types.Edge{
			types.NewEdge("e1", "A", "B"),
			types.NewEdge("e2", "B", "A"),
		}},
		{"long cycle with tail", []string{"A", "B", "C", "D", "E"}, []*types.Edge{
			types.NewEdge("e1", "A", "B"),
			types.NewEdge("e2", "B", "C"),
			types.NewEdge("e3", "C", "D"),
			types.NewEdge("e4", "D", "B"),
			types.NewEdge("e5", "A", "E"),
		}},
		{"no edges", []string{"A", "B", "C"}, nil},
	}

	for _, tc := range cases {
		report := DetectCycles(tc.nodeIDs, tc.edges)
		assert.Equal(t, bruteHasCycle(tc.nodeIDs, tc.edges), report.HasCycles, tc.name)
		if report.HasCycles {
			assert.NotEmpty(t, report.Cycles, tc.name)
		}
	}
}

func TestDetectCyclesReconstruction(t *testing.T) {
	nodeIDs := []string{"A", "B", "C"}
	edges := []*types.Edge{
		types.NewEdge("e1", "A", "B"),
		types.NewEdge("e2", "B", "C"),
		types.NewEdge("e3", "C", "A"),
	}
	report := DetectCycles(nodeIDs, edges)
	assert.True(t, report.HasCycles)
	assert.Equal(t, 1, len(report.Cycles))
	assert.Equal(t, []string{"A", "B", "C"}, report.Cycles[0])
}

func TestFindCriticalPath(t *testing.T) {
	g := types.NewGraph("g")
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(id)
	}
	for _, e := range diamondEdges() {
		g.AddEdge(e)
	}

	durations := map[string]float64{"A": 1, "B": 5, "C": 2, "D": 1}
	cp, err := FindCriticalPath(g, durations)
	assert.Nil(t, err)
	fmt.Printf("critical path: %+v\n", cp)

	// B(5) + edge(1) + C(2) + edge(1) + D(1) = 10
	assert.Equal(t, []string{"B", "C", "D"}, cp.Path)
	assert.Equal(t, 10.0, cp.Length)
}

func TestFindCriticalPathNilDurations(t *testing.T) {
	g := types.NewGraph("g")
	for _, id := range []string{"A", "B"} {
		g.AddNode(id)
	}
	g.AddEdge(types.NewEdge("e1", "A", "B"))

	cp, err := FindCriticalPath(g, nil)
	assert.Nil(t, err)
	assert.Equal(t, []string{"A", "B"}, cp.Path)
	assert.Equal(t, 1.0, cp.Length)
}

func TestAnalyzeDependencies(t *testing.T) {
	g := types.NewGraph("g")
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(id)
	}
	for _, e := range diamondEdges() {
		g.AddEdge(e)
	}

	report, err := AnalyzeDependencies(g, "C")
	assert.Nil(t, err)
	assert.Equal(t, []string{"A", "B"}, report.Ancestors)
	assert.Equal(t, []string{"D"}, report.Descendants)

	report, err = AnalyzeDependencies(g, "D")
	assert.Nil(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, report.Ancestors)
	assert.Empty(t, report.Descendants)

	_, err = AnalyzeDependencies(g, "missing")
	assert.NotNil(t, err)
}

func TestSuccessorsFollowDirectedEdgesOnly(t *testing.T) {
	reference := types.NewEdge("e3", "A", "B")
	reference.Type = types.EdgeReference
	reference.Direction = types.Undirected

	edges := []*types.Edge{
		types.NewEdge("e1", "A", "C"),
		types.NewEdge("e2", "C", "D"),
		reference,
	}

	// B is only referenced, never depended on
	assert.Equal(t, []string{"C", "D"}, Successors("A", edges))
	assert.Empty(t, Successors("B", edges))

	// AnalyzeDependencies keeps the wider reachability semantics
	g := types.NewGraph("g")
	for _, id := range []string{"A", "B", "C", "D"} {
		g.AddNode(id)
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	report, err := AnalyzeDependencies(g, "A")
	assert.Nil(t, err)
	assert.Contains(t, report.Descendants, "B")
}

func TestValidateGraph(t *testing.T) {
	g := types.NewGraph("g")
	for _, id := range []string{"A", "B", "C", "lonely"} {
		g.AddNode(id)
	}
	g.AddEdge(types.NewEdge("e1", "A", "B"))
	g.AddEdge(types.NewEdge("e2", "B", "ghost"))
	g.AddEdge(types.NewEdge("e3", "C", "C"))

	violations := Validate(g, nil)
	fmt.Printf("violations: %v\n", violations)

	kinds := make(map[ViolationKind]int)
	for _, v := range violations {
		kinds[v.Kind]++
	}
	assert.Equal(t, 1, kinds[ViolationDanglingEdge])
	assert.Equal(t, 1, kinds[ViolationCycle])
	assert.Equal(t, 1, kinds[ViolationIsolatedNode])

	// idempotence: identical list on an unmodified graph
	assert.Equal(t, violations, Validate(g, nil))

	allowed := Validate(g, &ValidateOptions{AllowIsolated: true})
	for _, v := range allowed {
		assert.NotEqual(t, ViolationIsolatedNode, v.Kind)
	}
}
