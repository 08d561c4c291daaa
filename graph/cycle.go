package graph

import (
	"sort"

	"github.com/warriorguo/topoflow/types"
)

type CycleReport struct {
	HasCycles bool
	Cycles    [][]string
}

type dfsColor int

const (
	white dfsColor = 0
	gray  dfsColor = 1
	black dfsColor = 2
)

/**
 * DetectCycles runs a three-color DFS over the directed edges. An edge
 * landing on a gray node closes a cycle, which is reconstructed from the
 * DFS stack. Roots are visited in ID order so reported cycles are stable.
 */
func DetectCycles(nodeIDs []string, edges []*types.Edge) *CycleReport {
	adj := forwardAdjacency(edges)
	colors := make(map[string]dfsColor, len(nodeIDs))
	report := &CycleReport{}

	stack := make([]string, 0, len(nodeIDs))

	var visit func(id string)
	visit = func(id string) {
		colors[id] = gray
		stack = append(stack, id)

		for _, to := range adj[id] {
			switch colors[to] {
			case white:
				visit(to)
			case gray:
				report.HasCycles = true
				report.Cycles = append(report.Cycles, extractCycle(stack, to))
			}
		}

		stack = stack[:len(stack)-1]
		colors[id] = black
	}

	sorted := append([]string(nil), nodeIDs...)
	sort.Strings(sorted)
	for _, id := range sorted {
		if colors[id] == white {
			visit(id)
		}
	}
	return report
}

// extractCycle slices the DFS stack from the first occurrence of entry.
func extractCycle(stack []string, entry string) []string {
	for i, id := range stack {
		if id == entry {
			cycle := make([]string, len(stack)-i)
			copy(cycle, stack[i:])
			return cycle
		}
	}
	return []string{entry}
}
