package graph

import (
	"sort"

	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

/**
 * TopoResult carries the flat order plus the level grouping. Each level is
 * an in-degree-zero frontier, so callers can derive parallel execution
 * batches directly: everything in level k may run once level k-1 settled.
 */
type TopoResult struct {
	Order  []string
	Levels [][]string
}

/**
 * TopologicalSort runs Kahn's algorithm over the directed edges, grouping
 * removals into levels. Tie-break within a level is node-ID ascending so
 * the output is deterministic. Returns a StructuralError when a cycle
 * prevents completion.
 */
func TopologicalSort(nodeIDs []string, edges []*types.Edge) (*TopoResult, error) {
	deg := inDegrees(nodeIDs, edges)
	adj := forwardAdjacency(edges)

	frontier := make([]string, 0, len(nodeIDs))
	for id, d := range deg {
		if d == 0 {
			frontier = append(frontier, id)
		}
	}
	sort.Strings(frontier)

	result := &TopoResult{Order: make([]string, 0, len(nodeIDs))}
	for len(frontier) > 0 {
		level := frontier
		result.Levels = append(result.Levels, level)

		next := make([]string, 0)
		for _, id := range level {
			result.Order = append(result.Order, id)
			for _, to := range adj[id] {
				if _, exists := deg[to]; !exists {
					continue
				}
				if deg[to]--; deg[to] == 0 {
					next = append(next, to)
				}
			}
		}
		sort.Strings(next)
		frontier = next
	}

	if len(result.Order) != len(nodeIDs) {
		return nil, errors.Trace(types.NewStructuralErrorf(
			"topological sort incomplete: %d of %d nodes ordered, cycle suspected",
			len(result.Order), len(nodeIDs)))
	}
	return result, nil
}

// LevelOf returns the level index a node was grouped into, or -1.
func (t *TopoResult) LevelOf(nodeID string) int {
	for i, level := range t.Levels {
		for _, id := range level {
			if id == nodeID {
				return i
			}
		}
	}
	return -1
}
