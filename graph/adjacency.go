/**
 * Package graph holds the pure scheduling algorithms over a node-ID set
 * plus typed edges: topological levels, cycle detection, critical path,
 * dependency analysis and structural validation. Nothing here mutates
 * the topology or touches execution state.
 */
package graph

import (
	"github.com/warriorguo/topoflow/types"
)

/**
 * forwardAdjacency builds from → []to over directed edges only. An
 * undirected edge imposes no execution order; expanding it both ways
 * would manufacture a 2-cycle, so ordering algorithms ignore it.
 */
func forwardAdjacency(edges []*types.Edge) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		if !e.IsDirected() {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
	}
	return adj
}

func reverseAdjacency(edges []*types.Edge) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		if !e.IsDirected() {
			continue
		}
		adj[e.To] = append(adj[e.To], e.From)
	}
	return adj
}

// reachabilityAdjacency expands undirected edges bidirectionally; used by
// dependency analysis, never by ordering.
func reachabilityAdjacency(edges []*types.Edge, reversed bool) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range edges {
		from, to := e.From, e.To
		if reversed {
			from, to = to, from
		}
		adj[from] = append(adj[from], to)
		if !e.IsDirected() {
			adj[to] = append(adj[to], from)
		}
	}
	return adj
}

func inDegrees(nodeIDs []string, edges []*types.Edge) map[string]int {
	deg := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		deg[id] = 0
	}
	for _, e := range edges {
		if !e.IsDirected() {
			continue
		}
		if _, exists := deg[e.To]; exists {
			deg[e.To]++
		}
	}
	return deg
}
