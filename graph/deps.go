package graph

import (
	"sort"

	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

/**
 * DependencyReport answers "what must finish before X" (Ancestors) and
 * "what depends on X" (Descendants). Both sets are transitive and sorted.
 */
type DependencyReport struct {
	NodeID      string
	Ancestors   []string
	Descendants []string
}

func AnalyzeDependencies(g *types.Graph, nodeID string) (*DependencyReport, error) {
	if !g.HasNode(nodeID) {
		return nil, errors.NotFoundf("node %s in graph %s", nodeID, g.ID)
	}
	return &DependencyReport{
		NodeID:      nodeID,
		Ancestors:   bfsReach(nodeID, reachabilityAdjacency(g.Edges, true)),
		Descendants: bfsReach(nodeID, reachabilityAdjacency(g.Edges, false)),
	}, nil
}

/**
 * Successors returns the transitive successors of nodeID over directed
 * edges only. Unlike AnalyzeDependencies it never crosses undirected
 * edges, so the result is exactly the set whose execution depends on
 * nodeID — the nodes a failure must poison.
 */
func Successors(nodeID string, edges []*types.Edge) []string {
	return bfsReach(nodeID, forwardAdjacency(edges))
}

func bfsReach(start string, adj map[string][]string) []string {
	visited := map[string]bool{start: true}
	queue := []string{start}
	reach := make([]string, 0)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, next := range adj[id] {
			if visited[next] {
				continue
			}
			visited[next] = true
			reach = append(reach, next)
			queue = append(queue, next)
		}
	}
	sort.Strings(reach)
	return reach
}
