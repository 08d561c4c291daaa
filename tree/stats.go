package tree

import (
	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

type Statistics struct {
	NodeCount int
	// MaxDepth is relative to the given root: a lone root has depth 0.
	MaxDepth  int
	LeafCount int
	// BranchingFactor maps child count → number of internal nodes with it.
	BranchingFactor map[int]int
}

// CalculateStatistics gathers node count, max depth, leaf count and the
// branching-factor distribution in a single BFS pass from rootID.
func CalculateStatistics(rootID string, nodes map[string]*types.EnhancedNode) (*Statistics, error) {
	if _, exists := nodes[rootID]; !exists {
		return nil, errors.NotFoundf("root %s", rootID)
	}

	stats := &Statistics{BranchingFactor: make(map[int]int)}
	type entry struct {
		id    string
		depth int
	}
	queue := []entry{{rootID, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		node, exists := nodes[e.id]
		if !exists {
			continue
		}
		stats.NodeCount++
		if e.depth > stats.MaxDepth {
			stats.MaxDepth = e.depth
		}
		if node.IsLeaf() {
			stats.LeafCount++
		} else {
			stats.BranchingFactor[len(node.ChildIDs)]++
		}
		for _, childID := range node.ChildIDs {
			queue = append(queue, entry{childID, e.depth + 1})
		}
	}
	return stats, nil
}
