package tree

import (
	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

/**
 * Subtree extracts the nodes reachable from rootID via a depth-bounded
 * BFS and returns a fresh node map restricted to the visited set. Nodes
 * are shallow-cloned with ChildIDs filtered to the visited set, so the
 * source tree is never mutated and the extract is itself a valid tree
 * rooted at rootID. maxDepth < 0 means unbounded; maxDepth 0 keeps only
 * the root.
 */
func Subtree(rootID string, nodes map[string]*types.EnhancedNode, maxDepth int) (map[string]*types.EnhancedNode, error) {
	if _, exists := nodes[rootID]; !exists {
		return nil, errors.NotFoundf("root %s", rootID)
	}

	visited := make(map[string]bool)
	type entry struct {
		id    string
		depth int
	}
	queue := []entry{{rootID, 0}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		node, exists := nodes[e.id]
		if !exists || visited[e.id] {
			continue
		}
		visited[e.id] = true
		if maxDepth >= 0 && e.depth >= maxDepth {
			continue
		}
		for _, childID := range node.ChildIDs {
			queue = append(queue, entry{childID, e.depth + 1})
		}
	}

	extract := make(map[string]*types.EnhancedNode, len(visited))
	for id := range visited {
		src := nodes[id]
		clone := *src
		clone.ChildIDs = nil
		for _, childID := range src.ChildIDs {
			if visited[childID] {
				clone.ChildIDs = append(clone.ChildIDs, childID)
			}
		}
		if id == rootID {
			// the extract's root keeps no parent linkage
			clone.ParentIDs = nil
		}
		extract[id] = &clone
	}
	return extract, nil
}
