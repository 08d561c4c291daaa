/**
 * Package tree holds the pure algorithms over a rooted node map:
 * traversal, path/LCA queries, subtree extraction, statistics and
 * structural validation. Functions here never mutate the source tree.
 */
package tree

import (
	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

/**
 * Traverse produces the ordered node-ID sequence for the given strategy.
 * The result is a pure function of the tree state at call time. DFS
 * variants are standard recursive traversals adapted for N-ary trees;
 * in-order treats the first child as "left" and the remaining children
 * as "right" — an arbitrary but deterministic convention. BFS is the
 * queue-based level traversal.
 */
func Traverse(rootID string, nodes map[string]*types.EnhancedNode, strategy types.TraversalStrategy) ([]string, error) {
	if _, exists := nodes[rootID]; !exists {
		return nil, errors.NotFoundf("root %s", rootID)
	}

	switch strategy {
	case types.DFSPreorder:
		return dfsPreorder(rootID, nodes, make([]string, 0, len(nodes))), nil
	case types.DFSInorder:
		return dfsInorder(rootID, nodes, make([]string, 0, len(nodes))), nil
	case types.DFSPostorder:
		return dfsPostorder(rootID, nodes, make([]string, 0, len(nodes))), nil
	case types.BFS:
		return bfs(rootID, nodes), nil
	}
	return nil, errors.NotSupportedf("traversal strategy %q", strategy)
}

func dfsPreorder(id string, nodes map[string]*types.EnhancedNode, acc []string) []string {
	node, exists := nodes[id]
	if !exists {
		return acc
	}
	acc = append(acc, id)
	for _, childID := range node.ChildIDs {
		acc = dfsPreorder(childID, nodes, acc)
	}
	return acc
}

func dfsInorder(id string, nodes map[string]*types.EnhancedNode, acc []string) []string {
	node, exists := nodes[id]
	if !exists {
		return acc
	}
	if len(node.ChildIDs) == 0 {
		return append(acc, id)
	}
	// first child before self, remaining children after
	acc = dfsInorder(node.ChildIDs[0], nodes, acc)
	acc = append(acc, id)
	for _, childID := range node.ChildIDs[1:] {
		acc = dfsInorder(childID, nodes, acc)
	}
	return acc
}

func dfsPostorder(id string, nodes map[string]*types.EnhancedNode, acc []string) []string {
	node, exists := nodes[id]
	if !exists {
		return acc
	}
	for _, childID := range node.ChildIDs {
		acc = dfsPostorder(childID, nodes, acc)
	}
	return append(acc, id)
}

func bfs(rootID string, nodes map[string]*types.EnhancedNode) []string {
	order := make([]string, 0, len(nodes))
	queue := []string{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		node, exists := nodes[id]
		if !exists {
			continue
		}
		order = append(order, id)
		queue = append(queue, node.ChildIDs...)
	}
	return order
}

/**
 * Levels groups the node IDs reachable from rootID by depth relative to
 * the root. A tree level has no intra-level dependencies by construction,
 * so each group is a valid parallel batch.
 */
func Levels(rootID string, nodes map[string]*types.EnhancedNode) ([][]string, error) {
	if _, exists := nodes[rootID]; !exists {
		return nil, errors.NotFoundf("root %s", rootID)
	}

	levels := make([][]string, 0)
	current := []string{rootID}
	for len(current) > 0 {
		levels = append(levels, current)
		next := make([]string, 0)
		for _, id := range current {
			if node, exists := nodes[id]; exists {
				next = append(next, node.ChildIDs...)
			}
		}
		current = next
	}
	return levels, nil
}
