package tree

import (
	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
)

/**
 * LowestCommonAncestor resolves the LCA of two nodes as the longest
 * common prefix of their path arrays. O(depth), no tree walk needed.
 */
func LowestCommonAncestor(idA, idB string, nodes map[string]*types.EnhancedNode) (string, error) {
	a, exists := nodes[idA]
	if !exists {
		return "", errors.NotFoundf("node %s", idA)
	}
	b, exists := nodes[idB]
	if !exists {
		return "", errors.NotFoundf("node %s", idB)
	}

	prefix := a.Path.CommonPrefix(b.Path)
	lca, ok := prefix.Last()
	if !ok {
		return "", errors.Errorf("nodes %s and %s share no ancestor", idA, idB)
	}
	return lca, nil
}

/**
 * FindPath walks A up to the LCA, then down to B: A→LCA reversed,
 * concatenated with LCA→B. Both endpoints are included.
 */
func FindPath(idA, idB string, nodes map[string]*types.EnhancedNode) ([]string, error) {
	a, exists := nodes[idA]
	if !exists {
		return nil, errors.NotFoundf("node %s", idA)
	}
	b, exists := nodes[idB]
	if !exists {
		return nil, errors.NotFoundf("node %s", idB)
	}

	prefix := a.Path.CommonPrefix(b.Path)
	if len(prefix) == 0 {
		return nil, errors.Errorf("nodes %s and %s share no ancestor", idA, idB)
	}

	path := make([]string, 0, len(a.Path)+len(b.Path))
	for i := len(a.Path) - 1; i >= len(prefix); i-- {
		path = append(path, a.Path[i])
	}
	path = append(path, prefix[len(prefix)-1])
	path = append(path, b.Path[len(prefix):]...)
	return path, nil
}

// Ancestors returns the node's ancestor IDs from root to parent.
func Ancestors(id string, nodes map[string]*types.EnhancedNode) ([]string, error) {
	node, exists := nodes[id]
	if !exists {
		return nil, errors.NotFoundf("node %s", id)
	}
	if len(node.Path) == 0 {
		return nil, nil
	}
	return node.Path[:len(node.Path)-1], nil
}
