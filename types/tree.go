package types

type TraversalStrategy string

const (
	DFSPreorder  TraversalStrategy = "dfs-preorder"
	DFSInorder   TraversalStrategy = "dfs-inorder"
	DFSPostorder TraversalStrategy = "dfs-postorder"
	BFS          TraversalStrategy = "bfs"
)

/**
 * Tree is a rooted hierarchy of EnhancedNodes. Exactly one node has no
 * parent (RootID), every other node exactly one, and parent/child pointers
 * must be mutually consistent — tree.Validate checks this invariant.
 */
type Tree struct {
	ID               string                   `json:"id"`
	RootID           string                   `json:"root_id"`
	Nodes            map[string]*EnhancedNode `json:"nodes"`
	DefaultTraversal TraversalStrategy        `json:"default_traversal"`
}

func NewTree(id, rootID string) *Tree {
	root := &EnhancedNode{ID: rootID, Level: 0, Path: []string{rootID}, Status: StatusPending}
	return &Tree{
		ID:               id,
		RootID:           rootID,
		Nodes:            map[string]*EnhancedNode{rootID: root},
		DefaultTraversal: BFS,
	}
}

// AddChild attaches a new node under parentID, deriving level and path.
// Returns nil if the parent is unknown.
func (t *Tree) AddChild(parentID, nodeID string) *EnhancedNode {
	parent, exists := t.Nodes[parentID]
	if !exists {
		return nil
	}
	node := &EnhancedNode{
		ID:        nodeID,
		Level:     parent.Level + 1,
		Path:      parent.Path.AddString(nodeID),
		ParentIDs: []string{parentID},
		Status:    StatusPending,
	}
	parent.ChildIDs = append(parent.ChildIDs, nodeID)
	t.Nodes[nodeID] = node
	return node
}

func (t *Tree) Root() *EnhancedNode {
	return t.Nodes[t.RootID]
}
