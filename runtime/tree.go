package runtime

import (
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/warriorguo/topoflow/store"
	"github.com/warriorguo/topoflow/tree"
	"github.com/warriorguo/topoflow/types"
	"github.com/warriorguo/topoflow/utils"
)

/**
 * TreeExecutor drives a rooted hierarchy. Plain Execute follows the
 * tree's default traversal; bfs is equivalent to ExecuteByLevel since a
 * tree level has no intra-level dependencies by construction. Each node's
 * executor receives the merged outputs of its ancestors along Path; a
 * node's result never propagates to children automatically.
 */
type TreeExecutor struct {
	executorBase
}

func NewTreeExecutor(s store.Store) *TreeExecutor {
	return &TreeExecutor{executorBase{store: s}}
}

func (e *TreeExecutor) Execute(t *types.Tree, exec types.NodeExecutor,
	params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}

	if t.DefaultTraversal == types.BFS {
		return e.executeByLevel(t.ID, t.RootID, t.Nodes, exec, params, opts)
	}
	return e.executeOrdered(t, exec, params, opts)
}

// ExecuteByLevel groups nodes by level and runs each level as a parallel
// batch, mirroring GraphExecutor's level semantics.
func (e *TreeExecutor) ExecuteByLevel(t *types.Tree, exec types.NodeExecutor,
	params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}
	return e.executeByLevel(t.ID, t.RootID, t.Nodes, exec, params, opts)
}

// ExecuteSubtree restricts execution to the depth-bounded subtree under
// rootID. maxDepth < 0 means the whole subtree.
func (e *TreeExecutor) ExecuteSubtree(t *types.Tree, rootID string, maxDepth int,
	exec types.NodeExecutor, params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}

	sub, err := tree.Subtree(rootID, t.Nodes, maxDepth)
	if err != nil {
		return nil, errors.Trace(types.NewStructuralError(err))
	}
	return e.executeByLevel(t.ID, rootID, sub, exec, params, opts)
}

/**
 * ExecuteLeaves runs only the nodes without children, in no particular
 * order, with bounded parallelism. The session tracks the leaves alone,
 * so each leaf receives the initial params only; outputs of an earlier
 * full pass are not visible here. Regenerating leaves with fresh params
 * is the intended use.
 */
func (e *TreeExecutor) ExecuteLeaves(t *types.Tree, exec types.NodeExecutor,
	params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}

	if err := e.checkTree(t.RootID, t.Nodes); err != nil {
		return nil, errors.Trace(err)
	}

	leaves := make([]string, 0)
	for _, id := range utils.SortedKeys(t.Nodes) {
		if t.Nodes[id].IsLeaf() {
			leaves = append(leaves, id)
		}
	}

	s, err := e.newSession(types.KindTree, t.ID, leaves, exec, params, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	paused := s.paused()
	if !paused {
		var eg errgroup.Group
		eg.SetLimit(s.opts.MaxParallel)
		for _, leafID := range leaves {
			leafID := leafID
			if s.states.status(leafID).IsTerminal() {
				continue
			}
			eg.Go(func() error {
				if s.deadlineExpired() {
					s.skip(leafID, types.SkipTimeout)
				} else {
					ancestors, _ := tree.Ancestors(leafID, t.Nodes)
					_ = s.runNode(t.Nodes[leafID], ancestors)
				}
				s.checkpointIfEnabled()
				s.reportProgress(len(leaves))
				return nil
			})
		}
		_ = eg.Wait()
	}
	return s.finish(paused), nil
}

// executeOrdered walks the traversal sequence one node at a time; used
// for the DFS strategies where order, not parallelism, is the point.
func (e *TreeExecutor) executeOrdered(t *types.Tree, exec types.NodeExecutor,
	params types.Data, opts *types.ExecOptions) (*types.ExecutionResult, error) {

	if err := e.checkTree(t.RootID, t.Nodes); err != nil {
		return nil, errors.Trace(err)
	}

	order, err := tree.Traverse(t.RootID, t.Nodes, t.DefaultTraversal)
	if err != nil {
		return nil, errors.Trace(types.NewStructuralError(err))
	}

	s, err := e.newSession(types.KindTree, t.ID, order, exec, params, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	paused := false
	for _, nodeID := range order {
		if s.states.status(nodeID).IsTerminal() {
			continue
		}
		if s.paused() {
			paused = true
			break
		}
		if s.deadlineExpired() {
			s.skip(nodeID, types.SkipTimeout)
			continue
		}

		node := t.Nodes[nodeID]
		if e.ancestorFailed(s, node) {
			s.skip(nodeID, types.SkipPoisoned)
			s.reportProgress(len(order))
			continue
		}

		ancestors, _ := tree.Ancestors(nodeID, t.Nodes)
		_ = s.runNode(node, ancestors)
		s.checkpointIfEnabled()
		s.reportProgress(len(order))
	}
	return s.finish(paused), nil
}

func (e *TreeExecutor) executeByLevel(treeID, rootID string, nodes map[string]*types.EnhancedNode,
	exec types.NodeExecutor, params types.Data, opts *types.ExecOptions) (*types.ExecutionResult, error) {

	if err := e.checkTree(rootID, nodes); err != nil {
		return nil, errors.Trace(err)
	}

	levels, err := tree.Levels(rootID, nodes)
	if err != nil {
		return nil, errors.Trace(types.NewStructuralError(err))
	}

	nodeIDs := make([]string, 0, len(nodes))
	for _, level := range levels {
		nodeIDs = append(nodeIDs, level...)
	}

	s, err := e.newSession(types.KindTree, treeID, nodeIDs, exec, params, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	total := len(nodeIDs)
	paused := false
	for levelIdx, level := range levels {
		if s.paused() {
			paused = true
			break
		}
		if s.deadlineExpired() {
			for _, nodeID := range level {
				s.skip(nodeID, types.SkipTimeout)
			}
			continue
		}

		log.Debugf("%s tree %s level %d: %v", s.executionID, treeID, levelIdx, level)

		var eg errgroup.Group
		eg.SetLimit(s.opts.MaxParallel)
		for _, nodeID := range level {
			nodeID := nodeID
			if s.states.status(nodeID).IsTerminal() {
				continue
			}
			node := nodes[nodeID]
			if e.ancestorFailed(s, node) {
				s.skip(nodeID, types.SkipPoisoned)
				s.reportProgress(total)
				continue
			}
			eg.Go(func() error {
				if s.deadlineExpired() {
					s.skip(nodeID, types.SkipTimeout)
				} else {
					ancestors, _ := tree.Ancestors(nodeID, nodes)
					_ = s.runNode(node, ancestors)
				}
				s.checkpointIfEnabled()
				s.reportProgress(total)
				return nil
			})
		}
		_ = eg.Wait()
	}
	return s.finish(paused), nil
}

// ancestorFailed reports whether any ancestor along the node's path
// settled failed or skipped; such a node is poisoned, not run.
func (e *TreeExecutor) ancestorFailed(s *execSession, node *types.EnhancedNode) bool {
	if len(node.Path) == 0 {
		return false
	}
	for _, ancestorID := range node.Path[:len(node.Path)-1] {
		status := s.states.status(ancestorID)
		if status == types.StatusFailed || status == types.StatusSkipped {
			return true
		}
	}
	return false
}

func (e *TreeExecutor) checkTree(rootID string, nodes map[string]*types.EnhancedNode) error {
	if violations := tree.Validate(rootID, nodes); len(violations) > 0 {
		return errors.Trace(types.NewStructuralErrorf("tree rooted at %s invalid: %v", rootID, violations))
	}
	return nil
}
