package runtime

import (
	"time"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/warriorguo/topoflow/metrics"
	"github.com/warriorguo/topoflow/store"
	"github.com/warriorguo/topoflow/types"
)

/**
 * ChainExecutor drives an ordered node list to completion. Sequential
 * strategy runs nodes one at a time in order; parallel treats the nodes
 * as independent and runs them concurrently up to the worker budget;
 * conditional is sequential with a per-node predicate that can move a
 * node to skipped instead of running.
 *
 * Node-level errors are caught, recorded on the chain node entry and the
 * per-node result; Execute always returns the aggregate normally. Only
 * structural problems (bad orders, unknown node IDs, stale checkpoint)
 * return a Go error before any node runs.
 */
type ChainExecutor struct {
	executorBase
}

func NewChainExecutor(s store.Store) *ChainExecutor {
	return &ChainExecutor{executorBase{store: s}}
}

func (e *ChainExecutor) Execute(chain *types.Chain, nodeMap map[string]*types.EnhancedNode,
	exec types.NodeExecutor, params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}
	return e.execute(chain, nodeMap, exec, params, opts)
}

/**
 * RetryFailed re-executes, in order, every node left failed by a prior
 * run of the same chain instance, honoring the remaining retry budget.
 * Completed and skipped nodes are untouched.
 */
func (e *ChainExecutor) RetryFailed(chain *types.Chain, nodeMap map[string]*types.EnhancedNode,
	exec types.NodeExecutor, params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}

	// Synthesize a checkpoint from the chain's own bookkeeping so the
	// regular resume path can drive the rerun.
	cp := &types.Checkpoint{
		TopologyID:    chain.ID,
		Kind:          types.KindChain,
		PerNodeStatus: make(map[string]types.NodeStatus, len(chain.Nodes)),
		RetryCounts:   make(map[string]int, len(chain.Nodes)),
		Timestamp:     time.Now(),
	}
	for _, cn := range chain.Nodes {
		status := cn.Status
		if status == types.StatusFailed {
			status = types.StatusPending
		}
		cp.PerNodeStatus[cn.NodeID] = status
		cp.RetryCounts[cn.NodeID] = cn.RetryCount
	}
	opts.FromCheckpoint = cp

	return e.execute(chain, nodeMap, exec, params, opts)
}

func (e *ChainExecutor) execute(chain *types.Chain, nodeMap map[string]*types.EnhancedNode,
	exec types.NodeExecutor, params types.Data, opts *types.ExecOptions) (*types.ExecutionResult, error) {

	if err := chain.CheckOrders(); err != nil {
		return nil, errors.Trace(types.NewStructuralError(err))
	}
	ordered := chain.Sorted()
	nodeIDs := make([]string, 0, len(ordered))
	for _, cn := range ordered {
		if _, exists := nodeMap[cn.NodeID]; !exists {
			return nil, errors.Trace(types.NewStructuralErrorf("chain %s references unknown node %s", chain.ID, cn.NodeID))
		}
		nodeIDs = append(nodeIDs, cn.NodeID)
	}

	s, err := e.newSession(types.KindChain, chain.ID, nodeIDs, exec, params, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	chain.Status = types.StatusRunning
	var paused bool
	if chain.Strategy == types.ChainParallel {
		paused = e.runParallel(s, chain, nodeMap, ordered)
	} else {
		paused = e.runSequential(s, chain, nodeMap, ordered)
	}

	result := s.finish(paused)
	switch result.Status {
	case types.ExecCompleted:
		chain.Status = types.StatusCompleted
	case types.ExecPaused:
		chain.Status = types.StatusPending
	default:
		chain.Status = types.StatusFailed
	}
	return result, nil
}

func (e *ChainExecutor) runSequential(s *execSession, chain *types.Chain,
	nodeMap map[string]*types.EnhancedNode, ordered []*types.ChainNode) (paused bool) {

	// IDs of lower-order nodes, accumulated as we advance; both the merged
	// input and the context visibility grow with it.
	visible := make([]string, 0, len(ordered))

	for _, cn := range ordered {
		if s.states.status(cn.NodeID) == types.StatusCompleted {
			// resumed run: already done in the checkpointed attempt
			e.syncChainNode(s, cn)
			visible = append(visible, cn.NodeID)
			continue
		}
		if s.states.status(cn.NodeID) == types.StatusSkipped {
			e.syncChainNode(s, cn)
			continue
		}

		if s.paused() {
			return true
		}
		if s.deadlineExpired() {
			s.skip(cn.NodeID, types.SkipTimeout)
			e.syncChainNode(s, cn)
			continue
		}

		if chain.Strategy == types.ChainConditional && cn.Condition != nil {
			outputs := s.initial.Clone()
			for _, id := range visible {
				if output, exists := s.states.outputOf(id); exists {
					outputs.Merge(output)
				}
			}
			if !cn.Condition(outputs) {
				s.skip(cn.NodeID, types.SkipCondition)
				e.syncChainNode(s, cn)
				s.checkpointIfEnabled()
				s.reportProgress(len(ordered))
				continue
			}
		}

		err := e.runWithRetry(s, cn, nodeMap[cn.NodeID], visible)
		e.syncChainNode(s, cn)
		s.checkpointIfEnabled()
		s.reportProgress(len(ordered))

		if err != nil {
			if !s.opts.ContinueOnError {
				log.Debugf("%s chain %s halted at %s", s.executionID, chain.ID, cn.NodeID)
				return false
			}
			continue
		}
		visible = append(visible, cn.NodeID)
	}
	return false
}

func (e *ChainExecutor) runParallel(s *execSession, chain *types.Chain,
	nodeMap map[string]*types.EnhancedNode, ordered []*types.ChainNode) (paused bool) {

	if s.paused() {
		return true
	}

	wp := workerpool.New(s.opts.MaxParallel)
	for _, cn := range ordered {
		cn := cn
		if s.states.status(cn.NodeID).IsTerminal() {
			continue
		}
		wp.Submit(func() {
			if s.deadlineExpired() {
				s.skip(cn.NodeID, types.SkipTimeout)
			} else {
				// no ordering between parallel siblings: each sees only
				// the initial params
				_ = e.runWithRetry(s, cn, nodeMap[cn.NodeID], nil)
			}
			e.syncChainNode(s, cn)
			s.checkpointIfEnabled()
			s.reportProgress(len(ordered))
		})
	}
	wp.StopWait()
	return false
}

// runWithRetry loops failed attempts back to pending until the node's
// retry budget is spent.
func (e *ChainExecutor) runWithRetry(s *execSession, cn *types.ChainNode,
	node *types.EnhancedNode, visible []string) error {

	err := s.runNode(node, visible)
	for err != nil && !types.IsTimeout(err) {
		attempts := s.states.attemptsOf(cn.NodeID)
		if attempts > cn.MaxRetries {
			break
		}
		if s.deadlineExpired() || s.paused() {
			break
		}
		metrics.NodeRetries.Inc()
		log.Debugf("%s retrying node %s (attempt %d of %d)", s.executionID, cn.NodeID, attempts, cn.MaxRetries+1)
		if s.opts.RetryBackoff > 0 {
			time.Sleep(s.opts.RetryBackoff)
		}
		if terr := s.states.transition(cn.NodeID, types.StatusPending); terr != nil {
			break
		}
		err = s.runNode(node, visible)
	}
	return err
}

// syncChainNode copies session state back onto the chain's bookkeeping
// fields, which the caller owns between calls.
func (e *ChainExecutor) syncChainNode(s *execSession, cn *types.ChainNode) {
	ns := s.states.get(cn.NodeID)
	if ns == nil {
		return
	}
	ns.mu.Lock()
	defer ns.mu.Unlock()

	cn.Status = ns.status
	if ns.attempts > 0 {
		cn.RetryCount = ns.attempts - 1
	}
	cn.LastError = ns.lastErr
}
