package runtime

import (
	"context"

	"github.com/gammazero/workerpool"
	"github.com/juju/errors"
	log "github.com/sirupsen/logrus"

	"github.com/warriorguo/topoflow/graph"
	"github.com/warriorguo/topoflow/store"
	"github.com/warriorguo/topoflow/types"
)

/**
 * GraphExecutor runs a DAG level by level using the frontier grouping of
 * the topological sort. Within a level up to Config.MaxParallelNodes
 * nodes run concurrently; the whole level settles before the next one
 * starts, so no node ever begins before all its predecessors (possibly
 * from earlier levels) have settled.
 *
 * Validation and cycle detection are hard preconditions: a violating
 * graph returns a StructuralError before any node runs.
 */
type GraphExecutor struct {
	executorBase
}

func NewGraphExecutor(s store.Store) *GraphExecutor {
	return &GraphExecutor{executorBase{store: s}}
}

func (e *GraphExecutor) Execute(g *types.Graph, nodeMap map[string]*types.EnhancedNode,
	exec types.NodeExecutor, params types.Data, options ...types.ExecOption) (*types.ExecutionResult, error) {

	opts := types.NewExecOptions()
	for _, opt := range options {
		opt(opts)
	}

	if violations := graph.Validate(g, &graph.ValidateOptions{AllowIsolated: true}); len(violations) > 0 {
		return nil, errors.Trace(types.NewStructuralErrorf("graph %s invalid: %v", g.ID, violations))
	}
	if report := graph.DetectCycles(g.NodeIDs, g.Edges); report.HasCycles {
		return nil, errors.Trace(types.NewStructuralErrorf("graph %s has cycles: %v", g.ID, report.Cycles))
	}
	for _, id := range g.NodeIDs {
		if _, exists := nodeMap[id]; !exists {
			return nil, errors.Trace(types.NewStructuralErrorf("graph %s references unknown node %s", g.ID, id))
		}
	}

	topo, err := graph.TopologicalSort(g.NodeIDs, g.Edges)
	if err != nil {
		return nil, errors.Trace(err)
	}

	s, err := e.newSession(types.KindGraph, g.ID, g.NodeIDs, exec, params, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}

	paused := e.runLevels(s, g, nodeMap, topo)
	return s.finish(paused), nil
}

func (e *GraphExecutor) runLevels(s *execSession, g *types.Graph,
	nodeMap map[string]*types.EnhancedNode, topo *graph.TopoResult) (paused bool) {

	preds := predecessorIndex(g.Edges)
	total := len(g.NodeIDs)
	aborted := false

	parallel := g.Config.MaxParallelNodes
	if !g.Config.EnableParallelExecution || parallel < 1 {
		parallel = 1
	}
	if s.opts.MaxParallel > 0 && s.opts.MaxParallel < parallel {
		parallel = s.opts.MaxParallel
	}

	for levelIdx, level := range topo.Levels {
		if aborted {
			e.skipLevel(s, level, types.SkipFailFast)
			continue
		}
		if s.paused() {
			return true
		}
		if s.deadlineExpired() {
			e.skipLevel(s, level, types.SkipTimeout)
			continue
		}

		log.Debugf("%s graph %s level %d: %v", s.executionID, g.ID, levelIdx, level)

		wp := workerpool.New(parallel)
		levelFailed := make(chan string, len(level))
		for _, nodeID := range level {
			nodeID := nodeID
			if s.states.status(nodeID).IsTerminal() {
				// checkpointed as completed/skipped, or poisoned earlier
				continue
			}
			if !e.incomingActive(s, preds[nodeID]) {
				s.skip(nodeID, types.SkipCondition)
				s.checkpointIfEnabled()
				s.reportProgress(total)
				continue
			}

			wp.Submit(func() {
				if s.deadlineExpired() {
					s.skip(nodeID, cancelReason(s))
				} else if err := s.runNode(nodeMap[nodeID], directPredecessors(preds[nodeID])); err != nil {
					levelFailed <- nodeID
					if g.Config.FailFast {
						// cancel in-flight siblings cooperatively
						s.cancel()
					}
				}
				s.checkpointIfEnabled()
				s.reportProgress(total)
			})
		}
		wp.StopWait()
		close(levelFailed)

		for nodeID := range levelFailed {
			if g.Config.FailFast {
				aborted = true
				continue
			}
			// poison transitive descendants; independent branches go on
			e.poisonDescendants(s, g, nodeID)
		}
	}
	return false
}

func (e *GraphExecutor) skipLevel(s *execSession, level []string, reason types.SkipReason) {
	for _, nodeID := range level {
		s.skip(nodeID, reason)
	}
}

/**
 * incomingActive evaluates the condition-bearing incoming edges against
 * the outputs settled so far. A node with conditional incoming edges
 * runs only if at least one of them is active (or it also has an
 * unconditional incoming edge). Skipping for an inactive route does not
 * poison descendants.
 */
func (e *GraphExecutor) incomingActive(s *execSession, incoming []*types.Edge) bool {
	conditional := 0
	for _, edge := range incoming {
		if edge.Condition == nil {
			return true
		}
		conditional++
		outputs := s.initial.Clone()
		if output, exists := s.states.outputOf(edge.From); exists {
			outputs.Merge(output)
		}
		if edge.Condition(outputs) {
			return true
		}
	}
	return conditional == 0
}

// poisonDescendants skips the transitive directed successors of a failed
// node. Undirected edges impose no execution order, so a node linked to
// the failure only by one is left to run.
func (e *GraphExecutor) poisonDescendants(s *execSession, g *types.Graph, nodeID string) {
	for _, descID := range graph.Successors(nodeID, g.Edges) {
		s.skip(descID, types.SkipPoisoned)
		log.Debugf("%s node %s skipped: dependency %s failed", s.executionID, descID, nodeID)
	}
}

// cancelReason distinguishes a blown deadline from a failfast cancel.
func cancelReason(s *execSession) types.SkipReason {
	if s.opts.Timeout > 0 && s.ctx.Err() == context.DeadlineExceeded {
		return types.SkipTimeout
	}
	return types.SkipFailFast
}

func predecessorIndex(edges []*types.Edge) map[string][]*types.Edge {
	preds := make(map[string][]*types.Edge)
	for _, edge := range edges {
		if !edge.IsDirected() {
			continue
		}
		preds[edge.To] = append(preds[edge.To], edge)
	}
	return preds
}

func directPredecessors(incoming []*types.Edge) []string {
	ids := make([]string, 0, len(incoming))
	for _, edge := range incoming {
		ids = append(ids, edge.From)
	}
	return ids
}
