package runtime

import (
	"sync"
	"time"

	"github.com/juju/errors"
	"github.com/warriorguo/topoflow/types"
	"github.com/warriorguo/topoflow/utils"
)

/**
 * nodeState is the single synchronization point for one node ID. All
 * status writes during an execution funnel through its mutex, so
 * concurrent completions never race on the same transition. A global
 * lock across the topology would serialize independent branches; one
 * lock per node keeps parallelism intact.
 */
type nodeState struct {
	mu sync.Mutex

	status     types.NodeStatus
	skipReason types.SkipReason
	attempts   int
	output     types.Data
	lastErr    string
	startTime  time.Time
	endTime    time.Time
}

type stateTable struct {
	mu     sync.Mutex
	states map[string]*nodeState
}

func newStateTable(nodeIDs []string) *stateTable {
	st := &stateTable{states: make(map[string]*nodeState, len(nodeIDs))}
	for _, id := range nodeIDs {
		st.states[id] = &nodeState{status: types.StatusPending}
	}
	return st
}

func (st *stateTable) get(nodeID string) *nodeState {
	st.mu.Lock()
	defer st.mu.Unlock()

	return st.states[nodeID]
}

func canTransition(from, to types.NodeStatus) bool {
	switch to {
	case types.StatusReady:
		return from == types.StatusPending
	case types.StatusRunning:
		return from == types.StatusPending || from == types.StatusReady
	case types.StatusCompleted, types.StatusFailed:
		return from == types.StatusRunning
	case types.StatusSkipped:
		return !from.IsTerminal()
	case types.StatusPending:
		// retry loops a failed node back to pending
		return from == types.StatusFailed
	}
	return false
}

func (st *stateTable) transition(nodeID string, to types.NodeStatus) error {
	ns := st.get(nodeID)
	if ns == nil {
		return errors.NotFoundf("node state %s", nodeID)
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	if !canTransition(ns.status, to) {
		return errors.Forbiddenf("node %s: transition %v -> %v", nodeID, ns.status, to)
	}
	ns.status = to
	switch to {
	case types.StatusRunning:
		ns.attempts++
		ns.startTime = time.Now()
	case types.StatusCompleted, types.StatusFailed, types.StatusSkipped:
		ns.endTime = time.Now()
	}
	return nil
}

func (st *stateTable) markSkipped(nodeID string, reason types.SkipReason) bool {
	ns := st.get(nodeID)
	if ns == nil {
		return false
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	if ns.status.IsTerminal() {
		return false
	}
	ns.status = types.StatusSkipped
	ns.skipReason = reason
	ns.endTime = time.Now()
	return true
}

func (st *stateTable) settle(nodeID string, output types.Data, runErr error) {
	ns := st.get(nodeID)
	if ns == nil {
		return
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	ns.endTime = time.Now()
	if runErr != nil {
		ns.status = types.StatusFailed
		ns.lastErr = errors.ErrorStack(runErr)
		return
	}
	ns.status = types.StatusCompleted
	ns.output = output
	ns.lastErr = ""
}

func (st *stateTable) status(nodeID string) types.NodeStatus {
	ns := st.get(nodeID)
	if ns == nil {
		return types.StatusNone
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	return ns.status
}

func (st *stateTable) attemptsOf(nodeID string) int {
	ns := st.get(nodeID)
	if ns == nil {
		return 0
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	return ns.attempts
}

func (st *stateTable) outputOf(nodeID string) (types.Data, bool) {
	ns := st.get(nodeID)
	if ns == nil {
		return nil, false
	}

	ns.mu.Lock()
	defer ns.mu.Unlock()

	if ns.status != types.StatusCompleted {
		return nil, false
	}
	return ns.output, true
}

// applyCheckpoint seeds statuses and outputs from a prior run. Running is
// demoted to pending: the process that owned the goroutine is gone.
func (st *stateTable) applyCheckpoint(cp *types.Checkpoint) {
	for nodeID, status := range cp.PerNodeStatus {
		ns := st.get(nodeID)
		if ns == nil {
			continue
		}

		ns.mu.Lock()
		if status == types.StatusRunning || status == types.StatusReady {
			status = types.StatusPending
		}
		ns.status = status
		ns.attempts = cp.RetryCounts[nodeID]
		if output, exists := cp.Outputs[nodeID]; exists {
			ns.output = output
		}
		ns.mu.Unlock()
	}
}

func (st *stateTable) exportCheckpoint(topologyID string, kind types.TopologyKind) *types.Checkpoint {
	st.mu.Lock()
	defer st.mu.Unlock()

	cp := &types.Checkpoint{
		TopologyID:    topologyID,
		Kind:          kind,
		PerNodeStatus: make(map[string]types.NodeStatus, len(st.states)),
		RetryCounts:   make(map[string]int, len(st.states)),
		Outputs:       make(map[string]types.Data),
		Timestamp:     time.Now(),
	}
	for nodeID, ns := range st.states {
		ns.mu.Lock()
		cp.PerNodeStatus[nodeID] = ns.status
		if ns.attempts > 0 {
			cp.RetryCounts[nodeID] = ns.attempts
		}
		if ns.status == types.StatusCompleted && ns.output != nil {
			cp.Outputs[nodeID] = ns.output
		}
		ns.mu.Unlock()
	}
	return cp
}

func (st *stateTable) exportResult(result *types.ExecutionResult) {
	st.mu.Lock()
	defer st.mu.Unlock()

	result.PerNode = make(map[string]*types.NodeResult, len(st.states))
	for _, nodeID := range utils.SortedKeys(st.states) {
		ns := st.states[nodeID]
		ns.mu.Lock()
		nr := &types.NodeResult{
			NodeID:     nodeID,
			Status:     ns.status,
			SkipReason: ns.skipReason,
			Attempts:   ns.attempts,
			Output:     ns.output,
			Error:      ns.lastErr,
			StartTime:  ns.startTime,
			EndTime:    ns.endTime,
		}
		switch ns.status {
		case types.StatusCompleted:
			result.Completed++
		case types.StatusFailed:
			result.Failed++
			result.Errors = append(result.Errors, types.NodeError{NodeID: nodeID, Error: ns.lastErr})
		case types.StatusSkipped:
			result.Skipped++
		}
		ns.mu.Unlock()
		result.PerNode[nodeID] = nr
	}
}

func (st *stateTable) settledCount() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	count := 0
	for _, ns := range st.states {
		ns.mu.Lock()
		if ns.status.IsTerminal() {
			count++
		}
		ns.mu.Unlock()
	}
	return count
}
