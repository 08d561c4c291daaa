package types

import (
	"time"
)

type ExecutionStatus string

const (
	ExecCompleted ExecutionStatus = "completed"
	ExecFailed    ExecutionStatus = "failed"
	ExecPartial   ExecutionStatus = "partial"
	ExecPaused    ExecutionStatus = "paused"
)

type NodeError struct {
	NodeID string `json:"node_id"`
	Error  string `json:"error"`
}

/**
 * ExecutionResult is the aggregate outcome every executor returns. Node
 * level errors never unwind the caller's stack; they are collected here.
 * Only structural/checkpoint precondition failures are returned as a Go
 * error from Execute, before any node runs.
 */
type ExecutionResult struct {
	ExecutionID string                 `json:"execution_id"`
	TopologyID  string                 `json:"topology_id"`
	Kind        TopologyKind           `json:"kind"`
	Status      ExecutionStatus        `json:"status"`
	Success     bool                   `json:"success"`
	Completed   int                    `json:"completed"`
	Failed      int                    `json:"failed"`
	Skipped     int                    `json:"skipped"`
	PerNode     map[string]*NodeResult `json:"per_node"`
	Errors      []NodeError            `json:"errors,omitempty"`
	Checkpoint  *Checkpoint            `json:"checkpoint,omitempty"`
	StartTime   time.Time              `json:"start_time"`
	EndTime     time.Time              `json:"end_time"`
}

func (r *ExecutionResult) Total() int {
	return len(r.PerNode)
}

/**
 * Checkpoint is a serializable snapshot of the mutable execution state.
 * Order/levels are recomputed deterministically from the immutable
 * topology on resume, so only statuses, retry budgets and prior outputs
 * need to be carried. Outputs are included so a resumed run can rebuild
 * the ancestor context handed to downstream node-executors.
 */
type Checkpoint struct {
	TopologyID    string                `json:"topology_id"`
	Kind          TopologyKind          `json:"kind"`
	PerNodeStatus map[string]NodeStatus `json:"per_node_status"`
	RetryCounts   map[string]int        `json:"retry_counts,omitempty"`
	Outputs       map[string]Data       `json:"outputs,omitempty"`
	Timestamp     time.Time             `json:"timestamp"`
}

// Matches reports whether the checkpoint belongs to the given topology.
func (cp *Checkpoint) Matches(topologyID string, kind TopologyKind) bool {
	return cp != nil && cp.TopologyID == topologyID && cp.Kind == kind
}
