package types

import (
	"time"

	"github.com/warriorguo/topoflow/utils"
)

/**
 * EnhancedNode is the execution-capable unit shared by every topology.
 * It references the underlying content node by ID only; the engine never
 * owns node payloads. Level/Path are assigned by trees (graphs do not
 * assign levels, multiple parents may disagree).
 *
 * Invariant: len(Path) == Level+1, Path runs root → self.
 */
type EnhancedNode struct {
	ID        string     `json:"id"`
	ContentID string     `json:"content_id,omitempty"`
	Level     int        `json:"level"`
	Path      utils.Path `json:"path,omitempty"`
	ParentIDs []string   `json:"parent_ids,omitempty"`
	ChildIDs  []string   `json:"child_ids,omitempty"`
	Status    NodeStatus `json:"status"`
}

func (n *EnhancedNode) IsLeaf() bool {
	return len(n.ChildIDs) == 0
}

func (n *EnhancedNode) IsRoot() bool {
	return len(n.ParentIDs) == 0
}

/**
 * NodeExecutor performs the actual work for one node. It is the engine's
 * only boundary contract: invoked once per node per attempt, must be
 * reentrant-safe (independent nodes run concurrently) and must honor
 * cancellation signalled through ctx. Input carries the merged outputs
 * the node is entitled to see for its topology.
 */
type NodeExecutor func(ctx Context, node *EnhancedNode, input Data) (Data, error)

// ProgressFunc is invoked after each node settles.
type ProgressFunc func(completed, total int)

type NodeResult struct {
	NodeID     string     `json:"node_id"`
	Status     NodeStatus `json:"status"`
	SkipReason SkipReason `json:"skip_reason,omitempty"`
	Attempts   int        `json:"attempts"`
	Output     Data       `json:"output,omitempty"`
	Error      string     `json:"error,omitempty"`
	StartTime  time.Time  `json:"start_time,omitempty"`
	EndTime    time.Time  `json:"end_time,omitempty"`
}

// NodeRunRecord is the per-attempt trace written to the store.
type NodeRunRecord struct {
	NodeID    string    `json:"node_id"`
	Attempt   int       `json:"attempt"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Input     Data      `json:"input,omitempty"`
	Output    Data      `json:"output,omitempty"`
	Error     string    `json:"error,omitempty"`
}
