package types

import (
	"context"
)

type NodeStatus int32

const (
	StatusNone      NodeStatus = 0
	StatusPending   NodeStatus = 1
	StatusReady     NodeStatus = 2
	StatusRunning   NodeStatus = 3
	StatusCompleted NodeStatus = 10
	StatusFailed    NodeStatus = 11
	StatusSkipped   NodeStatus = 12
)

func (s NodeStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusSkipped
}

func (s NodeStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return "none"
}

// TopologyKind discriminates the three topology shapes an executor can drive.
type TopologyKind string

const (
	KindChain TopologyKind = "chain"
	KindGraph TopologyKind = "graph"
	KindTree  TopologyKind = "tree"
)

// SkipReason explains why a node ended in StatusSkipped.
type SkipReason string

const (
	SkipNone      SkipReason = ""
	SkipCondition SkipReason = "condition"
	SkipPoisoned  SkipReason = "poisoned"
	SkipTimeout   SkipReason = "timeout"
	SkipFailFast  SkipReason = "failfast"
)

type Context interface {
	context.Context

	GetExecutionID() string
	/**
	 * GetAncestorOutput returns the recorded output of a node that settled
	 * earlier in the same execution. For TreeExecutor the available set is
	 * the ancestors along the node's path; for GraphExecutor the settled
	 * predecessors; for ChainExecutor every node of a lower order.
	 */
	GetAncestorOutput(nodeID string) (Data, bool)
}
