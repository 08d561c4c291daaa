package types

import (
	"sort"

	"github.com/juju/errors"
)

type ChainStrategy string

const (
	ChainSequential  ChainStrategy = "sequential"
	ChainParallel    ChainStrategy = "parallel"
	ChainConditional ChainStrategy = "conditional"
)

/**
 * ChainCondition gates a node under the conditional strategy. It sees the
 * accumulated outputs of the nodes executed so far; returning false moves
 * the node to skipped instead of running.
 */
type ChainCondition func(outputs Data) bool

type ChainNode struct {
	NodeID     string     `json:"node_id"`
	Order      int        `json:"order"`
	Status     NodeStatus `json:"status"`
	RetryCount int        `json:"retry_count"`
	MaxRetries int        `json:"max_retries"`
	LastError  string     `json:"last_error,omitempty"`

	Condition ChainCondition `json:"-"`
}

type Chain struct {
	ID       string        `json:"id"`
	Nodes    []*ChainNode  `json:"nodes"`
	Strategy ChainStrategy `json:"strategy"`
	Status   NodeStatus    `json:"status"`
}

func NewChain(id string, strategy ChainStrategy) *Chain {
	return &Chain{ID: id, Strategy: strategy, Status: StatusPending}
}

// Append adds a node at the next order slot.
func (c *Chain) Append(nodeID string, maxRetries int) *ChainNode {
	cn := &ChainNode{
		NodeID:     nodeID,
		Order:      len(c.Nodes),
		Status:     StatusPending,
		MaxRetries: maxRetries,
	}
	c.Nodes = append(c.Nodes, cn)
	return cn
}

// Sorted returns the nodes in order. The slice is shared, not copied.
func (c *Chain) Sorted() []*ChainNode {
	nodes := c.Nodes
	sort.SliceStable(nodes, func(i, j int) bool { return nodes[i].Order < nodes[j].Order })
	return nodes
}

func (c *Chain) Find(nodeID string) *ChainNode {
	for _, cn := range c.Nodes {
		if cn.NodeID == nodeID {
			return cn
		}
	}
	return nil
}

/**
 * CheckOrders enforces the structural invariant: order values unique,
 * zero-based and contiguous, node IDs unique.
 */
func (c *Chain) CheckOrders() error {
	seenOrder := make(map[int]bool, len(c.Nodes))
	seenID := make(map[string]bool, len(c.Nodes))
	for _, cn := range c.Nodes {
		if seenOrder[cn.Order] {
			return errors.BadRequestf("chain %s: duplicate order %d", c.ID, cn.Order)
		}
		if seenID[cn.NodeID] {
			return errors.BadRequestf("chain %s: duplicate node %s", c.ID, cn.NodeID)
		}
		if cn.Order < 0 || cn.Order >= len(c.Nodes) {
			return errors.BadRequestf("chain %s: order %d out of range", c.ID, cn.Order)
		}
		seenOrder[cn.Order] = true
		seenID[cn.NodeID] = true
	}
	return nil
}
