package runtime

import (
	"context"

	"github.com/warriorguo/topoflow/types"
)

var (
	_ types.Context = &execContext{}
)

/**
 * execContext is the context handed to the node-executor. It scopes
 * ancestor-output visibility per node: tree nodes see the ancestors along
 * their path, graph nodes their settled predecessors, chain nodes every
 * lower-order node. A nil visible set means every settled output is
 * readable.
 */
type execContext struct {
	context.Context

	executionID string
	states      *stateTable
	visible     map[string]bool
}

func newExecContext(ctx context.Context, executionID string, states *stateTable, visible []string) *execContext {
	ec := &execContext{
		Context:     ctx,
		executionID: executionID,
		states:      states,
	}
	if visible != nil {
		ec.visible = make(map[string]bool, len(visible))
		for _, id := range visible {
			ec.visible[id] = true
		}
	}
	return ec
}

func (c *execContext) GetExecutionID() string {
	return c.executionID
}

func (c *execContext) GetAncestorOutput(nodeID string) (types.Data, bool) {
	if c.visible != nil && !c.visible[nodeID] {
		return nil, false
	}
	return c.states.outputOf(nodeID)
}

// mergedInput overlays the visible outputs (in the given order) on a clone
// of the initial params. Later outputs win on key collision.
func (c *execContext) mergedInput(initial types.Data, order []string) types.Data {
	input := initial.Clone()
	for _, id := range order {
		if output, exists := c.GetAncestorOutput(id); exists {
			input.Merge(output)
		}
	}
	return input
}
