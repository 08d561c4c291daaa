package runtime

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warriorguo/topoflow/types"
)

/**
 * testTree builds:
 *
 *	R ── X ── Z
 *	 └── Y
 */
func testTree() *types.Tree {
	tr := types.NewTree("story", "R")
	tr.AddChild("R", "X")
	tr.AddChild("R", "Y")
	tr.AddChild("X", "Z")
	return tr
}

func TestTreeExecuteBFS(t *testing.T) {
	tr := testTree()

	var zInput types.Data
	rec := &recordingExecutor{}
	executor := func(ctx types.Context, node *types.EnhancedNode, input types.Data) (types.Data, error) {
		if node.ID == "Z" {
			zInput = input
		}
		return rec.exec(ctx, node, input)
	}

	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, executor, types.Data{"premise": "space"}, types.WithMaxParallel(1))
	assert.Nil(t, err)
	fmt.Printf("tree: %s completed=%d\n", result.Status, result.Completed)

	assert.True(t, result.Success)
	assert.Equal(t, 4, result.Completed)
	assert.Equal(t, []string{"R", "X", "Y", "Z"}, rec.order)

	// Z sees outputs along its path only: R and X, never the sibling Y
	premise, _ := zInput.GetString("premise")
	assert.Equal(t, "space", premise)
	doneR, _ := zInput.GetBool("done.R")
	assert.True(t, doneR)
	doneX, _ := zInput.GetBool("done.X")
	assert.True(t, doneX)
	_, exists := zInput.Get("done.Y")
	assert.False(t, exists)
}

func TestTreeExecuteDFSPreorder(t *testing.T) {
	tr := testTree()
	tr.DefaultTraversal = types.DFSPreorder

	rec := &recordingExecutor{}
	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, rec.exec, nil)
	assert.Nil(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"R", "X", "Z", "Y"}, rec.order)
}

func TestTreeAncestorOutputVisibility(t *testing.T) {
	tr := testTree()

	executor := func(ctx types.Context, node *types.EnhancedNode, input types.Data) (types.Data, error) {
		if node.ID == "Z" {
			_, xVisible := ctx.GetAncestorOutput("X")
			assert.True(t, xVisible)
			_, yVisible := ctx.GetAncestorOutput("Y")
			assert.False(t, yVisible)
		}
		return types.Data{"done." + node.ID: true}, nil
	}

	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, executor, nil, types.WithMaxParallel(1))
	assert.Nil(t, err)
	assert.True(t, result.Success)
}

func TestTreeFailurePoisonsSubtree(t *testing.T) {
	tr := testTree()

	executor := func(ctx types.Context, node *types.EnhancedNode, input types.Data) (types.Data, error) {
		if node.ID == "X" {
			return nil, fmt.Errorf("expansion failed")
		}
		return types.Data{}, nil
	}

	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, executor, nil)
	assert.Nil(t, err)

	assert.Equal(t, types.ExecPartial, result.Status)
	assert.Equal(t, types.StatusFailed, result.PerNode["X"].Status)
	assert.Equal(t, types.StatusSkipped, result.PerNode["Z"].Status)
	assert.Equal(t, types.SkipPoisoned, result.PerNode["Z"].SkipReason)
	// the other branch is unaffected
	assert.Equal(t, types.StatusCompleted, result.PerNode["Y"].Status)
}

func TestTreeExecuteSubtree(t *testing.T) {
	tr := testTree()

	rec := &recordingExecutor{}
	e := NewTreeExecutor(nil)
	result, err := e.ExecuteSubtree(tr, "X", -1, rec.exec, nil)
	assert.Nil(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Total())
	assert.Contains(t, result.PerNode, "X")
	assert.Contains(t, result.PerNode, "Z")
	assert.NotContains(t, result.PerNode, "Y")

	// depth 0 restricts to the subtree root alone
	result, err = e.ExecuteSubtree(tr, "X", 0, rec.exec, nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, result.Total())
}

func TestTreeExecuteLeaves(t *testing.T) {
	tr := testTree()

	executor := func(ctx types.Context, node *types.EnhancedNode, input types.Data) (types.Data, error) {
		// leaves see the initial params only, never ancestor outputs
		assert.Equal(t, 1, len(input))
		mode, _ := input.GetString("mode")
		assert.Equal(t, "regenerate", mode)
		_, visible := ctx.GetAncestorOutput("R")
		assert.False(t, visible)
		return types.Data{"done." + node.ID: true}, nil
	}

	e := NewTreeExecutor(nil)
	result, err := e.ExecuteLeaves(tr, executor, types.Data{"mode": "regenerate"})
	assert.Nil(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Total())
	assert.Contains(t, result.PerNode, "Y")
	assert.Contains(t, result.PerNode, "Z")
	assert.NotContains(t, result.PerNode, "R")
}

func TestTreePauseAndResume(t *testing.T) {
	tr := testTree()

	pause := make(chan struct{})
	rec := &recordingExecutor{}
	executor := func(ctx types.Context, node *types.EnhancedNode, input types.Data) (types.Data, error) {
		output, err := rec.exec(ctx, node, input)
		if node.ID == "R" {
			close(pause)
		}
		return output, err
	}

	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, executor, nil, types.WithPauseSignal(pause), types.WithMaxParallel(1))
	assert.Nil(t, err)

	assert.Equal(t, types.ExecPaused, result.Status)
	assert.Equal(t, 1, result.Completed)
	assert.NotNil(t, result.Checkpoint)

	resumed, err := e.Execute(tr, rec.exec, nil, types.WithCheckpoint(result.Checkpoint), types.WithMaxParallel(1))
	assert.Nil(t, err)
	assert.Equal(t, types.ExecCompleted, resumed.Status)
	assert.Equal(t, 4, resumed.Completed)
	// the root ran once across both calls
	assert.Equal(t, []string{"R", "X", "Y", "Z"}, rec.order)
}

func TestTreeInvalidStructure(t *testing.T) {
	tr := testTree()
	// detach Z from X's child list, leaving a dangling parent pointer
	tr.Nodes["X"].ChildIDs = nil

	rec := &recordingExecutor{}
	e := NewTreeExecutor(nil)
	_, err := e.Execute(tr, rec.exec, nil)
	assert.NotNil(t, err)
	assert.True(t, types.IsStructural(err))

	_, err = e.ExecuteLeaves(tr, rec.exec, nil)
	assert.NotNil(t, err)
	assert.True(t, types.IsStructural(err))
}

func TestTreeDOTRender(t *testing.T) {
	tr := testTree()
	rec := &recordingExecutor{}
	e := NewTreeExecutor(nil)
	result, err := e.Execute(tr, rec.exec, nil)
	assert.Nil(t, err)

	dot := RenderTreeDOT(tr, result)
	fmt.Println(dot)
	assert.Contains(t, dot, "R -> X")
	assert.Contains(t, dot, "X -> Z")
	// leaves render as boxes
	assert.Contains(t, dot, "Y [label=\"Y\" shape=\"box\"")
}
