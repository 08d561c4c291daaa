package runtime

import (
	"fmt"
	"strings"

	"github.com/warriorguo/topoflow/types"
	"github.com/warriorguo/topoflow/utils"
)

/**
 * RenderGraphDOT produces a Graphviz digraph of the topology, coloring
 * nodes by the statuses in result (pass nil for an uncolored render).
 * Undirected edges render without arrowheads, conditional edges dashed.
 */
func RenderGraphDOT(g *types.Graph, result *types.ExecutionResult) string {
	r := newDOTRenderer(result)

	r.write("digraph D {")
	for _, nodeID := range sortedIDs(g.NodeIDs) {
		r.drawNode(nodeID, "record")
	}
	for _, edge := range g.Edges {
		attrs := make([]string, 0, 2)
		if edge.Type != "" {
			attrs = append(attrs, fmt.Sprintf("label=%s", quoteString(string(edge.Type))))
		}
		if edge.Condition != nil {
			attrs = append(attrs, "style=\"dashed\"")
		}
		if !edge.IsDirected() {
			attrs = append(attrs, "dir=\"none\"")
		}
		suffix := ""
		if len(attrs) > 0 {
			suffix = " [" + strings.Join(attrs, " ") + "]"
		}
		r.write("%s -> %s%s", idString(edge.From), idString(edge.To), suffix)
	}
	r.write("label=%s", quoteString(g.ID))
	r.write("}")
	return r.sb.String()
}

// RenderTreeDOT renders the hierarchy edges of a tree, root at the top.
func RenderTreeDOT(t *types.Tree, result *types.ExecutionResult) string {
	r := newDOTRenderer(result)

	r.write("digraph D {")
	for _, nodeID := range utils.SortedKeys(t.Nodes) {
		shape := "record"
		if t.Nodes[nodeID].IsLeaf() {
			shape = "box"
		}
		r.drawNode(nodeID, shape)
	}
	for _, nodeID := range utils.SortedKeys(t.Nodes) {
		for _, childID := range t.Nodes[nodeID].ChildIDs {
			r.write("%s -> %s", idString(nodeID), idString(childID))
		}
	}
	r.write("label=%s", quoteString(t.ID))
	r.write("}")
	return r.sb.String()
}

func newDOTRenderer(result *types.ExecutionResult) *dotRenderer {
	r := &dotRenderer{sb: &strings.Builder{}}
	if result != nil {
		r.perNode = result.PerNode
	}
	return r
}

type dotRenderer struct {
	perNode map[string]*types.NodeResult
	sb      *strings.Builder
}

func (d *dotRenderer) drawNode(nodeID, shape string) {
	d.write("%s [label=%s shape=\"%s\"%s]", idString(nodeID), quoteString(nodeID), shape, d.calcAttr(nodeID))
}

func (d *dotRenderer) calcAttr(nodeID string) string {
	nr, exists := d.perNode[nodeID]
	if !exists {
		return ""
	}

	color := ""
	switch nr.Status {
	case types.StatusRunning:
		color = "yellow"
	case types.StatusCompleted:
		color = "green"
	case types.StatusFailed:
		color = "red"
	case types.StatusSkipped:
		color = "grey"
	default:
		color = "white"
	}
	return fmt.Sprintf(" style=\"filled\" color=\"%s\"", color)
}

func (d *dotRenderer) write(format string, s ...any) {
	d.sb.WriteString(fmt.Sprintf(format+"\n", s...))
}

func sortedIDs(ids []string) []string {
	sorted := append([]string(nil), ids...)
	return utils.SortedKeys(toSet(sorted))
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func quoteString(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

var idleChars = []string{" ", "'", "\"", "(", ")", "*", "&", "^", "%", "$", "#", "@", "!", "?", "<", ">", "[", "]", "{", "}", "."}

func idString(s string) string {
	for _, ch := range idleChars {
		s = strings.ReplaceAll(s, ch, "_")
	}
	return s
}
