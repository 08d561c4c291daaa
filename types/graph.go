package types

type GraphConfig struct {
	MaxParallelNodes        int  `json:"max_parallel_nodes"`
	EnableParallelExecution bool `json:"enable_parallel_execution"`
	FailFast                bool `json:"fail_fast"`
}

/**
 * Graph is a node-ID set plus typed edges. The engine requires the graph
 * to be acyclic before execution; cycle detection is a hard precondition,
 * not a runtime discovery. The engine never adds or removes nodes/edges
 * mid-execution.
 */
type Graph struct {
	ID      string      `json:"id"`
	NodeIDs []string    `json:"node_ids"`
	Edges   []*Edge     `json:"edges"`
	Config  GraphConfig `json:"config"`
}

func NewGraph(id string) *Graph {
	return &Graph{
		ID: id,
		Config: GraphConfig{
			MaxParallelNodes:        4,
			EnableParallelExecution: true,
		},
	}
}

func (g *Graph) AddNode(nodeID string) {
	for _, id := range g.NodeIDs {
		if id == nodeID {
			return
		}
	}
	g.NodeIDs = append(g.NodeIDs, nodeID)
}

func (g *Graph) AddEdge(e *Edge) {
	g.Edges = append(g.Edges, e)
}

func (g *Graph) HasNode(nodeID string) bool {
	for _, id := range g.NodeIDs {
		if id == nodeID {
			return true
		}
	}
	return false
}
