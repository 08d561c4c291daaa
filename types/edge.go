package types

type EdgeType string

const (
	EdgeDataflow    EdgeType = "dataflow"
	EdgeControlflow EdgeType = "controlflow"
	EdgeDependency  EdgeType = "dependency"
	EdgeReference   EdgeType = "reference"
	EdgeHierarchy   EdgeType = "hierarchy"
)

type EdgeDirection string

const (
	Directed   EdgeDirection = "directed"
	Undirected EdgeDirection = "undirected"
)

/**
 * EdgeCondition decides whether the edge is active for routing, evaluated
 * against the accumulated outputs of settled nodes. A nil condition means
 * always active.
 */
type EdgeCondition func(outputs Data) bool

/**
 * Edge is a typed, weighted relation between two node IDs. Edges are owned
 * by the Graph that declares them. An undirected edge imposes no execution
 * order; algorithms expand it bidirectionally for reachability only.
 */
type Edge struct {
	ID        string        `json:"id"`
	From      string        `json:"from"`
	To        string        `json:"to"`
	Type      EdgeType      `json:"type,omitempty"`
	Direction EdgeDirection `json:"direction,omitempty"`
	Weight    float64       `json:"weight,omitempty"`
	Condition EdgeCondition `json:"-"`
}

func NewEdge(id, from, to string) *Edge {
	return &Edge{ID: id, From: from, To: to, Type: EdgeDependency, Direction: Directed, Weight: 1}
}

func (e *Edge) IsDirected() bool {
	return e.Direction != Undirected
}

// EffectiveWeight defaults the zero value to 1 so unweighted graphs still
// produce sensible critical-path costs.
func (e *Edge) EffectiveWeight() float64 {
	if e.Weight == 0 {
		return 1
	}
	return e.Weight
}
