package graph

import (
	"fmt"
	"sort"

	"github.com/warriorguo/topoflow/types"
)

type ViolationKind string

const (
	ViolationDanglingEdge ViolationKind = "dangling-edge"
	ViolationCycle        ViolationKind = "cycle"
	ViolationIsolatedNode ViolationKind = "isolated-node"
)

type Violation struct {
	Kind    ViolationKind
	Subject string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s(%s): %s", v.Kind, v.Subject, v.Message)
}

type ValidateOptions struct {
	AllowIsolated bool
}

/**
 * Validate is the composite structural check: dangling edge endpoints,
 * cycles, and isolated nodes unless explicitly allowed. It returns the
 * full violation list rather than failing on the first finding, so the
 * caller decides whether to proceed. Running it twice on an unmodified
 * graph yields the identical list.
 */
func Validate(g *types.Graph, opts *ValidateOptions) []Violation {
	if opts == nil {
		opts = &ValidateOptions{}
	}

	violations := make([]Violation, 0)
	known := make(map[string]bool, len(g.NodeIDs))
	for _, id := range g.NodeIDs {
		known[id] = true
	}

	touched := make(map[string]bool, len(g.NodeIDs))
	for _, e := range g.Edges {
		for _, endpoint := range []string{e.From, e.To} {
			if !known[endpoint] {
				violations = append(violations, Violation{
					Kind:    ViolationDanglingEdge,
					Subject: e.ID,
					Message: fmt.Sprintf("edge %s references unknown node %s", e.ID, endpoint),
				})
			} else {
				touched[endpoint] = true
			}
		}
	}

	report := DetectCycles(g.NodeIDs, g.Edges)
	for _, cycle := range report.Cycles {
		violations = append(violations, Violation{
			Kind:    ViolationCycle,
			Subject: fmt.Sprintf("%v", cycle),
			Message: fmt.Sprintf("cycle of %d nodes", len(cycle)),
		})
	}

	if !opts.AllowIsolated && len(g.NodeIDs) > 1 {
		isolated := make([]string, 0)
		for _, id := range g.NodeIDs {
			if !touched[id] {
				isolated = append(isolated, id)
			}
		}
		sort.Strings(isolated)
		for _, id := range isolated {
			violations = append(violations, Violation{
				Kind:    ViolationIsolatedNode,
				Subject: id,
				Message: fmt.Sprintf("node %s has no edges", id),
			})
		}
	}

	return violations
}
