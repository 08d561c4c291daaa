package tree

import (
	"fmt"

	"github.com/warriorguo/topoflow/types"
	"github.com/warriorguo/topoflow/utils"
)

type ViolationKind string

const (
	ViolationMultipleRoots   ViolationKind = "multiple-roots"
	ViolationMissingRoot     ViolationKind = "missing-root"
	ViolationMultipleParents ViolationKind = "multiple-parents"
	ViolationOrphanReference ViolationKind = "orphan-reference"
	ViolationInconsistent    ViolationKind = "inconsistent-pointers"
	ViolationBadPath         ViolationKind = "bad-path"
)

type Violation struct {
	Kind    ViolationKind
	Subject string
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s(%s): %s", v.Kind, v.Subject, v.Message)
}

/**
 * Validate checks the structural invariant of a rooted tree: rootID is
 * the single parentless node, every other node has exactly one parent,
 * parent/child pointers are mutually consistent, no childIDs/parentIDs
 * reference unknown nodes, and len(Path) == Level+1 with child level ==
 * parent level + 1. Violations are reported, not thrown; the list is
 * deterministic for an unmodified tree.
 */
func Validate(rootID string, nodes map[string]*types.EnhancedNode) []Violation {
	violations := make([]Violation, 0)

	if _, exists := nodes[rootID]; !exists {
		violations = append(violations, Violation{
			Kind:    ViolationMissingRoot,
			Subject: rootID,
			Message: fmt.Sprintf("declared root %s not in node map", rootID),
		})
		return violations
	}

	for _, id := range utils.SortedKeys(nodes) {
		node := nodes[id]

		switch {
		case id == rootID:
			if len(node.ParentIDs) != 0 {
				violations = append(violations, Violation{
					Kind:    ViolationMultipleRoots,
					Subject: id,
					Message: fmt.Sprintf("root %s declares parents %v", id, node.ParentIDs),
				})
			}
		case len(node.ParentIDs) == 0:
			violations = append(violations, Violation{
				Kind:    ViolationMultipleRoots,
				Subject: id,
				Message: fmt.Sprintf("node %s has no parent but is not the root", id),
			})
		case len(node.ParentIDs) > 1:
			violations = append(violations, Violation{
				Kind:    ViolationMultipleParents,
				Subject: id,
				Message: fmt.Sprintf("node %s has %d parents", id, len(node.ParentIDs)),
			})
		}

		for _, childID := range node.ChildIDs {
			child, exists := nodes[childID]
			if !exists {
				violations = append(violations, Violation{
					Kind:    ViolationOrphanReference,
					Subject: id,
					Message: fmt.Sprintf("node %s lists unknown child %s", id, childID),
				})
				continue
			}
			if !contains(child.ParentIDs, id) {
				violations = append(violations, Violation{
					Kind:    ViolationInconsistent,
					Subject: id,
					Message: fmt.Sprintf("node %s lists child %s, but %s does not list %s as parent", id, childID, childID, id),
				})
			}
			if child.Level != node.Level+1 {
				violations = append(violations, Violation{
					Kind:    ViolationBadPath,
					Subject: childID,
					Message: fmt.Sprintf("child %s level %d, parent %s level %d", childID, child.Level, id, node.Level),
				})
			}
		}

		for _, parentID := range node.ParentIDs {
			parent, exists := nodes[parentID]
			if !exists {
				violations = append(violations, Violation{
					Kind:    ViolationOrphanReference,
					Subject: id,
					Message: fmt.Sprintf("node %s lists unknown parent %s", id, parentID),
				})
				continue
			}
			if !contains(parent.ChildIDs, id) {
				violations = append(violations, Violation{
					Kind:    ViolationInconsistent,
					Subject: id,
					Message: fmt.Sprintf("node %s lists parent %s, but %s does not list %s as child", id, parentID, parentID, id),
				})
			}
		}

		if len(node.Path) != node.Level+1 {
			violations = append(violations, Violation{
				Kind:    ViolationBadPath,
				Subject: id,
				Message: fmt.Sprintf("node %s path length %d, expected level+1 = %d", id, len(node.Path), node.Level+1),
			})
		}
	}

	return violations
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
