package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/engine"
)

// GraphOverlay contains traversal state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from a traversal state.
func OverlayFromState(state domain.TraversalState) *GraphOverlay {
	return &GraphOverlay{
		VisitedNodes: state.Order,
		CurrentNode:  state.CurrentNodeID,
	}
}

// GenerateMermaid produces a Mermaid flowchart syntax string from a flow.
// It applies semantic styling:
// - Root: ((Circle))
// - Multi-select: [/Parallelogram/]
// - Single-select: [Rectangle]
// Edges are emitted in traversal priority and labeled with their condition.
// Edges to undeclared nodes are drawn dotted.
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(flow *domain.Flow, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if flow == nil {
		return sb.String()
	}

	idx := engine.BuildIndex(flow)

	for _, node := range flow.Nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == flow.RootID:
			opener, closer = "((", "))"
		case node.Control == domain.ControlMulti:
			opener, closer = "[/", "/]"
		}

		label := node.Label
		if label == "" {
			label = node.ID
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, escape(label), closer)
	}

	for _, node := range flow.Nodes {
		safeID := sanitizeMermaidID(node.ID)
		for _, e := range idx.Edges(node.ID) {
			safeTo := sanitizeMermaidID(e.Target)
			_, known := idx.Node(e.Target)

			arrow := "-->"
			if !known {
				arrow = "-.->"
			}
			if e.When != nil {
				cond := escape(DescribeCondition(e.When))
				arrow = fmt.Sprintf("-- \"%s\" -->", cond)
				if !known {
					arrow = fmt.Sprintf("-. \"%s\" .->", cond)
				}
			}
			fmt.Fprintf(&sb, "    %s %s %s\n", safeID, arrow, safeTo)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" && id != overlay.CurrentNode {
				visitedSet[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}

		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

// DescribeCondition renders a condition as a short infix expression.
func DescribeCondition(c *domain.Condition) string {
	if c == nil {
		return "always"
	}

	switch {
	case (c.Op == domain.OpAnd || c.Op == domain.OpOr) && c.Conditions != nil:
		if len(c.Conditions) == 0 {
			if c.Op == domain.OpAnd {
				return "always"
			}
			return "never"
		}
		parts := make([]string, len(c.Conditions))
		for i, child := range c.Conditions {
			parts[i] = DescribeCondition(child)
		}
		return "(" + strings.Join(parts, " "+string(c.Op)+" ") + ")"
	case c.Op == domain.OpNot && c.Condition != nil:
		return "not " + DescribeCondition(c.Condition)
	}

	if c.QuestionID == "" || c.Op == "" {
		return "always"
	}

	var op string
	switch c.Op {
	case domain.OpEquals:
		op = "=="
	case domain.OpNotEquals:
		op = "!="
	case domain.OpContains:
		op = "has"
	case domain.OpNotContains:
		op = "lacks"
	default:
		return "always"
	}
	return fmt.Sprintf("%s %s %s", c.QuestionID, op, c.Value.Text())
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
