package lint

import (
	"fmt"
	"strings"

	"github.com/aretw0/questflow/pkg/domain"
)

// Severity grades an issue.
type Severity string

const (
	// SeverityError marks structure the author almost certainly did not intend.
	SeverityError Severity = "error"
	// SeverityWarning marks structure the engine tolerates but that is likely a mistake.
	SeverityWarning Severity = "warning"
)

// Issue is one structural finding.
type Issue struct {
	Severity Severity `json:"severity"`
	NodeID   string   `json:"nodeId,omitempty"`
	EdgeID   string   `json:"edgeId,omitempty"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	at := i.NodeID
	if i.EdgeID != "" {
		at = "edge " + i.EdgeID
	}
	if at == "" {
		return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, at, i.Message)
}

// Check inspects a flow for broken references, unreachable nodes and suspicious declarations.
// The engine tolerates all of these at runtime; lint makes them visible to authors.
func Check(flow *domain.Flow) []Issue {
	if flow == nil {
		return []Issue{{Severity: SeverityError, Message: "flow is empty"}}
	}

	var issues []Issue
	add := func(sev Severity, nodeID, edgeID, format string, args ...any) {
		issues = append(issues, Issue{Severity: sev, NodeID: nodeID, EdgeID: edgeID, Message: fmt.Sprintf(format, args...)})
	}

	nodes := make(map[string]*domain.Node, len(flow.Nodes))
	questions := make(map[string]bool)
	for i := range flow.Nodes {
		n := &flow.Nodes[i]
		if _, dup := nodes[n.ID]; dup {
			add(SeverityError, n.ID, "", "duplicate node id (the last declaration wins)")
		}
		nodes[n.ID] = n
		questions[n.QuestionID] = true

		if n.QuestionID == "" {
			add(SeverityError, n.ID, "", "node has no questionId")
		}
		if n.Control != domain.ControlSingle && n.Control != domain.ControlMulti {
			add(SeverityWarning, n.ID, "", "unknown control %q", n.Control)
		}
		if n.QuestionID != "" && len(flow.OptionsFor(n.QuestionID)) == 0 {
			add(SeverityWarning, n.ID, "", "question %q has no options", n.QuestionID)
		}
		if v := n.Validation; v != nil && v.MinItems != nil && v.MaxItems != nil && *v.MinItems > *v.MaxItems {
			add(SeverityError, n.ID, "", "minItems %d exceeds maxItems %d", *v.MinItems, *v.MaxItems)
		}
	}

	if flow.RootID == "" {
		add(SeverityError, "", "", "rootId is not set")
	} else if _, ok := nodes[flow.RootID]; !ok {
		add(SeverityError, "", "", "root node %q does not exist", flow.RootID)
	}

	edgeIDs := make(map[string]bool)
	adjacency := make(map[string][]string)
	for _, e := range flow.Edges {
		if e.ID != "" && edgeIDs[e.ID] {
			add(SeverityWarning, "", e.ID, "duplicate edge id")
		}
		edgeIDs[e.ID] = true

		if _, ok := nodes[e.Source]; !ok {
			add(SeverityError, "", e.ID, "source %q does not exist", e.Source)
		}
		if _, ok := nodes[e.Target]; !ok {
			add(SeverityError, "", e.ID, "target %q does not exist", e.Target)
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)

		for _, msg := range checkCondition(e.When, questions) {
			add(SeverityWarning, "", e.ID, "%s", msg)
		}
	}

	// Crawl ignoring conditions: anything not found can never be shown.
	visited := make(map[string]bool)
	queue := []string{flow.RootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		for _, target := range adjacency[id] {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	for _, n := range flow.Nodes {
		if !visited[n.ID] {
			add(SeverityWarning, n.ID, "", "node is unreachable from the root")
		}
	}

	return issues
}

// checkCondition reports conditions that silently evaluate to true.
func checkCondition(c *domain.Condition, questions map[string]bool) []string {
	if c == nil {
		return nil
	}

	switch {
	case (c.Op == domain.OpAnd || c.Op == domain.OpOr) && c.Conditions != nil:
		var out []string
		for _, child := range c.Conditions {
			out = append(out, checkCondition(child, questions)...)
		}
		return out
	case c.Op == domain.OpNot && c.Condition != nil:
		return checkCondition(c.Condition, questions)
	}

	switch {
	case c.Op == "" || c.QuestionID == "":
		return []string{"condition is missing questionId or op and always holds"}
	case !knownOp(c.Op):
		return []string{fmt.Sprintf("unknown operator %q always holds", c.Op)}
	case !questions[c.QuestionID]:
		return []string{fmt.Sprintf("condition references unknown question %q", c.QuestionID)}
	}
	return nil
}

func knownOp(op domain.Op) bool {
	switch op {
	case domain.OpEquals, domain.OpNotEquals, domain.OpContains, domain.OpNotContains:
		return true
	}
	return false
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidateFlow returns an error listing every error-level issue, or nil.
func ValidateFlow(flow *domain.Flow) error {
	var errs []string
	for _, i := range Check(flow) {
		if i.Severity == SeverityError {
			errs = append(errs, i.String())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(errs, "\n- "))
	}
	return nil
}
