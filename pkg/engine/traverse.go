package engine

import (
	"slices"

	"github.com/aretw0/questflow/pkg/domain"
)

// Walk controls a depth-first expansion of the flow graph.
type Walk struct {
	Flow    *domain.Flow
	Index   *Index
	Answers domain.Answers
	Skip    domain.SkipSet

	// Gated stops expansion at incomplete nodes.
	Gated bool
}

// Run returns the visited node ids in preorder, starting at rootID.
//
// Each node is visited at most once, so cycles end the branch that closes them.
// Ids that do not resolve to a node are never emitted and are not expanded.
// Outgoing edges are followed in index order when their condition holds.
func (w Walk) Run(rootID string) []string {
	idx := indexFor(w.Flow, w.Index)

	visited := make(map[string]bool)
	order := make([]string, 0, len(idx.NodesByID))
	stack := []string{rootID}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[id] {
			continue
		}
		visited[id] = true

		node, ok := idx.Node(id)
		if !ok {
			continue
		}
		order = append(order, id)

		if w.Gated && !IsComplete(node, w.Answers, w.Flow.OptionsFor(node.QuestionID), w.Skip) {
			continue
		}

		// Push in reverse so the lowest-order edge is popped first.
		edges := idx.Edges(id)
		for i := len(edges) - 1; i >= 0; i-- {
			if Evaluate(edges[i].When, w.Answers) {
				stack = append(stack, edges[i].Target)
			}
		}
	}

	return order
}

// Traverse returns the completeness-gated traversal order from rootID.
// The order ends each branch at its first incomplete node.
// A nil idx is built on the fly.
func Traverse(rootID string, answers domain.Answers, flow *domain.Flow, idx *Index, skip domain.SkipSet) []string {
	return Walk{Flow: flow, Index: idx, Answers: answers, Skip: skip, Gated: true}.Run(rootID)
}

// FullReachable returns every node reachable from rootID through satisfied edges,
// ignoring completeness. It is a superset of Traverse.
func FullReachable(rootID string, answers domain.Answers, flow *domain.Flow, idx *Index) []string {
	return Walk{Flow: flow, Index: idx, Answers: answers}.Run(rootID)
}

// CurrentNode returns the first incomplete node of a traversal order.
// The boolean is false when every node is complete.
func CurrentNode(order []string, answers domain.Answers, flow *domain.Flow, idx *Index, skip domain.SkipSet) (string, bool) {
	idx = indexFor(flow, idx)
	for _, id := range order {
		node, ok := idx.Node(id)
		if !ok {
			continue
		}
		if !IsComplete(node, answers, flow.OptionsFor(node.QuestionID), skip) {
			return id, true
		}
	}
	return "", false
}

// CompletedNodes returns the complete nodes of a traversal order, in order.
func CompletedNodes(order []string, answers domain.Answers, flow *domain.Flow, idx *Index, skip domain.SkipSet) []string {
	idx = indexFor(flow, idx)
	completed := make([]string, 0, len(order))
	for _, id := range order {
		node, ok := idx.Node(id)
		if !ok {
			continue
		}
		if IsComplete(node, answers, flow.OptionsFor(node.QuestionID), skip) {
			completed = append(completed, id)
		}
	}
	return completed
}

// State derives the full traversal state of a flow for the given answers.
func State(flow *domain.Flow, idx *Index, answers domain.Answers, skip domain.SkipSet) domain.TraversalState {
	idx = indexFor(flow, idx)

	order := Traverse(flow.RootID, answers, flow, idx, skip)
	current, pending := CurrentNode(order, answers, flow, idx, skip)

	return domain.TraversalState{
		Order:         order,
		CurrentNodeID: current,
		Completed:     CompletedNodes(order, answers, flow, idx, skip),
		Finished:      !pending,
	}
}

// ReachableQuestions returns the distinct question ids of the given nodes, in first-seen order.
func ReachableQuestions(nodeIDs []string, idx *Index) []string {
	var out []string
	for _, id := range nodeIDs {
		node, ok := idx.Node(id)
		if !ok || node.QuestionID == "" {
			continue
		}
		if !slices.Contains(out, node.QuestionID) {
			out = append(out, node.QuestionID)
		}
	}
	return out
}
