package engine

import "github.com/aretw0/questflow/pkg/domain"

// Prune returns a new answer set holding only the answers of reachable questions.
//
// A key survives when it is the question id of a node in reachable, or the companion
// key of such a question. The input is never modified.
func Prune(answers domain.Answers, reachable []string, flow *domain.Flow, idx *Index) domain.Answers {
	idx = indexFor(flow, idx)

	keep := make(map[string]bool, len(reachable))
	for _, id := range reachable {
		if node, ok := idx.Node(id); ok && node.QuestionID != "" {
			keep[node.QuestionID] = true
		}
	}

	pruned := make(domain.Answers, len(answers))
	for key, value := range answers {
		if keep[key] {
			pruned[key] = value
			continue
		}
		if base, ok := domain.CompanionBase(key); ok && keep[base] {
			pruned[key] = value
		}
	}
	return pruned
}
