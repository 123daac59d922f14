package engine

import "github.com/aretw0/questflow/pkg/domain"

// SummaryItem is one reachable question with its answer resolved for display.
type SummaryItem struct {
	NodeID     string   `json:"nodeId"`
	QuestionID string   `json:"questionId"`
	Label      string   `json:"label"`
	Values     []string `json:"values,omitempty"`
	Labels     []string `json:"labels,omitempty"`
	OtherText  string   `json:"otherText,omitempty"`
	Skipped    bool     `json:"skipped,omitempty"`
}

// Answered reports whether the item carries at least one value.
func (i SummaryItem) Answered() bool { return len(i.Values) > 0 }

// Summary is the input of text generators: the final answers plus the reachable
// questions in traversal order.
type Summary struct {
	Answers domain.Answers `json:"answers"`
	Items   []SummaryItem  `json:"items"`
}

// Summarize prunes the answers against the full reachable set and resolves every
// reachable question, once per question id, into display labels.
func Summarize(flow *domain.Flow, idx *Index, answers domain.Answers, skip domain.SkipSet) Summary {
	idx = indexFor(flow, idx)
	reachable := FullReachable(flow.RootID, answers, flow, idx)
	final := Prune(answers, reachable, flow, idx)

	summary := Summary{Answers: final, Items: []SummaryItem{}}
	seen := make(map[string]bool)

	for _, id := range reachable {
		node, ok := idx.Node(id)
		if !ok || node.QuestionID == "" || seen[node.QuestionID] {
			continue
		}
		seen[node.QuestionID] = true

		item := SummaryItem{
			NodeID:     id,
			QuestionID: node.QuestionID,
			Label:      node.Label,
			Skipped:    skip.Has(node.QuestionID),
		}
		if item.Label == "" {
			item.Label = node.QuestionID
		}

		answer := final.Get(node.QuestionID)
		switch answer.Kind() {
		case domain.KindSingle:
			s, _ := answer.Str()
			if s != "" {
				item.Values = []string{s}
			}
		case domain.KindMulti:
			items, _ := answer.Items()
			item.Values = append(item.Values, items...)
		case domain.KindRaw:
			item.Values = []string{answer.Text()}
		}
		for _, v := range item.Values {
			item.Labels = append(item.Labels, flow.OptionLabel(node.QuestionID, v))
		}

		if companion, ok := final.Get(domain.CompanionKey(node.QuestionID)).Str(); ok {
			item.OtherText = companion
		}

		summary.Items = append(summary.Items, item)
	}

	return summary
}
