package domain

// TraversalState is derived from (flow, answers, skip set) and never stored.
// It is recomputed from scratch on every change.
type TraversalState struct {
	// Order lists visited node ids in depth-first visitation order.
	Order []string `json:"order"`

	// CurrentNodeID is the first incomplete node, empty when the questionnaire is finished.
	CurrentNodeID string `json:"currentNodeId,omitempty"`

	// Completed lists the complete nodes of Order, in order.
	Completed []string `json:"completed"`

	// Finished is true when every visited node is complete.
	Finished bool `json:"finished"`
}
