package domain

// Edge is a directed, conditionally-gated transition between two nodes.
type Edge struct {
	ID     string `json:"id" yaml:"id"`
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`

	// Order defines traversal priority among siblings (ascending).
	// Edges with equal order keep their declaration order.
	Order int `json:"order" yaml:"order"`

	// When gates the edge. A nil condition is always true.
	When *Condition `json:"when,omitempty" yaml:"when,omitempty"`
}
