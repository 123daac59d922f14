package dsl

import "github.com/aretw0/questflow/pkg/domain"

// NodeBuilder provides a fluent API for configuring a question node.
type NodeBuilder struct {
	node    domain.Node
	edges   []*EdgeBuilder
	builder *Builder
}

// Question sets the answer key and the label shown to the user.
func (n *NodeBuilder) Question(questionID, label string) *NodeBuilder {
	n.node.QuestionID = questionID
	n.node.Label = label
	return n
}

// Single makes the node collect one option value (the default).
func (n *NodeBuilder) Single() *NodeBuilder {
	n.node.Control = domain.ControlSingle
	return n
}

// Multi makes the node collect a list of option values.
func (n *NodeBuilder) Multi() *NodeBuilder {
	n.node.Control = domain.ControlMulti
	return n
}

func (n *NodeBuilder) validation() *domain.Validation {
	if n.node.Validation == nil {
		n.node.Validation = &domain.Validation{}
	}
	return n.node.Validation
}

// Required marks the answer as mandatory.
func (n *NodeBuilder) Required() *NodeBuilder {
	n.validation().Required = true
	return n
}

// MinItems sets the minimum selection count of a multi node.
func (n *NodeBuilder) MinItems(min int) *NodeBuilder {
	n.validation().MinItems = &min
	return n
}

// MaxItems sets the maximum selection count of a multi node.
func (n *NodeBuilder) MaxItems(max int) *NodeBuilder {
	n.validation().MaxItems = &max
	return n
}

// Default seeds the answer shown when the question is first asked.
func (n *NodeBuilder) Default(v domain.Value) *NodeBuilder {
	n.node.DefaultValue = v
	return n
}

// Options appends options to the node's question.
// Options are stored per question id, so nodes sharing a question share them.
func (n *NodeBuilder) Options(opts ...domain.Option) *NodeBuilder {
	qid := n.node.QuestionID
	n.builder.options[qid] = append(n.builder.options[qid], opts...)
	return n
}

// Go adds an edge to the target node. Without When it is unconditional.
func (n *NodeBuilder) Go(target string) *EdgeBuilder {
	eb := &EdgeBuilder{
		edge: domain.Edge{Source: n.node.ID, Target: target},
		from: n,
	}
	n.edges = append(n.edges, eb)
	return eb
}

// Build returns the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}

// EdgeBuilder configures the edge created by Go.
type EdgeBuilder struct {
	edge domain.Edge
	from *NodeBuilder
}

// When gates the edge.
func (e *EdgeBuilder) When(cond *domain.Condition) *EdgeBuilder {
	e.edge.When = cond
	return e
}

// Order sets the traversal priority among siblings (ascending).
func (e *EdgeBuilder) Order(order int) *EdgeBuilder {
	e.edge.Order = order
	return e
}

// ID overrides the generated edge id.
func (e *EdgeBuilder) ID(id string) *EdgeBuilder {
	e.edge.ID = id
	return e
}

// Go adds a sibling edge from the same source node.
func (e *EdgeBuilder) Go(target string) *EdgeBuilder {
	return e.from.Go(target)
}

// Node returns to the source node builder.
func (e *EdgeBuilder) Node() *NodeBuilder {
	return e.from
}
