package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/questflow/pkg/adapters/memory"
	"github.com/aretw0/questflow/pkg/domain"
)

// Builder manages the flow construction.
type Builder struct {
	rootID  string
	order   []string
	nodes   map[string]*NodeBuilder
	options map[string][]domain.Option
}

// New creates a new flow builder.
func New() *Builder {
	return &Builder{
		nodes:   make(map[string]*NodeBuilder),
		options: make(map[string][]domain.Option),
	}
}

// Add creates a new node in the flow.
// If the node already exists, it returns the existing builder.
// The first node added is the root unless Root is called.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID:      id,
			Type:    domain.NodeTypeQuestion,
			Control: domain.ControlSingle,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Root sets the entry node.
func (b *Builder) Root(id string) *Builder {
	b.rootID = id
	return b
}

// Build compiles the flow.
func (b *Builder) Build() (*domain.Flow, error) {
	if len(b.order) == 0 {
		return nil, errors.New("flow has no nodes")
	}

	root := b.rootID
	if root == "" {
		root = b.order[0]
	}
	if _, ok := b.nodes[root]; !ok {
		return nil, fmt.Errorf("root node %q is not declared", root)
	}

	flow := &domain.Flow{
		Version: domain.FlowVersion,
		RootID:  root,
		Nodes:   make([]domain.Node, 0, len(b.order)),
		Options: make(map[string][]domain.Option, len(b.options)),
	}

	seen := make(map[string]int)
	for _, id := range b.order {
		nb := b.nodes[id]
		if nb.node.QuestionID == "" {
			return nil, fmt.Errorf("node %q has no question id", id)
		}
		flow.Nodes = append(flow.Nodes, nb.node)

		for _, eb := range nb.edges {
			if _, ok := b.nodes[eb.edge.Target]; !ok {
				return nil, fmt.Errorf("edge %s -> %s: target is not declared", id, eb.edge.Target)
			}
			edge := eb.edge
			if edge.ID == "" {
				edge.ID = edgeID(id, edge.Target, seen)
			}
			flow.Edges = append(flow.Edges, edge)
		}
	}

	for qid, opts := range b.options {
		flow.Options[qid] = append([]domain.Option(nil), opts...)
	}
	return flow, nil
}

// Loader compiles the flow into a memory loader.
func (b *Builder) Loader() (*memory.Loader, error) {
	flow, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build flow: %w", err)
	}
	return memory.NewLoader(flow), nil
}

func edgeID(source, target string, seen map[string]int) string {
	id := fmt.Sprintf("e_%s_%s", source, target)
	seen[id]++
	if n := seen[id]; n > 1 {
		return fmt.Sprintf("%s_%d", id, n)
	}
	return id
}
