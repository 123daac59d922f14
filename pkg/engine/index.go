package engine

import (
	"cmp"
	"slices"

	"github.com/aretw0/questflow/pkg/domain"
)

// Index holds the lookup structures derived from a flow definition.
type Index struct {
	NodesByID     map[string]*domain.Node
	EdgesBySource map[string][]domain.Edge
}

// BuildIndex builds the node lookup and the per-source edge lists of a flow.
// Edge lists are sorted by ascending Order; edges with equal Order keep their declaration order.
// When two nodes share an id, the last one wins.
func BuildIndex(flow *domain.Flow) *Index {
	idx := &Index{
		NodesByID:     make(map[string]*domain.Node),
		EdgesBySource: make(map[string][]domain.Edge),
	}
	if flow == nil {
		return idx
	}

	for i := range flow.Nodes {
		idx.NodesByID[flow.Nodes[i].ID] = &flow.Nodes[i]
	}

	for _, e := range flow.Edges {
		idx.EdgesBySource[e.Source] = append(idx.EdgesBySource[e.Source], e)
	}
	for source, edges := range idx.EdgesBySource {
		slices.SortStableFunc(edges, func(a, b domain.Edge) int {
			return cmp.Compare(a.Order, b.Order)
		})
		idx.EdgesBySource[source] = edges
	}

	return idx
}

// Node returns the node with the given id.
func (idx *Index) Node(id string) (*domain.Node, bool) {
	if idx == nil {
		return nil, false
	}
	n, ok := idx.NodesByID[id]
	return n, ok
}

// Edges returns the sorted outgoing edges of a node.
func (idx *Index) Edges(source string) []domain.Edge {
	if idx == nil {
		return nil
	}
	return idx.EdgesBySource[source]
}

func indexFor(flow *domain.Flow, idx *Index) *Index {
	if idx != nil {
		return idx
	}
	return BuildIndex(flow)
}
