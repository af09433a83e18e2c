package scene

import (
	"fmt"

	"github.com/chazu/geomkit/pkg/geom"
)

// Scene is the top-level data structure produced by evaluation.
// It is never mutated after evaluation; each evaluation produces a new scene.
type Scene struct {
	Nodes     map[NodeID]*Node  `json:"nodes" yaml:"nodes"`
	Order     []NodeID          `json:"order" yaml:"order"`
	Roots     []NodeID          `json:"roots" yaml:"roots"`
	NameIndex map[string]NodeID `json:"name_index" yaml:"name_index"`
	Epsilon   float64           `json:"epsilon" yaml:"epsilon"`
	Version   uint64            `json:"version" yaml:"version"`
}

// New creates an empty Scene using the default tolerance.
func New() *Scene {
	return &Scene{
		Nodes:     make(map[NodeID]*Node),
		NameIndex: make(map[string]NodeID),
		Epsilon:   geom.DefaultEpsilon,
	}
}

// AddNode adds a node to the scene. Re-adding an ID replaces the node but
// keeps its original position in Order.
func (s *Scene) AddNode(n *Node) {
	if _, exists := s.Nodes[n.ID]; !exists {
		s.Order = append(s.Order, n.ID)
	}
	s.Nodes[n.ID] = n
	if n.Name != "" {
		s.NameIndex[n.Name] = n.ID
	}
}

// AddRoot registers a node ID as a root of the scene.
func (s *Scene) AddRoot(id NodeID) {
	s.Roots = append(s.Roots, id)
}

// Lookup returns the node with the given user-assigned name, or nil.
func (s *Scene) Lookup(name string) *Node {
	id, ok := s.NameIndex[name]
	if !ok {
		return nil
	}
	return s.Nodes[id]
}

// MustLookup returns the node with the given name, or panics.
func (s *Scene) MustLookup(name string) *Node {
	n := s.Lookup(name)
	if n == nil {
		panic(fmt.Sprintf("scene: no node named %q", name))
	}
	return n
}

// Get returns the node with the given ID, or nil.
func (s *Scene) Get(id NodeID) *Node {
	return s.Nodes[id]
}

// Ordered returns all nodes in insertion order.
func (s *Scene) Ordered() []*Node {
	nodes := make([]*Node, 0, len(s.Order))
	for _, id := range s.Order {
		if n := s.Nodes[id]; n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// OfKind returns the nodes of the given kind in insertion order.
func (s *Scene) OfKind(kind NodeKind) []*Node {
	var nodes []*Node
	for _, n := range s.Ordered() {
		if n.Kind == kind {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// Surfaces returns all surface nodes in insertion order.
func (s *Scene) Surfaces() []*Node {
	return s.OfKind(KindSurface)
}

// Queries returns all recorded query nodes in insertion order.
func (s *Scene) Queries() []*Node {
	return s.OfKind(KindQuery)
}

// Children returns the child nodes of the given node.
func (s *Scene) Children(n *Node) []*Node {
	children := make([]*Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c := s.Nodes[cid]; c != nil {
			children = append(children, c)
		}
	}
	return children
}

// NodeCount returns the total number of nodes.
func (s *Scene) NodeCount() int {
	return len(s.Nodes)
}

// Options returns the tolerance options the scene was evaluated with.
func (s *Scene) Options() []geom.Option {
	return []geom.Option{geom.WithEpsilon(s.Epsilon)}
}
