package scene

// NodeKind enumerates the types of nodes in a scene.
type NodeKind int

const (
	KindPoint    NodeKind = iota // 2D or 3D point
	KindSegment                  // 2D or 3D line segment
	KindPlane                    // plane in space
	KindTriangle                 // single 3D simplex
	KindSurface                  // triangulated surface
	KindGroup                    // logical grouping
	KindQuery                    // recorded query result
)

func (k NodeKind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindSegment:
		return "segment"
	case KindPlane:
		return "plane"
	case KindTriangle:
		return "triangle"
	case KindSurface:
		return "surface"
	case KindGroup:
		return "group"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

func (k NodeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Node is the fundamental element of a scene.
type Node struct {
	ID       NodeID   `json:"id" yaml:"id"`
	Kind     NodeKind `json:"kind" yaml:"kind"`
	Name     string   `json:"name,omitempty" yaml:"name,omitempty"`
	Children []NodeID `json:"children,omitempty" yaml:"children,omitempty"`
	Data     NodeData `json:"data" yaml:"data"`
}

// Label returns the node name, or the short ID for anonymous nodes.
func (n *Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// NodeData is the interface for kind-specific node payloads.
type NodeData interface {
	nodeData() // marker method restricting implementations to this package
}
