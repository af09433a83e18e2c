package scene

import "github.com/google/uuid"

// NodeID is a content-addressed node identifier: a name-based (SHA-1) UUID
// derived from the node's path within the program, e.g. "segment/diag".
type NodeID uuid.UUID

// ZeroID is the zero NodeID. It never identifies a real node.
var ZeroID NodeID

// namespace scopes scene NodeIDs so they cannot collide with other
// name-based UUIDs built from the same path.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/chazu/geomkit/scene"))

// NewNodeID returns the NodeID for path. Equal paths yield equal IDs.
func NewNodeID(path string) NodeID {
	return NodeID(uuid.NewSHA1(namespace, []byte(path)))
}

// IsZero reports whether id is the zero NodeID.
func (id NodeID) IsZero() bool {
	return id == ZeroID
}

func (id NodeID) String() string {
	return uuid.UUID(id).String()
}

// Short returns the first eight hex digits, for messages.
func (id NodeID) Short() string {
	return id.String()[:8]
}

func (id NodeID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *NodeID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
