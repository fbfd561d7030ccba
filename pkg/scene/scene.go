package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/style"
)

// NodeID indexes a node in its scene's arena. IDs are only meaningful
// within the scene that issued them.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Valid reports whether id can refer to a node at all.
func (id NodeID) Valid() bool {
	return id >= 0
}

// Node is one element of the spatial tree. Position is relative to the
// parent's local origin. The parent link is set once when the node is
// attached and is used only to compute world coordinates.
type Node struct {
	Name     string             `json:"name"`
	Label    string             `json:"label"`
	Kind     string             `json:"kind,omitempty"`
	Material string             `json:"material,omitempty"`
	Position geom.Position3D    `json:"position"`
	Size     geom.Dimensions3D  `json:"size"`
	Style    style.Presentation `json:"style"`

	parent   NodeID
	children []NodeID
}

// Parent returns the node's parent, or NoNode for the root.
func (n Node) Parent() NodeID {
	return n.parent
}

// Children returns the node's children in attachment order.
func (n Node) Children() []NodeID {
	return slices.Clone(n.children)
}

// IsRoot reports whether the node has no parent.
func (n Node) IsRoot() bool {
	return n.parent == NoNode
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

var (
	ErrRootExists = errors.New("scene: root already added")
	ErrNoRoot     = errors.New("scene: no root")
	ErrBuilt      = errors.New("scene: builder already consumed")
)

// Builder assembles a scene. Nodes are copied into the arena on
// attachment, so the same Node value can never end up in two places of
// one tree or in two trees. A Builder is consumed by Build.
type Builder struct {
	nodes []Node
	root  NodeID
	built bool
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{root: NoNode}
}

// AddRoot adds the root node. A scene has exactly one.
func (b *Builder) AddRoot(n Node) (NodeID, error) {
	if b.built {
		return NoNode, ErrBuilt
	}
	if b.root != NoNode {
		return NoNode, ErrRootExists
	}
	b.root = b.add(n, NoNode)
	return b.root, nil
}

// Attach adds n as the last child of parent.
func (b *Builder) Attach(parent NodeID, n Node) (NodeID, error) {
	if b.built {
		return NoNode, ErrBuilt
	}
	if !parent.Valid() || int(parent) >= len(b.nodes) {
		return NoNode, fmt.Errorf("scene: attach %q: parent %d does not exist", n.Name, parent)
	}
	id := b.add(n, parent)
	b.nodes[parent].children = append(b.nodes[parent].children, id)
	return id, nil
}

func (b *Builder) add(n Node, parent NodeID) NodeID {
	n.parent = parent
	n.children = nil
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1)
}

// Build finishes the scene and assigns it a fresh ID.
func (b *Builder) Build() (*Scene, error) {
	if b.built {
		return nil, ErrBuilt
	}
	if b.root == NoNode {
		return nil, ErrNoRoot
	}
	b.built = true
	s := &Scene{ID: uuid.New(), nodes: b.nodes, root: b.root}
	b.nodes = nil
	return s, nil
}

// ---------------------------------------------------------------------------
// Scene
// ---------------------------------------------------------------------------

// Scene is a finished, read-only spatial tree. It is safe for concurrent
// readers. World positions and bounds are computed on demand.
type Scene struct {
	ID uuid.UUID

	nodes []Node
	root  NodeID
}

// Root returns the root node's ID.
func (s *Scene) Root() NodeID {
	return s.root
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.nodes)
}

// Node returns the node with the given ID.
func (s *Scene) Node(id NodeID) (Node, bool) {
	if !s.has(id) {
		return Node{}, false
	}
	return s.nodes[id], true
}

// MustNode returns the node with the given ID, or panics.
func (s *Scene) MustNode(id NodeID) Node {
	n, ok := s.Node(id)
	if !ok {
		panic(fmt.Sprintf("scene: no node %d", id))
	}
	return n
}

func (s *Scene) has(id NodeID) bool {
	return id.Valid() && int(id) < len(s.nodes)
}

// Children returns the children of id in attachment order.
func (s *Scene) Children(id NodeID) []NodeID {
	if !s.has(id) {
		return nil
	}
	return slices.Clone(s.nodes[id].children)
}

// Parent returns the parent of id, or NoNode.
func (s *Scene) Parent(id NodeID) NodeID {
	if !s.has(id) {
		return NoNode
	}
	return s.nodes[id].parent
}

// WorldPosition is the sum of local positions from id up to the root.
func (s *Scene) WorldPosition(id NodeID) geom.Vector3D {
	var p geom.Vector3D
	for depth := 0; s.has(id) && depth <= len(s.nodes); depth++ {
		p = p.Add(s.nodes[id].Position.Vector())
		id = s.nodes[id].parent
	}
	return p
}

// LocalBox is the node's box in its parent's coordinates.
func (s *Scene) LocalBox(id NodeID) geom.Box3D {
	if !s.has(id) {
		return geom.Box3D{}
	}
	n := s.nodes[id]
	return geom.NewBox(n.Position.Vector(), n.Size)
}

// WorldBox is the node's own box in world coordinates.
func (s *Scene) WorldBox(id NodeID) geom.Box3D {
	if !s.has(id) {
		return geom.Box3D{}
	}
	return geom.NewBox(s.WorldPosition(id), s.nodes[id].Size)
}

// SubtreeBounds is the union of the world boxes of id and every
// descendant, gathered depth-first.
func (s *Scene) SubtreeBounds(id NodeID) geom.Box3D {
	var acc geom.Box3D
	first := true
	s.walkFrom(id, 0, func(id NodeID, _ int) bool {
		b := s.WorldBox(id)
		if first {
			acc, first = b, false
		} else {
			acc = acc.Union(b)
		}
		return true
	})
	return acc
}

// Bounds is the world-space bounding box of the whole scene.
func (s *Scene) Bounds() geom.Box3D {
	return s.SubtreeBounds(s.root)
}

// Walk visits every node in pre-order, children in attachment order.
// Returning false from fn skips that node's subtree.
func (s *Scene) Walk(fn func(id NodeID, depth int) bool) {
	s.walkFrom(s.root, 0, fn)
}

func (s *Scene) walkFrom(id NodeID, depth int, fn func(NodeID, int) bool) {
	if !s.has(id) || depth > len(s.nodes) {
		return
	}
	if !fn(id, depth) {
		return
	}
	for _, c := range s.nodes[id].children {
		s.walkFrom(c, depth+1, fn)
	}
}

// Find returns the first node, in pre-order, with the given name.
func (s *Scene) Find(name string) (NodeID, bool) {
	found := NoNode
	s.Walk(func(id NodeID, _ int) bool {
		if found != NoNode {
			return false
		}
		if s.nodes[id].Name == name {
			found = id
			return false
		}
		return true
	})
	return found, found != NoNode
}

// FindKind returns every node of the given kind, in pre-order.
func (s *Scene) FindKind(kind string) []NodeID {
	var out []NodeID
	s.Walk(func(id NodeID, _ int) bool {
		if s.nodes[id].Kind == kind {
			out = append(out, id)
		}
		return true
	})
	return out
}

// Parts returns every leaf below the root, in pre-order.
func (s *Scene) Parts() []NodeID {
	var out []NodeID
	s.Walk(func(id NodeID, _ int) bool {
		if id != s.root && len(s.nodes[id].children) == 0 {
			out = append(out, id)
		}
		return true
	})
	return out
}
