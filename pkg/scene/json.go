package scene

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/style"
)

// jsonNode is the nested wire form of a node with its derived world
// coordinates inlined.
type jsonNode struct {
	Name          string             `json:"name"`
	Label         string             `json:"label"`
	Kind          string             `json:"kind,omitempty"`
	Material      string             `json:"material,omitempty"`
	Position      geom.Position3D    `json:"position"`
	Size          geom.Dimensions3D  `json:"size"`
	WorldPosition geom.Vector3D      `json:"worldPosition"`
	Bounds        geom.Box3D         `json:"bounds"`
	Style         style.Presentation `json:"style"`
	Children      []jsonNode         `json:"children,omitempty"`
}

type jsonScene struct {
	ID     uuid.UUID  `json:"id"`
	Bounds geom.Box3D `json:"bounds"`
	Root   jsonNode   `json:"root"`
}

// MarshalJSON encodes the tree from the root down.
func (s *Scene) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonScene{
		ID:     s.ID,
		Bounds: s.Bounds(),
		Root:   s.encode(s.root),
	})
}

func (s *Scene) encode(id NodeID) jsonNode {
	n := s.nodes[id]
	out := jsonNode{
		Name:          n.Name,
		Label:         n.Label,
		Kind:          n.Kind,
		Material:      n.Material,
		Position:      n.Position,
		Size:          n.Size,
		WorldPosition: s.WorldPosition(id),
		Bounds:        s.SubtreeBounds(id),
		Style:         n.Style,
	}
	for _, c := range n.children {
		out.Children = append(out.Children, s.encode(c))
	}
	return out
}
