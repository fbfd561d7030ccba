package scene

import (
	"fmt"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/style"
)

// RootName is the name of every cabinet scene's root node.
const RootName = "cabinet-root"

// RootKind tags the root node.
const RootKind = "cabinet"

// BuildCabinet wraps a layout in a scene: a root labelled with the
// cabinet's name at the origin, with zero size, and one child per part in
// rule order. Every node gets preset, or style.Default when preset is
// empty.
func BuildCabinet(l *cabinet.Layout, preset style.Presentation) (*Scene, error) {
	if l == nil {
		return nil, fmt.Errorf("scene: nil layout")
	}
	if preset.IsZero() {
		preset = style.Default
	}

	b := NewBuilder()
	root, err := b.AddRoot(Node{
		Name:  RootName,
		Label: l.Envelope.Name,
		Kind:  RootKind,
		Style: preset,
	})
	if err != nil {
		return nil, err
	}
	for _, p := range l.Parts {
		if _, err := b.Attach(root, Node{
			Name:     p.Name,
			Label:    p.Name,
			Kind:     string(p.Kind),
			Material: p.Material,
			Position: p.Position,
			Size:     p.Size,
			Style:    preset,
		}); err != nil {
			return nil, fmt.Errorf("scene: attach part %q: %w", p.Name, err)
		}
	}
	return b.Build()
}
