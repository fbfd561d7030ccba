package cabinet

import (
	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/units"
)

// Construction constants, in inches.
const (
	PanelThickness    = 0.75  // sides, top, bottom, toe kick, nailer, shelves
	BackThickness     = 0.25  // back panel
	RabbetAllowance   = 0.75  // side depth given up to seat an inset back
	ShelfSideInset    = 0.125 // clearance between a shelf and each side
	ShelfFrontSetback = 0.5   // shelf front edge behind the case front
	MaxShelfSetback   = 1.0   // upper end of the allowed setback range
	NailerHeight      = 3.5   // rear top strip on base cabinets
	DrawerGap         = 0.125 // nominal reveal between drawer fronts
	MinDrawerGap      = 0.0625
	MinDrawerFront    = 3.0 // shortest nominal drawer front

	DefaultToeKickHeight = 4.5
	DefaultToeKickDepth  = 3.0
)

// Defaults in the stored unit, as they appear on an unfilled spec.
const (
	DefaultToeKickHeightMM = 114.3
	DefaultToeKickDepthMM  = 76.2
	DefaultTallShelfCount  = 4
	DefaultDrawerCount     = 3
)

// PartKind tags what a part is for. Consumers such as cut-list generators
// group by kind.
type PartKind string

const (
	KindSide        PartKind = "side"
	KindTop         PartKind = "top"
	KindBottom      PartKind = "bottom"
	KindBack        PartKind = "back"
	KindShelf       PartKind = "shelf"
	KindToeKick     PartKind = "toe-kick"
	KindNailer      PartKind = "nailer"
	KindDrawerFront PartKind = "drawer-front"
)

// PartGeometry is one dimensioned, positioned structural part. Position is
// relative to the cabinet's local origin. Values are produced by a Rule and
// never modified afterwards.
type PartGeometry struct {
	Name     string            `json:"name"`
	Kind     PartKind          `json:"kind"`
	Size     geom.Dimensions3D `json:"size"`
	Position geom.Position3D   `json:"position"`
	Material string            `json:"material,omitempty"`
}

// Box returns the part's box in cabinet-local coordinates.
func (p PartGeometry) Box() geom.Box3D {
	return geom.NewBox(p.Position.Vector(), p.Size)
}

// newPart builds a finished part with every length quantized to the
// working resolution.
func newPart(name string, kind PartKind, size geom.Dimensions3D, pos geom.Position3D, mats Materials) PartGeometry {
	q := units.Quantize
	return PartGeometry{
		Name:     name,
		Kind:     kind,
		Size:     geom.Dims(q(size.Width), q(size.Height), q(size.Depth)),
		Position: geom.Pos(q(pos.X), q(pos.Y), q(pos.Z)),
		Material: mats.For(kind),
	}
}
