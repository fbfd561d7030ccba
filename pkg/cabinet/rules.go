package cabinet

import (
	"fmt"
	"math"

	"github.com/chazu/carcass/pkg/geom"
)

// Rule maps a resolved envelope to the ordered parts of one construction
// style. Rules are pure: they read nothing but env and keep no state.
type Rule func(env Envelope) []PartGeometry

// rules is the style registry. Every Style has exactly one entry.
var rules = map[Style]Rule{
	Base:       baseRule,
	Wall:       wallRule,
	Tall:       tallRule,
	DrawerBase: drawerBaseRule,
}

// RuleFor returns the rule for s, or nil for a style outside the registry.
func RuleFor(s Style) Rule {
	return rules[s]
}

// ---------------------------------------------------------------------------
// Style rules
// ---------------------------------------------------------------------------

// baseRule: sides on the toe kick, bottom, back, one mid-height shelf, toe
// kick and a top nailer in place of a top panel.
func baseRule(env Envelope) []PartGeometry {
	c := newCarcass(env)
	parts := c.sides()
	parts = append(parts, c.bottom(), c.back())
	parts = append(parts, c.shelves(env.ShelfCount, c.bottomTop(), c.h)...)
	parts = append(parts, c.toeKick(), c.nailer())
	return parts
}

// wallRule: full-depth sides from y=0, top, bottom, back and two shelves
// dividing the interior in thirds.
func wallRule(env Envelope) []PartGeometry {
	c := newCarcass(env)
	parts := c.sides()
	parts = append(parts, c.top(), c.bottom(), c.back())
	parts = append(parts, c.shelves(env.ShelfCount, c.bottomTop(), c.topUnderside())...)
	return parts
}

// tallRule: like a base cabinet with a top panel and N shelves spread
// evenly from the top of the toe kick to the underside of the top.
func tallRule(env Envelope) []PartGeometry {
	c := newCarcass(env)
	parts := c.sides()
	parts = append(parts, c.top(), c.bottom(), c.back())
	parts = append(parts, c.shelves(env.ShelfCount, c.base, c.topUnderside())...)
	parts = append(parts, c.toeKick())
	return parts
}

// drawerBaseRule: base carcass without a nailer, faced with a stack of
// drawer fronts.
func drawerBaseRule(env Envelope) []PartGeometry {
	c := newCarcass(env)
	parts := c.sides()
	parts = append(parts, c.bottom(), c.back())
	parts = append(parts, c.shelves(env.ShelfCount, c.bottomTop(), c.h)...)
	parts = append(parts, c.toeKick())
	parts = append(parts, c.drawerFronts(env.DrawerCount)...)
	return parts
}

// ---------------------------------------------------------------------------
// Shared part builders
// ---------------------------------------------------------------------------

// carcass holds the derived measurements the part builders share.
type carcass struct {
	env     Envelope
	w, h, d float64 // overall envelope
	base    float64 // toe kick height, 0 without a toe kick
	boxH    float64 // box height above the toe kick
	iw      float64 // interior width
}

func newCarcass(env Envelope) carcass {
	return carcass{
		env:  env,
		w:    env.Size.Width,
		h:    env.Size.Height,
		d:    env.Size.Depth,
		base: env.Base(),
		boxH: env.BoxHeight(),
		iw:   env.InteriorWidth(),
	}
}

const pt = PanelThickness

func (c carcass) part(name string, kind PartKind, size geom.Dimensions3D, pos geom.Position3D) PartGeometry {
	return newPart(name, kind, size, pos, c.env.Materials)
}

// bottomTop is the upper face of the bottom panel.
func (c carcass) bottomTop() float64 {
	return c.base + pt
}

// topUnderside is the lower face of the top panel.
func (c carcass) topUnderside() float64 {
	return c.h - pt
}

// panelDepth is the depth of the top and bottom, which stop at the back.
func (c carcass) panelDepth() float64 {
	return c.d - BackThickness
}

func (c carcass) sides() []PartGeometry {
	depth := c.d
	if c.env.Style.InsetBack() {
		depth -= RabbetAllowance
	}
	size := geom.Dims(pt, c.boxH, depth)
	return []PartGeometry{
		c.part("Left Side", KindSide, size, geom.Pos(0, c.base, 0)),
		c.part("Right Side", KindSide, size, geom.Pos(c.w-pt, c.base, 0)),
	}
}

func (c carcass) top() PartGeometry {
	return c.part("Top", KindTop, geom.Dims(c.iw, pt, c.panelDepth()), geom.Pos(pt, c.h-pt, 0))
}

func (c carcass) bottom() PartGeometry {
	return c.part("Bottom", KindBottom, geom.Dims(c.iw, pt, c.panelDepth()), geom.Pos(pt, c.base, 0))
}

// back is seated in the rabbet above the bottom and flush with the rear.
func (c carcass) back() PartGeometry {
	return c.part("Back", KindBack,
		geom.Dims(c.iw, c.boxH-pt, BackThickness),
		geom.Pos(pt, c.base+pt, c.d-BackThickness))
}

// shelves centers n shelves on the n+1 equal divisions of [lo, hi],
// numbered from the bottom up.
func (c carcass) shelves(n int, lo, hi float64) []PartGeometry {
	if n <= 0 {
		return nil
	}
	spacing := (hi - lo) / float64(n+1)
	size := geom.Dims(c.iw-2*ShelfSideInset, pt, c.panelDepth()-ShelfFrontSetback)
	parts := make([]PartGeometry, 0, n)
	for i := 1; i <= n; i++ {
		y := lo + float64(i)*spacing - pt/2
		parts = append(parts, c.part(fmt.Sprintf("Shelf %d", i), KindShelf, size,
			geom.Pos(pt+ShelfSideInset, y, ShelfFrontSetback)))
	}
	return parts
}

// toeKick is the recessed kick envelope under the box: it spans the
// interior width at the front and carries both kick dimensions.
func (c carcass) toeKick() PartGeometry {
	tk := c.env.ToeKick
	return c.part("Toe Kick", KindToeKick, geom.Dims(c.iw, tk.Height, tk.Depth), geom.Pos(pt, 0, 0))
}

// nailer is the rear top strip a base cabinet is screwed to the wall
// through. It sits directly in front of the back panel.
func (c carcass) nailer() PartGeometry {
	height := math.Min(NailerHeight, c.boxH-pt)
	return c.part("Top Nailer", KindNailer,
		geom.Dims(c.iw, height, pt),
		geom.Pos(pt, c.h-height, c.d-BackThickness-pt))
}

// drawerFronts stacks n fronts top-down across the interior width.
func (c carcass) drawerFronts(n int) []PartGeometry {
	height, gap, ok := drawerLayout(c.boxH, n)
	if !ok {
		return nil
	}
	parts := make([]PartGeometry, 0, n)
	for i := 1; i <= n; i++ {
		y := c.h - float64(i)*(height+gap)
		parts = append(parts, c.part(fmt.Sprintf("Drawer Front %d", i), KindDrawerFront,
			geom.Dims(c.iw, height, pt), geom.Pos(pt, y, 0)))
	}
	return parts
}

// drawerLayout sizes n drawer fronts in a box of height boxH. Fronts start
// at the nominal reveal; when the minimum front height makes the stack too
// tall the reveals shrink evenly down to MinDrawerGap, and past that the
// fronts shrink. ok is false when nothing fits.
func drawerLayout(boxH float64, n int) (height, gap float64, ok bool) {
	if n <= 0 {
		return 0, 0, false
	}
	fn := float64(n)
	gap = DrawerGap
	height = math.Max((boxH-(fn+1)*gap)/fn, MinDrawerFront)

	if fn*(height+gap)+gap > boxH {
		gap = math.Max(MinDrawerGap, (boxH-fn*height)/(fn+1))
		if fn*(height+gap)+gap > boxH {
			height = (boxH - (fn+1)*gap) / fn
		}
	}
	return height, gap, height > 0
}
