package cabinet

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func baseSpec() Spec {
	return Spec{Name: "Sink Base", Style: "BASE", WidthMM: 610, HeightMM: 876, DepthMM: 610}
}

func mustCalculate(t *testing.T, spec Spec) *Layout {
	t.Helper()
	l, err := Calculate(spec)
	require.NoError(t, err)
	require.NotNil(t, l)
	return l
}

func partNames(parts []PartGeometry) []string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.Name
	}
	return names
}

func validationErrors(t *testing.T, err error) ValidationErrors {
	t.Helper()
	require.Error(t, err)
	var ve ValidationErrors
	require.True(t, errors.As(err, &ve), "want ValidationErrors, got %T: %v", err, err)
	return ve
}

// ---------------------------------------------------------------------------
// Style selection
// ---------------------------------------------------------------------------

func TestParseStyle(t *testing.T) {
	cases := []struct {
		in   string
		want Style
		ok   bool
	}{
		{"BASE", Base, true},
		{"wall", Wall, true},
		{"Tall", Tall, true},
		{"drawer-base", DrawerBase, true},
		{"drawer base", DrawerBase, true},
		{"DRAWER_BASE", DrawerBase, true},
		{"shaker", Base, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := ParseStyle(tc.in)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEveryStyleHasRule(t *testing.T) {
	for _, s := range Styles() {
		assert.NotNil(t, RuleFor(s), "style %s", s)
	}
}

func TestStyleFallback(t *testing.T) {
	spec := baseSpec()

	spec.Style = ""
	res, err := Resolve(spec)
	require.NoError(t, err)
	assert.Equal(t, Base, res.Envelope.Style)
	assert.Equal(t, FallbackMissing, res.Fallback)
	assert.True(t, res.FellBack())

	spec.Style = "shaker"
	res, err = Resolve(spec)
	require.NoError(t, err)
	assert.Equal(t, Base, res.Envelope.Style)
	assert.Equal(t, FallbackUnrecognized, res.Fallback)
	assert.Equal(t, "shaker", res.RequestedStyle)

	spec.Style = "wall"
	res, err = Resolve(spec)
	require.NoError(t, err)
	assert.False(t, res.FellBack())
}

func TestMissingStyleMatchesBase(t *testing.T) {
	explicit := mustCalculate(t, baseSpec())

	spec := baseSpec()
	spec.Style = ""
	defaulted := mustCalculate(t, spec)

	assert.Equal(t, explicit.Parts, defaulted.Parts)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestResolveRejectsBadSpecs(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(*Spec)
		field string
	}{
		{"zero width", func(s *Spec) { s.WidthMM = 0 }, "width_mm"},
		{"negative depth", func(s *Spec) { s.DepthMM = -10 }, "depth_mm"},
		{"NaN height", func(s *Spec) { s.HeightMM = math.NaN() }, "height_mm"},
		{"infinite width", func(s *Spec) { s.WidthMM = math.Inf(1) }, "width_mm"},
		{"negative toe kick", func(s *Spec) { s.ToeKickHeightMM = Ptr(-1.0) }, "toe_kick_height_mm"},
		{"toe kick taller than cabinet", func(s *Spec) { s.ToeKickHeightMM = Ptr(876.0) }, "toe_kick_height_mm"},
		{"toe kick deeper than cabinet", func(s *Spec) { s.ToeKickDepthMM = Ptr(700.0) }, "toe_kick_depth_mm"},
		{"default toe kick on short cabinet", func(s *Spec) { s.HeightMM = 100 }, "toe_kick_height_mm"},
		{"too many shelves", func(s *Spec) { s.ShelfCount = Ptr(25) }, "shelf_count"},
		{"zero drawers", func(s *Spec) { s.DrawerCount = Ptr(0) }, "drawer_count"},
		{"too narrow", func(s *Spec) { s.WidthMM = 40 }, "width_mm"},
		{"too shallow", func(s *Spec) { s.Style, s.DepthMM = "WALL", 30 }, "depth_mm"},
		{"box too short", func(s *Spec) { s.HeightMM = 150 }, "height_mm"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := baseSpec()
			tc.edit(&spec)
			_, err := Calculate(spec)
			ve := validationErrors(t, err)
			assert.True(t, ve.Has(tc.field), "want finding on %s, got %v", tc.field, ve)
		})
	}
}

func TestWallIgnoresDefaultToeKick(t *testing.T) {
	spec := Spec{Name: "Short Wall", Style: "WALL", WidthMM: 300, HeightMM: 100, DepthMM: 300}
	_, err := Calculate(spec)
	require.NoError(t, err)

	spec.ToeKickHeightMM = Ptr(120.0)
	ve := validationErrors(t, func() error { _, err := Calculate(spec); return err }())
	assert.True(t, ve.Has("toe_kick_height_mm"))
}

func TestTallShelvesMustFit(t *testing.T) {
	spec := Spec{Name: "Stub", Style: "TALL", WidthMM: 610, HeightMM: 508, DepthMM: 610, ShelfCount: Ptr(24)}
	ve := validationErrors(t, func() error { _, err := Calculate(spec); return err }())
	assert.True(t, ve.Has("shelf_count"))

	spec.ShelfCount = Ptr(0)
	l := mustCalculate(t, spec)
	assert.Empty(t, l.OfKind(KindShelf))
}

func TestTallShelvesClearBottomPanel(t *testing.T) {
	// 30.25 in tall leaves 25 in between the toe kick and the top.
	spec := Spec{Name: "Pantry", Style: "TALL", WidthMM: 610, HeightMM: 768.35, DepthMM: 610, ShelfCount: Ptr(24)}
	ve := validationErrors(t, func() error { _, err := Calculate(spec); return err }())
	assert.True(t, ve.Has("shelf_count"))

	for _, n := range []int{16, 21} {
		spec.ShelfCount = Ptr(n)
		l := mustCalculate(t, spec)
		require.Len(t, l.OfKind(KindShelf), n)
		bottom, ok := l.Find("Bottom")
		require.True(t, ok)
		first, ok := l.Find("Shelf 1")
		require.True(t, ok)
		assert.GreaterOrEqual(t, first.Position.Y, bottom.Position.Y+bottom.Size.Height-0.001, "shelves=%d", n)
	}
}

func TestValidationErrorText(t *testing.T) {
	ve := ValidationErrors{
		{Field: "width_mm", Message: "must be greater than 0, got 0"},
		{Message: "empty"},
	}
	assert.Equal(t, "cabinet: width_mm: must be greater than 0, got 0; cabinet: empty", ve.Error())
	assert.False(t, ve.Has("depth_mm"))
}

// ---------------------------------------------------------------------------
// Construction rules
// ---------------------------------------------------------------------------

func TestScenarioBase(t *testing.T) {
	l := mustCalculate(t, baseSpec())
	env := l.Envelope

	assert.InDelta(t, 24.016, env.Size.Width, 1e-9)
	assert.InDelta(t, 34.488, env.Size.Height, 1e-9)
	assert.InDelta(t, 24.016, env.Size.Depth, 1e-9)
	assert.InDelta(t, 4.5, env.ToeKick.Height, 1e-9)
	assert.InDelta(t, 3.0, env.ToeKick.Depth, 1e-9)

	assert.Equal(t,
		[]string{"Left Side", "Right Side", "Bottom", "Back", "Shelf 1", "Toe Kick", "Top Nailer"},
		partNames(l.Parts))

	left, _ := l.Find("Left Side")
	assert.InDelta(t, 0, left.Position.X, 1e-9)
	assert.InDelta(t, 4.5, left.Position.Y, 1e-9)
	assert.InDelta(t, 0.75, left.Size.Width, 1e-9)
	assert.InDelta(t, 29.988, left.Size.Height, 1e-9)
	assert.InDelta(t, 23.266, left.Size.Depth, 1e-9)

	right, _ := l.Find("Right Side")
	assert.InDelta(t, 23.266, right.Position.X, 1e-9)

	bottom, _ := l.Find("Bottom")
	assert.InDelta(t, 22.516, bottom.Size.Width, 1e-9)
	assert.InDelta(t, 23.766, bottom.Size.Depth, 1e-9)
	assert.InDelta(t, 4.5, bottom.Position.Y, 1e-9)

	back, _ := l.Find("Back")
	assert.InDelta(t, 0.25, back.Size.Depth, 1e-9)
	assert.InDelta(t, 29.238, back.Size.Height, 1e-9)
	assert.InDelta(t, 5.25, back.Position.Y, 1e-9)
	assert.InDelta(t, 23.766, back.Position.Z, 1e-9)

	shelf, _ := l.Find("Shelf 1")
	assert.InDelta(t, 22.266, shelf.Size.Width, 1e-9)
	assert.InDelta(t, 0.875, shelf.Position.X, 1e-9)
	assert.InDelta(t, 0.5, shelf.Position.Z, 1e-9)
	assert.InDelta(t, 23.266, shelf.Size.Depth, 1e-9)
	assert.InDelta(t, 19.494, shelf.Position.Y, 1e-9)

	nailer, _ := l.Find("Top Nailer")
	assert.InDelta(t, 3.5, nailer.Size.Height, 1e-9)
	assert.InDelta(t, 30.988, nailer.Position.Y, 1e-9)
	assert.InDelta(t, 23.016, nailer.Position.Z, 1e-9)

	assert.Len(t, l.OfKind(KindToeKick), 1)
	assert.Empty(t, l.OfKind(KindTop))
}

func TestScenarioWall(t *testing.T) {
	l := mustCalculate(t, Spec{Name: "Upper", Style: "WALL", WidthMM: 762, HeightMM: 762, DepthMM: 305})
	env := l.Envelope

	assert.InDelta(t, 30.0, env.Size.Width, 1e-9)
	assert.InDelta(t, 12.008, env.Size.Depth, 1e-9)
	assert.Zero(t, env.ToeKick)

	assert.Equal(t,
		[]string{"Left Side", "Right Side", "Top", "Bottom", "Back", "Shelf 1", "Shelf 2"},
		partNames(l.Parts))
	assert.Empty(t, l.OfKind(KindToeKick))
	assert.Empty(t, l.OfKind(KindNailer))

	for _, side := range l.OfKind(KindSide) {
		assert.InDelta(t, 0, side.Position.Y, 0.01)
		assert.InDelta(t, 12.008, side.Size.Depth, 1e-9, "wall sides run full depth")
	}

	top, _ := l.Find("Top")
	assert.InDelta(t, 29.25, top.Position.Y, 1e-9)

	shelves := l.OfKind(KindShelf)
	require.Len(t, shelves, 2)
	assert.InDelta(t, 9.875, shelves[0].Position.Y, 1e-9)
	assert.InDelta(t, 19.375, shelves[1].Position.Y, 1e-9)
}

func TestScenarioTall(t *testing.T) {
	l := mustCalculate(t, Spec{Name: "Pantry", Style: "TALL", WidthMM: 610, HeightMM: 2134, DepthMM: 610})
	env := l.Envelope

	assert.InDelta(t, 84.016, env.Size.Height, 1e-9)
	assert.Len(t, l.OfKind(KindToeKick), 1)
	assert.Len(t, l.OfKind(KindTop), 1)

	shelves := l.OfKind(KindShelf)
	require.Len(t, shelves, DefaultTallShelfCount)

	spacing := (env.Size.Height - PanelThickness - env.ToeKick.Height) / float64(len(shelves)+1)
	for i, s := range shelves {
		center := s.Position.Y + PanelThickness/2
		assert.InDelta(t, env.ToeKick.Height+float64(i+1)*spacing, center, 0.002, "shelf %d", i+1)
		if i > 0 {
			assert.InDelta(t, spacing, s.Position.Y-shelves[i-1].Position.Y, 0.002)
		}
	}
}

func TestTallCustomShelfCount(t *testing.T) {
	l := mustCalculate(t, Spec{Name: "Pantry", Style: "TALL", WidthMM: 610, HeightMM: 2134, DepthMM: 610, ShelfCount: Ptr(6)})
	assert.Len(t, l.OfKind(KindShelf), 6)
}

func TestDrawerBase(t *testing.T) {
	spec := baseSpec()
	spec.Style = "DRAWER_BASE"
	l := mustCalculate(t, spec)

	assert.Empty(t, l.OfKind(KindNailer))
	fronts := l.OfKind(KindDrawerFront)
	require.Len(t, fronts, DefaultDrawerCount)
	assert.Equal(t, "Drawer Front 1", fronts[0].Name)

	// Numbered top-down.
	assert.InDelta(t, 24.534, fronts[0].Position.Y, 1e-9)
	assert.InDelta(t, 14.579, fronts[1].Position.Y, 1e-9)
	assert.InDelta(t, 4.625, fronts[2].Position.Y, 1e-9)
	for _, f := range fronts {
		assert.InDelta(t, 9.829, f.Size.Height, 1e-9)
		assert.InDelta(t, 22.516, f.Size.Width, 1e-9)
		assert.InDelta(t, PanelThickness, f.Position.X, 1e-9)
		assert.GreaterOrEqual(t, f.Position.Y, l.Envelope.Base())
	}
}

func TestDrawerBaseCompressesGaps(t *testing.T) {
	// 32.5 in over the default 4.5 in toe kick leaves a 28 in box: nine
	// 3 in fronts only fit with 0.1 in reveals.
	spec := Spec{Name: "Tool Chest", Style: "DRAWER_BASE", WidthMM: 610, HeightMM: 825.5, DepthMM: 610, DrawerCount: Ptr(9)}
	l := mustCalculate(t, spec)

	fronts := l.OfKind(KindDrawerFront)
	require.Len(t, fronts, 9)
	for i, f := range fronts {
		assert.InDelta(t, MinDrawerFront, f.Size.Height, 0.001, f.Name)
		if i == 0 {
			continue
		}
		reveal := fronts[i-1].Position.Y - (f.Position.Y + f.Size.Height)
		assert.InDelta(t, 0.1, reveal, 0.002, f.Name)
		assert.GreaterOrEqual(t, reveal, MinDrawerGap, f.Name)
	}
	last := fronts[len(fronts)-1]
	assert.InDelta(t, l.Envelope.Base()+0.1, last.Position.Y, 0.002)
	assert.InDelta(t, l.Envelope.Size.Height-0.1, fronts[0].Position.Y+fronts[0].Size.Height, 0.002)
}

func TestDrawerLayout(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		h, gap, ok := drawerLayout(29.988, 3)
		require.True(t, ok)
		assert.InDelta(t, DrawerGap, gap, 1e-9)
		assert.InDelta(t, (29.988-4*DrawerGap)/3, h, 1e-9)
	})
	t.Run("gaps compress", func(t *testing.T) {
		h, gap, ok := drawerLayout(28, 9)
		require.True(t, ok)
		assert.InDelta(t, MinDrawerFront, h, 1e-9)
		assert.InDelta(t, 0.1, gap, 1e-9)
	})
	t.Run("fronts shrink at minimum gap", func(t *testing.T) {
		h, gap, ok := drawerLayout(30, 12)
		require.True(t, ok)
		assert.InDelta(t, MinDrawerGap, gap, 1e-9)
		assert.InDelta(t, (30-13*MinDrawerGap)/12, h, 1e-9)
		assert.InDelta(t, 30, 12*(h+gap)+gap, 1e-9)
	})
	t.Run("nothing fits", func(t *testing.T) {
		_, _, ok := drawerLayout(0.5, 12)
		assert.False(t, ok)
	})
}

func TestCustomToeKick(t *testing.T) {
	spec := baseSpec()
	spec.ToeKickHeightMM = Ptr(101.6)
	spec.ToeKickDepthMM = Ptr(50.8)
	l := mustCalculate(t, spec)

	tk, ok := l.Find("Toe Kick")
	require.True(t, ok)
	assert.InDelta(t, 4.0, tk.Size.Height, 0.1)
	assert.InDelta(t, 2.0, tk.Size.Depth, 0.1)

	for _, side := range l.OfKind(KindSide) {
		assert.InDelta(t, 4.0, side.Position.Y, 0.1)
	}
}

func TestMaterials(t *testing.T) {
	spec := baseSpec()
	spec.Materials = Materials{Case: "maple-ply", Back: "hardboard"}
	l := mustCalculate(t, spec)

	for _, p := range l.Parts {
		want := "maple-ply"
		if p.Kind == KindBack {
			want = "hardboard"
		}
		assert.Equal(t, want, p.Material, p.Name)
	}
}

func TestPartsStayInsideEnvelope(t *testing.T) {
	specs := []Spec{
		baseSpec(),
		{Name: "w", Style: "WALL", WidthMM: 381, HeightMM: 305, DepthMM: 305},
		{Name: "t", Style: "TALL", WidthMM: 457, HeightMM: 2400, DepthMM: 600, ShelfCount: Ptr(12)},
		{Name: "d", Style: "DRAWER_BASE", WidthMM: 300, HeightMM: 500, DepthMM: 500, DrawerCount: Ptr(12)},
	}
	for _, spec := range specs {
		t.Run(spec.Style, func(t *testing.T) {
			l := mustCalculate(t, spec)
			box := l.Envelope.Box()
			for _, p := range l.Parts {
				assert.True(t, p.Position.NonNegative(), p.Name)
				assert.True(t, p.Size.HasGeometry(), p.Name)
				assert.True(t, box.Contains(p.Box(), 0.001), "%s: %s not in %s", p.Name, p.Box(), box)
			}
		})
	}
}

func TestCheckPartsRejectsBrokenRules(t *testing.T) {
	res, err := Resolve(baseSpec())
	require.NoError(t, err)
	env := res.Envelope
	parts := baseRule(env)

	dup := append(append([]PartGeometry(nil), parts...), parts[0])
	assert.ErrorContains(t, checkParts(env, dup), "duplicate part")

	outside := append([]PartGeometry(nil), parts...)
	outside[0].Position.X = env.Size.Width
	assert.ErrorContains(t, checkParts(env, outside), "outside envelope")

	below := append([]PartGeometry(nil), parts...)
	below[2].Position.Y = -0.5
	err = checkParts(env, below)
	require.Error(t, err)
	assert.ErrorContains(t, err, "negative position (0.750, -0.500, 0.000)")
	assert.NotContains(t, err.Error(), "%!")

	flat := append([]PartGeometry(nil), parts...)
	flat[1].Size.Width, flat[1].Size.Height, flat[1].Size.Depth = 0, 0, 0
	assert.ErrorContains(t, checkParts(env, flat), "no positive size")

	assert.Error(t, checkParts(env, nil))
}
