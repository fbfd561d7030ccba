package scene

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/style"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

func buildScene(t *testing.T, spec cabinet.Spec) *Scene {
	t.Helper()
	l, err := cabinet.Calculate(spec)
	require.NoError(t, err)
	s, err := BuildCabinet(l, style.Presentation{})
	require.NoError(t, err)
	return s
}

func part(name string, pos geom.Position3D, size geom.Dimensions3D) Node {
	return Node{Name: name, Label: name, Kind: "panel", Position: pos, Size: size, Style: style.Default}
}

// nested builds root -> group(offset 10,0,0) -> two panels.
func nested(t *testing.T) (*Scene, NodeID, NodeID, NodeID) {
	t.Helper()
	b := NewBuilder()
	root, err := b.AddRoot(Node{Name: "root", Style: style.Default})
	require.NoError(t, err)
	group, err := b.Attach(root, Node{Name: "group", Position: geom.Pos(10, 0, 0), Size: geom.Dims(1, 1, 1), Style: style.Default})
	require.NoError(t, err)
	a, err := b.Attach(group, part("a", geom.Pos(1, 2, 3), geom.Dims(2, 2, 2)))
	require.NoError(t, err)
	c, err := b.Attach(group, part("c", geom.Pos(-5, 0, 0), geom.Dims(1, 4, 1)))
	require.NoError(t, err)
	s, err := b.Build()
	require.NoError(t, err)
	return s, group, a, c
}

func hasFinding(errs []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, e := range errs {
		if e.Severity == sev && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Builder
// ---------------------------------------------------------------------------

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	_, err := b.Build()
	assert.ErrorIs(t, err, ErrNoRoot)

	root, err := b.AddRoot(Node{Name: "root"})
	require.NoError(t, err)
	_, err = b.AddRoot(Node{Name: "again"})
	assert.ErrorIs(t, err, ErrRootExists)

	_, err = b.Attach(NodeID(42), Node{Name: "stray"})
	assert.Error(t, err)

	child, err := b.Attach(root, Node{Name: "child"})
	require.NoError(t, err)

	s, err := b.Build()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, NoNode, s.Parent(root))
	assert.Equal(t, root, s.Parent(child))
	assert.Equal(t, []NodeID{child}, s.Children(root))

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrBuilt)
	_, err = b.Attach(root, Node{Name: "late"})
	assert.ErrorIs(t, err, ErrBuilt)
}

func TestAttachIgnoresCallerLinks(t *testing.T) {
	b := NewBuilder()
	root, _ := b.AddRoot(Node{Name: "root"})
	n := Node{Name: "x", parent: 7, children: []NodeID{3}}
	id, err := b.Attach(root, n)
	require.NoError(t, err)
	s, err := b.Build()
	require.NoError(t, err)

	got := s.MustNode(id)
	assert.Equal(t, root, got.Parent())
	assert.Empty(t, got.Children())
}

func TestChildrenIsACopy(t *testing.T) {
	s, group, a, _ := nested(t)
	kids := s.Children(group)
	kids[0] = NoNode
	assert.Equal(t, a, s.Children(group)[0])
}

// ---------------------------------------------------------------------------
// Traversal and spatial queries
// ---------------------------------------------------------------------------

func TestWorldPositionSumsAncestors(t *testing.T) {
	s, group, a, c := nested(t)
	assert.Equal(t, geom.V(10, 0, 0), s.WorldPosition(group))
	assert.Equal(t, geom.V(11, 2, 3), s.WorldPosition(a))
	assert.Equal(t, geom.V(5, 0, 0), s.WorldPosition(c))
	assert.Equal(t, geom.Vector3D{}, s.WorldPosition(s.Root()))

	assert.Equal(t, geom.NewBox(geom.V(1, 2, 3), geom.Dims(2, 2, 2)), s.LocalBox(a))
	assert.Equal(t, geom.NewBox(geom.V(11, 2, 3), geom.Dims(2, 2, 2)), s.WorldBox(a))
}

func TestBoundsIgnoreZeroRoot(t *testing.T) {
	s, group, _, _ := nested(t)
	want := geom.BoxFromMinMax(geom.V(5, 0, 0), geom.V(13, 4, 5))
	assert.True(t, s.Bounds().Equals(want, 1e-9), "got %s", s.Bounds())
	assert.True(t, s.SubtreeBounds(group).Equals(want, 1e-9))
}

func TestWalkPreOrder(t *testing.T) {
	s, _, _, _ := nested(t)
	var names []string
	var depths []int
	s.Walk(func(id NodeID, depth int) bool {
		names = append(names, s.MustNode(id).Name)
		depths = append(depths, depth)
		return true
	})
	assert.Equal(t, []string{"root", "group", "a", "c"}, names)
	assert.Equal(t, []int{0, 1, 2, 2}, depths)

	names = nil
	s.Walk(func(id NodeID, _ int) bool {
		names = append(names, s.MustNode(id).Name)
		return s.MustNode(id).Name != "group"
	})
	assert.Equal(t, []string{"root", "group"}, names)
}

func TestFind(t *testing.T) {
	s, _, a, c := nested(t)
	id, ok := s.Find("a")
	assert.True(t, ok)
	assert.Equal(t, a, id)
	_, ok = s.Find("missing")
	assert.False(t, ok)
	assert.Equal(t, []NodeID{a, c}, s.FindKind("panel"))
	assert.Equal(t, []NodeID{a, c}, s.Parts())
}

func TestOutOfRangeLookups(t *testing.T) {
	s, _, _, _ := nested(t)
	_, ok := s.Node(NoNode)
	assert.False(t, ok)
	assert.Nil(t, s.Children(99))
	assert.Equal(t, NoNode, s.Parent(99))
	assert.Equal(t, geom.Box3D{}, s.WorldBox(99))
	assert.Panics(t, func() { s.MustNode(99) })
}

// ---------------------------------------------------------------------------
// Cabinet scenes
// ---------------------------------------------------------------------------

func TestCabinetRoot(t *testing.T) {
	for _, st := range cabinet.Styles() {
		t.Run(st.String(), func(t *testing.T) {
			s := buildScene(t, cabinet.Spec{Name: "Unit 7", Style: st.String(), WidthMM: 610, HeightMM: 876, DepthMM: 610})
			root := s.MustNode(s.Root())
			assert.Equal(t, RootName, root.Name)
			assert.Equal(t, "Unit 7", root.Label)
			assert.True(t, root.IsRoot())
			assert.False(t, root.Size.HasGeometry())
			assert.Empty(t, Validate(s))
		})
	}
}

func TestStyleScenesMatchEnvelope(t *testing.T) {
	for _, st := range cabinet.Styles() {
		t.Run(st.String(), func(t *testing.T) {
			l, err := cabinet.Calculate(cabinet.Spec{Name: "Run", Style: st.String(), WidthMM: 610, HeightMM: 876, DepthMM: 610})
			require.NoError(t, err)
			s, err := BuildCabinet(l, style.Presentation{})
			require.NoError(t, err)
			env := l.Envelope

			kicks := 1
			if st == cabinet.Wall {
				kicks = 0
			}
			assert.Len(t, s.FindKind(string(cabinet.KindToeKick)), kicks)

			size := s.Bounds().Size()
			assert.InDelta(t, env.Size.Width, size.Width, 0.5)
			assert.InDelta(t, env.Size.Height, size.Height, 0.5)
			assert.InDelta(t, env.Size.Depth, size.Depth, 0.5)

			sides := s.FindKind(string(cabinet.KindSide))
			require.Len(t, sides, 2)
			for _, id := range sides {
				assert.InDelta(t, env.Base(), s.WorldPosition(id).Y, 0.01)
			}
		})
	}
}

func TestScenarioBaseScene(t *testing.T) {
	s := buildScene(t, cabinet.Spec{Name: "Sink Base", Style: "BASE", WidthMM: 610, HeightMM: 876, DepthMM: 610})

	size := s.Bounds().Size()
	assert.InDelta(t, 24.0, size.Width, 0.5)
	assert.InDelta(t, 34.5, size.Height, 0.5)
	assert.InDelta(t, 24.0, size.Depth, 0.5)

	for _, name := range []string{"Left Side", "Right Side", "Bottom", "Back", "Toe Kick", "Top Nailer", "Shelf 1"} {
		_, ok := s.Find(name)
		assert.True(t, ok, name)
	}
	assert.Len(t, s.FindKind(string(cabinet.KindToeKick)), 1)

	for _, id := range s.FindKind(string(cabinet.KindSide)) {
		assert.InDelta(t, 4.5, s.MustNode(id).Position.Y, 0.1)
	}
	for _, id := range s.Parts() {
		n := s.MustNode(id)
		assert.True(t, n.Size.HasGeometry(), n.Name)
		assert.False(t, n.Style.IsZero(), n.Name)
		assert.Equal(t, n.Name, n.Label)
	}
}

func TestScenarioWallScene(t *testing.T) {
	s := buildScene(t, cabinet.Spec{Name: "Upper", Style: "WALL", WidthMM: 762, HeightMM: 762, DepthMM: 305})

	assert.Empty(t, s.FindKind(string(cabinet.KindToeKick)))
	assert.GreaterOrEqual(t, len(s.FindKind(string(cabinet.KindShelf))), 2)
	for _, name := range []string{"Top", "Bottom", "Back"} {
		_, ok := s.Find(name)
		assert.True(t, ok, name)
	}
	for _, id := range s.FindKind(string(cabinet.KindSide)) {
		assert.InDelta(t, 0, s.MustNode(id).Position.Y, 0.01)
	}
	size := s.Bounds().Size()
	assert.InDelta(t, 30.0, size.Width, 0.5)
	assert.InDelta(t, 30.0, size.Height, 0.5)
	assert.InDelta(t, 12.0, size.Depth, 0.5)
}

func TestScenarioTallScene(t *testing.T) {
	s := buildScene(t, cabinet.Spec{Name: "Pantry", Style: "TALL", WidthMM: 610, HeightMM: 2134, DepthMM: 610})

	require.Len(t, s.FindKind(string(cabinet.KindToeKick)), 1)
	tk := s.MustNode(s.FindKind(string(cabinet.KindToeKick))[0])
	top, ok := s.Find("Top")
	require.True(t, ok)
	lo, hi := tk.Size.Height, s.MustNode(top).Position.Y

	shelves := s.FindKind(string(cabinet.KindShelf))
	require.GreaterOrEqual(t, len(shelves), 3)
	gap := (hi - lo) / float64(len(shelves)+1)
	for i, id := range shelves {
		y := s.WorldPosition(id).Y + cabinet.PanelThickness/2
		assert.InDelta(t, lo+float64(i+1)*gap, y, 0.01)
	}
	assert.InDelta(t, 84.0, s.Bounds().Size().Height, 0.5)
}

func TestPresetAppliesToEveryNode(t *testing.T) {
	l, err := cabinet.Calculate(cabinet.Spec{Name: "x", WidthMM: 600, HeightMM: 800, DepthMM: 600})
	require.NoError(t, err)
	s, err := BuildCabinet(l, style.Blueprint)
	require.NoError(t, err)
	s.Walk(func(id NodeID, _ int) bool {
		assert.Equal(t, style.Blueprint, s.MustNode(id).Style)
		return true
	})

	_, err = BuildCabinet(nil, style.Default)
	assert.Error(t, err)
}

func TestScenesAreIndependent(t *testing.T) {
	l, err := cabinet.Calculate(cabinet.Spec{Name: "x", Style: "TALL", WidthMM: 600, HeightMM: 2000, DepthMM: 600})
	require.NoError(t, err)

	const n = 8
	scenes := make([]*Scene, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := BuildCabinet(l, style.Default)
			assert.NoError(t, err)
			scenes[i] = s
		}()
	}
	wg.Wait()

	ids := make(map[uuid.UUID]bool)
	for _, s := range scenes {
		require.NotNil(t, s)
		assert.False(t, ids[s.ID], "duplicate scene id")
		ids[s.ID] = true
		assert.True(t, s.Bounds().Equals(scenes[0].Bounds(), 0))
	}
}

func TestMarshalJSON(t *testing.T) {
	s, _, _, _ := nested(t)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var out struct {
		ID     string     `json:"id"`
		Bounds geom.Box3D `json:"bounds"`
		Root   struct {
			Name     string `json:"name"`
			Children []struct {
				Name     string `json:"name"`
				Children []struct {
					Name          string        `json:"name"`
					WorldPosition geom.Vector3D `json:"worldPosition"`
				} `json:"children"`
			} `json:"children"`
		} `json:"root"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, s.ID.String(), out.ID)
	assert.Equal(t, "root", out.Root.Name)
	require.Len(t, out.Root.Children, 1)
	require.Len(t, out.Root.Children[0].Children, 2)
	assert.Equal(t, geom.V(11, 2, 3), out.Root.Children[0].Children[0].WorldPosition)
	assert.Equal(t, geom.V(13, 4, 5), out.Bounds.Max)
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidateCatchesBrokenTrees(t *testing.T) {
	t.Run("back reference", func(t *testing.T) {
		s, _, a, _ := nested(t)
		s.nodes[a].parent = s.root
		errs := Validate(s)
		assert.True(t, hasFinding(errs, SeverityError, "parent is"), "%v", errs)
	})
	t.Run("second root", func(t *testing.T) {
		s, _, _, c := nested(t)
		s.nodes[c].parent = NoNode
		assert.True(t, hasFinding(Validate(s), SeverityError, "not the root"))
	})
	t.Run("cycle", func(t *testing.T) {
		s, group, a, _ := nested(t)
		s.nodes[a].children = []NodeID{group}
		assert.True(t, hasFinding(Validate(s), SeverityError, "cycle"))
	})
	t.Run("shared node", func(t *testing.T) {
		s, _, a, _ := nested(t)
		s.nodes[s.root].children = append(s.nodes[s.root].children, a)
		assert.True(t, hasFinding(Validate(s), SeverityError, "more than once"))
	})
	t.Run("dangling child", func(t *testing.T) {
		s, group, _, _ := nested(t)
		s.nodes[group].children = append(s.nodes[group].children, 99)
		assert.True(t, hasFinding(Validate(s), SeverityError, "does not exist"))
	})
	t.Run("empty part", func(t *testing.T) {
		s, _, a, _ := nested(t)
		s.nodes[a].Size = geom.Dims(0, 0, 0)
		errs := Validate(s)
		assert.True(t, hasFinding(errs, SeverityError, "no geometry"))
		assert.True(t, HasErrors(errs))
	})
	t.Run("missing style", func(t *testing.T) {
		s, _, a, _ := nested(t)
		s.nodes[a].Style = style.Presentation{}
		assert.True(t, hasFinding(Validate(s), SeverityError, "no style"))
	})
	t.Run("duplicate name warns", func(t *testing.T) {
		s, _, a, c := nested(t)
		s.nodes[c].Name = s.nodes[a].Name
		errs := Validate(s)
		assert.True(t, hasFinding(errs, SeverityWarning, "already used"))
		assert.False(t, HasErrors(errs))
	})
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "ValidationSeverity(7)", ValidationSeverity(7).String())
	assert.Equal(t, "[error] scene broke", ValidationError{Node: NoNode, Message: "scene broke"}.Error())
	assert.Equal(t, "[warning] node 3: odd", ValidationError{Node: 3, Message: "odd", Severity: SeverityWarning}.Error())
}
