package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/chazu/carcass/pkg/engine"
	"github.com/chazu/carcass/pkg/scene"
)

var (
	colorCyan   = lipgloss.Color("36")  // Teal - titles
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleHeader  = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleBranch  = lipgloss.NewStyle().Foreground(colorDim).MarginRight(1)
)

const (
	iconSwatch = "■"
	iconHollow = "□" // node without a fill
	iconArrow  = "→"
)

// swatch renders a block in a node's fill color.
func swatch(fill string) string {
	if fill == "" {
		return styleDim.Render(iconHollow)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render(iconSwatch)
}

// renderScene draws a build as a tree: the cabinet root, then every part
// with its size and world position.
func renderScene(r *engine.BuildResult) string {
	env := r.Layout.Envelope
	title := styleTitle.Render(env.Name) + " " +
		styleDim.Render(fmt.Sprintf("%s · %s in · %d parts", env.Style, env.Size, len(r.Layout.Parts)))
	if r.Layout.FellBack() {
		title += " " + styleWarning.Render(fmt.Sprintf("(style %s: %q)", r.Layout.Fallback, r.Layout.RequestedStyle))
	}

	sc := r.Scene
	t := nodeTree(sc, sc.Root()).Root(title)
	return t.String()
}

func nodeTree(sc *scene.Scene, id scene.NodeID) *tree.Tree {
	t := tree.Root(nodeLine(sc, id)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(styleBranch)
	for _, c := range sc.Children(id) {
		if len(sc.Children(c)) == 0 {
			t.Child(nodeLine(sc, c))
			continue
		}
		t.Child(nodeTree(sc, c))
	}
	return t
}

func nodeLine(sc *scene.Scene, id scene.NodeID) string {
	n := sc.MustNode(id)
	line := swatch(n.Style.Fill) + " " + styleValue.Render(n.Label)
	if n.Material != "" {
		line += " " + styleDim.Render("["+n.Material+"]")
	}
	return line + " " + styleDim.Render(fmt.Sprintf("%s %s %s", n.Size, iconArrow, sc.WorldPosition(id)))
}
