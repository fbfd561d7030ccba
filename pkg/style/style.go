// Package style defines the presentation attributes attached to scene
// nodes. Styles are plain data; nothing in this module paints them.
package style

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Presentation is a bundle of cosmetic attributes for one node.
// Colors are "#rrggbb" strings; an empty color means "none".
type Presentation struct {
	Fill        string  `json:"fill,omitempty" toml:"fill" yaml:"fill"`
	Stroke      string  `json:"stroke,omitempty" toml:"stroke" yaml:"stroke"`
	StrokeWidth float64 `json:"strokeWidth" toml:"stroke_width" yaml:"stroke_width"`
	ShowLabel   bool    `json:"showLabel" toml:"show_label" yaml:"show_label"`
	LabelColor  string  `json:"labelColor,omitempty" toml:"label_color" yaml:"label_color"`
	LabelSize   float64 `json:"labelSize" toml:"label_size" yaml:"label_size"`
}

// IsZero reports whether p carries no attributes at all. Every emitted
// scene node must have a non-zero style.
func (p Presentation) IsZero() bool {
	return p == Presentation{}
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Validate checks that every non-empty color is well formed and that sizes
// are not negative.
func (p Presentation) Validate() error {
	for field, c := range map[string]string{"fill": p.Fill, "stroke": p.Stroke, "label color": p.LabelColor} {
		if c != "" && !hexColor.MatchString(c) {
			return fmt.Errorf("style: %s %q is not a #rrggbb color", field, c)
		}
	}
	if p.StrokeWidth < 0 {
		return fmt.Errorf("style: stroke width %.2f is negative", p.StrokeWidth)
	}
	if p.LabelSize < 0 {
		return fmt.Errorf("style: label size %.2f is negative", p.LabelSize)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Named bundles
// ---------------------------------------------------------------------------

// Default is the standard style attached to every node unless the caller
// picks another bundle.
var Default = Presentation{
	Fill:        "#d9c8a9",
	Stroke:      "#333333",
	StrokeWidth: 1,
	ShowLabel:   true,
	LabelColor:  "#222222",
	LabelSize:   10,
}

// Outline draws edges only.
var Outline = Presentation{
	Stroke:      "#000000",
	StrokeWidth: 1.5,
	ShowLabel:   false,
	LabelColor:  "#000000",
	LabelSize:   10,
}

// WoodPanel fills parts with a plywood tone.
var WoodPanel = Presentation{
	Fill:        "#c19a6b",
	Stroke:      "#5c4033",
	StrokeWidth: 1,
	ShowLabel:   true,
	LabelColor:  "#3b2a1a",
	LabelSize:   11,
}

// Blueprint is white linework on blue.
var Blueprint = Presentation{
	Fill:        "#1f4e79",
	Stroke:      "#ffffff",
	StrokeWidth: 0.75,
	ShowLabel:   true,
	LabelColor:  "#ffffff",
	LabelSize:   9,
}

var bundles = map[string]Presentation{
	"default":    Default,
	"outline":    Outline,
	"wood-panel": WoodPanel,
	"blueprint":  Blueprint,
}

// Lookup returns the named bundle. Names are case-insensitive and accept
// "_" in place of "-".
func Lookup(name string) (Presentation, bool) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	if key == "" {
		return Default, true
	}
	p, ok := bundles[key]
	return p, ok
}

// Names returns the bundle names in sorted order.
func Names() []string {
	names := make([]string, 0, len(bundles))
	for n := range bundles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
