package cabinet

import (
	"fmt"
	"strings"
)

// Style is a construction category. The set is closed: adding a style
// means adding a constant here and a Rule in the rule table.
type Style int

const (
	Base       Style = iota // floor-standing, toe kick, open top with nailer
	Wall                    // wall-hung, top and bottom, no toe kick
	Tall                    // floor-to-ceiling pantry/utility, N shelves
	DrawerBase              // floor-standing drawer stack
)

// Styles returns every construction style in declaration order.
func Styles() []Style {
	return []Style{Base, Wall, Tall, DrawerBase}
}

func (s Style) String() string {
	switch s {
	case Base:
		return "BASE"
	case Wall:
		return "WALL"
	case Tall:
		return "TALL"
	case DrawerBase:
		return "DRAWER_BASE"
	default:
		return fmt.Sprintf("Style(%d)", int(s))
	}
}

// MarshalText encodes the style as its identifier.
func (s Style) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ParseStyle looks up a style identifier. Matching ignores case and treats
// "-", "_" and spaces alike, so "drawer-base" and "DRAWER_BASE" are the
// same key.
func ParseStyle(id string) (Style, bool) {
	key := strings.ToUpper(strings.TrimSpace(id))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for _, s := range Styles() {
		if s.String() == key {
			return s, true
		}
	}
	return Base, false
}

// HasToeKick reports whether the style stands on a recessed toe kick.
func (s Style) HasToeKick() bool {
	return s == Base || s == Tall || s == DrawerBase
}

// InsetBack reports whether the side panels are shortened by the rabbet
// allowance to seat an inset back.
func (s Style) InsetBack() bool {
	return s.HasToeKick()
}

// FallbackReason explains why a requested style resolved to the default.
type FallbackReason string

const (
	FallbackNone         FallbackReason = ""
	FallbackMissing      FallbackReason = "missing"
	FallbackUnrecognized FallbackReason = "unrecognized"
)

// resolveStyle maps a requested identifier to a style. Absent and unknown
// identifiers resolve to Base.
func resolveStyle(id string) (Style, FallbackReason) {
	if strings.TrimSpace(id) == "" {
		return Base, FallbackMissing
	}
	s, ok := ParseStyle(id)
	if !ok {
		return Base, FallbackUnrecognized
	}
	return s, FallbackNone
}
