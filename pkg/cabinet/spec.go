package cabinet

// Spec is the caller-supplied description of a cabinet. Lengths are in
// millimeters, the unit specifications are stored in. Optional fields are
// nil when unset; Resolve fills them with defaults.
type Spec struct {
	Name  string `json:"name" toml:"name" yaml:"name"`
	Style string `json:"style,omitempty" toml:"style" yaml:"style"`

	WidthMM  float64 `json:"width_mm" toml:"width_mm" yaml:"width_mm" validate:"gt=0"`
	HeightMM float64 `json:"height_mm" toml:"height_mm" yaml:"height_mm" validate:"gt=0"`
	DepthMM  float64 `json:"depth_mm" toml:"depth_mm" yaml:"depth_mm" validate:"gt=0"`

	ToeKickHeightMM *float64 `json:"toe_kick_height_mm,omitempty" toml:"toe_kick_height_mm" yaml:"toe_kick_height_mm" validate:"omitempty,gte=0"`
	ToeKickDepthMM  *float64 `json:"toe_kick_depth_mm,omitempty" toml:"toe_kick_depth_mm" yaml:"toe_kick_depth_mm" validate:"omitempty,gte=0"`

	ShelfCount  *int `json:"shelf_count,omitempty" toml:"shelf_count" yaml:"shelf_count" validate:"omitempty,gte=0,lte=24"`
	DrawerCount *int `json:"drawer_count,omitempty" toml:"drawer_count" yaml:"drawer_count" validate:"omitempty,gte=1,lte=12"`

	Materials Materials `json:"materials" toml:"materials" yaml:"materials"`
}

// Materials names the stock each group of parts is cut from. Empty
// entries fall back to Case.
type Materials struct {
	Case    string `json:"case,omitempty" toml:"case" yaml:"case"`
	Back    string `json:"back,omitempty" toml:"back" yaml:"back"`
	Shelf   string `json:"shelf,omitempty" toml:"shelf" yaml:"shelf"`
	Front   string `json:"front,omitempty" toml:"front" yaml:"front"`
	ToeKick string `json:"toe_kick,omitempty" toml:"toe_kick" yaml:"toe_kick"`
}

// For returns the material reference for a part kind.
func (m Materials) For(kind PartKind) string {
	var ref string
	switch kind {
	case KindBack:
		ref = m.Back
	case KindShelf:
		ref = m.Shelf
	case KindDrawerFront:
		ref = m.Front
	case KindToeKick:
		ref = m.ToeKick
	}
	if ref == "" {
		return m.Case
	}
	return ref
}

// Ptr returns a pointer to v, for filling optional Spec fields.
func Ptr[T any](v T) *T {
	return &v
}
