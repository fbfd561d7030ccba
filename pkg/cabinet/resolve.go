package cabinet

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/units"
)

// specValidate checks the struct-tag constraints on Spec. Field names in
// findings are the json wire names.
var specValidate = newSpecValidator()

func newSpecValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ToeKick is the recessed base of a floor-standing cabinet, in inches.
type ToeKick struct {
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Envelope is a spec after validation: inches, defaults applied, style
// chosen. It is the only input a Rule sees.
type Envelope struct {
	Name        string            `json:"name"`
	Style       Style             `json:"style"`
	Size        geom.Dimensions3D `json:"size"`
	ToeKick     ToeKick           `json:"toeKick"` // zero for styles without one
	ShelfCount  int               `json:"shelfCount"`
	DrawerCount int               `json:"drawerCount"`
	Materials   Materials         `json:"materials"`
}

// Base is the height at which the carcass box starts.
func (e Envelope) Base() float64 {
	return e.ToeKick.Height
}

// BoxHeight is the height of the carcass box above the toe kick.
func (e Envelope) BoxHeight() float64 {
	return e.Size.Height - e.Base()
}

// InteriorWidth is the clear width between the side panels.
func (e Envelope) InteriorWidth() float64 {
	return e.Size.Width - 2*PanelThickness
}

// Box is the overall envelope in cabinet-local coordinates.
func (e Envelope) Box() geom.Box3D {
	return geom.NewBox(geom.Vector3D{}, e.Size)
}

// Resolved is the outcome of accepting a spec.
type Resolved struct {
	Envelope       Envelope
	RequestedStyle string
	Fallback       FallbackReason
}

// FellBack reports whether the style was defaulted.
func (r Resolved) FellBack() bool {
	return r.Fallback != FallbackNone
}

// Resolve validates spec and produces the Envelope every rule consumes.
// This is the only place optional fields are defaulted. On failure the
// error is a ValidationErrors.
func Resolve(spec Spec) (Resolved, error) {
	if err := specValidate.Struct(spec); err != nil {
		var fes validator.ValidationErrors
		if !errors.As(err, &fes) {
			return Resolved{}, fmt.Errorf("cabinet: validate spec: %w", err)
		}
		out := make(ValidationErrors, 0, len(fes))
		for _, fe := range fes {
			out = append(out, ValidationError{Field: fe.Field(), Message: describe(fe)})
		}
		return Resolved{}, out
	}

	style, reason := resolveStyle(spec.Style)
	env := Envelope{
		Name:  spec.Name,
		Style: style,
		Size: geom.Dims(
			units.MillimetersToInches(spec.WidthMM),
			units.MillimetersToInches(spec.HeightMM),
			units.MillimetersToInches(spec.DepthMM),
		),
		Materials: spec.Materials,
	}

	var errs ValidationErrors
	for _, dim := range []struct {
		field string
		v     float64
	}{{"width_mm", spec.WidthMM}, {"height_mm", spec.HeightMM}, {"depth_mm", spec.DepthMM}} {
		if math.IsInf(dim.v, 0) {
			errs = append(errs, ValidationError{Field: dim.field, Message: "must be finite"})
		}
	}
	if len(errs) > 0 {
		return Resolved{}, errs
	}

	// Toe kick. Explicit values are checked even on styles that ignore
	// them, so a bad spec does not pass just because of its style.
	tkHeightMM, tkDepthMM := DefaultToeKickHeightMM, DefaultToeKickDepthMM
	if spec.ToeKickHeightMM != nil {
		tkHeightMM = *spec.ToeKickHeightMM
	}
	if spec.ToeKickDepthMM != nil {
		tkDepthMM = *spec.ToeKickDepthMM
	}
	if (style.HasToeKick() || spec.ToeKickHeightMM != nil) && tkHeightMM >= spec.HeightMM {
		errs = append(errs, ValidationError{
			Field:   "toe_kick_height_mm",
			Message: fmt.Sprintf("%.1f mm must be less than the overall height %.1f mm", tkHeightMM, spec.HeightMM),
		})
	}
	if (style.HasToeKick() || spec.ToeKickDepthMM != nil) && tkDepthMM >= spec.DepthMM {
		errs = append(errs, ValidationError{
			Field:   "toe_kick_depth_mm",
			Message: fmt.Sprintf("%.1f mm must be less than the overall depth %.1f mm", tkDepthMM, spec.DepthMM),
		})
	}
	if style.HasToeKick() {
		env.ToeKick = ToeKick{
			Height: units.MillimetersToInches(tkHeightMM),
			Depth:  units.MillimetersToInches(tkDepthMM),
		}
	}

	switch style {
	case Base, DrawerBase:
		env.ShelfCount = 1
	case Wall:
		env.ShelfCount = 2
	case Tall:
		env.ShelfCount = DefaultTallShelfCount
		if spec.ShelfCount != nil {
			env.ShelfCount = *spec.ShelfCount
		}
	}
	if style == DrawerBase {
		env.DrawerCount = DefaultDrawerCount
		if spec.DrawerCount != nil {
			env.DrawerCount = *spec.DrawerCount
		}
	}

	if len(errs) == 0 {
		errs = append(errs, checkEnvelope(env)...)
	}
	if len(errs) > 0 {
		return Resolved{}, errs
	}

	return Resolved{Envelope: env, RequestedStyle: spec.Style, Fallback: reason}, nil
}

// checkEnvelope rejects envelopes too small to seat the carcass, where a
// rule would otherwise emit negative or empty parts.
func checkEnvelope(env Envelope) ValidationErrors {
	var errs ValidationErrors

	if env.InteriorWidth() <= 2*ShelfSideInset {
		errs = append(errs, ValidationError{
			Field:   "width_mm",
			Message: fmt.Sprintf("%.3f in leaves no interior between two %.2f in sides", env.Size.Width, pt),
		})
	}
	if env.BoxHeight() <= 2*pt {
		errs = append(errs, ValidationError{
			Field:   "height_mm",
			Message: fmt.Sprintf("box height %.3f in above the toe kick must exceed %.2f in", env.BoxHeight(), 2*pt),
		})
	}
	if env.Size.Depth <= BackThickness+MaxShelfSetback {
		errs = append(errs, ValidationError{
			Field:   "depth_mm",
			Message: fmt.Sprintf("%.3f in must exceed %.2f in", env.Size.Depth, BackThickness+MaxShelfSetback),
		})
	}
	if len(errs) > 0 {
		return errs
	}

	if env.Style == Tall && env.ShelfCount > 0 {
		// The lowest shelf is centered one spacing above the toe kick and
		// must clear the bottom panel.
		spacing := (env.Size.Height - pt - env.Base()) / float64(env.ShelfCount+1)
		if spacing < 1.5*pt {
			errs = append(errs, ValidationError{
				Field:   "shelf_count",
				Message: fmt.Sprintf("%d shelves do not fit between the toe kick and the top", env.ShelfCount),
			})
		}
	}
	if env.DrawerCount > 0 {
		if _, _, ok := drawerLayout(env.BoxHeight(), env.DrawerCount); !ok {
			errs = append(errs, ValidationError{
				Field:   "drawer_count",
				Message: fmt.Sprintf("%d drawer fronts do not fit in %.3f in", env.DrawerCount, env.BoxHeight()),
			})
		}
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return fmt.Sprintf("must be greater than %s, got %v", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s, got %v", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
