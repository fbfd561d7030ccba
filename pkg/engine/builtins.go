package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/carcass/pkg/cabinet"
	"github.com/chazu/carcass/pkg/units"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource rewrites spec source into something zygomys accepts:
//
//  1. Keywords become string literals: :toe-kick-height -> "__kw_toe-kick-height".
//     Registering keywords as symbols would clash with user variables.
//
//  2. Kebab-case identifiers become snake case: sink-base -> sink_base.
//     zygomys reads a hyphen inside an identifier as subtraction.
//
//  3. ; line comments become // comments.
//
// String literals and comments are left alone.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: alpha-alpha -> alpha_alpha.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

// sexpMaterials carries a materials table from `materials` to `cabinet`.
type sexpMaterials struct {
	m cabinet.Materials
}

func (s *sexpMaterials) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(materials :case %q)", s.m.Case)
}
func (s *sexpMaterials) Type() *zygo.RegisteredType { return nil }

// sexpCabinet is what `cabinet` returns, so a declaration can be bound
// with def and printed.
type sexpCabinet struct {
	spec cabinet.Spec
}

func (s *sexpCabinet) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(cabinet %q :style %q)", s.spec.Name, s.spec.Style)
}
func (s *sexpCabinet) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW reports whether s is a preprocessed keyword and returns its name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Trailing keyword with no value.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// unknown returns an error naming any keyword not in allowed.
func (a kwArgs) unknown(fn string, allowed ...string) error {
	var extra []string
	for k := range a.kw {
		found := false
		for _, ok := range allowed {
			if k == ok {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, ":"+k)
		}
	}
	if len(extra) == 0 {
		return nil
	}
	sort.Strings(extra)
	return fmt.Errorf("%s: unknown keyword %s", fn, strings.Join(extra, ", "))
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts a whole number. Floats are accepted when integral.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected whole number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_wall) and plain strings ("wall").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toMaterials extracts a materials table from a sexpMaterials.
func toMaterials(s zygo.Sexp) (cabinet.Materials, error) {
	if m, ok := s.(*sexpMaterials); ok {
		return m.m, nil
	}
	return cabinet.Materials{}, fmt.Errorf("expected materials, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the spec language into env. Every `cabinet`
// call appends its spec to out in evaluation order.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, out *[]cabinet.Spec) {

	// -----------------------------------------------------------------------
	// (inches 4.5) => 114.3, for writing lengths in inches
	// -----------------------------------------------------------------------
	env.AddFunction("inches", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("inches requires exactly 1 argument, got %d", len(args))
		}
		in, err := toFloat64(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inches: %w", err)
		}
		return &zygo.SexpFloat{Val: units.InchesToMillimeters(in)}, nil
	})

	// -----------------------------------------------------------------------
	// (materials :case "maple-ply" :back "hardboard" :shelf ... :front ...
	//            :toe-kick ...)
	// -----------------------------------------------------------------------
	env.AddFunction("materials", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if err := pa.unknown("materials", "case", "back", "shelf", "front", "toe-kick"); err != nil {
			return zygo.SexpNull, err
		}
		var m cabinet.Materials
		for kw, dst := range map[string]*string{
			"case":     &m.Case,
			"back":     &m.Back,
			"shelf":    &m.Shelf,
			"front":    &m.Front,
			"toe-kick": &m.ToeKick,
		} {
			v, ok := pa.kw[kw]
			if !ok {
				continue
			}
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("materials: %s: %w", kw, err)
			}
			*dst = s
		}
		return &sexpMaterials{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (cabinet "Sink Base" :style :base :width 914 :height 876 :depth 610
	//          :toe-kick-height 100 :toe-kick-depth 75 :shelves 2 :drawers 3
	//          :materials ply)
	//
	// Lengths are millimeters. Validation happens at build time, not here.
	// -----------------------------------------------------------------------
	env.AddFunction("cabinet", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("cabinet requires a name argument")
		}
		if err := pa.unknown("cabinet", "style", "width", "height", "depth",
			"toe-kick-height", "toe-kick-depth", "shelves", "drawers", "materials"); err != nil {
			return zygo.SexpNull, err
		}

		cabName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cabinet: name: %w", err)
		}
		spec := cabinet.Spec{Name: cabName}

		if v, ok := pa.kw["style"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: style: %w", err)
			}
			spec.Style = s
		}

		for _, d := range []struct {
			kw  string
			dst *float64
		}{
			{"width", &spec.WidthMM},
			{"height", &spec.HeightMM},
			{"depth", &spec.DepthMM},
		} {
			kw, dst := d.kw, d.dst
			v, ok := pa.kw[kw]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("cabinet: %q is missing :%s", cabName, kw)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: %s: %w", kw, err)
			}
			*dst = f
		}

		if v, ok := pa.kw["toe-kick-height"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: toe-kick-height: %w", err)
			}
			spec.ToeKickHeightMM = &f
		}
		if v, ok := pa.kw["toe-kick-depth"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: toe-kick-depth: %w", err)
			}
			spec.ToeKickDepthMM = &f
		}
		if v, ok := pa.kw["shelves"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: shelves: %w", err)
			}
			spec.ShelfCount = &n
		}
		if v, ok := pa.kw["drawers"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: drawers: %w", err)
			}
			spec.DrawerCount = &n
		}
		if v, ok := pa.kw["materials"]; ok {
			m, err := toMaterials(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("cabinet: materials: %w", err)
			}
			spec.Materials = m
		}

		*out = append(*out, spec)
		return &sexpCabinet{spec: spec}, nil
	})
}
