package cabinet

import (
	"fmt"

	"github.com/chazu/carcass/pkg/units"
)

// Layout is the full set of parts for one accepted spec, in rule order.
type Layout struct {
	Resolved
	Parts []PartGeometry
}

// Calculate resolves spec, runs its style rule and checks every part
// against the envelope. Input problems come back as ValidationErrors; a
// part that breaks the envelope is an internal error. Either way no
// layout is returned.
func Calculate(spec Spec) (*Layout, error) {
	res, err := Resolve(spec)
	if err != nil {
		return nil, err
	}
	env := res.Envelope

	rule := RuleFor(env.Style)
	if rule == nil {
		return nil, fmt.Errorf("cabinet: no rule registered for style %s", env.Style)
	}
	parts := rule(env)
	if err := checkParts(env, parts); err != nil {
		return nil, err
	}
	return &Layout{Resolved: res, Parts: parts}, nil
}

// checkParts enforces the part invariants. Lengths are quantized one by
// one, so containment allows one quantum of slack.
func checkParts(env Envelope, parts []PartGeometry) error {
	if len(parts) == 0 {
		return fmt.Errorf("cabinet: style %s produced no parts", env.Style)
	}
	bounds := env.Box()
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		if seen[p.Name] {
			return fmt.Errorf("cabinet: style %s produced duplicate part %q", env.Style, p.Name)
		}
		seen[p.Name] = true

		var problem string
		switch {
		case !p.Position.NonNegative():
			problem = fmt.Sprintf("negative position %s", p.Position)
		case !p.Size.Valid():
			problem = fmt.Sprintf("negative size %s", p.Size)
		case !p.Size.HasGeometry():
			problem = "no positive size component"
		case !bounds.Contains(p.Box(), units.InchResolution):
			problem = fmt.Sprintf("box %s outside envelope %s", p.Box(), bounds)
		}
		if problem != "" {
			return fmt.Errorf("cabinet: style %s produced invalid part %q: %s", env.Style, p.Name, problem)
		}
	}
	return nil
}

// Find returns the first part with the given name.
func (l *Layout) Find(name string) (PartGeometry, bool) {
	for _, p := range l.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return PartGeometry{}, false
}

// OfKind returns the parts of one kind, in rule order.
func (l *Layout) OfKind(kind PartKind) []PartGeometry {
	var out []PartGeometry
	for _, p := range l.Parts {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}
