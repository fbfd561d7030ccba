package scene

import "fmt"

// ValidationSeverity indicates whether a finding makes the scene unusable
// or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // scene must not be used
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single structural finding.
type ValidationError struct {
	Node     NodeID // NoNode for scene-level findings
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Node == NoNode {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] node %d: %s", e.Severity, e.Node, e.Message)
}

// HasErrors reports whether any finding is an error.
func HasErrors(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate runs the structural checks on s and returns every finding. An
// empty slice means the scene is well formed. It never mutates s.
func Validate(s *Scene) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateRoot(s)...)
	errs = append(errs, validateLinks(s)...)
	errs = append(errs, validateTree(s)...)
	errs = append(errs, validateNodes(s)...)
	return errs
}

// validateRoot checks that there is exactly one parentless node and that
// it is the scene's root.
func validateRoot(s *Scene) []ValidationError {
	var errs []ValidationError
	if !s.has(s.root) {
		return []ValidationError{{Node: NoNode, Message: fmt.Sprintf("root %d does not exist", s.root), Severity: SeverityError}}
	}
	if p := s.nodes[s.root].parent; p != NoNode {
		errs = append(errs, ValidationError{Node: s.root, Message: fmt.Sprintf("root has parent %d", p), Severity: SeverityError})
	}
	for i, n := range s.nodes {
		if id := NodeID(i); id != s.root && n.parent == NoNode {
			errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("node %q has no parent but is not the root", n.Name), Severity: SeverityError})
		}
	}
	return errs
}

// validateLinks checks that every child reference exists and points back
// at its parent.
func validateLinks(s *Scene) []ValidationError {
	var errs []ValidationError
	for i, n := range s.nodes {
		id := NodeID(i)
		for _, c := range n.children {
			if !s.has(c) {
				errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("child reference %d does not exist", c), Severity: SeverityError})
				continue
			}
			if p := s.nodes[c].parent; p != id {
				errs = append(errs, ValidationError{Node: c, Message: fmt.Sprintf("listed under %d but parent is %d", id, p), Severity: SeverityError})
			}
		}
	}
	return errs
}

// validateTree walks from the root with 3-color marking. A gray node seen
// again is a cycle; a black one is a node reachable along two paths.
// Anything left white is an orphan.
func validateTree(s *Scene) []ValidationError {
	const (
		white = iota
		gray
		black
	)
	if !s.has(s.root) {
		return nil
	}

	color := make([]int, len(s.nodes))
	var errs []ValidationError

	var visit func(id NodeID) bool // true stops the walk
	visit = func(id NodeID) bool {
		switch color[id] {
		case gray:
			errs = append(errs, ValidationError{Node: id, Message: "cycle detected", Severity: SeverityError})
			return true
		case black:
			errs = append(errs, ValidationError{Node: id, Message: "node is attached more than once", Severity: SeverityError})
			return false
		}
		color[id] = gray
		for _, c := range s.nodes[id].children {
			if s.has(c) && visit(c) {
				return true
			}
		}
		color[id] = black
		return false
	}

	if visit(s.root) {
		return errs
	}
	for i, c := range color {
		if c == white {
			errs = append(errs, ValidationError{
				Node:     NodeID(i),
				Message:  fmt.Sprintf("node %q is not reachable from the root (orphan)", s.nodes[i].Name),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

// validateNodes checks per-node content: part geometry, style and name
// uniqueness.
func validateNodes(s *Scene) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]NodeID, len(s.nodes))
	for i, n := range s.nodes {
		id := NodeID(i)
		if n.Style.IsZero() {
			errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("node %q has no style", n.Name), Severity: SeverityError})
		} else if err := n.Style.Validate(); err != nil {
			errs = append(errs, ValidationError{Node: id, Message: err.Error(), Severity: SeverityWarning})
		}
		if !n.Size.Valid() {
			errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("node %q has invalid size %s", n.Name, n.Size), Severity: SeverityError})
		}
		if id != s.root && len(n.children) == 0 && !n.Size.HasGeometry() {
			errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("part %q has no geometry", n.Name), Severity: SeverityError})
		}
		if prev, dup := seen[n.Name]; dup {
			errs = append(errs, ValidationError{Node: id, Message: fmt.Sprintf("name %q already used by node %d", n.Name, prev), Severity: SeverityWarning})
		} else {
			seen[n.Name] = id
		}
	}
	return errs
}
