package cabinet

import (
	"fmt"
	"strings"
)

// ValidationError describes one reason a spec was rejected. Field is the
// spec field's wire name, or empty for envelope-level problems.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	if e.Field == "" {
		return "cabinet: " + e.Message
	}
	return fmt.Sprintf("cabinet: %s: %s", e.Field, e.Message)
}

// ValidationErrors is every problem found with a spec. A build that
// returns it has produced no geometry.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Has reports whether any finding concerns the given field.
func (v ValidationErrors) Has(field string) bool {
	for _, e := range v {
		if e.Field == field {
			return true
		}
	}
	return false
}
