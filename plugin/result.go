package plugin

import (
	"fmt"

	"github.com/animus-ai/animus/core"
)

// Severity classifies a resolution diagnostic.
type Severity int

const (
	// SeverityWarning marks a recoverable drop (missing plugin, failed
	// validation, unresolvable dependency reference).
	SeverityWarning Severity = iota
	// SeverityError marks a structural problem such as a dependency cycle.
	SeverityError
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic codes emitted during resolution.
const (
	CodeNotFound     = "not_found"
	CodeInvalidShape = "invalid_shape"
	CodeUnresolved   = "unresolved_dependency"
	CodeCycle        = "dependency_cycle"
	CodeUnsupported  = "unsupported_reference"
)

// Diagnostic records one plugin or dependency that was dropped during
// resolution and why. Diagnostics make the best effort policy observable:
// resolution never fails, but callers can inspect what went missing.
type Diagnostic struct {
	Severity Severity
	Code     string
	Plugin   string
	Detail   string
}

// String renders the diagnostic for logs.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Plugin, d.Detail)
}

// Result is the outcome of a resolution run: the ordered plugin list plus
// any diagnostics accumulated along the way. Dependencies always precede
// dependents in Plugins.
type Result struct {
	Plugins     []*core.Plugin
	Diagnostics []Diagnostic
}

// Complete reports whether resolution finished without dropping anything.
func (r Result) Complete() bool { return len(r.Diagnostics) == 0 }

// Has reports whether a plugin with the given name (short or scoped form)
// made it into the resolved list. Callers needing stricter guarantees than
// best effort resolution should verify expected plugins with this.
func (r Result) Has(name string) bool {
	want := Normalize(name)
	for _, p := range r.Plugins {
		if p.Name == name || Normalize(p.Name) == want {
			return true
		}
	}
	return false
}
