// Package errors defines tamer's typed errors and the collector used to gather
// recoverable diagnostics over one autolink run.
package errors

import "errors"

// ErrorSeverity represents the severity of a collected diagnostic
type ErrorSeverity int

const (
	ErrorSeverityInfo ErrorSeverity = iota
	ErrorSeverityWarning
	ErrorSeverityError
)

// String returns the string representation of the severity
func (s ErrorSeverity) String() string {
	switch s {
	case ErrorSeverityInfo:
		return "info"
	case ErrorSeverityWarning:
		return "warning"
	case ErrorSeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Diagnostic is one collected problem together with its severity.
type Diagnostic struct {
	Err      error
	Severity ErrorSeverity
}

// ErrorCollector gathers the diagnostics of one run. It is not safe for
// concurrent use; each run owns its collector.
type ErrorCollector struct {
	diagnostics []Diagnostic
}

// NewErrorCollector creates a new error collector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		diagnostics: make([]Diagnostic, 0),
	}
}

// Warn records a recoverable problem.
func (ec *ErrorCollector) Warn(err error) {
	ec.add(err, ErrorSeverityWarning)
}

// AddError records a failure that did not stop the run.
func (ec *ErrorCollector) AddError(err error) {
	ec.add(err, ErrorSeverityError)
}

func (ec *ErrorCollector) add(err error, severity ErrorSeverity) {
	if err == nil {
		return
	}
	ec.diagnostics = append(ec.diagnostics, Diagnostic{Err: err, Severity: severity})
}

// Diagnostics returns a copy of everything collected so far.
func (ec *ErrorCollector) Diagnostics() []Diagnostic {
	result := make([]Diagnostic, len(ec.diagnostics))
	copy(result, ec.diagnostics)
	return result
}

// Count returns how many diagnostics of the given severity were collected.
func (ec *ErrorCollector) Count(severity ErrorSeverity) int {
	n := 0
	for _, d := range ec.diagnostics {
		if d.Severity == severity {
			n++
		}
	}
	return n
}

// HasErrors returns true if any error-severity diagnostic was collected.
func (ec *ErrorCollector) HasErrors() bool {
	return ec.Count(ErrorSeverityError) > 0
}

// ByPackage returns the diagnostics attached to a package.
func (ec *ErrorCollector) ByPackage(pkg string) []Diagnostic {
	var out []Diagnostic
	for _, d := range ec.diagnostics {
		var te *TamerError
		if errors.As(d.Err, &te) && te.Package == pkg {
			out = append(out, d)
		}
	}
	return out
}
