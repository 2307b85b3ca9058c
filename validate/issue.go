package validate

import "fmt"

// Severity classifies a validation issue.
type Severity uint8

const (
	// SeverityWarning marks an advisory issue; compilation may proceed.
	SeverityWarning Severity = iota
	// SeverityError marks a blocking issue; compilation must refuse to
	// proceed while any exists.
	SeverityError
)

// String returns a human-readable name for the severity.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Issue is a single validation finding.
type Issue struct {
	// Code is the stable machine-readable issue code.
	Code string
	// Severity classifies the issue.
	Severity Severity
	// Path is a path-like locator of the offending element, e.g.
	// "anim(ref).layers[2].masksProperties[0].mode".
	Path string
	// Message is a human-readable description.
	Message string
}

// String formats the issue for logs.
func (i Issue) String() string {
	return fmt.Sprintf("%s %s at %s: %s", i.Severity, i.Code, i.Path, i.Message)
}

// Report is the complete result of validating one document.
type Report struct {
	Issues []Issue
}

// add appends an issue to the report.
func (r *Report) add(sev Severity, code, path, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{
		Code:     code,
		Severity: sev,
		Path:     path,
		Message:  fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any error-severity issue exists.
func (r *Report) HasErrors() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns the error-severity issues.
func (r *Report) Errors() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			out = append(out, i)
		}
	}
	return out
}

// Warnings returns the warning-severity issues.
func (r *Report) Warnings() []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityWarning {
			out = append(out, i)
		}
	}
	return out
}
