package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents the category of error surfaced by the engine.
type ErrorType string

const (
	ErrorTypeNotFound      ErrorType = "NotFound"
	ErrorTypeInvalidFormat ErrorType = "InvalidFormat"
	ErrorTypePermission    ErrorType = "PermissionDenied"
	ErrorTypeAmbiguousName ErrorType = "AmbiguousName"
)

// CatalogError is a user-facing error with actionable guidance. Ambiguous
// name errors additionally carry the candidate ids so callers can present
// them instead of silently picking one.
type CatalogError struct {
	Type       ErrorType
	Message    string
	Cause      string
	Solutions  []string
	Candidates []string
}

// Error implements the error interface.
func (e *CatalogError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)
	if e.Cause != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Cause)
	}
	if len(e.Candidates) > 0 {
		sb.WriteString(" (candidates: ")
		sb.WriteString(strings.Join(e.Candidates, ", "))
		sb.WriteString(")")
	}
	return sb.String()
}

// Format implements fmt.Formatter; %+v includes the error type.
func (e *CatalogError) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, e.Error())
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "[%s] %s", e.Type, e.Error())
		} else {
			fmt.Fprint(f, e.Error())
		}
	}
}

// New creates a new CatalogError.
func New(errType ErrorType, message string) *CatalogError {
	return &CatalogError{Type: errType, Message: message}
}

// WithCause adds cause information.
func (e *CatalogError) WithCause(cause string) *CatalogError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps.
func (e *CatalogError) WithSolutions(solutions ...string) *CatalogError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithCandidates records the catalog ids a name resolved to.
func (e *CatalogError) WithCandidates(ids ...string) *CatalogError {
	e.Candidates = append(e.Candidates, ids...)
	return e
}

// NotFound builds the error for a missing snapshot file or data view.
func NotFound(what string) *CatalogError {
	return New(ErrorTypeNotFound, "not found: "+what).
		WithSolutions("Check the path or data view id", "Run 'metriclens list' to see stored snapshots")
}

// InvalidFormat builds the error for syntactically valid content that lacks
// the minimal snapshot keys.
func InvalidFormat(path, reason string) *CatalogError {
	return New(ErrorTypeInvalidFormat, "invalid snapshot format: "+path).
		WithCause(reason).
		WithSolutions("Verify the file is a metriclens snapshot export")
}

// PermissionDenied builds the error for a filesystem permission failure.
func PermissionDenied(op, path string) *CatalogError {
	return New(ErrorTypePermission, "permission denied: cannot "+op+" "+path).
		WithSolutions("Check file ownership and permissions")
}

// AmbiguousName builds the error for a name that resolved to more than one
// catalog id.
func AmbiguousName(name string, ids []string) *CatalogError {
	return New(ErrorTypeAmbiguousName, "ambiguous name: "+name).
		WithCandidates(ids...).
		WithSolutions("Use the exact catalog id instead of the name")
}

// IsType reports whether err is a CatalogError of the given type.
func IsType(err error, errType ErrorType) bool {
	var ce *CatalogError
	if stderrors.As(err, &ce) {
		return ce.Type == errType
	}
	return false
}

// IsNotFound reports whether err represents a missing file or data view.
func IsNotFound(err error) bool { return IsType(err, ErrorTypeNotFound) }

// IsInvalidFormat reports whether err represents malformed snapshot content.
func IsInvalidFormat(err error) bool { return IsType(err, ErrorTypeInvalidFormat) }

// IsPermissionDenied reports whether err represents a filesystem permission failure.
func IsPermissionDenied(err error) bool { return IsType(err, ErrorTypePermission) }

// IsAmbiguousName reports whether err represents an ambiguous name resolution.
func IsAmbiguousName(err error) bool { return IsType(err, ErrorTypeAmbiguousName) }
