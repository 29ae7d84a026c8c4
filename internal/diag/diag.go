// Package diag provides the recoverable parse error entries collected in a Program.
package diag

import (
	"fmt"
	"monkey-lang/internal/span"
)

// Stable parse error codes.
const (
	CodeExpectedToken = "E2001" // a required token is missing
	CodeNoPrefix      = "E2002" // no expression can start with the current token
	CodeNotCallable   = "E2003" // call parentheses after a non-callable operand
	CodeIntRange      = "E2004" // integer literal does not fit in 64 bits
)

// Diagnostic is one parse error: a stable code, a message, and where it happened.
type Diagnostic struct {
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Span    span.Span `json:"span"`
}

// String renders the diagnostic as "[code] error at line:col: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] error at %s: %s", d.Code, d.Span.Start, d.Message)
}

// Error lets a Diagnostic travel through error-returning parse helpers.
func (d Diagnostic) Error() string {
	return d.Message
}

// Errorf creates a diagnostic at the given span.
func Errorf(code string, s span.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Span:    s,
	}
}
