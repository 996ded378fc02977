package models

import (
	"errors"
	"fmt"
)

type DiagnosticKind string

const (
	KindConfiguration  DiagnosticKind = "configuration"
	KindAuthentication DiagnosticKind = "authentication"
	KindTransport      DiagnosticKind = "transport"
	KindMalformed      DiagnosticKind = "malformed_response"
	KindBusinessRule   DiagnosticKind = "business_rule"
)

// Diagnostic is a non-fatal, human readable failure attached to an operation result.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind" yaml:"kind"`
	Message string         `json:"message" yaml:"message"`
}

func (d Diagnostic) Error() string {
	return d.Message
}

func Diagnosticf(kind DiagnosticKind, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// AsDiagnostic converts err into a Diagnostic. Errors that are not already
// diagnostics are classified as transport failures.
func AsDiagnostic(err error) Diagnostic {
	var d Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return Diagnostic{Kind: KindTransport, Message: err.Error()}
}

// Messages flattens diagnostics into their messages, preserving order.
func Messages(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Message)
	}
	return out
}
