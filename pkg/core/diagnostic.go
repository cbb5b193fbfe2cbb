package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/leapstack-labs/tsqlscript/pkg/token"
)

// =============================================================================
// Diagnostics
// =============================================================================

// DiagnosticKind classifies a diagnostic.
type DiagnosticKind int

// Diagnostic kinds.
const (
	// KindLexical is an unterminated literal, identifier or comment, or an invalid character.
	KindLexical DiagnosticKind = iota
	// KindSyntax is a token the grammar did not expect.
	KindSyntax
)

// String returns the string representation of the kind.
func (k DiagnosticKind) String() string {
	switch k {
	case KindLexical:
		return "lexical"
	case KindSyntax:
		return "syntax"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Diagnostic is a problem found while lexing or parsing.
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Message string         `json:"message"`
	Offset  int            `json:"offset"` // 0-based byte offset into the input
	Pos     token.Position `json:"-"`
}

// String renders the diagnostic as its message followed by an offset line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s\noffset %d", d.Message, d.Offset)
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Sort orders the diagnostics by ascending offset, keeping the discovery
// order of diagnostics at the same offset.
func (ds Diagnostics) Sort() {
	sort.SliceStable(ds, func(i, j int) bool {
		return ds[i].Offset < ds[j].Offset
	})
}

// HasErrors reports whether any diagnostic is present.
func (ds Diagnostics) HasErrors() bool {
	return len(ds) > 0
}

// String renders every diagnostic, one message line and one offset line each.
func (ds Diagnostics) String() string {
	var sb strings.Builder
	for i, d := range ds {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}

// Err returns the diagnostics as an error, or nil when there are none.
func (ds Diagnostics) Err() error {
	if len(ds) == 0 {
		return nil
	}
	return &DiagnosticError{Diagnostics: ds}
}

// DiagnosticError is the aggregated report returned when a script does not parse.
type DiagnosticError struct {
	Diagnostics Diagnostics
}

func (e *DiagnosticError) Error() string {
	return e.Diagnostics.String()
}
