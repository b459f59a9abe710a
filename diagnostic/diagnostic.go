// Copyright © 2024 The schym authors

// Package diagnostic renders schym errors as annotated source snippets.
// It only depends on parser/token so any command can use it.
package diagnostic

import (
	"errors"
	"fmt"

	"github.com/schymlang/schym/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityNote
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = detect from source)
	Label  string // text shown under the underline
}

// Diagnostic is a single message with optional source annotations and
// trailing notes.
type Diagnostic struct {
	Severity Severity
	// Title replaces the severity name in the header when set.
	Title   string
	Message string
	Spans   []Span
	Notes   []string
}

// SyntaxErrorTitle heads diagnostics made by FromError for syntax errors.
const SyntaxErrorTitle = "Program error"

// stackTracer is implemented by errors carrying a call stack.
type stackTracer interface {
	StackTrace() []string
}

// FromError converts err to a Diagnostic.  A *token.LocationError becomes a
// syntax error message of the form "msg at line L col C" with a span at the
// reported location.  The frames of an error with a call stack become
// notes.
func FromError(err error) Diagnostic {
	var lerr *token.LocationError
	if !errors.As(err, &lerr) || lerr.Source == nil || lerr.Source.Pos < 0 {
		d := Diagnostic{Severity: SeverityError, Message: err.Error()}
		var st stackTracer
		if errors.As(err, &st) {
			d.Notes = append(d.Notes, st.StackTrace()...)
		}
		return d
	}
	loc := lerr.Source
	d := Diagnostic{
		Severity: SeverityError,
		Title:    SyntaxErrorTitle,
		Message:  fmt.Sprintf("%v at line %d col %d", lerr.Err, loc.Line, loc.Col),
	}
	file := loc.File
	if loc.Path != "" {
		file = loc.Path
	}
	d.Spans = append(d.Spans, Span{File: file, Line: loc.Line, Col: loc.Col, EndCol: loc.Col})
	return d
}
