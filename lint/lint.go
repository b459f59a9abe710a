// Copyright © 2024 The schym authors

// Package lint reports likely mistakes in schym source files.
//
// The linter is modeled after go vet: each check is an independent Analyzer
// that receives the parsed program and reports diagnostics.  The Linter
// parses the source, runs the analyzers and collects their findings.
// Embedders can run their own analyzers alongside the built-in set.
package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/rdparser"
	"github.com/schymlang/schym/parser/token"
)

// Severity indicates the severity level of a lint diagnostic.
type Severity int

const (
	severityUnset Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes the severity as a JSON string.  An unset severity
// is marshaled as "warning".
func (s Severity) MarshalJSON() ([]byte, error) {
	if s == severityUnset {
		return json.Marshal("warning")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON deserializes a severity from a JSON string.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "info":
		*s = SeverityInfo
	default:
		return fmt.Errorf("unknown severity: %q", str)
	}
	return nil
}

// Analyzer defines a single lint check.
type Analyzer struct {
	// Name is a short identifier for the check (e.g. "if-arity").
	Name string

	// Doc describes the check.  The first line is a short summary.
	Doc string

	// Severity is the default severity of the check's diagnostics.
	Severity Severity

	// Run executes the check, calling pass.Report for each finding.
	Run func(pass *Pass) error
}

// Pass provides context to a running analyzer.
type Pass struct {
	Analyzer *Analyzer
	Filename string

	// Exprs are the top-level parsed expressions.
	Exprs []*lisp.LVal

	diagnostics []Diagnostic
}

// Report records a diagnostic.
func (p *Pass) Report(d Diagnostic) {
	d.Analyzer = p.Analyzer.Name
	if d.Severity == severityUnset {
		d.Severity = p.Analyzer.Severity
	}
	p.diagnostics = append(p.diagnostics, d)
}

// ReportWithNotes records a diagnostic with additional hint text.
func (p *Pass) ReportWithNotes(d Diagnostic, notes ...string) {
	d.Notes = append(d.Notes, notes...)
	p.Report(d)
}

// Reportf reports a diagnostic at source.
func (p *Pass) Reportf(source *token.Location, format string, args ...interface{}) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
	}
	if source != nil {
		d.Pos = Position{File: source.File, Line: source.Line, Col: source.Col}
	}
	p.Report(d)
}

// Diagnostic is a single reported problem.
type Diagnostic struct {
	Pos      Position `json:"pos"`
	Message  string   `json:"message"`
	Analyzer string   `json:"analyzer"`
	Severity Severity `json:"severity"`
	Notes    []string `json:"notes,omitempty"`
}

// Position identifies a location in source code.
type Position struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Col  int    `json:"col,omitempty"`
}

func (p Position) String() string {
	if p.Line == 0 {
		return p.File
	}
	if p.Col > 0 {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// String returns the diagnostic in go vet style, "file:line:col: message
// (analyzer)", followed by any notes.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%s: %s (%s)", d.Pos, d.Message, d.Analyzer)
	for _, n := range d.Notes {
		s += "\n  = note: " + n
	}
	return s
}

// Linter runs a set of analyzers over source files.
type Linter struct {
	Analyzers []*Analyzer
}

// LintFile analyzes a single source file and returns its diagnostics
// sorted by position.  A syntax error stops analysis and is returned.
func (l *Linter) LintFile(source []byte, filename string) ([]Diagnostic, error) {
	exprs, err := rdparser.ParseProgram(filename, string(source))
	if err != nil {
		return nil, err
	}

	var all []Diagnostic
	for _, analyzer := range l.Analyzers {
		pass := &Pass{
			Analyzer: analyzer,
			Filename: filename,
			Exprs:    exprs,
		}
		if err := analyzer.Run(pass); err != nil {
			return nil, fmt.Errorf("%s: analyzer %s: %w", filename, analyzer.Name, err)
		}
		for i := range pass.diagnostics {
			if pass.diagnostics[i].Pos.File == "" {
				pass.diagnostics[i].Pos.File = filename
			}
		}
		all = append(all, pass.diagnostics...)
	}

	all = filterSuppressed(all, nolintLines(string(source)))

	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i].Pos, all[j].Pos
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Col < b.Col
	})
	return all, nil
}

// filterSuppressed removes diagnostics on lines with a nolint comment.
// directives maps a line to "" (suppress everything) or a comma separated
// list of analyzer names.
func filterSuppressed(diags []Diagnostic, directives map[int]string) []Diagnostic {
	var filtered []Diagnostic
	for _, d := range diags {
		directive, ok := directives[d.Pos.Line]
		if !ok {
			filtered = append(filtered, d)
			continue
		}
		if directive == "" {
			continue
		}
		suppressed := false
		for _, name := range strings.Split(directive, ",") {
			if strings.TrimSpace(name) == d.Analyzer {
				suppressed = true
				break
			}
		}
		if !suppressed {
			filtered = append(filtered, d)
		}
	}
	return filtered
}

// nolintLines finds "; nolint" and "; nolint:a,b" comments in source.  The
// parser drops comments between top level expressions, so the source text
// is scanned directly.  Strings have no escapes and never span lines.
func nolintLines(source string) map[int]string {
	lines := make(map[int]string)
	for i, line := range strings.Split(source, "\n") {
		text, ok := lineComment(line)
		if !ok {
			continue
		}
		text = strings.TrimSpace(strings.TrimLeft(text, ";"))
		if !strings.HasPrefix(text, "nolint") {
			continue
		}
		rest := strings.TrimPrefix(text, "nolint")
		switch {
		case rest == "":
			lines[i+1] = ""
		case strings.HasPrefix(rest, ":"):
			lines[i+1] = strings.TrimPrefix(rest, ":")
		}
	}
	return lines
}

// lineComment returns the comment text starting at the first ';' outside
// a string literal.
func lineComment(line string) (string, bool) {
	inString := false
	for i := 0; i < len(line); i++ {
		switch c := line[i]; {
		case c == '"':
			inString = !inString
		case !inString && c == ';':
			return line[i:], true
		}
	}
	return "", false
}

// FormatText writes diagnostics in go vet text format.
func FormatText(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String()) //nolint:errcheck // best-effort output
	}
}

// FormatJSON writes diagnostics as JSON.
func FormatJSON(w io.Writer, diags []Diagnostic) error {
	if diags == nil {
		diags = []Diagnostic{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diags)
}

// DefaultAnalyzers returns the built-in set of lint checks.
func DefaultAnalyzers() []*Analyzer {
	return []*Analyzer{
		AnalyzerIfArity,
		AnalyzerSetStructure,
		AnalyzerFunStructure,
		AnalyzerLetBindings,
		AnalyzerTimesStructure,
		AnalyzerCondStructure,
		AnalyzerBuiltinArity,
		AnalyzerCallLiteral,
		AnalyzerEmptyCall,
	}
}

// SelectAnalyzers returns the default analyzers named in names, in
// default order.  An unknown name is an error.
func SelectAnalyzers(names []string) ([]*Analyzer, error) {
	selected := make(map[string]bool, len(names))
	for _, name := range names {
		selected[strings.TrimSpace(name)] = true
	}
	var out []*Analyzer
	for _, a := range DefaultAnalyzers() {
		if selected[a.Name] {
			out = append(out, a)
			delete(selected, a.Name)
		}
	}
	for name := range selected {
		return nil, fmt.Errorf("unknown check: %s", name)
	}
	return out, nil
}

// AnalyzerNames returns the sorted names of the default analyzers.
func AnalyzerNames() []string {
	analyzers := DefaultAnalyzers()
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	sort.Strings(names)
	return names
}

// AnalyzerDoc returns a summary of every default analyzer.
func AnalyzerDoc() string {
	var b strings.Builder
	for _, a := range DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %s\n", a.Name)
		summary, _, _ := strings.Cut(a.Doc, "\n")
		fmt.Fprintf(&b, "    %s\n\n", summary)
	}
	return b.String()
}
