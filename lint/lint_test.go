// Copyright © 2024 The schym authors

package lint

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lintSource runs all default analyzers on source.
func lintSource(t *testing.T, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: DefaultAnalyzers()}
	diags, err := l.LintFile([]byte(source), "test.schym")
	require.NoError(t, err)
	return diags
}

// lintCheck runs a single analyzer on source.
func lintCheck(t *testing.T, analyzer *Analyzer, source string) []Diagnostic {
	t.Helper()
	l := &Linter{Analyzers: []*Analyzer{analyzer}}
	diags, err := l.LintFile([]byte(source), "test.schym")
	require.NoError(t, err)
	return diags
}

func messages(diags []Diagnostic) []string {
	var msgs []string
	for _, d := range diags {
		msgs = append(msgs, d.Message)
	}
	return msgs
}

func TestPositionString(t *testing.T) {
	assert.Equal(t, "f.schym", Position{File: "f.schym"}.String())
	assert.Equal(t, "f.schym:3", Position{File: "f.schym", Line: 3}.String())
	assert.Equal(t, "f.schym:3:7", Position{File: "f.schym", Line: 3, Col: 7}.String())
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Pos:      Position{File: "f.schym", Line: 1, Col: 2},
		Message:  "bad",
		Analyzer: "check",
		Notes:    []string{"try this"},
	}
	assert.Equal(t, "f.schym:1:2: bad (check)\n  = note: try this", d.String())
}

func TestIfArity(t *testing.T) {
	diags := lintCheck(t, AnalyzerIfArity, `(if 1)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "if requires a condition and a then branch (got 1 arguments)", diags[0].Message)
	assert.Equal(t, "test.schym:1:1", diags[0].Pos.String())
	assert.Equal(t, "if-arity", diags[0].Analyzer)
	assert.Equal(t, SeverityError, diags[0].Severity)

	diags = lintCheck(t, AnalyzerIfArity, `(if 1 2 3 4)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "if accepts at most 3 arguments (condition, then, else), got 4", diags[0].Message)
	assert.Equal(t, []string{"wrap several forms in (do ...)"}, diags[0].Notes)

	diags = lintCheck(t, AnalyzerIfArity, `(do (if (== 1 1)))`)
	require.Len(t, diags, 1)
	assert.Equal(t, 5, diags[0].Pos.Col)

	assert.Empty(t, lintCheck(t, AnalyzerIfArity, `(if 1 2 3) (if 0 2)`))
	assert.Empty(t, lintCheck(t, AnalyzerIfArity, `(print '(if))`))
}

func TestSetStructure(t *testing.T) {
	diags := lintCheck(t, AnalyzerSetStructure, `(set 'x 1)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "set target must be a variable, got quoted", diags[0].Message)
	assert.Equal(t, []string{"write (set x ...) without the quote"}, diags[0].Notes)
	assert.Equal(t, 6, diags[0].Pos.Col)

	assert.Equal(t, []string{"set target must be a variable, got number"},
		messages(lintCheck(t, AnalyzerSetStructure, `(set 1 2)`)))
	assert.Equal(t, []string{"set formal 2 must be a variable, got number"},
		messages(lintCheck(t, AnalyzerSetStructure, `(set f (a 1) a)`)))
	assert.Equal(t, []string{"set requires a name and a value (got 1 arguments)"},
		messages(lintCheck(t, AnalyzerSetStructure, `(set x)`)))

	assert.Empty(t, lintCheck(t, AnalyzerSetStructure, "(set x 1)\n(set f (a b) (+ a b))"))
}

func TestFunStructure(t *testing.T) {
	assert.Equal(t, []string{"fun requires a formals list and a body (got 1 arguments)"},
		messages(lintCheck(t, AnalyzerFunStructure, `(fun (x))`)))
	assert.Equal(t, []string{"fun formals must be a list, got variable"},
		messages(lintCheck(t, AnalyzerFunStructure, `(fun x x)`)))
	assert.Equal(t, []string{"fun requires a formals list and a body (got 0 arguments)"},
		messages(lintCheck(t, AnalyzerFunStructure, `(fun)`)))

	diags := lintCheck(t, AnalyzerFunStructure, `(fun (x x) x)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "fun formal x is repeated", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, 9, diags[0].Pos.Col)

	assert.Empty(t, lintCheck(t, AnalyzerFunStructure, `(set f (fun () 1)) (set g (fun (a b) (+ a b)))`))
}

func TestLetBindings(t *testing.T) {
	diags := lintCheck(t, AnalyzerLetBindings, `(let (x 1) x)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "let binding 2 is a number, not a (name value) pair", diags[0].Message)
	assert.Equal(t, []string{"did you forget the outer parentheses?"}, diags[0].Notes)

	assert.Equal(t, []string{"let binding 1 is empty"},
		messages(lintCheck(t, AnalyzerLetBindings, `(let (()) 1)`)))
	assert.Equal(t, []string{"let binding 1: expected a (name value) pair, got '(x 1 2)"},
		messages(lintCheck(t, AnalyzerLetBindings, `(let ('(x 1 2)) x)`)))
	assert.Equal(t, []string{"let bindings must be a list, got variable"},
		messages(lintCheck(t, AnalyzerLetBindings, `(let x 1)`)))
	assert.Equal(t, []string{"let requires bindings and a body (got 1 arguments)"},
		messages(lintCheck(t, AnalyzerLetBindings, `(let ((x 1)))`)))

	assert.Empty(t, lintCheck(t, AnalyzerLetBindings, `(let ((x 1) '(y 2) (list 'z 3)) x)`))
	assert.Empty(t, lintCheck(t, AnalyzerLetBindings, `(let () 1)`))
}

func TestTimesStructure(t *testing.T) {
	assert.Equal(t, []string{"times counter must be a variable, got quoted"},
		messages(lintCheck(t, AnalyzerTimesStructure, `(times 'i (0 3) 1)`)))
	assert.Equal(t, []string{"times range must be a (from to) list"},
		messages(lintCheck(t, AnalyzerTimesStructure, `(times i (0) 1)`)))
	assert.Equal(t, []string{"times range bounds must be integers, got 2.5"},
		messages(lintCheck(t, AnalyzerTimesStructure, `(times i (0 2.5) 1)`)))
	assert.Equal(t, []string{"times requires a counter and a range (got 1 arguments)"},
		messages(lintCheck(t, AnalyzerTimesStructure, `(times i)`)))

	assert.Empty(t, lintCheck(t, AnalyzerTimesStructure, `(times i (0 3) (print i)) (times j '(0 n))`))
}

func TestCondStructure(t *testing.T) {
	assert.Equal(t, []string{"cond requires at least one clause"},
		messages(lintCheck(t, AnalyzerCondStructure, `(cond)`)))
	assert.Equal(t, []string{"cond clause 1 is not a list"},
		messages(lintCheck(t, AnalyzerCondStructure, `(cond 1)`)))
	assert.Equal(t, []string{"cond clause 1 is empty"},
		messages(lintCheck(t, AnalyzerCondStructure, `(cond ())`)))

	diags := lintCheck(t, AnalyzerCondStructure, `(cond ('else 1) ('else 2))`)
	require.Len(t, diags, 1)
	assert.Equal(t, "cond clause 2 repeats 'else and is never taken", diags[0].Message)
	assert.Equal(t, SeverityWarning, diags[0].Severity)

	assert.Equal(t, []string{"cond clause 1 has a quoted test and is never taken"},
		messages(lintCheck(t, AnalyzerCondStructure, `(cond ('other 1) ((== 1 1) 2))`)))

	assert.Empty(t, lintCheck(t, AnalyzerCondStructure, `(cond ((== x 1) "one") ('else "other"))`))
}

func TestBuiltinArity(t *testing.T) {
	assert.Equal(t, []string{"car accepts at most 1 argument(s), got 2"},
		messages(lintCheck(t, AnalyzerBuiltinArity, `(car '(1) '(2))`)))
	assert.Equal(t, []string{"+ requires at least 2 argument(s), got 1"},
		messages(lintCheck(t, AnalyzerBuiltinArity, `(+ 1)`)))
	assert.Equal(t, []string{"input accepts at most 0 argument(s), got 1"},
		messages(lintCheck(t, AnalyzerBuiltinArity, `(input "prompt")`)))

	// Names the program binds are not builtins any more.
	assert.Empty(t, lintCheck(t, AnalyzerBuiltinArity, "(set car (x y) x)\n(car 1 2)"))
	assert.Empty(t, lintCheck(t, AnalyzerBuiltinArity, `(set f (fun (cons) cons))`))
	assert.Empty(t, lintCheck(t, AnalyzerBuiltinArity, `(print) (concat) (list) (input)`))
	assert.Empty(t, lintCheck(t, AnalyzerBuiltinArity, `(print '(car 1 2 3))`))
}

func TestArityTableNamesPreludeBuiltins(t *testing.T) {
	env, err := lisp.NewRootEnv(true)
	require.NoError(t, err)
	for name := range builtinArityTable {
		assert.NotNil(t, env.Runtime.Registry.Find(name), name)
	}
}

func TestCallLiteral(t *testing.T) {
	diags := lintCheck(t, AnalyzerCallLiteral, `(1 2 3)`)
	require.Len(t, diags, 1)
	assert.Equal(t, "cannot call a number", diags[0].Message)
	assert.Equal(t, []string{"quote the whole list to make data: '(1 2 3)"}, diags[0].Notes)

	assert.Equal(t, []string{"cannot call a quoted"},
		messages(lintCheck(t, AnalyzerCallLiteral, `('f 1)`)))
	assert.Equal(t, []string{"cannot call a string"},
		messages(lintCheck(t, AnalyzerCallLiteral, `(print ("a" 1))`)))

	assert.Empty(t, lintCheck(t, AnalyzerCallLiteral, `(cond (1 2)) (times i (0 3) i) (print '(1 2))`))
}

func TestEmptyCall(t *testing.T) {
	diags := lintCheck(t, AnalyzerEmptyCall, `(print ())`)
	require.Len(t, diags, 1)
	assert.Equal(t, "empty expression cannot be evaluated", diags[0].Message)
	assert.Equal(t, "test.schym:1:8", diags[0].Pos.String())

	assert.Len(t, lintCheck(t, AnalyzerEmptyCall, `()`), 1)
	assert.Empty(t, lintCheck(t, AnalyzerEmptyCall, `(set f (fun () 1)) (print '()) (let () 1) (set g () 2)`))
}

func TestDefaultAnalyzersCleanProgram(t *testing.T) {
	src := `; factorial
(set fact (n)
  (if (<= n 1)
    1
    (* n (fact (- n 1)))))
(let ((x (fact 5)) '(y 2))
  (cond
    ((== x 120) (print "ok" y))
    ('else (print "bad"))))
(times i (0 3) (print (to-string i)))
`
	assert.Empty(t, lintSource(t, src))
}

func TestDiagnosticsSorted(t *testing.T) {
	diags := lintSource(t, "(do (if 1)\n  (1 2))\n(car)")
	require.Len(t, diags, 3)
	assert.Equal(t, "test.schym:1:5", diags[0].Pos.String())
	assert.Equal(t, "if-arity", diags[0].Analyzer)
	assert.Equal(t, "test.schym:2:3", diags[1].Pos.String())
	assert.Equal(t, "call-literal", diags[1].Analyzer)
	assert.Equal(t, "test.schym:3:1", diags[2].Pos.String())
	assert.Equal(t, "car requires at least 1 argument(s), got 0", diags[2].Message)
}

func TestNolint(t *testing.T) {
	assert.Empty(t, lintSource(t, `(if 1) ; nolint`))
	assert.Empty(t, lintSource(t, `(if 1) ;nolint:if-arity`))
	assert.Empty(t, lintSource(t, `(if 1) ; nolint:call-literal,if-arity`))
	assert.Len(t, lintSource(t, `(if 1) ; nolint:call-literal`), 1)
	assert.Len(t, lintSource(t, `(print "; nolint") (if 1)`), 1)

	diags := lintSource(t, "(do\n  (if 1) ; nolint\n  (if 2))")
	require.Len(t, diags, 1)
	assert.Equal(t, 3, diags[0].Pos.Line)
}

func TestLintFileErrors(t *testing.T) {
	l := &Linter{Analyzers: DefaultAnalyzers()}
	_, err := l.LintFile([]byte("(print"), "test.schym")
	require.Error(t, err)
	loc, ok := token.Locate(err)
	require.True(t, ok)
	assert.Equal(t, 7, loc.Col)

	boom := &Analyzer{
		Name: "boom",
		Run:  func(*Pass) error { return errors.New("failed") },
	}
	l = &Linter{Analyzers: []*Analyzer{boom}}
	_, err = l.LintFile([]byte("(print 1)"), "test.schym")
	assert.EqualError(t, err, "test.schym: analyzer boom: failed")
}

func TestReportDefaults(t *testing.T) {
	custom := &Analyzer{
		Name: "custom",
		Run: func(pass *Pass) error {
			pass.Reportf(nil, "first form is %s", pass.Exprs[0])
			return nil
		},
	}
	l := &Linter{Analyzers: []*Analyzer{custom}}
	diags, err := l.LintFile([]byte("(print 1)"), "test.schym")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "test.schym", diags[0].Pos.File)
	assert.Equal(t, "first form is (print 1)", diags[0].Message)
	assert.Equal(t, "custom", diags[0].Analyzer)
}

func TestFormat(t *testing.T) {
	diags := lintSource(t, `(if 1)`)

	var text bytes.Buffer
	FormatText(&text, diags)
	assert.Equal(t, "test.schym:1:1: if requires a condition and a then branch (got 1 arguments) (if-arity)\n", text.String())

	var js bytes.Buffer
	require.NoError(t, FormatJSON(&js, diags))
	assert.Contains(t, js.String(), `"severity": "error"`)
	assert.Contains(t, js.String(), `"analyzer": "if-arity"`)
	assert.Contains(t, js.String(), `"line": 1`)

	js.Reset()
	require.NoError(t, FormatJSON(&js, nil))
	assert.Equal(t, "[]\n", js.String())
}

func TestSeverityJSON(t *testing.T) {
	b, err := Severity(0).MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"warning"`, string(b))

	var s Severity
	require.NoError(t, s.UnmarshalJSON([]byte(`"info"`)))
	assert.Equal(t, SeverityInfo, s)
	assert.EqualError(t, s.UnmarshalJSON([]byte(`"fatal"`)), `unknown severity: "fatal"`)
}

func TestSelectAnalyzers(t *testing.T) {
	analyzers, err := SelectAnalyzers([]string{"cond-structure", " if-arity"})
	require.NoError(t, err)
	require.Len(t, analyzers, 2)
	assert.Same(t, AnalyzerIfArity, analyzers[0])
	assert.Same(t, AnalyzerCondStructure, analyzers[1])

	_, err = SelectAnalyzers([]string{"if-arity", "nope"})
	assert.EqualError(t, err, "unknown check: nope")
}

func TestAnalyzerDocs(t *testing.T) {
	names := AnalyzerNames()
	assert.Len(t, names, len(DefaultAnalyzers()))
	assert.Equal(t, "builtin-arity", names[0])
	doc := AnalyzerDoc()
	assert.Contains(t, doc, "  if-arity\n    Check that `if` has 2 or 3 arguments.\n\n")
	for _, a := range DefaultAnalyzers() {
		assert.True(t, strings.Contains(doc, a.Name), a.Name)
		assert.NotEmpty(t, a.Doc, a.Name)
	}
}
