// Copyright © 2024 The schym authors

package lint

import (
	"fmt"
	"math"

	"github.com/schymlang/schym/astutil"
	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/token"
)

// at returns the best known location of v.
func at(v *lisp.LVal) *token.Location {
	if src := astutil.SourceOf(v); src != nil {
		return src.Source
	}
	return nil
}

// AnalyzerIfArity checks that `if` has a condition, a then branch and at
// most one else branch.
var AnalyzerIfArity = &Analyzer{
	Name:     "if-arity",
	Doc:      "Check that `if` has 2 or 3 arguments.\n\n`if` takes a condition, a then branch and an optional else branch. Extra branches are an error at run time; wrap several forms in `do` instead.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "if" {
				return
			}
			switch argc := astutil.ArgCount(call); {
			case argc < 2:
				pass.Reportf(at(call), "if requires a condition and a then branch (got %d arguments)", argc)
			case argc > 3:
				pass.ReportWithNotes(Diagnostic{
					Pos:     position(call),
					Message: fmt.Sprintf("if accepts at most 3 arguments (condition, then, else), got %d", argc),
				}, "wrap several forms in (do ...)")
			}
		})
		return nil
	},
}

// AnalyzerSetStructure checks `set` targets and the formals of the function
// form of `set`.
var AnalyzerSetStructure = &Analyzer{
	Name:     "set-structure",
	Doc:      "Check for malformed `set` forms.\n\n`set` binds a variable name, so its first argument must be an unquoted variable. With three or more arguments `set` defines a function and its second argument must be a list of variable names.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "set" {
				return
			}
			args := astutil.Args(call)
			if len(args) < 2 {
				pass.Reportf(at(call), "set requires a name and a value (got %d arguments)", len(args))
				return
			}
			if target := args[0]; target.Type != lisp.LVariable {
				if inner := target.Inner(); inner != nil && inner.Type == lisp.LVariable {
					pass.ReportWithNotes(Diagnostic{
						Pos:     position(target),
						Message: "set target must be a variable, got quoted",
					}, fmt.Sprintf("write (set %s ...) without the quote", inner.Str))
				} else {
					pass.Reportf(at(target), "set target must be a variable, got %s", target.Type)
				}
			}
			if len(args) >= 3 {
				checkFormals(pass, "set", args[1])
			}
		})
		return nil
	},
}

// AnalyzerFunStructure checks that `fun` has a formals list of variables
// and a body.
var AnalyzerFunStructure = &Analyzer{
	Name:     "fun-structure",
	Doc:      "Check for malformed `fun` definitions.\n\nA `fun` requires a list of variable names followed by at least one body form. Repeated names shadow each other and are reported too.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "fun" {
				return
			}
			args := astutil.Args(call)
			if len(args) < 2 {
				pass.Reportf(at(call), "fun requires a formals list and a body (got %d arguments)", len(args))
				if len(args) == 0 {
					return
				}
			}
			checkFormals(pass, "fun", args[0])
		})
		return nil
	},
}

func checkFormals(pass *Pass, head string, formals *lisp.LVal) {
	if formals.Type != lisp.LExpr {
		pass.Reportf(at(formals), "%s formals must be a list, got %s", head, formals.Type)
		return
	}
	seen := make(map[string]bool)
	for i, f := range formals.Cells {
		switch {
		case f.Type == lisp.LComment:
		case f.Type != lisp.LVariable:
			pass.Reportf(at(f), "%s formal %d must be a variable, got %s", head, i+1, f.Type)
		case seen[f.Str]:
			pass.Report(Diagnostic{
				Pos:      position(f),
				Message:  fmt.Sprintf("%s formal %s is repeated", head, f.Str),
				Severity: SeverityWarning,
			})
		default:
			seen[f.Str] = true
		}
	}
}

// AnalyzerLetBindings checks the binding list of `let`.
var AnalyzerLetBindings = &Analyzer{
	Name:     "let-bindings",
	Doc:      "Check for malformed `let` binding lists.\n\nThe first argument of `let` is a list whose items are (name value) pairs or forms that evaluate to a two item list. Literal values and quoted lists of the wrong length can never be bindings.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "let" {
				return
			}
			args := astutil.Args(call)
			if len(args) < 2 {
				pass.Reportf(at(call), "let requires bindings and a body (got %d arguments)", len(args))
				if len(args) == 0 {
					return
				}
			}
			bindings := args[0]
			if bindings.Type != lisp.LExpr {
				pass.Reportf(at(bindings), "let bindings must be a list, got %s", bindings.Type)
				return
			}
			for i, b := range bindings.Cells {
				switch b.Type {
				case lisp.LComment:
				case lisp.LExpr:
					if len(b.Cells) == 0 {
						pass.Reportf(at(b), "let binding %d is empty", i+1)
					}
				case lisp.LQuoted:
					if !b.IsList() || len(b.Inner().Cells) != 2 {
						pass.Reportf(at(b), "let binding %d: expected a (name value) pair, got %s", i+1, lisp.Stringify(b, 0))
					}
				case lisp.LNumber, lisp.LString:
					pass.ReportWithNotes(Diagnostic{
						Pos:     position(b),
						Message: fmt.Sprintf("let binding %d is a %s, not a (name value) pair", i+1, b.Type),
					}, "did you forget the outer parentheses?")
				}
			}
		})
		return nil
	},
}

// AnalyzerTimesStructure checks the counter and range of `times`.
var AnalyzerTimesStructure = &Analyzer{
	Name:     "times-structure",
	Doc:      "Check for malformed `times` loops.\n\n`times` takes a counter variable and a (from to) range whose literal bounds must be integers.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "times" {
				return
			}
			args := astutil.Args(call)
			if len(args) < 2 {
				pass.Reportf(at(call), "times requires a counter and a range (got %d arguments)", len(args))
				return
			}
			if args[0].Type != lisp.LVariable {
				pass.Reportf(at(args[0]), "times counter must be a variable, got %s", args[0].Type)
			}
			rng := args[1]
			if inner := rng.Inner(); inner != nil {
				rng = inner
			}
			if rng.Type != lisp.LExpr || len(rng.Cells) != 2 {
				pass.Reportf(at(args[1]), "times range must be a (from to) list")
				return
			}
			for _, bound := range rng.Cells {
				if bound.Type == lisp.LNumber && (bound.Num != math.Trunc(bound.Num) || math.IsInf(bound.Num, 0)) {
					pass.Reportf(at(bound), "times range bounds must be integers, got %s", lisp.FormatNumber(bound.Num))
				}
			}
		})
		return nil
	},
}

// AnalyzerCondStructure checks `cond` clauses.
var AnalyzerCondStructure = &Analyzer{
	Name:     "cond-structure",
	Doc:      "Check for malformed `cond` clauses.\n\nEach clause must be a non-empty list.  Quoted tests other than 'else never match, and only the first 'else clause can be taken.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if astutil.HeadName(call) != "cond" {
				return
			}
			args := astutil.Args(call)
			if len(args) == 0 {
				pass.Reportf(at(call), "cond requires at least one clause")
				return
			}
			hasElse := false
			for i, clause := range args {
				if clause.Type != lisp.LExpr {
					pass.Reportf(at(clause), "cond clause %d is not a list", i+1)
					continue
				}
				if len(clause.Cells) == 0 {
					pass.Reportf(at(clause), "cond clause %d is empty", i+1)
					continue
				}
				test := clause.Cells[0]
				if test.Type != lisp.LQuoted {
					continue
				}
				switch {
				case test.IsQuotedVariable("else") && hasElse:
					pass.Report(Diagnostic{
						Pos:      position(clause),
						Message:  fmt.Sprintf("cond clause %d repeats 'else and is never taken", i+1),
						Severity: SeverityWarning,
					})
				case test.IsQuotedVariable("else"):
					hasElse = true
				default:
					pass.Report(Diagnostic{
						Pos:      position(clause),
						Message:  fmt.Sprintf("cond clause %d has a quoted test and is never taken", i+1),
						Severity: SeverityWarning,
					})
				}
			}
		})
		return nil
	},
}

// AnalyzerBuiltinArity checks argument counts of calls to builtins.
var AnalyzerBuiltinArity = &Analyzer{
	Name:     "builtin-arity",
	Doc:      "Check argument counts for calls to builtin functions.\n\nMost builtins take a fixed number of arguments.  Names the program binds itself are skipped, as are formals lists and other positions that are not calls.",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		userDefs := astutil.UserDefined(pass.Exprs)
		skip := nonCallNodes(pass.Exprs)
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if skip[call] {
				return
			}
			head := astutil.HeadName(call)
			spec, ok := builtinArityTable[head]
			if !ok || userDefs[head] {
				return
			}
			argc := astutil.ArgCount(call)
			if argc < spec.min {
				pass.Reportf(at(call), "%s requires at least %d argument(s), got %d", head, spec.min, argc)
			}
			if spec.max >= 0 && argc > spec.max {
				pass.Reportf(at(call), "%s accepts at most %d argument(s), got %d", head, spec.max, argc)
			}
		})
		return nil
	},
}

// AnalyzerCallLiteral reports expressions whose head is a literal value.
var AnalyzerCallLiteral = &Analyzer{
	Name:     "call-literal",
	Doc:      "Check for calls whose head is a number, string or quoted value.\n\nOnly functions can be called.  A list of data must be quoted as a whole: '(1 2 3) rather than (1 2 3).",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		skip := nonCallNodes(pass.Exprs)
		astutil.WalkCalls(pass.Exprs, func(call *lisp.LVal, _ int) {
			if skip[call] {
				return
			}
			switch head := call.Cells[0]; head.Type {
			case lisp.LNumber, lisp.LString, lisp.LQuoted:
				pass.ReportWithNotes(Diagnostic{
					Pos:     position(call),
					Message: fmt.Sprintf("cannot call a %s", head.Type),
				}, "quote the whole list to make data: '"+lisp.Stringify(call, 0))
			}
		})
		return nil
	},
}

// AnalyzerEmptyCall reports unquoted empty expressions in evaluated
// positions.
var AnalyzerEmptyCall = &Analyzer{
	Name:     "empty-call",
	Doc:      "Check for unquoted () in evaluated positions.\n\nAn empty expression cannot be evaluated.  The empty list is written '().",
	Severity: SeverityError,
	Run: func(pass *Pass) error {
		skip := nonCallNodes(pass.Exprs)
		astutil.Walk(pass.Exprs, func(node, _ *lisp.LVal, _ int) {
			if node.Type != lisp.LExpr || len(node.Cells) != 0 || skip[node] {
				return
			}
			pass.ReportWithNotes(Diagnostic{
				Pos:     position(node),
				Message: "empty expression cannot be evaluated",
			}, "write '() for the empty list")
		})
		return nil
	},
}

// nonCallNodes returns the expressions that builtins read as syntax rather
// than evaluate: formals lists, let binding lists and literal pairs, times
// ranges and cond clauses.
func nonCallNodes(exprs []*lisp.LVal) map[*lisp.LVal]bool {
	skip := make(map[*lisp.LVal]bool)
	astutil.WalkCalls(exprs, func(call *lisp.LVal, _ int) {
		args := astutil.Args(call)
		switch astutil.HeadName(call) {
		case "fun":
			if len(args) >= 1 {
				skip[args[0]] = true
			}
		case "set":
			if len(args) >= 3 {
				skip[args[1]] = true
			}
		case "let":
			if len(args) >= 1 && args[0].Type == lisp.LExpr {
				skip[args[0]] = true
				for _, b := range args[0].Cells {
					if b.Type == lisp.LExpr && len(b.Cells) == 2 && b.Cells[0].Type == lisp.LVariable {
						skip[b] = true
					}
				}
			}
		case "times":
			if len(args) >= 2 {
				skip[args[1]] = true
			}
		case "cond":
			for _, clause := range args {
				skip[clause] = true
			}
		}
	})
	return skip
}

// aritySpec is the allowed argument count of a builtin.  max == -1 means
// any number.
type aritySpec struct {
	min int
	max int
}

// builtinArityTable covers the prelude builtins with a checked argument
// count.  if, set, fun, let, times and cond have their own analyzers.
var builtinArityTable = map[string]aritySpec{
	"do":        {1, -1},
	"eval":      {1, 1},
	"assert":    {1, 1},
	"car":       {1, 1},
	"cdr":       {1, 1},
	"append":    {2, 2},
	"cons":      {2, 2},
	"null?":     {1, 1},
	"+":         {2, -1},
	"-":         {2, -1},
	"*":         {2, -1},
	"/":         {2, -1},
	"^":         {2, -1},
	"%":         {2, -1},
	"==":        {2, 2},
	"!=":        {2, 2},
	"<":         {2, 2},
	">":         {2, 2},
	"<=":        {2, 2},
	">=":        {2, 2},
	"and":       {2, -1},
	"or":        {2, -1},
	"input":     {0, 0},
	"load":      {1, 1},
	"streq":     {2, 2},
	"to-number": {1, 1},
	"to-string": {1, 1},
}

func position(v *lisp.LVal) Position {
	loc := at(v)
	if loc == nil {
		return Position{}
	}
	return Position{File: loc.File, Line: loc.Line, Col: loc.Col}
}
