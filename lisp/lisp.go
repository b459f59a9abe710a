// Copyright © 2024 The schym authors

package lisp

import (
	"github.com/schymlang/schym/parser/token"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LQuoted values protect the value stored in LVal.Cells[0] from
	// evaluation.
	LQuoted
	// LExpr values store their items in LVal.Cells.  An unquoted LExpr is a
	// function call.
	LExpr
	// LVariable values store the name they reference in LVal.Str.
	LVariable
	// LString values store their contents in LVal.Str.
	LString
	// LNumber values store a float64 in LVal.Num.
	LNumber
	// LComment values store the comment text in LVal.Str.  They evaluate to
	// nothing.
	LComment
	// LFun values are only created during evaluation and use the
	// following fields:
	//		LVal.Native   an *LFunData
	//
	// Closures also use LVal.Cells:
	//		[0]  an LExpr of LVariable formals
	//		[1]  the body, an LExpr whose first item is the variable do
	LFun
	// LTypeMax is not a real type.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid:  "INVALID",
	LQuoted:   "quoted",
	LExpr:     "expression",
	LVariable: "variable",
	LString:   "string",
	LNumber:   "number",
	LComment:  "comment",
	LFun:      "function",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LBuiltin is a native function.  It receives the caller's scope, the name
// it was invoked by and its arguments unevaluated.
type LBuiltin func(env *LEnv, name string, args []*LVal) Result

// LFunData holds the part of a function value that is not syntax.
type LFunData struct {
	// Name is the registry name of a native function.  Closures leave it
	// empty.
	Name    string
	Builtin LBuiltin
	// Env is the scope captured by a closure.  It is shared, never copied.
	Env *LEnv
}

// LVal is a node in a schym syntax tree and the value type of the
// evaluator.  The nil *LVal means "no value".
type LVal struct {
	Type   LType
	Str    string
	Num    float64
	Cells  []*LVal
	Native *LFunData

	// Source is where the parser found the value.  It is nil for values
	// created during evaluation.
	Source *token.Location
}

// Quote returns v protected from evaluation.
func Quote(v *LVal) *LVal {
	return &LVal{Type: LQuoted, Cells: []*LVal{v}}
}

// Expr returns an expression containing cells.
func Expr(cells ...*LVal) *LVal {
	if cells == nil {
		cells = []*LVal{}
	}
	return &LVal{Type: LExpr, Cells: cells}
}

// List returns quoted expression data, the list type of the list builtins.
func List(cells ...*LVal) *LVal {
	return Quote(Expr(cells...))
}

// Variable returns a reference to name.
func Variable(name string) *LVal {
	return &LVal{Type: LVariable, Str: name}
}

// String returns a string value.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Number returns a numeric value.
func Number(x float64) *LVal {
	return &LVal{Type: LNumber, Num: x}
}

// Bool returns the number 1 when b is true and 0 otherwise.
func Bool(b bool) *LVal {
	if b {
		return Number(1)
	}
	return Number(0)
}

// Comment returns a comment containing text.
func Comment(text string) *LVal {
	return &LVal{Type: LComment, Str: text}
}

// Native wraps a builtin function registered as name.
func Native(name string, fn LBuiltin) *LVal {
	return &LVal{Type: LFun, Native: &LFunData{Name: name, Builtin: fn}}
}

// Closure returns a function with the given formals and body forms which
// captures env.
func Closure(env *LEnv, formals *LVal, body []*LVal) *LVal {
	do := make([]*LVal, 0, len(body)+1)
	do = append(do, Variable("do"))
	for _, form := range body {
		do = append(do, form.Copy())
	}
	return &LVal{
		Type:   LFun,
		Cells:  []*LVal{formals.Copy(), Expr(do...)},
		Native: &LFunData{Env: env},
	}
}

// Inner returns the value protected by a quote.
func (v *LVal) Inner() *LVal {
	if v == nil || v.Type != LQuoted || len(v.Cells) == 0 {
		return nil
	}
	return v.Cells[0]
}

// IsList reports whether v is a quoted expression.
func (v *LVal) IsList() bool {
	inner := v.Inner()
	return inner != nil && inner.Type == LExpr
}

// IsNative reports whether v is a native builtin function.
func (v *LVal) IsNative() bool {
	return v != nil && v.Type == LFun && v.Native != nil && v.Native.Builtin != nil
}

// IsQuotedVariable reports whether v is the quoted variable 'name.
func (v *LVal) IsQuotedVariable(name string) bool {
	inner := v.Inner()
	return inner != nil && inner.Type == LVariable && inner.Str == name
}

// Formals returns the formal parameter names of a closure.
func (v *LVal) Formals() []*LVal {
	if v == nil || v.Type != LFun || len(v.Cells) < 2 {
		return nil
	}
	return v.Cells[0].Cells
}

// Body returns the body forms of a closure, without the enclosing do.
func (v *LVal) Body() []*LVal {
	if v == nil || v.Type != LFun || len(v.Cells) < 2 {
		return nil
	}
	return v.Cells[1].Cells[1:]
}

// Copy returns a deep copy of v.  The scope captured by a closure is shared
// with the copy.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := *v
	if v.Cells != nil {
		cp.Cells = make([]*LVal, len(v.Cells))
		for i, c := range v.Cells {
			cp.Cells[i] = c.Copy()
		}
	}
	if v.Native != nil {
		fun := *v.Native
		cp.Native = &fun
	}
	return &cp
}

// Equal reports whether a and b are structurally equal.  Source locations
// are ignored.  Functions are equal only when they share a builtin name or
// a captured scope and have equal syntax.
func Equal(a, b *LVal) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.Str != b.Str || len(a.Cells) != len(b.Cells) {
		return false
	}
	if a.Type == LNumber && a.Num != b.Num {
		return false
	}
	if a.Type == LFun {
		if a.Native == nil || b.Native == nil {
			return a.Native == b.Native
		}
		if a.Native.Name != b.Native.Name || a.Native.Env != b.Native.Env {
			return false
		}
	}
	for i := range a.Cells {
		if !Equal(a.Cells[i], b.Cells[i]) {
			return false
		}
	}
	return true
}

func (v *LVal) String() string {
	return Stringify(v, 0)
}

// kindOf names the type of v for error messages.
func kindOf(v *LVal) string {
	if v == nil {
		return "nil"
	}
	return v.Type.String()
}
