// Copyright © 2024 The schym authors

package lisp

import (
	"fmt"
	"math"
)

var langBuiltins = []*langBuiltin{
	{"do", builtinDo,
		`Evaluates its arguments in order and returns the value of the last.`},
	{"if", builtinIf,
		`(if cond then [else]) evaluates then when cond is a nonzero number,
		otherwise else.  Without else the result is nil.`},
	{"set", builtinSet,
		`(set name value) binds name to value.  (set name (args...) body...)
		binds name to a function.  The binding is made in the nearest scope
		that already binds name, or the outermost scope.`},
	{"let", builtinLet,
		`(let ((name value)...) body...) evaluates body in a new scope
		holding the bindings.  A binding may also be any form that evaluates
		to a two item list.`},
	{"fun", builtinFun,
		`(fun (args...) body...) returns a function closing over the current
		scope.`},
	{"times", builtinTimes,
		`(times name (from to) body...) evaluates body with name bound to
		each integer from from up to, but not including, to.`},
	{"eval", builtinEval,
		`Evaluates the quoted value its argument evaluates to.`},
	{"assert", builtinAssert,
		`Stops the program, printing the source of its argument, when the
		argument does not evaluate to a nonzero number.`},
	{"cond", builtinCond,
		`(cond (test body...)...) evaluates the body of the first clause whose
		test is a nonzero number.  A clause whose test is 'else matches when
		no other clause does.  Other quoted tests are skipped.`},
}

// RegisterCore registers the control forms.
func RegisterCore(r *Registry) *Registry {
	return registerTable(r, langBuiltins)
}

func builtinDo(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 1); err != nil {
		return Fail(err)
	}
	return env.EvalBody(args)
}

func builtinIf(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	if err := expectArgs(name, args, "<=", 3); err != nil {
		return Fail(err)
	}
	cond := env.Eval(args[0])
	if cond.Err != nil {
		return cond
	}
	if cond.Value == nil || cond.Value.Type != LNumber {
		return Errorf("%s: expected cond to be a number, got %s", name, kindOf(cond.Value))
	}
	if cond.Value.Num != 0 {
		return env.Eval(args[1])
	}
	if len(args) == 3 {
		return env.Eval(args[2])
	}
	return Nothing()
}

func builtinSet(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	if err := expectType(name, args, 0, LVariable); err != nil {
		return Fail(err)
	}
	var val *LVal
	if len(args) == 2 {
		res := env.Eval(args[1])
		if res.Err != nil {
			return res
		}
		val = res.Value
	} else {
		res := builtinFun(env, name, args[1:])
		if res.Err != nil {
			return res
		}
		val = res.Value
	}
	env.Assign(args[0].Str, val)
	return Nothing()
}

func builtinLet(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	if err := expectType(name, args, 0, LExpr); err != nil {
		return Fail(err)
	}
	scope := NewEnv(env)
	for i, binding := range args[0].Cells {
		if isLiteralPair(binding) {
			res := scope.Eval(binding.Cells[1])
			if res.Err != nil {
				return res
			}
			scope.Put(binding.Cells[0].Str, res.Value)
			continue
		}
		res := scope.Eval(binding)
		if res.Err != nil {
			return res
		}
		pair := res.Value
		if !pair.IsList() || len(pair.Inner().Cells) != 2 {
			return Errorf("%s: binding %d: expected a (name value) pair, got %s", name, i, kindOf(pair))
		}
		key := pair.Inner().Cells[0]
		if key.Type == LQuoted {
			key = key.Inner()
		}
		if key == nil || key.Type != LVariable {
			return Errorf("%s: binding %d: expected a variable name, got %s", name, i, kindOf(key))
		}
		scope.Put(key.Str, pair.Inner().Cells[1])
	}
	return scope.EvalBody(args[1:])
}

// isLiteralPair reports whether v is written as (name value).
func isLiteralPair(v *LVal) bool {
	return v.Type == LExpr && len(v.Cells) == 2 && v.Cells[0].Type == LVariable
}

func builtinFun(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	if err := expectType(name, args, 0, LExpr); err != nil {
		return Fail(err)
	}
	for i, formal := range args[0].Cells {
		if formal.Type != LVariable {
			return Errorf("%s: expected formal argument %d to be a variable, got %s", name, i, kindOf(formal))
		}
	}
	return Ok(Closure(NewEnv(env), args[0], args[1:]))
}

func builtinTimes(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	if err := expectType(name, args, 0, LVariable); err != nil {
		return Fail(err)
	}
	bounds := args[1]
	if bounds.Type == LQuoted {
		bounds = bounds.Inner()
	}
	if bounds == nil || bounds.Type != LExpr || len(bounds.Cells) != 2 {
		return Errorf("%s: expected a (from to) range", name)
	}
	var rng [2]float64
	for i, bound := range bounds.Cells {
		x, err := env.evalNumber(name, bound)
		if err != nil {
			return Fail(err)
		}
		if x != math.Trunc(x) || math.IsInf(x, 0) {
			return Errorf("%s: range bounds must be integers, got %s", name, FormatNumber(x))
		}
		rng[i] = x
	}
	counter := args[0].Str
	defer env.Remove(counter)
	for i := rng[0]; i < rng[1]; i++ {
		env.Put(counter, Number(i))
		res := env.EvalBody(args[2:])
		if res.Err != nil {
			return res
		}
	}
	return Nothing()
}

func builtinEval(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	if res.Value == nil || res.Value.Type != LQuoted {
		return Errorf("%s: expected a quoted value, got %s", name, kindOf(res.Value))
	}
	return env.EvalAll([]*LVal{res.Value.Inner()})
}

func builtinAssert(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	if res.Value == nil || res.Value.Type != LNumber {
		return Errorf("%s: expected cond to be a number, got %s", name, kindOf(res.Value))
	}
	if res.Value.Num != 0 {
		return Nothing()
	}
	err := &AssertionError{Source: Stringify(args[0], 0)}
	fmt.Fprintln(env.Runtime.Stderr, err.Error()) //nolint:errcheck // the program stops either way
	return Fail(err)
}

func builtinCond(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 1); err != nil {
		return Fail(err)
	}
	elseClause := -1
	for i, clause := range args {
		if clause.Type != LExpr || len(clause.Cells) == 0 {
			return Errorf("%s: clause %d: expected a (test body...) expression", name, i)
		}
		test := env.Eval(clause.Cells[0])
		if test.Err != nil {
			return test
		}
		switch {
		case test.Value != nil && test.Value.Type == LQuoted:
			if elseClause < 0 && test.Value.IsQuotedVariable("else") {
				elseClause = i
			}
			continue
		case test.Value == nil || test.Value.Type != LNumber:
			return Errorf("%s: clause %d: expected test to be a number, got %s", name, i, kindOf(test.Value))
		case test.Value.Num == 0:
			continue
		}
		if len(clause.Cells) == 1 {
			return test
		}
		return env.EvalBody(clause.Cells[1:])
	}
	if elseClause >= 0 {
		return env.EvalBody(args[elseClause].Cells[1:])
	}
	return Nothing()
}
