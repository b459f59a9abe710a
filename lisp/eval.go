// Copyright © 2024 The schym authors

package lisp

import (
	"fmt"

	"github.com/schymlang/schym/parser/token"
	"github.com/sirupsen/logrus"
)

// Eval evaluates v in env.  Numbers, strings and quoted values evaluate to
// a copy of themselves, comments to no value, and variables to their
// binding.  A non-empty expression is a function call.
func (env *LEnv) Eval(v *LVal) Result {
	if v == nil {
		return Nothing()
	}
	switch v.Type {
	case LNumber, LString, LQuoted, LFun:
		return Ok(v.Copy())
	case LComment:
		return Nothing()
	case LVariable:
		return Ok(env.Lookup(v.Str))
	case LExpr:
		return env.evalExpr(v)
	default:
		return Errorf("cannot evaluate %s value", v.Type)
	}
}

// EvalBody evaluates forms in order and returns the result of the last.
// No forms evaluate to no value.
func (env *LEnv) EvalBody(forms []*LVal) Result {
	res := Nothing()
	for _, form := range forms {
		res = env.Eval(form)
		if res.Err != nil {
			return res
		}
	}
	return res
}

func (env *LEnv) evalExpr(expr *LVal) Result {
	if len(expr.Cells) == 0 {
		return Errorf("non-quoted expression can't be empty")
	}
	head := env.Eval(expr.Cells[0])
	if head.Err != nil {
		return head
	}
	fun := head.Value
	if fun == nil {
		return Errorf("cannot call nil value")
	}
	if fun.Type != LFun || fun.Native == nil {
		return Errorf("cannot call non-function")
	}
	return env.call(expr.Source, callName(expr.Cells[0]), fun, expr.Cells[1:])
}

// Call applies fun to the unevaluated args in env, the caller's scope.
// Natives receive args as they are.  A closure's args are evaluated in env
// and bound in a new child of the closure's captured scope.  An error
// raised by the call is a *StackError.
func (env *LEnv) Call(name string, fun *LVal, args []*LVal) Result {
	return env.call(nil, name, fun, args)
}

func (env *LEnv) call(src *token.Location, name string, fun *LVal, args []*LVal) Result {
	rt := env.Runtime
	if rt.Stack == nil {
		rt.Stack = &CallStack{}
	}
	if rt.MaxDepth > 0 && rt.Stack.Height() >= rt.MaxDepth {
		return Fail(withStack(fmt.Errorf("%s: maximum call depth exceeded (%d)", name, rt.MaxDepth), rt.Stack))
	}
	rt.Stack.Push(CallFrame{Source: src, Name: name, Native: fun.IsNative()})
	defer rt.Stack.Pop()
	if p := rt.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(name, fun)()
	}
	var res Result
	if fun.IsNative() {
		res = fun.Native.Builtin(env, name, args)
	} else {
		res = env.callClosure(name, fun, args)
	}
	if res.Err != nil {
		res.Err = withStack(res.Err, rt.Stack)
	}
	return res
}

func (env *LEnv) callClosure(name string, fun *LVal, args []*LVal) Result {
	formals := fun.Formals()
	if len(args) != len(formals) {
		return Errorf("%s: expected %d arguments, got %d", name, len(formals), len(args))
	}
	if env.Runtime.Logger.IsLevelEnabled(logrus.DebugLevel) {
		env.Runtime.Logger.WithFields(logrus.Fields{
			"fun":   name,
			"nargs": len(args),
		}).Debug("calling closure")
	}
	scope := NewEnv(fun.Native.Env)
	for i, arg := range args {
		res := env.Eval(arg)
		if res.Err != nil {
			return res
		}
		scope.Put(formals[i].Str, res.Value)
	}
	res := scope.EvalBody(fun.Body())
	if res.Err != nil {
		return res
	}
	return Ok(res.Value.Copy())
}

// callName is the name a call expression invokes its function by.
func callName(head *LVal) string {
	if head.Type == LVariable {
		return head.Str
	}
	return "anonymous"
}

// evalNumber evaluates v and requires a number.
func (env *LEnv) evalNumber(name string, v *LVal) (float64, error) {
	res := env.Eval(v)
	if res.Err != nil {
		return 0, res.Err
	}
	if res.Value == nil || res.Value.Type != LNumber {
		return 0, fmt.Errorf("%s: expected a number, got %s", name, kindOf(res.Value))
	}
	return res.Value.Num, nil
}
