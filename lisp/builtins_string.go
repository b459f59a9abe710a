// Copyright © 2024 The schym authors

package lisp

import (
	"strings"
)

var stringBuiltins = []*langBuiltin{
	{"streq", builtinStreq,
		`Returns 1 when its two string arguments are equal, otherwise 0.`},
	{"concat", builtinConcat,
		`Returns the display text of its arguments joined together.`},
	{"to-number", builtinToNumber,
		`Converts a string to a number.  Numbers are returned unchanged.`},
	{"to-string", builtinToString,
		`Returns the display text of its argument as a string.`},
}

// RegisterStrings registers the string builtins.
func RegisterStrings(r *Registry) *Registry {
	return registerTable(r, stringBuiltins)
}

func builtinStreq(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 2); err != nil {
		return Fail(err)
	}
	var strs [2]string
	for i, arg := range args {
		res := env.Eval(arg)
		if res.Err != nil {
			return res
		}
		if res.Value == nil || res.Value.Type != LString {
			return Errorf("%s: both arguments should be a string, got %s", name, kindOf(res.Value))
		}
		strs[i] = res.Value.Str
	}
	return Ok(Bool(strs[0] == strs[1]))
}

func builtinConcat(env *LEnv, name string, args []*LVal) Result {
	var b strings.Builder
	for _, arg := range args {
		res := env.Eval(arg)
		if res.Err != nil {
			return res
		}
		b.WriteString(DisplayString(res.Value))
	}
	return Ok(String(b.String()))
}

func builtinToNumber(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	switch {
	case res.Value == nil:
	case res.Value.Type == LNumber:
		return res
	case res.Value.Type == LString:
		x, err := ParseNumber(strings.TrimSpace(res.Value.Str))
		if err != nil {
			return Errorf("%s: %w", name, err)
		}
		return Ok(Number(x))
	}
	return Errorf("%s: expected string or number, got %s", name, kindOf(res.Value))
}

func builtinToString(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	return Ok(String(DisplayString(res.Value)))
}
