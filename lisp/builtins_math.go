// Copyright © 2024 The schym authors

package lisp

import (
	"math"
)

var mathBuiltins = []*langBuiltin{
	{"+", arith(func(a, b float64) float64 { return a + b }),
		`Returns the sum of its arguments.`},
	{"-", arith(func(a, b float64) float64 { return a - b }),
		`Subtracts each argument after the first from the first.`},
	{"*", arith(func(a, b float64) float64 { return a * b }),
		`Returns the product of its arguments.`},
	{"/", arith(func(a, b float64) float64 { return a / b }),
		`Divides the first argument by each following argument.`},
	{"^", arith(math.Pow),
		`Raises the first argument to the power of each following argument.`},
	{"%", arith(math.Mod),
		`Returns the floating point remainder of dividing the first argument
		by each following argument.`},
	{"==", compare(func(a, b float64) bool { return a == b }),
		`Returns 1 when its two arguments are equal numbers, otherwise 0.`},
	{"!=", compare(func(a, b float64) bool { return a != b }),
		`Returns 1 when its two arguments are different numbers, otherwise 0.`},
	{"<", compare(func(a, b float64) bool { return a < b }),
		`Returns 1 when the first argument is less than the second.`},
	{">", compare(func(a, b float64) bool { return a > b }),
		`Returns 1 when the first argument is greater than the second.`},
	{"<=", compare(func(a, b float64) bool { return a <= b }),
		`Returns 1 when the first argument is at most the second.`},
	{">=", compare(func(a, b float64) bool { return a >= b }),
		`Returns 1 when the first argument is at least the second.`},
	{"and", builtinAnd,
		`Returns 1 when every argument is a nonzero number.  Evaluation stops
		at the first zero.`},
	{"or", builtinOr,
		`Returns 1 when any argument is a nonzero number.  Evaluation stops at
		the first nonzero number.`},
}

// RegisterMath registers arithmetic, comparison and logic builtins.
func RegisterMath(r *Registry) *Registry {
	return registerTable(r, mathBuiltins)
}

// arith returns a builtin folding op over two or more numbers from the left.
func arith(op func(a, b float64) float64) LBuiltin {
	return func(env *LEnv, name string, args []*LVal) Result {
		if err := expectArgs(name, args, ">=", 2); err != nil {
			return Fail(err)
		}
		acc, err := env.evalNumber(name, args[0])
		if err != nil {
			return Fail(err)
		}
		for _, arg := range args[1:] {
			x, err := env.evalNumber(name, arg)
			if err != nil {
				return Fail(err)
			}
			acc = op(acc, x)
		}
		return Ok(Number(acc))
	}
}

// compare returns a builtin testing exactly two numbers.
func compare(test func(a, b float64) bool) LBuiltin {
	return func(env *LEnv, name string, args []*LVal) Result {
		if err := expectArgs(name, args, "==", 2); err != nil {
			return Fail(err)
		}
		a, err := env.evalNumber(name, args[0])
		if err != nil {
			return Fail(err)
		}
		b, err := env.evalNumber(name, args[1])
		if err != nil {
			return Fail(err)
		}
		return Ok(Bool(test(a, b)))
	}
}

func builtinAnd(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	for _, arg := range args {
		x, err := env.evalNumber(name, arg)
		if err != nil {
			return Fail(err)
		}
		if x == 0 {
			return Ok(Bool(false))
		}
	}
	return Ok(Bool(true))
}

func builtinOr(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, ">=", 2); err != nil {
		return Fail(err)
	}
	for _, arg := range args {
		x, err := env.evalNumber(name, arg)
		if err != nil {
			return Fail(err)
		}
		if x != 0 {
			return Ok(Bool(true))
		}
	}
	return Ok(Bool(false))
}
