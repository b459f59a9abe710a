// Copyright © 2024 The schym authors

package lisp_test

import (
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(x float64) lisp.LBuiltin {
	return func(env *lisp.LEnv, name string, args []*lisp.LVal) lisp.Result {
		return lisp.Ok(lisp.Number(x))
	}
}

func TestRegistryFirstMatch(t *testing.T) {
	r := lisp.NewRegistry().
		Add("f", constant(1), "first").
		Add("f", constant(2), "second")
	require.Equal(t, 2, r.Len())
	assert.Equal(t, "first", r.Find("f").Doc)

	assert.Equal(t, 2, r.SetEnabled("f", false))
	assert.Nil(t, r.Find("f"))
	assert.Equal(t, 0, r.SetEnabled("f", false))
	assert.Equal(t, 2, r.Len(), "disabled entries are kept")

	assert.Equal(t, 2, r.SetEnabled("f", true))
	assert.Equal(t, "first", r.Find("f").Doc)
}

func TestRegistryDisabledEntryIsSkipped(t *testing.T) {
	r := lisp.NewRegistry().Add("f", constant(1), "first")
	r.SetEnabled("f", false)
	r.Add("f", constant(2), "second")
	assert.Equal(t, "second", r.Find("f").Doc)

	docs := make([]string, 0, r.Len())
	for _, b := range r.Builtins() {
		docs = append(docs, b.Doc)
	}
	assert.Equal(t, []string{"first", "second"}, docs)
}

func TestRegistryNil(t *testing.T) {
	var r *lisp.Registry
	assert.Nil(t, r.Find("x"))
	assert.Equal(t, 0, r.Len())
	assert.Empty(t, r.Builtins())

	r = lisp.RegisterStdio(nil)
	require.NotNil(t, r)
	assert.Equal(t, 3, r.Len())
	assert.NotNil(t, r.Find("print"))
}

func TestPreludeModules(t *testing.T) {
	groups := map[string]lisp.Module{
		"core":    lisp.RegisterCore,
		"math":    lisp.RegisterMath,
		"strings": lisp.RegisterStrings,
		"lists":   lisp.RegisterLists,
		"stdio":   lisp.RegisterStdio,
	}
	want := map[string][]string{
		"core":    {"do", "if", "set", "let", "fun", "times", "eval", "assert", "cond"},
		"math":    {"+", "-", "*", "/", "^", "%", "==", "!=", "<", ">", "<=", ">=", "and", "or"},
		"strings": {"streq", "concat", "to-number", "to-string"},
		"lists":   {"list", "car", "cdr", "append", "cons", "null?"},
		"stdio":   {"print", "input", "load"},
	}
	for group, mod := range groups {
		var names []string
		for _, b := range mod(lisp.NewRegistry()).Builtins() {
			names = append(names, b.Name)
			assert.True(t, b.Enabled, b.Name)
			assert.NotEmpty(t, b.Doc, "%s has no documentation", b.Name)
		}
		assert.Equal(t, want[group], names, group)
	}

	env, err := lisp.NewRootEnv(true)
	require.NoError(t, err)
	assert.Equal(t, 36, env.Runtime.Registry.Len())
}

func TestDisabledBuiltinIsUnbound(t *testing.T) {
	env, stdout, _ := newEnv(t)
	require.Equal(t, 1, env.Runtime.Registry.SetEnabled("print", false))
	res := env.RunProgram("test", `(print 1)`)
	assert.EqualError(t, res.Err, "cannot call nil value")
	assert.Empty(t, stdout.String())

	env.Runtime.Registry.SetEnabled("print", true)
	res = env.RunProgram("test", `(print 1)`)
	assert.NoError(t, res.Err)
	assert.Equal(t, "1\n", stdout.String())
}

func TestWithBuiltins(t *testing.T) {
	double := func(r *lisp.Registry) *lisp.Registry {
		return r.Add("double", func(env *lisp.LEnv, name string, args []*lisp.LVal) lisp.Result {
			if len(args) != 1 {
				return lisp.Errorf("%s: expected one argument", name)
			}
			res := env.Eval(args[0])
			if res.Err != nil {
				return res
			}
			x, ok := lisp.GoFloat64(res.Value)
			if !ok {
				return lisp.Errorf("%s: expected a number", name)
			}
			return lisp.Ok(lisp.Number(2 * x))
		}, "Returns twice its argument.")
	}
	env, _, _ := newEnv(t, lisp.WithBuiltins(double))
	res := env.RunProgram("test", `(double (+ 1 2))`)
	require.NoError(t, res.Err)
	assert.Equal(t, "6", res.String())

	// the prelude's + is registered first and still wins
	shadow := func(r *lisp.Registry) *lisp.Registry {
		return r.Add("+", constant(0), "Always zero.")
	}
	env, _, _ = newEnv(t, lisp.WithBuiltins(shadow))
	res = env.RunProgram("test", `(+ 1 2)`)
	require.NoError(t, res.Err)
	assert.Equal(t, "3", res.String())

	env.Runtime.Registry.SetEnabled("+", false)
	assert.Nil(t, env.Lookup("+"))
}
