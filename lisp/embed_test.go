// Copyright © 2024 The schym authors

package lisp_test

import (
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruth(t *testing.T) {
	assert.True(t, lisp.True(lisp.Number(1)))
	assert.True(t, lisp.True(lisp.Number(-0.1)))
	assert.False(t, lisp.True(lisp.Number(0)))
	assert.False(t, lisp.True(lisp.String("1")))
	assert.False(t, lisp.True(nil))
	assert.True(t, lisp.Not(nil))
}

func TestGoValue(t *testing.T) {
	env, _, _ := newEnv(t)
	res := env.RunProgram("test", `(list 1 "two" 'three (list 4))`)
	require.NoError(t, res.Err)
	assert.Equal(t, []interface{}{1.0, "two", "three", []interface{}{4.0}}, lisp.GoValue(res.Value))

	assert.Nil(t, lisp.GoValue(nil))
	s, ok := lisp.GoString(lisp.String("x"))
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = lisp.GoString(lisp.Number(1))
	assert.False(t, ok)

	name, ok := lisp.VariableName(lisp.Quote(lisp.Variable("sym")))
	assert.True(t, ok)
	assert.Equal(t, "sym", name)
	_, ok = lisp.VariableName(lisp.String("sym"))
	assert.False(t, ok)

	n, ok := lisp.GoInt(lisp.Number(12))
	assert.True(t, ok)
	assert.Equal(t, 12, n)
	_, ok = lisp.GoInt(lisp.Number(2.5))
	assert.False(t, ok)
	_, ok = lisp.GoInt(lisp.Number(1e12))
	assert.False(t, ok)

	_, ok = lisp.GoSlice(lisp.Number(1))
	assert.False(t, ok)
}

func TestFromGo(t *testing.T) {
	v, err := lisp.FromGo([]interface{}{1, "a", true, []interface{}{2.0, nil}, []string{"b"}})
	require.NoError(t, err)
	assert.Equal(t, `'(1 "a" 1 (2 nil) ("b"))`, v.String())

	v, err = lisp.FromGo(nil)
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = lisp.FromGo(struct{}{})
	assert.Error(t, err)

	_, err = lisp.FromGo([]interface{}{map[string]int{}})
	assert.Error(t, err)

	env, _, _ := newEnv(t)
	xs, err := lisp.FromGo([]interface{}{1, 2, 3})
	require.NoError(t, err)
	env.Put("xs", xs)
	res := env.RunProgram("test", `(car (cdr xs))`)
	require.NoError(t, res.Err)
	assert.Equal(t, "2", res.String())
}
