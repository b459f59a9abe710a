// Copyright © 2024 The schym authors

package parser

import (
	"strings"
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReader(t *testing.T) {
	r := NewReader()
	exprs, err := r.Read("test", strings.NewReader("(+ 1 2)"))
	require.NoError(t, err)
	require.Len(t, exprs, 1)
	assert.Equal(t, lisp.LExpr, exprs[0].Type)
	assert.Equal(t, "test", exprs[0].Source.File)
}

func TestNewNamedReader(t *testing.T) {
	for _, name := range append([]string{""}, ReaderNames...) {
		r, err := NewNamedReader(name)
		require.NoError(t, err, name)
		exprs, err := r.Read("test", strings.NewReader("; c\n(print '(1 \"a\"))"))
		require.NoError(t, err, name)
		require.Len(t, exprs, 1, name)
		assert.Equal(t, `(print '(1 "a"))`, exprs[0].String(), name)

		_, err = r.Read("test", strings.NewReader("(unclosed"))
		assert.Error(t, err, name)
	}

	_, err := NewNamedReader("yacc")
	assert.EqualError(t, err, `unknown reader "yacc"`)
}
