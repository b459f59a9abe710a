// Copyright © 2024 The schym authors

package regexparser

import (
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/rdparser"
	"github.com/schymlang/schym/parser/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The combinator parser must read every program the way rdparser does.
func TestParity(t *testing.T) {
	programs := []string{
		`(+ 1 2)`,
		"(set f (a b) (+ a b))\n(f 1 2)",
		"; header\n(print \"a ; b\") ; trailing\n",
		`[a (b 'c) '(d e)]`,
		`(f '5 '"s" 'x)`,
		`(- -1 -.5 x-y 1e+3 0.25)`,
		`(cond ('else 1) ((== 1 2) '()))`,
		`(<= null? to-number)`,
		`()`,
		"(do\n  ; inside\n  1)",
	}
	for _, src := range programs {
		want, err := rdparser.ParseProgram("test", src)
		require.NoError(t, err, src)
		got, err := ParseProgram("test", []byte(src))
		if !assert.NoError(t, err, src) {
			continue
		}
		if assert.Len(t, got, len(want), src) {
			for i := range want {
				assert.True(t, lisp.Equal(want[i], got[i]), "%s: form %d: %s != %s", src, i, want[i], got[i])
			}
		}
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		source    string
		msg       string
		line, col int
	}{
		{`(print`, `missing ')'`, 1, 7},
		{`[1 2`, `missing ']'`, 1, 5},
		{`)`, `extraneous ')'`, 1, 1},
		{`42`, `expected an expression, got a number instead`, 1, 1},
		{`(a) "s"`, `expected an expression, got a string instead`, 1, 5},
	}
	for _, test := range tests {
		_, err := ParseProgram("test", []byte(test.source))
		if !assert.Error(t, err, test.source) {
			continue
		}
		assert.Contains(t, err.Error(), test.msg, test.source)
		loc, ok := token.Locate(err)
		if assert.True(t, ok, test.source) {
			assert.Equal(t, test.line, loc.Line, test.source)
			assert.Equal(t, test.col, loc.Col, test.source)
		}
	}

	_, err := ParseProgram("test", []byte(`(print`))
	assert.True(t, rdparser.IsIncomplete(err))
}

func TestLocations(t *testing.T) {
	forms, err := ParseProgram("file", []byte("(a)\n  (b c)"))
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "file:2:3", forms[1].Source.String())
	assert.Equal(t, "file:2:6", forms[1].Cells[1].Source.String())
}
