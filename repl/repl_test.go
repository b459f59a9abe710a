// Copyright © 2024 The schym authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/schymlang/schym/diagnostic"
	"github.com/schymlang/schym/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) string {
	t.Helper()
	out, _ := runRepl(t, input)
	return out
}

func runRepl(t *testing.T, input string) (string, error) {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck
		_, _ = io.WriteString(inW, input)
	}()

	done := make(chan error, 1)
	go func() {
		err := RunRepl("schym> ",
			WithStdin(inR),
			WithStderr(outW),
			WithHistoryFile(filepath.Join(t.TempDir(), ".schym_history")),
			WithColor(diagnostic.ColorNever),
		)
		inR.Close()  //nolint:errcheck,gosec
		outW.Close() //nolint:errcheck,gosec
		done <- err
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec
	return output.String(), <-done
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: "2\n",
		},
		{
			name:     "Continuation",
			input:    "(+ 1\n  2)\n",
			expected: "3\n",
		},
		{
			name:     "Bindings persist",
			input:    "(set x 4)\n(* x x)\n",
			expected: "16\n",
		},
		{
			name:     "Error",
			input:    "(fnord)\n",
			expected: "error: cannot call nil value",
		},
		{
			name:     "Syntax error",
			input:    "(print \"abc\n",
			expected: "Program error: string unended at line 1 col 12",
		},
		{
			name:     "Help",
			input:    "(help car)\n",
			expected: "builtin car\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			require.Contains(t, got, tc.expected)
		})
	}
}

func TestRunReplAssertionEndsSession(t *testing.T) {
	out, err := runRepl(t, "(+ 1 1)\n(assert 0) (print \"after\")\n(print \"later\")\n")
	assert.True(t, lisp.IsFatal(err), "got %v", err)
	assert.Contains(t, out, "2\n")
	assert.Contains(t, out, "assertion failed: 0\n")
	assert.NotContains(t, out, "after")
	assert.NotContains(t, out, "later")

	out, err = runRepl(t, "(assert 1)\n")
	assert.NoError(t, err)
	assert.NotContains(t, out, "assertion failed")
}

func TestSessionFeed(t *testing.T) {
	var buf nopCloser
	s := &session{renderer: &diagnostic.Renderer{Color: diagnostic.ColorNever}}
	s.env = newTestEnv(t, &buf)

	assert.True(t, s.feed("(set sq (x)"))
	assert.True(t, s.feed("  (* x x)"))
	assert.False(t, s.feed(")"))
	assert.False(t, s.feed("(sq 5)"))
	assert.Equal(t, "25\n", buf.String())
	assert.False(t, s.feed("   "))
	assert.Zero(t, s.pending.Len())
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".schym_history")
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	histFile := filepath.Join(t.TempDir(), ".schym_history")
	require.NoError(t, os.WriteFile(histFile, []byte("some history"), 0644))

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}
