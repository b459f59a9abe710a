// Copyright © 2024 The schym authors

package lisp

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Reader parses the source text of a program into its top level forms.
type Reader interface {
	Read(name string, r io.Reader) ([]*LVal, error)
}

// Runtime is the state shared by a tree of LEnv scopes.  The builtin
// registry is reached through the root scope's runtime only.
type Runtime struct {
	Registry *Registry
	Reader   Reader
	Library  SourceLibrary
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *logrus.Logger
	Profiler Profiler
	// Interner canonicalizes quoted names before evaluation when non-nil.
	Interner *Interner
	// Stack holds a frame for each function call in progress.
	Stack *CallStack
	// MaxDepth bounds the height of Stack.  Zero means no bound other than
	// the Go stack.
	MaxDepth int

	stdin *bufio.Reader
}

// StandardRuntime returns a Runtime with an empty registry, reading from
// os.Stdin and writing to os.Stdout and os.Stderr.
func StandardRuntime() *Runtime {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.WarnLevel)
	return &Runtime{
		Registry: NewRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Logger:   logger,
		Stack:    &CallStack{},
		stdin:    bufio.NewReader(os.Stdin),
	}
}

// SetStdin replaces the stream read by the input builtin.
func (r *Runtime) SetStdin(in io.Reader) {
	r.stdin = bufio.NewReader(in)
}

// ReadLine reads one line of input without its line terminator.  At the end
// of input ReadLine returns io.EOF unless a partial line was read.
func (r *Runtime) ReadLine() (string, error) {
	if r.stdin == nil {
		return "", io.EOF
	}
	line, err := r.stdin.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
