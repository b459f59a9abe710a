// Copyright © 2024 The schym authors

package lisp

import (
	"fmt"
	"io"

	"github.com/schymlang/schym/parser/token"
)

// CallStack is a function call stack.
type CallStack struct {
	Frames []CallFrame
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	// Source is the location of the call expression, if known.
	Source *token.Location
	Name   string
	Native bool
}

func (f *CallFrame) String() string {
	name := f.Name
	if f.Native {
		name += " [builtin]"
	}
	if f.Source != nil {
		return fmt.Sprintf("%s: %s", f.Source, name)
	}
	return name
}

// Height returns the number of frames on the stack.
func (s *CallStack) Height() int {
	if s == nil {
		return 0
	}
	return len(s.Frames)
}

// Push adds a frame to the top of the stack.
func (s *CallStack) Push(f CallFrame) {
	s.Frames = append(s.Frames, f)
}

// Pop removes the top frame.
func (s *CallStack) Pop() {
	if len(s.Frames) > 0 {
		s.Frames = s.Frames[:len(s.Frames)-1]
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s.Height() == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Copy creates a copy of the current stack so that it can be attached to an
// error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, s.Height())
	if s != nil {
		copy(frames, s.Frames)
	}
	return &CallStack{Frames: frames}
}

// DebugPrint writes the stack to w, top frame first.
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n := 0
	for i := s.Height() - 1; i >= 0; i-- {
		m, err := fmt.Fprintf(w, "  height %d: %s\n", i, &s.Frames[i])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// StackError is an evaluation error annotated with the call stack at the
// point it was raised.  Its message is that of Err.
type StackError struct {
	Err   error
	Stack *CallStack
}

func (err *StackError) Error() string {
	return err.Err.Error()
}

func (err *StackError) Unwrap() error {
	return err.Err
}

// StackTrace returns a description of each frame, innermost first.
func (err *StackError) StackTrace() []string {
	trace := make([]string, 0, err.Stack.Height())
	for i := err.Stack.Height() - 1; i >= 0; i-- {
		f := &err.Stack.Frames[i]
		loc := "unknown"
		if f.Source != nil {
			loc = f.Source.String()
		}
		trace = append(trace, "in "+f.Name+" at "+loc)
	}
	return trace
}

// withStack attaches a copy of s to err unless err already carries a stack.
func withStack(err error, s *CallStack) error {
	if _, ok := err.(*StackError); ok {
		return err
	}
	return &StackError{Err: err, Stack: s.Copy()}
}
