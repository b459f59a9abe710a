// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"fmt"
)

// Result is the outcome of evaluating a value.  Exactly one of a value
// (possibly nil, meaning no value) or Err is meaningful.
type Result struct {
	Value *LVal
	Err   error
}

// Ok returns a successful Result holding v.
func Ok(v *LVal) Result {
	return Result{Value: v}
}

// Nothing returns a successful Result with no value.
func Nothing() Result {
	return Result{}
}

// Fail returns a failed Result.
func Fail(err error) Result {
	return Result{Err: err}
}

// Errorf returns a failed Result with a formatted message.
func Errorf(format string, v ...interface{}) Result {
	return Result{Err: fmt.Errorf(format, v...)}
}

// IsErr reports whether r failed.
func (r Result) IsErr() bool {
	return r.Err != nil
}

// Unwrap returns r as a Go value/error pair.
func (r Result) Unwrap() (*LVal, error) {
	return r.Value, r.Err
}

func (r Result) String() string {
	if r.Err != nil {
		return "error: " + r.Err.Error()
	}
	return DisplayString(r.Value)
}

// AssertionError is the result of a failed assert.  It is fatal: a host
// must stop the program when it sees one instead of reporting it like an
// ordinary error.
type AssertionError struct {
	// Source is the text of the asserted condition.
	Source string
}

func (err *AssertionError) Error() string {
	return "assertion failed: " + err.Source
}

// IsFatal reports whether err contains an *AssertionError.
func IsFatal(err error) bool {
	var aerr *AssertionError
	return errors.As(err, &aerr)
}

// expectArgs checks the argument count of a builtin.  op is one of "==",
// ">=" and "<=".
func expectArgs(name string, args []*LVal, op string, n int) error {
	var ok bool
	switch op {
	case "==":
		ok = len(args) == n
	case ">=":
		ok = len(args) >= n
	case "<=":
		ok = len(args) <= n
	}
	if ok {
		return nil
	}
	return fmt.Errorf("%s: expected nargs (%d) to be %s %d", name, len(args), op, n)
}

// expectType checks that argument i has type typ.
func expectType(name string, args []*LVal, i int, typ LType) error {
	if args[i] == nil || args[i].Type != typ {
		return fmt.Errorf("%s: expected argument %d of type %s, got %s", name, i, typ, kindOf(args[i]))
	}
	return nil
}
