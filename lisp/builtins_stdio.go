// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

var stdioBuiltins = []*langBuiltin{
	{"print", builtinPrint,
		`Prints the display text of its arguments separated by spaces and
		followed by a newline.  When the first argument is 'raw it is not
		printed and no newline is written.`},
	{"input", builtinInput,
		`Reads a line from standard input, without its newline.  Returns nil
		at the end of input.`},
	{"load", builtinLoad,
		`(load "name") runs the program in name.schym, searching the prelude
		directory and then the current directory, in the current scope.`},
}

// RegisterStdio registers the input and output builtins.
func RegisterStdio(r *Registry) *Registry {
	return registerTable(r, stdioBuiltins)
}

func builtinPrint(env *LEnv, name string, args []*LVal) Result {
	raw := len(args) > 0 && args[0].IsQuotedVariable("raw")
	if raw {
		args = args[1:]
	}
	strs := make([]string, 0, len(args))
	for _, arg := range args {
		res := env.Eval(arg)
		if res.Err != nil {
			return res
		}
		strs = append(strs, DisplayString(res.Value))
	}
	out := strings.Join(strs, " ")
	if !raw {
		out += "\n"
	}
	if _, err := io.WriteString(env.Runtime.Stdout, out); err != nil {
		return Errorf("%s: %w", name, err)
	}
	return Nothing()
}

func builtinInput(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 0); err != nil {
		return Fail(err)
	}
	line, err := env.Runtime.ReadLine()
	if errors.Is(err, io.EOF) {
		return Nothing()
	}
	if err != nil {
		return Errorf("%s: %w", name, err)
	}
	return Ok(String(line))
}

func builtinLoad(env *LEnv, name string, args []*LVal) Result {
	if err := expectArgs(name, args, "==", 1); err != nil {
		return Fail(err)
	}
	res := env.Eval(args[0])
	if res.Err != nil {
		return res
	}
	if res.Value == nil || res.Value.Type != LString {
		return Errorf("%s: expected a string, got %s", name, kindOf(res.Value))
	}
	res = env.LoadFile(res.Value.Str)
	if res.Err != nil && !IsFatal(res.Err) {
		return Fail(fmt.Errorf("%s: %w", name, res.Err))
	}
	return res
}
