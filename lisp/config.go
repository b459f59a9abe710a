// Copyright © 2024 The schym authors

package lisp

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) error

// WithReader returns a Config that makes environments use r to parse source
// text.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes print write to w instead of the
// default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write diagnostics,
// including failed assertions, to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithStdin returns a Config that makes the input builtin read lines from r.
func WithStdin(r io.Reader) Config {
	return func(env *LEnv) error {
		env.Runtime.SetStdin(r)
		return nil
	}
}

// WithLibrary returns a Config that makes load find files using l.
func WithLibrary(l SourceLibrary) Config {
	return func(env *LEnv) error {
		env.Runtime.Library = l
		return nil
	}
}

// WithLogger returns a Config that replaces the runtime's logger.
func WithLogger(logger *logrus.Logger) Config {
	return func(env *LEnv) error {
		if logger == nil {
			return errors.New("nil logger")
		}
		env.Runtime.Logger = logger
		return nil
	}
}

// WithLogLevel returns a Config that sets the level of the runtime's
// logger.  The level is parsed by logrus.ParseLevel.
func WithLogLevel(level string) Config {
	return func(env *LEnv) error {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return err
		}
		env.Runtime.Logger.SetLevel(lvl)
		return nil
	}
}

// WithProfiler returns a Config that enables p for function calls.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) error {
		env.Runtime.Profiler = p
		return p.Enable()
	}
}

// WithInterning returns a Config that turns the interning pass on or off.
func WithInterning(on bool) Config {
	return func(env *LEnv) error {
		if on {
			env.Runtime.Interner = NewInterner()
		} else {
			env.Runtime.Interner = nil
		}
		return nil
	}
}

// WithMaximumDepth returns a Config that fails any call nested more than n
// calls deep.
func WithMaximumDepth(n int) Config {
	return func(env *LEnv) error {
		if n < 0 {
			return errors.New("negative maximum depth")
		}
		env.Runtime.MaxDepth = n
		return nil
	}
}

// WithBuiltins returns a Config that registers additional native functions.
func WithBuiltins(mods ...Module) Config {
	return func(env *LEnv) error {
		for _, mod := range mods {
			env.Runtime.Registry = mod(env.Runtime.Registry)
		}
		return nil
	}
}
