// Copyright © 2024 The schym authors

// Package schymtest runs schym programs and expression tables from Go
// tests.
package schymtest

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser"
	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth bounds call nesting in test environments.
const DefaultMaxDepth = 10000

// BenchmarkParse returns a benchmark parsing the file at path with readers
// made by r.
func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// Runner runs schym test programs.  A test program is a source file whose
// top level expressions are evaluated in order; a failed assert or any
// other error fails the test.
type Runner struct {
	// Config is applied to every root scope after the defaults.
	Config []lisp.Config

	// Teardown runs after each program.  Any error it returns is reported
	// as a test failure.
	Teardown func(*lisp.LEnv) error
}

// NewEnv returns a root scope with the prelude whose output is sent to the
// test log.
func (r *Runner) NewEnv(t testing.TB) (*lisp.LEnv, *Logger, error) {
	logger := NewLogger(t)
	log := logrus.New()
	log.SetOutput(logger)
	log.SetLevel(logrus.DebugLevel)
	cfg := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(logger),
		lisp.WithStderr(logger),
		lisp.WithStdin(strings.NewReader("")),
		lisp.WithLogger(log),
		lisp.WithMaximumDepth(DefaultMaxDepth),
	}
	env, err := lisp.NewRootEnv(true, append(cfg, r.Config...)...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize lisp environment: %w", err)
	}
	return env, logger, nil
}

// RunProgram evaluates source in a new root scope, reporting failures on t.
func (r *Runner) RunProgram(t *testing.T, name string, source io.Reader) {
	env, logger, err := r.NewEnv(t)
	if err != nil {
		t.Error(err)
		return
	}
	defer logger.Flush()
	if r.Teardown != nil {
		defer func() {
			if err := r.Teardown(env); err != nil {
				t.Errorf("teardown: %v", err)
			}
		}()
	}
	forms, err := env.Runtime.Reader.Read(name, source)
	if err != nil {
		t.Errorf("parse error: %v", err)
		return
	}
	for i, form := range forms {
		res := env.EvalAll([]*lisp.LVal{form})
		if res.Err != nil {
			t.Errorf("%s: expression %d: %v", name, i, res.Err)
			return
		}
	}
}

// RunTestFile runs the program at path as a subtest named after the file.
func (r *Runner) RunTestFile(t *testing.T, path string) {
	source, err := os.ReadFile(path) //#nosec G304
	if err != nil {
		t.Errorf("Unable to read test file: %v", err)
		return
	}
	t.Run(path, func(t *testing.T) {
		r.RunProgram(t, path, bytes.NewReader(source))
	})
}

// TestSequence is a sequence of schym expressions which are evaluated
// sequentially in one root scope.
type TestSequence []struct {
	Expr   string // a schym expression
	Result string // the result as lisp.Result.String() shows it
	Output string // output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated root scopes.
func RunTestSuite(t *testing.T, tests TestSuite, config ...lisp.Config) {
	for i, test := range tests {
		var outBuf bytes.Buffer
		cfg := []lisp.Config{
			lisp.WithReader(parser.NewReader()),
			lisp.WithStdout(&outBuf),
			lisp.WithStderr(io.Discard),
			lisp.WithStdin(strings.NewReader("")),
			lisp.WithMaximumDepth(DefaultMaxDepth),
		}
		env, err := lisp.NewRootEnv(true, append(cfg, config...)...)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			outBuf.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: expected one expression, parsed %d", i, test.Name, j, len(v))
				continue
			}
			result := env.EvalAll(v).String()
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if outBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, outBuf.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env, err := lisp.NewRootEnv(true,
			lisp.WithReader(p),
			lisp.WithStdout(io.Discard),
			lisp.WithStderr(io.Discard),
			lisp.WithMaximumDepth(DefaultMaxDepth),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		res := env.EvalAll(exprs)
		b.StopTimer()
		if res.Err != nil {
			b.Fatalf("eval: %v", res.Err)
		}
	}
}
