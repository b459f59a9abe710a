// Copyright © 2024 The schym authors

package lisp_test

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEnv returns a root scope with the prelude whose output is captured.
func newEnv(t *testing.T, config ...lisp.Config) (*lisp.LEnv, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cfg := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(&stdout),
		lisp.WithStderr(&stderr),
	}
	env, err := lisp.NewRootEnv(true, append(cfg, config...)...)
	require.NoError(t, err)
	return env, &stdout, &stderr
}

func TestEvalSelfEvaluating(t *testing.T) {
	env, _, _ := newEnv(t)
	child := lisp.NewEnv(env)
	child.Put("x", lisp.Number(3))
	for _, x := range []float64{0, 1, -2.5, 1e300, math.Inf(1)} {
		for _, scope := range []*lisp.LEnv{env, child} {
			res := scope.Eval(lisp.Number(x))
			require.NoError(t, res.Err)
			assert.True(t, lisp.Equal(lisp.Number(x), res.Value))
		}
	}

	s := lisp.String("text")
	res := env.Eval(s)
	require.NoError(t, res.Err)
	assert.True(t, lisp.Equal(s, res.Value))
	assert.NotSame(t, s, res.Value)

	q := lisp.List(lisp.Number(1), lisp.Variable("a"))
	res = env.Eval(q)
	require.NoError(t, res.Err)
	assert.True(t, lisp.Equal(q, res.Value))
	res.Value.Inner().Cells[0].Num = 9
	assert.Equal(t, float64(1), q.Inner().Cells[0].Num)

	res = env.Eval(lisp.Comment("nothing"))
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Value)
}

func TestEvalUnboundIsNil(t *testing.T) {
	env, stdout, _ := newEnv(t)
	res := env.Eval(lisp.Variable("undefined-var"))
	assert.NoError(t, res.Err)
	assert.Nil(t, res.Value)

	res = env.RunProgram("test", "(print undefined-var)")
	assert.NoError(t, res.Err)
	assert.Equal(t, "nil\n", stdout.String())
}

func TestRunProgram(t *testing.T) {
	env, stdout, _ := newEnv(t)
	res := env.RunProgram("test", `
(set x 2)
(print (* x 21))
(+ x 1)`)
	require.NoError(t, res.Err)
	assert.Equal(t, "42\n", stdout.String())
	assert.Equal(t, "3", res.String())
}

func TestRunProgramStopsAtFirstError(t *testing.T) {
	env, stdout, _ := newEnv(t)
	res := env.RunProgram("test", `
(print "before")
(car 1)
(print "after")`)
	require.Error(t, res.Err)
	assert.Equal(t, "car: expected list, got number", res.Err.Error())
	assert.Equal(t, "before\n", stdout.String())
}

func TestRunProgramSyntaxError(t *testing.T) {
	env, stdout, _ := newEnv(t)
	res := env.RunProgram("test", `(print "x") (print`)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "missing ')'")
	assert.Empty(t, stdout.String(), "nothing runs when the program does not parse")
}

func TestRunProgramNoReader(t *testing.T) {
	env, err := lisp.NewRootEnv(true)
	require.NoError(t, err)
	res := env.RunProgram("test", "(+ 1 2)")
	assert.EqualError(t, res.Err, "no reader configured")
}

func TestClosureCapturesDefiningScope(t *testing.T) {
	env, _, _ := newEnv(t)
	res := env.RunProgram("test", `
(set make-counter ()
  (let ((n 0))
    (fun () (set n (+ n 1)) n)))
(set c1 (make-counter))
(set c2 (make-counter))
(c1)
(c1)
(c2)`)
	require.NoError(t, res.Err)
	assert.Equal(t, "1", res.String())
	res = env.RunProgram("test", "(c1)")
	require.NoError(t, res.Err)
	assert.Equal(t, "3", res.String())
	assert.Nil(t, env.Lookup("n"), "closure state leaked into the root scope")
}

func TestCallClosureFromGo(t *testing.T) {
	env, _, _ := newEnv(t)
	res := env.RunProgram("test", "(set y 1)\n(fun (x) (+ x y))")
	require.NoError(t, res.Err)
	fun := res.Value
	require.NotNil(t, fun)
	assert.False(t, fun.IsNative())
	require.Len(t, fun.Formals(), 1)
	assert.Equal(t, "x", fun.Formals()[0].Str)
	require.Len(t, fun.Body(), 1)

	other := lisp.NewEnv(env)
	other.Put("y", lisp.Number(100))
	res = other.Call("f", fun, []*lisp.LVal{lisp.Number(5)})
	require.NoError(t, res.Err)
	assert.Equal(t, "6", res.String())

	res = env.Call("f", fun, nil)
	assert.EqualError(t, res.Err, "f: expected 1 arguments, got 0")
}

func TestCallNativeReceivesRawArgs(t *testing.T) {
	var got []*lisp.LVal
	var gotName string
	quoteArgs := func(r *lisp.Registry) *lisp.Registry {
		return r.Add("raw-args", func(env *lisp.LEnv, name string, args []*lisp.LVal) lisp.Result {
			gotName = name
			got = args
			return lisp.Ok(lisp.Number(float64(len(args))))
		}, "Returns its argument count without evaluating them.")
	}
	env, _, _ := newEnv(t, lisp.WithBuiltins(quoteArgs))
	res := env.RunProgram("test", "(raw-args (car 1) undefined)")
	require.NoError(t, res.Err)
	assert.Equal(t, "2", res.String())
	assert.Equal(t, "raw-args", gotName)
	require.Len(t, got, 2)
	assert.Equal(t, lisp.LExpr, got[0].Type)
	assert.Equal(t, lisp.LVariable, got[1].Type)
}

func TestAssertIsFatal(t *testing.T) {
	env, stdout, stderr := newEnv(t)
	res := env.RunProgram("test", `
(assert (== 1 1))
(assert (== (+ 1 1) 3))
(print "unreachable")`)
	require.Error(t, res.Err)
	assert.True(t, lisp.IsFatal(res.Err))
	var aerr *lisp.AssertionError
	require.True(t, errors.As(res.Err, &aerr))
	assert.Equal(t, "(== (+ 1 1) 3)", aerr.Source)
	assert.Equal(t, "assertion failed: (== (+ 1 1) 3)\n", stderr.String())
	assert.Empty(t, stdout.String())

	res = env.RunProgram("test", "(car 1)")
	assert.False(t, lisp.IsFatal(res.Err))
}

func TestResultString(t *testing.T) {
	assert.Equal(t, "nil", lisp.Nothing().String())
	assert.Equal(t, "abc", lisp.Ok(lisp.String("abc")).String())
	assert.Equal(t, `'("abc")`, lisp.Ok(lisp.List(lisp.String("abc"))).String())
	assert.Equal(t, "error: boom", lisp.Errorf("boom").String())
	assert.True(t, lisp.Errorf("boom").IsErr())
	v, err := lisp.Ok(lisp.Number(1)).Unwrap()
	assert.NoError(t, err)
	assert.Equal(t, float64(1), v.Num)
}

func TestEvalDebugLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	env, _, _ := newEnv(t, lisp.WithLogger(logger))
	res := env.RunProgram("test", "(set sq (x) (* x x))\n(sq 3)")
	require.NoError(t, res.Err)
	assert.Equal(t, "9", res.String())
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "calling closure", entry.Message)
	assert.Equal(t, "sq", entry.Data["fun"])
	assert.Equal(t, 1, entry.Data["nargs"])

	hook.Reset()
	logger.SetLevel(logrus.InfoLevel)
	res = env.RunProgram("test", "(sq 4)")
	require.NoError(t, res.Err)
	assert.Empty(t, hook.AllEntries())
}

func TestConfigErrors(t *testing.T) {
	_, err := lisp.NewRootEnv(true, lisp.WithLogger(nil))
	assert.Error(t, err)
	_, err = lisp.NewRootEnv(true, lisp.WithLogLevel("loud"))
	assert.Error(t, err)
	_, err = lisp.NewRootEnv(true, lisp.WithMaximumDepth(-1))
	assert.Error(t, err)

	env, err := lisp.NewRootEnv(true, lisp.WithLogLevel("debug"))
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, env.Runtime.Logger.GetLevel())
}

// callRecorder is a lisp.Profiler that remembers the functions it saw.
type callRecorder struct {
	enabled bool
	started []string
	done    int
}

func (p *callRecorder) IsEnabled() bool { return p.enabled }

func (p *callRecorder) Enable() error {
	if p.enabled {
		return errors.New("already enabled")
	}
	p.enabled = true
	return nil
}

func (p *callRecorder) Start(name string, fun *lisp.LVal) func() {
	p.started = append(p.started, name)
	return func() { p.done++ }
}

func (p *callRecorder) Complete() error { return nil }

func TestProfilerSeesCalls(t *testing.T) {
	p := &callRecorder{}
	env, _, _ := newEnv(t, lisp.WithProfiler(p))
	assert.True(t, p.IsEnabled())
	res := env.RunProgram("test", "(set f (x) (+ x 1))\n(f 1)")
	require.NoError(t, res.Err)
	assert.Equal(t, []string{"set", "f", "+"}, p.started)
	assert.Equal(t, 3, p.done)

	_, err := lisp.NewRootEnv(true, lisp.WithProfiler(p))
	assert.Error(t, err, "enabling a profiler twice")
}
