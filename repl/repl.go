// Copyright © 2024 The schym authors

// Package repl implements an interactive schym session on top of readline.
package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/schymlang/schym/diagnostic"
	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/lisp/lisplib/libhelp"
	"github.com/schymlang/schym/parser"
	"github.com/schymlang/schym/parser/rdparser"
)

// InputName is the source name given to interactive input.
const InputName = "stdin"

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
	color       diagnostic.ColorMode
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	c := &config{historyFile: historyPath()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output of the REPL.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets where input history is kept.  An empty path disables
// history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithColor sets the color mode used to render errors.
func WithColor(mode diagnostic.ColorMode) Option {
	return func(c *config) {
		c.color = mode
	}
}

// WithEnvConfig adds configuration for the root scope made by RunRepl.
func WithEnvConfig(cfg ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfg...)
	}
}

// RunRepl runs a repl in a root scope holding the prelude and the help
// builtin.  See RunEnv for the returned error.
func RunRepl(prompt string, opts ...Option) error {
	cfg := newConfig(opts...)
	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithLibrary(lisp.NewPreludeLibrary("src")),
		lisp.WithBuiltins(libhelp.RegisterHelp),
	}
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envConfig...)
	env, err := lisp.NewRootEnv(true, envOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Language initialization failure: %v\n", err) //nolint:errcheck
		os.Exit(1)
	}
	return RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a repl with env as a root scope.  Input lines are collected
// until they form complete expressions, showing cont as the prompt for
// continuation lines.  The session ends at the end of input, returning nil,
// or when an assertion fails, returning the *lisp.AssertionError.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) error {
	if env.Parent != nil {
		fmt.Fprintln(os.Stderr, "REPL environment is not a root environment.") //nolint:errcheck
		os.Exit(1)
	}
	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	ensureHistoryFilePermissions(cfg.historyFile)

	rlCfg := &readline.Config{
		Stdout:            env.Runtime.Stderr,
		Stderr:            env.Runtime.Stderr,
		Prompt:            prompt,
		HistoryFile:       cfg.historyFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck

	s := &session{
		env:      env,
		renderer: &diagnostic.Renderer{Color: cfg.color},
	}
	for {
		line, err := rl.ReadSlice()
		if errors.Is(err, readline.ErrInterrupt) {
			s.pending.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			return nil
		}
		more := s.feed(string(line))
		if s.fatal != nil {
			return s.fatal
		}
		if more {
			rl.SetPrompt(cont)
		} else {
			rl.SetPrompt(prompt)
		}
	}
}

// session accumulates input until it parses.
type session struct {
	env      *lisp.LEnv
	renderer *diagnostic.Renderer
	pending  strings.Builder
	// fatal is set by a failed assertion and ends the session.
	fatal error
}

// feed adds a line of input and evaluates it once the pending text is
// complete.  It reports whether more input is needed.
func (s *session) feed(line string) bool {
	s.pending.WriteString(line)
	s.pending.WriteString("\n")
	src := s.pending.String()
	if strings.TrimSpace(src) == "" {
		s.pending.Reset()
		return false
	}
	forms, err := rdparser.ParseProgram(InputName, src)
	if rdparser.IsIncomplete(err) {
		return true
	}
	s.pending.Reset()
	w := s.env.Runtime.Stderr
	if err != nil {
		s.renderer.SourceReader = func(string) ([]byte, error) { return []byte(src), nil }
		_ = s.renderer.RenderError(w, err)
		return false
	}
	for _, form := range forms {
		res := s.env.EvalAll([]*lisp.LVal{form})
		switch {
		case lisp.IsFatal(res.Err):
			// assert already reported it
			s.fatal = res.Err
			return false
		case res.Err != nil:
			d := diagnostic.FromError(res.Err)
			d.Notes = append(d.Notes, "use (help name) to read the documentation of a builtin")
			_ = s.renderer.Render(w, d)
		case res.Value != nil:
			fmt.Fprintln(w, res.Value) //nolint:errcheck
		}
	}
	return false
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".schym_history")
}

// ensureHistoryFilePermissions creates path if needed and restricts it to
// the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //nolint:gosec
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}
