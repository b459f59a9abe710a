// Copyright © 2024 The schym authors

package cmd

import (
	"io"
	"os"
	"path/filepath"

	"github.com/schymlang/schym/diagnostic"
	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/lisp/lisplib/libhelp"
	"github.com/schymlang/schym/parser"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Option configures an exported command factory (RunCommand, DocCommand,
// ...).
type Option func(*cmdConfig)

type cmdConfig struct {
	env    *lisp.LEnv
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// WithEnv injects a fully configured root scope.  Commands use it instead
// of building one from the configuration.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}

// WithOutput redirects program output and error reports.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *cmdConfig) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// WithInput sets the stream read by the input builtin.
func WithInput(stdin io.Reader) Option {
	return func(c *cmdConfig) { c.stdin = stdin }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// envConfig returns the lisp configuration described by viper settings.
func (c *cmdConfig) envConfig() ([]lisp.Config, error) {
	reader, err := newReader()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(c.stderr, viper.GetString(keyLogLevel))
	if err != nil {
		return nil, err
	}
	return []lisp.Config{
		lisp.WithReader(reader),
		lisp.WithLibrary(lisp.NewPreludeLibrary(viper.GetString(keyPreludeDir))),
		lisp.WithStdin(c.stdin),
		lisp.WithStdout(c.stdout),
		lisp.WithStderr(c.stderr),
		lisp.WithLogger(logger),
		lisp.WithInterning(viper.GetBool(keyIntern)),
		lisp.WithBuiltins(libhelp.RegisterHelp),
	}, nil
}

// rootEnv returns the injected root scope or a new one built from the
// configuration followed by extra.
func (c *cmdConfig) rootEnv(prelude bool, extra ...lisp.Config) (*lisp.LEnv, error) {
	if c.env != nil {
		for _, fn := range extra {
			if err := fn(c.env); err != nil {
				return nil, err
			}
		}
		return c.env, nil
	}
	cfg, err := c.envConfig()
	if err != nil {
		return nil, err
	}
	return lisp.NewRootEnv(prelude, append(cfg, extra...)...)
}

func (c *cmdConfig) renderer(sources map[string]string) *diagnostic.Renderer {
	return &diagnostic.Renderer{
		Color: colorMode(),
		SourceReader: func(name string) ([]byte, error) {
			if src, ok := sources[name]; ok {
				return []byte(src), nil
			}
			return os.ReadFile(name) //nolint:gosec
		},
	}
}

func colorMode() diagnostic.ColorMode {
	return diagnostic.ParseColorMode(viper.GetString(keyColor))
}

// newLogger returns a text logger writing to w at the named level.
func newLogger(w io.Writer, level string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)
	mode := colorMode()
	logger.SetFormatter(&logrus.TextFormatter{
		ForceColors:   mode == diagnostic.ColorAlways,
		DisableColors: mode == diagnostic.ColorNever,
	})
	return logger, nil
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".schym_history")
}

func newReader() (lisp.Reader, error) {
	return parser.NewNamedReader(viper.GetString(keyReader))
}
