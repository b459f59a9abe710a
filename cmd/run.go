// Copyright © 2024 The schym authors

package cmd

import (
	"fmt"
	"os"

	"github.com/schymlang/schym/lisp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ExpressionName is the source name of programs given with run -e.
const ExpressionName = "<expression>"

type source struct {
	name string
	text string
}

// RunCommand returns the run command.
func RunCommand(opts ...Option) *cobra.Command {
	var (
		runExpression bool
		runPrint      bool
		noPrelude     bool
	)
	cmd := &cobra.Command{
		Use:   "run [flags] FILE...",
		Short: "Run schym code",
		Long: `Run schym code supplied via the command line or files.

Files are run in order in a single root scope.  A syntax error stops the
run before anything is evaluated.  An evaluation error stops the run and
is reported as "Error while executing code: <message>".  A failed assert
stops the run after printing its report.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCmdConfig(opts...)
			srcs, err := readSources(c, args, runExpression)
			if err != nil {
				return err
			}
			env, err := c.rootEnv(!noPrelude)
			if err != nil {
				return err
			}
			tr, err := newTracer(viper.GetString(keyTrace), env.Runtime.Logger)
			if err != nil {
				return err
			}
			if tr != nil {
				if !env.Runtime.Logger.IsLevelEnabled(logrus.InfoLevel) {
					env.Runtime.Logger.SetLevel(logrus.InfoLevel)
				}
				if err := lisp.WithProfiler(tr.profiler)(env); err != nil {
					return err
				}
				defer tr.complete() //nolint:errcheck
			}
			return runSources(c, env, srcs, runPrint)
		},
	}
	cmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as schym expressions")
	cmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each top level expression to stdout")
	cmd.Flags().BoolVar(&noPrelude, "no-prelude", false,
		"Start with an empty builtin registry")
	cmd.Flags().String(keyReader, "rd", `Source reader: "rd" or "parsec"`)
	cmd.Flags().String(keyTrace, "none", fmt.Sprintf("Trace function calls: one of %v", TraceModes))
	cmd.Flags().Bool(keyIntern, true, "Canonicalize variable names under quotes")
	for _, key := range []string{keyReader, keyTrace, keyIntern} {
		_ = viper.BindPFlag(key, cmd.Flags().Lookup(key))
	}
	return cmd
}

func readSources(c *cmdConfig, args []string, expressions bool) ([]source, error) {
	srcs := make([]source, len(args))
	for i, arg := range args {
		if expressions {
			srcs[i] = source{name: ExpressionName, text: arg}
			continue
		}
		b, err := os.ReadFile(arg) //nolint:gosec
		if err != nil {
			fmt.Fprintf(c.stderr, "couldn't read file: '%s'\n", arg) //nolint:errcheck
			return nil, errExit
		}
		srcs[i] = source{name: arg, text: string(b)}
	}
	return srcs, nil
}

// runSources parses every source and then evaluates them in env.
func runSources(c *cmdConfig, env *lisp.LEnv, srcs []source, print bool) error {
	programs := make([][]*lisp.LVal, len(srcs))
	for i, src := range srcs {
		forms, err := env.ReadProgram(src.name, src.text)
		if err != nil {
			_ = c.renderer(map[string]string{src.name: src.text}).RenderError(c.stderr, err)
			return errExit
		}
		if len(forms) == 0 {
			fmt.Fprintln(c.stderr, "Program is empty") //nolint:errcheck
			return errExit
		}
		programs[i] = forms
	}
	for _, forms := range programs {
		for _, form := range forms {
			res := env.EvalAll([]*lisp.LVal{form})
			if lisp.IsFatal(res.Err) {
				return errExit
			}
			if res.Err != nil {
				fmt.Fprintf(c.stderr, "Error while executing code: %s\n", res.Err) //nolint:errcheck
				return errExit
			}
			if print {
				fmt.Fprintln(c.stdout, lisp.DisplayString(res.Value)) //nolint:errcheck
			}
		}
	}
	return nil
}
