// Copyright © 2024 The schym authors

package cmd

import (
	"os"
	"path/filepath"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// ReplCommand returns the repl command.
func ReplCommand(opts ...Option) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive schym REPL",
		Long: `Start an interactive read-eval-print loop.

Input is collected until it holds complete expressions, so an expression
may span several lines.  Line editing, completion of builtin and bound
names, and history are supported via readline.  History is kept in the
file named by the history-file setting.  Use Ctrl-D to exit and Ctrl-C to
discard the pending input.  A failed assert ends the session with exit
status 1.

Example REPL session:
  schym> (set square (x) (* x x))
  schym> (square 5)
  25
  schym> (help cond)
  ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCmdConfig(opts...)
			cfg, err := c.envConfig()
			if err != nil {
				return err
			}
			err = repl.RunRepl(filepath.Base(os.Args[0])+"> ",
				repl.WithHistoryFile(viper.GetString(keyHistoryFile)),
				repl.WithColor(colorMode()),
				repl.WithEnvConfig(cfg...),
			)
			if lisp.IsFatal(err) {
				return errExit
			}
			return err
		},
	}
}
