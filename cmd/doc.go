// Copyright © 2024 The schym authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/schymlang/schym/docs"
	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/lisp/lisplib/libhelp"
	"github.com/spf13/cobra"
)

// DocCommand returns the doc command.
func DocCommand(opts ...Option) *cobra.Command {
	var (
		docSourceFile string
		docList       bool
		docMissing    bool
		docGuide      bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] [NAME]",
		Short: "Show documentation for schym builtins",
		Long: `Show the documentation of a builtin, or of every builtin when no name
is given.  Names bound by a source file loaded with -f are described by
their kind and value, functions by their signature.

Examples:
  schym doc cond                    Show docs for cond
  schym doc -l                      List every builtin with a summary
  schym doc -f lib.schym my-func    Load a file, then describe my-func
  schym doc --missing               List builtins without documentation
  schym doc --guide                 Print the language guide`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCmdConfig(opts...)
			if docGuide {
				_, err := io.WriteString(c.stdout, docs.LangGuide)
				return err
			}
			env, err := c.rootEnv(true)
			if err != nil {
				return err
			}
			if docSourceFile != "" {
				res := env.LoadFile(docSourceFile)
				if res.Err != nil {
					fmt.Fprintf(c.stderr, "Error while executing code: %s\n", res.Err) //nolint:errcheck
					return errExit
				}
			}
			out := bufio.NewWriter(c.stdout)
			defer out.Flush() //nolint:errcheck
			switch {
			case docMissing:
				return docMissingExec(out, env)
			case docList:
				return libhelp.RenderList(out, env.Runtime.Registry)
			case len(args) == 0:
				return libhelp.RenderAll(out, env.Runtime.Registry)
			default:
				return libhelp.RenderName(out, env, args[0])
			}
		},
	}
	cmd.Flags().StringVarP(&docSourceFile, "source-file", "f", "",
		"Evaluate a source file before querying documentation.")
	cmd.Flags().BoolVarP(&docList, "list", "l", false,
		"List builtins with the first sentence of their documentation.")
	cmd.Flags().BoolVar(&docMissing, "missing", false,
		"List builtins without documentation and fail if there are any.")
	cmd.Flags().BoolVar(&docGuide, "guide", false,
		"Print the schym language guide.")
	return cmd
}

func docMissingExec(out *bufio.Writer, env *lisp.LEnv) error {
	missing := libhelp.MissingDocs(env.Runtime.Registry)
	if len(missing) == 0 {
		return nil
	}
	fmt.Fprintln(out, strings.Join(missing, "\n")) //nolint:errcheck
	return errExit
}
