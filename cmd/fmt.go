// Copyright © 2024 The schym authors

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/schymlang/schym/parser/rdparser"
	"github.com/spf13/cobra"
)

// FmtCommand returns the fmt command.
func FmtCommand(opts ...Option) *cobra.Command {
	var (
		fmtExpression bool
		fmtWrite      bool
		fmtList       bool
		fmtExcludes   []string
	)
	cmd := &cobra.Command{
		Use:   "fmt [flags] [files...]",
		Short: "Print schym source in canonical layout",
		Long: `Print each top level expression of schym source in the layout produced
by the stringifier: short expressions on one line, longer ones with one
item per line indented two spaces.  Comments and a leading #! line are
kept.

With no files, reads from stdin and writes to stdout.  A trailing "/..."
expands to every .schym file below a directory.

Examples:
  schym fmt file.schym             Print formatted output
  schym fmt -w src/...             Format a tree in place
  schym fmt -l src/...             List files needing formatting
  schym fmt -e '(set x 1)'         Format an expression`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newCmdConfig(opts...)
			switch {
			case fmtExpression:
				for _, arg := range args {
					if err := fmtSource(c, c.stdout, source{name: ExpressionName, text: arg}); err != nil {
						return err
					}
				}
				return nil
			case len(args) == 0:
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				return fmtSource(c, c.stdout, source{name: "<stdin>", text: string(b)})
			}
			paths, err := expandArgs(args, fmtExcludes)
			if err != nil {
				return err
			}
			failed := false
			for _, path := range paths {
				if err := fmtFile(c, path, fmtWrite, fmtList); err != nil {
					failed = true
				}
			}
			if failed {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&fmtExpression, "expression", "e", false,
		"Interpret arguments as schym source text")
	cmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to (source) file instead of stdout.")
	cmd.Flags().BoolVarP(&fmtList, "list", "l", false,
		"List files whose formatting differs from schym fmt's.")
	cmd.Flags().StringArrayVar(&fmtExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// formatSource returns the canonical text of src.  Top level comments and
// a #! line are kept.
func formatSource(src source) (string, error) {
	doc, err := rdparser.ParseDocument(src.name, src.text)
	if err != nil {
		return "", err
	}
	return doc.Format(), nil
}

func fmtSource(c *cmdConfig, w io.Writer, src source) error {
	out, err := formatSource(src)
	if err != nil {
		_ = c.renderer(map[string]string{src.name: src.text}).RenderError(c.stderr, err)
		return errExit
	}
	_, err = io.WriteString(w, out)
	return err
}

func fmtFile(c *cmdConfig, path string, write, list bool) error {
	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		fmt.Fprintf(c.stderr, "couldn't read file: '%s'\n", path) //nolint:errcheck
		return err
	}
	src := source{name: path, text: string(b)}
	if !write && !list {
		return fmtSource(c, c.stdout, src)
	}
	out, err := formatSource(src)
	if err != nil {
		_ = c.renderer(map[string]string{path: src.text}).RenderError(c.stderr, err)
		return err
	}
	if out == src.text {
		return nil
	}
	if list {
		_, err = fmt.Fprintln(c.stdout, path)
		return err
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(out), info.Mode().Perm())
}
