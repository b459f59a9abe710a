// Copyright © 2024 The schym authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schymlang/schym/diagnostic"
	"github.com/schymlang/schym/lint"
	"github.com/spf13/cobra"
)

var errUsage = &exitError{code: 2}

// LintCommand returns the lint command.
func LintCommand(opts ...Option) *cobra.Command {
	var (
		lintJSON     bool
		lintChecks   string
		lintListAll  bool
		lintExcludes []string
	)
	cmd := &cobra.Command{
		Use:   "lint [flags] [files...]",
		Short: "Run static analysis checks on schym source files",
		Long: `Report likely mistakes in schym source, similar to "go vet" for Go.
Each check examines the parsed program and reports diagnostics.  Layout is
not checked, use "schym fmt" for that.

With no files, reads from stdin.  A trailing "/..." expands to every .schym
file below a directory.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (unknown checks, unreadable files, syntax errors)

To suppress diagnostics on a line, add a comment to it:
  (if x 1 2 3) ; nolint:if-arity
  (if x 1 2 3) ; nolint

Available checks:
` + lint.AnalyzerDoc() + `Examples:
  schym lint file.schym                   Lint a single file
  schym lint --json src/...               Output diagnostics as JSON
  schym lint --checks=if-arity f.schym    Run only specific checks
  schym lint --list                       List available checks`,
		RunE: func(_ *cobra.Command, args []string) error {
			c := newCmdConfig(opts...)
			if lintListAll {
				for _, name := range lint.AnalyzerNames() {
					fmt.Fprintln(c.stdout, name) //nolint:errcheck
				}
				return nil
			}

			analyzers := lint.DefaultAnalyzers()
			if lintChecks != "" {
				var err error
				analyzers, err = lint.SelectAnalyzers(strings.Split(lintChecks, ","))
				if err != nil {
					fmt.Fprintf(c.stderr, "schym lint: %v\n", err) //nolint:errcheck
					return errUsage
				}
			}
			l := &lint.Linter{Analyzers: analyzers}

			var srcs []source
			if len(args) == 0 {
				b, err := io.ReadAll(c.stdin)
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				srcs = append(srcs, source{name: "<stdin>", text: string(b)})
			} else {
				paths, err := expandArgs(args, lintExcludes)
				if err != nil {
					fmt.Fprintln(c.stderr, err) //nolint:errcheck
					return errUsage
				}
				for _, path := range paths {
					b, err := os.ReadFile(path) //nolint:gosec
					if err != nil {
						fmt.Fprintln(c.stderr, err) //nolint:errcheck
						return errUsage
					}
					srcs = append(srcs, source{name: path, text: string(b)})
				}
			}

			texts := make(map[string]string, len(srcs))
			var all []lint.Diagnostic
			for _, src := range srcs {
				texts[src.name] = src.text
				diags, err := l.LintFile([]byte(src.text), src.name)
				if err != nil {
					_ = c.renderer(texts).RenderError(c.stderr, err)
					return errUsage
				}
				all = append(all, diags...)
			}

			if lintJSON {
				if err := lint.FormatJSON(c.stdout, all); err != nil {
					return err
				}
			} else if len(all) > 0 {
				renderLintDiagnostics(c, texts, all)
			}
			if len(all) > 0 {
				return errExit
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&lintJSON, "json", false,
		"Output diagnostics as JSON.")
	cmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	cmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
	cmd.Flags().StringArrayVar(&lintExcludes, "exclude", nil,
		"Glob pattern for files to exclude (may be repeated).")
	return cmd
}

// renderLintDiagnostics renders lint diagnostics as annotated source
// snippets on stderr.
func renderLintDiagnostics(c *cmdConfig, sources map[string]string, diags []lint.Diagnostic) {
	ds := make([]diagnostic.Diagnostic, 0, len(diags))
	for _, ld := range diags {
		ds = append(ds, lintDiagToDiagnostic(ld))
	}
	_ = c.renderer(sources).RenderAll(c.stderr, ds)
}

func lintDiagToDiagnostic(ld lint.Diagnostic) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  fmt.Sprintf("%s (%s)", ld.Message, ld.Analyzer),
		Notes:    ld.Notes,
	}
	switch ld.Severity {
	case lint.SeverityWarning:
		d.Severity = diagnostic.SeverityWarning
	case lint.SeverityInfo:
		d.Severity = diagnostic.SeverityNote
	}
	if ld.Pos.Line > 0 {
		d.Spans = []diagnostic.Span{{File: ld.Pos.File, Line: ld.Pos.Line, Col: ld.Pos.Col}}
	}
	return d
}
