// Copyright © 2024 The schym authors

// Package libhelp renders builtin documentation and provides the help
// builtin.
package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/schymlang/schym/lisp"
)

// WrapWidth is the column at which rendered docs are wrapped.
const WrapWidth = 72

// RegisterHelp adds the help builtin to r unless it is already present.
func RegisterHelp(r *lisp.Registry) *lisp.Registry {
	if r == nil {
		r = lisp.NewRegistry()
	}
	if r.Find("help") != nil {
		return r
	}
	return r.Add("help", builtinHelp, `
		(help name) prints documentation for name.  Builtins have their
		docstring rendered.  Functions have their signature printed and
		other values their kind and current value.  Without an argument
		every builtin is listed.`)
}

func builtinHelp(env *lisp.LEnv, name string, args []*lisp.LVal) lisp.Result {
	w := env.Runtime.Stderr
	if len(args) == 0 {
		if err := RenderList(w, env.Runtime.Registry); err != nil {
			return lisp.Fail(err)
		}
		return lisp.Nothing()
	}
	if len(args) != 1 {
		return lisp.Errorf("%s: expected nargs (%d) to be <= 1", name, len(args))
	}
	sym := args[0]
	if sym.Type == lisp.LQuoted {
		sym = sym.Inner()
	}
	if sym == nil || sym.Type != lisp.LVariable {
		return lisp.Errorf("%s: argument is not a variable", name)
	}
	if err := RenderName(w, env, sym.Str); err != nil {
		return lisp.Fail(err)
	}
	return lisp.Nothing()
}

// MissingDocs returns the names of registered builtins without
// documentation.
func MissingDocs(r *lisp.Registry) []string {
	var missing []string
	for _, b := range r.Builtins() {
		if strings.TrimSpace(b.Doc) == "" {
			missing = append(missing, b.Name)
		}
	}
	return missing
}

// RenderList writes one line per enabled builtin: its name and the first
// sentence of its doc.
func RenderList(w io.Writer, r *lisp.Registry) error {
	for _, b := range r.Builtins() {
		if !b.Enabled {
			continue
		}
		line := fmt.Sprintf("  %-10s", b.Name)
		if first := summary(b.Doc); first != "" {
			line += "  " + first
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderAll writes the full documentation of every enabled builtin.
func RenderAll(w io.Writer, r *lisp.Registry) error {
	first := true
	for _, b := range r.Builtins() {
		if !b.Enabled {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if err := RenderBuiltin(w, b); err != nil {
			return err
		}
	}
	return nil
}

// RenderBuiltin writes the documentation for b.
func RenderBuiltin(w io.Writer, b *lisp.Builtin) error {
	_, err := fmt.Fprintf(w, "builtin %s\n", b.Name)
	if err != nil {
		return err
	}
	return renderDoc(w, b.Doc)
}

// RenderName writes documentation for whatever name is bound to in env.
func RenderName(w io.Writer, env *lisp.LEnv, name string) error {
	v := env.Lookup(name)
	if v == nil {
		_, err := fmt.Fprintf(w, "%s is unbound\n", name)
		return err
	}
	switch {
	case v.IsNative():
		b := env.Runtime.Registry.Find(name)
		if b == nil {
			b = &lisp.Builtin{Name: name}
		}
		return RenderBuiltin(w, b)
	case v.Type == lisp.LFun:
		_, err := fmt.Fprintf(w, "function (%s %s)\n", name, strings.Join(formalNames(v), " "))
		return err
	default:
		_, err := fmt.Fprintf(w, "%s %s\n  %s\n", v.Type, name, lisp.Stringify(v, 0))
		return err
	}
}

func formalNames(fun *lisp.LVal) []string {
	formals := fun.Formals()
	names := make([]string, 0, len(formals))
	for _, f := range formals {
		names = append(names, f.Str)
	}
	return names
}

func renderDoc(w io.Writer, doc string) error {
	cleaned := cleanDocstring(doc)
	if cleaned == "" {
		cleaned = "  no documentation"
	}
	_, err := fmt.Fprintln(w, cleaned)
	return err
}

// summary returns the first sentence of doc on a single line.
func summary(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ".  "); i >= 0 {
		return doc[:i+1]
	}
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

func cleanDocstring(doc string) string {
	doc = strings.TrimLeft(doc, "\n")
	if strings.TrimSpace(doc) == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), WrapWidth), 2)
	return strings.TrimRight(doc, "\n ")
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line of a raw string often has no indentation so it is not
// considered.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	minWS := -1
	for _, line := range lines[1:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		switch {
		case strings.TrimSpace(lines[i]) == "":
			lines[i] = ""
		case minWS > 0 && len(lines[i]) >= minWS:
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
