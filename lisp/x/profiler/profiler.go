// Copyright © 2024 The schym authors

// Package profiler contains lisp.Profiler implementations which annotate
// schym function calls with tracing spans or pprof labels.
package profiler

import (
	"errors"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/parser/token"
)

// SkipFilter reports whether a call to fun, made by name, is left out of a
// trace.
type SkipFilter func(name string, fun *lisp.LVal) bool

// FunLabeler returns the label used for a call to fun made by name.
type FunLabeler func(name string, fun *lisp.LVal) string

// Option configures a profiler.
type Option func(*profiler)

// WithSkipFilter sets the filter for tracing spans.  The default filter
// skips native builtins.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// WithNativeCalls traces builtin calls as well as closures.
func WithNativeCalls() Option {
	return WithSkipFilter(func(string, *lisp.LVal) bool { return false })
}

// WithFunLabeler sets the labeler for tracing spans.
func WithFunLabeler(funLabeler FunLabeler) Option {
	return func(p *profiler) {
		p.funLabeler = funLabeler
	}
}

// profiler holds the state shared by the annotators.
type profiler struct {
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) Enable() error {
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) skipTrace(name string, fun *lisp.LVal) bool {
	if !p.enabled {
		return true
	}
	if p.skipFilter != nil {
		return p.skipFilter(name, fun)
	}
	return fun.IsNative()
}

func (p *profiler) label(name string, fun *lisp.LVal) string {
	if p.funLabeler != nil {
		if label := p.funLabeler(name, fun); label != "" {
			return label
		}
	}
	return name
}

// getSourceLoc returns where a closure was defined, if known.
func getSourceLoc(fun *lisp.LVal) *token.Location {
	if fun.IsNative() || len(fun.Cells) == 0 {
		return nil
	}
	return fun.Cells[0].Source
}
