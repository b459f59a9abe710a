// Copyright © 2024 The schym authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/schymlang/schym/lisp"
)

// pprofAnnotator labels the current goroutine with the running function so
// pprof samples can be grouped by schym function.  It does not start pprof.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that sets pprof goroutine labels.
func NewPprofAnnotator(parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &pprofAnnotator{currentContext: parentContext}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

// Labels reports the labels currently applied by the annotator.
func Labels(p lisp.Profiler) map[string]string {
	pa, ok := p.(*pprofAnnotator)
	if !ok {
		return nil
	}
	labels := map[string]string{}
	pprof.ForLabels(pa.currentContext, func(key, value string) bool {
		labels[key] = value
		return true
	})
	return labels
}

func (p *pprofAnnotator) Start(name string, fun *lisp.LVal) func() {
	if p.skipTrace(name, fun) {
		return func() {}
	}
	oldContext := p.currentContext
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", p.label(name, fun)))
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}
