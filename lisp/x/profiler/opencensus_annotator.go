// Copyright © 2024 The schym authors

package profiler

import (
	"context"
	"errors"

	"github.com/schymlang/schym/lisp"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
	currentSpan    *trace.Span
}

// NewOpenCensusAnnotator returns a profiler that starts an opencensus span
// under parentContext for every traced call.
func NewOpenCensusAnnotator(parentContext context.Context, opts ...Option) lisp.Profiler {
	p := &ocAnnotator{currentContext: parentContext}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *ocAnnotator) Enable() error {
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	if p.currentSpan != nil {
		p.currentSpan.End()
	}
	return nil
}

func (p *ocAnnotator) Start(name string, fun *lisp.LVal) func() {
	if p.skipTrace(name, fun) {
		return func() {}
	}
	oldContext := p.currentContext
	p.currentContext, p.currentSpan = trace.StartSpan(p.currentContext, p.label(name, fun))
	if loc := getSourceLoc(fun); loc != nil {
		p.currentSpan.Annotate([]trace.Attribute{
			trace.StringAttribute("file", loc.File),
			trace.Int64Attribute("line", int64(loc.Line)),
			trace.Int64Attribute("col", int64(loc.Col)),
		}, "source")
	}
	return func() {
		p.currentSpan.End()
		p.currentContext = oldContext
		p.currentSpan = trace.FromContext(p.currentContext)
	}
}
