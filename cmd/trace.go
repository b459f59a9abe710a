// Copyright © 2024 The schym authors

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/schymlang/schym/lisp"
	"github.com/schymlang/schym/lisp/x/profiler"
	"github.com/sirupsen/logrus"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TraceModes lists the accepted values of the trace setting.
var TraceModes = []string{"none", "otel", "opencensus", "pprof"}

// tracer is an enabled profiler and the function that flushes it.
type tracer struct {
	profiler lisp.Profiler
	shutdown func(context.Context) error
}

// newTracer returns a profiler for mode whose spans are logged to logger at
// info level.  It returns nil for "none".
func newTracer(mode string, logger logrus.FieldLogger) (*tracer, error) {
	ctx := context.Background()
	switch mode {
	case "", "none":
		return nil, nil
	case "otel":
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(&logSpanExporter{log: logger}),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		return &tracer{
			profiler: profiler.NewOpenTelemetryAnnotator(ctx),
			shutdown: tp.Shutdown,
		}, nil
	case "opencensus":
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		exporter := &logSpanExporter{log: logger}
		trace.RegisterExporter(exporter)
		return &tracer{
			profiler: profiler.NewOpenCensusAnnotator(ctx),
			shutdown: func(context.Context) error {
				trace.UnregisterExporter(exporter)
				return nil
			},
		}, nil
	case "pprof":
		return &tracer{
			profiler: profiler.NewPprofAnnotator(ctx),
			shutdown: func(context.Context) error { return nil },
		}, nil
	default:
		return nil, fmt.Errorf("unknown trace mode %q (expected one of %v)", mode, TraceModes)
	}
}

func (t *tracer) complete() error {
	if err := t.profiler.Complete(); err != nil {
		return err
	}
	return t.shutdown(context.Background())
}

// logSpanExporter writes finished spans as log entries.  It serves both
// tracing libraries.
type logSpanExporter struct {
	log logrus.FieldLogger
}

var _ sdktrace.SpanExporter = (*logSpanExporter)(nil)

func (e *logSpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := logrus.Fields{
			"span":     s.Name(),
			"duration": s.EndTime().Sub(s.StartTime()),
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.Emit()
		}
		e.log.WithFields(fields).Info("trace")
	}
	return nil
}

func (e *logSpanExporter) Shutdown(context.Context) error {
	return nil
}

func (e *logSpanExporter) ExportSpan(sd *trace.SpanData) {
	fields := logrus.Fields{
		"span":     sd.Name,
		"duration": sd.EndTime.Sub(sd.StartTime).Round(time.Microsecond),
	}
	for _, a := range sd.Annotations {
		for k, v := range a.Attributes {
			fields[k] = v
		}
	}
	e.log.WithFields(fields).Info("trace")
}
