package tracing

import (
	"context"
	"io"
	"os"
	"strconv"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/viant/foamcase"

// Init configures OpenTelemetry with the stdout exporter writing to
// outputFile, or os.Stdout when outputFile is empty. The first successful
// initialisation wins.
func Init(serviceName, serviceVersion, outputFile string) error {
	var w io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return err
		}
		w = f
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return err
	}
	return installProvider(serviceName, serviceVersion, exporter)
}

// InitWithExporter configures OpenTelemetry with the supplied exporter.
func InitWithExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	return installProvider(serviceName, serviceVersion, exporter)
}

var installOnce sync.Once

// installProvider registers a global tracer provider exporting to exporter.
// Later calls are no-ops.
func installProvider(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) error {
	if exporter == nil {
		return nil
	}
	installOnce.Do(func() {
		attrs := resource.NewWithAttributes("",
			attribute.String("service.name", serviceName),
			attribute.String("service.version", serviceVersion),
		)
		res, err := resource.Merge(resource.Default(), attrs)
		if err != nil {
			// conflicting schema URLs; keep the service attributes
			res = attrs
		}
		otel.SetTracerProvider(sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(exporter),
			sdktrace.WithResource(res),
		))
	})
	return nil
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// WithAttributes attaches string attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		otelAttrs = append(otelAttrs, attribute.String(k, v))
	}
	s.span.SetAttributes(otelAttrs...)
	return s
}

// WithInt attaches an integer attribute to the span.
func (s *Span) WithInt(key string, value int) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int(key, value))
	return s
}

// SetStatus records err on the span, or an OK status when err is nil.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// SetExitStatus records a process exit status; nonzero marks the span failed.
func (s *Span) SetExitStatus(status int) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attribute.Int("process.exit_code", status))
	if status != 0 {
		s.span.SetStatus(codes.Error, "exit status "+strconv.Itoa(status))
	}
}

// Kind classifies a span.
type Kind = trace.SpanKind

const (
	// KindInternal marks orchestration steps that stay in process.
	KindInternal = trace.SpanKindInternal
	// KindProcess marks a span around an external process.
	KindProcess = trace.SpanKindClient
)

// StartSpan starts a span of kind named name, a child of any span in ctx.
func StartSpan(ctx context.Context, name string, kind Kind) (context.Context, *Span) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithSpanKind(kind))
	return ctx, &Span{span: span}
}

// EndSpan records the outcome and ends the span. A status already set to
// error by SetExitStatus is kept when err is nil.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	if err != nil {
		sp.SetStatus(err)
	}
	sp.span.End()
}

// SpanFromContext returns the span carried by ctx.
func SpanFromContext(ctx context.Context) (*Span, bool) {
	sp := trace.SpanFromContext(ctx)
	if !sp.SpanContext().IsValid() {
		return nil, false
	}
	return &Span{span: sp}, true
}
