package foamcase

import (
	"log/slog"

	"github.com/viant/foamcase/service/allocator"
	"github.com/viant/foamcase/service/dictionary"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/service/mirror"
	"github.com/viant/foamcase/tracing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises Service.
type Option func(s *Service)

// WithConfig sets the configuration
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger shared by every component
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithPool sets the CPU pool, overriding Config.CPUs
func WithPool(pool *allocator.Pool) Option {
	return func(s *Service) {
		s.pool = pool
	}
}

// WithExecutor sets the process executor, overriding Config.Executor
func WithExecutor(service executor.Service) Option {
	return func(s *Service) {
		s.executor = service
	}
}

// WithMirror sets the filesystem mirroring service
func WithMirror(service mirror.Service) Option {
	return func(s *Service) {
		s.mirror = service
	}
}

// WithTool sets the dictionary tool, overriding Config.Dictionary
func WithTool(tool dictionary.Tool) Option {
	return func(s *Service) {
		s.tool = tool
	}
}

// WithTracing configures OpenTelemetry tracing with the stdout exporter. If
// outputFile is empty traces go to os.Stdout. The first successful
// initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		s.tracing = &TracingConfig{Enabled: true, ServiceName: serviceName, ServiceVersion: serviceVersion, OutputFile: outputFile}
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, for example OTLP. The first successful initialisation wins.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
