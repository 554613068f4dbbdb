package foamcase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/viant/foamcase/runtime/orchestrator"
	"github.com/viant/foamcase/service/allocator"
	"github.com/viant/foamcase/service/dictionary"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/service/mirror"
	"github.com/viant/foamcase/tracing"
	"golang.org/x/sync/errgroup"
)

// Service hands out cases and dictionary files sharing one CPU pool,
// executor, dictionary tool and mirror.
type Service struct {
	config   *Config
	logger   *slog.Logger
	pool     *allocator.Pool
	executor executor.Service
	mirror   mirror.Service
	tool     dictionary.Tool
	tracing  *TracingConfig
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.pool == nil {
		if s.config.CPUs == 0 {
			s.pool = allocator.Default()
		} else {
			s.pool = allocator.New(allocator.WithCapacity(s.config.CPUs), allocator.WithLogger(s.logger))
		}
	}
	if s.executor == nil {
		switch s.config.Executor.Kind {
		case ExecutorShell:
			s.executor = executor.NewShell(
				executor.WithTimeout(time.Duration(s.config.Executor.TimeoutMs)*time.Millisecond),
				executor.WithShellLogger(s.logger))
		default:
			s.executor = executor.NewLocal(executor.WithLocalLogger(s.logger))
		}
	}
	if s.mirror == nil {
		s.mirror = mirror.New()
	}
	if s.tool == nil {
		s.tool = dictionary.NewFoamDictionary(s.executor,
			dictionary.WithToolName(s.config.Dictionary.Tool),
			dictionary.WithPrecision(s.config.Dictionary.Precision),
			dictionary.WithToolLogger(s.logger))
	}
	if s.tracing == nil && s.config.Tracing.Enabled {
		s.tracing = &s.config.Tracing
	}
	if s.tracing != nil {
		if err := tracing.Init(s.tracing.ServiceName, s.tracing.ServiceVersion, s.tracing.OutputFile); err != nil {
			return fmt.Errorf("failed to initialise tracing: %w", err)
		}
	}
	return nil
}

// Config returns the effective configuration.
func (s *Service) Config() *Config {
	return s.config
}

// Pool returns the shared CPU pool.
func (s *Service) Pool() *allocator.Pool {
	return s.pool
}

// Case binds the case directory at path.
func (s *Service) Case(path string) (*orchestrator.Case, error) {
	return orchestrator.New(path,
		orchestrator.WithPool(s.pool),
		orchestrator.WithExecutor(s.executor),
		orchestrator.WithMirror(s.mirror),
		orchestrator.WithTool(s.tool),
		orchestrator.WithLauncher(s.config.Launcher),
		orchestrator.WithLogger(s.logger),
	)
}

// OpenFile binds the dictionary file at path.
func (s *Service) OpenFile(path string) (*dictionary.File, error) {
	return dictionary.Open(s.tool, path)
}

// RunAll runs every case concurrently; concurrency is bounded only by the CPU
// pool. Outputs are returned in input order. The first failure cancels the
// runs still waiting for CPUs.
func (s *Service) RunAll(ctx context.Context, cases []*orchestrator.Case, options ...orchestrator.CallOption) ([]string, error) {
	outputs := make([]string, len(cases))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, aCase := range cases {
		group.Go(func() error {
			output, err := aCase.Run(groupCtx, options...)
			if err != nil {
				return fmt.Errorf("case %v: %w", aCase.Name(), err)
			}
			outputs[i] = output
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return outputs, err
	}
	return outputs, nil
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
