package orchestrator

import (
	"context"
	"os"

	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/tracing"
	"golang.org/x/sync/errgroup"
)

// Run runs the case and returns the standard output of the final command.
//
// With scripts permitted, a resolved (All)run(-parallel) script is executed
// under a reservation of the processor directory count, else the subdomain
// count, else one CPU. Otherwise the case is meshed with blockMesh when it has
// a blockMeshDict, decomposed when a parallel run has no processor
// directories yet, and the controlDict application is run, through the
// launcher when parallel.
func (c *Case) Run(ctx context.Context, options ...CallOption) (output string, err error) {
	call := newCall(true, options)
	ctx, span := tracing.StartSpan(ctx, "foamcase.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{"case": c.Name(), "mode": call.mode.String()})
	defer func() { tracing.EndSpan(span, err) }()

	if call.script {
		script, err := c.RunScript(call.mode)
		if err != nil {
			return "", err
		}
		if script != "" {
			return c.runScript(ctx, script, call)
		}
	}
	return c.runApplication(ctx, call)
}

func (c *Case) runScript(ctx context.Context, script string, call *call) (string, error) {
	if call.cpus == nil {
		cpus, err := c.parallelCPUs(ctx)
		if err != nil {
			return "", err
		}
		cpus = max(cpus, 1)
		call.cpus = &cpus
	}
	// the script launches its own processes
	call.mode = ModeAuto
	c.logger.Info("running case script", "case", c.Name(), "script", script, "cpus", *call.cpus)
	return c.exec(ctx, &executor.Command{Args: []string{script}}, call)
}

func (c *Case) runApplication(ctx context.Context, call *call) (string, error) {
	if c.HasBlockMesh() {
		if err := c.BlockMesh(ctx, WithEnv(call.env), WithCheck(*call.check)); err != nil {
			return "", err
		}
	}
	nprocessors, err := c.NProcessors()
	if err != nil {
		return "", err
	}
	hasDecompose := c.HasDecompose()
	if call.mode == ModeAuto {
		call.mode = ModeSerial
		if nprocessors > 0 || hasDecompose {
			call.mode = ModeParallel
		}
	}
	if call.mode == ModeParallel {
		if nprocessors == 0 {
			if !hasDecompose {
				return "", types.NewConfigurationNotFoundError(c.path, "parallel run requires processor directories or "+DecomposeParDictPath)
			}
			if err := c.DecomposePar(ctx, WithEnv(call.env), WithCheck(*call.check)); err != nil {
				return "", err
			}
		}
		if call.cpus == nil {
			cpus, err := c.parallelCPUs(ctx)
			if err != nil {
				return "", err
			}
			cpus = max(cpus, 1)
			call.cpus = &cpus
		}
	} else if call.cpus == nil {
		cpus := 1
		call.cpus = &cpus
	}

	application, err := c.Application(ctx)
	if err != nil {
		return "", err
	}
	c.logger.Info("running case application", "case", c.Name(), "application", application, "mode", call.mode.String(), "cpus", *call.cpus)
	return c.exec(ctx, &executor.Command{Args: []string{application}}, call)
}

// parallelCPUs returns the processor directory count, else the subdomain
// count, else zero.
func (c *Case) parallelCPUs(ctx context.Context) (int, error) {
	nprocessors, err := c.NProcessors()
	if err != nil || nprocessors > 0 {
		return nprocessors, err
	}
	nsubdomains, ok, err := c.NSubdomains(ctx)
	if err != nil || !ok {
		return 0, err
	}
	return nsubdomains, nil
}

// Clean removes generated data. A resolved (All)clean script is run instead
// when scripts are permitted; its failure is logged and ignored unless
// WithCheck(true) is given.
func (c *Case) Clean(ctx context.Context, options ...CallOption) (err error) {
	call := newCall(false, options)
	ctx, span := tracing.StartSpan(ctx, "foamcase.clean", tracing.KindInternal)
	span.WithAttributes(map[string]string{"case": c.Name()})
	defer func() { tracing.EndSpan(span, err) }()

	if call.script {
		if script := c.CleanScript(); script != "" {
			call.mode = ModeAuto
			if _, err = c.exec(ctx, &executor.Command{Args: []string{script}}, call); err != nil {
				if *call.check {
					return err
				}
				c.logger.Warn("clean script failed", "case", c.Name(), "script", script, "error", err)
			}
			return nil
		}
	}
	paths, err := c.CleanPaths()
	if err != nil {
		return err
	}
	group, groupCtx := errgroup.WithContext(ctx)
	for _, path := range paths {
		group.Go(func() error {
			return c.mirror.Remove(groupCtx, path)
		})
	}
	if err = group.Wait(); err != nil {
		return err
	}
	c.logger.Info("case cleaned", "case", c.Name(), "removed", len(paths))
	return nil
}

// Copy recursively copies the case to dest, preserving symbolic links, and
// returns the copy.
func (c *Case) Copy(ctx context.Context, dest string) (*Case, error) {
	if err := c.mirror.Copy(ctx, c.path, dest, nil); err != nil {
		return nil, err
	}
	return New(dest, c.options...)
}

// Clone makes a clean copy at dest. With a clean script the case is copied
// and the copy cleaned; otherwise clean paths are never copied.
func (c *Case) Clone(ctx context.Context, dest string) (*Case, error) {
	if c.CleanScript() != "" {
		ret, err := c.Copy(ctx, dest)
		if err != nil {
			return nil, err
		}
		if err = ret.Clean(ctx); err != nil {
			return nil, err
		}
		return ret, nil
	}
	paths, err := c.CleanPaths()
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(paths))
	for _, path := range paths {
		excluded[path] = true
	}
	exclude := func(source string, _ os.FileInfo) bool {
		return excluded[source]
	}
	if err = c.mirror.Copy(ctx, c.path, dest, exclude); err != nil {
		return nil, err
	}
	return New(dest, c.options...)
}

// BlockMesh runs blockMesh.
func (c *Case) BlockMesh(ctx context.Context, options ...CallOption) error {
	return c.utility(ctx, "blockMesh", options)
}

// DecomposePar runs decomposePar, creating the processor directories.
func (c *Case) DecomposePar(ctx context.Context, options ...CallOption) error {
	return c.utility(ctx, "decomposePar", options)
}

// ReconstructPar runs reconstructPar.
func (c *Case) ReconstructPar(ctx context.Context, options ...CallOption) error {
	return c.utility(ctx, "reconstructPar", options)
}

func (c *Case) utility(ctx context.Context, name string, options []CallOption) error {
	call := newCall(true, append([]CallOption{WithCPUs(1)}, options...))
	call.mode = ModeSerial
	_, err := c.exec(ctx, &executor.Command{Args: []string{name}}, call)
	return err
}
