package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/service/allocator"
	"github.com/viant/foamcase/service/dictionary"
	"github.com/viant/foamcase/service/executor"
	"github.com/viant/foamcase/service/mirror"
)

// Case file locations relative to the case directory.
const (
	ControlDictPath          = "system/controlDict"
	FvSchemesPath            = "system/fvSchemes"
	FvSolutionPath           = "system/fvSolution"
	DecomposeParDictPath     = "system/decomposeParDict"
	BlockMeshDictPath        = "system/blockMeshDict"
	TransportPropertiesPath  = "constant/transportProperties"
	TurbulencePropertiesPath = "constant/turbulenceProperties"
	polyMeshPath             = "constant/polyMesh"
	processorPrefix          = "processor"
)

var (
	serialScripts   = []string{"run", "Allrun"}
	parallelScripts = []string{"run-parallel", "Allrun-parallel"}
	cleanScripts    = []string{"clean", "Allclean"}
)

// Case is an OpenFOAM case directory.
type Case struct {
	path     string
	pool     *allocator.Pool
	executor executor.Service
	mirror   mirror.Service
	tool     dictionary.Tool
	launcher Launcher
	logger   *slog.Logger
	options  []Option
}

// Path returns the absolute case directory.
func (c *Case) Path() string {
	return c.path
}

// Name returns the case directory name.
func (c *Case) Name() string {
	return filepath.Base(c.path)
}

func (c *Case) String() string {
	return c.path
}

// File opens a dictionary file relative to the case directory.
func (c *Case) File(location string) (*dictionary.File, error) {
	return dictionary.Open(c.tool, filepath.Join(c.path, filepath.FromSlash(location)))
}

// ControlDict opens system/controlDict.
func (c *Case) ControlDict() (*dictionary.File, error) { return c.File(ControlDictPath) }

// FvSchemes opens system/fvSchemes.
func (c *Case) FvSchemes() (*dictionary.File, error) { return c.File(FvSchemesPath) }

// FvSolution opens system/fvSolution.
func (c *Case) FvSolution() (*dictionary.File, error) { return c.File(FvSolutionPath) }

// DecomposeParDict opens system/decomposeParDict.
func (c *Case) DecomposeParDict() (*dictionary.File, error) { return c.File(DecomposeParDictPath) }

// BlockMeshDict opens system/blockMeshDict.
func (c *Case) BlockMeshDict() (*dictionary.File, error) { return c.File(BlockMeshDictPath) }

// TransportProperties opens constant/transportProperties.
func (c *Case) TransportProperties() (*dictionary.File, error) {
	return c.File(TransportPropertiesPath)
}

// TurbulenceProperties opens constant/turbulenceProperties.
func (c *Case) TurbulenceProperties() (*dictionary.File, error) {
	return c.File(TurbulencePropertiesPath)
}

func (c *Case) isFile(location string) bool {
	info, err := os.Stat(filepath.Join(c.path, filepath.FromSlash(location)))
	return err == nil && info.Mode().IsRegular()
}

// HasDecompose reports whether system/decomposeParDict exists.
func (c *Case) HasDecompose() bool {
	return c.isFile(DecomposeParDictPath)
}

// HasBlockMesh reports whether system/blockMeshDict exists.
func (c *Case) HasBlockMesh() bool {
	return c.isFile(BlockMeshDictPath)
}

// NProcessors counts processor* directories.
func (c *Case) NProcessors() (int, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return 0, fmt.Errorf("failed to list case %v: %w", c.path, err)
	}
	count := 0
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), processorPrefix) && c.isDir(entry.Name()) {
			count++
		}
	}
	return count, nil
}

// NSubdomains returns numberOfSubdomains from decomposeParDict; ok is false
// when the case has no decomposeParDict.
func (c *Case) NSubdomains(ctx context.Context) (n int, ok bool, err error) {
	if !c.HasDecompose() {
		return 0, false, nil
	}
	file, err := c.DecomposeParDict()
	if err != nil {
		return 0, false, err
	}
	if n, err = file.Int(ctx, "numberOfSubdomains"); err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// Application returns the solver named in controlDict.
func (c *Case) Application(ctx context.Context) (string, error) {
	file, err := c.ControlDict()
	if err != nil {
		return "", err
	}
	return file.Word(ctx, "application")
}

// CleanPaths returns generated entries a clean removes: nonzero time
// directories, processor directories when the case is decomposable, and the
// mesh when it is generated by blockMesh.
func (c *Case) CleanPaths() ([]string, error) {
	entries, err := os.ReadDir(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to list case %v: %w", c.path, err)
	}
	hasDecompose := c.HasDecompose()
	var ret []string
	for _, entry := range entries {
		name := entry.Name()
		if !c.isDir(name) {
			continue
		}
		if isTimeDirectory(name) || (hasDecompose && strings.HasPrefix(name, processorPrefix)) {
			ret = append(ret, filepath.Join(c.path, name))
		}
	}
	if c.HasBlockMesh() {
		mesh := filepath.Join(c.path, filepath.FromSlash(polyMeshPath))
		if _, err := os.Lstat(mesh); err == nil {
			ret = append(ret, mesh)
		}
	}
	sort.Strings(ret)
	return ret, nil
}

func (c *Case) isDir(name string) bool {
	info, err := os.Stat(filepath.Join(c.path, name))
	return err == nil && info.IsDir()
}

// isTimeDirectory reports whether name is a nonzero finite time value.
func isTimeDirectory(name string) bool {
	t, err := strconv.ParseFloat(name, 64)
	return err == nil && t != 0 && !math.IsInf(t, 0) && !math.IsNaN(t)
}

// CleanScript returns the clean or Allclean script path, or "" when neither exists.
func (c *Case) CleanScript() string {
	return c.firstScript(cleanScripts)
}

// RunScript resolves the run script for mode. Serial scripts win when only
// they exist; parallel-only scripts are skipped for ModeSerial. When both
// kinds exist ModeAuto fails with types.ErrAmbiguousRunMode.
func (c *Case) RunScript(mode Mode) (string, error) {
	serial := c.firstScript(serialScripts)
	parallel := c.firstScript(parallelScripts)
	switch {
	case serial != "" && parallel != "":
		switch mode {
		case ModeParallel:
			return parallel, nil
		case ModeSerial:
			return serial, nil
		}
		return "", fmt.Errorf("%w: both %v and %v exist in %v, choose serial or parallel",
			types.ErrAmbiguousRunMode, filepath.Base(serial), filepath.Base(parallel), c.path)
	case serial != "":
		return serial, nil
	case parallel != "" && mode != ModeSerial:
		return parallel, nil
	}
	return "", nil
}

func (c *Case) firstScript(names []string) string {
	for _, name := range names {
		if c.isFile(name) {
			return filepath.Join(c.path, name)
		}
	}
	return ""
}

// New binds a Case to an existing directory. A missing path, or one that is
// not a directory, yields types.ErrConfigurationNotFound.
func New(path string, options ...Option) (*Case, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, types.NewConfigurationNotFoundError(path, err.Error())
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, types.NewConfigurationNotFoundError(abs, "not a directory")
	}
	ret := &Case{path: abs, launcher: DefaultLauncher(), options: options}
	for _, option := range options {
		option(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.pool == nil {
		ret.pool = allocator.Default()
	}
	if ret.executor == nil {
		ret.executor = executor.NewLocal(executor.WithLocalLogger(ret.logger))
	}
	if ret.mirror == nil {
		ret.mirror = mirror.New()
	}
	if ret.tool == nil {
		ret.tool = dictionary.NewFoamDictionary(ret.executor, dictionary.WithToolLogger(ret.logger))
	}
	return ret, nil
}
