package foamcase

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/foamcase/model/entry"
	"github.com/viant/foamcase/model/types"
	"github.com/viant/foamcase/runtime/orchestrator"
	"github.com/viant/foamcase/service/dictionary/memory"
	"github.com/viant/foamcase/service/executor"
)

func newCaseDir(t *testing.T, tool *memory.Tool, name, application string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), name)
	controlDict := filepath.Join(root, "system", "controlDict")
	require.NoError(t, os.MkdirAll(filepath.Dir(controlDict), 0o755))
	content := "application " + application + ";\n"
	require.NoError(t, os.WriteFile(controlDict, []byte(content), 0o644))
	require.NoError(t, tool.Load(controlDict, content))
	return root
}

func TestService(t *testing.T) {
	ctx := context.Background()
	tool := memory.New()
	echo := executor.Func(func(ctx context.Context, command *executor.Command) (*executor.Result, error) {
		return &executor.Result{Stdout: []byte(command.Line())}, nil
	})
	srv, err := New(WithConfig(&Config{CPUs: 2}), WithExecutor(echo), WithTool(tool))
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Pool().Capacity())

	var cases []*orchestrator.Case
	for name, application := range map[string]string{"pitzDaily": "simpleFoam", "cavity": "icoFoam", "damBreak": "interFoam"} {
		aCase, err := srv.Case(newCaseDir(t, tool, name, application))
		require.NoError(t, err)
		cases = append(cases, aCase)
	}
	outputs, err := srv.RunAll(ctx, cases)
	require.NoError(t, err)
	for i, aCase := range cases {
		application, err := aCase.Application(ctx)
		require.NoError(t, err)
		assert.Equal(t, application, outputs[i])
	}
	assert.Equal(t, 0, srv.Pool().InUse())

	file, err := srv.OpenFile(filepath.Join(cases[0].Path(), "system", "controlDict"))
	require.NoError(t, err)
	require.NoError(t, file.Set(ctx, "endTime", entry.Int(100)))
	endTime, err := file.Int(ctx, "endTime")
	require.NoError(t, err)
	assert.Equal(t, 100, endTime)

	_, err = srv.OpenFile(filepath.Join(cases[0].Path(), "system", "fvSchemes"))
	assert.ErrorIs(t, err, types.ErrConfigurationNotFound)
	_, err = srv.Case(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, types.ErrConfigurationNotFound)
}

func TestService_RunAllFailure(t *testing.T) {
	tool := memory.New()
	fail := executor.Func(func(ctx context.Context, command *executor.Command) (*executor.Result, error) {
		if strings.Contains(command.Line(), "interFoam") {
			return &executor.Result{Status: 1, Stderr: []byte("Floating point exception")}, nil
		}
		return &executor.Result{}, nil
	})
	srv, err := New(WithConfig(&Config{CPUs: 1}), WithExecutor(fail), WithTool(tool))
	require.NoError(t, err)
	aCase, err := srv.Case(newCaseDir(t, tool, "damBreak", "interFoam"))
	require.NoError(t, err)
	_, err = srv.RunAll(context.Background(), []*orchestrator.Case{aCase})
	assert.ErrorIs(t, err, types.ErrCommandFailed)
	assert.Contains(t, err.Error(), "damBreak")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(WithConfig(&Config{CPUs: -1}))
	assert.Error(t, err)
}

func TestConfig(t *testing.T) {
	testCases := []struct {
		description string
		yaml        string
		expect      func(t *testing.T, config *Config)
		hasError    bool
	}{
		{
			description: "defaults kept",
			yaml:        "cpus: 16\n",
			expect: func(t *testing.T, config *Config) {
				assert.Equal(t, 16, config.CPUs)
				assert.Equal(t, "foamDictionary", config.Dictionary.Tool)
				assert.Equal(t, 15, config.Dictionary.Precision)
				assert.Equal(t, orchestrator.DefaultLauncher(), config.Launcher)
				assert.Equal(t, ExecutorLocal, config.Executor.Kind)
			},
		},
		{
			description: "overrides",
			yaml: `dictionary:
  tool: /opt/openfoam/bin/foamDictionary
  precision: 0
launcher:
  command: mpirun
  npFlag: -n
executor:
  kind: shell
  timeoutMs: 60000
tracing:
  enabled: true
  outputFile: /tmp/trace.json
`,
			expect: func(t *testing.T, config *Config) {
				assert.Equal(t, "/opt/openfoam/bin/foamDictionary", config.Dictionary.Tool)
				assert.Equal(t, 0, config.Dictionary.Precision)
				assert.Equal(t, "mpirun", config.Launcher.Command)
				assert.Equal(t, "-n", config.Launcher.NpFlag)
				assert.Equal(t, "-parallel", config.Launcher.ParallelFlag)
				assert.Equal(t, ExecutorShell, config.Executor.Kind)
				assert.Equal(t, 60000, config.Executor.TimeoutMs)
				assert.True(t, config.Tracing.Enabled)
				assert.Equal(t, "foamcase", config.Tracing.ServiceName)
			},
		},
		{description: "invalid kind", yaml: "executor:\n  kind: ssh\n", hasError: true},
		{description: "invalid yaml", yaml: "cpus: [", hasError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			location := filepath.Join(t.TempDir(), "foamcase.yaml")
			require.NoError(t, os.WriteFile(location, []byte(tc.yaml), 0o644))
			config, err := LoadConfig(context.Background(), location)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tc.expect(t, config)
		})
	}

	_, err := LoadConfig(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
