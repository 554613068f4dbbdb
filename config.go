package foamcase

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"github.com/viant/foamcase/runtime/orchestrator"
	"github.com/viant/foamcase/service/dictionary"
	"gopkg.in/yaml.v3"
)

// Executor kinds
const (
	ExecutorLocal = "local"
	ExecutorShell = "shell"
)

// Config is a serialisable representation of the service configuration. The
// zero value of every nested field falls back to its package default.
type Config struct {
	// CPUs is the pool capacity; 0 shares the process-wide pool sized to the host.
	CPUs       int                   `json:"cpus" yaml:"cpus"`
	Dictionary DictionaryConfig      `json:"dictionary" yaml:"dictionary"`
	Launcher   orchestrator.Launcher `json:"launcher" yaml:"launcher"`
	Executor   ExecutorConfig        `json:"executor" yaml:"executor"`
	Tracing    TracingConfig         `json:"tracing" yaml:"tracing"`
}

// DictionaryConfig configures the foamDictionary tool.
type DictionaryConfig struct {
	Tool      string `json:"tool" yaml:"tool"`
	Precision int    `json:"precision" yaml:"precision"` // 0 omits -precision
}

// ExecutorConfig selects the process executor.
type ExecutorConfig struct {
	Kind      string `json:"kind" yaml:"kind"`
	TimeoutMs int    `json:"timeoutMs" yaml:"timeoutMs"` // shell sessions only
}

// TracingConfig enables the stdout OpenTelemetry exporter.
type TracingConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	ServiceName    string `json:"serviceName" yaml:"serviceName"`
	ServiceVersion string `json:"serviceVersion" yaml:"serviceVersion"`
	OutputFile     string `json:"outputFile" yaml:"outputFile"`
}

// DefaultConfig returns a Config populated with package defaults. Callers may
// modify the returned struct before passing it to WithConfig.
func DefaultConfig() *Config {
	return &Config{
		Dictionary: DictionaryConfig{
			Tool:      dictionary.DefaultToolName,
			Precision: dictionary.DefaultPrecision,
		},
		Launcher: orchestrator.DefaultLauncher(),
		Executor: ExecutorConfig{Kind: ExecutorLocal},
		Tracing: TracingConfig{
			ServiceName:    "foamcase",
			ServiceVersion: "0.1.0",
		},
	}
}

// Validate returns an error describing the first invalid setting, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.CPUs < 0 {
		return fmt.Errorf("cpus must be >= 0")
	}
	if c.Dictionary.Precision < 0 {
		return fmt.Errorf("dictionary.precision must be >= 0")
	}
	switch c.Executor.Kind {
	case "", ExecutorLocal, ExecutorShell:
	default:
		return fmt.Errorf("unsupported executor.kind: %v", c.Executor.Kind)
	}
	if c.Executor.TimeoutMs < 0 {
		return fmt.Errorf("executor.timeoutMs must be >= 0")
	}
	return nil
}

// LoadConfig reads a YAML (or JSON) config from any afs supported URL over
// the package defaults.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	ret := DefaultConfig()
	if err = yaml.Unmarshal(data, ret); err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = ret.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %v: %w", URL, err)
	}
	return ret, nil
}
