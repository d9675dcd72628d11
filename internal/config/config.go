package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/chris-mcp/internal/catalog"
)

// Duration wraps time.Duration so YAML values can be written as "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the process configuration, loaded once at startup.
type Config struct {
	// ListenAddr is the address the HTTP server binds. The
	// CHRIS_MCP_ADDR environment variable overrides it.
	ListenAddr string `yaml:"listen_addr"`

	Catalog  CatalogConfig  `yaml:"catalog"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Jobs     JobsConfig     `yaml:"jobs"`
}

// CatalogConfig configures the remote plugin catalog client.
type CatalogConfig struct {
	BaseURL    string   `yaml:"base_url"`
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
}

// PipelineConfig selects the pipeline definition and its simulated pace.
type PipelineConfig struct {
	// File points at a YAML pipeline definition. Empty selects the
	// built-in leg length discrepancy workflow.
	File         string   `yaml:"file"`
	StepDuration Duration `yaml:"step_duration"`
}

// JobsConfig sets the job retention policy.
type JobsConfig struct {
	// MaxJobs caps retained jobs; the oldest is evicted past the cap.
	// Zero keeps every job for the process lifetime.
	MaxJobs int `yaml:"max_jobs"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		ListenAddr: ":8000",
		Catalog: CatalogConfig{
			BaseURL:    catalog.DefaultBaseURL,
			Timeout:    Duration(10 * time.Second),
			MaxRetries: 2,
		},
		Pipeline: PipelineConfig{
			StepDuration: Duration(30 * time.Second),
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path yields
// the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Config{}, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if addr := os.Getenv("CHRIS_MCP_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if c.Pipeline.StepDuration <= 0 {
		return fmt.Errorf("pipeline.step_duration must be positive")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	if c.Jobs.MaxJobs < 0 {
		return fmt.Errorf("jobs.max_jobs must not be negative")
	}
	return nil
}
