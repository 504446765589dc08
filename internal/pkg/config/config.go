package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netsweep/netsweep_core/internal/pkg/design"
	"github.com/netsweep/netsweep_core/internal/pkg/network"
	"github.com/netsweep/netsweep_core/internal/pkg/scenario"
)

// ErrConfiguration marks a run configuration the pipeline refuses to act
// on. Unknown methods and strategies fail here instead of silently
// producing zero scenarios.
var ErrConfiguration = errors.New("invalid sweep configuration")

// Config is the run configuration for one sweep invocation.
type Config struct {
	Method           string    `yaml:"method" json:"method"`
	Samples          int       `yaml:"samples" json:"samples"`
	SamplingStrategy string    `yaml:"sampling_strategy" json:"sampling_strategy"`
	Seed             uint64    `yaml:"seed" json:"seed"`
	Sampling         Sampling  `yaml:"sampling" json:"sampling"`
	Features         []Feature `yaml:"features" json:"features"`
	Costs            *Costs    `yaml:"costs" json:"costs"`
	Provenance       string    `yaml:"provenance" json:"provenance"`
}

// Sampling holds the strategy-specific options; each strategy reads only
// the fields it understands.
type Sampling struct {
	Criterion    string `yaml:"criterion" json:"criterion"`
	Iterations   int    `yaml:"iterations" json:"iterations"`
	Rule         string `yaml:"rule" json:"rule"`
	Centered     bool   `yaml:"centered" json:"centered"`
	Strength     int    `yaml:"strength" json:"strength"`
	Optimization string `yaml:"optimization" json:"optimization"`
}

// Feature is one uncertain network attribute path with its bounds. Features
// are an ordered list: column j of the design matrix is Features[j].
type Feature struct {
	Path   string    `yaml:"path" json:"path"`
	Bounds []float64 `yaml:"bounds" json:"bounds"`
}

// Costs selects the cost-database collaborator backend.
type Costs struct {
	Source string `yaml:"source" json:"source"`
	Path   string `yaml:"path" json:"path"`
	DSN    string `yaml:"dsn" json:"dsn"`
}

// Load reads and validates a run configuration from a YAML or JSON file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrConfiguration, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration before any scenario is generated.
func (c *Config) Validate() error {
	if len(c.Features) == 0 {
		return fmt.Errorf("%w: no features configured", ErrConfiguration)
	}
	for _, f := range c.Features {
		if !network.KnownAttribute(f.Path) {
			return fmt.Errorf("%w: unknown feature path %q", ErrConfiguration, f.Path)
		}
		if len(f.Bounds) != 2 {
			return fmt.Errorf("%w: feature %q needs [lower, upper] bounds, got %v",
				ErrConfiguration, f.Path, f.Bounds)
		}
		if f.Bounds[0] > f.Bounds[1] {
			return fmt.Errorf("%w: feature %q lower bound %f above upper bound %f",
				ErrConfiguration, f.Path, f.Bounds[0], f.Bounds[1])
		}
	}

	switch c.Method {
	case scenario.MethodGlobalSensitivity:
		if c.Samples < 1 {
			return fmt.Errorf("%w: method %s requires samples >= 1, got %d",
				ErrConfiguration, c.Method, c.Samples)
		}
		switch c.SamplingStrategy {
		case design.StrategyPyDOE2, design.StrategySciPy, design.StrategyChaospy:
		default:
			return fmt.Errorf("%w: unknown sampling_strategy %q",
				ErrConfiguration, c.SamplingStrategy)
		}
	case scenario.MethodSingleBestInWorst:
		if len(c.Features) != 1 {
			return fmt.Errorf("%w: method %s takes exactly one stores.* feature, got %d",
				ErrConfiguration, c.Method, len(c.Features))
		}
		attr, ok := strings.CutPrefix(c.Features[0].Path, "stores.")
		if !ok {
			return fmt.Errorf("%w: method %s takes a stores.* feature, got %q",
				ErrConfiguration, c.Method, c.Features[0].Path)
		}
		if !network.KnownCarrierAttribute(attr) {
			return fmt.Errorf("%w: %q is not a carrier-scoped attribute",
				ErrConfiguration, c.Features[0].Path)
		}
		// The factor is applied to the store carrier and its conversion
		// links, so the attribute must exist on both.
		if attr != network.AttrCapitalCost && attr != network.AttrMarginalCost {
			return fmt.Errorf("%w: method %s supports stores.capital_cost or stores.marginal_cost, got %q",
				ErrConfiguration, c.Method, c.Features[0].Path)
		}
	case "":
		return fmt.Errorf("%w: method not set", ErrConfiguration)
	default:
		return fmt.Errorf("%w: unknown method %q", ErrConfiguration, c.Method)
	}

	if c.Costs != nil {
		switch c.Costs.Source {
		case "csv":
			if c.Costs.Path == "" {
				return fmt.Errorf("%w: costs source csv requires a path", ErrConfiguration)
			}
		case "postgres":
			if c.Costs.DSN == "" {
				return fmt.Errorf("%w: costs source postgres requires a dsn", ErrConfiguration)
			}
		default:
			return fmt.Errorf("%w: unknown costs source %q", ErrConfiguration, c.Costs.Source)
		}
	}

	return nil
}

// LowerBounds returns the per-feature lower bounds in feature order.
func (c *Config) LowerBounds() []float64 {
	lo := make([]float64, len(c.Features))
	for j, f := range c.Features {
		lo[j] = f.Bounds[0]
	}
	return lo
}

// UpperBounds returns the per-feature upper bounds in feature order.
func (c *Config) UpperBounds() []float64 {
	hi := make([]float64, len(c.Features))
	for j, f := range c.Features {
		hi[j] = f.Bounds[1]
	}
	return hi
}
