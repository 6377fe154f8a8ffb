package runner

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnolang/ppl/dist"
	"github.com/gnolang/ppl/model"
)

// ConfigFileName is the project configuration written by `ppl init`.
const ConfigFileName = ".ppl.yaml"

// Exact selects enumeration instead of sampling.
const Exact = "exact"

// Config is the project configuration. Model files may override the
// inference fields.
type Config struct {
	Name     string `yaml:"name"`
	Strategy string `yaml:"strategy"`
	Samples  int    `yaml:"samples"`
	BurnIn   int    `yaml:"burn_in"`
	// Seed 0 seeds from the clock.
	Seed    uint64 `yaml:"seed"`
	Workers int    `yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		Name:     "ppl",
		Strategy: dist.Forward.String(),
		Samples:  10000,
		Workers:  runtime.NumCPU(),
	}
}

// LoadConfig reads the project configuration at path on top of the
// defaults. A missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return config, err
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(&config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	if _, err := c.strategy(); err != nil {
		return err
	}
	if c.Samples <= 0 {
		return fmt.Errorf("%w: samples must be positive, got %d", dist.ErrInvalidArgument, c.Samples)
	}
	if c.BurnIn < 0 {
		return fmt.Errorf("%w: burn_in must not be negative, got %d", dist.ErrInvalidArgument, c.BurnIn)
	}
	return nil
}

// strategy returns the sampler c selects. Exact configurations return the
// zero Strategy.
func (c Config) strategy() (dist.Strategy, error) {
	if c.exact() {
		return 0, nil
	}
	return dist.ParseStrategy(c.Strategy)
}

func (c Config) exact() bool {
	return strings.EqualFold(strings.TrimSpace(c.Strategy), Exact)
}

// merge applies the overrides of one model file.
func (c Config) merge(in model.Inference) Config {
	if in.Strategy != "" {
		c.Strategy = in.Strategy
	}
	if in.Samples > 0 {
		c.Samples = in.Samples
	}
	if in.BurnIn > 0 {
		c.BurnIn = in.BurnIn
	}
	if in.Seed != nil {
		c.Seed = *in.Seed
	}
	return c
}

// Marshal encodes c as YAML.
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
