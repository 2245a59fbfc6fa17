// Package config holds the run parameters of a prioritization and loads
// them from YAML.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bioc/wppi/pkg/ontology"
	"github.com/bioc/wppi/pkg/prioritize"
	"github.com/bioc/wppi/pkg/rwr"
	"github.com/bioc/wppi/pkg/validation"
	"github.com/bioc/wppi/pkg/weighting"
)

// Config is the full parameter set of a run
type Config struct {
	// Diffusion
	RestartProb   float64 `yaml:"restart_prob" validate:"gt=0,lt=1"`
	Threshold     float64 `yaml:"threshold" validate:"gt=0"`
	MaxIterations int     `yaml:"max_iterations" validate:"gt=0"`

	// Ranking
	TopPercentage float64 `yaml:"top_percentage" validate:"gt=0,lte=100"`

	// Weighting
	UseGO             bool `yaml:"use_go"`
	UseHPO            bool `yaml:"use_hpo"`
	Symmetric         bool `yaml:"symmetric"`
	FilterAnnotations bool `yaml:"filter_annotations"`
	Order             int  `yaml:"order"` // Neighbourhood radius around seeds, 0 = whole graph

	// Execution
	Workers   int    `yaml:"workers"`    // 0 = GOMAXPROCS
	CacheSize int    `yaml:"cache_size"` // 0 = ontology.DefaultCacheSize
	Format    string `yaml:"format" validate:"oneof=tsv json table"`
	LogLevel  string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		RestartProb:       rwr.DefaultRestartProb,
		Threshold:         rwr.DefaultThreshold,
		MaxIterations:     rwr.DefaultMaxIterations,
		TopPercentage:     100,
		UseGO:             true,
		UseHPO:            true,
		Symmetric:         false,
		FilterAnnotations: true,
		Order:             0,
		Workers:           0,
		CacheSize:         ontology.DefaultCacheSize,
		Format:            prioritize.FormatTSV,
		LogLevel:          "info",
	}
}

// Validate checks every field. Errors are validation.InputError.
func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}
	return validation.NewConfigValidator("config").
		NonNegative("order", c.Order).
		NonNegative("workers", c.Workers).
		NonNegative("cache_size", c.CacheSize).
		Custom("rwr", c.RWR().Validate).
		Validate()
}

// RWR returns the diffusion options
func (c Config) RWR() rwr.Options {
	return rwr.Options{
		RestartProb:   c.RestartProb,
		Threshold:     c.Threshold,
		MaxIterations: c.MaxIterations,
		Workers:       c.Workers,
	}
}

// Weighting returns the transition matrix build options
func (c Config) Weighting() weighting.Options {
	return weighting.Options{
		Symmetric: c.Symmetric,
		Workers:   c.Workers,
		CacheSize: validation.DefaultOrInt(c.CacheSize, ontology.DefaultCacheSize),
	}
}

// Parse decodes YAML over the defaults and validates the result. Keys
// absent from data keep their default value; unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, validation.NewInputError("config", "invalid YAML: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the YAML file at path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Marshal encodes cfg as YAML
func Marshal(cfg Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
