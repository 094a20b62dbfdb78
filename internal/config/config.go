// Package config loads the YAML description of a training run.
package config

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Seed         uint64        `yaml:"seed"`
	Epochs       int           `yaml:"epochs"`
	BatchSize    int           `yaml:"batch_size"`
	LearningRate float32       `yaml:"learning_rate"`
	Optimizer    string        `yaml:"optimizer"`
	Momentum     float32       `yaml:"momentum"`
	Workers      int           `yaml:"workers"`
	Dataset      string        `yaml:"dataset"`
	TestFraction float64       `yaml:"test_fraction"`
	LogEvery     int           `yaml:"log_every"`
	Layers       []LayerConfig `yaml:"layers"`
}

// LayerConfig describes one fully connected layer.
type LayerConfig struct {
	Inputs     int    `yaml:"inputs"`
	Outputs    int    `yaml:"outputs"`
	Activation string `yaml:"activation"`
	Init       string `yaml:"init,omitempty"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Seed         uint64
	Epochs       int
	BatchSize    int
	LearningRate float32
	Workers      int
	Dataset      string
}

// Default returns a run that learns XOR with a 2-4-1 sigmoid network.
func Default() *Config {
	return &Config{
		Seed:         1,
		Epochs:       2000,
		BatchSize:    4,
		LearningRate: 2,
		Optimizer:    "gd",
		Workers:      1,
		Dataset:      "xor",
		LogEvery:     200,
		Layers: []LayerConfig{
			{Inputs: 2, Outputs: 4, Activation: "sigmoid", Init: "xavier_uniform"},
			{Inputs: 4, Outputs: 1, Activation: "sigmoid", Init: "xavier_uniform"},
		},
	}
}

// Load reads and validates a Config from YAML. Fields missing from the file
// keep their Default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes a Config from r on top of Default. It does not validate.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates c using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Workers > 0 {
		c.Workers = o.Workers
	}
	if o.Dataset != "" {
		c.Dataset = o.Dataset
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("learning_rate must be > 0 (got %g)", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("momentum must be in [0, 1) (got %g)", c.Momentum)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0 (got %d)", c.Workers)
	}
	if c.Dataset == "" {
		return errors.New("dataset must be set")
	}
	if c.TestFraction < 0 || c.TestFraction >= 1 {
		return fmt.Errorf("test_fraction must be in [0, 1) (got %g)", c.TestFraction)
	}
	if _, err := optim.ByName(c.Optimizer, c.Momentum); err != nil {
		return err
	}
	if len(c.Layers) == 0 {
		return errors.New("at least one layer must be configured")
	}
	for i, l := range c.Layers {
		if l.Inputs <= 0 || l.Outputs <= 0 {
			return fmt.Errorf("layer %d: sizes must be > 0 (got %dx%d)", i, l.Inputs, l.Outputs)
		}
		if i > 0 && c.Layers[i-1].Outputs != l.Inputs {
			return fmt.Errorf("layer %d: inputs %d do not match previous outputs %d",
				i, l.Inputs, c.Layers[i-1].Outputs)
		}
		if _, err := nn.ParseActivation(l.Activation); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
		if _, err := nn.ParseInitializer(l.Init); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1
	}
	return nil
}

// BuildNetwork constructs the configured layers, drawing initial weights
// from src in layer order.
func (c *Config) BuildNetwork(src rand.Source) (*nn.Network, error) {
	layers := make([]*nn.Layer, len(c.Layers))
	for i, lc := range c.Layers {
		act, err := nn.ParseActivation(lc.Activation)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		init, err := nn.ParseInitializer(lc.Init)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		var opts []nn.LayerOption
		if init != nil {
			opts = append(opts, nn.WithInitializer(init))
		}
		l, err := nn.NewLayer(lc.Inputs, lc.Outputs, act, src, opts...)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = l
	}
	return nn.NewNetwork(layers...)
}

// BuildOptimizer returns the configured update rule.
func (c *Config) BuildOptimizer() (nn.Optimizer, error) {
	return optim.ByName(c.Optimizer, c.Momentum)
}
