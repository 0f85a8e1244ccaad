package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/lifegrid/driver"
	"github.com/sheikhrachel/lifegrid/logging"
	"github.com/sheikhrachel/lifegrid/model"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the configuration for the game
type Config struct {
	Size                int               `json:"size" yaml:"size"`
	Speed               int               `json:"speed" yaml:"speed"`
	RandomDensity       float64           `json:"random_density" yaml:"random_density"`
	MaxGenerations      int               `json:"max_generations" yaml:"max_generations"`
	Parallel            int               `json:"parallel" yaml:"parallel"`
	UseMemoryPool       bool              `json:"use_memory_pool" yaml:"use_memory_pool"`
	AutoRestart         bool              `json:"auto_restart" yaml:"auto_restart"`
	StagnationThreshold int               `json:"stagnation_threshold" yaml:"stagnation_threshold"`
	Seed                int64             `json:"seed" yaml:"seed"`
	Demo                bool              `json:"demo" yaml:"demo"`
	Patterns            []model.Placement `json:"patterns" yaml:"patterns"`
	LogLevel            string            `json:"log_level" yaml:"log_level"`
	LogFormat           string            `json:"log_format" yaml:"log_format"`
	MetricsAddr         string            `json:"metrics_addr" yaml:"metrics_addr"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Size:                40,
		Speed:               10,
		RandomDensity:       model.DefaultDensity,
		MaxGenerations:      0, // run until interrupted
		Parallel:            0,
		UseMemoryPool:       true,
		AutoRestart:         false,
		StagnationThreshold: 5,
		Demo:                true,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Validate checks that every setting is within its supported range
func (c Config) Validate() error {
	if c.Size < model.MinSize || c.Size > model.MaxSize {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] size %d not in [%d, %d]", c.Size, model.MinSize, model.MaxSize)
	}
	if c.Speed < driver.MinSpeed || c.Speed > driver.MaxSpeed {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] speed %d not in [%d, %d]", c.Speed, driver.MinSpeed, driver.MaxSpeed)
	}
	if c.RandomDensity < 0 || c.RandomDensity > 1 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] random_density %v not in [0, 1]", c.RandomDensity)
	}
	if c.MaxGenerations < 0 {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] max_generations %d is negative", c.MaxGenerations)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "[Validate] %v", err)
	}
	for _, p := range c.Patterns {
		if _, err := model.LookupPattern(p.Pattern); err != nil {
			return errors.Wrapf(ErrInvalidConfig, "[Validate] %v", err)
		}
	}
	return nil
}

// LoadConfig loads configuration from a JSON or YAML file on top of the defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	return config, nil
}
