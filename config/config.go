// SPDX-License-Identifier: EPL-2.0

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MinBufferSize is the smallest accepted codec slot in bytes.
const MinBufferSize = 1024

// Config represents the complete extractor configuration
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ExtractConfig tunes the decode loop and the software codec
type ExtractConfig struct {
	DequeueTimeoutMS int `yaml:"dequeue_timeout_ms"`
	InputSlots       int `yaml:"input_slots"`
	OutputSlots      int `yaml:"output_slots"`
	InputBufferSize  int `yaml:"input_buffer_size"`  // bytes
	OutputBufferSize int `yaml:"output_buffer_size"` // bytes
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus textfile dump
type MetricsConfig struct {
	// Textfile is written after every run when not empty.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			DequeueTimeoutMS: 10,
			InputSlots:       4,
			OutputSlots:      4,
			InputBufferSize:  64 * 1024,
			OutputBufferSize: 16 * 1024,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads and parses the configuration file. Keys missing from the file
// keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate checks every section
func (c *Config) Validate() error {
	if err := c.Extract.Validate(); err != nil {
		return fmt.Errorf("extract config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates extract configuration
func (e *ExtractConfig) Validate() error {
	if e.DequeueTimeoutMS < 1 || e.DequeueTimeoutMS > 10_000 {
		return fmt.Errorf("dequeue_timeout_ms must be between 1 and 10000, got %d", e.DequeueTimeoutMS)
	}

	if e.InputSlots < 1 {
		return fmt.Errorf("input_slots must be at least 1, got %d", e.InputSlots)
	}

	if e.OutputSlots < 1 {
		return fmt.Errorf("output_slots must be at least 1, got %d", e.OutputSlots)
	}

	// Demuxers size their packets to the input slot, so any slot that
	// holds one frame works.
	if e.InputBufferSize < MinBufferSize {
		return fmt.Errorf("input_buffer_size must be at least %d bytes, got %d", MinBufferSize, e.InputBufferSize)
	}

	if e.OutputBufferSize < MinBufferSize {
		return fmt.Errorf("output_buffer_size must be at least %d bytes, got %d", MinBufferSize, e.OutputBufferSize)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true, "stdr": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json', 'text' or 'stdr', got '%s'", l.Format)
	}

	return nil
}

// DequeueTimeout returns the dequeue timeout as a time.Duration
func (e *ExtractConfig) DequeueTimeout() time.Duration {
	return time.Duration(e.DequeueTimeoutMS) * time.Millisecond
}
