package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mcncl/jsonflat/internal/flattener"
	"github.com/mcncl/jsonflat/internal/formatter"
	"github.com/mcncl/jsonflat/internal/parser"
	"gopkg.in/yaml.v3"
)

// DefaultDivider separates the echoed input from the flattened result.
const DefaultDivider = "==================="

// Config represents the complete configuration for jsonflat
type Config struct {
	Separator string       `yaml:"separator"`
	KeyCase   string       `yaml:"key_case"`
	Query     string       `yaml:"query"`
	MaxDepth  int          `yaml:"max_depth"`
	Output    OutputConfig `yaml:"output"`
	Dev       DevConfig    `yaml:"dev"`
}

// OutputConfig controls how documents are written
type OutputConfig struct {
	Format    string `yaml:"format"`
	Indent    string `yaml:"indent"`
	EchoInput bool   `yaml:"echo_input"`
	Divider   string `yaml:"divider"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Separator: flattener.DefaultSeparator,
		KeyCase:   string(flattener.KeyCaseNone),
		MaxDepth:  parser.DefaultMaxDepth,
		Output: OutputConfig{
			Format:    string(formatter.FormatJSON),
			Indent:    formatter.DefaultIndent,
			EchoInput: true,
			Divider:   DefaultDivider,
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonflat.yml", ".jsonflat.yaml", "jsonflat.yml", "jsonflat.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks that every setting holds a supported value
func (c *Config) Validate() error {
	if c.Separator == "" {
		return fmt.Errorf("separator must not be empty")
	}
	if !flattener.KeyCase(c.KeyCase).Valid() {
		return fmt.Errorf("unknown key_case %q, expected one of %v", c.KeyCase, flattener.KeyCases)
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if _, err := formatter.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	return nil
}

// FlattenerOptions returns the flattener settings of c
func (c *Config) FlattenerOptions() flattener.Options {
	return flattener.Options{
		Separator: c.Separator,
		KeyCase:   flattener.KeyCase(c.KeyCase),
	}
}

// FormatterOptions returns the output settings of c. The format must have
// passed Validate.
func (c *Config) FormatterOptions() formatter.Options {
	format, _ := formatter.ParseFormat(c.Output.Format)
	return formatter.Options{
		Format: format,
		Indent: c.Output.Indent,
	}
}

// CLIOverrides holds the command-line values that take precedence over the
// config file. Empty strings and false booleans leave the file value alone.
type CLIOverrides struct {
	Separator string
	KeyCase   string
	Query     string
	Format    string
	Quiet     bool
	Debug     bool
}

// MergeConfigs merges CLI overrides into a base config
// Non-empty values from override take precedence over base values
func MergeConfigs(base *Config, override CLIOverrides) *Config {
	merged := *base

	if override.Separator != "" {
		merged.Separator = override.Separator
	}
	if override.KeyCase != "" {
		merged.KeyCase = override.KeyCase
	}
	if override.Query != "" {
		merged.Query = override.Query
	}
	if override.Format != "" {
		merged.Output.Format = override.Format
	}
	if override.Quiet {
		merged.Output.EchoInput = false
	}
	if override.Debug {
		merged.Dev.Debug = true
	}

	return &merged
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI > config file > defaults
func LoadConfigWithCLI(configPath string, overrides CLIOverrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	merged := MergeConfigs(cfg, overrides)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
