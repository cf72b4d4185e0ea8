package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/json2rdf/internal/formatter"
	"github.com/mcncl/json2rdf/internal/graph"
	"github.com/mcncl/json2rdf/internal/parser"
	"github.com/mcncl/json2rdf/internal/property"
)

// Config represents the complete configuration for json2rdf
type Config struct {
	Namespace  string `yaml:"namespace"`
	BlankNodes string `yaml:"blank_nodes"`
	// CarryOverProperty keeps the last top-level key's predicate as context
	// for the next top-level array or scalar document.
	CarryOverProperty bool          `yaml:"carry_over_property"`
	Naming            NamingConfig  `yaml:"naming"`
	Parser            ParserConfig  `yaml:"parser"`
	Output            OutputConfig  `yaml:"output"`
	Log               LogConfig     `yaml:"log"`
	Metrics           MetricsConfig `yaml:"metrics"`
}

// NamingConfig controls how JSON keys become predicate IRIs
type NamingConfig struct {
	KeyCase      string            `yaml:"key_case"`
	ValidateIRIs bool              `yaml:"validate_iris"`
	KeyMappings  map[string]string `yaml:"key_mappings"`
	SkipKeys     []string          `yaml:"skip_keys"`
	SkipPatterns []KeyPattern      `yaml:"skip_patterns"`
}

// KeyPattern matches JSON keys whose values are left out of the graph
type KeyPattern struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// ParserConfig controls JSON decoding
type ParserConfig struct {
	MaxDepth int `yaml:"max_depth"`
}

// OutputConfig controls rendering
type OutputConfig struct {
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// LogConfig controls logging
type LogConfig struct {
	Level string `yaml:"level"`
}

// MetricsConfig controls the run metrics textfile
type MetricsConfig struct {
	File string `yaml:"file"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Namespace:         property.DefaultNamespace,
		BlankNodes:        string(graph.StrategyCounter),
		CarryOverProperty: true,
		Naming: NamingConfig{
			KeyCase:      string(property.KeyCaseNone),
			ValidateIRIs: true,
			KeyMappings:  make(map[string]string),
		},
		Parser: ParserConfig{
			MaxDepth: parser.DefaultMaxDepth,
		},
		Output: OutputConfig{
			Format: "",
		},
		Log: LogConfig{
			Level: "info",
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

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".json2rdf.yml", ".json2rdf.yaml", "json2rdf.yml", "json2rdf.yaml"}

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

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Naming.SkipPatterns {
		p := &c.Naming.SkipPatterns[i]
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return fmt.Errorf("invalid skip pattern '%s': %w", p.Pattern, err)
		}
		p.regex = regex
	}
	return nil
}

// MatchesKey checks if this pattern matches the given JSON key
func (p *KeyPattern) MatchesKey(key string) bool {
	if p.regex == nil {
		// Try to compile if not already compiled (fallback)
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			return false
		}
		p.regex = regex
	}
	return p.regex.MatchString(key)
}

// ShouldSkipKey checks if values under key should be left out of the graph
func (c *Config) ShouldSkipKey(key string) bool {
	for _, skip := range c.Naming.SkipKeys {
		if skip == key {
			return true
		}
	}
	for i := range c.Naming.SkipPatterns {
		if c.Naming.SkipPatterns[i].MatchesKey(key) {
			return true
		}
	}
	return false
}

// Validate checks that enumerated settings hold known values
func (c *Config) Validate() error {
	if _, err := property.ParseKeyCase(c.Naming.KeyCase); err != nil {
		return err
	}
	if _, err := graph.NewMinter(graph.Strategy(c.BlankNodes)); err != nil {
		return err
	}
	if c.Output.Format != "" {
		if _, err := formatter.ParseFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// OutputFormat returns the configured format, inferring it from the output
// file extension when none is set
func (c *Config) OutputFormat() (formatter.Format, error) {
	if c.Output.Format != "" {
		return formatter.ParseFormat(c.Output.Format)
	}
	if c.Output.File != "" {
		if f, ok := formatter.FormatFromPath(c.Output.File); ok {
			return f, nil
		}
	}
	return formatter.FormatNTriples, nil
}

// ParseLevel maps a level name to a slog.Level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
}

// Overrides holds values given on the command line. Empty strings leave the
// configured value in place.
type Overrides struct {
	Namespace   string
	Format      string
	OutputFile  string
	BlankNodes  string
	KeyCase     string
	MetricsFile string
	Debug       bool
}

// LoadConfigWithCLI loads config with CLI argument precedence
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.Namespace != "" {
		cfg.Namespace = cli.Namespace
	}
	if cli.Format != "" {
		cfg.Output.Format = cli.Format
	}
	if cli.OutputFile != "" {
		cfg.Output.File = cli.OutputFile
	}
	if cli.BlankNodes != "" {
		cfg.BlankNodes = cli.BlankNodes
	}
	if cli.KeyCase != "" {
		cfg.Naming.KeyCase = cli.KeyCase
	}
	if cli.MetricsFile != "" {
		cfg.Metrics.File = cli.MetricsFile
	}
	if cli.Debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
