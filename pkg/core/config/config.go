package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	mterror "github.com/msto63/memtrace/foundation/core/error"
	mtlog "github.com/msto63/memtrace/foundation/core/log"
)

// EnvConfigPath names the environment variable holding the config path
const EnvConfigPath = "MEMTRACE_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Parser  ParserConfig  `toml:"parser" yaml:"parser"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Output  OutputConfig  `toml:"output" yaml:"output"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	LogFile   string `toml:"log_file" yaml:"log_file"` // optional
}

// ParserConfig holds trace parser settings
type ParserConfig struct {
	// MaxInputLength in bytes; negative disables the limit
	MaxInputLength int `toml:"max_input_length" yaml:"max_input_length"`
}

// StoreConfig holds trace archive settings
type StoreConfig struct {
	Path        string   `toml:"path" yaml:"path"`
	BusyTimeout Duration `toml:"busy_timeout" yaml:"busy_timeout"`
}

// OutputConfig holds rendering settings
type OutputConfig struct {
	Format string `toml:"format" yaml:"format"` // text, table, json, yaml
	Color  string `toml:"color" yaml:"color"`   // auto, always, never
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, mterror.Newf("config file not found: %s", path).
			WithCode(mterror.CodeNotFound).
			WithOperation("config.Load")
	}
	if err != nil {
		return nil, mterror.Wrap(err, "failed to read config").
			WithCode(mterror.CodeConfigError).
			WithOperation("config.Load")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mterror.Wrap(err, "failed to parse config").
			WithCode(mterror.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	// Apply defaults
	cfg.applyDefaults()

	// Expand environment variables in paths
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration from MEMTRACE_CONFIG or the default
// locations. Without a config file the defaults are returned.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		// Try default locations
		defaultPaths := []string{
			"./memtrace.toml",
			"./memtrace.yaml",
			filepath.Join(os.Getenv("HOME"), ".config/memtrace/config.toml"),
			filepath.Join(os.Getenv("HOME"), ".config/memtrace/config.yaml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default(), nil
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.DataDir == "" {
		c.General.DataDir = filepath.Join(os.Getenv("HOME"), ".local/share/memtrace")
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "error"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.MaxInputLength == 0 {
		c.Parser.MaxInputLength = 1 << 20
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "traces.db")
	}
	if c.Store.BusyTimeout.Duration == 0 {
		c.Store.BusyTimeout.Duration = 5 * time.Second
	}

	// Output
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Output.Color == "" {
		c.Output.Color = "auto"
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.General.LogFile = os.ExpandEnv(c.General.LogFile)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	invalid := func(key, value string) error {
		return mterror.Newf("invalid %s %q", key, value).
			WithCode(mterror.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("key", key)
	}

	if _, err := mtlog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel)
	}
	if _, err := mtlog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat)
	}
	switch c.Output.Format {
	case "text", "table", "json", "yaml":
	default:
		return invalid("output.format", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return invalid("output.color", c.Output.Color)
	}
	if c.Store.BusyTimeout.Duration < 0 {
		return invalid("store.busy_timeout", c.Store.BusyTimeout.String())
	}
	return nil
}

// UseColor resolves the color setting for an output that is or is not a
// terminal
func (c *Config) UseColor(terminal bool) bool {
	switch c.Output.Color {
	case "always":
		return true
	case "never":
		return false
	default:
		return terminal
	}
}

// String renders the effective configuration as TOML
func (c *Config) String() string {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return b.String()
}
