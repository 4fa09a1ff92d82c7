// File: internal/config/config.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration. The command layer
// populates it once through viper (defaults, config file, TRIAGE_ environment
// variables, flags) and hands it to whoever needs a section.
type Config struct {
	Logger  LoggerConfig  `mapstructure:"logger" yaml:"logger"`
	Convert ConvertConfig `mapstructure:"convert" yaml:"convert"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color names for different log levels on the
// console encoder. Empty values render uncolored.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// ConvertConfig carries defaults for the convert command. Flags override
// these per invocation.
type ConvertConfig struct {
	// AnalysisRoot is the default --root: the directory relative source
	// paths in analyzer output are resolved against.
	AnalysisRoot string `mapstructure:"analysis_root" yaml:"analysis_root"`
	// Parallelism bounds concurrent input-file parsing for directory
	// inputs. Zero means one worker per CPU.
	Parallelism int `mapstructure:"parallelism" yaml:"parallelism"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "triage-cli")
	// No log file by default; a converter invoked from build scripts should
	// not drop rotating logs next to the artifacts unless asked to.
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 50)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 14)
	v.SetDefault("logger.compress", true)

	// -- Convert --
	v.SetDefault("convert.analysis_root", "")
	v.SetDefault("convert.parallelism", 0)
}

// envKeyReplacer maps nested config keys onto environment variable names:
// convert.analysis_root becomes TRIAGE_CONVERT_ANALYSIS_ROOT under the
// command layer's TRIAGE prefix.
func envKeyReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_")
}

// BindEnv wires v to the TRIAGE_ environment under the standard key mapping.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(envKeyReplacer())
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger configuration invalid: %w", err)
	}
	if c.Convert.Parallelism < 0 {
		return fmt.Errorf("convert.parallelism must not be negative")
	}
	return nil
}

// Validate checks the logger configuration.
func (l *LoggerConfig) Validate() error {
	switch l.Format {
	case "console", "json":
	default:
		return fmt.Errorf("format must be one of console, json")
	}
	if l.LogFile != "" && l.MaxSize <= 0 {
		return fmt.Errorf("max_size must be a positive number of megabytes when log_file is set")
	}
	return nil
}
