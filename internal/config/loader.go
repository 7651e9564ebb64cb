package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DirName is the per-project configuration directory.
const DirName = ".lola-extract"

// EnvPrefix prefixes every environment variable override.
const EnvPrefix = "LOLA_EXTRACT"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (LOLA_EXTRACT_*)
// 2. Config file (.lola-extract/config.yml or .lola-extract/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	// Configure viper
	v := viper.New()

	// Set up config file search
	configDir := filepath.Join(l.rootDir, DirName)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., LOLA_EXTRACT_RUN_INPUT)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Bind environment variables to config keys
	// Standalone run paths
	v.BindEnv("run.input")
	v.BindEnv("run.output")

	// Batch configuration
	v.BindEnv("batch.output_suffix")
	v.BindEnv("batch.database")

	// Watch and MCP configuration
	v.BindEnv("watch.debounce_ms")
	v.BindEnv("mcp.cache_size")

	// Set defaults in viper
	setDefaults(v)

	// Try to read config file
	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Some other error occurred while reading the config file
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate the configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	// Standalone run defaults
	v.SetDefault("run.input", defaults.Run.Input)
	v.SetDefault("run.output", defaults.Run.Output)

	// Batch defaults (empty database disables the record store)
	v.SetDefault("batch.patterns", defaults.Batch.Patterns)
	v.SetDefault("batch.ignore", defaults.Batch.Ignore)
	v.SetDefault("batch.output_suffix", defaults.Batch.OutputSuffix)
	v.SetDefault("batch.database", defaults.Batch.Database)

	// Watch defaults
	v.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMs)

	// MCP defaults
	v.SetDefault("mcp.cache_size", defaults.MCP.CacheSize)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
