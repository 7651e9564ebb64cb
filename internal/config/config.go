// Package config provides configuration loading for lola-extract.
//
// Configuration lives in .lola-extract/config.yml (or .yaml) under the
// working directory. Priority, highest first:
//  1. Environment variables (LOLA_EXTRACT_*, nested keys joined by '_')
//  2. Config file
//  3. Built-in defaults
package config

// Config represents the complete lola-extract configuration.
type Config struct {
	Run   RunConfig   `yaml:"run" mapstructure:"run"`
	Batch BatchConfig `yaml:"batch" mapstructure:"batch"`
	Watch WatchConfig `yaml:"watch" mapstructure:"watch"`
	MCP   MCPConfig   `yaml:"mcp" mapstructure:"mcp"`
}

// RunConfig configures the standalone run mode.
type RunConfig struct {
	Input  string `yaml:"input" mapstructure:"input"`   // specification read by `run`
	Output string `yaml:"output" mapstructure:"output"` // JSON record written by `run`
}

// BatchConfig configures extraction over a directory tree.
type BatchConfig struct {
	Patterns     []string `yaml:"patterns" mapstructure:"patterns"`           // glob patterns of specification files
	Ignore       []string `yaml:"ignore" mapstructure:"ignore"`               // glob patterns to skip
	OutputSuffix string   `yaml:"output_suffix" mapstructure:"output_suffix"` // appended to each spec path for its record
	Database     string   `yaml:"database" mapstructure:"database"`           // optional SQLite record store, empty disables it
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	DebounceMs int `yaml:"debounce_ms" mapstructure:"debounce_ms"` // quiet period before re-extracting
}

// MCPConfig configures the MCP tool server.
type MCPConfig struct {
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"` // extraction results kept in memory
}

// Default returns a configuration with sensible defaults.
// The run paths match the layout used by the original standalone tool.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			Input:  "resources/lola_spec.lola",
			Output: "resources/RTLola_output.json",
		},
		Batch: BatchConfig{
			Patterns: []string{
				"**/*.lola",
			},
			Ignore: []string{
				".git/**",
				"node_modules/**",
				"vendor/**",
				"target/**",
			},
			OutputSuffix: ".json",
			Database:     "",
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
		MCP: MCPConfig{
			CacheSize: 256,
		},
	}
}
