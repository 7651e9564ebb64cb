package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Config System:
// - Default() returns valid configuration with all expected defaults
// - Load() uses defaults when no config file exists
// - Load() reads .lola-extract/config.yml and .lola-extract/config.yaml
// - Load() merges a partial config file with defaults
// - Environment variables override config file values and defaults
// - Load() returns error for malformed YAML
// - Load() returns error for invalid configuration values
// - Validate() rejects empty run paths and run output equal to input
// - Validate() rejects empty patterns, bad globs, bad suffixes
// - Validate() rejects negative debounce and non-positive cache size
// - Validate() reports every problem and keeps sentinels matchable

func writeConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, DirName)
	require.NoError(t, os.MkdirAll(cfgDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, name), []byte(content), 0644))
}

func TestDefault_ReturnsValidConfiguration(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NotNil(t, cfg)

	assert.Equal(t, "resources/lola_spec.lola", cfg.Run.Input)
	assert.Equal(t, "resources/RTLola_output.json", cfg.Run.Output)

	assert.Equal(t, []string{"**/*.lola"}, cfg.Batch.Patterns)
	assert.Contains(t, cfg.Batch.Ignore, ".git/**")
	assert.Equal(t, ".json", cfg.Batch.OutputSuffix)
	assert.Empty(t, cfg.Batch.Database)

	assert.Equal(t, 300, cfg.Watch.DebounceMs)
	assert.Equal(t, 256, cfg.MCP.CacheSize)

	assert.NoError(t, Validate(cfg))
}

func TestLoadConfig_UsesDefaultsWhenNoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, Default(), cfg)
}

func TestLoadConfig_LoadsFromConfigYml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
run:
  input: specs/main.lola
  output: out/main.json

batch:
  patterns:
    - "specs/**/*.lola"
    - "*.lola"
  ignore:
    - "specs/draft/**"
  output_suffix: ".summary.json"
  database: records.db

watch:
  debounce_ms: 50

mcp:
  cache_size: 16
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "specs/main.lola", cfg.Run.Input)
	assert.Equal(t, "out/main.json", cfg.Run.Output)
	assert.Equal(t, []string{"specs/**/*.lola", "*.lola"}, cfg.Batch.Patterns)
	assert.Equal(t, []string{"specs/draft/**"}, cfg.Batch.Ignore)
	assert.Equal(t, ".summary.json", cfg.Batch.OutputSuffix)
	assert.Equal(t, "records.db", cfg.Batch.Database)
	assert.Equal(t, 50, cfg.Watch.DebounceMs)
	assert.Equal(t, 16, cfg.MCP.CacheSize)
}

func TestLoadConfig_LoadsFromConfigYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yaml", `
run:
  input: a.lola
  output: a.json
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "a.lola", cfg.Run.Input)
	assert.Equal(t, "a.json", cfg.Run.Output)
}

func TestLoadConfig_MergesConfigWithDefaults(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
watch:
  debounce_ms: 1000
`)

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, cfg.Watch.DebounceMs)

	// Everything else falls back to defaults
	defaults := Default()
	assert.Equal(t, defaults.Run, cfg.Run)
	assert.Equal(t, defaults.Batch, cfg.Batch)
	assert.Equal(t, defaults.MCP, cfg.MCP)
}

func TestLoadConfig_EnvironmentVariablesOverrideConfigFile(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
run:
  input: file.lola
  output: file.json
mcp:
  cache_size: 8
`)

	t.Setenv("LOLA_EXTRACT_RUN_INPUT", "env.lola")
	t.Setenv("LOLA_EXTRACT_MCP_CACHE_SIZE", "64")

	cfg, err := NewLoader(tempDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "env.lola", cfg.Run.Input)
	assert.Equal(t, 64, cfg.MCP.CacheSize)

	// Not overridden, comes from the file
	assert.Equal(t, "file.json", cfg.Run.Output)
}

func TestLoadConfig_EnvironmentVariablesOverrideDefaults(t *testing.T) {
	// Note: Cannot use t.Parallel() with t.Setenv()

	t.Setenv("LOLA_EXTRACT_BATCH_DATABASE", "env.db")
	t.Setenv("LOLA_EXTRACT_WATCH_DEBOUNCE_MS", "5")

	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, "env.db", cfg.Batch.Database)
	assert.Equal(t, 5, cfg.Watch.DebounceMs)
}

func TestLoadConfig_ReturnsErrorForMalformedYaml(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
run:
  input: "unclosed quote
  output: x.json
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadConfig_ReturnsErrorForInvalidValues(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	writeConfig(t, tempDir, "config.yml", `
mcp:
  cache_size: -1
`)

	cfg, err := NewLoader(tempDir).Load()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrInvalidCacheSize)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestValidate_RejectsEmptyRunPaths(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Run.Input = "  "

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrEmptyRunPath)
}

func TestValidate_RejectsRunOutputEqualToInput(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Run.Input = "spec.lola"
	cfg.Run.Output = "./spec.lola"

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrSameRunPath)
}

func TestValidate_RejectsEmptyPatterns(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Batch.Patterns = nil

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrEmptyPatterns)
}

func TestValidate_RejectsInvalidGlob(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Batch.Ignore = []string{"[abc"}

	err := Validate(cfg)
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Contains(t, err.Error(), "[abc")
}

func TestValidate_RejectsBadSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		suffix string
	}{
		{"empty", ""},
		{"separator", "/out.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Default()
			cfg.Batch.OutputSuffix = tt.suffix

			assert.ErrorIs(t, Validate(cfg), ErrInvalidSuffix)
		})
	}
}

func TestValidate_RejectsNegativeDebounce(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Watch.DebounceMs = -1

	assert.ErrorIs(t, Validate(cfg), ErrInvalidDebounce)
}

func TestValidate_AcceptsZeroDebounce(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.Watch.DebounceMs = 0

	assert.NoError(t, Validate(cfg))
}

func TestValidate_ReturnsMultipleErrorsForMultipleInvalidFields(t *testing.T) {
	t.Parallel()

	cfg := &Config{}

	err := Validate(cfg)
	require.Error(t, err)

	errMsg := err.Error()
	assert.Contains(t, errMsg, "validation failed")
	assert.Contains(t, errMsg, "input")
	assert.Contains(t, errMsg, "output")
	assert.Contains(t, errMsg, "pattern")
	assert.Contains(t, errMsg, "cache_size")

	assert.ErrorIs(t, err, ErrEmptyRunPath)
	assert.ErrorIs(t, err, ErrEmptyPatterns)
	assert.ErrorIs(t, err, ErrInvalidSuffix)
	assert.ErrorIs(t, err, ErrInvalidCacheSize)
}
