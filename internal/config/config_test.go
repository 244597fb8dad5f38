package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.resolvePaths())
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.InDelta(t, 0.01, cfg.Pipeline.RareCategoryThreshold, 1e-9)
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: 9191
logging:
  level: debug
pipeline:
  rare_category_threshold: 0.05
paths:
  accidents_file: testdata/Accidents.csv
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o644))
	t.Setenv("BIKES_CONFIG", configPath)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.InDelta(t, 0.05, cfg.Pipeline.RareCategoryThreshold, 1e-9)
	assert.True(t, filepath.IsAbs(cfg.Paths.AccidentsFile), "paths must be resolved to absolute form")
	// Untouched fields keep their defaults.
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9191\n"), 0o644))
	t.Setenv("BIKES_CONFIG", configPath)
	t.Setenv("BIKES_SERVER_PORT", "9999")
	t.Setenv("BIKES_LOGGING_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "port out of range", key: "BIKES_SERVER_PORT", value: "70000"},
		{name: "bad log level", key: "BIKES_LOGGING_LEVEL", value: "verbose"},
		{name: "threshold not a fraction", key: "BIKES_PIPELINE_RARE_CATEGORY_THRESHOLD", value: "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BIKES_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	paths := Paths{
		ProcessedDir: filepath.Join(dir, "processed"),
		ChartsDir:    filepath.Join(dir, "processed", "charts"),
		ExportsDir:   filepath.Join(dir, "processed", "exports"),
		LogsDir:      filepath.Join(dir, "logs"),
	}

	require.NoError(t, paths.EnsureDirectories())

	for _, p := range []string{paths.ProcessedDir, paths.ChartsDir, paths.ExportsDir, paths.LogsDir} {
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestInputFiles(t *testing.T) {
	paths := Paths{AccidentsFile: "/data/Accidents.csv", BikersFile: "/data/Bikers.csv"}
	assert.Equal(t, []string{"/data/Accidents.csv", "/data/Bikers.csv"}, paths.InputFiles())
}
