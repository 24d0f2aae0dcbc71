// File: internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -- Defaults Tests --

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	return &cfg
}

func TestSetDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	// Verify a few key defaults to ensure the mechanism works.
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "homegrid", cfg.Logger.ServiceName)
	assert.Equal(t, 4, cfg.Grid.CellsX)
	assert.Equal(t, 4, cfg.Grid.CellsY)
	assert.Equal(t, 5, cfg.Grid.Screens)
	assert.Equal(t, 9, cfg.Grid.MaxScreens)
	assert.Equal(t, 86, cfg.Grid.CellWidth)
	assert.Equal(t, 6, cfg.Loader.ItemsChunk)
	assert.Equal(t, 0, cfg.Loader.BatchSize)
	assert.Equal(t, time.Duration(0), cfg.Loader.BatchDelay)
	assert.Equal(t, "com.fruit.launcher", cfg.Catalog.SelfPackage)
}

func TestDefaultsAreValid(t *testing.T) {
	assert.NoError(t, defaultConfig(t).Validate())
}

// -- Validation Logic Tests --

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"zero cells", func(c *Config) { c.Grid.CellsX = 0 }, "grid.cells_x"},
		{"negative cells", func(c *Config) { c.Grid.CellsY = -2 }, "grid.cells_y"},
		{"no screens", func(c *Config) { c.Grid.Screens = 0 }, "grid.screens"},
		{"max below screens", func(c *Config) { c.Grid.MaxScreens = 2 }, "grid.max_screens"},
		{"negative batch size", func(c *Config) { c.Loader.BatchSize = -1 }, "loader.batch_size"},
		{"negative batch delay", func(c *Config) { c.Loader.BatchDelay = -time.Second }, "loader.batch_delay"},
		{"zero items chunk", func(c *Config) { c.Loader.ItemsChunk = 0 }, "loader.items_chunk"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

// -- Load Tests --

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
grid:
  cells_x: 5
  screens: 3
loader:
  items_chunk: 4
  batch_delay: 250ms
database:
  url: postgres://localhost/homegrid
`), 0o600))

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Grid.CellsX)
	assert.Equal(t, 4, cfg.Grid.CellsY, "unset keys keep their defaults")
	assert.Equal(t, 3, cfg.Grid.Screens)
	assert.Equal(t, 4, cfg.Loader.ItemsChunk)
	assert.Equal(t, 250*time.Millisecond, cfg.Loader.BatchDelay)
	assert.Equal(t, "postgres://localhost/homegrid", cfg.Database.URL)
}

func TestLoad_MissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Grid.CellsX)
}

func TestLoad_InvalidFileRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "homegrid.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid:\n  cells_x: 0\n"), 0o600))

	_, err := Load(viper.New(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid.cells_x")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOMEGRID_GRID_SCREENS", "7")

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Grid.Screens)
}

func TestDefaultConfigPath(t *testing.T) {
	assert.Contains(t, DefaultConfigPath(), "homegrid")
}
