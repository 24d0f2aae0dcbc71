// File: internal/config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger" yaml:"logger"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Grid     GridConfig     `mapstructure:"grid" yaml:"grid"`
	Loader   LoaderConfig   `mapstructure:"loader" yaml:"loader"`
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
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

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// DatabaseConfig holds the database connection details.
type DatabaseConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// GridConfig describes the workspace geometry: how many screens exist and
// the cell matrix each screen carries.
type GridConfig struct {
	CellsX     int `mapstructure:"cells_x" yaml:"cells_x"`
	CellsY     int `mapstructure:"cells_y" yaml:"cells_y"`
	Screens    int `mapstructure:"screens" yaml:"screens"`
	MaxScreens int `mapstructure:"max_screens" yaml:"max_screens"`

	// Pixel geometry used by the pixel<->cell conversions.
	CellWidth     int `mapstructure:"cell_width" yaml:"cell_width"`
	CellHeight    int `mapstructure:"cell_height" yaml:"cell_height"`
	WidthGap      int `mapstructure:"width_gap" yaml:"width_gap"`
	HeightGap     int `mapstructure:"height_gap" yaml:"height_gap"`
	LeftPadding   int `mapstructure:"left_padding" yaml:"left_padding"`
	TopPadding    int `mapstructure:"top_padding" yaml:"top_padding"`
	RightPadding  int `mapstructure:"right_padding" yaml:"right_padding"`
	BottomPadding int `mapstructure:"bottom_padding" yaml:"bottom_padding"`
}

// LoaderConfig tunes how load results are delivered to the UI.
type LoaderConfig struct {
	// BatchSize is how many apps each all-apps callback carries. Zero means
	// deliver everything in a single batch.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
	// BatchDelay paces consecutive all-apps batches. Zero disables pacing.
	BatchDelay time.Duration `mapstructure:"batch_delay" yaml:"batch_delay"`
	// ItemsChunk is how many workspace items each BindItems call carries.
	ItemsChunk int `mapstructure:"items_chunk" yaml:"items_chunk"`
}

// CatalogConfig controls app catalog table reconciliation.
type CatalogConfig struct {
	// SelfPackage is the launcher's own package, excluded from the catalog.
	SelfPackage string `mapstructure:"self_package" yaml:"self_package"`
	// ThemePrefix identifies theme packages, also excluded.
	ThemePrefix string `mapstructure:"theme_prefix" yaml:"theme_prefix"`
}

// SetDefaults registers the default value for every key so a bare environment
// still yields a usable configuration.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "homegrid")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "red")

	// -- Database --
	v.SetDefault("database.url", "")

	// -- Grid --
	v.SetDefault("grid.cells_x", 4)
	v.SetDefault("grid.cells_y", 4)
	v.SetDefault("grid.screens", 5)
	v.SetDefault("grid.max_screens", 9)
	v.SetDefault("grid.cell_width", 86)
	v.SetDefault("grid.cell_height", 116)
	v.SetDefault("grid.width_gap", 8)
	v.SetDefault("grid.height_gap", 8)
	v.SetDefault("grid.left_padding", 12)
	v.SetDefault("grid.top_padding", 12)
	v.SetDefault("grid.right_padding", 12)
	v.SetDefault("grid.bottom_padding", 12)

	// -- Loader --
	v.SetDefault("loader.batch_size", 0)
	v.SetDefault("loader.batch_delay", time.Duration(0))
	v.SetDefault("loader.items_chunk", 6)

	// -- Catalog --
	v.SetDefault("catalog.self_package", "com.fruit.launcher")
	v.SetDefault("catalog.theme_prefix", "com.fruit.theme")
}

// DefaultConfigPath returns the default config file location under the user's
// home directory, falling back to the working directory when home cannot be
// resolved.
func DefaultConfigPath() string {
	home, err := homedir.Dir()
	if err != nil {
		return "homegrid.yaml"
	}
	return filepath.Join(home, ".homegrid", "homegrid.yaml")
}

// Load reads configuration from the given file (optional), the environment,
// and defaults, in that order of precedence.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Dir(DefaultConfigPath()))
		v.SetConfigName("homegrid")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("HOMEGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; proceed with defaults/env vars.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects geometry that the grid algorithms cannot operate on.
func (c *Config) Validate() error {
	if c.Grid.CellsX <= 0 || c.Grid.CellsY <= 0 {
		return fmt.Errorf("grid.cells_x and grid.cells_y must be positive, got %dx%d", c.Grid.CellsX, c.Grid.CellsY)
	}
	if c.Grid.Screens <= 0 {
		return fmt.Errorf("grid.screens must be positive, got %d", c.Grid.Screens)
	}
	if c.Grid.MaxScreens < c.Grid.Screens {
		return fmt.Errorf("grid.max_screens (%d) must be at least grid.screens (%d)", c.Grid.MaxScreens, c.Grid.Screens)
	}
	if c.Loader.BatchSize < 0 {
		return fmt.Errorf("loader.batch_size must not be negative, got %d", c.Loader.BatchSize)
	}
	if c.Loader.BatchDelay < 0 {
		return fmt.Errorf("loader.batch_delay must not be negative, got %s", c.Loader.BatchDelay)
	}
	if c.Loader.ItemsChunk <= 0 {
		return fmt.Errorf("loader.items_chunk must be positive, got %d", c.Loader.ItemsChunk)
	}
	return nil
}
