// Package config loads benchboard settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"

	"benchboard/internal/catalog"
	"benchboard/internal/domain"
	"benchboard/internal/layout"
	"benchboard/internal/sandbox"
	"benchboard/internal/storage"
)

type Config struct {
	Surface  Surface  `toml:"surface"`
	Storage  Storage  `toml:"storage"`
	Autosave Autosave `toml:"autosave"`
	Template Template `toml:"template"`
	FPGA     FPGA     `toml:"fpga"`
	Log      Log      `toml:"log"`
}

type Surface struct {
	Grid    int     `toml:"grid"`
	ScrollX float64 `toml:"scroll_x"`
	ScrollY float64 `toml:"scroll_y"`
	Width   int     `toml:"width"`
	Height  int     `toml:"height"`
}

type Storage struct {
	Driver  string `toml:"driver"`
	DSN     string `toml:"dsn"`
	DataDir string `toml:"data_dir"`
}

// Autosave.Schedule is a standard cron expression. Empty disables autosave.
type Autosave struct {
	Schedule string `toml:"schedule"`
}

// Template.Path points at a TOML bench template used to seed new benches.
// Empty means the built-in layout.
type Template struct {
	Path  string `toml:"path"`
	Watch bool   `toml:"watch"`
}

type FPGA struct {
	Inputs int `toml:"inputs"`
}

type Log struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	homeDir, _ := os.UserHomeDir()
	return Config{
		Surface: Surface{
			Grid:    layout.DefaultGrid,
			ScrollX: sandbox.DefaultScroll.X,
			ScrollY: sandbox.DefaultScroll.Y,
			Width:   1280,
			Height:  800,
		},
		Storage: Storage{
			Driver:  storage.DriverSQLite,
			DataDir: filepath.Join(homeDir, ".local", "share", "benchboard"),
		},
		Autosave: Autosave{Schedule: "@every 30s"},
		FPGA:     FPGA{Inputs: catalog.DefaultFPGAInputs},
		Log:      Log{Level: "info"},
	}
}

// DefaultPath is ~/.config/benchboard/config.toml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "benchboard", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	_, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings the rest of the program cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Surface.Grid <= 0 {
		errs = append(errs, fmt.Errorf("surface.grid must be positive, got %d", c.Surface.Grid))
	}
	if !slices.Contains(storage.Drivers(), c.Storage.Driver) {
		errs = append(errs, fmt.Errorf("storage.driver: %w: %q", storage.ErrUnsupportedDriver, c.Storage.Driver))
	}
	if c.Storage.Driver != storage.DriverSQLite && c.Storage.DSN == "" {
		errs = append(errs, fmt.Errorf("storage.dsn is required for %s", c.Storage.Driver))
	}
	if c.Autosave.Schedule != "" {
		if _, err := cron.ParseStandard(c.Autosave.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("autosave.schedule: %w", err))
		}
	}
	if c.FPGA.Inputs <= 0 || c.FPGA.Inputs > catalog.FPGAClockPin {
		errs = append(errs, fmt.Errorf("fpga.inputs must be within 1..%d, got %d", catalog.FPGAClockPin, c.FPGA.Inputs))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// LogLevel is the parsed log level, info when unparsable.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Scroll is the initial pan offset.
func (c Config) Scroll() domain.Point {
	return domain.Point{X: c.Surface.ScrollX, Y: c.Surface.ScrollY}
}
