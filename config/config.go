// Package config loads and saves the toolchain's persistent settings:
// execution limits, debugger defaults, and display preferences.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every setting the toolchain reads at startup.
type Config struct {
	Execution struct {
		MaxCycles      uint64 `toml:"max_cycles"`
		DataMemorySize uint   `toml:"data_memory_size"`
		EnableTrace    bool   `toml:"enable_trace"`
		EnableStats    bool   `toml:"enable_stats"`
		EnableCoverage bool   `toml:"enable_coverage"`
	} `toml:"execution"`

	Assembler struct {
		WarnUnusedLabels bool `toml:"warn_unused_labels"`
		CheckReachability bool `toml:"check_reachability"`
	} `toml:"assembler"`

	Debugger struct {
		HistorySize   int  `toml:"history_size"`
		ShowRegisters bool `toml:"show_registers"`
		ShowSource    bool `toml:"show_source"`
	} `toml:"debugger"`

	Display struct {
		ColorOutput  bool   `toml:"color_output"`
		BytesPerLine int    `toml:"bytes_per_line"`
		NumberFormat string `toml:"number_format"` // hex, dec
	} `toml:"display"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Execution.MaxCycles = 10000
	cfg.Execution.DataMemorySize = 4096
	cfg.Execution.EnableTrace = false
	cfg.Execution.EnableStats = false
	cfg.Execution.EnableCoverage = false

	cfg.Assembler.WarnUnusedLabels = false
	cfg.Assembler.CheckReachability = true

	cfg.Debugger.HistorySize = 1000
	cfg.Debugger.ShowRegisters = true
	cfg.Debugger.ShowSource = true

	cfg.Display.ColorOutput = true
	cfg.Display.BytesPerLine = 16
	cfg.Display.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path,
// creating its parent directory if necessary.
func GetConfigPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "rv32i-toolchain")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		dir = filepath.Join(home, ".config", "rv32i-toolchain")
	default:
		return "config.toml"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "config.toml"
	}
	return filepath.Join(dir, "config.toml")
}

// GetLogPath returns the platform-specific log directory, creating it
// if necessary.
func GetLogPath() string {
	var dir string
	switch runtime.GOOS {
	case "windows":
		dir = os.Getenv("APPDATA")
		if dir == "" {
			dir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		dir = filepath.Join(dir, "rv32i-toolchain", "logs")
	case "darwin", "linux":
		home, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		dir = filepath.Join(home, ".local", "share", "rv32i-toolchain", "logs")
	default:
		return "logs"
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "logs"
	}
	return dir
}

// Load reads the config file at GetConfigPath, falling back to
// DefaultConfig if it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads and decodes the TOML config file at path, falling
// back to DefaultConfig if it doesn't exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Save writes c to GetConfigPath in TOML form.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes c to path in TOML form, creating parent directories
// as needed.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
