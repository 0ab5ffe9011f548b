package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Execution.MaxCycles != 10000 {
		t.Errorf("Expected MaxCycles=10000, got %d", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.DataMemorySize != 4096 {
		t.Errorf("Expected DataMemorySize=4096, got %d", cfg.Execution.DataMemorySize)
	}
	if !cfg.Assembler.CheckReachability {
		t.Error("Expected CheckReachability=true")
	}
	if !cfg.Debugger.ShowSource {
		t.Error("Expected ShowSource=true")
	}
	if cfg.Display.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Display.NumberFormat)
	}
}

func TestGetConfigPathEndsInConfigToml(t *testing.T) {
	path := GetConfigPath()
	if path == "" {
		t.Fatal("GetConfigPath returned empty string")
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("expected path to end with config.toml, got %s", path)
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Execution.MaxCycles != DefaultConfig().Execution.MaxCycles {
		t.Error("expected default MaxCycles when config file is absent")
	}
}

func TestSaveToThenLoadFromRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 42
	cfg.Display.NumberFormat = "dec"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file to exist: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if loaded.Execution.MaxCycles != 42 {
		t.Errorf("MaxCycles = %d, want 42", loaded.Execution.MaxCycles)
	}
	if loaded.Display.NumberFormat != "dec" {
		t.Errorf("NumberFormat = %q, want dec", loaded.Display.NumberFormat)
	}
}
