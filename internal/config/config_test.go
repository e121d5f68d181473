package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Simulation.TickRate != 30 {
		t.Errorf("expected tick rate 30, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Gravity != 9.81 {
		t.Errorf("expected gravity 9.81, got %f", cfg.Simulation.Gravity)
	}

	if cfg.Nav.CellSize != 8.0 {
		t.Errorf("expected cell size 8.0, got %f", cfg.Nav.CellSize)
	}
	if cfg.Nav.ProjectionTolerance != 0.5 {
		t.Errorf("expected projection tolerance 0.5, got %f", cfg.Nav.ProjectionTolerance)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  tick_rate: 60
  gravity: 16.0
  linear_damping: 0.1

nav:
  cell_size: 4.0
  projection_tolerance: 0.25

data:
  module_paths: ["modules", "override"]

logging:
  level: "debug"
  log_file: "area.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Simulation.TickRate != 60 {
		t.Errorf("expected tick rate 60, got %d", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.Gravity != 16.0 {
		t.Errorf("expected gravity 16.0, got %f", cfg.Simulation.Gravity)
	}
	if cfg.Nav.CellSize != 4.0 {
		t.Errorf("expected cell size 4.0, got %f", cfg.Nav.CellSize)
	}
	if len(cfg.Data.ModulePaths) != 2 || cfg.Data.ModulePaths[1] != "override" {
		t.Errorf("expected two module paths, got %v", cfg.Data.ModulePaths)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "area.log" {
		t.Errorf("expected log file 'area.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
simulation:
  tick_rate: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestApplyFlags(t *testing.T) {
	*flagDebug = true
	*flagTickRate = 120
	defer func() {
		*flagDebug = false
		*flagTickRate = 0
	}()

	cfg := Default()
	applyFlags(cfg)

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Simulation.TickRate != 120 {
		t.Errorf("expected tick rate 120, got %d", cfg.Simulation.TickRate)
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
simulation:
  tick_rate: 60
nav:
  cell_size: 2.0
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagTickRate = 90
	defer func() {
		*flagConfig = ""
		*flagTickRate = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Tick rate should come from the flag, not the file.
	if cfg.Simulation.TickRate != 90 {
		t.Errorf("expected tick rate 90 from flag, got %d", cfg.Simulation.TickRate)
	}

	// Cell size should come from the file since no flag overrides it.
	if cfg.Nav.CellSize != 2.0 {
		t.Errorf("expected cell size 2.0 from file, got %f", cfg.Nav.CellSize)
	}
}
