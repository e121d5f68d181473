// Package config handles runtime configuration loading and management.
package config

// Config holds all runtime settings.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Nav        NavConfig        `yaml:"nav"`
	Data       DataConfig       `yaml:"data"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SimulationConfig holds physics simulation settings.
type SimulationConfig struct {
	TickRate      int     `yaml:"tick_rate"`      // Simulation steps per second
	Gravity       float32 `yaml:"gravity"`        // Downward acceleration, units/s^2
	LinearDamping float32 `yaml:"linear_damping"` // Velocity decay per second (0 = none)
}

// NavConfig holds navigation mesh settings.
type NavConfig struct {
	CellSize            float32 `yaml:"cell_size"`            // Spatial index cell size in world units
	ProjectionTolerance float32 `yaml:"projection_tolerance"` // How far above a floor a point may project from
}

// DataConfig holds game data file paths.
type DataConfig struct {
	ModulePaths []string `yaml:"module_paths"` // Paths searched for module resources
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			TickRate:      30,
			Gravity:       9.81,
			LinearDamping: 0.05,
		},
		Nav: NavConfig{
			CellSize:            8.0,
			ProjectionTolerance: 0.5,
		},
		Data: DataConfig{
			ModulePaths: []string{"modules"},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
