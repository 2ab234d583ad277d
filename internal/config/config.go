package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Arena holds all configuration for the arena runner.
type Arena struct {
	LogLevel string `yaml:"log_level"`

	// Simulation
	FrameInterval time.Duration `yaml:"frame_interval"` // real-time tick period (default: 50ms)
	Seed          uint64        `yaml:"seed"`           // 0 = random seed per run
	Damping       float64       `yaml:"damping"`        // fraction of velocity kept per second by free bodies

	// Enemy archetypes
	ArchetypesFile  string `yaml:"archetypes_file"`
	WatchArchetypes bool   `yaml:"watch_archetypes"` // hot reload catalog on file change
	EnemyArchetype  string `yaml:"enemy_archetype"`  // archetype spawned by rounds

	Player   PlayerConfig   `yaml:"player"`
	Rounds   RoundsConfig   `yaml:"rounds"`
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultArena returns Arena config with sensible defaults.
func DefaultArena() Arena {
	return Arena{
		LogLevel:        "info",
		FrameInterval:   50 * time.Millisecond,
		Damping:         0.1,
		ArchetypesFile:  "config/archetypes.yaml",
		WatchArchetypes: false,
		EnemyArchetype:  DefaultArchetypeName,
		Player:          DefaultPlayer(),
		Rounds:          DefaultRounds(),
		Database: DatabaseConfig{
			Enabled:  false,
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "arena",
			Password: "arena",
			DBName:   "arena",
			SSLMode:  "disable",
		},
	}
}

// Validate checks values that would break the simulation loop.
func (a Arena) Validate() error {
	if a.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %s", a.FrameInterval)
	}
	if math.IsNaN(a.Damping) || a.Damping < 0 || a.Damping > 1 {
		return fmt.Errorf("damping must be in [0, 1], got %v", a.Damping)
	}
	if err := a.Player.Validate(); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	if err := a.Rounds.Validate(); err != nil {
		return fmt.Errorf("rounds: %w", err)
	}
	return nil
}

// LoadArena loads arena config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadArena(path string) (Arena, error) {
	cfg := DefaultArena()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
