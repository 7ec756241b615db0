package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// CoreServer holds all configuration for the core progression server.
type CoreServer struct {
	// Network
	BindAddress string `yaml:"bind_address" env:"BIND_ADDRESS"`
	Port        int    `yaml:"port" env:"PORT"`

	// Logging
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// Database
	Database DatabaseConfig `yaml:"database" envPrefix:"DB_"`

	// Simulation
	TickRate         int           `yaml:"tick_rate" env:"TICK_RATE"`                 // frames per second
	SyncInterval     int32         `yaml:"sync_interval" env:"SYNC_INTERVAL"`         // frames between forced sync broadcasts
	AutosaveInterval time.Duration `yaml:"autosave_interval" env:"AUTOSAVE_INTERVAL"` // checkpoint period
	Theme            string        `yaml:"theme" env:"THEME"`
	WeaponDamage     float64       `yaml:"weapon_damage" env:"WEAPON_DAMAGE"` // base damage of RequestAttack

	// Player
	PlayerMaxHP      int32 `yaml:"player_max_hp" env:"PLAYER_MAX_HP"`
	ReviveDelay      int32 `yaml:"revive_delay" env:"REVIVE_DELAY"`           // frames a dead player waits before revival
	StartingMaterial int64 `yaml:"starting_material" env:"STARTING_MATERIAL"` // upgrade items granted on EnterWorld
	MaterialPerKill  int64 `yaml:"material_per_kill" env:"MATERIAL_PER_KILL"`

	// Write queue / timeouts
	WriteTimeout  time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	SendQueueSize int           `yaml:"send_queue_size" env:"SEND_QUEUE_SIZE"`

	// Spawn point for entering players and training targets around it.
	SpawnX int32        `yaml:"spawn_x"`
	SpawnY int32        `yaml:"spawn_y"`
	SpawnZ int32        `yaml:"spawn_z"`
	Spawns []SpawnEntry `yaml:"spawns"`

	// Protected regions announced in the sync packet.
	Regions []RegionEntry `yaml:"regions"`

	// Core tuning
	Cores Cores `yaml:"cores"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// SpawnEntry describes a training target kept alive around the spawn point.
type SpawnEntry struct {
	Name         string `yaml:"name"`
	TemplateID   int32  `yaml:"template_id"`
	X            int32  `yaml:"x"`
	Y            int32  `yaml:"y"`
	Z            int32  `yaml:"z"`
	MaxHP        int32  `yaml:"max_hp"`
	RespawnDelay int32  `yaml:"respawn_delay"` // frames
	Attack       int32  `yaml:"attack"`        // damage per hit when retaliating
	Boss         bool   `yaml:"boss"`
}

// RegionEntry is a circular protected region.
type RegionEntry struct {
	X      int32 `yaml:"x"`
	Y      int32 `yaml:"y"`
	Radius int32 `yaml:"radius"`
}

// DefaultCoreServer returns CoreServer config with sensible defaults.
func DefaultCoreServer() CoreServer {
	return CoreServer{
		BindAddress:      "0.0.0.0",
		Port:             7780,
		LogLevel:         "info",
		TickRate:         60,
		SyncInterval:     300,
		AutosaveInterval: 5 * time.Minute,
		Theme:            "classic",
		WeaponDamage:     100,
		PlayerMaxHP:      500,
		ReviveDelay:      300,
		StartingMaterial: 3,
		MaterialPerKill:  1,
		WriteTimeout:     5 * time.Second,
		ReadTimeout:      120 * time.Second,
		SendQueueSize:    256,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "cores",
			Password: "cores",
			DBName:   "cores",
			SSLMode:  "disable",
		},
		Spawns: []SpawnEntry{
			{Name: "Training Dummy", TemplateID: 1, X: 150, Y: 0, Z: 0, MaxHP: 400, RespawnDelay: 300, Attack: 8},
			{Name: "Training Dummy", TemplateID: 1, X: -150, Y: 0, Z: 0, MaxHP: 400, RespawnDelay: 300, Attack: 8},
			{Name: "Sentinel", TemplateID: 2, X: 0, Y: 420, Z: 0, MaxHP: 1200, RespawnDelay: 600, Attack: 25, Boss: true},
		},
		Regions: []RegionEntry{
			{X: 0, Y: 0, Radius: 100},
		},
		Cores: DefaultCores(),
	}
}

// LoadCoreServer loads server config from a YAML file and applies CORES_*
// environment overrides on top.
// If the file doesn't exist, returns defaults (still env-overridden).
func LoadCoreServer(path string) (CoreServer, error) {
	cfg := DefaultCoreServer()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "CORES_"}); err != nil {
		return cfg, fmt.Errorf("parsing env overrides: %w", err)
	}

	return cfg, nil
}
