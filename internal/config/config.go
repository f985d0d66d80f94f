// Package config loads game settings from embedded defaults, an optional
// YAML file, a .env file and the environment, in that order of precedence.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Config is the full set of game settings.
type Config struct {
	Seed          int64           `yaml:"seed"`
	FOVRadius     int             `yaml:"fov_radius"`
	DamageFormula string          `yaml:"damage_formula"`
	Map           MapConfig       `yaml:"map"`
	Player        PlayerConfig    `yaml:"player"`
	Monsters      []MonsterDef    `yaml:"monsters"`
	Log           LogConfig       `yaml:"log"`
	Telemetry     TelemetryConfig `yaml:"telemetry"`
	Server        ServerConfig    `yaml:"server"`
}

// MapConfig sizes the level and picks its layout.
type MapConfig struct {
	Width              int    `yaml:"width"`
	Height             int    `yaml:"height"`
	Layout             string `yaml:"layout"`   // rooms | bsp
	Corridor           string `yaml:"corridor"` // l | z
	MaxRooms           int    `yaml:"max_rooms"`
	RoomMinSize        int    `yaml:"room_min_size"`
	RoomMaxSize        int    `yaml:"room_max_size"`
	MinLeafSize        int    `yaml:"min_leaf_size"`
	MaxLeafSize        int    `yaml:"max_leaf_size"`
	MaxMonstersPerRoom int    `yaml:"max_monsters_per_room"`
}

// PlayerConfig holds the player's starting stats.
type PlayerConfig struct {
	Name    string `yaml:"name"`
	Glyph   string `yaml:"glyph"`
	Color   string `yaml:"color"`
	HP      int    `yaml:"hp"`
	Power   int    `yaml:"power"`
	Defense int    `yaml:"defense"`
}

// MonsterDef is one roster entry.
type MonsterDef struct {
	Name       string `yaml:"name"`
	Glyph      string `yaml:"glyph"`
	Color      string `yaml:"color"`
	HP         int    `yaml:"hp"`
	Power      int    `yaml:"power"`
	Defense    int    `yaml:"defense"`
	Behavior   string `yaml:"behavior"`
	SightRange int    `yaml:"sight_range"`
	Weight     int    `yaml:"weight"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
	Insecure bool   `yaml:"insecure"`
}

type ServerConfig struct {
	Addr         string   `yaml:"addr"`
	HostKey      string   `yaml:"host_key"`
	AllowedTerms []string `yaml:"allowed_terms"`
}

// Validation errors.
var (
	ErrMapTooSmall  = errors.New("map must be at least 10x10")
	ErrRoomSize     = errors.New("room sizes must satisfy 3 <= min <= max")
	ErrLeafSize     = errors.New("leaf sizes must satisfy room min <= leaf min <= leaf max")
	ErrPlayerStats  = errors.New("player hp must be positive and power/defense non-negative")
	ErrFOVRadius    = errors.New("fov radius must be positive")
	ErrEmptyRoster  = errors.New("monster roster has no spawnable entry")
	ErrUnknownValue = errors.New("unknown value")
)

// Default returns the embedded defaults.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal(defaultYAML, &c); err != nil {
		panic(fmt.Sprintf("config: embedded default.yaml: %v", err))
	}
	return c
}

// Load builds the configuration. path may be empty, in which case
// CRAWL_CONFIG is consulted. A missing .env file is not an error.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	c := Default()
	if path == "" {
		path = os.Getenv("CRAWL_CONFIG")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyEnv overlays environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("CRAWL_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CRAWL_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("CRAWL_FOV_RADIUS"); v != "" {
		r, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CRAWL_FOV_RADIUS: %w", err)
		}
		c.FOVRadius = r
	}
	if v := os.Getenv("CRAWL_DAMAGE_FORMULA"); v != "" {
		c.DamageFormula = v
	}
	if v := os.Getenv("CRAWL_LAYOUT"); v != "" {
		c.Map.Layout = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("CRAWL_TELEMETRY"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CRAWL_TELEMETRY: %w", err)
		}
		c.Telemetry.Enabled = on
	}
	return nil
}

// Validate rejects settings the generator or engine cannot work with.
func (c Config) Validate() error {
	if c.Map.Width < 10 || c.Map.Height < 10 {
		return fmt.Errorf("map %dx%d: %w", c.Map.Width, c.Map.Height, ErrMapTooSmall)
	}
	if c.Map.RoomMinSize < 3 || c.Map.RoomMinSize > c.Map.RoomMaxSize {
		return fmt.Errorf("rooms %d..%d: %w", c.Map.RoomMinSize, c.Map.RoomMaxSize, ErrRoomSize)
	}
	if c.Map.MinLeafSize < c.Map.RoomMinSize || c.Map.MaxLeafSize < c.Map.MinLeafSize {
		return fmt.Errorf("leaves %d..%d: %w", c.Map.MinLeafSize, c.Map.MaxLeafSize, ErrLeafSize)
	}
	switch c.Map.Layout {
	case "rooms", "bsp":
	default:
		return fmt.Errorf("map layout %q: %w", c.Map.Layout, ErrUnknownValue)
	}
	switch c.Map.Corridor {
	case "", "l", "z":
	default:
		return fmt.Errorf("corridor %q: %w", c.Map.Corridor, ErrUnknownValue)
	}
	if c.FOVRadius <= 0 {
		return fmt.Errorf("fov radius %d: %w", c.FOVRadius, ErrFOVRadius)
	}
	if c.Player.HP <= 0 || c.Player.Power < 0 || c.Player.Defense < 0 {
		return ErrPlayerStats
	}
	spawnable := false
	for _, m := range c.Monsters {
		switch strings.ToLower(m.Behavior) {
		case "", "chase", "wander", "stationary":
		default:
			return fmt.Errorf("monster %s behavior %q: %w", m.Name, m.Behavior, ErrUnknownValue)
		}
		if m.Weight > 0 && m.HP > 0 {
			spawnable = true
		}
	}
	if c.Map.MaxMonstersPerRoom > 0 && !spawnable {
		return ErrEmptyRoster
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log format %q: %w", c.Log.Format, ErrUnknownValue)
	}
	return nil
}

// Color resolves a color name or #rrggbb string, falling back to def.
func Color(name string, def tcell.Color) tcell.Color {
	if name == "" {
		return def
	}
	if c := tcell.GetColor(name); c != tcell.ColorDefault {
		return c
	}
	return def
}

// DataDir returns the per-user data directory for run logs, the log file and
// the server host key. Follows XDG: $XDG_DATA_HOME/dungeoncrawl, defaulting
// to ~/.local/share/dungeoncrawl.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "dungeoncrawl"), nil
}
