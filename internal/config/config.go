// internal/config/config.go
//
// Server configuration.
// Load order:
//   1. Defaults (Default).
//   2. Optional YAML file; a missing file is not an error.
//   3. Environment variables (a .env file is loaded first if present).
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when SNAKE_CONFIG is unset.
const DefaultPath = "config.yaml"

// Config holds all settings for the server and the games it hosts.
type Config struct {
	Port         string `yaml:"port"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"` // "json" or "console"
	ClientOrigin string `yaml:"client_origin"`

	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`

	Board Board `yaml:"board"`

	TickInterval  time.Duration `yaml:"tick_interval"`
	FoodInterval  time.Duration `yaml:"food_interval"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Board describes the canvas and how it maps to grid cells.
type Board struct {
	CanvasWidth  int `yaml:"canvas_width"`
	CanvasHeight int `yaml:"canvas_height"`
	CellSize     int `yaml:"cell_size"`
	FoodMargin   int `yaml:"food_margin"`
	StartLength  int `yaml:"start_length"`
}

// GridWidth is the number of cell columns.
func (b Board) GridWidth() int { return b.CanvasWidth / b.CellSize }

// GridHeight is the number of cell rows.
func (b Board) GridHeight() int { return b.CanvasHeight / b.CellSize }

// Default returns Config with the classic 800x600 board in 25px cells.
func Default() Config {
	return Config{
		Port:         "5175",
		LogLevel:     "info",
		LogFormat:    "json",
		ClientOrigin: "http://localhost:5173",
		JWTSecret:    "dev_secret_change_me",
		TokenTTL:     24 * time.Hour,
		Board: Board{
			CanvasWidth:  800,
			CanvasHeight: 600,
			CellSize:     25,
			FoodMargin:   5,
			StartLength:  5,
		},
		TickInterval:  200 * time.Millisecond,
		FoodInterval:  time.Second,
		IdleTimeout:   10 * time.Minute,
		SweepInterval: time.Minute,
	}
}

// Load builds the configuration from defaults, the YAML file at path and
// the environment.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides fields from environment variables read through getenv.
func (c *Config) applyEnv(getenv func(string) string) error {
	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	num := func(k string, dst *int) error {
		v := getenv(k)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*dst = n
		return nil
	}
	dur := func(k string, dst *time.Duration) error {
		v := getenv(k)
		if v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		*dst = d
		return nil
	}

	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("LOG_FORMAT", &c.LogFormat)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("JWT_SECRET", &c.JWTSecret)

	return errors.Join(
		dur("TOKEN_TTL", &c.TokenTTL),
		num("CANVAS_WIDTH", &c.Board.CanvasWidth),
		num("CANVAS_HEIGHT", &c.Board.CanvasHeight),
		num("CELL_SIZE", &c.Board.CellSize),
		num("FOOD_MARGIN", &c.Board.FoodMargin),
		num("START_LENGTH", &c.Board.StartLength),
		dur("TICK_INTERVAL", &c.TickInterval),
		dur("FOOD_INTERVAL", &c.FoodInterval),
		dur("IDLE_TIMEOUT", &c.IdleTimeout),
		dur("SWEEP_INTERVAL", &c.SweepInterval),
	)
}

// Validate rejects settings the game engine assumes never happen.
func (c Config) Validate() error {
	b := c.Board
	switch {
	case b.CellSize <= 0:
		return errors.New("config: cell_size must be positive")
	case b.CanvasWidth <= 0 || b.CanvasHeight <= 0:
		return errors.New("config: canvas dimensions must be positive")
	case b.GridWidth() < 1 || b.GridHeight() < 1:
		return errors.New("config: canvas smaller than one cell")
	case b.FoodMargin < 0 || 2*b.FoodMargin >= b.CellSize:
		return errors.New("config: food_margin must leave a visible square")
	case b.StartLength < 1:
		return errors.New("config: start_length must be at least 1")
	case c.TickInterval <= 0 || c.FoodInterval <= 0:
		return errors.New("config: tick and food intervals must be positive")
	case c.IdleTimeout <= 0 || c.SweepInterval <= 0:
		return errors.New("config: idle_timeout and sweep_interval must be positive")
	case c.TokenTTL <= 0:
		return errors.New("config: token_ttl must be positive")
	case c.JWTSecret == "":
		return errors.New("config: jwt_secret must be set")
	}
	return nil
}
