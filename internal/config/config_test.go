package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBoardGrid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 32, cfg.Board.GridWidth())
	assert.Equal(t, 24, cfg.Board.GridHeight())
	assert.Equal(t, 200*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, time.Second, cfg.FoodInterval)
}

func TestLoadFileMissingKeepsDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.loadFile(filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Equal(t, Default(), cfg)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
port: "9000"
log_level: debug
board:
  canvas_width: 400
  cell_size: 20
tick_interval: 150ms
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg := Default()
	require.NoError(t, cfg.loadFile(path))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 400, cfg.Board.CanvasWidth)
	assert.Equal(t, 600, cfg.Board.CanvasHeight)
	assert.Equal(t, 20, cfg.Board.GridWidth())
	assert.Equal(t, 150*time.Millisecond, cfg.TickInterval)
}

func TestLoadFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board: [1, 2"), 0o644))

	cfg := Default()
	err := cfg.loadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":          "8080",
		"CELL_SIZE":     "10",
		"START_LENGTH":  "3",
		"FOOD_INTERVAL": "500ms",
		"JWT_SECRET":    "s3cret",
	}
	cfg := Default()
	require.NoError(t, cfg.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10, cfg.Board.CellSize)
	assert.Equal(t, 3, cfg.Board.StartLength)
	assert.Equal(t, 500*time.Millisecond, cfg.FoodInterval)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.Equal(t, 80, cfg.Board.GridWidth())
}

func TestApplyEnvBadValues(t *testing.T) {
	env := map[string]string{"CELL_SIZE": "big", "TICK_INTERVAL": "soon"}
	cfg := Default()
	err := cfg.applyEnv(func(k string) string { return env[k] })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CELL_SIZE")
	assert.Contains(t, err.Error(), "TICK_INTERVAL")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cell", func(c *Config) { c.Board.CellSize = 0 }},
		{"negative canvas", func(c *Config) { c.Board.CanvasWidth = -1 }},
		{"canvas below one cell", func(c *Config) { c.Board.CanvasHeight = 10 }},
		{"margin swallows cell", func(c *Config) { c.Board.FoodMargin = 13 }},
		{"start length zero", func(c *Config) { c.Board.StartLength = 0 }},
		{"zero tick", func(c *Config) { c.TickInterval = 0 }},
		{"zero sweep", func(c *Config) { c.SweepInterval = 0 }},
		{"zero ttl", func(c *Config) { c.TokenTTL = 0 }},
		{"empty secret", func(c *Config) { c.JWTSecret = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
