// Package config loads the application settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"

	"MyLocalPaint/internal/board"
	"MyLocalPaint/internal/raster"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned by Validate and Load for settings that cannot be used.
var ErrInvalid = errors.New("invalid config")

type Canvas struct {
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Background string `toml:"background"`
}

type Grid struct {
	Size    int    `toml:"size"`
	Color   string `toml:"color"`
	Visible bool   `toml:"visible"`
}

type Brush struct {
	Width   int     `toml:"width"`
	Color   string  `toml:"color"`
	Opacity float64 `toml:"opacity"`
}

type History struct {
	Limit int `toml:"limit"`
}

type Server struct {
	Port     int    `toml:"port"`
	MDNS     bool   `toml:"mdns"`
	Instance string `toml:"instance"` // mDNS instance name, hostname when empty
}

// Config is the whole settings file.
type Config struct {
	Canvas  Canvas  `toml:"canvas"`
	Grid    Grid    `toml:"grid"`
	Brush   Brush   `toml:"brush"`
	History History `toml:"history"`
	Server  Server  `toml:"server"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		Canvas:  Canvas{Width: 800, Height: 600, Background: "#ffffff"},
		Grid:    Grid{Size: 20, Color: "#e0e0e0"},
		Brush:   Brush{Width: 5, Color: "#000000", Opacity: 1},
		History: History{Limit: 50},
		Server:  Server{Port: 8888, MDNS: true},
	}
}

// DefaultPath is config.toml under the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "mylocalpaint", "config.toml"), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		log.Printf("[CONFIG] unknown key %q in %s", k.String(), path)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		f.Close()
		return fmt.Errorf("write config: %w", err)
	}
	return f.Close()
}

// Validate reports the first unusable setting, wrapped in ErrInvalid.
func (c Config) Validate() error {
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalid, c.Canvas.Width, c.Canvas.Height)
	}
	if c.History.Limit < 1 {
		return fmt.Errorf("%w: history limit %d", ErrInvalid, c.History.Limit)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d", ErrInvalid, c.Server.Port)
	}
	for name, hex := range map[string]string{
		"canvas.background": c.Canvas.Background,
		"grid.color":        c.Grid.Color,
		"brush.color":       c.Brush.Color,
	} {
		if _, err := raster.ParseHex(hex); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, name, err)
		}
	}
	return nil
}

// Options converts validated settings into board options.
func (c Config) Options() board.Options {
	opts := board.DefaultOptions()
	opts.Width, opts.Height = c.Canvas.Width, c.Canvas.Height
	opts.HistoryLimit = c.History.Limit
	opts.ShowGrid = c.Grid.Visible
	opts.Grid.Size = c.Grid.Size
	if bg, err := raster.ParseHex(c.Canvas.Background); err == nil {
		opts.Background = bg
	}
	if gc, err := raster.ParseHex(c.Grid.Color); err == nil {
		opts.Grid.Color = gc
	}
	opts.Style.Width = c.Brush.Width
	opts.Style.Opacity = c.Brush.Opacity
	if bc, err := raster.ParseHex(c.Brush.Color); err == nil {
		opts.Style.Color = bc
	}
	return opts
}
