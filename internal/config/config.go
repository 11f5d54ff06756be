package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version      string      `yaml:"version" json:"version"`
	DataDir      string      `yaml:"data_dir" json:"data_dir"`
	SettingsFile string      `yaml:"settings_file" json:"settings_file"`
	HistoryDB    string      `yaml:"history_db" json:"history_db"`
	Seed         int64       `yaml:"seed" json:"seed"`
	Timer        TimerConfig `yaml:"timer" json:"timer"`
	UI           UIConfig    `yaml:"ui" json:"ui"`
}

type TimerConfig struct {
	WarningMinutes []int `yaml:"warning_minutes" json:"warning_minutes"`
	TickMS         int   `yaml:"tick_ms" json:"tick_ms"`
}

type UIConfig struct {
	DoubleEscapeWindowMS int   `yaml:"double_escape_window_ms" json:"double_escape_window_ms"`
	PileOrder            []int `yaml:"pile_order" json:"pile_order"`
}

func (t *TimerConfig) ApplyDefaults() {
	if t.WarningMinutes == nil {
		t.WarningMinutes = []int{10, 5, 1}
	}
	if t.TickMS == 0 {
		t.TickMS = 500
	}
}

func (u *UIConfig) ApplyDefaults() {
	if u.DoubleEscapeWindowMS == 0 {
		u.DoubleEscapeWindowMS = 2000
	}
}

func (c *Config) ApplyDefaults() {
	if c.Version == "" {
		c.Version = "1"
	}
	if c.DataDir == "" {
		c.DataDir = defaultDataDir()
	}
	if c.SettingsFile == "" {
		c.SettingsFile = "settings.json"
	}
	if c.HistoryDB == "" {
		c.HistoryDB = "history.db"
	}
	c.Timer.ApplyDefaults()
	c.UI.ApplyDefaults()
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "solitario")
	}
	return ".solitario"
}

// Default is the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.ApplyDefaults()
	return c
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Config
	if err := yaml.Unmarshal(b, &r); err != nil {
		return nil, err
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Config) Validate() error {
	for _, m := range c.Timer.WarningMinutes {
		if m <= 0 {
			return fmt.Errorf("timer.warning_minutes: %d is not a positive minute mark", m)
		}
	}
	if c.Timer.TickMS < 0 || c.Timer.TickMS > 1000 {
		return fmt.Errorf("timer.tick_ms: %d outside 1..1000", c.Timer.TickMS)
	}
	if c.UI.DoubleEscapeWindowMS < 0 {
		return fmt.Errorf("ui.double_escape_window_ms: %d is negative", c.UI.DoubleEscapeWindowMS)
	}
	return nil
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Timer.TickMS) * time.Millisecond
}

func (c *Config) DoubleEscapeWindow() time.Duration {
	return time.Duration(c.UI.DoubleEscapeWindowMS) * time.Millisecond
}

// HistoryPath resolves the history database inside the data dir. The
// special name ":memory:" is passed through.
func (c *Config) HistoryPath() string {
	if c.HistoryDB == ":memory:" || filepath.IsAbs(c.HistoryDB) {
		return c.HistoryDB
	}
	return filepath.Join(c.DataDir, c.HistoryDB)
}
