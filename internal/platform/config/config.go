package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"pacekeeper/internal/platform/logging"
)

const (
	DefaultWindowDays      = 14
	DefaultMinActiveDays   = 3
	DefaultPagesPerDay     = 25
	DefaultMinutesPerDay   = 30
	DefaultRefreshSchedule = "@every 1h"
	DefaultCacheSize       = 256
)

const (
	dirName  = ".pacekeeper"
	yamlName = "config.yaml"
	tomlName = "config.toml"
)

type Config struct {
	VaultPath string
	DBPath    string
	Timezone  string
	Location  *time.Location
	Log       logging.Config
	Pace      PaceConfig
	Refresh   RefreshConfig
	Cache     CacheConfig
}

type PaceConfig struct {
	WindowDays           int     `yaml:"window_days" toml:"window_days"`
	MinActiveDays        int     `yaml:"min_active_days" toml:"min_active_days"`
	DefaultPagesPerDay   float64 `yaml:"default_pages_per_day" toml:"default_pages_per_day"`
	DefaultMinutesPerDay float64 `yaml:"default_minutes_per_day" toml:"default_minutes_per_day"`
}

type RefreshConfig struct {
	Schedule string `yaml:"schedule" toml:"schedule"`
}

type CacheConfig struct {
	Size int `yaml:"size" toml:"size"`
}

// fileConfig mirrors the on-disk layout of config.yaml / config.toml.
type fileConfig struct {
	Timezone string         `yaml:"timezone" toml:"timezone"`
	Log      logging.Config `yaml:"log" toml:"log"`
	Pace     PaceConfig     `yaml:"pace" toml:"pace"`
	Refresh  RefreshConfig  `yaml:"refresh" toml:"refresh"`
	Cache    CacheConfig    `yaml:"cache" toml:"cache"`
}

// New returns the defaults for a vault.
func New(vaultPath string) (Config, error) {
	if strings.TrimSpace(vaultPath) == "" {
		return Config{}, fmt.Errorf("vault path is required")
	}
	return Config{
		VaultPath: vaultPath,
		DBPath:    filepath.Join(vaultPath, dirName, "pacekeeper.db"),
		Location:  time.Local,
		Pace: PaceConfig{
			WindowDays:           DefaultWindowDays,
			MinActiveDays:        DefaultMinActiveDays,
			DefaultPagesPerDay:   DefaultPagesPerDay,
			DefaultMinutesPerDay: DefaultMinutesPerDay,
		},
		Refresh: RefreshConfig{Schedule: DefaultRefreshSchedule},
		Cache:   CacheConfig{Size: DefaultCacheSize},
	}, nil
}

// Load starts from New and overlays <vault>/.pacekeeper/config.yaml, or
// config.toml when no YAML file exists. Missing files are not an error.
func Load(vaultPath string) (Config, error) {
	cfg, err := New(vaultPath)
	if err != nil {
		return Config{}, err
	}

	var raw fileConfig
	found, err := readFile(filepath.Join(vaultPath, dirName, yamlName), func(b []byte) error { return yaml.Unmarshal(b, &raw) })
	if err != nil {
		return Config{}, err
	}
	if !found {
		if _, err := readFile(filepath.Join(vaultPath, dirName, tomlName), func(b []byte) error { return toml.Unmarshal(b, &raw) }); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func readFile(path string, decode func([]byte) error) (bool, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read config: %w", err)
	}
	if err := decode(payload); err != nil {
		return true, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}
	return true, nil
}

func (c *Config) apply(raw fileConfig) error {
	if tz := strings.TrimSpace(raw.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("load timezone %q: %w", tz, err)
		}
		c.Timezone = tz
		c.Location = loc
	}
	c.Log = raw.Log
	if raw.Pace.WindowDays < 0 || raw.Pace.MinActiveDays < 0 || raw.Pace.DefaultPagesPerDay < 0 || raw.Pace.DefaultMinutesPerDay < 0 {
		return fmt.Errorf("pace settings must be non-negative")
	}
	if raw.Pace.WindowDays > 0 {
		c.Pace.WindowDays = raw.Pace.WindowDays
	}
	if raw.Pace.MinActiveDays > 0 {
		c.Pace.MinActiveDays = raw.Pace.MinActiveDays
	}
	if raw.Pace.DefaultPagesPerDay > 0 {
		c.Pace.DefaultPagesPerDay = raw.Pace.DefaultPagesPerDay
	}
	if raw.Pace.DefaultMinutesPerDay > 0 {
		c.Pace.DefaultMinutesPerDay = raw.Pace.DefaultMinutesPerDay
	}
	if s := strings.TrimSpace(raw.Refresh.Schedule); s != "" {
		c.Refresh.Schedule = s
	}
	if raw.Cache.Size > 0 {
		c.Cache.Size = raw.Cache.Size
	}
	return nil
}
