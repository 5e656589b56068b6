package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type (
	Config struct {
		App    `yaml:"app"`
		Log    `yaml:"logger"`
		Store  `yaml:"store"`
		Notify `yaml:"notify"`
		Sound  `yaml:"sound"`
		Daemon `yaml:"daemon"`
	}

	App struct {
		Env       string `yaml:"env"        env:"ALARMCLOCK_ENV"        env-default:"local"`
		Name      string `yaml:"name"                                   env-default:"alarmclock"`
		Timezone  string `yaml:"timezone"   env:"ALARMCLOCK_TIMEZONE"`
		AssumeYes bool   `yaml:"assume_yes" env:"ALARMCLOCK_ASSUME_YES"`
	}

	Log struct {
		Level string `yaml:"log_level" env:"LOG_LEVEL"`
	}

	Store struct {
		Path string `yaml:"path" env:"ALARMCLOCK_DB"`
	}

	Notify struct {
		Backend string `yaml:"backend" env:"ALARMCLOCK_NOTIFY" env-default:"desktop"`
	}

	Sound struct {
		Command      string        `yaml:"command"       env:"ALARMCLOCK_SOUND_COMMAND"`
		BellInterval time.Duration `yaml:"bell_interval"                                env-default:"1s"`
	}

	Daemon struct {
		Resync   time.Duration `yaml:"resync"   env-default:"30s"`
		Debounce time.Duration `yaml:"debounce" env-default:"100ms"`
	}
)

const (
	EnvConfigPathName = "ALARMCLOCK_CONFIG"

	NotifyDesktop  = "desktop"
	NotifyTerminal = "terminal"
	NotifyNone     = "none"

	// SoundBell selects the terminal bell instead of an audio player.
	SoundBell = "bell"
)

// Dir is the directory holding the config file and database by default.
func Dir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "alarmclock"), nil
}

// Load reads the config file at path, or the one named by ALARMCLOCK_CONFIG,
// or the default one if it exists, then applies environment overrides.
func Load(path string) (*Config, error) {
	explicit := true
	if path == "" {
		path = os.Getenv(EnvConfigPathName)
	}
	if path == "" {
		explicit = false
		dir, err := Dir()
		if err != nil {
			return nil, fmt.Errorf("config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yml")
	}

	cfg := &Config{}
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	case errors.Is(statErr, os.ErrNotExist) && !explicit:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("read config from env: %w", err)
		}
	default:
		return nil, fmt.Errorf("config %s: %w", path, statErr)
	}

	if err := cfg.complete(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) complete() error {
	switch c.Notify.Backend {
	case NotifyDesktop, NotifyTerminal, NotifyNone:
	default:
		return fmt.Errorf("unknown notify backend %q", c.Notify.Backend)
	}
	for name, d := range map[string]time.Duration{
		"sound.bell_interval": c.Sound.BellInterval,
		"daemon.resync":       c.Daemon.Resync,
		"daemon.debounce":     c.Daemon.Debounce,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}
	if c.Timezone != "" {
		if _, err := time.LoadLocation(c.Timezone); err != nil {
			return fmt.Errorf("timezone: %w", err)
		}
	}
	if c.Store.Path == "" {
		dir, err := Dir()
		if err != nil {
			return fmt.Errorf("config dir: %w", err)
		}
		c.Store.Path = filepath.Join(dir, "alarmclock.db")
	}
	if c.Sound.Command == "" {
		c.Sound.Command = DefaultSoundCommand(runtime.GOOS)
	}
	return nil
}

// Location is the time zone alarms are set and shown in.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// DefaultSoundCommand is the audio player used when none is configured.
func DefaultSoundCommand(goos string) string {
	switch goos {
	case "linux":
		return "paplay /usr/share/sounds/freedesktop/stereo/alarm-clock-elapsed.oga"
	case "darwin":
		return "afplay /System/Library/Sounds/Ping.aiff"
	default:
		return SoundBell
	}
}
