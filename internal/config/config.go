package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "ANTIGEN_CONFIG"

// DefaultPath is used when EnvPath is unset.
const DefaultPath = "config/sandbox.toml"

type Config struct {
	Sandbox    SandboxConfig    `toml:"sandbox"`
	Exchange   ExchangeConfig   `toml:"exchange"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Scripting  ScriptingConfig  `toml:"scripting"`
	Logging    LoggingConfig    `toml:"logging"`
	Profile    ProfileConfig    `toml:"profile"`
}

type SandboxConfig struct {
	Name        string        `toml:"name"`
	TickRate    time.Duration `toml:"tick_rate"`    // game world tick
	RenderRate  time.Duration `toml:"render_rate"`  // render world frame interval
	RunDuration time.Duration `toml:"run_duration"` // 0 = until interrupted
	StartTime   int64         // set at boot, not from config
}

type ExchangeConfig struct {
	Bounded  bool `toml:"bounded"`
	Capacity int  `toml:"capacity"` // per direction, used when bounded
}

type FilesystemConfig struct {
	Root  string `toml:"root"`
	Scene string `toml:"scene"` // relative to Root; empty loads nothing
}

type ScriptingConfig struct {
	Dir string `toml:"dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

type ProfileConfig struct {
	Mode string `toml:"mode"` // "", "cpu" or "mem"
	Path string `toml:"path"`
}

// Path returns the config file path from the environment.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.Sandbox.StartTime = time.Now().Unix()
	return cfg, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = defaults()
		cfg.Sandbox.StartTime = time.Now().Unix()
		return cfg, nil
	}
	return cfg, err
}

func (c *Config) validate() error {
	if c.Sandbox.TickRate <= 0 {
		return fmt.Errorf("sandbox.tick_rate must be positive, got %s", c.Sandbox.TickRate)
	}
	if c.Sandbox.RenderRate <= 0 {
		return fmt.Errorf("sandbox.render_rate must be positive, got %s", c.Sandbox.RenderRate)
	}
	if c.Exchange.Bounded && c.Exchange.Capacity < 1 {
		return fmt.Errorf("exchange.capacity must be at least 1 when bounded, got %d", c.Exchange.Capacity)
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return fmt.Errorf("profile.mode %q: want cpu, mem or empty", c.Profile.Mode)
	}
	return nil
}

func defaults() *Config {
	return &Config{
		Sandbox: SandboxConfig{
			Name:       "antigen-sandbox",
			TickRate:   time.Second / 60,
			RenderRate: time.Second / 60,
		},
		Exchange: ExchangeConfig{
			Bounded:  false,
			Capacity: 64,
		},
		Filesystem: FilesystemConfig{
			Root:  "assets",
			Scene: "scenes/triangle.yaml",
		},
		Scripting: ScriptingConfig{
			Dir: "assets/scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
