package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	AppName               = "protask"
	DefaultConfigFileName = "config.toml"
	DefaultAPIURL         = "http://localhost:5000/api/todos"
)

// Environment overrides, applied after the file is read.
const (
	EnvConfig      = "PROTASK_CONFIG"
	EnvAPIURL      = "PROTASK_API_URL"
	EnvLegacyAPI   = "REACT_APP_API_URL"
	EnvLogFile     = "PROTASK_LOG_FILE"
	EnvLogLevel    = "PROTASK_LOG_LEVEL"
	EnvDefaultView = "PROTASK_VIEW"
)

type Keymap struct {
	Quit       string `toml:"quit"`
	Add        string `toml:"add"`
	Up         string `toml:"up"`
	Down       string `toml:"down"`
	Left       string `toml:"left"`
	Right      string `toml:"right"`
	Toggle     string `toml:"toggle"`
	Delete     string `toml:"delete"`
	Confirm    string `toml:"confirm"`
	Cancel     string `toml:"cancel"`
	Edit       string `toml:"edit"`
	SwitchView string `toml:"switch_view"`
	PrevMonth  string `toml:"prev_month"`
	NextMonth  string `toml:"next_month"`
	Today      string `toml:"today"`
	Refresh    string `toml:"refresh"`
}

type Config struct {
	APIURL         string   `toml:"api_url"`
	RequestTimeout Duration `toml:"request_timeout"`
	DefaultView    string   `toml:"default_view"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
	Keys           Keymap   `toml:"keys"`
}

// Duration is a time.Duration stored as a string such as "10s".
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if s == "" {
		d.Duration = 0
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	d.Duration = parsed
	return nil
}

// ResolveConfigPath returns $PROTASK_CONFIG, or config.toml under the XDG
// config dir.
func ResolveConfigPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), DefaultConfigFileName)
}

// DefaultConfigDir uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// LoadOrCreate reads path, writing the defaults there first if it does not
// exist. Environment overrides are applied to the result.
func LoadOrCreate(path string) (Config, error) {
	cfg := defaultConfig()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := write(path, cfg); err != nil {
			return cfg, err
		}
		applyEnv(&cfg)
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.Keys = withDefaultKeys(cfg.Keys)
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvLegacyAPI); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv(EnvDefaultView); v != "" {
		cfg.DefaultView = v
	}
}

func write(path string, cfg Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// withDefaultKeys fills bindings missing from older config files.
func withDefaultKeys(k Keymap) Keymap {
	d := defaultConfig().Keys
	fill := func(v *string, def string) {
		if *v == "" {
			*v = def
		}
	}
	fill(&k.Quit, d.Quit)
	fill(&k.Add, d.Add)
	fill(&k.Up, d.Up)
	fill(&k.Down, d.Down)
	fill(&k.Left, d.Left)
	fill(&k.Right, d.Right)
	fill(&k.Toggle, d.Toggle)
	fill(&k.Delete, d.Delete)
	fill(&k.Confirm, d.Confirm)
	fill(&k.Cancel, d.Cancel)
	fill(&k.Edit, d.Edit)
	fill(&k.SwitchView, d.SwitchView)
	fill(&k.PrevMonth, d.PrevMonth)
	fill(&k.NextMonth, d.NextMonth)
	fill(&k.Today, d.Today)
	fill(&k.Refresh, d.Refresh)
	return k
}

// Default returns the built-in configuration.
func Default() Config {
	return defaultConfig()
}

func defaultConfig() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		DefaultView: "list",
		LogLevel:    "info",
		Keys: Keymap{
			Quit:       "q",
			Add:        "a",
			Up:         "k",
			Down:       "j",
			Left:       "h",
			Right:      "l",
			Toggle:     " ",
			Delete:     "d",
			Confirm:    "enter",
			Cancel:     "esc",
			Edit:       "e",
			SwitchView: "tab",
			PrevMonth:  "[",
			NextMonth:  "]",
			Today:      "t",
			Refresh:    "r",
		},
	}
}
