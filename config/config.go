// Package config resolves caresim settings from built-in defaults, an
// optional YAML file and CARESIM_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/panyam/caresim/console"
	"github.com/panyam/caresim/core"
	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath      = "CARESIM_CONFIG"
	EnvHost            = "CARESIM_HOST"
	EnvPort            = "CARESIM_PORT"
	EnvLogLevel        = "CARESIM_LOG_LEVEL"
	EnvLogFormat       = "CARESIM_LOG_FORMAT"
	EnvHourlyWindow    = "CARESIM_HOURLY_WINDOW"
	EnvSessionLifetime = "CARESIM_SESSION_LIFETIME"
)

const (
	DefaultHost            = "localhost"
	DefaultPort            = 8080
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "pretty"
	DefaultSessionLifetime = 12 * time.Hour
)

type Server struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	SessionLifetime time.Duration `yaml:"session_lifetime"`
}

// Addr is host:port for net/http.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Reporting struct {
	HourlyWindow int      `yaml:"hourly_window"`
	WeeklyWindow int      `yaml:"weekly_window"`
	Palette      []string `yaml:"palette"`
}

// Window converts the reporting section to the console's window type.
func (r Reporting) Window() console.ReportingWindow {
	return console.ReportingWindow{Hourly: r.HourlyWindow, Weekly: r.WeeklyWindow}
}

// Config is the resolved configuration. Path is empty when no file was read.
type Config struct {
	Path      string          `yaml:"-"`
	Server    Server          `yaml:"server"`
	Log       Log             `yaml:"log"`
	Reporting Reporting       `yaml:"reporting"`
	Defaults  core.Parameters `yaml:"defaults"`
}

func Default() Config {
	return Config{
		Server:    Server{Host: DefaultHost, Port: DefaultPort, SessionLifetime: DefaultSessionLifetime},
		Log:       Log{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Reporting: Reporting{HourlyWindow: console.DefaultHourlyWindow},
		Defaults:  core.DefaultParameters(),
	}
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load resolves the configuration. An empty path falls back to
// CARESIM_CONFIG; with neither set only defaults and env apply.
func Load(path string) (Config, error) {
	cfg := Default()

	path = strings.TrimSpace(path)
	if path == "" {
		path = strings.TrimSpace(os.Getenv(EnvConfigPath))
	}
	if path != "" {
		expanded, err := expandHomeDir(path)
		if err != nil {
			return Config{}, err
		}
		data, err := os.ReadFile(expanded)
		if err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
		// Unmarshalling over the defaults keeps any key the file leaves out.
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg.Path = path
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	cfg.Defaults.Granularity, _ = core.ParseGranularity(string(cfg.Defaults.Granularity))
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := env(EnvHost); v != "" {
		cfg.Server.Host = v
	}
	if v := env(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPort, err)
		}
		cfg.Server.Port = port
	}
	if v := env(EnvSessionLifetime); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSessionLifetime, err)
		}
		cfg.Server.SessionLifetime = d
	}
	if v := env(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := env(EnvLogFormat); v != "" {
		cfg.Log.Format = v
	}
	if v := env(EnvHourlyWindow); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvHourlyWindow, err)
		}
		cfg.Reporting.HourlyWindow = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.SessionLifetime <= 0 {
		return fmt.Errorf("server.session_lifetime must be positive, got %s", c.Server.SessionLifetime)
	}
	switch c.Log.Format {
	case "pretty", "json", "text":
	default:
		return fmt.Errorf("log.format must be pretty|json|text, got %q", c.Log.Format)
	}
	if c.Reporting.HourlyWindow < 0 || c.Reporting.WeeklyWindow < 0 {
		return errors.New("reporting windows must be >= 0")
	}
	if _, err := core.ParseGranularity(string(c.Defaults.Granularity)); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

func env(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func expandHomeDir(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
