package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/panyam/caresim/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvConfigPath, EnvHost, EnvPort, EnvLogLevel, EnvLogFormat, EnvHourlyWindow, EnvSessionLifetime} {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "", cfg.Path)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Equal(t, DefaultSessionLifetime, cfg.Server.SessionLifetime)
	assert.Equal(t, 168, cfg.Reporting.HourlyWindow)
	assert.Equal(t, core.DefaultParameters(), cfg.Defaults)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "caresim.yaml", `
server:
  port: 9090
  session_lifetime: 30m
log:
  format: json
reporting:
  hourly_window: 72
  palette: ["#000000", "#ffffff"]
defaults:
  arrival_rate_per_period: 8
  granularity: h
`)
	t.Setenv(EnvPort, "7070")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, DefaultHost, cfg.Server.Host)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionLifetime)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 72, cfg.Reporting.Window().Hourly)
	assert.Equal(t, []string{"#000000", "#ffffff"}, cfg.Reporting.Palette)

	// Keys absent from the file keep their defaults.
	assert.Equal(t, 8.0, cfg.Defaults.ArrivalRatePerPeriod)
	assert.Equal(t, 12.0, cfg.Defaults.BaselineCapacityPerPeriod)
	assert.Equal(t, core.Hourly, cfg.Defaults.Granularity)
}

func TestLoad_PathFromEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "c.yaml", "server:\n  host: 0.0.0.0\n")
	t.Setenv(EnvConfigPath, path)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		env  map[string]string
		want string
	}{
		{name: "bad yaml", file: "server: [", want: "parsing config"},
		{name: "bad port env", env: map[string]string{EnvPort: "http"}, want: EnvPort},
		{name: "port range", file: "server:\n  port: 70000\n", want: "server.port"},
		{name: "bad format", env: map[string]string{EnvLogFormat: "xml"}, want: "log.format"},
		{name: "bad granularity", file: "defaults:\n  granularity: monthly\n", want: "defaults"},
		{name: "bad lifetime", env: map[string]string{EnvSessionLifetime: "forever"}, want: EnvSessionLifetime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeFile(t, "c.yaml", tt.file)
			}
			_, err := Load(path)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config")
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is set, even to "".
	require.NoError(t, os.Unsetenv(EnvHourlyWindow))
	require.NoError(t, LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")))

	path := writeFile(t, ".env", "CARESIM_HOURLY_WINDOW=24\n")
	require.NoError(t, LoadEnvFile(path))
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 24, cfg.Reporting.HourlyWindow)
}
