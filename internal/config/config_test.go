package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[sandbox]
tick_rate = "10ms"
run_duration = "2s"

[exchange]
bounded = true
capacity = 8

[logging]
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Sandbox.TickRate)
	assert.Equal(t, 2*time.Second, cfg.Sandbox.RunDuration)
	assert.Equal(t, time.Second/60, cfg.Sandbox.RenderRate, "unset keys keep defaults")
	assert.True(t, cfg.Exchange.Bounded)
	assert.Equal(t, 8, cfg.Exchange.Capacity)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NotZero(t, cfg.Sandbox.StartTime)
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"bad toml":      "[sandbox",
		"zero tick":     "[sandbox]\ntick_rate = \"0s\"",
		"bounded empty": "[exchange]\nbounded = true\ncapacity = 0",
		"profile mode":  "[profile]\nmode = \"trace\"",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, defaults().Sandbox.Name, cfg.Sandbox.Name)

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
	t.Setenv(EnvPath, "/etc/antigen.toml")
	assert.Equal(t, "/etc/antigen.toml", Path())
}
