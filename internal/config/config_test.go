package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"), env(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Precedence(t *testing.T) {
	path := writeFile(t, `
animate = false
animation = "fade"
animation_ms = 100
metrics_addr = ":9000"
`)

	cfg, err := Load(path, env(nil))
	require.NoError(t, err)
	assert.False(t, cfg.Animate)
	assert.Equal(t, "fade", cfg.Animation)
	assert.Equal(t, 100, cfg.AnimationMS)
	assert.Equal(t, ":9000", cfg.MetricsAddr)
	assert.Equal(t, "info", cfg.LogLevel, "unset keys keep their defaults")

	cfg, err = Load(path, env(map[string]string{
		EnvAnimate:     "true",
		EnvAnimationMS: " 40 ",
		EnvLogLevel:    "debug",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Animate)
	assert.Equal(t, "fade", cfg.Animation)
	assert.Equal(t, 40, cfg.AnimationMS)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, ":9000", cfg.MetricsAddr)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(writeFile(t, "animation_ms = \"soon\"\n"), env(nil))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "animate = \n"), env(nil))
	assert.Error(t, err)

	_, err = Load("", env(map[string]string{EnvAnimate: "sometimes"}))
	assert.ErrorContains(t, err, EnvAnimate)

	_, err = Load("", env(map[string]string{EnvAnimationMS: "1s"}))
	assert.ErrorContains(t, err, EnvAnimationMS)
}

func TestLoad_ExpandsLogFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load("", env(map[string]string{EnvLogFile: "~/listsync.log"}))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "listsync.log"), cfg.LogFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"none animation", func(c *Config) { c.Animation = "none" }, true},
		{"unknown animation", func(c *Config) { c.Animation = "spin" }, false},
		{"negative duration", func(c *Config) { c.AnimationMS = -1 }, false},
		{"unknown level", func(c *Config) { c.LogLevel = "trace" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "a", "b"), ExpandPath("~/a/b"))
	assert.Equal(t, "/abs/path", ExpandPath("/abs/path"))
	assert.Equal(t, "rel", ExpandPath("rel"))
	assert.Equal(t, "~user/x", ExpandPath("~user/x"))
	assert.Equal(t, "", ExpandPath(""))
}
