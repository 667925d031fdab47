package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/display"
	"github.com/vk/splashload/internal/errors"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.AppRoot = "/opt/demo"
	cfg.ChildDir = "app"
	return cfg
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig(Config{ChildDir: "app/", AppRoot: "/opt/demo", Extension: "js"})

	require.NoError(t, err)
	assert.Equal(t, "app", cfg.ChildDir)
	assert.Equal(t, "Loader.json", cfg.ManifestName)
	assert.Equal(t, ".js", cfg.Extension)
	assert.Equal(t, DisplayStream, cfg.Display)
	assert.Equal(t, display.DefaultTheme(), cfg.Theme)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestNewConfig_AppRootDefaultsToExecutableDir(t *testing.T) {
	cfg, err := NewConfig(Config{ChildDir: "app"})

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.AppRoot)
}

func TestNewConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty child dir", func(c *Config) { c.ChildDir = "" }, "ChildDir is a required"},
		{"absolute child dir", func(c *Config) { c.ChildDir = "/etc" }, "must be relative"},
		{"escaping child dir", func(c *Config) { c.ChildDir = "app/../.." }, "must not leave"},
		{"manifest name with dir", func(c *Config) { c.ManifestName = "x/Loader.json" }, "must be a file name"},
		{"negative image", func(c *Config) { c.ImageWidth = -1 }, "must not be negative"},
		{"unknown display", func(c *Config) { c.Display = "window" }, "invalid display"},
		{"bad theme", func(c *Config) { c.Theme.Bar = "blue" }, "#rrggbb"},
		{"negative delay", func(c *Config) { c.ItemDelay = -time.Second }, "ItemDelay"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "invalid log level"},
		{"bad log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"bad port", func(c *Config) { c.HealthcheckPort = 70000 }, "invalid healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)

			_, err := NewConfig(cfg)

			require.ErrorIs(t, err, errors.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestConfig_Image(t *testing.T) {
	cfg, err := NewConfig(Config{ChildDir: "app", AppRoot: "/opt/demo", ImagePath: "splash.txt"})
	require.NoError(t, err)

	img := cfg.Image()

	assert.Equal(t, "/opt/demo/splash.txt", img.Path)
	assert.Equal(t, display.Geometry{ImageWidth: 512, ImageHeight: 512, Width: 512}, display.NewGeometry(img))
}
