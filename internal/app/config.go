package app

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/vk/splashload/internal/component"
	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/display"
	"github.com/vk/splashload/internal/errors"
)

// Display modes.
const (
	DisplayTerminal = "terminal"
	DisplayStream   = "stream"
	DisplayNone     = "none"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// AppRoot is the application directory; empty means the directory of
	// the executable.
	AppRoot string
	// ChildDir holds the manifest and the filesystem component sources.
	ChildDir string

	ManifestFromResource bool
	ManifestName         string
	Extension            string

	ImagePath   string
	ImageWidth  int
	ImageHeight int

	Display         string
	Theme           display.Theme
	RemoteURL       string
	RemoteNamespace string

	StartupDelay time.Duration
	ItemDelay    time.Duration
	SettleDelay  time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
}

// DefaultConfig returns the configuration defaults; ChildDir is left empty.
func DefaultConfig() Config {
	return Config{
		ManifestName: config.DefaultManifestName,
		Extension:    component.DefaultExtension,
		Display:      DisplayStream,
		Theme:        display.DefaultTheme(),
		StartupDelay: time.Second,
		ItemDelay:    10 * time.Millisecond,
		SettleDelay:  2 * time.Second,
		LogFormat:    "text",
		LogLevel:     "info",
	}
}

// NewConfig validates cfg and fills in defaults. Invalid values are
// configuration errors.
func NewConfig(cfg Config) (*Config, error) {
	const op = "app.config"

	cfg.ChildDir = strings.TrimSuffix(filepath.ToSlash(cfg.ChildDir), "/")
	if cfg.ChildDir == "" {
		return nil, errors.Configurationf(op, "ChildDir is a required configuration field and cannot be empty")
	}
	if path.IsAbs(cfg.ChildDir) || filepath.IsAbs(cfg.ChildDir) {
		return nil, errors.Configurationf(op, "ChildDir %q must be relative to the application directory", cfg.ChildDir)
	}
	for _, seg := range strings.Split(cfg.ChildDir, "/") {
		if seg == ".." {
			return nil, errors.Configurationf(op, "ChildDir %q must not leave the application directory", cfg.ChildDir)
		}
	}

	if cfg.AppRoot == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, errors.Configuration(op, fmt.Errorf("cannot determine the application directory: %w", err))
		}
		cfg.AppRoot = filepath.Dir(exe)
	}

	if cfg.ManifestName == "" {
		cfg.ManifestName = config.DefaultManifestName
	}
	if strings.ContainsAny(cfg.ManifestName, `/\`) {
		return nil, errors.Configurationf(op, "ManifestName %q must be a file name", cfg.ManifestName)
	}
	if cfg.Extension == "" {
		cfg.Extension = component.DefaultExtension
	}
	if !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}

	if cfg.ImageWidth < 0 || cfg.ImageHeight < 0 {
		return nil, errors.Configurationf(op, "image size %dx%d must not be negative", cfg.ImageWidth, cfg.ImageHeight)
	}

	cfg.Display = strings.ToLower(cfg.Display)
	switch cfg.Display {
	case "":
		cfg.Display = DisplayStream
	case DisplayTerminal, DisplayStream, DisplayNone:
	default:
		return nil, errors.Configurationf(op, "invalid display %q: must be 'terminal', 'stream' or 'none'", cfg.Display)
	}

	cfg.Theme = cfg.Theme.WithDefaults()
	if err := cfg.Theme.Validate(); err != nil {
		return nil, errors.Configuration(op, err)
	}

	for name, d := range map[string]time.Duration{"StartupDelay": cfg.StartupDelay, "ItemDelay": cfg.ItemDelay, "SettleDelay": cfg.SettleDelay} {
		if d < 0 {
			return nil, errors.Configurationf(op, "%s must not be negative, got %s", name, d)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if _, ok := parseLevel(cfg.LogLevel); !ok {
		return nil, errors.Configurationf(op, "invalid log level %q: must be 'debug', 'info', 'warn' or 'error'", cfg.LogLevel)
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	switch cfg.LogFormat {
	case "":
		cfg.LogFormat = "text"
	case "text", "json":
	default:
		return nil, errors.Configurationf(op, "invalid log format %q: must be 'text' or 'json'", cfg.LogFormat)
	}

	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.Configurationf(op, "invalid healthcheck port %d", cfg.HealthcheckPort)
	}

	return &cfg, nil
}

// Image returns the configured background image.
func (c *Config) Image() display.Image {
	p := c.ImagePath
	if p != "" && !filepath.IsAbs(p) {
		p = filepath.Join(c.AppRoot, p)
	}
	return display.Image{Path: p, Width: c.ImageWidth, Height: c.ImageHeight}
}
