package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
	"github.com/vk/splashload/internal/app"
	"github.com/vk/splashload/internal/display"
)

// EnvPrefix prefixes the environment variables that mirror the flags, e.g.
// SPLASHLOAD_CHILD_DIR or SPLASHLOAD_THEME_BAR.
const EnvPrefix = "SPLASHLOAD"

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// settingKey maps a flag name to its key in settings files, where the theme
// colours live in a nested "theme" table.
func settingKey(flagName string) string {
	if rest, ok := strings.CutPrefix(flagName, "theme-"); ok {
		return "theme." + rest
	}
	return flagName
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
//
// Values come from, in increasing order of precedence: defaults, the
// --config settings file, SPLASHLOAD_* environment variables, and flags
// given on the command line.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("splashload", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
splashload - Loads the components listed in a manifest behind a progress display.

Usage:
  splashload [options] [CHILD_DIR]

Arguments:
  CHILD_DIR
    Directory under the application root holding Loader.json and the
    component sources.

Options:
`)
		flagSet.PrintDefaults()
	}

	def := app.DefaultConfig()
	configFlag := flagSet.String("config", "", "Settings file (YAML, TOML or JSON) providing any of the options below.")
	flagSet.String("child-dir", "", "Directory under the application root holding the manifest.")
	flagSet.String("app-root", "", "Application directory. Defaults to the directory of the executable.")
	flagSet.Bool("manifest-from-resource", false, "Read the manifest from the embedded resources.")
	flagSet.String("manifest", def.ManifestName, "Manifest file name inside the child directory.")
	flagSet.String("extension", def.Extension, "Extension of component source files.")
	flagSet.String("image", "", "Background image shown above the progress bar.")
	flagSet.Int("image-width", 0, "Background image width. Defaults to 512 when an image is set.")
	flagSet.Int("image-height", 0, "Background image height. Defaults to 512 when an image is set.")
	flagSet.String("display", def.Display, "Progress display. Options: 'terminal', 'stream' or 'none'.")
	flagSet.String("theme-text", def.Theme.Text, "Status text colour.")
	flagSet.String("theme-background", def.Theme.Background, "Window background colour.")
	flagSet.String("theme-bar", def.Theme.Bar, "Progress bar colour.")
	flagSet.String("remote-url", "", "socket.io monitor that receives progress events.")
	flagSet.String("remote-namespace", "/", "socket.io namespace of the monitor.")
	flagSet.Duration("startup-delay", def.StartupDelay, "Delay before the first component loads.")
	flagSet.Duration("item-delay", def.ItemDelay, "Delay after each component.")
	flagSet.Duration("settle-delay", def.SettleDelay, "Delay before the display closes.")
	flagSet.Int("healthcheck-port", 0, "Port for the HTTP health check server. 0 is disabled.")
	flagSet.String("log-format", def.LogFormat, "Log output format. Options: 'text' or 'json'.")
	flagSet.String("log-level", def.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	flagSet.VisitAll(func(f *flag.Flag) {
		if f.Name != "config" {
			v.SetDefault(settingKey(f.Name), f.DefValue)
		}
	})

	if *configFlag != "" {
		v.SetConfigFile(*configFlag)
		if err := v.ReadInConfig(); err != nil {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("failed to read settings file %s: %v", *configFlag, err)}
		}
		slog.Debug("Settings file loaded.", "path", v.ConfigFileUsed())
	}

	// Flags given explicitly win over the settings file and the environment.
	flagSet.Visit(func(f *flag.Flag) {
		if f.Name != "config" {
			v.Set(settingKey(f.Name), f.Value.String())
		}
	})
	if flagSet.NArg() > 0 {
		v.Set("child-dir", flagSet.Arg(0))
	}

	childDir := v.GetString("child-dir")
	slog.Debug("Child directory determined.", "child_dir", childDir)
	if childDir == "" {
		slog.Debug("No child directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	theme := display.Theme{
		Text:       v.GetString("theme.text"),
		Background: v.GetString("theme.background"),
		Bar:        v.GetString("theme.bar"),
	}
	config, err := app.NewConfig(app.Config{
		AppRoot:              v.GetString("app-root"),
		ChildDir:             childDir,
		ManifestFromResource: v.GetBool("manifest-from-resource"),
		ManifestName:         v.GetString("manifest"),
		Extension:            v.GetString("extension"),
		ImagePath:            v.GetString("image"),
		ImageWidth:           v.GetInt("image-width"),
		ImageHeight:          v.GetInt("image-height"),
		Display:              v.GetString("display"),
		Theme:                theme,
		RemoteURL:            v.GetString("remote-url"),
		RemoteNamespace:      v.GetString("remote-namespace"),
		StartupDelay:         v.GetDuration("startup-delay"),
		ItemDelay:            v.GetDuration("item-delay"),
		SettleDelay:          v.GetDuration("settle-delay"),
		LogFormat:            v.GetString("log-format"),
		LogLevel:             v.GetString("log-level"),
		HealthcheckPort:      v.GetInt("healthcheck-port"),
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
