package app_test

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/splashload/internal/app"
	"github.com/vk/splashload/internal/loader"
	"github.com/vk/splashload/internal/registry"
	"github.com/vk/splashload/internal/testutil"
)

// HarnessResult holds the outcomes of an application run.
type HarnessResult struct {
	LogOutput string
	Report    *loader.Report
	Err       error
	App       *app.App
	Display   *testutil.RecordingDisplay
}

// HarnessOptions tweak RunApp.
type HarnessOptions struct {
	// Config overrides the test defaults when its ChildDir is set.
	Config    app.Config
	Resources fs.FS
	Modules   []registry.Module
}

// RunApp runs the application against files held in memory under the test
// application root,
// with no pacing delays and only a recording display. Set
// SPLASHLOAD_TEST_LOGS=true to print the captured log.
func RunApp(ctx context.Context, t *testing.T, files map[string]string, opts HarnessOptions) *HarnessResult {
	t.Helper()

	cfg := opts.Config
	if cfg.ChildDir == "" {
		cfg = app.DefaultConfig()
		cfg.ChildDir = "app"
		cfg.StartupDelay, cfg.ItemDelay, cfg.SettleDelay = 0, 0, 0
	}
	cfg.AppRoot = testutil.AppRoot
	cfg.Display = app.DisplayNone
	cfg.LogLevel = "debug"

	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	rec := &testutil.RecordingDisplay{}
	testApp := app.NewApp(logBuffer, appConfig, opts.Resources, opts.Modules,
		app.WithRoot(testutil.MemRoot(t, files)),
		app.WithDisplay(rec),
	)
	t.Cleanup(func() { _ = testApp.Close() })

	report, runErr := testApp.Run(ctx)

	if os.Getenv("SPLASHLOAD_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
	}

	return &HarnessResult{
		LogOutput: logBuffer.String(),
		Report:    report,
		Err:       runErr,
		App:       testApp,
		Display:   rec,
	}
}
