package app

import (
	"context"

	"github.com/spf13/afero"
	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/display"
	"github.com/vk/splashload/internal/loader"
)

// Run loads the manifest and every component it lists while the displays
// show progress. It returns once the loader has finished.
func (a *App) Run(ctx context.Context) (*loader.Report, error) {
	ctx, logger := ctxlog.With(ctxlog.WithLogger(ctx, a.logger), "session", a.session.String())
	a.ctx = ctx
	logger.Debug("App.Run method started.")

	if err := a.healthCheckServer(); err != nil {
		return nil, err
	}
	defer a.closeHealthCheckServer()

	m, err := a.loadManifest(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Manifest loaded.", "origin", m.Origin, "components", m.Len())

	disp := a.buildDisplay(ctx)
	ctl, err := loader.New(m, loader.Options{
		Extension:    a.config.Extension,
		StartupDelay: a.config.StartupDelay,
		ItemDelay:    a.config.ItemDelay,
		SettleDelay:  a.config.SettleDelay,
		Session:      a.session,
	}, loader.Deps{
		Display:   disp,
		Registry:  a.registry,
		Store:     a.store,
		Files:     a.files,
		Resources: a.resources,
	})
	if err != nil {
		return nil, err
	}
	a.progress.bindState(func() string { return ctl.State().String() })
	ctl.OnCompleted(func(r *loader.Report) {
		logger.Info("🏁 Components loaded.", "items", len(r.Items), "problems", len(r.Problems), "duration", r.Duration())
	})

	logger.Info("🚀 Starting component loader...")
	report, err := ctl.Run(ctx)
	if err != nil {
		return report, err
	}

	logger.Info("Components published:", "count", len(a.store.Keys()), "keys", a.store.Keys())
	logger.Debug("App.Run method finished.")
	return report, nil
}

func (a *App) loadManifest(ctx context.Context) (*config.Manifest, error) {
	ns := a.root
	if a.config.ManifestFromResource {
		ns = a.resources
	}
	return a.manifests.Load(ctx, config.Source{
		Namespace: ns,
		Dir:       a.config.ChildDir,
		Name:      a.config.ManifestName,
	})
}

// buildDisplay fans progress out to the health snapshot, the configured
// local display, the remote monitor and any extra displays.
func (a *App) buildDisplay(ctx context.Context) display.Display {
	logger := ctxlog.FromContext(ctx)
	displays := []display.Display{a.progress}

	geom := display.NewGeometry(a.config.Image())
	switch a.config.Display {
	case DisplayTerminal:
		screen, err := display.NewTerminalScreen()
		if err != nil {
			logger.Warn("Terminal unavailable, falling back to stream display.", "error", err)
			displays = append(displays, display.NewStream(a.outW, a.config.Theme, geom.Columns()))
			break
		}
		displays = append(displays, display.NewTerminal(screen, geom, a.config.Theme, a.loadBanner(ctx)))
	case DisplayStream:
		displays = append(displays, display.NewStream(a.outW, a.config.Theme, geom.Columns()))
	}

	if a.config.RemoteURL != "" {
		remote, err := display.DialRemote(ctx, display.RemoteOptions{
			URL:       a.config.RemoteURL,
			Namespace: a.config.RemoteNamespace,
			Session:   a.session.String(),
		})
		if err != nil {
			logger.Warn("Remote monitor unavailable, continuing without it.", "error", err)
		} else {
			displays = append(displays, remote)
		}
	}

	return display.Multi(append(displays, a.extra...)...)
}

// loadBanner reads the background image; a missing image only loses the
// banner.
func (a *App) loadBanner(ctx context.Context) []string {
	img := a.config.Image()
	if img.Path == "" {
		return nil
	}
	lines, err := display.LoadBanner(afero.NewOsFs(), img.Path)
	if err != nil {
		ctxlog.FromContext(ctx).Warn("Background image unavailable.", "path", img.Path, "error", err)
		return nil
	}
	return lines
}
