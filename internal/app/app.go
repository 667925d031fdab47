package app

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/vk/splashload/internal/config"
	"github.com/vk/splashload/internal/ctxlog"
	"github.com/vk/splashload/internal/display"
	"github.com/vk/splashload/internal/fsutil"
	"github.com/vk/splashload/internal/inmemorystore"
	"github.com/vk/splashload/internal/manifest"
	"github.com/vk/splashload/internal/registry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx    context.Context
	outW   io.Writer
	logger *slog.Logger
	config *Config

	registry  *registry.Registry
	store     *inmemorystore.Store
	manifests config.Loader

	root      *fsutil.Namespace // application directory
	files     *fsutil.Namespace // root scoped to the child directory
	resources *fsutil.Namespace

	session    uuid.UUID
	progress   *progressSink
	extra      []display.Display
	httpServer *http.Server
}

// Option customises an App.
type Option func(*App)

// WithDisplay adds a display that receives every progress update next to the
// configured ones.
func WithDisplay(d display.Display) Option {
	return func(a *App) { a.extra = append(a.extra, d) }
}

// WithManifestLoader replaces the manifest loader.
func WithManifestLoader(l config.Loader) Option {
	return func(a *App) { a.manifests = l }
}

// WithRoot replaces the application directory namespace, e.g. with an
// in-memory filesystem.
func WithRoot(ns *fsutil.Namespace) Option {
	return func(a *App) { a.root = ns }
}

// NewApp is the constructor for the main application. resources is the
// embedded resource archive and may be nil. modules defaults to the
// compiled-in component modules.
func NewApp(outW io.Writer, cfg *Config, resources fs.FS, modules []registry.Module, opts ...Option) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	if len(modules) == 0 {
		modules = coreModules
	}
	reg := registry.New(modules...)
	logger.Debug("All Go modules registered.", "count", len(modules), "classes", reg.Classes())

	a := &App{
		ctx:       ctxlog.WithLogger(context.Background(), logger),
		outW:      outW,
		logger:    logger,
		config:    cfg,
		registry:  reg,
		store:     inmemorystore.New(),
		manifests: manifest.NewLoader(),
		session:   uuid.New(),
	}
	if resources != nil {
		a.resources = fsutil.FromFS(resources)
	} else {
		a.resources = fsutil.New(fsutil.ResourceName, fsutil.ResourceScheme, afero.NewReadOnlyFs(afero.NewMemMapFs()))
	}
	a.progress = newProgressSink(a.session.String())

	for _, opt := range opts {
		opt(a)
	}
	if a.root == nil {
		a.root = fsutil.NewOS(cfg.AppRoot)
	}
	a.files = a.root.Sub(cfg.ChildDir)

	return a
}

// Registry returns the application's component catalog.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Store returns the instance store components are published into.
func (a *App) Store() *inmemorystore.Store {
	return a.store
}

// Session returns the ID of the loading session.
func (a *App) Session() uuid.UUID {
	return a.session
}

// Close releases the published components.
func (a *App) Close() error {
	a.logger.Debug("Closing published components.", "count", len(a.store.Keys()))
	return a.store.Close()
}
