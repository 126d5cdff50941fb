package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
	"github.com/specialistvlad/nsoverlay/internal/hclunit"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/specialistvlad/nsoverlay/internal/proxy"
	"github.com/specialistvlad/nsoverlay/internal/repository"
	"github.com/specialistvlad/nsoverlay/internal/scriptunit"
	"github.com/specialistvlad/nsoverlay/internal/warning"
	"golang.org/x/sync/errgroup"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	catalog *overrides.Catalog
	loader  *overrides.Loader
	repo    *repository.Repository
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, warning emitter and
// loader. Compiled units come from providers, or the core modules if none
// are given.
func NewApp(outW io.Writer, cfg *Config, providers ...overrides.Provider) *App {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	repo, err := repository.Load(ctx, cfg.RepositoryPath)
	if err != nil {
		// A missing or malformed repository is a fatal startup error.
		panic(fmt.Errorf("failed to load namespace repository: %w", err))
	}
	logger.Debug("Namespace repository loaded.", "namespaces", repo.Namespaces())

	if len(providers) == 0 {
		providers = coreModules
	}
	catalog := overrides.NewCatalog(providers...)
	logger.Debug("All compiled override units registered.", "namespaces", catalog.Namespaces())

	finders := []overrides.Finder{catalog}
	if cfg.OverridesPath != "" {
		finders = append(finders,
			hclunit.NewFinder(cfg.OverridesPath),
			scriptunit.NewFinder(cfg.OverridesPath),
		)
	}

	loader := overrides.New(overrides.Config{
		Prefixes: cfg.Prefixes,
		Emitter:  warning.NewEmitter(warning.LogSink(logger)),
		Logger:   logger,
		Source:   repo,
	}, overrides.FirstFound(finders...))

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: catalog,
		loader:  loader,
		repo:    repo,
	}
}

// Loader returns the application's loader. This is primarily for testing.
func (a *App) Loader() *overrides.Loader {
	return a.loader
}

// Load binds every namespace in the repository. Namespaces are bound
// concurrently; the first failure is returned.
func (a *App) Load(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	for _, ns := range a.repo.Namespaces() {
		raw, _ := a.repo.Namespace(ns)
		g.Go(func() error {
			_, err := a.loader.Bind(ctx, ns, raw)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to bind namespaces: %w", err)
	}

	a.logger.Info("Namespaces bound.", "count", len(a.repo.Namespaces()), "overridden", a.overridden())
	return nil
}

func (a *App) overridden() []string {
	var names []string
	for _, ns := range a.loader.Namespaces() {
		if m, err := a.loader.Resolve(ns); err == nil {
			if _, ok := m.(*proxy.Proxy); ok {
				names = append(names, ns)
			}
		}
	}
	return names
}

// Module returns the effective module of a bound namespace.
func (a *App) Module(namespace string) (module.Module, error) {
	return a.loader.Resolve(namespace)
}

// Describe returns the module's description, e.g.
// "<GLibProxyModule <module 'GLib'>>".
func (a *App) Describe(namespace string) (string, error) {
	m, err := a.Module(namespace)
	if err != nil {
		return "", err
	}
	if s, ok := m.(fmt.Stringer); ok {
		return s.String(), nil
	}
	return fmt.Sprintf("<module '%s'>", m.Name()), nil
}

// Dir lists the attribute names visible on the effective module.
func (a *App) Dir(namespace string) ([]string, error) {
	m, err := a.Module(namespace)
	if err != nil {
		return nil, err
	}
	return m.Dir(), nil
}

// Get reads an attribute of the effective module.
func (a *App) Get(namespace, attr string) (any, error) {
	m, err := a.Module(namespace)
	if err != nil {
		return nil, err
	}
	return m.Attr(attr)
}
