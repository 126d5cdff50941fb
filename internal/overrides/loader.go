package overrides

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/proxy"
	"github.com/specialistvlad/nsoverlay/internal/warning"
	"golang.org/x/sync/singleflight"
)

// DefaultPrefixes are the import spellings a namespace is registered under.
// The last one is primary.
var DefaultPrefixes = []string{"gi.repository", "nsoverlay.repository"}

// Config holds the Loader's settings.
type Config struct {
	// Prefixes lists every alias prefix; defaults to DefaultPrefixes.
	Prefixes []string
	// Emitter receives deprecation warnings. Nil drops them.
	Emitter *warning.Emitter
	// Logger is used outside of Bind; defaults to slog.Default().
	Logger *slog.Logger
	// Source supplies raw modules of namespaces that are not bound yet.
	// Optional.
	Source Source
}

// Source looks up raw introspected modules by namespace.
type Source interface {
	Lookup(namespace string) (module.Module, bool)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(namespace string) (module.Module, bool)

// Lookup implements Source.
func (f SourceFunc) Lookup(namespace string) (module.Module, bool) { return f(namespace) }

type deprecation struct {
	attr        string
	replacement string
}

// Loader binds override units onto namespaces and owns the module alias
// registry and the deprecation registry.
type Loader struct {
	prefixes []string
	finder   Finder
	source   Source
	emitter  *warning.Emitter
	logger   *slog.Logger
	group    singleflight.Group

	mu         sync.Mutex
	modules    map[string]module.Module
	raws       map[string]module.Module
	bound      map[string]module.Module
	deprecated map[string][]deprecation
}

// New creates a Loader that locates units with finder.
func New(cfg Config, finder Finder) *Loader {
	prefixes := cfg.Prefixes
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if finder == nil {
		finder = NewCatalog()
	}
	return &Loader{
		prefixes:   append([]string(nil), prefixes...),
		finder:     finder,
		source:     cfg.Source,
		emitter:    cfg.Emitter,
		logger:     logger,
		modules:    make(map[string]module.Module),
		raws:       make(map[string]module.Module),
		bound:      make(map[string]module.Module),
		deprecated: make(map[string][]deprecation),
	}
}

// Prefixes returns the alias prefixes.
func (l *Loader) Prefixes() []string {
	return append([]string(nil), l.prefixes...)
}

// Emitter returns the warning emitter used for deprecations.
func (l *Loader) Emitter() *warning.Emitter { return l.emitter }

// Bind returns the effective module for namespace: a proxy carrying the
// namespace's overrides, or raw itself when no override unit exists.
// Concurrent binds of one namespace share a single evaluation. Binding a
// namespace again with the same raw module returns the earlier result.
func (l *Loader) Bind(ctx context.Context, namespace string, raw module.Module) (module.Module, error) {
	v, err, shared := l.group.Do(namespace, func() (any, error) {
		return l.bind(ctx, namespace, raw)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		// Joined an in-flight bind that may have been given another module.
		l.mu.Lock()
		same := l.raws[namespace] == raw
		l.mu.Unlock()
		if !same {
			return nil, fmt.Errorf("%w: '%s'", ErrAlreadyBound, namespace)
		}
	}
	return v.(module.Module), nil
}

func (l *Loader) bind(ctx context.Context, namespace string, raw module.Module) (_ module.Module, err error) {
	logger := ctxlog.FromContext(ctx).With("namespace", namespace)

	l.mu.Lock()
	if prev, ok := l.bound[namespace]; ok {
		same := l.raws[namespace] == raw
		l.mu.Unlock()
		if same {
			logger.Debug("Namespace already bound, reusing effective module.")
			return prev, nil
		}
		return nil, fmt.Errorf("%w: '%s'", ErrAlreadyBound, namespace)
	}
	p := proxy.New(namespace, raw)
	l.register(namespace, p)
	l.mu.Unlock()
	logger.Debug("Proxy registered.", "type", p.TypeName(), "prefixes", l.prefixes)

	defer func() {
		if err != nil {
			// The proxy stays registered under its aliases; only the pending
			// deprecations of the failed unit are discarded.
			l.drain(namespace)
		}
	}()

	unit, err := l.finder.Find(ctx, namespace)
	if isNoOverride(err) {
		l.mu.Lock()
		l.register(namespace, raw)
		l.bound[namespace] = raw
		l.raws[namespace] = raw
		l.mu.Unlock()
		l.drain(namespace)
		logger.Debug("No override unit, using raw module.")
		return raw, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locating override unit for '%s': %w", namespace, err)
	}

	exports, err := unit.Evaluate(ctx, l)
	if err != nil {
		return nil, &EvaluationError{Namespace: namespace, Err: err}
	}
	if exports == nil {
		exports = NewExports()
	}

	for _, name := range exports.All {
		value, ok := exports.Lookup(name)
		if !ok {
			return nil, &ConsistencyError{Namespace: namespace, Name: name, Reason: "is exported but not defined"}
		}
		if o, ok := value.(module.Origin); ok && module.Namespace(o.Origin()) == namespace {
			o.SetOrigin(namespace)
		}
		p.Set(name, value)
	}

	pending := l.drain(namespace)
	for _, d := range pending {
		value, ok := p.Own(d.attr)
		if !ok {
			return nil, &ConsistencyError{Namespace: namespace, Name: d.attr, Reason: "was set deprecated but is not exported"}
		}
		p.Intercept(d.attr, proxy.NewDeprecated(namespace, d.attr, value, d.replacement, l.emitter))
	}

	l.mu.Lock()
	l.bound[namespace] = p
	l.raws[namespace] = raw
	l.mu.Unlock()

	logger.Info("Override unit bound.", "exports", len(exports.All), "deprecated", len(pending))
	return p, nil
}

// register points every alias of namespace at m. Callers hold l.mu.
func (l *Loader) register(namespace string, m module.Module) {
	for _, prefix := range l.prefixes {
		l.modules[prefix+"."+namespace] = m
	}
}

func (l *Loader) drain(namespace string) []deprecation {
	l.mu.Lock()
	defer l.mu.Unlock()
	pending := l.deprecated[namespace]
	delete(l.deprecated, namespace)
	return pending
}

// Module returns the module registered under a full alias key such as
// "gi.repository.GLib".
func (l *Loader) Module(key string) (module.Module, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.modules[key]
	return m, ok
}

// Resolve returns the module registered for namespace under the primary
// prefix.
func (l *Loader) Resolve(namespace string) (module.Module, error) {
	m, ok := l.Module(l.primaryKey(namespace))
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrUnknownNamespace, namespace)
	}
	return m, nil
}

// FetchRaw returns the unwrapped module of namespace, bypassing its proxy.
// Namespaces that are not registered yet are looked up in the Source.
func (l *Loader) FetchRaw(namespace string) (module.Module, error) {
	m, err := l.Resolve(namespace)
	if err == nil {
		return proxy.Unwrap(m), nil
	}
	if l.source != nil {
		if raw, ok := l.source.Lookup(namespace); ok {
			return raw, nil
		}
	}
	return nil, err
}

// Namespaces lists namespaces whose bind completed, sorted.
func (l *Loader) Namespaces() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.bound))
	for ns := range l.bound {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

func (l *Loader) primaryKey(namespace string) string {
	return l.prefixes[len(l.prefixes)-1] + "." + namespace
}

func isNoOverride(err error) bool {
	return err != nil && errors.Is(err, ErrNoOverride)
}
