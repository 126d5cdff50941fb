package overrides

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Exports is what an evaluated unit contributes: the ordered export list and
// the values it names.
type Exports struct {
	All    []string
	Values map[string]any
}

// NewExports creates an empty Exports.
func NewExports() *Exports {
	return &Exports{Values: make(map[string]any)}
}

// Add appends name to the export list and records its value.
func (e *Exports) Add(name string, value any) *Exports {
	e.All = append(e.All, name)
	e.Values[name] = value
	return e
}

// Lookup returns the value for name. Nil values count as missing.
func (e *Exports) Lookup(name string) (any, bool) {
	v, ok := e.Values[name]
	return v, ok && v != nil
}

// Unit is the override unit of one namespace.
type Unit interface {
	Namespace() string
	// Evaluate runs the unit. It may call back into the loader, e.g. to
	// register deprecated attributes or publish overrides.
	Evaluate(ctx context.Context, l *Loader) (*Exports, error)
}

type funcUnit struct {
	namespace string
	fn        func(ctx context.Context, l *Loader) (*Exports, error)
}

func (u *funcUnit) Namespace() string { return u.namespace }

func (u *funcUnit) Evaluate(ctx context.Context, l *Loader) (*Exports, error) {
	return u.fn(ctx, l)
}

// NewUnit builds a Unit from a function.
func NewUnit(namespace string, fn func(ctx context.Context, l *Loader) (*Exports, error)) Unit {
	return &funcUnit{namespace: namespace, fn: fn}
}

// Finder locates the unit for a namespace. It returns an error wrapping
// ErrNoOverride when none exists; any other error is fatal to the bind.
type Finder interface {
	Find(ctx context.Context, namespace string) (Unit, error)
}

// FinderFunc adapts a function to Finder.
type FinderFunc func(ctx context.Context, namespace string) (Unit, error)

// Find implements Finder.
func (f FinderFunc) Find(ctx context.Context, namespace string) (Unit, error) {
	return f(ctx, namespace)
}

// Provider is implemented by packages that contribute compiled units.
type Provider interface {
	Register(c *Catalog)
}

// Catalog holds compiled override units keyed by namespace.
type Catalog struct {
	mu    sync.RWMutex
	units map[string]Unit
}

// NewCatalog creates a Catalog populated by the given providers.
func NewCatalog(providers ...Provider) *Catalog {
	c := &Catalog{units: make(map[string]Unit)}
	for _, p := range providers {
		p.Register(c)
	}
	return c
}

// Register adds a unit. Registering two units for one namespace is a
// programming error.
func (c *Catalog) Register(u Unit) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ns := u.Namespace()
	if _, exists := c.units[ns]; exists {
		panic(fmt.Sprintf("override unit for namespace '%s' already registered", ns))
	}
	slog.Debug("Registering override unit.", "namespace", ns)
	c.units[ns] = u
}

// Find implements Finder.
func (c *Catalog) Find(_ context.Context, namespace string) (Unit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	u, ok := c.units[namespace]
	if !ok {
		return nil, fmt.Errorf("%w: catalog has no unit for '%s'", ErrNoOverride, namespace)
	}
	return u, nil
}

// Namespaces lists the namespaces with a registered unit, sorted.
func (c *Catalog) Namespaces() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.units))
	for ns := range c.units {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// FirstFound returns a Finder that asks each finder in turn and yields the
// first unit found. Units are never combined.
func FirstFound(finders ...Finder) Finder {
	return FinderFunc(func(ctx context.Context, namespace string) (Unit, error) {
		for _, f := range finders {
			u, err := f.Find(ctx, namespace)
			if err == nil {
				return u, nil
			}
			if !isNoOverride(err) {
				return nil, err
			}
		}
		return nil, fmt.Errorf("%w: '%s'", ErrNoOverride, namespace)
	})
}
