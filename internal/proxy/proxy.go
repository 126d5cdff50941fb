package proxy

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/specialistvlad/nsoverlay/internal/module"
)

// Interceptor is an attribute whose reads are mediated. Writing the attribute
// on the Proxy replaces the interceptor with a plain value; deleting it
// uninstalls the interceptor.
type Interceptor interface {
	// Get returns the attribute value. stacklevel 1 is Get's own frame.
	Get(stacklevel int) any
}

// Proxy wraps a module.Module and layers own attributes on top of it.
type Proxy struct {
	namespace string
	raw       module.Module

	mu           sync.RWMutex
	attrs        map[string]any
	interceptors map[string]Interceptor
}

var _ module.Module = (*Proxy)(nil)

// New creates a Proxy for namespace wrapping raw.
func New(namespace string, raw module.Module) *Proxy {
	if raw == nil {
		panic("proxy: wrapped module must not be nil")
	}
	return &Proxy{
		namespace:    namespace,
		raw:          raw,
		attrs:        make(map[string]any),
		interceptors: make(map[string]Interceptor),
	}
}

// Name returns the wrapped module's name.
func (p *Proxy) Name() string { return p.raw.Name() }

// Namespace returns the namespace the proxy was created for.
func (p *Proxy) Namespace() string { return p.namespace }

// TypeName names the per-namespace proxy kind, e.g. "GLibProxyModule".
func (p *Proxy) TypeName() string { return p.namespace + "ProxyModule" }

// Raw returns the wrapped module.
func (p *Proxy) Raw() module.Module { return p.raw }

// Attr implements module.Module.
func (p *Proxy) Attr(name string) (any, error) {
	return p.lookup(name, 4)
}

// Get resolves name: intercepted attributes first, then own attributes, then
// the wrapped module, whose miss is returned unchanged.
func (p *Proxy) Get(name string) (any, error) {
	return p.lookup(name, 4)
}

// lookup is only called directly from exported accessors so that stacklevel
// lands on their caller.
func (p *Proxy) lookup(name string, stacklevel int) (any, error) {
	p.mu.RLock()
	ic, intercepted := p.interceptors[name]
	v, own := p.attrs[name]
	p.mu.RUnlock()

	if intercepted {
		return ic.Get(stacklevel), nil
	}
	if own {
		return v, nil
	}
	return p.raw.Attr(name)
}

// Own returns an own attribute without consulting interceptors or the
// wrapped module.
func (p *Proxy) Own(name string) (any, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.attrs[name]
	return v, ok
}

// Has reports whether name resolves on either tier.
func (p *Proxy) Has(name string) bool {
	p.mu.RLock()
	_, intercepted := p.interceptors[name]
	_, own := p.attrs[name]
	p.mu.RUnlock()
	if intercepted || own {
		return true
	}
	_, err := p.raw.Attr(name)
	return err == nil
}

// Set stores an own attribute. An interceptor installed under the same name
// is removed first, so later reads return value silently.
func (p *Proxy) Set(name string, value any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.interceptors, name)
	p.attrs[name] = value
}

// Delete removes an interceptor or, failing that, an own attribute. Deleting
// a name that only the wrapped module provides is an error.
func (p *Proxy) Delete(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.interceptors[name]; ok {
		delete(p.interceptors, name)
		return nil
	}
	if _, ok := p.attrs[name]; ok {
		delete(p.attrs, name)
		return nil
	}
	return &module.AttributeError{Module: p.Name(), Name: name}
}

// Intercept installs ic under name, shadowing any own attribute.
func (p *Proxy) Intercept(name string, ic Interceptor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.attrs, name)
	p.interceptors[name] = ic
}

// Intercepted reports whether name is currently intercepted.
func (p *Proxy) Intercepted(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.interceptors[name]
	return ok
}

// Dir returns the sorted union of intercepted names, own attributes and the
// wrapped module's names.
func (p *Proxy) Dir() []string {
	p.mu.RLock()
	names := make([]string, 0, len(p.interceptors)+len(p.attrs))
	for k := range p.interceptors {
		names = append(names, k)
	}
	for k := range p.attrs {
		names = append(names, k)
	}
	p.mu.RUnlock()

	names = append(names, p.raw.Dir()...)
	sort.Strings(names)
	return slices.Compact(names)
}

// String describes the proxy and the module it wraps.
func (p *Proxy) String() string {
	return fmt.Sprintf("<%s %v>", p.TypeName(), p.raw)
}

// Unwrap returns the module behind m when m is a Proxy, or m itself.
func Unwrap(m module.Module) module.Module {
	if p, ok := m.(*Proxy); ok {
		return p.raw
	}
	return m
}
