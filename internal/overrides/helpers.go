package overrides

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/proxy"
	"github.com/specialistvlad/nsoverlay/internal/warning"
)

// RegisterDeprecatedAttribute marks namespace.attr as deprecated. The
// attribute must be exported by the namespace's unit; when the namespace is
// bound, reads of it warn with replacement as the suggested alternative.
func (l *Loader) RegisterDeprecatedAttribute(namespace, attr, replacement string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.deprecated[namespace] = append(l.deprecated[namespace], deprecation{attr: attr, replacement: replacement})
	l.logger.Debug("Registering deprecated attribute.", "namespace", namespace, "attr", attr)
}

// OverrideFunc returns a decorator that publishes its argument into the
// proxy of orig's namespace under orig's name. The namespace is the last
// dotted segment of orig's origin.
func (l *Loader) OverrideFunc(orig *module.Func) func(replacement any) (any, error) {
	return func(replacement any) (any, error) {
		p, err := l.loadingProxy(orig.Module)
		if err != nil {
			return nil, err
		}
		p.Set(orig.Name, replacement)
		return replacement, nil
	}
}

// OverrideClass renames c after the class it derives from, takes over that
// class's origin, and publishes c into the proxy of the namespace c was
// defined in.
func (l *Loader) OverrideClass(c *module.Class) (*module.Class, error) {
	if c.Base == nil {
		return nil, fmt.Errorf("override class %s has no base class", c.Name)
	}
	p, err := l.loadingProxy(c.Module)
	if err != nil {
		return nil, err
	}
	c.Name = c.Base.Name
	c.Module = c.Base.Module
	p.Set(c.Name, c)
	return c, nil
}

func (l *Loader) loadingProxy(origin string) (*proxy.Proxy, error) {
	namespace := module.Namespace(origin)
	m, err := l.Resolve(namespace)
	if err != nil {
		return nil, err
	}
	p, ok := m.(*proxy.Proxy)
	if !ok {
		return nil, fmt.Errorf("%w: '%s'", ErrNotProxied, namespace)
	}
	return p, nil
}

// DeprecatedFunc wraps fn so every call warns that instead should be used.
// Any non-nil function and *module.Func are wrapped, keeping their type;
// anything else, classes included, is returned unchanged.
func (l *Loader) DeprecatedFunc(fn any, instead string) any {
	msg := fmt.Sprintf("Deprecated, use %s instead", instead)
	e := l.emitter

	switch f := fn.(type) {
	case func(args ...any) any:
		return func(args ...any) any {
			e.Warn(warning.Deprecation, msg, 2)
			return f(args...)
		}
	case func(args ...any) (any, error):
		return func(args ...any) (any, error) {
			e.Warn(warning.Deprecation, msg, 2)
			return f(args...)
		}
	case *module.Func:
		return &module.Func{
			Name:   f.Name,
			Module: f.Module,
			Fn: func(args ...any) (any, error) {
				// Skip Func.Call as well.
				e.Warn(warning.Deprecation, msg, 3)
				return f.Call(args...)
			},
		}
	default:
		v := reflect.ValueOf(fn)
		if v.Kind() != reflect.Func || v.IsNil() {
			return fn
		}
		return reflect.MakeFunc(v.Type(), func(args []reflect.Value) []reflect.Value {
			e.Warn(warning.Deprecation, msg, reflectCaller())
			if v.Type().IsVariadic() {
				return v.CallSlice(args)
			}
			return v.Call(args)
		}).Interface()
	}
}

// reflectCaller returns the Warn stack level of the first caller outside
// package reflect, for use inside a reflect.MakeFunc implementation.
func reflectCaller() int {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for level := 1; ; level++ {
		f, more := frames.Next()
		if level > 1 && !strings.HasPrefix(f.Function, "reflect.") {
			return level
		}
		if !more {
			return 2
		}
	}
}
