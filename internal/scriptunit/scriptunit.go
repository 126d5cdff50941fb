// Package scriptunit provides override units written as Go source and run
// by the yaegi interpreter. The unit for namespace N lives at <root>/N.go,
// declares an export list in a package-level `var All = []string{...}`, and
// may import "nsoverlay/api" to call back into the loader:
//
//	package glib
//
//	import "nsoverlay/api"
//
//	var All = []string{"PRIORITY_DEFAULT", "TimeoutAddSeconds"}
//
//	var PRIORITY_DEFAULT = 0
//
//	var Deprecated = map[string]string{"PRIORITY_DEFAULT": "GLib.Priority.DEFAULT"}
//
//	func TimeoutAddSeconds(args ...interface{}) (interface{}, error) {
//		return api.Raw("GLib", "timeout_add_seconds")
//	}
//
// The optional Deprecated map is registered the same way as calls to
// api.Deprecate.
// Exported functions with the signature func(...interface{}) (interface{}, error)
// are published as module.Func values.
package scriptunit

import (
	"context"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"reflect"
	"sort"

	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
	"github.com/specialistvlad/nsoverlay/internal/fsutil"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

const (
	// Extension is the file extension of script units.
	Extension = ".go"
	// APIPath is the import path of the loader callbacks inside scripts.
	APIPath = "nsoverlay/api"
	// ExportList is the package-level variable naming exported symbols.
	ExportList = "All"
	// DeprecationList is the optional map of deprecated attribute names to
	// their replacements.
	DeprecationList = "Deprecated"
)

// Finder locates script units under a root directory.
type Finder struct {
	root string
}

// NewFinder creates a Finder for root.
func NewFinder(root string) *Finder {
	return &Finder{root: root}
}

// Find implements overrides.Finder.
func (f *Finder) Find(ctx context.Context, namespace string) (overrides.Unit, error) {
	path, err := fsutil.LocateUnit(f.root, namespace, Extension)
	if errors.Is(err, fsutil.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", overrides.ErrNoOverride, err)
	}
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("Found script override unit.", "namespace", namespace, "path", path)
	return &Unit{namespace: namespace, path: path}, nil
}

// Unit is a script override unit.
type Unit struct {
	namespace string
	path      string
}

// Namespace implements overrides.Unit.
func (u *Unit) Namespace() string { return u.namespace }

// Evaluate implements overrides.Unit. Read, parse, and interpreter errors are
// evaluation failures.
func (u *Unit) Evaluate(ctx context.Context, l *overrides.Loader) (*overrides.Exports, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating script override unit.", "namespace", u.namespace, "path", u.path)

	src, err := os.ReadFile(u.path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", u.path, err)
	}
	f, err := parser.ParseFile(token.NewFileSet(), u.path, src, parser.PackageClauseOnly)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", u.path, err)
	}
	pkg := f.Name.Name

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("failed to load stdlib: %w", err)
	}
	if err := i.Use(u.symbols(l)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", APIPath, err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("evaluating %s: %w", u.path, err)
	}

	allV, err := i.Eval(pkg + "." + ExportList)
	if err != nil {
		return nil, fmt.Errorf("%s does not declare %s: %w", u.path, ExportList, err)
	}
	all, ok := allV.Interface().([]string)
	if !ok {
		return nil, fmt.Errorf("%s.%s is %s, want []string", pkg, ExportList, allV.Type())
	}

	if depV, err := i.Eval(pkg + "." + DeprecationList); err == nil {
		deps, ok := depV.Interface().(map[string]string)
		if !ok {
			return nil, fmt.Errorf("%s.%s is %s, want map[string]string", pkg, DeprecationList, depV.Type())
		}
		attrs := make([]string, 0, len(deps))
		for attr := range deps {
			attrs = append(attrs, attr)
		}
		sort.Strings(attrs)
		for _, attr := range attrs {
			l.RegisterDeprecatedAttribute(u.namespace, attr, deps[attr])
		}
	}

	values := make(map[string]any, len(all))
	for _, name := range all {
		v, err := i.Eval(pkg + "." + name)
		if err != nil {
			// Left undefined; the loader reports the export as inconsistent.
			logger.Debug("Exported name not defined by script.", "namespace", u.namespace, "name", name, "error", err)
			continue
		}
		values[name] = u.publish(name, v)
	}

	logger.Debug("Script override unit evaluated.", "namespace", u.namespace, "exports", len(all))
	return &overrides.Exports{All: all, Values: values}, nil
}

// publish turns script functions of the module calling convention into
// module.Func values originating from this unit.
func (u *Unit) publish(name string, v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	if fn, ok := v.Interface().(func(...interface{}) (interface{}, error)); ok {
		return &module.Func{Name: name, Module: "overrides." + u.namespace, Fn: fn}
	}
	return v.Interface()
}

func (u *Unit) symbols(l *overrides.Loader) interp.Exports {
	ns := u.namespace
	return interp.Exports{
		APIPath + "/api": {
			"Namespace": reflect.ValueOf(func() string { return ns }),
			"Deprecate": reflect.ValueOf(func(attr, replacement string) {
				l.RegisterDeprecatedAttribute(ns, attr, replacement)
			}),
			"DeprecateIn": reflect.ValueOf(l.RegisterDeprecatedAttribute),
			"Raw": reflect.ValueOf(func(namespace, name string) (interface{}, error) {
				raw, err := l.FetchRaw(namespace)
				if err != nil {
					return nil, err
				}
				return raw.Attr(name)
			}),
		},
	}
}
