// Package repository loads introspected namespace dumps. A dump file may
// declare any number of namespaces, in HCL:
//
//	namespace "Gtk" {
//	  attributes = { STOCK_OK = "gtk-ok" }
//	  functions  = ["main", "main_quit"]
//
//	  class "Widget" {}
//	  class "Button" {
//	    base = "Widget"
//	  }
//	}
//
// or with the same shape in YAML (.yaml, .yml) or TOML (.toml) under a
// top-level "namespaces" list. Functions are recorded by name only; calling
// one reports it is not callable.
package repository

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
	"github.com/specialistvlad/nsoverlay/internal/fsutil"
	"github.com/specialistvlad/nsoverlay/internal/module"
)

// Repository holds the loaded namespaces.
type Repository struct {
	namespaces map[string]*module.Static
	sources    map[string]string
}

// namespaceDump is the format-agnostic form of one namespace.
type namespaceDump struct {
	Name       string         `yaml:"name" toml:"name"`
	Attributes map[string]any `yaml:"attributes" toml:"attributes"`
	Functions  []string       `yaml:"functions" toml:"functions"`
	Classes    []classDump    `yaml:"classes" toml:"classes"`
}

type classDump struct {
	Name string `yaml:"name" toml:"name"`
	Base string `yaml:"base" toml:"base"`
}

type decoder func(path string) ([]namespaceDump, error)

var decoders = map[string]decoder{
	".hcl":  decodeHCL,
	".yaml": decodeYAML,
	".yml":  decodeYAML,
	".toml": decodeTOML,
}

// Load reads every dump file under path (a file or a directory).
func Load(ctx context.Context, path string) (*Repository, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Repository loading namespace dumps.", "path", path)

	files, err := dumpFiles(path)
	if err != nil {
		return nil, err
	}

	repo := &Repository{
		namespaces: make(map[string]*module.Static),
		sources:    make(map[string]string),
	}

	for _, file := range files {
		decode, ok := decoders[filepath.Ext(file)]
		if !ok {
			return nil, fmt.Errorf("unsupported namespace dump format: %s", file)
		}
		dumps, err := decode(file)
		if err != nil {
			return nil, err
		}

		for _, ns := range dumps {
			if ns.Name == "" {
				return nil, fmt.Errorf("namespace without a name in %s", file)
			}
			if prev, dup := repo.sources[ns.Name]; dup {
				return nil, fmt.Errorf("namespace '%s' declared in both %s and %s", ns.Name, prev, file)
			}
			m, err := translate(ns)
			if err != nil {
				return nil, fmt.Errorf("namespace '%s' in %s: %w", ns.Name, file, err)
			}
			repo.namespaces[ns.Name] = m
			repo.sources[ns.Name] = file
		}
	}

	logger.Debug("Repository loaded.", "files", len(files), "namespaces", len(repo.namespaces))
	return repo, nil
}

func dumpFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing path %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	for ext := range decoders {
		found, err := fsutil.FindFilesByExtension(path, ext)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	sort.Strings(files)
	return files, nil
}

func translate(ns namespaceDump) (*module.Static, error) {
	attrs := make(map[string]any, len(ns.Attributes)+len(ns.Functions)+len(ns.Classes))
	for k, v := range ns.Attributes {
		attrs[k] = normalize(v)
	}

	define := func(name string, v any) error {
		if _, dup := attrs[name]; dup {
			return fmt.Errorf("attribute '%s' defined more than once", name)
		}
		attrs[name] = v
		return nil
	}

	for _, fn := range ns.Functions {
		if err := define(fn, &module.Func{Name: fn, Module: ns.Name}); err != nil {
			return nil, err
		}
	}

	classes := make(map[string]*module.Class, len(ns.Classes))
	for _, c := range ns.Classes {
		cls := &module.Class{Name: c.Name, Module: ns.Name}
		if err := define(c.Name, cls); err != nil {
			return nil, err
		}
		classes[c.Name] = cls
	}
	for _, c := range ns.Classes {
		if c.Base == "" {
			continue
		}
		base, ok := classes[c.Base]
		if !ok {
			return nil, fmt.Errorf("class '%s' has unknown base '%s'", c.Name, c.Base)
		}
		classes[c.Name].Base = base
	}

	return module.NewStatic(ns.Name, attrs), nil
}

// normalize makes decoded values match the HCL path: whole numbers are
// int64 (uint64 when too large for int64) and nested collections are []any
// and map[string]any.
func normalize(v any) any {
	switch t := v.(type) {
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		if t > math.MaxInt64 {
			return t
		}
		return int64(t)
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < math.MaxInt64 {
			return int64(t)
		}
		return t
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = normalize(e)
		}
		return out
	default:
		return v
	}
}

// Namespace returns the module for name.
func (r *Repository) Namespace(name string) (*module.Static, bool) {
	m, ok := r.namespaces[name]
	return m, ok
}

// Lookup implements overrides.Source.
func (r *Repository) Lookup(name string) (module.Module, bool) {
	m, ok := r.namespaces[name]
	if !ok {
		return nil, false
	}
	return m, true
}

// Namespaces lists the loaded namespace names, sorted.
func (r *Repository) Namespaces() []string {
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
