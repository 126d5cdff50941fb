package hclunit

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/nsoverlay/internal/ctxlog"
	"github.com/specialistvlad/nsoverlay/internal/ctyconv"
	"github.com/specialistvlad/nsoverlay/internal/fsutil"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/zclconf/go-cty/cty"
)

// Extension is the file extension of HCL override units.
const Extension = ".hcl"

// Finder locates HCL units under a root directory.
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
	ctxlog.FromContext(ctx).Debug("Found HCL override unit.", "namespace", namespace, "path", path)
	return &Unit{namespace: namespace, path: path}, nil
}

// Unit is an HCL override unit. The file is parsed when evaluated.
type Unit struct {
	namespace string
	path      string
}

// Namespace implements overrides.Unit.
func (u *Unit) Namespace() string { return u.namespace }

// Path returns the unit's file path.
func (u *Unit) Path() string { return u.path }

type unitFile struct {
	Exports    []string           `hcl:"exports,optional"`
	Constants  []*constantBlock   `hcl:"constant,block"`
	Aliases    []*aliasBlock      `hcl:"alias,block"`
	Deprecated []*deprecatedBlock `hcl:"deprecated,block"`
}

type constantBlock struct {
	Name  string    `hcl:"name,label"`
	Value cty.Value `hcl:"value"`
}

type aliasBlock struct {
	Name      string  `hcl:"name,label"`
	Namespace *string `hcl:"namespace,optional"`
	Target    string  `hcl:"target"`
}

type deprecatedBlock struct {
	Name        string `hcl:"name,label"`
	Replacement string `hcl:"replacement"`
}

// Evaluate implements overrides.Unit. Parse and decode errors are returned
// as evaluation failures.
func (u *Unit) Evaluate(ctx context.Context, l *overrides.Loader) (*overrides.Exports, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Evaluating HCL override unit.", "namespace", u.namespace, "path", u.path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(u.path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", u.path, diags)
	}

	var root unitFile
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", u.path, diags)
	}

	values, err := u.definitions(l, &root)
	if err != nil {
		return nil, err
	}

	for _, d := range root.Deprecated {
		l.RegisterDeprecatedAttribute(u.namespace, d.Name, d.Replacement)
	}

	exports := &overrides.Exports{All: root.Exports, Values: values}
	logger.Debug("HCL override unit evaluated.", "namespace", u.namespace, "exports", len(root.Exports), "definitions", len(values))
	return exports, nil
}

func (u *Unit) definitions(l *overrides.Loader, root *unitFile) (map[string]any, error) {
	values := make(map[string]any, len(root.Constants)+len(root.Aliases))
	var diags hcl.Diagnostics

	define := func(name string, v any) {
		if _, dup := values[name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate definition",
				Detail:   fmt.Sprintf("%q is defined more than once in %s.", name, u.path),
			})
			return
		}
		values[name] = v
	}

	for _, c := range root.Constants {
		v, err := ctyconv.ToNative(c.Value)
		if err != nil {
			return nil, fmt.Errorf("constant %q: %w", c.Name, err)
		}
		define(c.Name, v)
	}

	for _, a := range root.Aliases {
		ns := u.namespace
		if a.Namespace != nil {
			ns = *a.Namespace
		}
		raw, err := l.FetchRaw(ns)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", a.Name, err)
		}
		v, err := raw.Attr(a.Target)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", a.Name, err)
		}
		define(a.Name, v)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return values, nil
}
