package module

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrAttributeNotFound is wrapped by every failed attribute lookup.
var ErrAttributeNotFound = errors.New("attribute not found")

// AttributeError reports a lookup miss on a named module.
type AttributeError struct {
	Module string
	Name   string
}

// Error implements the error interface for AttributeError.
func (e *AttributeError) Error() string {
	return fmt.Sprintf("module '%s' has no attribute '%s'", e.Module, e.Name)
}

// Unwrap makes errors.Is(err, ErrAttributeNotFound) hold.
func (e *AttributeError) Unwrap() error {
	return ErrAttributeNotFound
}

// Module is a namespace's API surface.
type Module interface {
	// Name returns the namespace name, e.g. "GLib".
	Name() string
	// Attr looks up an attribute. Misses wrap ErrAttributeNotFound.
	Attr(name string) (any, error)
	// Dir lists the attribute names the module exposes.
	Dir() []string
}

// Static is a map-backed Module.
type Static struct {
	name  string
	attrs map[string]any
}

// NewStatic creates a Static module. The attrs map is copied.
func NewStatic(name string, attrs map[string]any) *Static {
	copied := make(map[string]any, len(attrs))
	for k, v := range attrs {
		copied[k] = v
	}
	return &Static{name: name, attrs: copied}
}

// Name implements Module.
func (s *Static) Name() string { return s.name }

// Attr implements Module.
func (s *Static) Attr(name string) (any, error) {
	v, ok := s.attrs[name]
	if !ok {
		return nil, &AttributeError{Module: s.name, Name: name}
	}
	return v, nil
}

// Dir implements Module. The result is sorted.
func (s *Static) Dir() []string {
	names := make([]string, 0, len(s.attrs))
	for k := range s.attrs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// String renders the module the way it appears in proxy descriptions.
func (s *Static) String() string {
	return fmt.Sprintf("<module '%s'>", s.name)
}

// Namespace returns the last dotted segment of an origin such as
// "overrides.GLib".
func Namespace(origin string) string {
	if i := strings.LastIndex(origin, "."); i >= 0 {
		return origin[i+1:]
	}
	return origin
}
