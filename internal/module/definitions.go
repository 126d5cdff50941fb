package module

import "fmt"

// Origin is implemented by attributes that remember the namespace (or
// override unit) they were defined in.
type Origin interface {
	Origin() string
	SetOrigin(origin string)
}

// Func is a named callable attribute.
type Func struct {
	Name   string
	Module string
	Fn     func(args ...any) (any, error)
}

// Origin implements Origin.
func (f *Func) Origin() string { return f.Module }

// SetOrigin implements Origin.
func (f *Func) SetOrigin(origin string) { f.Module = origin }

// Call invokes the function.
func (f *Func) Call(args ...any) (any, error) {
	if f.Fn == nil {
		return nil, fmt.Errorf("%s.%s is not callable", f.Module, f.Name)
	}
	return f.Fn(args...)
}

func (f *Func) String() string {
	return fmt.Sprintf("<function %s.%s>", f.Module, f.Name)
}

// Class is a named type attribute. Base is the class it derives from, if any.
type Class struct {
	Name   string
	Module string
	Base   *Class
	Attrs  map[string]any
}

// Origin implements Origin.
func (c *Class) Origin() string { return c.Module }

// SetOrigin implements Origin.
func (c *Class) SetOrigin(origin string) { c.Module = origin }

// Lookup resolves an attribute through the class and its bases.
func (c *Class) Lookup(name string) (any, bool) {
	for cls := c; cls != nil; cls = cls.Base {
		if v, ok := cls.Attrs[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (c *Class) String() string {
	return fmt.Sprintf("<class '%s.%s'>", c.Module, c.Name)
}
