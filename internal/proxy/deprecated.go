package proxy

import (
	"fmt"

	"github.com/specialistvlad/nsoverlay/internal/warning"
)

// Deprecated is an Interceptor that returns a frozen value and warns on
// every read.
type Deprecated struct {
	namespace string
	attr      string
	value     any
	message   string
	emitter   *warning.Emitter
}

// NewDeprecated creates the interceptor for namespace.attr. replacement is
// the text naming what callers should use instead.
func NewDeprecated(namespace, attr string, value any, replacement string, e *warning.Emitter) *Deprecated {
	return &Deprecated{
		namespace: namespace,
		attr:      attr,
		value:     value,
		message:   fmt.Sprintf("%s.%s is deprecated; use %s instead", namespace, attr, replacement),
		emitter:   e,
	}
}

// Get implements Interceptor.
func (d *Deprecated) Get(stacklevel int) any {
	d.emitter.Warn(warning.Deprecation, d.message, stacklevel)
	return d.value
}

// Message returns the warning text emitted on reads.
func (d *Deprecated) Message() string { return d.message }

// Value returns the frozen value without warning.
func (d *Deprecated) Value() any { return d.value }
