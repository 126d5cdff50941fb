// Package callconv adapts the "success flag plus out-parameters" calling
// convention of introspected functions into direct return values.
package callconv

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/nsoverlay/internal/module"
)

// DefaultFailureMessage is used when a failure constructor is configured
// without an explicit message.
const DefaultFailureMessage = "call failed"

// Result is the tagged outcome of a flag-returning call.
type Result struct {
	ok   bool
	outs []any
}

// Success builds a successful Result carrying the out values in order.
func Success(outs ...any) Result {
	return Result{ok: true, outs: outs}
}

// Failure builds a failed Result. Out values of a failed call are discarded.
func Failure() Result {
	return Result{}
}

// FromFlag builds a Result from a raw flag and outputs.
func FromFlag(ok bool, outs ...any) Result {
	if !ok {
		return Failure()
	}
	return Success(outs...)
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.ok }

// Outs returns the out values of a successful call.
func (r Result) Outs() []any { return r.outs }

// Tuple is an ordered group of two or more out values.
type Tuple []any

type options struct {
	failWith    func(msg string) error
	failMessage string
	failValue   any
}

// Option configures Normalize.
type Option func(*options)

// FailWith makes failures return the error built by kind.
func FailWith(kind func(msg string) error) Option {
	return func(o *options) { o.failWith = kind }
}

// FailMessage sets the message passed to the FailWith constructor.
func FailMessage(msg string) Option {
	return func(o *options) { o.failMessage = msg }
}

// FailValue sets the value returned on failure when no FailWith is set.
func FailValue(v any) Option {
	return func(o *options) { o.failValue = v }
}

// Normalize wraps method so that a successful call returns its single out
// value bare, or a Tuple when there are several. A failed call returns the
// configured error, or the failure value (nil by default). Arguments are
// passed through untouched.
func Normalize(method func(args ...any) Result, opts ...Option) func(args ...any) (any, error) {
	o := newOptions(opts)
	return func(args ...any) (any, error) {
		return o.interpret(method(args...))
	}
}

// NormalizeFunc returns a copy of f whose Fn interprets the Result returned
// by f. Errors returned by f itself are passed through.
func NormalizeFunc(f *module.Func, opts ...Option) *module.Func {
	o := newOptions(opts)
	fn := func(args ...any) (any, error) {
		v, err := f.Call(args...)
		if err != nil {
			return nil, err
		}
		r, ok := v.(Result)
		if !ok {
			return nil, fmt.Errorf("%s.%s returned %T, want callconv.Result", f.Module, f.Name, v)
		}
		return o.interpret(r)
	}
	return &module.Func{Name: f.Name, Module: f.Module, Fn: fn}
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.failMessage == "" {
		o.failMessage = DefaultFailureMessage
	}
	return o
}

func (o *options) interpret(r Result) (any, error) {
	if !r.ok {
		if o.failWith != nil {
			return nil, o.failWith(o.failMessage)
		}
		return o.failValue, nil
	}
	if len(r.outs) == 1 {
		return r.outs[0], nil
	}
	out := make(Tuple, len(r.outs))
	copy(out, r.outs)
	return out, nil
}

// Error is a failure kind producing plain errors.
func Error(msg string) error {
	return errors.New(msg)
}
