// Package glib carries the compiled override unit of the GLib namespace.
package glib

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/nsoverlay/internal/callconv"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
)

// Namespace is the namespace this unit overrides.
const Namespace = "GLib"

const origin = "overrides." + Namespace

// PriorityDefaultIdle is the priority idle_add uses unless told otherwise.
const PriorityDefaultIdle int64 = 200

// Module implements the overrides.Provider interface for this package.
type Module struct{}

// Register registers the GLib unit with the catalog.
func (m *Module) Register(c *overrides.Catalog) {
	c.Register(overrides.NewUnit(Namespace, evaluate))
}

var ioFlags = []string{"IN", "OUT", "PRI", "ERR", "HUP"}

func newIOCondition() *module.Class {
	return &module.Class{
		Name:   "IOCondition",
		Module: origin,
		Attrs: map[string]any{
			"IN":  int64(1),
			"PRI": int64(2),
			"OUT": int64(4),
			"ERR": int64(8),
			"HUP": int64(16),
		},
	}
}

func evaluate(ctx context.Context, l *overrides.Loader) (*overrides.Exports, error) {
	raw, err := l.FetchRaw(Namespace)
	if err != nil {
		return nil, err
	}

	v, err := raw.Attr("idle_add")
	if err != nil {
		return nil, err
	}
	rawIdleAdd, ok := v.(*module.Func)
	if !ok {
		return nil, fmt.Errorf("%s.idle_add is %T, want a function", Namespace, v)
	}
	idleAdd, err := l.OverrideFunc(rawIdleAdd)(&module.Func{
		Name:   "idle_add",
		Module: origin,
		Fn:     idleAddFn(rawIdleAdd),
	})
	if err != nil {
		return nil, err
	}

	ioCondition := newIOCondition()
	exports := overrides.NewExports().
		Add("idle_add", idleAdd).
		Add("PRIORITY_DEFAULT_IDLE", PriorityDefaultIdle).
		Add("IOCondition", ioCondition).
		Add("file_get_contents", callconv.NormalizeFunc(fileGetContents(),
			callconv.FailWith(callconv.Error),
			callconv.FailMessage("file_get_contents failed"))).
		Add("get_real_time", &module.Func{Name: "get_real_time", Module: origin, Fn: realTime}).
		Add("get_current_time", l.DeprecatedFunc(
			&module.Func{Name: "get_current_time", Module: origin, Fn: currentTime},
			"GLib.get_real_time()"))

	for _, flag := range ioFlags {
		name := "IO_" + flag
		exports.Add(name, ioCondition.Attrs[flag])
		l.RegisterDeprecatedAttribute(Namespace, name, "GLib.IOCondition."+flag)
	}

	return exports, nil
}

// idleAddFn takes the callback first and an optional priority second, and
// calls the introspected idle_add(priority, callback).
func idleAddFn(raw *module.Func) func(args ...any) (any, error) {
	return func(args ...any) (any, error) {
		if len(args) == 0 || len(args) > 2 {
			return nil, fmt.Errorf("idle_add() takes 1 or 2 arguments (%d given)", len(args))
		}
		priority := PriorityDefaultIdle
		if len(args) == 2 {
			p, ok := args[1].(int64)
			if !ok {
				return nil, fmt.Errorf("idle_add() priority must be int64, not %T", args[1])
			}
			priority = p
		}
		return raw.Call(priority, args[0])
	}
}

// fileGetContents reports success as a flag next to the contents and their
// length, the way the introspected function does.
func fileGetContents() *module.Func {
	return &module.Func{
		Name:   "file_get_contents",
		Module: origin,
		Fn: func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("file_get_contents() takes exactly 1 argument (%d given)", len(args))
			}
			path, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("file_get_contents() filename must be a string, not %T", args[0])
			}
			data, err := os.ReadFile(path)
			return callconv.FromFlag(err == nil, data, int64(len(data))), nil
		},
	}
}

func realTime(args ...any) (any, error) {
	return time.Now().UnixMicro(), nil
}

func currentTime(args ...any) (any, error) {
	return float64(time.Now().UnixMicro()) / 1e6, nil
}
