// Package gtk carries the compiled override unit of the Gtk namespace.
package gtk

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/specialistvlad/nsoverlay/internal/callconv"
	"github.com/specialistvlad/nsoverlay/internal/legacyinit"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
)

// Namespace is the namespace this unit overrides.
const Namespace = "Gtk"

const origin = "overrides." + Namespace

// Module implements the overrides.Provider interface for this package.
type Module struct{}

// Register registers the Gtk unit with the catalog.
func (m *Module) Register(c *overrides.Catalog) {
	c.Register(overrides.NewUnit(Namespace, evaluate))
}

// Instance is an object built by an overridden constructor.
type Instance struct {
	Class *module.Class
	Props map[string]any
}

// buttonProps are the properties the Button constructor accepts.
var buttonProps = []string{"label", "use_underline"}

func evaluate(ctx context.Context, l *overrides.Loader) (*overrides.Exports, error) {
	raw, err := l.FetchRaw(Namespace)
	if err != nil {
		return nil, err
	}

	button, err := overrideButton(l, raw)
	if err != nil {
		return nil, err
	}

	v, err := raw.Attr("main")
	if err != nil {
		return nil, err
	}
	rawMain, ok := v.(*module.Func)
	if !ok {
		return nil, fmt.Errorf("%s.main is %T, want a function", Namespace, v)
	}
	mainFn, err := l.OverrideFunc(rawMain)(&module.Func{
		Name:   "main",
		Module: origin,
		Fn: func(args ...any) (any, error) {
			if len(args) > 0 {
				return nil, fmt.Errorf("main() takes no arguments (%d given)", len(args))
			}
			return rawMain.Call()
		},
	})
	if err != nil {
		return nil, err
	}

	stockOK, err := raw.Attr("STOCK_OK")
	if err != nil {
		return nil, err
	}
	l.RegisterDeprecatedAttribute(Namespace, "STOCK_OK", "'_OK'")

	return overrides.NewExports().
		Add("Button", button).
		Add("main", mainFn).
		Add("init_check", &module.Func{
			Name:   "init_check",
			Module: origin,
			Fn: callconv.Normalize(initCheck,
				callconv.FailWith(callconv.Error),
				callconv.FailMessage("Gtk couldn't be initialized")),
		}).
		Add("STOCK_OK", stockOK), nil
}

func overrideButton(l *overrides.Loader, raw module.Module) (*module.Class, error) {
	v, err := raw.Attr("Button")
	if err != nil {
		return nil, err
	}
	base, ok := v.(*module.Class)
	if !ok {
		return nil, fmt.Errorf("%s.Button is %T, want a class", Namespace, v)
	}

	button := &module.Class{Name: "Button", Module: origin, Base: base, Attrs: map[string]any{}}
	initButton := legacyinit.Wrap(setProps,
		[]string{"label", "stock", "use_underline"},
		legacyinit.Aliases(map[string]string{"label": "stock"}),
		legacyinit.Defaults(map[string]any{"use_underline": false}),
		legacyinit.Ignore("use_stock"),
		legacyinit.Emitter(l.Emitter()),
		// Warnings point at whoever calls Button.new.
		legacyinit.StackLevel(4),
	)
	button.Attrs["new"] = &module.Func{
		Name:   "new",
		Module: Namespace,
		Fn: func(args ...any) (any, error) {
			positional, kw := splitKwargs(args)
			self := &Instance{Class: button, Props: map[string]any{}}
			if err := initButton(self, positional, kw); err != nil {
				return nil, err
			}
			return self, nil
		},
	}

	return l.OverrideClass(button)
}

// splitKwargs treats a trailing legacyinit.Kwargs argument as keywords.
func splitKwargs(args []any) ([]any, legacyinit.Kwargs) {
	if n := len(args); n > 0 {
		if kw, ok := args[n-1].(legacyinit.Kwargs); ok {
			return args[:n-1], kw
		}
	}
	return args, nil
}

func setProps(self *Instance, kw legacyinit.Kwargs) error {
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if !slices.Contains(buttonProps, k) {
			return fmt.Errorf("%s has no property '%s'", self.Class.Name, k)
		}
		self.Props[k] = kw[k]
	}
	return nil
}

// initCheck strips the toolkit's own options from argv. An empty --display
// makes initialisation fail.
func initCheck(args ...any) callconv.Result {
	argv := make([]string, 0, len(args))
	for _, a := range args {
		s := fmt.Sprint(a)
		switch {
		case s == "--display=":
			return callconv.Failure()
		case strings.HasPrefix(s, "--display="), strings.HasPrefix(s, "--gtk-"):
			continue
		}
		argv = append(argv, s)
	}
	return callconv.Success(argv)
}
