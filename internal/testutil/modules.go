package testutil

import "github.com/specialistvlad/nsoverlay/internal/module"

// GLib returns a small introspected GLib namespace.
func GLib() *module.Static {
	return module.NewStatic("GLib", map[string]any{
		"PRIORITY_DEFAULT": int64(0),
		"PRIORITY_HIGH":    int64(-100),
		"PRIORITY_LOW":     int64(300),
		"MainLoop":         &module.Class{Name: "MainLoop", Module: "GLib"},
		"idle_add": &module.Func{Name: "idle_add", Module: "GLib", Fn: func(args ...any) (any, error) {
			return int64(1), nil
		}},
	})
}

// Gtk returns a small introspected Gtk namespace.
func Gtk() *module.Static {
	widget := &module.Class{Name: "Widget", Module: "Gtk"}
	return module.NewStatic("Gtk", map[string]any{
		"Widget":   widget,
		"Button":   &module.Class{Name: "Button", Module: "Gtk", Base: widget},
		"main":     &module.Func{Name: "main", Module: "Gtk"},
		"STOCK_OK": "gtk-ok",
	})
}
