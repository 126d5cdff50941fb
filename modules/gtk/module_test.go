package gtk_test

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/nsoverlay/internal/legacyinit"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/specialistvlad/nsoverlay/internal/testutil"
	"github.com/specialistvlad/nsoverlay/internal/warning"
	"github.com/specialistvlad/nsoverlay/modules/gtk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bindGtk(t *testing.T) (module.Module, *warning.Recorder) {
	t.Helper()

	ctx, _ := testutil.LogContext(t)
	rec := &warning.Recorder{}
	l := overrides.New(overrides.Config{Emitter: warning.NewEmitter(rec)}, overrides.NewCatalog(&gtk.Module{}))

	m, err := l.Bind(ctx, gtk.Namespace, testutil.Gtk())
	require.NoError(t, err)
	return m, rec
}

func buttonNew(t *testing.T, m module.Module) *module.Func {
	t.Helper()

	v, err := m.Attr("Button")
	require.NoError(t, err)
	cls, ok := v.(*module.Class)
	require.True(t, ok)
	fn, ok := cls.Lookup("new")
	require.True(t, ok)
	return fn.(*module.Func)
}

func TestGtk_ButtonReplacesIntrospectedClass(t *testing.T) {
	m, _ := bindGtk(t)

	v, err := m.Attr("Button")

	require.NoError(t, err)
	cls := v.(*module.Class)
	assert.Equal(t, "Button", cls.Name)
	assert.Equal(t, "Gtk", cls.Module)
	require.NotNil(t, cls.Base)
	assert.Equal(t, "Widget", cls.Base.Base.Name, "the override derives from the introspected Button")
}

func TestGtk_ButtonConstructor(t *testing.T) {
	tests := []struct {
		name      string
		args      []any
		wantProps map[string]any
		wantWarn  []string
	}{
		{
			name:      "keywords only",
			args:      []any{legacyinit.Kwargs{"label": "OK", "use_underline": true}},
			wantProps: map[string]any{"label": "OK", "use_underline": true},
		},
		{
			name:      "positional",
			args:      []any{"OK"},
			wantProps: map[string]any{"label": "OK", "use_underline": false},
			wantWarn: []string{
				"Using positional arguments with the constructor has been deprecated. Please specify keyword(s) for \"label\" or use a class specific constructor.",
				"Initializer is relying on deprecated non-standard defaults. Please update to explicitly use: use_underline=false",
			},
		},
		{
			name:      "deprecated alias",
			args:      []any{legacyinit.Kwargs{"stock": "gtk-ok", "use_underline": true}},
			wantProps: map[string]any{"label": "gtk-ok", "use_underline": true},
			wantWarn: []string{
				"The keyword(s) \"stock\" have been deprecated in favor of \"label\" respectively.",
			},
		},
		{
			name:      "ignored keyword",
			args:      []any{legacyinit.Kwargs{"label": "OK", "use_stock": true, "use_underline": false}},
			wantProps: map[string]any{"label": "OK", "use_underline": false},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			m, rec := bindGtk(t)
			newButton := buttonNew(t, m)

			// --- Act ---
			v, err := newButton.Call(tc.args...)

			// --- Assert ---
			require.NoError(t, err)
			inst := v.(*gtk.Instance)
			assert.Equal(t, "Button", inst.Class.Name)
			assert.Equal(t, tc.wantProps, inst.Props)
			if diff := cmp.Diff(tc.wantWarn, rec.Messages(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("warnings mismatch (-want +got):\n%s", diff)
			}
			for _, w := range rec.All() {
				assert.Equal(t, "module_test.go", filepath.Base(w.File), "warning should point at the constructor call")
			}
		})
	}
}

func TestGtk_ButtonRejectsUnknownProperty(t *testing.T) {
	m, _ := bindGtk(t)

	_, err := buttonNew(t, m).Call(legacyinit.Kwargs{"label": "OK", "relief": "none", "use_underline": true})

	assert.EqualError(t, err, "Button has no property 'relief'")
}

func TestGtk_InitCheck(t *testing.T) {
	m, _ := bindGtk(t)
	v, err := m.Attr("init_check")
	require.NoError(t, err)
	initCheck := v.(*module.Func)
	assert.Equal(t, "Gtk", initCheck.Module)

	argv, err := initCheck.Call("app", "--gtk-debug=all", "--display=:0", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"app", "file.txt"}, argv)

	_, err = initCheck.Call("app", "--display=")
	assert.EqualError(t, err, "Gtk couldn't be initialized")
}

func TestGtk_MainValidatesArguments(t *testing.T) {
	m, _ := bindGtk(t)
	v, err := m.Attr("main")
	require.NoError(t, err)

	_, err = v.(*module.Func).Call("extra")
	assert.EqualError(t, err, "main() takes no arguments (1 given)")

	_, err = v.(*module.Func).Call()
	assert.EqualError(t, err, "Gtk.main is not callable", "the introspected stub is still reached")
}

func TestGtk_StockOKIsDeprecated(t *testing.T) {
	m, rec := bindGtk(t)

	v, err := m.Attr("STOCK_OK")

	require.NoError(t, err)
	assert.Equal(t, "gtk-ok", v)
	assert.Equal(t, []string{"Gtk.STOCK_OK is deprecated; use '_OK' instead"}, rec.Messages())
}
