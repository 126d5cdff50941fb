package repository

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gtkDump = `
namespace "Gtk" {
  attributes = {
    STOCK_OK  = "gtk-ok"
    MAJOR     = 3
  }
  functions = ["main", "main_quit"]

  class "Widget" {}
  class "Button" {
    base = "Widget"
  }
}
`

const glibDump = `
namespace "GLib" {
  attributes = { PRIORITY_HIGH = -100 }
}
`

func TestLoad_Directory(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{
		"gtk.hcl":       gtkDump,
		"nested/gl.hcl": glibDump,
		"nested/readme": "ignored",
	})

	// --- Act ---
	repo, err := Load(ctx, root)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"GLib", "Gtk"}, repo.Namespaces())

	gtk, ok := repo.Namespace("Gtk")
	require.True(t, ok)
	assert.Equal(t, []string{"Button", "MAJOR", "STOCK_OK", "Widget", "main", "main_quit"}, gtk.Dir())

	v, err := gtk.Attr("MAJOR")
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	v, err = gtk.Attr("Button")
	require.NoError(t, err)
	button := v.(*module.Class)
	require.NotNil(t, button.Base)
	assert.Equal(t, "Widget", button.Base.Name)

	v, err = gtk.Attr("main")
	require.NoError(t, err)
	_, err = v.(*module.Func).Call()
	assert.ErrorContains(t, err, "Gtk.main is not callable")
}

const gtkYAML = `
namespaces:
  - name: Gtk
    attributes:
      STOCK_OK: gtk-ok
      MAJOR: 3
      SCALE: 0.5
      SIZES: [16, 24]
    functions: [main, main_quit]
    classes:
      - name: Widget
      - name: Button
        base: Widget
`

const gtkTOML = `
[[namespaces]]
name = "Gtk"
functions = ["main", "main_quit"]

[namespaces.attributes]
STOCK_OK = "gtk-ok"
MAJOR = 3
SCALE = 0.5
SIZES = [16, 24]

[[namespaces.classes]]
name = "Widget"

[[namespaces.classes]]
name = "Button"
base = "Widget"
`

func TestLoad_StructuredFormats(t *testing.T) {
	for name, content := range map[string]string{"gtk.yaml": gtkYAML, "gtk.yml": gtkYAML, "gtk.toml": gtkTOML} {
		t.Run(name, func(t *testing.T) {
			// --- Arrange ---
			ctx, _ := testutil.LogContext(t)
			root := testutil.WriteFiles(t, map[string]string{name: content})

			// --- Act ---
			repo, err := Load(ctx, root)

			// --- Assert ---
			require.NoError(t, err)
			gtk, ok := repo.Namespace("Gtk")
			require.True(t, ok)
			assert.Equal(t, []string{"Button", "MAJOR", "SCALE", "SIZES", "STOCK_OK", "Widget", "main", "main_quit"}, gtk.Dir())

			for attr, want := range map[string]any{
				"MAJOR":    int64(3),
				"SCALE":    0.5,
				"SIZES":    []any{int64(16), int64(24)},
				"STOCK_OK": "gtk-ok",
			} {
				v, err := gtk.Attr(attr)
				require.NoError(t, err)
				assert.Equal(t, want, v, attr)
			}

			v, err := gtk.Attr("Button")
			require.NoError(t, err)
			assert.Equal(t, "Widget", v.(*module.Class).Base.Name)
		})
	}
}

func TestLoad_LargeUnsignedStaysUnsigned(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{"big.yaml": `
namespaces:
  - name: GLib
    attributes:
      MAXUINT64: 18446744073709551615
      MAXINT64: 9223372036854775807
`})

	// --- Act ---
	repo, err := Load(ctx, root)

	// --- Assert ---
	require.NoError(t, err)
	glib, ok := repo.Namespace("GLib")
	require.True(t, ok)

	v, err := glib.Attr("MAXUINT64")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), v)

	v, err = glib.Attr("MAXINT64")
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), v)
}

func TestLoad_SingleFile(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{"glib.hcl": glibDump})

	repo, err := Load(ctx, filepath.Join(root, "glib.hcl"))

	require.NoError(t, err)
	assert.Equal(t, []string{"GLib"}, repo.Namespaces())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{name: "syntax", files: map[string]string{"a.hcl": `namespace "X" {`}, wantErr: "failed to parse HCL file"},
		{name: "yaml syntax", files: map[string]string{"a.yaml": "namespaces: [\n"}, wantErr: "failed to parse YAML file"},
		{name: "toml syntax", files: map[string]string{"a.toml": "[[namespaces]\n"}, wantErr: "failed to parse TOML file"},
		{name: "unnamed", files: map[string]string{"a.yaml": "namespaces:\n  - functions: [f]\n"}, wantErr: "namespace without a name"},
		{name: "duplicate across formats", files: map[string]string{"a.hcl": glibDump, "b.yaml": "namespaces:\n  - name: GLib\n"}, wantErr: "declared in both"},
		{name: "duplicate namespace", files: map[string]string{"a.hcl": glibDump, "b.hcl": glibDump}, wantErr: "declared in both"},
		{
			name:    "unknown base",
			files:   map[string]string{"a.hcl": `namespace "X" { class "A" { base = "Nope" } }`},
			wantErr: "unknown base 'Nope'",
		},
		{
			name: "duplicate attribute",
			files: map[string]string{"a.hcl": `namespace "X" {
  attributes = { main = 1 }
  functions  = ["main"]
}`},
			wantErr: "defined more than once",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			root := testutil.WriteFiles(t, tc.files)

			_, err := Load(ctx, root)

			assert.ErrorContains(t, err, tc.wantErr)
		})
	}

	ctx, _ := testutil.LogContext(t)
	_, err := Load(ctx, filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "error accessing path")

	root := testutil.WriteFiles(t, map[string]string{"dump.json": "{}"})
	_, err = Load(ctx, filepath.Join(root, "dump.json"))
	assert.ErrorContains(t, err, "unsupported namespace dump format")
}
