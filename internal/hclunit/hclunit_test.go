package hclunit_test

import (
	"path/filepath"
	"testing"

	"github.com/specialistvlad/nsoverlay/internal/hclunit"
	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/specialistvlad/nsoverlay/internal/testutil"
	"github.com/specialistvlad/nsoverlay/internal/warning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gobjectUnit = `
exports = ["SIGNAL_RUN_FIRST", "PRIORITY_DEFAULT", "STATUS_FOO", "TYPE_NAMES"]

constant "SIGNAL_RUN_FIRST" {
  value = 1
}

constant "STATUS_FOO" {
  value = "foo"
}

constant "TYPE_NAMES" {
  value = ["gint", "gchararray"]
}

alias "PRIORITY_DEFAULT" {
  namespace = "GLib"
  target    = "PRIORITY_DEFAULT"
}

deprecated "STATUS_FOO" {
  replacement = "GLib.Status.FOO"
}
`

func TestHCLUnit_BindsDeclaredOverrides(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{"GObject.hcl": gobjectUnit})
	rec := &warning.Recorder{}
	l := overrides.New(overrides.Config{Emitter: warning.NewEmitter(rec)}, hclunit.NewFinder(root))

	_, err := l.Bind(ctx, "GLib", testutil.GLib())
	require.NoError(t, err)

	// --- Act ---
	effective, err := l.Bind(ctx, "GObject", module.NewStatic("GObject", map[string]any{"Object": "raw"}))

	// --- Assert ---
	require.NoError(t, err)

	v, err := effective.Attr("SIGNAL_RUN_FIRST")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	v, err = effective.Attr("PRIORITY_DEFAULT")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	v, err = effective.Attr("TYPE_NAMES")
	require.NoError(t, err)
	assert.Equal(t, []any{"gint", "gchararray"}, v)

	v, err = effective.Attr("Object")
	require.NoError(t, err)
	assert.Equal(t, "raw", v)

	assert.Zero(t, rec.Len())
	v, err = effective.Attr("STATUS_FOO")
	require.NoError(t, err)
	assert.Equal(t, "foo", v)
	assert.Equal(t, []string{"GObject.STATUS_FOO is deprecated; use GLib.Status.FOO instead"}, rec.Messages())
}

func TestFinder_FindLocatesUnitFile(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{"GObject.hcl": gobjectUnit})

	unit, err := hclunit.NewFinder(root).Find(ctx, "GObject")

	require.NoError(t, err)
	hu, ok := unit.(*hclunit.Unit)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "GObject.hcl"), hu.Path())

	_, err = hclunit.NewFinder(root).Find(ctx, "Gtk")
	assert.ErrorIs(t, err, overrides.ErrNoOverride)
}

func TestHCLUnit_MissingFileFallsBackToRaw(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	root := testutil.WriteFiles(t, map[string]string{"GObject.hcl": gobjectUnit})
	l := overrides.New(overrides.Config{}, hclunit.NewFinder(root))
	raw := testutil.Gtk()

	effective, err := l.Bind(ctx, "Gtk", raw)

	require.NoError(t, err)
	assert.Same(t, raw, effective)
}

func TestHCLUnit_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, err error)
	}{
		{
			name:    "syntax error is an evaluation failure",
			content: `exports = [`,
			check: func(t *testing.T, err error) {
				var evalErr *overrides.EvaluationError
				require.ErrorAs(t, err, &evalErr)
				assert.ErrorContains(t, err, "failed to parse HCL file")
				assert.NotErrorIs(t, err, overrides.ErrNoOverride)
			},
		},
		{
			name:    "unknown block is an evaluation failure",
			content: `widget "x" {}`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "failed to decode HCL file")
			},
		},
		{
			name: "duplicate definition",
			content: `
constant "A" {
  value = 1
}
constant "A" {
  value = 2
}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "Duplicate definition")
			},
		},
		{
			name:    "export without definition",
			content: `exports = ["GHOST"]`,
			check: func(t *testing.T, err error) {
				var ce *overrides.ConsistencyError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, "GHOST", ce.Name)
			},
		},
		{
			name: "alias to missing raw attribute",
			content: `
alias "X" {
  target = "NOPE"
}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, module.ErrAttributeNotFound)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.LogContext(t)
			root := testutil.WriteFiles(t, map[string]string{"GLib.hcl": tc.content})
			l := overrides.New(overrides.Config{}, hclunit.NewFinder(root))

			_, err := l.Bind(ctx, "GLib", testutil.GLib())

			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
