package warning

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deprecatedHelper(e *Emitter) {
	e.Warn(Deprecation, "helper is deprecated", 2)
}

func TestWarn_AttributesCallSite(t *testing.T) {
	rec := &Recorder{}
	e := NewEmitter(rec)

	e.Warn(User, "direct", 1)
	deprecatedHelper(e)

	all := rec.All()
	require.Len(t, all, 2)
	assert.Equal(t, "warning_test.go", filepath.Base(all[0].File))
	assert.Equal(t, "warning_test.go", filepath.Base(all[1].File))
	assert.Equal(t, Deprecation, all[1].Category)
	// The helper's warning is attributed to this function, not to the helper.
	assert.Greater(t, all[1].Line, all[0].Line)
}

func TestWarn_NilEmitterIsNoop(t *testing.T) {
	var e *Emitter
	assert.NotPanics(t, func() { e.Warn(Deprecation, "dropped", 1) })
}

func TestLogSink_WritesStructuredRecord(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	e := NewEmitter(LogSink(logger))

	e.Warn(Deprecation, "GLib.FOO is deprecated; use GLib.BAR instead", 1)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "category=DeprecationWarning")
	assert.Contains(t, out, "source=warning_test.go:")
}

func TestRecorder_Reset(t *testing.T) {
	rec := &Recorder{}
	e := NewEmitter()
	e.AddSink(rec)

	e.Warn(User, "one", 1)
	e.Warn(User, "two", 1)
	assert.Equal(t, []string{"one", "two"}, rec.Messages())

	rec.Reset()
	assert.Equal(t, 0, rec.Len())
}
