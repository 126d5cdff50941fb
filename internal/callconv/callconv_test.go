package callconv

import (
	"errors"
	"testing"

	"github.com/specialistvlad/nsoverlay/internal/module"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLookup = errors.New("lookup")

type lookupError struct{ msg string }

func (e *lookupError) Error() string { return e.msg }
func (e *lookupError) Unwrap() error { return errLookup }

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		opts    []Option
		want    any
		wantErr string
	}{
		{name: "single out value is bare", result: Success(7), want: 7},
		{name: "several out values form a tuple", result: Success(7, 8), want: Tuple{7, 8}},
		{name: "success without outs", result: Success(), want: Tuple{}},
		{name: "failure returns nil", result: Failure(), want: nil},
		{name: "failure returns configured value", result: Failure(), opts: []Option{FailValue(-1)}, want: -1},
		{name: "failure raises default message", result: Failure(), opts: []Option{FailWith(Error)}, wantErr: "call failed"},
		{name: "failure raises custom message", result: Failure(), opts: []Option{FailWith(Error), FailMessage("no such key")}, wantErr: "no such key"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fn := Normalize(func(args ...any) Result { return tc.result }, tc.opts...)

			got, err := fn()

			if tc.wantErr != "" {
				require.EqualError(t, err, tc.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromFlag(t *testing.T) {
	ok := FromFlag(true, "a", 2)
	assert.True(t, ok.OK())
	assert.Equal(t, []any{"a", 2}, ok.Outs())

	failed := FromFlag(false, "a", 2)
	assert.False(t, failed.OK())
	assert.Empty(t, failed.Outs(), "out values of a failed call are discarded")
}

func TestNormalize_PassesArgumentsThrough(t *testing.T) {
	var seen []any
	fn := Normalize(func(args ...any) Result {
		seen = args
		return FromFlag(true, args[0])
	})

	got, err := fn("key", 3)

	require.NoError(t, err)
	assert.Equal(t, "key", got)
	assert.Equal(t, []any{"key", 3}, seen)
}

func TestNormalize_FailureKindIsTyped(t *testing.T) {
	fn := Normalize(
		func(args ...any) Result { return FromFlag(false, "ignored") },
		FailWith(func(msg string) error { return &lookupError{msg: msg} }),
	)

	_, err := fn()

	var le *lookupError
	require.ErrorAs(t, err, &le)
	assert.ErrorIs(t, err, errLookup)
}

func TestNormalizeFunc(t *testing.T) {
	lookup := &module.Func{
		Name:   "lookup_extended",
		Module: "GLib",
		Fn: func(args ...any) (any, error) {
			if args[0] == "present" {
				return Success("orig", "value"), nil
			}
			return Failure(), nil
		},
	}

	wrapped := NormalizeFunc(lookup)

	assert.Equal(t, "lookup_extended", wrapped.Name)
	got, err := wrapped.Call("present")
	require.NoError(t, err)
	assert.Equal(t, Tuple{"orig", "value"}, got)

	got, err = wrapped.Call("absent")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestNormalizeFunc_PropagatesCallErrors(t *testing.T) {
	boom := errors.New("boom")
	f := &module.Func{Name: "f", Module: "GLib", Fn: func(args ...any) (any, error) { return nil, boom }}
	notResult := &module.Func{Name: "g", Module: "GLib", Fn: func(args ...any) (any, error) { return 1, nil }}

	_, err := NormalizeFunc(f).Call()
	assert.ErrorIs(t, err, boom)

	_, err = NormalizeFunc(notResult).Call()
	assert.ErrorContains(t, err, "GLib.g returned int")
}
