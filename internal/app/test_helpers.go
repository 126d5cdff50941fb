package app

import (
	"os"
	"testing"

	"github.com/specialistvlad/nsoverlay/internal/overrides"
	"github.com/specialistvlad/nsoverlay/internal/testutil"
)

// SetupAppTest creates a new app instance for system testing. Output and
// logs share the returned buffer.
func SetupAppTest(t *testing.T, cfg *Config, providers ...overrides.Provider) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	testApp := NewApp(logBuffer, cfg, providers...)

	t.Cleanup(func() {
		if os.Getenv("NSOVERLAY_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
