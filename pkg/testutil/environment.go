package testutil

import (
	"bytes"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/rigkit/pkg/config"
	"github.com/arthur-debert/rigkit/pkg/logging"
)

// syncBuffer guards a buffer shared with the global logger
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// TestEnvironment isolates global state for one test
type TestEnvironment struct {
	t      testing.TB
	Config *config.Config
	logs   *syncBuffer
}

// NewTestEnvironment installs default configuration and captures logs at
// debug level. Both are restored when the test ends.
func NewTestEnvironment(t testing.TB) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{t: t, Config: config.Default(), logs: &syncBuffer{}}
	config.Initialize(env.Config)
	logging.SetOutput(env.logs, zerolog.DebugLevel)

	t.Cleanup(func() {
		config.Initialize(nil)
		logging.SetOutput(io.Discard, zerolog.WarnLevel)
	})
	return env
}

// Logs returns everything logged since the environment was created
func (env *TestEnvironment) Logs() string {
	return env.logs.String()
}

// LogsContain reports whether any log line contains every fragment
func (env *TestEnvironment) LogsContain(fragments ...string) bool {
	for _, line := range strings.Split(env.Logs(), "\n") {
		all := true
		for _, f := range fragments {
			if !strings.Contains(line, f) {
				all = false
				break
			}
		}
		if all && line != "" {
			return true
		}
	}
	return false
}
