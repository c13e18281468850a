package runtime

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"
)

// syncBuffer lets log output be read while tests are still writing.
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

// CaptureLog redirects the global logger into a buffer at the given level.
// The returned func restores the previous handler and level.
func CaptureLog(t testing.TB, level LogLevel) (*syncBuffer, func()) {
	t.Helper()
	buf := &syncBuffer{}

	globalLogger.mu.Lock()
	prevHandler, prevLevel := globalLogger.handler, globalLogger.level
	globalLogger.handler = slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	globalLogger.level = level
	globalLogger.mu.Unlock()

	return buf, func() {
		globalLogger.mu.Lock()
		globalLogger.handler, globalLogger.level = prevHandler, prevLevel
		globalLogger.mu.Unlock()
	}
}

// QuietTest silences the global logger for the duration of a test.
func QuietTest(t testing.TB) func() {
	t.Helper()
	prev := GetLogLevel()
	SetLogLevel(LogLevelOff)
	return func() { SetLogLevel(prev) }
}
