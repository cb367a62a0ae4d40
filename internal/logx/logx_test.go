package logx_test

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"

	"go.mavbridge.dev/bridge/internal/logx"
)

func TestLogger_ShutdownFlushesQueue(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	l := logx.New(&buf, 8)

	for i := 0; i < 50; i++ {
		l.Info("line %d", i)
	}
	l.Shutdown()
	l.Shutdown() // idempotent

	out := buf.String()
	for i := 0; i < 50; i++ {
		if !strings.Contains(out, "line "+strconv.Itoa(i)) {
			t.Fatalf("missing line %d in flushed output", i)
		}
	}
}

func TestLogger_LevelsAppearInOutput(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	l := logx.New(&buf, 8)
	l.Info("info line")
	l.Warn("warn line")
	l.Error("error line")
	l.Shutdown()

	out := buf.String()
	for _, want := range []string{"INFO", "WARN", "ERROR"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing level tag %q:\n%s", want, out)
		}
	}
}

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
