package spinner

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncWriter makes a strings.Builder safe for the spinner goroutine.
type syncWriter struct {
	mu sync.Mutex
	b  strings.Builder
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}

func TestSpinnerWritesAndClears(t *testing.T) {
	var out syncWriter
	stop := Start(&out, "working")

	time.Sleep(3 * frameInterval)
	stop()

	s := out.String()
	assert.Contains(t, s, "working")
	assert.True(t, strings.HasSuffix(s, "\r"), "line should be cleared after stop")
}

func TestStopIsIdempotent(t *testing.T) {
	var out syncWriter
	stop := Start(&out, "working")
	stop()
	stop() // second call must not panic or block
}
