package cli

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestSpinnerStop(t *testing.T) {
	var w syncBuffer
	s := newSpinner(context.Background(), &w, "Rendering plan.dxf")
	s.Start()
	time.Sleep(100 * time.Millisecond)
	s.Stop()
	s.Stop()

	if s.Cancelled() {
		t.Error("Cancelled() = true after a plain Stop")
	}
	if w.Len() == 0 {
		t.Error("spinner wrote nothing")
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &syncBuffer{}, "Rendering")
	s.Start()
	cancel()
	s.Stop()

	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancellation")
	}
}

func TestWithSpinner(t *testing.T) {
	boom := errors.New("boom")
	for _, enabled := range []bool{false, true} {
		var w syncBuffer
		calls := 0
		err := withSpinner(context.Background(), &w, enabled, "Rendering", func() error {
			calls++
			return boom
		})
		if !errors.Is(err, boom) {
			t.Errorf("enabled=%v: err = %v, want boom", enabled, err)
		}
		if calls != 1 {
			t.Errorf("enabled=%v: fn called %d times, want 1", enabled, calls)
		}
		if !enabled && w.Len() != 0 {
			t.Error("disabled spinner wrote output")
		}
	}
}
