package cache

import (
	"testing"
	"time"
)

func TestManagerStopWithoutStart(t *testing.T) {
	m := NewManager()
	m.Register(NewLRUCache[int](2, time.Minute))

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a manager that was never started")
	}
}

func TestManagerStartStop(t *testing.T) {
	m := NewManager()
	c := NewLRUCache[string](4, time.Millisecond)
	m.Register(c)
	c.Set("k", "v")

	m.StartCleanup(5 * time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	if c.Size() != 0 {
		t.Fatalf("size = %d, want 0 after expiry cleanup", c.Size())
	}

	m.Stop()
	m.Stop() // second Stop must not panic or block
}

func TestManagerStartIsIdempotent(t *testing.T) {
	m := NewManager()
	m.StartCleanup(time.Minute)
	m.StartCleanup(time.Minute) // only the first call spawns the loop
	m.Stop()
}
