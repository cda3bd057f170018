package bot

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingStatus struct {
	calls atomic.Int32
	fail  bool
}

func (c *countingStatus) UpdateCustomStatus(string) error {
	c.calls.Add(1)
	if c.fail {
		return errors.New("gateway closed")
	}
	return nil
}

func TestSchedulerRotatesPresence(t *testing.T) {
	status := &countingStatus{fail: true}
	s := newScheduler(status, nil, 10*time.Millisecond, presenceLines("td!"))
	s.Start()

	deadline := time.Now().Add(2 * time.Second)
	for status.calls.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	s.Stop()
	s.Stop()

	if status.calls.Load() < 3 {
		t.Fatalf("presence updated %d times, want at least 3", status.calls.Load())
	}
	after := status.calls.Load()
	time.Sleep(30 * time.Millisecond)
	if status.calls.Load() != after {
		t.Fatal("presence kept rotating after Stop")
	}
}

func TestSchedulerWithoutTasks(t *testing.T) {
	s := newScheduler(&countingStatus{}, nil, 0, nil)
	s.Start()
	s.Stop()
}

func TestPresenceLinesUsePrefix(t *testing.T) {
	lines := presenceLines("!")
	if lines[0] != "Type !help or /help" {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}
