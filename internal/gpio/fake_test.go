package gpio

import (
	"errors"
	"testing"
)

func TestFakePinSetAndRead(t *testing.T) {
	pin := NewFakePin(Low)

	if err := pin.Set(High); err != nil {
		t.Fatalf("Set(High): %v", err)
	}

	level, err := pin.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if level != High {
		t.Errorf("level: got %v, want HIGH", level)
	}

	if err := pin.Set(Low); err != nil {
		t.Fatalf("Set(Low): %v", err)
	}
	level, _ = pin.Read()
	if level != Low {
		t.Errorf("level after Set(Low): got %v, want LOW", level)
	}

	if len(pin.SetCalls) != 2 {
		t.Errorf("SetCalls: got %d, want 2", len(pin.SetCalls))
	}
}

func TestFakePinHighTransitions(t *testing.T) {
	pin := NewFakePin(Low)

	pin.Set(High)
	pin.Set(High) // already HIGH, not an edge
	pin.Set(Low)
	pin.Set(High)

	if pin.HighTransitions != 2 {
		t.Errorf("HighTransitions: got %d, want 2", pin.HighTransitions)
	}
}

func TestFakePinForce(t *testing.T) {
	pin := NewFakePin(Low)
	pin.Set(High)

	pin.Force(Low)

	level, err := pin.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if level != Low {
		t.Errorf("forced level: got %v, want LOW", level)
	}
	// Force must not count as a driven edge.
	if len(pin.SetCalls) != 1 {
		t.Errorf("SetCalls after Force: got %d, want 1", len(pin.SetCalls))
	}
}

func TestFakePinErrors(t *testing.T) {
	pin := NewFakePin(Low)
	setErr := errors.New("set failed")
	readErr := errors.New("read failed")

	pin.SetError = setErr
	if err := pin.Set(High); !errors.Is(err, setErr) {
		t.Errorf("Set error: got %v, want %v", err, setErr)
	}
	if pin.Level != Low {
		t.Error("level must not change when Set fails")
	}

	pin.ReadError = readErr
	if _, err := pin.Read(); !errors.Is(err, readErr) {
		t.Errorf("Read error: got %v, want %v", err, readErr)
	}
}

func TestFakePinClose(t *testing.T) {
	pin := NewFakePin(Low)
	if err := pin.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pin.Closed {
		t.Error("expected Closed=true")
	}
}

func TestLevelString(t *testing.T) {
	if got := High.String(); got != "HIGH" {
		t.Errorf("High.String(): got %q, want HIGH", got)
	}
	if got := Low.String(); got != "LOW" {
		t.Errorf("Low.String(): got %q, want LOW", got)
	}
}
