package gpio

// FakePin is a test double that remembers the driven level.
type FakePin struct {
	// Level is the current physical level of the fake pin.
	Level Level

	// SetCalls records every level passed to Set, in order.
	SetCalls []Level

	// HighTransitions counts LOW→HIGH edges driven via Set.
	HighTransitions int

	// Closed tracks if Close was called.
	Closed bool

	// SetError, if set, will be returned by Set (level is left unchanged).
	SetError error

	// ReadError, if set, will be returned by Read.
	ReadError error
}

// NewFakePin creates a FakePin at the given initial level.
func NewFakePin(level Level) *FakePin {
	return &FakePin{Level: level}
}

// Set drives the fake pin.
func (f *FakePin) Set(level Level) error {
	if f.SetError != nil {
		return f.SetError
	}
	if f.Level == Low && level == High {
		f.HighTransitions++
	}
	f.Level = level
	f.SetCalls = append(f.SetCalls, level)
	return nil
}

// Read returns the current fake level.
func (f *FakePin) Read() (Level, error) {
	if f.ReadError != nil {
		return Low, f.ReadError
	}
	return f.Level, nil
}

// Force overrides the physical level without recording a Set call,
// simulating external tampering or a wiring fault.
func (f *FakePin) Force(level Level) {
	f.Level = level
}

// Close marks the pin as closed.
func (f *FakePin) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded calls and restores the pin to LOW.
func (f *FakePin) Reset() {
	f.Level = Low
	f.SetCalls = nil
	f.HighTransitions = 0
	f.Closed = false
	f.SetError = nil
	f.ReadError = nil
}
