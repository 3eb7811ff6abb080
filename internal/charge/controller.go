package charge

import (
	"fmt"
	"sync"
	"time"

	"github.com/scrooge/charge-bench/internal/gpio"
)

// Controller owns the charge pin's commanded state. At most one charge
// session is active at a time; Tick is the only path that ends a session
// naturally. All methods are safe for concurrent use: HTTP handlers and
// the poll loop run on separate goroutines, so the session is guarded by
// a single mutex.
type Controller struct {
	mu  sync.Mutex
	pin gpio.Pin
	now func() time.Time

	active    bool
	startedAt time.Time
	duration  time.Duration
	counts    Counts
}

// NewController creates a Controller for the given pin.
// now supplies the clock; pass time.Now outside tests. time.Time carries a
// monotonic reading, so elapsed-time math is immune to wall-clock steps.
func NewController(pin gpio.Pin, now func() time.Time) *Controller {
	return &Controller{
		pin: pin,
		now: now,
	}
}

// Start begins a charge cycle of the given duration and drives the pin HIGH
// before returning. It fails with ErrChargeActive if a cycle is already in
// progress, and with ErrDurationRange if duration is outside
// [MinDuration, MaxDuration]. Returns the accepted duration.
func (c *Controller) Start(duration time.Duration) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		c.counts.Rejects++
		return 0, ErrChargeActive
	}
	if duration < MinDuration || duration > MaxDuration {
		c.counts.Rejects++
		return 0, ErrDurationRange
	}

	if err := c.pin.Set(gpio.High); err != nil {
		return 0, fmt.Errorf("drive pin high: %w", err)
	}

	c.active = true
	c.startedAt = c.now()
	c.duration = duration
	c.counts.Starts++
	return duration, nil
}

// Stop unconditionally drives the pin LOW and clears any active session.
// It is idempotent and callable in any state; stopped reports whether a
// session was actually aborted. The session is cleared even if the pin
// write fails: a stop is an abort of the commanded state, and a stuck-HIGH
// pin then shows up as a discrepancy on the next idle Status.
func (c *Controller) Stop() (stopped bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stopped = c.active
	if c.active {
		c.counts.Stops++
	}
	c.active = false

	if err := c.pin.Set(gpio.Low); err != nil {
		return stopped, fmt.Errorf("drive pin low: %w", err)
	}
	return stopped, nil
}

// Status reports the current charge state. While charging it is computed
// from the commanded session; while idle the level comes from a hardware
// readback, so external tampering or a wiring fault is reported rather
// than the controller's own memory.
func (c *Controller) Status() (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active {
		elapsed := c.now().Sub(c.startedAt)
		remaining := c.duration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		return Status{
			State:     StateCharging,
			Level:     gpio.High,
			Duration:  c.duration,
			Remaining: remaining,
		}, nil
	}

	level, err := c.pin.Read()
	if err != nil {
		return Status{}, fmt.Errorf("read pin: %w", err)
	}
	return Status{
		State: StateIdle,
		Level: level,
	}, nil
}

// Tick checks the active session for expiry and ends it when the requested
// duration has elapsed, driving the pin LOW. It returns true exactly once
// per session, on the tick that completed it. Outside an active session it
// is a no-op. If the pin write fails the session stays live so the next
// tick retries the write.
func (c *Controller) Tick() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.active {
		return false, nil
	}
	if c.now().Sub(c.startedAt) < c.duration {
		return false, nil
	}

	if err := c.pin.Set(gpio.Low); err != nil {
		return false, fmt.Errorf("drive pin low: %w", err)
	}
	c.active = false
	c.counts.Completes++
	return true, nil
}

// CountsSnapshot returns a copy of the event counts since startup.
func (c *Controller) CountsSnapshot() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts
}
