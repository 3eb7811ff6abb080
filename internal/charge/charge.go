// Package charge contains the timed-pulse state machine for the capacitor
// charge pin. The controller never blocks: a charge is started by a command
// and terminated by Tick calls from the host's poll loop, so there is no
// timer goroutine racing the command path.
package charge

import (
	"errors"
	"time"

	"github.com/scrooge/charge-bench/internal/gpio"
)

// Accepted charge duration range.
const (
	MinDuration = 100 * time.Millisecond
	MaxDuration = 60 * time.Second
)

// Errors returned by Start.
var (
	// ErrChargeActive means a charge cycle is already in progress.
	ErrChargeActive = errors.New("charging in progress")

	// ErrDurationRange means the requested duration is outside
	// [MinDuration, MaxDuration].
	ErrDurationRange = errors.New("duration must be between 100 and 60000 ms")
)

// State is the logical charge state.
type State string

const (
	StateIdle     State = "idle"
	StateCharging State = "charging"
)

// Status is a point-in-time view of the controller.
// Duration and Remaining are only meaningful while charging.
type Status struct {
	State     State
	Level     gpio.Level
	Duration  time.Duration
	Remaining time.Duration
}

// Counts tracks controller events since startup.
type Counts struct {
	Starts    int
	Completes int
	Stops     int
	Rejects   int
}
