// Package gpio provides digital output pin control with hardware abstraction.
// The real implementation uses Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Level is a digital pin level.
type Level bool

// Pin levels.
const (
	Low  Level = false
	High Level = true
)

// String returns "HIGH" or "LOW".
func (l Level) String() string {
	if l == High {
		return "HIGH"
	}
	return "LOW"
}

// Pin drives and reads back a single digital output.
type Pin interface {
	// Set drives the pin to the given level.
	Set(level Level) error

	// Read returns the current physical level of the pin.
	Read() (Level, error)

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM number of the charge pin.
// GPIO 17 matches the test-bench wiring (capacitor/relay charge line).
const DefaultPin = 17
