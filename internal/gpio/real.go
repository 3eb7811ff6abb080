//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealPin drives GPIO on actual hardware using Linux GPIO character device.
type RealPin struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealPin requests the given BCM pin as an output, driven LOW.
func NewRealPin(pin int) (*RealPin, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// Request as output, initially LOW. The charge line must never float
	// HIGH across a restart.
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request charge pin %d: %w", pin, err)
	}

	return &RealPin{
		chip: chip,
		line: line,
	}, nil
}

// Set drives the pin to the given level.
func (p *RealPin) Set(level Level) error {
	v := 0
	if level == High {
		v = 1
	}
	if err := p.line.SetValue(v); err != nil {
		return fmt.Errorf("set charge pin: %w", err)
	}
	return nil
}

// Read returns the current physical level of the pin. Output lines on the
// character device report the driven value, so this also reflects any
// external pull on the net when the line is released.
func (p *RealPin) Read() (Level, error) {
	raw, err := p.line.Value()
	if err != nil {
		return Low, fmt.Errorf("read charge pin: %w", err)
	}
	return raw != 0, nil
}

// Close drives the pin LOW and releases GPIO resources.
// Reconfigures the line to input (matching Pi boot defaults) before closing
// so the relay circuit sees a clean state across daemon restarts.
func (p *RealPin) Close() error {
	var errs []error

	if p.line != nil {
		if err := p.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("drive pin low: %w", err))
		}
		if err := p.line.Reconfigure(gpiocdev.AsInput); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure pin: %w", err))
		}
		if err := p.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pin: %w", err))
		}
	}
	if p.chip != nil {
		if err := p.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
