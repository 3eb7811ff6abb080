// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"
)

// Topic is the MQTT topic for charge cycle events.
const Topic = "bench/charger/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "bench/charger/system"

// EventType identifies a charge cycle event.
type EventType string

const (
	EventChargeStart    EventType = "CHARGE_START"
	EventChargeComplete EventType = "CHARGE_COMPLETE"
	EventChargeStop     EventType = "CHARGE_STOP"
)

// ChargeEvent represents a charge cycle event to be published.
type ChargeEvent struct {
	Timestamp time.Time
	Type      EventType
	// Duration is the requested hold time; set for CHARGE_START only.
	Duration time.Duration
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a charge cycle event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event ChargeEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Charger ChargerPayload `json:"charger"`
}

// ChargerPayload contains the charge event details.
// DurationMs is only carried by CHARGE_START.
type ChargerPayload struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	DurationMs int64  `json:"duration_ms,omitempty"`
}

// FormatPayload creates the JSON payload for a charge event.
func FormatPayload(event ChargeEvent) ([]byte, error) {
	payload := Payload{
		Charger: ChargerPayload{
			Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
			Event:      string(event.Type),
			DurationMs: event.Duration.Milliseconds(),
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
