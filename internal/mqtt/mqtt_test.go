package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestFormatPayload(t *testing.T) {
	event := ChargeEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Type:      EventChargeStart,
		Duration:  5 * time.Second,
	}

	payload, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed Payload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.Charger.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.Charger.Timestamp)
	}
	if parsed.Charger.Event != "CHARGE_START" {
		t.Errorf("unexpected event: %s", parsed.Charger.Event)
	}
	if parsed.Charger.DurationMs != 5000 {
		t.Errorf("duration_ms: got %d, want 5000", parsed.Charger.DurationMs)
	}
}

func TestFormatPayloadAllEventTypes(t *testing.T) {
	tests := []struct {
		eventType EventType
		duration  time.Duration
		wantEvent string
		wantMs    int64
	}{
		{EventChargeStart, 500 * time.Millisecond, "CHARGE_START", 500},
		{EventChargeComplete, 60 * time.Second, "CHARGE_COMPLETE", 60000},
		{EventChargeStop, 5 * time.Second, "CHARGE_STOP", 5000},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			event := ChargeEvent{
				Timestamp: time.Now(),
				Type:      tt.eventType,
				Duration:  tt.duration,
			}

			payload, err := FormatPayload(event)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var parsed Payload
			if err := json.Unmarshal(payload, &parsed); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}

			if parsed.Charger.Event != tt.wantEvent {
				t.Errorf("event: got %s, want %s", parsed.Charger.Event, tt.wantEvent)
			}
			if parsed.Charger.DurationMs != tt.wantMs {
				t.Errorf("duration_ms: got %d, want %d", parsed.Charger.DurationMs, tt.wantMs)
			}
		})
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parsed SystemPayload
	if err := json.Unmarshal(payload, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if parsed.System.Timestamp != "2026-02-02T22:18:12Z" {
		t.Errorf("unexpected timestamp: %s", parsed.System.Timestamp)
	}
	if parsed.System.Event != "SHUTDOWN" {
		t.Errorf("unexpected event: %s", parsed.System.Event)
	}
	if parsed.System.Reason != "SIGTERM" {
		t.Errorf("unexpected reason: %s", parsed.System.Reason)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["system"]["reason"]; present {
		t.Error("empty reason should be omitted")
	}
}

func TestFormatSystemPayloadRawPassthrough(t *testing.T) {
	raw := []byte(`{"status":{"event":"STARTUP"}}`)
	event := SystemEvent{RawPayload: raw}

	payload, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(payload) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", payload)
	}
}

func TestFakePublisherRecordsEvents(t *testing.T) {
	f := NewFakePublisher()

	event := ChargeEvent{
		Timestamp: time.Now(),
		Type:      EventChargeStart,
		Duration:  time.Second,
	}
	if err := f.Publish(event); err != nil {
		t.Fatalf("Publish: %v", err)
	}

	if len(f.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(f.Events))
	}
	if f.Events[0].Type != EventChargeStart {
		t.Errorf("event type: got %s, want CHARGE_START", f.Events[0].Type)
	}
	if len(f.Payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(f.Payloads))
	}
}

func TestFakePublisherError(t *testing.T) {
	f := NewFakePublisher()
	wantErr := errors.New("broker down")
	f.PublishError = wantErr

	err := f.Publish(ChargeEvent{Type: EventChargeStop})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected injected error, got %v", err)
	}
	if len(f.Events) != 0 {
		t.Error("event recorded despite error")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(ChargeEvent{Type: EventChargeStart})
	f.PublishSystem(SystemEvent{Event: "STARTUP"})
	f.Connected = true

	f.Reset()

	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("Reset did not clear recorded events")
	}
	if f.IsConnected() {
		t.Error("Reset did not clear connection state")
	}
}
