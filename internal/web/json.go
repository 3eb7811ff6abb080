package web

// APIVersion is reported by /info and the OpenAPI document.
const APIVersion = "1.0.1"

// MessageResponse is the generic success/error envelope.
type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// StateResponse is the /state payload. DurationMs and TimeRemainingMs are
// present only while charging.
type StateResponse struct {
	Status          string `json:"status"`
	GPIOLevel       string `json:"gpio_level"`
	DurationMs      *int64 `json:"duration_ms,omitempty"`
	TimeRemainingMs *int64 `json:"time_remaining_ms,omitempty"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status   string `json:"status"`
	Device   string `json:"device"`
	UptimeMs int64  `json:"uptime_ms"`
}

// InfoResponse is the /info payload.
type InfoResponse struct {
	Project     string `json:"project"`
	Description string `json:"description"`
	ChargePin   int    `json:"charge_pin"`
	APIVersion  string `json:"api_version"`
}
