// Package web provides the HTTP control API for the charge-bench daemon.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/scrooge/charge-bench/internal/charge"
	"github.com/scrooge/charge-bench/internal/mqtt"
	"github.com/scrooge/charge-bench/internal/status"
)

// Controller is the subset of the charge controller the API drives.
type Controller interface {
	Start(duration time.Duration) (time.Duration, error)
	Stop() (bool, error)
	Status() (charge.Status, error)
}

// Server serves the control API over HTTP.
type Server struct {
	httpServer *http.Server
	controller Controller
	tracker    *status.Tracker
	publisher  mqtt.Publisher
	now        func() time.Time
}

// New creates a Server driving the given controller. The publisher receives
// CHARGE_START/CHARGE_STOP events for successful commands; it may be nil.
func New(addr string, controller Controller, tracker *status.Tracker, publisher mqtt.Publisher) *Server {
	s := &Server{
		controller: controller,
		tracker:    tracker,
		publisher:  publisher,
		now:        time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/swagger", s.handleSwaggerUI)
	mux.HandleFunc("/swagger.json", s.handleSwaggerJSON)
	mux.HandleFunc("/charge", s.handleCharge)
	mux.HandleFunc("/stop", s.handleStop)
	mux.HandleFunc("/state", s.handleState)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/info", s.handleInfo)
	mux.HandleFunc("/status", s.handleStatusPage)
	mux.HandleFunc("/status.json", s.handleStatusJSON)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Handler returns the server's root handler. Useful for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w, r)
		return
	}
	http.Redirect(w, r, "/swagger", http.StatusFound)
}

func (s *Server) handleSwaggerUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(swaggerHTML))
}

func (s *Server) handleSwaggerJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(swaggerJSON))
}

// handleCharge starts a charge cycle: GET /charge?time=<ms>.
//
// The controller checks for an active cycle before it looks at the duration,
// so a missing or malformed parameter still answers 409 while charging.
func (s *Server) handleCharge(w http.ResponseWriter, r *http.Request) {
	arg := r.URL.Query().Get("time")
	ms, parseErr := strconv.ParseInt(arg, 10, 64)

	// Only values that cannot overflow the nanosecond conversion become a
	// real Duration. Everything else maps to a sentinel the controller
	// rejects as out of range.
	d := -time.Millisecond
	if parseErr == nil && ms >= 0 && ms <= charge.MaxDuration.Milliseconds() {
		d = time.Duration(ms) * time.Millisecond
	}

	accepted, err := s.controller.Start(d)
	switch {
	case errors.Is(err, charge.ErrChargeActive):
		writeJSON(w, http.StatusConflict, MessageResponse{
			Status:  "error",
			Message: "Charging in progress. Please wait.",
		})
		return
	case errors.Is(err, charge.ErrDurationRange):
		msg := "'time' must be between 100 and 60000 ms."
		if arg == "" {
			msg = "Missing 'time' parameter (ms)."
		} else if parseErr != nil {
			msg = "Invalid 'time' parameter (ms)."
		}
		writeJSON(w, http.StatusBadRequest, MessageResponse{
			Status:  "error",
			Message: msg,
		})
		return
	case err != nil:
		log.Printf("charge failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{
			Status:  "error",
			Message: "Hardware fault driving the charge pin.",
		})
		return
	}

	s.publish(mqtt.ChargeEvent{
		Timestamp: s.now(),
		Type:      mqtt.EventChargeStart,
		Duration:  accepted,
	})

	writeJSON(w, http.StatusOK, MessageResponse{
		Status:  "success",
		Message: fmt.Sprintf("Charge cycle initiated for %dms.", accepted.Milliseconds()),
	})
}

// handleStop aborts any active charge cycle: POST /stop.
func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, MessageResponse{
			Status:  "error",
			Message: "Use POST for /stop.",
		})
		return
	}

	stopped, err := s.controller.Stop()
	if err != nil {
		log.Printf("stop failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{
			Status:  "error",
			Message: "Hardware fault driving the charge pin.",
		})
		return
	}

	if stopped {
		s.publish(mqtt.ChargeEvent{
			Timestamp: s.now(),
			Type:      mqtt.EventChargeStop,
		})
		writeJSON(w, http.StatusOK, MessageResponse{
			Status:  "success",
			Message: "Charging stopped immediately.",
		})
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{
		Status:  "success",
		Message: "Not currently charging. Pin confirmed LOW.",
	})
}

// handleState reports the current charge state: GET /state.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, err := s.controller.Status()
	if err != nil {
		log.Printf("state read failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, MessageResponse{
			Status:  "error",
			Message: "Hardware fault reading the charge pin.",
		})
		return
	}

	resp := StateResponse{
		Status:    string(st.State),
		GPIOLevel: st.Level.String(),
	}
	if st.State == charge.StateCharging {
		d := st.Duration.Milliseconds()
		rem := st.Remaining.Milliseconds()
		resp.DurationMs = &d
		resp.TimeRemainingMs = &rem
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:   "ok",
		Device:   "charge-bench",
		UptimeMs: snap.Uptime().Milliseconds(),
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	writeJSON(w, http.StatusOK, InfoResponse{
		Project:     "Scrooge Capacitor Test Bench",
		Description: "Tests capacitor charge/discharge for zero-leakage switching using relays (no transistors/MOSFETs).",
		ChargePin:   snap.Config.Pin,
		APIVersion:  APIVersion,
	})
}

func (s *Server) handleStatusJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleStatusPage(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprintf(w, "Resource Not Found\n\nURI: %s\nMethod: %s\n", r.URL.Path, r.Method)
}

func (s *Server) publish(event mqtt.ChargeEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		// Don't fail the request on publish failure.
		log.Printf("publish %s: %v", event.Type, err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
