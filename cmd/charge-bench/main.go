// Command charge-bench drives the capacitor charge pin and exposes the
// control API over HTTP, publishing charge cycle events to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scrooge/charge-bench/internal/charge"
	"github.com/scrooge/charge-bench/internal/gpio"
	"github.com/scrooge/charge-bench/internal/mqtt"
	"github.com/scrooge/charge-bench/internal/status"
	"github.com/scrooge/charge-bench/internal/web"
)

func main() {
	pin := flag.Int("pin", gpio.DefaultPin, "BCM pin number for the charge line")
	poll := flag.Duration("poll", 5*time.Millisecond, "Charge expiry polling interval")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP API address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)
	printState := flag.Bool("print-state", false, "Print current pin state and exit")

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)

	if err := run(*pin, *poll, *heartbeat, *broker, *httpAddr, ws, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(pinNum int, poll, heartbeat time.Duration, broker, httpAddr, wsBroker string, printState bool) error {
	// Initialize GPIO
	pin, err := gpio.NewRealPin(pinNum)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pin.Close()

	// Print state mode
	if printState {
		level, err := pin.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("charge pin %d: %s\n", pinNum, level)
		return nil
	}

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	controller := charge.NewController(pin, time.Now)

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      poll.Milliseconds(),
		HeartbeatMs: heartbeat.Milliseconds(),
		Pin:         pinNum,
		Broker:      broker,
		HTTPAddr:    httpAddr,
		WSBroker:    wsBroker,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	tracker.SetMQTTConnected(publisher.IsConnected())
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP API server
	if httpAddr != "" {
		srv := web.New(httpAddr, controller, tracker, publisher)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http api listening on %s", httpAddr)
	}

	log.Printf("started: pin=%d poll=%v broker=%s heartbeat=%v", pinNum, poll, broker, heartbeat)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(controller, publisher, publisher, tracker, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(controller *charge.Controller, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)

			// Never leave the pin HIGH across an exit.
			if stopped, err := controller.Stop(); err != nil {
				log.Printf("stop on shutdown: %v", err)
			} else if stopped {
				log.Printf("aborted active charge on shutdown")
			}

			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				refreshTracker(controller, tracker)
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()

			done, err := controller.Tick()
			if err != nil {
				// The controller retries the pin write on the next tick.
				log.Printf("tick error: %v", err)
			}
			if done {
				log.Printf("charge complete, pin set LOW")
				if err := publisher.Publish(mqtt.ChargeEvent{
					Timestamp: t,
					Type:      mqtt.EventChargeComplete,
				}); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Check for heartbeat
			if tracker != nil && tracker.CheckHeartbeat(t, heartbeat) {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				// Refresh network info for heartbeat
				if net := readNetworkInfo(); net != nil {
					tracker.SetNetwork(net)
				}
				refreshTracker(controller, tracker)
				snap := tracker.Snapshot()
				log.Printf("heartbeat: uptime=%v starts=%d completes=%d stops=%d",
					snap.Uptime().Truncate(time.Second), snap.Counts.Starts, snap.Counts.Completes, snap.Counts.Stops)

				hbEvent := mqtt.SystemEvent{
					Timestamp:  t,
					Event:      "HEARTBEAT",
					RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				refreshTracker(controller, tracker)
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}

// refreshTracker copies the controller's current state into the tracker.
func refreshTracker(controller *charge.Controller, tracker *status.Tracker) {
	st, err := controller.Status()
	if err != nil {
		log.Printf("status read error: %v", err)
		return
	}
	tracker.Update(st, controller.CountsSnapshot())
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
