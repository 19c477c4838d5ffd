// Package utils hosts small cross-cutting helpers shared by middleware and
// handlers.
package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// TelemetryClient wraps the posthog client so callers never have to care
// whether telemetry is configured.
type TelemetryClient struct {
	posthogClient posthog.Client
	logger        *slog.Logger
}

// InitializeTelemetryClient returns a usable client even when the API key is
// empty; in that case every call is a no-op.
func InitializeTelemetryClient(apiKey string, logger *slog.Logger) *TelemetryClient {
	if apiKey == "" {
		logger.Warn("Telemetry API key is empty, event tracking disabled.")
		return &TelemetryClient{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize telemetry client", slog.String("error", err.Error()))
		return &TelemetryClient{}
	}
	return &TelemetryClient{posthogClient: client, logger: logger}
}

// IsInitialized reports whether events will actually be sent.
func (t *TelemetryClient) IsInitialized() bool {
	return t.posthogClient != nil
}

// Enqueue sends one event attributed to the given actor.
func (t *TelemetryClient) Enqueue(distinctID string, event string, properties map[string]any) {
	if t.posthogClient == nil {
		return
	}
	if err := t.posthogClient.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	}); err != nil && t.logger != nil {
		t.logger.Warn("Failed to enqueue telemetry event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// Close flushes and shuts down the underlying client.
func (t *TelemetryClient) Close() {
	if t.posthogClient == nil {
		return
	}
	t.posthogClient.Close()
}
