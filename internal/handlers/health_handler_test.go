package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"ledger-service/internal/event"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisherHealth struct {
	status event.PublisherHealthStatus
}

func (f fakePublisherHealth) HealthCheck() event.PublisherHealthStatus {
	return f.status
}

func newHealthApp(pingDB func(context.Context) error, publisher PublisherHealth) *fiber.App {
	app := fiber.New()
	NewHealthHandler(pingDB, publisher).Register(app)
	return app
}

func healthRequest() *http.Request {
	return httptest.NewRequest(http.MethodGet, "/checkhealth", nil)
}

func TestCheckHealth_DatabaseDown(t *testing.T) {
	app := newHealthApp(func(context.Context) error { return errors.New("connection refused") }, nil)

	status, body := doRequest(t, app, healthRequest())

	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "down", body["data"].(map[string]any)["database"])
}

func TestCheckHealth_ReportsPublisher(t *testing.T) {
	publisher := fakePublisherHealth{status: event.PublisherHealthStatus{IsHealthy: false, MessagesFailed: 3, Queue: event.LedgerQueue}}
	app := newHealthApp(func(context.Context) error { return nil }, publisher)

	status, body := doRequest(t, app, healthRequest())

	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "up", data["database"])
	assert.Equal(t, "degraded", data["status"])
	events := data["events"].(map[string]any)
	assert.Equal(t, false, events["is_healthy"])
	assert.Equal(t, float64(3), events["messages_failed"])
}

func TestCheckHealth_EventsDisabled(t *testing.T) {
	app := newHealthApp(func(context.Context) error { return nil }, nil)

	status, body := doRequest(t, app, healthRequest())

	require.Equal(t, http.StatusOK, status)
	data := body["data"].(map[string]any)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, "disabled", data["events"])
}
