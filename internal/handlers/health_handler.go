package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"ledger-service/internal/event"
	"ledger-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

const healthCheckTimeout = 2 * time.Second

type PublisherHealth interface {
	HealthCheck() event.PublisherHealthStatus
}

// HealthHandler answers /checkhealth. The database decides the status code;
// the event publisher is reported but only degrades the result, since events
// are best-effort.
type HealthHandler struct {
	pingDB    func(ctx context.Context) error
	publisher PublisherHealth
}

// NewHealthHandler takes a database ping and an optional publisher.
func NewHealthHandler(pingDB func(ctx context.Context) error, publisher PublisherHealth) *HealthHandler {
	return &HealthHandler{pingDB: pingDB, publisher: publisher}
}

func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/checkhealth", h.CheckHealth)
}

func (h *HealthHandler) CheckHealth(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	data := fiber.Map{"service": "ledger-service", "status": "ok", "database": "up"}
	if err := h.pingDB(ctx); err != nil {
		slog.Warn("health check: database unreachable", "error", err)
		data["status"] = "unavailable"
		data["database"] = "down"
		return c.Status(http.StatusServiceUnavailable).JSON(utils.CreateMessageResponse("Ledger service database is unavailable", data))
	}

	if h.publisher == nil {
		data["events"] = "disabled"
	} else {
		publisherStatus := h.publisher.HealthCheck()
		data["events"] = publisherStatus
		if !publisherStatus.IsHealthy {
			data["status"] = "degraded"
		}
	}
	return c.Status(http.StatusOK).JSON(utils.CreateMessageResponse("Ledger service is healthy", data))
}
