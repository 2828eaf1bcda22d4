package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ledger-service/internal/services"
	"ledger-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

type operation int

const (
	opRead operation = iota
	opWrite
)

// respondError is the single place service errors become status codes:
// not found maps to 404, validation to 400, and anything else to 400 on
// writes or 500 on reads.
func respondError(c fiber.Ctx, err error, op operation, failure string) error {
	var notFound *services.NotFoundError
	var validation *services.ValidationError

	switch {
	case errors.As(err, &notFound):
		return c.Status(http.StatusNotFound).JSON(utils.CreateErrorResponse("NOT_FOUND", notFound.Error()))
	case errors.As(err, &validation):
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("VALIDATION_ERROR", validation.Message))
	case errors.Is(err, services.ErrImageStorageUnavailable):
		return c.Status(http.StatusServiceUnavailable).JSON(utils.CreateErrorResponse("STORAGE_UNAVAILABLE", err.Error()))
	case strings.Contains(strings.ToLower(err.Error()), "not found"):
		return c.Status(http.StatusNotFound).JSON(utils.CreateErrorResponse("NOT_FOUND", err.Error()))
	}

	slog.Error(failure, "method", c.Method(), "path", c.Path(), "error", err)
	if op == opWrite {
		return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse("OPERATION_FAILED", failure))
	}
	return c.Status(http.StatusInternalServerError).JSON(utils.CreateErrorResponse("RETRIEVAL_FAILED", failure))
}

func badRequest(c fiber.Ctx, code, message string) error {
	return c.Status(http.StatusBadRequest).JSON(utils.CreateErrorResponse(code, message))
}
