package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"ledger-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

func (h *LedgerHandler) ListTraders(c fiber.Ctx) error {
	page, limit := pagination(c)
	params := models.TraderListParams{
		Page:   page,
		Limit:  limit,
		Search: c.Query("search"),
		Status: c.Query("status"),
		Sort:   c.Query("sort", "created_at"),
		Order:  c.Query("order", "desc"),
	}

	traders, total, err := h.ledgerService.ListTraders(c.Context(), params)
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve traders")
	}
	return h.page(c, traders, page, limit, total)
}

func (h *LedgerHandler) GetTrader(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	trader, err := h.ledgerService.GetTrader(c.Context(), id)
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve trader")
	}
	return h.ok(c, http.StatusOK, "", trader)
}

func (h *LedgerHandler) CreateTrader(c fiber.Ctx) error {
	req, err := bindBody[models.CreateTraderRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	trader, err := h.ledgerService.CreateTrader(c.Context(), req)
	if err != nil {
		return respondError(c, err, opWrite, "Failed to create trader")
	}
	return h.ok(c, http.StatusCreated, "Trader created successfully", trader)
}

func (h *LedgerHandler) UpdateTrader(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.UpdateTraderRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	trader, err := h.ledgerService.UpdateTrader(c.Context(), id, req)
	if err != nil {
		return respondError(c, err, opWrite, "Failed to update trader")
	}
	return h.ok(c, http.StatusOK, "Trader updated successfully", trader)
}

func (h *LedgerHandler) DeleteTrader(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.ledgerService.DeleteTrader(c.Context(), id); err != nil {
		return respondError(c, err, opWrite, "Failed to delete trader")
	}
	return h.ok(c, http.StatusOK, "Trader deleted successfully", nil)
}

func (h *LedgerHandler) GetBalance(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	balance, err := h.ledgerService.GetBalance(c.Context(), id)
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve trader balance")
	}
	return h.ok(c, http.StatusOK, "", balance)
}

func (h *LedgerHandler) GetStatistics(c fiber.Ctx) error {
	stats, err := h.ledgerService.GetStatistics(c.Context())
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve trader statistics")
	}
	return h.ok(c, http.StatusOK, "", stats)
}

func (h *LedgerHandler) ExportTraders(c fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.ledgerService.ExportTraders(c.Context(), &buf); err != nil {
		return respondError(c, err, opRead, "Failed to export traders")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"traders_%s.xlsx\"", time.Now().Format("20060102")))
	return c.Status(http.StatusOK).Send(buf.Bytes())
}
