package handlers

import (
	"net/http"

	"ledger-service/internal/models"

	"github.com/gofiber/fiber/v3"
)

func (h *LedgerHandler) GetTraderPayments(c fiber.Ctx) error {
	traderID, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	page, limit := pagination(c)

	payments, total, err := h.ledgerService.GetPayments(c.Context(), traderID, page, limit)
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve payments")
	}
	return h.page(c, payments, page, limit, total)
}

func (h *LedgerHandler) RecordPayment(c fiber.Ctx) error {
	traderID, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.CreatePaymentRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	payment, err := h.ledgerService.RecordPayment(c.Context(), traderID, req, createdBy(c))
	if err != nil {
		return respondError(c, err, opWrite, "Failed to record payment")
	}
	return h.ok(c, http.StatusCreated, "Payment recorded successfully", payment)
}
