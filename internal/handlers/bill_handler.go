package handlers

import (
	"net/http"

	"ledger-service/internal/models"
	"ledger-service/internal/services"

	"github.com/gofiber/fiber/v3"
)

func (h *LedgerHandler) GetTraderBills(c fiber.Ctx) error {
	traderID, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	page, limit := pagination(c)

	bills, total, err := h.ledgerService.GetBills(c.Context(), traderID, models.BillListParams{
		Page:          page,
		Limit:         limit,
		PaymentStatus: c.Query("payment_status"),
	})
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve bills")
	}
	return h.page(c, bills, page, limit, total)
}

func (h *LedgerHandler) CreateBill(c fiber.Ctx) error {
	traderID, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.CreateBillRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	bill, err := h.ledgerService.CreateBill(c.Context(), traderID, req, createdBy(c))
	if err != nil {
		return respondError(c, err, opWrite, "Failed to create bill")
	}
	return h.ok(c, http.StatusCreated, "Bill created successfully", bill)
}

func (h *LedgerHandler) GetBill(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	bill, err := h.ledgerService.GetBill(c.Context(), id)
	if err != nil {
		return respondError(c, err, opRead, "Failed to retrieve bill")
	}
	return h.ok(c, http.StatusOK, "", bill)
}

func (h *LedgerHandler) UpdateBill(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.UpdateBillRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	bill, err := h.ledgerService.UpdateBill(c.Context(), id, req)
	if err != nil {
		return respondError(c, err, opWrite, "Failed to update bill")
	}
	return h.ok(c, http.StatusOK, "Bill updated successfully", bill)
}

func (h *LedgerHandler) DeleteBill(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.ledgerService.DeleteBill(c.Context(), id); err != nil {
		return respondError(c, err, opWrite, "Failed to delete bill")
	}
	return h.ok(c, http.StatusOK, "Bill deleted successfully", nil)
}

func (h *LedgerHandler) UploadBillImage(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return badRequest(c, "INVALID_REQUEST", "image file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return badRequest(c, "INVALID_REQUEST", "failed to read image file")
	}
	defer file.Close()

	bill, err := h.ledgerService.UploadBillImage(c.Context(), id, services.BillImageUpload{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get(fiber.HeaderContentType),
		Size:        fileHeader.Size,
		Reader:      file,
	})
	if err != nil {
		return respondError(c, err, opWrite, "Failed to upload bill image")
	}
	return h.ok(c, http.StatusOK, "Bill image uploaded successfully", bill)
}

func (h *LedgerHandler) AddBillItem(c fiber.Ctx) error {
	billID, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.CreateBillItemRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	item, err := h.ledgerService.AddBillItem(c.Context(), billID, req)
	if err != nil {
		return respondError(c, err, opWrite, "Failed to add bill item")
	}
	return h.ok(c, http.StatusCreated, "Bill item added successfully", item)
}

func (h *LedgerHandler) UpdateBillItem(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}
	req, err := bindBody[models.UpdateBillItemRequest](c)
	if err != nil {
		return invalidBody(c, err)
	}

	item, err := h.ledgerService.UpdateBillItem(c.Context(), id, req)
	if err != nil {
		return respondError(c, err, opWrite, "Failed to update bill item")
	}
	return h.ok(c, http.StatusOK, "Bill item updated successfully", item)
}

func (h *LedgerHandler) RemoveBillItem(c fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return invalidID(c)
	}

	if err := h.ledgerService.RemoveBillItem(c.Context(), id); err != nil {
		return respondError(c, err, opWrite, "Failed to remove bill item")
	}
	return h.ok(c, http.StatusOK, "Bill item removed successfully", nil)
}
