package handlers

import (
	"net/http"

	"ledger-service/internal/services"
	"ledger-service/shared/utils"

	"github.com/gofiber/fiber/v3"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

type LedgerHandler struct {
	ledgerService services.ILedgerService
	formatter     *ResponseFormatter
}

func NewLedgerHandler(ledgerService services.ILedgerService, formatter *ResponseFormatter) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
		formatter:     formatter,
	}
}

// Register mounts the ledger routes. Middleware applies to the protected
// group only.
func (h *LedgerHandler) Register(app *fiber.App, middleware ...fiber.Handler) {
	app.Get("/ledger/public/api/v1/ping", h.Ping)

	protectedGr := app.Group("/ledger/protected/api/v1")
	for _, mw := range middleware {
		protectedGr.Use(mw)
	}

	// static segments before /:id
	traderGroup := protectedGr.Group("/traders")
	traderGroup.Get("/", h.ListTraders)
	traderGroup.Post("/", h.CreateTrader)
	traderGroup.Get("/statistics", h.GetStatistics)
	traderGroup.Get("/export", h.ExportTraders)
	traderGroup.Get("/:id", h.GetTrader)
	traderGroup.Put("/:id", h.UpdateTrader)
	traderGroup.Delete("/:id", h.DeleteTrader)
	traderGroup.Get("/:id/balance", h.GetBalance)
	traderGroup.Get("/:id/bills", h.GetTraderBills)
	traderGroup.Post("/:id/bills", h.CreateBill)
	traderGroup.Get("/:id/payments", h.GetTraderPayments)
	traderGroup.Post("/:id/payments", h.RecordPayment)

	billGroup := protectedGr.Group("/bills")
	billGroup.Get("/:id", h.GetBill)
	billGroup.Put("/:id", h.UpdateBill)
	billGroup.Delete("/:id", h.DeleteBill)
	billGroup.Post("/:id/image", h.UploadBillImage)
	billGroup.Post("/:id/items", h.AddBillItem)

	itemGroup := protectedGr.Group("/bill-items")
	itemGroup.Put("/:id", h.UpdateBillItem)
	itemGroup.Delete("/:id", h.RemoveBillItem)
}

func (h *LedgerHandler) Ping(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(utils.CreateSuccessResponse(fiber.Map{"service": "ledger-service", "status": "ok"}))
}

func (h *LedgerHandler) ok(c fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(utils.CreateMessageResponse(message, h.formatter.Format(data)))
}

func (h *LedgerHandler) page(c fiber.Ctx, data any, page, limit, total int) error {
	return c.Status(http.StatusOK).JSON(utils.CreatePaginatedResponse(h.formatter.Format(data), page, limit, total))
}

// pagination reads page and limit, falling back to 1 and 10 on missing or
// malformed values and capping limit at 100.
func pagination(c fiber.Ctx) (int, int) {
	page := utils.ParsePositiveInt(c.Query("page"), defaultPage)
	limit := utils.ParsePositiveInt(c.Query("limit"), defaultLimit)
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}

func pathID(c fiber.Ctx) (int64, error) {
	return utils.ParseID(c.Params("id"))
}

func invalidID(c fiber.Ctx) error {
	return badRequest(c, "INVALID_ID", "Invalid id")
}

// createdBy returns the admin id the auth middleware stored, if any.
func createdBy(c fiber.Ctx) *int64 {
	if id, ok := c.Locals(localAdminID).(int64); ok && id > 0 {
		return &id
	}
	return nil
}

// bindBody decodes the JSON body into T and trims every string in it.
func bindBody[T any](c fiber.Ctx) (T, error) {
	var req T
	if err := c.Bind().Body(&req); err != nil {
		return req, err
	}
	return utils.TrimAllStringFields(req).(T), nil
}

func invalidBody(c fiber.Ctx, err error) error {
	return badRequest(c, "INVALID_REQUEST", "Invalid request body: "+err.Error())
}
