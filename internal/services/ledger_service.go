package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"ledger-service/internal/database/minio"
	"ledger-service/internal/event"
	"ledger-service/internal/models"
	"ledger-service/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	entityTrader   = "Trader"
	entityBill     = "Bill"
	entityBillItem = "Bill item"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, event event.LedgerEvent) error
}

type BillImageStore interface {
	PutBillImage(ctx context.Context, billID int64, contentType string, size int64, reader io.Reader) (string, error)
}

type BillImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ILedgerService interface {
	ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error)
	GetTrader(ctx context.Context, id int64) (*models.Trader, error)
	CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error)
	UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error)
	DeleteTrader(ctx context.Context, id int64) error
	GetBalance(ctx context.Context, traderID int64) (*models.TraderBalance, error)
	GetStatistics(ctx context.Context) (*models.LedgerStatistics, error)
	ExportTraders(ctx context.Context, w io.Writer) error

	GetBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error)
	GetBill(ctx context.Context, id int64) (*models.Bill, error)
	CreateBill(ctx context.Context, traderID int64, req models.CreateBillRequest, createdBy *int64) (*models.Bill, error)
	UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error)
	DeleteBill(ctx context.Context, id int64) error
	UploadBillImage(ctx context.Context, billID int64, upload BillImageUpload) (*models.Bill, error)

	AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error)
	UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error)
	RemoveBillItem(ctx context.Context, id int64) error

	GetPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error)
	RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error)
}

// LedgerService guards the ledger invariants on top of the store. The event
// publisher and image store are optional.
type LedgerService struct {
	repo      repository.ILedgerRepository
	publisher EventPublisher
	images    BillImageStore
	now       func() time.Time
}

func NewLedgerService(repo repository.ILedgerRepository, publisher EventPublisher, images BillImageStore) *LedgerService {
	return &LedgerService{
		repo:      repo,
		publisher: publisher,
		images:    images,
		now:       time.Now,
	}
}

var _ ILedgerService = (*LedgerService)(nil)

func (s *LedgerService) publish(ctx context.Context, evt event.LedgerEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, evt); err != nil {
		slog.Error("failed to publish ledger event",
			"event_type", evt.EventType,
			"trader_id", evt.TraderID,
			"error", err)
	}
}

func (s *LedgerService) requireTrader(ctx context.Context, id int64) (*models.Trader, error) {
	trader, err := s.repo.GetTraderByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, entityTrader, id)
	}
	return trader, nil
}

// ============================================================================
// TRADERS
// ============================================================================

func (s *LedgerService) ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error) {
	return s.repo.ListTraders(ctx, params)
}

func (s *LedgerService) GetTrader(ctx context.Context, id int64) (*models.Trader, error) {
	return s.requireTrader(ctx, id)
}

func (s *LedgerService) CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}
	return s.repo.CreateTrader(ctx, req)
}

func (s *LedgerService) UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}
	trader, err := s.repo.UpdateTrader(ctx, id, req)
	if err != nil {
		return nil, mapNotFound(err, entityTrader, id)
	}
	return trader, nil
}

func (s *LedgerService) DeleteTrader(ctx context.Context, id int64) error {
	trader, err := s.requireTrader(ctx, id)
	if err != nil {
		return err
	}
	if trader.CurrentBalance.IsPositive() {
		return newValidationError("Cannot delete trader with outstanding balance")
	}

	deleted, err := s.repo.DeleteTrader(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Entity: entityTrader, ID: id}
	}
	return nil
}

func (s *LedgerService) GetBalance(ctx context.Context, traderID int64) (*models.TraderBalance, error) {
	trader, err := s.requireTrader(ctx, traderID)
	if err != nil {
		return nil, err
	}
	balance := models.NewTraderBalance(trader)
	return &balance, nil
}

func (s *LedgerService) GetStatistics(ctx context.Context) (*models.LedgerStatistics, error) {
	return s.repo.GetStatistics(ctx)
}

// ============================================================================
// BILLS
// ============================================================================

func (s *LedgerService) GetBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error) {
	if _, err := s.requireTrader(ctx, traderID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListBills(ctx, traderID, params)
}

func (s *LedgerService) GetBill(ctx context.Context, id int64) (*models.Bill, error) {
	bill, err := s.repo.GetBillWithItems(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, entityBill, id)
	}
	return bill, nil
}

// resolveBillTotals derives subtotal and total for a new bill. Supplied items
// override any caller subtotal.
func resolveBillTotals(req models.CreateBillRequest) (subtotal, tax, total decimal.Decimal) {
	if req.Subtotal != nil {
		subtotal = *req.Subtotal
	}
	if req.TaxAmount != nil {
		tax = *req.TaxAmount
	}
	if len(req.Items) > 0 {
		subtotal = decimal.Zero
		for _, item := range req.Items {
			subtotal = subtotal.Add(models.LineTotal(item.QuantityOrDefault(), *item.UnitCost))
		}
	}
	return subtotal, tax, subtotal.Add(tax)
}

func (s *LedgerService) CreateBill(ctx context.Context, traderID int64, req models.CreateBillRequest, createdBy *int64) (*models.Bill, error) {
	trader, err := s.requireTrader(ctx, traderID)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}

	subtotal, tax, total := resolveBillTotals(req)
	if !total.IsPositive() && !subtotal.IsPositive() {
		return nil, newValidationError("Bill must have a total amount greater than zero")
	}

	billDate := models.NewDate(s.now())
	if req.BillDate != nil {
		billDate = *req.BillDate
	}
	dueDate := req.DueDate
	if dueDate == nil {
		derived := models.NewDate(billDate.AddDate(0, 0, trader.PaymentTerms))
		dueDate = &derived
	}

	input := models.CreateBillInput{
		NumberYear:  s.now().Year(),
		BillDate:    billDate,
		DueDate:     dueDate,
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: total,
		BillImage:   req.BillImage,
		Notes:       req.Notes,
		CreatedBy:   createdBy,
	}
	if req.BillNumber != nil {
		input.BillNumber = strings.TrimSpace(*req.BillNumber)
	}

	bill, err := s.repo.CreateBillWithItems(ctx, traderID, input, req.Items)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateBillNumber) {
			return nil, validationFrom(err)
		}
		return nil, err
	}

	s.publish(ctx, event.NewLedgerEvent(event.BillCreated, traderID, s.now()).
		WithBill(bill.ID).
		WithAmount(bill.TotalAmount).
		With("bill_number", bill.BillNumber))

	return bill, nil
}

func (s *LedgerService) UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}
	bill, err := s.repo.UpdateBill(ctx, id, req)
	if err != nil {
		return nil, mapNotFound(err, entityBill, id)
	}
	return bill, nil
}

func (s *LedgerService) DeleteBill(ctx context.Context, id int64) error {
	bill, err := s.repo.GetBillByID(ctx, id)
	if err != nil {
		return mapNotFound(err, entityBill, id)
	}
	if bill.AmountPaid.IsPositive() {
		return newValidationError("Cannot delete bill with payments applied")
	}

	deleted, err := s.repo.DeleteBill(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Entity: entityBill, ID: id}
	}

	s.publish(ctx, event.NewLedgerEvent(event.BillDeleted, bill.TraderID, s.now()).
		WithBill(bill.ID).
		With("bill_number", bill.BillNumber))
	return nil
}

func (s *LedgerService) UploadBillImage(ctx context.Context, billID int64, upload BillImageUpload) (*models.Bill, error) {
	if s.images == nil {
		return nil, ErrImageStorageUnavailable
	}
	if _, err := s.repo.GetBillByID(ctx, billID); err != nil {
		return nil, mapNotFound(err, entityBill, billID)
	}
	if _, err := minio.ValidateBillImage(upload.ContentType, upload.Size); err != nil {
		return nil, validationFrom(err)
	}

	url, err := s.images.PutBillImage(ctx, billID, upload.ContentType, upload.Size, upload.Reader)
	if err != nil {
		return nil, err
	}

	bill, err := s.repo.UpdateBill(ctx, billID, models.UpdateBillRequest{BillImage: &url})
	if err != nil {
		return nil, mapNotFound(err, entityBill, billID)
	}
	return bill, nil
}

// ============================================================================
// BILL ITEMS
// ============================================================================

func (s *LedgerService) AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error) {
	if _, err := s.repo.GetBillByID(ctx, billID); err != nil {
		return nil, mapNotFound(err, entityBill, billID)
	}
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}
	item, err := s.repo.AddBillItem(ctx, billID, req)
	if err != nil {
		return nil, mapNotFound(err, entityBill, billID)
	}
	return item, nil
}

func (s *LedgerService) UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error) {
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}
	item, err := s.repo.UpdateBillItem(ctx, id, req)
	if err != nil {
		return nil, mapNotFound(err, entityBillItem, id)
	}
	return item, nil
}

func (s *LedgerService) RemoveBillItem(ctx context.Context, id int64) error {
	removed, err := s.repo.RemoveBillItem(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{Entity: entityBillItem, ID: id}
	}
	return nil
}

// ============================================================================
// PAYMENTS
// ============================================================================

func (s *LedgerService) GetPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error) {
	if _, err := s.requireTrader(ctx, traderID); err != nil {
		return nil, 0, err
	}
	return s.repo.ListPayments(ctx, traderID, page, limit)
}

// RecordPayment stores a payment and announces it. The trader's
// current_balance is left to the consumer of payment.recorded.
func (s *LedgerService) RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error) {
	if _, err := s.requireTrader(ctx, traderID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, validationFrom(err)
	}

	if req.BillID != nil {
		bill, err := s.repo.GetBillByID(ctx, *req.BillID)
		if errors.Is(err, repository.ErrRecordNotFound) {
			return nil, newValidationError("Bill %d does not exist", *req.BillID)
		}
		if err != nil {
			return nil, err
		}
		if bill.TraderID != traderID {
			return nil, newValidationError("Bill %d does not belong to this trader", *req.BillID)
		}
	}

	payment, err := s.repo.RecordPayment(ctx, traderID, req, createdBy)
	if err != nil {
		return nil, err
	}

	evt := event.NewLedgerEvent(event.PaymentRecorded, traderID, s.now()).
		WithPayment(payment.ID, payment.Amount).
		With("payment_method", string(payment.PaymentMethod))
	if payment.BillID != nil {
		evt = evt.WithBill(*payment.BillID)
	}
	s.publish(ctx, evt)

	return payment, nil
}
