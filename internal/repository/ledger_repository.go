package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"ledger-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrDuplicateBillNumber = errors.New("bill number already exists")
)

// billNumberLockKey serializes bill number generation across concurrent
// bill creations for the length of the creating transaction.
const billNumberLockKey int64 = 7_412_001

type ILedgerRepository interface {
	ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error)
	ListAllTraders(ctx context.Context) ([]models.Trader, error)
	GetTraderByID(ctx context.Context, id int64) (*models.Trader, error)
	CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error)
	UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error)
	DeleteTrader(ctx context.Context, id int64) (bool, error)
	GetStatistics(ctx context.Context) (*models.LedgerStatistics, error)

	ListBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error)
	GetBillByID(ctx context.Context, id int64) (*models.Bill, error)
	GetBillWithItems(ctx context.Context, id int64) (*models.Bill, error)
	CreateBillWithItems(ctx context.Context, traderID int64, input models.CreateBillInput, items []models.CreateBillItemRequest) (*models.Bill, error)
	UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error)
	DeleteBill(ctx context.Context, id int64) (bool, error)

	AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error)
	UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error)
	RemoveBillItem(ctx context.Context, id int64) (bool, error)

	RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error)
	ListPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error)
}

// LedgerRepository persists traders, bills, bill items and payments and keeps
// each bill's subtotal and total_amount consistent with its items.
type LedgerRepository struct {
	db *sqlx.DB
}

var _ ILedgerRepository = (*LedgerRepository)(nil)

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) BeginTransaction(ctx context.Context) (*sqlx.Tx, error) {
	slog.Debug("Beginning database transaction")
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		slog.Error("Failed to begin transaction", "error", err)
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// inTx runs fn in one transaction, committing only when fn succeeds.
func (r *LedgerRepository) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.BeginTransaction(ctx)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func notFoundOr(err error, action string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
