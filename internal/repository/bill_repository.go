package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ledger-service/internal/models"
	"ledger-service/shared/utils"

	"github.com/jmoiron/sqlx"
)

const billSelect = `
	SELECT b.id, b.trader_id, b.bill_number, b.bill_date, b.due_date, b.subtotal, b.tax_amount,
		b.total_amount, b.amount_paid, b.amount_due, b.payment_status, b.bill_image, b.notes,
		b.created_by, b.created_at, b.updated_at,
		t.company_name AS trader_name,
		a.full_name AS created_by_name,
		(SELECT COUNT(*) FROM trader_bill_items i WHERE i.bill_id = b.id) AS item_count
	FROM trader_bills b
	LEFT JOIN traders t ON t.id = b.trader_id
	LEFT JOIN admins a ON a.id = b.created_by`

const billItemSelect = `
	SELECT i.id, i.bill_id, i.product_id, i.description, i.quantity, i.unit_cost, i.total_cost,
		i.created_at, p.name AS product_name
	FROM trader_bill_items i
	LEFT JOIN products p ON p.id = i.product_id`

var billUpdatableFields = map[string]bool{
	"bill_date":      true,
	"due_date":       true,
	"tax_amount":     true,
	"payment_status": true,
	"bill_image":     true,
	"notes":          true,
}

// NextBillNumber returns the bill number following last within year. A last
// number from another year, or one without a numeric suffix, restarts at 00001.
func NextBillNumber(year int, last string) string {
	prefix := fmt.Sprintf("TRD-%04d-", year)
	seq := 0
	if strings.HasPrefix(last, prefix) {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil && n > 0 {
			seq = n
		}
	}
	return fmt.Sprintf("%s%05d", prefix, seq+1)
}

// GenerateBillNumber derives the next number for year from the highest
// well-formed TRD-<year>-NNNNN number stored. Caller-supplied numbers that do
// not follow the format are ignored, and lower ones never rewind the
// sequence. Inside a transaction it holds an advisory lock until commit, so
// concurrent creators get distinct numbers.
func (r *LedgerRepository) GenerateBillNumber(ctx context.Context, q sqlx.ExtContext, year int) (string, error) {
	if _, isTx := q.(*sqlx.Tx); isTx {
		if _, err := q.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", billNumberLockKey); err != nil {
			return "", fmt.Errorf("failed to lock bill number sequence: %w", err)
		}
	}

	var last string
	err := sqlx.GetContext(ctx, q, &last,
		`SELECT bill_number FROM trader_bills
		WHERE bill_number ~ $1
		ORDER BY length(bill_number) DESC, bill_number DESC
		LIMIT 1`,
		fmt.Sprintf("^TRD-%04d-[0-9]{5,}$", year))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("failed to read last bill number: %w", err)
	}

	return NextBillNumber(year, last), nil
}

func (r *LedgerRepository) ListBills(ctx context.Context, traderID int64, params models.BillListParams) ([]models.Bill, int, error) {
	var filter utils.FilterBuilder
	filter.Add("b.trader_id = ?", traderID)
	if status := strings.TrimSpace(params.PaymentStatus); status != "" {
		filter.Add("b.payment_status = ?", status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM trader_bills b"+filter.Where(), filter.Args()...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bills: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY b.bill_date DESC, b.id DESC LIMIT %s OFFSET %s",
		billSelect, filter.Where(), filter.Next(1), filter.Next(2))
	args := append(filter.Args(), params.Limit, utils.PageOffset(params.Page, params.Limit))

	bills := []models.Bill{}
	if err := r.db.SelectContext(ctx, &bills, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list bills: %w", err)
	}
	return bills, total, nil
}

func (r *LedgerRepository) GetBillByID(ctx context.Context, id int64) (*models.Bill, error) {
	return getBill(ctx, r.db, id)
}

// GetBillWithItems loads a bill and its items in insertion order.
func (r *LedgerRepository) GetBillWithItems(ctx context.Context, id int64) (*models.Bill, error) {
	bill, err := getBill(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if bill.Items, err = listBillItems(ctx, r.db, id); err != nil {
		return nil, err
	}
	return bill, nil
}

func getBill(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.Bill, error) {
	var bill models.Bill
	if err := sqlx.GetContext(ctx, q, &bill, billSelect+" WHERE b.id = $1", id); err != nil {
		return nil, notFoundOr(err, "get bill by id")
	}
	return &bill, nil
}

func listBillItems(ctx context.Context, q sqlx.QueryerContext, billID int64) ([]models.BillItem, error) {
	items := []models.BillItem{}
	if err := sqlx.SelectContext(ctx, q, &items, billItemSelect+" WHERE i.bill_id = $1 ORDER BY i.id ASC", billID); err != nil {
		return nil, fmt.Errorf("failed to list bill items: %w", err)
	}
	return items, nil
}

func getBillItem(ctx context.Context, q sqlx.QueryerContext, id int64) (*models.BillItem, error) {
	var item models.BillItem
	if err := sqlx.GetContext(ctx, q, &item, billItemSelect+" WHERE i.id = $1", id); err != nil {
		return nil, notFoundOr(err, "get bill item by id")
	}
	return &item, nil
}

// lockBill takes the bill row lock that serializes item mutations and
// recomputes on one bill.
func lockBill(ctx context.Context, tx *sqlx.Tx, billID int64) error {
	var id int64
	if err := tx.GetContext(ctx, &id, "SELECT id FROM trader_bills WHERE id = $1 FOR UPDATE", billID); err != nil {
		return notFoundOr(err, "lock bill")
	}
	return nil
}

// CreateBillWithItems inserts a bill and its items in one transaction,
// recomputing the bill totals after each item.
func (r *LedgerRepository) CreateBillWithItems(ctx context.Context, traderID int64, input models.CreateBillInput, items []models.CreateBillItemRequest) (*models.Bill, error) {
	var billID int64
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		billNumber := strings.TrimSpace(input.BillNumber)
		if billNumber == "" {
			year := input.NumberYear
			if year == 0 {
				year = time.Now().Year()
			}
			generated, err := r.GenerateBillNumber(ctx, tx, year)
			if err != nil {
				return err
			}
			billNumber = generated
		}

		query := `
			INSERT INTO trader_bills (
				trader_id, bill_number, bill_date, due_date, subtotal, tax_amount,
				total_amount, bill_image, notes, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`

		err := tx.QueryRowxContext(ctx, query,
			traderID, billNumber, input.BillDate, input.DueDate, input.Subtotal, input.TaxAmount,
			input.TotalAmount, input.BillImage, input.Notes, input.CreatedBy,
		).Scan(&billID)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: %s", ErrDuplicateBillNumber, billNumber)
			}
			return fmt.Errorf("failed to insert bill: %w", err)
		}

		for _, item := range items {
			if _, err := insertBillItem(ctx, tx, billID, item); err != nil {
				return err
			}
			if err := r.RecalculateBillTotals(ctx, tx, billID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBillWithItems(ctx, billID)
}

// UpdateBill writes only the supplied fields. When tax_amount changes the
// total is rederived from the stored subtotal in the same transaction.
func (r *LedgerRepository) UpdateBill(ctx context.Context, id int64, req models.UpdateBillRequest) (*models.Bill, error) {
	if req.IsEmpty() {
		return r.GetBillByID(ctx, id)
	}

	built, err := utils.BuildDynamicUpdateQuery("trader_bills", req.Fields(), billUpdatableFields, "id", id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build bill update: %w", err)
	}

	var bill *models.Bill
	err = r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockBill(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, built.Query, built.Args...); err != nil {
			return fmt.Errorf("failed to update bill: %w", err)
		}
		if req.TaxAmount != nil {
			if _, err := tx.ExecContext(ctx, "UPDATE trader_bills SET total_amount = subtotal + tax_amount WHERE id = $1", id); err != nil {
				return fmt.Errorf("failed to update bill total: %w", err)
			}
		}
		var err error
		bill, err = getBill(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (r *LedgerRepository) DeleteBill(ctx context.Context, id int64) (bool, error) {
	err := utils.ExecWithCheck(ctx, r.db, "DELETE FROM trader_bills WHERE id = $1", utils.ExecDelete, id)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete bill: %w", err)
	}
	return true, nil
}

func insertBillItem(ctx context.Context, tx *sqlx.Tx, billID int64, req models.CreateBillItemRequest) (int64, error) {
	quantity := req.QuantityOrDefault()
	unitCost := *req.UnitCost

	query := `
		INSERT INTO trader_bill_items (bill_id, product_id, description, quantity, unit_cost, total_cost)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := tx.QueryRowxContext(ctx, query,
		billID, req.ProductID, strings.TrimSpace(req.Description), quantity, unitCost, models.LineTotal(quantity, unitCost),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bill item: %w", err)
	}
	return id, nil
}

// AddBillItem inserts an item and recomputes its bill in one transaction.
func (r *LedgerRepository) AddBillItem(ctx context.Context, billID int64, req models.CreateBillItemRequest) (*models.BillItem, error) {
	var item *models.BillItem
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		if err := lockBill(ctx, tx, billID); err != nil {
			return err
		}
		id, err := insertBillItem(ctx, tx, billID, req)
		if err != nil {
			return err
		}
		if err := r.RecalculateBillTotals(ctx, tx, billID); err != nil {
			return err
		}
		item, err = getBillItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateBillItem merges the supplied fields over the stored item, recomputes
// its total cost and then the parent bill, all in one transaction.
func (r *LedgerRepository) UpdateBillItem(ctx context.Context, id int64, req models.UpdateBillItemRequest) (*models.BillItem, error) {
	var item *models.BillItem
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		billID, err := billIDForItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := lockBill(ctx, tx, billID); err != nil {
			return err
		}

		stored, err := getBillItem(ctx, tx, id)
		if err != nil {
			return err
		}
		merged := req.Apply(*stored)

		query := `
			UPDATE trader_bill_items
			SET product_id = $1, description = $2, quantity = $3, unit_cost = $4, total_cost = $5
			WHERE id = $6`
		if err := utils.ExecWithCheck(ctx, tx, query, utils.ExecUpdate,
			merged.ProductID, merged.Description, merged.Quantity, merged.UnitCost, merged.TotalCost, id); err != nil {
			return fmt.Errorf("failed to update bill item: %w", err)
		}

		if err := r.RecalculateBillTotals(ctx, tx, billID); err != nil {
			return err
		}
		item, err = getBillItem(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveBillItem deletes an item and recomputes its bill. It reports false
// when the item does not exist.
func (r *LedgerRepository) RemoveBillItem(ctx context.Context, id int64) (bool, error) {
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		billID, err := billIDForItem(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := lockBill(ctx, tx, billID); err != nil {
			return err
		}
		if err := utils.ExecWithCheck(ctx, tx, "DELETE FROM trader_bill_items WHERE id = $1", utils.ExecDelete, id); err != nil {
			if errors.Is(err, utils.ErrNoRowsAffected) {
				return ErrRecordNotFound
			}
			return fmt.Errorf("failed to delete bill item: %w", err)
		}
		return r.RecalculateBillTotals(ctx, tx, billID)
	})
	if errors.Is(err, ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func billIDForItem(ctx context.Context, tx *sqlx.Tx, itemID int64) (int64, error) {
	var billID int64
	if err := tx.GetContext(ctx, &billID, "SELECT bill_id FROM trader_bill_items WHERE id = $1", itemID); err != nil {
		return 0, notFoundOr(err, "get bill item")
	}
	return billID, nil
}

// RecalculateBillTotals sets subtotal to the sum of the bill's item costs and
// total_amount to subtotal + tax_amount. It is idempotent and runs on q so it
// can join the caller's transaction.
func (r *LedgerRepository) RecalculateBillTotals(ctx context.Context, q sqlx.ExtContext, billID int64) error {
	query := `
		UPDATE trader_bills b
		SET subtotal = s.subtotal,
			total_amount = s.subtotal + b.tax_amount,
			updated_at = NOW()
		FROM (
			SELECT COALESCE(SUM(total_cost), 0) AS subtotal
			FROM trader_bill_items WHERE bill_id = $1
		) s
		WHERE b.id = $1`

	err := utils.ExecWithCheck(ctx, q, query, utils.ExecUpdate, billID)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return ErrRecordNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to recalculate bill totals: %w", err)
	}
	return nil
}
