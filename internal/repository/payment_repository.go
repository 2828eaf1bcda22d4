package repository

import (
	"context"
	"fmt"

	"ledger-service/internal/models"
	"ledger-service/shared/utils"
)

const paymentSelect = `
	SELECT p.id, p.trader_id, p.bill_id, p.amount, p.payment_method, p.payment_date,
		p.reference_number, p.notes, p.created_by, p.created_at,
		b.bill_number,
		a.full_name AS created_by_name
	FROM trader_payments p
	LEFT JOIN trader_bills b ON b.id = p.bill_id
	LEFT JOIN admins a ON a.id = p.created_by`

// RecordPayment stores a payment. It does not touch the trader's
// current_balance; that is maintained by the consumer of payment events.
func (r *LedgerRepository) RecordPayment(ctx context.Context, traderID int64, req models.CreatePaymentRequest, createdBy *int64) (*models.Payment, error) {
	var paymentDate any
	if req.PaymentDate != nil {
		paymentDate = *req.PaymentDate
	}

	query := `
		INSERT INTO trader_payments (
			trader_id, bill_id, amount, payment_method, payment_date,
			reference_number, notes, created_by
		) VALUES ($1, $2, $3, $4, COALESCE($5::date, CURRENT_DATE), $6, $7, $8)
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		traderID, req.BillID, *req.Amount, string(req.MethodOrDefault()), paymentDate,
		req.ReferenceNumber, req.Notes, createdBy,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert payment: %w", err)
	}

	var payment models.Payment
	if err := r.db.GetContext(ctx, &payment, paymentSelect+" WHERE p.id = $1", id); err != nil {
		return nil, notFoundOr(err, "get payment by id")
	}
	return &payment, nil
}

func (r *LedgerRepository) ListPayments(ctx context.Context, traderID int64, page, limit int) ([]models.Payment, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM trader_payments WHERE trader_id = $1", traderID); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	payments := []models.Payment{}
	query := paymentSelect + " WHERE p.trader_id = $1 ORDER BY p.payment_date DESC, p.id DESC LIMIT $2 OFFSET $3"
	if err := r.db.SelectContext(ctx, &payments, query, traderID, limit, utils.PageOffset(page, limit)); err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, total, nil
}
