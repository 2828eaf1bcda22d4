package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ledger-service/internal/models"
	"ledger-service/shared/utils"

	"github.com/shopspring/decimal"
)

const traderSelect = `
	SELECT t.id, t.company_name, t.contact_person, t.phone, t.email, t.address, t.tax_number,
		t.payment_terms, t.credit_limit, t.current_balance, t.status, t.notes, t.created_at, t.updated_at,
		COALESCE(b.bill_count, 0) AS bill_count,
		COALESCE(b.total_purchases, 0) AS total_purchases,
		COALESCE(p.total_payments, 0) AS total_payments
	FROM traders t
	LEFT JOIN (
		SELECT trader_id, COUNT(*) AS bill_count, SUM(total_amount) AS total_purchases
		FROM trader_bills GROUP BY trader_id
	) b ON b.trader_id = t.id
	LEFT JOIN (
		SELECT trader_id, SUM(amount) AS total_payments
		FROM trader_payments GROUP BY trader_id
	) p ON p.trader_id = t.id`

var traderSortColumns = map[string]string{
	"id":              "t.id",
	"company_name":    "t.company_name",
	"current_balance": "t.current_balance",
	"status":          "t.status",
	"created_at":      "t.created_at",
}

var traderUpdatableFields = map[string]bool{
	"company_name":   true,
	"contact_person": true,
	"phone":          true,
	"email":          true,
	"address":        true,
	"tax_number":     true,
	"payment_terms":  true,
	"credit_limit":   true,
	"status":         true,
	"notes":          true,
}

// resolveTraderSort maps a requested sort to an ORDER BY clause. Unknown
// columns fall back to created_at DESC; unknown directions fall back to DESC.
func resolveTraderSort(sort, order string) string {
	column, ok := traderSortColumns[strings.ToLower(strings.TrimSpace(sort))]
	if !ok {
		return "t.created_at DESC, t.id DESC"
	}
	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s, t.id %s", column, direction, direction)
}

func (r *LedgerRepository) ListTraders(ctx context.Context, params models.TraderListParams) ([]models.Trader, int, error) {
	var filter utils.FilterBuilder
	if search := strings.TrimSpace(params.Search); search != "" {
		like := "%" + search + "%"
		filter.Add("(t.company_name ILIKE ? OR t.contact_person ILIKE ? OR t.phone ILIKE ? OR t.email ILIKE ?)",
			like, like, like, like)
	}
	if status := strings.TrimSpace(params.Status); status != "" {
		filter.Add("t.status = ?", status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM traders t"+filter.Where(), filter.Args()...); err != nil {
		return nil, 0, fmt.Errorf("failed to count traders: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY %s LIMIT %s OFFSET %s",
		traderSelect, filter.Where(), resolveTraderSort(params.Sort, params.Order), filter.Next(1), filter.Next(2))
	args := append(filter.Args(), params.Limit, utils.PageOffset(params.Page, params.Limit))

	traders := []models.Trader{}
	if err := r.db.SelectContext(ctx, &traders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list traders: %w", err)
	}
	return traders, total, nil
}

// ListAllTraders returns every trader ordered by company name, for exports.
func (r *LedgerRepository) ListAllTraders(ctx context.Context) ([]models.Trader, error) {
	traders := []models.Trader{}
	if err := r.db.SelectContext(ctx, &traders, traderSelect+" ORDER BY t.company_name ASC, t.id ASC"); err != nil {
		return nil, fmt.Errorf("failed to list all traders: %w", err)
	}
	return traders, nil
}

func (r *LedgerRepository) GetTraderByID(ctx context.Context, id int64) (*models.Trader, error) {
	var trader models.Trader
	if err := r.db.GetContext(ctx, &trader, traderSelect+" WHERE t.id = $1", id); err != nil {
		return nil, notFoundOr(err, "get trader by id")
	}
	return &trader, nil
}

func (r *LedgerRepository) CreateTrader(ctx context.Context, req models.CreateTraderRequest) (*models.Trader, error) {
	paymentTerms := 30
	if req.PaymentTerms != nil {
		paymentTerms = *req.PaymentTerms
	}
	creditLimit := decimal.Zero
	if req.CreditLimit != nil {
		creditLimit = *req.CreditLimit
	}
	status := models.TraderActive
	if req.Status != nil {
		status = *req.Status
	}

	query := `
		INSERT INTO traders (
			company_name, contact_person, phone, email, address, tax_number,
			payment_terms, credit_limit, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		strings.TrimSpace(req.CompanyName), req.ContactPerson, req.Phone, req.Email, req.Address, req.TaxNumber,
		paymentTerms, creditLimit, string(status), req.Notes,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to insert trader: %w", err)
	}

	return r.GetTraderByID(ctx, id)
}

// UpdateTrader writes only the supplied fields. An empty request returns the
// stored trader unchanged.
func (r *LedgerRepository) UpdateTrader(ctx context.Context, id int64, req models.UpdateTraderRequest) (*models.Trader, error) {
	if req.IsEmpty() {
		return r.GetTraderByID(ctx, id)
	}

	built, err := utils.BuildDynamicUpdateQuery("traders", req.Fields(), traderUpdatableFields, "id", id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to build trader update: %w", err)
	}

	if err := utils.ExecWithCheck(ctx, r.db, built.Query, utils.ExecUpdate, built.Args...); err != nil {
		if errors.Is(err, utils.ErrNoRowsAffected) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to update trader: %w", err)
	}

	return r.GetTraderByID(ctx, id)
}

func (r *LedgerRepository) DeleteTrader(ctx context.Context, id int64) (bool, error) {
	err := utils.ExecWithCheck(ctx, r.db, "DELETE FROM traders WHERE id = $1", utils.ExecDelete, id)
	if errors.Is(err, utils.ErrNoRowsAffected) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to delete trader: %w", err)
	}
	return true, nil
}

func (r *LedgerRepository) GetStatistics(ctx context.Context) (*models.LedgerStatistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM traders) AS total_traders,
			(SELECT COUNT(*) FROM traders WHERE status = 'active') AS active_traders,
			(SELECT COALESCE(SUM(current_balance), 0) FROM traders) AS total_balance,
			(SELECT COALESCE(SUM(total_amount), 0) FROM trader_bills) AS total_purchases,
			(SELECT COALESCE(SUM(amount), 0) FROM trader_payments) AS total_payments,
			(SELECT COUNT(*) FROM trader_bills WHERE payment_status <> 'paid') AS unpaid_bills,
			(SELECT COALESCE(SUM(amount_due), 0) FROM trader_bills WHERE payment_status <> 'paid') AS total_amount_due`

	var stats models.LedgerStatistics
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("failed to get ledger statistics: %w", err)
	}
	return &stats, nil
}
