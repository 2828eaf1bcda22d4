package models

import "github.com/shopspring/decimal"

type LedgerStatistics struct {
	TotalTraders   int64           `json:"total_traders" db:"total_traders"`
	ActiveTraders  int64           `json:"active_traders" db:"active_traders"`
	TotalBalance   decimal.Decimal `json:"total_balance" db:"total_balance"`
	TotalPurchases decimal.Decimal `json:"total_purchases" db:"total_purchases"`
	TotalPayments  decimal.Decimal `json:"total_payments" db:"total_payments"`
	UnpaidBills    int64           `json:"unpaid_bills" db:"unpaid_bills"`
	TotalAmountDue decimal.Decimal `json:"total_amount_due" db:"total_amount_due"`
}
