package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Payment struct {
	ID              int64           `json:"id" db:"id"`
	TraderID        int64           `json:"trader_id" db:"trader_id"`
	BillID          *int64          `json:"bill_id" db:"bill_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	PaymentMethod   PaymentMethod   `json:"payment_method" db:"payment_method"`
	PaymentDate     Date            `json:"payment_date" db:"payment_date"`
	ReferenceNumber *string         `json:"reference_number" db:"reference_number"`
	Notes           *string         `json:"notes" db:"notes"`
	CreatedBy       *int64          `json:"created_by" db:"created_by"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`

	BillNumber    *string `json:"bill_number" db:"bill_number"`
	CreatedByName *string `json:"created_by_name" db:"created_by_name"`
}

type CreatePaymentRequest struct {
	BillID          *int64           `json:"bill_id,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	PaymentMethod   *PaymentMethod   `json:"payment_method,omitempty"`
	PaymentDate     *Date            `json:"payment_date,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r CreatePaymentRequest) Validate() error {
	if r.Amount == nil || !r.Amount.IsPositive() {
		return errors.New("Payment amount must be greater than zero")
	}
	if !FitsCents(*r.Amount) {
		return errors.New("Payment amount cannot have more than 2 decimal places")
	}
	if r.PaymentMethod != nil && !r.PaymentMethod.IsValid() {
		return fmt.Errorf("Invalid payment method: %s", *r.PaymentMethod)
	}
	return nil
}

// MethodOrDefault returns the supplied method, or cash when omitted.
func (r CreatePaymentRequest) MethodOrDefault() PaymentMethod {
	if r.PaymentMethod == nil {
		return PaymentMethodCash
	}
	return *r.PaymentMethod
}
