package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger-service/shared/utils"

	"github.com/shopspring/decimal"
)

// Trader is a supplier. CurrentBalance is maintained outside this service and
// is read exactly as stored.
type Trader struct {
	ID             int64           `json:"id" db:"id"`
	CompanyName    string          `json:"company_name" db:"company_name"`
	ContactPerson  *string         `json:"contact_person" db:"contact_person"`
	Phone          *string         `json:"phone" db:"phone"`
	Email          *string         `json:"email" db:"email"`
	Address        *string         `json:"address" db:"address"`
	TaxNumber      *string         `json:"tax_number" db:"tax_number"`
	PaymentTerms   int             `json:"payment_terms" db:"payment_terms"`
	CreditLimit    decimal.Decimal `json:"credit_limit" db:"credit_limit"`
	CurrentBalance decimal.Decimal `json:"current_balance" db:"current_balance"`
	Status         TraderStatus    `json:"status" db:"status"`
	Notes          *string         `json:"notes" db:"notes"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`

	BillCount      int64           `json:"bill_count" db:"bill_count"`
	TotalPurchases decimal.Decimal `json:"total_purchases" db:"total_purchases"`
	TotalPayments  decimal.Decimal `json:"total_payments" db:"total_payments"`
}

type TraderBalance struct {
	TraderID        int64           `json:"trader_id"`
	CompanyName     string          `json:"company_name"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
	CreditLimit     decimal.Decimal `json:"credit_limit"`
	AvailableCredit decimal.Decimal `json:"available_credit"`
	TotalPurchases  decimal.Decimal `json:"total_purchases"`
	TotalPayments   decimal.Decimal `json:"total_payments"`
	BillCount       int64           `json:"bill_count"`
}

func NewTraderBalance(t *Trader) TraderBalance {
	return TraderBalance{
		TraderID:        t.ID,
		CompanyName:     t.CompanyName,
		CurrentBalance:  t.CurrentBalance,
		CreditLimit:     t.CreditLimit,
		AvailableCredit: t.CreditLimit.Sub(t.CurrentBalance),
		TotalPurchases:  t.TotalPurchases,
		TotalPayments:   t.TotalPayments,
		BillCount:       t.BillCount,
	}
}

type TraderListParams struct {
	Page   int
	Limit  int
	Search string
	Status string
	Sort   string
	Order  string
}

type CreateTraderRequest struct {
	CompanyName   string           `json:"company_name"`
	ContactPerson *string          `json:"contact_person,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Email         *string          `json:"email,omitempty"`
	Address       *string          `json:"address,omitempty"`
	TaxNumber     *string          `json:"tax_number,omitempty"`
	PaymentTerms  *int             `json:"payment_terms,omitempty"`
	CreditLimit   *decimal.Decimal `json:"credit_limit,omitempty"`
	Status        *TraderStatus    `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r CreateTraderRequest) Validate() error {
	if strings.TrimSpace(r.CompanyName) == "" {
		return errors.New("Company name is required")
	}
	return validateTraderFields(r.Email, r.PaymentTerms, r.CreditLimit, r.Status)
}

// UpdateTraderRequest carries only the fields the caller supplied.
type UpdateTraderRequest struct {
	CompanyName   *string          `json:"company_name,omitempty"`
	ContactPerson *string          `json:"contact_person,omitempty"`
	Phone         *string          `json:"phone,omitempty"`
	Email         *string          `json:"email,omitempty"`
	Address       *string          `json:"address,omitempty"`
	TaxNumber     *string          `json:"tax_number,omitempty"`
	PaymentTerms  *int             `json:"payment_terms,omitempty"`
	CreditLimit   *decimal.Decimal `json:"credit_limit,omitempty"`
	Status        *TraderStatus    `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r UpdateTraderRequest) Validate() error {
	if r.CompanyName != nil && strings.TrimSpace(*r.CompanyName) == "" {
		return errors.New("Company name cannot be empty")
	}
	return validateTraderFields(r.Email, r.PaymentTerms, r.CreditLimit, r.Status)
}

func (r UpdateTraderRequest) Fields() []utils.UpdateField {
	var fields []utils.UpdateField
	add := func(column string, set bool, value any) {
		if set {
			fields = append(fields, utils.UpdateField{Column: column, Value: value})
		}
	}
	add("company_name", r.CompanyName != nil, deref(r.CompanyName))
	add("contact_person", r.ContactPerson != nil, deref(r.ContactPerson))
	add("phone", r.Phone != nil, deref(r.Phone))
	add("email", r.Email != nil, deref(r.Email))
	add("address", r.Address != nil, deref(r.Address))
	add("tax_number", r.TaxNumber != nil, deref(r.TaxNumber))
	add("payment_terms", r.PaymentTerms != nil, deref(r.PaymentTerms))
	add("credit_limit", r.CreditLimit != nil, deref(r.CreditLimit))
	add("status", r.Status != nil, string(deref(r.Status)))
	add("notes", r.Notes != nil, deref(r.Notes))
	return fields
}

func (r UpdateTraderRequest) IsEmpty() bool {
	return len(r.Fields()) == 0
}

func validateTraderFields(email *string, paymentTerms *int, creditLimit *decimal.Decimal, status *TraderStatus) error {
	if email != nil && strings.TrimSpace(*email) != "" {
		if ok, err := utils.ValidateEmail(*email); !ok {
			return err
		}
	}
	if paymentTerms != nil && *paymentTerms < 0 {
		return errors.New("Payment terms cannot be negative")
	}
	if creditLimit != nil && creditLimit.IsNegative() {
		return errors.New("Credit limit cannot be negative")
	}
	if creditLimit != nil && !FitsCents(*creditLimit) {
		return errors.New("Credit limit cannot have more than 2 decimal places")
	}
	if status != nil && !status.IsValid() {
		return fmt.Errorf("Invalid trader status: %s", *status)
	}
	return nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
