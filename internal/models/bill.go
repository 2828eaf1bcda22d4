package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"ledger-service/shared/utils"

	"github.com/shopspring/decimal"
)

// Bill is a purchase bill from a trader. Subtotal and TotalAmount are derived
// from the bill's items; AmountDue is a generated column.
type Bill struct {
	ID            int64           `json:"id" db:"id"`
	TraderID      int64           `json:"trader_id" db:"trader_id"`
	BillNumber    string          `json:"bill_number" db:"bill_number"`
	BillDate      Date            `json:"bill_date" db:"bill_date"`
	DueDate       *Date           `json:"due_date" db:"due_date"`
	Subtotal      decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	AmountPaid    decimal.Decimal `json:"amount_paid" db:"amount_paid"`
	AmountDue     decimal.Decimal `json:"amount_due" db:"amount_due"`
	PaymentStatus PaymentStatus   `json:"payment_status" db:"payment_status"`
	BillImage     *string         `json:"bill_image" db:"bill_image"`
	Notes         *string         `json:"notes" db:"notes"`
	CreatedBy     *int64          `json:"created_by" db:"created_by"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"`

	TraderName    *string `json:"trader_name" db:"trader_name"`
	CreatedByName *string `json:"created_by_name" db:"created_by_name"`
	ItemCount     int64   `json:"item_count" db:"item_count"`

	Items []BillItem `json:"items,omitempty" db:"-"`
}

type BillItem struct {
	ID          int64           `json:"id" db:"id"`
	BillID      int64           `json:"bill_id" db:"bill_id"`
	ProductID   *int64          `json:"product_id" db:"product_id"`
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost" db:"total_cost"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`

	ProductName *string `json:"product_name" db:"product_name"`
}

type BillListParams struct {
	Page          int
	Limit         int
	PaymentStatus string
}

type CreateBillItemRequest struct {
	ProductID   *int64           `json:"product_id,omitempty"`
	Description string           `json:"description"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

// QuantityOrDefault returns the supplied quantity, or 1 when omitted.
func (r CreateBillItemRequest) QuantityOrDefault() decimal.Decimal {
	if r.Quantity == nil {
		return decimal.NewFromInt(1)
	}
	return *r.Quantity
}

func (r CreateBillItemRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("Item description is required")
	}
	if r.UnitCost == nil || !r.UnitCost.IsPositive() {
		return errors.New("Item unit cost must be greater than zero")
	}
	if !r.QuantityOrDefault().IsPositive() {
		return errors.New("Item quantity must be greater than zero")
	}
	return validateItemPrecision(r.Quantity, r.UnitCost)
}

type UpdateBillItemRequest struct {
	ProductID   *int64           `json:"product_id,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity,omitempty"`
	UnitCost    *decimal.Decimal `json:"unit_cost,omitempty"`
}

func (r UpdateBillItemRequest) Validate() error {
	if r.Description != nil && strings.TrimSpace(*r.Description) == "" {
		return errors.New("Item description cannot be empty")
	}
	if r.UnitCost != nil && !r.UnitCost.IsPositive() {
		return errors.New("Item unit cost must be greater than zero")
	}
	if r.Quantity != nil && !r.Quantity.IsPositive() {
		return errors.New("Item quantity must be greater than zero")
	}
	return validateItemPrecision(r.Quantity, r.UnitCost)
}

// Quantity and unit cost are stored with two decimals; anything finer would
// be rounded by the column and drift from the stored total_cost.
func validateItemPrecision(quantity, unitCost *decimal.Decimal) error {
	if quantity != nil && !FitsCents(*quantity) {
		return errors.New("Item quantity cannot have more than 2 decimal places")
	}
	if unitCost != nil && !FitsCents(*unitCost) {
		return errors.New("Item unit cost cannot have more than 2 decimal places")
	}
	return nil
}

// Apply merges the supplied fields over a stored item and recomputes its
// total cost.
func (r UpdateBillItemRequest) Apply(item BillItem) BillItem {
	if r.ProductID != nil {
		item.ProductID = r.ProductID
	}
	if r.Description != nil {
		item.Description = strings.TrimSpace(*r.Description)
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	if r.UnitCost != nil {
		item.UnitCost = *r.UnitCost
	}
	item.TotalCost = LineTotal(item.Quantity, item.UnitCost)
	return item
}

// FitsCents reports whether d is stored by a NUMERIC(_, 2) column unchanged.
func FitsCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// LineTotal is quantity × unit cost rounded to cents.
func LineTotal(quantity, unitCost decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitCost).Round(2)
}

type CreateBillRequest struct {
	BillNumber *string                 `json:"bill_number,omitempty"`
	BillDate   *Date                   `json:"bill_date,omitempty"`
	DueDate    *Date                   `json:"due_date,omitempty"`
	Subtotal   *decimal.Decimal        `json:"subtotal,omitempty"`
	TaxAmount  *decimal.Decimal        `json:"tax_amount,omitempty"`
	BillImage  *string                 `json:"bill_image,omitempty"`
	Notes      *string                 `json:"notes,omitempty"`
	Items      []CreateBillItemRequest `json:"items,omitempty"`
}

func (r CreateBillRequest) Validate() error {
	if r.BillNumber != nil {
		if err := ValidateBillNumber(*r.BillNumber); err != nil {
			return err
		}
	}
	if r.TaxAmount != nil && r.TaxAmount.IsNegative() {
		return errors.New("Tax amount cannot be negative")
	}
	if r.TaxAmount != nil && !FitsCents(*r.TaxAmount) {
		return errors.New("Tax amount cannot have more than 2 decimal places")
	}
	if r.Subtotal != nil && r.Subtotal.IsNegative() {
		return errors.New("Subtotal cannot be negative")
	}
	if r.Subtotal != nil && !FitsCents(*r.Subtotal) {
		return errors.New("Subtotal cannot have more than 2 decimal places")
	}
	if r.BillDate != nil && r.DueDate != nil && r.DueDate.Before(r.BillDate.Time) {
		return errors.New("Due date cannot be before bill date")
	}
	for i, item := range r.Items {
		if err := item.Validate(); err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

const maxBillNumberLength = 20

// billNumberPattern matches generated numbers; the suffix may outgrow five
// digits once a year passes 99999 bills.
var billNumberPattern = regexp.MustCompile(`^TRD-\d{4}-\d{5,}$`)

// ValidateBillNumber accepts free-form numbers, except that anything in the
// generated TRD- namespace must be well formed.
func ValidateBillNumber(number string) error {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil
	}
	if len(number) > maxBillNumberLength {
		return fmt.Errorf("Bill number cannot exceed %d characters", maxBillNumberLength)
	}
	if strings.HasPrefix(strings.ToUpper(number), "TRD-") && !billNumberPattern.MatchString(number) {
		return errors.New("Bill number with the TRD- prefix must look like TRD-YYYY-NNNNN")
	}
	return nil
}

// CreateBillInput is a bill whose totals have already been resolved. An empty
// BillNumber is generated by the store under the TRD-<NumberYear>- prefix.
type CreateBillInput struct {
	BillNumber  string
	NumberYear  int
	BillDate    Date
	DueDate     *Date
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	BillImage   *string
	Notes       *string
	CreatedBy   *int64
}

type UpdateBillRequest struct {
	BillDate      *Date            `json:"bill_date,omitempty"`
	DueDate       *Date            `json:"due_date,omitempty"`
	TaxAmount     *decimal.Decimal `json:"tax_amount,omitempty"`
	PaymentStatus *PaymentStatus   `json:"payment_status,omitempty"`
	BillImage     *string          `json:"bill_image,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r UpdateBillRequest) Validate() error {
	if r.TaxAmount != nil && r.TaxAmount.IsNegative() {
		return errors.New("Tax amount cannot be negative")
	}
	if r.TaxAmount != nil && !FitsCents(*r.TaxAmount) {
		return errors.New("Tax amount cannot have more than 2 decimal places")
	}
	if r.PaymentStatus != nil && !r.PaymentStatus.IsValid() {
		return fmt.Errorf("Invalid payment status: %s", *r.PaymentStatus)
	}
	return nil
}

func (r UpdateBillRequest) Fields() []utils.UpdateField {
	var fields []utils.UpdateField
	if r.BillDate != nil {
		fields = append(fields, utils.UpdateField{Column: "bill_date", Value: *r.BillDate})
	}
	if r.DueDate != nil {
		fields = append(fields, utils.UpdateField{Column: "due_date", Value: *r.DueDate})
	}
	if r.TaxAmount != nil {
		fields = append(fields, utils.UpdateField{Column: "tax_amount", Value: *r.TaxAmount})
	}
	if r.PaymentStatus != nil {
		fields = append(fields, utils.UpdateField{Column: "payment_status", Value: string(*r.PaymentStatus)})
	}
	if r.BillImage != nil {
		fields = append(fields, utils.UpdateField{Column: "bill_image", Value: *r.BillImage})
	}
	if r.Notes != nil {
		fields = append(fields, utils.UpdateField{Column: "notes", Value: *r.Notes})
	}
	return fields
}

func (r UpdateBillRequest) IsEmpty() bool {
	return len(r.Fields()) == 0
}
