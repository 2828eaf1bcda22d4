package models

import (
	"testing"

	"ledger-service/shared/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateTraderRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateTraderRequest
		wantErr string
	}{
		{name: "valid", req: CreateTraderRequest{CompanyName: "Acme"}},
		{name: "blank company", req: CreateTraderRequest{CompanyName: "   "}, wantErr: "Company name is required"},
		{name: "bad email", req: CreateTraderRequest{CompanyName: "Acme", Email: ptr("nope")}, wantErr: "email"},
		{name: "empty email allowed", req: CreateTraderRequest{CompanyName: "Acme", Email: ptr("")}},
		{name: "negative credit", req: CreateTraderRequest{CompanyName: "Acme", CreditLimit: ptr(dec("-1"))}, wantErr: "Credit limit"},
		{name: "negative terms", req: CreateTraderRequest{CompanyName: "Acme", PaymentTerms: ptr(-5)}, wantErr: "Payment terms"},
		{name: "unknown status", req: CreateTraderRequest{CompanyName: "Acme", Status: ptr(TraderStatus("gone"))}, wantErr: "Invalid trader status"},
		{name: "empty status", req: CreateTraderRequest{CompanyName: "Acme", Status: ptr(TraderStatus(""))}, wantErr: "Invalid trader status"},
		{name: "credit below cents", req: CreateTraderRequest{CompanyName: "Acme", CreditLimit: ptr(dec("10.005"))}, wantErr: "2 decimal places"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestUpdateTraderRequest_Fields(t *testing.T) {
	req := UpdateTraderRequest{
		CompanyName: ptr("Acme Ltd"),
		CreditLimit: ptr(dec("500")),
		Status:      ptr(TraderSuspended),
	}

	assert.Equal(t, []utils.UpdateField{
		{Column: "company_name", Value: "Acme Ltd"},
		{Column: "credit_limit", Value: dec("500")},
		{Column: "status", Value: "suspended"},
	}, req.Fields())
	assert.False(t, req.IsEmpty())
	assert.True(t, UpdateTraderRequest{}.IsEmpty())
}

func TestCreateBillItemRequest_Validate(t *testing.T) {
	assert.NoError(t, CreateBillItemRequest{Description: "Widget", UnitCost: ptr(dec("10"))}.Validate())
	assert.ErrorContains(t, CreateBillItemRequest{UnitCost: ptr(dec("10"))}.Validate(), "description")
	assert.ErrorContains(t, CreateBillItemRequest{Description: "Widget"}.Validate(), "unit cost")
	assert.ErrorContains(t, CreateBillItemRequest{Description: "Widget", UnitCost: ptr(dec("0"))}.Validate(), "unit cost")
	assert.ErrorContains(t, CreateBillItemRequest{Description: "Widget", UnitCost: ptr(dec("1")), Quantity: ptr(dec("0"))}.Validate(), "quantity")
}

func TestBillItemPrecision(t *testing.T) {
	// 0.333 would be stored as 0.33 while total_cost kept 0.999 rounded to 1.00
	assert.ErrorContains(t, CreateBillItemRequest{Description: "Widget", Quantity: ptr(dec("0.333")), UnitCost: ptr(dec("3"))}.Validate(), "quantity cannot have more than 2 decimal places")
	assert.ErrorContains(t, CreateBillItemRequest{Description: "Widget", UnitCost: ptr(dec("1.005"))}.Validate(), "unit cost cannot have more than 2 decimal places")
	assert.ErrorContains(t, UpdateBillItemRequest{Quantity: ptr(dec("0.333"))}.Validate(), "quantity cannot have more than 2 decimal places")
	assert.ErrorContains(t, UpdateBillItemRequest{UnitCost: ptr(dec("2.999"))}.Validate(), "unit cost cannot have more than 2 decimal places")

	req := CreateBillItemRequest{Description: "Widget", Quantity: ptr(dec("0.33")), UnitCost: ptr(dec("3.00"))}
	assert.NoError(t, req.Validate())
	assert.True(t, LineTotal(*req.Quantity, *req.UnitCost).Equal(req.Quantity.Mul(*req.UnitCost)))

	assert.ErrorContains(t, CreateBillRequest{Subtotal: ptr(dec("1.234"))}.Validate(), "Subtotal")
	assert.ErrorContains(t, CreateBillRequest{Subtotal: ptr(dec("1")), TaxAmount: ptr(dec("0.001"))}.Validate(), "Tax amount")
	assert.ErrorContains(t, UpdateBillRequest{TaxAmount: ptr(dec("0.125"))}.Validate(), "Tax amount")
	assert.ErrorContains(t, CreatePaymentRequest{Amount: ptr(dec("3.333"))}.Validate(), "Payment amount")
}

func TestFitsCents(t *testing.T) {
	assert.True(t, FitsCents(dec("10")))
	assert.True(t, FitsCents(dec("10.50")))
	assert.True(t, FitsCents(dec("10.500")))
	assert.False(t, FitsCents(dec("10.501")))
}

func TestValidateBillNumber(t *testing.T) {
	tests := []struct {
		number  string
		wantErr string
	}{
		{number: ""},
		{number: "INV-42"},
		{number: "TRD-2026-00007"},
		{number: "TRD-2026-100000"},
		{number: "TRD-2026-ABC", wantErr: "TRD-YYYY-NNNNN"},
		{number: "trd-2026-1", wantErr: "TRD-YYYY-NNNNN"},
		{number: "TRD-26-00001", wantErr: "TRD-YYYY-NNNNN"},
		{number: "SUPPLIER-INVOICE-0000001", wantErr: "20 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.number, func(t *testing.T) {
			err := ValidateBillNumber(tt.number)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}

	assert.ErrorContains(t, CreateBillRequest{BillNumber: ptr("TRD-2026-ABC"), Subtotal: ptr(dec("5"))}.Validate(), "TRD-YYYY-NNNNN")
}

func TestCreateBillRequest_ValidateReportsItemIndex(t *testing.T) {
	req := CreateBillRequest{Items: []CreateBillItemRequest{
		{Description: "Widget", UnitCost: ptr(dec("10"))},
		{Description: "", UnitCost: ptr(dec("5"))},
	}}

	assert.ErrorContains(t, req.Validate(), "items[1]")
}

func TestUpdateBillItemRequest_Apply(t *testing.T) {
	stored := BillItem{ID: 1, BillID: 2, Description: "Widget", Quantity: dec("3"), UnitCost: dec("10"), TotalCost: dec("30")}

	updated := UpdateBillItemRequest{Quantity: ptr(dec("4"))}.Apply(stored)
	assert.True(t, updated.TotalCost.Equal(dec("40")))
	assert.True(t, updated.UnitCost.Equal(dec("10")))
	assert.Equal(t, "Widget", updated.Description)

	updated = UpdateBillItemRequest{UnitCost: ptr(dec("2.5")), Description: ptr(" Gizmo ")}.Apply(stored)
	assert.True(t, updated.TotalCost.Equal(dec("7.5")))
	assert.Equal(t, "Gizmo", updated.Description)
}

func TestUpdateBillRequest(t *testing.T) {
	assert.True(t, UpdateBillRequest{}.IsEmpty())
	assert.ErrorContains(t, UpdateBillRequest{TaxAmount: ptr(dec("-1"))}.Validate(), "Tax amount")
	assert.ErrorContains(t, UpdateBillRequest{PaymentStatus: ptr(PaymentStatus("void"))}.Validate(), "payment status")

	fields := UpdateBillRequest{TaxAmount: ptr(dec("2")), Notes: ptr("n")}.Fields()
	assert.Equal(t, "tax_amount", fields[0].Column)
	assert.Equal(t, "notes", fields[1].Column)
}

func TestCreatePaymentRequest(t *testing.T) {
	assert.ErrorContains(t, CreatePaymentRequest{}.Validate(), "greater than zero")
	assert.ErrorContains(t, CreatePaymentRequest{Amount: ptr(dec("0"))}.Validate(), "greater than zero")
	assert.ErrorContains(t, CreatePaymentRequest{Amount: ptr(dec("-3"))}.Validate(), "greater than zero")
	assert.ErrorContains(t, CreatePaymentRequest{Amount: ptr(dec("3")), PaymentMethod: ptr(PaymentMethod("barter"))}.Validate(), "payment method")
	assert.NoError(t, CreatePaymentRequest{Amount: ptr(dec("3"))}.Validate())
	assert.ErrorContains(t, CreatePaymentRequest{Amount: ptr(dec("3")), PaymentMethod: ptr(PaymentMethod(""))}.Validate(), "payment method")

	assert.Equal(t, PaymentMethodCash, CreatePaymentRequest{}.MethodOrDefault())
	assert.Equal(t, PaymentMethodCard, CreatePaymentRequest{PaymentMethod: ptr(PaymentMethodCard)}.MethodOrDefault())
}

func TestNewTraderBalance(t *testing.T) {
	balance := NewTraderBalance(&Trader{ID: 1, CreditLimit: dec("1000"), CurrentBalance: dec("250.50")})

	assert.True(t, balance.AvailableCredit.Equal(dec("749.50")))
}
