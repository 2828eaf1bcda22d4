package handlers

import (
	"testing"
	"time"

	"ledger-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseFormatter_DualCasesKeys(t *testing.T) {
	f := NewResponseFormatter(true)

	out := f.Format(&models.Trader{ID: 1, CompanyName: "Acme", CreditLimit: decimal.RequireFromString("30.00")})

	m, ok := out.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Acme", m["company_name"])
	assert.Equal(t, "Acme", m["companyName"])
	assert.Equal(t, float64(30), m["credit_limit"])
	assert.Equal(t, float64(30), m["creditLimit"])
	assert.Equal(t, int64(1), m["id"])
	assert.Nil(t, m["contact_person"])
	assert.Contains(t, m, "contactPerson")
}

func TestResponseFormatter_WithoutAliases(t *testing.T) {
	f := NewResponseFormatter(false)

	m := f.Format(models.Trader{CompanyName: "Acme"}).(map[string]any)

	assert.Contains(t, m, "company_name")
	assert.NotContains(t, m, "companyName")
}

func TestResponseFormatter_NestedItemsAndDates(t *testing.T) {
	f := NewResponseFormatter(true)
	bill := models.Bill{
		ID:       2,
		BillDate: models.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)),
		Subtotal: decimal.RequireFromString("35.50"),
		Items: []models.BillItem{
			{ID: 1, Description: "Widget", TotalCost: decimal.RequireFromString("30")},
		},
	}

	m := f.Format(bill).(map[string]any)

	assert.Equal(t, 35.5, m["subtotal"])
	assert.Equal(t, bill.BillDate, m["bill_date"])
	assert.Equal(t, bill.BillDate, m["billDate"])
	items, ok := m["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(30), item["totalCost"])
	assert.Equal(t, "Widget", item["description"])
}

func TestResponseFormatter_OmitsEmptyItems(t *testing.T) {
	m := NewResponseFormatter(true).Format(models.Bill{ID: 3}).(map[string]any)

	assert.NotContains(t, m, "items")
}

func TestResponseFormatter_SlicesAndMaps(t *testing.T) {
	f := NewResponseFormatter(true)

	list := f.Format([]models.Trader{{CompanyName: "A"}, {CompanyName: "B"}}).([]any)
	assert.Len(t, list, 2)

	empty := f.Format([]models.Trader(nil)).([]any)
	assert.Empty(t, empty)

	m := f.Format(map[string]any{"total_balance": decimal.NewFromInt(5)}).(map[string]any)
	assert.Equal(t, float64(5), m["totalBalance"])
}
