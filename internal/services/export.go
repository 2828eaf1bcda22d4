package services

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const traderExportSheet = "Traders"

var traderExportHeaders = []string{
	"ID", "Company Name", "Contact Person", "Phone", "Email", "Tax Number",
	"Payment Terms (days)", "Credit Limit", "Current Balance", "Status",
	"Bills", "Total Purchases", "Total Payments", "Created At",
}

// ExportTraders writes every trader to w as an .xlsx workbook.
func (s *LedgerService) ExportTraders(ctx context.Context, w io.Writer) error {
	traders, err := s.repo.ListAllTraders(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", traderExportSheet); err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}

	for i, header := range traderExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(traderExportSheet, cell, header)
	}

	for idx, t := range traders {
		row := []any{
			t.ID, t.CompanyName, str(t.ContactPerson), str(t.Phone), str(t.Email), str(t.TaxNumber),
			t.PaymentTerms, t.CreditLimit.InexactFloat64(), t.CurrentBalance.InexactFloat64(), string(t.Status),
			t.BillCount, t.TotalPurchases.InexactFloat64(), t.TotalPayments.InexactFloat64(),
			t.CreatedAt.Format("2006-01-02 15:04"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, idx+2)
		if err := f.SetSheetRow(traderExportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write trader row: %w", err)
		}
	}

	f.SetColWidth(traderExportSheet, "A", "A", 8)
	f.SetColWidth(traderExportSheet, "B", "B", 30)
	f.SetColWidth(traderExportSheet, "C", "F", 20)
	f.SetColWidth(traderExportSheet, "G", "N", 16)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
