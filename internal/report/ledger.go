// Package report renders admin spreadsheets.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mrleocoder/coderbds/internal/model"
)

const ledgerSheet = "Transactions"

var ledgerHeader = []interface{}{
	"ID", "Username", "Email", "Type", "Status", "Amount", "Description",
	"Reference", "Admin notes", "Created at", "Completed at",
}

// LedgerRow is one transaction with its owner resolved.
type LedgerRow struct {
	Transaction model.Transaction
	Username    string
	Email       string
}

// WriteLedger writes rows as an .xlsx workbook with a totals footer.
func WriteLedger(w io.Writer, rows []LedgerRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	if err := f.SetSheetRow(ledgerSheet, "A1", &ledgerHeader); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := f.SetRowStyle(ledgerSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("report: %w", err)
	}

	credited, debited := decimal.Zero, decimal.Zero
	for i, r := range rows {
		t := r.Transaction
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.Format(time.RFC3339)
		}
		row := []interface{}{
			t.ID, r.Username, r.Email, string(t.Type), string(t.Status), t.Amount,
			t.Description, t.ReferenceID, t.AdminNotes, t.CreatedAt.Format(time.RFC3339), completed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &row); err != nil {
			return fmt.Errorf("report: %w", err)
		}

		if t.Status != model.TxCompleted {
			continue
		}
		if t.Type.Credits() {
			credited = credited.Add(decimal.NewFromFloat(t.Amount))
		} else {
			debited = debited.Add(decimal.NewFromFloat(t.Amount))
		}
	}

	footer := len(rows) + 3
	totals := [][]interface{}{
		{"Completed credits", credited.InexactFloat64()},
		{"Completed debits", debited.InexactFloat64()},
	}
	for i, line := range totals {
		cell, err := excelize.CoordinatesToCellName(5, footer+i)
		if err != nil {
			return fmt.Errorf("report: %w", err)
		}
		if err := f.SetSheetRow(ledgerSheet, cell, &line); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
