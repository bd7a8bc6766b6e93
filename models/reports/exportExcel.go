package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetDaily      = "Daily Ledger"
	sheetCurrencies = "Currencies"
)

// BuildLedgerWorkbook renders a daily ledger report as a styled xlsx
// workbook: a summary sheet, a per-day sheet with drill-down lines and a
// per-currency totals sheet. Only serialization failures are returned;
// empty reports still produce a valid workbook.
func BuildLedgerWorkbook(resp *DailyLedgerResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, err
	}

	// Summary sheet.
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, err
	}
	summaryRows := [][]interface{}{
		{"Outlet", resp.OutletId},
		{"From", resp.From},
		{"To", resp.To},
		{"Currency", resp.Currency},
		{"Revenue", resp.Revenue.InexactFloat64()},
		{"Expense", resp.Expense.InexactFloat64()},
		{"Profit", resp.Profit.InexactFloat64()},
		{"Days with activity", resp.Days},
	}
	for i, row := range summaryRows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "A8", headerStyle); err != nil {
		return nil, err
	}

	// Daily sheet: one summary line per day followed by its records.
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return nil, err
	}
	header := []interface{}{"Date", "Kind", "Item", "Channel", "Amount (local)", "Currency", "Amount (base)", "Revenue", "Expense", "Profit"}
	if err := f.SetSheetRow(sheetDaily, "A1", &header); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetDaily, "A1", "J1", headerStyle); err != nil {
		return nil, err
	}
	rowNo := 2
	for _, entry := range resp.Entries {
		dayRow := []interface{}{
			entry.Date, "", "", "", "", "",
			"",
			entry.Revenue.InexactFloat64(),
			entry.Expense.InexactFloat64(),
			entry.Profit.InexactFloat64(),
		}
		if err := f.SetSheetRow(sheetDaily, fmt.Sprintf("A%d", rowNo), &dayRow); err != nil {
			return nil, err
		}
		rowNo++
		for _, r := range entry.Records {
			recRow := []interface{}{
				"", string(r.Kind), r.ItemName, r.Channel,
				r.AmountLocal.InexactFloat64(), r.Currency,
				r.AmountBase.InexactFloat64(), "", "", "",
			}
			if err := f.SetSheetRow(sheetDaily, fmt.Sprintf("A%d", rowNo), &recRow); err != nil {
				return nil, err
			}
			rowNo++
		}
	}

	// Currency sheet: local-currency totals across the range.
	if _, err := f.NewSheet(sheetCurrencies); err != nil {
		return nil, err
	}
	currencyHeader := []interface{}{"Currency", "Records", "Total (local)", "Total (base)"}
	if err := f.SetSheetRow(sheetCurrencies, "A1", &currencyHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetCurrencies, "A1", "D1", headerStyle); err != nil {
		return nil, err
	}

	type currencyTotal struct {
		count int
		local decimal.Decimal
		base  decimal.Decimal
	}
	totals := make(map[string]*currencyTotal)
	var order []string
	for _, entry := range resp.Entries {
		for _, r := range entry.Records {
			t, ok := totals[r.Currency]
			if !ok {
				t = &currencyTotal{}
				totals[r.Currency] = t
				order = append(order, r.Currency)
			}
			t.count++
			t.local = t.local.Add(r.AmountLocal)
			t.base = t.base.Add(r.AmountBase)
		}
	}
	for i, currency := range order {
		t := totals[currency]
		row := []interface{}{currency, t.count, t.local.InexactFloat64(), t.base.InexactFloat64()}
		if err := f.SetSheetRow(sheetCurrencies, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// BuildLedgerCSV is the plain-text variant: the per-day summary lines
// only, no drill-down.
func BuildLedgerCSV(resp *DailyLedgerResponse) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "revenue", "expense", "profit"}); err != nil {
		return nil, err
	}
	for _, entry := range resp.Entries {
		record := []string{
			entry.Date,
			entry.Revenue.String(),
			entry.Expense.String(),
			entry.Profit.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportDailyLedger fetches the report and serializes it in the asked
// format. Returns content bytes, a filename and the MIME type.
func ExportDailyLedger(ctx context.Context, outletId, from, to, format string) ([]byte, string, string, error) {
	resp, err := GetDailyLedgerReport(ctx, outletId, from, to)
	if err != nil {
		return nil, "", "", err
	}

	switch format {
	case "csv":
		data, err := BuildLedgerCSV(resp)
		if err != nil {
			return nil, "", "", err
		}
		name := fmt.Sprintf("ledger_%s_%s_%s.csv", outletId, from, to)
		return data, name, "text/csv", nil
	default:
		f, err := BuildLedgerWorkbook(resp)
		if err != nil {
			return nil, "", "", err
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return nil, "", "", err
		}
		name := fmt.Sprintf("ledger_%s_%s_%s.xlsx", outletId, from, to)
		return buf.Bytes(), name, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	}
}
