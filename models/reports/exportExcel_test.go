package reports

import (
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"github.com/shopspring/decimal"
)

func sampleLedgerResponse() *DailyLedgerResponse {
	return &DailyLedgerResponse{
		OutletId: "o1",
		From:     "2024-06-01",
		To:       "2024-06-02",
		Currency: "INR",
		Revenue:  decimal.NewFromInt(800),
		Expense:  decimal.NewFromInt(150),
		Profit:   decimal.NewFromInt(650),
		Days:     2,
		Entries: []DailyLedgerEntry{
			{
				Date:    "2024-06-01",
				Revenue: decimal.NewFromInt(500),
				Expense: decimal.NewFromInt(100),
				Profit:  decimal.NewFromInt(400),
				Records: []recon.Record{
					{
						Kind:        recon.KindSegregationSale,
						Channel:     "dine-in",
						AmountLocal: decimal.NewFromInt(500),
						AmountBase:  decimal.NewFromInt(500),
						Currency:    "INR",
					},
					{
						Kind:        recon.KindVendorExpense,
						ItemName:    "produce",
						AmountLocal: decimal.NewFromInt(100),
						AmountBase:  decimal.NewFromInt(100),
						Currency:    "INR",
					},
				},
			},
			{
				Date:    "2024-06-02",
				Revenue: decimal.NewFromInt(300),
				Expense: decimal.NewFromInt(50),
				Profit:  decimal.NewFromInt(250),
				Records: []recon.Record{
					{
						Kind:        recon.KindSegregationSale,
						Channel:     "zomato",
						AmountLocal: decimal.NewFromFloat(3.6),
						AmountBase:  decimal.NewFromInt(300),
						Currency:    "AED",
					},
				},
			},
		},
	}
}

func TestBuildLedgerWorkbook(t *testing.T) {
	f, err := BuildLedgerWorkbook(sampleLedgerResponse())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, sheet := range []string{sheetSummary, sheetDaily, sheetCurrencies} {
		idx, err := f.GetSheetIndex(sheet)
		if err != nil || idx < 0 {
			t.Errorf("missing sheet %q", sheet)
		}
	}

	got, err := f.GetCellValue(sheetSummary, "B5")
	if err != nil {
		t.Fatal(err)
	}
	if got != "800" {
		t.Errorf("summary revenue = %q, want 800", got)
	}

	date, err := f.GetCellValue(sheetDaily, "A2")
	if err != nil {
		t.Fatal(err)
	}
	if date != "2024-06-01" {
		t.Errorf("first daily row date = %q", date)
	}

	// Two currencies appear in insertion order.
	c1, _ := f.GetCellValue(sheetCurrencies, "A2")
	c2, _ := f.GetCellValue(sheetCurrencies, "A3")
	if c1 != "INR" || c2 != "AED" {
		t.Errorf("currency rows = %q, %q", c1, c2)
	}
}

func TestBuildLedgerWorkbookEmpty(t *testing.T) {
	f, err := BuildLedgerWorkbook(&DailyLedgerResponse{OutletId: "o1", Currency: "INR"})
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	idx, err := f.GetSheetIndex(sheetDaily)
	if err != nil || idx < 0 {
		t.Error("empty report should still carry the daily sheet")
	}
}

func TestBuildLedgerCSV(t *testing.T) {
	data, err := BuildLedgerCSV(sampleLedgerResponse())
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}
	if lines[0] != "date,revenue,expense,profit" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "2024-06-01,500,100,400" {
		t.Errorf("row 1 = %q", lines[1])
	}
}
