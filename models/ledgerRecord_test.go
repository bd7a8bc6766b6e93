package models

import (
	"testing"

	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"github.com/shopspring/decimal"
)

func TestRecordKindForDocument(t *testing.T) {
	cases := []struct {
		name    string
		docType DocumentType
		row     ExtractedRow
		want    recon.Kind
	}{
		{"sales row with channel", DocumentTypeSalesReport, ExtractedRow{Channel: "zomato"}, recon.KindSegregationSale},
		{"sales row without channel", DocumentTypeSalesReport, ExtractedRow{ItemName: "Biryani"}, recon.KindItemSale},
		{"vendor invoice", DocumentTypeVendorInvoice, ExtractedRow{ItemName: "Vegetables"}, recon.KindVendorExpense},
		{"fixed expense", DocumentTypeFixedExpense, ExtractedRow{ItemName: "Rent"}, recon.KindFixedExpense},
		{"bank statement rows are not committable", DocumentTypeBankStatement, ExtractedRow{}, recon.Kind("")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := recordKindForDocument(tc.docType, tc.row)
			if got != tc.want {
				t.Fatalf("recordKindForDocument(%s) = %q, want %q", tc.docType, got, tc.want)
			}
		})
	}
}

func TestLedgerRecordToReconRecord(t *testing.T) {
	r := LedgerRecord{
		ID:          "rec-1",
		OutletId:    "outlet-1",
		Date:        "2024-06-01",
		Kind:        recon.KindSegregationSale,
		AmountLocal: decimal.NewFromInt(14000),
		AmountBase:  decimal.NewFromInt(14000),
		Currency:    "INR",
		Channel:     "zomato",
		RawDate:     "01/06/2024",
		DateCoerced: false,
	}

	rec := r.ToReconRecord()
	if rec.OutletID != "outlet-1" || rec.Date != "2024-06-01" {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if rec.Kind != recon.KindSegregationSale {
		t.Fatalf("kind = %q", rec.Kind)
	}
	if rec.Channel != "zomato" {
		t.Fatalf("channel not carried through: %q", rec.Channel)
	}
	if !rec.AmountBase.Equal(decimal.NewFromInt(14000)) {
		t.Fatalf("amount base = %s", rec.AmountBase)
	}
}
