// Package recon holds the pure financial aggregation and reconciliation
// engine. It never touches the database or the network; persistence and
// transport live in models and handlers.
package recon

import (
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger record. The four kinds are closed; anything
// else fails Valid().
type Kind string

const (
	// KindSegregationSale is a channel-segregated sales total (dine-in,
	// delivery, aggregator). When present for a day it is the
	// authoritative revenue figure for that day.
	KindSegregationSale Kind = "segregation-sale"
	// KindItemSale is an itemized sale line. Counts toward revenue only
	// on days with no segregation-sale records.
	KindItemSale      Kind = "item-sale"
	KindVendorExpense Kind = "vendor-expense"
	KindFixedExpense  Kind = "fixed-expense"
)

func (k Kind) IsSale() bool {
	return k == KindSegregationSale || k == KindItemSale
}

func (k Kind) IsExpense() bool {
	return k == KindVendorExpense || k == KindFixedExpense
}

func (k Kind) Valid() bool {
	return k.IsSale() || k.IsExpense()
}

// Record is one normalized ledger line. Date is always YYYY-MM-DD in the
// outlet's timezone. AmountBase is derived exactly once at normalization
// time and never recomputed.
type Record struct {
	ID            string
	OutletID      string
	Date          string
	Kind          Kind
	AmountLocal   decimal.Decimal
	AmountBase    decimal.Decimal
	Currency      string
	PaymentMethod string
	ItemName      string
	ItemCategory  string
	Channel       string
	Quantity      decimal.Decimal
	Source        string

	// RawDate is the date string as received, kept for audit when the
	// parser had to coerce it. DateCoerced marks the fallback case.
	RawDate     string
	DateCoerced bool
}

// DayBucket is a recomputed per-day view over records. It is never
// persisted; callers rebuild it from records on every read.
type DayBucket struct {
	Date    string
	Revenue decimal.Decimal
	Expense decimal.Decimal
	Records []Record
}

func (b DayBucket) Profit() decimal.Decimal {
	return b.Revenue.Sub(b.Expense)
}

// RangeSummary totals a date range. Profit may be negative.
type RangeSummary struct {
	Revenue decimal.Decimal
	Expense decimal.Decimal
	Profit  decimal.Decimal
	Days    int
}

// SourceFigure is a single-source daily total used as a reconciliation
// input (ledger sum, bank feed row, manual report).
type SourceFigure struct {
	OutletID string
	Date     string
	Source   string
	Amount   decimal.Decimal
}

// Discrepancy is a detected mismatch between two sources for the same
// outlet and day. Difference is always non-negative.
type Discrepancy struct {
	OutletID   string
	Date       string
	SourceA    string
	SourceB    string
	AmountA    decimal.Decimal
	AmountB    decimal.Decimal
	Difference decimal.Decimal
}

// Fingerprint identifies a discrepancy by its figures. Re-running
// detection over unchanged inputs produces the same fingerprint, which
// the persistence layer uses to avoid duplicate rows.
func (d Discrepancy) Fingerprint() string {
	return d.OutletID + "|" + d.Date + "|" +
		d.SourceA + "=" + d.AmountA.String() + "|" +
		d.SourceB + "=" + d.AmountB.String()
}
