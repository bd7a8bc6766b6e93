package recon

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rec(outlet, date string, kind Kind, amount string) Record {
	d := decimal.RequireFromString(amount)
	return Record{OutletID: outlet, Date: date, Kind: kind, AmountLocal: d, AmountBase: d}
}

func TestAggregateRevenuePrecedence(t *testing.T) {
	// Segregation totals X alongside item sales Y on the same day:
	// revenue is X, not X+Y.
	records := []Record{
		rec("o-1", "2024-03-01", KindSegregationSale, "500"),
		rec("o-1", "2024-03-01", KindSegregationSale, "300"),
		rec("o-1", "2024-03-01", KindItemSale, "275"),
		rec("o-1", "2024-03-01", KindItemSale, "90"),
	}
	buckets := Aggregate(records, "o-1")
	b := buckets["2024-03-01"]
	if b.Revenue.String() != "800" {
		t.Errorf("revenue = %s, want 800 (item sales must not double-count)", b.Revenue)
	}
	if len(b.Records) != 4 {
		t.Errorf("drill-down records = %d, want all 4 retained", len(b.Records))
	}
}

func TestAggregateItemSaleFallback(t *testing.T) {
	records := []Record{
		rec("o-1", "2024-03-02", KindItemSale, "275"),
		rec("o-1", "2024-03-02", KindItemSale, "125"),
	}
	b := Aggregate(records, "o-1")["2024-03-02"]
	if b.Revenue.String() != "400" {
		t.Errorf("revenue = %s, want 400 from item sales alone", b.Revenue)
	}
}

func TestAggregateExpensesUnconditional(t *testing.T) {
	records := []Record{
		rec("o-1", "2024-03-01", KindSegregationSale, "800"),
		rec("o-1", "2024-03-01", KindVendorExpense, "100"),
		rec("o-1", "2024-03-01", KindFixedExpense, "50"),
	}
	b := Aggregate(records, "o-1")["2024-03-01"]
	if b.Expense.String() != "150" {
		t.Errorf("expense = %s, want 150", b.Expense)
	}
	if b.Profit().String() != "650" {
		t.Errorf("profit = %s, want 650", b.Profit())
	}
}

func TestAggregateOutletIsolation(t *testing.T) {
	records := []Record{
		rec("o-1", "2024-03-01", KindSegregationSale, "800"),
		rec("o-2", "2024-03-01", KindSegregationSale, "9999"),
		rec("o-2", "2024-03-01", KindVendorExpense, "9999"),
	}
	b := Aggregate(records, "o-1")["2024-03-01"]
	if b.Revenue.String() != "800" || !b.Expense.IsZero() {
		t.Errorf("other outlet leaked: revenue=%s expense=%s", b.Revenue, b.Expense)
	}
	if len(b.Records) != 1 {
		t.Errorf("records = %d, want 1", len(b.Records))
	}
}

func TestAggregateIdempotent(t *testing.T) {
	records := []Record{
		rec("o-1", "2024-03-01", KindSegregationSale, "500.25"),
		rec("o-1", "2024-03-01", KindItemSale, "80"),
		rec("o-1", "2024-03-02", KindVendorExpense, "120.10"),
	}
	first := Aggregate(records, "o-1")
	second := Aggregate(records, "o-1")
	if len(first) != len(second) {
		t.Fatalf("bucket counts differ: %d vs %d", len(first), len(second))
	}
	for date, a := range first {
		b := second[date]
		if !a.Revenue.Equal(b.Revenue) || !a.Expense.Equal(b.Expense) {
			t.Errorf("%s: %s/%s vs %s/%s", date, a.Revenue, a.Expense, b.Revenue, b.Expense)
		}
	}
}

func TestAggregateUnknownKindIgnoredInTotals(t *testing.T) {
	records := []Record{
		rec("o-1", "2024-03-01", KindItemSale, "100"),
		rec("o-1", "2024-03-01", Kind("refund"), "40"),
	}
	b := Aggregate(records, "o-1")["2024-03-01"]
	if b.Revenue.String() != "100" || !b.Expense.IsZero() {
		t.Errorf("unknown kind affected totals: revenue=%s expense=%s", b.Revenue, b.Expense)
	}
	if len(b.Records) != 2 {
		t.Errorf("unknown kind dropped from drill-down: %d records", len(b.Records))
	}
}

func TestSortedDates(t *testing.T) {
	buckets := map[string]DayBucket{
		"2024-03-03": {}, "2024-03-01": {}, "2024-03-02": {},
	}
	got := SortedDates(buckets)
	want := []string{"2024-03-01", "2024-03-02", "2024-03-03"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedDates = %v, want %v", got, want)
		}
	}
}
