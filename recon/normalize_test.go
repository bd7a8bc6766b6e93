package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestCleanAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"₹1,200.50", "1200.5"},
		{"1200.50", "1200.5"},
		{"$ 99", "99"},
		{"AED 3,500.00", "3500"},
		{"-450.25", "-450.25"},
		{"(empty)", "0"},
		{"N/A", "0"},
		{"", "0"},
		{"-", "0"},
		{"abc", "0"},
		{"1.2.3", "0"},
		{"0", "0"},
	}
	for _, c := range cases {
		got := CleanAmount(c.in)
		if got.String() != c.want {
			t.Errorf("CleanAmount(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	loc, _ := time.LoadLocation("Asia/Kolkata")
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, loc)

	cases := []struct {
		in          string
		want        string
		wantCoerced bool
	}{
		{"2024-03-01", "2024-03-01", false},
		{"2024/03/01", "2024-03-01", false},
		{"01/03/2024", "2024-03-01", false},
		{"01-03-2024", "2024-03-01", false},
		{"Mar 1, 2024", "2024-03-01", false},
		{" 2024-03-01 ", "2024-03-01", false},
		{"not a date", "2024-03-15", true},
		{"", "2024-03-15", true},
		{"32/13/2024", "2024-03-15", true},
	}
	for _, c := range cases {
		got, coerced := NormalizeDate(c.in, loc, now)
		if got != c.want || coerced != c.wantCoerced {
			t.Errorf("NormalizeDate(%q) = (%s, %v), want (%s, %v)",
				c.in, got, coerced, c.want, c.wantCoerced)
		}
	}
}

func TestNormalizeTotality(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(1)

	// Garbage in every field still yields a usable record.
	r := Normalize(RawRow{Date: "??", Amount: "N/A"}, "o-1", KindVendorExpense, "INR", rate, time.UTC, now)
	if !r.AmountLocal.IsZero() || !r.AmountBase.IsZero() {
		t.Errorf("garbage amount: got local=%s base=%s, want zero", r.AmountLocal, r.AmountBase)
	}
	if r.Date != "2024-03-15" || !r.DateCoerced {
		t.Errorf("garbage date: got %s coerced=%v", r.Date, r.DateCoerced)
	}
	if r.RawDate != "??" {
		t.Errorf("raw date not retained: %q", r.RawDate)
	}
}

func TestNormalizeBaseAmount(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	rate := decimal.RequireFromString("0.012")

	r := Normalize(RawRow{Date: "2024-03-01", Amount: "₹1,200.50"}, "o-1", KindSegregationSale, "INR", rate, time.UTC, now)
	if r.AmountLocal.String() != "1200.5" {
		t.Fatalf("AmountLocal = %s", r.AmountLocal)
	}
	if r.AmountBase.String() != "14.406" {
		t.Fatalf("AmountBase = %s, want 14.406", r.AmountBase)
	}
}

func TestNormalizeNilLocation(t *testing.T) {
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	r := Normalize(RawRow{Date: "bad"}, "o-1", KindFixedExpense, "USD", decimal.NewFromInt(1), nil, now)
	if r.Date != "2024-03-15" {
		t.Errorf("nil location fallback: got %s", r.Date)
	}
}

func TestKindClassification(t *testing.T) {
	if !KindSegregationSale.IsSale() || !KindItemSale.IsSale() {
		t.Error("sale kinds misclassified")
	}
	if !KindVendorExpense.IsExpense() || !KindFixedExpense.IsExpense() {
		t.Error("expense kinds misclassified")
	}
	if Kind("refund").Valid() {
		t.Error("unknown kind must not be valid")
	}
}
