package recon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func bucketsFixture() map[string]DayBucket {
	return map[string]DayBucket{
		"2024-03-01": {Date: "2024-03-01", Revenue: decimal.NewFromInt(800), Expense: decimal.NewFromInt(150)},
		"2024-03-02": {Date: "2024-03-02", Revenue: decimal.NewFromInt(400), Expense: decimal.NewFromInt(500)},
		"2024-03-05": {Date: "2024-03-05", Revenue: decimal.NewFromInt(100), Expense: decimal.NewFromInt(20)},
	}
}

func TestSummarizeInclusiveBounds(t *testing.T) {
	s := Summarize(bucketsFixture(), day("2024-03-01"), day("2024-03-05"))
	if s.Revenue.String() != "1300" || s.Expense.String() != "670" {
		t.Errorf("range totals: revenue=%s expense=%s", s.Revenue, s.Expense)
	}
	if s.Days != 3 {
		t.Errorf("days = %d, want 3", s.Days)
	}

	// Boundary days count.
	edge := Summarize(bucketsFixture(), day("2024-03-02"), day("2024-03-05"))
	if edge.Revenue.String() != "500" {
		t.Errorf("boundary days excluded: revenue=%s, want 500", edge.Revenue)
	}
}

func TestSummarizeSingleDay(t *testing.T) {
	s := Summarize(bucketsFixture(), day("2024-03-01"), day("2024-03-01"))
	if s.Revenue.String() != "800" || s.Expense.String() != "150" || s.Days != 1 {
		t.Errorf("single-day range: revenue=%s expense=%s days=%d", s.Revenue, s.Expense, s.Days)
	}
}

func TestSummarizeNegativeProfit(t *testing.T) {
	s := Summarize(bucketsFixture(), day("2024-03-02"), day("2024-03-02"))
	if s.Profit.String() != "-100" {
		t.Errorf("profit = %s, want -100 (no clamping)", s.Profit)
	}
}

func TestSummarizeEmptyRange(t *testing.T) {
	s := Summarize(bucketsFixture(), day("2024-04-01"), day("2024-04-30"))
	if !s.Revenue.IsZero() || !s.Expense.IsZero() || !s.Profit.IsZero() || s.Days != 0 {
		t.Errorf("empty range not zero: %+v", s)
	}
}

func TestWeeklyRange(t *testing.T) {
	now := day("2024-03-15")
	start, end := WeeklyRange(now)
	if start.Format("2006-01-02") != "2024-03-09" || !end.Equal(now) {
		t.Errorf("weekly = [%s, %s]", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestMonthlyRange(t *testing.T) {
	now := day("2024-03-15")
	start, end := MonthlyRange(now)
	if start.Format("2006-01-02") != "2024-03-01" || !end.Equal(now) {
		t.Errorf("monthly = [%s, %s]", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}
