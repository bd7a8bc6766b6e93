package recon

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summarize totals all buckets whose day falls within [start, end],
// both bounds inclusive at day granularity. A single-day range where
// start equals end covers exactly that day. Profit is revenue minus
// expense and may be negative.
func Summarize(buckets map[string]DayBucket, start, end time.Time) RangeSummary {
	startDay := start.Format("2006-01-02")
	endDay := end.Format("2006-01-02")

	s := RangeSummary{
		Revenue: decimal.Zero,
		Expense: decimal.Zero,
	}
	for date, b := range buckets {
		// ISO dates compare correctly as strings.
		if date < startDay || date > endDay {
			continue
		}
		s.Revenue = s.Revenue.Add(b.Revenue)
		s.Expense = s.Expense.Add(b.Expense)
		s.Days++
	}
	s.Profit = s.Revenue.Sub(s.Expense)
	return s
}

// WeeklyRange is the trailing seven days ending today: [now-6d, now].
func WeeklyRange(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -6), now
}

// MonthlyRange is the current calendar month to date: [1st, now].
func MonthlyRange(now time.Time) (time.Time, time.Time) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first, now
}
