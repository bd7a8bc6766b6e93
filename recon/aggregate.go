package recon

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Aggregate buckets an outlet's records by day and computes daily
// revenue and expense in the base currency.
//
// Revenue precedence: if a day has any segregation-sale record, revenue
// is the sum of segregation-sale amounts only; item-sale amounts stay in
// the bucket's Records but do not count (they are assumed already folded
// into the channel totals). Days with no segregation-sale fall back to
// summing item-sale amounts. Expenses always sum vendor-expense and
// fixed-expense.
//
// Records belonging to other outlets are dropped, never merged. Invalid
// kinds are carried in Records but contribute to neither total.
func Aggregate(records []Record, outletID string) map[string]DayBucket {
	buckets := make(map[string]DayBucket)

	for _, r := range records {
		if r.OutletID != outletID {
			continue
		}
		b := buckets[r.Date]
		b.Date = r.Date
		b.Records = append(b.Records, r)
		buckets[r.Date] = b
	}

	for date, b := range buckets {
		hasSegregation := false
		for _, r := range b.Records {
			if r.Kind == KindSegregationSale {
				hasSegregation = true
				break
			}
		}

		revenue := decimal.Zero
		expense := decimal.Zero
		for _, r := range b.Records {
			switch r.Kind {
			case KindSegregationSale:
				revenue = revenue.Add(r.AmountBase)
			case KindItemSale:
				if !hasSegregation {
					revenue = revenue.Add(r.AmountBase)
				}
			case KindVendorExpense, KindFixedExpense:
				expense = expense.Add(r.AmountBase)
			}
		}

		// Stable drill-down order regardless of input order.
		sort.SliceStable(b.Records, func(i, j int) bool {
			if b.Records[i].Kind != b.Records[j].Kind {
				return b.Records[i].Kind < b.Records[j].Kind
			}
			return b.Records[i].ID < b.Records[j].ID
		})

		b.Revenue = revenue
		b.Expense = expense
		buckets[date] = b
	}

	return buckets
}

// SortedDates returns the bucket keys in ascending day order.
func SortedDates(buckets map[string]DayBucket) []string {
	dates := make([]string, 0, len(buckets))
	for d := range buckets {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
