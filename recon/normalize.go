package recon

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRow is an extracted line before normalization. All fields arrive as
// strings; nothing about a RawRow can make Normalize fail.
type RawRow struct {
	Date          string
	Amount        string
	Quantity      string
	PaymentMethod string
	ItemName      string
	ItemCategory  string
	Channel       string
	Source        string
}

// dateLayouts are tried in order. The first is the canonical form.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02-01-2006",
	"02/01/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	time.RFC3339,
}

// CleanAmount parses a free-form monetary string. Currency symbols,
// thousands separators and surrounding junk are stripped; only digits,
// a leading minus and the decimal point survive. Unparseable input is
// zero, never an error.
func CleanAmount(s string) decimal.Decimal {
	var b strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && i == strings.Index(s, "-") && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" || cleaned == "-" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// NormalizeDate parses a free-form date into YYYY-MM-DD in loc. The
// second return reports whether the input had to be coerced to now.
func NormalizeDate(raw string, loc *time.Location, now time.Time) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, trimmed, loc); err == nil {
				return t.Format("2006-01-02"), false
			}
		}
	}
	return now.In(loc).Format("2006-01-02"), true
}

// Normalize turns a raw extracted row into a ledger Record. It is total:
// every input yields a usable record. Bad amounts become zero, bad dates
// become today in the outlet's timezone (with the raw string retained),
// and the base-currency amount is fixed here using the given rate.
func Normalize(raw RawRow, outletID string, kind Kind, currency string, rate decimal.Decimal, loc *time.Location, now time.Time) Record {
	if loc == nil {
		loc = time.UTC
	}
	amount := CleanAmount(raw.Amount)
	date, coerced := NormalizeDate(raw.Date, loc, now)

	qty := CleanAmount(raw.Quantity)
	if qty.IsZero() && kind == KindItemSale {
		qty = decimal.NewFromInt(1)
	}

	return Record{
		OutletID:      outletID,
		Date:          date,
		Kind:          kind,
		AmountLocal:   amount,
		AmountBase:    amount.Mul(rate),
		Currency:      currency,
		PaymentMethod: strings.TrimSpace(raw.PaymentMethod),
		ItemName:      strings.TrimSpace(raw.ItemName),
		ItemCategory:  strings.TrimSpace(raw.ItemCategory),
		Channel:       strings.TrimSpace(raw.Channel),
		Quantity:      qty,
		Source:        strings.TrimSpace(raw.Source),
		RawDate:       raw.Date,
		DateCoerced:   coerced,
	}
}
