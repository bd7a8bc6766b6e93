package reports

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/shopspring/decimal"
)

type DailyLedgerEntry struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
	Records []recon.Record  `json:"records"`
}

type DailyLedgerResponse struct {
	OutletId string             `json:"outlet_id"`
	From     string             `json:"from"`
	To       string             `json:"to"`
	Currency string             `json:"currency"`
	Revenue  decimal.Decimal    `json:"revenue"`
	Expense  decimal.Decimal    `json:"expense"`
	Profit   decimal.Decimal    `json:"profit"`
	Days     int                `json:"days"`
	Entries  []DailyLedgerEntry `json:"entries"`
}

// GetDailyLedgerReport aggregates one outlet's committed records over an
// inclusive range into per-day buckets plus a range summary. Buckets are
// recomputed from records on every call, never stored.
func GetDailyLedgerReport(ctx context.Context, outletId, from, to string) (*DailyLedgerResponse, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	fromDay, err := time.Parse("2006-01-02", from)
	if err != nil {
		return nil, errors.New("from must be YYYY-MM-DD")
	}
	toDay, err := time.Parse("2006-01-02", to)
	if err != nil {
		return nil, errors.New("to must be YYYY-MM-DD")
	}
	started := time.Now()

	cacheKey := fmt.Sprintf("report:daily-ledger:%s:%s:%s:%s", orgId, outletId, from, to)
	var cached DailyLedgerResponse
	if hit, _ := cacheGet(cacheKey, &cached); hit {
		return &cached, nil
	}

	org, err := models.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}
	records, err := models.ReconRecordsForRange(ctx, outletId, from, to)
	if err != nil {
		return nil, err
	}

	buckets := recon.Aggregate(records, outletId)
	summary := recon.Summarize(buckets, fromDay, toDay)

	entries := make([]DailyLedgerEntry, 0, len(buckets))
	for _, date := range recon.SortedDates(buckets) {
		if date < from || date > to {
			continue
		}
		b := buckets[date]
		entries = append(entries, DailyLedgerEntry{
			Date:    b.Date,
			Revenue: b.Revenue,
			Expense: b.Expense,
			Profit:  b.Profit(),
			Records: b.Records,
		})
	}

	resp := &DailyLedgerResponse{
		OutletId: outletId,
		From:     from,
		To:       to,
		Currency: org.BaseCurrency,
		Revenue:  summary.Revenue,
		Expense:  summary.Expense,
		Profit:   summary.Profit,
		Days:     summary.Days,
		Entries:  entries,
	}

	cacheSet(cacheKey, resp)
	logSlowReport(ctx, "daily-ledger", started, map[string]any{"outlet_id": outletId})
	return resp, nil
}
