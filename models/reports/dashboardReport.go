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

type OutletTotals struct {
	OutletId   string          `json:"outlet_id"`
	OutletName string          `json:"outlet_name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Expense    decimal.Decimal `json:"expense"`
	Profit     decimal.Decimal `json:"profit"`
}

type ExpenseBreakdown struct {
	Kind   recon.Kind      `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type TrendPoint struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DashboardResponse struct {
	From     string          `json:"from"`
	To       string          `json:"to"`
	Currency string          `json:"currency"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expense  decimal.Decimal `json:"expense"`
	Profit   decimal.Decimal `json:"profit"`

	Outlets          []OutletTotals     `json:"outlets"`
	ExpenseBreakdown []ExpenseBreakdown `json:"expense_breakdown"`
	RevenueTrend     []TrendPoint       `json:"revenue_trend"`

	OpenDiscrepancies int `json:"open_discrepancies"`
	PendingReviews    int `json:"pending_reviews"`
}

// GetDashboardReport builds the org-wide view over the trailing N days:
// per-outlet totals, expense breakdown by kind and the 7-day revenue
// trend, all in base currency.
func GetDashboardReport(ctx context.Context, days int) (*DashboardResponse, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if days <= 0 || days > 366 {
		days = 30
	}
	started := time.Now()

	now := time.Now()
	from := now.AddDate(0, 0, -(days - 1)).Format("2006-01-02")
	to := now.Format("2006-01-02")

	cacheKey := fmt.Sprintf("report:dashboard:%s:%d:%s", orgId, days, to)
	var cached DashboardResponse
	if hit, _ := cacheGet(cacheKey, &cached); hit {
		return &cached, nil
	}

	org, err := models.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}
	outlets, err := models.GetOutlets(ctx)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		From:     from,
		To:       to,
		Currency: org.BaseCurrency,
		Revenue:  decimal.Zero,
		Expense:  decimal.Zero,
	}

	trendFrom := now.AddDate(0, 0, -6).Format("2006-01-02")
	trend := make(map[string]decimal.Decimal)
	byKind := make(map[recon.Kind]decimal.Decimal)

	for _, outlet := range outlets {
		records, err := models.ReconRecordsForRange(ctx, outlet.ID, from, to)
		if err != nil {
			return nil, err
		}
		buckets := recon.Aggregate(records, outlet.ID)

		totals := OutletTotals{
			OutletId:   outlet.ID,
			OutletName: outlet.Name,
			Revenue:    decimal.Zero,
			Expense:    decimal.Zero,
		}
		for date, b := range buckets {
			totals.Revenue = totals.Revenue.Add(b.Revenue)
			totals.Expense = totals.Expense.Add(b.Expense)
			if date >= trendFrom {
				trend[date] = trend[date].Add(b.Revenue)
			}
			for _, r := range b.Records {
				if r.Kind.IsExpense() {
					byKind[r.Kind] = byKind[r.Kind].Add(r.AmountBase)
				}
			}
		}
		totals.Profit = totals.Revenue.Sub(totals.Expense)

		resp.Outlets = append(resp.Outlets, totals)
		resp.Revenue = resp.Revenue.Add(totals.Revenue)
		resp.Expense = resp.Expense.Add(totals.Expense)
	}
	resp.Profit = resp.Revenue.Sub(resp.Expense)

	for _, kind := range []recon.Kind{recon.KindVendorExpense, recon.KindFixedExpense} {
		if amount, ok := byKind[kind]; ok {
			resp.ExpenseBreakdown = append(resp.ExpenseBreakdown, ExpenseBreakdown{Kind: kind, Amount: amount})
		}
	}

	// Every trend day appears, zero or not, so charts have no gaps.
	for i := 6; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		amount := trend[date]
		resp.RevenueTrend = append(resp.RevenueTrend, TrendPoint{Date: date, Revenue: amount})
	}

	open, err := models.GetDiscrepancies(ctx, "", false)
	if err != nil {
		return nil, err
	}
	resp.OpenDiscrepancies = len(open)

	pending, err := models.GetReviewQueue(ctx, "")
	if err != nil {
		return nil, err
	}
	resp.PendingReviews = len(pending)

	cacheSet(cacheKey, resp)
	logSlowReport(ctx, "dashboard", started, map[string]any{"days": days})
	return resp, nil
}

type OutletDashboardResponse struct {
	Outlet  *models.Outlet     `json:"outlet"`
	Summary DailyLedgerEntry   `json:"today"`
	Weekly  recon.RangeSummary `json:"weekly"`
	Monthly recon.RangeSummary `json:"monthly"`
}

// GetOutletDashboard is the single-outlet variant: today's bucket plus
// weekly and month-to-date summaries.
func GetOutletDashboard(ctx context.Context, outletId string) (*OutletDashboardResponse, error) {
	outlet, err := models.GetOutlet(ctx, outletId)
	if err != nil {
		return nil, err
	}

	now := time.Now().In(outlet.Location())
	monthStart, _ := recon.MonthlyRange(now)
	weekStart, _ := recon.WeeklyRange(now)

	from := monthStart
	if weekStart.Before(monthStart) {
		from = weekStart
	}

	records, err := models.ReconRecordsForRange(ctx, outletId, from.Format("2006-01-02"), now.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	buckets := recon.Aggregate(records, outletId)

	today := buckets[now.Format("2006-01-02")]
	today.Date = now.Format("2006-01-02")

	return &OutletDashboardResponse{
		Outlet: outlet,
		Summary: DailyLedgerEntry{
			Date:    today.Date,
			Revenue: today.Revenue,
			Expense: today.Expense,
			Profit:  today.Profit(),
			Records: today.Records,
		},
		Weekly:  recon.Summarize(buckets, weekStart, now),
		Monthly: recon.Summarize(buckets, monthStart, now),
	}, nil
}
