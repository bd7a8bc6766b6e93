package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/shopspring/decimal"
)

// Channels counted as third-party aggregators for the dependency KPI.
var aggregatorChannels = map[string]bool{
	"zomato":    true,
	"swiggy":    true,
	"uber":      true,
	"ubereat":   true,
	"deliveroo": true,
	"talabat":   true,
	"grab":      true,
}

func isAggregatorChannel(channel string) bool {
	return aggregatorChannels[strings.ToLower(strings.TrimSpace(channel))]
}

type InsightCard struct {
	Metric    string                 `json:"metric"`
	Severity  models.InsightSeverity `json:"severity"`
	Color     string                 `json:"color"`
	Title     string                 `json:"title"`
	Detail    string                 `json:"detail"`
	Value     decimal.Decimal        `json:"value"`
	Benchmark decimal.Decimal        `json:"benchmark"`
}

type InsightReportResponse struct {
	OutletId string        `json:"outlet_id"`
	Date     string        `json:"date"`
	Cards    []InsightCard `json:"cards"`
}

var hundred = decimal.NewFromInt(100)

func pctOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(2)
}

// foodCostInsight compares the day's vendor expenses against revenue.
// Over benchmark is a warning, over benchmark+10pts is critical.
func foodCostInsight(day recon.DayBucket, benchmark decimal.Decimal) *InsightCard {
	if day.Revenue.IsZero() {
		return nil
	}
	vendor := decimal.Zero
	for _, r := range day.Records {
		if r.Kind == recon.KindVendorExpense {
			vendor = vendor.Add(r.AmountBase)
		}
	}
	pct := pctOf(vendor, day.Revenue)

	severity := models.InsightSeverityInfo
	if pct.GreaterThan(benchmark.Add(decimal.NewFromInt(10))) {
		severity = models.InsightSeverityCritical
	} else if pct.GreaterThan(benchmark) {
		severity = models.InsightSeverityWarning
	}

	return &InsightCard{
		Metric:    "food_cost_pct",
		Severity:  severity,
		Color:     severity.Color(),
		Title:     "Food cost " + pct.String() + "% of revenue",
		Detail:    fmt.Sprintf("Vendor purchases were %s against revenue %s (benchmark %s%%).", vendor.String(), day.Revenue.String(), benchmark.String()),
		Value:     pct,
		Benchmark: benchmark,
	}
}

// revenueAnomalyInsight flags a day dropping more than 30% below the
// trailing seven-day average (or spiking 50% above it).
func revenueAnomalyInsight(day recon.DayBucket, trailingAvg decimal.Decimal) *InsightCard {
	if trailingAvg.IsZero() {
		return nil
	}
	pct := pctOf(day.Revenue, trailingAvg)

	severity := models.InsightSeverityInfo
	title := "Revenue in line with the 7-day average"
	if pct.LessThan(decimal.NewFromInt(70)) {
		severity = models.InsightSeverityCritical
		title = "Revenue " + hundred.Sub(pct).String() + "% below the 7-day average"
	} else if pct.GreaterThan(decimal.NewFromInt(150)) {
		severity = models.InsightSeverityWarning
		title = "Revenue " + pct.Sub(hundred).String() + "% above the 7-day average"
	}

	return &InsightCard{
		Metric:    "revenue_anomaly",
		Severity:  severity,
		Color:     severity.Color(),
		Title:     title,
		Detail:    fmt.Sprintf("Day revenue %s vs trailing average %s.", day.Revenue.String(), trailingAvg.String()),
		Value:     day.Revenue,
		Benchmark: trailingAvg,
	}
}

// profitMarginInsight compares the day's margin to the org benchmark.
func profitMarginInsight(day recon.DayBucket, benchmark decimal.Decimal) *InsightCard {
	if day.Revenue.IsZero() {
		return nil
	}
	margin := pctOf(day.Profit(), day.Revenue)

	severity := models.InsightSeverityInfo
	if margin.IsNegative() {
		severity = models.InsightSeverityCritical
	} else if margin.LessThan(benchmark) {
		severity = models.InsightSeverityWarning
	}

	return &InsightCard{
		Metric:    "profit_margin_pct",
		Severity:  severity,
		Color:     severity.Color(),
		Title:     "Profit margin " + margin.String() + "%",
		Detail:    fmt.Sprintf("Day profit %s on revenue %s (benchmark %s%%).", day.Profit().String(), day.Revenue.String(), benchmark.String()),
		Value:     margin,
		Benchmark: benchmark,
	}
}

// aggregatorDependencyInsight measures how much of the day's channel
// revenue came through third-party aggregators.
func aggregatorDependencyInsight(day recon.DayBucket, alertPct decimal.Decimal) *InsightCard {
	channelTotal := decimal.Zero
	aggregatorTotal := decimal.Zero
	for _, r := range day.Records {
		if r.Kind != recon.KindSegregationSale {
			continue
		}
		channelTotal = channelTotal.Add(r.AmountBase)
		if isAggregatorChannel(r.Channel) {
			aggregatorTotal = aggregatorTotal.Add(r.AmountBase)
		}
	}
	if channelTotal.IsZero() {
		return nil
	}
	pct := pctOf(aggregatorTotal, channelTotal)

	severity := models.InsightSeverityInfo
	if pct.GreaterThan(alertPct) {
		severity = models.InsightSeverityWarning
	}

	return &InsightCard{
		Metric:    "aggregator_share_pct",
		Severity:  severity,
		Color:     severity.Color(),
		Title:     "Aggregators drove " + pct.String() + "% of channel revenue",
		Detail:    fmt.Sprintf("Aggregator channels took %s of %s (alert threshold %s%%).", aggregatorTotal.String(), channelTotal.String(), alertPct.String()),
		Value:     pct,
		Benchmark: alertPct,
	}
}

// GetInsightReport computes KPI cards for one outlet and day, persists
// each finding (critical ones fan out notifications) and returns them.
func GetInsightReport(ctx context.Context, outletId, date string) (*InsightReportResponse, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, errors.New("date must be YYYY-MM-DD")
	}

	org, err := models.GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	// Trailing window includes the seven days before the target day.
	from := day.AddDate(0, 0, -7).Format("2006-01-02")
	records, err := models.ReconRecordsForRange(ctx, outletId, from, date)
	if err != nil {
		return nil, err
	}
	buckets := recon.Aggregate(records, outletId)
	bucket := buckets[date]
	bucket.Date = date

	trailingTotal := decimal.Zero
	trailingDays := 0
	for d, b := range buckets {
		if d >= from && d < date {
			trailingTotal = trailingTotal.Add(b.Revenue)
			trailingDays++
		}
	}
	trailingAvg := decimal.Zero
	if trailingDays > 0 {
		trailingAvg = trailingTotal.Div(decimal.NewFromInt(int64(trailingDays))).Round(4)
	}

	var cards []InsightCard
	for _, card := range []*InsightCard{
		foodCostInsight(bucket, org.FoodCostBenchmarkPct),
		revenueAnomalyInsight(bucket, trailingAvg),
		profitMarginInsight(bucket, org.ProfitMarginBenchmarkPct),
		aggregatorDependencyInsight(bucket, org.AggregatorShareAlertPct),
	} {
		if card == nil {
			continue
		}
		cards = append(cards, *card)

		_, storeErr := models.StoreInsight(ctx, orgId, &models.Insight{
			OutletId:  outletId,
			Date:      date,
			Metric:    card.Metric,
			Severity:  card.Severity,
			Title:     card.Title,
			Detail:    card.Detail,
			Value:     card.Value,
			Benchmark: card.Benchmark,
		})
		if storeErr != nil {
			return nil, storeErr
		}
	}

	return &InsightReportResponse{
		OutletId: outletId,
		Date:     date,
		Cards:    cards,
	}, nil
}
