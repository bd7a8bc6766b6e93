package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"github.com/shopspring/decimal"
)

// RateSnapshot is one day's USD-based FX table. One row per day; the
// fallback flag marks days where the live fetch failed and the static
// table was used instead.
type RateSnapshot struct {
	ID         int       `gorm:"primary_key" json:"id"`
	Date       string    `gorm:"uniqueIndex;size:10;not null" json:"date"`
	Base       string    `gorm:"size:3;not null;default:'USD'" json:"base"`
	RatesJSON  string    `gorm:"type:text;not null" json:"rates_json"`
	IsFallback bool      `gorm:"not null;default:false" json:"is_fallback"`
	FetchedAt  time.Time `gorm:"autoCreateTime" json:"fetched_at"`
}

const defaultRateAPIURL = "https://open.er-api.com/v6/latest/USD"

// FallbackRates is the static USD-based table used when the provider is
// unreachable. Values are units of currency per 1 USD.
func FallbackRates() map[string]float64 {
	return map[string]float64{
		"USD": 1,
		"INR": 83.50,
		"AED": 3.67,
		"GBP": 0.79,
		"EUR": 0.92,
		"SGD": 1.34,
		"THB": 35.20,
		"MYR": 4.72,
		"SAR": 3.75,
		"QAR": 3.64,
	}
}

type rateAPIResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

func parseRatesResponse(body []byte) (map[string]float64, error) {
	var resp rateAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if resp.Result != "success" || len(resp.Rates) == 0 {
		return nil, errors.New("rate provider returned no rates")
	}
	return resp.Rates, nil
}

// FetchRates performs a single request against the rate provider.
// No retries: the caller falls back to the static table on any failure.
func FetchRates(ctx context.Context, client *http.Client, url string) (map[string]float64, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if url == "" {
		url = os.Getenv("EXCHANGE_RATE_API_URL")
	}
	if url == "" {
		url = defaultRateAPIURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	return parseRatesResponse(body)
}

// SyncDailyRates stores today's snapshot. Provider failures are
// absorbed: the fallback table is stored and flagged, never an error
// surfaced to the caller's financial path.
func SyncDailyRates(ctx context.Context) (*RateSnapshot, error) {
	logger := config.GetLogger()
	today := time.Now().UTC().Format("2006-01-02")

	rates, err := FetchRates(ctx, nil, "")
	isFallback := false
	if err != nil {
		config.LogError(logger, "RateSnapshot", "SyncDailyRates", "live fetch failed, using fallback table", today, err)
		rates = FallbackRates()
		isFallback = true
	}

	ratesJSON, err := json.Marshal(rates)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var existing RateSnapshot
	findErr := db.WithContext(ctx).Where("date = ?", today).First(&existing).Error
	if findErr == nil {
		// Only overwrite a fallback snapshot with live data, never the
		// other way around.
		if existing.IsFallback && !isFallback {
			err = db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
				"RatesJSON":  string(ratesJSON),
				"IsFallback": false,
			}).Error
			if err != nil {
				return nil, err
			}
			existing.RatesJSON = string(ratesJSON)
			existing.IsFallback = false
		}
		return &existing, nil
	}

	snapshot := RateSnapshot{
		Date:       today,
		Base:       "USD",
		RatesJSON:  string(ratesJSON),
		IsFallback: isFallback,
	}
	if err := db.WithContext(ctx).Create(&snapshot).Error; err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (s *RateSnapshot) Rates() map[string]float64 {
	var rates map[string]float64
	if err := json.Unmarshal([]byte(s.RatesJSON), &rates); err != nil {
		return FallbackRates()
	}
	return rates
}

// snapshotForDate returns the snapshot for the day, or the nearest
// earlier one. Nil when no snapshot exists at all.
func snapshotForDate(ctx context.Context, date string) *RateSnapshot {
	db := config.GetDB()
	if db == nil {
		return nil
	}
	var snapshot RateSnapshot
	err := db.WithContext(ctx).
		Where("date <= ?", date).
		Order("date desc").
		First(&snapshot).Error
	if err != nil {
		return nil
	}
	return &snapshot
}

// CrossRate converts via the USD table: units of `to` per one unit of
// `from`. Unknown currencies default to 1 so conversion never fails.
func CrossRate(rates map[string]float64, from, to string) decimal.Decimal {
	if from == to {
		return decimal.NewFromInt(1)
	}
	fromRate, okFrom := rates[from]
	toRate, okTo := rates[to]
	if !okFrom || !okTo || fromRate == 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(toRate).Div(decimal.NewFromFloat(fromRate)).Round(6)
}

// RateToBase resolves the conversion rate from an outlet currency into
// the org base currency for a given day. The lookup order is: identity,
// stored snapshot (nearest earlier), live fetch, static fallback table.
// It never returns an error; failures degrade to the fallback table or
// rate 1.
func RateToBase(ctx context.Context, currency, base, date string) decimal.Decimal {
	if currency == base {
		return decimal.NewFromInt(1)
	}

	if snapshot := snapshotForDate(ctx, date); snapshot != nil {
		return CrossRate(snapshot.Rates(), currency, base)
	}

	if rates, err := FetchRates(ctx, nil, ""); err == nil {
		return CrossRate(rates, currency, base)
	}

	return CrossRate(FallbackRates(), currency, base)
}

// ConvertAmount converts an amount between two currencies on a date.
func ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to, date string) decimal.Decimal {
	return amount.Mul(RateToBase(ctx, from, to, date))
}

// GetRateSnapshots lists stored snapshots, newest first.
func GetRateSnapshots(ctx context.Context, limit int) ([]*RateSnapshot, error) {
	db := config.GetDB()
	if limit <= 0 || limit > 365 {
		limit = 30
	}
	var snapshots []*RateSnapshot
	err := db.WithContext(ctx).Order("date desc").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}
