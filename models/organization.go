package models

import (
	"context"
	"errors"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Organization struct {
	ID           string `gorm:"primary_key;size:36" json:"id"`
	Name         string `gorm:"size:255;not null" json:"name" binding:"required"`
	BaseCurrency string `gorm:"size:3;not null;default:'INR'" json:"base_currency"`
	Timezone     string `gorm:"size:64;not null;default:'Asia/Kolkata'" json:"timezone"`
	Country      string `gorm:"size:2" json:"country"`

	// RequiredReportTypes drives calendar compliance: the document types
	// every outlet must file per day, comma separated.
	RequiredReportTypes string `gorm:"size:512;default:'sales_report'" json:"required_report_types"`

	// Benchmarks used by the insight engine. Percent values 0-100.
	FoodCostBenchmarkPct     decimal.Decimal `gorm:"type:decimal(20,4);default:32" json:"food_cost_benchmark_pct"`
	ProfitMarginBenchmarkPct decimal.Decimal `gorm:"type:decimal(20,4);default:15" json:"profit_margin_benchmark_pct"`
	AggregatorShareAlertPct  decimal.Decimal `gorm:"type:decimal(20,4);default:50" json:"aggregator_share_alert_pct"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOrganization struct {
	Name                string `json:"name" binding:"required"`
	BaseCurrency        string `json:"base_currency"`
	Timezone            string `json:"timezone"`
	Country             string `json:"country"`
	RequiredReportTypes string `json:"required_report_types"`
}

// Location resolves the org timezone, falling back to UTC.
func (o *Organization) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (o *Organization) RequiredTypes() []DocumentType {
	var out []DocumentType
	for _, t := range splitCSV(o.RequiredReportTypes) {
		out = append(out, DocumentType(t))
	}
	return out
}

func CreateOrganization(ctx context.Context, input *NewOrganization) (*Organization, error) {
	db := config.GetDB()

	org := Organization{
		ID:                       uuid.NewString(),
		Name:                     input.Name,
		BaseCurrency:             defaultIfEmpty(input.BaseCurrency, "INR"),
		Timezone:                 defaultIfEmpty(input.Timezone, "Asia/Kolkata"),
		Country:                  input.Country,
		RequiredReportTypes:      defaultIfEmpty(input.RequiredReportTypes, string(DocumentTypeSalesReport)),
		FoodCostBenchmarkPct:     decimal.NewFromInt(32),
		ProfitMarginBenchmarkPct: decimal.NewFromInt(15),
		AggregatorShareAlertPct:  decimal.NewFromInt(50),
	}

	if err := db.WithContext(ctx).Create(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

type OrganizationSettings struct {
	RequiredReportTypes      *string          `json:"required_report_types"`
	FoodCostBenchmarkPct     *decimal.Decimal `json:"food_cost_benchmark_pct"`
	ProfitMarginBenchmarkPct *decimal.Decimal `json:"profit_margin_benchmark_pct"`
	AggregatorShareAlertPct  *decimal.Decimal `json:"aggregator_share_alert_pct"`
	Timezone                 *string          `json:"timezone"`
}

func UpdateOrganizationSettings(ctx context.Context, input *OrganizationSettings) (*Organization, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	org, err := GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.RequiredReportTypes != nil {
		updates["RequiredReportTypes"] = *input.RequiredReportTypes
	}
	if input.FoodCostBenchmarkPct != nil {
		updates["FoodCostBenchmarkPct"] = *input.FoodCostBenchmarkPct
	}
	if input.ProfitMarginBenchmarkPct != nil {
		updates["ProfitMarginBenchmarkPct"] = *input.ProfitMarginBenchmarkPct
	}
	if input.AggregatorShareAlertPct != nil {
		updates["AggregatorShareAlertPct"] = *input.AggregatorShareAlertPct
	}
	if input.Timezone != nil {
		if _, err := time.LoadLocation(*input.Timezone); err != nil {
			return nil, errors.New("invalid timezone")
		}
		updates["Timezone"] = *input.Timezone
	}
	if len(updates) == 0 {
		return org, nil
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&org).Updates(updates).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Organization](org.ID)
	return org, nil
}

// GetOrganization loads the request's org, redis-cached.
func GetOrganization(ctx context.Context) (*Organization, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	cached, err := utils.RetrieveRedis[Organization](orgId)
	if err == nil && cached != nil {
		return cached, nil
	}

	db := config.GetDB()
	var org Organization
	if err := db.WithContext(ctx).First(&org, "id = ?", orgId).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	_ = utils.StoreRedis[Organization](&org, org.ID)
	return &org, nil
}

func defaultIfEmpty(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
