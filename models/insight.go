package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Insight is one persisted KPI finding for an outlet and day. Critical
// insights fan out a notification when stored.
type Insight struct {
	ID       string `gorm:"primary_key;size:36" json:"id"`
	OrgId    string `gorm:"index;size:36;not null" json:"org_id"`
	OutletId string `gorm:"index;size:36;not null" json:"outlet_id"`
	Date     string `gorm:"size:10;not null;index" json:"date"`

	Metric   string          `gorm:"size:64;not null" json:"metric"`
	Severity InsightSeverity `gorm:"size:16;not null;index" json:"severity"`
	Title    string          `gorm:"size:255;not null" json:"title"`
	Detail   string          `gorm:"type:text" json:"detail"`

	Value     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"value"`
	Benchmark decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"benchmark"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Color exposes the severity color for dashboard cards.
func (i *Insight) Color() string {
	return i.Severity.Color()
}

// StoreInsight persists a finding and raises a notification when it is
// critical. Duplicate (outlet, date, metric) findings replace the prior
// row so re-running analysis doesn't pile up cards.
func StoreInsight(ctx context.Context, orgId string, insight *Insight) (*Insight, error) {
	if orgId == "" {
		return nil, errors.New("org id is required")
	}

	db := config.GetDB()

	var existing Insight
	err := db.WithContext(ctx).
		Where("org_id = ? AND outlet_id = ? AND date = ? AND metric = ?",
			orgId, insight.OutletId, insight.Date, insight.Metric).
		First(&existing).Error
	if err == nil {
		updateErr := db.WithContext(ctx).Model(&existing).Updates(map[string]interface{}{
			"Severity":  insight.Severity,
			"Title":     insight.Title,
			"Detail":    insight.Detail,
			"Value":     insight.Value,
			"Benchmark": insight.Benchmark,
		}).Error
		if updateErr != nil {
			return nil, updateErr
		}
		insight.ID = existing.ID
		insight.OrgId = orgId
		return insight, nil
	}

	insight.ID = uuid.NewString()
	insight.OrgId = orgId
	if err := db.WithContext(ctx).Create(insight).Error; err != nil {
		return nil, err
	}

	if insight.Severity == InsightSeverityCritical {
		_, notifyErr := CreateNotification(ctx, orgId, &Notification{
			OutletId:    insight.OutletId,
			Type:        NotificationTypeInsight,
			Title:       insight.Title,
			Body:        insight.Detail,
			ReferenceId: insight.ID,
		})
		if notifyErr != nil {
			logger := config.GetLogger()
			config.LogError(logger, "Insight", "StoreInsight", "notification fan-out failed", insight.ID, notifyErr)
		}
	}
	return insight, nil
}

// GetInsights lists findings for an outlet over an inclusive range,
// newest day first, critical first within a day.
func GetInsights(ctx context.Context, outletId, from, to string) ([]*Insight, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("org_id = ?", orgId)
	if outletId != "" {
		if !utils.CanAccessOutlet(ctx, outletId) {
			return nil, utils.ErrorForbiddenOutlet
		}
		dbCtx = dbCtx.Where("outlet_id = ?", outletId)
	}
	if from != "" {
		dbCtx = dbCtx.Where("date >= ?", from)
	}
	if to != "" {
		dbCtx = dbCtx.Where("date <= ?", to)
	}

	var rows []*Insight
	err := dbCtx.Order("date desc, severity asc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var visible []*Insight
	for _, r := range rows {
		if utils.CanAccessOutlet(ctx, r.OutletId) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}
