package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm/clause"
)

// SourceReport is one daily revenue total from a non-ledger source: a
// bank feed row or a manually entered figure. One row per
// (outlet, date, source); later writes replace the amount.
type SourceReport struct {
	ID       int             `gorm:"primary_key" json:"id"`
	OrgId    string          `gorm:"index;size:36;not null" json:"org_id"`
	OutletId string          `gorm:"size:36;not null;uniqueIndex:idx_source_report,priority:1" json:"outlet_id"`
	Date     string          `gorm:"size:10;not null;uniqueIndex:idx_source_report,priority:2" json:"date"`
	Source   FigureSource    `gorm:"size:16;not null;uniqueIndex:idx_source_report,priority:3" json:"source"`
	Amount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	Note     string          `gorm:"size:512" json:"note"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSourceReport struct {
	OutletId string          `json:"outlet_id" binding:"required"`
	Date     string          `json:"date" binding:"required"`
	Source   FigureSource    `json:"source" binding:"required,oneof=bank manual"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

// UpsertSourceReport records a daily total, replacing any prior figure
// for the same (outlet, date, source).
func UpsertSourceReport(ctx context.Context, input *NewSourceReport) (*SourceReport, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if !utils.CanAccessOutlet(ctx, input.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	if err := utils.ValidateResourceId[Outlet](ctx, orgId, input.OutletId); err != nil {
		return nil, errors.New("outlet not found")
	}
	if _, err := time.Parse("2006-01-02", input.Date); err != nil {
		return nil, errors.New("date must be YYYY-MM-DD")
	}

	report := SourceReport{
		OrgId:    orgId,
		OutletId: input.OutletId,
		Date:     input.Date,
		Source:   input.Source,
		Amount:   input.Amount,
		Note:     input.Note,
	}

	db := config.GetDB()
	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outlet_id"}, {Name: "date"}, {Name: "source"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "note", "updated_at"}),
	}).Create(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetSourceReports lists one outlet's figures in an inclusive range.
func GetSourceReports(ctx context.Context, outletId, from, to string) ([]*SourceReport, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if !utils.CanAccessOutlet(ctx, outletId) {
		return nil, utils.ErrorForbiddenOutlet
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("org_id = ? AND outlet_id = ?", orgId, outletId)
	if from != "" {
		dbCtx = dbCtx.Where("date >= ?", from)
	}
	if to != "" {
		dbCtx = dbCtx.Where("date <= ?", to)
	}

	var reports []*SourceReport
	err := dbCtx.Order("date asc, source asc").Find(&reports).Error
	return reports, err
}

// SourceFiguresForRange loads one source's daily figures as engine
// values for discrepancy detection.
func SourceFiguresForRange(ctx context.Context, outletId string, source FigureSource, from, to string) ([]recon.SourceFigure, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if !utils.CanAccessOutlet(ctx, outletId) {
		return nil, utils.ErrorForbiddenOutlet
	}

	db := config.GetDB()
	var reports []*SourceReport
	err := db.WithContext(ctx).
		Where("org_id = ? AND outlet_id = ? AND source = ? AND date >= ? AND date <= ?",
			orgId, outletId, source, from, to).
		Order("date asc").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}

	figures := make([]recon.SourceFigure, 0, len(reports))
	for _, r := range reports {
		figures = append(figures, recon.SourceFigure{
			OutletID: r.OutletId,
			Date:     r.Date,
			Source:   string(r.Source),
			Amount:   r.Amount,
		})
	}
	return figures, nil
}
