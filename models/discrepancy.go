package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// mysqlDuplicateEntry is the ER_DUP_ENTRY error number.
const mysqlDuplicateEntry = 1062

func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}

// Discrepancy is a persisted mismatch between two daily figures. The
// fingerprint column makes re-detection over unchanged inputs a no-op;
// changed figures produce a new fingerprint and a fresh row, even when
// an older row for the same day was already resolved.
type Discrepancy struct {
	ID       string `gorm:"primary_key;size:36" json:"id"`
	OrgId    string `gorm:"index;size:36;not null" json:"org_id"`
	OutletId string `gorm:"index;size:36;not null" json:"outlet_id"`
	Date     string `gorm:"size:10;not null;index" json:"date"`

	SourceA    string          `gorm:"size:16;not null" json:"source_a"`
	SourceB    string          `gorm:"size:16;not null" json:"source_b"`
	AmountA    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_a"`
	AmountB    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_b"`
	Difference decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"difference"`

	Fingerprint string `gorm:"size:255;not null;uniqueIndex" json:"fingerprint"`

	Resolved   *bool      `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedBy string     `gorm:"size:36" json:"resolved_by"`
	ResolvedAt *time.Time `json:"resolved_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type DetectionResult struct {
	Found    int            `json:"found"`
	Inserted int            `json:"inserted"`
	Rows     []*Discrepancy `json:"rows"`
}

// RunDetection compares the committed ledger against a counterpart
// source over a range and stores fingerprint-new mismatches. Existing
// rows, resolved or not, are left untouched.
func RunDetection(ctx context.Context, outletId string, counterpart FigureSource, from, to string) (*DetectionResult, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if !utils.CanAccessOutlet(ctx, outletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	if counterpart != FigureSourceBank && counterpart != FigureSourceManual {
		return nil, errors.New("counterpart must be bank or manual")
	}
	if from == "" || to == "" {
		return nil, errors.New("from and to are required")
	}

	ledger, err := DailyRevenueFigures(ctx, outletId, from, to)
	if err != nil {
		return nil, err
	}
	other, err := SourceFiguresForRange(ctx, outletId, counterpart, from, to)
	if err != nil {
		return nil, err
	}

	found := recon.Detect(ledger, other, outletId)
	result := &DetectionResult{Found: len(found)}
	if len(found) == 0 {
		return result, nil
	}

	fingerprints := make([]string, 0, len(found))
	for _, d := range found {
		fingerprints = append(fingerprints, d.Fingerprint())
	}

	db := config.GetDB()
	var existing []string
	err = db.WithContext(ctx).Model(&Discrepancy{}).
		Where("org_id = ? AND fingerprint IN ?", orgId, fingerprints).
		Pluck("fingerprint", &existing).Error
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(existing))
	for _, f := range existing {
		known[f] = true
	}

	for _, d := range found {
		if known[d.Fingerprint()] {
			continue
		}
		row := Discrepancy{
			ID:          uuid.NewString(),
			OrgId:       orgId,
			OutletId:    d.OutletID,
			Date:        d.Date,
			SourceA:     d.SourceA,
			SourceB:     d.SourceB,
			AmountA:     d.AmountA,
			AmountB:     d.AmountB,
			Difference:  d.Difference,
			Fingerprint: d.Fingerprint(),
			Resolved:    utils.NewFalse(),
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			// Concurrent detection run beat us to the same fingerprint.
			if isDuplicateEntry(err) {
				continue
			}
			return nil, err
		}
		result.Inserted++
		result.Rows = append(result.Rows, &row)
	}
	return result, nil
}

// ResolveDiscrepancy marks a row resolved. The transition is one-way and
// idempotent; resolving an already-resolved row changes nothing.
func ResolveDiscrepancy(ctx context.Context, id string) (*Discrepancy, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	row, err := utils.FetchModel[Discrepancy](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, row.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	if row.Resolved != nil && *row.Resolved {
		return row, nil
	}

	now := time.Now().UTC()
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&row).Updates(map[string]interface{}{
		"Resolved":   true,
		"ResolvedBy": userId,
		"ResolvedAt": &now,
	}).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Discrepancy](ctx, orgId, id)
}

// GetDiscrepancies lists rows for an outlet, unresolved first then by
// date descending. Pass includeResolved to see the full history.
func GetDiscrepancies(ctx context.Context, outletId string, includeResolved bool) ([]*Discrepancy, error) {
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
	if !includeResolved {
		dbCtx = dbCtx.Where("resolved = ?", false)
	}

	var rows []*Discrepancy
	err := dbCtx.Order("resolved asc, date desc").Find(&rows).Error
	if err != nil {
		return nil, err
	}

	var visible []*Discrepancy
	for _, r := range rows {
		if utils.CanAccessOutlet(ctx, r.OutletId) {
			visible = append(visible, r)
		}
	}
	return visible, nil
}
