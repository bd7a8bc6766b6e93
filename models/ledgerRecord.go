package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/recon"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerRecord is the persisted form of a normalized recon.Record.
// AmountBase is computed once at commit and never recomputed.
type LedgerRecord struct {
	ID       string `gorm:"primary_key;size:36" json:"id"`
	OrgId    string `gorm:"index;size:36;not null;index:idx_ledger_outlet_date,priority:1" json:"org_id"`
	OutletId string `gorm:"size:36;not null;index:idx_ledger_outlet_date,priority:2" json:"outlet_id"`
	Date     string `gorm:"size:10;not null;index:idx_ledger_outlet_date,priority:3" json:"date"`

	Kind          recon.Kind      `gorm:"size:32;not null;index" json:"kind"`
	AmountLocal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_local"`
	AmountBase    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount_base"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	ExchangeRate  decimal.Decimal `gorm:"type:decimal(20,8);default:1" json:"exchange_rate"`
	PaymentMethod string          `gorm:"size:64" json:"payment_method"`
	ItemName      string          `gorm:"size:255" json:"item_name"`
	ItemCategory  string          `gorm:"size:128" json:"item_category"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Channel       string          `gorm:"size:64" json:"channel"`

	DocumentId  string `gorm:"index;size:36" json:"document_id"`
	CommittedBy string `gorm:"size:36" json:"committed_by"`

	// RawDate keeps the source date string when the parser had to coerce
	// it to the commit day.
	RawDate     string `gorm:"size:64" json:"raw_date"`
	DateCoerced bool   `gorm:"not null;default:false" json:"date_coerced"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ToReconRecord converts back into the engine's value type.
func (r *LedgerRecord) ToReconRecord() recon.Record {
	return recon.Record{
		ID:            r.ID,
		OutletID:      r.OutletId,
		Date:          r.Date,
		Kind:          r.Kind,
		AmountLocal:   r.AmountLocal,
		AmountBase:    r.AmountBase,
		Currency:      r.Currency,
		PaymentMethod: r.PaymentMethod,
		ItemName:      r.ItemName,
		ItemCategory:  r.ItemCategory,
		Channel:       r.Channel,
		Quantity:      r.Quantity,
		Source:        string(r.Kind),
		RawDate:       r.RawDate,
		DateCoerced:   r.DateCoerced,
	}
}

// recordKindForDocument maps a document type to the ledger kind its rows
// produce. Sales reports yield segregation totals when the row names a
// channel, itemized lines otherwise.
func recordKindForDocument(docType DocumentType, row ExtractedRow) recon.Kind {
	switch docType {
	case DocumentTypeSalesReport:
		if row.Channel != "" {
			return recon.KindSegregationSale
		}
		return recon.KindItemSale
	case DocumentTypeVendorInvoice:
		return recon.KindVendorExpense
	case DocumentTypeFixedExpense:
		return recon.KindFixedExpense
	}
	return ""
}

type CommitResult struct {
	Document     *Document `json:"document"`
	RecordCount  int       `json:"record_count"`
	CoercedDates int       `json:"coerced_dates"`
	SkippedRows  int       `json:"skipped_rows"`
}

var ErrorNoCommittableRows = errors.New("document has no committable rows")

// CommitDocumentRecords normalizes the document's extracted rows into
// ledger records and writes them in one transaction, together with the
// outbox row and the status flip to committed. Serialized per org via
// the redis lock so two commits cannot interleave.
func CommitDocumentRecords(ctx context.Context, documentId string) (*CommitResult, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	release, err := utils.OrgLock(ctx, orgId, "commit", "LedgerRecord", "CommitDocumentRecords")
	if err != nil {
		return nil, err
	}
	defer release()

	doc, err := utils.FetchModel[Document](ctx, orgId, documentId)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, doc.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	if doc.Status == DocumentStatusCommitted {
		return nil, utils.ErrorDocumentCommitted
	}
	if doc.Status != DocumentStatusProcessed {
		return nil, errors.New("document must be reviewed before commit")
	}

	outlet, err := utils.FetchModel[Outlet](ctx, orgId, doc.OutletId)
	if err != nil {
		return nil, err
	}
	org, err := GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	payload := doc.ExtractedPayload()
	currency := defaultIfEmpty(payload.Currency, outlet.Currency)
	loc := outlet.Location()
	now := time.Now()

	var (
		records []LedgerRecord
		coerced int
		skipped int
		minDate string
		maxDate string
	)
	for _, row := range payload.Rows {
		kind := recordKindForDocument(doc.Type, row)
		if !kind.Valid() {
			skipped++
			continue
		}

		raw := recon.RawRow{
			Date:          row.Date,
			Amount:        row.Amount,
			Quantity:      row.Quantity,
			PaymentMethod: row.PaymentMethod,
			ItemName:      row.ItemName,
			ItemCategory:  row.ItemCategory,
			Channel:       row.Channel,
			Source:        string(doc.Type),
		}

		// Rate is resolved per record date so multi-day documents convert
		// against the right snapshot.
		probeDate, _ := recon.NormalizeDate(row.Date, loc, now)
		rate := RateToBase(ctx, currency, org.BaseCurrency, probeDate)

		rec := recon.Normalize(raw, doc.OutletId, kind, currency, rate, loc, now)
		if rec.DateCoerced {
			coerced++
		}
		if minDate == "" || rec.Date < minDate {
			minDate = rec.Date
		}
		if rec.Date > maxDate {
			maxDate = rec.Date
		}

		records = append(records, LedgerRecord{
			ID:            uuid.NewString(),
			OrgId:         orgId,
			OutletId:      rec.OutletID,
			Date:          rec.Date,
			Kind:          rec.Kind,
			AmountLocal:   rec.AmountLocal,
			AmountBase:    rec.AmountBase,
			Currency:      rec.Currency,
			ExchangeRate:  rate,
			PaymentMethod: rec.PaymentMethod,
			ItemName:      rec.ItemName,
			ItemCategory:  rec.ItemCategory,
			Quantity:      rec.Quantity,
			Channel:       rec.Channel,
			DocumentId:    doc.ID,
			CommittedBy:   userId,
			RawDate:       rec.RawDate,
			DateCoerced:   rec.DateCoerced,
		})
	}
	if len(records) == 0 {
		return nil, ErrorNoCommittableRows
	}

	correlationId, _ := utils.GetCorrelationIdFromContext(ctx)
	committedAt := time.Now().UTC()

	db := config.GetDB()
	tx := db.Begin()

	if err := tx.WithContext(ctx).CreateInBatches(records, 200).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	outboxMsg := OutboxMessage{
		OrgId:         orgId,
		OutletId:      doc.OutletId,
		DocumentId:    doc.ID,
		Action:        OutboxActionLedgerCommitted,
		RangeStart:    minDate,
		RangeEnd:      maxDate,
		CommittedAt:   committedAt,
		CorrelationId: correlationId,
	}
	if err := EnqueueOutboxMessage(tx.WithContext(ctx), &outboxMsg); err != nil {
		tx.Rollback()
		return nil, err
	}

	err = tx.WithContext(ctx).Model(&doc).Updates(map[string]interface{}{
		"Status":      DocumentStatusCommitted,
		"CommittedBy": userId,
	}).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	committedDoc, err := utils.FetchModel[Document](ctx, orgId, documentId)
	if err != nil {
		return nil, err
	}
	return &CommitResult{
		Document:     committedDoc,
		RecordCount:  len(records),
		CoercedDates: coerced,
		SkippedRows:  skipped,
	}, nil
}

// DeleteLedgerRecord removes one record. Deletion is always an explicit
// user action; nothing in the system deletes records implicitly.
func DeleteLedgerRecord(ctx context.Context, id string) (*LedgerRecord, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	record, err := utils.FetchModel[LedgerRecord](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, record.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Delete(&LedgerRecord{}, "id = ? AND org_id = ?", id, orgId).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// GetLedgerRecords returns one outlet's records in an inclusive date
// range, oldest first.
func GetLedgerRecords(ctx context.Context, outletId, from, to string) ([]*LedgerRecord, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if outletId == "" {
		return nil, errors.New("outlet id is required")
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

	var records []*LedgerRecord
	err := dbCtx.Order("date asc, created_at asc").Find(&records).Error
	return records, err
}

// ReconRecordsForRange loads an outlet's records as engine values.
func ReconRecordsForRange(ctx context.Context, outletId, from, to string) ([]recon.Record, error) {
	rows, err := GetLedgerRecords(ctx, outletId, from, to)
	if err != nil {
		return nil, err
	}
	records := make([]recon.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.ToReconRecord())
	}
	return records, nil
}

// DailyRevenueFigures sums committed base-currency revenue per day,
// honoring the segregation-over-item precedence, for use as the ledger
// side of discrepancy detection.
func DailyRevenueFigures(ctx context.Context, outletId, from, to string) ([]recon.SourceFigure, error) {
	records, err := ReconRecordsForRange(ctx, outletId, from, to)
	if err != nil {
		return nil, err
	}
	buckets := recon.Aggregate(records, outletId)
	dates := recon.SortedDates(buckets)

	figures := make([]recon.SourceFigure, 0, len(dates))
	for _, date := range dates {
		figures = append(figures, recon.SourceFigure{
			OutletID: outletId,
			Date:     date,
			Source:   string(FigureSourceLedger),
			Amount:   buckets[date].Revenue,
		})
	}
	return figures, nil
}
