package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
)

// ExtractedPayload is the structured result of document extraction,
// stored as JSON text on the document row.
type ExtractedPayload struct {
	Currency   string         `json:"currency"`
	Total      string         `json:"total"`
	Confidence float64        `json:"confidence"`
	Rows       []ExtractedRow `json:"rows"`
}

// ExtractedRow mirrors one line the extractor pulled from the file. All
// fields stay strings until commit-time normalization.
type ExtractedRow struct {
	Date          string `json:"date"`
	Amount        string `json:"amount"`
	Quantity      string `json:"quantity"`
	PaymentMethod string `json:"payment_method"`
	ItemName      string `json:"item_name"`
	ItemCategory  string `json:"item_category"`
	Channel       string `json:"channel"`
}

// Document is an uploaded source file plus its extracted payload. Bytes
// live in GCS; the service stores the object key and issues signed URLs.
type Document struct {
	ID           string         `gorm:"primary_key;size:36" json:"id"`
	OrgId        string         `gorm:"index;size:36;not null" json:"org_id" binding:"required"`
	OutletId     string         `gorm:"index;size:36;not null" json:"outlet_id" binding:"required"`
	Type         DocumentType   `gorm:"size:32;not null" json:"type" binding:"required"`
	Status       DocumentStatus `gorm:"index;size:32;not null;default:'needs_review'" json:"status"`
	DocumentDate time.Time      `gorm:"index" json:"document_date"`

	FileName    string `gorm:"size:512" json:"file_name"`
	ContentType string `gorm:"size:128" json:"content_type"`
	ObjectKey   string `gorm:"size:1024" json:"object_key"`

	// ContentHash is the client-computed sha256 of the file bytes.
	// Duplicate uploads within an org are rejected before signing.
	ContentHash string `gorm:"index;size:64" json:"content_hash"`

	// Extracted holds the review payload as JSON text: totals, currency,
	// line items, confidence. Written by the external extraction
	// service, edited by reviewers.
	Extracted string `gorm:"type:text" json:"extracted"`

	VersionNumber int    `gorm:"not null;default:1" json:"version_number"`
	CommittedBy   string `gorm:"size:36" json:"committed_by"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// DocumentVersion snapshots the extracted payload before each edit.
type DocumentVersion struct {
	ID            int       `gorm:"primary_key" json:"id"`
	DocumentId    string    `gorm:"index;size:36;not null" json:"document_id"`
	OrgId         string    `gorm:"index;size:36;not null" json:"org_id"`
	VersionNumber int       `gorm:"not null" json:"version_number"`
	Extracted     string    `gorm:"type:text" json:"extracted"`
	EditedBy      string    `gorm:"size:36" json:"edited_by"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

type NewDocumentUpload struct {
	OutletId     string       `json:"outlet_id" binding:"required"`
	Type         DocumentType `json:"type" binding:"required"`
	FileName     string       `json:"file_name" binding:"required"`
	ContentType  string       `json:"content_type" binding:"required"`
	ContentHash  string       `json:"content_hash" binding:"required,len=64"`
	DocumentDate *time.Time   `json:"document_date"`
}

type DocumentUploadGrant struct {
	Document *Document           `json:"document"`
	Upload   *utils.SignedUpload `json:"upload"`
}

// RegisterDocumentUpload creates the document row and returns a signed
// PUT URL. The same content hash within the org is rejected.
func RegisterDocumentUpload(ctx context.Context, input *NewDocumentUpload) (*DocumentUploadGrant, error) {
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

	hash := strings.ToLower(strings.TrimSpace(input.ContentHash))
	count, err := utils.ResourceCountWhere[Document](ctx, orgId, "content_hash = ? AND status <> ?", hash, DocumentStatusRejected)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ErrorDuplicateDocument
	}

	id := uuid.NewString()
	objectKey := fmt.Sprintf("%s/documents/%s/%s_%s", orgId, input.OutletId, id, input.FileName)

	docDate := time.Now()
	if input.DocumentDate != nil {
		docDate = *input.DocumentDate
	}

	doc := Document{
		ID:           id,
		OrgId:        orgId,
		OutletId:     input.OutletId,
		Type:         input.Type,
		Status:       DocumentStatusNeedsReview,
		DocumentDate: docDate,
		FileName:     input.FileName,
		ContentType:  input.ContentType,
		ObjectKey:    objectKey,
		ContentHash:  hash,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&doc).Error; err != nil {
		return nil, err
	}

	grant, err := utils.SignUpload(ctx, objectKey, input.ContentType, 15*time.Minute)
	if err != nil {
		return nil, err
	}
	return &DocumentUploadGrant{Document: &doc, Upload: grant}, nil
}

func GetDocumentDownloadURL(ctx context.Context, id string) (*utils.SignedDownload, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	doc, err := utils.FetchModel[Document](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, doc.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	return utils.SignDownload(ctx, doc.ObjectKey, 10*time.Minute)
}

type DocumentUpdate struct {
	Extracted    *ExtractedPayload `json:"extracted"`
	DocumentDate *time.Time        `json:"document_date"`
	Status       DocumentStatus    `json:"status"`
}

// ExtractedPayload decodes the stored JSON. A missing or broken payload
// yields an empty payload, not an error.
func (d *Document) ExtractedPayload() ExtractedPayload {
	var p ExtractedPayload
	if d.Extracted == "" {
		return p
	}
	_ = json.Unmarshal([]byte(d.Extracted), &p)
	return p
}

// UpdateDocument edits the extracted payload. The previous payload is
// snapshotted into document_versions and the version number increments.
func UpdateDocument(ctx context.Context, id string, input *DocumentUpdate) (*Document, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	userId, _ := utils.GetUserIdFromContext(ctx)

	doc, err := utils.FetchModel[Document](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, doc.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	if doc.Status == DocumentStatusCommitted && config.StrictCommittedDocImmutability() {
		return nil, utils.ErrorDocumentCommitted
	}

	db := config.GetDB()
	tx := db.Begin()

	version := DocumentVersion{
		DocumentId:    doc.ID,
		OrgId:         orgId,
		VersionNumber: doc.VersionNumber,
		Extracted:     doc.Extracted,
		EditedBy:      userId,
	}
	if err := tx.WithContext(ctx).Create(&version).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	updates := map[string]interface{}{
		"VersionNumber": doc.VersionNumber + 1,
	}
	if input.Extracted != nil {
		payload, err := json.Marshal(input.Extracted)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		updates["Extracted"] = string(payload)
	}
	if input.DocumentDate != nil {
		updates["DocumentDate"] = *input.DocumentDate
	}
	if input.Status == DocumentStatusProcessed || input.Status == DocumentStatusNeedsReview {
		updates["Status"] = input.Status
	}

	if err := tx.WithContext(ctx).Model(&doc).Updates(updates).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	return utils.FetchModel[Document](ctx, orgId, id)
}

func GetDocumentVersions(ctx context.Context, documentId string) ([]*DocumentVersion, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if _, err := utils.FetchModel[Document](ctx, orgId, documentId); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var versions []*DocumentVersion
	err := db.WithContext(ctx).
		Where("org_id = ? AND document_id = ?", orgId, documentId).
		Order("version_number desc").
		Find(&versions).Error
	return versions, err
}

// GetReviewQueue lists documents awaiting review, oldest first.
func GetReviewQueue(ctx context.Context, outletId string) ([]*Document, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Where("org_id = ? AND status = ?", orgId, DocumentStatusNeedsReview)
	if outletId != "" {
		if !utils.CanAccessOutlet(ctx, outletId) {
			return nil, utils.ErrorForbiddenOutlet
		}
		dbCtx = dbCtx.Where("outlet_id = ?", outletId)
	}

	var docs []*Document
	err := dbCtx.Order("created_at asc").Find(&docs).Error
	if err != nil {
		return nil, err
	}

	var visible []*Document
	for _, d := range docs {
		if utils.CanAccessOutlet(ctx, d.OutletId) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

type BulkDocumentAction struct {
	DocumentIds []string `json:"document_ids" binding:"required,min=1"`
	Action      string   `json:"action" binding:"required,oneof=approve reject"`
}

// BulkReviewDocuments approves (needs_review -> processed) or rejects a
// batch. Documents in other states are skipped, not failed.
func BulkReviewDocuments(ctx context.Context, input *BulkDocumentAction) (int, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return 0, errors.New("org id is required")
	}

	target := DocumentStatusProcessed
	if input.Action == "reject" {
		target = DocumentStatusRejected
	}

	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Document{}).
		Where("org_id = ? AND id IN ? AND status = ?", orgId, input.DocumentIds, DocumentStatusNeedsReview).
		Update("status", target)
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}

func GetDocument(ctx context.Context, id string) (*Document, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	doc, err := utils.FetchModel[Document](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if !utils.CanAccessOutlet(ctx, doc.OutletId) {
		return nil, utils.ErrorForbiddenOutlet
	}
	return doc, nil
}
