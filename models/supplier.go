package models

import (
	"context"
	"errors"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
)

// fuzzyMatchThreshold is the normalized similarity above which two
// supplier names are treated as the same vendor.
const fuzzyMatchThreshold = 0.75

type Supplier struct {
	ID         string `gorm:"primary_key;size:36" json:"id"`
	OrgId      string `gorm:"index;size:36;not null" json:"org_id" binding:"required"`
	Name       string `gorm:"size:255;not null" json:"name" binding:"required"`
	TaxId      string `gorm:"size:32" json:"tax_id"`
	TaxCountry string `gorm:"size:2;default:'IN'" json:"tax_country"`
	Phone      string `gorm:"size:32" json:"phone"`
	Email      string `gorm:"size:255" json:"email"`
	Category   string `gorm:"size:128" json:"category"`
	IsActive   *bool  `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewSupplier struct {
	Name       string `json:"name" binding:"required"`
	TaxId      string `json:"tax_id"`
	TaxCountry string `json:"tax_country"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Category   string `json:"category"`

	// Force skips the fuzzy-duplicate conflict and creates anyway.
	Force bool `json:"force"`
}

// SupplierConflict reports probable duplicates for a proposed supplier.
type SupplierConflict struct {
	Existing   *Supplier `json:"existing"`
	Similarity float64   `json:"similarity"`
}

var ErrorSupplierConflict = errors.New("similar supplier already exists")

func (input *NewSupplier) validate(ctx context.Context, orgId string) error {
	country := defaultIfEmpty(input.TaxCountry, "IN")
	if input.TaxId != "" {
		if err := utils.ValidateTaxId(country, input.TaxId); err != nil {
			return err
		}
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, country); err != nil {
			return errors.New("invalid phone number")
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("invalid email")
	}
	return nil
}

// FindSimilarSuppliers returns active suppliers whose names match the
// candidate above the fuzzy threshold, best match first.
func FindSimilarSuppliers(ctx context.Context, orgId string, name string) ([]SupplierConflict, error) {
	suppliers, err := utils.FetchAllModels[Supplier](ctx, orgId)
	if err != nil {
		return nil, err
	}

	var conflicts []SupplierConflict
	for _, s := range suppliers {
		if s.IsActive != nil && !*s.IsActive {
			continue
		}
		sim := utils.NameSimilarity(s.Name, name)
		if sim >= fuzzyMatchThreshold {
			conflicts = append(conflicts, SupplierConflict{Existing: s, Similarity: sim})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool {
		return conflicts[i].Similarity > conflicts[j].Similarity
	})
	return conflicts, nil
}

// CreateSupplier validates tax id and phone, then checks for fuzzy name
// duplicates. A conflict returns ErrorSupplierConflict with the matches;
// callers resend with Force to override.
func CreateSupplier(ctx context.Context, input *NewSupplier) (*Supplier, []SupplierConflict, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, nil, errors.New("org id is required")
	}
	if err := input.validate(ctx, orgId); err != nil {
		return nil, nil, err
	}

	if !input.Force {
		conflicts, err := FindSimilarSuppliers(ctx, orgId, input.Name)
		if err != nil {
			return nil, nil, err
		}
		if len(conflicts) > 0 {
			return nil, conflicts, ErrorSupplierConflict
		}
	}

	supplier := Supplier{
		ID:         uuid.NewString(),
		OrgId:      orgId,
		Name:       input.Name,
		TaxId:      input.TaxId,
		TaxCountry: defaultIfEmpty(input.TaxCountry, "IN"),
		Phone:      input.Phone,
		Email:      input.Email,
		Category:   input.Category,
		IsActive:   utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&supplier).Error; err != nil {
		return nil, nil, err
	}
	_ = utils.RemoveRedisList[Supplier](orgId)
	return &supplier, nil, nil
}

func UpdateSupplier(ctx context.Context, id string, input *NewSupplier) (*Supplier, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if err := input.validate(ctx, orgId); err != nil {
		return nil, err
	}

	supplier, err := utils.FetchModel[Supplier](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&supplier).Updates(map[string]interface{}{
		"Name":       defaultIfEmpty(input.Name, supplier.Name),
		"TaxId":      input.TaxId,
		"TaxCountry": defaultIfEmpty(input.TaxCountry, supplier.TaxCountry),
		"Phone":      input.Phone,
		"Email":      input.Email,
		"Category":   input.Category,
	}).Error
	if err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Supplier](id)
	_ = utils.RemoveRedisList[Supplier](orgId)
	return supplier, nil
}

func DeactivateSupplier(ctx context.Context, id string) (*Supplier, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	supplier, err := utils.FetchModel[Supplier](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&supplier).Update("IsActive", false).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Supplier](id)
	_ = utils.RemoveRedisList[Supplier](orgId)
	return supplier, nil
}

func GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	return utils.FetchModel[Supplier](ctx, orgId, id)
}

func GetSuppliers(ctx context.Context) ([]*Supplier, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	return utils.FetchAllModels[Supplier](ctx, orgId)
}
