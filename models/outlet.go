package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
)

type Outlet struct {
	ID       string `gorm:"primary_key;size:36" json:"id"`
	OrgId    string `gorm:"index;size:36;not null" json:"org_id" binding:"required"`
	Name     string `gorm:"size:255;not null" json:"name" binding:"required"`
	City     string `gorm:"size:128" json:"city"`
	Country  string `gorm:"size:2" json:"country"`
	Currency string `gorm:"size:3;not null;default:'INR'" json:"currency"`
	Timezone string `gorm:"size:64;not null;default:'Asia/Kolkata'" json:"timezone"`
	IsActive *bool  `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewOutlet struct {
	Name     string `json:"name" binding:"required"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Currency string `json:"currency"`
	Timezone string `json:"timezone"`
}

// Location resolves the outlet timezone, falling back to the org default.
func (o *Outlet) Location() *time.Location {
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (input *NewOutlet) validate() error {
	if input.Timezone != "" {
		if _, err := time.LoadLocation(input.Timezone); err != nil {
			return errors.New("invalid timezone")
		}
	}
	if input.Currency != "" && len(input.Currency) != 3 {
		return errors.New("currency must be a 3-letter code")
	}
	return nil
}

func CreateOutlet(ctx context.Context, input *NewOutlet) (*Outlet, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	org, err := GetOrganization(ctx)
	if err != nil {
		return nil, err
	}

	outlet := Outlet{
		ID:       uuid.NewString(),
		OrgId:    orgId,
		Name:     input.Name,
		City:     input.City,
		Country:  defaultIfEmpty(input.Country, org.Country),
		Currency: defaultIfEmpty(input.Currency, org.BaseCurrency),
		Timezone: defaultIfEmpty(input.Timezone, org.Timezone),
		IsActive: utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&outlet).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisList[Outlet](orgId)
	return &outlet, nil
}

func UpdateOutlet(ctx context.Context, id string, input *NewOutlet) (*Outlet, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	outlet, err := utils.FetchModel[Outlet](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	err = db.WithContext(ctx).Model(&outlet).Updates(map[string]interface{}{
		"Name":     defaultIfEmpty(input.Name, outlet.Name),
		"City":     defaultIfEmpty(input.City, outlet.City),
		"Country":  defaultIfEmpty(input.Country, outlet.Country),
		"Currency": defaultIfEmpty(input.Currency, outlet.Currency),
		"Timezone": defaultIfEmpty(input.Timezone, outlet.Timezone),
	}).Error
	if err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Outlet](id)
	_ = utils.RemoveRedisList[Outlet](orgId)
	return outlet, nil
}

func DeactivateOutlet(ctx context.Context, id string) (*Outlet, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	outlet, err := utils.FetchModel[Outlet](ctx, orgId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&outlet).Update("IsActive", false).Error; err != nil {
		return nil, err
	}
	_ = utils.RemoveRedisItem[Outlet](id)
	_ = utils.RemoveRedisList[Outlet](orgId)
	return outlet, nil
}

func GetOutlet(ctx context.Context, id string) (*Outlet, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if !utils.CanAccessOutlet(ctx, id) {
		return nil, utils.ErrorForbiddenOutlet
	}
	return utils.FetchModel[Outlet](ctx, orgId, id)
}

// GetOutlets lists the org's outlets, restricted to the caller's
// accessible set when the token carries one.
func GetOutlets(ctx context.Context) ([]*Outlet, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	outlets, err := utils.FetchAllModels[Outlet](ctx, orgId)
	if err != nil {
		return nil, err
	}

	var visible []*Outlet
	for _, o := range outlets {
		if utils.CanAccessOutlet(ctx, o.ID) {
			visible = append(visible, o)
		}
	}
	return visible, nil
}
