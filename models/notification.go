package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/google/uuid"
)

type Notification struct {
	ID       string           `gorm:"primary_key;size:36" json:"id"`
	OrgId    string           `gorm:"index;size:36;not null" json:"org_id"`
	OutletId string           `gorm:"index;size:36" json:"outlet_id"`
	Type     NotificationType `gorm:"size:32;not null" json:"type"`
	Title    string           `gorm:"size:255;not null" json:"title"`
	Body     string           `gorm:"type:text" json:"body"`

	// ReferenceId points at the insight or discrepancy that raised it.
	ReferenceId string `gorm:"size:36;index" json:"reference_id"`

	IsRead *bool      `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt *time.Time `json:"read_at"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CreateNotification writes a row for the org feed. It is called from
// workflow code with a system context, so orgId is explicit.
func CreateNotification(ctx context.Context, orgId string, n *Notification) (*Notification, error) {
	if orgId == "" {
		return nil, errors.New("org id is required")
	}
	n.ID = uuid.NewString()
	n.OrgId = orgId
	n.IsRead = utils.NewFalse()

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// GetNotifications lists the org feed, unread first, newest first.
func GetNotifications(ctx context.Context, unreadOnly bool, limit int) ([]*Notification, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("org_id = ?", orgId)
	if unreadOnly {
		dbCtx = dbCtx.Where("is_read = ?", false)
	}

	var rows []*Notification
	err := dbCtx.Order("is_read asc, created_at desc").Limit(limit).Find(&rows).Error
	return rows, err
}

// MarkNotificationRead flips one row. Idempotent.
func MarkNotificationRead(ctx context.Context, id string) (*Notification, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return nil, errors.New("org id is required")
	}

	row, err := utils.FetchModel[Notification](ctx, orgId, id)
	if err != nil {
		return nil, err
	}
	if row.IsRead != nil && *row.IsRead {
		return row, nil
	}

	now := time.Now().UTC()
	db := config.GetDB()
	err = db.WithContext(ctx).Model(&row).Updates(map[string]interface{}{
		"IsRead": true,
		"ReadAt": &now,
	}).Error
	if err != nil {
		return nil, err
	}
	return utils.FetchModel[Notification](ctx, orgId, id)
}

// MarkAllNotificationsRead flips every unread row, returning the count.
func MarkAllNotificationsRead(ctx context.Context) (int, error) {
	orgId, ok := utils.GetOrgIdFromContext(ctx)
	if !ok || orgId == "" {
		return 0, errors.New("org id is required")
	}

	now := time.Now().UTC()
	db := config.GetDB()
	result := db.WithContext(ctx).Model(&Notification{}).
		Where("org_id = ? AND is_read = ?", orgId, false).
		Updates(map[string]interface{}{
			"IsRead": true,
			"ReadAt": &now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return int(result.RowsAffected), nil
}
