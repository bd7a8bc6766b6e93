package models

import (
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"gorm.io/gorm"
)

// OutboxMessage is one pending reconciliation event. Rows are inserted
// inside the ledger-commit transaction so the event exists iff the
// records do. The dispatcher publishes them to Pub/Sub after commit.
type OutboxMessage struct {
	ID          int       `gorm:"primary_key;index:idx_outbox_dispatch,priority:3" json:"id"`
	OrgId       string    `gorm:"size:36;not null;index" json:"org_id"`
	OutletId    string    `gorm:"size:36;not null" json:"outlet_id"`
	DocumentId  string    `gorm:"size:36;index" json:"document_id"`
	Action      string    `gorm:"size:32;not null" json:"action"`
	RangeStart  string    `gorm:"size:10" json:"range_start"`
	RangeEnd    string    `gorm:"size:10" json:"range_end"`
	CommittedAt time.Time `gorm:"not null" json:"committed_at"`

	Status           OutboxStatus `gorm:"size:20;not null;default:'PENDING';index:idx_outbox_dispatch,priority:1" json:"status"`
	PublishAttempts  int          `gorm:"not null;default:0" json:"publish_attempts"`
	NextAttemptAt    *time.Time   `gorm:"index;index:idx_outbox_dispatch,priority:2" json:"next_attempt_at"`
	LockedAt         *time.Time   `gorm:"index" json:"locked_at"`
	LockedBy         *string      `gorm:"size:100" json:"locked_by"`
	LastPublishError *string      `gorm:"type:text" json:"last_publish_error"`
	PublishedAt      *time.Time   `gorm:"index" json:"published_at"`
	PubSubMessageId  *string      `gorm:"size:255" json:"pubsub_message_id"`
	CorrelationId    string       `gorm:"size:64;index" json:"correlation_id"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// ToReconMessage converts the row into the Pub/Sub payload.
func (m *OutboxMessage) ToReconMessage() config.ReconMessage {
	return config.ReconMessage{
		ID:            m.ID,
		OrgId:         m.OrgId,
		OutletId:      m.OutletId,
		CommittedAt:   m.CommittedAt,
		DocumentId:    m.DocumentId,
		RangeStart:    m.RangeStart,
		RangeEnd:      m.RangeEnd,
		Action:        m.Action,
		CorrelationId: m.CorrelationId,
	}
}

// EnqueueOutboxMessage inserts the row on the caller's transaction. The
// caller must pass the same tx that writes the ledger records.
func EnqueueOutboxMessage(tx *gorm.DB, msg *OutboxMessage) error {
	msg.Status = OutboxStatusPending
	msg.PublishAttempts = 0
	return tx.Create(msg).Error
}

// GetOutboxStatus returns the latest outbox row for a document, for
// surfacing publish progress in the review UI.
func GetOutboxStatus(tx *gorm.DB, orgId, documentId string) (*OutboxMessage, error) {
	var msg OutboxMessage
	err := tx.
		Where("org_id = ? AND document_id = ?", orgId, documentId).
		Order("id desc").
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}
