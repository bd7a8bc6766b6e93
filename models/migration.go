package models

import (
	"bitbucket.org/mmdatafocus/finsight_backend/config"
)

// MigrateTable runs gorm AutoMigrate for every persisted entity.
// Called from main() after the DB connection is established.
func MigrateTable() error {
	db := config.GetDB()
	return db.AutoMigrate(
		&Organization{},
		&Outlet{},
		&Supplier{},
		&Document{},
		&DocumentVersion{},
		&LedgerRecord{},
		&Discrepancy{},
		&SourceReport{},
		&RateSnapshot{},
		&OutboxMessage{},
		&Notification{},
		&Insight{},
	)
}
