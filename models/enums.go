package models

// String-typed enums; stored as varchar columns.

type DocumentStatus string

const (
	DocumentStatusNeedsReview DocumentStatus = "needs_review"
	DocumentStatusProcessed   DocumentStatus = "processed"
	DocumentStatusCommitted   DocumentStatus = "committed"
	DocumentStatusRejected    DocumentStatus = "rejected"
)

type DocumentType string

const (
	DocumentTypeSalesReport   DocumentType = "sales_report"
	DocumentTypeVendorInvoice DocumentType = "vendor_invoice"
	DocumentTypeBankStatement DocumentType = "bank_statement"
	DocumentTypeFixedExpense  DocumentType = "fixed_expense"
)

// FigureSource labels where a daily total came from when reconciling.
type FigureSource string

const (
	FigureSourceLedger FigureSource = "ledger"
	FigureSourceBank   FigureSource = "bank"
	FigureSourceManual FigureSource = "manual"
)

// OutboxStatus tracks publish state of an outbox row. Rows are written
// in the same transaction as the ledger commit; a dispatcher publishes
// them after commit.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusPublished  OutboxStatus = "PUBLISHED"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const OutboxActionLedgerCommitted = "LEDGER_COMMITTED"

type InsightSeverity string

const (
	InsightSeverityInfo     InsightSeverity = "info"
	InsightSeverityWarning  InsightSeverity = "warning"
	InsightSeverityCritical InsightSeverity = "critical"
)

func (s InsightSeverity) Color() string {
	switch s {
	case InsightSeverityCritical:
		return "red"
	case InsightSeverityWarning:
		return "amber"
	default:
		return "green"
	}
}

type NotificationType string

const (
	NotificationTypeInsight     NotificationType = "insight"
	NotificationTypeDiscrepancy NotificationType = "discrepancy"
	NotificationTypeSystem      NotificationType = "system"
)

// ComplianceState classifies one calendar day against the org's
// required daily report types.
type ComplianceState string

const (
	ComplianceComplete ComplianceState = "complete"
	CompliancePartial  ComplianceState = "partial"
	ComplianceMissing  ComplianceState = "missing"
	ComplianceFuture   ComplianceState = "future"
)
