package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/models/reports"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/sirupsen/logrus"
)

// SystemContext builds the context used when processing a queued
// message: the org scope comes from the payload, the actor is System.
func SystemContext(ctx context.Context, orgId, correlationId string) context.Context {
	ctx = utils.SetOrgIdInContext(ctx, orgId)
	ctx = utils.SetUserIdInContext(ctx, "")
	ctx = utils.SetUserNameInContext(ctx, "System")
	ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
	return ctx
}

// ProcessReconMessage handles one committed-ledger event: re-run
// discrepancy detection for the affected range against every
// counterpart source, then refresh the insight cards per day. The whole
// pipeline is idempotent (fingerprint inserts, insight upserts), so
// at-least-once delivery is safe.
func ProcessReconMessage(ctx context.Context, logger *logrus.Logger, m config.ReconMessage) error {
	if m.OrgId == "" || m.OutletId == "" {
		return errors.New("org_id and outlet_id are required")
	}
	if m.Action != models.OutboxActionLedgerCommitted {
		// Unknown actions are dropped, not retried.
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"field":  "ReconWorkflow",
				"org_id": m.OrgId,
				"action": m.Action,
			}).Warn("dropping recon message with unknown action")
		}
		return nil
	}

	ctx = SystemContext(ctx, m.OrgId, m.CorrelationId)

	from := m.RangeStart
	to := m.RangeEnd
	if from == "" || to == "" {
		today := time.Now().UTC().Format("2006-01-02")
		from, to = today, today
	}

	for _, counterpart := range []models.FigureSource{models.FigureSourceBank, models.FigureSourceManual} {
		result, err := models.RunDetection(ctx, m.OutletId, counterpart, from, to)
		if err != nil {
			return err
		}
		if result.Inserted > 0 && logger != nil {
			logger.WithFields(logrus.Fields{
				"field":       "ReconWorkflow",
				"org_id":      m.OrgId,
				"outlet_id":   m.OutletId,
				"counterpart": counterpart,
				"inserted":    result.Inserted,
			}).Info("detection inserted new discrepancies")
		}
		for _, row := range result.Rows {
			_, notifyErr := models.CreateNotification(ctx, m.OrgId, &models.Notification{
				OutletId:    row.OutletId,
				Type:        models.NotificationTypeDiscrepancy,
				Title:       "Figures disagree on " + row.Date,
				Body:        row.SourceA + " reports " + row.AmountA.String() + " but " + row.SourceB + " reports " + row.AmountB.String() + ".",
				ReferenceId: row.ID,
			})
			if notifyErr != nil {
				config.LogError(logger, "ReconWorkflow", "ProcessReconMessage", "discrepancy notification failed", row.ID, notifyErr)
			}
		}
	}

	// Refresh insight cards for every day the commit touched.
	start, err := time.Parse("2006-01-02", from)
	if err != nil {
		return err
	}
	end, err := time.Parse("2006-01-02", to)
	if err != nil {
		return err
	}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if _, err := reports.GetInsightReport(ctx, m.OutletId, d.Format("2006-01-02")); err != nil {
			return err
		}
	}
	return nil
}
