package handlers

import (
	"encoding/json"
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/workflow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("finsight-backend")

// pushEnvelope is the wrapper Pub/Sub wraps around push deliveries.
// Data is base64 in the wire JSON; encoding/json decodes it into []byte.
type pushEnvelope struct {
	Message struct {
		Data []byte `json:"data"`
		ID   string `json:"messageId"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// ReconPushHandler receives outbox events from the push subscription.
// Malformed payloads are acked with 204 so they do not loop forever;
// processing failures return 500 so Pub/Sub redelivers.
func ReconPushHandler(c *gin.Context) {
	logger := config.GetLogger()

	var envelope pushEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		config.LogError(logger, "pubsub.go", "ReconPushHandler", "decoding push envelope", "", err)
		c.Status(http.StatusNoContent)
		return
	}

	var m config.ReconMessage
	if err := json.Unmarshal(envelope.Message.Data, &m); err != nil {
		config.LogError(logger, "pubsub.go", "ReconPushHandler", "unmarshaling recon message", envelope.Message.ID, err)
		c.Status(http.StatusNoContent)
		return
	}

	ctx := workflow.SystemContext(c.Request.Context(), m.OrgId, m.CorrelationId)
	ctx, span := tracer.Start(ctx, "recon.process")
	defer span.End()
	if err := workflow.ProcessReconMessage(ctx, logger, m); err != nil {
		logger.WithFields(logrus.Fields{
			"field":          "ReconPushHandler",
			"org_id":         m.OrgId,
			"outlet_id":      m.OutletId,
			"document_id":    m.DocumentId,
			"message_id":     envelope.Message.ID,
			"correlation_id": m.CorrelationId,
		}).Error("recon workflow failed: " + err.Error())
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}
