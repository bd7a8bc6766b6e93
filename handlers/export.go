package handlers

import (
	"fmt"
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models/reports"
	"github.com/gin-gonic/gin"
)

// ExportDailyLedger streams the ledger report as an attachment.
// ?format=csv or xlsx (default).
func ExportDailyLedger(c *gin.Context) {
	data, filename, mime, err := reports.ExportDailyLedger(
		c.Request.Context(), c.Query("outlet_id"), c.Query("from"), c.Query("to"), c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, mime, data)
}
