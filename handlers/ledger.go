package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
)

func GetLedgerRecords(c *gin.Context) {
	records, err := models.GetLedgerRecords(c.Request.Context(), c.Query("outlet_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func DeleteLedgerRecord(c *gin.Context) {
	record, err := models.DeleteLedgerRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func UpsertSourceReport(c *gin.Context) {
	var input models.NewSourceReport
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	report, err := models.UpsertSourceReport(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func GetSourceReports(c *gin.Context) {
	reports, err := models.GetSourceReports(c.Request.Context(), c.Query("outlet_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
