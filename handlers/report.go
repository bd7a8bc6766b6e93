package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/models/reports"
	"github.com/gin-gonic/gin"
)

func GetDashboardReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))
	resp, err := reports.GetDashboardReport(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GetOutletDashboard(c *gin.Context) {
	resp, err := reports.GetOutletDashboard(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GetDailyLedgerReport(c *gin.Context) {
	resp, err := reports.GetDailyLedgerReport(c.Request.Context(), c.Query("outlet_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GetCalendarComplianceReport(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year must be a number"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}
	resp, err := reports.GetCalendarComplianceReport(c.Request.Context(), c.Query("outlet_id"), year, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetInsightReport computes and stores the insight cards for one outlet
// day on demand; the workflow runs the same path after each commit.
func GetInsightReport(c *gin.Context) {
	resp, err := reports.GetInsightReport(c.Request.Context(), c.Query("outlet_id"), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func GetInsights(c *gin.Context) {
	rows, err := models.GetInsights(c.Request.Context(), c.Query("outlet_id"), c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
