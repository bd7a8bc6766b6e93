package handlers

import (
	"net/http"
	"strconv"
	"time"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func SyncDailyRates(c *gin.Context) {
	snapshot, err := models.SyncDailyRates(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func GetRateSnapshots(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	snapshots, err := models.GetRateSnapshots(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshots)
}

// ConvertAmount is a utility endpoint for the frontend; conversion never
// fails, unknown currencies degrade to rate 1.
func ConvertAmount(c *gin.Context) {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a decimal number"})
		return
	}
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to currencies are required"})
		return
	}
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	converted := models.ConvertAmount(c.Request.Context(), amount, from, to, date)
	c.JSON(http.StatusOK, gin.H{
		"amount":    amount,
		"from":      from,
		"to":        to,
		"date":      date,
		"converted": converted,
	})
}
