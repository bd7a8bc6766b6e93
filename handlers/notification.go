package handlers

import (
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
)

func GetNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread_only") == "true"
	limit, _ := strconv.Atoi(c.Query("limit"))
	rows, err := models.GetNotifications(c.Request.Context(), unreadOnly, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func MarkNotificationRead(c *gin.Context) {
	row, err := models.MarkNotificationRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

func MarkAllNotificationsRead(c *gin.Context) {
	count, err := models.MarkAllNotificationsRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": count})
}
