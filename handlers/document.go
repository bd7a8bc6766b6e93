package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/config"
	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/gin-gonic/gin"
)

func RegisterDocumentUpload(c *gin.Context) {
	var input models.NewDocumentUpload
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	grant, err := models.RegisterDocumentUpload(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func GetDocument(c *gin.Context) {
	doc, err := models.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func GetDocumentDownloadURL(c *gin.Context) {
	grant, err := models.GetDocumentDownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, grant)
}

func GetReviewQueue(c *gin.Context) {
	docs, err := models.GetReviewQueue(c.Request.Context(), c.Query("outlet_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, docs)
}

func UpdateDocument(c *gin.Context) {
	var input models.DocumentUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	doc, err := models.UpdateDocument(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func GetDocumentVersions(c *gin.Context) {
	versions, err := models.GetDocumentVersions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func CommitDocument(c *gin.Context) {
	result, err := models.CommitDocumentRecords(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func BulkReviewDocuments(c *gin.Context) {
	var input models.BulkDocumentAction
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	affected, err := models.BulkReviewDocuments(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"affected": affected})
}

// GetDocumentOutboxStatus surfaces publish progress for a committed
// document's event.
func GetDocumentOutboxStatus(c *gin.Context) {
	orgId, ok := utils.GetOrgIdFromContext(c.Request.Context())
	if !ok || orgId == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	db := config.GetDB()
	status, err := models.GetOutboxStatus(db.WithContext(c.Request.Context()), orgId, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
