package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
)

func GetOrganization(c *gin.Context) {
	org, err := models.GetOrganization(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}

func UpdateOrganizationSettings(c *gin.Context) {
	var input models.OrganizationSettings
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	org, err := models.UpdateOrganizationSettings(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, org)
}
