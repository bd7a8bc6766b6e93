package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
)

func CreateOutlet(c *gin.Context) {
	var input models.NewOutlet
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	outlet, err := models.CreateOutlet(c.Request.Context(), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, outlet)
}

func GetOutlets(c *gin.Context) {
	outlets, err := models.GetOutlets(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outlets)
}

func GetOutlet(c *gin.Context) {
	outlet, err := models.GetOutlet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outlet)
}

func UpdateOutlet(c *gin.Context) {
	var input models.NewOutlet
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}
	outlet, err := models.UpdateOutlet(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outlet)
}

func DeactivateOutlet(c *gin.Context) {
	outlet, err := models.DeactivateOutlet(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outlet)
}
