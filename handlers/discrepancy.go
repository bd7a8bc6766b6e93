package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"github.com/gin-gonic/gin"
)

type detectRequest struct {
	OutletId    string              `json:"outlet_id" binding:"required"`
	Counterpart models.FigureSource `json:"counterpart" binding:"required,oneof=bank manual"`
	From        string              `json:"from" binding:"required"`
	To          string              `json:"to" binding:"required"`
}

func RunDetection(c *gin.Context) {
	var req detectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	result, err := models.RunDetection(c.Request.Context(), req.OutletId, req.Counterpart, req.From, req.To)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func GetDiscrepancies(c *gin.Context) {
	includeResolved := c.Query("include_resolved") == "true"
	rows, err := models.GetDiscrepancies(c.Request.Context(), c.Query("outlet_id"), includeResolved)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func ResolveDiscrepancy(c *gin.Context) {
	row, err := models.ResolveDiscrepancy(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}
