// Package handlers exposes the REST surface. Handlers stay thin: bind,
// call into models, translate errors to status codes.
package handlers

import (
	"errors"
	"net/http"

	"bitbucket.org/mmdatafocus/finsight_backend/models"
	"bitbucket.org/mmdatafocus/finsight_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorForbiddenOutlet):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, utils.ErrorDuplicateDocument),
		errors.Is(err, utils.ErrorDocumentCommitted),
		errors.Is(err, models.ErrorSupplierConflict),
		errors.Is(err, models.ErrorNoCommittableRows):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func respondBindError(c *gin.Context, err error) {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": utils.ProcessValidationErrors(err)})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}
