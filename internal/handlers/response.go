package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tesseract-hub/listing-service/internal/services"
	"github.com/tesseract-hub/listing-service/internal/storage"
)

// respondError maps service and storage errors onto HTTP statuses:
// validation 400, not-found 404, conflict 409, quota 409, rest 500.
func respondError(c *gin.Context, err error, fallback string) {
	if quotaErr, ok := storage.IsQuotaExceeded(err); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":        quotaErr.Error(),
			"wave_balance": quotaErr.WaveBalance,
		})
		return
	}
	if validationErr, ok := services.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "field": validationErr.Field})
		return
	}
	if conflictErr, ok := services.IsConflictError(err); ok {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
		return
	}
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
