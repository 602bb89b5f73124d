package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/services"
)

// CustomerHandlers handles HTTP requests for customer engagement
// (activities, points, favorites, inquiries, search history).
type CustomerHandlers struct {
	service *services.CustomerService
	logger  *logrus.Logger
}

// NewCustomerHandlers creates a new customer handlers instance.
func NewCustomerHandlers(service *services.CustomerService, logger *logrus.Logger) *CustomerHandlers {
	return &CustomerHandlers{
		service: service,
		logger:  logger,
	}
}

// RecordActivity appends a customer activity and accumulates points
// POST /api/v1/customers/activities
func (h *CustomerHandlers) RecordActivity(c *gin.Context) {
	var activity models.CustomerActivity
	if err := c.ShouldBindJSON(&activity); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.RecordActivity(c.Request.Context(), &activity); err != nil {
		respondError(c, err, "Failed to record activity")
		return
	}
	c.JSON(http.StatusCreated, activity)
}

// GetPoints retrieves the accumulated points for a customer
// GET /api/v1/customers/:user_id/points
func (h *CustomerHandlers) GetPoints(c *gin.Context) {
	points, err := h.service.Points(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err, "Failed to get customer points")
		return
	}
	if points == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "customer points not found"})
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetAnalytics retrieves the aggregated activity analytics for a customer
// GET /api/v1/customers/:user_id/analytics
func (h *CustomerHandlers) GetAnalytics(c *gin.Context) {
	analytics, err := h.service.Analytics(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err, "Failed to get customer analytics")
		return
	}
	c.JSON(http.StatusOK, analytics)
}

// AddFavorite marks a property as a favorite for a customer
// POST /api/v1/customers/:user_id/favorites/:property_id
func (h *CustomerHandlers) AddFavorite(c *gin.Context) {
	favorite, err := h.service.AddFavorite(c.Request.Context(), c.Param("user_id"), c.Param("property_id"))
	if err != nil {
		respondError(c, err, "Failed to add favorite")
		return
	}
	c.JSON(http.StatusCreated, favorite)
}

// RemoveFavorite removes a favorite
// DELETE /api/v1/customers/:user_id/favorites/:property_id
func (h *CustomerHandlers) RemoveFavorite(c *gin.Context) {
	if err := h.service.RemoveFavorite(c.Request.Context(), c.Param("user_id"), c.Param("property_id")); err != nil {
		respondError(c, err, "Failed to remove favorite")
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// GetFavorites lists the favorited properties for a customer
// GET /api/v1/customers/:user_id/favorites
func (h *CustomerHandlers) GetFavorites(c *gin.Context) {
	properties, err := h.service.Favorites(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		respondError(c, err, "Failed to get favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}

// CreateInquiry records a contact request against a property
// POST /api/v1/inquiries
func (h *CustomerHandlers) CreateInquiry(c *gin.Context) {
	var inquiry models.Inquiry
	if err := c.ShouldBindJSON(&inquiry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.CreateInquiry(c.Request.Context(), &inquiry); err != nil {
		respondError(c, err, "Failed to create inquiry")
		return
	}
	c.JSON(http.StatusCreated, inquiry)
}

// GetInquiries lists inquiries for a property
// GET /api/v1/properties/:id/inquiries
func (h *CustomerHandlers) GetInquiries(c *gin.Context) {
	inquiries, err := h.service.Inquiries(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get inquiries")
		return
	}
	c.JSON(http.StatusOK, gin.H{"inquiries": inquiries, "count": len(inquiries)})
}

// UpdateInquiryStatus transitions an inquiry's status
// PUT /api/v1/inquiries/:id/status
func (h *CustomerHandlers) UpdateInquiryStatus(c *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateInquiryStatus(c.Request.Context(), c.Param("id"), body.Status); err != nil {
		respondError(c, err, "Failed to update inquiry status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// GetSearchHistory lists the most recent searches for a customer
// GET /api/v1/customers/:user_id/search-history
func (h *CustomerHandlers) GetSearchHistory(c *gin.Context) {
	limit := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = v
	}
	history, err := h.service.SearchHistory(c.Request.Context(), c.Param("user_id"), limit)
	if err != nil {
		respondError(c, err, "Failed to get search history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}
