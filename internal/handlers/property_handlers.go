package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/services"
)

// PropertyHandlers handles HTTP requests for property listings.
type PropertyHandlers struct {
	service *services.PropertyService
	logger  *logrus.Logger
}

// NewPropertyHandlers creates a new property handlers instance.
func NewPropertyHandlers(service *services.PropertyService, logger *logrus.Logger) *PropertyHandlers {
	return &PropertyHandlers{
		service: service,
		logger:  logger,
	}
}

// parseFilters translates query-string parameters into PropertyFilters.
func parseFilters(c *gin.Context) models.PropertyFilters {
	filters := models.PropertyFilters{
		Type:        c.Query("type"),
		ListingType: c.Query("listing_type"),
		City:        c.Query("city"),
		Country:     c.Query("country"),
		Language:    c.Query("language"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filters.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filters.MaxPrice = &v
	}
	if v, err := strconv.Atoi(c.Query("bedrooms")); err == nil {
		filters.MinBedrooms = &v
	}
	if v, err := strconv.Atoi(c.Query("bathrooms")); err == nil {
		filters.MinBathrooms = &v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		filters.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil {
		filters.Offset = v
	}
	return filters
}

// ListProperties retrieves filtered properties
// GET /api/v1/properties
func (h *PropertyHandlers) ListProperties(c *gin.Context) {
	filters := parseFilters(c)
	userID := c.Query("user_id")

	properties, err := h.service.List(c.Request.Context(), filters, userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list properties")
		respondError(c, err, "Failed to list properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties, "count": len(properties)})
}

// GetFeaturedProperties retrieves the featured strip
// GET /api/v1/properties/featured
func (h *PropertyHandlers) GetFeaturedProperties(c *gin.Context) {
	properties, err := h.service.Featured(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get featured properties")
		return
	}
	c.JSON(http.StatusOK, gin.H{"properties": properties})
}

// GetProperty retrieves one property and counts the view
// GET /api/v1/properties/:id
func (h *PropertyHandlers) GetProperty(c *gin.Context) {
	property, err := h.service.Get(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		respondError(c, err, "Failed to get property")
		return
	}
	if property == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "property not found"})
		return
	}
	c.JSON(http.StatusOK, property)
}

// CreateProperty creates a listing
// POST /api/v1/properties
func (h *PropertyHandlers) CreateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.Create(c.Request.Context(), &property); err != nil {
		respondError(c, err, "Failed to create property")
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty updates a listing
// PUT /api/v1/properties/:id
func (h *PropertyHandlers) UpdateProperty(c *gin.Context) {
	var property models.Property
	if err := c.ShouldBindJSON(&property); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	property.ID = c.Param("id")
	if err := h.service.Update(c.Request.Context(), &property); err != nil {
		respondError(c, err, "Failed to update property")
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty removes a listing
// DELETE /api/v1/properties/:id
func (h *PropertyHandlers) DeleteProperty(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete property")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
