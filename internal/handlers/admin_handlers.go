package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tesseract-hub/listing-service/internal/models"
	"github.com/tesseract-hub/listing-service/internal/services"
)

// AdminHandlers handles user management, wave management, and
// administrative maintenance operations.
type AdminHandlers struct {
	users      *services.UserService
	waves      *services.WaveService
	properties *services.PropertyService
	logger     *logrus.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(users *services.UserService, waves *services.WaveService, properties *services.PropertyService, logger *logrus.Logger) *AdminHandlers {
	return &AdminHandlers{
		users:      users,
		waves:      waves,
		properties: properties,
		logger:     logger,
	}
}

type createUserRequest struct {
	models.User
	Password string `json:"password" binding:"required"`
}

// CreateUser registers a new user account
// POST /api/v1/users
func (h *AdminHandlers) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.users.Create(c.Request.Context(), &req.User, req.Password); err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	req.User.PasswordHash = ""
	c.JSON(http.StatusCreated, req.User)
}

// Login authenticates a user by username and password
// POST /api/v1/auth/login
func (h *AdminHandlers) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "Authentication failed")
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// GetUser retrieves a user by id
// GET /api/v1/users/:id
func (h *AdminHandlers) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// ListUsers lists all users
// GET /api/v1/users
func (h *AdminHandlers) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// UpdateUser updates a user account
// PUT /api/v1/users/:id
func (h *AdminHandlers) UpdateUser(c *gin.Context) {
	var user models.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user.ID = c.Param("id")
	if err := h.users.Update(c.Request.Context(), &user); err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	user.PasswordHash = ""
	c.JSON(http.StatusOK, user)
}

// CreateWave creates a promotional wave
// POST /api/v1/waves
func (h *AdminHandlers) CreateWave(c *gin.Context) {
	var wave models.Wave
	if err := c.ShouldBindJSON(&wave); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.waves.Create(c.Request.Context(), &wave); err != nil {
		respondError(c, err, "Failed to create wave")
		return
	}
	c.JSON(http.StatusCreated, wave)
}

// GetWave retrieves a wave by id
// GET /api/v1/waves/:id
func (h *AdminHandlers) GetWave(c *gin.Context) {
	wave, err := h.waves.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get wave")
		return
	}
	if wave == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "wave not found"})
		return
	}
	c.JSON(http.StatusOK, wave)
}

// ListWaves lists waves, optionally only active ones
// GET /api/v1/waves?active=true
func (h *AdminHandlers) ListWaves(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	waves, err := h.waves.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err, "Failed to list waves")
		return
	}
	c.JSON(http.StatusOK, gin.H{"waves": waves, "count": len(waves)})
}

// UpdateWave updates a wave
// PUT /api/v1/waves/:id
func (h *AdminHandlers) UpdateWave(c *gin.Context) {
	var wave models.Wave
	if err := c.ShouldBindJSON(&wave); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	wave.ID = c.Param("id")
	if err := h.waves.Update(c.Request.Context(), &wave); err != nil {
		respondError(c, err, "Failed to update wave")
		return
	}
	c.JSON(http.StatusOK, wave)
}

// DeleteWave deactivates a wave
// DELETE /api/v1/waves/:id
func (h *AdminHandlers) DeleteWave(c *gin.Context) {
	if err := h.waves.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete wave")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// GetWaveQuota reports a user's wave balance, usage, and remaining quota
// GET /api/v1/users/:id/wave-quota
func (h *AdminHandlers) GetWaveQuota(c *gin.Context) {
	quota, err := h.waves.Quota(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to get wave quota")
		return
	}
	if quota == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, quota)
}

// GrantWavePermission grants a customer access to a wave
// POST /api/v1/waves/permissions
func (h *AdminHandlers) GrantWavePermission(c *gin.Context) {
	var perm models.CustomerWavePermission
	if err := c.ShouldBindJSON(&perm); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.waves.GrantPermission(c.Request.Context(), &perm); err != nil {
		respondError(c, err, "Failed to grant wave permission")
		return
	}
	c.JSON(http.StatusCreated, perm)
}

// ListWavePermissions lists the wave permissions held by a user
// GET /api/v1/users/:id/wave-permissions
func (h *AdminHandlers) ListWavePermissions(c *gin.Context) {
	perms, err := h.waves.Permissions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list wave permissions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"permissions": perms, "count": len(perms)})
}

// RevokeWavePermission revokes a customer's access to a wave
// DELETE /api/v1/users/:id/wave-permissions/:wave_id
func (h *AdminHandlers) RevokeWavePermission(c *gin.Context) {
	if err := h.waves.RevokePermission(c.Request.Context(), c.Param("id"), c.Param("wave_id")); err != nil {
		respondError(c, err, "Failed to revoke wave permission")
		return
	}
	c.JSON(http.StatusOK, gin.H{"revoked": true})
}

// ClearAllProperties wipes all listings and their dependent rows
// DELETE /api/v1/admin/properties
func (h *AdminHandlers) ClearAllProperties(c *gin.Context) {
	deleted, err := h.properties.ClearAll(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to clear properties")
		return
	}
	h.logger.WithField("deleted", deleted).Warn("All properties cleared")
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// RepairWaveBalances resets zero wave balances back to the default
// POST /api/v1/admin/repair-wave-balances
func (h *AdminHandlers) RepairWaveBalances(c *gin.Context) {
	repaired, err := h.users.RepairZeroWaveBalances(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to repair wave balances")
		return
	}
	c.JSON(http.StatusOK, gin.H{"repaired": repaired})
}
