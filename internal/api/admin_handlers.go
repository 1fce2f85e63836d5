// Package api - Admin handlers
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
)

// ListProfiles returns every registered profile
// GET /api/admin/users
func (h *AuthHandler) ListProfiles(c *gin.Context) {
	var profiles []models.Profile
	if err := h.db.Order("created_at").Find(&profiles).Error; err != nil {
		respondError(c, errors.NewInternalError(err))
		return
	}

	responses := make([]ProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, toProfileResponse(&profiles[i]))
	}
	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// SetProfileActiveRequest toggles account access
type SetProfileActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetProfileActive enables or disables a profile. A disabled profile
// cannot log in or refresh tokens; its data stays intact.
// PATCH /api/admin/users/:id/active
func (h *AuthHandler) SetProfileActive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SetProfileActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	result := h.db.Model(&models.Profile{}).Where("id = ?", id).Update("is_active", *req.IsActive)
	if result.Error != nil {
		respondError(c, errors.NewInternalError(result.Error))
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, errors.NewNotFoundError("profile"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}
