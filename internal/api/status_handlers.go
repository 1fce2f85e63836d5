// Package api - Status notification settings handlers
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/repario/server/internal/engine"
	"github.com/repario/server/internal/models"
)

// ListStatusSettings returns the caller's four status settings,
// materializing defaults on first read
// GET /api/settings/status
func (h *Handler) ListStatusSettings(c *gin.Context) {
	settings, err := h.statuses.List(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// UpdateStatusSetting modifies the setting of one status
// PUT /api/settings/status/:status
func (h *Handler) UpdateStatusSetting(c *gin.Context) {
	status := models.InvoiceStatus(c.Param("status"))

	var req engine.StatusSettingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	setting, err := h.statuses.Update(currentUserID(c), status, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, setting)
}
