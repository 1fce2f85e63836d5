// Package api - Layout designer handlers
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repario/server/internal/engine"
)

// LayoutRequest carries the writable attributes of a layout
type LayoutRequest struct {
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// SectionRequest carries the writable attributes of a section
type SectionRequest struct {
	Title string `json:"title"`
}

// ReorderRequest carries a full id ordering
type ReorderRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

// CopyRequest names the copy destination
type CopyRequest struct {
	TargetID uuid.UUID `json:"target_id" binding:"required"`
}

// =============================================================================
// LAYOUTS
// =============================================================================

// ListLayouts returns the caller's layouts, default first
// GET /api/layouts
func (h *Handler) ListLayouts(c *gin.Context) {
	layouts, err := h.layouts.List(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": layouts})
}

// GetLayout returns one layout with its full tree
// GET /api/layouts/:id
func (h *Handler) GetLayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	layout, err := h.layouts.Get(currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// CreateLayout creates an empty layout
// POST /api/layouts
func (h *Handler) CreateLayout(c *gin.Context) {
	var req LayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	layout, err := h.layouts.Create(currentUserID(c), req.Name, req.IsDefault)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, layout)
}

// UpdateLayout renames a layout
// PUT /api/layouts/:id
func (h *Handler) UpdateLayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req LayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	layout, err := h.layouts.Rename(currentUserID(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// SetDefaultLayout makes a layout the caller's single default
// POST /api/layouts/:id/default
func (h *Handler) SetDefaultLayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	layout, err := h.layouts.SetDefault(currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, layout)
}

// DeleteLayout removes a layout. When invoices still reference it the
// caller gets a conflict payload and resolves it with ?reassign_to= or
// ?force=true.
// DELETE /api/layouts/:id?reassign_to=&force=
func (h *Handler) DeleteLayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var reassignTo *uuid.UUID
	if raw := c.Query("reassign_to"); raw != "" {
		target, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reassign_to"})
			return
		}
		reassignTo = &target
	}
	force := c.Query("force") == "true"

	if err := h.layouts.Delete(currentUserID(c), id, reassignTo, force); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "layout deleted"})
}

// DuplicateLayout deep-copies a layout
// POST /api/layouts/:id/duplicate
func (h *Handler) DuplicateLayout(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req LayoutRequest
	// Body is optional; an empty name gets "<source> (copy)"
	_ = c.ShouldBindJSON(&req)

	layout, err := h.layouts.Duplicate(currentUserID(c), id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, layout)
}

// =============================================================================
// SECTIONS
// =============================================================================

// CreateSection appends a section to a layout
// POST /api/layouts/:id/sections
func (h *Handler) CreateSection(c *gin.Context) {
	layoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	section, err := h.layouts.CreateSection(currentUserID(c), layoutID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// UpdateSection renames a section
// PUT /api/layouts/sections/:sectionId
func (h *Handler) UpdateSection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	section, err := h.layouts.UpdateSection(currentUserID(c), sectionID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section with its fields and options
// DELETE /api/layouts/sections/:sectionId
func (h *Handler) DeleteSection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	if err := h.layouts.DeleteSection(currentUserID(c), sectionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "section deleted"})
}

// ReorderSections rewrites the section order of a layout
// PUT /api/layouts/:id/sections/reorder
func (h *Handler) ReorderSections(c *gin.Context) {
	layoutID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	if err := h.layouts.ReorderSections(currentUserID(c), layoutID, req.IDs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sections reordered"})
}

// CopySection deep-copies a section into another layout
// POST /api/layouts/sections/:sectionId/copy
func (h *Handler) CopySection(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	section, err := h.layouts.CopySection(currentUserID(c), sectionID, req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, section)
}

// =============================================================================
// FIELDS
// =============================================================================

// CreateField appends a field to a section
// POST /api/layouts/sections/:sectionId/fields
func (h *Handler) CreateField(c *gin.Context) {
	sectionID, ok := parseIDParam(c, "sectionId")
	if !ok {
		return
	}
	var req engine.FieldInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	field, err := h.layouts.CreateField(currentUserID(c), sectionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

// UpdateField rewrites a field's attributes and option set
// PUT /api/layouts/fields/:fieldId
func (h *Handler) UpdateField(c *gin.Context) {
	fieldID, ok := parseIDParam(c, "fieldId")
	if !ok {
		return
	}
	var req engine.FieldInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	field, err := h.layouts.UpdateField(currentUserID(c), fieldID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, field)
}

// DeleteField removes a field with its options
// DELETE /api/layouts/fields/:fieldId
func (h *Handler) DeleteField(c *gin.Context) {
	fieldID, ok := parseIDParam(c, "fieldId")
	if !ok {
		return
	}
	if err := h.layouts.DeleteField(currentUserID(c), fieldID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "field deleted"})
}

// CopyField deep-copies a field into another section
// POST /api/layouts/fields/:fieldId/copy
func (h *Handler) CopyField(c *gin.Context) {
	fieldID, ok := parseIDParam(c, "fieldId")
	if !ok {
		return
	}
	var req CopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	field, err := h.layouts.CopyField(currentUserID(c), fieldID, req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, field)
}

// =============================================================================
// OPTIONS
// =============================================================================

// CreateOption appends an option to a dropdown/checkboxes field
// POST /api/layouts/fields/:fieldId/options
func (h *Handler) CreateOption(c *gin.Context) {
	fieldID, ok := parseIDParam(c, "fieldId")
	if !ok {
		return
	}
	var req engine.FieldOptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	option, err := h.layouts.CreateOption(currentUserID(c), fieldID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, option)
}

// UpdateOption rewrites an option
// PUT /api/layouts/options/:optionId
func (h *Handler) UpdateOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	var req engine.FieldOptionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	option, err := h.layouts.UpdateOption(currentUserID(c), optionID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, option)
}

// DeleteOption removes one option
// DELETE /api/layouts/options/:optionId
func (h *Handler) DeleteOption(c *gin.Context) {
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}
	if err := h.layouts.DeleteOption(currentUserID(c), optionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "option deleted"})
}
