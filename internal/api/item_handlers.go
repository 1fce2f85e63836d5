// Package api - Catalog item handlers
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repario/server/internal/engine"
)

// ListItems returns the caller's catalog
// GET /api/items?category=&search=&include_inactive=
func (h *Handler) ListItems(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"
	items, err := h.items.List(currentUserID(c), c.Query("category"), c.Query("search"), includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetItem returns one catalog item
// GET /api/items/:id
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	item, err := h.items.Get(currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateItem creates a catalog item
// POST /api/items
func (h *Handler) CreateItem(c *gin.Context) {
	var req engine.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	item, err := h.items.Create(currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateItem modifies a catalog item
// PUT /api/items/:id
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req engine.ItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	item, err := h.items.Update(currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem soft-deletes a catalog item
// DELETE /api/items/:id
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.items.Delete(currentUserID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "item deleted"})
}

// BulkItemsRequest carries the target ids of a bulk operation
type BulkItemsRequest struct {
	IDs      []uuid.UUID `json:"ids" binding:"required"`
	Category string      `json:"category"`
}

// BulkDeleteItems soft-deletes a set of catalog items
// POST /api/items/bulk-delete
func (h *Handler) BulkDeleteItems(c *gin.Context) {
	var req BulkItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	affected, err := h.items.BulkDelete(currentUserID(c), req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": affected})
}

// BulkSetItemCategory re-tags a set of catalog items
// POST /api/items/bulk-category
func (h *Handler) BulkSetItemCategory(c *gin.Context) {
	var req BulkItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	affected, err := h.items.BulkSetCategory(currentUserID(c), req.IDs, req.Category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": affected})
}

// ListItemCategories returns the distinct categories of active items
// GET /api/items/categories
func (h *Handler) ListItemCategories(c *gin.Context) {
	categories, err := h.items.Categories(currentUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}
