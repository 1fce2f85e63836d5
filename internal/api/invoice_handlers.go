// Package api - Invoice handlers
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/repario/server/internal/engine"
	"github.com/repario/server/internal/models"
	"github.com/repario/server/internal/notify"
)

// ListInvoices returns one page of the caller's invoices, newest first
// GET /api/invoices?page=&limit=
func (h *Handler) ListInvoices(c *gin.Context) {
	var params engine.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
		return
	}
	result, err := h.invoices.List(currentUserID(c), params)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetInvoice returns one invoice with customer and items
// GET /api/invoices/:id
func (h *Handler) GetInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	invoice, err := h.invoices.Get(currentUserID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// CreateInvoice composes a new invoice. A 409 with similar customers
// means the caller must pick one or resubmit with force_create.
// POST /api/invoices
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req engine.InvoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	invoice, err := h.invoices.Create(currentUserID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoice rewrites an invoice
// PUT /api/invoices/:id
func (h *Handler) UpdateInvoice(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req engine.InvoiceInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}
	invoice, err := h.invoices.Update(currentUserID(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// UpdateStatusRequest carries a status transition and an optional note
// appended to the notification message
type UpdateStatusRequest struct {
	Status    models.InvoiceStatus `json:"status" binding:"required"`
	ExtraNote string               `json:"extra_note"`
}

// UpdateInvoiceStatus moves an invoice to a new status and, when the
// per-status settings say so, dispatches a WhatsApp message to the
// customer. Delivery is best-effort: the status change has already
// committed whatever the dispatch outcome.
// PATCH /api/invoices/:id/status
func (h *Handler) UpdateInvoiceStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	userID := currentUserID(c)
	invoice, err := h.invoices.UpdateStatus(userID, id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	notification := h.dispatchStatusNotification(userID, invoice, req.ExtraNote)
	c.JSON(http.StatusOK, gin.H{
		"invoice":      invoice,
		"notification": notification,
	})
}

// dispatchStatusNotification sends the configured message for the
// invoice's new status. Returns nil when messaging is disabled for the
// status.
func (h *Handler) dispatchStatusNotification(userID uuid.UUID, invoice *models.Invoice, extraNote string) *notify.Result {
	setting, err := h.statuses.Get(userID, invoice.Status)
	if err != nil {
		result := notify.Result{Success: false, Details: "could not load status settings"}
		return &result
	}
	if !setting.SendWhatsApp {
		return nil
	}

	phone := ""
	if invoice.Customer != nil && invoice.Customer.Phone != nil {
		phone = *invoice.Customer.Phone
	}

	message := setting.DefaultMessage
	if setting.AllowExtraNote && extraNote != "" {
		message += "\n\n" + extraNote
	}

	result := h.notifier.SendText(phone, message)
	return &result
}
