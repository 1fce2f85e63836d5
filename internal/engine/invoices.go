// Package engine - Invoice composer
// Binds a customer, an optional layout and a set of line items into an
// invoice, computing totals and persisting the document as one unit
package engine

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
)

// InvoiceEngine handles invoice composition and retrieval
type InvoiceEngine struct {
	db        *gorm.DB
	customers *CustomerEngine
	layouts   *LayoutEngine
}

// NewInvoiceEngine creates a new invoice engine
func NewInvoiceEngine(db *gorm.DB, customers *CustomerEngine, layouts *LayoutEngine) *InvoiceEngine {
	return &InvoiceEngine{db: db, customers: customers, layouts: layouts}
}

// InvoiceItemInput carries one line item of an invoice request
type InvoiceItemInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
}

// InvoiceInput is the full invoice composition request
type InvoiceInput struct {
	Customer CustomerInput        `json:"customer"`
	LayoutID *uuid.UUID           `json:"layout_id"`
	FormData models.FormData      `json:"form_data"`
	Items    []InvoiceItemInput   `json:"items"`
	Status   models.InvoiceStatus `json:"status"`
}

// ListParams are the pagination parameters of the invoice list
type ListParams struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

// ListResult is one page of invoices
type ListResult struct {
	Data       []models.Invoice `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// =============================================================================
// COMPOSITION
// =============================================================================

// Create validates the request, resolves or creates the customer,
// computes totals and persists the header with its items in a single
// transaction
func (e *InvoiceEngine) Create(userID uuid.UUID, in InvoiceInput) (*models.Invoice, error) {
	status, err := resolveStatus(in.Status)
	if err != nil {
		return nil, err
	}
	items, totals, err := e.prepareItems(in.Items)
	if err != nil {
		return nil, err
	}
	if err := e.validateFormData(userID, in.LayoutID, in.FormData); err != nil {
		return nil, err
	}

	customer, err := e.customers.Resolve(userID, in.Customer)
	if err != nil {
		return nil, err
	}

	invoice := models.Invoice{
		UserID:      userID,
		CustomerID:  customer.ID,
		LayoutID:    in.LayoutID,
		FormData:    in.FormData,
		Status:      status,
		Subtotal:    totals.Subtotal,
		TaxRate:     totals.TaxRate,
		TaxAmount:   totals.TaxAmount,
		TotalAmount: totals.TotalAmount,
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return e.Get(userID, invoice.ID)
}

// Update rewrites an existing invoice with the same validation and
// totals logic as Create. Customer re-resolution is skipped: the
// customer was confirmed when the invoice was first composed.
func (e *InvoiceEngine) Update(userID, id uuid.UUID, in InvoiceInput) (*models.Invoice, error) {
	invoice, err := e.Get(userID, id)
	if err != nil {
		return nil, err
	}

	status, err := resolveStatus(in.Status)
	if err != nil {
		return nil, err
	}
	items, totals, err := e.prepareItems(in.Items)
	if err != nil {
		return nil, err
	}
	if err := e.validateFormData(userID, in.LayoutID, in.FormData); err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"layout_id":    in.LayoutID,
			"form_data":    in.FormData,
			"status":       status,
			"subtotal":     totals.Subtotal,
			"tax_rate":     totals.TaxRate,
			"tax_amount":   totals.TaxAmount,
			"total_amount": totals.TotalAmount,
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].InvoiceID = invoice.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	return e.Get(userID, invoice.ID)
}

// UpdateStatus moves an invoice to a new status and returns it
func (e *InvoiceEngine) UpdateStatus(userID, id uuid.UUID, status models.InvoiceStatus) (*models.Invoice, error) {
	if !status.Valid() {
		return nil, errors.NewValidationError("status", "status must be one of pending, working, done, refused")
	}

	invoice, err := e.Get(userID, id)
	if err != nil {
		return nil, err
	}
	if err := e.db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Update("status", status).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	invoice.Status = status
	return invoice, nil
}

// =============================================================================
// RETRIEVAL
// =============================================================================

// Get returns one invoice with customer and ordered items
func (e *InvoiceEngine) Get(userID, id uuid.UUID) (*models.Invoice, error) {
	var invoice models.Invoice
	err := e.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&invoice).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("invoice")
		}
		return nil, errors.NewInternalError(err)
	}
	return &invoice, nil
}

// List returns one page of the user's invoices, newest first
func (e *InvoiceEngine) List(userID uuid.UUID, params ListParams) (*ListResult, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	var total int64
	if err := e.db.Model(&models.Invoice{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}

	var invoices []models.Invoice
	err := e.db.Where("user_id = ?", userID).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Order("created_at DESC").
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Find(&invoices).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &ListResult{
		Data:       invoices,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// prepareItems validates the line items and returns the rows to insert
// together with the computed totals. Each line total is
// quantity × price rounded to 2 decimals.
func (e *InvoiceEngine) prepareItems(inputs []InvoiceItemInput) ([]models.InvoiceItem, InvoiceTotals, error) {
	if len(inputs) == 0 {
		return nil, InvoiceTotals{}, errors.NewValidationError("items", "invoice needs at least one item")
	}

	items := make([]models.InvoiceItem, 0, len(inputs))
	lineTotals := make([]float64, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, InvoiceTotals{}, errors.NewValidationError(fmt.Sprintf("items[%d].name", i), "item name is required")
		}
		if in.Quantity <= 0 {
			return nil, InvoiceTotals{}, errors.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "quantity must be greater than zero")
		}
		if in.Price < 0 {
			return nil, InvoiceTotals{}, errors.NewValidationError(fmt.Sprintf("items[%d].price", i), "price cannot be negative")
		}

		total := Round2(in.Quantity * in.Price)
		items = append(items, models.InvoiceItem{
			Name:        name,
			Description: in.Description,
			Quantity:    in.Quantity,
			Price:       in.Price,
			Total:       total,
			SortOrder:   i,
		})
		lineTotals = append(lineTotals, total)
	}

	return items, CalculateInvoiceTotals(lineTotals, DefaultTaxRate), nil
}

// validateFormData loads the referenced layout and checks the map
// against it; an invoice without a layout carries no form data rules
func (e *InvoiceEngine) validateFormData(userID uuid.UUID, layoutID *uuid.UUID, data models.FormData) error {
	if layoutID == nil {
		return nil
	}
	layout, err := e.layouts.Get(userID, *layoutID)
	if err != nil {
		return err
	}
	if data == nil {
		data = models.FormData{}
	}
	return ValidateFormData(layout, data)
}

func resolveStatus(status models.InvoiceStatus) (models.InvoiceStatus, error) {
	if status == "" {
		return models.StatusPending, nil
	}
	if !status.Valid() {
		return "", errors.NewValidationError("status", "status must be one of pending, working, done, refused")
	}
	return status, nil
}
