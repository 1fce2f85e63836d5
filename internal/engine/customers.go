// Package engine - Customer resolution & deduplication
package engine

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"github.com/repario/server/internal/security"
	"gorm.io/gorm"
)

// CustomerEngine handles customer CRUD and the duplicate-name
// resolution that runs before an invoice commits
type CustomerEngine struct {
	db      *gorm.DB
	matcher NameMatcher
}

// NewCustomerEngine creates a new customer engine
func NewCustomerEngine(db *gorm.DB, matcher NameMatcher) *CustomerEngine {
	if matcher == nil {
		matcher = LevenshteinMatcher{}
	}
	return &CustomerEngine{db: db, matcher: matcher}
}

// CustomerInput is the candidate customer attached to an invoice
type CustomerInput struct {
	// ID set means the caller explicitly selected an existing customer
	// from a suggestion list
	ID          *uuid.UUID `json:"id"`
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Address     string     `json:"address"`
	ForceCreate bool       `json:"force_create"`
}

// =============================================================================
// CRUD
// =============================================================================

// List returns the customers of a user, optionally filtered by a
// case-insensitive name search
func (e *CustomerEngine) List(userID uuid.UUID, search string) ([]models.Customer, error) {
	query := e.db.Where("user_id = ?", userID).Order("name")
	if search != "" {
		cond, params := security.SearchCondition("LOWER(name)", strings.ToLower(search))
		query = query.Where(cond, params...)
	}

	var customers []models.Customer
	if err := query.Find(&customers).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return customers, nil
}

// Get returns one customer owned by the user
func (e *CustomerEngine) Get(userID, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	err := e.db.Where("id = ? AND user_id = ?", id, userID).First(&customer).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("customer")
		}
		return nil, errors.NewInternalError(err)
	}
	return &customer, nil
}

// Create inserts a new customer with trimmed fields; empty optional
// fields are stored as NULL
func (e *CustomerEngine) Create(userID uuid.UUID, name, phone, address string) (*models.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "customer name is required")
	}

	customer := models.Customer{
		UserID:  userID,
		Name:    name,
		Phone:   nullableString(phone),
		Address: nullableString(address),
	}
	if err := e.db.Create(&customer).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &customer, nil
}

// Update modifies name/phone/address of an owned customer
func (e *CustomerEngine) Update(userID, id uuid.UUID, name, phone, address *string) (*models.Customer, error) {
	customer, err := e.Get(userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, errors.NewValidationError("name", "customer name is required")
		}
		updates["name"] = trimmed
	}
	if phone != nil {
		updates["phone"] = nullableString(*phone)
	}
	if address != nil {
		updates["address"] = nullableString(*address)
	}
	if len(updates) == 0 {
		return customer, nil
	}

	if err := e.db.Model(customer).Updates(updates).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.Get(userID, id)
}

// Delete removes a customer that no invoice references
func (e *CustomerEngine) Delete(userID, id uuid.UUID) error {
	customer, err := e.Get(userID, id)
	if err != nil {
		return err
	}

	var invoiceCount int64
	if err := e.db.Model(&models.Invoice{}).Where("customer_id = ?", customer.ID).Count(&invoiceCount).Error; err != nil {
		return errors.NewInternalError(err)
	}
	if invoiceCount > 0 {
		return errors.NewConflictError("customer", fmt.Sprintf("customer is referenced by %d invoice(s)", invoiceCount))
	}

	if err := e.db.Delete(customer).Error; err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Resolve determines which customer an invoice belongs to: an
// explicitly selected one, an exact name match (which the caller must
// select), or a new row once near-duplicates have been ruled out or
// overridden with ForceCreate.
func (e *CustomerEngine) Resolve(userID uuid.UUID, in CustomerInput) (*models.Customer, error) {
	// Explicit selection wins; contact enrichment is a best-effort
	// side effect of reusing the row
	if in.ID != nil {
		customer, err := e.Get(userID, *in.ID)
		if err != nil {
			return nil, err
		}
		e.enrichContact(customer, in.Phone, in.Address)
		return customer, nil
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errors.NewValidationError("customer.name", "customer name is required")
	}

	var customers []models.Customer
	if err := e.db.Where("user_id = ?", userID).Find(&customers).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}

	// Exact case-insensitive, trimmed match is a separate code path:
	// it always forces explicit selection, ForceCreate cannot bypass it
	normalized := normalizeName(name)
	for _, c := range customers {
		if normalizeName(c.Name) == normalized {
			return nil, errors.NewSimilarCustomersError(true, []errors.CustomerBrief{{
				ID:         c.ID.String(),
				Name:       c.Name,
				Similarity: 1,
			}})
		}
	}

	if !in.ForceCreate {
		// Pairwise scan over the user's customers. Acceptable only
		// because per-tenant lists stay small; NameMatcher isolates
		// the algorithm should that stop holding.
		var similar []errors.CustomerBrief
		for _, c := range customers {
			score := e.matcher.Similarity(name, c.Name)
			if score >= SimilarityThreshold {
				similar = append(similar, errors.CustomerBrief{
					ID:         c.ID.String(),
					Name:       c.Name,
					Similarity: score,
				})
			}
		}
		if len(similar) > 0 {
			return nil, errors.NewSimilarCustomersError(false, similar)
		}
	}

	return e.Create(userID, name, in.Phone, in.Address)
}

// enrichContact updates stored contact fields from non-empty candidate
// values that differ (last-write-wins). Failure is logged, never
// propagated: enrichment must not fail the invoice.
func (e *CustomerEngine) enrichContact(customer *models.Customer, phone, address string) {
	updates := map[string]interface{}{}

	phone = strings.TrimSpace(phone)
	if phone != "" && (customer.Phone == nil || *customer.Phone != phone) {
		updates["phone"] = phone
	}
	address = strings.TrimSpace(address)
	if address != "" && (customer.Address == nil || *customer.Address != address) {
		updates["address"] = address
	}
	if len(updates) == 0 {
		return
	}

	if err := e.db.Model(customer).Updates(updates).Error; err != nil {
		log.Printf("customer %s: contact enrichment failed: %v", customer.ID, err)
		return
	}
	if v, ok := updates["phone"].(string); ok {
		customer.Phone = &v
	}
	if v, ok := updates["address"].(string); ok {
		customer.Address = &v
	}
}

// nullableString trims s and returns nil for an empty result
func nullableString(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
