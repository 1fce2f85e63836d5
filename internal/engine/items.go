// Package engine - Catalog items
package engine

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"github.com/repario/server/internal/security"
	"gorm.io/gorm"
)

// ItemEngine handles the reusable priced catalog
type ItemEngine struct {
	db *gorm.DB
}

// NewItemEngine creates a new item engine
func NewItemEngine(db *gorm.DB) *ItemEngine {
	return &ItemEngine{db: db}
}

// ItemInput carries the writable attributes of a catalog item
type ItemInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unit_price"`
	Unit        *string  `json:"unit"`
	SKU         *string  `json:"sku"`
	Category    *string  `json:"category"`
}

// List returns the user's active items, optionally filtered by
// category and a case-insensitive name search. includeInactive also
// returns soft-deleted rows.
func (e *ItemEngine) List(userID uuid.UUID, category, search string, includeInactive bool) ([]models.Item, error) {
	query := e.db.Where("user_id = ?", userID).Order("name")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if search != "" {
		cond, params := security.SearchCondition("LOWER(name)", strings.ToLower(search))
		query = query.Where(cond, params...)
	}

	var items []models.Item
	if err := query.Find(&items).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return items, nil
}

// Get returns one item owned by the user
func (e *ItemEngine) Get(userID, id uuid.UUID) (*models.Item, error) {
	var item models.Item
	err := e.db.Where("id = ? AND user_id = ?", id, userID).First(&item).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("item")
		}
		return nil, errors.NewInternalError(err)
	}
	return &item, nil
}

// Create inserts a new catalog item
func (e *ItemEngine) Create(userID uuid.UUID, in ItemInput) (*models.Item, error) {
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, errors.NewValidationError("name", "item name is required")
	}
	if in.UnitPrice != nil && *in.UnitPrice < 0 {
		return nil, errors.NewValidationError("unit_price", "unit price cannot be negative")
	}

	item := models.Item{
		UserID:   userID,
		Name:     strings.TrimSpace(*in.Name),
		IsActive: true,
	}
	if in.Description != nil {
		item.Description = *in.Description
	}
	if in.UnitPrice != nil {
		item.UnitPrice = *in.UnitPrice
	}
	if in.Unit != nil {
		item.Unit = strings.TrimSpace(*in.Unit)
	}
	if in.SKU != nil {
		item.SKU = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		item.Category = strings.TrimSpace(*in.Category)
	}

	if err := e.db.Create(&item).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &item, nil
}

// Update modifies the given attributes of an owned item
func (e *ItemEngine) Update(userID, id uuid.UUID, in ItemInput) (*models.Item, error) {
	item, err := e.Get(userID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		if trimmed == "" {
			return nil, errors.NewValidationError("name", "item name is required")
		}
		updates["name"] = trimmed
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.UnitPrice != nil {
		if *in.UnitPrice < 0 {
			return nil, errors.NewValidationError("unit_price", "unit price cannot be negative")
		}
		updates["unit_price"] = *in.UnitPrice
	}
	if in.Unit != nil {
		updates["unit"] = strings.TrimSpace(*in.Unit)
	}
	if in.SKU != nil {
		updates["sku"] = strings.TrimSpace(*in.SKU)
	}
	if in.Category != nil {
		updates["category"] = strings.TrimSpace(*in.Category)
	}
	if len(updates) == 0 {
		return item, nil
	}

	if err := e.db.Model(item).Updates(updates).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.Get(userID, id)
}

// Delete soft-deletes an item. Invoices keep their line-item snapshots,
// so history is unaffected.
func (e *ItemEngine) Delete(userID, id uuid.UUID) error {
	item, err := e.Get(userID, id)
	if err != nil {
		return err
	}
	if err := e.db.Model(item).Update("is_active", false).Error; err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// BulkDelete soft-deletes a set of owned items in one transaction
func (e *ItemEngine) BulkDelete(userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, errors.NewValidationError("ids", "no item ids given")
	}

	var affected int64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Item{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Update("is_active", false)
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	return affected, nil
}

// BulkSetCategory re-tags a set of owned items in one transaction
func (e *ItemEngine) BulkSetCategory(userID uuid.UUID, ids []uuid.UUID, category string) (int64, error) {
	if len(ids) == 0 {
		return 0, errors.NewValidationError("ids", "no item ids given")
	}

	var affected int64
	err := e.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Item{}).
			Where("user_id = ? AND id IN ?", userID, ids).
			Update("category", strings.TrimSpace(category))
		affected = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, errors.NewInternalError(err)
	}
	return affected, nil
}

// Categories returns the distinct categories of the user's active items
func (e *ItemEngine) Categories(userID uuid.UUID) ([]string, error) {
	var categories []string
	err := e.db.Model(&models.Item{}).
		Where("user_id = ? AND is_active = ? AND category <> ''", userID, true).
		Distinct("category").
		Order("category").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return categories, nil
}
