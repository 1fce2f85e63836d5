// Package engine - Layout designer
// Handles the layout → section → field → option containment tree and
// the application-layer rules around it (default exclusivity, deletion
// conflicts, deep copies)
package engine

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
)

// LayoutEngine handles all layout template operations
type LayoutEngine struct {
	db *gorm.DB
}

// NewLayoutEngine creates a new layout engine
func NewLayoutEngine(db *gorm.DB) *LayoutEngine {
	return &LayoutEngine{db: db}
}

// =============================================================================
// OPTION VALUE DERIVATION
// =============================================================================

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// DeriveOptionValue builds a machine slug from an option label:
// lowercase, runs of non-alphanumerics collapsed to one underscore,
// leading/trailing underscores trimmed.
func DeriveOptionValue(label string) string {
	slug := strings.ToLower(label)
	slug = nonAlphanumeric.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// optionValue returns the explicit value or derives one from the label
func optionValue(label, value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return DeriveOptionValue(label)
}

// =============================================================================
// LAYOUT CRUD
// =============================================================================

// List returns the layouts of a user, default first
func (e *LayoutEngine) List(userID uuid.UUID) ([]models.Layout, error) {
	var layouts []models.Layout
	err := e.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at").
		Find(&layouts).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return layouts, nil
}

// Get returns one layout with its full section/field/option tree in
// sort order
func (e *LayoutEngine) Get(userID, id uuid.UUID) (*models.Layout, error) {
	var layout models.Layout
	err := e.db.Where("id = ? AND user_id = ?", id, userID).
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Sections.Fields", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("Sections.Fields.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		First(&layout).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("layout")
		}
		return nil, errors.NewInternalError(err)
	}
	return &layout, nil
}

// Create inserts a new empty layout. Making it the default unsets the
// previous default in the same transaction.
func (e *LayoutEngine) Create(userID uuid.UUID, name string, isDefault bool) (*models.Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "layout name is required")
	}

	layout := models.Layout{UserID: userID, Name: name, IsDefault: isDefault}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if isDefault {
			if err := tx.Model(&models.Layout{}).
				Where("user_id = ? AND is_default = ?", userID, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&layout).Error
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &layout, nil
}

// Rename changes a layout's name
func (e *LayoutEngine) Rename(userID, id uuid.UUID, name string) (*models.Layout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.NewValidationError("name", "layout name is required")
	}

	layout, err := e.getLayout(userID, id)
	if err != nil {
		return nil, err
	}
	if err := e.db.Model(layout).Update("name", name).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	layout.Name = name
	return layout, nil
}

// SetDefault makes the layout the user's single default. The unset of
// the previous default and the set of the new one share one
// transaction, so exactly one default survives concurrent calls.
func (e *LayoutEngine) SetDefault(userID, id uuid.UUID) (*models.Layout, error) {
	layout, err := e.getLayout(userID, id)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Layout{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_default", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Layout{}).
			Where("id = ?", id).
			Update("is_default", true).Error
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	layout.IsDefault = true
	return layout, nil
}

// Delete removes a layout. A layout still referenced by invoices is a
// conflict: the caller must resubmit with reassignTo or force. Forced
// deletion explicitly nulls the referencing invoices' layout_id.
func (e *LayoutEngine) Delete(userID, id uuid.UUID, reassignTo *uuid.UUID, force bool) error {
	layout, err := e.getLayout(userID, id)
	if err != nil {
		return err
	}

	var invoiceCount int64
	if err := e.db.Model(&models.Invoice{}).Where("layout_id = ?", id).Count(&invoiceCount).Error; err != nil {
		return errors.NewInternalError(err)
	}

	if invoiceCount > 0 && reassignTo == nil && !force {
		var others []models.Layout
		if err := e.db.Where("user_id = ? AND id <> ?", userID, id).Find(&others).Error; err != nil {
			return errors.NewInternalError(err)
		}
		available := make([]errors.LayoutBrief, 0, len(others))
		for _, l := range others {
			available = append(available, errors.LayoutBrief{ID: l.ID.String(), Name: l.Name})
		}
		return errors.NewLayoutInUseError(invoiceCount, available)
	}

	if reassignTo != nil {
		if *reassignTo == id {
			return errors.NewValidationError("reassign_to", "cannot reassign invoices to the layout being deleted")
		}
		if _, err := e.getLayout(userID, *reassignTo); err != nil {
			return err
		}
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		if invoiceCount > 0 {
			target := interface{}(nil)
			if reassignTo != nil {
				target = *reassignTo
			}
			if err := tx.Model(&models.Invoice{}).
				Where("layout_id = ?", id).
				Update("layout_id", target).Error; err != nil {
				return err
			}
		}
		return e.deleteLayoutTree(tx, layout.ID)
	})
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// Duplicate deep-copies a layout with all sections, fields and options
// under new IDs. The copy is never the default.
func (e *LayoutEngine) Duplicate(userID, id uuid.UUID, name string) (*models.Layout, error) {
	source, err := e.Get(userID, id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = source.Name + " (copy)"
	}

	copyLayout := models.Layout{UserID: userID, Name: name}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&copyLayout).Error; err != nil {
			return err
		}
		for _, section := range source.Sections {
			if err := copySectionTree(tx, section, copyLayout.ID, section.SortOrder); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.Get(userID, copyLayout.ID)
}

// =============================================================================
// SECTIONS
// =============================================================================

// CreateSection appends a section to a layout
func (e *LayoutEngine) CreateSection(userID, layoutID uuid.UUID, title string) (*models.LayoutSection, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "section title is required")
	}
	if _, err := e.getLayout(userID, layoutID); err != nil {
		return nil, err
	}

	section := models.LayoutSection{
		LayoutID:  layoutID,
		Title:     title,
		SortOrder: e.nextSortOrder(&models.LayoutSection{}, "layout_id", layoutID),
	}
	if err := e.db.Create(&section).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &section, nil
}

// UpdateSection renames a section
func (e *LayoutEngine) UpdateSection(userID, sectionID uuid.UUID, title string) (*models.LayoutSection, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.NewValidationError("title", "section title is required")
	}

	section, err := e.getSection(userID, sectionID)
	if err != nil {
		return nil, err
	}
	if err := e.db.Model(section).Update("title", title).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	section.Title = title
	return section, nil
}

// DeleteSection removes a section with its fields and options
func (e *LayoutEngine) DeleteSection(userID, sectionID uuid.UUID) error {
	section, err := e.getSection(userID, sectionID)
	if err != nil {
		return err
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		return deleteSectionTree(tx, section.ID)
	})
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// ReorderSections rewrites the sort order of a layout's sections to
// match the given id sequence. Every section of the layout must appear
// exactly once.
func (e *LayoutEngine) ReorderSections(userID, layoutID uuid.UUID, orderedIDs []uuid.UUID) error {
	if _, err := e.getLayout(userID, layoutID); err != nil {
		return err
	}

	var count int64
	if err := e.db.Model(&models.LayoutSection{}).Where("layout_id = ?", layoutID).Count(&count).Error; err != nil {
		return errors.NewInternalError(err)
	}
	if int64(len(orderedIDs)) != count {
		return errors.NewValidationError("sections", "reorder must list every section of the layout exactly once")
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		for i, sectionID := range orderedIDs {
			result := tx.Model(&models.LayoutSection{}).
				Where("id = ? AND layout_id = ?", sectionID, layoutID).
				Update("sort_order", i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("section")
		}
		return errors.NewInternalError(err)
	}
	return nil
}

// =============================================================================
// FIELDS
// =============================================================================

// FieldInput carries the writable attributes of a layout field
type FieldInput struct {
	Label       string            `json:"label"`
	Type        models.FieldType  `json:"type"`
	Placeholder string            `json:"placeholder"`
	Required    bool              `json:"required"`
	Options     []FieldOptionInput `json:"options"`
}

// FieldOptionInput carries the writable attributes of a field option
type FieldOptionInput struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// CreateField appends a field (with its options, when the type owns
// any) to a section
func (e *LayoutEngine) CreateField(userID, sectionID uuid.UUID, in FieldInput) (*models.LayoutField, error) {
	if err := validateFieldInput(in); err != nil {
		return nil, err
	}
	if _, err := e.getSection(userID, sectionID); err != nil {
		return nil, err
	}

	field := models.LayoutField{
		SectionID:   sectionID,
		Label:       strings.TrimSpace(in.Label),
		Type:        in.Type,
		Placeholder: in.Placeholder,
		Required:    in.Required,
		SortOrder:   e.nextSortOrder(&models.LayoutField{}, "section_id", sectionID),
	}
	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&field).Error; err != nil {
			return err
		}
		return createOptions(tx, field.ID, in.Options)
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.getFieldTree(field.ID)
}

// UpdateField rewrites a field's attributes. When options are given
// they replace the existing option set; a type change away from
// dropdown/checkboxes drops any stored options.
func (e *LayoutEngine) UpdateField(userID, fieldID uuid.UUID, in FieldInput) (*models.LayoutField, error) {
	if err := validateFieldInput(in); err != nil {
		return nil, err
	}
	field, err := e.getField(userID, fieldID)
	if err != nil {
		return nil, err
	}

	err = e.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"label":       strings.TrimSpace(in.Label),
			"type":        in.Type,
			"placeholder": in.Placeholder,
			"required":    in.Required,
		}
		if err := tx.Model(field).Updates(updates).Error; err != nil {
			return err
		}
		if !in.Type.HasOptions() || in.Options != nil {
			if err := tx.Where("field_id = ?", field.ID).Delete(&models.FieldOption{}).Error; err != nil {
				return err
			}
		}
		if in.Type.HasOptions() && in.Options != nil {
			return createOptions(tx, field.ID, in.Options)
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.getFieldTree(field.ID)
}

// DeleteField removes a field with its options
func (e *LayoutEngine) DeleteField(userID, fieldID uuid.UUID) error {
	field, err := e.getField(userID, fieldID)
	if err != nil {
		return err
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", field.ID).Delete(&models.FieldOption{}).Error; err != nil {
			return err
		}
		return tx.Delete(field).Error
	})
	if err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// =============================================================================
// OPTIONS
// =============================================================================

// CreateOption appends an option to a dropdown/checkboxes field
func (e *LayoutEngine) CreateOption(userID, fieldID uuid.UUID, in FieldOptionInput) (*models.FieldOption, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, errors.NewValidationError("label", "option label is required")
	}

	field, err := e.getField(userID, fieldID)
	if err != nil {
		return nil, err
	}
	if !field.Type.HasOptions() {
		return nil, errors.NewValidationError("type", "only dropdown and checkboxes fields have options")
	}

	option := models.FieldOption{
		FieldID:   fieldID,
		Label:     label,
		Value:     optionValue(label, in.Value),
		SortOrder: e.nextSortOrder(&models.FieldOption{}, "field_id", fieldID),
	}
	if err := e.db.Create(&option).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &option, nil
}

// UpdateOption rewrites an option's label/value; an empty value is
// re-derived from the label
func (e *LayoutEngine) UpdateOption(userID, optionID uuid.UUID, in FieldOptionInput) (*models.FieldOption, error) {
	label := strings.TrimSpace(in.Label)
	if label == "" {
		return nil, errors.NewValidationError("label", "option label is required")
	}

	option, err := e.getOption(userID, optionID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"label": label,
		"value": optionValue(label, in.Value),
	}
	if err := e.db.Model(option).Updates(updates).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	option.Label = label
	option.Value = updates["value"].(string)
	return option, nil
}

// DeleteOption removes one option
func (e *LayoutEngine) DeleteOption(userID, optionID uuid.UUID) error {
	option, err := e.getOption(userID, optionID)
	if err != nil {
		return err
	}
	if err := e.db.Delete(option).Error; err != nil {
		return errors.NewInternalError(err)
	}
	return nil
}

// =============================================================================
// COPY OPERATIONS
// =============================================================================

// CopySection deep-copies a section (fields and options included) to
// the end of another layout of the same user
func (e *LayoutEngine) CopySection(userID, sectionID, targetLayoutID uuid.UUID) (*models.LayoutSection, error) {
	section, err := e.getSection(userID, sectionID)
	if err != nil {
		return nil, err
	}
	if _, err := e.getLayout(userID, targetLayoutID); err != nil {
		return nil, err
	}

	var source models.LayoutSection
	err = e.db.Where("id = ?", section.ID).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&source).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var copyID uuid.UUID
	err = e.db.Transaction(func(tx *gorm.DB) error {
		sortOrder := e.nextSortOrder(&models.LayoutSection{}, "layout_id", targetLayoutID)
		id, err := copySectionTreeReturningID(tx, source, targetLayoutID, sortOrder)
		copyID = id
		return err
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}

	var result models.LayoutSection
	if err := e.db.Where("id = ?", copyID).
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Fields.Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&result).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &result, nil
}

// CopyField deep-copies a field (options included) to the end of
// another section of the same user
func (e *LayoutEngine) CopyField(userID, fieldID, targetSectionID uuid.UUID) (*models.LayoutField, error) {
	field, err := e.getField(userID, fieldID)
	if err != nil {
		return nil, err
	}
	if _, err := e.getSection(userID, targetSectionID); err != nil {
		return nil, err
	}

	var options []models.FieldOption
	if err := e.db.Where("field_id = ?", field.ID).Order("sort_order").Find(&options).Error; err != nil {
		return nil, errors.NewInternalError(err)
	}

	copyField := models.LayoutField{
		SectionID:   targetSectionID,
		Label:       field.Label,
		Type:        field.Type,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		SortOrder:   e.nextSortOrder(&models.LayoutField{}, "section_id", targetSectionID),
	}
	err = e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&copyField).Error; err != nil {
			return err
		}
		for _, opt := range options {
			copyOpt := models.FieldOption{
				FieldID:   copyField.ID,
				Label:     opt.Label,
				Value:     opt.Value,
				SortOrder: opt.SortOrder,
			}
			if err := tx.Create(&copyOpt).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return e.getFieldTree(copyField.ID)
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (e *LayoutEngine) getLayout(userID, id uuid.UUID) (*models.Layout, error) {
	var layout models.Layout
	err := e.db.Where("id = ? AND user_id = ?", id, userID).First(&layout).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("layout")
		}
		return nil, errors.NewInternalError(err)
	}
	return &layout, nil
}

func (e *LayoutEngine) getSection(userID, sectionID uuid.UUID) (*models.LayoutSection, error) {
	var section models.LayoutSection
	err := e.db.Joins("JOIN layouts ON layouts.id = layout_sections.layout_id").
		Where("layout_sections.id = ? AND layouts.user_id = ?", sectionID, userID).
		First(&section).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("section")
		}
		return nil, errors.NewInternalError(err)
	}
	return &section, nil
}

func (e *LayoutEngine) getField(userID, fieldID uuid.UUID) (*models.LayoutField, error) {
	var field models.LayoutField
	err := e.db.Joins("JOIN layout_sections ON layout_sections.id = layout_fields.section_id").
		Joins("JOIN layouts ON layouts.id = layout_sections.layout_id").
		Where("layout_fields.id = ? AND layouts.user_id = ?", fieldID, userID).
		First(&field).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("field")
		}
		return nil, errors.NewInternalError(err)
	}
	return &field, nil
}

func (e *LayoutEngine) getOption(userID, optionID uuid.UUID) (*models.FieldOption, error) {
	var option models.FieldOption
	err := e.db.Joins("JOIN layout_fields ON layout_fields.id = field_options.field_id").
		Joins("JOIN layout_sections ON layout_sections.id = layout_fields.section_id").
		Joins("JOIN layouts ON layouts.id = layout_sections.layout_id").
		Where("field_options.id = ? AND layouts.user_id = ?", optionID, userID).
		First(&option).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("option")
		}
		return nil, errors.NewInternalError(err)
	}
	return &option, nil
}

// getFieldTree loads a field with its ordered options, no ownership check
func (e *LayoutEngine) getFieldTree(fieldID uuid.UUID) (*models.LayoutField, error) {
	var field models.LayoutField
	err := e.db.Where("id = ?", fieldID).
		Preload("Options", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		First(&field).Error
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	return &field, nil
}

// nextSortOrder returns max(sort_order)+1 within the parent scope
func (e *LayoutEngine) nextSortOrder(model interface{}, parentColumn string, parentID uuid.UUID) int {
	var max *int
	e.db.Model(model).
		Where(parentColumn+" = ?", parentID).
		Select("MAX(sort_order)").
		Scan(&max)
	if max == nil {
		return 0
	}
	return *max + 1
}

func validateFieldInput(in FieldInput) error {
	if strings.TrimSpace(in.Label) == "" {
		return errors.NewValidationError("label", "field label is required")
	}
	if !in.Type.Valid() {
		return errors.NewValidationError("type", "field type must be one of input, description, dropdown, checkboxes")
	}
	if !in.Type.HasOptions() && len(in.Options) > 0 {
		return errors.NewValidationError("options", "only dropdown and checkboxes fields have options")
	}
	return nil
}

// createOptions inserts an option list in order, deriving missing values
func createOptions(tx *gorm.DB, fieldID uuid.UUID, options []FieldOptionInput) error {
	for i, in := range options {
		label := strings.TrimSpace(in.Label)
		if label == "" {
			return errors.NewValidationError("options", "option label is required")
		}
		option := models.FieldOption{
			FieldID:   fieldID,
			Label:     label,
			Value:     optionValue(label, in.Value),
			SortOrder: i,
		}
		if err := tx.Create(&option).Error; err != nil {
			return err
		}
	}
	return nil
}

// copySectionTree clones a section subtree under a target layout
func copySectionTree(tx *gorm.DB, source models.LayoutSection, targetLayoutID uuid.UUID, sortOrder int) error {
	_, err := copySectionTreeReturningID(tx, source, targetLayoutID, sortOrder)
	return err
}

func copySectionTreeReturningID(tx *gorm.DB, source models.LayoutSection, targetLayoutID uuid.UUID, sortOrder int) (uuid.UUID, error) {
	copySection := models.LayoutSection{
		LayoutID:  targetLayoutID,
		Title:     source.Title,
		SortOrder: sortOrder,
	}
	if err := tx.Create(&copySection).Error; err != nil {
		return uuid.Nil, err
	}
	for _, field := range source.Fields {
		copyField := models.LayoutField{
			SectionID:   copySection.ID,
			Label:       field.Label,
			Type:        field.Type,
			Placeholder: field.Placeholder,
			Required:    field.Required,
			SortOrder:   field.SortOrder,
		}
		if err := tx.Create(&copyField).Error; err != nil {
			return uuid.Nil, err
		}
		for _, opt := range field.Options {
			copyOpt := models.FieldOption{
				FieldID:   copyField.ID,
				Label:     opt.Label,
				Value:     opt.Value,
				SortOrder: opt.SortOrder,
			}
			if err := tx.Create(&copyOpt).Error; err != nil {
				return uuid.Nil, err
			}
		}
	}
	return copySection.ID, nil
}

// deleteSectionTree removes a section with all fields and options
func deleteSectionTree(tx *gorm.DB, sectionID uuid.UUID) error {
	fieldIDs := tx.Model(&models.LayoutField{}).Select("id").Where("section_id = ?", sectionID)
	if err := tx.Where("field_id IN (?)", fieldIDs).Delete(&models.FieldOption{}).Error; err != nil {
		return err
	}
	if err := tx.Where("section_id = ?", sectionID).Delete(&models.LayoutField{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", sectionID).Delete(&models.LayoutSection{}).Error
}

// deleteLayoutTree removes a layout with all sections, fields and options
func (e *LayoutEngine) deleteLayoutTree(tx *gorm.DB, layoutID uuid.UUID) error {
	sectionIDs := tx.Model(&models.LayoutSection{}).Select("id").Where("layout_id = ?", layoutID)
	fieldIDs := tx.Model(&models.LayoutField{}).Select("id").Where("section_id IN (?)", sectionIDs)
	if err := tx.Where("field_id IN (?)", fieldIDs).Delete(&models.FieldOption{}).Error; err != nil {
		return err
	}
	sectionIDs = tx.Model(&models.LayoutSection{}).Select("id").Where("layout_id = ?", layoutID)
	if err := tx.Where("section_id IN (?)", sectionIDs).Delete(&models.LayoutField{}).Error; err != nil {
		return err
	}
	if err := tx.Where("layout_id = ?", layoutID).Delete(&models.LayoutSection{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", layoutID).Delete(&models.Layout{}).Error
}
