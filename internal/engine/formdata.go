// Package engine - Form data validation
package engine

import (
	"fmt"

	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
)

// FormDataKey builds the "sectionID_fieldID" key a field's value is
// stored under
func FormDataKey(section models.LayoutSection, field models.LayoutField) string {
	return fmt.Sprintf("%s_%s", section.ID, field.ID)
}

// ValidateFormData checks an invoice's form data against the layout it
// claims to conform to. Checkbox fields hold a slice of selected
// option values, every other type holds a single string; selections
// must be declared options. Validation happens at write time only, the
// database stores the map opaquely.
func ValidateFormData(layout *models.Layout, data models.FormData) error {
	known := make(map[string]bool, len(data))

	for _, section := range layout.Sections {
		for _, field := range section.Fields {
			key := FormDataKey(section, field)
			known[key] = true

			if err := validateFieldValue(field, key, data); err != nil {
				return err
			}
		}
	}

	for key := range data {
		if !known[key] {
			return errors.NewValidationError(key, "form data key does not match any layout field")
		}
	}
	return nil
}

// validateFieldValue dispatches on the field type. The switch is the
// single place that enumerates all variants; adding a type without a
// case here fails every write against it.
func validateFieldValue(field models.LayoutField, key string, data models.FormData) error {
	raw, present := data[key]

	switch field.Type {
	case models.FieldInput, models.FieldDescription:
		if !present {
			if field.Required {
				return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
			}
			return nil
		}
		s, ok := raw.(string)
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("%q expects a single text value", field.Label))
		}
		if field.Required && s == "" {
			return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
		}
		return nil

	case models.FieldDropdown:
		if !present {
			if field.Required {
				return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
			}
			return nil
		}
		s, ok := data.StringValue(key)
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("%q expects a single option value", field.Label))
		}
		if s == "" {
			if field.Required {
				return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
			}
			return nil
		}
		if !hasOptionValue(field, s) {
			return errors.NewValidationError(key, fmt.Sprintf("%q is not an option of %q", s, field.Label))
		}
		return nil

	case models.FieldCheckboxes:
		if !present {
			if field.Required {
				return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
			}
			return nil
		}
		values, ok := data.StringSlice(key)
		if !ok {
			return errors.NewValidationError(key, fmt.Sprintf("%q expects a list of option values", field.Label))
		}
		if field.Required && len(values) == 0 {
			return errors.NewValidationError(key, fmt.Sprintf("%q is required", field.Label))
		}
		for _, v := range values {
			if !hasOptionValue(field, v) {
				return errors.NewValidationError(key, fmt.Sprintf("%q is not an option of %q", v, field.Label))
			}
		}
		return nil
	}

	return errors.NewValidationError(key, fmt.Sprintf("unknown field type %q", field.Type))
}

func hasOptionValue(field models.LayoutField, value string) bool {
	for _, opt := range field.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
