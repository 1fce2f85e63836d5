package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repario/server/internal/models"
)

func testLayout() *models.Layout {
	plate := models.LayoutField{
		ID:       uuid.New(),
		Label:    "License Plate",
		Type:     models.FieldInput,
		Required: true,
	}
	notes := models.LayoutField{
		ID:    uuid.New(),
		Label: "Notes",
		Type:  models.FieldDescription,
	}
	payment := models.LayoutField{
		ID:    uuid.New(),
		Label: "Payment Method",
		Type:  models.FieldDropdown,
		Options: []models.FieldOption{
			{ID: uuid.New(), Label: "Cash Payment", Value: "cash_payment"},
			{ID: uuid.New(), Label: "Card", Value: "card"},
		},
	}
	services := models.LayoutField{
		ID:       uuid.New(),
		Label:    "Services",
		Type:     models.FieldCheckboxes,
		Required: true,
		Options: []models.FieldOption{
			{ID: uuid.New(), Label: "Oil Change", Value: "oil_change"},
			{ID: uuid.New(), Label: "Brakes", Value: "brakes"},
		},
	}
	section := models.LayoutSection{
		ID:     uuid.New(),
		Title:  "Vehicle",
		Fields: []models.LayoutField{plate, notes, payment, services},
	}
	return &models.Layout{
		ID:       uuid.New(),
		Name:     "Intake",
		Sections: []models.LayoutSection{section},
	}
}

func key(layout *models.Layout, fieldIndex int) string {
	section := layout.Sections[0]
	return FormDataKey(section, section.Fields[fieldIndex])
}

func TestValidateFormDataAccepts(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 0): "ABC-1234",
		key(layout, 2): "cash_payment",
		key(layout, 3): []interface{}{"oil_change", "brakes"},
	}
	if err := ValidateFormData(layout, data); err != nil {
		t.Fatalf("expected valid form data, got %v", err)
	}
}

func TestValidateFormDataRequiredMissing(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 3): []interface{}{"brakes"},
	}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected missing required input to fail")
	}
}

func TestValidateFormDataRequiredCheckboxesEmpty(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 0): "ABC-1234",
		key(layout, 3): []interface{}{},
	}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected empty required checkboxes to fail")
	}
}

func TestValidateFormDataUnknownOption(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 0): "ABC-1234",
		key(layout, 2): "bitcoin",
		key(layout, 3): []interface{}{"brakes"},
	}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected undeclared dropdown value to fail")
	}

	data[key(layout, 2)] = "card"
	data[key(layout, 3)] = []interface{}{"detailing"}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected undeclared checkbox value to fail")
	}
}

func TestValidateFormDataWrongShape(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 0): "ABC-1234",
		key(layout, 3): "brakes", // must be a list
	}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected scalar checkbox value to fail")
	}

	data[key(layout, 3)] = []interface{}{"brakes"}
	data[key(layout, 1)] = []interface{}{"not", "text"}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected list on a text field to fail")
	}
}

func TestValidateFormDataUnknownKey(t *testing.T) {
	layout := testLayout()
	data := models.FormData{
		key(layout, 0):    "ABC-1234",
		key(layout, 3):    []interface{}{"brakes"},
		"stray_key_value": "x",
	}
	if err := ValidateFormData(layout, data); err == nil {
		t.Fatal("expected stray key to fail")
	}
}

func TestValidateFormDataOptionalOmitted(t *testing.T) {
	layout := testLayout()
	// Notes and payment are optional and absent
	data := models.FormData{
		key(layout, 0): "ABC-1234",
		key(layout, 3): []interface{}{"oil_change"},
	}
	if err := ValidateFormData(layout, data); err != nil {
		t.Fatalf("expected optional fields to be omittable, got %v", err)
	}
}
