package engine

import (
	"fmt"
	"testing"

	"github.com/repario/server/internal/errors"
	"github.com/repario/server/internal/models"
	"gorm.io/gorm"
)

func newInvoiceEngine(db *gorm.DB) *InvoiceEngine {
	customers := NewCustomerEngine(db, nil)
	layouts := NewLayoutEngine(db)
	return NewInvoiceEngine(db, customers, layouts)
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := newInvoiceEngine(db)

	invoice, err := e.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "First Customer"},
		Items: []InvoiceItemInput{
			{Name: "Diagnosis", Quantity: 2, Price: 50},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if invoice.Status != models.StatusPending {
		t.Fatalf("expected default status pending, got %s", invoice.Status)
	}
	if invoice.Subtotal != 100.00 {
		t.Fatalf("expected subtotal 100.00, got %v", invoice.Subtotal)
	}
	if invoice.TaxAmount != 0 {
		t.Fatalf("expected tax amount 0, got %v", invoice.TaxAmount)
	}
	if invoice.TotalAmount != 100.00 {
		t.Fatalf("expected total 100.00, got %v", invoice.TotalAmount)
	}
	if invoice.Customer == nil || invoice.Customer.Name != "First Customer" {
		t.Fatalf("expected customer preloaded, got %+v", invoice.Customer)
	}
	if len(invoice.Items) != 1 || invoice.Items[0].Total != 100.00 {
		t.Fatalf("expected one item with total 100.00, got %+v", invoice.Items)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := newInvoiceEngine(db)

	cases := []struct {
		name  string
		input InvoiceInput
	}{
		{"no items", InvoiceInput{Customer: CustomerInput{Name: "X"}}},
		{"empty item name", InvoiceInput{
			Customer: CustomerInput{Name: "X"},
			Items:    []InvoiceItemInput{{Name: "  ", Quantity: 1, Price: 1}},
		}},
		{"zero quantity", InvoiceInput{
			Customer: CustomerInput{Name: "X"},
			Items:    []InvoiceItemInput{{Name: "A", Quantity: 0, Price: 1}},
		}},
		{"negative price", InvoiceInput{
			Customer: CustomerInput{Name: "X"},
			Items:    []InvoiceItemInput{{Name: "A", Quantity: 1, Price: -1}},
		}},
		{"bad status", InvoiceInput{
			Customer: CustomerInput{Name: "X"},
			Items:    []InvoiceItemInput{{Name: "A", Quantity: 1, Price: 1}},
			Status:   "archived",
		}},
	}
	for _, c := range cases {
		_, err := e.Create(userID, c.input)
		if _, ok := err.(*errors.ValidationError); !ok {
			t.Errorf("%s: expected ValidationError, got %v", c.name, err)
		}
	}
}

func TestCreateInvoiceValidatesFormData(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	layouts := NewLayoutEngine(db)
	customers := NewCustomerEngine(db, nil)
	e := NewInvoiceEngine(db, customers, layouts)

	layout := buildLayoutTree(t, layouts, userID)
	layoutID := layout.ID
	section := layout.Sections[0]
	dropdownKey := FormDataKey(section, section.Fields[1])

	_, err := e.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "Form Customer"},
		LayoutID: &layoutID,
		FormData: models.FormData{dropdownKey: "bitcoin"},
		Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: 10}},
	})
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError for undeclared option, got %v", err)
	}

	invoice, err := e.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "Form Customer"},
		LayoutID: &layoutID,
		FormData: models.FormData{dropdownKey: "cash_payment"},
		Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v, ok := invoice.FormData.StringValue(dropdownKey); !ok || v != "cash_payment" {
		t.Fatalf("expected form data round trip, got %v", invoice.FormData)
	}
}

func TestUpdateInvoiceRewritesItems(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := newInvoiceEngine(db)

	invoice, err := e.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "Rewrite Customer"},
		Items: []InvoiceItemInput{
			{Name: "Old Line", Quantity: 1, Price: 10},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := e.Update(userID, invoice.ID, InvoiceInput{
		Customer: CustomerInput{Name: "Ignored On Update"},
		Status:   models.StatusWorking,
		Items: []InvoiceItemInput{
			{Name: "New Line A", Quantity: 3, Price: 5},
			{Name: "New Line B", Quantity: 1, Price: 2.5},
		},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Status != models.StatusWorking {
		t.Fatalf("expected status working, got %s", updated.Status)
	}
	if len(updated.Items) != 2 {
		t.Fatalf("expected items replaced, got %d", len(updated.Items))
	}
	if updated.Subtotal != 17.50 || updated.TotalAmount != 17.50 {
		t.Fatalf("expected totals recomputed to 17.50, got %v/%v", updated.Subtotal, updated.TotalAmount)
	}
	// The customer binding never changes on update
	if updated.CustomerID != invoice.CustomerID {
		t.Fatal("expected customer to stay bound")
	}

	var orphans int64
	db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", invoice.ID).Count(&orphans)
	if orphans != 2 {
		t.Fatalf("expected exactly 2 item rows, got %d", orphans)
	}
}

func TestUpdateInvoiceStatus(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := newInvoiceEngine(db)

	invoice, err := e.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "Status Customer"},
		Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := e.UpdateStatus(userID, invoice.ID, models.StatusDone)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != models.StatusDone {
		t.Fatalf("expected done, got %s", updated.Status)
	}

	_, err = e.UpdateStatus(userID, invoice.ID, "archived")
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestListInvoicesPagination(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := newInvoiceEngine(db)

	for i := 0; i < 5; i++ {
		// Sequential names sit above the similarity threshold, so the
		// dedup guard must be bypassed explicitly
		_, err := e.Create(userID, InvoiceInput{
			Customer: CustomerInput{Name: fmt.Sprintf("Customer %d", i), ForceCreate: true},
			Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: float64(i + 1)}},
		})
		if err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	page, err := e.List(userID, ListParams{Page: 1, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if page.Total != 5 {
		t.Fatalf("expected total 5, got %d", page.Total)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(page.Data))
	}
	if page.TotalPages != 3 {
		t.Fatalf("expected 3 pages, got %d", page.TotalPages)
	}

	last, err := e.List(userID, ListParams{Page: 3, Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(last.Data) != 1 {
		t.Fatalf("expected 1 row on the last page, got %d", len(last.Data))
	}

	// Out-of-range parameters clamp rather than fail
	clamped, err := e.List(userID, ListParams{Page: -3, Limit: 1000})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if clamped.Page != 1 || clamped.Limit != 100 {
		t.Fatalf("expected clamped page/limit, got %d/%d", clamped.Page, clamped.Limit)
	}
}

func TestInvoiceOwnershipScoping(t *testing.T) {
	db := setupTestDB(t)
	userA := createTestUser(t, db)
	userB := createTestUser(t, db)
	e := newInvoiceEngine(db)

	invoice, err := e.Create(userA, InvoiceInput{
		Customer: CustomerInput{Name: "Private"},
		Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = e.Get(userB, invoice.ID)
	if _, ok := err.(*errors.NotFoundError); !ok {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
