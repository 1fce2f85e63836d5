package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repario/server/internal/errors"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestCreateItemValidation(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewItemEngine(db)

	_, err := e.Create(userID, ItemInput{})
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError for missing name, got %v", err)
	}

	_, err = e.Create(userID, ItemInput{Name: strPtr("Oil"), UnitPrice: floatPtr(-1)})
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError for negative price, got %v", err)
	}
}

func TestSoftDeleteKeepsInvoiceSnapshots(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	items := NewItemEngine(db)
	invoices := newInvoiceEngine(db)

	item, err := items.Create(userID, ItemInput{Name: strPtr("Brake Pads"), UnitPrice: floatPtr(40)})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	invoice, err := invoices.Create(userID, InvoiceInput{
		Customer: CustomerInput{Name: "Snapshot Customer"},
		Items:    []InvoiceItemInput{{Name: item.Name, Quantity: 1, Price: item.UnitPrice}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if err := items.Delete(userID, item.ID); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	// Gone from the default listing, still present when asked for
	active, err := items.List(userID, "", "", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active items, got %d", len(active))
	}
	all, err := items.List(userID, "", "", true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the inactive item, got %d", len(all))
	}

	// The invoice line is a snapshot, unaffected by catalog changes
	got, err := invoices.Get(userID, invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Brake Pads" || got.Items[0].Price != 40 {
		t.Fatalf("expected untouched snapshot, got %+v", got.Items)
	}
}

func TestListItemsFilters(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewItemEngine(db)

	seed := []struct {
		name     string
		category string
	}{
		{"Engine Oil 5W30", "fluids"},
		{"Brake Fluid", "fluids"},
		{"Brake Pads", "parts"},
	}
	for _, s := range seed {
		if _, err := e.Create(userID, ItemInput{Name: strPtr(s.name), Category: strPtr(s.category)}); err != nil {
			t.Fatalf("create %q: %v", s.name, err)
		}
	}

	fluids, err := e.List(userID, "fluids", "", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(fluids) != 2 {
		t.Fatalf("expected 2 fluids, got %d", len(fluids))
	}

	brakes, err := e.List(userID, "", "brake", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(brakes) != 2 {
		t.Fatalf("expected 2 brake matches, got %d", len(brakes))
	}

	// LIKE wildcards in the search term are literals, not patterns
	none, err := e.List(userID, "", "%", false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected literal %% to match nothing, got %d", len(none))
	}
}

func TestBulkOperations(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	otherID := createTestUser(t, db)
	e := NewItemEngine(db)

	var ids []uuid.UUID
	for _, name := range []string{"A", "B", "C"} {
		item, err := e.Create(userID, ItemInput{Name: strPtr(name)})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		ids = append(ids, item.ID)
	}
	foreign, err := e.Create(otherID, ItemInput{Name: strPtr("Foreign")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Foreign ids silently don't count
	affected, err := e.BulkSetCategory(userID, append(ids[:2:2], foreign.ID), "tools")
	if err != nil {
		t.Fatalf("bulk category: %v", err)
	}
	if affected != 2 {
		t.Fatalf("expected 2 affected, got %d", affected)
	}

	categories, err := e.Categories(userID)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(categories) != 1 || categories[0] != "tools" {
		t.Fatalf("expected [tools], got %v", categories)
	}

	affected, err = e.BulkDelete(userID, ids)
	if err != nil {
		t.Fatalf("bulk delete: %v", err)
	}
	if affected != 3 {
		t.Fatalf("expected 3 deleted, got %d", affected)
	}

	_, err = e.BulkDelete(userID, nil)
	if _, ok := err.(*errors.ValidationError); !ok {
		t.Fatalf("expected ValidationError for empty ids, got %v", err)
	}

	// The other user's item is untouched
	got, err := e.Get(otherID, foreign.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsActive || got.Category != "" {
		t.Fatalf("expected foreign item untouched, got %+v", got)
	}
}
