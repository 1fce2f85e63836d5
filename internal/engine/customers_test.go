package engine

import (
	"testing"

	"github.com/repario/server/internal/errors"
)

func TestResolveCreatesNewCustomer(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	customer, err := e.Resolve(userID, CustomerInput{Name: "Maria Garcia", Phone: "+30123456789"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if customer.Name != "Maria Garcia" {
		t.Fatalf("expected name to be stored, got %q", customer.Name)
	}
	if customer.Phone == nil || *customer.Phone != "+30123456789" {
		t.Fatalf("expected phone to be stored, got %v", customer.Phone)
	}
}

func TestResolveExactMatchForcesSelection(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	existing, err := e.Create(userID, "John Smith", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Exact match cannot be bypassed, even with ForceCreate
	_, err = e.Resolve(userID, CustomerInput{Name: "  JOHN SMITH ", ForceCreate: true})
	similar, ok := err.(*errors.SimilarCustomersError)
	if !ok {
		t.Fatalf("expected SimilarCustomersError, got %v", err)
	}
	if !similar.Exact {
		t.Fatal("expected exact flag to be set")
	}
	if len(similar.Customers) != 1 || similar.Customers[0].ID != existing.ID.String() {
		t.Fatalf("expected the existing customer in the payload, got %+v", similar.Customers)
	}
}

func TestResolveNearDuplicateConflict(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	if _, err := e.Create(userID, "John Smith", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err := e.Resolve(userID, CustomerInput{Name: "John Smyth"})
	similar, ok := err.(*errors.SimilarCustomersError)
	if !ok {
		t.Fatalf("expected SimilarCustomersError, got %v", err)
	}
	if similar.Exact {
		t.Fatal("expected a non-exact conflict")
	}
	if len(similar.Customers) != 1 {
		t.Fatalf("expected one suggestion, got %d", len(similar.Customers))
	}
	if similar.Customers[0].Similarity < SimilarityThreshold {
		t.Fatalf("suggestion below threshold: %v", similar.Customers[0].Similarity)
	}
}

func TestResolveForceCreateBypassesNearDuplicates(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	if _, err := e.Create(userID, "John Smith", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	customer, err := e.Resolve(userID, CustomerInput{Name: "John Smyth", ForceCreate: true})
	if err != nil {
		t.Fatalf("expected force_create to bypass the conflict, got %v", err)
	}
	if customer.Name != "John Smyth" {
		t.Fatalf("expected a new customer, got %q", customer.Name)
	}

	customers, err := e.List(userID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
}

func TestResolveSelectionEnrichesContact(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	existing, err := e.Create(userID, "John Smith", "", "Old Street 1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	id := existing.ID
	customer, err := e.Resolve(userID, CustomerInput{ID: &id, Phone: "+30123", Address: ""})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if customer.Phone == nil || *customer.Phone != "+30123" {
		t.Fatalf("expected phone enrichment, got %v", customer.Phone)
	}
	// Empty candidate values never overwrite stored ones
	if customer.Address == nil || *customer.Address != "Old Street 1" {
		t.Fatalf("expected address to survive, got %v", customer.Address)
	}
}

func TestResolveScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	userA := createTestUser(t, db)
	userB := createTestUser(t, db)
	e := NewCustomerEngine(db, nil)

	if _, err := e.Create(userA, "John Smith", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user's identical name is no conflict
	if _, err := e.Resolve(userB, CustomerInput{Name: "John Smith"}); err != nil {
		t.Fatalf("expected cross-user resolve to succeed, got %v", err)
	}
}

func TestDeleteCustomerWithInvoicesConflicts(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	customers := NewCustomerEngine(db, nil)
	invoices := NewInvoiceEngine(db, customers, NewLayoutEngine(db))

	customer, err := customers.Create(userID, "Billed Often", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	id := customer.ID
	_, err = invoices.Create(userID, InvoiceInput{
		Customer: CustomerInput{ID: &id},
		Items:    []InvoiceItemInput{{Name: "Repair", Quantity: 1, Price: 10}},
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	err = customers.Delete(userID, customer.ID)
	if _, ok := err.(*errors.ConflictError); !ok {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}
