package store

import (
	"context"
	"testing"
	"time"

	"github.com/fruettli/hauskal/internal/database"
	"github.com/fruettli/hauskal/internal/model"
)

func setupPersonTestDB(t *testing.T) (*PersonStore, *InvoiceStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPersonStore(db), NewInvoiceStore(db)
}

func TestPersonCRUD(t *testing.T) {
	ps, _ := setupPersonTestDB(t)

	created, err := ps.Create("Anna", "anna@example.com", "", "")
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	if created.Currency != "CHF" {
		t.Errorf("currency = %q, want CHF", created.Currency)
	}

	if _, err := ps.Create("Ben", "", "", "EUR"); err != nil {
		t.Fatalf("create second person: %v", err)
	}

	persons, err := ps.List(context.Background())
	if err != nil {
		t.Fatalf("list persons: %v", err)
	}
	if len(persons) != 2 {
		t.Fatalf("got %d persons, want 2", len(persons))
	}
	if persons[0].Name != "Anna" || persons[1].Name != "Ben" {
		t.Errorf("expected name order Anna, Ben; got %q, %q", persons[0].Name, persons[1].Name)
	}

	if err := ps.Delete(created.ID); err != nil {
		t.Fatalf("delete person: %v", err)
	}
	gone, err := ps.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	ps, is := setupPersonTestDB(t)

	person, err := ps.Create("Anna", "", "", "")
	if err != nil {
		t.Fatalf("create person: %v", err)
	}

	created, err := is.Create(model.Invoice{
		PersonID: &person.ID,
		Title:    "Musikschule",
		Amount:   12050,
		DueDate:  time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if created.Status != model.InvoiceOpen {
		t.Errorf("status = %q, want %q", created.Status, model.InvoiceOpen)
	}
	if created.Amount != 12050 {
		t.Errorf("amount = %d, want 12050", created.Amount)
	}
	if created.PersonID == nil || *created.PersonID != person.ID {
		t.Errorf("person_id = %v, want %d", created.PersonID, person.ID)
	}

	paid, err := is.SetStatus(created.ID, model.InvoicePaid)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if paid.Status != model.InvoicePaid {
		t.Errorf("status = %q, want %q", paid.Status, model.InvoicePaid)
	}

	byPerson, err := is.ListByPerson(person.ID)
	if err != nil {
		t.Fatalf("list by person: %v", err)
	}
	if len(byPerson) != 1 {
		t.Fatalf("got %d invoices, want 1", len(byPerson))
	}
}

func TestInvoiceListByDateRange(t *testing.T) {
	_, is := setupPersonTestDB(t)

	for _, d := range []time.Time{
		time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 9, 15, 12, 0, 0, 0, time.UTC),
	} {
		if _, err := is.Create(model.Invoice{Title: "Rechnung", Amount: 1000, DueDate: d}); err != nil {
			t.Fatalf("create invoice: %v", err)
		}
	}

	got, err := is.ListByDateRange(context.Background(),
		time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d invoices, want 1", len(got))
	}
}
