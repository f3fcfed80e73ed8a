package store

import (
	"context"
	"testing"
	"time"

	"github.com/fruettli/hauskal/internal/database"
	"github.com/fruettli/hauskal/internal/model"
)

func setupReminderTestDB(t *testing.T) *ReminderStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReminderStore(db)
}

func TestReminderCRUD(t *testing.T) {
	rs := setupReminderTestDB(t)

	due := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	created, err := rs.Create(model.Reminder{
		Title:   "Zahnarzt",
		Type:    model.ReminderTermin,
		DueDate: due,
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected non-zero id")
	}
	if created.Status != model.StatusOffen {
		t.Errorf("status = %q, want %q", created.Status, model.StatusOffen)
	}
	if !created.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", created.DueDate, due)
	}

	got, err := rs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get reminder: %v", err)
	}
	if got == nil || got.Title != "Zahnarzt" {
		t.Fatalf("got %+v, want Zahnarzt", got)
	}

	got.Title = "Zahnarzt Kontrolle"
	got.Notes = "Praxis Dr. Meier"
	updated, err := rs.Update(got.ID, *got)
	if err != nil {
		t.Fatalf("update reminder: %v", err)
	}
	if updated.Title != "Zahnarzt Kontrolle" || updated.Notes != "Praxis Dr. Meier" {
		t.Errorf("update not applied: %+v", updated)
	}

	if err := rs.Delete(created.ID); err != nil {
		t.Fatalf("delete reminder: %v", err)
	}
	gone, err := rs.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}

func TestReminderGetMissing(t *testing.T) {
	rs := setupReminderTestDB(t)

	got, err := rs.GetByID(999)
	if err != nil {
		t.Fatalf("get missing reminder: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestReminderAmount(t *testing.T) {
	rs := setupReminderTestDB(t)

	amount := int64(15000)
	created, err := rs.Create(model.Reminder{
		Title:   "Krankenkasse",
		Type:    model.ReminderZahlung,
		DueDate: time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
		Amount:  &amount,
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if created.Amount == nil || *created.Amount != 15000 {
		t.Errorf("amount = %v, want 15000", created.Amount)
	}
	if created.Currency != "CHF" {
		t.Errorf("currency = %q, want CHF", created.Currency)
	}
}

func TestReminderListByDateRange(t *testing.T) {
	rs := setupReminderTestDB(t)

	dates := []time.Time{
		time.Date(2025, 2, 28, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC),
	}
	for i, d := range dates {
		if _, err := rs.Create(model.Reminder{
			Title:   "Test",
			Type:    model.ReminderAufgabe,
			DueDate: d,
		}); err != nil {
			t.Fatalf("create reminder %d: %v", i, err)
		}
	}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	got, err := rs.ListByDateRange(context.Background(), start, end)
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reminders, want 2", len(got))
	}
	if got[0].DueDate.After(got[1].DueDate) {
		t.Error("expected ascending due_date order")
	}
}

func TestReminderSetStatus(t *testing.T) {
	rs := setupReminderTestDB(t)

	created, err := rs.Create(model.Reminder{
		Title:   "Steuern",
		Type:    model.ReminderAufgabe,
		DueDate: time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	done, err := rs.SetStatus(created.ID, model.StatusErledigt)
	if err != nil {
		t.Fatalf("set status: %v", err)
	}
	if done.Status != model.StatusErledigt {
		t.Errorf("status = %q, want %q", done.Status, model.StatusErledigt)
	}
}

func TestReminderUpdateDueDate(t *testing.T) {
	rs := setupReminderTestDB(t)

	created, err := rs.Create(model.Reminder{
		Title:   "Elternabend",
		Type:    model.ReminderTermin,
		DueDate: time.Date(2025, 5, 10, 19, 30, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}

	moved := time.Date(2025, 5, 12, 19, 30, 0, 0, time.UTC)
	updated, err := rs.UpdateDueDate(created.ID, moved)
	if err != nil {
		t.Fatalf("update due date: %v", err)
	}
	if !updated.DueDate.Equal(moved) {
		t.Errorf("due date = %v, want %v", updated.DueDate, moved)
	}
	if updated.Title != "Elternabend" {
		t.Errorf("title changed unexpectedly: %q", updated.Title)
	}
}

func TestReminderListOpenDueBefore(t *testing.T) {
	rs := setupReminderTestDB(t)

	past, err := rs.Create(model.Reminder{
		Title:   "Verpasst",
		Type:    model.ReminderAufgabe,
		DueDate: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create past reminder: %v", err)
	}
	if _, err := rs.Create(model.Reminder{
		Title:   "Zukunft",
		Type:    model.ReminderAufgabe,
		DueDate: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create future reminder: %v", err)
	}
	done, err := rs.Create(model.Reminder{
		Title:   "Schon erledigt",
		Type:    model.ReminderAufgabe,
		DueDate: time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create done reminder: %v", err)
	}
	if _, err := rs.SetStatus(done.ID, model.StatusErledigt); err != nil {
		t.Fatalf("set status: %v", err)
	}

	cutoff := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	got, err := rs.ListOpenDueBefore(cutoff)
	if err != nil {
		t.Fatalf("list open due before: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d reminders, want 1", len(got))
	}
	if got[0].ID != past.ID {
		t.Errorf("got id %d, want %d", got[0].ID, past.ID)
	}
}
