package calendar

import (
	"testing"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

func TestStatsForMonth(t *testing.T) {
	events := []model.Event{
		{Type: model.EventDue, Date: "2025-03-05", IsOverdue: true},
		{Type: model.EventDue, Date: "2025-03-20"},
		{Type: model.EventReminder, Date: "2025-03-31"},
		{Type: model.EventAppointment, Date: "2025-03-15"},
		{Type: model.EventWork, Date: "2025-03-10"},
		{Type: model.EventDue, Date: "2025-04-01"}, // outside month
	}

	stats := StatsForMonth(events, "2025-03")
	if stats.Total != 5 {
		t.Errorf("total = %d, want 5", stats.Total)
	}
	if stats.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", stats.Overdue)
	}
	if stats.Due != 2 || stats.Reminders != 1 || stats.Appointments != 1 {
		t.Errorf("breakdown = %+v", stats)
	}
}

func TestFilter(t *testing.T) {
	events := []model.Event{
		{ID: "reminder-1", Type: model.EventAppointment, Title: "Zahnarzt Mia"},
		{ID: "reminder-2", Type: model.EventDue, Title: "Zahnarzt Rechnung"},
		{ID: "reminder-3", Type: model.EventReminder, Title: "Steuern"},
	}

	if got := Filter(events, "", ""); len(got) != 3 {
		t.Errorf("no-op filter: got %d, want 3", len(got))
	}
	if got := Filter(events, model.EventDue, ""); len(got) != 1 || got[0].ID != "reminder-2" {
		t.Errorf("type filter: got %+v", got)
	}
	if got := Filter(events, "", "zahnarzt"); len(got) != 2 {
		t.Errorf("query filter: got %d, want 2", len(got))
	}
	if got := Filter(events, model.EventAppointment, "zahnarzt"); len(got) != 1 || got[0].ID != "reminder-1" {
		t.Errorf("combined filter: got %+v", got)
	}
}

func TestUpcoming(t *testing.T) {
	norm := dateutil.New(time.UTC)
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	events := []model.Event{
		{ID: "a", Type: model.EventDue, Title: "Heute", Date: "2025-03-10", Status: model.InvoiceOpen},
		{ID: "b", Type: model.EventAppointment, Title: "Morgen spät", Date: "2025-03-11", Time: "18:00", Status: model.StatusOffen},
		{ID: "c", Type: model.EventAppointment, Title: "Morgen früh", Date: "2025-03-11", Time: "08:00", Status: model.StatusOffen},
		{ID: "d", Type: model.EventReminder, Title: "Am Horizont", Date: "2025-03-17", Status: model.StatusOffen},
		{ID: "e", Type: model.EventReminder, Title: "Zu weit", Date: "2025-03-18", Status: model.StatusOffen},
		{ID: "f", Type: model.EventDue, Title: "Vorbei", Date: "2025-03-09", Status: model.InvoiceOpen},
		{ID: "g", Type: model.EventDue, Title: "Bezahlt", Date: "2025-03-12", Status: model.InvoicePaid},
		{ID: "h", Type: model.EventReminder, Title: "Erledigt", Date: "2025-03-12", Status: model.StatusErledigt},
		{ID: "i", Type: model.EventWork, Title: "Schicht", Date: "2025-03-12"},
		{ID: "j", Type: model.EventReminder, Title: "Ohne Datum", Date: "", Status: model.StatusOffen},
	}

	got := Upcoming(events, norm, now)
	wantOrder := []string{"a", "c", "b", "d"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d events, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Errorf("upcoming[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}
