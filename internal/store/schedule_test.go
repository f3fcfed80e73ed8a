package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fruettli/hauskal/internal/database"
	"github.com/fruettli/hauskal/internal/model"
)

func setupScheduleTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestVacationOverlap(t *testing.T) {
	vs := NewVacationStore(setupScheduleTestDB(t))

	if _, err := vs.Create(model.Vacation{
		Title:     "Sommerferien",
		StartDate: time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 7, 24, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create vacation: %v", err)
	}
	if _, err := vs.Create(model.Vacation{
		Title:     "Herbstferien",
		StartDate: time.Date(2025, 10, 6, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 10, 17, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create vacation: %v", err)
	}

	// Window covering July only. The October range must not appear.
	got, err := vs.ListOverlapping(context.Background(),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list overlapping: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d vacations, want 1", len(got))
	}
	if got[0].Title != "Sommerferien" {
		t.Errorf("title = %q, want Sommerferien", got[0].Title)
	}

	// Window starting mid-range still matches.
	got, err = vs.ListOverlapping(context.Background(),
		time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list overlapping: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("mid-range window: got %d vacations, want 1", len(got))
	}
}

func TestWorkScheduleCRUD(t *testing.T) {
	ws := NewWorkScheduleStore(setupScheduleTestDB(t))

	created, err := ws.Create(model.WorkSchedule{
		PersonName: "Anna",
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		WorkType:   model.WorkMorning,
		StartTime:  "08:00",
		EndTime:    "12:00",
	})
	if err != nil {
		t.Fatalf("create work schedule: %v", err)
	}
	if created.WorkType != model.WorkMorning {
		t.Errorf("work type = %q, want %q", created.WorkType, model.WorkMorning)
	}

	got, err := ws.ListByDateRange(context.Background(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d schedules, want 1", len(got))
	}
	if got[0].StartTime != "08:00" || got[0].EndTime != "12:00" {
		t.Errorf("times = %q-%q, want 08:00-12:00", got[0].StartTime, got[0].EndTime)
	}

	if err := ws.Delete(created.ID); err != nil {
		t.Fatalf("delete work schedule: %v", err)
	}
	gone, err := ws.GetByID(created.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("expected nil after delete, got %+v", gone)
	}
}

func TestWorkScheduleDefaultsToFull(t *testing.T) {
	ws := NewWorkScheduleStore(setupScheduleTestDB(t))

	created, err := ws.Create(model.WorkSchedule{
		PersonName: "Ben",
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create work schedule: %v", err)
	}
	if created.WorkType != model.WorkFull {
		t.Errorf("work type = %q, want %q", created.WorkType, model.WorkFull)
	}
}

func TestSchoolScheduleCRUD(t *testing.T) {
	ss := NewSchoolScheduleStore(setupScheduleTestDB(t))

	created, err := ss.Create(model.SchoolSchedule{
		ChildName:  "Mia",
		Date:       time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		SchoolType: "morning",
		HortType:   "afternoon",
	})
	if err != nil {
		t.Fatalf("create school schedule: %v", err)
	}
	if created.SchoolType != "morning" || created.HortType != "afternoon" {
		t.Errorf("slots = %q/%q, want morning/afternoon", created.SchoolType, created.HortType)
	}

	got, err := ss.ListByDateRange(context.Background(),
		time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list by date range: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d schedules, want 1", len(got))
	}
}

func TestSchoolScheduleDefaults(t *testing.T) {
	ss := NewSchoolScheduleStore(setupScheduleTestDB(t))

	created, err := ss.Create(model.SchoolSchedule{
		ChildName: "Mia",
		Date:      time.Date(2025, 3, 13, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create school schedule: %v", err)
	}
	if created.SchoolType != "full" {
		t.Errorf("school type = %q, want full", created.SchoolType)
	}
	if created.HortType != model.HortNone {
		t.Errorf("hort type = %q, want %q", created.HortType, model.HortNone)
	}
}

func TestSchoolHolidayOverlap(t *testing.T) {
	hs := NewSchoolHolidayStore(setupScheduleTestDB(t))

	if _, err := hs.Create(model.SchoolHoliday{
		Title:     "Sportferien",
		StartDate: time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatalf("create school holiday: %v", err)
	}

	got, err := hs.ListOverlapping(context.Background(),
		time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list overlapping: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d holidays, want 1", len(got))
	}

	got, err = hs.ListOverlapping(context.Background(),
		time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	)
	if err != nil {
		t.Fatalf("list overlapping: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d holidays, want 0", len(got))
	}
}
