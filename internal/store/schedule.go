package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fruettli/hauskal/internal/model"
)

type VacationStore struct {
	db *sql.DB
}

func NewVacationStore(db *sql.DB) *VacationStore {
	return &VacationStore{db: db}
}

func (s *VacationStore) Create(v model.Vacation) (*model.Vacation, error) {
	result, err := s.db.Exec(
		`INSERT INTO vacations (title, person_name, start_date, end_date, notes)
		 VALUES (?, ?, ?, ?, ?)`,
		v.Title, v.PersonName, v.StartDate.UTC(), v.EndDate.UTC(), v.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("insert vacation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *VacationStore) GetByID(id int64) (*model.Vacation, error) {
	var v model.Vacation
	err := s.db.QueryRow(
		`SELECT id, title, person_name, start_date, end_date, notes, created_at
		 FROM vacations WHERE id = ?`, id,
	).Scan(&v.ID, &v.Title, &v.PersonName, &v.StartDate, &v.EndDate, &v.Notes, &v.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query vacation: %w", err)
	}
	return &v, nil
}

// ListOverlapping returns vacations whose [start_date, end_date] range touches
// the given window.
func (s *VacationStore) ListOverlapping(ctx context.Context, start, end time.Time) ([]model.Vacation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, person_name, start_date, end_date, notes, created_at
		 FROM vacations
		 WHERE start_date < ? AND end_date >= ?
		 ORDER BY start_date ASC`,
		end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query vacations: %w", err)
	}
	defer rows.Close()

	var vacations []model.Vacation
	for rows.Next() {
		var v model.Vacation
		if err := rows.Scan(&v.ID, &v.Title, &v.PersonName, &v.StartDate, &v.EndDate, &v.Notes, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan vacation: %w", err)
		}
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

func (s *VacationStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM vacations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete vacation: %w", err)
	}
	return nil
}

type WorkScheduleStore struct {
	db *sql.DB
}

func NewWorkScheduleStore(db *sql.DB) *WorkScheduleStore {
	return &WorkScheduleStore{db: db}
}

func (s *WorkScheduleStore) Create(w model.WorkSchedule) (*model.WorkSchedule, error) {
	if w.WorkType == "" {
		w.WorkType = model.WorkFull
	}
	result, err := s.db.Exec(
		`INSERT INTO work_schedules (person_name, date, work_type, start_time, end_time)
		 VALUES (?, ?, ?, ?, ?)`,
		w.PersonName, w.Date.UTC(), w.WorkType, w.StartTime, w.EndTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert work schedule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *WorkScheduleStore) GetByID(id int64) (*model.WorkSchedule, error) {
	var w model.WorkSchedule
	err := s.db.QueryRow(
		`SELECT id, person_name, date, work_type, start_time, end_time, created_at
		 FROM work_schedules WHERE id = ?`, id,
	).Scan(&w.ID, &w.PersonName, &w.Date, &w.WorkType, &w.StartTime, &w.EndTime, &w.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query work schedule: %w", err)
	}
	return &w, nil
}

func (s *WorkScheduleStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.WorkSchedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_name, date, work_type, start_time, end_time, created_at
		 FROM work_schedules
		 WHERE date >= ? AND date < ?
		 ORDER BY date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query work schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.WorkSchedule
	for rows.Next() {
		var w model.WorkSchedule
		if err := rows.Scan(&w.ID, &w.PersonName, &w.Date, &w.WorkType, &w.StartTime, &w.EndTime, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan work schedule: %w", err)
		}
		schedules = append(schedules, w)
	}
	return schedules, rows.Err()
}

func (s *WorkScheduleStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM work_schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete work schedule: %w", err)
	}
	return nil
}

type SchoolScheduleStore struct {
	db *sql.DB
}

func NewSchoolScheduleStore(db *sql.DB) *SchoolScheduleStore {
	return &SchoolScheduleStore{db: db}
}

func (s *SchoolScheduleStore) Create(sc model.SchoolSchedule) (*model.SchoolSchedule, error) {
	if sc.SchoolType == "" {
		sc.SchoolType = "full"
	}
	if sc.HortType == "" {
		sc.HortType = model.HortNone
	}
	result, err := s.db.Exec(
		`INSERT INTO school_schedules (child_name, date, school_type, hort_type)
		 VALUES (?, ?, ?, ?)`,
		sc.ChildName, sc.Date.UTC(), sc.SchoolType, sc.HortType,
	)
	if err != nil {
		return nil, fmt.Errorf("insert school schedule: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SchoolScheduleStore) GetByID(id int64) (*model.SchoolSchedule, error) {
	var sc model.SchoolSchedule
	err := s.db.QueryRow(
		`SELECT id, child_name, date, school_type, hort_type, created_at
		 FROM school_schedules WHERE id = ?`, id,
	).Scan(&sc.ID, &sc.ChildName, &sc.Date, &sc.SchoolType, &sc.HortType, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query school schedule: %w", err)
	}
	return &sc, nil
}

func (s *SchoolScheduleStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.SchoolSchedule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, child_name, date, school_type, hort_type, created_at
		 FROM school_schedules
		 WHERE date >= ? AND date < ?
		 ORDER BY date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query school schedules: %w", err)
	}
	defer rows.Close()

	var schedules []model.SchoolSchedule
	for rows.Next() {
		var sc model.SchoolSchedule
		if err := rows.Scan(&sc.ID, &sc.ChildName, &sc.Date, &sc.SchoolType, &sc.HortType, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan school schedule: %w", err)
		}
		schedules = append(schedules, sc)
	}
	return schedules, rows.Err()
}

func (s *SchoolScheduleStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM school_schedules WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete school schedule: %w", err)
	}
	return nil
}

type SchoolHolidayStore struct {
	db *sql.DB
}

func NewSchoolHolidayStore(db *sql.DB) *SchoolHolidayStore {
	return &SchoolHolidayStore{db: db}
}

func (s *SchoolHolidayStore) Create(h model.SchoolHoliday) (*model.SchoolHoliday, error) {
	result, err := s.db.Exec(
		`INSERT INTO school_holidays (title, start_date, end_date) VALUES (?, ?, ?)`,
		h.Title, h.StartDate.UTC(), h.EndDate.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert school holiday: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SchoolHolidayStore) GetByID(id int64) (*model.SchoolHoliday, error) {
	var h model.SchoolHoliday
	err := s.db.QueryRow(
		`SELECT id, title, start_date, end_date, created_at
		 FROM school_holidays WHERE id = ?`, id,
	).Scan(&h.ID, &h.Title, &h.StartDate, &h.EndDate, &h.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query school holiday: %w", err)
	}
	return &h, nil
}

func (s *SchoolHolidayStore) ListOverlapping(ctx context.Context, start, end time.Time) ([]model.SchoolHoliday, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start_date, end_date, created_at
		 FROM school_holidays
		 WHERE start_date < ? AND end_date >= ?
		 ORDER BY start_date ASC`,
		end.UTC(), start.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query school holidays: %w", err)
	}
	defer rows.Close()

	var holidays []model.SchoolHoliday
	for rows.Next() {
		var h model.SchoolHoliday
		if err := rows.Scan(&h.ID, &h.Title, &h.StartDate, &h.EndDate, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan school holiday: %w", err)
		}
		holidays = append(holidays, h)
	}
	return holidays, rows.Err()
}

func (s *SchoolHolidayStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM school_holidays WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete school holiday: %w", err)
	}
	return nil
}
