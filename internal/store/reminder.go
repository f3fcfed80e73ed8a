package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fruettli/hauskal/internal/model"
)

type ReminderStore struct {
	db *sql.DB
}

func NewReminderStore(db *sql.DB) *ReminderStore {
	return &ReminderStore{db: db}
}

func (s *ReminderStore) Create(r model.Reminder) (*model.Reminder, error) {
	var amount sql.NullInt64
	if r.Amount != nil {
		amount = sql.NullInt64{Int64: *r.Amount, Valid: true}
	}
	var personID sql.NullInt64
	if r.PersonID != nil {
		personID = sql.NullInt64{Int64: *r.PersonID, Valid: true}
	}

	var allDayInt int
	if r.AllDay {
		allDayInt = 1
	}

	result, err := s.db.Exec(
		`INSERT INTO reminders (title, type, due_date, all_day, amount, currency, notes, status, recurrence_rule, person_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Title, r.Type, r.DueDate.UTC(), allDayInt, amount, r.Currency, r.Notes, r.Status, r.RecurrenceRule, personID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert reminder: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

func (s *ReminderStore) GetByID(id int64) (*model.Reminder, error) {
	row := s.db.QueryRow(
		`SELECT id, title, type, due_date, all_day, amount, currency, notes, status, recurrence_rule, person_id, created_at, updated_at
		 FROM reminders WHERE id = ?`, id)

	r, err := scanReminder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query reminder: %w", err)
	}
	return r, nil
}

func (s *ReminderStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Reminder, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, type, due_date, all_day, amount, currency, notes, status, recurrence_rule, person_id, created_at, updated_at
		 FROM reminders
		 WHERE due_date >= ? AND due_date < ?
		 ORDER BY due_date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

// ListOpenDueBefore returns open reminders whose due date is before the
// given cutoff, used by the notification scheduler.
func (s *ReminderStore) ListOpenDueBefore(cutoff time.Time) ([]model.Reminder, error) {
	rows, err := s.db.Query(
		`SELECT id, title, type, due_date, all_day, amount, currency, notes, status, recurrence_rule, person_id, created_at, updated_at
		 FROM reminders
		 WHERE status = ? AND due_date < ?
		 ORDER BY due_date ASC`,
		model.StatusOffen, cutoff.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query open reminders: %w", err)
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, *r)
	}
	return reminders, rows.Err()
}

func (s *ReminderStore) Update(id int64, r model.Reminder) (*model.Reminder, error) {
	var amount sql.NullInt64
	if r.Amount != nil {
		amount = sql.NullInt64{Int64: *r.Amount, Valid: true}
	}
	var personID sql.NullInt64
	if r.PersonID != nil {
		personID = sql.NullInt64{Int64: *r.PersonID, Valid: true}
	}

	var allDayInt int
	if r.AllDay {
		allDayInt = 1
	}

	_, err := s.db.Exec(
		`UPDATE reminders
		 SET title = ?, type = ?, due_date = ?, all_day = ?, amount = ?, currency = ?, notes = ?, status = ?, recurrence_rule = ?, person_id = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		r.Title, r.Type, r.DueDate.UTC(), allDayInt, amount, r.Currency, r.Notes, r.Status, r.RecurrenceRule, personID, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reminder: %w", err)
	}

	return s.GetByID(id)
}

// UpdateDueDate moves a single reminder without touching any other field.
func (s *ReminderStore) UpdateDueDate(id int64, dueDate time.Time) (*model.Reminder, error) {
	_, err := s.db.Exec(
		`UPDATE reminders SET due_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		dueDate.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reminder due date: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReminderStore) SetStatus(id int64, status string) (*model.Reminder, error) {
	_, err := s.db.Exec(
		`UPDATE reminders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reminder status: %w", err)
	}
	return s.GetByID(id)
}

func (s *ReminderStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM reminders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReminder(row rowScanner) (*model.Reminder, error) {
	var r model.Reminder
	var allDayInt int
	var amount, personID sql.NullInt64

	err := row.Scan(&r.ID, &r.Title, &r.Type, &r.DueDate, &allDayInt, &amount, &r.Currency,
		&r.Notes, &r.Status, &r.RecurrenceRule, &personID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.AllDay = allDayInt != 0
	if amount.Valid {
		r.Amount = &amount.Int64
	}
	if personID.Valid {
		r.PersonID = &personID.Int64
	}
	return &r, nil
}
