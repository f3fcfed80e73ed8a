package model

import "time"

// Reminder types stored in the reminders table.
const (
	ReminderTermin  = "termin"  // appointment
	ReminderZahlung = "zahlung" // payment/bill
	ReminderAufgabe = "aufgabe" // task
)

// Reminder statuses.
const (
	StatusOffen    = "offen"
	StatusErledigt = "erledigt"
)

// Recurrence rules persisted on a reminder. Recurrence is expanded into
// independent rows at creation time; the rule string on each row is
// informational only.
const (
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
	RecurrenceYearly  = "yearly"
)

type Reminder struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Type           string    `json:"type"`
	DueDate        time.Time `json:"due_date"`
	AllDay         bool      `json:"all_day"`
	Amount         *int64    `json:"amount"` // minor currency units
	Currency       string    `json:"currency"`
	Notes          string    `json:"notes"`
	Status         string    `json:"status"`
	RecurrenceRule string    `json:"recurrence_rule,omitempty"`
	PersonID       *int64    `json:"person_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
