package model

// EventType tags the derived Event union.
type EventType string

const (
	EventDue           EventType = "due"
	EventReminder      EventType = "reminder"
	EventAppointment   EventType = "appointment"
	EventWork          EventType = "work"
	EventSchool        EventType = "school"
	EventHort          EventType = "hort"
	EventSchoolHoliday EventType = "school-holiday"
)

// BillingInfo carries the financial fields of a due event.
type BillingInfo struct {
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Status   string `json:"status"` // open | paid | postponed (invoices) or offen | erledigt (reminders)
}

// PersonRef links an event to a person.
type PersonRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SchoolInfo carries the variant fields of school and hort events.
type SchoolInfo struct {
	ChildName  string `json:"child_name"`
	SchoolType string `json:"school_type,omitempty"`
	HortType   string `json:"hort_type,omitempty"`
}

// WorkInfo carries the variant fields of work events.
type WorkInfo struct {
	WorkType string `json:"work_type"`
}

// Event is the unified, display-oriented calendar entity. It is derived,
// never persisted in this shape. Date is always the normalized local
// calendar-day string; comparing two events by day is string equality on
// Date and nothing else.
type Event struct {
	ID    string    `json:"id"` // source-prefixed, e.g. "school-12"
	Type  EventType `json:"type"`
	Title string    `json:"title"`
	Date  string    `json:"date"`           // YYYY-MM-DD, local calendar day
	Time  string    `json:"time,omitempty"` // HH:MM, empty = all-day

	IsOverdue bool `json:"is_overdue"` // computed, never persisted

	// Variant fields, populated per Type.
	Billing *BillingInfo `json:"billing,omitempty"` // due
	Person  *PersonRef   `json:"person,omitempty"`  // due, work, appointment
	School  *SchoolInfo  `json:"school,omitempty"`  // school, hort
	Work    *WorkInfo    `json:"work,omitempty"`    // work

	// Status mirrors the stored status for reminder-backed events so the
	// classifier and clients need not resolve the source record.
	Status string `json:"status,omitempty"`
}
