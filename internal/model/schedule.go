package model

import "time"

type Vacation struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	PersonName string    `json:"person_name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

// Work schedule slot types.
const (
	WorkFull      = "full"
	WorkMorning   = "morning"
	WorkAfternoon = "afternoon"
)

type WorkSchedule struct {
	ID         int64     `json:"id"`
	PersonName string    `json:"person_name"`
	Date       time.Time `json:"date"`
	WorkType   string    `json:"work_type"`
	StartTime  string    `json:"start_time"` // HH:MM, empty for all-day
	EndTime    string    `json:"end_time"`
	CreatedAt  time.Time `json:"created_at"`
}

// School slot values. "off" means no school that day; hort "none" means no
// after-school care slot.
const (
	SchoolOff = "off"
	HortNone  = "none"
)

type SchoolSchedule struct {
	ID         int64     `json:"id"`
	ChildName  string    `json:"child_name"`
	Date       time.Time `json:"date"`
	SchoolType string    `json:"school_type"` // full | morning | afternoon | off
	HortType   string    `json:"hort_type"`   // none | morning | afternoon | full
	CreatedAt  time.Time `json:"created_at"`
}

type SchoolHoliday struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	CreatedAt time.Time `json:"created_at"`
}
