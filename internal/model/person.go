package model

import "time"

type Person struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Invoice statuses.
const (
	InvoiceOpen      = "open"
	InvoicePaid      = "paid"
	InvoicePostponed = "postponed"
)

type Invoice struct {
	ID        int64     `json:"id"`
	PersonID  *int64    `json:"person_id"`
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"` // minor currency units
	Currency  string    `json:"currency"`
	DueDate   time.Time `json:"due_date"`
	Status    string    `json:"status"`
	Direction string    `json:"direction"` // incoming | outgoing
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
