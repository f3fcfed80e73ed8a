package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fruettli/hauskal/internal/model"
)

type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

func (s *PersonStore) Create(name, email, phone, currency string) (*model.Person, error) {
	if currency == "" {
		currency = "CHF"
	}
	result, err := s.db.Exec(
		`INSERT INTO persons (name, email, phone, currency) VALUES (?, ?, ?, ?)`,
		name, email, phone, currency,
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PersonStore) GetByID(id int64) (*model.Person, error) {
	var p model.Person
	err := s.db.QueryRow(
		`SELECT id, name, email, phone, currency, created_at, updated_at FROM persons WHERE id = ?`, id,
	).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query person: %w", err)
	}
	return &p, nil
}

func (s *PersonStore) List(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, phone, currency, created_at, updated_at FROM persons ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var persons []model.Person
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}

func (s *PersonStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM persons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

type InvoiceStore struct {
	db *sql.DB
}

func NewInvoiceStore(db *sql.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) Create(inv model.Invoice) (*model.Invoice, error) {
	var personID sql.NullInt64
	if inv.PersonID != nil {
		personID = sql.NullInt64{Int64: *inv.PersonID, Valid: true}
	}
	if inv.Status == "" {
		inv.Status = model.InvoiceOpen
	}
	if inv.Direction == "" {
		inv.Direction = "outgoing"
	}
	if inv.Currency == "" {
		inv.Currency = "CHF"
	}

	result, err := s.db.Exec(
		`INSERT INTO invoices (person_id, title, amount, currency, due_date, status, direction)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		personID, inv.Title, inv.Amount, inv.Currency, inv.DueDate.UTC(), inv.Status, inv.Direction,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invoice: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvoiceStore) GetByID(id int64) (*model.Invoice, error) {
	row := s.db.QueryRow(
		`SELECT id, person_id, title, amount, currency, due_date, status, direction, created_at, updated_at
		 FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query invoice: %w", err)
	}
	return inv, nil
}

func (s *InvoiceStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, person_id, title, amount, currency, due_date, status, direction, created_at, updated_at
		 FROM invoices
		 WHERE due_date >= ? AND due_date < ?
		 ORDER BY due_date ASC`,
		start.UTC(), end.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (s *InvoiceStore) ListByPerson(personID int64) ([]model.Invoice, error) {
	rows, err := s.db.Query(
		`SELECT id, person_id, title, amount, currency, due_date, status, direction, created_at, updated_at
		 FROM invoices WHERE person_id = ? ORDER BY due_date DESC`, personID)
	if err != nil {
		return nil, fmt.Errorf("query invoices by person: %w", err)
	}
	defer rows.Close()

	var invoices []model.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (s *InvoiceStore) SetStatus(id int64, status string) (*model.Invoice, error) {
	_, err := s.db.Exec(
		`UPDATE invoices SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}
	return s.GetByID(id)
}

func (s *InvoiceStore) Delete(id int64) error {
	_, err := s.db.Exec("DELETE FROM invoices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func scanInvoice(row rowScanner) (*model.Invoice, error) {
	var inv model.Invoice
	var personID sql.NullInt64
	err := row.Scan(&inv.ID, &personID, &inv.Title, &inv.Amount, &inv.Currency,
		&inv.DueDate, &inv.Status, &inv.Direction, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if personID.Valid {
		inv.PersonID = &personID.Int64
	}
	return &inv, nil
}
