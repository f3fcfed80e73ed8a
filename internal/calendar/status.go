package calendar

import (
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

// Bill display tiers.
const (
	TierOverdue = "overdue"
	TierDueSoon = "dueSoon"
	TierPending = "pending"
	TierPaid    = "paid"
)

// Classifier derives display status from a due date, the current date and the
// stored status. Now is injectable so tests can pin the clock.
type Classifier struct {
	norm *dateutil.Normalizer
	now  func() time.Time
}

func NewClassifier(norm *dateutil.Normalizer, now func() time.Time) *Classifier {
	if now == nil {
		now = time.Now
	}
	return &Classifier{norm: norm, now: now}
}

// closed statuses are never overdue, whatever the date says.
func isClosedStatus(status string) bool {
	switch status {
	case model.StatusErledigt, model.InvoicePaid:
		return true
	}
	return false
}

// IsOverdue reports whether the normalized due day lies strictly before the
// normalized current day and the status is still open.
func (c *Classifier) IsOverdue(dueDate any, status string) bool {
	if isClosedStatus(status) {
		return false
	}
	due := c.norm.Normalize(dueDate)
	if due == "" {
		return false
	}
	today := c.norm.FormatLocal(c.now())
	return due < today
}

// DaysUntilDue returns the signed calendar-day count between today and the
// due date. Negative means overdue, zero due today. The difference is taken
// on the local calendar days rebuilt in UTC, never on local instants: a DST
// interval is not a multiple of 24h, and dividing it would drop a day.
func (c *Classifier) DaysUntilDue(dueDate time.Time) int {
	due := utcMidnight(dueDate.In(c.norm.Location()))
	today := utcMidnight(c.now().In(c.norm.Location()))
	return int(due.Sub(today).Hours() / 24)
}

// utcMidnight maps a local wall-clock date onto the fixed-width UTC day grid.
func utcMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// BillTier maps a due date and status onto the display tier used for bills.
func (c *Classifier) BillTier(dueDate time.Time, status string) string {
	if isClosedStatus(status) {
		return TierPaid
	}
	days := c.DaysUntilDue(dueDate)
	switch {
	case days < 0:
		return TierOverdue
	case days <= 7:
		return TierDueSoon
	default:
		return TierPending
	}
}
