package calendar

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

var (
	// ErrNotDraggable means the event exists but is not an appointment.
	ErrNotDraggable = errors.New("only appointments can be rescheduled")
	// ErrUnresolvable means the event id does not resolve to a stored reminder.
	ErrUnresolvable = errors.New("event does not resolve to a reminder")
)

type ReminderMover interface {
	GetByID(id int64) (*model.Reminder, error)
	UpdateDueDate(id int64, dueDate time.Time) (*model.Reminder, error)
}

// Rescheduler applies a drag-drop move of an appointment onto a new day,
// preserving the original time of day.
type Rescheduler struct {
	reminders ReminderMover
	norm      *dateutil.Normalizer
	logger    *slog.Logger
}

func NewRescheduler(reminders ReminderMover, norm *dateutil.Normalizer, logger *slog.Logger) *Rescheduler {
	return &Rescheduler{
		reminders: reminders,
		norm:      norm,
		logger:    logger.With("component", "rescheduler"),
	}
}

// Move resolves eventID to its underlying reminder and moves it to targetDay
// (YYYY-MM-DD). Only termin reminders (shown as appointments) are movable.
// On success the caller is expected to re-aggregate; no partial state is
// patched here.
func (r *Rescheduler) Move(eventID, targetDay string) (*model.Reminder, error) {
	id, ok := reminderID(eventID)
	if !ok {
		r.logger.Warn("reschedule aborted, unresolvable event id", "event_id", eventID)
		return nil, ErrUnresolvable
	}

	reminder, err := r.reminders.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("resolve reminder %d: %w", id, err)
	}
	if reminder == nil {
		r.logger.Warn("reschedule aborted, reminder not found", "id", id)
		return nil, ErrUnresolvable
	}
	if reminder.Type != model.ReminderTermin {
		return nil, ErrNotDraggable
	}

	day, err := r.norm.ParseDay(targetDay)
	if err != nil {
		return nil, fmt.Errorf("parse target day %q: %w", targetDay, err)
	}

	// Keep the original wall-clock time on the new day. All-day stays at the
	// noon convention so the day never shifts across DST.
	loc := r.norm.Location()
	var newDue time.Time
	if reminder.AllDay {
		newDue = day.Add(12 * time.Hour)
	} else {
		orig := reminder.DueDate.In(loc)
		newDue = time.Date(day.Year(), day.Month(), day.Day(),
			orig.Hour(), orig.Minute(), 0, 0, loc)
	}

	updated, err := r.reminders.UpdateDueDate(id, newDue)
	if err != nil {
		return nil, fmt.Errorf("move reminder %d: %w", id, err)
	}
	return updated, nil
}

// reminderID strips the synthetic source prefix ("reminder-5" -> 5). Bare
// numeric ids are accepted too. Ids carrying any other source prefix do not
// resolve.
func reminderID(eventID string) (int64, bool) {
	s := eventID
	if rest, found := strings.CutPrefix(eventID, "reminder-"); found {
		s = rest
	} else if strings.Contains(eventID, "-") {
		return 0, false
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
