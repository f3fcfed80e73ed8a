package calendar

import (
	"sort"
	"strings"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

// MonthStats is the per-month summary attached to the month payload.
type MonthStats struct {
	Total        int `json:"total"`
	Overdue      int `json:"overdue"`
	Due          int `json:"due"`
	Reminders    int `json:"reminders"`
	Appointments int `json:"appointments"`
}

// StatsForMonth counts the primary events falling inside the given month
// (YYYY-MM prefix of the normalized date).
func StatsForMonth(events []model.Event, month string) MonthStats {
	var stats MonthStats
	for _, ev := range events {
		if !strings.HasPrefix(ev.Date, month+"-") {
			continue
		}
		stats.Total++
		if ev.IsOverdue {
			stats.Overdue++
		}
		switch ev.Type {
		case model.EventDue:
			stats.Due++
		case model.EventReminder:
			stats.Reminders++
		case model.EventAppointment:
			stats.Appointments++
		}
	}
	return stats
}

// Filter narrows events by type and a case-insensitive title substring.
// Empty arguments are no-ops.
func Filter(events []model.Event, typ model.EventType, query string) []model.Event {
	if typ == "" && query == "" {
		return events
	}
	query = strings.ToLower(query)
	var out []model.Event
	for _, ev := range events {
		if typ != "" && ev.Type != typ {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(ev.Title), query) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// Upcoming returns the still-open events due within the next seven days,
// today included, ordered by date then time.
func Upcoming(events []model.Event, norm *dateutil.Normalizer, now time.Time) []model.Event {
	today := norm.FormatLocal(now)
	horizon := norm.FormatLocal(now.AddDate(0, 0, 7))

	var out []model.Event
	for _, ev := range events {
		if ev.Date == "" || ev.Date < today || ev.Date > horizon {
			continue
		}
		if isClosedStatus(ev.Status) {
			continue
		}
		switch ev.Type {
		case model.EventDue, model.EventReminder, model.EventAppointment:
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out
}
