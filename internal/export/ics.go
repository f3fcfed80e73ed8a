package export

import (
	"fmt"
	"strings"

	ical "github.com/arran4/golang-ical"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

// TypeLabel returns the German display label for an event type.
func TypeLabel(t model.EventType) string {
	switch t {
	case model.EventDue:
		return "Zahlung"
	case model.EventReminder:
		return "Aufgabe"
	case model.EventAppointment:
		return "Termin"
	case model.EventWork:
		return "Arbeit"
	case model.EventSchool:
		return "Schule"
	case model.EventHort:
		return "Hort"
	case model.EventSchoolHoliday:
		return "Schulferien"
	}
	return string(t)
}

// FormatAmount renders minor currency units as "CHF 150.00".
func FormatAmount(minor int64, currency string) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s %s%d.%02d", currency, sign, minor/100, minor%100)
}

// ICS builds a VCALENDAR document from the given events. Every VEVENT gets
// identical DTSTART/DTEND in UTC; all-day events sit at the local-noon
// convention so the day never shifts.
type ICS struct {
	norm     *dateutil.Normalizer
	appName  string
	language string
	token    string // UID domain token, e.g. "hauskal.local"
}

func NewICS(norm *dateutil.Normalizer, appName, language, token string) *ICS {
	return &ICS{norm: norm, appName: appName, language: language, token: token}
}

func (e *ICS) Build(events []model.Event) (string, error) {
	cal := ical.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//%s//Calendar//%s", e.appName, e.language))
	cal.SetVersion("2.0")

	for _, ev := range events {
		if ev.Date == "" {
			continue
		}
		stamp := ev.Date
		if ev.Time != "" {
			stamp += "T" + ev.Time
		}
		start, err := e.norm.ParseLocalDateTime(stamp)
		if err != nil {
			return "", fmt.Errorf("event %s: parse %q: %w", ev.ID, stamp, err)
		}
		start = start.UTC()

		vevent := cal.AddEvent(fmt.Sprintf("%s@%s", ev.ID, e.token))
		vevent.SetStartAt(start)
		vevent.SetEndAt(start)
		vevent.SetSummary(ev.Title)
		if desc := e.description(ev); desc != "" {
			vevent.SetDescription(desc)
		}
	}

	return cal.Serialize(), nil
}

func (e *ICS) description(ev model.Event) string {
	var parts []string
	parts = append(parts, TypeLabel(ev.Type))
	if ev.Person != nil && ev.Person.Name != "" {
		parts = append(parts, ev.Person.Name)
	}
	if ev.Billing != nil {
		parts = append(parts, FormatAmount(ev.Billing.Amount, ev.Billing.Currency))
	}
	return strings.Join(parts, " / ")
}
