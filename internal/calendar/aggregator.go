package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
)

// WindowMonths is the half-width of the aggregation window around the anchor.
const WindowMonths = 6

// Sources feeding the aggregator. The stores in internal/store satisfy these.
type ReminderSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Reminder, error)
}

type InvoiceSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.Invoice, error)
}

type WorkSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.WorkSchedule, error)
}

type PersonSource interface {
	List(ctx context.Context) ([]model.Person, error)
}

type VacationSource interface {
	ListOverlapping(ctx context.Context, start, end time.Time) ([]model.Vacation, error)
}

type SchoolSource interface {
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.SchoolSchedule, error)
}

type HolidaySource interface {
	ListOverlapping(ctx context.Context, start, end time.Time) ([]model.SchoolHoliday, error)
}

// Bundle is one aggregation result: everything the grid builder needs for a
// window around the anchor month.
type Bundle struct {
	Events          []model.Event          `json:"events"`
	Vacations       []model.Vacation       `json:"vacations"`
	SchoolSchedules []model.SchoolSchedule `json:"school_schedules"`
	SchoolHolidays  []model.SchoolHoliday  `json:"school_holidays"`
}

// Aggregator merges reminders, invoices and work schedules into unified
// events, alongside vacations and school data, for a ±6-month window.
type Aggregator struct {
	reminders  ReminderSource
	invoices   InvoiceSource
	work       WorkSource
	persons    PersonSource
	vacations  VacationSource
	school     SchoolSource
	holidays   HolidaySource
	norm       *dateutil.Normalizer
	classifier *Classifier
	logger     *slog.Logger
}

func NewAggregator(
	reminders ReminderSource,
	invoices InvoiceSource,
	work WorkSource,
	persons PersonSource,
	vacations VacationSource,
	school SchoolSource,
	holidays HolidaySource,
	norm *dateutil.Normalizer,
	classifier *Classifier,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		reminders:  reminders,
		invoices:   invoices,
		work:       work,
		persons:    persons,
		vacations:  vacations,
		school:     school,
		holidays:   holidays,
		norm:       norm,
		classifier: classifier,
		logger:     logger.With("component", "aggregator"),
	}
}

// Window returns the fetch window around the anchor month: the first day of
// the month six months back, up to (exclusive) the first day of the month
// seven months ahead.
func (a *Aggregator) Window(anchor time.Time) (time.Time, time.Time) {
	loc := a.norm.Location()
	anchor = anchor.In(loc)
	start := time.Date(anchor.Year(), anchor.Month()-WindowMonths, 1, 0, 0, 0, 0, loc)
	end := time.Date(anchor.Year(), anchor.Month()+WindowMonths+1, 1, 0, 0, 0, 0, loc)
	return start, end
}

// FetchEvents gathers all sources for the window around anchor. The four
// source groups are fetched concurrently. School schedules and school
// holidays are non-critical: their failure degrades to an empty list.
// Reminder, invoice, work and vacation failures abort the aggregation.
func (a *Aggregator) FetchEvents(ctx context.Context, anchor time.Time) (*Bundle, error) {
	start, end := a.Window(anchor)

	var (
		events    []model.Event
		vacations []model.Vacation
		schedules []model.SchoolSchedule
		holidays  []model.SchoolHoliday
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		events, err = a.fetchPrimary(ctx, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		vacations, err = a.vacations.ListOverlapping(ctx, start, end)
		if err != nil {
			return fmt.Errorf("fetch vacations: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		schedules, err = a.school.ListByDateRange(ctx, start, end)
		if err != nil {
			a.logger.Warn("school schedule fetch failed, continuing without", "error", err)
			schedules = nil
		}
		return nil
	})
	g.Go(func() error {
		var err error
		holidays, err = a.holidays.ListOverlapping(ctx, start, end)
		if err != nil {
			a.logger.Warn("school holiday fetch failed, continuing without", "error", err)
			holidays = nil
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Bundle{
		Events:          events,
		Vacations:       vacations,
		SchoolSchedules: schedules,
		SchoolHolidays:  holidays,
	}, nil
}

// fetchPrimary loads reminders, invoices and work schedules and converts each
// row into the unified event shape. Every date crosses the normalizer here;
// raw timestamps never reach the grid builder.
func (a *Aggregator) fetchPrimary(ctx context.Context, start, end time.Time) ([]model.Event, error) {
	reminders, err := a.reminders.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch reminders: %w", err)
	}
	invoices, err := a.invoices.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch invoices: %w", err)
	}
	work, err := a.work.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch work schedules: %w", err)
	}
	personNames, err := a.personNames(ctx)
	if err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(reminders)+len(invoices)+len(work))
	for _, r := range reminders {
		events = append(events, a.reminderEvent(r, personNames))
	}
	for _, inv := range invoices {
		events = append(events, a.invoiceEvent(inv, personNames))
	}
	for _, w := range work {
		events = append(events, a.workEvent(w))
	}
	return events, nil
}

func (a *Aggregator) personNames(ctx context.Context) (map[int64]string, error) {
	persons, err := a.persons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch persons: %w", err)
	}
	names := make(map[int64]string, len(persons))
	for _, p := range persons {
		names[p.ID] = p.Name
	}
	return names, nil
}

// reminderEvent maps the stored reminder type onto the event union: termin
// becomes an appointment, zahlung a due (bill) event, aufgabe a reminder.
func (a *Aggregator) reminderEvent(r model.Reminder, names map[int64]string) model.Event {
	ev := model.Event{
		ID:     fmt.Sprintf("reminder-%d", r.ID),
		Title:  r.Title,
		Date:   a.norm.Normalize(r.DueDate),
		Status: r.Status,
	}

	switch r.Type {
	case model.ReminderTermin:
		ev.Type = model.EventAppointment
	case model.ReminderZahlung:
		ev.Type = model.EventDue
	default:
		ev.Type = model.EventReminder
	}

	if !r.AllDay {
		ev.Time = a.norm.FormatClock(r.DueDate)
	}
	if r.Amount != nil {
		ev.Billing = &model.BillingInfo{
			Amount:   *r.Amount,
			Currency: r.Currency,
			Status:   r.Status,
		}
	}
	if r.PersonID != nil {
		ev.Person = &model.PersonRef{ID: *r.PersonID, Name: names[*r.PersonID]}
	}
	ev.IsOverdue = a.classifier.IsOverdue(r.DueDate, r.Status)
	return ev
}

func (a *Aggregator) invoiceEvent(inv model.Invoice, names map[int64]string) model.Event {
	ev := model.Event{
		ID:    fmt.Sprintf("invoice-%d", inv.ID),
		Type:  model.EventDue,
		Title: inv.Title,
		Date:  a.norm.Normalize(inv.DueDate),
		Billing: &model.BillingInfo{
			Amount:   inv.Amount,
			Currency: inv.Currency,
			Status:   inv.Status,
		},
		Status: inv.Status,
	}
	if inv.PersonID != nil {
		ev.Person = &model.PersonRef{ID: *inv.PersonID, Name: names[*inv.PersonID]}
	}
	ev.IsOverdue = a.classifier.IsOverdue(inv.DueDate, inv.Status)
	return ev
}

func (a *Aggregator) workEvent(w model.WorkSchedule) model.Event {
	return model.Event{
		ID:    fmt.Sprintf("work-%d", w.ID),
		Type:  model.EventWork,
		Title: w.PersonName,
		Date:  a.norm.Normalize(w.Date),
		Time:  w.StartTime,
		Work:  &model.WorkInfo{WorkType: w.WorkType},
	}
}

// SchoolDayEvents synthesizes the per-day school, hort and holiday
// pseudo-events for a normalized day string. A schedule row contributes a
// school event unless its slot is "off", plus a hort event when a hort slot
// is set. Holidays covering the day contribute one event each, deduplicated
// by title.
func SchoolDayEvents(b *Bundle, norm *dateutil.Normalizer, day string) []model.Event {
	if day == "" {
		return nil
	}

	var events []model.Event
	for _, s := range b.SchoolSchedules {
		if norm.Normalize(s.Date) != day {
			continue
		}
		if s.SchoolType != model.SchoolOff {
			events = append(events, model.Event{
				ID:     fmt.Sprintf("school-%d", s.ID),
				Type:   model.EventSchool,
				Title:  s.ChildName,
				Date:   day,
				School: &model.SchoolInfo{ChildName: s.ChildName, SchoolType: s.SchoolType},
			})
		}
		if s.HortType != model.HortNone {
			events = append(events, model.Event{
				ID:     fmt.Sprintf("hort-%d", s.ID),
				Type:   model.EventHort,
				Title:  s.ChildName,
				Date:   day,
				School: &model.SchoolInfo{ChildName: s.ChildName, HortType: s.HortType},
			})
		}
	}

	seen := make(map[string]bool)
	for _, h := range b.SchoolHolidays {
		startDay := norm.Normalize(h.StartDate)
		endDay := norm.Normalize(h.EndDate)
		if startDay == "" || endDay == "" {
			continue
		}
		if day < startDay || day > endDay {
			continue
		}
		if seen[h.Title] {
			continue
		}
		seen[h.Title] = true
		events = append(events, model.Event{
			ID:    fmt.Sprintf("holiday-%d", h.ID),
			Type:  model.EventSchoolHoliday,
			Title: h.Title,
			Date:  day,
		})
	}
	return events
}
