package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fruettli/hauskal/internal/calendar"
	"github.com/fruettli/hauskal/internal/config"
	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/export"
	"github.com/fruettli/hauskal/internal/handler"
	"github.com/fruettli/hauskal/internal/middleware"
	"github.com/fruettli/hauskal/internal/notify"
	"github.com/fruettli/hauskal/internal/store"
	ws "github.com/fruettli/hauskal/internal/websocket"
)

type Server struct {
	db        *sql.DB
	hub       *ws.Hub
	reminderH *handler.ReminderHandler
	calendarH *handler.CalendarHandler
	exportH   *handler.ExportHandler
	personH   *handler.PersonHandler
	scheduleH *handler.ScheduleHandler
	settingsH *handler.SettingsHandler
	pushH     *handler.PushHandler
	scheduler *notify.Scheduler
	logger    *slog.Logger
}

func New(db *sql.DB, cfg *config.Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))
	norm := dateutil.New(cfg.Location())

	reminderStore := store.NewReminderStore(db)
	invoiceStore := store.NewInvoiceStore(db)
	personStore := store.NewPersonStore(db)
	vacationStore := store.NewVacationStore(db)
	workStore := store.NewWorkScheduleStore(db)
	schoolStore := store.NewSchoolScheduleStore(db)
	holidayStore := store.NewSchoolHolidayStore(db)
	pushStore := store.NewPushStore(db)
	settingsStore := store.NewSettingsStore(db)

	classifier := calendar.NewClassifier(norm, nil)
	agg := calendar.NewAggregator(
		reminderStore, invoiceStore, workStore, personStore,
		vacationStore, schoolStore, holidayStore,
		norm, classifier, logger)
	grid := calendar.NewGridBuilder(norm, nil)
	rescheduler := calendar.NewRescheduler(reminderStore, norm, logger)

	uidToken := strings.ToLower(cfg.Export.AppToken) + ".local"
	ics := export.NewICS(norm, cfg.Export.AppToken, cfg.Export.Language, uidToken)
	printable := export.NewPrintable(norm, cfg.Export.AppToken)

	// Push delivery only runs with VAPID keys configured.
	var pushSvc *notify.Service
	var scheduler *notify.Scheduler
	var pushH *handler.PushHandler
	if cfg.Notify.VAPIDPublicKey != "" && cfg.Notify.VAPIDPrivateKey != "" {
		pushSvc = notify.NewService(cfg.Notify.VAPIDPublicKey, cfg.Notify.VAPIDPrivateKey, cfg.Notify.Subscriber)
		scheduler = notify.NewScheduler(pushSvc, pushStore, reminderStore, norm, logger)
		pushH = handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push"))
	}

	return &Server{
		db:        db,
		hub:       hub,
		reminderH: handler.NewReminderHandler(reminderStore, personStore, norm, hub, logger.With("component", "reminder")),
		calendarH: handler.NewCalendarHandler(agg, grid, rescheduler, norm, hub, logger.With("component", "calendar")),
		exportH:   handler.NewExportHandler(agg, ics, printable, norm, logger.With("component", "export")),
		personH:   handler.NewPersonHandler(personStore, invoiceStore, norm, hub, logger.With("component", "person")),
		scheduleH: handler.NewScheduleHandler(vacationStore, workStore, schoolStore, holidayStore, norm, hub, logger.With("component", "schedule")),
		settingsH: handler.NewSettingsHandler(settingsStore, logger.With("component", "settings")),
		pushH:     pushH,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Scheduler returns the daily notification scheduler, nil when push is not
// configured.
func (s *Server) Scheduler() *notify.Scheduler {
	return s.scheduler
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Reminders
	mux.HandleFunc("POST /api/reminders", s.reminderH.Create)
	mux.HandleFunc("GET /api/reminders", s.reminderH.List)
	mux.HandleFunc("GET /api/reminders/{id}", s.reminderH.Get)
	mux.HandleFunc("PUT /api/reminders/{id}", s.reminderH.Update)
	mux.HandleFunc("DELETE /api/reminders/{id}", s.reminderH.Delete)
	mux.HandleFunc("POST /api/reminders/{id}/toggle", s.reminderH.Toggle)

	// Calendar
	mux.HandleFunc("GET /api/calendar/events", s.calendarH.Events)
	mux.HandleFunc("GET /api/calendar/grid", s.calendarH.Grid)
	mux.HandleFunc("GET /api/calendar/upcoming", s.calendarH.Upcoming)
	mux.HandleFunc("POST /api/calendar/reschedule", s.calendarH.Reschedule)
	mux.HandleFunc("GET /api/calendar/export.ics", s.exportH.ICS)
	mux.HandleFunc("GET /api/calendar/print", s.exportH.Print)

	// Persons and invoices
	mux.HandleFunc("GET /api/persons", s.personH.List)
	mux.HandleFunc("POST /api/persons", s.personH.Create)
	mux.HandleFunc("DELETE /api/persons/{id}", s.personH.Delete)
	mux.HandleFunc("GET /api/persons/{id}/invoices", s.personH.ListInvoices)
	mux.HandleFunc("POST /api/invoices", s.personH.CreateInvoice)
	mux.HandleFunc("POST /api/invoices/{id}/status", s.personH.SetInvoiceStatus)
	mux.HandleFunc("DELETE /api/invoices/{id}", s.personH.DeleteInvoice)

	// Schedules
	mux.HandleFunc("GET /api/vacations", s.scheduleH.ListVacations)
	mux.HandleFunc("POST /api/vacations", s.scheduleH.CreateVacation)
	mux.HandleFunc("DELETE /api/vacations/{id}", s.scheduleH.DeleteVacation)
	mux.HandleFunc("GET /api/work-schedules", s.scheduleH.ListWorkSchedules)
	mux.HandleFunc("POST /api/work-schedules", s.scheduleH.CreateWorkSchedule)
	mux.HandleFunc("DELETE /api/work-schedules/{id}", s.scheduleH.DeleteWorkSchedule)
	mux.HandleFunc("GET /api/school/schedules", s.scheduleH.ListSchoolSchedules)
	mux.HandleFunc("POST /api/school/schedules", s.scheduleH.CreateSchoolSchedule)
	mux.HandleFunc("DELETE /api/school/schedules/{id}", s.scheduleH.DeleteSchoolSchedule)
	mux.HandleFunc("GET /api/school/holidays", s.scheduleH.ListSchoolHolidays)
	mux.HandleFunc("POST /api/school/holidays", s.scheduleH.CreateSchoolHoliday)
	mux.HandleFunc("DELETE /api/school/holidays/{id}", s.scheduleH.DeleteSchoolHoliday)

	// Settings
	mux.HandleFunc("GET /api/settings", s.settingsH.List)
	mux.HandleFunc("PUT /api/settings", s.settingsH.Set)

	// Push notifications
	if s.pushH != nil {
		mux.HandleFunc("GET /api/push/vapid-key", s.pushH.VAPIDKey)
		mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
		mux.HandleFunc("POST /api/push/unsubscribe", s.pushH.Unsubscribe)
		mux.HandleFunc("POST /api/push/test", s.pushH.Test)
	}

	// WebSocket
	mux.HandleFunc("GET /ws", ws.Handle(s.hub))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
