package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/recurrence"
	"github.com/fruettli/hauskal/internal/store"
	ws "github.com/fruettli/hauskal/internal/websocket"
)

type ReminderHandler struct {
	reminders *store.ReminderStore
	persons   *store.PersonStore
	norm      *dateutil.Normalizer
	hub       *ws.Hub
	logger    *slog.Logger
	now       func() time.Time
}

func NewReminderHandler(rs *store.ReminderStore, ps *store.PersonStore, norm *dateutil.Normalizer, hub *ws.Hub, logger *slog.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminders: rs,
		persons:   ps,
		norm:      norm,
		hub:       hub,
		logger:    logger,
		now:       time.Now,
	}
}

type reminderRequest struct {
	Title           string `json:"title"`
	Type            string `json:"type"`
	DueDate         string `json:"due_date"` // YYYY-MM-DD or YYYY-MM-DDTHH:MM
	AllDay          bool   `json:"all_day"`
	Amount          *int64 `json:"amount"`
	Currency        string `json:"currency"`
	Notes           string `json:"notes"`
	PersonID        *int64 `json:"person_id"`
	RecurrenceRule  string `json:"recurrence_rule"`
	RecurrenceCount int    `json:"recurrence_count"`
}

func (h *ReminderHandler) parseAndValidate(w http.ResponseWriter, r *http.Request) (*reminderRequest, time.Time, bool) {
	var req reminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return nil, time.Time{}, false
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return nil, time.Time{}, false
	}

	switch req.Type {
	case model.ReminderTermin, model.ReminderZahlung, model.ReminderAufgabe:
	default:
		writeError(w, http.StatusBadRequest, "type must be termin, zahlung or aufgabe")
		return nil, time.Time{}, false
	}

	due, err := h.norm.ParseLocalDateTime(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD or YYYY-MM-DDTHH:MM")
		return nil, time.Time{}, false
	}
	if !strings.Contains(req.DueDate, "T") {
		req.AllDay = true
	}

	if req.PersonID != nil {
		person, err := h.persons.GetByID(*req.PersonID)
		if err != nil {
			h.logger.Error("check person", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to check person")
			return nil, time.Time{}, false
		}
		if person == nil {
			writeError(w, http.StatusBadRequest, "person not found")
			return nil, time.Time{}, false
		}
	}

	return &req, due, true
}

func (h *ReminderHandler) Create(w http.ResponseWriter, r *http.Request) {
	req, due, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	// Appointments in the past cannot be created.
	if req.Type == model.ReminderTermin {
		today := h.norm.FormatLocal(h.now())
		if h.norm.Normalize(due) < today {
			writeError(w, http.StatusUnprocessableEntity, "termin cannot be in the past")
			return
		}
	}

	dates := []time.Time{due}
	if req.RecurrenceRule != "" {
		rule, err := recurrence.Parse(req.RecurrenceRule)
		if err != nil {
			writeError(w, http.StatusBadRequest, "recurrence_rule must be daily, weekly, monthly or yearly")
			return
		}
		count := req.RecurrenceCount
		if count < 2 || count > recurrence.MaxCount {
			writeError(w, http.StatusBadRequest, "recurrence_count must be between 2 and 52")
			return
		}
		dates, err = recurrence.Expand(due, rule, count)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	created := make([]model.Reminder, 0, len(dates))
	for _, d := range dates {
		reminder, err := h.reminders.Create(model.Reminder{
			Title:          req.Title,
			Type:           req.Type,
			DueDate:        d,
			AllDay:         req.AllDay,
			Amount:         req.Amount,
			Currency:       req.Currency,
			Notes:          req.Notes,
			PersonID:       req.PersonID,
			RecurrenceRule: req.RecurrenceRule,
		})
		if err != nil {
			h.logger.Error("create reminder", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create reminder")
			return
		}
		created = append(created, *reminder)
	}

	h.hub.Changed(ws.EntityReminder, ws.ActionCreated, created[0].ID)
	writeJSON(w, http.StatusCreated, created)
}

func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")
	if startStr == "" || endStr == "" {
		writeError(w, http.StatusBadRequest, "start and end query parameters are required")
		return
	}

	start, err := h.norm.ParseDay(startStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, err := h.norm.ParseDay(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}

	reminders, err := h.reminders.ListByDateRange(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list reminders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list reminders")
		return
	}
	if reminders == nil {
		reminders = []model.Reminder{}
	}
	writeJSON(w, http.StatusOK, reminders)
}

func (h *ReminderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	reminder, err := h.reminders.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return
	}
	if reminder == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}
	writeJSON(w, http.StatusOK, reminder)
}

func (h *ReminderHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.reminders.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	req, due, ok := h.parseAndValidate(w, r)
	if !ok {
		return
	}

	updated, err := h.reminders.Update(id, model.Reminder{
		Title:          req.Title,
		Type:           req.Type,
		DueDate:        due,
		AllDay:         req.AllDay,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Notes:          req.Notes,
		PersonID:       req.PersonID,
		Status:         existing.Status,
		RecurrenceRule: existing.RecurrenceRule,
	})
	if err != nil {
		h.logger.Error("update reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update reminder")
		return
	}

	h.hub.Changed(ws.EntityReminder, ws.ActionUpdated, id)
	writeJSON(w, http.StatusOK, updated)
}

// Toggle flips a reminder between offen and erledigt.
func (h *ReminderHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.reminders.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	status := model.StatusErledigt
	if existing.Status == model.StatusErledigt {
		status = model.StatusOffen
	}

	updated, err := h.reminders.SetStatus(id, status)
	if err != nil {
		h.logger.Error("toggle reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to toggle reminder")
		return
	}

	h.hub.Changed(ws.EntityReminder, ws.ActionUpdated, id)
	writeJSON(w, http.StatusOK, updated)
}

func (h *ReminderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.reminders.GetByID(id)
	if err != nil {
		h.logger.Error("get reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get reminder")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "reminder not found")
		return
	}

	if err := h.reminders.Delete(id); err != nil {
		h.logger.Error("delete reminder", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete reminder")
		return
	}

	h.hub.Changed(ws.EntityReminder, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
