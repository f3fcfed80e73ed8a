package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fruettli/hauskal/internal/calendar"
	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	ws "github.com/fruettli/hauskal/internal/websocket"
)

// fetchTimeout bounds one aggregation round trip.
const fetchTimeout = 20 * time.Second

type CalendarHandler struct {
	agg         *calendar.Aggregator
	grid        *calendar.GridBuilder
	rescheduler *calendar.Rescheduler
	norm        *dateutil.Normalizer
	hub         *ws.Hub
	logger      *slog.Logger
	now         func() time.Time
}

func NewCalendarHandler(agg *calendar.Aggregator, grid *calendar.GridBuilder, rescheduler *calendar.Rescheduler, norm *dateutil.Normalizer, hub *ws.Hub, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{
		agg:         agg,
		grid:        grid,
		rescheduler: rescheduler,
		norm:        norm,
		hub:         hub,
		logger:      logger,
		now:         time.Now,
	}
}

// monthAnchor resolves the ?month=YYYY-MM query parameter, defaulting to the
// current month.
func (h *CalendarHandler) monthAnchor(r *http.Request) (time.Time, string, error) {
	monthStr := r.URL.Query().Get("month")
	if monthStr == "" {
		now := h.now().In(h.norm.Location())
		return now, now.Format("2006-01"), nil
	}
	anchor, err := time.ParseInLocation("2006-01", monthStr, h.norm.Location())
	if err != nil {
		return time.Time{}, "", err
	}
	return anchor, monthStr, nil
}

func (h *CalendarHandler) fetch(r *http.Request, anchor time.Time) (*calendar.Bundle, error) {
	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	return h.agg.FetchEvents(ctx, anchor)
}

func (h *CalendarHandler) writeFetchError(w http.ResponseWriter, err error) {
	if errors.Is(err, context.DeadlineExceeded) {
		writeError(w, http.StatusGatewayTimeout, "calendar sources timed out")
		return
	}
	h.logger.Error("aggregate calendar", "error", err)
	writeError(w, http.StatusInternalServerError, "failed to load calendar")
}

// Events returns the aggregated window around the requested month plus the
// month's stats.
func (h *CalendarHandler) Events(w http.ResponseWriter, r *http.Request) {
	anchor, month, err := h.monthAnchor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	bundle, err := h.fetch(r, anchor)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events":           bundle.Events,
		"vacations":        bundle.Vacations,
		"school_schedules": bundle.SchoolSchedules,
		"school_holidays":  bundle.SchoolHolidays,
		"stats":            calendar.StatsForMonth(bundle.Events, month),
	})
}

// Grid returns the 42-cell month grid, optionally filtered by event type and
// title search.
func (h *CalendarHandler) Grid(w http.ResponseWriter, r *http.Request) {
	anchor, _, err := h.monthAnchor(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "month must be YYYY-MM")
		return
	}

	bundle, err := h.fetch(r, anchor)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	typ := model.EventType(r.URL.Query().Get("type"))
	query := r.URL.Query().Get("q")
	bundle.Events = calendar.Filter(bundle.Events, typ, query)

	writeJSON(w, http.StatusOK, map[string]any{
		"cells": h.grid.Build(anchor, bundle),
	})
}

// Upcoming returns the open events of the next seven days.
func (h *CalendarHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	bundle, err := h.fetch(r, now)
	if err != nil {
		h.writeFetchError(w, err)
		return
	}

	upcoming := calendar.Upcoming(bundle.Events, h.norm, now)
	if upcoming == nil {
		upcoming = []model.Event{}
	}
	writeJSON(w, http.StatusOK, upcoming)
}

type rescheduleRequest struct {
	EventID string `json:"event_id"`
	Date    string `json:"date"` // YYYY-MM-DD
}

// Reschedule moves an appointment to a new day.
func (h *CalendarHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.EventID == "" || req.Date == "" {
		writeError(w, http.StatusBadRequest, "event_id and date are required")
		return
	}

	moved, err := h.rescheduler.Move(req.EventID, req.Date)
	switch {
	case errors.Is(err, calendar.ErrUnresolvable):
		writeError(w, http.StatusNotFound, "event not found")
		return
	case errors.Is(err, calendar.ErrNotDraggable):
		writeError(w, http.StatusUnprocessableEntity, "only appointments can be rescheduled")
		return
	case err != nil:
		h.logger.Error("reschedule", "event_id", req.EventID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to reschedule")
		return
	}

	h.hub.Changed(ws.EntityReminder, ws.ActionRescheduled, moved.ID)
	writeJSON(w, http.StatusOK, moved)
}
