package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/fruettli/hauskal/internal/calendar"
	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/export"
	"github.com/fruettli/hauskal/internal/model"
)

var germanMonths = [...]string{
	"Januar", "Februar", "März", "April", "Mai", "Juni",
	"Juli", "August", "September", "Oktober", "November", "Dezember",
}

type ExportHandler struct {
	agg    *calendar.Aggregator
	ics    *export.ICS
	print  *export.Printable
	norm   *dateutil.Normalizer
	logger *slog.Logger
	now    func() time.Time
}

func NewExportHandler(agg *calendar.Aggregator, ics *export.ICS, print *export.Printable, norm *dateutil.Normalizer, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		agg:    agg,
		ics:    ics,
		print:  print,
		norm:   norm,
		logger: logger,
		now:    time.Now,
	}
}

// monthEvents aggregates and narrows to the requested month, applying the
// optional type filter.
func (h *ExportHandler) monthEvents(r *http.Request) ([]model.Event, time.Time, error) {
	monthStr := r.URL.Query().Get("month")
	anchor := h.now().In(h.norm.Location())
	if monthStr != "" {
		var err error
		anchor, err = time.ParseInLocation("2006-01", monthStr, h.norm.Location())
		if err != nil {
			return nil, time.Time{}, fmt.Errorf("month must be YYYY-MM: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), fetchTimeout)
	defer cancel()
	bundle, err := h.agg.FetchEvents(ctx, anchor)
	if err != nil {
		return nil, time.Time{}, err
	}

	month := anchor.Format("2006-01")
	var events []model.Event
	for _, ev := range bundle.Events {
		if len(ev.Date) >= 7 && ev.Date[:7] == month {
			events = append(events, ev)
		}
	}
	events = calendar.Filter(events, model.EventType(r.URL.Query().Get("type")), "")
	return events, anchor, nil
}

// ICS serves the month's events as an iCalendar download.
func (h *ExportHandler) ICS(w http.ResponseWriter, r *http.Request) {
	events, anchor, err := h.monthEvents(r)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "calendar sources timed out")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.ics.Build(events)
	if err != nil {
		h.logger.Error("build ics", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build export")
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=kalender-%s.ics", anchor.Format("2006-01")))
	w.Write([]byte(out))
}

// Print serves the month's events as printable HTML.
func (h *ExportHandler) Print(w http.ResponseWriter, r *http.Request) {
	events, anchor, err := h.monthEvents(r)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			writeError(w, http.StatusGatewayTimeout, "calendar sources timed out")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	heading := fmt.Sprintf("%s %d", germanMonths[anchor.Month()-1], anchor.Year())
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.print.Render(w, heading, events); err != nil {
		h.logger.Error("render print view", "error", err)
	}
}
