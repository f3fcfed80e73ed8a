package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/store"
	ws "github.com/fruettli/hauskal/internal/websocket"
)

// ScheduleHandler covers the calendar's read-mostly inputs: vacations, work
// schedules, school schedules and school holidays.
type ScheduleHandler struct {
	vacations *store.VacationStore
	work      *store.WorkScheduleStore
	school    *store.SchoolScheduleStore
	holidays  *store.SchoolHolidayStore
	norm      *dateutil.Normalizer
	hub       *ws.Hub
	logger    *slog.Logger
}

func NewScheduleHandler(vs *store.VacationStore, wss *store.WorkScheduleStore, ss *store.SchoolScheduleStore, hs *store.SchoolHolidayStore, norm *dateutil.Normalizer, hub *ws.Hub, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		vacations: vs,
		work:      wss,
		school:    ss,
		holidays:  hs,
		norm:      norm,
		hub:       hub,
		logger:    logger,
	}
}

type vacationRequest struct {
	Title      string `json:"title"`
	PersonName string `json:"person_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Notes      string `json:"notes"`
}

func (h *ScheduleHandler) CreateVacation(w http.ResponseWriter, r *http.Request) {
	var req vacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	start, err := h.norm.ParseDay(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := h.norm.ParseDay(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	vacation, err := h.vacations.Create(model.Vacation{
		Title:      strings.TrimSpace(req.Title),
		PersonName: req.PersonName,
		StartDate:  start,
		EndDate:    end,
		Notes:      req.Notes,
	})
	if err != nil {
		h.logger.Error("create vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create vacation")
		return
	}

	h.hub.Changed(ws.EntityVacation, ws.ActionCreated, vacation.ID)
	writeJSON(w, http.StatusCreated, vacation)
}

func (h *ScheduleHandler) DeleteVacation(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.vacations.GetByID(id)
	if err != nil {
		h.logger.Error("get vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get vacation")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "vacation not found")
		return
	}

	if err := h.vacations.Delete(id); err != nil {
		h.logger.Error("delete vacation", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete vacation")
		return
	}

	h.hub.Changed(ws.EntityVacation, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

type workScheduleRequest struct {
	PersonName string `json:"person_name"`
	Date       string `json:"date"`
	WorkType   string `json:"work_type"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

func (h *ScheduleHandler) CreateWorkSchedule(w http.ResponseWriter, r *http.Request) {
	var req workScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.PersonName) == "" {
		writeError(w, http.StatusBadRequest, "person_name is required")
		return
	}

	date, err := h.norm.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	switch req.WorkType {
	case "", model.WorkFull, model.WorkMorning, model.WorkAfternoon:
	default:
		writeError(w, http.StatusBadRequest, "work_type must be full, morning or afternoon")
		return
	}

	schedule, err := h.work.Create(model.WorkSchedule{
		PersonName: strings.TrimSpace(req.PersonName),
		Date:       date,
		WorkType:   req.WorkType,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
	})
	if err != nil {
		h.logger.Error("create work schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create work schedule")
		return
	}

	h.hub.Changed(ws.EntityWorkSchedule, ws.ActionCreated, schedule.ID)
	writeJSON(w, http.StatusCreated, schedule)
}

func (h *ScheduleHandler) DeleteWorkSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.work.GetByID(id)
	if err != nil {
		h.logger.Error("get work schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get work schedule")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "work schedule not found")
		return
	}

	if err := h.work.Delete(id); err != nil {
		h.logger.Error("delete work schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete work schedule")
		return
	}

	h.hub.Changed(ws.EntityWorkSchedule, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

type schoolScheduleRequest struct {
	ChildName  string `json:"child_name"`
	Date       string `json:"date"`
	SchoolType string `json:"school_type"`
	HortType   string `json:"hort_type"`
}

func (h *ScheduleHandler) CreateSchoolSchedule(w http.ResponseWriter, r *http.Request) {
	var req schoolScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.ChildName) == "" {
		writeError(w, http.StatusBadRequest, "child_name is required")
		return
	}

	date, err := h.norm.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	switch req.SchoolType {
	case "", "full", "morning", "afternoon", model.SchoolOff:
	default:
		writeError(w, http.StatusBadRequest, "school_type must be full, morning, afternoon or off")
		return
	}
	switch req.HortType {
	case "", model.HortNone, "morning", "afternoon", "full":
	default:
		writeError(w, http.StatusBadRequest, "hort_type must be none, morning, afternoon or full")
		return
	}

	schedule, err := h.school.Create(model.SchoolSchedule{
		ChildName:  strings.TrimSpace(req.ChildName),
		Date:       date,
		SchoolType: req.SchoolType,
		HortType:   req.HortType,
	})
	if err != nil {
		h.logger.Error("create school schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create school schedule")
		return
	}

	h.hub.Changed(ws.EntitySchoolSchedule, ws.ActionCreated, schedule.ID)
	writeJSON(w, http.StatusCreated, schedule)
}

func (h *ScheduleHandler) DeleteSchoolSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.school.GetByID(id)
	if err != nil {
		h.logger.Error("get school schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get school schedule")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "school schedule not found")
		return
	}

	if err := h.school.Delete(id); err != nil {
		h.logger.Error("delete school schedule", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete school schedule")
		return
	}

	h.hub.Changed(ws.EntitySchoolSchedule, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

type schoolHolidayRequest struct {
	Title     string `json:"title"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h *ScheduleHandler) CreateSchoolHoliday(w http.ResponseWriter, r *http.Request) {
	var req schoolHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	start, err := h.norm.ParseDay(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
		return
	}
	end, err := h.norm.ParseDay(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date must not be before start_date")
		return
	}

	holiday, err := h.holidays.Create(model.SchoolHoliday{
		Title:     strings.TrimSpace(req.Title),
		StartDate: start,
		EndDate:   end,
	})
	if err != nil {
		h.logger.Error("create school holiday", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create school holiday")
		return
	}

	h.hub.Changed(ws.EntitySchoolHoliday, ws.ActionCreated, holiday.ID)
	writeJSON(w, http.StatusCreated, holiday)
}

func (h *ScheduleHandler) DeleteSchoolHoliday(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.holidays.GetByID(id)
	if err != nil {
		h.logger.Error("get school holiday", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get school holiday")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "school holiday not found")
		return
	}

	if err := h.holidays.Delete(id); err != nil {
		h.logger.Error("delete school holiday", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete school holiday")
		return
	}

	h.hub.Changed(ws.EntitySchoolHoliday, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

// rangeParams reads the required start/end query parameters. end is
// exclusive, matching the store range queries.
func (h *ScheduleHandler) rangeParams(w http.ResponseWriter, r *http.Request) (start, end time.Time, ok bool) {
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
	end, err = h.norm.ParseDay(endStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	return start, end, true
}

func (h *ScheduleHandler) ListVacations(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}
	vacations, err := h.vacations.ListOverlapping(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list vacations", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list vacations")
		return
	}
	if vacations == nil {
		vacations = []model.Vacation{}
	}
	writeJSON(w, http.StatusOK, vacations)
}

func (h *ScheduleHandler) ListWorkSchedules(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}
	schedules, err := h.work.ListByDateRange(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list work schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list work schedules")
		return
	}
	if schedules == nil {
		schedules = []model.WorkSchedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (h *ScheduleHandler) ListSchoolSchedules(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}
	schedules, err := h.school.ListByDateRange(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list school schedules", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list school schedules")
		return
	}
	if schedules == nil {
		schedules = []model.SchoolSchedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

func (h *ScheduleHandler) ListSchoolHolidays(w http.ResponseWriter, r *http.Request) {
	start, end, ok := h.rangeParams(w, r)
	if !ok {
		return
	}
	holidays, err := h.holidays.ListOverlapping(r.Context(), start, end)
	if err != nil {
		h.logger.Error("list school holidays", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list school holidays")
		return
	}
	if holidays == nil {
		holidays = []model.SchoolHoliday{}
	}
	writeJSON(w, http.StatusOK, holidays)
}
