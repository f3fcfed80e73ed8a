package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fruettli/hauskal/internal/dateutil"
	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/store"
	ws "github.com/fruettli/hauskal/internal/websocket"
)

type PersonHandler struct {
	persons  *store.PersonStore
	invoices *store.InvoiceStore
	norm     *dateutil.Normalizer
	hub      *ws.Hub
	logger   *slog.Logger
}

func NewPersonHandler(ps *store.PersonStore, is *store.InvoiceStore, norm *dateutil.Normalizer, hub *ws.Hub, logger *slog.Logger) *PersonHandler {
	return &PersonHandler{persons: ps, invoices: is, norm: norm, hub: hub, logger: logger}
}

type personRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Currency string `json:"currency"`
}

func (h *PersonHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req personRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	person, err := h.persons.Create(req.Name, req.Email, req.Phone, req.Currency)
	if err != nil {
		h.logger.Error("create person", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create person")
		return
	}

	h.hub.Changed(ws.EntityPerson, ws.ActionCreated, person.ID)
	writeJSON(w, http.StatusCreated, person)
}

func (h *PersonHandler) List(w http.ResponseWriter, r *http.Request) {
	persons, err := h.persons.List(r.Context())
	if err != nil {
		h.logger.Error("list persons", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list persons")
		return
	}
	if persons == nil {
		persons = []model.Person{}
	}
	writeJSON(w, http.StatusOK, persons)
}

func (h *PersonHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.persons.GetByID(id)
	if err != nil {
		h.logger.Error("get person", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get person")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}

	if err := h.persons.Delete(id); err != nil {
		h.logger.Error("delete person", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete person")
		return
	}

	h.hub.Changed(ws.EntityPerson, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}

type invoiceRequest struct {
	PersonID  *int64 `json:"person_id"`
	Title     string `json:"title"`
	Amount    int64  `json:"amount"` // minor currency units
	Currency  string `json:"currency"`
	DueDate   string `json:"due_date"`
	Direction string `json:"direction"`
}

func (h *PersonHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	due, err := h.norm.ParseLocalDateTime(req.DueDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "due_date must be YYYY-MM-DD")
		return
	}

	if req.PersonID != nil {
		person, err := h.persons.GetByID(*req.PersonID)
		if err != nil {
			h.logger.Error("check person", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to check person")
			return
		}
		if person == nil {
			writeError(w, http.StatusBadRequest, "person not found")
			return
		}
	}

	invoice, err := h.invoices.Create(model.Invoice{
		PersonID:  req.PersonID,
		Title:     req.Title,
		Amount:    req.Amount,
		Currency:  req.Currency,
		DueDate:   due,
		Direction: req.Direction,
	})
	if err != nil {
		h.logger.Error("create invoice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create invoice")
		return
	}

	h.hub.Changed(ws.EntityInvoice, ws.ActionCreated, invoice.ID)
	writeJSON(w, http.StatusCreated, invoice)
}

func (h *PersonHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	invoices, err := h.invoices.ListByPerson(id)
	if err != nil {
		h.logger.Error("list invoices", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list invoices")
		return
	}
	if invoices == nil {
		invoices = []model.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

type invoiceStatusRequest struct {
	Status string `json:"status"`
}

func (h *PersonHandler) SetInvoiceStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req invoiceStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	switch req.Status {
	case model.InvoiceOpen, model.InvoicePaid, model.InvoicePostponed:
	default:
		writeError(w, http.StatusBadRequest, "status must be open, paid or postponed")
		return
	}

	existing, err := h.invoices.GetByID(id)
	if err != nil {
		h.logger.Error("get invoice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get invoice")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	invoice, err := h.invoices.SetStatus(id, req.Status)
	if err != nil {
		h.logger.Error("set invoice status", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update invoice")
		return
	}

	h.hub.Changed(ws.EntityInvoice, ws.ActionUpdated, id)
	writeJSON(w, http.StatusOK, invoice)
}

func (h *PersonHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	existing, err := h.invoices.GetByID(id)
	if err != nil {
		h.logger.Error("get invoice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get invoice")
		return
	}
	if existing == nil {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}

	if err := h.invoices.Delete(id); err != nil {
		h.logger.Error("delete invoice", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete invoice")
		return
	}

	h.hub.Changed(ws.EntityInvoice, ws.ActionDeleted, id)
	w.WriteHeader(http.StatusNoContent)
}
