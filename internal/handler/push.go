package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fruettli/hauskal/internal/model"
	"github.com/fruettli/hauskal/internal/notify"
	"github.com/fruettli/hauskal/internal/store"
)

type PushHandler struct {
	push    *store.PushStore
	service *notify.Service
	logger  *slog.Logger
}

func NewPushHandler(push *store.PushStore, service *notify.Service, logger *slog.Logger) *PushHandler {
	return &PushHandler{push: push, service: service, logger: logger}
}

// VAPIDKey exposes the public key the browser needs to subscribe.
func (h *PushHandler) VAPIDKey(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"key": h.service.VAPIDPublicKey()})
}

type subscribeRequest struct {
	Endpoint   string `json:"endpoint"`
	Keys       keys   `json:"keys"`
	DeviceName string `json:"device_name"`
}

type keys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

func (h *PushHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" || req.Keys.P256dh == "" || req.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "endpoint and keys are required")
		return
	}

	sub, err := h.push.Save(model.PushSubscription{
		Endpoint:   req.Endpoint,
		P256dhKey:  req.Keys.P256dh,
		AuthKey:    req.Keys.Auth,
		DeviceName: req.DeviceName,
	})
	if err != nil {
		h.logger.Error("save subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

type unsubscribeRequest struct {
	Endpoint string `json:"endpoint"`
}

func (h *PushHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if req.Endpoint == "" {
		writeError(w, http.StatusBadRequest, "endpoint is required")
		return
	}

	if err := h.push.DeleteByEndpoint(req.Endpoint); err != nil {
		h.logger.Error("delete subscription", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete subscription")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Test sends a test notification to every subscription.
func (h *PushHandler) Test(w http.ResponseWriter, r *http.Request) {
	subs, err := h.push.List()
	if err != nil {
		h.logger.Error("list subscriptions", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list subscriptions")
		return
	}

	payload := notify.Payload{
		Title: "Hauskal",
		Body:  "Testbenachrichtigung",
		Tag:   "test",
	}
	sent := 0
	for i := range subs {
		if err := h.service.Send(&subs[i], payload); err != nil {
			h.logger.Warn("send test push", "endpoint", subs[i].Endpoint, "error", err)
			continue
		}
		sent++
	}
	writeJSON(w, http.StatusOK, map[string]int{"sent": sent})
}
