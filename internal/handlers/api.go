package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

// Stats returns a user's application statistics.
// GET /api/stats?user_id=...
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		jsonError(w, "user_id parameter required", http.StatusBadRequest)
		return
	}

	stats, err := h.stats.UserStats(r.Context(), userID)
	if err != nil {
		slog.Error("failed to load stats", "user", userID, "error", err)
		jsonError(w, "failed to load stats", http.StatusInternalServerError)
		return
	}
	jsonOK(w, http.StatusOK, stats)
}

type sendReminderReq struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// SendReminder sends a WhatsApp message to a user on behalf of an external
// scheduler.
// POST /api/reminders/send
func (h *Handler) SendReminder(w http.ResponseWriter, r *http.Request) {
	var req sendReminderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" || req.Message == "" {
		jsonError(w, "user_id and message are required", http.StatusBadRequest)
		return
	}

	msg := whatsapp.OutboundMessage{
		ID:   uuid.New().String(),
		To:   req.UserID,
		Body: req.Message,
	}
	if err := h.sender.Send(r.Context(), msg); err != nil {
		slog.Error("failed to send reminder", "user", req.UserID, "error", err)
		jsonError(w, "failed to send message", http.StatusInternalServerError)
		return
	}

	slog.Info("reminder sent", "user", req.UserID)
	jsonOK(w, http.StatusOK, map[string]string{"status": "sent"})
}

type rescheduleReq struct {
	UserID string `json:"user_id"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
}

type rescheduleResp struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// RescheduleReminders moves a user's existing daily reminders to a new
// clock time.
// POST /api/reminders/reschedule
func (h *Handler) RescheduleReminders(w http.ResponseWriter, r *http.Request) {
	var req rescheduleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		jsonError(w, "user_id is required", http.StatusBadRequest)
		return
	}
	if req.Hour < 0 || req.Hour > 23 || req.Minute < 0 || req.Minute > 59 {
		jsonError(w, "hour must be 0-23 and minute 0-59", http.StatusBadRequest)
		return
	}

	count := h.reminders.RescheduleDaily(req.UserID, req.Hour, req.Minute)
	jsonOK(w, http.StatusOK, rescheduleResp{Status: "rescheduled", Count: count})
}
