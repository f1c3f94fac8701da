// Package handlers wires the HTTP surface: the Twilio WhatsApp webhook, a
// health check, and a token-guarded management API for external schedulers.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/jobtrack-dev/jobtrack/internal/commands"
	"github.com/jobtrack-dev/jobtrack/internal/parser"
	"github.com/jobtrack-dev/jobtrack/internal/store"
	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

// StatsStore is the slice of the record store the management API reads.
type StatsStore interface {
	UserStats(ctx context.Context, userID string) (store.Stats, error)
}

// ReminderRescheduler moves a user's daily reminders to a new clock time.
type ReminderRescheduler interface {
	RescheduleDaily(userID string, hour, minute int) int
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	parser    *parser.Parser
	commands  *commands.Handler
	sender    whatsapp.Sender
	stats     StatsStore
	reminders ReminderRescheduler
}

// New creates a new Handler.
func New(p *parser.Parser, c *commands.Handler, sender whatsapp.Sender, stats StatsStore, reminders ReminderRescheduler) *Handler {
	return &Handler{
		parser:    p,
		commands:  c,
		sender:    sender,
		stats:     stats,
		reminders: reminders,
	}
}

// --- helpers ---

func jsonOK(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
