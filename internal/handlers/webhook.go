package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/getsentry/sentry-go"

	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

const greetingText = "Hello! Send me job application updates like:\n" +
	"• Amazon (15 Aug) - Applied\n" +
	"• Google - Not Applied\n" +
	"Or commands like: Show Applied, Latest Status"

const unparseableText = "I couldn't understand that format. Try:\n" +
	"• Company Name (Date) - Status\n" +
	"• Amazon (15 Aug) - Applied\n" +
	"• Or use commands like 'Show Applied'"

const somethingWrongText = "Sorry, something went wrong. Please try again later."

// Webhook handles incoming WhatsApp messages from Twilio.
// POST /webhook
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	// Twilio shows the user nothing on a bare 500, so even a panic gets a
	// friendly TwiML reply.
	defer func() {
		if rec := recover(); rec != nil {
			if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
				hub.Recover(rec)
			}
			slog.Error("panic processing webhook", "panic", rec)
			whatsapp.Reply(w, somethingWrongText)
		}
	}()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	from := r.FormValue("From")
	body := strings.TrimSpace(r.FormValue("Body"))
	slog.Info("received message", "from", from, "body", body)

	if body == "" {
		whatsapp.Reply(w, greetingText)
		return
	}

	// The user is identified by the bare phone number.
	userID := strings.TrimPrefix(from, "whatsapp:")

	var reply string
	if h.parser.IsCommand(body) {
		reply = h.commands.Handle(r.Context(), body, userID)
	} else if job, ok := h.parser.ParseJobUpdate(body); ok {
		reply = h.commands.HandleJobUpdate(r.Context(), job, userID)
	} else {
		reply = unparseableText
	}

	slog.Info("sending reply", "to", from)
	whatsapp.Reply(w, reply)
}
