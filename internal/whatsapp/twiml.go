package whatsapp

import (
	"io"
	"net/http"
	"strings"
)

var xmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// RenderTwiML builds the TwiML document instructing Twilio to reply to an
// inbound message with body.
func RenderTwiML(body string) string {
	return `<?xml version="1.0" encoding="UTF-8"?><Response><Message>` +
		xmlEscaper.Replace(body) + `</Message></Response>`
}

// Reply writes body as a TwiML message response.
func Reply(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "text/xml")
	io.WriteString(w, RenderTwiML(body))
}
