package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jobtrack-dev/jobtrack/internal/token"
	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

// RequireToken rejects requests without a valid bearer token.
func RequireToken(tokens *token.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				jsonError(w, "missing bearer token", http.StatusUnauthorized)
				return
			}
			if _, err := tokens.ValidateToken(strings.TrimPrefix(header, prefix)); err != nil {
				jsonError(w, "invalid token", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// VerifySignature validates X-Twilio-Signature on webhook posts against the
// externally visible URL. Disabled it passes requests through, for local
// development without a public URL.
func VerifySignature(authToken, publicURL string, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			if err := r.ParseForm(); err != nil {
				http.Error(w, "Failed to parse form", http.StatusBadRequest)
				return
			}
			requestURL := publicURL + r.URL.RequestURI()
			sig := r.Header.Get("X-Twilio-Signature")
			if !whatsapp.ValidateSignature(authToken, requestURL, r.PostForm, sig) {
				slog.Warn("rejected webhook signature", "remote", r.RemoteAddr)
				http.Error(w, "invalid signature", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
