// Package whatsapp handles Twilio WhatsApp interactions: sending messages
// through the Messages REST API, rendering TwiML webhook replies, validating
// webhook signatures, and formatting bot replies for WhatsApp display.
package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioBaseURL = "https://api.twilio.com"

// Sender is the interface any WhatsApp backend must implement. Keeping it
// minimal means backends are swappable without touching the callers.
type Sender interface {
	Send(ctx context.Context, msg OutboundMessage) error
}

// TwilioSender sends WhatsApp messages via the Twilio Messages REST API
// using stdlib net/http only — no SDK dependency.
type TwilioSender struct {
	accountSID string
	authToken  string
	fromNumber string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioSender creates a TwilioSender ready to use.
//
// fromNumber is the Twilio WhatsApp sender address, including the channel
// prefix (e.g. "whatsapp:+14155238886").
func NewTwilioSender(accountSID, authToken, fromNumber string) *TwilioSender {
	return &TwilioSender{
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		baseURL:    twilioBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// twilioMessage captures just the response fields we care about for logging.
type twilioMessage struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorCode    *int   `json:"error_code"`
	ErrorMessage string `json:"error_message"`
}

// twilioError is the body Twilio returns with non-2xx statuses.
type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// Send dispatches msg to the Twilio API. It returns a non-nil error if the
// HTTP request fails or Twilio rejects the message; the caller decides
// whether the failure is worth retrying.
func (s *TwilioSender) Send(ctx context.Context, msg OutboundMessage) error {
	form := url.Values{}
	form.Set("To", whatsappAddr(msg.To))
	form.Set("From", s.fromNumber)
	form.Set("Body", msg.Body)

	endpoint := s.baseURL + "/2010-04-01/Accounts/" + s.accountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(s.accountSID, s.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr twilioError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio error %d: %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("twilio returned %d: %s", resp.StatusCode, string(respBody))
	}

	var message twilioMessage
	if err := json.Unmarshal(respBody, &message); err == nil && message.ErrorCode != nil {
		return fmt.Errorf("twilio error %d: %s", *message.ErrorCode, message.ErrorMessage)
	}

	slog.Debug("whatsapp message sent", "sid", message.Sid, "status", message.Status, "id", msg.ID)
	return nil
}

// whatsappAddr ensures the Twilio channel prefix on a phone number.
func whatsappAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
