package whatsapp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"sort"
)

// Signature computes the X-Twilio-Signature value for a webhook request:
// base64(HMAC-SHA1(authToken, requestURL + form keys and values concatenated
// in key order)).
func Signature(authToken, requestURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(requestURL))
	for _, k := range keys {
		mac.Write([]byte(k))
		mac.Write([]byte(form.Get(k)))
	}
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// ValidateSignature reports whether signature matches the expected value for
// the request. The comparison is constant-time.
func ValidateSignature(authToken, requestURL string, form url.Values, signature string) bool {
	expected := Signature(authToken, requestURL, form)
	return hmac.Equal([]byte(expected), []byte(signature))
}
