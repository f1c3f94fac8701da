package parser

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are the accepted input formats, tried in order. Slashed and
// dashed forms read day-first.
var dateLayouts = []string{"2 Jan", "2 January", "2006-1-2", "2/1/2006", "2-1-2006"}

// dateLike patterns recognize strings that resemble a date even when no
// layout parses them; such strings pass through unchanged.
var dateLike = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)`),
	regexp.MustCompile(`(?i)\d{1,2}\s+(january|february|march|april|may|june|july|august|september|october|november|december)`),
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`),
	regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`),
}

// NormalizeDate rewrites a recognized date into the short zero-padded
// "02 Jan" form. A string no layout parses but that still looks like a date
// passes through verbatim; anything else yields "".
func NormalizeDate(dateStr string) string {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, dateStr)
		if err != nil {
			continue
		}
		return t.Format("02 Jan")
	}

	for _, re := range dateLike {
		if re.MatchString(dateStr) {
			return dateStr
		}
	}
	return ""
}
