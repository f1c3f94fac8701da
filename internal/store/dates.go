package store

import (
	"strings"
	"time"
)

// upcomingLayouts are the accepted application-date formats, tried in
// order: "15 Aug", "15 August", "2024-08-15", "15/08/2024". The slashed
// form reads day-first.
var upcomingLayouts = []string{"2 Jan", "2 January", "2006-1-2", "2/1/2006"}

// parseApplicationDate interprets a stored application date relative to
// now. A date without a year is pinned to now's year. Returns false when no
// layout matches.
func parseApplicationDate(value string, now time.Time) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range upcomingLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		year := t.Year()
		if year == 0 {
			year = now.Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, now.Location()), true
	}
	return time.Time{}, false
}
