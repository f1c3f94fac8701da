package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// validStatuses are the four canonical statuses, lowercase.
var validStatuses = []string{"applied", "not applied", "not eligible", "not fixed"}

var statusAliases = []struct {
	canonical string
	aliases   []string
}{
	{"applied", []string{"applied", "submitted", "sent", "done"}},
	{"not applied", []string{"not applied", "pending", "todo", "to do", "not done", "not submitted"}},
	{"not eligible", []string{"not eligible", "ineligible", "rejected", "not qualified", "no match"}},
	{"not fixed", []string{"not fixed", "uncertain", "maybe", "considering", "thinking", "undecided"}},
}

var statusTypos = []struct {
	canonical string
	typos     []string
}{
	{"applied", []string{"aplied", "applyed", "apllied"}},
	{"not applied", []string{"not aplied", "not applyed", "notapplied"}},
	{"not eligible", []string{"not eligable", "noteligible", "not elligible"}},
	{"not fixed", []string{"not fixd", "notfixed", "not fixxed"}},
}

// NormalizeStatus maps a raw status onto one of the four canonical
// title-cased statuses, accepting aliases and common typos. Returns false
// when nothing matches.
func NormalizeStatus(status string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(status))

	for _, s := range validStatuses {
		if lower == s {
			return titleCase(s), true
		}
	}
	for _, entry := range statusAliases {
		for _, alias := range entry.aliases {
			if lower == alias {
				return titleCase(entry.canonical), true
			}
		}
	}
	for _, entry := range statusTypos {
		for _, typo := range entry.typos {
			if lower == typo {
				return titleCase(entry.canonical), true
			}
		}
	}
	return "", false
}

// titleCase capitalizes each word. A fresh caser per call: cases.Caser is
// not safe for concurrent use.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
