// Package parser interprets incoming WhatsApp messages against a small fixed
// grammar: query/management commands ("show applied", "delete Google") and
// free-form job update lines ("Amazon (15 Aug) - Applied").
package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind identifies a recognized command.
type Kind string

const (
	KindShowApplied     Kind = "show_applied"
	KindShowNotApplied  Kind = "show_not_applied"
	KindShowNotEligible Kind = "show_not_eligible"
	KindShowNotFixed    Kind = "show_not_fixed"
	KindLatestStatus    Kind = "latest_status"
	KindUpcoming        Kind = "upcoming"
	KindStats           Kind = "stats"
	KindHelp            Kind = "help"
	KindMyReminders     Kind = "my_reminders"
	KindDelete          Kind = "delete"
	KindAdd             Kind = "add"
)

// Command is a parsed command message.
type Command struct {
	Kind    Kind
	Company string     // delete only; captured from the lowercased message
	Job     *JobUpdate // add only
	Raw     string
}

// JobUpdate is a parsed job application update.
type JobUpdate struct {
	Company        string
	Status         string // canonical title-cased status
	OriginalStatus string // status as the user typed it
	Date           string // normalized "02 Jan" form, may be empty
	Raw            string
}

type commandPattern struct {
	kind Kind
	re   *regexp.Regexp
}

// Parser holds the compiled grammar. Command patterns are matched against
// the lowercased message in a fixed order; job patterns against the
// original casing.
type Parser struct {
	commands []commandPattern
	jobs     []*regexp.Regexp
}

// New compiles the message grammar.
func New() *Parser {
	return &Parser{
		commands: []commandPattern{
			{KindShowApplied, regexp.MustCompile(`^show\s+applied$`)},
			{KindShowNotApplied, regexp.MustCompile(`^show\s+not\s+applied$`)},
			{KindShowNotEligible, regexp.MustCompile(`^show\s+not\s+eligible$`)},
			{KindShowNotFixed, regexp.MustCompile(`^show\s+not\s+fixed$`)},
			{KindLatestStatus, regexp.MustCompile(`^latest\s+status$`)},
			{KindUpcoming, regexp.MustCompile(`^upcoming\s+(applications?)?$`)},
			{KindStats, regexp.MustCompile(`^stats?$`)},
			{KindHelp, regexp.MustCompile(`^help$`)},
			{KindMyReminders, regexp.MustCompile(`^(my\s+)?reminders?$`)},
			{KindDelete, regexp.MustCompile(`^delete\s+(.+)$`)},
			{KindAdd, regexp.MustCompile(`^add\s+(.+)$`)},
		},
		jobs: []*regexp.Regexp{
			// Company (Date) - Status
			regexp.MustCompile(`^([^()]+?)\s*\(([^)]+)\)\s*-\s*(.+)$`),
			// Company - Status
			regexp.MustCompile(`^([^-]+?)\s*-\s*(.+)$`),
		},
	}
}

// IsCommand reports whether the message matches any command pattern.
func (p *Parser) IsCommand(message string) bool {
	if message == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(message))
	for _, cp := range p.commands {
		if cp.re.MatchString(lower) {
			return true
		}
	}
	return false
}

// ParseCommand matches the message against the command grammar, first match
// wins. An "add" whose payload does not parse as a job update fails the
// whole command.
func (p *Parser) ParseCommand(message string) (Command, bool) {
	if message == "" {
		return Command{}, false
	}
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, cp := range p.commands {
		m := cp.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		cmd := Command{Kind: cp.kind, Raw: message}
		switch cp.kind {
		case KindDelete:
			cmd.Company = strings.TrimSpace(m[1])
		case KindAdd:
			job, ok := p.ParseJobUpdate(strings.TrimSpace(m[1]))
			if !ok {
				return Command{}, false
			}
			cmd.Job = &job
		}
		return cmd, true
	}
	return Command{}, false
}

// ParseJobUpdate parses a job update line. The first matching pattern
// decides the outcome: an unrecognized status inside a matched pattern
// fails the parse rather than trying further patterns. Messages matching no
// pattern get one last keyword-based attempt.
func (p *Parser) ParseJobUpdate(message string) (JobUpdate, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return JobUpdate{}, false
	}

	for _, re := range p.jobs {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		if len(m) == 4 {
			return buildJobUpdate(m[1], m[3], m[2])
		}
		return buildJobUpdate(m[1], m[2], "")
	}

	return fallbackParse(message)
}

func buildJobUpdate(company, status, dateStr string) (JobUpdate, bool) {
	company = strings.TrimSpace(company)
	if company == "" {
		return JobUpdate{}, false
	}

	status = strings.TrimSpace(status)
	normalized, ok := NormalizeStatus(status)
	if !ok {
		return JobUpdate{}, false
	}

	job := JobUpdate{
		Company:        company,
		Status:         normalized,
		OriginalStatus: status,
		Raw:            fmt.Sprintf("%s - %s", company, status),
	}
	if dateStr != "" {
		job.Date = NormalizeDate(dateStr)
		job.Raw = fmt.Sprintf("%s (%s) - %s", company, dateStr, status)
	}
	return job, true
}

var (
	trailingDash  = regexp.MustCompile(`\s*[-–—]\s*$`)
	trailingParen = regexp.MustCompile(`\s*[()]\s*$`)
)

// fallbackParse scans for a canonical status keyword anywhere in the
// message and treats the text before it as the company name.
func fallbackParse(message string) (JobUpdate, bool) {
	lower := strings.ToLower(message)

	var found string
	for _, status := range validStatuses {
		if strings.Contains(lower, status) {
			found = titleCase(status)
			break
		}
	}
	if found == "" {
		return JobUpdate{}, false
	}

	pos := strings.Index(lower, strings.ToLower(found))
	if pos <= 0 {
		return JobUpdate{}, false
	}

	company := strings.TrimSpace(message[:pos])
	company = trailingDash.ReplaceAllString(company, "")
	company = trailingParen.ReplaceAllString(company, "")
	company = strings.TrimSpace(company)
	if company == "" {
		return JobUpdate{}, false
	}

	return JobUpdate{
		Company:        company,
		Status:         found,
		OriginalStatus: found,
		Raw:            message,
	}, true
}
