// Package reminder schedules WhatsApp reminder messages for tracked job
// applications: a recurring daily nudge for jobs still marked "Not Applied"
// and a one-shot alert at 01:00 local time on a job's application date.
//
// Reminders live in process memory only and do not survive a restart.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// Reminder kinds.
const (
	TypeDaily   = "daily"
	TypeApplied = "applied"
)

// appliedReminderHour is the local hour at which application-day reminders
// fire.
const appliedReminderHour = 1

// dateLayouts are the accepted application-date formats, tried in order.
// Slashed and dashed forms read day-first.
var dateLayouts = []string{"2 Jan", "2 January", "2006-1-2", "2/1/2006", "2-1-2006"}

// Notifier delivers a reminder message to a user. Implementations are
// expected to be safe for concurrent use; timers fire on their own
// goroutines.
type Notifier interface {
	Notify(ctx context.Context, userID, message string) error
}

// CompanyReminder is one scheduled reminder in a user's summary.
type CompanyReminder struct {
	Company string
	Type    string
	NextRun time.Time
}

// Summary aggregates a user's scheduled reminders.
type Summary struct {
	Total     int
	Daily     int
	Applied   int
	Next      *time.Time
	Companies []CompanyReminder
}

type job struct {
	id      string
	userID  string
	company string
	kind    string
	message string
	nextRun time.Time
	timer   *time.Timer

	// daily jobs only; the clock time the job recurs at
	hour   int
	minute int
}

// Manager holds scheduled reminders keyed by job ID.
//
// IDs embed the user and lowercased company
// (daily_reminder_{user}_{company}, applied_reminder_{user}_{company}_{date})
// so rescheduling the same company replaces the existing timer instead of
// stacking a second one.
type Manager struct {
	notifier Notifier
	loc      *time.Location

	dailyHour   int
	dailyMinute int

	mu      sync.Mutex
	jobs    map[string]*job
	stopped bool

	now func() time.Time
}

// New creates a Manager firing in the given IANA timezone, with daily
// reminders at dailyTime ("HH:MM", 24-hour).
func New(notifier Notifier, timezone, dailyTime string) (*Manager, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", timezone, err)
	}
	hour, minute, err := parseClock(dailyTime)
	if err != nil {
		return nil, err
	}
	return &Manager{
		notifier:    notifier,
		loc:         loc,
		dailyHour:   hour,
		dailyMinute: minute,
		jobs:        make(map[string]*job),
		now:         time.Now,
	}, nil
}

// ScheduleApplied schedules a one-shot reminder at 01:00 local time on the
// job's application date. Unparseable and past dates are skipped, not
// errors.
func (m *Manager) ScheduleApplied(userID, company, dateStr string) {
	date, ok := m.parseDate(dateStr)
	if !ok {
		slog.Warn("could not parse application date", "company", company, "date", dateStr)
		return
	}

	runAt := time.Date(date.Year(), date.Month(), date.Day(), appliedReminderHour, 0, 0, 0, m.loc)
	if !runAt.After(m.now()) {
		slog.Info("application date in the past, skipping reminder", "company", company, "date", dateStr)
		return
	}

	m.add(&job{
		id:      "applied_reminder_" + userID + "_" + strings.ToLower(company) + "_" + runAt.Format("20060102"),
		userID:  userID,
		company: company,
		kind:    TypeApplied,
		message: fmt.Sprintf("🚨 Reminder: Apply to %s today! Don't forget to submit your application.", company),
		nextRun: runAt,
	})
}

// ScheduleDaily schedules a recurring reminder at the configured daily time.
// Scheduling the same company again replaces the existing reminder.
func (m *Manager) ScheduleDaily(userID, company string) {
	m.add(&job{
		id:      "daily_reminder_" + userID + "_" + strings.ToLower(company),
		userID:  userID,
		company: company,
		kind:    TypeDaily,
		message: fmt.Sprintf("📝 Daily Reminder: You haven't applied to %s yet. Consider applying today!", company),
		nextRun: m.nextDailyRun(m.now().In(m.loc), m.dailyHour, m.dailyMinute),
		hour:    m.dailyHour,
		minute:  m.dailyMinute,
	})
}

// RescheduleDaily moves every existing daily reminder for the user to a new
// clock time and reports how many moved. Reminders scheduled afterwards
// still use the configured default time.
func (m *Manager) RescheduleDaily(userID string, hour, minute int) int {
	prefix := "daily_reminder_" + userID + "_"

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return 0
	}
	moved := 0
	for id, old := range m.jobs {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		old.timer.Stop()
		j := &job{
			id:      old.id,
			userID:  old.userID,
			company: old.company,
			kind:    old.kind,
			message: old.message,
			nextRun: m.nextDailyRun(m.now().In(m.loc), hour, minute),
			hour:    hour,
			minute:  minute,
		}
		j.timer = time.AfterFunc(j.nextRun.Sub(m.now()), func() { m.fire(j) })
		m.jobs[id] = j
		moved++
	}
	if moved > 0 {
		slog.Info("rescheduled daily reminders", "user", userID, "count", moved,
			"time", fmt.Sprintf("%02d:%02d", hour, minute))
	}
	return moved
}

// Cancel removes every reminder for the user/company pair, matching the
// company case-insensitively, and reports how many were dropped.
func (m *Manager) Cancel(userID, company string) int {
	needle := "_" + userID + "_" + strings.ToLower(company)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, j := range m.jobs {
		if strings.Contains(id, needle) {
			j.timer.Stop()
			delete(m.jobs, id)
			removed++
		}
	}
	if removed > 0 {
		slog.Info("cancelled reminders", "user", userID, "company", company, "count", removed)
	}
	return removed
}

// Summary reports the user's scheduled reminders, companies sorted by name.
func (m *Manager) Summary(userID string) Summary {
	needle := "_" + userID + "_"

	m.mu.Lock()
	defer m.mu.Unlock()

	var s Summary
	for id, j := range m.jobs {
		if !strings.Contains(id, needle) {
			continue
		}
		s.Total++
		switch j.kind {
		case TypeDaily:
			s.Daily++
		case TypeApplied:
			s.Applied++
		}
		if s.Next == nil || j.nextRun.Before(*s.Next) {
			next := j.nextRun
			s.Next = &next
		}
		s.Companies = append(s.Companies, CompanyReminder{
			Company: j.company,
			Type:    j.kind,
			NextRun: j.nextRun,
		})
	}

	sort.Slice(s.Companies, func(i, k int) bool {
		if s.Companies[i].Company != s.Companies[k].Company {
			return s.Companies[i].Company < s.Companies[k].Company
		}
		return s.Companies[i].Type < s.Companies[k].Type
	})
	return s
}

// Stop cancels all timers. The manager accepts no new reminders afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	m.stopped = true
	for _, j := range m.jobs {
		j.timer.Stop()
	}
	m.jobs = make(map[string]*job)
	slog.Info("reminder scheduler stopped")
}

func (m *Manager) add(j *job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.stopped {
		return
	}
	if old, ok := m.jobs[j.id]; ok {
		old.timer.Stop()
	}
	j.timer = time.AfterFunc(j.nextRun.Sub(m.now()), func() { m.fire(j) })
	m.jobs[j.id] = j
	slog.Info("scheduled reminder", "id", j.id, "next_run", j.nextRun)
}

// fire delivers a job's message. A timer superseded by a reschedule finds a
// different *job under its ID and backs off.
func (m *Manager) fire(j *job) {
	m.mu.Lock()
	if m.stopped || m.jobs[j.id] != j {
		m.mu.Unlock()
		return
	}
	if j.kind == TypeDaily {
		j.nextRun = m.nextDailyRun(m.now().In(m.loc), j.hour, j.minute)
		j.timer = time.AfterFunc(j.nextRun.Sub(m.now()), func() { m.fire(j) })
	} else {
		delete(m.jobs, j.id)
	}
	userID, message := j.userID, j.message
	m.mu.Unlock()

	if err := m.notifier.Notify(context.Background(), userID, message); err != nil {
		slog.Error("failed to send reminder", "user", userID, "error", err)
		return
	}
	slog.Info("reminder sent", "user", userID)
}

// nextDailyRun returns the next occurrence of the given clock time strictly
// after now.
func (m *Manager) nextDailyRun(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, m.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// parseDate interprets an application date in the manager's timezone. A date
// without a year is pinned to the current year.
func (m *Manager) parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, value, m.loc)
		if err != nil {
			continue
		}
		year := t.Year()
		if year == 0 {
			year = m.now().Year()
		}
		return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, m.loc), true
	}
	return time.Time{}, false
}

func parseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("parse daily reminder time %q: %w", value, err)
	}
	return t.Hour(), t.Minute(), nil
}
