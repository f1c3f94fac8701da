// Package commands dispatches parsed bot commands against the record store
// and reminder scheduler and renders the reply text. Errors never escape a
// handler; they are logged and folded into the reply.
package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/jobtrack-dev/jobtrack/internal/parser"
	"github.com/jobtrack-dev/jobtrack/internal/reminder"
	"github.com/jobtrack-dev/jobtrack/internal/store"
	"github.com/jobtrack-dev/jobtrack/internal/whatsapp"
)

const (
	// upcomingWindowDays is how far ahead "Upcoming Applications" looks.
	upcomingWindowDays = 7

	// latestLimit caps the "Latest Status" list.
	latestLimit = 5
)

const unknownCommandReply = "❓ I didn't understand that command.\n\n" +
	"Available commands:\n" +
	"• Show Applied/Not Applied/Not Eligible/Not Fixed\n" +
	"• Latest Status\n" +
	"• Upcoming Applications\n" +
	"• Stats\n" +
	"• My Reminders\n" +
	"• Delete [Company]\n" +
	"• Help\n\n" +
	"Or send job updates like:\n" +
	"• Amazon (15 Aug) - Applied"

// RecordStore is the slice of the spreadsheet store the handler needs.
type RecordStore interface {
	Upsert(ctx context.Context, userID string, up store.Update) (store.Action, error)
	Delete(ctx context.Context, userID, company string) error
	All(ctx context.Context, userID string) ([]store.Record, error)
	ByStatus(ctx context.Context, userID, status string) ([]store.Record, error)
	Upcoming(ctx context.Context, userID string, daysAhead int) ([]store.Record, error)
	UserStats(ctx context.Context, userID string) (store.Stats, error)
}

// ReminderScheduler is the slice of the reminder manager the handler needs.
type ReminderScheduler interface {
	ScheduleApplied(userID, company, dateStr string)
	ScheduleDaily(userID, company string)
	Cancel(userID, company string) int
	Summary(userID string) reminder.Summary
}

var (
	_ RecordStore       = (*store.Store)(nil)
	_ ReminderScheduler = (*reminder.Manager)(nil)
)

// Handler turns command messages into reply text.
type Handler struct {
	store     RecordStore
	reminders ReminderScheduler
	parser    *parser.Parser
}

// New creates a Handler around the given collaborators.
func New(records RecordStore, reminders ReminderScheduler, p *parser.Parser) *Handler {
	return &Handler{store: records, reminders: reminders, parser: p}
}

// Handle executes the command in message for userID and returns the reply.
func (h *Handler) Handle(ctx context.Context, message, userID string) string {
	cmd, ok := h.parser.ParseCommand(message)
	if !ok {
		return unknownCommandReply
	}

	slog.Info("executing command", "command", string(cmd.Kind), "user", userID)

	switch cmd.Kind {
	case parser.KindShowApplied:
		return h.showByStatus(ctx, userID, "Applied", "✅ Applied Jobs", "applied jobs")
	case parser.KindShowNotApplied:
		return h.showByStatus(ctx, userID, "Not Applied", "⏳ Not Applied Jobs", "not applied jobs")
	case parser.KindShowNotEligible:
		return h.showByStatus(ctx, userID, "Not Eligible", "❌ Not Eligible Jobs", "not eligible jobs")
	case parser.KindShowNotFixed:
		return h.showByStatus(ctx, userID, "Not Fixed", "🔄 Not Fixed Jobs", "not fixed jobs")
	case parser.KindLatestStatus:
		return h.latestStatus(ctx, userID)
	case parser.KindUpcoming:
		return h.upcoming(ctx, userID)
	case parser.KindStats:
		return h.stats(ctx, userID)
	case parser.KindHelp:
		return whatsapp.FormatHelp()
	case parser.KindMyReminders:
		return whatsapp.FormatReminderSummary(h.reminders.Summary(userID))
	case parser.KindDelete:
		return h.delete(ctx, userID, cmd.Company)
	case parser.KindAdd:
		return h.add(ctx, userID, cmd.Job)
	default:
		return unknownCommandReply
	}
}

// HandleJobUpdate records a plain (non-command) job update and returns the
// reply.
func (h *Handler) HandleJobUpdate(ctx context.Context, job parser.JobUpdate, userID string) string {
	_, err := h.store.Upsert(ctx, userID, store.Update{
		Company: job.Company,
		Status:  job.Status,
		Date:    job.Date,
	})
	if err != nil {
		slog.Error("job update failed", "user", userID, "company", job.Company, "error", err)
		return fmt.Sprintf("❌ Failed to update: %v", err)
	}

	h.scheduleReminders(userID, job)

	reply := fmt.Sprintf("✅ Updated %s - %s", job.Company, job.Status)
	if job.Date != "" {
		reply += fmt.Sprintf(" (%s)", job.Date)
	}
	return reply
}

func (h *Handler) showByStatus(ctx context.Context, userID, status, title, what string) string {
	jobs, err := h.store.ByStatus(ctx, userID, status)
	if err != nil {
		slog.Error("show by status failed", "user", userID, "status", status, "error", err)
		return fmt.Sprintf("❌ Error retrieving %s. Please try again.", what)
	}
	return whatsapp.FormatJobList(jobs, title)
}

func (h *Handler) latestStatus(ctx context.Context, userID string) string {
	all, err := h.store.All(ctx, userID)
	if err != nil {
		slog.Error("latest status failed", "user", userID, "error", err)
		return "❌ Error retrieving latest status. Please try again."
	}
	if len(all) == 0 {
		return "📋 No job applications found. Add some jobs to get started!"
	}

	// Added dates are "2006-01-02 15:04:05" strings, so a lexical sort is
	// chronological.
	sort.SliceStable(all, func(i, k int) bool { return all[i].AddedDate > all[k].AddedDate })
	if len(all) > latestLimit {
		all = all[:latestLimit]
	}
	return whatsapp.FormatJobList(all, "🕒 Latest Job Updates")
}

func (h *Handler) upcoming(ctx context.Context, userID string) string {
	jobs, err := h.store.Upcoming(ctx, userID, upcomingWindowDays)
	if err != nil {
		slog.Error("upcoming failed", "user", userID, "error", err)
		return "❌ Error retrieving upcoming applications. Please try again."
	}
	return whatsapp.FormatUpcoming(jobs)
}

func (h *Handler) stats(ctx context.Context, userID string) string {
	stats, err := h.store.UserStats(ctx, userID)
	if err != nil {
		slog.Error("stats failed", "user", userID, "error", err)
		return "❌ Error retrieving statistics. Please try again."
	}
	return whatsapp.FormatStats(stats)
}

func (h *Handler) delete(ctx context.Context, userID, company string) string {
	if company == "" {
		return "❌ Please specify a company name to delete.\nExample: Delete Google"
	}

	err := h.store.Delete(ctx, userID, company)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Sprintf("❌ Company %s not found", company)
	case err != nil:
		slog.Error("delete failed", "user", userID, "company", company, "error", err)
		return "❌ Error deleting job. Please try again."
	}

	h.reminders.Cancel(userID, company)
	return fmt.Sprintf("✅ Deleted %s and cancelled all reminders.", company)
}

func (h *Handler) add(ctx context.Context, userID string, job *parser.JobUpdate) string {
	if job == nil {
		return "❌ Invalid format for add command.\nExample: Add Amazon (15 Aug) - Applied"
	}

	action, err := h.store.Upsert(ctx, userID, store.Update{
		Company: job.Company,
		Status:  job.Status,
		Date:    job.Date,
	})
	if err != nil {
		slog.Error("add failed", "user", userID, "company", job.Company, "error", err)
		return fmt.Sprintf("❌ Failed to add job: %v", err)
	}

	h.scheduleReminders(userID, *job)

	verb := "Added"
	if action == store.ActionUpdated {
		verb = "Updated"
	}
	reply := fmt.Sprintf("✅ %s %s", verb, job.Company)
	if job.Date != "" {
		reply += fmt.Sprintf(" (%s)", job.Date)
	}
	return reply
}

// scheduleReminders applies the reminder policy after a successful write: a
// job still Not Applied keeps a daily nudge, any other status clears stale
// reminders, and Applied with a date gets the application-day alert.
func (h *Handler) scheduleReminders(userID string, job parser.JobUpdate) {
	status := strings.ToLower(job.Status)
	if status == "not applied" {
		h.reminders.ScheduleDaily(userID, job.Company)
		return
	}

	h.reminders.Cancel(userID, job.Company)
	if status == "applied" && job.Date != "" {
		h.reminders.ScheduleApplied(userID, job.Company, job.Date)
	}
}
