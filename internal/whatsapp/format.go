package whatsapp

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jobtrack-dev/jobtrack/internal/reminder"
	"github.com/jobtrack-dev/jobtrack/internal/store"
)

// maxListedJobs caps list output; WhatsApp messages have a length limit.
const maxListedJobs = 20

// FormatJobList renders a titled, numbered job list.
func FormatJobList(jobs []store.Record, title string) string {
	if len(jobs) == 0 {
		return fmt.Sprintf("📋 %s\n\nNo jobs found.", title)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📋 %s\n%s\n\n", title, underline(title))

	shown := jobs
	if len(shown) > maxListedJobs {
		shown = shown[:maxListedJobs]
	}
	for i, job := range shown {
		fmt.Fprintf(&b, "%d. %s %s", i+1, statusEmoji(job.Status), job.Company)
		if job.ApplicationDate != "" {
			fmt.Fprintf(&b, " (%s)", job.ApplicationDate)
		}
		fmt.Fprintf(&b, " - %s\n", job.Status)
	}

	if len(jobs) > maxListedJobs {
		fmt.Fprintf(&b, "\n... and %d more jobs.\n", len(jobs)-maxListedJobs)
	}
	fmt.Fprintf(&b, "\nTotal: %d jobs", len(jobs))
	return b.String()
}

// FormatStats renders a user's application statistics.
func FormatStats(stats store.Stats) string {
	var b strings.Builder
	b.WriteString("📊 Your Job Application Stats\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")

	fmt.Fprintf(&b, "📈 Total Applications: %d\n\n", stats.TotalApplications)

	b.WriteString("📋 Status Breakdown:\n")
	fmt.Fprintf(&b, "✅ Applied: %d\n", stats.Applied)
	fmt.Fprintf(&b, "⏳ Not Applied: %d\n", stats.NotApplied)
	fmt.Fprintf(&b, "❌ Not Eligible: %d\n", stats.NotEligible)
	fmt.Fprintf(&b, "🔄 Not Fixed: %d\n\n", stats.NotFixed)

	if len(stats.RecentActivity) > 0 {
		b.WriteString("🕒 Recent Activity:\n")
		recent := stats.RecentActivity
		if len(recent) > 3 {
			recent = recent[len(recent)-3:]
		}
		for _, job := range recent {
			fmt.Fprintf(&b, "%s %s - %s\n", statusEmoji(job.Status), job.Company, job.Status)
		}
	}
	return b.String()
}

// FormatUpcoming renders applications due in the next week.
func FormatUpcoming(jobs []store.Record) string {
	if len(jobs) == 0 {
		return "📅 Upcoming Applications\n\nNo upcoming applications in the next 7 days."
	}

	var b strings.Builder
	b.WriteString("📅 Upcoming Applications\n")
	b.WriteString(strings.Repeat("=", 25) + "\n\n")

	for _, job := range jobs {
		fmt.Fprintf(&b, "%s %s\n", statusEmoji(job.Status), job.Company)
		if job.ApplicationDate != "" {
			fmt.Fprintf(&b, "   📅 Due: %s\n", job.ApplicationDate)
		}
		fmt.Fprintf(&b, "   Status: %s\n\n", job.Status)
	}
	return b.String()
}

// FormatReminderSummary renders a user's scheduled reminders.
func FormatReminderSummary(summary reminder.Summary) string {
	var b strings.Builder
	b.WriteString("⏰ Your Reminders\n")
	b.WriteString(strings.Repeat("=", 18) + "\n\n")

	fmt.Fprintf(&b, "📊 Total Reminders: %d\n", summary.Total)
	fmt.Fprintf(&b, "🔄 Daily Reminders: %d\n", summary.Daily)
	fmt.Fprintf(&b, "📅 Application Reminders: %d\n\n", summary.Applied)

	if summary.Next != nil {
		fmt.Fprintf(&b, "⏰ Next Reminder: %s\n\n", summary.Next.Format("02 Jan 2006 at 03:04 PM"))
	}

	if len(summary.Companies) > 0 {
		b.WriteString("🏢 Companies with Reminders:\n")
		companies := summary.Companies
		if len(companies) > 10 {
			companies = companies[:10]
		}
		for _, c := range companies {
			emoji := "📅"
			if c.Type == reminder.TypeDaily {
				emoji = "🔄"
			}
			fmt.Fprintf(&b, "%s %s (%s)\n", emoji, c.Company, c.Type)
		}
	}
	return b.String()
}

// FormatHelp renders the command reference.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("🤖 WhatsApp Job Tracker Help\n")
	b.WriteString(strings.Repeat("=", 30) + "\n\n")

	b.WriteString("📝 Add/Update Jobs:\n")
	b.WriteString("• Company Name (Date) - Status\n")
	b.WriteString("• Amazon (15 Aug) - Applied\n")
	b.WriteString("• Google - Not Applied\n\n")

	b.WriteString("📋 Commands:\n")
	b.WriteString("• Show Applied\n")
	b.WriteString("• Show Not Applied\n")
	b.WriteString("• Show Not Eligible\n")
	b.WriteString("• Show Not Fixed\n")
	b.WriteString("• Latest Status\n")
	b.WriteString("• Upcoming Applications\n")
	b.WriteString("• Delete [Company]\n")
	b.WriteString("• Stats\n")
	b.WriteString("• My Reminders\n")
	b.WriteString("• Help\n\n")

	b.WriteString("⏰ Statuses:\n")
	b.WriteString("• Applied ✅ - Applied to the job\n")
	b.WriteString("• Not Applied ⏳ - Haven't applied yet\n")
	b.WriteString("• Not Eligible ❌ - Not eligible for role\n")
	b.WriteString("• Not Fixed 🔄 - Status not determined\n\n")

	b.WriteString("Need help? Just send 'Help' anytime!")
	return b.String()
}

func statusEmoji(status string) string {
	switch strings.ToLower(status) {
	case "applied":
		return "✅"
	case "not applied":
		return "⏳"
	case "not eligible":
		return "❌"
	case "not fixed":
		return "🔄"
	default:
		return "📝"
	}
}

// underline sizes the rule to the title's visible length, counting runes so
// emoji titles line up.
func underline(title string) string {
	return strings.Repeat("=", utf8.RuneCountInString(title))
}
