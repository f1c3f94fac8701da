package parser

import (
	"testing"
)

func TestIsCommand(t *testing.T) {
	p := New()

	tests := []struct {
		message string
		want    bool
	}{
		{"Show Applied", true},
		{"show  not   applied", true},
		{"Show Not Eligible", true},
		{"show not fixed", true},
		{"Latest Status", true},
		{"upcoming applications", true},
		{"upcoming application", true},
		{"upcoming", false}, // bare form needs the trailing word
		{"stats", true},
		{"stat", true},
		{"Help", true},
		{"reminders", true},
		{"reminder", true},
		{"My Reminders", true},
		{"Delete Google", true},
		{"Add Amazon - Applied", true},
		{"add garbage with no status", true}, // still a command, parse decides validity
		{"Amazon (15 Aug) - Applied", false},
		{"Google - Not Applied", false},
		{"", false},
		{"hello there", false},
	}

	for _, tt := range tests {
		if got := p.IsCommand(tt.message); got != tt.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tt.message, got, tt.want)
		}
	}
}

func TestParseCommandKinds(t *testing.T) {
	p := New()

	tests := []struct {
		message string
		want    Kind
	}{
		{"Show Applied", KindShowApplied},
		{"show not applied", KindShowNotApplied},
		{"SHOW NOT ELIGIBLE", KindShowNotEligible},
		{"show not fixed", KindShowNotFixed},
		{"Latest Status", KindLatestStatus},
		{"Upcoming Applications", KindUpcoming},
		{"stats", KindStats},
		{"help", KindHelp},
		{"my reminders", KindMyReminders},
	}

	for _, tt := range tests {
		cmd, ok := p.ParseCommand(tt.message)
		if !ok {
			t.Errorf("ParseCommand(%q) failed", tt.message)
			continue
		}
		if cmd.Kind != tt.want {
			t.Errorf("ParseCommand(%q).Kind = %q, want %q", tt.message, cmd.Kind, tt.want)
		}
	}
}

func TestParseCommandDelete(t *testing.T) {
	p := New()

	cmd, ok := p.ParseCommand("Delete GooGle")
	if !ok {
		t.Fatal("ParseCommand failed")
	}
	if cmd.Kind != KindDelete {
		t.Fatalf("Kind = %q, want %q", cmd.Kind, KindDelete)
	}
	// The company is captured from the lowercased message.
	if cmd.Company != "google" {
		t.Errorf("Company = %q, want %q", cmd.Company, "google")
	}
}

func TestParseCommandAdd(t *testing.T) {
	p := New()

	cmd, ok := p.ParseCommand("Add Amazon (15 Aug) - Applied")
	if !ok {
		t.Fatal("ParseCommand failed")
	}
	if cmd.Kind != KindAdd {
		t.Fatalf("Kind = %q, want %q", cmd.Kind, KindAdd)
	}
	if cmd.Job == nil {
		t.Fatal("Job is nil")
	}
	if cmd.Job.Company != "amazon" {
		t.Errorf("Job.Company = %q, want %q", cmd.Job.Company, "amazon")
	}
	if cmd.Job.Status != "Applied" {
		t.Errorf("Job.Status = %q, want Applied", cmd.Job.Status)
	}
	if cmd.Job.Date != "15 Aug" {
		t.Errorf("Job.Date = %q, want 15 Aug", cmd.Job.Date)
	}
}

func TestParseCommandAddInvalidPayload(t *testing.T) {
	p := New()

	if _, ok := p.ParseCommand("add something without any status"); ok {
		t.Error("ParseCommand accepted an add with an unparseable payload")
	}
}

func TestParseCommandNonCommand(t *testing.T) {
	p := New()

	if _, ok := p.ParseCommand("Amazon (15 Aug) - Applied"); ok {
		t.Error("ParseCommand accepted a job update line")
	}
	if _, ok := p.ParseCommand(""); ok {
		t.Error("ParseCommand accepted an empty message")
	}
}

func TestParseJobUpdate(t *testing.T) {
	p := New()

	tests := []struct {
		name    string
		message string
		ok      bool
		company string
		status  string
		date    string
	}{
		{
			name:    "with date",
			message: "Amazon (15 Aug) - Applied",
			ok:      true, company: "Amazon", status: "Applied", date: "15 Aug",
		},
		{
			name:    "without date",
			message: "Google - Not Applied",
			ok:      true, company: "Google", status: "Not Applied", date: "",
		},
		{
			name:    "iso date normalized",
			message: "Microsoft (2024-09-20) - Not Eligible",
			ok:      true, company: "Microsoft", status: "Not Eligible", date: "20 Sep",
		},
		{
			name:    "single digit day padded",
			message: "Apple (5 Aug) - Applied",
			ok:      true, company: "Apple", status: "Applied", date: "05 Aug",
		},
		{
			name:    "status alias",
			message: "Netflix - submitted",
			ok:      true, company: "Netflix", status: "Applied", date: "",
		},
		{
			name:    "status alias pending",
			message: "Stripe - pending",
			ok:      true, company: "Stripe", status: "Not Applied", date: "",
		},
		{
			name:    "status typo",
			message: "Uber - aplied",
			ok:      true, company: "Uber", status: "Applied", date: "",
		},
		{
			name:    "date-looking string passes through",
			message: "Amazon (15 Aug 2024) - Applied",
			ok:      true, company: "Amazon", status: "Applied", date: "15 Aug 2024",
		},
		{
			name:    "unparseable date dropped",
			message: "Amazon (soon) - Applied",
			ok:      true, company: "Amazon", status: "Applied", date: "",
		},
		{
			name:    "no dash fallback",
			message: "Amazon applied",
			ok:      true, company: "Amazon", status: "Applied", date: "",
		},
		{
			name:    "dash inside company splits early",
			message: "Coca-Cola - Applied",
			ok:      false,
		},
		{
			name:    "unknown status",
			message: "Amazon - ghosted",
			ok:      false,
		},
		{
			name:    "status only",
			message: "applied",
			ok:      false,
		},
		{
			name:    "empty",
			message: "",
			ok:      false,
		},
		{
			name:    "plain text",
			message: "hello how are you",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, ok := p.ParseJobUpdate(tt.message)
			if ok != tt.ok {
				t.Fatalf("ParseJobUpdate(%q) ok = %v, want %v", tt.message, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			if job.Company != tt.company {
				t.Errorf("Company = %q, want %q", job.Company, tt.company)
			}
			if job.Status != tt.status {
				t.Errorf("Status = %q, want %q", job.Status, tt.status)
			}
			if job.Date != tt.date {
				t.Errorf("Date = %q, want %q", job.Date, tt.date)
			}
		})
	}
}

func TestParseJobUpdateFallbackTrimsSeparators(t *testing.T) {
	p := New()

	job, ok := p.ParseJobUpdate("Tesla (20 Sep) applied")
	if !ok {
		t.Fatal("ParseJobUpdate failed")
	}
	// Only the trailing paren is stripped; the opening one survives.
	if job.Company != "Tesla (20 Sep" {
		t.Errorf("Company = %q, want %q", job.Company, "Tesla (20 Sep")
	}
	if job.Status != "Applied" {
		t.Errorf("Status = %q, want Applied", job.Status)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"applied", "Applied", true},
		{"APPLIED", "Applied", true},
		{"  Not Applied  ", "Not Applied", true},
		{"not eligible", "Not Eligible", true},
		{"Not Fixed", "Not Fixed", true},
		{"submitted", "Applied", true},
		{"sent", "Applied", true},
		{"done", "Applied", true},
		{"pending", "Not Applied", true},
		{"to do", "Not Applied", true},
		{"not submitted", "Not Applied", true},
		{"ineligible", "Not Eligible", true},
		{"rejected", "Not Eligible", true},
		{"no match", "Not Eligible", true},
		{"uncertain", "Not Fixed", true},
		{"maybe", "Not Fixed", true},
		{"undecided", "Not Fixed", true},
		{"aplied", "Applied", true},
		{"applyed", "Applied", true},
		{"notapplied", "Not Applied", true},
		{"not eligable", "Not Eligible", true},
		{"notfixed", "Not Fixed", true},
		{"ghosted", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := NormalizeStatus(tt.in)
		if ok != tt.ok {
			t.Errorf("NormalizeStatus(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("NormalizeStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15 Aug", "15 Aug"},
		{"5 aug", "05 Aug"},
		{"15 August", "15 Aug"},
		{"2024-08-15", "15 Aug"},
		{"15/08/2024", "15 Aug"},
		{"15-08-2024", "15 Aug"},
		{"1/12/2024", "01 Dec"},
		{"15 Aug 2024", "15 Aug 2024"}, // looks like a date, passes through
		{"32 Aug", "32 Aug"},           // unparseable but date-looking
		{"soon", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
