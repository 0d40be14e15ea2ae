package audit

import (
	"fmt"
	"strings"
	"time"
)

const separator = "──────────────────────────────────────────────────────────────────"

// FormatTimeline renders a ReplayResult as a human-readable text timeline.
func FormatTimeline(result *ReplayResult) string {
	if len(result.Entries) == 0 {
		return "No entries found.\n"
	}

	var b strings.Builder

	first := formatDateTime(result.Summary.FirstTimestamp)
	last := formatTimeOnly(result.Summary.LastTimestamp)
	b.WriteString(fmt.Sprintf("Trail: %s–%s UTC\n", first, last))
	b.WriteString(separator + "\n")

	for _, e := range result.Entries {
		b.WriteString(FormatEntryLine(e) + "\n")
	}

	b.WriteString(separator + "\n")
	b.WriteString(fmt.Sprintf("Summary: %d delivered, %d aborted\n",
		result.Summary.Delivered, result.Summary.Aborted))

	return b.String()
}

// FormatEntryLine renders one entry as a fixed-width text line.
func FormatEntryLine(e Entry) string {
	decision := strings.ToUpper(e.Decision)
	args := truncate(strings.Join(e.Args, ", "), 44)

	tag := ""
	if e.Decision == DecisionAborted {
		tag = fmt.Sprintf("  [%s: %s]", e.Scope, truncate(e.Reason, 60))
	}

	return fmt.Sprintf("%-10s %-14s %-10s %-22s (%s)%s",
		formatTimeOnly(e.Timestamp), e.Session, decision, truncate(e.Event, 22), args, tag)
}

func formatDateTime(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatTimeOnly(ts string) string {
	t, err := time.Parse(TimestampFormat, ts)
	if err != nil {
		return ts
	}
	return t.Format("15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
