package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Filter holds matching criteria for trail reads. Zero values match
// everything.
type Filter struct {
	Session  string
	Event    string
	Decision string
	From     time.Time // zero value = no lower bound
	To       time.Time // zero value = no upper bound
}

// Summary holds decision counts and time bounds for a filtered read.
type Summary struct {
	Total          int    `json:"total"`
	Delivered      int    `json:"delivered"`
	Aborted        int    `json:"aborted"`
	FirstTimestamp string `json:"first_timestamp,omitempty"`
	LastTimestamp  string `json:"last_timestamp,omitempty"`
}

// ReplayResult holds filtered entries and their summary.
type ReplayResult struct {
	Entries []Entry `json:"entries"`
	Summary Summary `json:"summary"`
}

// Replay reads the trail and returns entries matching the filter, in file
// order. Malformed lines are skipped; Verify is the tool for detecting
// them.
func Replay(path string, filter Filter) (*ReplayResult, error) {
	entries, err := ReadEntries(path)
	if err != nil {
		return nil, err
	}

	result := &ReplayResult{}
	for _, entry := range entries {
		if !filter.matches(entry) {
			continue
		}
		result.Entries = append(result.Entries, entry)
		result.Summary.Total++
		switch entry.Decision {
		case DecisionDelivered:
			result.Summary.Delivered++
		case DecisionAborted:
			result.Summary.Aborted++
		}
		if result.Summary.FirstTimestamp == "" {
			result.Summary.FirstTimestamp = entry.Timestamp
		}
		result.Summary.LastTimestamp = entry.Timestamp
	}
	return result, nil
}

func (f Filter) matches(e Entry) bool {
	if f.Session != "" && e.Session != f.Session {
		return false
	}
	if f.Event != "" && e.Event != f.Event {
		return false
	}
	if f.Decision != "" && e.Decision != f.Decision {
		return false
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		ts, err := time.Parse(TimestampFormat, e.Timestamp)
		if err != nil {
			return false
		}
		if !f.From.IsZero() && ts.Before(f.From) {
			return false
		}
		if !f.To.IsZero() && ts.After(f.To) {
			return false
		}
	}
	return true
}

// ReadEntries parses every well-formed line of a JSONL trail.
func ReadEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open trail: %w", err)
	}
	defer f.Close()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry Entry
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			continue // skip malformed lines
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: scan trail: %w", err)
	}
	return entries, nil
}
