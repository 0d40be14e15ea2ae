package audit

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Decisions recorded per delivered event.
const (
	DecisionDelivered = "delivered" // every hook ran to completion
	DecisionAborted   = "aborted"   // a hook vetoed; the operation failed
)

// TimestampFormat is the layout used in trail entry timestamps.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Entry is one line in the hash-chained JSONL trail. All fields are scalars
// or string slices (no map[string]any) to guarantee deterministic
// json.Marshal field order for reproducible hashing.
type Entry struct {
	Timestamp string   `json:"ts"`
	Session   string   `json:"session"`
	Event     string   `json:"event"`
	Args      []string `json:"args"`
	Decision  string   `json:"decision"`
	Scope     string   `json:"scope,omitempty"`  // registry of the aborting hook
	Reason    string   `json:"reason,omitempty"` // aborting hook's error text
	PrevHash  string   `json:"prev_hash"`
}

// NewSessionID generates an identifier for one execution context's trail
// entries.
func NewSessionID() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		// Fallback to timestamp-based ID if crypto/rand fails
		return fmt.Sprintf("x-%x", time.Now().UnixNano())
	}
	return "x-" + hex.EncodeToString(b)
}

// UTCNowISO returns the current UTC time in the trail's timestamp layout.
func UTCNowISO() string {
	return time.Now().UTC().Format(TimestampFormat)
}
