package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/internal/tail"
)

var (
	tailLines  int
	tailFollow bool

	queryIndexPath string
	querySession   string
	queryEvent     string
	queryDecision  string
	querySince     string
	queryUntil     string
	queryJSON      bool
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
	auditCmd.AddCommand(auditQueryCmd)

	auditTailCmd.Flags().IntVarP(&tailLines, "lines", "n", 10, "Number of recent entries to show")
	auditTailCmd.Flags().BoolVarP(&tailFollow, "follow", "f", false, "Keep the trail open and print entries as they are appended")

	auditQueryCmd.Flags().StringVar(&queryIndexPath, "index", "", "Path to the SQLite index (default: <trail>.db)")
	auditQueryCmd.Flags().StringVar(&querySession, "session", "", "Filter by session ID")
	auditQueryCmd.Flags().StringVar(&queryEvent, "event", "", "Filter by event name")
	auditQueryCmd.Flags().StringVar(&queryDecision, "decision", "", "Filter by decision (delivered|aborted)")
	auditQueryCmd.Flags().StringVar(&querySince, "since", "", "Lower time bound (RFC 3339)")
	auditQueryCmd.Flags().StringVar(&queryUntil, "until", "", "Upper time bound (RFC 3339)")
	auditQueryCmd.Flags().BoolVar(&queryJSON, "json", false, "Emit matching entries as JSON")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Event trail operations",
	Long:  "Commands for verifying, tailing, and querying the hash-chained event trail.",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify <path>",
	Short: "Verify hash chain integrity of a trail",
	Long:  "Walks the JSONL trail and validates that every entry's prev_hash\nmatches the SHA-256 of the previous entry. Exits 0 if valid, 1 if tampered.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditVerify,
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	result := audit.Verify(args[0])
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	if !result.Valid {
		os.Exit(1)
	}
	return nil
}

var auditTailCmd = &cobra.Command{
	Use:   "tail <path>",
	Short: "Show recent trail entries",
	Long:  "Reads the last N entries from the JSONL trail and prints them as a\ntimeline. With --follow, keeps watching the file and prints every entry\nappended until interrupted.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditTail,
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	path := args[0]

	entries, err := audit.ReadEntries(path)
	if err != nil {
		return err
	}
	start := len(entries) - tailLines
	if start < 0 {
		start = 0
	}
	for _, e := range entries[start:] {
		fmt.Println(audit.FormatEntryLine(e))
	}

	if !tailFollow {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	follower := tail.New(path, func(line []byte) {
		var e audit.Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return
		}
		fmt.Println(audit.FormatEntryLine(e))
	})
	return follower.Run(ctx)
}

var auditQueryCmd = &cobra.Command{
	Use:   "query <path>",
	Short: "Query a trail through its SQLite index",
	Long:  "Rebuilds the SQLite index from the JSONL trail, then returns entries\nmatching the given filters. The JSONL file stays the source of truth;\nthe index only speeds up filtered reads.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuditQuery,
}

func runAuditQuery(cmd *cobra.Command, args []string) error {
	trailPath := args[0]
	indexPath := queryIndexPath
	if indexPath == "" {
		indexPath = trailPath + ".db"
	}

	filter := audit.Filter{
		Session:  querySession,
		Event:    queryEvent,
		Decision: queryDecision,
	}
	if querySince != "" {
		t, err := time.Parse(time.RFC3339, querySince)
		if err != nil {
			return fmt.Errorf("parse --since: %w", err)
		}
		filter.From = t
	}
	if queryUntil != "" {
		t, err := time.Parse(time.RFC3339, queryUntil)
		if err != nil {
			return fmt.Errorf("parse --until: %w", err)
		}
		filter.To = t
	}

	ix, err := audit.OpenIndex(indexPath)
	if err != nil {
		return err
	}
	defer ix.Close()

	n, err := ix.Rebuild(trailPath)
	if err != nil {
		return err
	}

	entries, err := ix.Query(filter)
	if err != nil {
		return err
	}

	if queryJSON {
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, e := range entries {
		fmt.Println(audit.FormatEntryLine(e))
	}
	fmt.Printf("%d of %d entries matched\n", len(entries), n)
	return nil
}
