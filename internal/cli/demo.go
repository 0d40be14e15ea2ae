package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acidburn0zzz/ppadl/internal/audit"
	"github.com/acidburn0zzz/ppadl/sdk/go/ppadl"
)

func init() {
	rootCmd.AddCommand(demoCmd)
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a scripted engine session",
	Long:  "Builds an engine with a trail recorder, registers a global watcher and a\ncontext hook, raises the built-in events, exercises the verified-open\npath, and verifies the resulting trail.",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	fmt.Println("=== ppadl demo ===")

	tmpDir, err := os.MkdirTemp("", "ppadl-demo-*")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	trailPath := filepath.Join(tmpDir, "trail.jsonl")
	eng, err := ppadl.NewEngine(ppadl.WithRecorder(trailPath), ppadl.WithStrictCatalog())
	if err != nil {
		return err
	}

	// Global watcher: observes everything, vetoes native library loads.
	err = eng.AddGlobalHook(func(name string, args []any, _ any) error {
		fmt.Printf("  [global] %s %v\n", name, args)
		if name == "library.load" {
			return fmt.Errorf("native libraries are blocked in this demo")
		}
		return nil
	}, nil)
	if err != nil {
		return err
	}

	rt := eng.NewContext(ppadl.WithSessionID("demo"))
	defer rt.Close()

	if err := rt.AddHook(func(name string, args []any, _ any) error {
		fmt.Printf("  [context] %s\n", name)
		return nil
	}); err != nil {
		return err
	}

	fmt.Println("\nRaising events:")
	if err := rt.Audit("code.compile", "print(1)", "<demo>"); err != nil {
		return err
	}
	if err := rt.Audit("module.resolve", "db", "/lib/db.py", nil, nil, nil); err != nil {
		return err
	}
	if err := rt.Audit("library.load", "/usr/lib/libcrypto.so"); err == nil {
		return fmt.Errorf("library.load should have been vetoed")
	} else {
		fmt.Printf("  vetoed as expected: %v\n", err)
	}

	fmt.Println("\nVerified open:")
	scriptPath := filepath.Join(tmpDir, "script.py")
	if err := os.WriteFile(scriptPath, []byte("print(2)\n"), 0600); err != nil {
		return err
	}
	f, err := rt.OpenCode(scriptPath)
	if err != nil {
		return err
	}
	content, err := io.ReadAll(f)
	f.Close()
	if err != nil {
		return err
	}
	fmt.Printf("  read %d bytes: %s", len(content), content)

	if err := rt.Close(); err != nil {
		return err
	}
	if err := eng.Close(); err != nil {
		return err
	}

	fmt.Println("\nTrail verification:")
	result := audit.Verify(trailPath)
	if !result.Valid {
		return fmt.Errorf("trail invalid at line %d: %s", result.ErrorLine, result.Error)
	}
	fmt.Printf("  chain intact, %d entries\n", result.Lines)

	replay, err := audit.Replay(trailPath, audit.Filter{Session: "demo"})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(indent(audit.FormatTimeline(replay)))

	fmt.Println("\nPASS: all events delivered in order, veto enforced, trail intact.")
	return nil
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}
