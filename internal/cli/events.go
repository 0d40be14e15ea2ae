package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/acidburn0zzz/ppadl/internal/catalog"
)

var (
	eventsCatalogPath string
	eventsJSON        bool
)

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVar(&eventsCatalogPath, "catalog", "", "Catalogue YAML layered over the built-in events")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "Emit the catalogue as JSON")
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the event catalogue",
	Long:  "Prints every catalogued event with its fixed argument labels, sensitive\npositions, and the operation it brackets.",
	RunE:  runEvents,
}

func runEvents(cmd *cobra.Command, args []string) error {
	cat, err := catalog.Load(eventsCatalogPath)
	if err != nil {
		return err
	}

	if eventsJSON {
		out, err := json.MarshalIndent(cat.Events(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for _, e := range cat.Events() {
		argList := strings.Join(e.Args, ", ")
		fmt.Printf("%-18s (%s)\n", e.Name, argList)
		if e.Brackets != "" {
			fmt.Printf("    brackets: %s\n", e.Brackets)
		}
		if len(e.Sensitive) > 0 {
			masked := make([]string, 0, len(e.Sensitive))
			for _, p := range e.Sensitive {
				if p >= 0 && p < len(e.Args) {
					masked = append(masked, e.Args[p])
				}
			}
			fmt.Printf("    sensitive: %s\n", strings.Join(masked, ", "))
		}
	}
	return nil
}
