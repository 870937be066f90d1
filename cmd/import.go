package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/exchange"
)

var importMode string

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import entries from a CSV file",
	Long: `Import reads the interchange table back in.

Mode "update" matches rows to existing entries strictly by id and replaces
only the template text; bindings are untouched and unmatched ids are
reported. Mode "template" appends a new unbound entry per row, skipping rows
whose text already exists.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening import file: %w", err)
		}
		defer f.Close()

		switch importMode {
		case "update":
			result, err := exchange.ImportUpdate(f, ws.doc)
			if err != nil {
				return err
			}
			if err := ws.doc.Apply(result.Patches); err != nil {
				return err
			}
			fmt.Printf("updated %d entr(ies)\n", len(result.Patches))
			for _, id := range result.Unmatched {
				fmt.Printf("  no entry with id %d, row skipped\n", id)
			}
		case "template":
			result, err := exchange.ImportTemplate(f, ws.doc)
			if err != nil {
				return err
			}
			fmt.Printf("added %d entr(ies), skipped %d duplicate(s)\n",
				len(result.Added), len(result.Skipped))
		default:
			return fmt.Errorf("unknown mode %q (want update or template)", importMode)
		}

		if err := ws.save(); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importMode, "mode", "update", "import mode: update or template")
	rootCmd.AddCommand(importCmd)
}
