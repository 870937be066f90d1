package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/storage"
)

var migrateYes bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Convert a legacy v1 document to the current format",
	Long: `Migrate re-resolves every name-based v1 binding to a durable token. The
conversion is one-way: after it a v1-only reader can no longer open the
document. Bindings whose names no longer resolve are kept dangling and
reported.

Nothing is written without --yes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		blob, err := store.Get(cfg.Document)
		if err != nil {
			return err
		}

		_, err = storage.Decode(blob)
		var needed *storage.MigrationNeededError
		if !errors.As(err, &needed) {
			if err != nil {
				return err
			}
			fmt.Println("document already uses the current format")
			return nil
		}

		h, err := loadHost(store)
		if err != nil {
			return err
		}

		doc, report, err := storage.Migrate(needed.V1, h)
		if err != nil {
			return err
		}

		fmt.Printf("%d entr(ies), %d binding(s) resolved, %d dangling\n",
			doc.Len(), report.Resolved, len(report.Dangling))
		for _, d := range report.Dangling {
			fmt.Printf("  entry %d: %s / %s no longer resolves\n",
				d.EntryID, d.Hint.Component, d.Hint.Sketch)
		}

		if !migrateYes {
			fmt.Println("dry run: migration is one-way, re-run with --yes to write it")
			return nil
		}

		out, err := storage.Encode(doc)
		if err != nil {
			return err
		}
		if err := store.Put(cfg.Document, out); err != nil {
			return err
		}
		fmt.Println("migrated")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateYes, "yes", false, "confirm the one-way migration")
	rootCmd.AddCommand(migrateCmd)
}
