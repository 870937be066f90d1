package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/config"
	"github.com/zjrosen/paratext/internal/registry"
	"github.com/zjrosen/paratext/internal/resolve"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo document with parameters, targets and entries",
	Long: `Seed populates the store with a small demo: two components with text
targets, a parameter file and a few bound entries. Useful for trying out
render, export and watch on a fresh setup.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		if ws.doc.Len() > 0 {
			return errors.New("document already has entries, refusing to seed over it")
		}

		if _, err := os.Stat(cfg.ParamsPath); errors.Is(err, os.ErrNotExist) {
			params := resolve.Namespace{
				"d1":     {Value: 15, Unit: "mm", Expr: "15 mm"},
				"height": {Value: 30, Unit: "mm", Expr: "30 mm", Comment: "The height of the part"},
			}
			if err := config.SaveParams(cfg.ParamsPath, params); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", cfg.ParamsPath)
		}

		label := ws.host.CreateTarget("Bracket", "Label")
		engraving := ws.host.CreateTarget("Bracket", "Engraving")
		lid := ws.host.CreateTarget("Lid", "Label")

		versionEntry := ws.doc.NewEntry("V{_.version:03}")
		if err := ws.doc.Bind(versionEntry.ID(), label.Token,
			registry.DisplayHint{Component: "Bracket", Sketch: "Label"}); err != nil {
			return err
		}
		if err := ws.doc.Bind(versionEntry.ID(), lid.Token,
			registry.DisplayHint{Component: "Lid", Sketch: "Label"}); err != nil {
			return err
		}

		sizeEntry := ws.doc.NewEntry("{d1:.3f} {d1.unit}, saved {_.date}")
		if err := ws.doc.Bind(sizeEntry.ID(), engraving.Token,
			registry.DisplayHint{Component: "Bracket", Sketch: "Engraving"}); err != nil {
			return err
		}

		if err := ws.save(); err != nil {
			return err
		}
		fmt.Printf("seeded %d entries and %d targets in document %q\n",
			ws.doc.Len(), len(ws.host.Targets()), cfg.Document)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
