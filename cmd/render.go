package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/render"
)

var renderNextVersion bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every entry into its bound targets",
	Long: `Render runs one batch over all entries: each template is parsed, resolved
against the parameter set and the document context, formatted and written to
its targets. Failures are collected per entry/target and never abort the
batch.

With --next-version the document context is stamped as the upcoming save
(version + 1, save time now) before rendering, matching the render that runs
just before a document save completes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		if renderNextVersion {
			ctx := ws.host.Document()
			ctx.Version++
			ctx.SaveTime = time.Now()
			ctx.Saved = true
			ws.host.SetContext(ctx)
		}

		engine := render.NewEngine(ws.host, ws.host,
			render.WithRecompute(ws.host),
			render.WithUndoGrouper(ws.host),
			render.WithTemplateCache(render.NewTemplateCache()),
		)
		report := engine.RenderAll(cmd.Context(), ws.doc, ws.params)

		for _, t := range ws.host.Targets() {
			fmt.Printf("%s / %s: %q\n", t.Component, t.Sketch, t.Text)
		}
		printReport(report)

		if err := ws.save(); err != nil {
			return fmt.Errorf("saving document: %w", err)
		}
		return nil
	},
}

func printReport(report *render.Report) {
	fmt.Println(report.Summary())
	for _, f := range report.Failures {
		target := f.Token
		if target == "" {
			target = "(entry)"
		}
		fmt.Printf("  entry %d %s: %v\n", f.EntryID, target, f.Err)
	}
	for _, notice := range report.Notices {
		fmt.Printf("  notice: %s\n", notice)
	}
}

func init() {
	renderCmd.Flags().BoolVar(&renderNextVersion, "next-version", false,
		"stamp the context as the upcoming save before rendering")
	rootCmd.AddCommand(renderCmd)
}
