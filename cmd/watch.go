package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/pubsub"
	"github.com/zjrosen/paratext/internal/render"
	"github.com/zjrosen/paratext/internal/watcher"
)

var watchFollowLog bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render whenever the parameter file or the store changes",
	Long: `Watch renders once, then keeps watching the parameter file and the
document store and re-renders on every (debounced) change. Stop with Ctrl-C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.AutoRefresh {
			return fmt.Errorf("auto_refresh is disabled in the configuration")
		}

		w, err := watcher.New(watcher.Config{
			Paths:       []string{cfg.ParamsPath, cfg.StorePath},
			DebounceDur: time.Duration(cfg.Watch.DebounceMS) * time.Millisecond,
		})
		if err != nil {
			return err
		}
		defer func() { _ = w.Stop() }()

		onChange, err := w.Start()
		if err != nil {
			return err
		}

		var logLines <-chan pubsub.Event[string]
		if watchFollowLog {
			listener := log.NewListener(cmd.Context())
			if listener == nil {
				fmt.Println("--follow-log needs logging enabled (--debug or PARATEXT_DEBUG)")
			} else {
				logLines = listener.Events()
			}
		}

		if err := renderOnce(cmd); err != nil {
			return err
		}

		for {
			select {
			case <-onChange:
				if err := renderOnce(cmd); err != nil {
					fmt.Printf("render failed: %v\n", err)
				}
			case event, ok := <-logLines:
				if !ok {
					logLines = nil
					continue
				}
				fmt.Print(event.Payload)
			case <-cmd.Context().Done():
				return nil
			}
		}
	},
}

// renderOnce reopens the workspace so file edits made since the last pass
// are picked up.
func renderOnce(cmd *cobra.Command) error {
	ws, err := openWorkspace()
	if err != nil {
		return err
	}
	defer ws.close()

	engine := render.NewEngine(ws.host, ws.host,
		render.WithRecompute(ws.host),
		render.WithUndoGrouper(ws.host),
	)
	report := engine.RenderAll(cmd.Context(), ws.doc, ws.params)
	printReport(report)

	if report.Changed {
		return ws.save()
	}
	return nil
}

func init() {
	watchCmd.Flags().BoolVar(&watchFollowLog, "follow-log", false, "echo debug log lines while watching")
	rootCmd.AddCommand(watchCmd)
}
