package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/registry"
)

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Inspect and manipulate display targets",
}

var targetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets with their tokens and current text",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		for _, t := range ws.host.Targets() {
			fmt.Printf("%s\t%s / %s\t%q\n", t.Token, t.Component, t.Sketch, t.Text)
		}
		return nil
	},
}

var targetAddCmd = &cobra.Command{
	Use:   "add <component> <sketch>",
	Short: "Create a target with a fresh durable token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		t := ws.host.CreateTarget(args[0], args[1])
		fmt.Println(t.Token)
		return ws.save()
	},
}

var targetDuplicateCmd = &cobra.Command{
	Use:   "duplicate <token> <new-component>",
	Short: "Duplicate a target into a new component occurrence",
	Long: `Duplicate copies a target the way the host does when a component gets a
second occurrence. Every entry bound to the source target gains a binding
for the copy under the same entry id; no entry is ever forked.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		dup, err := ws.host.DuplicateTarget(args[0], args[1])
		if err != nil {
			return err
		}
		added := ws.doc.RebindOnDuplicate([]registry.DuplicatedTarget{{
			SourceToken: args[0],
			NewToken:    dup.Token,
			Hint:        registry.DisplayHint{Component: dup.Component, Sketch: dup.Sketch},
		}})

		fmt.Printf("%s (rebound %d entr(ies))\n", dup.Token, added)
		return ws.save()
	},
}

var targetRenameSketchCmd = &cobra.Command{
	Use:   "rename-sketch <token> <new-name>",
	Short: "Rename a target's sketch",
	Long:  `Renames only touch the cached display hint; tokens and entry ids are stable.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		if err := ws.host.RenameSketch(args[0], args[1]); err != nil {
			return err
		}
		tc, _ := ws.host.Target(args[0])
		updated := ws.doc.UpdateHint(args[0], registry.DisplayHint{
			Component: tc.Component,
			Sketch:    tc.Sketch,
		})
		fmt.Printf("updated %d binding hint(s)\n", updated)
		return ws.save()
	},
}

var targetRenameComponentCmd = &cobra.Command{
	Use:   "rename-component <old-name> <new-name>",
	Short: "Rename a component wherever it appears",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		updated := 0
		for _, token := range ws.host.RenameComponent(args[0], args[1]) {
			tc, _ := ws.host.Target(token)
			updated += ws.doc.UpdateHint(token, registry.DisplayHint{
				Component: tc.Component,
				Sketch:    tc.Sketch,
			})
		}
		fmt.Printf("updated %d binding hint(s)\n", updated)
		return ws.save()
	},
}

func init() {
	targetCmd.AddCommand(targetListCmd)
	targetCmd.AddCommand(targetAddCmd)
	targetCmd.AddCommand(targetDuplicateCmd)
	targetCmd.AddCommand(targetRenameSketchCmd)
	targetCmd.AddCommand(targetRenameComponentCmd)
	rootCmd.AddCommand(targetCmd)
}
