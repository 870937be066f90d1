package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/registry"
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage template entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add <template> [token...]",
	Short: "Create an entry, optionally bound to targets",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		e := ws.doc.NewEntry(args[0])
		for _, token := range args[1:] {
			tc, ok := ws.host.Target(token)
			if !ok {
				return fmt.Errorf("no target for token %s", token)
			}
			hint := registry.DisplayHint{Component: tc.Component, Sketch: tc.Sketch}
			if err := ws.doc.Bind(e.ID(), token, hint); err != nil {
				return err
			}
		}
		fmt.Println(e.ID())
		return ws.save()
	},
}

var entrySetCmd = &cobra.Command{
	Use:   "set <id> <template>",
	Short: "Replace an entry's template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		tmpl := args[1]
		if err := ws.doc.Apply([]registry.Patch{{ID: id, Template: &tmpl}}); err != nil {
			return err
		}
		return ws.save()
	},
}

var entryBindCmd = &cobra.Command{
	Use:   "bind <id> <token>",
	Short: "Bind an entry to a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		tc, ok := ws.host.Target(args[1])
		if !ok {
			return fmt.Errorf("no target for token %s", args[1])
		}
		hint := registry.DisplayHint{Component: tc.Component, Sketch: tc.Sketch}
		if err := ws.doc.Bind(id, args[1], hint); err != nil {
			return err
		}
		return ws.save()
	},
}

var entryUnbindCmd = &cobra.Command{
	Use:   "unbind <id> <token>",
	Short: "Detach an entry from a target",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		if err := ws.doc.Unbind(id, args[1]); err != nil {
			return err
		}
		return ws.save()
	},
}

var entryRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete an entry (its id is never reused)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		id, err := parseEntryID(args[0])
		if err != nil {
			return err
		}
		if err := ws.doc.RemoveEntry(id); err != nil {
			return err
		}
		return ws.save()
	},
}

func parseEntryID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q", s)
	}
	return id, nil
}

func init() {
	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entrySetCmd)
	entryCmd.AddCommand(entryBindCmd)
	entryCmd.AddCommand(entryUnbindCmd)
	entryCmd.AddCommand(entryRemoveCmd)
	rootCmd.AddCommand(entryCmd)
}
