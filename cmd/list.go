package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries with their ids, templates and bindings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		if ws.doc.Len() == 0 {
			fmt.Println("no entries")
			return nil
		}

		for _, e := range ws.doc.Entries() {
			fmt.Printf("%d\t%s\n", e.ID(), e.Template())
			for _, b := range e.Bindings() {
				state := b.Token
				if b.Dangling() {
					state = "(dangling)"
				}
				fmt.Printf("\t-> %s / %s  %s\n", b.Hint.Component, b.Hint.Sketch, state)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
