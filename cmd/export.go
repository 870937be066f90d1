package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zjrosen/paratext/internal/exchange"
)

var (
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries as CSV or XLSX",
	Long: `Export writes the entry table in the portable interchange layout: add-in
and file format metadata, then one row per entry with its id, template text
and the sketch name of each binding.

CSV goes to stdout unless --output is given; XLSX always needs --output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := openWorkspace()
		if err != nil {
			return err
		}
		defer ws.close()

		switch exportFormat {
		case "csv":
			out := os.Stdout
			if exportOutput != "" {
				f, err := os.Create(exportOutput)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				out = f
			}
			return exchange.Export(out, ws.doc, version)
		case "xlsx":
			if exportOutput == "" {
				return fmt.Errorf("--output is required for xlsx export")
			}
			f, err := os.Create(exportOutput)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			return exchange.ExportXLSX(f, ws.doc, version)
		default:
			return fmt.Errorf("unknown format %q (want csv or xlsx)", exportFormat)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default stdout for csv)")
	rootCmd.AddCommand(exportCmd)
}
