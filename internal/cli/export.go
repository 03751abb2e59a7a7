package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andy/proinvoice/internal/export"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invoice register",
}

var exportXLSXCmd = &cobra.Command{
	Use:   "xlsx",
	Short: "Write all invoices and their lines to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		invoices, err := appInstance.InvoiceService.List(ctx)
		if err != nil {
			return err
		}
		clients, err := appInstance.ClientService.List(ctx)
		if err != nil {
			return err
		}
		services, err := appInstance.CatalogService.List(ctx)
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = filepath.Join(appInstance.Config.Invoice.OutputDir, "factures.xlsx")
		}

		err = writeOutput(output, func(w io.Writer) error {
			return export.WriteRegister(w, invoices, clients, services)
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ %d invoice(s) exported to %s\n", len(invoices), output)
		return nil
	},
}

var exportSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of backup files",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := export.Schema()
		if err != nil {
			return fmt.Errorf("failed to generate schema: %w", err)
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			fmt.Println(string(schema))
			return nil
		}
		return writeOutput(output, func(w io.Writer) error {
			_, err := w.Write(schema)
			return err
		})
	},
}

// writeOutput creates path and hands it to write
func writeOutput(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func init() {
	exportCmd.AddCommand(exportXLSXCmd)
	exportCmd.AddCommand(exportSchemaCmd)

	exportXLSXCmd.Flags().StringP("output", "o", "", "Output file (defaults to the output directory)")
	exportSchemaCmd.Flags().StringP("output", "o", "", "Output file (defaults to stdout)")
}
