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

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a JSON backup of all data",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := appInstance.BackupService.Snapshot(context.Background())
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "-" {
			return export.WriteJSON(os.Stdout, snap)
		}
		if output == "" {
			name := fmt.Sprintf("proinvoice-%s.json", snap.ExportedAt.Format("20060102-150405"))
			output = filepath.Join(appInstance.Config.Invoice.OutputDir, name)
		}

		err = writeOutput(output, func(w io.Writer) error {
			return export.WriteJSON(w, snap)
		})
		if err != nil {
			return err
		}

		fmt.Printf("✓ Backup written to %s (%d clients, %d services, %d invoices)\n",
			output, len(snap.Clients), len(snap.Services), len(snap.Invoices))
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup_file]",
	Short: "Replace all data with the contents of a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open backup: %w", err)
		}
		defer f.Close()

		b, err := export.ReadJSON(f)
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		prompt := fmt.Sprintf("Replace ALL data with %d clients, %d services and %d invoices from %s?",
			len(b.Clients), len(b.Services), len(b.Invoices), b.ExportedAt.Format(dateLayout))
		if !yes && !confirmPrompt(prompt) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.BackupService.Restore(context.Background(), b); err != nil {
			return err
		}

		fmt.Println("✓ Backup restored")
		return nil
	},
}

func init() {
	backupCmd.Flags().StringP("output", "o", "", "Output file, '-' for stdout (defaults to the output directory)")
	restoreCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
