package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset data in the database",
	Long: `Reset data in the database.

Examples:
  proinvoice reset invoices   # Delete all invoices, keep clients, catalog and company profile
  proinvoice reset all        # Wipe everything and restore the default company profile`,
}

var resetInvoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Delete all invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL invoices, including paid ones. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		n, err := appInstance.BackupService.ResetInvoices(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("%d invoice(s) have been deleted.\n", n)
		return nil
	},
}

var resetAllCmd = &cobra.Command{
	Use:   "all",
	Short: "Delete ALL data: invoices, clients, catalog and company profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !confirmPrompt("This will delete ALL data including clients, catalog and company profile. Continue?") {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.BackupService.ResetAll(context.Background()); err != nil {
			return err
		}

		fmt.Println("All data has been deleted.")
		return nil
	},
}

func confirmPrompt(message string) bool {
	fmt.Printf("%s [y/N] ", message)
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes" || input == "o" || input == "oui"
}

func init() {
	resetCmd.AddCommand(resetInvoicesCmd)
	resetCmd.AddCommand(resetAllCmd)
}
