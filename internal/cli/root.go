package cli

import (
	"github.com/andy/proinvoice/internal/app"
	"github.com/spf13/cobra"
)

var appInstance *app.App

var rootCmd = &cobra.Command{
	Use:   "proinvoice",
	Short: "Local invoicing for freelancers and small businesses",
	Long: `proinvoice manages clients, a service catalog, invoices and your company profile.

By default, running proinvoice without arguments launches the interactive TUI.
Use subcommands for CLI operations.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return launchTUI(cmd, args)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetApp sets the app instance for commands to use
func SetApp(a *app.App) {
	appInstance = a
}

func init() {
	rootCmd.AddCommand(clientsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(invoicesCmd)
	rootCmd.AddCommand(companyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(tuiCmd)
}
