package cli

import (
	"context"
	"fmt"

	"github.com/andy/proinvoice/internal/domain"
	"github.com/spf13/cobra"
)

var clientsCmd = &cobra.Command{
	Use:   "clients",
	Short: "Manage clients",
	Long:  `Add, list, edit, and delete clients.`,
}

var clientsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		clients, err := appInstance.ClientService.List(ctx)
		if err != nil {
			return err
		}

		if len(clients) == 0 {
			fmt.Println("No clients found")
			return nil
		}

		fmt.Printf("%-10s %-28s %-30s %-16s\n", "ID", "Name", "Email", "Phone")
		fmt.Println("----------------------------------------------------------------------------------------")

		for _, client := range clients {
			fmt.Printf("%-10s %-28s %-30s %-16s\n",
				shortID(client.ID),
				truncate(client.Name, 28),
				truncate(client.Email, 30),
				truncate(client.Phone, 16),
			)
		}

		fmt.Printf("\nTotal: %d client(s)\n", len(clients))
		return nil
	},
}

var clientsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var contact domain.ClientContact
		contact.Email, _ = cmd.Flags().GetString("email")
		contact.Phone, _ = cmd.Flags().GetString("phone")
		contact.Address, _ = cmd.Flags().GetString("address")
		notes, _ := cmd.Flags().GetString("notes")

		client, err := appInstance.ClientService.Create(ctx, args[0], contact, notes)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Client created: %s (ID: %s)\n", client.Name, client.ID)
		return nil
	},
}

var clientsShowCmd = &cobra.Command{
	Use:   "show [id_or_name]",
	Short: "Show client details and billing summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := appInstance.ClientService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:    %s\n", client.Name)
		fmt.Printf("ID:      %s\n", client.ID)
		fmt.Printf("Email:   %s\n", client.Email)
		fmt.Printf("Phone:   %s\n", client.Phone)
		fmt.Printf("Address: %s\n", client.Address)
		if client.Notes != "" {
			fmt.Printf("Notes:   %s\n", client.Notes)
		}

		summaries, err := appInstance.ReportService.GetClientSummaries(ctx)
		if err != nil {
			return err
		}
		for _, s := range summaries {
			if s.ClientID == client.ID {
				fmt.Println()
				fmt.Printf("Invoices:    %d\n", s.InvoiceCount)
				fmt.Printf("Billed:      %s\n", money(s.Billed))
				fmt.Printf("Outstanding: %s\n", money(s.Outstanding))
			}
		}
		return nil
	},
}

var clientsEditCmd = &cobra.Command{
	Use:   "edit [id_or_name]",
	Short: "Edit a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := appInstance.ClientService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		name, notes := client.Name, client.Notes
		if cmd.Flags().Changed("name") {
			name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("notes") {
			notes, _ = cmd.Flags().GetString("notes")
		}
		contact := client.Contact()
		contactChanged := false
		for flag, field := range map[string]*string{
			"email":   &contact.Email,
			"phone":   &contact.Phone,
			"address": &contact.Address,
		} {
			if cmd.Flags().Changed(flag) {
				*field, _ = cmd.Flags().GetString(flag)
				contactChanged = true
			}
		}

		// reject the whole edit before the first save
		draft := *client
		draft.Rename(name)
		draft.SetContact(contact)
		if err := draft.Validate(); err != nil {
			return err
		}

		if cmd.Flags().Changed("name") {
			if client, err = appInstance.ClientService.Rename(ctx, client.ID, name); err != nil {
				return err
			}
		}
		if contactChanged {
			if client, err = appInstance.ClientService.UpdateContact(ctx, client.ID, contact); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("notes") {
			if client, err = appInstance.ClientService.UpdateNotes(ctx, client.ID, notes); err != nil {
				return err
			}
		}

		fmt.Printf("✓ Client updated: %s\n", client.Name)
		return nil
	},
}

var clientsDeleteCmd = &cobra.Command{
	Use:   "delete [id_or_name]",
	Short: "Delete a client (existing invoices are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		client, err := appInstance.ClientService.Find(ctx, args[0])
		if err != nil {
			return err
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirmPrompt(fmt.Sprintf("Delete client %s?", client.Name)) {
			fmt.Println("Cancelled.")
			return nil
		}

		if err := appInstance.ClientService.Delete(ctx, client.ID); err != nil {
			return err
		}

		fmt.Printf("✓ Client deleted: %s\n", client.Name)
		return nil
	},
}

func init() {
	clientsCmd.AddCommand(clientsListCmd)
	clientsCmd.AddCommand(clientsAddCmd)
	clientsCmd.AddCommand(clientsShowCmd)
	clientsCmd.AddCommand(clientsEditCmd)
	clientsCmd.AddCommand(clientsDeleteCmd)

	// Add flags
	clientsAddCmd.Flags().String("email", "", "Client email")
	clientsAddCmd.Flags().String("phone", "", "Client phone")
	clientsAddCmd.Flags().String("address", "", "Postal address")
	clientsAddCmd.Flags().String("notes", "", "Notes about the client")

	// Edit flags
	clientsEditCmd.Flags().String("name", "", "New name")
	clientsEditCmd.Flags().String("email", "", "New email")
	clientsEditCmd.Flags().String("phone", "", "New phone")
	clientsEditCmd.Flags().String("address", "", "New address")
	clientsEditCmd.Flags().String("notes", "", "New notes")

	clientsDeleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
}
